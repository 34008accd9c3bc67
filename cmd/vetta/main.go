// Command vetta ingests earnings-call recordings and streams them through a
// local speech-to-text service.
package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		var rep reportedError
		if !stderrors.As(err, &rep) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}

// reportedError marks an error the command already rendered.
type reportedError struct{ error }

func (e reportedError) Unwrap() error { return e.error }
