package earnings

import (
	stderrors "errors"
	"fmt"
)

// Stage names a step of a run.
type Stage string

const (
	StageValidation Stage = "validation"
	StageConnect    Stage = "connect"
	StageStream     Stage = "stream"
)

// StageError tags a run failure with the stage that produced it. Err is
// kept as returned by the stage, usually an *errors.AppError.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// StageOf returns the stage err was raised in.
func StageOf(err error) (Stage, bool) {
	var se *StageError
	if stderrors.As(err, &se) {
		return se.Stage, true
	}
	return "", false
}
