package earnings

import (
	"fmt"
	"testing"

	apperrors "github.com/kbukum/vetta/errors"
)

func TestStageError(t *testing.T) {
	cause := apperrors.EndpointNotFound("/tmp/whisper.sock")
	err := fmt.Errorf("run: %w", &StageError{Stage: StageConnect, Err: cause})

	stage, ok := StageOf(err)
	if !ok || stage != StageConnect {
		t.Fatalf("StageOf = %q, %v", stage, ok)
	}
	if !apperrors.IsCode(err, apperrors.ErrCodeEndpointNotFound) {
		t.Error("expected the AppError to be reachable through the stage error")
	}
	if got := (&StageError{Stage: StageStream, Err: fmt.Errorf("boom")}).Error(); got != "stream: boom" {
		t.Errorf("unexpected message %q", got)
	}
	if _, ok := StageOf(fmt.Errorf("plain")); ok {
		t.Error("plain errors carry no stage")
	}
}
