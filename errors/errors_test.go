package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestAppError_New_Success(t *testing.T) {
	err := New(ErrCodeFileEmpty, "empty")
	if err.Code != ErrCodeFileEmpty {
		t.Errorf("expected code %s, got %s", ErrCodeFileEmpty, err.Code)
	}
	if err.Message != "empty" {
		t.Errorf("expected message 'empty', got %q", err.Message)
	}
	if err.Retryable {
		t.Error("FILE_EMPTY should not be retryable")
	}
}

func TestAppError_New_Retryable(t *testing.T) {
	err := New(ErrCodeConnectionFailed, "refused")
	if !err.Retryable {
		t.Error("CONNECTION_FAILED should be marked retryable")
	}
}

func TestAppError_FileTooLarge_Details(t *testing.T) {
	err := FileTooLarge(500, 501)
	if err.Code != ErrCodeFileTooLarge {
		t.Errorf("expected FILE_TOO_LARGE, got %s", err.Code)
	}
	if err.Details["limit_mb"] != uint64(500) {
		t.Errorf("expected limit_mb=500, got %v", err.Details["limit_mb"])
	}
	if err.Details["got_mb"] != uint64(501) {
		t.Errorf("expected got_mb=501, got %v", err.Details["got_mb"])
	}
	if !strings.Contains(err.Message, "Limit is 500MB. Got: 501MB") {
		t.Errorf("unexpected message %q", err.Message)
	}
}

func TestAppError_InvalidFormat_Details(t *testing.T) {
	err := InvalidFormat("application/pdf", []string{"audio/mpeg"})
	if err.Details["mime_type"] != "application/pdf" {
		t.Errorf("expected mime_type=application/pdf, got %v", err.Details["mime_type"])
	}
	if !strings.Contains(err.Message, "application/pdf") {
		t.Errorf("message should name the detected type, got %q", err.Message)
	}
}

func TestAppError_Service_VerbatimMessage(t *testing.T) {
	err := Service("InvalidArgument", "num_speakers out of range")
	if err.Message != "num_speakers out of range" {
		t.Errorf("service message must be verbatim, got %q", err.Message)
	}
	if err.Details["status_code"] != "InvalidArgument" {
		t.Errorf("expected status_code detail, got %v", err.Details["status_code"])
	}
}

func TestAppError_WithCause_Chain(t *testing.T) {
	cause := fmt.Errorf("root cause")
	err := ConnectionFailed("whisper").WithCause(cause)
	if err.Cause != cause {
		t.Error("expected cause to be set via WithCause")
	}
	if !strings.Contains(err.Error(), "root cause") {
		t.Errorf("Error() should contain cause, got %q", err.Error())
	}
	if !stderrors.Is(err, cause) {
		t.Error("errors.Is should see through Unwrap")
	}
}

func TestAppError_WithDetails_Merge(t *testing.T) {
	err := Conflict("busy").WithDetails(map[string]any{"a": 1}).WithDetail("b", 2)
	if err.Details["a"] != 1 || err.Details["b"] != 2 {
		t.Errorf("expected merged details, got %v", err.Details)
	}
}

func TestClassOf_Table(t *testing.T) {
	tests := []struct {
		code ErrorCode
		want Class
	}{
		{ErrCodeFileNotFound, ClassInput},
		{ErrCodeFileEmpty, ClassInput},
		{ErrCodeFileTooLarge, ClassInput},
		{ErrCodeInvalidFormat, ClassInput},
		{ErrCodeUnknownType, ClassInput},
		{ErrCodeAudioFileNotFound, ClassInput},
		{ErrCodeEndpointNotFound, ClassTransport},
		{ErrCodeConnectionFailed, ClassTransport},
		{ErrCodeService, ClassService},
		{ErrCodeInternal, ClassInternal},
		{ErrorCode("SOMETHING_ELSE"), ClassInternal},
	}

	for _, tc := range tests {
		t.Run(string(tc.code), func(t *testing.T) {
			if got := ClassOf(tc.code); got != tc.want {
				t.Errorf("ClassOf(%s) = %s, want %s", tc.code, got, tc.want)
			}
		})
	}
}

func TestAppError_Constructors_Table(t *testing.T) {
	tests := []struct {
		name      string
		err       *AppError
		code      ErrorCode
		retryable bool
	}{
		{"FileNotFound", FileNotFound("/x"), ErrCodeFileNotFound, false},
		{"FileEmpty", FileEmpty("/x"), ErrCodeFileEmpty, false},
		{"UnknownType", UnknownType("/x"), ErrCodeUnknownType, false},
		{"AudioFileNotFound", AudioFileNotFound("/x"), ErrCodeAudioFileNotFound, false},
		{"EndpointNotFound", EndpointNotFound("/tmp/whisper.sock"), ErrCodeEndpointNotFound, false},
		{"ConnectionFailed", ConnectionFailed("whisper"), ErrCodeConnectionFailed, true},
		{"InvalidInput", InvalidInput("year", "out of range"), ErrCodeInvalidInput, false},
		{"Validation", Validation("bad input"), ErrCodeInvalidInput, false},
		{"Conflict", Conflict("already streaming"), ErrCodeConflict, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.err.Code != tc.code {
				t.Errorf("expected code %s, got %s", tc.code, tc.err.Code)
			}
			if tc.err.Retryable != tc.retryable {
				t.Errorf("expected retryable=%v, got %v", tc.retryable, tc.err.Retryable)
			}
		})
	}
}

func TestAppError_IsAppError_Success(t *testing.T) {
	appErr := FileEmpty("/x")
	if !IsAppError(appErr) {
		t.Error("expected IsAppError to return true for AppError")
	}

	wrapped := fmt.Errorf("wrapped: %w", appErr)
	if !IsAppError(wrapped) {
		t.Error("expected IsAppError to return true for wrapped AppError")
	}

	if IsAppError(fmt.Errorf("plain error")) {
		t.Error("expected IsAppError to return false for plain error")
	}
}

func TestIsCode(t *testing.T) {
	wrapped := fmt.Errorf("outer: %w", EndpointNotFound("/tmp/x.sock"))
	if !IsCode(wrapped, ErrCodeEndpointNotFound) {
		t.Error("expected IsCode to match wrapped code")
	}
	if IsCode(wrapped, ErrCodeConnectionFailed) {
		t.Error("expected IsCode to reject other codes")
	}
	if IsCode(nil, ErrCodeEndpointNotFound) {
		t.Error("expected IsCode(nil) to be false")
	}
}

func TestWrap_NilReturnsNil(t *testing.T) {
	if Wrap(nil) != nil {
		t.Error("Wrap(nil) should return nil")
	}
}

func TestWrap_WrappedAppError(t *testing.T) {
	orig := FileNotFound("/a.mp3")
	got := Wrap(fmt.Errorf("outer: %w", orig))
	if got != orig {
		t.Error("Wrap should return the wrapped AppError unchanged")
	}
}

func TestWrap_PlainError(t *testing.T) {
	plain := fmt.Errorf("something broke")
	got := Wrap(plain)
	if got.Code != ErrCodeInternal {
		t.Errorf("expected INTERNAL_ERROR, got %s", got.Code)
	}
	if got.Cause != plain {
		t.Error("expected cause to be the original error")
	}
}
