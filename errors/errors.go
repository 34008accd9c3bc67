package errors

import (
	stderrors "errors"
	"fmt"
)

// AppError is the unified application error type.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Retryable indicates if the operation can be retried.
	Retryable bool `json:"retryable"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// ErrorCode returns the code as a plain string.
func (e *AppError) ErrorCode() string { return string(e.Code) }

// Class returns the failure domain of the error.
func (e *AppError) Class() Class { return ClassOf(e.Code) }

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetails merges the provided details into the error and returns the receiver.
func (e *AppError) WithDetails(details map[string]any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError with automatic retryable detection.
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:      code,
		Message:   message,
		Retryable: IsRetryableCode(code),
	}
}

// --- Input errors ---

// FileNotFound creates an error for a media path that does not exist.
func FileNotFound(path string) *AppError {
	return &AppError{
		Code: ErrCodeFileNotFound, Message: fmt.Sprintf("File not found: %s", path),
		Details: map[string]any{"path": path},
	}
}

// FileEmpty creates an error for a zero-byte media file.
func FileEmpty(path string) *AppError {
	return &AppError{
		Code: ErrCodeFileEmpty, Message: "File is empty",
		Details: map[string]any{"path": path},
	}
}

// FileTooLarge creates an error for a file above the size ceiling. Both sizes are in MB.
func FileTooLarge(limitMB, gotMB uint64) *AppError {
	return &AppError{
		Code: ErrCodeFileTooLarge, Message: fmt.Sprintf("File too large. Limit is %dMB. Got: %dMB", limitMB, gotMB),
		Details: map[string]any{"limit_mb": limitMB, "got_mb": gotMB},
	}
}

// InvalidFormat creates an error for a sniffed content type outside the allow-list.
func InvalidFormat(mimeType string, allowed []string) *AppError {
	return &AppError{
		Code: ErrCodeInvalidFormat, Message: fmt.Sprintf("Invalid format: %s. Allowed: %v", mimeType, allowed),
		Details: map[string]any{"mime_type": mimeType, "allowed": allowed},
	}
}

// UnknownType creates an error for content that matched no known signature.
func UnknownType(path string) *AppError {
	return &AppError{
		Code: ErrCodeUnknownType, Message: "Could not determine file type",
		Details: map[string]any{"path": path},
	}
}

// InvalidInput creates a new AppError for invalid input.
func InvalidInput(field, reason string) *AppError {
	details := make(map[string]any)
	if field != "" {
		details["field"] = field
	}
	return &AppError{
		Code: ErrCodeInvalidInput, Message: fmt.Sprintf("Invalid input: %s", reason),
		Details: details,
	}
}

// Validation creates a new AppError for validation errors.
func Validation(message string) *AppError {
	return &AppError{Code: ErrCodeInvalidInput, Message: message}
}

// AudioFileNotFound creates an error for an audio path missing at call time.
func AudioFileNotFound(path string) *AppError {
	return &AppError{
		Code: ErrCodeAudioFileNotFound, Message: fmt.Sprintf("Audio file not found: %s", path),
		Details: map[string]any{"path": path},
	}
}

// --- Transport errors ---

// EndpointNotFound creates an error for a missing local endpoint (socket path).
func EndpointNotFound(endpoint string) *AppError {
	return &AppError{
		Code: ErrCodeEndpointNotFound, Message: fmt.Sprintf("Socket not found: %s", endpoint),
		Details: map[string]any{"endpoint": endpoint},
	}
}

// ConnectionFailed creates a new AppError for a failed connection to a service.
func ConnectionFailed(service string) *AppError {
	return &AppError{
		Code: ErrCodeConnectionFailed, Message: fmt.Sprintf("Unable to connect to %s. Please verify the service is running.", service),
		Retryable: true,
		Details:   map[string]any{"service": service},
	}
}

// --- Service errors ---

// Service creates an error carrying a remote status code and message verbatim.
func Service(statusCode, message string) *AppError {
	return &AppError{
		Code: ErrCodeService, Message: message,
		Details: map[string]any{"status_code": statusCode},
	}
}

// --- Internal errors ---

// Conflict creates a new AppError for an operation conflicting with current state.
func Conflict(reason string) *AppError {
	return &AppError{Code: ErrCodeConflict, Message: reason}
}

// Cancelled creates an internal error for work abandoned through context cancellation.
func Cancelled(cause error) *AppError {
	return &AppError{Code: ErrCodeInternal, Message: "The request was cancelled.", Cause: cause}
}

// Internal creates a new AppError for an unexpected failure.
func Internal(cause error) *AppError {
	return &AppError{
		Code: ErrCodeInternal, Message: "An unexpected error occurred.",
		Cause: cause,
	}
}

// IsAppError checks if an error is an AppError.
func IsAppError(err error) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr)
}

// AsAppError converts an error to an AppError if possible.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsCode reports whether err is (or wraps) an AppError with the given code.
func IsCode(err error, code ErrorCode) bool {
	appErr, ok := AsAppError(err)
	return ok && appErr.Code == code
}

// Wrap converts any error into an AppError. AppErrors anywhere in the chain
// are returned as-is; other errors become internal errors.
func Wrap(err error) *AppError {
	if err == nil {
		return nil
	}
	if appErr, ok := AsAppError(err); ok {
		return appErr
	}
	return Internal(err)
}
