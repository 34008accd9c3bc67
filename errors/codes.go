package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Input errors: raised before any network activity.
const (
	// ErrCodeFileNotFound indicates the media file does not exist.
	ErrCodeFileNotFound ErrorCode = "FILE_NOT_FOUND"
	// ErrCodeFileEmpty indicates the media file has zero bytes.
	ErrCodeFileEmpty ErrorCode = "FILE_EMPTY"
	// ErrCodeFileTooLarge indicates the media file exceeds the size ceiling.
	ErrCodeFileTooLarge ErrorCode = "FILE_TOO_LARGE"
	// ErrCodeInvalidFormat indicates the sniffed content type is not allowed.
	ErrCodeInvalidFormat ErrorCode = "INVALID_FORMAT"
	// ErrCodeUnknownType indicates no content signature matched.
	ErrCodeUnknownType ErrorCode = "UNKNOWN_TYPE"
	// ErrCodeInvalidInput indicates the input is invalid.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	// ErrCodeAudioFileNotFound indicates the audio path vanished between validation and the call.
	ErrCodeAudioFileNotFound ErrorCode = "AUDIO_FILE_NOT_FOUND"
)

// Transport errors: fatal for the current run, never reconnected implicitly.
const (
	// ErrCodeEndpointNotFound indicates no listener exists at the local endpoint path.
	ErrCodeEndpointNotFound ErrorCode = "ENDPOINT_NOT_FOUND"
	// ErrCodeConnectionFailed indicates a failed connection to a service.
	ErrCodeConnectionFailed ErrorCode = "CONNECTION_FAILED"
)

// Service errors: reported by the remote speech service.
const (
	// ErrCodeService indicates a status reported by the remote service.
	ErrCodeService ErrorCode = "SERVICE_ERROR"
)

// Internal errors
const (
	// ErrCodeConflict indicates an operation conflicting with the current state.
	ErrCodeConflict ErrorCode = "CONFLICT"
	// ErrCodeInternal indicates an unexpected local failure.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// Class groups error codes into failure domains.
type Class string

const (
	ClassInput     Class = "input"
	ClassTransport Class = "transport"
	ClassService   Class = "service"
	ClassInternal  Class = "internal"
)

var codeClasses = map[ErrorCode]Class{
	ErrCodeFileNotFound:      ClassInput,
	ErrCodeFileEmpty:         ClassInput,
	ErrCodeFileTooLarge:      ClassInput,
	ErrCodeInvalidFormat:     ClassInput,
	ErrCodeUnknownType:       ClassInput,
	ErrCodeInvalidInput:      ClassInput,
	ErrCodeAudioFileNotFound: ClassInput,
	ErrCodeEndpointNotFound:  ClassTransport,
	ErrCodeConnectionFailed:  ClassTransport,
	ErrCodeService:           ClassService,
	ErrCodeConflict:          ClassInternal,
	ErrCodeInternal:          ClassInternal,
}

// ClassOf returns the failure domain of a code. Unknown codes are internal.
func ClassOf(code ErrorCode) Class {
	if c, ok := codeClasses[code]; ok {
		return c
	}
	return ClassInternal
}

var retryableCodes = map[ErrorCode]bool{
	ErrCodeConnectionFailed: true,
	ErrCodeService:          false,
	ErrCodeEndpointNotFound: false,
}

// IsRetryableCode reports whether a caller could reasonably retry after this code.
// Nothing in this module retries on its own.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}
