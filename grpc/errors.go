package grpc

import (
	"context"
	stderrors "errors"
	"strings"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	apperrors "github.com/kbukum/vetta/errors"
)

// FromStatus converts a gRPC error to an AppError.
//
// Connection-level failures become CONNECTION_FAILED. Every other status is a
// service error that keeps the remote code and message verbatim.
func FromStatus(err error, serviceName string) *apperrors.AppError {
	if err == nil {
		return nil
	}
	if appErr, ok := apperrors.AsAppError(err); ok {
		return appErr
	}
	if stderrors.Is(err, context.Canceled) {
		return apperrors.Cancelled(err)
	}

	st, ok := status.FromError(err)
	if !ok {
		if IsConnectionError(err) {
			return apperrors.ConnectionFailed(serviceName).WithCause(err)
		}
		return apperrors.Internal(err)
	}

	switch st.Code() {
	case codes.OK:
		return nil
	case codes.Unavailable:
		return apperrors.ConnectionFailed(serviceName).WithCause(err)
	case codes.Canceled:
		return apperrors.Cancelled(err)
	default:
		return apperrors.Service(st.Code().String(), st.Message()).WithCause(err)
	}
}

// ToStatus converts an AppError to a gRPC status error.
func ToStatus(appErr *apperrors.AppError) error {
	if appErr == nil {
		return nil
	}

	var code codes.Code
	switch appErr.Code {
	case apperrors.ErrCodeFileNotFound, apperrors.ErrCodeAudioFileNotFound:
		code = codes.NotFound
	case apperrors.ErrCodeInvalidInput, apperrors.ErrCodeInvalidFormat, apperrors.ErrCodeUnknownType,
		apperrors.ErrCodeFileEmpty, apperrors.ErrCodeFileTooLarge:
		code = codes.InvalidArgument
	case apperrors.ErrCodeConflict:
		code = codes.FailedPrecondition
	case apperrors.ErrCodeConnectionFailed, apperrors.ErrCodeEndpointNotFound:
		code = codes.Unavailable
	case apperrors.ErrCodeService:
		code = codeFromName(appErr.Details["status_code"])
	default:
		code = codes.Internal
	}
	return status.Error(code, appErr.Message)
}

func codeFromName(v any) codes.Code {
	name, _ := v.(string)
	for c := codes.OK; c <= codes.Unauthenticated; c++ {
		if c.String() == name {
			return c
		}
	}
	return codes.Unknown
}

// IsConnectionError checks if an error indicates a connection failure.
func IsConnectionError(err error) bool {
	if err == nil {
		return false
	}
	errStr := strings.ToLower(err.Error())
	patterns := []string{
		"connection refused",
		"connection reset",
		"no such file or directory",
		"error while dialing",
		"transport is closing",
		"connection closed",
		"broken pipe",
	}
	for _, p := range patterns {
		if strings.Contains(errStr, p) {
			return true
		}
	}
	return false
}
