package logger

import (
	"errors"
	"time"
)

// Standard field key constants for structured logging.
const (
	FieldComponent = "component"
	FieldTraceID   = "trace_id"
	FieldSpanID    = "span_id"
	FieldRunID     = "run_id"
	FieldStage     = "stage"
	FieldEndpoint  = "endpoint"
	FieldPath      = "path"
	FieldMIMEType  = "mime_type"
	FieldSizeMB    = "size_mb"
	FieldTicker    = "ticker"
	FieldPeriod    = "period"
	FieldSegments  = "segments"
	FieldCode      = "code"
	FieldOperation = "operation"
	FieldError     = "error"
	FieldDuration  = "duration_ms"
)

// Fields builds a map[string]interface{} from alternating key-value pairs.
//
//	logger.Info("chunk", logger.Fields("start", 1.5, "end", 3.0))
func Fields(kvs ...interface{}) map[string]interface{} {
	m := make(map[string]interface{}, len(kvs)/2)
	for i := 0; i < len(kvs)-1; i += 2 {
		if key, ok := kvs[i].(string); ok {
			m[key] = kvs[i+1]
		}
	}
	return m
}

// ErrorFields creates fields for an operation that failed. Error codes of
// coded errors are added under FieldCode.
func ErrorFields(op string, err error) map[string]interface{} {
	fields := map[string]interface{}{
		FieldOperation: op,
		FieldError:     err.Error(),
	}
	var coded interface{ ErrorCode() string }
	if errors.As(err, &coded) {
		fields[FieldCode] = coded.ErrorCode()
	}
	return fields
}

// DurationFields creates fields for a timed operation.
func DurationFields(op string, d time.Duration) map[string]interface{} {
	return map[string]interface{}{
		FieldOperation: op,
		FieldDuration:  d.Milliseconds(),
	}
}

// MergeWithError adds an error field to an existing map.
func MergeWithError(fields map[string]interface{}, err error) map[string]interface{} {
	if fields == nil {
		fields = make(map[string]interface{})
	}
	fields[FieldError] = err.Error()
	return fields
}

// MergeWithDuration adds a duration field to an existing map.
func MergeWithDuration(fields map[string]interface{}, d time.Duration) map[string]interface{} {
	if fields == nil {
		fields = make(map[string]interface{})
	}
	fields[FieldDuration] = d.Milliseconds()
	return fields
}
