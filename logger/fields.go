package logger

import (
	"time"
)

// Standard field key constants for structured logging.
const (
	FieldComponent   = "component"
	FieldTraceID     = "trace_id"
	FieldSpanID      = "span_id"
	FieldRequestID   = "request_id"
	FieldRequestName = "request_name"
	FieldMethod      = "method"
	FieldURL         = "url"
	FieldHost        = "host"
	FieldStatusCode  = "status_code"
	FieldErrorKind   = "error_kind"
	FieldErrorCode   = "error_code"
	FieldAttempt     = "attempt"
	FieldOperation   = "operation"
	FieldError       = "error"
	FieldDuration    = "duration_ms"
)

// Fields builds a map[string]interface{} from alternating key-value pairs.
//
//	logger.Info("sent", logger.Fields("method", "GET", "status_code", 200))
func Fields(kvs ...interface{}) map[string]interface{} {
	m := make(map[string]interface{}, len(kvs)/2)
	for i := 0; i < len(kvs)-1; i += 2 {
		if key, ok := kvs[i].(string); ok {
			m[key] = kvs[i+1]
		}
	}
	return m
}

// ErrorFields creates fields for an operation that failed.
func ErrorFields(op string, err error) map[string]interface{} {
	return map[string]interface{}{
		FieldOperation: op,
		FieldError:     err.Error(),
	}
}

// ExchangeFields creates the fields logged for one request/response pair.
// A zero status is left out.
func ExchangeFields(requestID, method, url string, status int, d time.Duration) map[string]interface{} {
	fields := map[string]interface{}{
		FieldRequestID: requestID,
		FieldMethod:    method,
		FieldURL:       url,
		FieldDuration:  d.Milliseconds(),
	}
	if status != 0 {
		fields[FieldStatusCode] = status
	}
	return fields
}

// MergeWithError adds an error field to an existing map.
func MergeWithError(fields map[string]interface{}, err error) map[string]interface{} {
	if fields == nil {
		fields = make(map[string]interface{})
	}
	fields[FieldError] = err.Error()
	return fields
}
