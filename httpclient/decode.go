package httpclient

import (
	"bytes"
	"fmt"
)

// DecodeError reports a response body that could not be decoded into the
// requested model. The exchange itself succeeded.
type DecodeError struct {
	RequestID string
	URL       string
	Err       error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("httpclient: decoding response from %s: %v", e.URL, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// DecodeJSON decodes data into a T using the date policy. An empty body
// yields the zero T. A *[]byte target receives the raw bytes.
func DecodeJSON[T any](data []byte, dates DateDecoding) (T, error) {
	var out T
	if raw, ok := any(&out).(*[]byte); ok {
		*raw = bytes.Clone(data)
		return out, nil
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return out, nil
	}
	if err := apiFor(dates).Unmarshal(data, &out); err != nil {
		return out, err
	}
	return out, nil
}
