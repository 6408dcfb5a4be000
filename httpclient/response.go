package httpclient

import (
	"net/http"

	gerrors "github.com/insha/gopher/errors"
)

// Response is the classified result of one exchange.
type Response struct {
	RequestID     string
	URL           string
	StatusCode    int
	Headers       map[string]string
	MimeType      string
	ContentLength int64
	Body          []byte
	// Err is set when the status code was classified as a failure.
	Err *gerrors.RequestError
}

// IsSuccess reports whether the status code was accepted.
func (r *Response) IsSuccess() bool {
	return r != nil && r.Err == nil
}

func newResponse(requestID, url string, raw *RawResponse) *Response {
	return &Response{
		RequestID:     requestID,
		URL:           url,
		StatusCode:    raw.StatusCode,
		Headers:       flattenHeaders(raw.Header),
		MimeType:      raw.MimeType(),
		ContentLength: raw.ContentLength,
		Body:          raw.Body,
	}
}

// flattenHeaders converts multi-value headers to single-value.
func flattenHeaders(h http.Header) map[string]string {
	result := make(map[string]string, len(h))
	for k, v := range h {
		if len(v) > 0 {
			result[k] = v[0]
		}
	}
	return result
}
