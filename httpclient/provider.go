package httpclient

import (
	"context"
	"mime"
	"net/http"
	"net/url"
	"time"
)

// OutgoingRequest is the fully resolved request handed to a Provider.
type OutgoingRequest struct {
	ID      string
	Name    string
	Method  Method
	URL     *url.URL
	Header  http.Header
	Body    []byte
	Timeout time.Duration
}

// RawResponse is what a Provider returns for one exchange.
type RawResponse struct {
	StatusCode    int
	Header        http.Header
	Body          []byte
	URL           *url.URL
	ContentLength int64
}

// MimeType returns the media type of the Content-Type header without
// parameters.
func (r *RawResponse) MimeType() string {
	if r == nil {
		return ""
	}
	ct := r.Header.Get("Content-Type")
	if ct == "" {
		return ""
	}
	mt, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return ct
	}
	return mt
}

// Provider performs exchanges on behalf of a Session. Implementations must
// be safe for concurrent use.
type Provider interface {
	// Perform executes one exchange. A nil response with a nil error is
	// reported to the caller as a bad response.
	Perform(ctx context.Context, req *OutgoingRequest) (*RawResponse, error)
	// Flush releases transient state such as idle connections and cookies.
	Flush(ctx context.Context)
	// CancelAll aborts every in-flight exchange and rejects new ones.
	CancelAll()
	// FinishAndInvalidate lets in-flight exchanges complete and rejects new ones.
	FinishAndInvalidate()
}
