package httpclient

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"
)

// DefaultTimeout is the per-request timeout used when none is set.
const DefaultTimeout = 60 * time.Second

// QueryItem is one query parameter. Order is preserved on the wire.
type QueryItem struct {
	Name  string
	Value string
}

// Request describes one HTTP exchange. It is built by RequestBuilder and
// never changes afterwards; accessors return copies.
type Request struct {
	id         string
	endpoint   string
	method     Method
	headers    map[string]string
	parameters []QueryItem
	body       map[string]any
	timeout    time.Duration
	dates      DateDecoding
}

// ID is the unique identifier generated when the request was built.
func (r *Request) ID() string { return r.id }

// Name is a short label such as "[GET] movie/popular".
func (r *Request) Name() string {
	return fmt.Sprintf("[%s] %s", strings.ToUpper(string(r.method)), strings.ToLower(r.endpoint))
}

// Endpoint is the resource path, resolved against a base URL when sent.
func (r *Request) Endpoint() string { return r.endpoint }

func (r *Request) Method() Method { return r.method }

func (r *Request) Headers() map[string]string { return maps.Clone(r.headers) }

func (r *Request) Parameters() []QueryItem { return slices.Clone(r.parameters) }

// Body returns the content map. It is only sent for non-GET methods.
func (r *Request) Body() map[string]any { return maps.Clone(r.body) }

func (r *Request) Timeout() time.Duration { return r.timeout }

func (r *Request) DateDecoding() DateDecoding { return r.dates }

// DataFormat is FormatForm when any header value is the form MIME type,
// otherwise FormatJSON.
func (r *Request) DataFormat() DataFormat {
	for _, v := range r.headers {
		if v == MimeForm {
			return FormatForm
		}
	}
	return FormatJSON
}

func (r *Request) String() string {
	return r.Name()
}
