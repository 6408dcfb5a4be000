package httpclient

import (
	"fmt"
	"maps"
	"slices"
	"sort"
	"time"

	"github.com/google/uuid"
)

// RequestBuilder accumulates the parts of a Request. Every method returns
// a new builder, so a partially configured builder can be shared as a
// template:
//
//	popular := httpclient.NewRequestBuilder().
//	    Resource("movie/popular").
//	    Parameter("api_key", key)
//	req := popular.Parameter("language", "en-US").Build()
type RequestBuilder struct {
	endpoint   string
	method     Method
	headers    map[string]string
	parameters []QueryItem
	body       map[string]any
	timeout    time.Duration
	dates      DateDecoding
}

// NewRequestBuilder returns a builder for a GET request with the default
// timeout and date decoding.
func NewRequestBuilder() RequestBuilder {
	return RequestBuilder{
		method:  MethodGet,
		timeout: DefaultTimeout,
		dates:   DatesRFC3339,
	}
}

// Resource sets the endpoint.
func (b RequestBuilder) Resource(endpoint string) RequestBuilder {
	b.endpoint = endpoint
	return b
}

// Using sets the method.
func (b RequestBuilder) Using(method Method) RequestBuilder {
	b.method = method
	return b
}

// Parameter sets one query parameter. An existing key keeps its position.
func (b RequestBuilder) Parameter(key string, value any) RequestBuilder {
	item := QueryItem{Name: key, Value: fmt.Sprint(value)}
	params := slices.Clone(b.parameters)
	if i := slices.IndexFunc(params, func(q QueryItem) bool { return q.Name == key }); i >= 0 {
		params[i] = item
	} else {
		params = append(params, item)
	}
	b.parameters = params
	return b
}

// Parameters replaces all query parameters, in key order. An empty map is
// ignored.
func (b RequestBuilder) Parameters(values map[string]any) RequestBuilder {
	if len(values) == 0 {
		return b
	}
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	params := make([]QueryItem, 0, len(keys))
	for _, k := range keys {
		params = append(params, QueryItem{Name: k, Value: fmt.Sprint(values[k])})
	}
	b.parameters = params
	return b
}

// Header sets a well-known header.
func (b RequestBuilder) Header(key Header, value string) RequestBuilder {
	return b.setHeader(string(key), value)
}

// CustomHeader sets an arbitrary header. An empty key is ignored.
func (b RequestBuilder) CustomHeader(key, value string) RequestBuilder {
	if key == "" {
		return b
	}
	return b.setHeader(key, value)
}

func (b RequestBuilder) setHeader(key, value string) RequestBuilder {
	headers := maps.Clone(b.headers)
	if headers == nil {
		headers = make(map[string]string)
	}
	headers[key] = value
	b.headers = headers
	return b
}

// BodyValue sets one entry of the body content map.
func (b RequestBuilder) BodyValue(key string, value any) RequestBuilder {
	body := maps.Clone(b.body)
	if body == nil {
		body = make(map[string]any)
	}
	body[key] = value
	b.body = body
	return b
}

// Body replaces the body content map.
func (b RequestBuilder) Body(content map[string]any) RequestBuilder {
	b.body = maps.Clone(content)
	return b
}

// TimeoutAt sets the per-request timeout.
func (b RequestBuilder) TimeoutAt(d time.Duration) RequestBuilder {
	b.timeout = d
	return b
}

// DateDecoding sets how dates in the response body are decoded.
func (b RequestBuilder) DateDecoding(policy DateDecoding) RequestBuilder {
	b.dates = policy
	return b
}

// Build returns the request. It panics when no endpoint was set, since
// that can only be a programming mistake.
func (b RequestBuilder) Build() *Request {
	if b.endpoint == "" {
		panic("httpclient: an endpoint for a resource cannot be empty")
	}
	if b.method == "" {
		b.method = MethodGet
	}
	if b.timeout <= 0 {
		b.timeout = DefaultTimeout
	}
	return &Request{
		id:         uuid.NewString(),
		endpoint:   b.endpoint,
		method:     b.method,
		headers:    maps.Clone(b.headers),
		parameters: slices.Clone(b.parameters),
		body:       maps.Clone(b.body),
		timeout:    b.timeout,
		dates:      b.dates,
	}
}
