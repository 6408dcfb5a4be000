package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// RequestError is the classified failure of a single HTTP exchange.
type RequestError struct {
	// Kind is the taxonomy entry; its value is the error code.
	Kind Kind `json:"kind"`
	// StatusCode is the HTTP status of the response, or NoStatus.
	StatusCode int `json:"status_code"`
	// Message is a human-readable description.
	Message string `json:"message"`
	// Domain attributes the failure to the client or the server.
	Domain Domain `json:"domain"`
	// RelatedURL is the URL of the exchange, when known.
	RelatedURL string `json:"related_url,omitempty"`
	// Cause is the underlying error, if any.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *RequestError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%d)", e.Kind, e.Kind.Code())
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Cause != nil {
		fmt.Fprintf(&b, " (cause: %v)", e.Cause)
	}
	return b.String()
}

// Unwrap returns the underlying cause of the error.
func (e *RequestError) Unwrap() error { return e.Cause }

// Is matches a Kind sentinel or another RequestError of the same kind.
func (e *RequestError) Is(target error) bool {
	switch t := target.(type) {
	case Kind:
		return e.Kind == t
	case *RequestError:
		return t != nil && e.Kind == t.Kind
	}
	return false
}

// Code returns the stable numeric code of the error's kind.
func (e *RequestError) Code() int { return e.Kind.Code() }

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *RequestError) WithCause(cause error) *RequestError {
	e.Cause = cause
	return e
}

// WithURL sets the related URL and returns the receiver.
func (e *RequestError) WithURL(url string) *RequestError {
	e.RelatedURL = url
	return e
}

// WithMessage replaces the message and returns the receiver.
func (e *RequestError) WithMessage(msg string) *RequestError {
	e.Message = msg
	return e
}

// Describe renders a multi-line report of the error.
func (e *RequestError) Describe() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Code       : %d\n", e.Kind.Code())
	fmt.Fprintf(&b, "Kind       : %s\n", e.Kind)
	fmt.Fprintf(&b, "Domain     : %s\n", e.Domain)
	if e.StatusCode != NoStatus {
		fmt.Fprintf(&b, "Status     : %d\n", e.StatusCode)
	}
	fmt.Fprintf(&b, "Message    : %s\n", e.Message)
	if e.RelatedURL != "" {
		fmt.Fprintf(&b, "URL        : %s\n", e.RelatedURL)
	}
	if e.Cause != nil {
		fmt.Fprintf(&b, "Cause      : %v\n", e.Cause)
	}
	return b.String()
}

// New creates a RequestError without an HTTP status.
func New(kind Kind, domain Domain, message string) *RequestError {
	return &RequestError{
		Kind:       kind,
		StatusCode: NoStatus,
		Message:    message,
		Domain:     domain,
	}
}

// --- Common Error Constructors ---

// InvalidURL creates an error for a URL that could not be formed.
func InvalidURL(url string, cause error) *RequestError {
	return &RequestError{
		Kind: KindInvalidURL, StatusCode: NoStatus, Domain: DomainClient,
		Message: "The URL of the request is invalid.", RelatedURL: url, Cause: cause,
	}
}

// BadResponse creates an error for an exchange that produced no usable response.
func BadResponse(url string) *RequestError {
	return &RequestError{
		Kind: KindBadResponse, StatusCode: NoStatus, Domain: DomainServer,
		Message: "The server did not return a response.", RelatedURL: url,
	}
}

// MaximumRetriesReached creates the error returned once a retry budget is spent.
func MaximumRetriesReached(url string) *RequestError {
	return &RequestError{
		Kind: KindMaximumRetriesReached, StatusCode: NoStatus, Domain: DomainServer,
		Message: "The request was tried and failed maximum number of times.", RelatedURL: url,
	}
}

// ServerNotAvailable creates an error for an exchange that could not be started.
func ServerNotAvailable(url string, cause error) *RequestError {
	return &RequestError{
		Kind: KindServerNotAvailable, StatusCode: NoStatus, Domain: DomainClient,
		Message: "The network service is not available.", RelatedURL: url, Cause: cause,
	}
}

// --- Inspection helpers ---

// AsRequestError returns the first RequestError in err's chain.
func AsRequestError(err error) (*RequestError, bool) {
	var reqErr *RequestError
	if stderrors.As(err, &reqErr) {
		return reqErr, true
	}
	return nil, false
}

// KindOf returns the kind of the first RequestError in err's chain.
func KindOf(err error) (Kind, bool) {
	if reqErr, ok := AsRequestError(err); ok {
		return reqErr.Kind, true
	}
	return 0, false
}

// IsKind reports whether err carries a RequestError of the given kind.
func IsKind(err error, kind Kind) bool {
	return stderrors.Is(err, kind)
}
