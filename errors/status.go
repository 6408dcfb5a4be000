package errors

import (
	"fmt"
	"net/http"
)

// FromStatus classifies an HTTP status code. It returns nil for the
// accepted range 200-399.
func FromStatus(status int, url string) *RequestError {
	if status >= 200 && status < 400 {
		return nil
	}

	kind, domain := classifyStatus(status)
	return &RequestError{
		Kind:       kind,
		StatusCode: status,
		Message:    statusMessage(status),
		Domain:     domain,
		RelatedURL: url,
	}
}

func classifyStatus(status int) (Kind, Domain) {
	switch {
	case status == http.StatusUnauthorized:
		return KindUnauthorized, DomainClient
	case status == http.StatusForbidden:
		return KindForbidden, DomainClient
	case status >= 400 && status <= 499:
		return KindBadRequest, DomainClient
	case status >= 500 && status <= 599:
		return KindInternalServerError, DomainServer
	default:
		return KindInvalidHTTPStatusCode, DomainServer
	}
}

func statusMessage(status int) string {
	if text := http.StatusText(status); text != "" {
		return fmt.Sprintf("The server responded with %d %s.", status, text)
	}
	return fmt.Sprintf("The server responded with an unexpected status code %d.", status)
}

// IsClientError reports whether the status code is in the 4xx range.
func IsClientError(status int) bool {
	return status >= 400 && status < 500
}

// IsServerError reports whether the status code is in the 5xx range.
func IsServerError(status int) bool {
	return status >= 500 && status < 600
}
