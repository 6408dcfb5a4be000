package errors

import (
	stderrors "errors"
	"fmt"
)

// TransportCode identifies a transport-level failure independently of the
// networking stack that produced it.
type TransportCode int

const (
	TransportUnknown TransportCode = iota
	TransportBadURL
	TransportUnsupportedURL
	TransportTimedOut
	TransportCannotFindHost
	TransportCannotConnectToHost
	TransportNetworkConnectionLost
	TransportDNSLookupFailed
	TransportResourceUnavailable
	TransportSecureConnectionFailed
	TransportNotConnectedToInternet
	TransportBadServerResponse
	TransportZeroByteResource
	TransportCannotDecodeRawData
	TransportCannotDecodeContentData
	TransportCannotParseResponse
	TransportCancelled
)

var transportNames = map[TransportCode]string{
	TransportUnknown:                 "unknown",
	TransportBadURL:                  "bad URL",
	TransportUnsupportedURL:          "unsupported URL",
	TransportTimedOut:                "timed out",
	TransportCannotFindHost:          "cannot find host",
	TransportCannotConnectToHost:     "cannot connect to host",
	TransportNetworkConnectionLost:   "network connection lost",
	TransportDNSLookupFailed:         "DNS lookup failed",
	TransportResourceUnavailable:     "resource unavailable",
	TransportSecureConnectionFailed:  "secure connection failed",
	TransportNotConnectedToInternet:  "not connected to internet",
	TransportBadServerResponse:       "bad server response",
	TransportZeroByteResource:        "zero byte resource",
	TransportCannotDecodeRawData:     "cannot decode raw data",
	TransportCannotDecodeContentData: "cannot decode content data",
	TransportCannotParseResponse:     "cannot parse response",
	TransportCancelled:               "cancelled",
}

func (c TransportCode) String() string {
	if name, ok := transportNames[c]; ok {
		return name
	}
	return fmt.Sprintf("TransportCode(%d)", int(c))
}

// TransportError is reported by a transport provider when an exchange
// produced no response.
type TransportError struct {
	Code TransportCode
	URL  string
	Err  error
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("transport: %s: %v", e.Code, e.Err)
	}
	return "transport: " + e.Code.String()
}

func (e *TransportError) Unwrap() error { return e.Err }

// NewTransportError creates a TransportError.
func NewTransportError(code TransportCode, url string, err error) *TransportError {
	return &TransportError{Code: code, URL: url, Err: err}
}

// transportKinds maps transport codes onto kinds. Codes missing from the
// table fall back to KindNoInternetConnectionAvailable.
var transportKinds = map[TransportCode]Kind{
	TransportBadURL:                  KindInvalidURL,
	TransportUnsupportedURL:          KindInvalidURL,
	TransportTimedOut:                KindRequestTimedOut,
	TransportSecureConnectionFailed:  KindConnectivityIssue,
	TransportCannotFindHost:          KindConnectivityIssue,
	TransportCannotConnectToHost:     KindConnectivityIssue,
	TransportNetworkConnectionLost:   KindConnectivityIssue,
	TransportDNSLookupFailed:         KindConnectivityIssue,
	TransportResourceUnavailable:     KindConnectivityIssue,
	TransportNotConnectedToInternet:  KindNoInternetConnectionAvailable,
	TransportBadServerResponse:       KindBadResponse,
	TransportZeroByteResource:        KindBadResponse,
	TransportCannotDecodeRawData:     KindBadResponse,
	TransportCannotDecodeContentData: KindBadResponse,
	TransportCannotParseResponse:     KindBadResponse,
}

// KindForTransport returns the kind a transport code maps to.
func KindForTransport(code TransportCode) Kind {
	if kind, ok := transportKinds[code]; ok {
		return kind
	}
	return KindNoInternetConnectionAvailable
}

// FromTransport classifies a transport failure. Errors that do not carry a
// TransportError are treated as TransportUnknown.
func FromTransport(err error, url string) *RequestError {
	code := TransportUnknown
	var tErr *TransportError
	if stderrors.As(err, &tErr) {
		code = tErr.Code
		if url == "" {
			url = tErr.URL
		}
	}

	kind := KindForTransport(code)
	return &RequestError{
		Kind:       kind,
		StatusCode: NoStatus,
		Message:    transportMessage(kind),
		Domain:     DomainClient,
		RelatedURL: url,
		Cause:      err,
	}
}

func transportMessage(kind Kind) string {
	switch kind {
	case KindInvalidURL:
		return "The URL of the request is invalid."
	case KindRequestTimedOut:
		return "The request timed out."
	case KindConnectivityIssue:
		return "The server could not be reached."
	case KindBadResponse:
		return "The server returned a response that could not be read."
	default:
		return "No internet connection is available."
	}
}
