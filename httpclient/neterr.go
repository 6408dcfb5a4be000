package httpclient

import (
	"compress/gzip"
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"io"
	"net"
	"strings"
	"syscall"

	gerrors "github.com/insha/gopher/errors"
)

// transportCode maps a net/http failure onto a platform-neutral code.
func transportCode(err error) gerrors.TransportCode {
	if err == nil {
		return gerrors.TransportUnknown
	}

	if errors.Is(err, ErrTrustRejected) {
		return gerrors.TransportSecureConnectionFailed
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, ErrProviderInvalidated) {
		return gerrors.TransportCancelled
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return gerrors.TransportTimedOut
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		if dnsErr.IsTimeout {
			return gerrors.TransportTimedOut
		}
		if dnsErr.IsNotFound {
			return gerrors.TransportCannotFindHost
		}
		return gerrors.TransportDNSLookupFailed
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return gerrors.TransportTimedOut
	}

	switch {
	case errors.Is(err, syscall.ECONNREFUSED), errors.Is(err, syscall.EHOSTUNREACH):
		return gerrors.TransportCannotConnectToHost
	case errors.Is(err, syscall.ENETUNREACH), errors.Is(err, syscall.ENETDOWN):
		return gerrors.TransportNotConnectedToInternet
	case errors.Is(err, syscall.ECONNRESET), errors.Is(err, syscall.ECONNABORTED),
		errors.Is(err, syscall.EPIPE), errors.Is(err, io.ErrUnexpectedEOF), errors.Is(err, io.EOF):
		return gerrors.TransportNetworkConnectionLost
	case errors.Is(err, gzip.ErrHeader), errors.Is(err, gzip.ErrChecksum):
		return gerrors.TransportCannotDecodeContentData
	case isTLSFailure(err):
		return gerrors.TransportSecureConnectionFailed
	}

	msg := err.Error()
	switch {
	case strings.Contains(msg, "unsupported protocol scheme"):
		return gerrors.TransportUnsupportedURL
	case strings.Contains(msg, "no Host in request URL"), strings.Contains(msg, "invalid URL"):
		return gerrors.TransportBadURL
	case strings.Contains(msg, "malformed HTTP"):
		return gerrors.TransportBadServerResponse
	case strings.Contains(msg, "tls: "), strings.Contains(msg, "x509: "):
		return gerrors.TransportSecureConnectionFailed
	}
	return gerrors.TransportUnknown
}

func isTLSFailure(err error) bool {
	var (
		verifyErr    *tls.CertificateVerificationError
		recordErr    tls.RecordHeaderError
		alertErr     tls.AlertError
		authorityErr x509.UnknownAuthorityError
		hostErr      x509.HostnameError
		invalidErr   x509.CertificateInvalidError
	)
	return errors.As(err, &verifyErr) ||
		errors.As(err, &recordErr) ||
		errors.As(err, &alertErr) ||
		errors.As(err, &authorityErr) ||
		errors.As(err, &hostErr) ||
		errors.As(err, &invalidErr)
}
