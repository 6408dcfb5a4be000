package httpclient

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/trace"

	gerrors "github.com/insha/gopher/errors"
	"github.com/insha/gopher/logger"
	"github.com/insha/gopher/observability"
	"github.com/insha/gopher/profiler"
	"github.com/insha/gopher/security"
)

// ErrSessionClosed is the cause of errors returned by a closed session.
var ErrSessionClosed = errors.New("httpclient: session closed")

// Session sends requests through a Provider and classifies the outcome.
// It holds no per-request state and is safe for concurrent use.
type Session struct {
	provider Provider
	config   Config
	log      *logger.Logger
	metrics  *observability.Metrics
	profiler *profiler.Profiler
	now      func() time.Time
	closed   atomic.Bool
}

// NewSession creates a session that sends through provider.
func NewSession(provider Provider, cfg Config, opts ...Option) (*Session, error) {
	if provider == nil {
		return nil, errors.New("httpclient: provider is required")
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return newSession(provider, cfg, newOptions(&cfg, opts)), nil
}

// New creates a session backed by a DefaultProvider. Certificate pinning is
// enabled when cfg.TLS names a pinned certificate directory.
func New(cfg Config, opts ...Option) (*Session, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	o := newOptions(&cfg, opts)

	validator, err := cfg.TLS.NewTrustValidator(security.WithPinLogger(logger.Get("trust")))
	if err != nil {
		return nil, err
	}
	pc := cfg.ProviderConfig()
	pc.TrustValidator = validator
	pc.TrustHandler = o.trustHandler

	provider, err := NewDefaultProvider(pc)
	if err != nil {
		return nil, err
	}
	return newSession(provider, cfg, o), nil
}

func newSession(provider Provider, cfg Config, o *options) *Session {
	return &Session{
		provider: provider,
		config:   cfg,
		log:      o.log,
		metrics:  o.metrics,
		profiler: o.profiler,
		now:      o.now,
	}
}

// Config returns the session configuration with defaults applied.
func (s *Session) Config() Config { return s.config }

// Provider returns the provider the session sends through.
func (s *Session) Provider() Provider { return s.provider }

// Closed reports whether Close has been called.
func (s *Session) Closed() bool { return s.closed.Load() }

// Do sends req against the session base URL and returns the classified
// response without decoding its body. When the status is rejected both the
// response and its error are returned.
func (s *Session) Do(ctx context.Context, req *Request) (*Response, error) {
	return s.do(ctx, req, s.config.BaseURL)
}

// Send sends req against the session base URL and decodes the body into T.
func Send[T any](ctx context.Context, s *Session, req *Request) (T, error) {
	return SendTo[T](ctx, s, req, s.config.BaseURL)
}

// SendTo is Send against an explicit base URL.
func SendTo[T any](ctx context.Context, s *Session, req *Request, baseURL string) (T, error) {
	var zero T
	resp, err := s.do(ctx, req, baseURL)
	if err != nil {
		return zero, err
	}

	out, err := DecodeJSON[T](resp.Body, req.DateDecoding())
	if err != nil {
		s.log.Warn("Response could not be decoded", map[string]interface{}{
			logger.FieldRequestID: resp.RequestID,
			logger.FieldURL:       resp.URL,
			logger.FieldError:     err.Error(),
		})
		return zero, &DecodeError{RequestID: resp.RequestID, URL: resp.URL, Err: err}
	}
	return out, nil
}

func (s *Session) do(ctx context.Context, req *Request, baseURL string) (*Response, error) {
	if s.closed.Load() {
		return nil, gerrors.ServerNotAvailable(req.Endpoint(), ErrSessionClosed)
	}

	out, err := BuildRequest(req, baseURL)
	if err != nil {
		s.log.Warn("Request could not be built", map[string]interface{}{
			logger.FieldRequestName: req.Name(),
			logger.FieldError:       err.Error(),
		})
		return nil, err
	}
	s.applyDefaultHeaders(out.Header)
	target := out.URL.String()

	ctx = logger.ContextWithRequestID(ctx, out.ID)
	ctx, span := observability.StartSpan(ctx, observability.SpanHTTPSend, trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	observability.SetSpanAttribute(ctx, observability.AttrServiceName, s.config.ServiceName)
	observability.SetSpanAttribute(ctx, observability.AttrRequestID, out.ID)
	observability.SetSpanAttribute(ctx, observability.AttrRequestName, out.Name)
	observability.SetSpanAttribute(ctx, observability.AttrHTTPMethod, string(out.Method))
	observability.SetSpanAttribute(ctx, observability.AttrHTTPURL, target)

	if s.metrics != nil {
		s.metrics.RecordExchangeStart(ctx)
	}

	sent := s.now()
	raw, perr := s.provider.Perform(ctx, out)
	received := s.now()

	resp, reqErr := classify(target, out.ID, raw, perr)
	s.profile(out, raw, sent, received)
	s.record(ctx, out, resp, reqErr, received.Sub(sent))

	if reqErr != nil {
		return resp, reqErr
	}
	return resp, nil
}

func classify(target, requestID string, raw *RawResponse, perr error) (*Response, *gerrors.RequestError) {
	if perr != nil {
		return nil, gerrors.FromTransport(perr, target)
	}
	if raw == nil {
		return nil, gerrors.BadResponse(target)
	}
	resp := newResponse(requestID, target, raw)
	if statusErr := gerrors.FromStatus(raw.StatusCode, target); statusErr != nil {
		resp.Err = statusErr
		return resp, statusErr
	}
	return resp, nil
}

// applyDefaultHeaders adds the configured headers and User-Agent without
// overriding anything the request declared.
func (s *Session) applyDefaultHeaders(h http.Header) {
	for k, v := range s.config.Headers {
		setDefaultHeader(h, k, v)
	}
	setDefaultHeader(h, string(HeaderUserAgent), s.config.UserAgent)
}

func (s *Session) record(ctx context.Context, out *OutgoingRequest, resp *Response, reqErr *gerrors.RequestError, elapsed time.Duration) {
	status := 0
	if resp != nil {
		status = resp.StatusCode
		observability.SetSpanAttribute(ctx, observability.AttrHTTPStatus, status)
	}
	fields := logger.ExchangeFields(out.ID, string(out.Method), out.URL.String(), status, elapsed)
	fields[logger.FieldRequestName] = out.Name
	log := s.log.WithContext(ctx)

	outcome := strconv.Itoa(status)
	if reqErr != nil {
		outcome = reqErr.Kind.String()
		fields[logger.FieldErrorKind] = reqErr.Kind.String()
		fields[logger.FieldErrorCode] = reqErr.Code()
		observability.SetSpanAttribute(ctx, observability.AttrErrorKind, reqErr.Kind.String())
		observability.SetSpanAttribute(ctx, observability.AttrErrorCode, reqErr.Code())
		observability.SetSpanError(ctx, reqErr)
		log.Warn("Request failed", logger.MergeWithError(fields, reqErr))
	} else {
		log.Debug("Request completed", fields)
	}

	if s.metrics != nil {
		s.metrics.RecordExchangeEnd(ctx, s.config.ServiceName, string(out.Method), outcome, elapsed)
		if reqErr != nil {
			s.metrics.RecordError(ctx, reqErr.Kind.String(), "session")
		}
	}
}

func (s *Session) profile(out *OutgoingRequest, raw *RawResponse, sent, received time.Time) {
	if s.profiler == nil || !s.profiler.Enabled {
		return
	}
	entry := profiler.Entry{
		Method:         string(out.Method),
		URL:            out.URL.String(),
		RequestHeaders: flattenHeaders(out.Header),
		RequestBody:    out.Body,
		Sent:           sent,
		Received:       received,
	}
	if raw != nil {
		entry.MimeType = raw.MimeType()
		entry.StatusCode = raw.StatusCode
		entry.ContentLength = raw.ContentLength
		entry.ResponseBody = raw.Body
	}
	s.log.Info("Exchange profile\n" + s.profiler.Profile(entry))
}

// Close stops the session. With allowInFlight exchanges already running
// may finish; otherwise they are cancelled. The provider is flushed in the
// background and the returned channel is closed when that completes.
// Closing twice is a no-op.
func (s *Session) Close(allowInFlight bool) <-chan struct{} {
	done := make(chan struct{})
	if !s.closed.CompareAndSwap(false, true) {
		close(done)
		return done
	}

	if allowInFlight {
		s.provider.FinishAndInvalidate()
	} else {
		s.provider.CancelAll()
	}
	s.log.Debug("Session closed", map[string]interface{}{"allow_in_flight": allowInFlight})

	go func() {
		defer close(done)
		s.provider.Flush(context.Background())
	}()
	return done
}
