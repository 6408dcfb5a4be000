package httpclient

import (
	"bytes"
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"sync"
	"time"

	"golang.org/x/net/publicsuffix"

	gerrors "github.com/insha/gopher/errors"
	"github.com/insha/gopher/logger"
	"github.com/insha/gopher/resilience"
	"github.com/insha/gopher/security"
)

// DefaultResourceTimeout bounds a whole exchange, including reading the body.
const DefaultResourceTimeout = 7 * 24 * time.Hour

var (
	// ErrTrustRejected is reported when a pinned server fails evaluation.
	ErrTrustRejected = errors.New("httpclient: server trust rejected")
	// ErrProviderInvalidated is reported for exchanges started after the
	// provider was cancelled or invalidated.
	ErrProviderInvalidated = errors.New("httpclient: provider invalidated")
)

// Disposition is a TrustHandler's answer for a server that failed pinning.
type Disposition int

const (
	// DispositionDefault falls back to standard chain verification.
	DispositionDefault Disposition = iota
	// DispositionAllow accepts the server.
	DispositionAllow
	// DispositionReject refuses the handshake.
	DispositionReject
)

func (d Disposition) String() string {
	switch d {
	case DispositionAllow:
		return "allow"
	case DispositionReject:
		return "reject"
	default:
		return "default"
	}
}

// TrustHandler decides what happens to a server the TrustValidator blocked.
type TrustHandler func(hostname string, chain []*x509.Certificate) Disposition

// ProviderConfig configures a DefaultProvider.
type ProviderConfig struct {
	// Name identifies the provider in logs.
	Name string
	// RequestTimeout bounds the wait for response headers.
	RequestTimeout time.Duration
	// ResourceTimeout bounds a whole exchange.
	ResourceTimeout time.Duration
	// MaxConcurrent caps exchanges in flight; callers beyond it wait.
	MaxConcurrent int
	// TLS holds the transport TLS settings.
	TLS *security.TLSConfig
	// TrustValidator enables pinning when set.
	TrustValidator *security.TrustValidator
	// TrustHandler is consulted when the validator blocks a server.
	TrustHandler TrustHandler
	// Logger defaults to the "transport" logger.
	Logger *logger.Logger
}

// ApplyDefaults fills in zero-value fields.
func (c *ProviderConfig) ApplyDefaults() {
	if c.Name == "" {
		c.Name = "transport"
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = DefaultTimeout
	}
	if c.ResourceTimeout <= 0 {
		c.ResourceTimeout = DefaultResourceTimeout
	}
	if c.MaxConcurrent <= 0 {
		c.MaxConcurrent = resilience.DefaultMaxConcurrent
	}
	if c.Logger == nil {
		c.Logger = logger.Get("transport")
	}
}

// DefaultProvider performs exchanges with net/http. It keeps a cookie jar,
// caps concurrency with a bulkhead and tracks in-flight exchanges so they
// can be cancelled together.
type DefaultProvider struct {
	name      string
	client    *http.Client
	transport *http.Transport
	jar       *resettableJar
	bulkhead  *resilience.Bulkhead
	dialer    *net.Dialer
	validator *security.TrustValidator
	handler   TrustHandler
	log       *logger.Logger

	mu          sync.Mutex
	inflight    map[uint64]context.CancelFunc
	nextID      uint64
	invalidated bool
}

// compile-time assertion
var _ Provider = (*DefaultProvider)(nil)

// NewDefaultProvider creates a provider from cfg.
func NewDefaultProvider(cfg ProviderConfig) (*DefaultProvider, error) {
	cfg.ApplyDefaults()
	if err := cfg.TLS.Validate(); err != nil {
		return nil, err
	}

	tlsCfg, err := cfg.TLS.Build()
	if err != nil {
		return nil, err
	}
	if tlsCfg == nil {
		tlsCfg = &tls.Config{MinVersion: tls.VersionTLS12}
	}

	jar, err := newResettableJar()
	if err != nil {
		return nil, err
	}

	dialer := &net.Dialer{Timeout: 30 * time.Second, KeepAlive: 30 * time.Second}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.DialContext = dialer.DialContext
	transport.TLSClientConfig = tlsCfg
	transport.ResponseHeaderTimeout = cfg.RequestTimeout

	p := &DefaultProvider{
		name: cfg.Name,
		client: &http.Client{
			Transport: transport,
			Jar:       jar,
			Timeout:   cfg.ResourceTimeout,
		},
		transport: transport,
		jar:       jar,
		dialer:    dialer,
		validator: cfg.TrustValidator,
		handler:   cfg.TrustHandler,
		log:       cfg.Logger,
		inflight:  make(map[uint64]context.CancelFunc),
	}

	p.bulkhead = resilience.NewBulkhead(resilience.BulkheadConfig{
		Name:          cfg.Name,
		MaxConcurrent: cfg.MaxConcurrent,
		OnReject:      p.onQueueAbandoned,
		OnAcquire:     p.onSlotAcquired,
	})

	if p.validator != nil {
		transport.DialTLSContext = p.dialTLS
	} else if p.handler != nil {
		p.log.Warn("Trust handler ignored without a trust validator")
	}
	return p, nil
}

func (p *DefaultProvider) onQueueAbandoned(name string, err error) {
	p.log.Debug("Exchange abandoned while queued", map[string]interface{}{
		"provider":        name,
		"max_concurrent":  p.bulkhead.MaxConcurrent(),
		logger.FieldError: err.Error(),
	})
}

func (p *DefaultProvider) onSlotAcquired(name string, waited time.Duration) {
	if waited <= 0 {
		return
	}
	p.log.Debug("Exchange queued for a slot", map[string]interface{}{
		"provider":           name,
		"in_use":             p.bulkhead.InUse(),
		logger.FieldDuration: waited.Milliseconds(),
	})
}

// Perform executes one exchange. Failures are reported as
// *errors.TransportError.
func (p *DefaultProvider) Perform(ctx context.Context, req *OutgoingRequest) (*RawResponse, error) {
	target := req.URL.String()

	ctx, release, err := p.track(ctx, req.Timeout)
	if err != nil {
		return nil, gerrors.NewTransportError(gerrors.TransportCancelled, target, err)
	}
	defer release()

	resp, err := resilience.ExecuteWithResult(p.bulkhead, ctx, func() (*RawResponse, error) {
		return p.roundTrip(ctx, req)
	})
	if err != nil {
		code := transportCode(err)
		p.log.Debug("Exchange failed", map[string]interface{}{
			logger.FieldRequestID: req.ID,
			logger.FieldURL:       target,
			"transport_code":      code.String(),
			logger.FieldError:     err.Error(),
		})
		return nil, gerrors.NewTransportError(code, target, err)
	}
	return resp, nil
}

func (p *DefaultProvider) roundTrip(ctx context.Context, req *OutgoingRequest) (*RawResponse, error) {
	var body io.Reader
	if len(req.Body) > 0 {
		body = bytes.NewReader(req.Body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, string(req.Method), req.URL.String(), body)
	if err != nil {
		return nil, err
	}
	if req.Header != nil {
		httpReq.Header = req.Header.Clone()
	}

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	length := resp.ContentLength
	if length < 0 {
		length = int64(len(data))
	}
	return &RawResponse{
		StatusCode:    resp.StatusCode,
		Header:        resp.Header,
		Body:          data,
		URL:           resp.Request.URL,
		ContentLength: length,
	}, nil
}

// track registers an exchange so CancelAll can abort it.
func (p *DefaultProvider) track(parent context.Context, timeout time.Duration) (context.Context, func(), error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.invalidated {
		return nil, nil, ErrProviderInvalidated
	}

	var (
		ctx    context.Context
		cancel context.CancelFunc
	)
	if timeout > 0 {
		ctx, cancel = context.WithTimeout(parent, timeout)
	} else {
		ctx, cancel = context.WithCancel(parent)
	}

	p.nextID++
	id := p.nextID
	p.inflight[id] = cancel

	return ctx, func() {
		p.mu.Lock()
		delete(p.inflight, id)
		p.mu.Unlock()
		cancel()
	}, nil
}

// InFlight returns the number of exchanges currently tracked.
func (p *DefaultProvider) InFlight() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.inflight)
}

// Flush closes idle connections and discards stored cookies.
func (p *DefaultProvider) Flush(ctx context.Context) {
	p.transport.CloseIdleConnections()
	if err := p.jar.Reset(); err != nil {
		p.log.Warn("Cookie jar reset failed", logger.ErrorFields("flush", err))
	}
	if ctx.Err() == nil {
		p.log.Debug("Provider flushed", map[string]interface{}{"provider": p.name})
	}
}

// CancelAll aborts every in-flight exchange and rejects new ones.
func (p *DefaultProvider) CancelAll() {
	p.mu.Lock()
	p.invalidated = true
	cancels := make([]context.CancelFunc, 0, len(p.inflight))
	for id, cancel := range p.inflight {
		cancels = append(cancels, cancel)
		delete(p.inflight, id)
	}
	p.mu.Unlock()

	for _, cancel := range cancels {
		cancel()
	}
	p.log.Debug("Provider cancelled", map[string]interface{}{"provider": p.name, "cancelled": len(cancels)})
}

// FinishAndInvalidate rejects new exchanges and lets in-flight ones finish.
func (p *DefaultProvider) FinishAndInvalidate() {
	p.mu.Lock()
	p.invalidated = true
	p.mu.Unlock()
}

// dialTLS opens a TLS connection whose verification goes through the trust
// validator. The hostname is taken from the dialed address, since SNI is
// empty for IP literals.
func (p *DefaultProvider) dialTLS(ctx context.Context, network, addr string) (net.Conn, error) {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return nil, err
	}

	cfg := p.transport.TLSClientConfig.Clone()
	if cfg.ServerName == "" {
		cfg.ServerName = host
	}
	roots := cfg.RootCAs
	cfg.InsecureSkipVerify = true
	cfg.VerifyConnection = p.verifyConnection(cfg.ServerName, roots)

	d := &tls.Dialer{NetDialer: p.dialer, Config: cfg}
	return d.DialContext(ctx, network, addr)
}

func (p *DefaultProvider) verifyConnection(hostname string, roots *x509.CertPool) func(tls.ConnectionState) error {
	return func(cs tls.ConnectionState) error {
		chain := cs.PeerCertificates
		if p.validator.Validate(hostname, chain) == security.AllowConnection {
			return nil
		}
		if p.handler == nil {
			return ErrTrustRejected
		}

		disposition := p.handler(hostname, chain)
		p.log.Debug("Trust handler consulted", map[string]interface{}{
			logger.FieldHost: hostname,
			"disposition":    disposition.String(),
		})
		switch disposition {
		case DispositionAllow:
			return nil
		case DispositionDefault:
			return security.X509Verifier{Roots: roots}.Verify(hostname, chain)
		default:
			return ErrTrustRejected
		}
	}
}

// resettableJar is a cookie jar whose contents can be discarded while
// exchanges are running.
type resettableJar struct {
	mu  sync.RWMutex
	jar http.CookieJar
}

func newResettableJar() (*resettableJar, error) {
	j := &resettableJar{}
	if err := j.Reset(); err != nil {
		return nil, err
	}
	return j, nil
}

func (j *resettableJar) Reset() error {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return err
	}
	j.mu.Lock()
	j.jar = jar
	j.mu.Unlock()
	return nil
}

func (j *resettableJar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	j.mu.RLock()
	defer j.mu.RUnlock()
	j.jar.SetCookies(u, cookies)
}

func (j *resettableJar) Cookies(u *url.URL) []*http.Cookie {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.jar.Cookies(u)
}
