package httpclient

import (
	"time"

	"github.com/insha/gopher/logger"
	"github.com/insha/gopher/observability"
	"github.com/insha/gopher/profiler"
)

type options struct {
	log          *logger.Logger
	metrics      *observability.Metrics
	profiler     *profiler.Profiler
	now          func() time.Time
	trustHandler TrustHandler
}

// Option configures a Session.
type Option func(*options)

// WithLogger sets the session logger. Defaults to the "session" logger.
func WithLogger(l *logger.Logger) Option {
	return func(o *options) { o.log = l }
}

// WithMetrics records exchange metrics on m.
func WithMetrics(m *observability.Metrics) Option {
	return func(o *options) { o.metrics = m }
}

// WithProfiler overrides the profiler derived from Config.Profile.
func WithProfiler(p *profiler.Profiler) Option {
	return func(o *options) { o.profiler = p }
}

// WithClock replaces time.Now when timing exchanges.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithTrustHandler sets the handler consulted when a pinned server is
// blocked. It only applies to sessions created with New.
func WithTrustHandler(h TrustHandler) Option {
	return func(o *options) { o.trustHandler = h }
}

func newOptions(cfg *Config, opts []Option) *options {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.log == nil {
		o.log = logger.Get("session")
	}
	if o.profiler == nil {
		o.profiler = cfg.Profile.Profiler()
	}
	if o.now == nil {
		o.now = time.Now
	}
	return o
}
