package resilience

import (
	"errors"
	"time"

	gerrors "github.com/insha/gopher/errors"
)

// Retry controller errors.
var (
	// ErrActionRegistered is returned when a second retry action is registered.
	// The first action stays in place.
	ErrActionRegistered = errors.New("resilience: retry action already registered")
	// ErrNoRetryAction is returned by Retry when no action was registered.
	ErrNoRetryAction = errors.New("resilience: no retry action registered")
)

// Retry defaults.
const (
	DefaultMaxRetries = 5
	DefaultRetryDelay = 3 * time.Second
)

// RetryConfig configures a RetryRequest.
type RetryConfig struct {
	// MaxRetries is the number of times the action may be invoked.
	MaxRetries int `yaml:"max_retries" mapstructure:"max_retries"`
	// Delay is the pause a caller should observe between retries. The
	// controller itself never sleeps.
	Delay time.Duration `yaml:"delay" mapstructure:"delay"`
	// OnRetry is called before each invocation with the 1-based attempt.
	OnRetry func(attempt int) `yaml:"-" mapstructure:"-"`
}

// DefaultRetryConfig returns the default retry budget.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries: DefaultMaxRetries,
		Delay:      DefaultRetryDelay,
	}
}

// ApplyDefaults fills in a missing delay. MaxRetries is taken as given,
// so zero allows no invocations at all; negative values count as zero.
// Use DefaultRetryConfig for the default budget.
func (c *RetryConfig) ApplyDefaults() {
	if c.MaxRetries < 0 {
		c.MaxRetries = 0
	}
	if c.Delay <= 0 {
		c.Delay = DefaultRetryDelay
	}
}

// Endpointer is implemented by requests that can name the URL they target.
type Endpointer interface {
	Endpoint() string
}

// RetryRequest bounds how many times a single request is re-attempted.
// It holds one action and invokes it at most MaxRetries times; scheduling
// the calls, for example after Delay, is up to the caller.
//
// A RetryRequest is not safe for concurrent use.
type RetryRequest[R any] struct {
	request R
	config  RetryConfig
	action  func() error
	attempt int
}

// NewRetryRequest wraps request with a retry budget.
func NewRetryRequest[R any](request R, cfg RetryConfig) *RetryRequest[R] {
	cfg.ApplyDefaults()
	return &RetryRequest[R]{request: request, config: cfg}
}

// Register sets the action run by Retry. Only the first registration
// takes effect; later calls return ErrActionRegistered.
func (r *RetryRequest[R]) Register(action func() error) error {
	if r.action != nil {
		return ErrActionRegistered
	}
	r.action = action
	return nil
}

// Retry invokes the action and consumes one attempt. Once the budget is
// spent it returns a maximumRetriesReached error without invoking anything.
func (r *RetryRequest[R]) Retry() error {
	if !r.ShouldRetry() {
		return gerrors.MaximumRetriesReached(r.endpoint())
	}
	if r.action == nil {
		return ErrNoRetryAction
	}
	r.attempt++
	if r.config.OnRetry != nil {
		r.config.OnRetry(r.attempt)
	}
	return r.action()
}

// ShouldRetry reports whether attempts remain.
func (r *RetryRequest[R]) ShouldRetry() bool {
	return r.attempt < r.config.MaxRetries
}

// Attempt returns the number of attempts consumed so far.
func (r *RetryRequest[R]) Attempt() int { return r.attempt }

// Remaining returns the number of attempts left.
func (r *RetryRequest[R]) Remaining() int { return r.config.MaxRetries - r.attempt }

// MaxRetries returns the retry budget.
func (r *RetryRequest[R]) MaxRetries() int { return r.config.MaxRetries }

// Delay returns the advisory pause between retries.
func (r *RetryRequest[R]) Delay() time.Duration { return r.config.Delay }

// Request returns the wrapped request.
func (r *RetryRequest[R]) Request() R { return r.request }

func (r *RetryRequest[R]) endpoint() string {
	if e, ok := any(r.request).(Endpointer); ok {
		return e.Endpoint()
	}
	return ""
}
