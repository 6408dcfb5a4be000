package httpclient

import (
	"fmt"
	"time"

	"github.com/insha/gopher/profiler"
	"github.com/insha/gopher/resilience"
	"github.com/insha/gopher/security"
	"github.com/insha/gopher/validation"
	"github.com/insha/gopher/version"
)

// DefaultServiceName names a session when the configuration does not.
const DefaultServiceName = "gopher-network-service"

// Config configures a Session.
type Config struct {
	// BaseURL is the URL every request endpoint is resolved against.
	BaseURL string `yaml:"base_url" mapstructure:"base_url" validate:"required,url"`

	// ServiceName identifies the session in logs, spans and metrics.
	ServiceName string `yaml:"service_name" mapstructure:"service_name"`

	// UserAgent is sent when a request declares none. Defaults to gopher/<version>.
	UserAgent string `yaml:"user_agent" mapstructure:"user_agent"`

	// RequestTimeout bounds the wait for response headers. Defaults to 60s.
	RequestTimeout time.Duration `yaml:"request_timeout" mapstructure:"request_timeout"`

	// ResourceTimeout bounds a whole exchange. Defaults to 7 days.
	ResourceTimeout time.Duration `yaml:"resource_timeout" mapstructure:"resource_timeout"`

	// MaxConcurrent caps exchanges in flight. Defaults to 4.
	MaxConcurrent int `yaml:"max_concurrent" mapstructure:"max_concurrent" validate:"gte=0"`

	// Headers are sent with every request unless the request declares them.
	Headers map[string]string `yaml:"headers" mapstructure:"headers"`

	// Profile controls the diagnostic dump of each exchange.
	Profile ProfileConfig `yaml:"profile" mapstructure:"profile"`

	// TLS configures the transport, including certificate pinning.
	TLS *security.TLSConfig `yaml:"tls" mapstructure:"tls"`
}

// ProfileConfig controls exchange profiling. Profiling is off by default.
type ProfileConfig struct {
	Enabled          bool `yaml:"enabled" mapstructure:"enabled"`
	ShowRequestBody  bool `yaml:"show_request_body" mapstructure:"show_request_body"`
	HideResponseBody bool `yaml:"hide_response_body" mapstructure:"hide_response_body"`
}

// Profiler returns the profiler described by the configuration.
func (c ProfileConfig) Profiler() *profiler.Profiler {
	return &profiler.Profiler{
		Enabled:          c.Enabled,
		ShowRequestBody:  c.ShowRequestBody,
		ShowResponseBody: !c.HideResponseBody,
	}
}

// ApplyDefaults fills in zero-value fields with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.ServiceName == "" {
		c.ServiceName = DefaultServiceName
	}
	if c.UserAgent == "" {
		c.UserAgent = version.UserAgent()
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
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if err := validation.Validate(c); err != nil {
		return fmt.Errorf("httpclient: %w", err)
	}
	if c.RequestTimeout > c.ResourceTimeout {
		return fmt.Errorf("httpclient: request_timeout (%s) exceeds resource_timeout (%s)",
			c.RequestTimeout, c.ResourceTimeout)
	}
	if err := c.TLS.Validate(); err != nil {
		return err
	}
	return nil
}

// ProviderConfig derives the settings of a DefaultProvider.
func (c *Config) ProviderConfig() ProviderConfig {
	return ProviderConfig{
		Name:            c.ServiceName,
		RequestTimeout:  c.RequestTimeout,
		ResourceTimeout: c.ResourceTimeout,
		MaxConcurrent:   c.MaxConcurrent,
		TLS:             c.TLS,
	}
}
