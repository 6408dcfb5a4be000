package cli

import (
	"fmt"
	"strings"

	"github.com/insha/gopher/config"
	"github.com/insha/gopher/httpclient"
	"github.com/insha/gopher/security"
	"github.com/insha/gopher/validation"
	"github.com/insha/gopher/version"
)

// Config is the gopher command configuration. It is read from gopher.yml,
// .env and GOPHER_* variables, then overridden by flags.
type Config struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`

	Client    httpclient.Config `yaml:"client" mapstructure:"client"`
	Telemetry TelemetryConfig   `yaml:"telemetry" mapstructure:"telemetry"`
}

// TelemetryConfig enables OTLP/HTTP export of traces and metrics when an
// endpoint is set.
type TelemetryConfig struct {
	Endpoint   string  `yaml:"endpoint" mapstructure:"endpoint"`
	Insecure   bool    `yaml:"insecure" mapstructure:"insecure"`
	SampleRate float64 `yaml:"sample_rate" mapstructure:"sample_rate" validate:"gte=0,lte=1"`
}

// Enabled reports whether telemetry should be exported.
func (t TelemetryConfig) Enabled() bool {
	return t.Endpoint != ""
}

// ApplyDefaults fills unset fields of every section.
func (c *Config) ApplyDefaults() {
	c.ServiceConfig.ApplyDefaults()
	c.Client.ApplyDefaults()
	if c.Telemetry.SampleRate == 0 {
		c.Telemetry.SampleRate = 1
	}
}

// Validate validates every section.
func (c *Config) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	if err := c.Client.Validate(); err != nil {
		return fmt.Errorf("config.client: %w", err)
	}
	if err := validation.Validate(c.Telemetry); err != nil {
		return fmt.Errorf("config.telemetry: %w", err)
	}
	return nil
}

// loadConfig reads the configuration files and applies the flag overrides.
func loadConfig(f *flags) (*Config, error) {
	cfg := &Config{}
	var opts []config.LoaderOption
	if f.configFile != "" {
		opts = append(opts, config.WithConfigFile(f.configFile))
	}
	if err := config.Load(version.Product, cfg, opts...); err != nil {
		return nil, err
	}
	f.apply(cfg)
	return cfg, nil
}

func (f *flags) apply(cfg *Config) {
	if f.baseURL != "" {
		cfg.Client.BaseURL = f.baseURL
	}
	if f.profile {
		cfg.Client.Profile.Enabled = true
		cfg.Client.Profile.ShowRequestBody = true
	}
	if f.pinDir != "" {
		if cfg.Client.TLS == nil {
			cfg.Client.TLS = &security.TLSConfig{}
		}
		cfg.Client.TLS.PinnedCertDir = f.pinDir
	}
	if f.otelEndpoint != "" {
		endpoint, plain := strings.CutPrefix(f.otelEndpoint, "http://")
		if plain {
			cfg.Telemetry.Insecure = true
		}
		cfg.Telemetry.Endpoint = strings.TrimPrefix(endpoint, "https://")
	}
	if f.verbose {
		cfg.Logging.Level = "debug"
	}
	if f.noColor {
		cfg.Logging.NoColor = true
	}
}
