package security

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"
)

// TLSConfig holds the TLS settings of an outbound transport.
type TLSConfig struct {
	// SkipVerify disables server certificate verification.
	// Not recommended for production. Cannot be combined with pinning.
	SkipVerify bool `yaml:"skip_verify" mapstructure:"skip_verify"`

	// CAFile is the path to a PEM bundle of trust anchors used instead of
	// the system roots.
	CAFile string `yaml:"ca_file" mapstructure:"ca_file"`

	// CertFile is the path to the client TLS certificate file (for mTLS).
	CertFile string `yaml:"cert_file" mapstructure:"cert_file"`

	// KeyFile is the path to the client TLS key file (for mTLS).
	KeyFile string `yaml:"key_file" mapstructure:"key_file"`

	// ServerName overrides the server name used for certificate verification.
	ServerName string `yaml:"server_name" mapstructure:"server_name"`

	// MinVersion is the minimum TLS version (e.g., tls.VersionTLS12).
	// Defaults to TLS 1.2 if not set.
	MinVersion uint16 `yaml:"min_version" mapstructure:"min_version"`

	// PinnedCertDir is a directory of pinned certificates. When set, a
	// server is trusted only if its leaf public key matches one of them.
	PinnedCertDir string `yaml:"pinned_cert_dir" mapstructure:"pinned_cert_dir"`
}

// Build creates a *tls.Config from the configuration.
// Returns nil if no TLS settings are configured (all fields are zero values).
func (c *TLSConfig) Build() (*tls.Config, error) {
	if c == nil || !c.hasSettings() {
		return nil, nil
	}

	minVersion := c.MinVersion
	if minVersion == 0 {
		minVersion = tls.VersionTLS12
	}

	cfg := &tls.Config{
		InsecureSkipVerify: c.SkipVerify,
		ServerName:         c.ServerName,
		MinVersion:         minVersion,
	}

	roots, err := c.RootPool()
	if err != nil {
		return nil, err
	}
	cfg.RootCAs = roots

	if err := c.loadClientCert(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that the TLS configuration is consistent.
func (c *TLSConfig) Validate() error {
	if c == nil {
		return nil
	}
	// If one of cert/key is set, both must be set
	if (c.CertFile != "") != (c.KeyFile != "") {
		return fmt.Errorf("security/tls: both cert_file and key_file must be provided together")
	}
	if c.SkipVerify && c.PinnedCertDir != "" {
		return fmt.Errorf("security/tls: skip_verify cannot be combined with pinned_cert_dir")
	}
	return nil
}

// IsEnabled returns true if any TLS setting is configured.
func (c *TLSConfig) IsEnabled() bool {
	if c == nil {
		return false
	}
	return c.hasSettings()
}

// IsPinned returns true if certificate pinning is configured.
func (c *TLSConfig) IsPinned() bool {
	return c != nil && c.PinnedCertDir != ""
}

// NewTrustValidator builds a validator that pins the certificates found in
// PinnedCertDir and verifies chains against the configured trust anchors.
// It returns nil when pinning is not configured.
func (c *TLSConfig) NewTrustValidator(opts ...PinOption) (*TrustValidator, error) {
	if !c.IsPinned() {
		return nil, nil
	}
	roots, err := c.RootPool()
	if err != nil {
		return nil, err
	}
	base := []PinOption{WithCertificateDir(c.PinnedCertDir)}
	if roots != nil {
		base = append(base, WithRoots(roots))
	}
	return NewTrustValidator(append(base, opts...)...), nil
}

// RootPool loads CAFile into a certificate pool. It returns nil, meaning
// the system roots, when no CA file is configured.
func (c *TLSConfig) RootPool() (*x509.CertPool, error) {
	if c == nil || c.CAFile == "" {
		return nil, nil
	}
	ca, err := os.ReadFile(c.CAFile)
	if err != nil {
		return nil, fmt.Errorf("security/tls: failed to read CA file: %w", err)
	}
	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(ca) {
		return nil, fmt.Errorf("security/tls: failed to parse CA certificate")
	}
	return pool, nil
}

func (c *TLSConfig) hasSettings() bool {
	return c.SkipVerify || c.CAFile != "" || c.CertFile != "" || c.ServerName != "" ||
		c.MinVersion != 0 || c.PinnedCertDir != ""
}

// loadClientCert loads the client certificate and key into the TLS config.
func (c *TLSConfig) loadClientCert(cfg *tls.Config) error {
	if c.CertFile == "" || c.KeyFile == "" {
		return nil
	}
	cert, err := tls.LoadX509KeyPair(c.CertFile, c.KeyFile)
	if err != nil {
		return fmt.Errorf("security/tls: failed to load client certificate: %w", err)
	}
	cfg.Certificates = []tls.Certificate{cert}
	return nil
}
