package security

import (
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/insha/gopher/logger"
)

// Decision is the outcome of a trust evaluation.
type Decision int

const (
	// BlockConnection refuses the server.
	BlockConnection Decision = iota
	// AllowConnection lets the handshake proceed.
	AllowConnection
)

func (d Decision) String() string {
	if d == AllowConnection {
		return "allow"
	}
	return "block"
}

// ErrEmptyChain is reported when a server presents no certificates.
var ErrEmptyChain = errors.New("security: empty certificate chain")

// PinnedExtensions lists the file extensions scanned for pinned certificates.
var PinnedExtensions = []string{".der", ".cer", ".crt", ".pem"}

// ChainVerifier checks a presented chain for path validity.
type ChainVerifier interface {
	Verify(hostname string, chain []*x509.Certificate) error
}

// ChainVerifierFunc adapts a function to ChainVerifier.
type ChainVerifierFunc func(hostname string, chain []*x509.Certificate) error

// Verify calls f(hostname, chain).
func (f ChainVerifierFunc) Verify(hostname string, chain []*x509.Certificate) error {
	return f(hostname, chain)
}

// X509Verifier verifies chains with crypto/x509. A nil Roots pool uses the
// system roots.
type X509Verifier struct {
	Roots *x509.CertPool
	Now   func() time.Time
}

// Verify builds a path from the leaf through chain[1:] to a root.
func (v X509Verifier) Verify(hostname string, chain []*x509.Certificate) error {
	if len(chain) == 0 {
		return ErrEmptyChain
	}
	intermediates := x509.NewCertPool()
	for _, cert := range chain[1:] {
		intermediates.AddCert(cert)
	}
	opts := x509.VerifyOptions{
		DNSName:       hostname,
		Roots:         v.Roots,
		Intermediates: intermediates,
	}
	if v.Now != nil {
		opts.CurrentTime = v.Now()
	}
	_, err := chain[0].Verify(opts)
	return err
}

// TrustValidator decides whether a server chain is trusted by comparing the
// leaf public key against a fixed set of pinned keys. The pin set is built
// once and never modified, so a validator may be shared between goroutines.
type TrustValidator struct {
	pins     map[string]struct{}
	verifier ChainVerifier
	log      *logger.Logger
}

type pinOptions struct {
	dirs     []string
	certs    []*x509.Certificate
	roots    *x509.CertPool
	verifier ChainVerifier
	log      *logger.Logger
}

// PinOption configures a TrustValidator.
type PinOption func(*pinOptions)

// WithCertificateDir pins every certificate file found in dir.
func WithCertificateDir(dir string) PinOption {
	return func(o *pinOptions) { o.dirs = append(o.dirs, dir) }
}

// WithCertificates pins already parsed certificates.
func WithCertificates(certs ...*x509.Certificate) PinOption {
	return func(o *pinOptions) { o.certs = append(o.certs, certs...) }
}

// WithRoots sets the trust anchors of the default chain verifier.
func WithRoots(pool *x509.CertPool) PinOption {
	return func(o *pinOptions) { o.roots = pool }
}

// WithChainVerifier replaces the chain verification step.
func WithChainVerifier(v ChainVerifier) PinOption {
	return func(o *pinOptions) { o.verifier = v }
}

// WithPinLogger sets the logger used for key-loading diagnostics.
func WithPinLogger(l *logger.Logger) PinOption {
	return func(o *pinOptions) { o.log = l }
}

// NewTrustValidator loads the pinned keys. Files that cannot be read or
// parsed are skipped with a diagnostic; they never fail construction.
func NewTrustValidator(opts ...PinOption) *TrustValidator {
	o := &pinOptions{}
	for _, opt := range opts {
		opt(o)
	}
	if o.log == nil {
		o.log = logger.Get("trust")
	}
	if o.verifier == nil {
		o.verifier = X509Verifier{Roots: o.roots}
	}

	pins := make(map[string]struct{})
	for _, dir := range o.dirs {
		for _, cert := range loadCertificateDir(dir, o.log) {
			pins[string(cert.RawSubjectPublicKeyInfo)] = struct{}{}
		}
	}
	for _, cert := range o.certs {
		if cert != nil {
			pins[string(cert.RawSubjectPublicKeyInfo)] = struct{}{}
		}
	}

	if len(pins) == 0 {
		o.log.Warn("No pinned keys loaded, every server will be blocked")
	} else {
		o.log.Debug("Pinned keys loaded", map[string]interface{}{"count": len(pins)})
	}

	return &TrustValidator{pins: pins, verifier: o.verifier, log: o.log}
}

// PinCount returns the number of distinct pinned keys.
func (v *TrustValidator) PinCount() int { return len(v.pins) }

// IsPinned reports whether the certificate's public key is pinned.
func (v *TrustValidator) IsPinned(cert *x509.Certificate) bool {
	if cert == nil {
		return false
	}
	_, ok := v.pins[string(cert.RawSubjectPublicKeyInfo)]
	return ok
}

// Validate allows the connection only when the chain is valid for hostname
// and the leaf public key is pinned.
func (v *TrustValidator) Validate(hostname string, chain []*x509.Certificate) Decision {
	if len(chain) == 0 {
		v.log.Debug("Blocking empty chain", map[string]interface{}{"host": hostname})
		return BlockConnection
	}
	if err := v.verifier.Verify(hostname, chain); err != nil {
		v.log.Debug("Blocking invalid chain", map[string]interface{}{"host": hostname, "error": err.Error()})
		return BlockConnection
	}
	if !v.IsPinned(chain[0]) {
		v.log.Debug("Blocking unpinned key", map[string]interface{}{
			"host": hostname,
			"spki": Fingerprint(chain[0]),
		})
		return BlockConnection
	}
	return AllowConnection
}

// Fingerprint returns the base64 SHA-256 digest of the certificate's
// SubjectPublicKeyInfo, the form commonly used to publish pins.
func Fingerprint(cert *x509.Certificate) string {
	sum := sha256.Sum256(cert.RawSubjectPublicKeyInfo)
	return base64.StdEncoding.EncodeToString(sum[:])
}

// ParseCertificate parses a DER certificate, falling back to PEM.
func ParseCertificate(data []byte) (*x509.Certificate, error) {
	if cert, err := x509.ParseCertificate(data); err == nil {
		return cert, nil
	}
	block, _ := pem.Decode(data)
	if block == nil || block.Type != "CERTIFICATE" {
		return nil, fmt.Errorf("security: not a DER or PEM certificate")
	}
	return x509.ParseCertificate(block.Bytes)
}

func loadCertificateDir(dir string, log *logger.Logger) []*x509.Certificate {
	entries, err := os.ReadDir(dir)
	if err != nil {
		log.Warn("Cannot read pinned certificate directory", map[string]interface{}{
			"dir":   dir,
			"error": err.Error(),
		})
		return nil
	}

	var certs []*x509.Certificate
	for _, entry := range entries {
		if entry.IsDir() || !hasPinnedExtension(entry.Name()) {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			log.Debug("Skipping unreadable certificate", map[string]interface{}{"file": path, "error": err.Error()})
			continue
		}
		cert, err := ParseCertificate(data)
		if err != nil {
			log.Debug("Skipping malformed certificate", map[string]interface{}{"file": path, "error": err.Error()})
			continue
		}
		certs = append(certs, cert)
	}
	return certs
}

func hasPinnedExtension(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range PinnedExtensions {
		if ext == e {
			return true
		}
	}
	return false
}
