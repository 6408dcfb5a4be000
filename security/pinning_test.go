package security

import (
	"crypto/x509"
	"encoding/pem"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/insha/gopher/security/tlstest"
)

func pinnedValidator(t *testing.T, certs *tlstest.TLSCerts) *TrustValidator {
	t.Helper()
	dir := t.TempDir()
	tlstest.WriteDER(t, dir, "server.der", certs.Leaf)
	return NewTrustValidator(WithCertificateDir(dir), WithRoots(certs.CertPool))
}

func TestTrustValidator_Validate(t *testing.T) {
	certs := tlstest.GenerateTLSCerts(t)
	other := tlstest.GenerateTLSCerts(t)
	expired := tlstest.GenerateExpiredTLSCerts(t)

	tests := []struct {
		name      string
		validator *TrustValidator
		host      string
		chain     []*x509.Certificate
		want      Decision
	}{
		{
			name:      "valid chain with pinned key",
			validator: pinnedValidator(t, certs),
			host:      "localhost",
			chain:     certs.Chain(),
			want:      AllowConnection,
		},
		{
			name:      "valid chain with key absent from pins",
			validator: NewTrustValidator(WithCertificates(other.Leaf), WithRoots(certs.CertPool)),
			host:      "localhost",
			chain:     certs.Chain(),
			want:      BlockConnection,
		},
		{
			name:      "pinned key with untrusted chain",
			validator: NewTrustValidator(WithCertificates(certs.Leaf), WithRoots(other.CertPool)),
			host:      "localhost",
			chain:     certs.Chain(),
			want:      BlockConnection,
		},
		{
			name:      "pinned key with hostname mismatch",
			validator: pinnedValidator(t, certs),
			host:      "api.example.com",
			chain:     certs.Chain(),
			want:      BlockConnection,
		},
		{
			name:      "pinned key with expired leaf",
			validator: NewTrustValidator(WithCertificates(expired.Leaf), WithRoots(expired.CertPool)),
			host:      "localhost",
			chain:     expired.Chain(),
			want:      BlockConnection,
		},
		{
			name:      "empty chain",
			validator: pinnedValidator(t, certs),
			host:      "localhost",
			chain:     nil,
			want:      BlockConnection,
		},
		{
			name:      "no pins configured",
			validator: NewTrustValidator(WithRoots(certs.CertPool)),
			host:      "localhost",
			chain:     certs.Chain(),
			want:      BlockConnection,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.validator.Validate(tt.host, tt.chain); got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestTrustValidator_ChainVerifierSeam(t *testing.T) {
	certs := tlstest.GenerateTLSCerts(t)

	var gotHost string
	var gotLen int
	ok := ChainVerifierFunc(func(hostname string, chain []*x509.Certificate) error {
		gotHost, gotLen = hostname, len(chain)
		return nil
	})
	v := NewTrustValidator(WithCertificates(certs.Leaf), WithChainVerifier(ok))
	if got := v.Validate("pinned.example", certs.Chain()); got != AllowConnection {
		t.Errorf("expected allow, got %s", got)
	}
	if gotHost != "pinned.example" || gotLen != 2 {
		t.Errorf("verifier saw host=%q len=%d", gotHost, gotLen)
	}

	failing := ChainVerifierFunc(func(string, []*x509.Certificate) error { return errors.New("revoked") })
	v = NewTrustValidator(WithCertificates(certs.Leaf), WithChainVerifier(failing))
	if got := v.Validate("pinned.example", certs.Chain()); got != BlockConnection {
		t.Errorf("expected block when verifier fails, got %s", got)
	}
}

func TestTrustValidator_LoadsDirectory(t *testing.T) {
	certs := tlstest.GenerateTLSCerts(t)
	other := tlstest.GenerateTLSCerts(t)
	dir := t.TempDir()

	tlstest.WriteDER(t, dir, "server.der", certs.Leaf)
	tlstest.WriteDER(t, dir, "duplicate.cer", certs.Leaf)
	tlstest.WriteFile(t, dir, "other.pem", pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: other.Leaf.Raw}))
	tlstest.WriteFile(t, dir, "garbage.der", []byte("not a certificate"))
	tlstest.WriteFile(t, dir, "notes.txt", certs.Leaf.Raw)
	if err := os.Mkdir(filepath.Join(dir, "nested.der"), 0o700); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	v := NewTrustValidator(WithCertificateDir(dir))
	if v.PinCount() != 2 {
		t.Fatalf("expected 2 distinct pins, got %d", v.PinCount())
	}
	if !v.IsPinned(certs.Leaf) || !v.IsPinned(other.Leaf) {
		t.Error("expected both leaf keys to be pinned")
	}
	if v.IsPinned(certs.CACert) {
		t.Error("expected CA key not to be pinned")
	}
	if v.IsPinned(nil) {
		t.Error("expected nil certificate not to be pinned")
	}
}

func TestTrustValidator_MissingDirectory(t *testing.T) {
	v := NewTrustValidator(WithCertificateDir(filepath.Join(t.TempDir(), "missing")))
	if v.PinCount() != 0 {
		t.Errorf("expected no pins, got %d", v.PinCount())
	}
}

func TestTrustValidator_ConcurrentValidate(t *testing.T) {
	certs := tlstest.GenerateTLSCerts(t)
	v := pinnedValidator(t, certs)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if got := v.Validate("localhost", certs.Chain()); got != AllowConnection {
				t.Errorf("expected allow, got %s", got)
			}
		}()
	}
	wg.Wait()
}

func TestParseCertificate(t *testing.T) {
	certs := tlstest.GenerateTLSCerts(t)

	der, err := ParseCertificate(certs.Leaf.Raw)
	if err != nil {
		t.Fatalf("DER: %v", err)
	}
	pemCert, err := ParseCertificate(pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: certs.Leaf.Raw}))
	if err != nil {
		t.Fatalf("PEM: %v", err)
	}
	if !der.Equal(pemCert) {
		t.Error("expected DER and PEM to parse to the same certificate")
	}
	if _, err := ParseCertificate([]byte("nope")); err == nil {
		t.Error("expected error for garbage input")
	}
}

func TestFingerprint(t *testing.T) {
	certs := tlstest.GenerateTLSCerts(t)
	fp := Fingerprint(certs.Leaf)
	if len(fp) != 44 {
		t.Errorf("expected 44 character base64 digest, got %d (%q)", len(fp), fp)
	}
	if fp == Fingerprint(certs.CACert) {
		t.Error("expected distinct keys to have distinct fingerprints")
	}
}

func TestDecision_String(t *testing.T) {
	if AllowConnection.String() != "allow" || BlockConnection.String() != "block" {
		t.Errorf("unexpected names %q %q", AllowConnection, BlockConnection)
	}
}
