// Package tlstest generates certificate material for tests: a throwaway CA,
// a server certificate for localhost, PEM files for TLS configuration and
// DER files for pinning directories. Files live under t.TempDir().
//
// Usage:
//
//	func TestPinning(t *testing.T) {
//	    certs := tlstest.GenerateTLSCerts(t)
//	    dir := t.TempDir()
//	    tlstest.WriteDER(t, dir, "server.der", certs.Leaf)
//	}
package tlstest

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// TLSCerts holds generated certificate files and parsed objects.
type TLSCerts struct {
	// CAFile is the path to the CA certificate PEM file.
	CAFile string
	// CertFile is the path to the server certificate PEM file.
	CertFile string
	// KeyFile is the path to the server private key PEM file.
	KeyFile string

	// CACert is the parsed CA certificate.
	CACert *x509.Certificate
	// Leaf is the parsed server certificate.
	Leaf *x509.Certificate
	// ServerTLS is a ready-to-use tls.Certificate for httptest servers.
	ServerTLS tls.Certificate
	// CertPool contains the CA certificate for client-side verification.
	CertPool *x509.CertPool
}

// Chain returns the server chain as a TLS peer would present it.
func (c *TLSCerts) Chain() []*x509.Certificate {
	return []*x509.Certificate{c.Leaf, c.CACert}
}

// GenerateTLSCerts creates a CA and a server certificate signed by it.
// The server cert is valid for localhost, 127.0.0.1, and [::1].
func GenerateTLSCerts(t testing.TB) *TLSCerts {
	t.Helper()
	return generate(t, time.Now().Add(-time.Hour), time.Now().Add(24*time.Hour))
}

// GenerateExpiredTLSCerts is GenerateTLSCerts with a server certificate
// that expired an hour ago.
func GenerateExpiredTLSCerts(t testing.TB) *TLSCerts {
	t.Helper()
	return generate(t, time.Now().Add(-48*time.Hour), time.Now().Add(-time.Hour))
}

func generate(t testing.TB, notBefore, notAfter time.Time) *TLSCerts {
	dir := t.TempDir()

	caKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatalf("tlstest: generate CA key: %v", err)
	}
	caTemplate := &x509.Certificate{
		SerialNumber:          big.NewInt(1),
		Subject:               pkix.Name{Organization: []string{"Gopher Test CA"}},
		NotBefore:             time.Now().Add(-72 * time.Hour),
		NotAfter:              time.Now().Add(72 * time.Hour),
		KeyUsage:              x509.KeyUsageCertSign | x509.KeyUsageCRLSign,
		BasicConstraintsValid: true,
		IsCA:                  true,
	}
	caDER, err := x509.CreateCertificate(rand.Reader, caTemplate, caTemplate, &caKey.PublicKey, caKey)
	if err != nil {
		t.Fatalf("tlstest: create CA cert: %v", err)
	}
	caCert, err := x509.ParseCertificate(caDER)
	if err != nil {
		t.Fatalf("tlstest: parse CA cert: %v", err)
	}
	caFile := filepath.Join(dir, "ca.pem")
	writePEM(t, caFile, "CERTIFICATE", caDER)

	serverKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatalf("tlstest: generate server key: %v", err)
	}
	serverTemplate := &x509.Certificate{
		SerialNumber: big.NewInt(2),
		Subject:      pkix.Name{Organization: []string{"Gopher Test"}, CommonName: "localhost"},
		DNSNames:     []string{"localhost"},
		IPAddresses:  []net.IP{net.IPv4(127, 0, 0, 1), net.IPv6loopback},
		NotBefore:    notBefore,
		NotAfter:     notAfter,
		KeyUsage:     x509.KeyUsageDigitalSignature | x509.KeyUsageKeyEncipherment,
		ExtKeyUsage:  []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
	}
	serverDER, err := x509.CreateCertificate(rand.Reader, serverTemplate, caCert, &serverKey.PublicKey, caKey)
	if err != nil {
		t.Fatalf("tlstest: create server cert: %v", err)
	}
	leaf, err := x509.ParseCertificate(serverDER)
	if err != nil {
		t.Fatalf("tlstest: parse server cert: %v", err)
	}
	certFile := filepath.Join(dir, "cert.pem")
	writePEM(t, certFile, "CERTIFICATE", serverDER)

	keyDER, err := x509.MarshalECPrivateKey(serverKey)
	if err != nil {
		t.Fatalf("tlstest: marshal server key: %v", err)
	}
	keyFile := filepath.Join(dir, "key.pem")
	writePEM(t, keyFile, "EC PRIVATE KEY", keyDER)

	serverTLS, err := tls.LoadX509KeyPair(certFile, keyFile)
	if err != nil {
		t.Fatalf("tlstest: load key pair: %v", err)
	}
	serverTLS.Certificate = append(serverTLS.Certificate, caDER)

	pool := x509.NewCertPool()
	pool.AddCert(caCert)

	return &TLSCerts{
		CAFile:    caFile,
		CertFile:  certFile,
		KeyFile:   keyFile,
		CACert:    caCert,
		Leaf:      leaf,
		ServerTLS: serverTLS,
		CertPool:  pool,
	}
}

// WriteDER writes cert in binary DER form to dir/name and returns the path.
func WriteDER(t testing.TB, dir, name string, cert *x509.Certificate) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, cert.Raw, 0o600); err != nil {
		t.Fatalf("tlstest: write DER %s: %v", path, err)
	}
	return path
}

// WriteFile writes arbitrary content to dir/name, for malformed inputs.
func WriteFile(t testing.TB, dir, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("tlstest: write %s: %v", path, err)
	}
	return path
}

// WriteInvalidPEM writes a file with content that looks like PEM but isn't a valid certificate.
func WriteInvalidPEM(t testing.TB, filename string) string {
	t.Helper()
	return WriteFile(t, t.TempDir(), filename,
		[]byte("-----BEGIN CERTIFICATE-----\nnot-valid-base64-data\n-----END CERTIFICATE-----\n"))
}

func writePEM(t testing.TB, path, blockType string, data []byte) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("tlstest: create %s: %v", path, err)
	}
	defer func() { _ = f.Close() }()
	if err := pem.Encode(f, &pem.Block{Type: blockType, Bytes: data}); err != nil {
		t.Fatalf("tlstest: encode PEM %s: %v", path, err)
	}
}
