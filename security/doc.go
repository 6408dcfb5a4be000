// Package security provides the TLS configuration and certificate pinning
// used by outbound transports.
//
// # TLS Configuration
//
//	cfg := security.TLSConfig{
//	    CAFile:        "/path/to/ca.pem",
//	    PinnedCertDir: "/etc/gopher/pins",
//	}
//	tlsConfig, err := cfg.Build()
//	validator, err := cfg.NewTrustValidator()
//
// # Pinning
//
// A TrustValidator allows a server only when its chain verifies and the
// leaf public key is one of the pinned keys. Pins are loaded once from
// binary (DER) or PEM certificate files.
package security
