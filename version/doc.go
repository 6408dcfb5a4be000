// Package version exposes the build identity of the binary and the default
// User-Agent sent with every request.
//
// Version, commit and build time are set at compile time via -ldflags:
//
//	go build -ldflags "-X github.com/insha/gopher/version.Version=1.0.0"
package version
