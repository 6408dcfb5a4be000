// Package cli implements the gopher command: one request per invocation,
// sent through an httpclient session managed by a bootstrap.App.
package cli
