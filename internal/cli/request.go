package cli

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/insha/gopher/httpclient"
)

// flags holds the values shared by every request command.
type flags struct {
	configFile   string
	baseURL      string
	headers      []string
	query        []string
	data         []string
	jsonBody     string
	form         bool
	timeout      time.Duration
	retries      int
	retryDelay   time.Duration
	profile      bool
	pinDir       string
	selectPath   string
	otelEndpoint string
	noColor      bool
	verbose      bool
}

// parsePairs splits "key=value" arguments. The value may be empty and may
// itself contain '='.
func parsePairs(args []string) ([][2]string, error) {
	pairs := make([][2]string, 0, len(args))
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid pair %q: expected key=value", arg)
		}
		pairs = append(pairs, [2]string{key, value})
	}
	return pairs, nil
}

// parseHeaders splits curl-style "Name: value" arguments.
func parseHeaders(args []string) (map[string]string, error) {
	headers := make(map[string]string, len(args))
	for _, arg := range args {
		name, value, ok := strings.Cut(arg, ":")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid header %q: expected \"Name: value\"", arg)
		}
		headers[name] = strings.TrimSpace(value)
	}
	return headers, nil
}

// buildRequest turns a command line into a request.
func buildRequest(method httpclient.Method, endpoint string, f *flags) (*httpclient.Request, error) {
	if endpoint == "" {
		return nil, fmt.Errorf("an endpoint is required")
	}
	b := httpclient.NewRequestBuilder().Resource(endpoint).Using(method)

	query, err := parsePairs(f.query)
	if err != nil {
		return nil, fmt.Errorf("--query: %w", err)
	}
	seen := make(map[string]bool, len(query))
	for _, p := range query {
		if seen[p[0]] {
			return nil, fmt.Errorf("--query: %q given more than once", p[0])
		}
		seen[p[0]] = true
		b = b.Parameter(p[0], p[1])
	}

	headers, err := parseHeaders(f.headers)
	if err != nil {
		return nil, err
	}
	for k, v := range headers {
		b = b.CustomHeader(k, v)
	}
	if f.form {
		b = b.Header(httpclient.HeaderContentType, httpclient.MimeForm)
	}

	if f.jsonBody != "" {
		var body map[string]any
		if err := jsoniter.ConfigCompatibleWithStandardLibrary.UnmarshalFromString(f.jsonBody, &body); err != nil {
			return nil, fmt.Errorf("--json must be a JSON object: %w", err)
		}
		b = b.Body(body)
	}
	data, err := parsePairs(f.data)
	if err != nil {
		return nil, fmt.Errorf("--data: %w", err)
	}
	for _, p := range data {
		b = b.BodyValue(p[0], p[1])
	}

	if f.timeout > 0 {
		b = b.TimeoutAt(f.timeout)
	}
	return b.Build(), nil
}

// baseFromEndpoint returns scheme://host/ of an absolute endpoint, or ""
// when the endpoint is relative.
func baseFromEndpoint(endpoint string) string {
	u, err := url.Parse(endpoint)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ""
	}
	return (&url.URL{Scheme: u.Scheme, User: u.User, Host: u.Host, Path: "/"}).String()
}
