package httpclient

import (
	"errors"
	"strings"
	"testing"

	gerrors "github.com/insha/gopher/errors"
)

func TestBuildRequest_ResolveURL(t *testing.T) {
	tests := []struct {
		name     string
		base     string
		endpoint string
		want     string
	}{
		{"relative to directory", "https://api.themoviedb.org/3/", "movie/popular", "https://api.themoviedb.org/3/movie/popular"},
		{"relative to file", "https://api.themoviedb.org/3", "movie/popular", "https://api.themoviedb.org/movie/popular"},
		{"absolute path", "https://api.themoviedb.org/3/", "/configuration", "https://api.themoviedb.org/configuration"},
		{"absolute endpoint", "https://api.themoviedb.org/3/", "https://image.tmdb.org/t/p", "https://image.tmdb.org/t/p"},
		{"parent", "https://example.com/a/b/", "../c", "https://example.com/a/c"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := NewRequestBuilder().Resource(tt.endpoint).Build()
			out, err := BuildRequest(req, tt.base)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := out.URL.String(); got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestBuildRequest_InvalidURL(t *testing.T) {
	tests := []struct {
		name     string
		base     string
		endpoint string
	}{
		{"unparsable base", "http://[::1", "movie"},
		{"no scheme", "api.example.com/3/", "movie"},
		{"empty base", "", "movie/popular"},
		{"bad escape", "https://example.com/", "%zz"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := NewRequestBuilder().Resource(tt.endpoint).Build()
			_, err := BuildRequest(req, tt.base)
			if !errors.Is(err, gerrors.KindInvalidURL) {
				t.Fatalf("expected invalidURL, got %v", err)
			}
			reqErr, _ := gerrors.AsRequestError(err)
			if reqErr.Domain != gerrors.DomainClient {
				t.Errorf("expected client domain, got %s", reqErr.Domain)
			}
			if reqErr.StatusCode != gerrors.NoStatus {
				t.Errorf("expected no status, got %d", reqErr.StatusCode)
			}
		})
	}
}

func TestBuildRequest_Query(t *testing.T) {
	req := NewRequestBuilder().
		Resource("search/movie?ignored=1").
		Parameter("query", "fight club").
		Parameter("api_key", "a&b").
		Build()

	out, err := BuildRequest(req, "https://api.themoviedb.org/3/")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := out.URL.RawQuery; got != "query=fight+club&api_key=a%26b" {
		t.Errorf("unexpected query %q", got)
	}

	plain := NewRequestBuilder().Resource("search/movie?keep=1").Build()
	out, err = BuildRequest(plain, "https://api.themoviedb.org/3/")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.URL.RawQuery != "keep=1" {
		t.Errorf("expected endpoint query to be kept without parameters, got %q", out.URL.RawQuery)
	}
}

func TestBuildRequest_JSONBody(t *testing.T) {
	req := NewRequestBuilder().
		Resource("list").
		Using(MethodPost).
		BodyValue("name", "Watchlist").
		BodyValue("public", true).
		Build()

	out, err := BuildRequest(req, "https://example.com/")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "{\n  \"name\": \"Watchlist\",\n  \"public\": true\n}"
	if string(out.Body) != want {
		t.Errorf("unexpected body %q, want %q", out.Body, want)
	}
	if ct := out.Header.Get("Content-Type"); ct != MimeJSON {
		t.Errorf("expected json content type, got %q", ct)
	}
}

func TestBuildRequest_FormBody(t *testing.T) {
	req := NewRequestBuilder().
		Resource("authentication/token/validate_with_login").
		Using(MethodPost).
		Header(HeaderContentType, MimeForm).
		BodyValue("username", "jo doe").
		BodyValue("password", "p&ss").
		BodyValue("request_token", "abc").
		Build()

	out, err := BuildRequest(req, "https://example.com/")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "password=p%26ss&request_token=abc&username=jo+doe"
	if string(out.Body) != want {
		t.Errorf("expected %q, got %q", want, out.Body)
	}
	if ct := out.Header.Get("Content-Type"); ct != MimeForm {
		t.Errorf("declared content type must be kept, got %q", ct)
	}
}

func TestBuildRequest_NoBody(t *testing.T) {
	get := NewRequestBuilder().Resource("x").BodyValue("ignored", 1).Build()
	out, err := BuildRequest(get, "https://example.com/")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Body != nil {
		t.Errorf("GET must not carry a body, got %q", out.Body)
	}
	if out.Header.Get("Content-Type") != "" {
		t.Error("GET without body must not get a content type")
	}

	post := NewRequestBuilder().Resource("x").Using(MethodPost).Build()
	out, err = BuildRequest(post, "https://example.com/")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Body != nil {
		t.Errorf("nil content must not be sent, got %q", out.Body)
	}

	emptyForm := NewRequestBuilder().Resource("x").Using(MethodPost).Header(HeaderContentType, MimeForm).Build()
	out, _ = BuildRequest(emptyForm, "https://example.com/")
	if out.Body != nil {
		t.Errorf("empty form must not be sent, got %q", out.Body)
	}
}

func TestBuildRequest_BodyEncodeFailure(t *testing.T) {
	req := NewRequestBuilder().
		Resource("x").
		Using(MethodPost).
		BodyValue("ch", make(chan int)).
		Build()

	_, err := BuildRequest(req, "https://example.com/")
	if !errors.Is(err, gerrors.KindBadRequest) {
		t.Fatalf("expected badRequest, got %v", err)
	}
}

func TestBuildRequest_HeadersVerbatim(t *testing.T) {
	req := NewRequestBuilder().
		Resource("x").
		CustomHeader("x-lower-case", "1").
		Header(HeaderAuthorization, "Bearer t").
		Build()

	out, err := BuildRequest(req, "https://example.com/")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v := out.Header["x-lower-case"]; len(v) != 1 || v[0] != "1" {
		t.Errorf("expected verbatim header key, got %v", out.Header)
	}
	if out.Header.Get("Authorization") != "Bearer t" {
		t.Errorf("unexpected headers %v", out.Header)
	}
	if out.ID != req.ID() || out.Name != req.Name() || out.Timeout != req.Timeout() {
		t.Errorf("request identity not carried over: %+v", out)
	}
}

func TestSetDefaultHeader(t *testing.T) {
	h := map[string][]string{"user-agent": {"custom"}}
	setDefaultHeader(h, "User-Agent", "gopher/dev")
	if len(h) != 1 || h["user-agent"][0] != "custom" {
		t.Errorf("declared header overridden: %v", h)
	}
	setDefaultHeader(h, "Accept", "")
	if _, ok := h["Accept"]; ok {
		t.Error("empty default must not be set")
	}
	setDefaultHeader(h, "Accept", MimeJSON)
	if !strings.EqualFold(h["Accept"][0], MimeJSON) {
		t.Errorf("expected default to be added, got %v", h)
	}
}
