package cli

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	gerrors "github.com/insha/gopher/errors"
	"github.com/insha/gopher/httpclient"
	"github.com/insha/gopher/version"
)

func TestParsePairs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    [][2]string
		wantErr bool
	}{
		{"simple", []string{"page=2"}, [][2]string{{"page", "2"}}, false},
		{"empty value", []string{"q="}, [][2]string{{"q", ""}}, false},
		{"value with equals", []string{"expr=a=b"}, [][2]string{{"expr", "a=b"}}, false},
		{"trimmed key", []string{" lang =en"}, [][2]string{{"lang", "en"}}, false},
		{"missing separator", []string{"page"}, nil, true},
		{"missing key", []string{"=2"}, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parsePairs(tt.args)
			if tt.wantErr {
				if err == nil {
					t.Error("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("pair %d: expected %v, got %v", i, tt.want[i], got[i])
				}
			}
		})
	}
}

func TestParseHeaders(t *testing.T) {
	got, err := parseHeaders([]string{"Authorization: Bearer abc", "X-Empty:", "X-Url: http://x"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got["Authorization"] != "Bearer abc" {
		t.Errorf("unexpected authorization %q", got["Authorization"])
	}
	if v, ok := got["X-Empty"]; !ok || v != "" {
		t.Errorf("expected empty X-Empty, got %q", v)
	}
	if got["X-Url"] != "http://x" {
		t.Errorf("expected value split at the first colon, got %q", got["X-Url"])
	}

	if _, err := parseHeaders([]string{"no separator"}); err == nil {
		t.Error("expected error for header without colon")
	}
	if _, err := parseHeaders([]string{": value"}); err == nil {
		t.Error("expected error for header without name")
	}
}

func TestBuildRequest(t *testing.T) {
	f := &flags{
		query:    []string{"page=2", "language=en-US"},
		headers:  []string{"Authorization: Bearer abc"},
		jsonBody: `{"name":"Watchlist","public":true}`,
		data:     []string{"description=mine"},
		timeout:  5 * time.Second,
	}
	req, err := buildRequest(httpclient.MethodPost, "list", f)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.Method() != httpclient.MethodPost || req.Endpoint() != "list" {
		t.Errorf("unexpected request %s", req.Name())
	}
	params := req.Parameters()
	if len(params) != 2 || params[0].Name != "page" || params[1].Value != "en-US" {
		t.Errorf("unexpected parameters %v", params)
	}
	if req.Headers()["Authorization"] != "Bearer abc" {
		t.Errorf("unexpected headers %v", req.Headers())
	}
	body := req.Body()
	if body["name"] != "Watchlist" || body["public"] != true || body["description"] != "mine" {
		t.Errorf("unexpected body %v", body)
	}
	if req.Timeout() != 5*time.Second {
		t.Errorf("expected 5s, got %v", req.Timeout())
	}
	if req.DataFormat() != httpclient.FormatJSON {
		t.Errorf("expected json, got %s", req.DataFormat())
	}
}

func TestBuildRequest_QueryOrder(t *testing.T) {
	req, err := buildRequest(httpclient.MethodGet, "discover/movie", &flags{
		query: []string{"sort_by=popularity.desc", "page=3", "language=en-US"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"sort_by", "page", "language"}
	params := req.Parameters()
	if len(params) != len(want) {
		t.Fatalf("expected %d parameters, got %v", len(want), params)
	}
	for i, name := range want {
		if params[i].Name != name {
			t.Errorf("params[%d] = %q, expected %q", i, params[i].Name, name)
		}
	}

	_, err = buildRequest(httpclient.MethodGet, "discover/movie", &flags{query: []string{"page=1", "page=2"}})
	if err == nil || !strings.Contains(err.Error(), `"page" given more than once`) {
		t.Errorf("expected repeated key error, got %v", err)
	}
}

func TestBuildRequest_Form(t *testing.T) {
	req, err := buildRequest(httpclient.MethodPost, "token", &flags{form: true, data: []string{"username=jo"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.DataFormat() != httpclient.FormatForm {
		t.Errorf("expected form, got %s", req.DataFormat())
	}
}

func TestBuildRequest_Errors(t *testing.T) {
	tests := []struct {
		name     string
		endpoint string
		f        *flags
	}{
		{"empty endpoint", "", &flags{}},
		{"bad query", "x", &flags{query: []string{"page"}}},
		{"repeated query key", "x", &flags{query: []string{"page=1", "language=en", "page=2"}}},
		{"bad header", "x", &flags{headers: []string{"nope"}}},
		{"bad json", "x", &flags{jsonBody: `[1,2]`}},
		{"bad data", "x", &flags{data: []string{"=v"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := buildRequest(httpclient.MethodPost, tt.endpoint, tt.f); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestBaseFromEndpoint(t *testing.T) {
	tests := []struct {
		endpoint string
		want     string
	}{
		{"https://api.themoviedb.org/3/movie/popular?page=2", "https://api.themoviedb.org/"},
		{"http://user:pw@localhost:8080/x", "http://user:pw@localhost:8080/"},
		{"movie/popular", ""},
		{"/movie/popular", ""},
	}
	for _, tt := range tests {
		if got := baseFromEndpoint(tt.endpoint); got != tt.want {
			t.Errorf("baseFromEndpoint(%q) = %q, want %q", tt.endpoint, got, tt.want)
		}
	}
}

func TestSelectValue(t *testing.T) {
	body := []byte(`{"page":1,"results":[{"title":"Heat","adult":false,"tagline":null}]}`)
	tests := []struct {
		path    string
		want    string
		wantErr bool
	}{
		{"page", "1", false},
		{"results.0.title", "Heat", false},
		{"results.0.adult", "false", false},
		{"results.0.tagline", "null", false},
		{"results.#", "1", false},
		{"results.1.title", "", true},
	}
	for _, tt := range tests {
		got, err := selectValue(body, tt.path)
		if tt.wantErr {
			if err == nil {
				t.Errorf("%s: expected error", tt.path)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("%s: expected %q, got %q (%v)", tt.path, tt.want, got, err)
		}
	}

	if _, err := selectValue([]byte("<html>"), "page"); err == nil {
		t.Error("expected error for non-JSON body")
	}
}

func TestPrinter(t *testing.T) {
	req := httpclient.NewRequestBuilder().Resource("movie/1").Build()
	resp := &httpclient.Response{
		URL:        "https://example.com/movie/1",
		StatusCode: 404,
		Headers:    map[string]string{"Content-Type": "text/plain"},
		Body:       []byte("missing"),
		Err:        gerrors.FromStatus(404, "https://example.com/movie/1"),
	}

	var out, errOut bytes.Buffer
	p := newPrinter(&out, &errOut, &flags{noColor: true, verbose: true})
	err := p.Print(req, resp, resp.Err)
	if !gerrors.IsKind(err, gerrors.KindBadRequest) {
		t.Errorf("expected badRequest, got %v", err)
	}
	for _, want := range []string{
		"GET https://example.com/movie/1\n",
		"404 Not Found\n",
		"Content-Type: text/plain\n",
		"missing\n",
	} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}
	if !strings.Contains(errOut.String(), "Domain") {
		t.Errorf("expected error description, got %q", errOut.String())
	}
}

func TestPrinter_PrettyJSON(t *testing.T) {
	var out bytes.Buffer
	p := newPrinter(&out, io.Discard, &flags{noColor: true})
	resp := &httpclient.Response{StatusCode: 200, Body: []byte(`{"a":1}`)}
	if err := p.Print(httpclient.NewRequestBuilder().Resource("x").Build(), resp, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.String() != "{\n  \"a\": 1\n}\n" {
		t.Errorf("unexpected output %q", out.String())
	}
}

func TestFlagsApply(t *testing.T) {
	cfg := &Config{}
	f := &flags{
		baseURL:      "https://api.themoviedb.org/3/",
		profile:      true,
		pinDir:       "/etc/gopher/pins",
		otelEndpoint: "http://localhost:4318",
		verbose:      true,
	}
	f.apply(cfg)

	if cfg.Client.BaseURL != "https://api.themoviedb.org/3/" {
		t.Errorf("unexpected base url %q", cfg.Client.BaseURL)
	}
	if !cfg.Client.Profile.Enabled || !cfg.Client.Profile.ShowRequestBody {
		t.Errorf("expected profiling enabled, got %+v", cfg.Client.Profile)
	}
	if cfg.Client.TLS == nil || cfg.Client.TLS.PinnedCertDir != "/etc/gopher/pins" {
		t.Errorf("unexpected tls %+v", cfg.Client.TLS)
	}
	if cfg.Telemetry.Endpoint != "localhost:4318" || !cfg.Telemetry.Insecure {
		t.Errorf("unexpected telemetry %+v", cfg.Telemetry)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected debug logging, got %q", cfg.Logging.Level)
	}

	cfg = &Config{}
	(&flags{otelEndpoint: "https://collector:4318"}).apply(cfg)
	if cfg.Telemetry.Endpoint != "collector:4318" || cfg.Telemetry.Insecure {
		t.Errorf("unexpected telemetry %+v", cfg.Telemetry)
	}
}

func TestConfig_Validate(t *testing.T) {
	cfg := &Config{}
	cfg.Client.BaseURL = "https://example.com"
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Telemetry.SampleRate != 1 || cfg.Telemetry.Enabled() {
		t.Errorf("unexpected telemetry defaults %+v", cfg.Telemetry)
	}

	cfg.Telemetry.SampleRate = 2
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for sample rate above 1")
	}

	cfg = &Config{}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "config.client") {
		t.Errorf("expected client error, got %v", err)
	}
}

func newMovieServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/3/movie/popular":
			w.Header().Set("Content-Type", "application/json")
			_, _ = io.WriteString(w, `{"page":`+r.URL.Query().Get("page")+`,"results":[{"title":"Heat"}]}`)
		case "/3/token":
			_ = r.ParseForm()
			w.Header().Set("Content-Type", "application/json")
			_, _ = io.WriteString(w, `{"user":"`+r.PostForm.Get("username")+`","type":"`+r.Header.Get("Content-Type")+`"}`)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRootCmd_Get(t *testing.T) {
	srv := newMovieServer(t)
	out, err := execute(t, "get", "movie/popular",
		"--base-url", srv.URL+"/3/",
		"-q", "page=2",
		"--select", "page",
		"--no-color",
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "2\n" {
		t.Errorf("expected 2, got %q", out)
	}
}

func TestRootCmd_AbsoluteEndpoint(t *testing.T) {
	srv := newMovieServer(t)
	out, err := execute(t, "get", srv.URL+"/3/movie/popular?page=1", "-s", "results.0.title", "--no-color")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "Heat\n" {
		t.Errorf("expected Heat, got %q", out)
	}
}

func TestRootCmd_PostForm(t *testing.T) {
	srv := newMovieServer(t)
	out, err := execute(t, "post", "token",
		"--base-url", srv.URL+"/3/",
		"--form", "-d", "username=jo doe",
		"-s", "{user,type}",
		"--no-color",
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `{"user":"jo doe","type":"` + httpclient.MimeForm + `"}` + "\n"
	if out != want {
		t.Errorf("expected %q, got %q", want, out)
	}
}

func TestRootCmd_StatusError(t *testing.T) {
	srv := newMovieServer(t)
	out, err := execute(t, "get", "movie/missing", "--base-url", srv.URL+"/3/", "--no-color")
	if !gerrors.IsKind(err, gerrors.KindBadRequest) {
		t.Errorf("expected badRequest, got %v", err)
	}
	if !strings.Contains(out, "404 page not found") {
		t.Errorf("expected body to be printed, got %q", out)
	}
}

func TestRootCmd_MissingBaseURL(t *testing.T) {
	if _, err := execute(t, "get", "movie/popular", "--no-color"); err == nil {
		t.Error("expected error without a base url")
	}
}

func TestRootCmd_Version(t *testing.T) {
	out, err := execute(t, "version")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(out, version.Product+" "+version.Version+"\n") {
		t.Errorf("unexpected output %q", out)
	}
	if !strings.Contains(out, "go:") {
		t.Errorf("expected go version, got %q", out)
	}
}
