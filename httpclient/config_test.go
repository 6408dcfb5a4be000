package httpclient

import (
	"strings"
	"testing"
	"time"

	"github.com/insha/gopher/security"
)

func TestConfig_ApplyDefaults(t *testing.T) {
	cfg := Config{BaseURL: "https://api.themoviedb.org/3/"}
	cfg.ApplyDefaults()

	if cfg.ServiceName != "gopher-network-service" {
		t.Errorf("unexpected service name %q", cfg.ServiceName)
	}
	if !strings.HasPrefix(cfg.UserAgent, "gopher/") {
		t.Errorf("unexpected user agent %q", cfg.UserAgent)
	}
	if cfg.RequestTimeout != 60*time.Second {
		t.Errorf("expected 60s, got %v", cfg.RequestTimeout)
	}
	if cfg.ResourceTimeout != 7*24*time.Hour {
		t.Errorf("expected 7 days, got %v", cfg.ResourceTimeout)
	}
	if cfg.MaxConcurrent != 4 {
		t.Errorf("expected 4, got %d", cfg.MaxConcurrent)
	}
	if cfg.Profile.Enabled {
		t.Error("profiling must be off by default")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"missing base url", Config{}},
		{"invalid base url", Config{BaseURL: "not a url"}},
		{"negative concurrency", Config{BaseURL: "https://example.com", MaxConcurrent: -1}},
		{"request exceeds resource", Config{BaseURL: "https://example.com", RequestTimeout: time.Hour, ResourceTimeout: time.Minute}},
		{"invalid tls", Config{BaseURL: "https://example.com", TLS: &security.TLSConfig{CertFile: "cert.pem"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cfg.Validate(); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestProfileConfig_Profiler(t *testing.T) {
	p := ProfileConfig{Enabled: true}.Profiler()
	if !p.Enabled || p.ShowRequestBody || !p.ShowResponseBody {
		t.Errorf("unexpected profiler %+v", p)
	}
	p = ProfileConfig{Enabled: true, ShowRequestBody: true, HideResponseBody: true}.Profiler()
	if !p.ShowRequestBody || p.ShowResponseBody {
		t.Errorf("unexpected profiler %+v", p)
	}
}

func TestConfig_ProviderConfig(t *testing.T) {
	cfg := Config{BaseURL: "https://example.com", ServiceName: "movies", MaxConcurrent: 2}
	cfg.ApplyDefaults()
	pc := cfg.ProviderConfig()
	if pc.Name != "movies" || pc.MaxConcurrent != 2 || pc.RequestTimeout != DefaultTimeout || pc.ResourceTimeout != DefaultResourceTimeout {
		t.Errorf("unexpected provider config %+v", pc)
	}
}
