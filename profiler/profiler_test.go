package profiler

import (
	"strings"
	"testing"
	"time"
)

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, "0s"},
		{500 * time.Millisecond, "500ms"},
		{999 * time.Millisecond, "999ms"},
		{time.Second, "1.00s"},
		{5 * time.Second, "5.00s"},
		{9990 * time.Millisecond, "9.99s"},
		{10 * time.Second, "10.0s"},
		{15 * time.Second, "15.0s"},
		{-2 * time.Second, "-2.0s"},
	}
	for _, tt := range tests {
		t.Run(tt.in.String(), func(t *testing.T) {
			if got := FormatDuration(tt.in); got != tt.want {
				t.Errorf("FormatDuration(%v) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func sampleEntry() Entry {
	sent := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	return Entry{
		Method:         "POST",
		URL:            "https://api.themoviedb.org/3/movie/popular?api_key=k",
		RequestHeaders: map[string]string{"User-Agent": "gopher/dev", "Accept": "application/json"},
		RequestBody:    []byte(`{"page":1}`),
		MimeType:       "application/json",
		StatusCode:     200,
		ContentLength:  12,
		ResponseBody:   []byte(`[{"id":550}]`),
		Sent:           sent,
		Received:       sent.Add(250 * time.Millisecond),
	}
}

func TestEntry_LogRequest(t *testing.T) {
	e := sampleEntry()

	redacted := e.LogRequest(false)
	want := "====\n" +
		"Request: (POST) https://api.themoviedb.org/3/movie/popular?api_key=k\n" +
		`Headers: ["Accept": "application/json", "User-Agent": "gopher/dev"]` + "\n" +
		"Body   : <Redacted>\n"
	if redacted != want {
		t.Errorf("unexpected request log:\n%s\nwant:\n%s", redacted, want)
	}

	if shown := e.LogRequest(true); !strings.Contains(shown, `Body   : {"page":1}`) {
		t.Errorf("expected body to be shown, got %q", shown)
	}
}

func TestEntry_LogResponse(t *testing.T) {
	e := sampleEntry()

	got := e.LogResponse(true)
	want := "----\nResponse [application/json : 200 : 250ms : 12 bytes]:\n[{\"id\":550}]\n\n"
	if got != want {
		t.Errorf("unexpected response log %q, want %q", got, want)
	}

	if redacted := e.LogResponse(false); !strings.Contains(redacted, Redacted) {
		t.Errorf("expected redacted body, got %q", redacted)
	}
}

func TestEntry_MissingValues(t *testing.T) {
	e := Entry{}
	if got := e.LogRequest(false); !strings.Contains(got, "Request: (N/A) N/A") || !strings.Contains(got, "Headers: [:]") {
		t.Errorf("unexpected request log %q", got)
	}
	if got := e.LogResponse(false); !strings.Contains(got, "[N/A : 0 : 0s : 0 bytes]") {
		t.Errorf("unexpected response log %q", got)
	}
}

func TestProfiler_Defaults(t *testing.T) {
	p := New()
	if !p.Enabled || p.ShowRequestBody || !p.ShowResponseBody {
		t.Errorf("unexpected defaults %+v", p)
	}
}

func TestProfiler_Profile(t *testing.T) {
	e := sampleEntry()

	p := New()
	out := p.Profile(e)
	if !strings.HasPrefix(out, "====\n") {
		t.Errorf("expected request section first, got %q", out)
	}
	if !strings.Contains(out, "Body   : <Redacted>") {
		t.Error("expected request body to be redacted by default")
	}
	if !strings.Contains(out, `[{"id":550}]`) {
		t.Error("expected response body to be shown by default")
	}

	p.Enabled = false
	if out := p.Profile(e); out != "" {
		t.Errorf("expected empty output when disabled, got %q", out)
	}

	var nilProfiler *Profiler
	if out := nilProfiler.Profile(e); out != "" {
		t.Errorf("expected empty output for nil profiler, got %q", out)
	}
}
