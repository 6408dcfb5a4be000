// Package profiler renders the request and response of an exchange, with
// its round-trip time, as human-readable diagnostic text.
package profiler

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Redacted replaces bodies that are not shown.
const Redacted = "<Redacted>"

const notAvailable = "N/A"

// Entry is one profiled exchange.
type Entry struct {
	Method         string
	URL            string
	RequestHeaders map[string]string
	RequestBody    []byte

	MimeType      string
	StatusCode    int
	ContentLength int64
	ResponseBody  []byte

	Sent     time.Time
	Received time.Time
}

// Duration returns the time between sending and receiving.
func (e Entry) Duration() time.Duration {
	return e.Received.Sub(e.Sent)
}

// RoundTrip returns the formatted duration of the exchange.
func (e Entry) RoundTrip() string {
	return FormatDuration(e.Duration())
}

// LogRequest renders the request half of the entry.
func (e Entry) LogRequest(showBody bool) string {
	body := Redacted
	if showBody {
		body = string(e.RequestBody)
	}

	var b strings.Builder
	b.WriteString("====\n")
	fmt.Fprintf(&b, "Request: (%s) %s\n", orNA(e.Method), orNA(e.URL))
	fmt.Fprintf(&b, "Headers: %s\n", formatHeaders(e.RequestHeaders))
	fmt.Fprintf(&b, "Body   : %s\n", body)
	return b.String()
}

// LogResponse renders the response half of the entry.
func (e Entry) LogResponse(showBody bool) string {
	body := Redacted
	if showBody {
		body = string(e.ResponseBody)
	}

	var b strings.Builder
	b.WriteString("----\n")
	fmt.Fprintf(&b, "Response [%s : %d : %s : %d bytes]:\n",
		orNA(e.MimeType), e.StatusCode, e.RoundTrip(), e.ContentLength)
	b.WriteString(body)
	b.WriteString("\n\n")
	return b.String()
}

// Profiler decides which parts of an entry are rendered.
type Profiler struct {
	Enabled          bool
	ShowRequestBody  bool
	ShowResponseBody bool
}

// New returns an enabled profiler that redacts request bodies and shows
// response bodies.
func New() *Profiler {
	return &Profiler{
		Enabled:          true,
		ShowRequestBody:  false,
		ShowResponseBody: true,
	}
}

// Profile renders the entry, or returns "" when the profiler is disabled.
func (p *Profiler) Profile(entry Entry) string {
	if p == nil || !p.Enabled {
		return ""
	}
	return entry.LogRequest(p.ShowRequestBody) + entry.LogResponse(p.ShowResponseBody)
}

// FormatDuration buckets a duration: exactly zero is "0s", under a second
// is whole milliseconds, under ten seconds has two decimals and anything
// else has one.
func FormatDuration(d time.Duration) string {
	secs := d.Seconds()
	switch {
	case secs == 0:
		return "0s"
	case secs > 0 && secs < 1:
		return fmt.Sprintf("%.0fms", secs*1000)
	case secs >= 1 && secs < 10:
		return fmt.Sprintf("%.2fs", secs)
	default:
		return fmt.Sprintf("%.1fs", secs)
	}
}

func formatHeaders(h map[string]string) string {
	if len(h) == 0 {
		return "[:]"
	}
	keys := make([]string, 0, len(h))
	for k := range h {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, len(keys))
	for i, k := range keys {
		pairs[i] = fmt.Sprintf("%q: %q", k, h[k])
	}
	return "[" + strings.Join(pairs, ", ") + "]"
}

func orNA(s string) string {
	if s == "" {
		return notAvailable
	}
	return s
}
