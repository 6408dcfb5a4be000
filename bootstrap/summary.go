package bootstrap

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/insha/gopher/component"
)

// ComponentStatus is one line of the summary.
type ComponentStatus struct {
	Name    string
	Type    string
	Details string
	Health  component.Health
}

// Summary reports what the application started with.
type Summary struct {
	serviceName     string
	version         string
	startupDuration time.Duration
}

// NewSummary creates a summary for the named service.
func NewSummary(serviceName, version string) *Summary {
	return &Summary{serviceName: serviceName, version: version}
}

// SetStartupDuration records the total startup time.
func (s *Summary) SetStartupDuration(d time.Duration) {
	s.startupDuration = d
}

// Collect gathers descriptions and live health from the registry in
// registration order.
func (s *Summary) Collect(ctx context.Context, registry *component.Registry) []ComponentStatus {
	if registry == nil {
		return nil
	}
	all := registry.All()
	out := make([]ComponentStatus, 0, len(all))
	for _, c := range all {
		st := ComponentStatus{Name: c.Name(), Health: c.Health(ctx)}
		if d, ok := c.(component.Describable); ok {
			desc := d.Describe()
			if desc.Name != "" {
				st.Name = desc.Name
			}
			st.Type = desc.Type
			st.Details = desc.Details
		}
		out = append(out, st)
	}
	return out
}

// Write prints the summary as a tree.
func (s *Summary) Write(ctx context.Context, w io.Writer, registry *component.Registry) {
	fmt.Fprintf(w, "%s %s ready in %.2fs\n", s.serviceName, s.version, s.startupDuration.Seconds())

	statuses := s.Collect(ctx, registry)
	if len(statuses) == 0 {
		fmt.Fprintf(w, "   └── no components registered\n")
		return
	}

	healthy := 0
	for i, st := range statuses {
		prefix := "├──"
		if i == len(statuses)-1 {
			prefix = "└──"
		}
		line := fmt.Sprintf("   %s %s %s", prefix, healthStatusIcon(st.Health.Status), st.Name)
		if st.Type != "" {
			line += " [" + st.Type + "]"
		}
		if st.Details != "" {
			line += " " + st.Details
		}
		line += " (" + strings.ToLower(string(st.Health.Status))
		if st.Health.Message != "" {
			line += ": " + st.Health.Message
		}
		fmt.Fprintln(w, line+")")
		if st.Health.Status == component.StatusHealthy {
			healthy++
		}
	}

	if healthy == len(statuses) {
		fmt.Fprintf(w, "all components healthy (%d/%d)\n", healthy, len(statuses))
	} else {
		fmt.Fprintf(w, "some components have issues (%d/%d healthy)\n", healthy, len(statuses))
	}
}

func healthStatusIcon(status component.HealthStatus) string {
	switch status {
	case component.StatusHealthy:
		return "✓"
	case component.StatusDegraded:
		return "!"
	case component.StatusUnhealthy:
		return "✗"
	default:
		return "?"
	}
}
