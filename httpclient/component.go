package httpclient

import (
	"context"
	"fmt"
	"sync"

	"github.com/insha/gopher/component"
)

// Component wraps a Session with lifecycle management.
// Use this when the session is part of a managed application
// (e.g., registered with a component.Registry).
type Component struct {
	config Config
	opts   []Option

	mu      sync.RWMutex
	session *Session
}

// compile-time assertions
var _ component.Component = (*Component)(nil)
var _ component.Describable = (*Component)(nil)

// NewComponent creates a new session component.
// The session is created lazily in Start().
func NewComponent(cfg Config, opts ...Option) *Component {
	return &Component{config: cfg, opts: opts}
}

// Name returns the component name.
func (c *Component) Name() string {
	name := c.config.ServiceName
	if name == "" {
		name = DefaultServiceName
	}
	return name
}

// Start creates the session. Starting a started component is a no-op.
func (c *Component) Start(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session != nil {
		return nil
	}
	s, err := New(c.config, c.opts...)
	if err != nil {
		return err
	}
	c.session = s
	return nil
}

// Stop closes the session, letting in-flight exchanges finish, and waits
// for the provider flush or the context, whichever ends first.
func (c *Component) Stop(ctx context.Context) error {
	s := c.Session()
	if s == nil {
		return nil
	}
	select {
	case <-s.Close(true):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Health reports whether the session accepts requests.
func (c *Component) Health(_ context.Context) component.Health {
	s := c.Session()
	status := component.StatusHealthy
	msg := ""
	switch {
	case s == nil:
		status, msg = component.StatusUnhealthy, "not started"
	case s.Closed():
		status, msg = component.StatusUnhealthy, "closed"
	}
	return component.Health{
		Name:    c.Name(),
		Status:  status,
		Message: msg,
	}
}

// Describe returns component description for the startup summary.
func (c *Component) Describe() component.Description {
	details := c.config.BaseURL
	if c.config.TLS.IsPinned() {
		details = fmt.Sprintf("%s (pinned: %s)", details, c.config.TLS.PinnedCertDir)
	}
	return component.Description{
		Name:    c.Name(),
		Type:    "http-session",
		Details: details,
	}
}

// Session returns the underlying session. Must be called after Start().
func (c *Component) Session() *Session {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.session
}
