package observability

import (
	"context"
	"errors"
	"fmt"
	"sync"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/insha/gopher/component"
)

// Component installs the global tracer and meter providers on Start and
// flushes them on Stop.
type Component struct {
	tracer TracerConfig
	meter  MeterConfig

	mu sync.Mutex
	tp *sdktrace.TracerProvider
	mp *sdkmetric.MeterProvider
}

var _ component.Component = (*Component)(nil)
var _ component.Describable = (*Component)(nil)

// NewComponent creates a telemetry component.
func NewComponent(tracer TracerConfig, meter MeterConfig) *Component {
	return &Component{tracer: tracer, meter: meter}
}

// Name returns the component name.
func (c *Component) Name() string { return "telemetry" }

// Start initializes the tracer and meter providers.
func (c *Component) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	tp, err := InitTracer(ctx, c.tracer)
	if err != nil {
		return err
	}
	mp, err := InitMeter(ctx, &c.meter)
	if err != nil {
		_ = tp.Shutdown(ctx)
		return err
	}
	c.tp, c.mp = tp, mp
	return nil
}

// Stop flushes and shuts down both providers.
func (c *Component) Stop(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var errs []error
	if c.mp != nil {
		if err := c.mp.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("meter: %w", err))
		}
		c.mp = nil
	}
	if c.tp != nil {
		if err := c.tp.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracer: %w", err))
		}
		c.tp = nil
	}
	return errors.Join(errs...)
}

// Health reports whether the providers are installed.
func (c *Component) Health(_ context.Context) component.Health {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.tp == nil {
		return component.Health{Name: c.Name(), Status: component.StatusUnhealthy, Message: "not started"}
	}
	return component.Health{Name: c.Name(), Status: component.StatusHealthy}
}

// Describe returns the export endpoint and sampling rate.
func (c *Component) Describe() component.Description {
	return component.Description{
		Type:    "telemetry",
		Details: fmt.Sprintf("otlp %s sample=%g", c.tracer.Endpoint, c.tracer.SampleRate),
	}
}
