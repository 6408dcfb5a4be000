package resilience

import (
	"context"
	"time"
)

// DefaultMaxConcurrent is the number of slots used when none is configured.
const DefaultMaxConcurrent = 4

// BulkheadConfig configures a bulkhead.
type BulkheadConfig struct {
	// Name identifies this bulkhead in logs.
	Name string
	// MaxConcurrent is the maximum number of concurrent calls.
	MaxConcurrent int
	// OnReject is called when the caller's context ends before a slot frees.
	OnReject func(name string, err error)
	// OnAcquire is called when a slot is taken, with the time spent queued.
	OnAcquire func(name string, waited time.Duration)
}

// Bulkhead caps the number of concurrent calls. Callers beyond the cap
// queue until a slot frees or their context ends.
type Bulkhead struct {
	config BulkheadConfig
	sem    chan struct{}
}

// NewBulkhead creates a new bulkhead.
func NewBulkhead(config BulkheadConfig) *Bulkhead {
	if config.MaxConcurrent <= 0 {
		config.MaxConcurrent = DefaultMaxConcurrent
	}

	return &Bulkhead{
		config: config,
		sem:    make(chan struct{}, config.MaxConcurrent),
	}
}

// Execute runs fn once a slot is free. It returns the context error, without
// running fn, if ctx ends first.
func (b *Bulkhead) Execute(ctx context.Context, fn func() error) error {
	waited, err := b.acquire(ctx)
	if err != nil {
		if b.config.OnReject != nil {
			b.config.OnReject(b.config.Name, err)
		}
		return err
	}
	defer b.release()

	if b.config.OnAcquire != nil {
		b.config.OnAcquire(b.config.Name, waited)
	}
	return fn()
}

// ExecuteWithResult runs a function that returns a value.
func ExecuteWithResult[T any](b *Bulkhead, ctx context.Context, fn func() (T, error)) (T, error) {
	var result T
	err := b.Execute(ctx, func() error {
		var fnErr error
		result, fnErr = fn()
		return fnErr
	})
	return result, err
}

func (b *Bulkhead) acquire(ctx context.Context) (time.Duration, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	select {
	case b.sem <- struct{}{}:
		return 0, nil
	default:
	}

	start := time.Now()
	select {
	case b.sem <- struct{}{}:
		return time.Since(start), nil
	case <-ctx.Done():
		return time.Since(start), ctx.Err()
	}
}

func (b *Bulkhead) release() {
	<-b.sem
}

// InUse returns the number of slots currently in use.
func (b *Bulkhead) InUse() int {
	return len(b.sem)
}

// MaxConcurrent returns the maximum concurrent calls allowed.
func (b *Bulkhead) MaxConcurrent() int {
	return b.config.MaxConcurrent
}
