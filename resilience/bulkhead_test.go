package resilience

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestNewBulkhead_DefaultSlots(t *testing.T) {
	b := NewBulkhead(BulkheadConfig{Name: "transport"})
	if b.MaxConcurrent() != DefaultMaxConcurrent {
		t.Errorf("expected %d slots, got %d", DefaultMaxConcurrent, b.MaxConcurrent())
	}
	if b.InUse() != 0 {
		t.Errorf("expected no slots in use, got %d", b.InUse())
	}
}

func TestBulkhead_CapsConcurrency(t *testing.T) {
	b := NewBulkhead(BulkheadConfig{Name: "transport", MaxConcurrent: 2})

	var current, peak int32
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := b.Execute(context.Background(), func() error {
				n := atomic.AddInt32(&current, 1)
				for {
					p := atomic.LoadInt32(&peak)
					if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
						break
					}
				}
				time.Sleep(5 * time.Millisecond)
				atomic.AddInt32(&current, -1)
				return nil
			})
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if p := atomic.LoadInt32(&peak); p > 2 {
		t.Errorf("expected at most 2 concurrent calls, got %d", p)
	}
	if b.InUse() != 0 {
		t.Errorf("expected all slots released, got %d in use", b.InUse())
	}
}

func TestBulkhead_QueuesUntilRelease(t *testing.T) {
	var waits []time.Duration
	var mu sync.Mutex
	b := NewBulkhead(BulkheadConfig{
		Name:          "transport",
		MaxConcurrent: 1,
		OnAcquire: func(name string, waited time.Duration) {
			mu.Lock()
			waits = append(waits, waited)
			mu.Unlock()
		},
	})

	holding := make(chan struct{})
	release := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = b.Execute(context.Background(), func() error {
			close(holding)
			<-release
			return nil
		})
	}()
	<-holding

	done := make(chan error, 1)
	go func() {
		done <- b.Execute(context.Background(), func() error { return nil })
	}()

	select {
	case <-done:
		t.Fatal("second call ran while the only slot was held")
	case <-time.After(20 * time.Millisecond):
	}

	close(release)
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("queued call never ran")
	}
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	if len(waits) != 2 {
		t.Fatalf("expected 2 acquisitions, got %d", len(waits))
	}
	if waits[0] != 0 {
		t.Errorf("expected the first call not to wait, got %v", waits[0])
	}
	if waits[1] <= 0 {
		t.Errorf("expected the queued call to report its wait, got %v", waits[1])
	}
}

func TestBulkhead_ContextEndsWhileQueued(t *testing.T) {
	var rejected atomic.Int32
	var rejectErr atomic.Value
	b := NewBulkhead(BulkheadConfig{
		Name:          "transport",
		MaxConcurrent: 1,
		OnReject: func(name string, err error) {
			rejected.Add(1)
			rejectErr.Store(err)
		},
	})

	holding := make(chan struct{})
	release := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = b.Execute(context.Background(), func() error {
			close(holding)
			<-release
			return nil
		})
	}()
	<-holding

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	ran := false
	err := b.Execute(ctx, func() error {
		ran = true
		return nil
	})

	close(release)
	wg.Wait()

	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected context.DeadlineExceeded, got %v", err)
	}
	if ran {
		t.Error("function must not run after the context ended")
	}
	if rejected.Load() != 1 {
		t.Errorf("expected 1 rejection, got %d", rejected.Load())
	}
	if got, _ := rejectErr.Load().(error); !errors.Is(got, context.DeadlineExceeded) {
		t.Errorf("expected rejection with the context error, got %v", got)
	}
}

func TestBulkhead_CancelledContextNeverRuns(t *testing.T) {
	b := NewBulkhead(BulkheadConfig{Name: "transport"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ran := false
	err := b.Execute(ctx, func() error {
		ran = true
		return nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if ran {
		t.Error("function must not run with a cancelled context")
	}
}

func TestExecuteWithResult(t *testing.T) {
	b := NewBulkhead(BulkheadConfig{Name: "transport"})

	result, err := ExecuteWithResult(b, context.Background(), func() (int, error) {
		return 42, nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != 42 {
		t.Errorf("expected 42, got %d", result)
	}

	boom := errors.New("boom")
	if _, err := ExecuteWithResult(b, context.Background(), func() (int, error) {
		return 0, boom
	}); !errors.Is(err, boom) {
		t.Errorf("expected function error, got %v", err)
	}
}
