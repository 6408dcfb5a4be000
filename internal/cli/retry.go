package cli

import (
	"context"
	"time"

	gerrors "github.com/insha/gopher/errors"
	"github.com/insha/gopher/httpclient"
	"github.com/insha/gopher/logger"
	"github.com/insha/gopher/resilience"
)

// retryableKinds are the failures worth sending again unchanged.
var retryableKinds = []gerrors.Kind{
	gerrors.KindInternalServerError,
	gerrors.KindRequestTimedOut,
	gerrors.KindConnectivityIssue,
	gerrors.KindBadResponse,
}

func retryable(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return false
	}
	kind, ok := gerrors.KindOf(err)
	if !ok {
		return false
	}
	for _, k := range retryableKinds {
		if kind == k {
			return true
		}
	}
	return false
}

// sendWithRetry sends req up to retries+1 times, waiting delay between
// attempts. Only retryable failures are re-sent. When every attempt fails
// the maximumRetriesReached error wraps the last failure.
func sendWithRetry(ctx context.Context, s *httpclient.Session, req *httpclient.Request, retries int, delay time.Duration) (*httpclient.Response, error) {
	if retries <= 0 {
		return s.Do(ctx, req)
	}

	var (
		resp *httpclient.Response
		last error
	)
	log := logger.Get("retry")
	retry := resilience.NewRetryRequest(req, resilience.RetryConfig{
		MaxRetries: retries + 1,
		Delay:      delay,
		OnRetry: func(attempt int) {
			if attempt > 1 {
				log.Info("Retrying request", map[string]interface{}{
					logger.FieldRequestName: req.Name(),
					"attempt":               attempt,
				})
			}
		},
	})
	_ = retry.Register(func() error {
		resp, last = s.Do(ctx, req)
		return last
	})

	for {
		err := retry.Retry()
		if err == nil || !retryable(ctx, err) {
			return resp, err
		}
		if !retry.ShouldRetry() {
			exhausted := retry.Retry()
			if re, ok := gerrors.AsRequestError(exhausted); ok {
				re.WithCause(last)
			}
			return resp, exhausted
		}

		timer := time.NewTimer(retry.Delay())
		select {
		case <-ctx.Done():
			timer.Stop()
			return resp, err
		case <-timer.C:
		}
	}
}
