// Package resilience provides the fault-tolerance primitives of the request
// pipeline:
//   - RetryRequest: a bounded, caller-scheduled retry budget for one request
//   - Bulkhead: a cap on concurrent exchanges, queueing callers until a slot frees
//
// A caller-driven retry loop:
//
//	retry := resilience.NewRetryRequest(req, resilience.DefaultRetryConfig())
//	_ = retry.Register(func() error {
//	    _, err := httpclient.Send[[]Movie](ctx, session, req)
//	    return err
//	})
//	for err := retry.Retry(); err != nil; err = retry.Retry() {
//	    if errors.IsKind(err, errors.KindMaximumRetriesReached) {
//	        break
//	    }
//	    time.Sleep(retry.Delay())
//	}
package resilience
