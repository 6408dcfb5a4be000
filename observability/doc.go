// Package observability provides OpenTelemetry tracing and metrics for the
// exchanges a session performs.
//
// Tracing:
//
//	tp, err := observability.InitTracer(ctx, observability.DefaultTracerConfig("gopher"))
//	defer tp.Shutdown(ctx)
//
//	ctx, span := observability.StartSpan(ctx, observability.SpanHTTPSend)
//	defer span.End()
//
// Metrics:
//
//	cfg := observability.DefaultMeterConfig("gopher")
//	mp, err := observability.InitMeter(ctx, &cfg)
//	defer mp.Shutdown(ctx)
//
//	metrics, err := observability.NewMetrics(observability.Meter("gopher"))
//	metrics.RecordExchangeEnd(ctx, "gopher", "GET", "200", duration)
package observability
