// Package observability provides OpenTelemetry tracing and metrics for
// partition pipelines.
//
// Tracing:
//
//	tp, err := observability.InitTracer(ctx, observability.DefaultTracerConfig("orders"))
//	defer tp.Shutdown(ctx)
//
// Metrics:
//
//	mp, err := observability.InitMeter(ctx, observability.DefaultMeterConfig("orders"))
//	defer mp.Shutdown(ctx)
//
//	m, err := observability.NewPartitionMetrics(observability.Meter("orders"))
//	p, err := partition.New(ctx, cfg, policy, transform, partition.WithMetrics(m))
//
// Without InitMeter/InitTracer the global otel providers are no-ops.
package observability
