package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/kbukum/partitionflow/logger"
	"github.com/kbukum/partitionflow/version"
)

// MeterConfig configures the OpenTelemetry meter provider.
type MeterConfig struct {
	// ServiceName is the name of the service.
	ServiceName string
	// ServiceVersion is the version of the service.
	ServiceVersion string
	// Environment is the deployment environment (dev, staging, prod).
	Environment string
	// Endpoint is the OTLP HTTP endpoint host:port (e.g., "localhost:4318").
	Endpoint string
	// Insecure allows insecure connections (for development).
	Insecure bool
	// Interval is the metric export interval.
	Interval time.Duration
}

// DefaultMeterConfig returns sensible defaults for development.
func DefaultMeterConfig(serviceName string) MeterConfig {
	return MeterConfig{
		ServiceName:    serviceName,
		ServiceVersion: "1.0.0",
		Environment:    "development",
		Endpoint:       "localhost:4318",
		Insecure:       true,
		Interval:       15 * time.Second,
	}
}

// InitMeter initializes the OpenTelemetry meter provider.
// Returns a MeterProvider that should be shut down on application exit.
func InitMeter(ctx context.Context, config MeterConfig) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(config.Endpoint),
	}
	if config.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	res, err := newResource(config.ServiceName, config.ServiceVersion, config.Environment)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	readerOpts := []sdkmetric.PeriodicReaderOption{}
	if config.Interval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(config.Interval))
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(res),
	)

	otel.SetMeterProvider(mp)

	logger.Info("meter initialized", logger.Fields(
		"service", config.ServiceName,
		"endpoint", config.Endpoint,
		"interval", config.Interval.String(),
	))

	return mp, nil
}

// Meter returns a named meter from the global provider, scoped to the
// library version.
func Meter(name string) metric.Meter {
	return otel.Meter(name, metric.WithInstrumentationVersion(version.Get()))
}

// Outcome status attribute values.
const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)

// PartitionMetrics holds the instruments recorded by a partition pipeline.
// A nil *PartitionMetrics records nothing.
type PartitionMetrics struct {
	dispatched        metric.Int64Counter
	rejected          metric.Int64Counter
	outcomes          metric.Int64Counter
	transformDuration metric.Float64Histogram
	activeWorkers     metric.Int64UpDownCounter
}

// NewPartitionMetrics creates the pipeline instruments on the given meter.
func NewPartitionMetrics(meter metric.Meter) (*PartitionMetrics, error) {
	dispatched, err := meter.Int64Counter("partition.elements.dispatched",
		metric.WithDescription("Elements routed into a partition queue"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating partition.elements.dispatched counter: %w", err)
	}

	rejected, err := meter.Int64Counter("partition.elements.rejected",
		metric.WithDescription("Elements not accepted by a partition queue (full or closed)"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating partition.elements.rejected counter: %w", err)
	}

	outcomes, err := meter.Int64Counter("partition.outcomes",
		metric.WithDescription("Outcomes emitted by partition workers by status"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating partition.outcomes counter: %w", err)
	}

	transformDuration, err := meter.Float64Histogram("partition.transform.duration",
		metric.WithDescription("Duration of the transform per element in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating partition.transform.duration histogram: %w", err)
	}

	activeWorkers, err := meter.Int64UpDownCounter("partition.workers.active",
		metric.WithDescription("Number of running partition workers"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating partition.workers.active counter: %w", err)
	}

	return &PartitionMetrics{
		dispatched:        dispatched,
		rejected:          rejected,
		outcomes:          outcomes,
		transformDuration: transformDuration,
		activeWorkers:     activeWorkers,
	}, nil
}

// RecordDispatch records one element routed into a partition.
func (m *PartitionMetrics) RecordDispatch(ctx context.Context, pipeline string, partition int) {
	if m == nil {
		return
	}
	m.dispatched.Add(ctx, 1, partitionAttrs(pipeline, partition))
}

// RecordRejected records one element a partition did not accept.
func (m *PartitionMetrics) RecordRejected(ctx context.Context, pipeline string, partition int, reason string) {
	if m == nil {
		return
	}
	m.rejected.Add(ctx, 1, metric.WithAttributes(
		attribute.String(AttrPipeline, pipeline),
		attribute.Int(AttrPartition, partition),
		attribute.String(AttrReason, reason),
	))
}

// RecordOutcome records one emitted outcome and the transform duration.
func (m *PartitionMetrics) RecordOutcome(ctx context.Context, pipeline string, partition int, success bool, duration time.Duration) {
	if m == nil {
		return
	}
	status := StatusSuccess
	if !success {
		status = StatusFailure
	}
	m.outcomes.Add(ctx, 1, metric.WithAttributes(
		attribute.String(AttrPipeline, pipeline),
		attribute.Int(AttrPartition, partition),
		attribute.String(AttrStatus, status),
	))
	m.transformDuration.Record(ctx, duration.Seconds(), partitionAttrs(pipeline, partition))
}

// WorkerStarted increments the running worker count.
func (m *PartitionMetrics) WorkerStarted(ctx context.Context, pipeline string) {
	if m == nil {
		return
	}
	m.activeWorkers.Add(ctx, 1, metric.WithAttributes(attribute.String(AttrPipeline, pipeline)))
}

// WorkerStopped decrements the running worker count.
func (m *PartitionMetrics) WorkerStopped(ctx context.Context, pipeline string) {
	if m == nil {
		return
	}
	m.activeWorkers.Add(ctx, -1, metric.WithAttributes(attribute.String(AttrPipeline, pipeline)))
}

func partitionAttrs(pipeline string, partition int) metric.MeasurementOption {
	return metric.WithAttributes(
		attribute.String(AttrPipeline, pipeline),
		attribute.Int(AttrPartition, partition),
	)
}
