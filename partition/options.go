package partition

import (
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/partitionflow/logger"
	"github.com/kbukum/partitionflow/observability"
)

const instrumentationName = "github.com/kbukum/partitionflow/partition"

// Option configures a Pipeline or Dispatcher.
type Option func(*options)

type options struct {
	name    string
	log     *logger.Logger
	metrics *observability.PartitionMetrics
	tracer  trace.Tracer
}

// WithLogger sets the logger. Defaults to the "partition" component logger.
func WithLogger(l *logger.Logger) Option {
	return func(o *options) { o.log = l }
}

// WithMetrics records dispatch and outcome instruments on m. Defaults to
// instruments on the global meter provider.
func WithMetrics(m *observability.PartitionMetrics) Option {
	return func(o *options) { o.metrics = m }
}

// WithTracer wraps every transform call in a span from t.
// Defaults to the global tracer provider.
func WithTracer(t trace.Tracer) Option {
	return func(o *options) { o.tracer = t }
}

// WithName names a standalone Dispatcher in logs and metrics.
// Pipelines use Config.Name.
func WithName(name string) Option {
	return func(o *options) { o.name = name }
}

func buildOptions(opts []Option) *options {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.log == nil {
		o.log = logger.Get("partition")
	}
	if o.metrics == nil {
		m, err := observability.NewPartitionMetrics(observability.Meter(instrumentationName))
		if err != nil {
			o.log.Warn("partition metrics disabled", logger.ErrorFields("metrics", err))
		}
		o.metrics = m
	}
	if o.tracer == nil {
		o.tracer = observability.Tracer(instrumentationName)
	}
	return o
}
