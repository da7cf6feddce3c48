package partition

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	apperrors "github.com/kbukum/partitionflow/errors"
	"github.com/kbukum/partitionflow/logger"
	"github.com/kbukum/partitionflow/observability"
)

// Transform converts one element. A returned error (or a panic) becomes a
// Failure outcome for that element only.
type Transform[E, R any] func(ctx context.Context, e E) (R, error)

type worker[E, R any] struct {
	queue     *Queue[E]
	out       chan<- Outcome[R, E]
	transform Transform[E, R]
	opts      *options
	stats     *stats
}

type stats struct {
	succeeded atomic.Int64
	failed    atomic.Int64
}

// run consumes the queue until it is closed and drained. It returns a
// WORKER_FATAL error when an outcome cannot be delivered or ctx ends first.
func (w *worker[E, R]) run(ctx context.Context) error {
	w.opts.metrics.WorkerStarted(ctx, w.opts.name)
	defer w.opts.metrics.WorkerStopped(context.WithoutCancel(ctx), w.opts.name)

	for {
		e, err := w.queue.Receive(ctx)
		if err != nil {
			if errors.Is(err, ErrClosed) {
				return nil
			}
			return w.fatal(ctx)
		}

		o := w.apply(ctx, e)
		select {
		case w.out <- o:
		case <-ctx.Done():
			return w.fatal(ctx)
		}
	}
}

func (w *worker[E, R]) fatal(ctx context.Context) error {
	idx := w.queue.Index()
	err := apperrors.WorkerFatal(idx, apperrors.Closed("output", context.Cause(ctx)))
	w.opts.log.Error("worker stopped before draining its partition", logger.MergeWithError(
		logger.PartitionFields(w.opts.name, idx), err))
	return err
}

func (w *worker[E, R]) apply(ctx context.Context, e E) (o Outcome[R, E]) {
	idx := w.queue.Index()
	start := time.Now()
	spanCtx, span := observability.StartTransformSpan(ctx, w.opts.tracer, w.opts.name, idx)

	defer func() {
		if r := recover(); r != nil {
			o = Failure[R](idx, e, apperrors.TransformFailed(idx, fmt.Errorf("panic: %v", r)))
		}
		observability.EndTransformSpan(span, o.Err())
		w.opts.metrics.RecordOutcome(ctx, w.opts.name, idx, o.IsSuccess(), time.Since(start))
		if o.IsSuccess() {
			w.stats.succeeded.Add(1)
			return
		}
		w.stats.failed.Add(1)
		w.opts.log.Debug("transform failed", logger.MergeWithError(
			logger.PartitionFields(w.opts.name, idx), o.Err()))
	}()

	r, err := w.transform(spanCtx, e)
	if err != nil {
		return Failure[R](idx, e, apperrors.TransformFailed(idx, err))
	}
	return Success[R, E](idx, r)
}
