package partition

import (
	"context"
	"iter"
	"time"

	"golang.org/x/sync/errgroup"

	apperrors "github.com/kbukum/partitionflow/errors"
	"github.com/kbukum/partitionflow/logger"
)

// Pipeline is one partition/process/merge instance: a Set of queues, a
// Dispatcher, one worker per partition and the merged Output.
//
// A pipeline ends when every partition is closed and drained and every
// worker has exited. Partitions that are never closed keep it running.
type Pipeline[E, R any] struct {
	cfg        Config
	set        *Set[E]
	dispatcher *Dispatcher[E]
	merger     *Merger[R, E]
	opts       *options
	stats      *stats

	done chan struct{}
	err  error
}

// New validates cfg, creates the partitions and starts one worker per
// partition. Workers stop when ctx is done; cancelling ctx also closes every
// partition with the context cause.
func New[E, R any](ctx context.Context, cfg Config, policy Policy[E], transform Transform[E, R], opts ...Option) (*Pipeline[E, R], error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if policy == nil {
		return nil, apperrors.InvalidConfig("policy", "pipeline requires a policy")
	}
	if transform == nil {
		return nil, apperrors.InvalidConfig("transform", "pipeline requires a transform")
	}

	o := buildOptions(opts)
	o.name = cfg.Name
	o.log = o.log.WithFields(logger.Fields(logger.FieldPipeline, cfg.Name))

	set, err := NewSet[E](cfg.Partitions, cfg.Capacity)
	if err != nil {
		return nil, err
	}

	workerCtx, cancel := context.WithCancelCause(ctx)
	out := make(chan Outcome[R, E], cfg.OutputCapacity)
	p := &Pipeline[E, R]{
		cfg:        cfg,
		set:        set,
		dispatcher: &Dispatcher[E]{set: set, policy: policy, opts: o},
		opts:       o,
		stats:      &stats{},
		done:       make(chan struct{}),
	}
	p.merger = &Merger[R, E]{
		out: out,
		stop: func(cause error) {
			cancel(cause)
			set.CloseAll(cause)
		},
	}

	stopAfter := context.AfterFunc(ctx, func() {
		set.CloseAll(context.Cause(ctx))
	})

	g, gctx := errgroup.WithContext(workerCtx)
	for _, q := range set.All() {
		w := &worker[E, R]{queue: q, out: out, transform: transform, opts: o, stats: p.stats}
		g.Go(func() error {
			if err := w.run(gctx); err != nil {
				set.CloseAll(err)
				return err
			}
			return nil
		})
	}

	started := time.Now()
	o.log.Info("partition pipeline started", logger.Fields(
		logger.FieldPartitions, cfg.Partitions,
		logger.FieldCapacity, cfg.Capacity,
		logger.FieldPolicy, cfg.Policy,
	))

	go func() {
		p.err = g.Wait()
		stopAfter()
		cancel(nil)
		close(out)

		fields := logger.Fields(
			logger.FieldProcessed, p.stats.succeeded.Load()+p.stats.failed.Load(),
			logger.FieldFailed, p.stats.failed.Load(),
			logger.FieldDuration, time.Since(started).Milliseconds(),
		)
		if p.err != nil {
			o.log.Warn("partition pipeline stopped", logger.MergeWithError(fields, p.err))
		} else {
			o.log.Info("partition pipeline stopped", fields)
		}
		close(p.done)
	}()

	return p, nil
}

// Send routes e to its partition, blocking while that partition is full.
func (p *Pipeline[E, R]) Send(ctx context.Context, e E) error {
	return p.dispatcher.Send(ctx, e)
}

// Offer routes e without blocking; false means the partition is full.
func (p *Pipeline[E, R]) Offer(e E) (bool, error) {
	return p.dispatcher.Offer(e)
}

// Feed sends everything received from src, then closes the pipeline.
func (p *Pipeline[E, R]) Feed(ctx context.Context, src <-chan E) error {
	return p.dispatcher.Feed(ctx, src)
}

// FeedSeq sends every element of seq, then closes the pipeline.
func (p *Pipeline[E, R]) FeedSeq(ctx context.Context, seq iter.Seq[E]) error {
	return p.dispatcher.FeedSeq(ctx, seq)
}

// Output returns the merged outcome stream.
func (p *Pipeline[E, R]) Output() *Merger[R, E] { return p.merger }

// Close closes every partition. Workers drain what is buffered and exit.
// Calling Close more than once is a no-op.
func (p *Pipeline[E, R]) Close() error {
	p.CloseWithCause(nil)
	return nil
}

// CloseWithCause closes every partition with cause. It reports whether this
// call closed all of them.
func (p *Pipeline[E, R]) CloseWithCause(cause error) bool {
	return p.set.CloseAll(cause)
}

// Wait blocks until every worker has exited and the output is closed. It
// returns the first WORKER_FATAL error, or nil.
func (p *Pipeline[E, R]) Wait() error {
	<-p.done
	return p.err
}

// Done is closed once the pipeline has fully stopped.
func (p *Pipeline[E, R]) Done() <-chan struct{} { return p.done }

// Partitions returns the partition set.
func (p *Pipeline[E, R]) Partitions() *Set[E] { return p.set }

// OnClose registers h on every partition.
func (p *Pipeline[E, R]) OnClose(h CloseHandler) { p.set.OnClose(h) }

// IsClosedForSend reports whether every partition is closed.
func (p *Pipeline[E, R]) IsClosedForSend() bool { return p.set.IsClosedForSend() }

// Config returns the effective configuration, defaults applied.
func (p *Pipeline[E, R]) Config() Config { return p.cfg }
