package partition

import (
	"context"
	"errors"
	"iter"

	apperrors "github.com/kbukum/partitionflow/errors"
	"github.com/kbukum/partitionflow/logger"
)

// Dispatcher routes elements into the queue chosen by its policy.
//
// Policy evaluation and enqueue are one step for the calling goroutine, so a
// single producer calling Send sequentially keeps its submission order within
// every partition. No lock is shared between producers: concurrent
// unsynchronized producers get no per-key ordering guarantee.
type Dispatcher[E any] struct {
	set    *Set[E]
	policy Policy[E]
	opts   *options
}

// NewDispatcher creates a dispatcher over set.
func NewDispatcher[E any](set *Set[E], policy Policy[E], opts ...Option) (*Dispatcher[E], error) {
	if set == nil {
		return nil, apperrors.InvalidConfig("set", "dispatcher requires a partition set")
	}
	if policy == nil {
		return nil, apperrors.InvalidConfig("policy", "dispatcher requires a policy")
	}
	return &Dispatcher[E]{set: set, policy: policy, opts: buildOptions(opts)}, nil
}

// Send routes e and blocks until its queue accepts it. It fails with
// INDEX_OUT_OF_RANGE when the policy returns an index outside [0, N) and with
// CLOSED when the target queue is closed.
func (d *Dispatcher[E]) Send(ctx context.Context, e E) error {
	q, err := d.route(e)
	if err != nil {
		return err
	}
	if err := q.Send(ctx, e); err != nil {
		d.opts.metrics.RecordRejected(ctx, d.opts.name, q.Index(), rejectReason(err))
		return err
	}
	d.opts.metrics.RecordDispatch(ctx, d.opts.name, q.Index())
	return nil
}

// Offer routes e without blocking. It returns false when the target queue is
// full and a CLOSED error when it is closed.
func (d *Dispatcher[E]) Offer(e E) (bool, error) {
	q, err := d.route(e)
	if err != nil {
		return false, err
	}
	ok, err := q.Offer(e)
	ctx := context.Background()
	switch {
	case err != nil:
		d.opts.metrics.RecordRejected(ctx, d.opts.name, q.Index(), rejectReason(err))
	case !ok:
		d.opts.metrics.RecordRejected(ctx, d.opts.name, q.Index(), "full")
	default:
		d.opts.metrics.RecordDispatch(ctx, d.opts.name, q.Index())
	}
	return ok, err
}

// Feed sends every element received from src until src is closed, then
// closes all partitions. If sending fails or ctx is done first, the
// partitions are closed with that error as cause and the error is returned.
func (d *Dispatcher[E]) Feed(ctx context.Context, src <-chan E) error {
	for {
		select {
		case e, ok := <-src:
			if !ok {
				d.set.CloseAll(nil)
				return nil
			}
			if err := d.Send(ctx, e); err != nil {
				return d.abort(err)
			}
		case <-ctx.Done():
			return d.abort(context.Cause(ctx))
		}
	}
}

// FeedSeq sends every element of seq, then closes all partitions. Errors are
// handled as in Feed.
func (d *Dispatcher[E]) FeedSeq(ctx context.Context, seq iter.Seq[E]) error {
	for e := range seq {
		if err := d.Send(ctx, e); err != nil {
			return d.abort(err)
		}
	}
	d.set.CloseAll(nil)
	return nil
}

func (d *Dispatcher[E]) route(e E) (*Queue[E], error) {
	return d.set.Get(d.policy.Select(e))
}

func (d *Dispatcher[E]) abort(err error) error {
	if d.set.CloseAll(err) {
		d.opts.log.Warn("feed stopped, partitions closed", logger.MergeWithError(
			logger.Fields(logger.FieldPipeline, d.opts.name, logger.FieldOperation, "feed"), err))
	}
	return err
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, ErrClosed):
		return "closed"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "cancelled"
	default:
		return "error"
	}
}
