package pipeline

import (
	"context"

	"github.com/kbukum/partitionflow/partition"
)

// PartitionMap runs transform over src on a partition pipeline and yields the
// merged outcomes. Outcomes of one partition keep their source order; order
// across partitions is unspecified.
//
// Configuration errors from partition.New are returned by the first Next.
// A source error closes the partitions with that error as cause and is
// returned after the outcomes already produced. Sources must return promptly
// once their context is done.
func PartitionMap[E, R any](
	src *Pipeline[E],
	cfg partition.Config,
	policy partition.Policy[E],
	transform partition.Transform[E, R],
	opts ...partition.Option,
) *Pipeline[partition.Outcome[R, E]] {
	return &Pipeline[partition.Outcome[R, E]]{
		create: func(ctx context.Context) Iterator[partition.Outcome[R, E]] {
			p, err := partition.New(ctx, cfg, policy, transform, opts...)
			if err != nil {
				return &errIter[partition.Outcome[R, E]]{err: err}
			}

			source := src.create(ctx)
			feedCtx, cancel := context.WithCancel(ctx)
			it := &partitionIter[E, R]{
				p:      p,
				source: source,
				cancel: cancel,
				fed:    make(chan struct{}),
			}
			go it.feed(feedCtx)
			return it
		},
	}
}

// Successes keeps the successful outcomes and yields their values.
func Successes[R, E any](p *Pipeline[partition.Outcome[R, E]]) *Pipeline[R] {
	ok := Filter(p, func(o partition.Outcome[R, E]) bool { return o.IsSuccess() })
	return Map(ok, func(_ context.Context, o partition.Outcome[R, E]) (R, error) {
		return o.Value(), nil
	})
}

// Failures keeps only the failed outcomes.
func Failures[R, E any](p *Pipeline[partition.Outcome[R, E]]) *Pipeline[partition.Outcome[R, E]] {
	return Filter(p, func(o partition.Outcome[R, E]) bool { return !o.IsSuccess() })
}

type partitionIter[E, R any] struct {
	p      *partition.Pipeline[E, R]
	source Iterator[E]
	cancel context.CancelFunc
	fed    chan struct{}
	err    error // feed error, valid once fed is closed
	closed bool
}

func (it *partitionIter[E, R]) feed(ctx context.Context) {
	defer close(it.fed)
	for {
		v, ok, err := it.source.Next(ctx)
		if err != nil {
			it.err = err
			it.p.CloseWithCause(err)
			return
		}
		if !ok {
			it.p.Close()
			return
		}
		if err := it.p.Send(ctx, v); err != nil {
			it.err = err
			it.p.CloseWithCause(err)
			return
		}
	}
}

func (it *partitionIter[E, R]) Next(ctx context.Context) (partition.Outcome[R, E], bool, error) {
	o, ok, err := it.p.Output().Next(ctx)
	if err != nil || ok {
		return o, ok, err
	}
	<-it.fed
	if it.err != nil {
		return o, false, it.err
	}
	return o, false, it.p.Wait()
}

func (it *partitionIter[E, R]) Close() error {
	if it.closed {
		return nil
	}
	it.closed = true
	it.cancel()
	it.p.Output().Close()
	<-it.fed
	<-it.p.Done()
	return it.source.Close()
}

type errIter[T any] struct {
	err error
}

func (it *errIter[T]) Next(context.Context) (T, bool, error) {
	var zero T
	return zero, false, it.err
}

func (it *errIter[T]) Close() error { return nil }
