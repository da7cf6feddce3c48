package partition

import (
	"context"
	"iter"
	"sync"
)

// Merger is the single output stream of a pipeline. Outcomes arrive as soon
// as any worker produces them; the stream ends once every worker has exited
// and all of its outcomes were delivered.
//
// Merger satisfies pipeline.Iterator[Outcome[R, E]].
type Merger[R, E any] struct {
	out  <-chan Outcome[R, E]
	stop func(cause error)
	once sync.Once
}

// Next returns the next outcome, or ok=false once the stream is exhausted.
func (m *Merger[R, E]) Next(ctx context.Context) (Outcome[R, E], bool, error) {
	select {
	case o, ok := <-m.out:
		return o, ok, nil
	case <-ctx.Done():
		var zero Outcome[R, E]
		return zero, false, ctx.Err()
	}
}

// C returns the outcome channel. It is closed when the stream ends.
func (m *Merger[R, E]) C() <-chan Outcome[R, E] { return m.out }

// All yields outcomes until the stream ends or ctx is done.
func (m *Merger[R, E]) All(ctx context.Context) iter.Seq[Outcome[R, E]] {
	return func(yield func(Outcome[R, E]) bool) {
		for {
			o, ok, err := m.Next(ctx)
			if err != nil || !ok {
				return
			}
			if !yield(o) {
				return
			}
		}
	}
}

// Close stops consumption: workers are cancelled, every partition is closed
// with ErrOutputClosed and workers blocked on delivery are released.
// Outcomes not yet read are dropped. Close is idempotent.
func (m *Merger[R, E]) Close() error {
	m.once.Do(func() { m.stop(ErrOutputClosed) })
	return nil
}
