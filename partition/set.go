package partition

import (
	"fmt"
	"iter"

	apperrors "github.com/kbukum/partitionflow/errors"
)

// Set is a fixed array of N partition queues. The number of queues and the
// queue behind each index never change after construction.
type Set[E any] struct {
	queues []*Queue[E]
}

// NewSet creates partitions queues of the given capacity.
func NewSet[E any](partitions, capacity int) (*Set[E], error) {
	if partitions < 1 {
		return nil, invalidPartitions(partitions)
	}
	if capacity < 0 {
		return nil, apperrors.InvalidConfig("capacity", fmt.Sprintf("capacity must be at least 0 (got: %d)", capacity))
	}
	queues := make([]*Queue[E], partitions)
	for i := range queues {
		queues[i] = newQueue[E](i, capacity)
	}
	return &Set[E]{queues: queues}, nil
}

// Get returns queue i. It fails with INDEX_OUT_OF_RANGE outside [0, N).
func (s *Set[E]) Get(i int) (*Queue[E], error) {
	if i < 0 || i >= len(s.queues) {
		return nil, apperrors.IndexOutOfRange(i, len(s.queues))
	}
	return s.queues[i], nil
}

// Len returns N.
func (s *Set[E]) Len() int { return len(s.queues) }

// All yields the queues in index order.
func (s *Set[E]) All() iter.Seq2[int, *Queue[E]] {
	return func(yield func(int, *Queue[E]) bool) {
		for i, q := range s.queues {
			if !yield(i, q) {
				return
			}
		}
	}
}

// CloseAll closes every queue with cause. It reports whether every queue was
// closed by this call; closing already closed queues is a no-op.
func (s *Set[E]) CloseAll(cause error) bool {
	all := true
	for _, q := range s.queues {
		if !q.Close(cause) {
			all = false
		}
	}
	return all
}

// IsClosedForSend reports whether every queue is closed.
func (s *Set[E]) IsClosedForSend() bool {
	for _, q := range s.queues {
		if !q.IsClosedForSend() {
			return false
		}
	}
	return true
}

// OnClose registers h on every queue. h runs once per queue.
func (s *Set[E]) OnClose(h CloseHandler) {
	for _, q := range s.queues {
		q.OnClose(h)
	}
}
