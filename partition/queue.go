package partition

import (
	"context"
	"fmt"
	"sync"

	apperrors "github.com/kbukum/partitionflow/errors"
)

// CloseHandler is invoked once per queue when the queue closes. cause is the
// close cause, nil for a plain close.
type CloseHandler func(partition int, cause error)

// Queue is one bounded FIFO partition lane. Capacity 0 is a rendezvous
// handoff: a send completes only when the worker receives it.
type Queue[E any] struct {
	index int
	ch    chan E

	// closing is closed first so blocked senders leave before ch is closed.
	closing chan struct{}
	once    sync.Once
	cause   error

	// sendMu gates sends against close(ch): senders hold it shared.
	sendMu sync.RWMutex
	closed bool

	handlersMu  sync.Mutex
	handlers    []CloseHandler
	handlersRun bool
}

func newQueue[E any](index, capacity int) *Queue[E] {
	return &Queue[E]{
		index:   index,
		ch:      make(chan E, capacity),
		closing: make(chan struct{}),
	}
}

// Send enqueues e, blocking while the queue is full. It fails with a CLOSED
// error once the queue is closed, and with ctx's error when ctx is done first.
func (q *Queue[E]) Send(ctx context.Context, e E) error {
	q.sendMu.RLock()
	defer q.sendMu.RUnlock()
	if q.closed {
		return q.closedErr()
	}
	select {
	case q.ch <- e:
		return nil
	case <-q.closing:
		return q.closedErr()
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Offer enqueues e without blocking. It returns false when the queue is full
// and a CLOSED error when the queue is closed.
func (q *Queue[E]) Offer(e E) (bool, error) {
	q.sendMu.RLock()
	defer q.sendMu.RUnlock()
	if q.closed {
		return false, q.closedErr()
	}
	select {
	case q.ch <- e:
		return true, nil
	case <-q.closing:
		return false, q.closedErr()
	default:
		return false, nil
	}
}

// Receive dequeues the next element. Elements buffered before close are still
// returned; once the queue is closed and drained it fails with a CLOSED error.
func (q *Queue[E]) Receive(ctx context.Context) (E, error) {
	select {
	case e, ok := <-q.ch:
		if !ok {
			var zero E
			return zero, q.closedErr()
		}
		return e, nil
	case <-ctx.Done():
		var zero E
		return zero, ctx.Err()
	}
}

// Close closes the queue for sending and runs the close handlers on the
// calling goroutine. Only the call that performs the transition returns true;
// later calls, including ones made from a handler, are no-ops.
func (q *Queue[E]) Close(cause error) bool {
	closedNow := false
	var handlers []CloseHandler
	q.once.Do(func() {
		closedNow = true
		q.cause = cause
		close(q.closing)

		q.sendMu.Lock()
		q.closed = true
		close(q.ch)
		q.sendMu.Unlock()

		q.handlersMu.Lock()
		handlers = q.handlers
		q.handlers = nil
		q.handlersRun = true
		q.handlersMu.Unlock()
	})
	// Handlers run outside once so they may close this queue again.
	for _, h := range handlers {
		h(q.index, cause)
	}
	return closedNow
}

// OnClose registers h to run when the queue closes. On an already closed
// queue h runs immediately on the caller's goroutine.
func (q *Queue[E]) OnClose(h CloseHandler) {
	q.handlersMu.Lock()
	if !q.handlersRun {
		q.handlers = append(q.handlers, h)
		q.handlersMu.Unlock()
		return
	}
	q.handlersMu.Unlock()
	h(q.index, q.Cause())
}

// IsClosedForSend reports whether the queue has been closed.
func (q *Queue[E]) IsClosedForSend() bool {
	select {
	case <-q.closing:
		return true
	default:
		return false
	}
}

// Cause returns the close cause, or nil if the queue is open or was closed
// without one.
func (q *Queue[E]) Cause() error {
	select {
	case <-q.closing:
		return q.cause
	default:
		return nil
	}
}

// Index returns the partition index of the queue.
func (q *Queue[E]) Index() int { return q.index }

// Len returns the number of buffered elements.
func (q *Queue[E]) Len() int { return len(q.ch) }

// Cap returns the queue capacity.
func (q *Queue[E]) Cap() int { return cap(q.ch) }

func (q *Queue[E]) closedErr() error {
	return apperrors.Closed(fmt.Sprintf("partition %d", q.index), q.cause).
		WithDetail("partition", q.index)
}
