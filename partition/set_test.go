package partition

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestNewSet_Invalid(t *testing.T) {
	tests := []struct {
		name                 string
		partitions, capacity int
	}{
		{"zero partitions", 0, 1},
		{"negative partitions", -2, 1},
		{"negative capacity", 2, -1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NewSet[int](tc.partitions, tc.capacity); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("expected INVALID_CONFIG, got %v", err)
			}
		})
	}
}

func TestSet_Get(t *testing.T) {
	for _, n := range []int{1, 3, 8} {
		set, err := NewSet[int](n, 2)
		if err != nil {
			t.Fatal(err)
		}
		if set.Len() != n {
			t.Fatalf("expected %d queues, got %d", n, set.Len())
		}
		for i := range n {
			q, err := set.Get(i)
			if err != nil {
				t.Fatalf("Get(%d): %v", i, err)
			}
			if q.Index() != i || q.Cap() != 2 {
				t.Errorf("queue %d: index %d cap %d", i, q.Index(), q.Cap())
			}
			again, _ := set.Get(i)
			if again != q {
				t.Errorf("Get(%d) returned a different queue", i)
			}
		}
		for _, bad := range []int{n, -1} {
			if _, err := set.Get(bad); !errors.Is(err, ErrIndexOutOfRange) {
				t.Errorf("Get(%d) error = %v, want INDEX_OUT_OF_RANGE", bad, err)
			}
		}
	}
}

func TestSet_AllInOrder(t *testing.T) {
	set, _ := NewSet[int](4, 0)
	want := 0
	for i, q := range set.All() {
		if i != want || q.Index() != want {
			t.Fatalf("expected index %d, got %d (queue %d)", want, i, q.Index())
		}
		want++
	}
	if want != 4 {
		t.Fatalf("expected 4 queues, iterated %d", want)
	}

	for i := range set.All() {
		if i == 1 {
			break
		}
	}
}

func TestSet_CloseAllIdempotent(t *testing.T) {
	set, _ := NewSet[int](3, 1)

	var mu sync.Mutex
	calls := map[int]int{}
	set.OnClose(func(partition int, cause error) {
		mu.Lock()
		calls[partition]++
		mu.Unlock()
	})

	if set.IsClosedForSend() {
		t.Fatal("new set should be open")
	}
	if !set.CloseAll(nil) {
		t.Error("first CloseAll should close every queue")
	}
	if set.CloseAll(nil) {
		t.Error("second CloseAll should report no transition")
	}
	if !set.IsClosedForSend() {
		t.Error("expected set to be closed for send")
	}
	for i := range 3 {
		if calls[i] != 1 {
			t.Errorf("partition %d handler calls = %d, want 1", i, calls[i])
		}
	}
}

func TestSet_IsClosedForSend_Partial(t *testing.T) {
	set, _ := NewSet[int](2, 0)
	q, _ := set.Get(0)
	q.Close(nil)
	if set.IsClosedForSend() {
		t.Error("set with one open queue must not report closed")
	}
	if set.CloseAll(nil) {
		t.Error("CloseAll should report false when a queue was already closed")
	}
}

func TestSet_CloseHandlerClosesSetAgain(t *testing.T) {
	set, _ := NewSet[int](2, 0)

	var mu sync.Mutex
	calls := map[int]int{}
	set.OnClose(func(partition int, _ error) {
		mu.Lock()
		calls[partition]++
		mu.Unlock()
		set.CloseAll(nil)
	})

	done := make(chan struct{})
	go func() {
		defer close(done)
		set.CloseAll(nil)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("CloseAll did not return when a handler closed the set again")
	}

	if !set.IsClosedForSend() {
		t.Error("expected set to be closed for send")
	}
	mu.Lock()
	defer mu.Unlock()
	for i := range 2 {
		if calls[i] != 1 {
			t.Errorf("partition %d handler calls = %d, want 1", i, calls[i])
		}
	}
}

func TestQueue_CloseFromOwnHandler(t *testing.T) {
	set, _ := NewSet[int](1, 0)
	q, _ := set.Get(0)

	var again bool
	q.OnClose(func(int, error) { again = q.Close(errors.New("late")) })

	if !q.Close(nil) {
		t.Fatal("first Close should report the transition")
	}
	if again {
		t.Error("Close from a handler should report no transition")
	}
	if q.Cause() != nil {
		t.Errorf("Cause() = %v, want nil from the first close", q.Cause())
	}
}

func TestQueue_OnCloseAfterClose(t *testing.T) {
	set, _ := NewSet[int](1, 0)
	q, _ := set.Get(0)
	cause := errors.New("source failed")
	q.Close(cause)

	var got error
	called := 0
	q.OnClose(func(partition int, c error) {
		called++
		got = c
	})
	if called != 1 || got != cause {
		t.Errorf("expected immediate handler call with cause, got calls=%d cause=%v", called, got)
	}
	if q.Cause() != cause {
		t.Errorf("Cause() = %v", q.Cause())
	}
}

func TestQueue_SendAfterClose(t *testing.T) {
	q := newQueue[int](2, 1)
	cause := errors.New("upstream broke")
	q.Close(cause)

	err := q.Send(context.Background(), 1)
	if !errors.Is(err, ErrClosed) {
		t.Fatalf("expected CLOSED, got %v", err)
	}
	if !errors.Is(err, cause) {
		t.Errorf("expected close cause in chain, got %v", err)
	}
	if ok, err := q.Offer(1); ok || !errors.Is(err, ErrClosed) {
		t.Errorf("Offer on closed queue = %v, %v", ok, err)
	}
}

func TestQueue_CloseReleasesBlockedSender(t *testing.T) {
	q := newQueue[int](0, 0)
	errCh := make(chan error, 1)
	go func() { errCh <- q.Send(context.Background(), 1) }()

	time.Sleep(20 * time.Millisecond)
	q.Close(nil)

	select {
	case err := <-errCh:
		if !errors.Is(err, ErrClosed) {
			t.Errorf("expected CLOSED, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("blocked sender was not released by Close")
	}
}

func TestQueue_ReceiveDrainsAfterClose(t *testing.T) {
	q := newQueue[int](0, 3)
	ctx := context.Background()
	for i := range 3 {
		if err := q.Send(ctx, i); err != nil {
			t.Fatal(err)
		}
	}
	if q.Len() != 3 {
		t.Fatalf("expected 3 buffered, got %d", q.Len())
	}
	q.Close(nil)

	for want := range 3 {
		got, err := q.Receive(ctx)
		if err != nil || got != want {
			t.Fatalf("Receive() = %d, %v, want %d", got, err, want)
		}
	}
	if _, err := q.Receive(ctx); !errors.Is(err, ErrClosed) {
		t.Errorf("expected CLOSED after drain, got %v", err)
	}
}

func TestQueue_Offer(t *testing.T) {
	q := newQueue[string](0, 1)
	if ok, err := q.Offer("a"); !ok || err != nil {
		t.Fatalf("first Offer = %v, %v", ok, err)
	}
	if ok, err := q.Offer("b"); ok || err != nil {
		t.Fatalf("Offer on full queue = %v, %v, want false, nil", ok, err)
	}

	rendezvous := newQueue[string](1, 0)
	if ok, err := rendezvous.Offer("a"); ok || err != nil {
		t.Errorf("Offer without a receiver = %v, %v, want false, nil", ok, err)
	}
}

func TestQueue_ContextCancel(t *testing.T) {
	q := newQueue[int](0, 0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := q.Send(ctx, 1); !errors.Is(err, context.Canceled) {
		t.Errorf("Send error = %v, want context.Canceled", err)
	}
	if _, err := q.Receive(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Receive error = %v, want context.Canceled", err)
	}
	if q.IsClosedForSend() {
		t.Error("cancelled send must not close the queue")
	}
}
