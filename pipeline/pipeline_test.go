package pipeline

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"testing"
)

func TestFromSlice_Collect(t *testing.T) {
	got, err := Collect(context.Background(), FromSlice([]int{1, 2, 3}))
	if err != nil {
		t.Fatal(err)
	}
	if !intSliceEqual(got, []int{1, 2, 3}) {
		t.Errorf("got %v, want [1 2 3]", got)
	}
}

func TestFromSlice_Empty(t *testing.T) {
	got, err := Collect(context.Background(), FromSlice([]int{}))
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("expected empty, got %v", got)
	}
}

func TestFrom_Iterator(t *testing.T) {
	it := &sliceIter[string]{items: []string{"a", "b"}}
	got, err := Collect(context.Background(), From[string](it))
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("got %v, want [a b]", got)
	}
}

func TestFromSeq(t *testing.T) {
	got, err := Collect(context.Background(), FromSeq(slices.Values([]int{4, 5, 6})))
	if err != nil {
		t.Fatal(err)
	}
	if !intSliceEqual(got, []int{4, 5, 6}) {
		t.Errorf("got %v", got)
	}
}

func TestFromSeq_StopsEarly(t *testing.T) {
	ctx := context.Background()
	it := FromSeq(slices.Values([]int{1, 2, 3})).Iter(ctx)
	v, ok, err := it.Next(ctx)
	if err != nil || !ok || v != 1 {
		t.Fatalf("Next = %d, %v, %v", v, ok, err)
	}
	if err := it.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestFromChannel(t *testing.T) {
	ch := make(chan string, 3)
	ch <- "x"
	ch <- "y"
	close(ch)

	got, err := Collect(context.Background(), FromChannel(ch))
	if err != nil {
		t.Fatal(err)
	}
	if !strSliceEqual(got, []string{"x", "y"}) {
		t.Errorf("got %v", got)
	}
}

func TestFromChannel_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Collect(ctx, FromChannel(make(chan int)))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestMap(t *testing.T) {
	doubled := Map(FromSlice([]int{1, 2, 3}), func(_ context.Context, n int) (int, error) {
		return n * 2, nil
	})
	got, err := Collect(context.Background(), doubled)
	if err != nil {
		t.Fatal(err)
	}
	if !intSliceEqual(got, []int{2, 4, 6}) {
		t.Errorf("got %v, want [2 4 6]", got)
	}
}

func TestMap_Error(t *testing.T) {
	fail := Map(FromSlice([]int{1, 2, 3}), func(_ context.Context, n int) (int, error) {
		if n == 2 {
			return 0, errors.New("bad value")
		}
		return n, nil
	})
	got, err := Collect(context.Background(), fail)
	if err == nil {
		t.Fatal("expected error")
	}
	if len(got) != 1 || got[0] != 1 {
		t.Errorf("expected [1] before error, got %v", got)
	}
}

func TestMap_TypeConversion(t *testing.T) {
	strs := Map(FromSlice([]int{1, 2, 3}), func(_ context.Context, n int) (string, error) {
		return fmt.Sprintf("#%d", n), nil
	})
	got, err := Collect(context.Background(), strs)
	if err != nil {
		t.Fatal(err)
	}
	if !strSliceEqual(got, []string{"#1", "#2", "#3"}) {
		t.Errorf("got %v", got)
	}
}

func TestFilter(t *testing.T) {
	odd := Filter(FromSlice([]int{1, 2, 3, 4, 5}), func(n int) bool { return n%2 == 1 })
	got, err := Collect(context.Background(), odd)
	if err != nil {
		t.Fatal(err)
	}
	if !intSliceEqual(got, []int{1, 3, 5}) {
		t.Errorf("got %v, want [1 3 5]", got)
	}
}

func TestTap_Error(t *testing.T) {
	tapped := Tap(FromSlice([]int{1, 2}), func(_ context.Context, n int) error {
		if n == 2 {
			return errors.New("publish failed")
		}
		return nil
	})
	got, err := Collect(context.Background(), tapped)
	if err == nil {
		t.Fatal("expected tap error")
	}
	if !intSliceEqual(got, []int{1}) {
		t.Errorf("got %v, want [1]", got)
	}
}

func TestReduce_Empty(t *testing.T) {
	got, err := Collect(context.Background(), Reduce(FromSlice([]int{}), 7, func(acc, n int) int { return acc + n }))
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0] != 7 {
		t.Errorf("expected [7], got %v", got)
	}
}

func TestDrain_Run(t *testing.T) {
	var collected []int
	r := Drain(FromSlice([]int{1, 2, 3}), func(_ context.Context, n int) error {
		collected = append(collected, n)
		return nil
	})
	if err := r.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if !intSliceEqual(collected, []int{1, 2, 3}) {
		t.Errorf("got %v, want [1 2 3]", collected)
	}
}

func TestIter(t *testing.T) {
	ctx := context.Background()
	it := FromSlice([]int{1, 2}).Iter(ctx)
	defer it.Close()

	for _, want := range []int{1, 2} {
		v, ok, err := it.Next(ctx)
		if err != nil || !ok || v != want {
			t.Errorf("Next: val=%d ok=%v err=%v, want %d", v, ok, err, want)
		}
	}
	if _, ok, err := it.Next(ctx); err != nil || ok {
		t.Errorf("expected exhausted: ok=%v err=%v", ok, err)
	}
}

func TestChained_Pipeline(t *testing.T) {
	var tapped []int
	doubled := Map(FromSlice([]int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}), func(_ context.Context, n int) (int, error) { return n * 2, nil })
	fours := Filter(doubled, func(n int) bool { return n%4 == 0 })
	observed := Tap(fours, func(_ context.Context, n int) error {
		tapped = append(tapped, n)
		return nil
	})
	sum := Reduce(observed, 0, func(acc, n int) int { return acc + n })

	got, err := Collect(context.Background(), sum)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0] != 60 {
		t.Errorf("expected [60], got %v", got)
	}
	if !intSliceEqual(tapped, []int{4, 8, 12, 16, 20}) {
		t.Errorf("tapped = %v, want [4 8 12 16 20]", tapped)
	}
}

// --- helpers ---

func intSliceEqual(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func strSliceEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
