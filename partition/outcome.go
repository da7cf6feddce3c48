package partition

import "fmt"

// Outcome is the per-element result of a worker: either a transformed value
// or a failure carrying the original element and its error.
type Outcome[R, E any] struct {
	partition int
	ok        bool
	value     R
	element   E
	err       error
}

// Success creates a successful outcome produced by partition.
func Success[R, E any](partition int, value R) Outcome[R, E] {
	return Outcome[R, E]{partition: partition, ok: true, value: value}
}

// Failure creates a failed outcome for element produced by partition.
func Failure[R, E any](partition int, element E, err error) Outcome[R, E] {
	return Outcome[R, E]{partition: partition, element: element, err: err}
}

// IsSuccess reports whether the transform succeeded.
func (o Outcome[R, E]) IsSuccess() bool { return o.ok }

// Value returns the transformed value; zero for a failure.
func (o Outcome[R, E]) Value() R { return o.value }

// Element returns the element that failed; zero for a success.
func (o Outcome[R, E]) Element() E { return o.element }

// Err returns the failure cause; nil for a success.
func (o Outcome[R, E]) Err() error { return o.err }

// Partition returns the index of the partition that produced the outcome.
func (o Outcome[R, E]) Partition() int { return o.partition }

// Result returns the value and error as a pair.
func (o Outcome[R, E]) Result() (R, error) { return o.value, o.err }

func (o Outcome[R, E]) String() string {
	if o.ok {
		return fmt.Sprintf("Success(%d, %v)", o.partition, o.value)
	}
	return fmt.Sprintf("Failure(%d, %v, %v)", o.partition, o.element, o.err)
}
