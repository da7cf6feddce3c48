package partition

import (
	"fmt"
	"sync/atomic"

	"github.com/cespare/xxhash/v2"

	apperrors "github.com/kbukum/partitionflow/errors"
)

// Policy maps an element to a partition index in [0, N).
// Implementations must be safe for concurrent use.
type Policy[E any] interface {
	Select(e E) int
}

// PolicyFunc adapts a plain function to a Policy.
type PolicyFunc[E any] func(e E) int

// Select calls f(e).
func (f PolicyFunc[E]) Select(e E) int { return f(e) }

// RoundRobin spreads elements over partitions in call order: 0, 1, ..., N-1, 0, ...
// The assignment depends only on invocation order, never on the element.
type RoundRobin[E any] struct {
	n       uint64
	counter atomic.Uint64
}

// NewRoundRobin creates a round-robin policy over n partitions.
func NewRoundRobin[E any](n int) (*RoundRobin[E], error) {
	if n < 1 {
		return nil, invalidPartitions(n)
	}
	return &RoundRobin[E]{n: uint64(n)}, nil
}

// Select returns the next index in the cycle. Concurrent callers never share
// a counter value. The cycle restarts irregularly when the uint64 counter
// wraps unless N is a power of two.
func (r *RoundRobin[E]) Select(E) int {
	return int((r.counter.Add(1) - 1) % r.n)
}

// Keyed maps every element to hash(key(e)) mod N, so elements with equal keys
// always land in the same partition.
type Keyed[E, K any] struct {
	n    uint64
	key  func(E) K
	hash func(K) uint64
}

// NewKeyed creates a keyed policy over n partitions. A nil hash hashes the
// default formatting of the key with xxhash, which suits scalar keys only:
// pointer keys hash by address, and distinct values that print alike collide.
// Pass a hash for any other key type.
func NewKeyed[E, K any](n int, key func(E) K, hash func(K) uint64) (*Keyed[E, K], error) {
	if n < 1 {
		return nil, invalidPartitions(n)
	}
	if key == nil {
		return nil, apperrors.InvalidConfig("key", "keyed policy requires a key function")
	}
	if hash == nil {
		hash = func(k K) uint64 { return xxhash.Sum64String(fmt.Sprint(k)) }
	}
	return &Keyed[E, K]{n: uint64(n), key: key, hash: hash}, nil
}

// NewStringKeyed creates a keyed policy hashing string keys with xxhash.
func NewStringKeyed[E any](n int, key func(E) string) (*Keyed[E, string], error) {
	return NewKeyed(n, key, xxhash.Sum64String)
}

// NewBytesKeyed creates a keyed policy hashing byte-slice keys with xxhash.
func NewBytesKeyed[E any](n int, key func(E) []byte) (*Keyed[E, []byte], error) {
	return NewKeyed(n, key, xxhash.Sum64)
}

// Select returns hash(key(e)) mod N.
func (k *Keyed[E, K]) Select(e E) int {
	return int(k.hash(k.key(e)) % k.n)
}

// NewPolicy builds the policy named by cfg.Policy over cfg.Partitions.
// The keyed policy requires key; round robin ignores it.
func NewPolicy[E any](cfg Config, key func(E) string) (Policy[E], error) {
	switch cfg.Policy {
	case "", PolicyRoundRobin:
		rr, err := NewRoundRobin[E](cfg.Partitions)
		if err != nil {
			return nil, err
		}
		return rr, nil
	case PolicyKeyed:
		if key == nil {
			return nil, apperrors.InvalidConfig("policy", "keyed policy requires a key function")
		}
		keyed, err := NewStringKeyed(cfg.Partitions, key)
		if err != nil {
			return nil, err
		}
		return keyed, nil
	default:
		return nil, apperrors.InvalidConfig("policy",
			fmt.Sprintf("unknown policy %q, must be one of: %s %s", cfg.Policy, PolicyRoundRobin, PolicyKeyed))
	}
}

func invalidPartitions(n int) *apperrors.AppError {
	return apperrors.InvalidConfig("partitions", fmt.Sprintf("partitions must be at least 1 (got: %d)", n))
}
