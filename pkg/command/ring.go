package command

import (
	"sync/atomic"

	"github.com/anthropics/audioengine/internal/engineerr"
)

// ErrCapacityExceeded is returned by TryPush when the ring is full.
var ErrCapacityExceeded = engineerr.ErrCapacityExceeded

// Ring is a fixed-capacity single-producer/single-consumer ring buffer of
// structural commands. TryPush never blocks; a full ring is a caller-visible
// error rather than backpressure. The consumer side drains it in FIFO order at
// the top of each render chunk.
type Ring[T any] struct {
	buf      []T
	capacity uint64
	head     atomic.Uint64 // next write index; mutated only by the producer
	tail     atomic.Uint64 // next read index; mutated only by the consumer
}

// NewRing creates a Ring with the given fixed capacity.
func NewRing[T any](capacity int) *Ring[T] {
	return &Ring[T]{buf: make([]T, capacity), capacity: uint64(capacity)}
}

// TryPush appends v, returning ErrCapacityExceeded if the ring is full.
func (r *Ring[T]) TryPush(v T) error {
	head := r.head.Load()
	tail := r.tail.Load()
	if head-tail >= r.capacity {
		return ErrCapacityExceeded
	}
	r.buf[head%r.capacity] = v
	r.head.Store(head + 1)
	return nil
}

// TryPop removes and returns the oldest command, or ok = false if empty. Must
// only be called from the ring's single consumer.
func (r *Ring[T]) TryPop() (v T, ok bool) {
	tail := r.tail.Load()
	head := r.head.Load()
	if tail >= head {
		return v, false
	}
	v = r.buf[tail%r.capacity]
	r.tail.Store(tail + 1)
	return v, true
}

// DrainAll pops every currently available command, invoking fn for each in
// FIFO order.
func (r *Ring[T]) DrainAll(fn func(T)) {
	for {
		v, ok := r.TryPop()
		if !ok {
			return
		}
		fn(v)
	}
}

// Len returns the number of commands currently queued. Approximate if called
// concurrently with a push or pop, but exact when called from either the sole
// producer or sole consumer between operations.
func (r *Ring[T]) Len() int {
	return int(r.head.Load() - r.tail.Load())
}

// Cap returns the ring's fixed capacity.
func (r *Ring[T]) Cap() int { return int(r.capacity) }
