package key

import (
	"sync/atomic"

	"github.com/anthropics/audioengine/internal/engineerr"
)

// Re-exported here so callers of this package don't need to import engineerr
// directly for the errors this package's own methods can return.
var (
	ErrCapacityExceeded = engineerr.ErrCapacityExceeded
	ErrKeyNotReserved   = engineerr.ErrKeyNotReserved
	ErrKeyInvalid       = engineerr.ErrKeyInvalid
)

const noSlot = int32(-1)

// slotState tags what a slot currently holds.
type slotState uint32

const (
	stateFree slotState = iota
	stateReserved
	stateOccupied
)

// slot packs state and generation into one word so a control-side Reserve and a
// render-side Remove/Each never need a mutex to stay consistent with each other;
// exclusivity for who may transition a given slot comes from the free-slot channel,
// not from a compare-and-swap on this word.
type slot[T any] struct {
	packed atomic.Uint64
	value  T
	prev   int32
	next   int32
}

func packState(state slotState, generation uint32) uint64 {
	return uint64(state)<<32 | uint64(generation)
}

func unpackState(packed uint64) (slotState, uint32) {
	return slotState(packed >> 32), uint32(packed)
}

// Arena is fixed-capacity storage for T, addressed by generational Key. A "free"
// channel is the sole reclamation path: the control side pulls from it to reserve a
// slot, and the owning (render) side pushes to it after removing a value. Neither
// side allocates once NewArena has returned.
type Arena[T any] struct {
	slots []slot[T]
	free  chan uint32

	head int32 // first occupied slot index, in insertion order
	tail int32 // last occupied slot index
	size int
}

// NewArena builds an arena with the given fixed capacity. Capacity must be >= 1.
func NewArena[T any](capacity int) *Arena[T] {
	a := &Arena[T]{
		slots: make([]slot[T], capacity),
		free:  make(chan uint32, capacity),
		head:  noSlot,
		tail:  noSlot,
	}
	for i := range a.slots {
		a.slots[i].packed.Store(packState(stateFree, 0))
		a.slots[i].prev = noSlot
		a.slots[i].next = noSlot
		a.free <- uint32(i)
	}
	return a
}

// Cap returns the arena's fixed capacity.
func (a *Arena[T]) Cap() int { return len(a.slots) }

// Len returns the number of currently occupied slots. Only safe to call from the
// side that owns the occupied list (see package doc).
func (a *Arena[T]) Len() int { return a.size }

// Reserve atomically claims a free slot and bumps its generation, without
// populating a value. The returned Key is valid for exactly one subsequent
// InsertWithKey call. Safe to call concurrently with the owning side's
// InsertWithKey/Remove/Each, and safe to call from multiple reserving goroutines
// (each pull from the free channel is exclusive).
func (a *Arena[T]) Reserve() (Key, error) {
	select {
	case idx := <-a.free:
		s := &a.slots[idx]
		_, gen := unpackState(s.packed.Load())
		gen++
		s.packed.Store(packState(stateReserved, gen))
		return Key{Index: idx, Generation: gen}, nil
	default:
		return Zero, ErrCapacityExceeded
	}
}

// Insert reserves a slot and immediately populates it. Convenience for
// single-sided callers (tests, setup code); builders that must hand a Key to the
// control side before the render side has the value should use Reserve then
// InsertWithKey instead.
func (a *Arena[T]) Insert(value T) (Key, error) {
	k, err := a.Reserve()
	if err != nil {
		return Zero, err
	}
	if err := a.InsertWithKey(k, value); err != nil {
		return Zero, err
	}
	return k, nil
}

// InsertWithKey populates a previously reserved key. Must be called by the arena's
// owning side (the side that also calls Remove/Each) — it is not safe to race with
// another InsertWithKey or Remove on the same arena.
func (a *Arena[T]) InsertWithKey(k Key, value T) error {
	if int(k.Index) >= len(a.slots) {
		return ErrKeyInvalid
	}
	s := &a.slots[k.Index]
	state, gen := unpackState(s.packed.Load())
	if state != stateReserved {
		return ErrKeyNotReserved
	}
	if gen != k.Generation {
		return ErrKeyInvalid
	}
	s.value = value
	s.packed.Store(packState(stateOccupied, gen))
	a.linkOccupied(int32(k.Index))
	a.size++
	return nil
}

// Get returns the value for k and whether it was found. A missing or generation-
// mismatched key returns the zero value and false.
func (a *Arena[T]) Get(k Key) (T, bool) {
	var zero T
	if int(k.Index) >= len(a.slots) {
		return zero, false
	}
	s := &a.slots[k.Index]
	state, gen := unpackState(s.packed.Load())
	if state != stateOccupied || gen != k.Generation {
		return zero, false
	}
	return s.value, true
}

// GetPointer is like Get but returns a pointer into the arena's backing storage,
// letting the render side mutate the value in place without a copy. The pointer
// is invalidated once the slot is removed.
func (a *Arena[T]) GetPointer(k Key) (*T, bool) {
	if int(k.Index) >= len(a.slots) {
		return nil, false
	}
	s := &a.slots[k.Index]
	state, gen := unpackState(s.packed.Load())
	if state != stateOccupied || gen != k.Generation {
		return nil, false
	}
	return &s.value, true
}

// Remove unlinks and frees the slot for k, returning true if it was occupied. The
// generation is not bumped here; it bumps the next time the slot is reserved. Must
// be called by the arena's owning side only.
func (a *Arena[T]) Remove(k Key) bool {
	if int(k.Index) >= len(a.slots) {
		return false
	}
	s := &a.slots[k.Index]
	state, gen := unpackState(s.packed.Load())
	if state != stateOccupied || gen != k.Generation {
		return false
	}
	a.unlinkOccupied(int32(k.Index))
	var zero T
	s.value = zero
	s.packed.Store(packState(stateFree, gen))
	a.size--
	a.free <- k.Index
	return true
}

// Each visits occupied slots in insertion order. fn returning false stops
// iteration early. Must be called by the arena's owning side only.
func (a *Arena[T]) Each(fn func(Key, *T) bool) {
	for idx := a.head; idx != noSlot; {
		s := &a.slots[idx]
		_, gen := unpackState(s.packed.Load())
		next := s.next
		if !fn(Key{Index: uint32(idx), Generation: gen}, &s.value) {
			return
		}
		idx = next
	}
}

func (a *Arena[T]) linkOccupied(idx int32) {
	s := &a.slots[idx]
	s.prev = a.tail
	s.next = noSlot
	if a.tail != noSlot {
		a.slots[a.tail].next = idx
	} else {
		a.head = idx
	}
	a.tail = idx
}

func (a *Arena[T]) unlinkOccupied(idx int32) {
	s := &a.slots[idx]
	if s.prev != noSlot {
		a.slots[s.prev].next = s.next
	} else {
		a.head = s.next
	}
	if s.next != noSlot {
		a.slots[s.next].prev = s.prev
	} else {
		a.tail = s.prev
	}
	s.prev = noSlot
	s.next = noSlot
}
