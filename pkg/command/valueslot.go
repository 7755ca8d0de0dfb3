// Package command implements the engine's two control→render mutation
// primitives: a single-writer/single-reader ValueSlot for "set this parameter"
// messages (where only the latest write matters) and a fixed-capacity SPSC
// Ring for structural messages (add/remove resource) that must all be
// observed in order.
package command

import (
	"sync/atomic"

	"github.com/anthropics/audioengine/pkg/param"
)

type valueMsg[T any] struct {
	Target   T
	Tween    param.Tween
	Sequence uint64
}

// ValueSlot holds the most recently written (target, tween) pair for one
// parameter. Writing never blocks and never fails; a reader that polls faster
// than the writer simply sees no new value.
type ValueSlot[T any] struct {
	slot     atomic.Value // valueMsg[T]
	seq      atomic.Uint64
	lastSeen uint64 // render-side only; ValueSlot has exactly one reader
}

// NewValueSlot creates a slot whose initial Poll (before any Write) reports ok
// = false.
func NewValueSlot[T any]() *ValueSlot[T] {
	vs := &ValueSlot[T]{}
	vs.slot.Store(valueMsg[T]{})
	return vs
}

// Write publishes a new target value and tween. Safe to call from any single
// control-side writer; writes from the same goroutine are observed by Poll in
// the order they were made.
func (vs *ValueSlot[T]) Write(target T, tween param.Tween) {
	seq := vs.seq.Add(1)
	vs.slot.Store(valueMsg[T]{Target: target, Tween: tween, Sequence: seq})
}

// Poll returns the latest written value and reports ok = true exactly once per
// Write. Must only be called from the slot's single reader (the render side).
func (vs *ValueSlot[T]) Poll() (target T, tween param.Tween, ok bool) {
	msg := vs.slot.Load().(valueMsg[T])
	if msg.Sequence == vs.lastSeen {
		return target, tween, false
	}
	vs.lastSeen = msg.Sequence
	return msg.Target, msg.Tween, true
}
