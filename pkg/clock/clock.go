// Package clock implements user-driven tick sources: tickers with adjustable
// speed and a fractional sub-tick position, used to anchor tweens and sound
// triggers to musical time instead of wall time.
package clock

import (
	"math"
	"sync/atomic"

	"github.com/anthropics/audioengine/pkg/param"
	"github.com/anthropics/audioengine/pkg/rtinfo"
)

// Clock advances a tick counter at dt*Speed per sample. Speed itself is a
// Parameter so it can be tweened (e.g. a tempo ramp) rather than stepped.
type Clock struct {
	Speed *param.Parameter[float64]

	ticking    bool
	ticks      uint64
	fractional float64

	// Published snapshot, safe for the control side to read without
	// synchronizing with the render side beyond what these atomics provide.
	publishedTicks atomic.Uint64
	publishedFrac  atomic.Uint64 // math.Float64bits(fractional)
	removed        atomic.Bool
}

// New creates a Clock with the given initial speed, in ticks per second.
func New(initialSpeed float64) *Clock {
	c := &Clock{Speed: param.New(param.Float64Interpolator, initialSpeed)}
	c.publish()
	return c
}

// Start begins advancing ticks on subsequent Advance calls.
func (c *Clock) Start() { c.ticking = true }

// Pause stops advancing ticks, preserving ticks/fractional.
func (c *Clock) Pause() { c.ticking = false }

// Stop stops advancing and resets ticks and fractional position to zero.
func (c *Clock) Stop() {
	c.ticking = false
	c.ticks = 0
	c.fractional = 0
	c.publish()
}

// SetSpeed schedules a tween of the clock's speed to target.
func (c *Clock) SetSpeed(target float64, tween param.Tween) {
	c.Speed.SetTarget(target, tween)
}

// Ticking reports whether the clock is currently advancing.
func (c *Clock) Ticking() bool { return c.ticking }

// Advance moves the clock forward by one sample. info is used only to resolve
// the Speed parameter's own tween (which may itself be clock-anchored to
// another clock).
func (c *Clock) Advance(dt float64, info *rtinfo.Info) {
	c.Speed.Update(dt, info)
	if !c.ticking {
		return
	}
	c.fractional += dt * c.Speed.Value()
	for c.fractional >= 1.0 {
		c.ticks++
		c.fractional -= 1.0
	}
}

// Publish copies the clock's current state into the atomics the control side
// reads. The renderer calls this once per chunk, per the SPEC_FULL.md clock
// publication contract.
func (c *Clock) Publish() { c.publish() }

func (c *Clock) publish() {
	c.publishedTicks.Store(c.ticks)
	c.publishedFrac.Store(math.Float64bits(c.fractional))
}

// Ticks returns the last-published tick count. Safe to call from the control
// side at any time.
func (c *Clock) Ticks() uint64 { return c.publishedTicks.Load() }

// FractionalPosition returns the last-published fractional position in [0, 1).
func (c *Clock) FractionalPosition() float64 {
	return math.Float64frombits(c.publishedFrac.Load())
}

// Snapshot returns the render-side-local snapshot used to build rtinfo.Info for
// the current chunk (as opposed to Ticks/FractionalPosition, which read the
// last-published, possibly one-chunk-stale values for the control side).
func (c *Clock) Snapshot() rtinfo.ClockSnapshot {
	return rtinfo.ClockSnapshot{Ticks: c.ticks, Fractional: c.fractional}
}

// MarkRemoved flags the clock for removal on the next render chunk's purge
// pass. Safe to call from the control side.
func (c *Clock) MarkRemoved() { c.removed.Store(true) }

// Removed reports whether MarkRemoved has been called.
func (c *Clock) Removed() bool { return c.removed.Load() }
