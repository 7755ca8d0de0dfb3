// Package param implements smoothed values ("parameters"): a current value plus
// an optional active tween, anchored to wall time or to a clock tick, and
// optionally driven instead by a modulator's output. This is the core primitive
// every mixer knob (volume, panning, effect mix, LFO frequency) is built from.
package param

import (
	"time"

	"github.com/anthropics/audioengine/pkg/key"
	"github.com/anthropics/audioengine/pkg/rtinfo"
)

// Interpolator defines how a parameter's type T is blended between two values.
// Implementations must satisfy Lerp(a, b, 0) == a and Lerp(a, b, 1) == b.
type Interpolator[T any] interface {
	Lerp(a, b T, t float64) T
}

// SourceKind selects what continuously drives a parameter's value between
// explicit SetTarget calls.
type SourceKind int

const (
	// SourceConstant means the value only changes via SetTarget/tweening.
	SourceConstant SourceKind = iota
	// SourceModulator means the value tracks a modulator's output every frame,
	// through Convert. Setting this clears any in-progress tween.
	SourceModulator
)

// Source describes where a parameter's value comes from: SetTarget tweens
// (SourceConstant) or a modulator's output, which takes precedence over any
// tween while it is set.
type Source struct {
	Kind      SourceKind
	Modulator key.Key
}

type activeTween[T any] struct {
	start, target T
	tween         Tween
	elapsed       time.Duration
	released      bool // start-time gate satisfied, elapsed is advancing
}

// Parameter holds a current value of type T plus an optional active Tween, and
// an optional modulator Source that overrides both when present.
type Parameter[T any] struct {
	interp  Interpolator[T]
	current T
	source  Source
	convert func(float64) T
	active  *activeTween[T]
}

// New creates a Parameter with the given interpolator and initial value.
func New[T any](interp Interpolator[T], initial T) *Parameter[T] {
	return &Parameter[T]{interp: interp, current: initial}
}

// Value returns the parameter's current value.
func (p *Parameter[T]) Value() T { return p.current }

// SetModulatorSource makes the parameter continuously track a modulator's
// output, converted to T by convert. Any in-progress tween is discarded.
func (p *Parameter[T]) SetModulatorSource(modulator key.Key, convert func(float64) T) {
	p.source = Source{Kind: SourceModulator, Modulator: modulator}
	p.convert = convert
	p.active = nil
}

// ClearSource reverts the parameter to SourceConstant, so it is only driven by
// SetTarget from here on.
func (p *Parameter[T]) ClearSource() {
	p.source = Source{Kind: SourceConstant}
	p.convert = nil
}

// SetTarget starts a tween from the current value to target. If tween is
// Instant (zero duration, immediate start), the value snaps on the next Update.
// Has no visible effect while a modulator source is active, until ClearSource
// is called.
func (p *Parameter[T]) SetTarget(target T, tween Tween) {
	p.active = &activeTween[T]{
		start:  p.current,
		target: target,
		tween:  tween,
	}
}

// Tweening reports whether a tween is currently in progress (as opposed to
// already completed or never started).
func (p *Parameter[T]) Tweening() bool { return p.active != nil }

// Update advances the parameter by one sample's worth of time. info supplies
// clock snapshots (for clock-anchored start times) and modulator snapshots (for
// SourceModulator parameters), sampled at info.FrameIndex.
func (p *Parameter[T]) Update(dt float64, info *rtinfo.Info) {
	if p.source.Kind == SourceModulator {
		if v, ok := info.ModulatorValueAt(p.source.Modulator); ok && p.convert != nil {
			p.current = p.convert(v)
		}
		return
	}
	p.advanceTween(dt, info)
}

// UpdateChunk fills out with one value per sample for a chunk of len(out)
// frames, starting at dt-per-sample granularity. This lets effects that need
// per-sample smoothing (panning, pitch) read a precomputed buffer instead of
// calling Update len(out) times with identical per-call overhead.
func (p *Parameter[T]) UpdateChunk(out []T, dt float64, info *rtinfo.Info) {
	base := info.FrameIndex
	for i := range out {
		info.FrameIndex = base + i
		p.Update(dt, info)
		out[i] = p.current
	}
	info.FrameIndex = base
}

func (p *Parameter[T]) advanceTween(dt float64, info *rtinfo.Info) {
	t := p.active
	if t == nil {
		return
	}
	if !t.released {
		if t.tween.Start.Kind == AtClockTime {
			snap, ok := info.ClockAt(t.tween.Start.Clock)
			if !ok || snap.Ticks < t.tween.Start.Tick {
				return
			}
		}
		t.released = true
	}

	t.elapsed += time.Duration(dt * float64(time.Second))
	if t.elapsed >= t.tween.Duration {
		p.current = t.target
		p.active = nil
		return
	}

	progress := float64(t.elapsed) / float64(t.tween.Duration)
	eased := Ease(t.tween.Easing, t.tween.Power, progress)
	p.current = p.interp.Lerp(t.start, t.target, eased)
}
