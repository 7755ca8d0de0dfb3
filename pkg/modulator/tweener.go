package modulator

import (
	"github.com/anthropics/audioengine/pkg/param"
	"github.com/anthropics/audioengine/pkg/rtinfo"
)

// Tweener is a modulator that wraps a single Parameter[float64]. Control-side
// code calls Set to schedule a tween; the render side calls Update/Value like
// any other modulator.
type Tweener struct {
	value *param.Parameter[float64]
}

// NewTweener creates a Tweener starting at initial.
func NewTweener(initial float64) *Tweener {
	return &Tweener{value: param.New(param.Float64Interpolator, initial)}
}

// Set schedules a tween of the tweener's value to target.
func (tw *Tweener) Set(target float64, tween param.Tween) {
	tw.value.SetTarget(target, tween)
}

func (tw *Tweener) OnStartProcessing() {}

func (tw *Tweener) Update(dt float64, info *rtinfo.Info) {
	tw.value.Update(dt, info)
}

func (tw *Tweener) Value() float64 { return tw.value.Value() }

// Finished always reports false: a Tweener remains live (at its last target)
// until its owning handle is explicitly closed, matching the engine's general
// rule that resources are removed by command, not by self-expiry.
func (tw *Tweener) Finished() bool { return false }
