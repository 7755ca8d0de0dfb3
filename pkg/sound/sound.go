// Package sound implements the two sound kinds the renderer drives each
// chunk: StaticSound (decoded once, held entirely in memory) and
// StreamingSound (decoded incrementally on a supervised background
// goroutine). Both satisfy the small Sound contract the renderer's
// per-chunk loop drives blindly.
package sound

import (
	"github.com/anthropics/audioengine/pkg/frame"
	"github.com/anthropics/audioengine/pkg/param"
	"github.com/anthropics/audioengine/pkg/rtinfo"
)

// Sound is anything the renderer can pull one chunk of frames from.
// Process must not allocate.
type Sound interface {
	OnStartProcessing()
	Process(buf []frame.Frame, dt float64, info *rtinfo.Info)
	Finished() bool
}

// Controllable is the subset of a sound kind's API a control-side handle
// needs: transport and the current state, independent of how the sound
// itself decodes or loops. Both StaticSound and StreamingSound satisfy it.
type Controllable interface {
	Sound
	State() PlayState
	Pause(tween param.Tween)
	Resume(tween param.Tween)
	Stop(tween param.Tween)
}

// PlayState is the lifecycle every sound kind shares.
type PlayState int

const (
	Playing PlayState = iota
	Pausing
	Paused
	Stopping
	Stopped
)

func active(s PlayState) bool {
	return s == Playing || s == Pausing || s == Stopping
}

func lerpFrame(a, b frame.Frame, t float32) frame.Frame {
	return a.Scale(1 - t).Add(b.Scale(t))
}
