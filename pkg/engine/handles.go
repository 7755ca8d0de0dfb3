package engine

import (
	"github.com/anthropics/audioengine/pkg/clock"
	"github.com/anthropics/audioengine/pkg/frame"
	"github.com/anthropics/audioengine/pkg/key"
	"github.com/anthropics/audioengine/pkg/mixer"
	"github.com/anthropics/audioengine/pkg/modulator"
	"github.com/anthropics/audioengine/pkg/param"
	"github.com/anthropics/audioengine/pkg/sound"
	"github.com/anthropics/audioengine/pkg/spatial"
	"github.com/anthropics/audioengine/pkg/vecmath"
)

// SoundHandle refers to a sound.Controllable playing on the engine. The
// concrete sound is captured at construction, since it is built control-side
// before the render side ever sees it — transport calls go straight to it
// rather than round-tripping through a command, matching how Pause/Resume/
// Stop already only touch the sound's own fade Parameter.
type SoundHandle struct {
	key        key.Key
	controller *Controller
	sound      sound.Controllable
}

// Key returns the arena key this handle addresses.
func (h SoundHandle) Key() key.Key { return h.key }

// State returns the sound's current playback state.
func (h SoundHandle) State() sound.PlayState { return h.sound.State() }

func (h SoundHandle) Pause(tween param.Tween)  { h.sound.Pause(tween) }
func (h SoundHandle) Resume(tween param.Tween) { h.sound.Resume(tween) }
func (h SoundHandle) Stop(tween param.Tween)   { h.sound.Stop(tween) }

// Close marks the sound for removal; the renderer reclaims it on the next
// chunk's OnStartProcessing pass. Closing twice is harmless.
func (h SoundHandle) Close() {
	h.controller.registerDestructor("sound", h.key)
	h.controller.submit(func(r *Renderer) {
		r.sounds.Remove(h.key)
		r.pushEvent(h.key, "sound", nil)
	})
}

// ClockHandle refers to a running Clock. Clock's own state transitions are
// plain fields guarded only by the single-writer convention documented on
// clock.Clock (MarkRemoved aside, which is a genuine atomic), so control-side
// mutation is routed through the command queue like everything else that
// touches render-owned memory.
type ClockHandle struct {
	key        key.Key
	controller *Controller
	clock      *clock.Clock
}

func (h ClockHandle) Key() key.Key { return h.key }

func (h ClockHandle) Start() { h.controller.submit(func(r *Renderer) { h.clock.Start() }) }
func (h ClockHandle) Pause() { h.controller.submit(func(r *Renderer) { h.clock.Pause() }) }
func (h ClockHandle) Stop()  { h.controller.submit(func(r *Renderer) { h.clock.Stop() }) }

func (h ClockHandle) SetSpeed(target float64, tween param.Tween) {
	h.controller.submit(func(r *Renderer) { h.clock.SetSpeed(target, tween) })
}

// Ticks and FractionalPosition read the clock's last-published atomics, safe
// to call from any goroutine without going through the command queue.
func (h ClockHandle) Ticks() uint64               { return h.clock.Ticks() }
func (h ClockHandle) FractionalPosition() float64 { return h.clock.FractionalPosition() }

// Close flags the clock for removal. MarkRemoved is a genuine atomic, so, as
// with TrackHandle.Close, this does not need to queue a closure.
func (h ClockHandle) Close() {
	h.controller.registerDestructor("clock", h.key)
	h.clock.MarkRemoved()
}

// ModulatorHandle refers to a Tweener or LFO.
type ModulatorHandle struct {
	key        key.Key
	controller *Controller
	modulator  modulator.Modulator
}

func (h ModulatorHandle) Key() key.Key                   { return h.key }
func (h ModulatorHandle) Modulator() modulator.Modulator { return h.modulator }

func (h ModulatorHandle) Close() {
	h.controller.registerDestructor("modulator", h.key)
	h.controller.submit(func(r *Renderer) {
		r.modulators.Remove(h.key)
		delete(r.modBufs, h.key)
		r.pushEvent(h.key, "modulator", nil)
	})
}

// TrackHandle refers to a mixer sub-track.
type TrackHandle struct {
	key        key.Key
	controller *Controller
	track      *mixer.Track
}

func (h TrackHandle) Key() key.Key        { return h.key }
func (h TrackHandle) Track() *mixer.Track { return h.track }

// SetVolume and SetPanning schedule a tween on the track's own parameters,
// queued so only the render thread ever calls Parameter.SetTarget on them.
func (h TrackHandle) SetVolume(target frame.Decibels, tween param.Tween) {
	h.controller.submit(func(r *Renderer) { h.track.Volume.SetTarget(target, tween) })
}

func (h TrackHandle) SetPanning(target float32, tween param.Tween) {
	h.controller.submit(func(r *Renderer) { h.track.Panning.SetTarget(target, tween) })
}

// SetVolumeSource makes the track's volume track mod's output every frame
// instead of only moving via SetVolume tweens, until ClearVolumeSource is
// called. mod's raw float64 output is interpreted directly as Decibels.
func (h TrackHandle) SetVolumeSource(mod ModulatorHandle) {
	h.controller.submit(func(r *Renderer) {
		h.track.Volume.SetModulatorSource(mod.key, func(v float64) frame.Decibels { return frame.Decibels(v) })
	})
}

// ClearVolumeSource reverts the track's volume to ordinary tween-driven
// control.
func (h TrackHandle) ClearVolumeSource() {
	h.controller.submit(func(r *Renderer) { h.track.Volume.ClearSource() })
}

// AddSend routes this track's output to dest in addition to its parent,
// scaled by a Decibels send level the caller tweens separately via the
// returned Parameter. The Parameter is built control-side and captured by the
// closure, the same construct-then-install pattern builder methods use for
// arena-backed resources, so the caller can tween it immediately without
// waiting for the command to drain.
func (h TrackHandle) AddSend(dest TrackHandle) *param.Parameter[frame.Decibels] {
	sendLevel := param.New(param.DecibelsInterpolator, frame.Unity)
	h.controller.submit(func(r *Renderer) {
		h.track.Sends[dest.key] = sendLevel
	})
	return sendLevel
}

// Close marks the track for removal; Main can never be closed since it has
// no TrackHandle.
func (h TrackHandle) Close() {
	h.controller.registerDestructor("track", h.key)
	h.track.MarkRemoved()
}

// EmitterHandle refers to a spatial emitter.
type EmitterHandle struct {
	key        key.Key
	controller *Controller
	emitter    *spatial.Emitter
}

func (h EmitterHandle) Key() key.Key { return h.key }

func (h EmitterHandle) SetPosition(target vecmath.Vec3, tween param.Tween) {
	h.controller.submit(func(r *Renderer) { h.emitter.Position.SetTarget(target, tween) })
}

func (h EmitterHandle) Close() {
	h.controller.registerDestructor("emitter", h.key)
	h.controller.submit(func(r *Renderer) {
		r.spatial.RemoveEmitter(h.key)
		r.pushEvent(h.key, "emitter", nil)
	})
}

// ListenerHandle refers to a spatial listener.
type ListenerHandle struct {
	key        key.Key
	controller *Controller
}

func (h ListenerHandle) Key() key.Key { return h.key }

func (h ListenerHandle) Close() {
	h.controller.registerDestructor("listener", h.key)
	h.controller.submit(func(r *Renderer) {
		r.spatial.RemoveListener(h.key)
		r.pushEvent(h.key, "listener", nil)
	})
}
