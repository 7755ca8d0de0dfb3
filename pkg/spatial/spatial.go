// Package spatial positions sounds in 3D space by feeding ordinary mixer
// track parameters: a Spatial resolves each emitter's distance and bearing
// from the listener into a Decibels gain and a float32 pan, and tweens the
// owning track's Volume and Panning toward those targets every chunk, so a
// moving emitter glides instead of stepping.
package spatial

import (
	"math"
	"time"

	"github.com/anthropics/audioengine/pkg/frame"
	"github.com/anthropics/audioengine/pkg/key"
	"github.com/anthropics/audioengine/pkg/mixer"
	"github.com/anthropics/audioengine/pkg/param"
	"github.com/anthropics/audioengine/pkg/rtinfo"
	"github.com/anthropics/audioengine/pkg/vecmath"
)

// RolloffMode selects how gain falls off with distance.
type RolloffMode int

const (
	// RolloffLinear maps distance to gain as a straight line out to MaxDistance.
	RolloffLinear RolloffMode = iota
	// RolloffInverseSquare squares the linear falloff, closer to how sound
	// pressure actually attenuates with distance.
	RolloffInverseSquare
)

// Emitter is a sound source with a tweenable 3D position, routed to one
// mixer track.
type Emitter struct {
	Position *param.Parameter[vecmath.Vec3]
	Track    key.Key
}

// NewEmitter creates an Emitter at initial, routed to track.
func NewEmitter(initial vecmath.Vec3, track key.Key) *Emitter {
	return &Emitter{
		Position: param.New(param.Vec3Interpolator, initial),
		Track:    track,
	}
}

// Listener is the single (by default) point sound is spatialized relative
// to.
type Listener struct {
	Position    vecmath.Vec3
	Orientation vecmath.Quat
}

// Spatial owns the emitter and listener arenas and drives their effect on
// the mixer once per chunk.
type Spatial struct {
	listeners *key.Arena[*Listener]
	emitters  *key.Arena[*Emitter]

	MaxDistance float64
	Rolloff     RolloffMode

	// tween is how long each chunk's gain/pan update takes to glide to its new
	// target; one chunk's worth of audio is a reasonable default so consecutive
	// updates overlap smoothly rather than snapping.
	tween time.Duration
}

// New creates a Spatial with room for listenerCapacity listeners (1 unless
// the host needs split-screen/multi-listener support) and emitterCapacity
// emitters.
func New(listenerCapacity, emitterCapacity int, maxDistance float64, rolloff RolloffMode, chunkDuration time.Duration) *Spatial {
	return &Spatial{
		listeners:   key.NewArena[*Listener](listenerCapacity),
		emitters:    key.NewArena[*Emitter](emitterCapacity),
		MaxDistance: maxDistance,
		Rolloff:     rolloff,
		tween:       chunkDuration,
	}
}

// AddListener inserts a new listener and returns its key.
func (s *Spatial) AddListener(position vecmath.Vec3, orientation vecmath.Quat) (key.Key, error) {
	return s.listeners.Insert(&Listener{Position: position, Orientation: orientation})
}

// RemoveListener deletes a listener.
func (s *Spatial) RemoveListener(k key.Key) bool { return s.listeners.Remove(k) }

// ReserveListener and ReserveEmitter claim an arena slot without populating
// it, for callers that must hand back a Key before the render thread has
// inserted the value — see InsertReservedListener/InsertReservedEmitter.
func (s *Spatial) ReserveListener() (key.Key, error) { return s.listeners.Reserve() }

// InsertReservedListener populates a key obtained from ReserveListener with
// l. Must be called from the render thread.
func (s *Spatial) InsertReservedListener(k key.Key, l *Listener) error {
	return s.listeners.InsertWithKey(k, l)
}

// Listener returns a pointer to the listener for in-place mutation (moving it
// each chunk), or false if k does not resolve.
func (s *Spatial) Listener(k key.Key) (*Listener, bool) {
	ptr, ok := s.listeners.GetPointer(k)
	if !ok {
		return nil, false
	}
	return *ptr, true
}

// AddEmitter inserts a new emitter routed to track and returns its key.
func (s *Spatial) AddEmitter(initial vecmath.Vec3, track key.Key) (key.Key, *Emitter, error) {
	e := NewEmitter(initial, track)
	k, err := s.emitters.Insert(e)
	if err != nil {
		return key.Zero, nil, err
	}
	return k, e, nil
}

// RemoveEmitter deletes an emitter.
func (s *Spatial) RemoveEmitter(k key.Key) bool { return s.emitters.Remove(k) }

func (s *Spatial) ReserveEmitter() (key.Key, error) { return s.emitters.Reserve() }

// InsertReservedEmitter populates a key obtained from ReserveEmitter with e.
// Must be called from the render thread.
func (s *Spatial) InsertReservedEmitter(k key.Key, e *Emitter) error {
	return s.emitters.InsertWithKey(k, e)
}

// Update advances every emitter's position tween, then resolves distance and
// bearing against the first occupied listener into gain and pan, tweening
// each emitter's owning track's Volume and Panning toward the result. A
// scene with no listener leaves tracks at whatever volume/pan they already
// have.
func (s *Spatial) Update(dt float64, info *rtinfo.Info, m *mixer.Mixer) {
	var listener *Listener
	s.listeners.Each(func(_ key.Key, l **Listener) bool {
		listener = *l
		return false
	})
	if listener == nil {
		s.emitters.Each(func(_ key.Key, e **Emitter) bool {
			(*e).Position.Update(dt, info)
			return true
		})
		return
	}

	s.emitters.Each(func(_ key.Key, e **Emitter) bool {
		emitter := *e
		emitter.Position.Update(dt, info)

		diff := emitter.Position.Value().Sub(listener.Position)
		dist := diff.Length()

		gain := 1 - dist/s.MaxDistance
		gain = clamp01(gain)
		if s.Rolloff == RolloffInverseSquare {
			gain *= gain
		}

		right := listener.Orientation.Right()
		forward := listener.Orientation.Forward()
		var pan float32 = 0.5
		if dist > 0 {
			x := diff.Dot(right)
			z := diff.Dot(forward)
			angle := math.Atan2(x, z)
			normalized := clampFloat(angle/(math.Pi/2), -1, 1)
			pan = float32((normalized + 1) / 2)
		}

		track, ok := m.Track(emitter.Track)
		if !ok {
			return true
		}
		track.Volume.SetTarget(frame.Amplitude(gain).AsDecibels(), param.Tween{Duration: s.tween})
		track.Panning.SetTarget(pan, param.Tween{Duration: s.tween})
		return true
	})
}

func clamp01(v float64) float64 { return clampFloat(v, 0, 1) }

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
