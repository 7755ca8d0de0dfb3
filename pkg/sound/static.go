package sound

import (
	"github.com/anthropics/audioengine/pkg/frame"
	"github.com/anthropics/audioengine/pkg/param"
	"github.com/anthropics/audioengine/pkg/rtinfo"
)

// LoopRegion is a [Start, End) window in seconds that playback wraps within
// once position reaches End.
type LoopRegion struct {
	Start float64
	End   float64
}

// StaticSound plays a fully in-memory sample buffer, with smoothly tweened
// volume, playback rate and panning, and an independent fade parameter that
// drives Pause/Resume/Stop transitions without clicking.
type StaticSound struct {
	Samples    []frame.Frame
	SampleRate float64

	volumeDb     *param.Parameter[frame.Decibels]
	PlaybackRate *param.Parameter[float64]
	Panning      *param.Parameter[float32]

	state PlayState
	fade  *param.Parameter[frame.Decibels]

	position float64 // seconds
	loop     *LoopRegion
}

// NewStaticSound creates a StaticSound over samples (already engine-format
// f32 stereo) at sampleRate, starting at unity volume, center panning, normal
// playback rate, and state Playing with a fully-open fade.
func NewStaticSound(samples []frame.Frame, sampleRate float64) *StaticSound {
	return &StaticSound{
		Samples:      samples,
		SampleRate:   sampleRate,
		volumeDb:     param.New(param.DecibelsInterpolator, frame.Unity),
		PlaybackRate: param.New(param.Float64Interpolator, 1.0),
		Panning:      param.New(param.Float32Interpolator, 0.5),
		state:        Playing,
		fade:         param.New(param.DecibelsInterpolator, frame.Unity),
	}
}

// Volume exposes the sound's Decibels volume parameter.
func (s *StaticSound) Volume() *param.Parameter[frame.Decibels] { return s.volumeDb }

// Duration returns the sound's total length in seconds.
func (s *StaticSound) Duration() float64 {
	return float64(len(s.Samples)) / s.SampleRate
}

// State returns the current playback state.
func (s *StaticSound) State() PlayState { return s.state }

// Pause begins fading to silence, landing in Paused once the fade completes.
func (s *StaticSound) Pause(tween param.Tween) {
	if s.state == Paused || s.state == Stopped {
		return
	}
	s.state = Pausing
	s.fade.SetTarget(frame.SilenceFloor, tween)
}

// Resume fades back to unity from Paused, returning to Playing immediately
// (the fade continues to rise in the background).
func (s *StaticSound) Resume(tween param.Tween) {
	if s.state != Paused {
		return
	}
	s.state = Playing
	s.fade.SetTarget(frame.Unity, tween)
}

// Stop begins fading to silence, landing in Stopped once the fade completes.
func (s *StaticSound) Stop(tween param.Tween) {
	if s.state == Stopped {
		return
	}
	s.state = Stopping
	s.fade.SetTarget(frame.SilenceFloor, tween)
}

// SeekTo sets the playback position directly, in seconds.
func (s *StaticSound) SeekTo(positionSeconds float64) { s.position = positionSeconds }

// SeekBy adjusts the playback position by a relative offset in seconds.
func (s *StaticSound) SeekBy(deltaSeconds float64) { s.position += deltaSeconds }

// SetLoopRegion installs or clears the loop window.
func (s *StaticSound) SetLoopRegion(region *LoopRegion) { s.loop = region }

func (s *StaticSound) OnStartProcessing() {}

// Finished reports whether the sound has reached the terminal Stopped state.
func (s *StaticSound) Finished() bool { return s.state == Stopped }

// FrameAtPosition reads the sample buffer at positionSeconds via linear
// interpolation between the surrounding samples.
func (s *StaticSound) FrameAtPosition(positionSeconds float64) frame.Frame {
	if len(s.Samples) == 0 {
		return frame.Silence
	}
	index := positionSeconds * s.SampleRate
	idx0 := int(index)
	frac := float32(index - float64(idx0))
	if idx0 < 0 {
		return s.Samples[0]
	}
	if idx0 >= len(s.Samples) {
		return s.Samples[len(s.Samples)-1]
	}
	a := s.Samples[idx0]
	idx1 := idx0 + 1
	if idx1 >= len(s.Samples) {
		return a
	}
	return lerpFrame(a, s.Samples[idx1], frac)
}

// Process fills buf with one chunk of audio, advancing playback position and
// running the Pausing/Stopping fade-out state machine.
func (s *StaticSound) Process(buf []frame.Frame, dt float64, info *rtinfo.Info) {
	if !active(s.state) {
		for i := range buf {
			buf[i] = frame.Silence
		}
		return
	}

	for i := range buf {
		s.volumeDb.Update(dt, info)
		s.PlaybackRate.Update(dt, info)
		s.Panning.Update(dt, info)
		s.fade.Update(dt, info)

		sample := s.FrameAtPosition(s.position)
		amp := float32(s.volumeDb.Value().AsAmplitude()) * float32(s.fade.Value().AsAmplitude())
		buf[i] = sample.Scale(amp).Panned(s.Panning.Value())

		s.position += dt * s.PlaybackRate.Value()
		if s.loop != nil {
			if s.position >= s.loop.End {
				s.position = s.loop.Start + (s.position - s.loop.End)
			}
		} else if s.position >= s.Duration() {
			s.state = Stopped
		}

		switch s.state {
		case Pausing:
			if !s.fade.Tweening() {
				s.state = Paused
			}
		case Stopping:
			if !s.fade.Tweening() {
				s.state = Stopped
			}
		}
	}
}
