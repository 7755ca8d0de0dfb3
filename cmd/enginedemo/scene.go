package main

import (
	"math"

	"github.com/anthropics/audioengine/pkg/engine"
	"github.com/anthropics/audioengine/pkg/frame"
	"github.com/anthropics/audioengine/pkg/key"
	"github.com/anthropics/audioengine/pkg/modulator"
	"github.com/anthropics/audioengine/pkg/param"
	"github.com/anthropics/audioengine/pkg/sound"
)

// scene is a demo cue sheet: two static sounds (a chord-ish pair of sine
// tones) on their own track with an LFO tremolo, plus a started clock
// (fadeClock); no tween in the scene is anchored to that clock. Stands in for
// the note-grid playback the teacher's
// tracker demo exercised, using the engine's actual handle API instead of a
// pattern sequencer.
type scene struct {
	controller *engine.Controller
	track      engine.TrackHandle
	tremolo    engine.ModulatorHandle
	fadeClock  engine.ClockHandle
}

func buildScene(controller *engine.Controller) (*scene, error) {
	sampleRate := float64(controller.Config().SampleRate)

	track, err := controller.AddTrack(key.Zero)
	if err != nil {
		return nil, err
	}

	toneA := sound.NewStaticSound(sineSamples(440, 4.0, sampleRate), sampleRate)
	toneB := sound.NewStaticSound(sineSamples(554.37, 4.0, sampleRate), sampleRate) // major third above A
	if _, err := controller.AddStaticSound(toneA, track.Key()); err != nil {
		return nil, err
	}
	if _, err := controller.AddStaticSound(toneB, track.Key()); err != nil {
		return nil, err
	}

	tremoloHandle, lfo, err := controller.AddLFO(modulator.Waveform{Kind: modulator.Sine}, 5.0, 6.0, -3.0)
	if err != nil {
		return nil, err
	}
	track.SetVolumeSource(tremoloHandle)
	_ = lfo

	fadeClock, err := controller.AddClock(1.0)
	if err != nil {
		return nil, err
	}
	fadeClock.Start()
	track.SetPanning(0.5, param.Instant)

	return &scene{controller: controller, track: track, tremolo: tremoloHandle, fadeClock: fadeClock}, nil
}

func (s *scene) close() {
	s.tremolo.Close()
	s.fadeClock.Close()
	s.track.Close()
}

func sineSamples(freqHz, durationSeconds, sampleRate float64) []frame.Frame {
	n := int(durationSeconds * sampleRate)
	out := make([]frame.Frame, n)
	for i := range out {
		t := float64(i) / sampleRate
		v := float32(0.25 * math.Sin(2*math.Pi*freqHz*t))
		out[i] = frame.Frame{Left: v, Right: v}
	}
	return out
}
