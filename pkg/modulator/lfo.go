package modulator

import (
	"math"

	"github.com/anthropics/audioengine/pkg/param"
	"github.com/anthropics/audioengine/pkg/rtinfo"
)

// WaveformKind selects the periodic shape an LFO outputs.
type WaveformKind int

const (
	Sine WaveformKind = iota
	Triangle
	Saw
	Pulse
)

// Waveform pairs a kind with the duty-cycle Width a Pulse waveform uses; Width
// is ignored by every other kind.
type Waveform struct {
	Kind  WaveformKind
	Width float64
}

func waveformValue(w Waveform, phase float64) float64 {
	switch w.Kind {
	case Sine:
		return math.Sin(2 * math.Pi * phase)
	case Triangle:
		return 1 - math.Abs(4*phase-2)
	case Saw:
		if phase < 0.5 {
			return 2 * phase
		}
		return 2*phase - 2
	case Pulse:
		if phase < w.Width {
			return 1
		}
		return -1
	default:
		return 0
	}
}

// LFO is a low-frequency oscillator modulator: offset + amplitude*waveform(phase).
// Frequency, Amplitude and Offset are themselves Parameters so they can be
// tweened or clock-anchored like any other control surface.
type LFO struct {
	Waveform  Waveform
	Frequency *param.Parameter[float64]
	Amplitude *param.Parameter[float64]
	Offset    *param.Parameter[float64]

	phase  float64
	cached float64
}

// NewLFO creates an LFO with the given waveform and starting frequency/
// amplitude/offset.
func NewLFO(waveform Waveform, frequency, amplitude, offset float64) *LFO {
	return &LFO{
		Waveform:  waveform,
		Frequency: param.New(param.Float64Interpolator, frequency),
		Amplitude: param.New(param.Float64Interpolator, amplitude),
		Offset:    param.New(param.Float64Interpolator, offset),
	}
}

func (l *LFO) OnStartProcessing() {}

// Update samples the waveform at the current phase into the cached value
// returned by Value, then advances the phase by dt*Frequency for the next
// call. Sampling before advancing means the very first call after construction
// returns the waveform's value at phase 0.
func (l *LFO) Update(dt float64, info *rtinfo.Info) {
	l.Frequency.Update(dt, info)
	l.Amplitude.Update(dt, info)
	l.Offset.Update(dt, info)

	l.cached = l.Offset.Value() + l.Amplitude.Value()*waveformValue(l.Waveform, l.phase)

	l.phase += dt * l.Frequency.Value()
	l.phase -= math.Floor(l.phase)
}

func (l *LFO) Value() float64 { return l.cached }

// Finished always reports false: LFOs run until their owning handle is closed.
func (l *LFO) Finished() bool { return false }

// NoiseLFO is a deterministic pseudo-random modulator: its output depends only
// on its phase, not on wall-clock entropy, so two runs started at the same
// frequency produce identical sequences. Hosts wanting true entropy-seeded
// noise should implement Modulator themselves; the render thread's
// determinism invariant rules out math/rand here.
type NoiseLFO struct {
	Frequency *param.Parameter[float64]
	Amplitude *param.Parameter[float64]
	Offset    *param.Parameter[float64]

	phase  float64
	cached float64
}

// NewNoiseLFO creates a NoiseLFO whose phase advances at frequency cycles per
// second; every Update computes a new pseudo-random value from the phase.
func NewNoiseLFO(frequency, amplitude, offset float64) *NoiseLFO {
	return &NoiseLFO{
		Frequency: param.New(param.Float64Interpolator, frequency),
		Amplitude: param.New(param.Float64Interpolator, amplitude),
		Offset:    param.New(param.Float64Interpolator, offset),
	}
}

func (n *NoiseLFO) OnStartProcessing() {}

// Update advances an LCG seeded from the current phase, matching the
// sample-then-advance ordering every other modulator uses.
func (n *NoiseLFO) Update(dt float64, info *rtinfo.Info) {
	n.Frequency.Update(dt, info)
	n.Amplitude.Update(dt, info)
	n.Offset.Update(dt, info)

	seed := uint32(n.phase * 1000000)
	seed = seed*1103515245 + 12345
	raw := float64(int32(seed)) / float64(math.MaxInt32)
	n.cached = n.Offset.Value() + n.Amplitude.Value()*raw

	n.phase += dt * n.Frequency.Value()
	n.phase -= math.Floor(n.phase)
}

func (n *NoiseLFO) Value() float64 { return n.cached }

// Finished always reports false: NoiseLFOs run until their owning handle is
// closed.
func (n *NoiseLFO) Finished() bool { return false }
