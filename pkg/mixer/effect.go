package mixer

import (
	"github.com/anthropics/audioengine/pkg/frame"
	"github.com/anthropics/audioengine/pkg/param"
	"github.com/anthropics/audioengine/pkg/rtinfo"
)

// Effect is a black-box DSP processor. Process mutates buf in place; Effects
// may hold state (delay lines, filter coefficients) but must not allocate
// during Process — allocate any working storage in the constructor instead.
type Effect interface {
	OnStartProcessing()
	Process(buf []frame.Frame, dt float64, info *rtinfo.Info)
}

// EffectSlot wraps an Effect with an enable flag and a dry/wet mix parameter.
// The slot, not the effect, owns the lerp between dry and processed signal, so
// an Effect implementation never needs to know about enable/mix at all.
type EffectSlot struct {
	Effect  Effect
	Enabled bool
	Mix     *param.Parameter[float32]
}

// NewEffectSlot wraps effect with a mix parameter starting at full wet (1.0)
// and enabled.
func NewEffectSlot(effect Effect) *EffectSlot {
	return &EffectSlot{
		Effect:  effect,
		Enabled: true,
		Mix:     param.New(param.Float32Interpolator, float32(1.0)),
	}
}

// Process runs the slot's effect over buf and blends the result back toward
// the original signal by (enabled ? mix : 0). scratch and mixBuf are caller-
// owned reusable buffers of len(buf) capacity, avoiding any allocation here.
func (s *EffectSlot) Process(buf []frame.Frame, scratch []frame.Frame, mixBuf []float32, dt float64, info *rtinfo.Info) {
	copy(scratch, buf)
	s.Effect.Process(buf, dt, info)

	s.Mix.UpdateChunk(mixBuf, dt, info)
	gate := float32(0)
	if s.Enabled {
		gate = 1
	}
	for i := range buf {
		amt := mixBuf[i] * gate
		buf[i] = frame.Frame{
			Left:  scratch[i].Left + (buf[i].Left-scratch[i].Left)*amt,
			Right: scratch[i].Right + (buf[i].Right-scratch[i].Right)*amt,
		}
	}
}
