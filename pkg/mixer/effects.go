package mixer

import (
	"time"

	"github.com/anthropics/audioengine/pkg/frame"
	"github.com/anthropics/audioengine/pkg/param"
	"github.com/anthropics/audioengine/pkg/rtinfo"
)

// GainEffect scales every frame by a tweenable gain. It is the minimal
// reference implementation of the Effect contract.
type GainEffect struct {
	Gain *param.Parameter[frame.Decibels]

	gainBuf []frame.Decibels
}

// NewGainEffect creates a GainEffect at the initial gain, preallocating its one
// per-sample scratch buffer so Process never allocates.
func NewGainEffect(chunkSize int, initial frame.Decibels) *GainEffect {
	return &GainEffect{
		Gain:    param.New(param.DecibelsInterpolator, initial),
		gainBuf: make([]frame.Decibels, chunkSize),
	}
}

func (g *GainEffect) OnStartProcessing() {}

func (g *GainEffect) Process(buf []frame.Frame, dt float64, info *rtinfo.Info) {
	gainBuf := g.gainBuf[:len(buf)]
	g.Gain.UpdateChunk(gainBuf, dt, info)
	for i := range buf {
		amp := float32(gainBuf[i].AsAmplitude())
		buf[i] = buf[i].Scale(amp)
	}
}

// DelayEffect is a fixed-capacity ring-buffer delay line with feedback,
// directly descended from the teacher's per-channel echo buffer: each output
// frame is the dry signal plus a feedback-scaled copy of the output from Time
// seconds ago.
type DelayEffect struct {
	Time     *param.Parameter[float64] // delay time in seconds
	Feedback *param.Parameter[float32] // 0..~0.95, self-exciting above that

	sampleRate float64
	ring       []frame.Frame
	writePos   int
}

// NewDelayEffect creates a DelayEffect with a fixed ring sized for
// maxDelaySeconds at sampleRate; Time may be tweened up to (but not past) that
// ceiling without reallocating the ring.
func NewDelayEffect(sampleRate float64, maxDelaySeconds float64, initialDelay time.Duration, feedback float32) *DelayEffect {
	ringLen := int(maxDelaySeconds*sampleRate) + 1
	if ringLen < 1 {
		ringLen = 1
	}
	return &DelayEffect{
		Time:       param.New(param.Float64Interpolator, initialDelay.Seconds()),
		Feedback:   param.New(param.Float32Interpolator, feedback),
		sampleRate: sampleRate,
		ring:       make([]frame.Frame, ringLen),
	}
}

func (d *DelayEffect) OnStartProcessing() {}

func (d *DelayEffect) Process(buf []frame.Frame, dt float64, info *rtinfo.Info) {
	for i := range buf {
		d.Time.Update(dt, info)
		d.Feedback.Update(dt, info)

		delaySamples := int(d.Time.Value() * d.sampleRate)
		if delaySamples < 1 {
			delaySamples = 1
		}
		if delaySamples >= len(d.ring) {
			delaySamples = len(d.ring) - 1
		}
		readPos := d.writePos - delaySamples
		for readPos < 0 {
			readPos += len(d.ring)
		}

		delayed := d.ring[readPos]
		fb := d.Feedback.Value()
		out := buf[i].Add(delayed.Scale(fb))

		d.ring[d.writePos] = out
		d.writePos = (d.writePos + 1) % len(d.ring)

		buf[i] = out
	}
}
