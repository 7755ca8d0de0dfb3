package sound

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anthropics/audioengine/pkg/frame"
	"github.com/anthropics/audioengine/pkg/key"
	"github.com/anthropics/audioengine/pkg/param"
	"github.com/anthropics/audioengine/pkg/rtinfo"
)

func emptyInfo() *rtinfo.Info {
	return &rtinfo.Info{
		Clocks:          map[key.Key]rtinfo.ClockSnapshot{},
		ModulatorValues: map[key.Key][]float64{},
	}
}

func mono(v float32) frame.Frame { return frame.Frame{Left: v, Right: v} }

func TestStaticSoundDuration(t *testing.T) {
	samples := []frame.Frame{mono(0.1), mono(0.2), mono(0.3), mono(0.4)}
	s := NewStaticSound(samples, 1.0)
	assert.Equal(t, 4.0, s.Duration())
}

func TestStaticSoundFrameAtPositionMatchesThirdSample(t *testing.T) {
	samples := []frame.Frame{mono(0.1), mono(0.2), mono(0.3), mono(0.4)}
	s := NewStaticSound(samples, 1.0)
	got := s.FrameAtPosition(2.0)
	assert.InDelta(t, 0.3, got.Left, 1e-6)
}

func TestStaticSoundLoopWrapSequence(t *testing.T) {
	samples := []frame.Frame{mono(1), mono(2), mono(3), mono(4)} // A B C D
	s := NewStaticSound(samples, 1.0)
	s.SetLoopRegion(&LoopRegion{Start: 1, End: 3})

	info := emptyInfo()
	var got []float32
	buf := make([]frame.Frame, 1)
	for i := 0; i < 5; i++ {
		s.Process(buf, 1.0, info)
		got = append(got, buf[0].Left)
	}

	assert.Equal(t, []float32{1, 2, 3, 2, 3}, got)
}

func TestStaticSoundStopsAtEndWithoutLoop(t *testing.T) {
	samples := []frame.Frame{mono(1), mono(2)}
	s := NewStaticSound(samples, 1.0)

	info := emptyInfo()
	buf := make([]frame.Frame, 1)
	s.Process(buf, 1.0, info)
	s.Process(buf, 1.0, info)
	assert.Equal(t, Stopped, s.State())
}

func TestStaticSoundPauseFadesThenParks(t *testing.T) {
	samples := make([]frame.Frame, 1000)
	for i := range samples {
		samples[i] = mono(1)
	}
	s := NewStaticSound(samples, 1000.0)
	s.Pause(param.Instant)

	info := emptyInfo()
	buf := make([]frame.Frame, 4)
	s.Process(buf, 1.0/1000.0, info)

	assert.Equal(t, Paused, s.State())
	assert.InDelta(t, 0, buf[3].Left, 1e-5)
}

type errorDecoder struct {
	sampleRate uint32
}

func (d *errorDecoder) SampleRate() uint32              { return d.sampleRate }
func (d *errorDecoder) NumFrames() uint64               { return 0 }
func (d *errorDecoder) Decode() ([]frame.Frame, error)  { return nil, assert.AnError }
func (d *errorDecoder) Seek(idx uint64) (uint64, error) { return idx, nil }

func TestStreamingSoundDecoderErrorStopsAndSurfacesErr(t *testing.T) {
	s := NewStreamingSound(&errorDecoder{sampleRate: 44100}, 44100, 8)
	defer s.Close()

	require.Eventually(t, func() bool {
		_, ok := s.ReadableErr()
		return ok
	}, time.Second, time.Millisecond, "decoder error should surface on the error ring")

	s.OnStartProcessing()
	assert.Equal(t, Stopped, s.State())
}

type finiteDecoder struct {
	sampleRate uint32
	frames     []frame.Frame
	served     bool
}

func (d *finiteDecoder) SampleRate() uint32 { return d.sampleRate }
func (d *finiteDecoder) NumFrames() uint64  { return uint64(len(d.frames)) }
func (d *finiteDecoder) Decode() ([]frame.Frame, error) {
	if d.served {
		return nil, nil
	}
	d.served = true
	return d.frames, nil
}
func (d *finiteDecoder) Seek(idx uint64) (uint64, error) { return idx, nil }

func TestStreamingSoundPlaysThenStopsAtEOF(t *testing.T) {
	frames := []frame.Frame{mono(1), mono(1), mono(1), mono(1)}
	s := NewStreamingSound(&finiteDecoder{sampleRate: 8, frames: frames}, 8, 16)
	defer s.Close()

	require.Eventually(t, func() bool {
		return s.eof.Load()
	}, time.Second, time.Millisecond, "decoder should reach EOF")

	info := emptyInfo()
	buf := make([]frame.Frame, 8)
	for i := 0; i < 10; i++ {
		s.Process(buf, 1.0/8.0, info)
		if s.Finished() {
			break
		}
	}
	assert.Equal(t, Stopped, s.State())
}
