// Package oto drives an engine.Renderer through a real audio device via
// github.com/ebitengine/oto/v3.
package oto

import (
	"encoding/binary"
	"fmt"

	"github.com/ebitengine/oto/v3"

	"github.com/anthropics/audioengine/internal/engineerr"
	"github.com/anthropics/audioengine/pkg/engine"
)

// Backend owns the oto context/player pair and feeds it from a Renderer.
type Backend struct {
	renderer *engine.Renderer
	ctx      *oto.Context
	player   *oto.Player
	channels int
}

// New opens an oto context at sampleRate/channels and starts playback,
// pulling frames from renderer as the device requests them. bufferFrames
// sizes the player's internal ring in frames.
func New(renderer *engine.Renderer, sampleRate, channels, bufferFrames int) (*Backend, error) {
	opts := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: channels,
		Format:       oto.FormatSignedInt16LE,
	}

	ctx, ready, err := oto.NewContext(opts)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", engineerr.ErrBackendInit, err)
	}
	<-ready

	b := &Backend{renderer: renderer, ctx: ctx, channels: channels}
	b.player = ctx.NewPlayer(&engineStream{backend: b})
	b.player.SetBufferSize(bufferFrames * channels * 2)
	b.player.Play()
	renderer.SetState(engine.BackendPlaying)

	return b, nil
}

// Pause stops the device player without tearing down the context, so Resume
// can restart it without reopening the device.
func (b *Backend) Pause() {
	b.player.Pause()
	b.renderer.SetState(engine.BackendPaused)
}

// Resume restarts playback after Pause.
func (b *Backend) Resume() {
	b.player.Play()
	b.renderer.SetState(engine.BackendPlaying)
}

// Close stops playback and releases the device player. The oto.Context
// itself has no Close in this API version and is released with the process.
func (b *Backend) Close() error {
	return b.player.Close()
}

// engineStream adapts Renderer.Process (interleaved float32 frames) to the
// interleaved signed 16-bit little-endian PCM io.Reader oto.Player expects.
type engineStream struct {
	backend *Backend
	scratch []float32
}

func (s *engineStream) Read(buf []byte) (int, error) {
	channels := s.backend.channels
	bytesPerFrame := channels * 2
	frames := len(buf) / bytesPerFrame
	if frames == 0 {
		return 0, nil
	}

	needed := frames * channels
	if cap(s.scratch) < needed {
		s.scratch = make([]float32, needed)
	}
	out := s.scratch[:needed]

	s.backend.renderer.Process(out, channels)

	for i, sample := range out {
		if sample > 1 {
			sample = 1
		} else if sample < -1 {
			sample = -1
		}
		s16 := int16(sample * 32767)
		binary.LittleEndian.PutUint16(buf[i*2:], uint16(s16))
	}

	return frames * bytesPerFrame, nil
}
