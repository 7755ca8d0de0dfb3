// Package mock provides a deterministic, wall-clock-free backend for tests
// and headless simulation: it drives a Renderer by explicit step count
// instead of real time.
package mock

import "github.com/anthropics/audioengine/pkg/engine"

// Backend pulls fixed-size chunks from a Renderer on demand rather than on a
// device callback, so a test can advance the engine by an exact number of
// frames without any dependency on wall-clock scheduling.
type Backend struct {
	renderer   *engine.Renderer
	channels   int
	framesRead []float32
}

// New creates a Backend over renderer, rendering chunkFrames frames at a time
// in the given channel layout.
func New(renderer *engine.Renderer, channels, chunkFrames int) *Backend {
	return &Backend{
		renderer:   renderer,
		channels:   channels,
		framesRead: make([]float32, chunkFrames*channels),
	}
}

// Advance renders exactly one chunk and returns it. The returned slice is
// reused on the next call; copy it if the caller needs to retain it.
func (b *Backend) Advance() []float32 {
	b.renderer.Process(b.framesRead, b.channels)
	return b.framesRead
}

// AdvanceFrames renders frameCount frames total, in Advance-sized chunks, and
// returns the full interleaved buffer. Useful for test assertions over a
// span longer than one internal chunk.
func (b *Backend) AdvanceFrames(frameCount int) []float32 {
	out := make([]float32, 0, frameCount*b.channels)
	for rendered := 0; rendered < frameCount; {
		chunk := b.Advance()
		chunkFrames := len(chunk) / b.channels
		if remaining := frameCount - rendered; chunkFrames > remaining {
			chunkFrames = remaining
		}
		out = append(out, chunk[:chunkFrames*b.channels]...)
		rendered += chunkFrames
	}
	return out
}
