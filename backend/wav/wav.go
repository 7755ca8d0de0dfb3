// Package wav writes a Renderer's output to a standard PCM WAV stream.
package wav

import (
	"encoding/binary"
	"io"

	"github.com/anthropics/audioengine/pkg/engine"
)

// Writer writes 16-bit PCM WAV data for a fixed sample rate and channel count.
type Writer struct {
	w          io.Writer
	sampleRate int
	channels   int
}

// New creates a Writer over w. Call WriteHeader once with the total frame
// count known up front (a WAV header carries the data size), then WriteSamples
// repeatedly until that many frames have been written.
func New(w io.Writer, sampleRate, channels int) *Writer {
	return &Writer{w: w, sampleRate: sampleRate, channels: channels}
}

// WriteHeader writes the RIFF/WAVE/fmt/data header for a stream of
// frameCount frames.
func (w *Writer) WriteHeader(frameCount int) error {
	dataSize := frameCount * w.channels * 2

	if _, err := w.w.Write([]byte("RIFF")); err != nil {
		return err
	}
	if err := binary.Write(w.w, binary.LittleEndian, uint32(dataSize+36)); err != nil {
		return err
	}
	if _, err := w.w.Write([]byte("WAVE")); err != nil {
		return err
	}

	if _, err := w.w.Write([]byte("fmt ")); err != nil {
		return err
	}
	if err := binary.Write(w.w, binary.LittleEndian, uint32(16)); err != nil {
		return err
	}
	if err := binary.Write(w.w, binary.LittleEndian, uint16(1)); err != nil { // PCM
		return err
	}
	if err := binary.Write(w.w, binary.LittleEndian, uint16(w.channels)); err != nil {
		return err
	}
	if err := binary.Write(w.w, binary.LittleEndian, uint32(w.sampleRate)); err != nil {
		return err
	}
	byteRate := w.sampleRate * w.channels * 2
	if err := binary.Write(w.w, binary.LittleEndian, uint32(byteRate)); err != nil {
		return err
	}
	blockAlign := w.channels * 2
	if err := binary.Write(w.w, binary.LittleEndian, uint16(blockAlign)); err != nil {
		return err
	}
	if err := binary.Write(w.w, binary.LittleEndian, uint16(16)); err != nil {
		return err
	}

	if _, err := w.w.Write([]byte("data")); err != nil {
		return err
	}
	return binary.Write(w.w, binary.LittleEndian, uint32(dataSize))
}

// WriteSamples quantizes interleaved float32 samples (as produced by
// engine.Renderer.Process) to 16-bit PCM and writes them.
func (w *Writer) WriteSamples(samples []float32) error {
	for _, s := range samples {
		if s > 1.0 {
			s = 1.0
		} else if s < -1.0 {
			s = -1.0
		}
		s16 := int16(s * 32767)
		if err := binary.Write(w.w, binary.LittleEndian, s16); err != nil {
			return err
		}
	}
	return nil
}

// Export renders durationSeconds worth of audio from r and writes it as a
// complete WAV stream to w, in chunkFrames-frame steps.
func Export(w io.Writer, r *engine.Renderer, sampleRate, channels, chunkFrames int, durationSeconds float64) error {
	totalFrames := int(durationSeconds * float64(sampleRate))

	writer := New(w, sampleRate, channels)
	if err := writer.WriteHeader(totalFrames); err != nil {
		return err
	}

	buf := make([]float32, chunkFrames*channels)
	for written := 0; written < totalFrames; {
		n := chunkFrames
		if remaining := totalFrames - written; n > remaining {
			n = remaining
		}
		dst := buf[:n*channels]
		r.Process(dst, channels)
		if err := writer.WriteSamples(dst); err != nil {
			return err
		}
		written += n
	}
	return nil
}
