package sound

import "github.com/anthropics/audioengine/pkg/frame"

// Decoder is a pull-based source of decoded audio, implemented by the host
// (file decoders, network streams, synthesis). An empty slice with a nil
// error means end of stream.
type Decoder interface {
	SampleRate() uint32
	NumFrames() uint64
	Decode() ([]frame.Frame, error)
	Seek(frameIndex uint64) (uint64, error)
}
