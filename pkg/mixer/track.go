package mixer

import (
	"sync/atomic"

	"github.com/anthropics/audioengine/pkg/frame"
	"github.com/anthropics/audioengine/pkg/key"
	"github.com/anthropics/audioengine/pkg/param"
	"github.com/anthropics/audioengine/pkg/rtinfo"
)

// Track is one node in the mixer graph: an input buffer accumulated from
// sounds and child tracks, an effect chain, volume/panning, and routing to a
// parent track (key.Zero means the implicit Main track) plus zero or more
// sends.
type Track struct {
	Volume  *param.Parameter[frame.Decibels]
	Panning *param.Parameter[float32]
	Effects []*EffectSlot
	Sends   map[key.Key]*param.Parameter[frame.Decibels]
	Parent  key.Key

	input []frame.Frame

	// Reusable per-chunk scratch, sized once at construction so Process never
	// allocates.
	scratch     []frame.Frame
	sendScratch []frame.Frame
	volBuf      []frame.Decibels
	panBuf      []float32
	mixBuf      []float32
	sendGainBuf []frame.Decibels

	removed atomic.Bool
}

// NewTrack creates a Track with default unity volume, center panning, no
// effects and no sends, with every per-chunk buffer preallocated at chunkSize.
func NewTrack(chunkSize int, parent key.Key) *Track {
	return &Track{
		Volume:      param.New(param.DecibelsInterpolator, frame.Unity),
		Panning:     param.New(param.Float32Interpolator, 0.5),
		Sends:       make(map[key.Key]*param.Parameter[frame.Decibels]),
		Parent:      parent,
		input:       make([]frame.Frame, chunkSize),
		scratch:     make([]frame.Frame, chunkSize),
		sendScratch: make([]frame.Frame, chunkSize),
		volBuf:      make([]frame.Decibels, chunkSize),
		panBuf:      make([]float32, chunkSize),
		mixBuf:      make([]float32, chunkSize),
		sendGainBuf: make([]frame.Decibels, chunkSize),
	}
}

// Input returns the track's input buffer, which sounds and child tracks write
// (by summing) into before each chunk's Process call.
func (t *Track) Input() []frame.Frame { return t.input }

// AddSend creates (or replaces) a send to dest at unity level.
func (t *Track) AddSend(dest key.Key) *param.Parameter[frame.Decibels] {
	p := param.New(param.DecibelsInterpolator, frame.Unity)
	t.Sends[dest] = p
	return p
}

// RemoveSend deletes the send to dest, if any.
func (t *Track) RemoveSend(dest key.Key) {
	delete(t.Sends, dest)
}

// MarkRemoved flags the track for removal on the next purge pass.
func (t *Track) MarkRemoved() { t.removed.Store(true) }

// Removed reports whether MarkRemoved has been called.
func (t *Track) Removed() bool { return t.removed.Load() }

// process runs the effect chain, volume and panning over the track's
// accumulated input in place and routes the result to the parent and any sends
// via route. It does not clear the input; Mixer.BeginChunk does that.
func (t *Track) process(dt float64, info *rtinfo.Info, route func(dest key.Key, buf []frame.Frame)) {
	buf := t.input

	for _, slot := range t.Effects {
		slot.Process(buf, t.scratch, t.mixBuf, dt, info)
	}

	t.Volume.UpdateChunk(t.volBuf, dt, info)
	t.Panning.UpdateChunk(t.panBuf, dt, info)
	for i := range buf {
		amp := float32(t.volBuf[i].AsAmplitude())
		buf[i] = buf[i].Scale(amp).Panned(t.panBuf[i])
	}

	for dest, send := range t.Sends {
		send.UpdateChunk(t.sendGainBuf, dt, info)
		for i := range buf {
			amp := float32(t.sendGainBuf[i].AsAmplitude())
			t.sendScratch[i] = buf[i].Scale(amp)
		}
		route(dest, t.sendScratch)
	}

	route(t.Parent, buf)
}

// clear resets the track's input to silence, ready to receive this chunk's
// sound output and child-track contributions.
func (t *Track) clear() {
	for i := range t.input {
		t.input[i] = frame.Silence
	}
}
