// Package mixer implements the track graph: a tree of Tracks rooted at an
// implicit Main track, each with its own volume, panning and effect chain,
// summed bottom-up once per render chunk.
package mixer

import (
	"github.com/anthropics/audioengine/pkg/frame"
	"github.com/anthropics/audioengine/pkg/key"
	"github.com/anthropics/audioengine/pkg/rtinfo"
)

// Mixer owns every sub-track plus the implicit Main track that every other
// track eventually routes to (directly, or transitively through parents).
// Main has no Parent of its own and is never removable.
type Mixer struct {
	tracks *key.Arena[*Track]
	main   *Track

	chunkSize int
	order     []key.Key // scratch reused each Process call, insertion order, walked in reverse
}

// New creates a Mixer with room for capacity sub-tracks (the Main track does
// not count against capacity), with every track's per-chunk buffers sized at
// chunkSize samples.
func New(capacity, chunkSize int) *Mixer {
	return &Mixer{
		tracks:    key.NewArena[*Track](capacity),
		main:      NewTrack(chunkSize, key.Zero),
		chunkSize: chunkSize,
	}
}

// Main returns the implicit root track. Its Input buffer is filled by
// Process; read it after Process returns to get the chunk's final mix.
func (m *Mixer) Main() *Track { return m.main }

// AddTrack creates a new sub-track routed to parent (key.Zero for Main) and
// returns its Key. parent need not already exist in this call if it is
// key.Zero; otherwise the caller is responsible for passing a Key that is
// either key.Zero or a Key returned by an earlier AddTrack on this Mixer,
// since a track's parent must exist before the track itself.
func (m *Mixer) AddTrack(parent key.Key) (key.Key, *Track, error) {
	track := NewTrack(m.chunkSize, parent)
	k, err := m.tracks.Insert(track)
	if err != nil {
		return key.Zero, nil, err
	}
	return k, track, nil
}

// ReserveTrack claims a slot for a future track without populating it, for
// callers (the engine's Controller) that must hand back a Key before the
// render thread has actually inserted the value — see InsertReservedTrack.
func (m *Mixer) ReserveTrack() (key.Key, error) {
	return m.tracks.Reserve()
}

// InsertReservedTrack populates a key obtained from ReserveTrack with track.
// Must be called from the render thread, the same constraint InsertWithKey
// itself carries.
func (m *Mixer) InsertReservedTrack(k key.Key, track *Track) error {
	return m.tracks.InsertWithKey(k, track)
}

// Track looks up a previously added sub-track.
func (m *Mixer) Track(k key.Key) (*Track, bool) {
	return m.tracks.Get(k)
}

// RemoveTrack deletes a sub-track. Any remaining track still routing to it
// will silently have its contribution dropped on the next Process call, since
// routeInto is a no-op for a destination that no longer resolves.
func (m *Mixer) RemoveTrack(k key.Key) bool {
	return m.tracks.Remove(k)
}

// PurgeRemoved removes every track flagged via MarkRemoved, returning their
// keys. Must be called from the render thread, typically once per chunk
// before Process, pairing with a control-side TrackHandle.Close that can only
// set the flag, never mutate the arena directly.
func (m *Mixer) PurgeRemoved() []key.Key {
	var purged []key.Key
	m.tracks.Each(func(k key.Key, track **Track) bool {
		if (*track).Removed() {
			purged = append(purged, k)
		}
		return true
	})
	for _, k := range purged {
		m.tracks.Remove(k)
	}
	return purged
}

// BeginChunk clears every track's input buffer, including Main's. Call it
// once per chunk before sounds write their output into track inputs and
// before Process; Process itself never clears an input, since Main's is the
// caller-visible result of the previous call and sub-track inputs must still
// hold this chunk's freshly written sound output by the time Process runs.
func (m *Mixer) BeginChunk() {
	m.main.clear()
	m.tracks.Each(func(_ key.Key, track **Track) bool {
		(*track).clear()
		return true
	})
}

// Process runs every sub-track's effect chain, volume and panning, summing
// contributions up toward Main, then runs Main itself. Sub-tracks are
// processed in reverse insertion order: since a track's parent must already
// exist at the time the track is created, insertion order is already a valid
// topological order with parents before children, so iterating in reverse
// guarantees every child has finished routing into its parent's input before
// that parent is processed.
func (m *Mixer) Process(dt float64, info *rtinfo.Info) {
	m.order = m.order[:0]
	m.tracks.Each(func(k key.Key, _ **Track) bool {
		m.order = append(m.order, k)
		return true
	})

	for i := len(m.order) - 1; i >= 0; i-- {
		track, ok := m.tracks.Get(m.order[i])
		if !ok {
			continue
		}
		track.process(dt, info, m.routeInto)
	}

	m.main.process(dt, info, func(key.Key, []frame.Frame) {})
}

// routeInto sums buf into the input of the track addressed by dest (or Main,
// for key.Zero), or drops it silently if dest no longer resolves to a track.
func (m *Mixer) routeInto(dest key.Key, buf []frame.Frame) {
	var target *Track
	if dest == key.Zero {
		target = m.main
	} else {
		t, ok := m.tracks.Get(dest)
		if !ok {
			return
		}
		target = t
	}
	in := target.input
	for i := range buf {
		in[i] = in[i].Add(buf[i])
	}
}
