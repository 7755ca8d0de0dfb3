package mixer

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anthropics/audioengine/pkg/frame"
	"github.com/anthropics/audioengine/pkg/key"
	"github.com/anthropics/audioengine/pkg/param"
	"github.com/anthropics/audioengine/pkg/rtinfo"
)

// panK is the equal-power attenuation frame.Panned applies to a balanced
// signal at center pan (cos(pi/4) == sin(pi/4)). A balanced signal picks up
// one factor of panK per track it is processed through, including Main's own
// final stage, so these tests account for every stage a value crosses rather
// than asserting the raw pre-pan sum.
var panK = math.Sqrt2 / 2

func emptyInfo() *rtinfo.Info {
	return &rtinfo.Info{
		Clocks:          map[key.Key]rtinfo.ClockSnapshot{},
		ModulatorValues: map[key.Key][]float64{},
	}
}

const chunkSize = 4

func fillConstant(buf []frame.Frame, v float32) {
	for i := range buf {
		buf[i] = frame.Frame{Left: v, Right: v}
	}
}

func TestMixerSumsTwoSoundsOnMainAtUnity(t *testing.T) {
	m := New(4, chunkSize)

	m.BeginChunk()
	fillConstant(m.Main().Input(), 0.25)
	// a second sound contributing into the same track adds rather than overwrites
	for i, f := range m.Main().Input() {
		m.Main().Input()[i] = f.Add(frame.Frame{Left: 0.25, Right: 0.25})
	}

	info := emptyInfo()
	m.Process(1.0/float64(chunkSize), info)

	// Main itself is a Track and applies its own pan stage, so the 0.5 sum
	// picks up one factor of panK on the way out.
	want := 0.5 * panK
	for _, f := range m.Main().Input() {
		assert.InDelta(t, want, f.Left, 1e-6)
		assert.InDelta(t, want, f.Right, 1e-6)
	}
}

func TestMixerRoutesSubTrackIntoParent(t *testing.T) {
	m := New(4, chunkSize)
	child, track, err := m.AddTrack(key.Zero)
	require.NoError(t, err)
	require.NotEqual(t, key.Zero, child)

	m.BeginChunk()
	fillConstant(track.Input(), 0.4)

	info := emptyInfo()
	m.Process(1.0/float64(chunkSize), info)

	// The value crosses two pan stages: the child track's own, then Main's.
	want := 0.4 * panK * panK
	for _, f := range m.Main().Input() {
		assert.InDelta(t, want, f.Left, 1e-6)
	}
}

func TestMixerChildOfChildRoutesThroughGrandparent(t *testing.T) {
	m := New(4, chunkSize)
	parentKey, _, err := m.AddTrack(key.Zero)
	require.NoError(t, err)
	_, child, err := m.AddTrack(parentKey)
	require.NoError(t, err)

	m.BeginChunk()
	fillConstant(child.Input(), 0.3)

	info := emptyInfo()
	m.Process(1.0/float64(chunkSize), info)

	// Three pan stages: child, parent, then Main.
	want := 0.3 * panK * panK * panK
	for _, f := range m.Main().Input() {
		assert.InDelta(t, want, f.Left, 1e-6)
	}
}

func TestMixerVolumeAttenuatesTrack(t *testing.T) {
	m := New(4, chunkSize)
	_, track, err := m.AddTrack(key.Zero)
	require.NoError(t, err)
	track.Volume.SetTarget(frame.SilenceFloor, param.Instant)

	m.BeginChunk()
	fillConstant(track.Input(), 1.0)

	info := emptyInfo()
	m.Process(1.0/float64(chunkSize), info)

	for _, f := range m.Main().Input() {
		assert.InDelta(t, 0, f.Left, 1e-5)
	}
}

func TestMixerSendRoutesInAdditionToParent(t *testing.T) {
	m := New(4, chunkSize)
	auxKey, _, err := m.AddTrack(key.Zero)
	require.NoError(t, err)
	_, source, err := m.AddTrack(key.Zero)
	require.NoError(t, err)
	source.AddSend(auxKey)

	m.BeginChunk()
	fillConstant(source.Input(), 0.2)

	info := emptyInfo()
	m.Process(1.0/float64(chunkSize), info)

	// source's own pan stage runs once; the panned value is then routed two
	// ways into Main's input: directly (one stage so far), and via the aux
	// send, which applies aux's own pan stage too (two stages so far). Main's
	// own stage then scales the combined sum by panK once more.
	direct := 0.2 * panK
	viaAux := 0.2 * panK * panK
	want := (direct + viaAux) * panK
	for _, f := range m.Main().Input() {
		assert.InDelta(t, want, f.Left, 1e-6)
	}
}

func TestMixerRemovedTrackStopsContributing(t *testing.T) {
	m := New(4, chunkSize)
	k, track, err := m.AddTrack(key.Zero)
	require.NoError(t, err)

	m.BeginChunk()
	fillConstant(track.Input(), 0.5)
	info := emptyInfo()
	m.Process(1.0/float64(chunkSize), info)
	want := 0.5 * panK * panK
	for _, f := range m.Main().Input() {
		assert.InDelta(t, want, f.Left, 1e-6)
	}

	require.True(t, m.RemoveTrack(k))

	m.BeginChunk()
	m.Process(1.0/float64(chunkSize), info)
	for _, f := range m.Main().Input() {
		assert.InDelta(t, 0, f.Left, 1e-6)
	}
}
