package spatial

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anthropics/audioengine/pkg/frame"
	"github.com/anthropics/audioengine/pkg/key"
	"github.com/anthropics/audioengine/pkg/mixer"
	"github.com/anthropics/audioengine/pkg/param"
	"github.com/anthropics/audioengine/pkg/rtinfo"
	"github.com/anthropics/audioengine/pkg/vecmath"
)

func emptyInfo() *rtinfo.Info {
	return &rtinfo.Info{
		Clocks:          map[key.Key]rtinfo.ClockSnapshot{},
		ModulatorValues: map[key.Key][]float64{},
	}
}

func TestSpatialEmitterInFrontAtHalfDistanceLinearRolloff(t *testing.T) {
	const maxDistance = 10.0
	m := mixer.New(4, 8)
	trackKey, track, err := m.AddTrack(key.Zero)
	require.NoError(t, err)

	s := New(1, 4, maxDistance, RolloffLinear, time.Millisecond)
	_, err = s.AddListener(vecmath.Vec3{}, vecmath.Identity)
	require.NoError(t, err)
	// forward is -Z (see vecmath.Quat.Forward), so "in front" is negative Z.
	_, _, err = s.AddEmitter(vecmath.Vec3{Z: -maxDistance / 2}, trackKey)
	require.NoError(t, err)

	info := emptyInfo()
	s.Update(0.001, info, m)

	expectedGain := 1 - (maxDistance/2)/maxDistance
	expectedDb := frame.Amplitude(expectedGain).AsDecibels()

	// the track's Volume/Panning only reach the target once their (very short)
	// tween elapses; run enough chunks for it to land.
	for i := 0; i < 10; i++ {
		track.Volume.Update(0.001, info)
		track.Panning.Update(0.001, info)
	}

	assert.InDelta(t, float64(expectedDb), float64(track.Volume.Value()), 1e-6)
	assert.InDelta(t, 0.5, track.Panning.Value(), 1e-6)
	assert.True(t, expectedDb <= -6 && expectedDb >= -12, "expected gain in [-12,-6] dB, got %v", expectedDb)

	_ = param.Instant // keep param imported for future direct-tween assertions
}

func TestSpatialEmitterToTheRightPansRight(t *testing.T) {
	m := mixer.New(4, 8)
	trackKey, track, err := m.AddTrack(key.Zero)
	require.NoError(t, err)

	s := New(1, 4, 10, RolloffLinear, time.Millisecond)
	_, err = s.AddListener(vecmath.Vec3{}, vecmath.Identity)
	require.NoError(t, err)
	_, _, err = s.AddEmitter(vecmath.Vec3{X: 5, Z: -0.0001}, trackKey)
	require.NoError(t, err)

	info := emptyInfo()
	s.Update(0.001, info, m)
	for i := 0; i < 10; i++ {
		track.Panning.Update(0.001, info)
	}

	assert.Greater(t, track.Panning.Value(), float32(0.9))
}

func TestSpatialWithNoListenerLeavesTracksUntouched(t *testing.T) {
	m := mixer.New(4, 8)
	trackKey, track, err := m.AddTrack(key.Zero)
	require.NoError(t, err)
	track.Volume.SetTarget(frame.SilenceFloor, param.Instant)

	s := New(1, 4, 10, RolloffLinear, time.Millisecond)
	_, _, err = s.AddEmitter(vecmath.Vec3{Z: 1}, trackKey)
	require.NoError(t, err)

	info := emptyInfo()
	track.Volume.Update(0.001, info) // let the explicit SetTarget above land
	s.Update(0.001, info, m)

	assert.InDelta(t, float64(frame.SilenceFloor), float64(track.Volume.Value()), 1e-6)
}
