package frame

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecibelsRoundTrip(t *testing.T) {
	for db := -60.0; db <= 24.0; db += 1.5 {
		amp := Decibels(db).AsAmplitude()
		got := amp.AsDecibels()
		assert.InDelta(t, db, float64(got), 1e-6)
	}
}

func TestDecibelsSilenceFloor(t *testing.T) {
	assert.Equal(t, Amplitude(0), Decibels(-60).AsAmplitude())
	assert.Equal(t, Amplitude(0), Decibels(-120).AsAmplitude())
}

func TestUnity(t *testing.T) {
	assert.InDelta(t, 1.0, float64(Unity.AsAmplitude()), 1e-9)
}

func TestPannedCenterPreservesPower(t *testing.T) {
	f := Panned(1.0, 0.5)
	power := float64(f.Left*f.Left + f.Right*f.Right)
	assert.InDelta(t, 1.0, power, 1e-6)
}

func TestPannedHardLeftRight(t *testing.T) {
	left := Panned(1.0, 0)
	assert.InDelta(t, 1.0, float64(left.Left), 1e-6)
	assert.InDelta(t, 0.0, float64(left.Right), 1e-6)

	right := Panned(1.0, 1)
	assert.InDelta(t, 0.0, float64(right.Left), 1e-6)
	assert.InDelta(t, 1.0, float64(right.Right), 1e-6)
}

func TestFrameArithmetic(t *testing.T) {
	a := Frame{Left: 0.25, Right: 0.5}
	b := Frame{Left: 0.25, Right: -0.5}
	assert.Equal(t, Frame{Left: 0.5, Right: 0}, a.Add(b))
	assert.Equal(t, Frame{Left: 0, Right: 1}, a.Sub(b))
	assert.Equal(t, Frame{Left: 0.5, Right: 1}, a.Scale(2))
}

func TestFrameClamp(t *testing.T) {
	f := Frame{Left: 1.5, Right: -1.5}.Clamp()
	assert.Equal(t, Frame{Left: 1, Right: -1}, f)
}

func TestFrameSoftClipStaysBounded(t *testing.T) {
	f := Frame{Left: 5, Right: -5}.SoftClip(0.9)
	assert.LessOrEqual(t, math.Abs(float64(f.Left)), 1.0)
	assert.LessOrEqual(t, math.Abs(float64(f.Right)), 1.0)
}
