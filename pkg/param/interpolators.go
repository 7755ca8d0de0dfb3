package param

import (
	"github.com/anthropics/audioengine/pkg/frame"
	"github.com/anthropics/audioengine/pkg/vecmath"
)

// Float64 linearly interpolates plain float64 values.
type float64Interpolator struct{}

func (float64Interpolator) Lerp(a, b float64, t float64) float64 {
	return a + (b-a)*t
}

// Float64Interpolator is the shared Interpolator[float64] instance.
var Float64Interpolator Interpolator[float64] = float64Interpolator{}

type float32Interpolator struct{}

func (float32Interpolator) Lerp(a, b float32, t float64) float32 {
	return a + (b-a)*float32(t)
}

// Float32Interpolator is the shared Interpolator[float32] instance, used for
// panning and effect-mix parameters.
var Float32Interpolator Interpolator[float32] = float32Interpolator{}

type decibelsInterpolator struct{}

func (decibelsInterpolator) Lerp(a, b frame.Decibels, t float64) frame.Decibels {
	return a + (b-a)*frame.Decibels(t)
}

// DecibelsInterpolator is the shared Interpolator[frame.Decibels] instance,
// used for track and send volumes.
var DecibelsInterpolator Interpolator[frame.Decibels] = decibelsInterpolator{}

type vec3Interpolator struct{}

func (vec3Interpolator) Lerp(a, b vecmath.Vec3, t float64) vecmath.Vec3 {
	return vecmath.Lerp(a, b, t)
}

// Vec3Interpolator is the shared Interpolator[vecmath.Vec3] instance, used for
// emitter positions.
var Vec3Interpolator Interpolator[vecmath.Vec3] = vec3Interpolator{}
