package frame

import "math"

// SilenceFloor is the decibel value treated as exact silence (amplitude 0), below
// which amplitude conversions saturate instead of producing denormals.
const SilenceFloor = -60.0

// Decibels and Amplitude are distinct types so a caller can't accidentally mix a
// linear gain with a logarithmic one without an explicit conversion.
type Decibels float64

// Amplitude is a linear gain multiplier, typically in [0, ~4] for audio use.
type Amplitude float64

// AsAmplitude converts d to a linear amplitude. Values at or below SilenceFloor
// convert to exactly zero.
func (d Decibels) AsAmplitude() Amplitude {
	if d <= SilenceFloor {
		return 0
	}
	return Amplitude(math.Pow(10, float64(d)/20))
}

// AsDecibels converts a to a decibel value. An amplitude of zero or less maps to
// SilenceFloor rather than negative infinity.
func (a Amplitude) AsDecibels() Decibels {
	if a <= 0 {
		return SilenceFloor
	}
	return Decibels(20 * math.Log10(float64(a)))
}

// Unity is 0 dB / 1.0 linear gain.
const (
	Unity    Decibels  = 0
	UnityAmp Amplitude = 1
)
