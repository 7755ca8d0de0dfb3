package param

import (
	"math"
	"time"

	"github.com/anthropics/audioengine/pkg/key"
)

// Easing selects the shape of a Tween's interpolation curve.
type Easing int

const (
	// Linear interpolates at a constant rate.
	Linear Easing = iota
	// EaseIn starts slow and accelerates, per Power.
	EaseIn
	// EaseOut starts fast and decelerates, per Power.
	EaseOut
	// EaseInOut eases in for the first half and out for the second.
	EaseInOut
)

// Ease maps a normalized progress t in [0,1] through the easing curve. Power
// is the exponent for In/Out/InOut curves (2 gives a quadratic ease, the most
// common default); it is ignored for Linear.
func Ease(easing Easing, power float64, t float64) float64 {
	if power <= 0 {
		power = 2
	}
	switch easing {
	case EaseIn:
		return math.Pow(t, power)
	case EaseOut:
		return 1 - math.Pow(1-t, power)
	case EaseInOut:
		if t < 0.5 {
			return math.Pow(2*t, power) / 2
		}
		return 1 - math.Pow(2*(1-t), power)/2
	default:
		return t
	}
}

// StartTimeKind distinguishes an immediate tween from one anchored to a clock
// tick.
type StartTimeKind int

const (
	// Immediate tweens begin advancing as soon as Parameter.Update is called.
	Immediate StartTimeKind = iota
	// AtClockTime tweens remain inactive until the referenced clock has ticked
	// past the target tick (with fractional position at or past zero).
	AtClockTime
)

// StartTime anchors when a Tween begins advancing.
type StartTime struct {
	Kind  StartTimeKind
	Clock key.Key
	Tick  uint64
}

// ImmediateStart is the zero-configuration StartTime: begin right away.
var ImmediateStart = StartTime{Kind: Immediate}

// ClockTime anchors a tween to the given clock's tick count.
func ClockTime(clock key.Key, tick uint64) StartTime {
	return StartTime{Kind: AtClockTime, Clock: clock, Tick: tick}
}

// Tween describes a smoothed transition: how long it takes, what curve it
// follows, and when it is allowed to begin.
type Tween struct {
	Duration time.Duration
	Easing   Easing
	Power    float64
	Start    StartTime
}

// Instant is a zero-duration tween: Parameter.Update will snap directly to the
// target on the next call once the start time has been satisfied.
var Instant = Tween{Duration: 0, Start: ImmediateStart}
