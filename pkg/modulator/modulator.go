// Package modulator implements polymorphic value sources sampled once per frame:
// a Tweener (a single smoothed value) and an LFO (a periodic waveform), both built
// on top of pkg/param so they compose with clock-anchored tweens for free.
package modulator

import "github.com/anthropics/audioengine/pkg/rtinfo"

// Modulator is a render-side value source. Update is called once per sample
// within a chunk (by the renderer, before the sounds and tracks that may read
// its Value via rtinfo.Info are processed); Value returns the output computed
// by the most recent Update.
type Modulator interface {
	OnStartProcessing()
	Update(dt float64, info *rtinfo.Info)
	Value() float64
	Finished() bool
}
