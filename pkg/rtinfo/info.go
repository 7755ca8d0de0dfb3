// Package rtinfo defines the read-only per-chunk bundle ("Info") passed to every
// render-side processor: clocks, modulators, and the listener, all as plain
// snapshots so this package has no dependency on the packages that produce them
// (avoiding an import cycle between clock/modulator/spatial and param).
package rtinfo

import (
	"github.com/anthropics/audioengine/pkg/key"
	"github.com/anthropics/audioengine/pkg/vecmath"
)

// ClockSnapshot is the observable state of one clock at the current frame.
type ClockSnapshot struct {
	Ticks      uint64
	Fractional float64
}

// ListenerSnapshot is the observable state of the (default, single) listener.
type ListenerSnapshot struct {
	Position    vecmath.Vec3
	Forward     vecmath.Vec3
	Right       vecmath.Vec3
	HasListener bool
}

// Info is rebuilt once per internal chunk and handed to every sound, modulator,
// effect and track as a read-only value. FrameIndex identifies which sample within
// the chunk is currently being produced, letting per-sample buffers (modulator
// values, parameter chunks) be sliced precisely.
type Info struct {
	Clocks          map[key.Key]ClockSnapshot
	ModulatorValues map[key.Key][]float64 // per-sample buffer for the current chunk
	Listener        ListenerSnapshot
	FrameIndex      int
	DeltaTime       float64
}

// ModulatorValueAt returns the modulator's value at the current FrameIndex, or ok
// = false if the modulator key has no buffered values this chunk (e.g. it was
// removed, or the key never resolved).
func (info *Info) ModulatorValueAt(k key.Key) (float64, bool) {
	buf, ok := info.ModulatorValues[k]
	if !ok || info.FrameIndex >= len(buf) {
		return 0, false
	}
	return buf[info.FrameIndex], true
}

// ClockAt returns the snapshot for clock k, or ok = false if it doesn't resolve.
func (info *Info) ClockAt(k key.Key) (ClockSnapshot, bool) {
	snap, ok := info.Clocks[k]
	return snap, ok
}
