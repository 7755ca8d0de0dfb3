package engine

import "github.com/anthropics/audioengine/pkg/spatial"

// EngineConfig sizes every fixed-capacity resource the engine owns. All
// capacities are immutable after New returns: arenas never grow, matching the
// render thread's no-allocation rule.
type EngineConfig struct {
	SampleRate int
	Channels   int

	TrackCapacity       int
	SoundCapacity       int
	ClockCapacity       int
	ModulatorCapacity   int
	EmitterCapacity     int
	ListenerCapacity    int
	CommandRingCapacity int

	// InternalBufferSize is the chunk size N the renderer processes at a time,
	// independent of the backend's requested buffer size.
	InternalBufferSize int

	MaxSpatialDistance float64
	SpatialRolloff     spatial.RolloffMode
}

// DefaultConfig returns the engine's documented defaults: 44.1kHz stereo,
// 128-sample internal chunks, and capacities generous enough for a small
// interactive application.
func DefaultConfig() EngineConfig {
	return EngineConfig{
		SampleRate:          44100,
		Channels:            2,
		TrackCapacity:       64,
		SoundCapacity:       256,
		ClockCapacity:       16,
		ModulatorCapacity:   64,
		EmitterCapacity:     64,
		ListenerCapacity:    1,
		CommandRingCapacity: 256,
		InternalBufferSize:  128,
		MaxSpatialDistance:  100,
		SpatialRolloff:      spatial.RolloffLinear,
	}
}
