// Package engine wires together every render-side package (sound, mixer,
// modulator, clock, spatial) behind a control/render split: a Controller the
// host calls from any goroutine, and a Renderer a single audio callback
// drives. Neither side ever touches the other's state directly; all
// mutation crosses the boundary through command closures or, for a small set
// of fields documented safe for it, single-writer atomics.
package engine

import (
	"time"

	"github.com/google/uuid"

	"github.com/anthropics/audioengine/internal/enginelog"
	"github.com/anthropics/audioengine/pkg/clock"
	"github.com/anthropics/audioengine/pkg/command"
	"github.com/anthropics/audioengine/pkg/key"
	"github.com/anthropics/audioengine/pkg/mixer"
	"github.com/anthropics/audioengine/pkg/modulator"
	"github.com/anthropics/audioengine/pkg/spatial"
)

// New builds a Controller/Renderer pair sharing the arenas, mixer, spatial
// scene and command rings described by cfg.
func New(cfg EngineConfig) (*Controller, *Renderer, error) {
	sounds := key.NewArena[*soundSlot](cfg.SoundCapacity)
	clocks := key.NewArena[*clock.Clock](cfg.ClockCapacity)
	modulators := key.NewArena[modulator.Modulator](cfg.ModulatorCapacity)
	mix := mixer.New(cfg.TrackCapacity, cfg.InternalBufferSize)
	sp := spatial.New(cfg.ListenerCapacity, cfg.EmitterCapacity, cfg.MaxSpatialDistance, cfg.SpatialRolloff, chunkDuration(cfg))

	cmds := command.NewRing[func(*Renderer)](cfg.CommandRingCapacity)
	events := enginelog.NewEventRing(cfg.CommandRingCapacity)

	id := uuid.New()

	renderer := newRenderer(cfg, sounds, clocks, modulators, mix, sp, cmds, events)
	controller := newController(cfg, id, sounds, clocks, modulators, mix, sp, cmds, events)

	return controller, renderer, nil
}

func chunkDuration(cfg EngineConfig) time.Duration {
	seconds := float64(cfg.InternalBufferSize) / float64(cfg.SampleRate)
	return time.Duration(seconds * float64(time.Second))
}
