package engine

import (
	"sync/atomic"

	"github.com/anthropics/audioengine/internal/enginelog"
	"github.com/anthropics/audioengine/pkg/clock"
	"github.com/anthropics/audioengine/pkg/command"
	"github.com/anthropics/audioengine/pkg/frame"
	"github.com/anthropics/audioengine/pkg/key"
	"github.com/anthropics/audioengine/pkg/mixer"
	"github.com/anthropics/audioengine/pkg/modulator"
	"github.com/anthropics/audioengine/pkg/rtinfo"
	"github.com/anthropics/audioengine/pkg/sound"
	"github.com/anthropics/audioengine/pkg/spatial"
)

// BackendState is the coarse playback state the renderer publishes for a host
// to show or react to (e.g. pausing visuals when audio pauses).
type BackendState uint32

const (
	BackendPlaying BackendState = iota
	BackendPausing
	BackendPaused
)

// soundSlot pairs a render-side Sound with the track it routes its output
// into. key.Zero routes directly to Main.
type soundSlot struct {
	sound sound.Sound
	track key.Key
}

// Renderer is the single real-time-context owner of every render-side
// resource. Besides Process and OnChangeSampleRate, only the atomic accessors
// (IncrementUnderruns, Underruns, State, SetState) are called directly from
// other goroutines; all other render state is mutated only through closures
// drained from cmds.
type Renderer struct {
	cfg EngineConfig
	dt  float64

	sounds     *key.Arena[*soundSlot]
	clocks     *key.Arena[*clock.Clock]
	modulators *key.Arena[modulator.Modulator]
	mixer      *mixer.Mixer
	spatial    *spatial.Spatial

	cmds   *command.Ring[func(*Renderer)]
	events *enginelog.EventRing

	modBufs map[key.Key][]float64
	info    *rtinfo.Info
	scratch []frame.Frame

	underruns atomic.Uint64
	state     atomic.Uint32
}

func newRenderer(cfg EngineConfig, sounds *key.Arena[*soundSlot], clocks *key.Arena[*clock.Clock], modulators *key.Arena[modulator.Modulator], mix *mixer.Mixer, sp *spatial.Spatial, cmds *command.Ring[func(*Renderer)], events *enginelog.EventRing) *Renderer {
	return &Renderer{
		cfg:        cfg,
		dt:         1.0 / float64(cfg.SampleRate),
		sounds:     sounds,
		clocks:     clocks,
		modulators: modulators,
		mixer:      mix,
		spatial:    sp,
		cmds:       cmds,
		events:     events,
		modBufs:    make(map[key.Key][]float64, cfg.ModulatorCapacity),
		info: &rtinfo.Info{
			Clocks:          make(map[key.Key]rtinfo.ClockSnapshot, cfg.ClockCapacity),
			ModulatorValues: make(map[key.Key][]float64, cfg.ModulatorCapacity),
		},
		scratch: make([]frame.Frame, cfg.InternalBufferSize),
	}
}

// IncrementUnderruns is for a backend adapter to call when the device requests
// a buffer before the previous one finished rendering. Neither backend/oto nor
// backend/mock calls it.
func (r *Renderer) IncrementUnderruns() { r.underruns.Add(1) }

// Underruns returns the total underrun count observed so far.
func (r *Renderer) Underruns() uint64 { return r.underruns.Load() }

// State returns the last published backend state.
func (r *Renderer) State() BackendState { return BackendState(r.state.Load()) }

// SetState publishes a new backend state, called by a backend adapter as it
// transitions between playing and paused.
func (r *Renderer) SetState(s BackendState) { r.state.Store(uint32(s)) }

// OnChangeSampleRate recomputes the per-sample delta time for a new device
// sample rate, e.g. after a host-side device change.
func (r *Renderer) OnChangeSampleRate(newRate int) {
	r.cfg.SampleRate = newRate
	r.dt = 1.0 / float64(newRate)
}

// Process fills out (channels interleaved float32 samples) by running the
// per-chunk algorithm in InternalBufferSize-frame steps, converting the
// engine's native stereo frames to the requested channel layout.
func (r *Renderer) Process(out []float32, channels int) {
	if channels < 1 {
		channels = 1
	}
	framesNeeded := len(out) / channels
	written := 0
	for written < framesNeeded {
		n := r.cfg.InternalBufferSize
		if remaining := framesNeeded - written; n > remaining {
			n = remaining
		}
		dst := r.scratch[:n]
		r.processChunk(dst)
		writeChannels(out[written*channels:(written+n)*channels], dst, channels)
		written += n
	}
}

func writeChannels(out []float32, frames []frame.Frame, channels int) {
	for i, f := range frames {
		base := i * channels
		switch {
		case channels == 1:
			out[base] = f.Mono()
		default:
			out[base] = f.Left
			out[base+1] = f.Right
			for c := 2; c < channels; c++ {
				out[base+c] = 0
			}
		}
	}
}

// processChunk runs SPEC_FULL.md's per-chunk algorithm over exactly len(dst)
// frames, leaving the final mix in dst.
func (r *Renderer) processChunk(dst []frame.Frame) {
	n := len(dst)

	r.onStartProcessing()
	r.advanceClocks(n)
	r.advanceModulators(n)

	r.mixer.BeginChunk()
	r.processSounds(n)

	chunkDt := r.dt * float64(n)
	r.spatial.Update(chunkDt, r.info, r.mixer)

	r.mixer.Process(r.dt, r.info)
	copy(dst, r.mixer.Main().Input()[:n])
}

// onStartProcessing drains queued control commands, then gives every
// resource kind a chance to react and purges anything flagged or finished.
func (r *Renderer) onStartProcessing() {
	r.cmds.DrainAll(func(cmd func(*Renderer)) { cmd(r) })

	r.sounds.Each(func(k key.Key, s **soundSlot) bool {
		slot := *s
		slot.sound.OnStartProcessing()
		if slot.sound.Finished() {
			r.sounds.Remove(k)
			r.pushEvent(k, "sound", nil)
		}
		return true
	})

	r.clocks.Each(func(k key.Key, c **clock.Clock) bool {
		if (*c).Removed() {
			r.clocks.Remove(k)
			r.pushEvent(k, "clock", nil)
		}
		return true
	})

	r.modulators.Each(func(k key.Key, m *modulator.Modulator) bool {
		(*m).OnStartProcessing()
		return true
	})

	for _, k := range r.mixer.PurgeRemoved() {
		r.pushEvent(k, "track", nil)
	}
}

func (r *Renderer) pushEvent(k key.Key, kind string, err error) {
	level := enginelog.Debug
	if err != nil {
		level = enginelog.Error
	}
	r.events.Push(enginelog.LogEvent{Level: level, ResourceKind: kind, Key: k, Err: err})
}

// advanceClocks steps every clock n samples, publishing each one's snapshot
// for the control side and the chunk's Info.Clocks once processing resumes.
// Clock resolution is chunk-granular: a clock-anchored tween updated later in
// the chunk sees the clock's state as of the end of this chunk's advance for
// the whole chunk.
func (r *Renderer) advanceClocks(n int) {
	for i := 0; i < n; i++ {
		r.clocks.Each(func(_ key.Key, c **clock.Clock) bool {
			(*c).Advance(r.dt, r.info)
			return true
		})
	}
	r.clocks.Each(func(k key.Key, c **clock.Clock) bool {
		(*c).Publish()
		r.info.Clocks[k] = (*c).Snapshot()
		return true
	})
}

// advanceModulators fills each modulator's per-sample buffer for this chunk.
func (r *Renderer) advanceModulators(n int) {
	base := r.info.FrameIndex
	r.modulators.Each(func(k key.Key, m *modulator.Modulator) bool {
		buf, ok := r.modBufs[k]
		if !ok {
			return true
		}
		buf = buf[:n]
		for i := 0; i < n; i++ {
			r.info.FrameIndex = base + i
			(*m).Update(r.dt, r.info)
			buf[i] = (*m).Value()
		}
		r.info.ModulatorValues[k] = buf
		return true
	})
	r.info.FrameIndex = base
}

// processSounds runs every sound into a shared scratch buffer and sums the
// result into its destination track's input.
func (r *Renderer) processSounds(n int) {
	scratch := r.scratch[:n]
	r.sounds.Each(func(_ key.Key, s **soundSlot) bool {
		slot := *s
		slot.sound.Process(scratch, r.dt, r.info)

		var in []frame.Frame
		if slot.track == key.Zero {
			in = r.mixer.Main().Input()
		} else if track, ok := r.mixer.Track(slot.track); ok {
			in = track.Input()
		} else {
			return true
		}
		for i := range scratch {
			in[i] = in[i].Add(scratch[i])
		}
		return true
	})
}
