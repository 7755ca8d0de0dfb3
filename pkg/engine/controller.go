package engine

import (
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/anthropics/audioengine/internal/enginelog"
	"github.com/anthropics/audioengine/internal/engineerr"
	"github.com/anthropics/audioengine/pkg/clock"
	"github.com/anthropics/audioengine/pkg/command"
	"github.com/anthropics/audioengine/pkg/key"
	"github.com/anthropics/audioengine/pkg/mixer"
	"github.com/anthropics/audioengine/pkg/modulator"
	"github.com/anthropics/audioengine/pkg/sound"
	"github.com/anthropics/audioengine/pkg/spatial"
	"github.com/anthropics/audioengine/pkg/vecmath"
)

// destructorKey identifies one registered destructor by resource kind and
// arena key, since the same numeric key is reused across kinds (each owns its
// own arena).
type destructorKey struct {
	kind string
	key  key.Key
}

// Controller is the control-side façade: every method may be called from any
// goroutine, may allocate, and may block briefly, but never touches
// render-owned memory directly. Structural mutation crosses to the Renderer
// through cmds; the two atomic-flag resources (Track, Clock) mutate their own
// removed flag directly instead.
type Controller struct {
	cfg    EngineConfig
	id     uuid.UUID
	logger *enginelog.Logger

	sounds     *key.Arena[*soundSlot]
	clocks     *key.Arena[*clock.Clock]
	modulators *key.Arena[modulator.Modulator]
	mixer      *mixer.Mixer
	spatial    *spatial.Spatial

	cmds   *command.Ring[func(*Renderer)]
	events *enginelog.EventRing

	mu          sync.Mutex
	destructors map[destructorKey]func()
	dropCount   atomic.Uint64
	closed      atomic.Bool
}

func newController(cfg EngineConfig, id uuid.UUID, sounds *key.Arena[*soundSlot], clocks *key.Arena[*clock.Clock], modulators *key.Arena[modulator.Modulator], mix *mixer.Mixer, sp *spatial.Spatial, cmds *command.Ring[func(*Renderer)], events *enginelog.EventRing) *Controller {
	return &Controller{
		cfg:         cfg,
		id:          id,
		logger:      enginelog.New(id),
		sounds:      sounds,
		clocks:      clocks,
		modulators:  modulators,
		mixer:       mix,
		spatial:     sp,
		cmds:        cmds,
		events:      events,
		destructors: make(map[destructorKey]func()),
	}
}

// ID returns the engine instance's log-correlation identifier.
func (c *Controller) ID() uuid.UUID { return c.id }

// Config returns the EngineConfig this controller was built with.
func (c *Controller) Config() EngineConfig { return c.cfg }

// NumSounds reports the number of sounds currently occupying the sound arena,
// including ones the renderer has not yet purged this chunk.
func (c *Controller) NumSounds() int { return c.sounds.Len() }

// submit queues cmd for execution at the top of the renderer's next chunk.
// ErrCapacityExceeded surfaces a full command ring to the caller rather than
// blocking, per the engine's no-backpressure contract. Submitting after Close
// returns ErrEngineClosed instead of queuing onto a renderer that may no
// longer be pumped.
func (c *Controller) submit(cmd func(*Renderer)) error {
	if c.closed.Load() {
		return engineerr.ErrEngineClosed
	}
	return c.cmds.TryPush(cmd)
}

// Close marks the controller closed: further builder calls and handle
// mutations that route through submit return ErrEngineClosed. It does not
// stop the renderer itself, which the host's backend adapter owns.
func (c *Controller) Close() {
	c.closed.Store(true)
}

// registerDestructor records a destructor that bumps DropCount once
// DrainEvents observes the render side has reclaimed the (kind, k) resource.
// It runs on the control-side goroutine that calls DrainEvents.
func (c *Controller) registerDestructor(kind string, k key.Key) {
	c.mu.Lock()
	defer c.mu.Unlock()
	dk := destructorKey{kind: kind, key: k}
	c.destructors[dk] = func() { c.dropCount.Add(1) }
}

// DropCount returns the number of destructors that have run so far. Exposed
// for tests and diagnostics verifying a closed handle's resource was actually
// reclaimed off the render thread rather than merely requested.
func (c *Controller) DropCount() uint64 { return c.dropCount.Load() }

// DrainEvents logs every reclamation event the renderer has pushed since the
// last call and runs (then forgets) any destructor registered for it. Call
// periodically from a control-side goroutine; never from the render thread.
func (c *Controller) DrainEvents() {
	c.events.Drain(func(ev enginelog.LogEvent) {
		c.logger.Log(ev)
		dk := destructorKey{kind: ev.ResourceKind, key: ev.Key}
		c.mu.Lock()
		fn, ok := c.destructors[dk]
		if ok {
			delete(c.destructors, dk)
		}
		c.mu.Unlock()
		if ok {
			fn()
		}
	})
}

// AddStaticSound builds a StaticSound routed to track (key.Zero for Main),
// reserves its arena slot synchronously, and queues the slot's population for
// the next chunk.
func (c *Controller) AddStaticSound(s *sound.StaticSound, track key.Key) (SoundHandle, error) {
	return c.addSound(s, track)
}

// AddStreamingSound is AddStaticSound's counterpart for a decoder-backed
// sound.
func (c *Controller) AddStreamingSound(s *sound.StreamingSound, track key.Key) (SoundHandle, error) {
	return c.addSound(s, track)
}

func (c *Controller) addSound(s sound.Controllable, track key.Key) (SoundHandle, error) {
	k, err := c.sounds.Reserve()
	if err != nil {
		return SoundHandle{}, err
	}
	slot := &soundSlot{sound: s, track: track}
	if err := c.submit(func(r *Renderer) {
		_ = r.sounds.InsertWithKey(k, slot)
	}); err != nil {
		return SoundHandle{}, err
	}
	return SoundHandle{key: k, controller: c, sound: s}, nil
}

// AddClock creates a Clock at initialSpeed ticks per second.
func (c *Controller) AddClock(initialSpeed float64) (ClockHandle, error) {
	cl := clock.New(initialSpeed)
	k, err := c.clocks.Reserve()
	if err != nil {
		return ClockHandle{}, err
	}
	if err := c.submit(func(r *Renderer) {
		_ = r.clocks.InsertWithKey(k, cl)
	}); err != nil {
		return ClockHandle{}, err
	}
	return ClockHandle{key: k, controller: c, clock: cl}, nil
}

// AddTweener creates a Tweener modulator starting at initial.
func (c *Controller) AddTweener(initial float64) (ModulatorHandle, *modulator.Tweener, error) {
	tw := modulator.NewTweener(initial)
	h, err := c.addModulator(tw)
	return h, tw, err
}

// AddLFO creates an LFO modulator with the given waveform and starting
// frequency/amplitude/offset.
func (c *Controller) AddLFO(waveform modulator.Waveform, frequency, amplitude, offset float64) (ModulatorHandle, *modulator.LFO, error) {
	lfo := modulator.NewLFO(waveform, frequency, amplitude, offset)
	h, err := c.addModulator(lfo)
	return h, lfo, err
}

// AddNoiseLFO creates a deterministic pseudo-random modulator oscillating at
// frequency cycles per second.
func (c *Controller) AddNoiseLFO(frequency, amplitude, offset float64) (ModulatorHandle, *modulator.NoiseLFO, error) {
	n := modulator.NewNoiseLFO(frequency, amplitude, offset)
	h, err := c.addModulator(n)
	return h, n, err
}

func (c *Controller) addModulator(m modulator.Modulator) (ModulatorHandle, error) {
	k, err := c.modulators.Reserve()
	if err != nil {
		return ModulatorHandle{}, err
	}
	bufSize := c.cfg.InternalBufferSize
	if err := c.submit(func(r *Renderer) {
		_ = r.modulators.InsertWithKey(k, m)
		r.modBufs[k] = make([]float64, bufSize)
	}); err != nil {
		return ModulatorHandle{}, err
	}
	return ModulatorHandle{key: k, controller: c, modulator: m}, nil
}

// AddTrack creates a sub-track routed to parent (key.Zero for Main).
func (c *Controller) AddTrack(parent key.Key) (TrackHandle, error) {
	track := mixer.NewTrack(c.cfg.InternalBufferSize, parent)
	k, err := c.mixer.ReserveTrack()
	if err != nil {
		return TrackHandle{}, err
	}
	if err := c.submit(func(r *Renderer) {
		_ = r.mixer.InsertReservedTrack(k, track)
	}); err != nil {
		return TrackHandle{}, err
	}
	return TrackHandle{key: k, controller: c, track: track}, nil
}

// AddEmitter creates a spatial emitter at initial, routed to track.
func (c *Controller) AddEmitter(initial vecmath.Vec3, track key.Key) (EmitterHandle, error) {
	emitter := spatial.NewEmitter(initial, track)
	k, err := c.spatial.ReserveEmitter()
	if err != nil {
		return EmitterHandle{}, err
	}
	if err := c.submit(func(r *Renderer) {
		_ = r.spatial.InsertReservedEmitter(k, emitter)
	}); err != nil {
		return EmitterHandle{}, err
	}
	return EmitterHandle{key: k, controller: c, emitter: emitter}, nil
}

// AddListener creates a spatial listener at position with orientation.
func (c *Controller) AddListener(position vecmath.Vec3, orientation vecmath.Quat) (ListenerHandle, error) {
	l := &spatial.Listener{Position: position, Orientation: orientation}
	k, err := c.spatial.ReserveListener()
	if err != nil {
		return ListenerHandle{}, err
	}
	if err := c.submit(func(r *Renderer) {
		_ = r.spatial.InsertReservedListener(k, l)
	}); err != nil {
		return ListenerHandle{}, err
	}
	return ListenerHandle{key: k, controller: c}, nil
}

// Stats is a point-in-time diagnostics snapshot of the engine's occupancy and
// health, safe to poll from any goroutine.
type Stats struct {
	Sounds         int
	Clocks         int
	Modulators     int
	SoundCapacity  int
	ClockCapacity  int
	ModCapacity    int
	CommandQueued  int
	CommandCap     int
	Underruns      uint64
	DroppedHandles uint64
}

// Stats reports current arena occupancy, command ring depth, and backend
// underrun count. r is the Renderer this Controller was paired with by New.
func (c *Controller) Stats(r *Renderer) Stats {
	return Stats{
		Sounds:         c.sounds.Len(),
		Clocks:         c.clocks.Len(),
		Modulators:     c.modulators.Len(),
		SoundCapacity:  c.sounds.Cap(),
		ClockCapacity:  c.clocks.Cap(),
		ModCapacity:    c.modulators.Cap(),
		CommandQueued:  c.cmds.Len(),
		CommandCap:     c.cmds.Cap(),
		Underruns:      r.Underruns(),
		DroppedHandles: c.dropCount.Load(),
	}
}
