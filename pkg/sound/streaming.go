package sound

import (
	"context"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/anthropics/audioengine/pkg/command"
	"github.com/anthropics/audioengine/pkg/frame"
	"github.com/anthropics/audioengine/pkg/param"
	"github.com/anthropics/audioengine/pkg/rtinfo"
)

// taggedFrame carries the seek sequence active when it was produced, so the
// reader can discard frames decoded before a seek it has not caught up to
// yet.
type taggedFrame struct {
	frame frame.Frame
	seq   uint32
}

// StreamingSound decodes incrementally on a background goroutine supervised
// by an errgroup.Group, bridging to the render-side Process call through a
// pair of fixed-capacity SPSC rings.
type StreamingSound struct {
	decoder           Decoder
	engineSampleRate  float64
	decoderSampleRate float64

	Volume       *param.Parameter[frame.Decibels]
	PlaybackRate *param.Parameter[float64]
	Panning      *param.Parameter[float32]

	state PlayState
	fade  *param.Parameter[frame.Decibels]

	frames *command.Ring[taggedFrame]
	errs   *command.Ring[error]

	seekTarget  atomic.Uint64
	seekPending atomic.Bool
	seekSeq     atomic.Uint32

	failed atomic.Bool
	eof    atomic.Bool

	havePrev, haveNext bool
	prev, next         taggedFrame
	decoderPos         float64 // fractional position between prev and next, in decoder-rate samples
	eofDrained         bool    // true once the trailing held frame after EOF has been emitted once

	cancel context.CancelFunc
	group  *errgroup.Group
}

// NewStreamingSound starts decoding decoder on a supervised goroutine and
// returns a StreamingSound ready for Process calls at engineSampleRate.
// ringCapacity bounds how many decoded frames may sit between the decoder
// goroutine and the render thread.
func NewStreamingSound(decoder Decoder, engineSampleRate int, ringCapacity int) *StreamingSound {
	ctx, cancel := context.WithCancel(context.Background())
	group, gctx := errgroup.WithContext(ctx)

	s := &StreamingSound{
		decoder:           decoder,
		engineSampleRate:  float64(engineSampleRate),
		decoderSampleRate: float64(decoder.SampleRate()),
		Volume:            param.New(param.DecibelsInterpolator, frame.Unity),
		PlaybackRate:      param.New(param.Float64Interpolator, 1.0),
		Panning:           param.New(param.Float32Interpolator, 0.5),
		state:             Playing,
		fade:              param.New(param.DecibelsInterpolator, frame.Unity),
		frames:            command.NewRing[taggedFrame](ringCapacity),
		errs:              command.NewRing[error](4),
		cancel:            cancel,
		group:             group,
	}

	group.Go(func() error { return s.run(gctx) })
	return s
}

// Close stops the decoder goroutine and waits for it to exit.
func (s *StreamingSound) Close() error {
	s.cancel()
	return s.group.Wait()
}

// SeekTo requests the decoder seek to positionSeconds. Frames already in
// flight tagged with an earlier seek sequence are dropped on arrival.
func (s *StreamingSound) SeekTo(positionSeconds float64) {
	frameIndex := uint64(positionSeconds * s.decoderSampleRate)
	s.seekSeq.Add(1)
	s.seekTarget.Store(frameIndex)
	s.seekPending.Store(true)
	s.havePrev, s.haveNext = false, false
	s.decoderPos = 0
	s.eofDrained = false
}

func (s *StreamingSound) run(ctx context.Context) error {
	var localSeq uint32
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		if s.seekPending.CompareAndSwap(true, false) {
			target := s.seekTarget.Load()
			if _, err := s.decoder.Seek(target); err != nil {
				s.errs.TryPush(err)
				s.failed.Store(true)
				return err
			}
			localSeq = s.seekSeq.Load()
		}

		decoded, err := s.decoder.Decode()
		if err != nil {
			s.errs.TryPush(err)
			s.failed.Store(true)
			return err
		}
		if len(decoded) == 0 {
			s.eof.Store(true)
			return nil
		}

		for _, f := range decoded {
			tf := taggedFrame{frame: f, seq: localSeq}
			for {
				if err := s.frames.TryPush(tf); err == nil {
					break
				}
				select {
				case <-ctx.Done():
					return nil
				case <-time.After(time.Millisecond):
				}
			}
		}
	}
}

// ReadableErr pops the oldest queued decoder error from the error ring, if
// any has arrived.
func (s *StreamingSound) ReadableErr() (error, bool) {
	return s.errs.TryPop()
}

// State returns the current playback state.
func (s *StreamingSound) State() PlayState { return s.state }

// Pause, Resume and Stop mirror StaticSound's fade-driven transitions.
func (s *StreamingSound) Pause(tween param.Tween) {
	if s.state == Paused || s.state == Stopped {
		return
	}
	s.state = Pausing
	s.fade.SetTarget(frame.SilenceFloor, tween)
}

func (s *StreamingSound) Resume(tween param.Tween) {
	if s.state != Paused {
		return
	}
	s.state = Playing
	s.fade.SetTarget(frame.Unity, tween)
}

func (s *StreamingSound) Stop(tween param.Tween) {
	if s.state == Stopped {
		return
	}
	s.state = Stopping
	s.fade.SetTarget(frame.SilenceFloor, tween)
}

func (s *StreamingSound) OnStartProcessing() {
	if s.failed.Load() {
		s.state = Stopped
	}
}

// Finished reports whether the sound has reached Stopped, whether from an
// explicit Stop, a decoder error, or exhausting the stream.
func (s *StreamingSound) Finished() bool { return s.state == Stopped }

// nextFrame pulls fresh frames from the ring as needed, discarding any tagged
// with a seek sequence older than the current one. ok is false only once both
// the ring is empty and the decoder has reported EOF.
func (s *StreamingSound) nextFrame() (frame.Frame, bool) {
	currentSeq := s.seekSeq.Load()

	for !s.haveNext {
		tf, ok := s.frames.TryPop()
		if !ok {
			if s.eof.Load() {
				if s.eofDrained {
					return frame.Silence, false
				}
				s.eofDrained = true
				if s.havePrev {
					return s.prev.frame, true
				}
				return frame.Silence, false
			}
			return s.prev.frame, true // starve on a held frame rather than glitch to silence
		}
		if tf.seq != currentSeq {
			continue
		}
		if !s.havePrev {
			s.prev = tf
			s.havePrev = true
			continue
		}
		s.next = tf
		s.haveNext = true
	}

	out := lerpFrame(s.prev.frame, s.next.frame, float32(s.decoderPos))

	s.decoderPos += s.PlaybackRate.Value() * s.decoderSampleRate / s.engineSampleRate
	for s.decoderPos >= 1.0 && s.haveNext {
		s.decoderPos -= 1.0
		s.prev = s.next
		s.haveNext = false
	}

	return out, true
}

// Process fills buf with one chunk of resampled, volume/fade/pan-applied
// audio, transitioning to Stopped once the stream and any buffered frames are
// exhausted or the decoder has failed.
func (s *StreamingSound) Process(buf []frame.Frame, dt float64, info *rtinfo.Info) {
	if s.failed.Load() {
		s.state = Stopped
	}
	if !active(s.state) {
		for i := range buf {
			buf[i] = frame.Silence
		}
		return
	}

	for i := range buf {
		s.Volume.Update(dt, info)
		s.PlaybackRate.Update(dt, info)
		s.Panning.Update(dt, info)
		s.fade.Update(dt, info)

		sample, ok := s.nextFrame()
		if !ok {
			s.state = Stopped
			buf[i] = frame.Silence
			continue
		}

		amp := float32(s.Volume.Value().AsAmplitude()) * float32(s.fade.Value().AsAmplitude())
		buf[i] = sample.Scale(amp).Panned(s.Panning.Value())

		switch s.state {
		case Pausing:
			if !s.fade.Tweening() {
				s.state = Paused
			}
		case Stopping:
			if !s.fade.Tweening() {
				s.state = Stopped
			}
		}
	}
}
