// Package enginelog bridges render-side events to logrus without the render
// thread ever calling into logrus itself. Render code appends LogEvent values
// to a bounded EventRing; the control side drains it and formats each event
// through a logrus.Entry carrying the owning engine's id.
package enginelog

import (
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/anthropics/audioengine/pkg/command"
	"github.com/anthropics/audioengine/pkg/key"
)

// Level mirrors the subset of logrus levels render-side code can report at.
type Level int

const (
	Debug Level = iota
	Info
	Warn
	Error
)

// LogEvent is one render-side occurrence worth surfacing to the host's logs:
// a resource of kind ResourceKind at Key was purged, failed, or otherwise
// changed state. Err is nil for routine events (e.g. a finished sound being
// reclaimed).
type LogEvent struct {
	Level        Level
	ResourceKind string
	Key          key.Key
	Err          error
}

// EventRing is a fixed-capacity SPSC ring of LogEvents: the render side is the
// sole producer, the control side the sole consumer.
type EventRing struct {
	ring *command.Ring[LogEvent]
}

// NewEventRing creates an EventRing with the given capacity.
func NewEventRing(capacity int) *EventRing {
	return &EventRing{ring: command.NewRing[LogEvent](capacity)}
}

// Push appends ev, silently dropping it if the ring is full — a render-side
// log event must never block or fail the caller.
func (r *EventRing) Push(ev LogEvent) {
	_ = r.ring.TryPush(ev)
}

// Drain pops every currently queued event, invoking fn for each in order.
func (r *EventRing) Drain(fn func(LogEvent)) {
	r.ring.DrainAll(fn)
}

// Logger formats drained LogEvents through logrus, tagging every entry with
// the owning engine's id.
type Logger struct {
	entry *logrus.Entry
}

// New creates a Logger for the engine identified by id.
func New(id uuid.UUID) *Logger {
	return &Logger{entry: logrus.WithField("engine_id", id.String())}
}

// Log formats and emits one drained event.
func (l *Logger) Log(ev LogEvent) {
	fields := logrus.Fields{"resource_kind": ev.ResourceKind, "key": ev.Key.String()}
	entry := l.entry.WithFields(fields)
	switch ev.Level {
	case Debug:
		entry.Debug(eventMessage(ev))
	case Warn:
		entry.Warn(eventMessage(ev))
	case Error:
		entry.WithError(ev.Err).Error(eventMessage(ev))
	default:
		entry.Info(eventMessage(ev))
	}
}

func eventMessage(ev LogEvent) string {
	if ev.Err != nil {
		return "resource reclaimed after error"
	}
	return "resource reclaimed"
}
