// Package engineerr defines the sentinel errors shared across the engine's
// control-side API. Render-side code never logs or panics; every failure mode it
// can hit is one of these values, surfaced through a return, an error ring, or a
// command result.
package engineerr

import "errors"

var (
	// ErrCapacityExceeded is returned when an arena has no free slots left to
	// reserve, or a structural command ring is full.
	ErrCapacityExceeded = errors.New("audioengine: capacity exceeded")

	// ErrKeyNotReserved is returned by InsertWithKey when the target slot was
	// never reserved (or was already populated).
	ErrKeyNotReserved = errors.New("audioengine: key not reserved")

	// ErrKeyInvalid is returned when a key's index is out of range or its
	// generation does not match the slot's current generation.
	ErrKeyInvalid = errors.New("audioengine: key invalid")

	// ErrBackendInit is returned when a backend adapter fails to start.
	ErrBackendInit = errors.New("audioengine: backend init failed")

	// ErrEngineClosed is returned by handle/controller operations issued after
	// the owning engine has been closed.
	ErrEngineClosed = errors.New("audioengine: engine closed")
)

// DecoderError wraps an opaque decoder failure so it can travel through a sound's
// error ring without the core needing to know anything about the decoder's own
// error types.
type DecoderError struct {
	Err error
}

func (e *DecoderError) Error() string {
	return "audioengine: decoder error: " + e.Err.Error()
}

func (e *DecoderError) Unwrap() error { return e.Err }

// NewDecoderError wraps err as a DecoderError. Returns nil if err is nil.
func NewDecoderError(err error) error {
	if err == nil {
		return nil
	}
	return &DecoderError{Err: err}
}
