package workflow

import "errors"

var (
	// ErrSessionNotFound covers both unknown IDs and sessions owned by someone else.
	ErrSessionNotFound = errors.New("session not found")
	// ErrNotReady is wrapped with the missing precondition, e.g. no quiz yet.
	ErrNotReady = errors.New("session is not ready for this step")
	// ErrBusy is returned while a model call for the session is in flight.
	ErrBusy = errors.New("session is busy, try again when the current step finishes")
)
