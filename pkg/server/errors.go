package server

import (
	"errors"
	"fmt"
)

var (
	// ErrStart indicates that the listener could not be bound.
	ErrStart = errors.New("failed to start dispatcher")

	// ErrShutdown indicates that Stop gave up before in-flight requests finished.
	ErrShutdown = errors.New("failed to drain dispatcher before deadline")

	// ErrAlreadyStarted is returned by a second Start.
	ErrAlreadyStarted = errors.New("dispatcher already started")

	// ErrNotListening is reported by Ready outside the Listening state.
	ErrNotListening = errors.New("dispatcher is not listening")

	// ErrOverloaded is the reason given to clients rejected with 503.
	ErrOverloaded = errors.New("worker queue is full")

	// ErrRateLimited is the reason given to clients rejected with 429.
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrNilRouter is returned by New when no router is configured.
	ErrNilRouter = errors.New("router is required")
)

// TransitionError reports an event that has no transition from the current state.
type TransitionError struct {
	State State
	Event Event
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("no transition from state '%s' on event '%s'", e.State, e.Event)
}
