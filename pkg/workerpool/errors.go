package workerpool

import "errors"

var (
	// ErrQueueFull is returned by Submit when the queue is at capacity.
	ErrQueueFull = errors.New("workerpool: queue is full")

	// ErrPoolClosed is returned by Submit and Start after Stop.
	ErrPoolClosed = errors.New("workerpool: pool is closed")

	// ErrAlreadyStarted is returned by a second Start.
	ErrAlreadyStarted = errors.New("workerpool: already started")

	// ErrNilTask is returned by Submit for a nil task.
	ErrNilTask = errors.New("workerpool: nil task")

	// ErrInvalidConfig is returned by New for a worker count below 1 or a
	// negative queue size.
	ErrInvalidConfig = errors.New("workerpool: invalid configuration")

	// ErrStopTimeout is returned by Stop when the context expires before the workers drain.
	ErrStopTimeout = errors.New("workerpool: stop timed out before tasks completed")
)
