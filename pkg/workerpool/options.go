package workerpool

import "log/slog"

const (
	// DefaultWorkers is the number of workers when WithWorkers is not used.
	DefaultWorkers = 20
	// DefaultQueueSize is the queue bound when WithQueueSize is not used.
	DefaultQueueSize = 256
)

// Option configures a Pool.
type Option func(*options)

type options struct {
	workers    int
	queueSize  int
	namePrefix string
	logger     *slog.Logger
}

// WithWorkers sets the number of workers. New rejects values below 1.
func WithWorkers(n int) Option {
	return func(o *options) { o.workers = n }
}

// WithQueueSize sets how many tasks may wait for a free worker. Zero means
// Submit only succeeds when a worker is idle. New rejects negative values.
func WithQueueSize(n int) Option {
	return func(o *options) { o.queueSize = n }
}

// WithNamePrefix sets the prefix of worker names ("worker" by default).
func WithNamePrefix(prefix string) Option {
	return func(o *options) {
		if prefix != "" {
			o.namePrefix = prefix
		}
	}
}

// WithLogger sets the logger for the pool.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}
