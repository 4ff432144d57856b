package workerpool

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/dmitrymomot/httpdispatch/pkg/logger"
)

// Task is a unit of work. The context carries the worker name.
type Task func(ctx context.Context)

// Stats is a point-in-time snapshot of pool counters.
type Stats struct {
	Workers   int    `json:"workers"`
	Busy      int    `json:"busy"`
	Queued    int    `json:"queued"`
	QueueSize int    `json:"queue_size"`
	Processed uint64 `json:"processed"`
	Rejected  uint64 `json:"rejected"`
	Panics    uint64 `json:"panics"`
	Closed    bool   `json:"closed"`
}

// Pool is a fixed set of workers consuming a bounded task queue.
type Pool struct {
	workers    int
	namePrefix string
	logger     *slog.Logger

	tasks chan Task
	done  chan struct{}
	wg    sync.WaitGroup

	mu      sync.RWMutex // guards closed, started and sends on tasks
	closed  bool
	started bool
	once    sync.Once

	busy      atomic.Int64
	processed atomic.Uint64
	rejected  atomic.Uint64
	panics    atomic.Uint64
}

// New creates a pool. Workers are not running until Start is called, but
// tasks may already be submitted. Invalid sizes yield ErrInvalidConfig.
func New(opts ...Option) (*Pool, error) {
	o := &options{
		workers:    DefaultWorkers,
		queueSize:  DefaultQueueSize,
		namePrefix: "worker",
		logger:     logger.Discard(),
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.workers < 1 {
		return nil, fmt.Errorf("%w: workers must be at least 1, got %d", ErrInvalidConfig, o.workers)
	}
	if o.queueSize < 0 {
		return nil, fmt.Errorf("%w: queue size must not be negative, got %d", ErrInvalidConfig, o.queueSize)
	}

	return &Pool{
		workers:    o.workers,
		namePrefix: o.namePrefix,
		logger:     o.logger.With(logger.Component("workerpool")),
		tasks:      make(chan Task, o.queueSize),
		done:       make(chan struct{}),
	}, nil
}

// Start launches the workers. Tasks run with a context derived from ctx that
// is never cancelled by it, so accepted work always completes.
func (p *Pool) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return ErrPoolClosed
	}
	if p.started {
		return ErrAlreadyStarted
	}
	p.started = true

	base := context.WithoutCancel(ctx)
	p.wg.Add(p.workers)
	for i := 1; i <= p.workers; i++ {
		name := fmt.Sprintf("%s-%d", p.namePrefix, i)
		go p.run(WithWorkerName(base, name))
	}
	go func() {
		p.wg.Wait()
		close(p.done)
	}()

	p.logger.InfoContext(ctx, "worker pool started",
		slog.Int("workers", p.workers),
		slog.Int("queue_size", cap(p.tasks)))
	return nil
}

// Submit queues task for execution without blocking.
func (p *Pool) Submit(task Task) error {
	if task == nil {
		return ErrNilTask
	}

	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return ErrPoolClosed
	}

	select {
	case p.tasks <- task:
		return nil
	default:
		p.rejected.Add(1)
		return ErrQueueFull
	}
}

// Stop stops accepting tasks and waits until every accepted task has run.
// If ctx ends first, Stop returns ErrStopTimeout while the workers keep
// draining in the background. Repeated calls wait on the same drain.
func (p *Pool) Stop(ctx context.Context) error {
	p.once.Do(func() {
		p.mu.Lock()
		p.closed = true
		close(p.tasks)
		started := p.started
		p.mu.Unlock()

		if !started {
			close(p.done)
		}
		p.logger.InfoContext(ctx, "worker pool stopping, waiting for queued tasks",
			slog.Int("queued", len(p.tasks)),
			slog.Int64("busy", p.busy.Load()))
	})

	select {
	case <-p.done:
		return nil
	case <-ctx.Done():
		return errors.Join(ErrStopTimeout, ctx.Err())
	}
}

// Done is closed once Stop was called and every worker has exited.
func (p *Pool) Done() <-chan struct{} {
	return p.done
}

// Stats returns a snapshot of the pool counters.
func (p *Pool) Stats() Stats {
	p.mu.RLock()
	closed := p.closed
	p.mu.RUnlock()

	return Stats{
		Workers:   p.workers,
		Busy:      int(p.busy.Load()),
		Queued:    len(p.tasks),
		QueueSize: cap(p.tasks),
		Processed: p.processed.Load(),
		Rejected:  p.rejected.Load(),
		Panics:    p.panics.Load(),
		Closed:    closed,
	}
}

func (p *Pool) run(ctx context.Context) {
	defer p.wg.Done()
	for task := range p.tasks {
		p.busy.Add(1)
		p.execute(ctx, task)
		p.busy.Add(-1)
		p.processed.Add(1)
	}
}

func (p *Pool) execute(ctx context.Context, task Task) {
	defer func() {
		if r := recover(); r != nil {
			p.panics.Add(1)
			p.logger.ErrorContext(ctx, "task panicked", slog.Any("panic", r))
		}
	}()
	task(ctx)
}
