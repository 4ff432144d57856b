package logger

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
)

// DefaultAsyncBufferSize is the queue length used when NewAsyncHandler gets a
// non-positive size.
const DefaultAsyncBufferSize = 1024

// AsyncHandler hands records to a background goroutine so that logging never
// blocks the caller. When the buffer is full the record is dropped and
// counted. Errors and panics of the wrapped handler are swallowed.
type AsyncHandler struct {
	next slog.Handler
	q    *asyncQueue
}

type asyncEntry struct {
	h   slog.Handler
	ctx context.Context
	rec slog.Record
}

type asyncQueue struct {
	mu      sync.RWMutex
	closed  bool
	entries chan asyncEntry
	done    chan struct{}
	once    sync.Once
	dropped atomic.Uint64
}

// NewAsyncHandler starts the delivery goroutine. Call Close to flush it.
func NewAsyncHandler(next slog.Handler, size int) *AsyncHandler {
	if size <= 0 {
		size = DefaultAsyncBufferSize
	}
	q := &asyncQueue{
		entries: make(chan asyncEntry, size),
		done:    make(chan struct{}),
	}
	go q.run()
	return &AsyncHandler{next: next, q: q}
}

func (h *AsyncHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *AsyncHandler) Handle(ctx context.Context, rec slog.Record) error {
	h.q.mu.RLock()
	defer h.q.mu.RUnlock()

	if h.q.closed {
		h.q.dropped.Add(1)
		return nil
	}

	select {
	case h.q.entries <- asyncEntry{h: h.next, ctx: context.WithoutCancel(ctx), rec: rec.Clone()}:
	default:
		h.q.dropped.Add(1)
	}
	return nil
}

func (h *AsyncHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &AsyncHandler{next: h.next.WithAttrs(attrs), q: h.q}
}

func (h *AsyncHandler) WithGroup(name string) slog.Handler {
	return &AsyncHandler{next: h.next.WithGroup(name), q: h.q}
}

// Dropped returns how many records were discarded because the buffer was full
// or the handler was closed.
func (h *AsyncHandler) Dropped() uint64 {
	return h.q.dropped.Load()
}

// Close stops accepting records and waits until the buffered ones are
// delivered or ctx is done. It is safe to call more than once.
func (h *AsyncHandler) Close(ctx context.Context) error {
	h.q.once.Do(func() {
		h.q.mu.Lock()
		h.q.closed = true
		close(h.q.entries)
		h.q.mu.Unlock()
	})

	select {
	case <-h.q.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (q *asyncQueue) run() {
	defer close(q.done)
	for e := range q.entries {
		deliver(e)
	}
}

func deliver(e asyncEntry) {
	defer func() { _ = recover() }()
	_ = e.h.Handle(e.ctx, e.rec)
}
