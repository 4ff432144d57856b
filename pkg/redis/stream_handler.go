package redis

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// StreamAdder is the part of a redis client used by StreamHandler.
type StreamAdder interface {
	XAdd(ctx context.Context, a *redis.XAddArgs) *redis.StringCmd
}

// StreamHandler is a slog.Handler that appends every record to a Redis
// stream. Each entry carries the fields "level", "msg" and "record", the last
// being the record rendered as a JSON line.
//
// XADD is a network round trip; wrap the handler with logger.NewAsyncHandler
// when it sits on a request path.
type StreamHandler struct {
	client  StreamAdder
	stream  string
	maxLen  int64
	timeout time.Duration

	mu   *sync.Mutex
	buf  *bytes.Buffer
	json slog.Handler
}

// StreamOption configures a StreamHandler.
type StreamOption func(*StreamHandler)

// WithMaxLen caps the stream at roughly n entries. Zero leaves it unbounded.
func WithMaxLen(n int64) StreamOption {
	return func(h *StreamHandler) {
		if n >= 0 {
			h.maxLen = n
		}
	}
}

// WithWriteTimeout bounds each XADD call.
func WithWriteTimeout(d time.Duration) StreamOption {
	return func(h *StreamHandler) { h.timeout = d }
}

// NewStreamHandler returns a handler writing records at or above level into stream.
func NewStreamHandler(client StreamAdder, stream string, level slog.Leveler, opts ...StreamOption) *StreamHandler {
	buf := &bytes.Buffer{}
	h := &StreamHandler{
		client: client,
		stream: stream,
		mu:     &sync.Mutex{},
		buf:    buf,
		json:   slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: level}),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// NewStreamHandlerFromConfig builds a handler using the stream settings of cfg.
func NewStreamHandlerFromConfig(client StreamAdder, cfg Config, level slog.Leveler) *StreamHandler {
	return NewStreamHandler(client, cfg.Stream, level,
		WithMaxLen(cfg.StreamMaxLen),
		WithWriteTimeout(cfg.WriteTimeout),
	)
}

func (h *StreamHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.json.Enabled(ctx, level)
}

func (h *StreamHandler) Handle(ctx context.Context, rec slog.Record) error {
	h.mu.Lock()
	h.buf.Reset()
	err := h.json.Handle(ctx, rec)
	line := string(bytes.TrimSuffix(h.buf.Bytes(), []byte("\n")))
	h.mu.Unlock()
	if err != nil {
		return err
	}

	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	args := &redis.XAddArgs{
		Stream: h.stream,
		Values: map[string]any{
			"level":  rec.Level.String(),
			"msg":    rec.Message,
			"record": line,
		},
	}
	if h.maxLen > 0 {
		args.MaxLen = h.maxLen
		args.Approx = true
	}
	if err := h.client.XAdd(ctx, args).Err(); err != nil {
		return errors.Join(ErrStreamWrite, err)
	}
	return nil
}

func (h *StreamHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return h.derive(h.json.WithAttrs(attrs))
}

func (h *StreamHandler) WithGroup(name string) slog.Handler {
	return h.derive(h.json.WithGroup(name))
}

// derive shares the buffer and its lock with h.
func (h *StreamHandler) derive(json slog.Handler) *StreamHandler {
	c := *h
	c.json = json
	return &c
}
