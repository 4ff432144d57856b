package logger

import (
	"context"
	"log/slog"
)

// TeeHandler sends records to a primary handler and mirrors them to
// secondary handlers. Only the primary handler's error is reported.
type TeeHandler struct {
	primary     slog.Handler
	secondaries []slog.Handler
}

// NewTeeHandler returns a handler writing to primary and every secondary.
func NewTeeHandler(primary slog.Handler, secondaries ...slog.Handler) *TeeHandler {
	return &TeeHandler{primary: primary, secondaries: secondaries}
}

func (h *TeeHandler) Enabled(ctx context.Context, level slog.Level) bool {
	if h.primary.Enabled(ctx, level) {
		return true
	}
	for _, s := range h.secondaries {
		if s.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (h *TeeHandler) Handle(ctx context.Context, rec slog.Record) error {
	for _, s := range h.secondaries {
		if s.Enabled(ctx, rec.Level) {
			_ = s.Handle(ctx, rec.Clone())
		}
	}
	if !h.primary.Enabled(ctx, rec.Level) {
		return nil
	}
	return h.primary.Handle(ctx, rec)
}

func (h *TeeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := &TeeHandler{primary: h.primary.WithAttrs(attrs)}
	for _, s := range h.secondaries {
		out.secondaries = append(out.secondaries, s.WithAttrs(attrs))
	}
	return out
}

func (h *TeeHandler) WithGroup(name string) slog.Handler {
	out := &TeeHandler{primary: h.primary.WithGroup(name)}
	for _, s := range h.secondaries {
		out.secondaries = append(out.secondaries, s.WithGroup(name))
	}
	return out
}
