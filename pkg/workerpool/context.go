package workerpool

import (
	"context"
	"log/slog"
)

type workerKey struct{}

// WithWorkerName stores a worker name in ctx.
func WithWorkerName(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, workerKey{}, name)
}

// WorkerName returns the name of the worker running the current task, or "".
func WorkerName(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	name, _ := ctx.Value(workerKey{}).(string)
	return name
}

// LoggerExtractor returns a ContextExtractor for the logger.
func LoggerExtractor() func(ctx context.Context) (slog.Attr, bool) {
	return func(ctx context.Context) (slog.Attr, bool) {
		if name := WorkerName(ctx); name != "" {
			return slog.String("worker", name), true
		}
		return slog.Attr{}, false
	}
}
