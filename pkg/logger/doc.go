// Package logger provides a context-aware wrapper around Go's slog package
// with functional options, helper attribute constructors and handlers that
// keep logging off the request path.
//
// New builds a *slog.Logger from Option values that select the output format
// (text or json), the minimum level, one or more output writers, static
// attributes and ContextExtractor callbacks. NewHandler returns the same
// handler unwrapped so it can be composed further.
//
// # Handlers
//
//   - LogHandlerDecorator runs the registered ContextExtractor callbacks on
//     every record, injecting values such as the request id or worker name.
//   - AsyncHandler moves delivery to a background goroutine. A full buffer
//     drops the record instead of blocking; Close flushes what is queued.
//   - TeeHandler mirrors records to secondary sinks (for example a Redis
//     stream). Secondary failures never reach the caller.
//
// # Usage
//
//	base := logger.NewHandler(
//	    logger.WithEnvironment("production", "httpdispatch"),
//	    logger.WithOutputs(os.Stdout, logFile),
//	    logger.WithContextExtractors(requestid.LoggerExtractor()),
//	)
//	async := logger.NewAsyncHandler(base, 4096)
//	defer async.Close(context.Background())
//
//	log := slog.New(async)
//	log.InfoContext(ctx, "request", logger.Method("GET"), logger.Path("/health"))
//
// Helper constructors such as Error, Method, Path and Status return empty
// attributes for empty input, so calls like log.Info("done", logger.Error(err))
// need no nil check.
package logger
