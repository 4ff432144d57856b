// Package httpserver runs the admin HTTP listener next to the dispatcher.
//
// Server wraps net/http with functional options, start and stop hooks and
// graceful shutdown. Run binds first, so bind errors come back immediately
// (joined with ErrStart), then serves until the context is cancelled.
//
// NewAdminRouter builds a chi router exposing:
//
//	GET /healthz  liveness, always 200 "ALIVE"
//	GET /readyz   200 "READY" when every Check passes, 503 "NOT_READY" otherwise
//	GET /stats    JSON snapshot from Probes.Stats
//
// Every admin response carries an X-Request-ID header and panics in handlers
// are recovered by chi's Recoverer middleware.
//
//	srv := httpserver.NewFromConfig(cfg.Admin, httpserver.WithLogger(log))
//	handler := httpserver.NewAdminRouter(log, httpserver.Probes{
//		Ready: []httpserver.Check{dispatcher.Ready},
//		Stats: func() any { return dispatcher.Stats() },
//	})
//	if err := srv.Run(ctx, handler); err != nil {
//		return err
//	}
package httpserver
