package httpserver

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrymomot/httpdispatch/pkg/logger"
	"github.com/dmitrymomot/httpdispatch/pkg/requestid"
)

// Check is a readiness dependency. A non-nil error marks the process not ready.
type Check func(ctx context.Context) error

// Probes wires the admin endpoints to the running dispatcher.
type Probes struct {
	Ready []Check
	Stats func() any
}

// NewAdminRouter mounts /healthz, /readyz and /stats.
func NewAdminRouter(log *slog.Logger, p Probes) http.Handler {
	if log == nil {
		log = logger.Discard()
	}

	r := chi.NewRouter()
	r.Use(requestid.Middleware, middleware.Recoverer)

	r.Get("/healthz", HealthCheckHandler(log))
	r.Get("/readyz", HealthCheckHandler(log, p.Ready...))
	r.Get("/stats", StatsHandler(log, p.Stats))
	return r
}

// HealthCheckHandler serves both probes.
//
//   - Liveness: with no checks it answers 200 "ALIVE".
//   - Readiness: every check runs; 200 "READY" if all pass, 503 "NOT_READY"
//     on the first failure.
func HealthCheckHandler(log *slog.Logger, checks ...Check) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		if len(checks) == 0 {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ALIVE"))
			return
		}

		ctx := r.Context()
		for _, check := range checks {
			if err := check(ctx); err != nil {
				log.WarnContext(ctx, "readiness check failed", logger.Error(err))
				w.WriteHeader(http.StatusServiceUnavailable)
				_, _ = w.Write([]byte("NOT_READY"))
				return
			}
		}

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("READY"))
	}
}

// StatsHandler renders stats() as JSON. A nil stats func yields an empty object.
func StatsHandler(log *slog.Logger, stats func() any) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var v any = struct{}{}
		if stats != nil {
			v = stats()
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(v); err != nil {
			log.WarnContext(r.Context(), "failed to encode stats", logger.Error(err))
		}
	}
}
