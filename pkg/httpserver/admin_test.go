package httpserver_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/httpdispatch/pkg/httpserver"
	"github.com/dmitrymomot/httpdispatch/pkg/requestid"
)

func serve(h http.Handler, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestAdminRouter(t *testing.T) {
	t.Parallel()

	ready := true
	h := httpserver.NewAdminRouter(nil, httpserver.Probes{
		Ready: []httpserver.Check{func(context.Context) error {
			if !ready {
				return errNotReady
			}
			return nil
		}},
		Stats: func() any { return map[string]int{"workers": 20, "queued": 3} },
	})

	rec := serve(h, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ALIVE", rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get(requestid.Header))

	rec = serve(h, "/readyz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "READY", rec.Body.String())

	ready = false
	rec = serve(h, "/readyz")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "NOT_READY", rec.Body.String())

	rec = serve(h, "/stats")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	var stats map[string]int
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, map[string]int{"workers": 20, "queued": 3}, stats)

	rec = serve(h, "/nope")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStatsHandlerWithoutSource(t *testing.T) {
	t.Parallel()

	rec := serve(httpserver.StatsHandler(nil, nil), "/stats")
	assert.JSONEq(t, `{}`, rec.Body.String())
}

func TestAdminRouterRecoversPanics(t *testing.T) {
	t.Parallel()

	h := httpserver.NewAdminRouter(nil, httpserver.Probes{
		Stats: func() any { panic("boom") },
	})
	r := chi.NewRouter()
	r.Mount("/", h)

	rec := serve(r, "/stats")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
