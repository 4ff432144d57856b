package router_test

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/httpdispatch/pkg/config"
	"github.com/dmitrymomot/httpdispatch/pkg/request"
	"github.com/dmitrymomot/httpdispatch/pkg/router"
)

const cannedRoutes = `
routes:
  - name: version
    path: /version
    methods: [get]
    content_type: json
    body:
      version: "1.0.0"
  - path: /static/
    prefix: true
    status: 202
    content_type: text/html; charset=utf-8
    headers:
      Cache-Control: no-store
    body: "<h1>static</h1>"
  - name: health-override
    path: /health
    body: overridden
`

func TestParseRoutes(t *testing.T) {
	t.Parallel()

	routes, err := router.ParseRoutes([]byte(cannedRoutes))
	require.NoError(t, err)
	require.Len(t, routes, 3)
	assert.Equal(t, "/static/", routes[1].Name, "path is the default name")

	r := router.Default(router.WithRoutes(routes...))
	assert.Equal(t, []string{"preflight", "version", "/static/", "health-override", "health", "api"}, r.Routes())

	ctx := context.Background()

	resp, err := r.Route(ctx, newRequest(t, request.MethodGet, "/version", request.AbsentBody()))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.Status)
	assert.JSONEq(t, `{"version":"1.0.0"}`, string(resp.Body))

	resp, err = r.Route(ctx, newRequest(t, request.MethodPost, "/version", request.AbsentBody()))
	require.NoError(t, err)
	assert.Equal(t, "Request received: POST /version\n", string(resp.Body), "method filter falls through")

	resp, err = r.Route(ctx, newRequest(t, request.MethodGet, "/static/app.js", request.AbsentBody()))
	require.NoError(t, err)
	assert.Equal(t, http.StatusAccepted, resp.Status)
	assert.Equal(t, "text/html; charset=utf-8", resp.ContentType())
	assert.Equal(t, "no-store", resp.Header.Get("Cache-Control"))

	resp, err = r.Route(ctx, newRequest(t, request.MethodGet, "/health", request.AbsentBody()))
	require.NoError(t, err)
	assert.Equal(t, "overridden", string(resp.Body))

	resp, err = r.Route(ctx, newRequest(t, request.MethodOptions, "/version", request.AbsentBody()))
	require.NoError(t, err)
	assert.Empty(t, resp.Body, "preflight stays first")
}

func TestCannedResponsesAreIndependent(t *testing.T) {
	t.Parallel()

	routes, err := router.ParseRoutes([]byte(cannedRoutes))
	require.NoError(t, err)
	req := newRequest(t, request.MethodGet, "/static/x", request.AbsentBody())

	first, err := routes[1].Handler.Serve(context.Background(), req)
	require.NoError(t, err)
	first.Header.Set("Cache-Control", "changed")

	second, err := routes[1].Handler.Serve(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "no-store", second.Header.Get("Cache-Control"))
}

func TestParseRoutesInvalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		doc  string
	}{
		{"relative path", "routes: [{path: version}]"},
		{"status out of range", "routes: [{path: /x, status: 700}]"},
		{"unknown method", "routes: [{path: /x, methods: [TRACE]}]"},
		{"map body for text", "routes: [{path: /x, body: {a: 1}}]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := router.ParseRoutes([]byte(tt.doc))
			assert.ErrorIs(t, err, router.ErrInvalidRoute)
		})
	}

	_, err := router.ParseRoutes([]byte("routes: [{path: /x, colour: red}]"))
	assert.ErrorIs(t, err, config.ErrParsingYAML)
}

func TestLoadRoutes(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "routes.yaml")
	require.NoError(t, os.WriteFile(path, []byte(cannedRoutes), 0o600))

	routes, err := router.LoadRoutes(path)
	require.NoError(t, err)
	assert.Len(t, routes, 3)

	_, err = router.LoadRoutes(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, config.ErrReadingFile)
}
