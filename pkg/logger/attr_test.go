package logger_test

import (
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/httpdispatch/pkg/logger"
)

func TestGroup(t *testing.T) {
	t.Parallel()
	attr := logger.Group("req", slog.String("id", "1"), slog.Int("n", 2))
	require.Equal(t, "req", attr.Key)
	require.Equal(t, slog.KindGroup, attr.Value.Kind())
	g := attr.Value.Group()
	require.Len(t, g, 2)
	assert.Equal(t, "id", g[0].Key)
	assert.Equal(t, "n", g[1].Key)
}

func TestErrorAttrs(t *testing.T) {
	t.Parallel()
	err1 := errors.New("first")
	err2 := errors.New("second")

	attr := logger.Errors(err1, nil, err2)
	require.Equal(t, "errors", attr.Key)
	g := attr.Value.Group()
	require.Len(t, g, 2)
	assert.Equal(t, err1, g[0].Value.Any())
	assert.Equal(t, err2, g[1].Value.Any())

	assert.True(t, logger.Errors(nil).Equal(slog.Attr{}))
	assert.True(t, logger.Error(nil).Equal(slog.Attr{}))
	assert.Equal(t, "error", logger.Error(err1).Key)
}

func TestRequestAttrs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		attr slog.Attr
		key  string
		want any
	}{
		{logger.Method("GET"), "method", "GET"},
		{logger.Path("/api"), "path", "/api"},
		{logger.Status(503), "status", int64(503)},
		{logger.Worker("worker-1"), "worker", "worker-1"},
		{logger.RequestID("abc"), "request_id", "abc"},
		{logger.RemoteAddr("127.0.0.1:1"), "remote_addr", "127.0.0.1:1"},
		{logger.ClientIP("10.0.0.1"), "client_ip", "10.0.0.1"},
		{logger.Component("acceptor"), "component", "acceptor"},
		{logger.Duration(time.Second), "duration", time.Second},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.key, tt.attr.Key)
		assert.Equal(t, tt.want, tt.attr.Value.Any())
	}

	for _, empty := range []slog.Attr{logger.Worker(""), logger.RequestID(""), logger.RemoteAddr(""), logger.ClientIP("")} {
		assert.True(t, empty.Equal(slog.Attr{}))
	}
}
