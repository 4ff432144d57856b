package server_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/httpdispatch/pkg/config"
	"github.com/dmitrymomot/httpdispatch/pkg/router"
	"github.com/dmitrymomot/httpdispatch/pkg/server"
	"github.com/dmitrymomot/httpdispatch/pkg/workerpool"
)

func TestConfigDefaults(t *testing.T) {
	var cfg server.Config
	require.NoError(t, config.Load(&cfg, config.WithEnvFiles()))

	assert.Equal(t, "0.0.0.0:3001", cfg.Addr())
	assert.Equal(t, 20, cfg.Workers)
	assert.Equal(t, 256, cfg.QueueSize)
	assert.Zero(t, cfg.ReadTimeout)
	assert.Zero(t, cfg.WriteTimeout)
	assert.Zero(t, cfg.MaxBodyBytes)
	assert.False(t, cfg.RateLimit.Enabled())
	assert.Equal(t, time.Second, cfg.RateLimit.RefillInterval)
}

func TestConfigFromEnvironment(t *testing.T) {
	t.Setenv("HTTP_HOST", "127.0.0.1")
	t.Setenv("HTTP_PORT", "0")
	t.Setenv("WORKER_COUNT", "3")
	t.Setenv("QUEUE_SIZE", "7")
	t.Setenv("RATE_LIMIT_CAPACITY", "10")

	var cfg server.Config
	require.NoError(t, config.Load(&cfg, config.WithEnvFiles()))
	assert.True(t, cfg.RateLimit.Enabled())

	srv, err := server.NewFromConfig(cfg, router.Default())
	require.NoError(t, err)
	require.NoError(t, srv.Start(context.Background()))
	defer srv.Stop(context.Background())

	st := srv.Stats().Pool
	assert.Equal(t, 3, st.Workers)
	assert.Equal(t, 7, st.QueueSize)
	assert.Contains(t, srv.Addr(), "127.0.0.1:")
}

func TestConfigRejectsInvalidPoolSizes(t *testing.T) {
	t.Setenv("WORKER_COUNT", "-1")

	var cfg server.Config
	require.NoError(t, config.Load(&cfg, config.WithEnvFiles()))

	srv, err := server.NewFromConfig(cfg, router.Default())
	assert.ErrorIs(t, err, workerpool.ErrInvalidConfig)
	assert.Nil(t, srv)
}
