package server

import (
	"net"
	"strconv"
	"time"

	"github.com/dmitrymomot/httpdispatch/pkg/ratelimiter"
	"github.com/dmitrymomot/httpdispatch/pkg/workerpool"
)

// Config holds the dispatcher settings read from the environment.
// Zero timeouts and body limit keep the unbounded behavior.
type Config struct {
	Host            string             `env:"HTTP_HOST" envDefault:"0.0.0.0"`
	Port            int                `env:"HTTP_PORT" envDefault:"3001"`
	Workers         int                `env:"WORKER_COUNT" envDefault:"20"`
	QueueSize       int                `env:"QUEUE_SIZE" envDefault:"256"`
	ReadTimeout     time.Duration      `env:"READ_TIMEOUT" envDefault:"0s"`
	WriteTimeout    time.Duration      `env:"WRITE_TIMEOUT" envDefault:"0s"`
	MaxBodyBytes    int64              `env:"MAX_BODY_BYTES" envDefault:"0"`
	ShutdownTimeout time.Duration      `env:"SHUTDOWN_TIMEOUT" envDefault:"0s"`
	ServerName      string             `env:"SERVER_NAME" envDefault:"httpdispatch"`
	RateLimit       ratelimiter.Config `envPrefix:"RATE_LIMIT_"`
}

// Addr joins Host and Port.
func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// Options converts the config into constructor options. Zero values are
// skipped; negative pool sizes make New fail.
func (c Config) Options() []Option {
	opts := []Option{WithAddr(c.Addr())}
	var poolOpts []workerpool.Option
	if c.Workers != 0 {
		poolOpts = append(poolOpts, workerpool.WithWorkers(c.Workers))
	}
	if c.QueueSize != 0 {
		poolOpts = append(poolOpts, workerpool.WithQueueSize(c.QueueSize))
	}
	if len(poolOpts) > 0 {
		opts = append(opts, WithPoolOptions(poolOpts...))
	}
	if c.ReadTimeout > 0 {
		opts = append(opts, WithReadTimeout(c.ReadTimeout))
	}
	if c.WriteTimeout > 0 {
		opts = append(opts, WithWriteTimeout(c.WriteTimeout))
	}
	if c.MaxBodyBytes > 0 {
		opts = append(opts, WithMaxBodyBytes(c.MaxBodyBytes))
	}
	if c.ShutdownTimeout > 0 {
		opts = append(opts, WithShutdownTimeout(c.ShutdownTimeout))
	}
	if c.ServerName != "" {
		opts = append(opts, WithServerName(c.ServerName))
	}
	return opts
}

// NewFromConfig creates a Server from cfg; opts are applied after the config.
func NewFromConfig(cfg Config, r Router, opts ...Option) (*Server, error) {
	return New(r, append(cfg.Options(), opts...)...)
}
