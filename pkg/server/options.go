package server

import (
	"log/slog"
	"time"

	"github.com/dmitrymomot/httpdispatch/pkg/ratelimiter"
	"github.com/dmitrymomot/httpdispatch/pkg/workerpool"
)

// DefaultAddr is used when WithAddr is not given.
const DefaultAddr = "0.0.0.0:3001"

type options struct {
	addr            string
	readTimeout     time.Duration
	writeTimeout    time.Duration
	maxBodyBytes    int64
	shutdownTimeout time.Duration
	serverName      string
	logger          *slog.Logger
	limiter         ratelimiter.RateLimiter
	poolOpts        []workerpool.Option
	startHooks      []func(addr string)
}

// Option configures a Server.
type Option func(*options)

// WithAddr sets the host:port to bind. Port 0 picks a free port.
func WithAddr(addr string) Option {
	return func(o *options) {
		if addr != "" {
			o.addr = addr
		}
	}
}

// WithReadTimeout bounds reading the request head and body.
func WithReadTimeout(d time.Duration) Option {
	return func(o *options) { o.readTimeout = max(d, 0) }
}

// WithWriteTimeout bounds writing the response.
func WithWriteTimeout(d time.Duration) Option {
	return func(o *options) { o.writeTimeout = max(d, 0) }
}

// WithMaxBodyBytes rejects larger bodies with 413. Zero disables the limit.
func WithMaxBodyBytes(n int64) Option {
	return func(o *options) { o.maxBodyBytes = max(n, 0) }
}

// WithShutdownTimeout bounds Run's drain. Zero waits for every request.
func WithShutdownTimeout(d time.Duration) Option {
	return func(o *options) { o.shutdownTimeout = max(d, 0) }
}

// WithServerName sets the Server response header.
func WithServerName(name string) Option {
	return func(o *options) { o.serverName = name }
}

// WithLogger injects the logger shared by the acceptor, workers and writer.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithRateLimiter throttles requests per client IP. Denied requests get 429.
func WithRateLimiter(l ratelimiter.RateLimiter) Option {
	return func(o *options) { o.limiter = l }
}

// WithPoolOptions passes options to the worker pool.
func WithPoolOptions(opts ...workerpool.Option) Option {
	return func(o *options) { o.poolOpts = append(o.poolOpts, opts...) }
}

// WithStartHook runs h with the bound address once the server is listening.
func WithStartHook(h func(addr string)) Option {
	return func(o *options) {
		if h != nil {
			o.startHooks = append(o.startHooks, h)
		}
	}
}
