package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/httpdispatch/pkg/clientip"
	"github.com/dmitrymomot/httpdispatch/pkg/config"
	"github.com/dmitrymomot/httpdispatch/pkg/httpserver"
	"github.com/dmitrymomot/httpdispatch/pkg/logger"
	"github.com/dmitrymomot/httpdispatch/pkg/ratelimiter"
	"github.com/dmitrymomot/httpdispatch/pkg/redis"
	"github.com/dmitrymomot/httpdispatch/pkg/requestid"
	"github.com/dmitrymomot/httpdispatch/pkg/router"
	"github.com/dmitrymomot/httpdispatch/pkg/server"
	"github.com/dmitrymomot/httpdispatch/pkg/workerpool"
)

const serviceName = "httpdispatch"

func main() {
	var (
		host    = flag.String("host", "", "listen host (default from HTTP_HOST, 0.0.0.0)")
		port    = flag.Int("port", 0, "listen port (default from HTTP_PORT, 3001)")
		workers = flag.Int("workers", 0, "worker count (default from WORKER_COUNT, 20)")
	)
	flag.Parse()

	var cfg appConfig
	if err := config.Load(&cfg); err != nil {
		fmt.Fprintf(os.Stderr, "load configuration: %v\n", err)
		os.Exit(1)
	}
	if *host != "" {
		cfg.Server.Host = *host
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}
	if *workers > 0 {
		cfg.Server.Workers = *workers
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", serviceName, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg appConfig) error {
	var (
		rdb      *goredis.Client
		redisErr error
	)
	if cfg.Redis.Enabled() {
		if rdb, redisErr = redis.Connect(ctx, cfg.Redis); rdb != nil {
			defer rdb.Close()
		}
	}

	log, closeLog, err := setupLogger(ctx, cfg, rdb)
	if err != nil {
		return err
	}
	defer closeLog()
	if redisErr != nil {
		log.WarnContext(ctx, "redis log sink disabled", logger.Error(redisErr))
	}

	var routes []router.Route
	if cfg.RoutesFile != "" {
		if routes, err = router.LoadRoutes(cfg.RoutesFile); err != nil {
			return fmt.Errorf("load routes from %s: %w", cfg.RoutesFile, err)
		}
		log.InfoContext(ctx, "canned routes loaded", slog.Int("count", len(routes)))
	}

	var srv *server.Server
	opts := []server.Option{
		server.WithLogger(log),
		server.WithStartHook(func(addr string) {
			log.InfoContext(ctx, fmt.Sprintf("Server running at http://%s/", addr))
			log.InfoContext(ctx, fmt.Sprintf("Using %d worker threads", srv.Stats().Pool.Workers))
		}),
	}
	if cfg.Server.RateLimit.Enabled() {
		store := ratelimiter.NewMemoryStore()
		defer store.Close()
		limiter, err := ratelimiter.NewBucket(store, cfg.Server.RateLimit)
		if err != nil {
			return err
		}
		opts = append(opts, server.WithRateLimiter(limiter))
	}

	srv, err = server.NewFromConfig(cfg.Server,
		router.Default(router.WithRoutes(routes...), router.WithLogger(log)),
		opts...)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Run(gctx)
	})

	if cfg.Admin.Enabled() {
		checks := []httpserver.Check{srv.Ready}
		if rdb != nil {
			checks = append(checks, redis.Healthcheck(rdb))
		}
		admin := httpserver.NewFromConfig(cfg.Admin,
			httpserver.WithLogger(log),
			httpserver.WithStartHook(func(l *slog.Logger) {
				l.InfoContext(ctx, "admin server listening", slog.String("addr", cfg.Admin.Addr))
			}),
		)
		g.Go(func() error {
			return admin.Run(gctx, httpserver.NewAdminRouter(log, httpserver.Probes{
				Ready: checks,
				Stats: func() any { return srv.Stats() },
			}))
		})
	}

	<-gctx.Done()
	log.InfoContext(ctx, "Server is shutting down...")
	if err := g.Wait(); err != nil {
		log.ErrorContext(ctx, "server stopped with error", logger.Error(err))
		return err
	}
	log.InfoContext(ctx, "Server has been shut down successfully")
	return nil
}

// setupLogger builds the process logger: stdout plus an optional file, teed to
// a Redis stream when a client is given, all behind a non-blocking async
// handler. The returned func flushes and releases everything.
func setupLogger(ctx context.Context, cfg appConfig, rdb *goredis.Client) (*slog.Logger, func(), error) {
	outputs := []io.Writer{os.Stdout}
	var file *os.File
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		file = f
		outputs = append(outputs, f)
	}

	opts := []logger.Option{
		logger.WithEnvironment(cfg.Env, serviceName),
		logger.WithLevelName(cfg.LogLevel),
		logger.WithOutputs(outputs...),
		logger.WithContextExtractors(
			requestid.LoggerExtractor(),
			workerpool.LoggerExtractor(),
			clientip.LoggerExtractor(),
		),
	}
	if cfg.LogFormat != "" {
		opts = append(opts, logger.WithFormat(logger.Format(cfg.LogFormat)))
	}
	if rdb != nil {
		level := slog.LevelInfo
		if cfg.LogLevel != "" {
			_ = level.UnmarshalText([]byte(cfg.LogLevel))
		}
		opts = append(opts, logger.WithTee(redis.NewStreamHandlerFromConfig(rdb, cfg.Redis, level)))
	}

	async := logger.NewAsyncHandler(logger.NewHandler(opts...), cfg.LogBuffer)
	log := slog.New(async)
	logger.SetAsDefault(log)

	closeFn := func() {
		flushCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if err := async.Close(flushCtx); err != nil && !errors.Is(err, context.Canceled) {
			fmt.Fprintf(os.Stderr, "flush logs: %v\n", err)
		}
		if dropped := async.Dropped(); dropped > 0 {
			fmt.Fprintf(os.Stderr, "%d log records dropped\n", dropped)
		}
		if file != nil {
			_ = file.Close()
		}
	}
	return log, closeFn, nil
}
