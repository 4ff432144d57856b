// Package redis connects to Redis with retries and ships log records into a
// capped Redis stream.
//
// Connect pings the server until it answers or the retry budget runs out:
//
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer client.Close()
//
// StreamHandler is a slog.Handler that XADDs each record to cfg.Stream, trimmed
// to about cfg.StreamMaxLen entries. Combine it with the console handler
// through logger.WithTee and keep it off the hot path with logger.NewAsyncHandler:
//
//	sink := logger.NewAsyncHandler(redis.NewStreamHandlerFromConfig(client, cfg, slog.LevelInfo), 0)
//	log := logger.New(logger.WithTee(sink))
//
// Healthcheck adapts a client into a readiness probe for the admin server.
//
// Configuration is read from REDIS_* environment variables via
// github.com/caarlos0/env; an empty REDIS_URL turns the integration off.
package redis
