package redis

import "time"

// Config describes the optional Redis connection used as a log sink.
// An empty ConnectionURL disables it.
type Config struct {
	ConnectionURL  string        `env:"REDIS_URL"`                                  // redis://:password@localhost:6379/0
	RetryAttempts  int           `env:"REDIS_RETRY_ATTEMPTS" envDefault:"3"`        // connection attempts before giving up
	RetryInterval  time.Duration `env:"REDIS_RETRY_INTERVAL" envDefault:"1s"`       // pause between attempts
	ConnectTimeout time.Duration `env:"REDIS_CONNECT_TIMEOUT" envDefault:"10s"`     // overall budget for Connect
	Stream         string        `env:"REDIS_STREAM" envDefault:"httpdispatch:log"` // stream receiving log records
	StreamMaxLen   int64         `env:"REDIS_STREAM_MAXLEN" envDefault:"10000"`     // approximate cap, 0 means unbounded
	WriteTimeout   time.Duration `env:"REDIS_WRITE_TIMEOUT" envDefault:"2s"`        // per-record XADD deadline
}

// Enabled reports whether a connection URL is configured.
func (c Config) Enabled() bool {
	return c.ConnectionURL != ""
}
