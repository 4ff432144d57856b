package ratelimiter

import (
	"context"
	"time"
)

// Consumption is the bucket state after a ConsumeTokens call.
type Consumption struct {
	Remaining int       // negative means denied
	ResetAt   time.Time // next refill
	Now       time.Time // store clock at the time of the call
}

// Store persists bucket state.
type Store interface {
	// ConsumeTokens refills the bucket for elapsed time and takes tokens from it.
	ConsumeTokens(ctx context.Context, key string, tokens int, config Config) (Consumption, error)

	// Reset clears the state for key.
	Reset(ctx context.Context, key string) error
}
