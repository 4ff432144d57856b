package ratelimiter_test

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/httpdispatch/pkg/ratelimiter"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newLimiter(t *testing.T, clock *fakeClock, cfg ratelimiter.Config) (*ratelimiter.Bucket, *ratelimiter.MemoryStore) {
	t.Helper()
	store := ratelimiter.NewMemoryStore(ratelimiter.WithClock(clock.Now), ratelimiter.WithCleanupInterval(0))
	t.Cleanup(store.Close)
	b, err := ratelimiter.NewBucket(store, cfg)
	require.NoError(t, err)
	return b, store
}

func TestBucketBurstAndRefill(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	limiter, _ := newLimiter(t, clock, ratelimiter.Config{Capacity: 3, RefillRate: 1, RefillInterval: time.Second})
	ctx := context.Background()

	for i := range 3 {
		res, err := limiter.Allow(ctx, "10.0.0.1")
		require.NoError(t, err)
		assert.True(t, res.Allowed(), "request %d", i)
		assert.Equal(t, 2-i, res.Remaining)
		assert.Equal(t, 3, res.Limit)
	}

	res, err := limiter.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.False(t, res.Allowed())
	assert.Equal(t, time.Second, res.RetryAfter())

	res, err = limiter.Allow(ctx, "10.0.0.2")
	require.NoError(t, err)
	assert.True(t, res.Allowed(), "keys are independent")

	clock.Advance(time.Second)
	res, err = limiter.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.True(t, res.Allowed())
	assert.Equal(t, 0, res.Remaining)

	clock.Advance(time.Hour)
	res, err = limiter.Status(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, 3, res.Remaining, "refill is capped at capacity")
}

func TestDeniedRequestsDoNotDrainFurther(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	limiter, _ := newLimiter(t, clock, ratelimiter.Config{Capacity: 1, RefillRate: 1, RefillInterval: time.Second})
	ctx := context.Background()

	_, err := limiter.Allow(ctx, "k")
	require.NoError(t, err)
	for range 5 {
		res, err := limiter.Allow(ctx, "k")
		require.NoError(t, err)
		assert.False(t, res.Allowed())
	}

	clock.Advance(time.Second)
	res, err := limiter.Allow(ctx, "k")
	require.NoError(t, err)
	assert.True(t, res.Allowed())
}

func TestBucketErrors(t *testing.T) {
	t.Parallel()

	store := ratelimiter.NewMemoryStore(ratelimiter.WithCleanupInterval(0))
	defer store.Close()

	_, err := ratelimiter.NewBucket(store, ratelimiter.Config{})
	assert.ErrorIs(t, err, ratelimiter.ErrInvalidConfig)
	_, err = ratelimiter.NewBucket(nil, ratelimiter.Config{Capacity: 1, RefillRate: 1, RefillInterval: time.Second})
	assert.ErrorIs(t, err, ratelimiter.ErrInvalidConfig)

	limiter, err := ratelimiter.NewBucket(store, ratelimiter.Config{Capacity: 1, RefillRate: 1, RefillInterval: time.Second})
	require.NoError(t, err)

	_, err = limiter.AllowN(context.Background(), "k", 0)
	assert.ErrorIs(t, err, ratelimiter.ErrInvalidTokenCount)
	_, err = limiter.Allow(context.Background(), " ")
	assert.ErrorIs(t, err, ratelimiter.ErrEmptyKey)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = limiter.Allow(ctx, "k")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMemoryStoreEviction(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	store := ratelimiter.NewMemoryStore(
		ratelimiter.WithClock(clock.Now),
		ratelimiter.WithCleanupInterval(0),
		ratelimiter.WithStaleAfter(time.Minute),
	)
	defer store.Close()

	limiter, err := ratelimiter.NewBucket(store, ratelimiter.Config{Capacity: 1, RefillRate: 1, RefillInterval: time.Second})
	require.NoError(t, err)

	_, err = limiter.Allow(context.Background(), "a")
	require.NoError(t, err)
	clock.Advance(2 * time.Minute)
	_, err = limiter.Allow(context.Background(), "b")
	require.NoError(t, err)

	store.RemoveStale()
	assert.Equal(t, 1, store.Len())

	require.NoError(t, limiter.Reset(context.Background(), "b"))
	assert.Zero(t, store.Len())

	store.Close()
	store.Close()
}

func TestConcurrentAllow(t *testing.T) {
	t.Parallel()

	limiter, _ := newLimiter(t, newFakeClock(), ratelimiter.Config{Capacity: 50, RefillRate: 1, RefillInterval: time.Hour})

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		allowed int
	)
	for range 200 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := limiter.Allow(context.Background(), "shared")
			if err == nil && res.Allowed() {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, allowed)
}

func TestSetHeaders(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	limiter, _ := newLimiter(t, clock, ratelimiter.Config{Capacity: 1, RefillRate: 1, RefillInterval: 1500 * time.Millisecond})

	res, err := limiter.Allow(context.Background(), "k")
	require.NoError(t, err)
	h := http.Header{}
	ratelimiter.SetHeaders(h, res)
	assert.Equal(t, "1", h.Get("X-RateLimit-Limit"))
	assert.Equal(t, "0", h.Get("X-RateLimit-Remaining"))
	assert.Empty(t, h.Get("Retry-After"))

	res, err = limiter.Allow(context.Background(), "k")
	require.NoError(t, err)
	h = http.Header{}
	ratelimiter.SetHeaders(h, res)
	assert.Equal(t, "0", h.Get("X-RateLimit-Remaining"))
	assert.Equal(t, "2", h.Get("Retry-After"))
	assert.Equal(t, 2, ratelimiter.RetryAfterSeconds(res))
}

func TestConfigEnabled(t *testing.T) {
	t.Parallel()

	assert.False(t, ratelimiter.Config{}.Enabled())
	assert.True(t, ratelimiter.Config{Capacity: 1}.Enabled())
}
