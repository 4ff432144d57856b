// Package ratelimiter provides a token bucket limiter with an in-memory store.
//
// The dispatcher uses it to throttle requests per client IP once the request
// head has been read and before the body is decoded. A bucket holds up to Capacity tokens and
// regains RefillRate tokens every RefillInterval; each request consumes one.
//
//	store := ratelimiter.NewMemoryStore()
//	defer store.Close()
//
//	limiter, err := ratelimiter.NewBucket(store, ratelimiter.Config{
//		Capacity:       100,
//		RefillRate:     10,
//		RefillInterval: time.Second,
//	})
//	if err != nil {
//		return err
//	}
//
//	result, err := limiter.Allow(ctx, clientIP)
//	if err != nil {
//		return err
//	}
//	if !result.Allowed() {
//		h := http.Header{}
//		ratelimiter.SetHeaders(h, result)
//		// reply 429 with h
//	}
//
// SetHeaders writes X-RateLimit-Limit, X-RateLimit-Remaining and
// X-RateLimit-Reset, plus Retry-After when the request was denied.
//
// MemoryStore evicts buckets that have not been touched for StaleAfter. Call
// Close to stop its cleanup goroutine.
package ratelimiter
