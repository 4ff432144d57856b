package ratelimiter

import (
	"math"
	"net/http"
	"strconv"
)

// SetHeaders writes the rate limit headers for r into h.
func SetHeaders(h http.Header, r *Result) {
	h.Set("X-RateLimit-Limit", strconv.Itoa(r.Limit))
	h.Set("X-RateLimit-Remaining", strconv.Itoa(max(0, r.Remaining)))
	h.Set("X-RateLimit-Reset", strconv.FormatInt(r.ResetAt.Unix(), 10))
	if !r.Allowed() {
		h.Set("Retry-After", strconv.Itoa(RetryAfterSeconds(r)))
	}
}

// RetryAfterSeconds rounds RetryAfter up to whole seconds, at least 1 when denied.
func RetryAfterSeconds(r *Result) int {
	if r.Allowed() {
		return 0
	}
	return max(1, int(math.Ceil(r.RetryAfter().Seconds())))
}
