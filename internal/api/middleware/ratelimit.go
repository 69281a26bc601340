// SPDX-License-Identifier: MIT

package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/httprate"

	"github.com/ManuGH/vodplay/internal/api/problem"
	"github.com/ManuGH/vodplay/internal/metrics"
)

// RateLimitConfig holds configuration for rate limiting middleware.
type RateLimitConfig struct {
	// RequestLimit is the maximum number of requests allowed in the window
	RequestLimit int
	// WindowSize is the time window for rate limiting
	WindowSize time.Duration
	// KeyFunc extracts the rate limit key; nil keys by client IP.
	KeyFunc func(r *http.Request) (string, error)
}

// RateLimit is a sliding window limiter (httprate) answering 429 problems.
func RateLimit(cfg RateLimitConfig) func(http.Handler) http.Handler {
	keyFunc := cfg.KeyFunc
	if keyFunc == nil {
		keyFunc = httprate.KeyByIP
	}
	retryAfter := strconv.Itoa(max(1, int(cfg.WindowSize.Seconds())))

	return httprate.Limit(
		cfg.RequestLimit,
		cfg.WindowSize,
		httprate.WithKeyFuncs(keyFunc),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			metrics.IncRateLimited("api", "global")
			w.Header().Set("Retry-After", retryAfter)
			problem.Write(w, r, http.StatusTooManyRequests, "system/rate_limited", "Too Many Requests",
				"RATE_LIMITED", "Too many requests. Please try again later.", nil)
		}),
	)
}

// APIRateLimit limits every client to perSecond requests per second. A
// non-positive budget disables limiting.
func APIRateLimit(perSecond int) func(http.Handler) http.Handler {
	if perSecond <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	return RateLimit(RateLimitConfig{RequestLimit: perSecond, WindowSize: time.Second})
}
