// SPDX-License-Identifier: MIT

// Package ratelimit throttles manual widget refreshes per client and per
// widget on top of golang.org/x/time/rate token buckets.
package ratelimit

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/ManuGH/vodplay/internal/metrics"
)

// Config holds rate limiting configuration
type Config struct {
	// Global limits
	GlobalRate  rate.Limit // requests per second
	GlobalBurst int        // max burst size

	// Per-client limits
	PerClientRate  rate.Limit
	PerClientBurst int

	// Per-scope limits, keyed by widget name
	ScopeRates map[string]rate.Limit
	ScopeBurst map[string]int

	// Cleanup interval for per-client limiters
	CleanupInterval time.Duration
}

// DefaultConfig returns the limits used for widget refresh endpoints.
func DefaultConfig() Config {
	return Config{
		GlobalRate:  5,
		GlobalBurst: 10,

		PerClientRate:  1,
		PerClientBurst: 3,

		ScopeRates: map[string]rate.Limit{
			"weather": rate.Every(10 * time.Second),
			"crypto":  rate.Every(2 * time.Second),
		},
		ScopeBurst: map[string]int{
			"weather": 2,
			"crypto":  3,
		},

		CleanupInterval: 5 * time.Minute,
	}
}

// Limiter applies global, per-scope and per-client buckets in that order.
type Limiter struct {
	config Config

	global    *rate.Limiter
	perClient map[string]*rate.Limiter
	perScope  map[string]*rate.Limiter
	mu        sync.RWMutex

	now         func() time.Time
	lastCleanup time.Time
}

// New creates a new rate limiter with the given config
func New(config Config) *Limiter {
	l := &Limiter{
		config:    config,
		global:    rate.NewLimiter(config.GlobalRate, config.GlobalBurst),
		perClient: make(map[string]*rate.Limiter),
		perScope:  make(map[string]*rate.Limiter),
		now:       time.Now,
	}
	l.lastCleanup = l.now()

	for scope, scopeRate := range config.ScopeRates {
		l.perScope[scope] = rate.NewLimiter(scopeRate, config.ScopeBurst[scope])
	}
	return l
}

// Allow reports whether a request from clientIP against scope may proceed.
func (l *Limiter) Allow(clientIP, scope string) bool {
	if !l.global.Allow() {
		metrics.IncRateLimited("global", scope)
		return false
	}

	l.mu.RLock()
	scopeLimiter, exists := l.perScope[scope]
	l.mu.RUnlock()

	if exists && !scopeLimiter.Allow() {
		metrics.IncRateLimited("per_scope", scope)
		return false
	}

	if !l.clientLimiter(clientIP).Allow() {
		metrics.IncRateLimited("per_client", scope)
		return false
	}

	l.maybeCleanup()
	return true
}

func (l *Limiter) clientLimiter(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	limiter, exists := l.perClient[ip]
	if !exists {
		limiter = rate.NewLimiter(l.config.PerClientRate, l.config.PerClientBurst)
		l.perClient[ip] = limiter
	}
	return limiter
}

// maybeCleanup drops all per-client limiters once the cleanup interval has passed.
func (l *Limiter) maybeCleanup() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.now().Sub(l.lastCleanup) < l.config.CleanupInterval {
		return
	}
	l.perClient = make(map[string]*rate.Limiter)
	l.lastCleanup = l.now()
}

// Middleware rejects requests over the limit with reject. scope maps the
// request to its bucket.
func Middleware(l *Limiter, scope func(*http.Request) string, reject http.HandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !l.Allow(ClientIP(r), scope(r)) {
				reject(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ClientIP extracts the real client IP from the request
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if first = strings.TrimSpace(first); first != "" {
			return first
		}
	}

	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
		return xri
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
