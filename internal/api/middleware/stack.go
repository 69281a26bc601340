// SPDX-License-Identifier: MIT

// Package middleware holds the HTTP ingress middleware of the API server.
package middleware

import (
	"github.com/go-chi/chi/v5"

	xglog "github.com/ManuGH/vodplay/internal/log"
)

// StackConfig configures the canonical HTTP ingress middleware stack.
type StackConfig struct {
	AllowedOrigins []string
	CSP            string

	EnableMetrics  bool
	TracingService string // empty disables tracing
	EnableLogging  bool

	// RateLimit is the per-client budget per second; 0 disables it.
	RateLimit int
}

// NewRouter constructs a chi router with the canonical middleware stack applied.
func NewRouter(cfg StackConfig) *chi.Mux {
	r := chi.NewRouter()
	ApplyStack(r, cfg)
	return r
}

// ApplyStack applies the middleware stack to r, outermost first.
func ApplyStack(r chi.Router, cfg StackConfig) {
	r.Use(RequestID)
	r.Use(Recoverer)
	if len(cfg.AllowedOrigins) > 0 {
		r.Use(CORS(cfg.AllowedOrigins))
	}
	r.Use(SecurityHeaders(cfg.CSP))
	if cfg.EnableMetrics {
		r.Use(Metrics())
	}
	if cfg.TracingService != "" {
		r.Use(OTelHTTP(cfg.TracingService))
	}
	if cfg.EnableLogging {
		r.Use(xglog.Middleware())
	}
	r.Use(APIRateLimit(cfg.RateLimit))
}
