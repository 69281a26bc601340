// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package api serves the player, catalog and widget HTTP API together with
// the server-sent event stream that drives the attached browser view.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/ManuGH/vodplay/internal/api/middleware"
	"github.com/ManuGH/vodplay/internal/bus"
	"github.com/ManuGH/vodplay/internal/catalog"
	"github.com/ManuGH/vodplay/internal/health"
	xglog "github.com/ManuGH/vodplay/internal/log"
	"github.com/ManuGH/vodplay/internal/player"
	"github.com/ManuGH/vodplay/internal/ratelimit"
	"github.com/ManuGH/vodplay/internal/remote"
)

const defaultKeepAlive = 15 * time.Second

// WidgetService is the part of the widgets service the API needs.
type WidgetService interface {
	Snapshot(name string) (any, error)
	Refresh(ctx context.Context, name string) (any, error)
}

// Deps are the collaborators behind the handlers.
type Deps struct {
	Player  *player.Player
	Catalog *catalog.Catalog
	Widgets WidgetService
	Health  *health.Manager
	Bus     bus.Bus
	Link    *remote.Link
	// RefreshLimiter throttles manual widget refreshes; nil uses the defaults.
	RefreshLimiter *ratelimit.Limiter
}

// Config tunes the HTTP surface.
type Config struct {
	AllowedOrigins []string
	RateLimit      int
	TracingService string
	// KeepAlive is the comment interval on the event stream.
	KeepAlive time.Duration
}

// Server holds the handler dependencies.
type Server struct {
	deps    Deps
	cfg     Config
	logger  zerolog.Logger
	limiter *ratelimit.Limiter
}

func NewServer(cfg Config, deps Deps) *Server {
	if cfg.KeepAlive <= 0 {
		cfg.KeepAlive = defaultKeepAlive
	}
	limiter := deps.RefreshLimiter
	if limiter == nil {
		limiter = ratelimit.New(ratelimit.DefaultConfig())
	}
	return &Server{
		deps:    deps,
		cfg:     cfg,
		logger:  xglog.WithComponent("api"),
		limiter: limiter,
	}
}

// Handler builds the router with the full middleware stack.
func (s *Server) Handler() http.Handler {
	r := middleware.NewRouter(middleware.StackConfig{
		AllowedOrigins: s.cfg.AllowedOrigins,
		EnableMetrics:  true,
		TracingService: s.cfg.TracingService,
		EnableLogging:  true,
		RateLimit:      s.cfg.RateLimit,
	})
	s.routes(r)
	return r
}

func (s *Server) routes(r chi.Router) {
	if s.deps.Health != nil {
		r.Get("/healthz", s.deps.Health.ServeHealth)
		r.Get("/readyz", s.deps.Health.ServeReady)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/catalog", s.handleListCatalog)
		r.Get("/catalog.m3u", s.handleCatalogM3U)
		r.Get("/catalog/{id}", s.handleGetVideo)

		r.Route("/player", func(r chi.Router) {
			r.Get("/", s.handleGetView)
			r.Get("/history", s.handleGetHistory)
			r.Get("/stream", s.handleStream)

			r.Post("/view", s.handleAttach)
			r.Delete("/view", s.handleDetach)
			r.Post("/events", s.handleEvent)

			r.Post("/select", s.handleSelect)
			r.Post("/play", s.handlePlay)
			r.Post("/pause", s.handlePause)
			r.Post("/toggle", s.handleToggle)
			r.Post("/seek", s.handleSeek)
			r.Post("/volume", s.handleVolume)
			r.Post("/mute", s.handleMute)
			r.Post("/fullscreen", s.handleFullscreen)
			r.Post("/pip", s.handlePiP)
			r.Post("/quality", s.handleQuality)
			r.Delete("/error", s.handleClearError)
		})

		r.Route("/widgets/{name}", func(r chi.Router) {
			r.Get("/", s.handleGetWidget)
			r.With(ratelimit.Middleware(s.limiter, widgetScope, s.rejectRefresh)).
				Post("/refresh", s.handleRefreshWidget)
		})
	})
}
