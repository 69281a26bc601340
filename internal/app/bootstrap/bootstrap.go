// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package bootstrap is the composition root of vodplayd.
package bootstrap

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/ManuGH/vodplay/internal/api"
	"github.com/ManuGH/vodplay/internal/bus"
	"github.com/ManuGH/vodplay/internal/cache"
	"github.com/ManuGH/vodplay/internal/catalog"
	"github.com/ManuGH/vodplay/internal/config"
	"github.com/ManuGH/vodplay/internal/daemon"
	"github.com/ManuGH/vodplay/internal/health"
	xglog "github.com/ManuGH/vodplay/internal/log"
	"github.com/ManuGH/vodplay/internal/persistence/kv"
	"github.com/ManuGH/vodplay/internal/player"
	"github.com/ManuGH/vodplay/internal/player/store"
	"github.com/ManuGH/vodplay/internal/remote"
	"github.com/ManuGH/vodplay/internal/telemetry"
	"github.com/ManuGH/vodplay/internal/widgets"
)

// Container is the production composition root output.
type Container struct {
	Config       config.AppConfig
	ConfigHolder *config.ConfigHolder
	Logger       zerolog.Logger
	Catalog      *catalog.Catalog
	Player       *player.Player
	Widgets      *widgets.Service
	Health       *health.Manager
	Server       *api.Server
	Manager      daemon.Manager
	App          *daemon.App

	kv        kv.Store
	store     *store.Store
	cache     cache.Cache
	telemetry *telemetry.Provider

	runOnce sync.Once
}

// WireServices builds the production dependency graph and returns a runnable container.
func WireServices(ctx context.Context, version, commit, buildDate, explicitConfigPath string) (*Container, error) {
	if ctx == nil {
		return nil, fmt.Errorf("wire services context is nil")
	}

	xglog.Configure(xglog.Config{
		Level:   "info",
		Service: "vodplay",
		Version: version,
	})
	logger := xglog.WithComponent("bootstrap")

	configPath, explicitMode, err := resolveConfigPath(strings.TrimSpace(explicitConfigPath))
	if err != nil {
		return nil, fmt.Errorf("resolve config path: %w", err)
	}

	loader := config.NewLoader(configPath, version)
	cfg, err := loader.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	xglog.Configure(xglog.Config{
		Level:   cfg.LogLevel,
		Service: "vodplay",
		Version: version,
	})
	logger = xglog.WithComponent("bootstrap")

	source := "env+defaults"
	switch {
	case explicitMode:
		source = "file"
	case configPath != "":
		source = "file(auto)"
	}
	logger.Info().
		Str("event", "config.loaded").
		Str("source", source).
		Str("path", configPath).
		Interface("config", config.Redacted(cfg)).
		Msg("configuration loaded")

	if configBytes, marshalErr := json.Marshal(cfg); marshalErr == nil {
		hash := sha256.Sum256(configBytes)
		logger.Info().
			Str("event", "config.snapshot").
			Str("sha256", fmt.Sprintf("%x", hash)).
			Msg("configuration snapshot fingerprint")
	}

	if err := health.PerformStartupChecks(ctx, cfg); err != nil {
		return nil, fmt.Errorf("startup checks failed: %w", err)
	}

	logger.Info().
		Str("event", "startup").
		Str("version", version).
		Str("commit", commit).
		Str("build_date", buildDate).
		Str("addr", cfg.Server.ListenAddr).
		Msg("starting vodplay")

	c := &Container{
		Config:       cfg,
		ConfigHolder: config.NewConfigHolder(cfg, loader),
		Logger:       logger,
	}
	if err := c.wire(ctx, version); err != nil {
		c.closeAll(context.WithoutCancel(ctx))
		return nil, err
	}
	return c, nil
}

func (c *Container) wire(ctx context.Context, version string) error {
	cfg := c.Config

	tp, err := telemetry.NewProvider(ctx, telemetryConfig(cfg, version))
	if err != nil {
		// Tracing is optional; keep serving without it.
		c.Logger.Warn().Err(err).Str("event", "telemetry.init_failed").Msg("telemetry initialization failed, continuing without tracing")
	} else {
		c.telemetry = tp
	}

	cat, err := catalog.Open(cfg.Catalog.Path)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}
	c.Catalog = cat
	c.Logger.Info().Int("videos", cat.Len()).Str("path", cfg.Catalog.Path).Msg("catalog loaded")

	if cfg.Catalog.ExportPath != "" {
		if err := cat.ExportM3U(cfg.Catalog.ExportPath); err != nil {
			c.Logger.Warn().Err(err).Str("event", "catalog.export_failed").Str("path", cfg.Catalog.ExportPath).Msg("failed to export playlist")
		} else {
			c.Logger.Info().Str("event", "catalog.exported").Str("path", cfg.Catalog.ExportPath).Msg("playlist exported")
		}
	}

	if c.kv, err = openKV(cfg); err != nil {
		return err
	}
	c.store = store.New(c.kv)

	c.Player = player.New(c.store, cat, player.Deps{Session: sessionConfig(cfg)})
	c.Player.Bootstrap(ctx)

	if c.cache, err = openCache(cfg); err != nil {
		return err
	}
	c.Widgets = widgets.NewService(widgetsConfig(cfg), c.cache, nil)

	c.Health = health.NewManager(version)
	c.Health.RegisterChecker(health.NewPingChecker("store", c.kv.Ping))
	c.Health.RegisterChecker(health.NewOptionalChecker("widgets", c.Widgets.Health))
	c.Health.RegisterChecker(health.NewFileChecker("catalog", cfg.Catalog.Path))

	b := bus.NewMemoryBus()
	tracingService := ""
	if cfg.Telemetry.Enabled {
		tracingService = cfg.Telemetry.ServiceName
	}
	c.Server = api.NewServer(api.Config{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		RateLimit:      cfg.Server.RateLimit,
		TracingService: tracingService,
	}, api.Deps{
		Player:  c.Player,
		Catalog: cat,
		Widgets: c.Widgets,
		Health:  c.Health,
		Bus:     b,
		Link:    remote.NewLink(b),
	})

	mgr, err := daemon.NewManager(cfg.Server, daemon.Deps{
		Logger:         c.Logger,
		APIHandler:     c.Server.Handler(),
		MetricsHandler: promhttp.Handler(),
	})
	if err != nil {
		return fmt.Errorf("create daemon manager: %w", err)
	}
	c.Manager = mgr

	c.App = daemon.NewApp(c.Logger, mgr, c.ConfigHolder)
	c.App.AddRunner("widgets", c.Widgets)
	c.App.OnConfigReload(c.applyConfig)
	return nil
}

// applyConfig pushes the hot-reloadable settings into running subsystems.
func (c *Container) applyConfig(cfg config.AppConfig) {
	xglog.Configure(xglog.Config{
		Level:   cfg.LogLevel,
		Service: "vodplay",
		Version: cfg.Version,
	})
	c.Widgets.ApplyConfig(widgetsConfig(cfg))
	c.Logger.Info().
		Str("event", "config.applied").
		Str("log_level", cfg.LogLevel).
		Msg("hot-reloadable settings applied")
}

// Run registers the shutdown hooks and blocks in the daemon app loop.
func (c *Container) Run(ctx context.Context) error {
	if ctx == nil {
		return fmt.Errorf("run context is nil")
	}
	if c.App == nil || c.Manager == nil {
		return fmt.Errorf("container is not fully initialized")
	}

	c.runOnce.Do(func() {
		// Registered outermost first; hooks run LIFO.
		c.Manager.RegisterShutdownHook("telemetry", c.shutdownTelemetry)
		c.Manager.RegisterShutdownHook("kv_store", func(context.Context) error { return c.kv.Close() })
		c.Manager.RegisterShutdownHook("widget_cache", func(context.Context) error { return c.cache.Close() })
		c.Manager.RegisterShutdownHook("player", func(context.Context) error {
			c.Player.Close()
			c.store.Close()
			return nil
		})
	})

	return c.App.Run(ctx)
}

func (c *Container) shutdownTelemetry(ctx context.Context) error {
	if c.telemetry == nil {
		return nil
	}
	return c.telemetry.Shutdown(ctx)
}

// closeAll releases whatever wire managed to open before failing.
func (c *Container) closeAll(ctx context.Context) {
	if c.Player != nil {
		c.Player.Close()
	}
	if c.store != nil {
		c.store.Close()
	}
	if c.cache != nil {
		_ = c.cache.Close()
	}
	if c.kv != nil {
		_ = c.kv.Close()
	}
	_ = c.shutdownTelemetry(ctx)
}

// resolveConfigPath prefers an explicit path, then VODPLAY_CONFIG, then
// config.yaml in the data directory. No file means defaults plus ENV.
func resolveConfigPath(explicit string) (path string, explicitMode bool, err error) {
	if explicit == "" {
		explicit = strings.TrimSpace(os.Getenv(config.EnvConfigPath))
	}
	if explicit != "" {
		absPath, err := filepath.Abs(explicit)
		if err != nil {
			return "", true, fmt.Errorf("resolve absolute path for explicit config %q: %w", explicit, err)
		}
		info, err := os.Stat(absPath)
		if err != nil {
			return "", true, fmt.Errorf("explicit config file not found %q: %w", absPath, err)
		}
		if info.IsDir() {
			return "", true, fmt.Errorf("explicit config path %q is a directory", absPath)
		}
		return absPath, true, nil
	}

	dataDir := strings.TrimSpace(os.Getenv(config.EnvDataDir))
	if dataDir == "" {
		dataDir = config.Defaults().DataDir
	}
	autoPath := filepath.Join(dataDir, "config.yaml")
	if info, err := os.Stat(autoPath); err == nil && !info.IsDir() {
		if absPath, absErr := filepath.Abs(autoPath); absErr == nil {
			return absPath, false, nil
		}
	}
	return "", false, nil
}
