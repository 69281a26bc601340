// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package bootstrap

import (
	"fmt"
	"time"

	"github.com/ManuGH/vodplay/internal/cache"
	"github.com/ManuGH/vodplay/internal/config"
	"github.com/ManuGH/vodplay/internal/persistence/kv"
	"github.com/ManuGH/vodplay/internal/player/session"
	"github.com/ManuGH/vodplay/internal/telemetry"
	"github.com/ManuGH/vodplay/internal/widgets"
)

const cacheCleanupInterval = 5 * time.Minute

func openKV(cfg config.AppConfig) (kv.Store, error) {
	st, err := kv.Open(kv.Options{
		Backend: cfg.Store.Backend,
		Dir:     cfg.Store.Dir,
		Redis: kv.RedisOptions{
			Addr:      cfg.Store.Redis.Addr,
			Password:  cfg.Store.Redis.Password,
			DB:        cfg.Store.Redis.DB,
			KeyPrefix: cfg.Store.Redis.KeyPrefix,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.Store.Backend, err)
	}
	return st, nil
}

func openCache(cfg config.AppConfig) (cache.Cache, error) {
	c, err := cache.New(cache.Options{
		Backend:         cfg.Cache.Backend,
		CleanupInterval: cacheCleanupInterval,
		Redis: cache.RedisConfig{
			Addr:      cfg.Cache.Redis.Addr,
			Password:  cfg.Cache.Redis.Password,
			DB:        cfg.Cache.Redis.DB,
			KeyPrefix: cfg.Cache.Redis.KeyPrefix,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("open %s cache: %w", cfg.Cache.Backend, err)
	}
	return c, nil
}

func sessionConfig(cfg config.AppConfig) session.Config {
	return session.Config{
		Engine:               cfg.Player.Engine,
		NetworkRetryDelay:    cfg.Player.NetworkRetryDelay,
		MaxNetworkRecoveries: cfg.Player.MaxNetworkRecoveries,
	}
}

// widgetsConfig maps the widgets section onto the service configuration.
// It is also applied on every config reload.
func widgetsConfig(cfg config.AppConfig) widgets.Config {
	w := cfg.Widgets
	return widgets.Config{
		Weather: widgets.WeatherConfig{
			APIKey:   w.Weather.APIKey,
			City:     w.Weather.City,
			BaseURL:  w.Weather.BaseURL,
			Interval: w.Weather.Interval,
		},
		Crypto: widgets.CryptoConfig{
			APIKey:   w.Crypto.APIKey,
			IDs:      append([]string(nil), w.Crypto.IDs...),
			BaseURL:  w.Crypto.BaseURL,
			Interval: w.Crypto.Interval,
		},
		CacheTTL: w.CacheTTL,
	}
}

func telemetryConfig(cfg config.AppConfig, version string) telemetry.Config {
	t := cfg.Telemetry
	return telemetry.Config{
		Enabled:        t.Enabled,
		ServiceName:    t.ServiceName,
		ServiceVersion: version,
		ExporterType:   t.Protocol,
		Endpoint:       t.Endpoint,
		Insecure:       t.Insecure,
		SamplingRate:   t.SamplingRate,
	}
}
