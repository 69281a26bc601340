// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"fmt"
	"net"
	"net/url"
	"slices"

	"github.com/rs/zerolog"
)

var (
	storeBackends     = []string{"memory", "sqlite", "badger", "redis"}
	cacheBackends     = []string{"memory", "redis", "none"}
	telemetryProtocol = []string{"grpc", "http"}
)

// Validate checks cfg and reports every problem at once.
func Validate(cfg AppConfig) error {
	v := &ValidationError{}

	if cfg.LogLevel != "" {
		if _, err := zerolog.ParseLevel(cfg.LogLevel); err != nil {
			v.add("logLevel", fmt.Sprintf("unknown level %q", cfg.LogLevel))
		}
	}

	validateListen(v, "server.listenAddr", cfg.Server.ListenAddr, true)
	validateListen(v, "server.metricsAddr", cfg.Server.MetricsAddr, false)
	if cfg.Server.ReadHeaderTimeout <= 0 {
		v.add("server.readHeaderTimeout", "must be positive")
	}
	if cfg.Server.ShutdownTimeout <= 0 {
		v.add("server.shutdownTimeout", "must be positive")
	}
	if cfg.Server.RateLimit < 0 {
		v.add("server.rateLimit", "must not be negative")
	}

	if !slices.Contains(storeBackends, cfg.Store.Backend) {
		v.add("store.backend", fmt.Sprintf("must be one of %v", storeBackends))
	}
	if cfg.Store.Backend == "redis" && cfg.Store.Redis.Addr == "" {
		v.add("store.redis.addr", "required for the redis backend")
	}
	if cfg.Store.Backend == "badger" && cfg.Store.Dir == "" {
		v.add("store.dir", "required for the badger backend")
	}

	if cfg.Player.NetworkRetryDelay <= 0 {
		v.add("player.networkRetryDelay", "must be positive")
	}
	if cfg.Player.MaxNetworkRecoveries < 0 {
		v.add("player.maxNetworkRecoveries", "must not be negative")
	}

	validateHTTPURL(v, "widgets.weather.baseUrl", cfg.Widgets.Weather.BaseURL)
	validateHTTPURL(v, "widgets.crypto.baseUrl", cfg.Widgets.Crypto.BaseURL)
	if cfg.Widgets.Weather.Interval < 0 {
		v.add("widgets.weather.interval", "must not be negative")
	}
	if cfg.Widgets.Crypto.Interval < 0 {
		v.add("widgets.crypto.interval", "must not be negative")
	}

	if !slices.Contains(cacheBackends, cfg.Cache.Backend) {
		v.add("cache.backend", fmt.Sprintf("must be one of %v", cacheBackends))
	}
	if cfg.Cache.Backend == "redis" && cfg.Cache.Redis.Addr == "" {
		v.add("cache.redis.addr", "required for the redis backend")
	}

	if cfg.Telemetry.Enabled {
		if !slices.Contains(telemetryProtocol, cfg.Telemetry.Protocol) {
			v.add("telemetry.protocol", fmt.Sprintf("must be one of %v", telemetryProtocol))
		}
		if cfg.Telemetry.Endpoint == "" {
			v.add("telemetry.endpoint", "required when telemetry is enabled")
		}
	}
	if cfg.Telemetry.SamplingRate < 0 || cfg.Telemetry.SamplingRate > 1 {
		v.add("telemetry.samplingRate", "must be within [0,1]")
	}

	if len(v.Problems) > 0 {
		return v
	}
	return nil
}

func validateListen(v *ValidationError, field, addr string, required bool) {
	if addr == "" {
		if required {
			v.add(field, "required")
		}
		return
	}
	if _, _, err := net.SplitHostPort(addr); err != nil {
		v.add(field, fmt.Sprintf("invalid listen address %q", addr))
	}
}

func validateHTTPURL(v *ValidationError, field, raw string) {
	if raw == "" {
		return
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		v.add(field, fmt.Sprintf("must be an absolute http(s) URL, got %q", raw))
	}
}
