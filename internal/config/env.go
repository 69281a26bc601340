// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Environment variables understood by the loader.
const (
	EnvConfigPath           = "VODPLAY_CONFIG"
	EnvDataDir              = "VODPLAY_DATA_DIR"
	EnvLogLevel             = "VODPLAY_LOG_LEVEL"
	EnvListenAddr           = "VODPLAY_LISTEN"
	EnvMetricsAddr          = "VODPLAY_METRICS_LISTEN"
	EnvRateLimit            = "VODPLAY_RATE_LIMIT"
	EnvAllowedOrigins       = "VODPLAY_ALLOWED_ORIGINS"
	EnvStoreBackend         = "VODPLAY_STORE_BACKEND"
	EnvStoreDir             = "VODPLAY_STORE_DIR"
	EnvRedisAddr            = "VODPLAY_REDIS_ADDR"
	EnvRedisPassword        = "VODPLAY_REDIS_PASSWORD"
	EnvRedisDB              = "VODPLAY_REDIS_DB"
	EnvCatalogPath          = "VODPLAY_CATALOG_PATH"
	EnvCatalogExport        = "VODPLAY_CATALOG_EXPORT"
	EnvNetworkRetryDelay    = "VODPLAY_NETWORK_RETRY_DELAY"
	EnvMaxNetworkRecoveries = "VODPLAY_MAX_NETWORK_RECOVERIES"
	EnvWeatherAPIKey        = "VODPLAY_WEATHER_API_KEY"
	EnvWeatherCity          = "VODPLAY_WEATHER_CITY"
	EnvCryptoAPIKey         = "VODPLAY_CRYPTO_API_KEY"
	EnvCryptoIDs            = "VODPLAY_CRYPTO_IDS"
	EnvCacheBackend         = "VODPLAY_CACHE_BACKEND"
	EnvCacheRedisAddr       = "VODPLAY_CACHE_REDIS_ADDR"
	EnvTelemetryEnabled     = "VODPLAY_TELEMETRY_ENABLED"
	EnvOTLPEndpoint         = "VODPLAY_OTLP_ENDPOINT"
	EnvOTLPProtocol         = "VODPLAY_OTLP_PROTOCOL"
)

// envSource reads variables; tests swap it for a map.
type envSource func(key string) (string, bool)

// envReader parses typed values and collects every malformed variable.
type envReader struct {
	lookup   envSource
	consumed map[string]struct{}
	errs     []error
}

func newEnvReader(lookup envSource) *envReader {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	return &envReader{lookup: lookup, consumed: make(map[string]struct{})}
}

// get returns the trimmed value; empty values count as unset.
func (r *envReader) get(key string) (string, bool) {
	r.consumed[key] = struct{}{}
	v, ok := r.lookup(key)
	if !ok {
		return "", false
	}
	v = strings.TrimSpace(v)
	return v, v != ""
}

func (r *envReader) str(key string, dst *string) {
	if v, ok := r.get(key); ok {
		*dst = v
	}
}

func (r *envReader) integer(key string, dst *int) {
	v, ok := r.get(key)
	if !ok {
		return
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("%s: invalid integer %q", key, v))
		return
	}
	*dst = i
}

func (r *envReader) boolean(key string, dst *bool) {
	v, ok := r.get(key)
	if !ok {
		return
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("%s: invalid boolean %q", key, v))
		return
	}
	*dst = b
}

func (r *envReader) duration(key string, dst *time.Duration) {
	v, ok := r.get(key)
	if !ok {
		return
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("%s: invalid duration %q", key, v))
		return
	}
	*dst = d
}

func (r *envReader) list(key string, dst *[]string) {
	v, ok := r.get(key)
	if !ok {
		return
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	*dst = out
}

// applyEnv overlays environment variables onto cfg.
func applyEnv(cfg *AppConfig, r *envReader) {
	r.str(EnvDataDir, &cfg.DataDir)
	r.str(EnvLogLevel, &cfg.LogLevel)

	r.str(EnvListenAddr, &cfg.Server.ListenAddr)
	r.str(EnvMetricsAddr, &cfg.Server.MetricsAddr)
	r.integer(EnvRateLimit, &cfg.Server.RateLimit)
	r.list(EnvAllowedOrigins, &cfg.Server.AllowedOrigins)

	r.str(EnvStoreBackend, &cfg.Store.Backend)
	r.str(EnvStoreDir, &cfg.Store.Dir)
	r.str(EnvRedisAddr, &cfg.Store.Redis.Addr)
	r.str(EnvRedisPassword, &cfg.Store.Redis.Password)
	r.integer(EnvRedisDB, &cfg.Store.Redis.DB)

	r.str(EnvCatalogPath, &cfg.Catalog.Path)
	r.str(EnvCatalogExport, &cfg.Catalog.ExportPath)

	r.duration(EnvNetworkRetryDelay, &cfg.Player.NetworkRetryDelay)
	r.integer(EnvMaxNetworkRecoveries, &cfg.Player.MaxNetworkRecoveries)

	r.str(EnvWeatherAPIKey, &cfg.Widgets.Weather.APIKey)
	r.str(EnvWeatherCity, &cfg.Widgets.Weather.City)
	r.str(EnvCryptoAPIKey, &cfg.Widgets.Crypto.APIKey)
	r.list(EnvCryptoIDs, &cfg.Widgets.Crypto.IDs)

	r.str(EnvCacheBackend, &cfg.Cache.Backend)
	r.str(EnvCacheRedisAddr, &cfg.Cache.Redis.Addr)

	r.boolean(EnvTelemetryEnabled, &cfg.Telemetry.Enabled)
	r.str(EnvOTLPEndpoint, &cfg.Telemetry.Endpoint)
	r.str(EnvOTLPProtocol, &cfg.Telemetry.Protocol)
}
