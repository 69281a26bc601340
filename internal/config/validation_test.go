// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() AppConfig {
	cfg := Defaults()
	normalize(&cfg)
	return cfg
}

func TestValidate_Defaults(t *testing.T) {
	assert.NoError(t, Validate(validConfig()))
}

func TestValidate_Problems(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*AppConfig)
		field  string
	}{
		{"log level", func(c *AppConfig) { c.LogLevel = "loud" }, "logLevel"},
		{"listen required", func(c *AppConfig) { c.Server.ListenAddr = "" }, "server.listenAddr"},
		{"listen malformed", func(c *AppConfig) { c.Server.ListenAddr = "8088" }, "server.listenAddr"},
		{"metrics malformed", func(c *AppConfig) { c.Server.MetricsAddr = "localhost" }, "server.metricsAddr"},
		{"store backend", func(c *AppConfig) { c.Store.Backend = "etcd" }, "store.backend"},
		{"redis addr", func(c *AppConfig) { c.Store.Backend = "redis" }, "store.redis.addr"},
		{"badger dir", func(c *AppConfig) { c.Store.Backend = "badger"; c.Store.Dir = "" }, "store.dir"},
		{"retry delay", func(c *AppConfig) { c.Player.NetworkRetryDelay = 0 }, "player.networkRetryDelay"},
		{"recoveries", func(c *AppConfig) { c.Player.MaxNetworkRecoveries = -1 }, "player.maxNetworkRecoveries"},
		{"weather url", func(c *AppConfig) { c.Widgets.Weather.BaseURL = "ftp://owm" }, "widgets.weather.baseUrl"},
		{"cache backend", func(c *AppConfig) { c.Cache.Backend = "memcached" }, "cache.backend"},
		{"telemetry protocol", func(c *AppConfig) { c.Telemetry.Enabled = true; c.Telemetry.Protocol = "udp" }, "telemetry.protocol"},
		{"sampling", func(c *AppConfig) { c.Telemetry.SamplingRate = 2 }, "telemetry.samplingRate"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)

			err := Validate(cfg)
			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			require.Len(t, verr.Problems, 1)
			assert.Equal(t, tt.field, verr.Problems[0].Field)
		})
	}
}

func TestValidate_ReportsAllProblems(t *testing.T) {
	cfg := validConfig()
	cfg.LogLevel = "loud"
	cfg.Cache.Backend = "memcached"

	err := Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "logLevel: unknown level")
	assert.Contains(t, err.Error(), "cache.backend: must be one of")
}
