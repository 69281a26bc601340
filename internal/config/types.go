// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"time"

	"github.com/ManuGH/vodplay/internal/player/ports"
)

// AppConfig is the effective runtime configuration. Fields tagged
// reload:"hot" are applied by a running daemon; anything else needs a restart.
type AppConfig struct {
	Version  string `yaml:"-"`
	DataDir  string `yaml:"dataDir"`
	LogLevel string `yaml:"logLevel" reload:"hot"`

	Server    ServerConfig    `yaml:"server"`
	Store     StoreConfig     `yaml:"store"`
	Catalog   CatalogConfig   `yaml:"catalog"`
	Player    PlayerConfig    `yaml:"player"`
	Widgets   WidgetsConfig   `yaml:"widgets"`
	Cache     CacheConfig     `yaml:"cache"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// ServerConfig configures the HTTP listeners.
type ServerConfig struct {
	ListenAddr        string        `yaml:"listenAddr"`
	MetricsAddr       string        `yaml:"metricsAddr"`
	ReadHeaderTimeout time.Duration `yaml:"readHeaderTimeout"`
	ShutdownTimeout   time.Duration `yaml:"shutdownTimeout"`
	// RateLimit is the per-client request budget per second for the API.
	RateLimit int `yaml:"rateLimit"`
	// AllowedOrigins lists browser origins allowed to call the API; "*" allows any.
	AllowedOrigins []string `yaml:"allowedOrigins"`
}

// StoreConfig selects the key/value backend behind the player store.
type StoreConfig struct {
	Backend string      `yaml:"backend"` // memory|sqlite|badger|redis
	Dir     string      `yaml:"dir"`
	Redis   RedisConfig `yaml:"redis"`
}

// RedisConfig addresses a Redis server.
type RedisConfig struct {
	Addr      string `yaml:"addr"`
	Password  string `yaml:"password"`
	DB        int    `yaml:"db"`
	KeyPrefix string `yaml:"keyPrefix"`
}

// CatalogConfig locates the video catalog.
type CatalogConfig struct {
	Path       string `yaml:"path"`
	ExportPath string `yaml:"exportPath"`
}

// PlayerConfig tunes playback sessions.
type PlayerConfig struct {
	NetworkRetryDelay    time.Duration      `yaml:"networkRetryDelay"`
	MaxNetworkRecoveries int                `yaml:"maxNetworkRecoveries"`
	Engine               ports.EngineConfig `yaml:"engine"`
}

// WidgetsConfig configures the side panels.
type WidgetsConfig struct {
	Weather  WeatherConfig `yaml:"weather" reload:"hot"`
	Crypto   CryptoConfig  `yaml:"crypto" reload:"hot"`
	CacheTTL time.Duration `yaml:"cacheTTL"`
}

// WeatherConfig configures the OpenWeatherMap widget.
type WeatherConfig struct {
	APIKey   string        `yaml:"apiKey"`
	City     string        `yaml:"city"`
	BaseURL  string        `yaml:"baseUrl"`
	Interval time.Duration `yaml:"interval"`
}

// CryptoConfig configures the CoinGecko widget.
type CryptoConfig struct {
	APIKey   string        `yaml:"apiKey"`
	IDs      []string      `yaml:"ids"`
	BaseURL  string        `yaml:"baseUrl"`
	Interval time.Duration `yaml:"interval"`
}

// CacheConfig selects the widget cache backend.
type CacheConfig struct {
	Backend string      `yaml:"backend"` // memory|redis|none
	Redis   RedisConfig `yaml:"redis"`
}

// TelemetryConfig configures OpenTelemetry tracing.
type TelemetryConfig struct {
	Enabled      bool    `yaml:"enabled"`
	ServiceName  string  `yaml:"serviceName"`
	Protocol     string  `yaml:"protocol"` // grpc|http
	Endpoint     string  `yaml:"endpoint"`
	Insecure     bool    `yaml:"insecure"`
	SamplingRate float64 `yaml:"samplingRate"`
}
