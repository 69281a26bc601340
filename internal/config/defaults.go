// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"time"

	"github.com/ManuGH/vodplay/internal/player/ports"
)

// Defaults returns the configuration used when neither file nor ENV set a value.
func Defaults() AppConfig {
	return AppConfig{
		DataDir:  "data",
		LogLevel: "info",
		Server: ServerConfig{
			ListenAddr:        ":8088",
			MetricsAddr:       ":9090",
			ReadHeaderTimeout: 5 * time.Second,
			ShutdownTimeout:   10 * time.Second,
			RateLimit:         50,
		},
		Store: StoreConfig{
			Backend: "sqlite",
			Redis:   RedisConfig{KeyPrefix: "vodplay:"},
		},
		Player: PlayerConfig{
			NetworkRetryDelay:    time.Second,
			MaxNetworkRecoveries: 3,
			Engine:               ports.DefaultEngineConfig(),
		},
		Widgets: WidgetsConfig{
			Weather: WeatherConfig{
				City:     "Madrid",
				BaseURL:  "https://api.openweathermap.org/data/2.5",
				Interval: 10 * time.Minute,
			},
			Crypto: CryptoConfig{
				IDs:      []string{"bitcoin", "ethereum", "binancecoin", "cardano", "solana"},
				BaseURL:  "https://api.coingecko.com/api/v3",
				Interval: 30 * time.Second,
			},
			CacheTTL: time.Hour,
		},
		Cache: CacheConfig{
			Backend: "memory",
			Redis:   RedisConfig{KeyPrefix: "vodplay:cache:"},
		},
		Telemetry: TelemetryConfig{
			ServiceName:  "vodplay",
			Protocol:     "grpc",
			Endpoint:     "localhost:4317",
			Insecure:     true,
			SamplingRate: 1.0,
		},
	}
}
