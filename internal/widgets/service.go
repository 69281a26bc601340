// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package widgets polls the weather and crypto side panels shown next to
// the player.
package widgets

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/ManuGH/vodplay/internal/cache"
)

// Config configures both widgets.
type Config struct {
	Weather WeatherConfig
	Crypto  CryptoConfig
	// CacheTTL bounds how long a cached value may seed a warm start.
	CacheTTL time.Duration
}

// Service owns the widget pollers.
type Service struct {
	weatherClient *WeatherClient
	cryptoClient  *CryptoClient
	weather       *Poller[WeatherData]
	crypto        *Poller[[]CryptoCurrency]
}

// NewService builds the weather and crypto pollers. httpClient may be nil.
func NewService(cfg Config, c cache.Cache, httpClient *http.Client) *Service {
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = time.Hour
	}
	s := &Service{
		weatherClient: NewWeatherClient(cfg.Weather, httpClient),
		cryptoClient:  NewCryptoClient(cfg.Crypto, httpClient),
	}
	s.weather = NewPoller(WeatherName, PollerConfig{
		Interval:       s.weatherClient.Config().Interval,
		RefetchRate:    rate.Every(10 * time.Second),
		RefetchBurst:   2,
		BreakerFails:   3,
		BreakerTimeout: 5 * time.Minute,
		CacheTTL:       cfg.CacheTTL,
		FallbackError:  weatherFallbackError,
	}, s.weatherClient.Fetch, c)
	s.crypto = NewPoller(CryptoName, PollerConfig{
		Interval:       s.cryptoClient.Config().Interval,
		RefetchRate:    rate.Every(2 * time.Second),
		RefetchBurst:   3,
		BreakerFails:   5,
		BreakerTimeout: time.Minute,
		CacheTTL:       cfg.CacheTTL,
		FallbackError:  cryptoFallbackError,
	}, s.cryptoClient.Fetch, c)
	return s
}

func defaultHTTPClient() *http.Client {
	return &http.Client{
		Timeout:   10 * time.Second,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}
}

// Run polls both widgets until ctx is done.
func (s *Service) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return s.weather.Run(ctx) })
	g.Go(func() error { return s.crypto.Run(ctx) })
	return g.Wait()
}

// Weather returns the weather snapshot.
func (s *Service) Weather() Snapshot[WeatherData] { return s.weather.Snapshot() }

// Crypto returns the crypto snapshot.
func (s *Service) Crypto() Snapshot[[]CryptoCurrency] { return s.crypto.Snapshot() }

// Snapshot returns the named widget's snapshot for serialization.
func (s *Service) Snapshot(name string) (any, error) {
	switch name {
	case WeatherName:
		return s.Weather(), nil
	case CryptoName:
		return s.Crypto(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownWidget, name)
	}
}

// Refresh triggers a manual refetch of the named widget.
func (s *Service) Refresh(ctx context.Context, name string) (any, error) {
	switch name {
	case WeatherName:
		return s.weather.Refetch(ctx)
	case CryptoName:
		return s.crypto.Refetch(ctx)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownWidget, name)
	}
}

// ApplyConfig swaps client settings after a config reload and lifts any
// configuration block. Interval changes take effect on restart.
func (s *Service) ApplyConfig(cfg Config) {
	s.weatherClient.SetConfig(cfg.Weather)
	s.cryptoClient.SetConfig(cfg.Crypto)
	s.weather.Reconfigure()
	s.crypto.Reconfigure()
}

// Health reports an error when a widget is blocked on configuration. Fetch
// errors are transient and do not fail readiness.
func (s *Service) Health(context.Context) error {
	if s.weather.isBlocked() {
		return fmt.Errorf("%s: %s", WeatherName, s.weather.Snapshot().Error)
	}
	if s.crypto.isBlocked() {
		return fmt.Errorf("%s: %s", CryptoName, s.crypto.Snapshot().Error)
	}
	return nil
}
