// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package widgets

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuGH/vodplay/internal/cache"
)

func upstream(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/weather"):
			_, _ = w.Write([]byte(weatherBody))
		case strings.HasSuffix(r.URL.Path, "/coins/markets"):
			_, _ = w.Write([]byte(cryptoBody))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestService_RefreshAndSnapshot(t *testing.T) {
	srv := upstream(t)
	svc := NewService(Config{
		Weather: WeatherConfig{APIKey: "w", BaseURL: srv.URL},
		Crypto:  CryptoConfig{APIKey: "c", BaseURL: srv.URL},
	}, nil, srv.Client())

	got, err := svc.Refresh(context.Background(), WeatherName)
	require.NoError(t, err)
	weather := got.(Snapshot[WeatherData])
	assert.Equal(t, StatusReady, weather.Status)
	assert.Equal(t, "Madrid", weather.Data.City)

	_, err = svc.Refresh(context.Background(), CryptoName)
	require.NoError(t, err)
	crypto := svc.Crypto()
	require.NotNil(t, crypto.Data)
	assert.Len(t, *crypto.Data, 2)

	snap, err := svc.Snapshot(WeatherName)
	require.NoError(t, err)
	assert.Equal(t, weather, snap)

	_, err = svc.Snapshot("stocks")
	assert.ErrorIs(t, err, ErrUnknownWidget)
	_, err = svc.Refresh(context.Background(), "stocks")
	assert.ErrorIs(t, err, ErrUnknownWidget)
	assert.NoError(t, svc.Health(context.Background()))
}

func TestService_ApplyConfigLiftsBlock(t *testing.T) {
	srv := upstream(t)
	svc := NewService(Config{
		Weather: WeatherConfig{BaseURL: srv.URL},
		Crypto:  CryptoConfig{APIKey: "c", BaseURL: srv.URL},
	}, nil, srv.Client())

	_, err := svc.Refresh(context.Background(), WeatherName)
	require.NoError(t, err)
	assert.Equal(t, StatusError, svc.Weather().Status)
	assert.ErrorContains(t, svc.Health(context.Background()), "API key not configured")

	svc.ApplyConfig(Config{
		Weather: WeatherConfig{APIKey: "w", BaseURL: srv.URL},
		Crypto:  CryptoConfig{APIKey: "c", BaseURL: srv.URL},
	})
	assert.NoError(t, svc.Health(context.Background()))
	assert.Equal(t, "w", svc.weatherClient.Config().APIKey)
}

func TestService_RedisCacheWarmStart(t *testing.T) {
	mr := miniredis.RunT(t)
	rc, err := cache.NewRedisCache(cache.RedisConfig{Addr: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = rc.Close() })

	srv := upstream(t)
	cfg := Config{
		Weather: WeatherConfig{APIKey: "w", BaseURL: srv.URL},
		Crypto:  CryptoConfig{APIKey: "c", BaseURL: srv.URL},
	}
	first := NewService(cfg, rc, srv.Client())
	_, err = first.Refresh(context.Background(), WeatherName)
	require.NoError(t, err)
	assert.True(t, mr.Exists("vodplay:cache:weather"))

	second := NewService(cfg, rc, srv.Client())
	second.weather.warmStart(context.Background())
	assert.Equal(t, "Madrid", second.Weather().Data.City)
}
