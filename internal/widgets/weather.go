// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package widgets

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"sync"
	"time"
)

const (
	// WeatherName is the widget name used in routes, metrics and cache keys.
	WeatherName = "weather"

	DefaultWeatherBaseURL  = "https://api.openweathermap.org/data/2.5"
	DefaultWeatherCity     = "Madrid"
	DefaultWeatherInterval = 10 * time.Minute

	weatherKeyPlaceholder = "demo_key_replace_with_real_key"
	weatherKeySetting     = "VODPLAY_WEATHER_API_KEY"
	weatherFallbackError  = "Failed to fetch weather"
)

// WeatherConfig configures the OpenWeatherMap client.
type WeatherConfig struct {
	APIKey   string
	City     string
	BaseURL  string
	Interval time.Duration
}

// WeatherData is the current weather for one city.
type WeatherData struct {
	Temperature float64 `json:"temperature"`
	FeelsLike   float64 `json:"feelsLike"`
	Condition   string  `json:"condition"`
	Description string  `json:"description"`
	Humidity    float64 `json:"humidity"`
	WindSpeed   float64 `json:"windSpeed"` // km/h
	City        string  `json:"city"`
	Country     string  `json:"country"`
	Icon        string  `json:"icon"`
	Timestamp   int64   `json:"timestamp"`
}

type weatherResponse struct {
	Main struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		Humidity  float64 `json:"humidity"`
	} `json:"main"`
	Weather []struct {
		Main        string `json:"main"`
		Description string `json:"description"`
		Icon        string `json:"icon"`
	} `json:"weather"`
	Wind struct {
		Speed float64 `json:"speed"` // m/s
	} `json:"wind"`
	Name string `json:"name"`
	Sys  struct {
		Country string `json:"country"`
	} `json:"sys"`
	Dt int64 `json:"dt"`
}

// WeatherClient fetches current conditions from OpenWeatherMap.
type WeatherClient struct {
	http *http.Client

	mu  sync.RWMutex
	cfg WeatherConfig
}

// NewWeatherClient returns a client using httpClient (nil for a default).
func NewWeatherClient(cfg WeatherConfig, httpClient *http.Client) *WeatherClient {
	if httpClient == nil {
		httpClient = defaultHTTPClient()
	}
	c := &WeatherClient{http: httpClient}
	c.SetConfig(cfg)
	return c
}

// SetConfig swaps the client configuration, filling defaults.
func (c *WeatherClient) SetConfig(cfg WeatherConfig) {
	if cfg.City == "" {
		cfg.City = DefaultWeatherCity
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultWeatherBaseURL
	}
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultWeatherInterval
	}
	c.mu.Lock()
	c.cfg = cfg
	c.mu.Unlock()
}

// Config returns the active configuration.
func (c *WeatherClient) Config() WeatherConfig {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cfg
}

// Fetch requests the current weather for the configured city.
func (c *WeatherClient) Fetch(ctx context.Context) (WeatherData, error) {
	cfg := c.Config()
	if cfg.APIKey == "" || cfg.APIKey == weatherKeyPlaceholder {
		return WeatherData{}, &ConfigError{Setting: weatherKeySetting}
	}

	q := url.Values{}
	q.Set("q", cfg.City)
	q.Set("units", "metric")
	q.Set("appid", cfg.APIKey)

	var resp weatherResponse
	if err := getJSON(ctx, c.http, "Weather", cfg.BaseURL+"/weather?"+q.Encode(), nil, &resp); err != nil {
		return WeatherData{}, err
	}
	return resp.toData(), nil
}

func (r weatherResponse) toData() WeatherData {
	d := WeatherData{
		Temperature: roundHalfUp(r.Main.Temp),
		FeelsLike:   roundHalfUp(r.Main.FeelsLike),
		Humidity:    r.Main.Humidity,
		WindSpeed:   roundHalfUp(r.Wind.Speed * 3.6),
		City:        r.Name,
		Country:     r.Sys.Country,
		Timestamp:   r.Dt,
	}
	if len(r.Weather) > 0 {
		d.Condition = r.Weather[0].Main
		d.Description = r.Weather[0].Description
		d.Icon = r.Weather[0].Icon
	}
	return d
}

// roundHalfUp rounds ties toward positive infinity, so -2.5 becomes -2.
func roundHalfUp(v float64) float64 {
	return math.Floor(v + 0.5)
}

func getJSON(ctx context.Context, client *http.Client, api, rawURL string, header http.Header, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("build %s request: %w", api, err)
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("%s request: %w", api, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{API: api, Status: resp.StatusCode}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", api, err)
	}
	return nil
}
