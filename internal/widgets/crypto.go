// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package widgets

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	CryptoName = "crypto"

	DefaultCryptoBaseURL  = "https://api.coingecko.com/api/v3"
	DefaultCryptoInterval = 30 * time.Second

	cryptoKeyPlaceholder = "your_coingecko_api_key_here"
	cryptoKeySetting     = "VODPLAY_CRYPTO_API_KEY"
	cryptoFallbackError  = "Failed to fetch crypto data"
	cryptoKeyHeader      = "x-cg-demo-api-key"
)

// DefaultCryptoIDs are the coins listed when none are configured.
var DefaultCryptoIDs = []string{"bitcoin", "ethereum", "binancecoin", "cardano", "solana"}

// CryptoConfig configures the CoinGecko client.
type CryptoConfig struct {
	APIKey   string
	IDs      []string
	BaseURL  string
	Interval time.Duration
}

// CryptoCurrency is one market entry.
type CryptoCurrency struct {
	ID                       string  `json:"id"`
	Symbol                   string  `json:"symbol"`
	Name                     string  `json:"name"`
	CurrentPrice             float64 `json:"currentPrice"`
	PriceChange24h           float64 `json:"priceChange24h"`
	PriceChangePercentage24h float64 `json:"priceChangePercentage24h"`
	MarketCap                float64 `json:"marketCap"`
	Image                    string  `json:"image"`
}

type cryptoResponse struct {
	ID                       string  `json:"id"`
	Symbol                   string  `json:"symbol"`
	Name                     string  `json:"name"`
	Image                    string  `json:"image"`
	CurrentPrice             float64 `json:"current_price"`
	PriceChange24h           float64 `json:"price_change_24h"`
	PriceChangePercentage24h float64 `json:"price_change_percentage_24h"`
	MarketCap                float64 `json:"market_cap"`
}

// CryptoClient fetches market data from CoinGecko.
type CryptoClient struct {
	http *http.Client

	mu  sync.RWMutex
	cfg CryptoConfig
}

// NewCryptoClient returns a client using httpClient (nil for a default).
func NewCryptoClient(cfg CryptoConfig, httpClient *http.Client) *CryptoClient {
	if httpClient == nil {
		httpClient = defaultHTTPClient()
	}
	c := &CryptoClient{http: httpClient}
	c.SetConfig(cfg)
	return c
}

// SetConfig swaps the client configuration, filling defaults.
func (c *CryptoClient) SetConfig(cfg CryptoConfig) {
	if len(cfg.IDs) == 0 {
		cfg.IDs = DefaultCryptoIDs
	}
	cfg.IDs = append([]string(nil), cfg.IDs...)
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultCryptoBaseURL
	}
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultCryptoInterval
	}
	c.mu.Lock()
	c.cfg = cfg
	c.mu.Unlock()
}

// Config returns the active configuration.
func (c *CryptoClient) Config() CryptoConfig {
	c.mu.RLock()
	defer c.mu.RUnlock()
	cfg := c.cfg
	cfg.IDs = append([]string(nil), cfg.IDs...)
	return cfg
}

// Fetch requests the configured coins ordered by market cap.
func (c *CryptoClient) Fetch(ctx context.Context) ([]CryptoCurrency, error) {
	cfg := c.Config()
	if cfg.APIKey == "" || cfg.APIKey == cryptoKeyPlaceholder {
		return nil, &ConfigError{Setting: cryptoKeySetting}
	}

	q := url.Values{}
	q.Set("vs_currency", "usd")
	q.Set("ids", strings.Join(cfg.IDs, ","))
	q.Set("order", "market_cap_desc")
	q.Set("per_page", strconv.Itoa(len(cfg.IDs)))
	q.Set("page", "1")
	q.Set("sparkline", "false")
	q.Set("price_change_percentage", "24h")

	header := http.Header{}
	header.Set(cryptoKeyHeader, cfg.APIKey)

	var resp []cryptoResponse
	if err := getJSON(ctx, c.http, "Crypto", cfg.BaseURL+"/coins/markets?"+q.Encode(), header, &resp); err != nil {
		return nil, err
	}

	out := make([]CryptoCurrency, 0, len(resp))
	for _, r := range resp {
		out = append(out, CryptoCurrency{
			ID:                       r.ID,
			Symbol:                   strings.ToUpper(r.Symbol),
			Name:                     r.Name,
			CurrentPrice:             r.CurrentPrice,
			PriceChange24h:           r.PriceChange24h,
			PriceChangePercentage24h: r.PriceChangePercentage24h,
			MarketCap:                r.MarketCap,
			Image:                    r.Image,
		})
	}
	return out, nil
}
