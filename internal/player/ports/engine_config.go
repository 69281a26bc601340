// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package ports

import "time"

// EngineConfig is the bounded retry and buffering policy handed to every
// engine instance. None of the values carries a behavioural contract.
type EngineConfig struct {
	ManifestLoadingMaxRetry   int           `yaml:"manifestLoadingMaxRetry"`
	ManifestLoadingRetryDelay time.Duration `yaml:"manifestLoadingRetryDelay"`
	LevelLoadingMaxRetry      int           `yaml:"levelLoadingMaxRetry"`
	LevelLoadingRetryDelay    time.Duration `yaml:"levelLoadingRetryDelay"`
	FragLoadingMaxRetry       int           `yaml:"fragLoadingMaxRetry"`
	FragLoadingRetryDelay     time.Duration `yaml:"fragLoadingRetryDelay"`
	BackBufferLength          time.Duration `yaml:"backBufferLength"`
	MaxBufferLength           time.Duration `yaml:"maxBufferLength"`
	MaxMaxBufferLength        time.Duration `yaml:"maxMaxBufferLength"`
	ABREwmaDefaultEstimate    int           `yaml:"abrEwmaDefaultEstimate"`
	EnableWorker              bool          `yaml:"enableWorker"`
	LowLatencyMode            bool          `yaml:"lowLatencyMode"`
}

// DefaultEngineConfig mirrors the engine's stock tuning.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		ManifestLoadingMaxRetry:   3,
		ManifestLoadingRetryDelay: time.Second,
		LevelLoadingMaxRetry:      3,
		LevelLoadingRetryDelay:    time.Second,
		FragLoadingMaxRetry:       6,
		FragLoadingRetryDelay:     time.Second,
		BackBufferLength:          90 * time.Second,
		MaxBufferLength:           30 * time.Second,
		MaxMaxBufferLength:        600 * time.Second,
		ABREwmaDefaultEstimate:    500000,
		EnableWorker:              true,
		LowLatencyMode:            false,
	}
}

// Options renders the config in the engine's own option vocabulary
// (milliseconds for delays, seconds for buffer lengths).
func (c EngineConfig) Options() map[string]any {
	return map[string]any{
		"enableWorker":              c.EnableWorker,
		"lowLatencyMode":            c.LowLatencyMode,
		"backBufferLength":          c.BackBufferLength.Seconds(),
		"maxBufferLength":           c.MaxBufferLength.Seconds(),
		"maxMaxBufferLength":        c.MaxMaxBufferLength.Seconds(),
		"manifestLoadingMaxRetry":   c.ManifestLoadingMaxRetry,
		"manifestLoadingRetryDelay": c.ManifestLoadingRetryDelay.Milliseconds(),
		"levelLoadingMaxRetry":      c.LevelLoadingMaxRetry,
		"levelLoadingRetryDelay":    c.LevelLoadingRetryDelay.Milliseconds(),
		"fragLoadingMaxRetry":       c.FragLoadingMaxRetry,
		"fragLoadingRetryDelay":     c.FragLoadingRetryDelay.Milliseconds(),
		"abrEwmaDefaultEstimate":    c.ABREwmaDefaultEstimate,
	}
}
