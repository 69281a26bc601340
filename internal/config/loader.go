// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	xglog "github.com/ManuGH/vodplay/internal/log"
)

const envPrefix = "VODPLAY_"

// Loader handles configuration loading with precedence
type Loader struct {
	configPath string
	version    string
	lookup     envSource
	environ    func() []string

	// ConsumedEnvKeys records every variable the last Load looked at.
	ConsumedEnvKeys map[string]struct{}
}

// NewLoader creates a new configuration loader. An empty configPath means
// defaults plus ENV only.
func NewLoader(configPath, version string) *Loader {
	return &Loader{
		configPath: configPath,
		version:    version,
		lookup:     os.LookupEnv,
		environ:    os.Environ,
	}
}

// withEnv replaces the process environment, for tests.
func (l *Loader) withEnv(env map[string]string) *Loader {
	l.lookup = func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}
	l.environ = func() []string {
		out := make([]string, 0, len(env))
		for k, v := range env {
			out = append(out, k+"="+v)
		}
		return out
	}
	return l
}

// Path returns the config file path.
func (l *Loader) Path() string { return l.configPath }

// Load loads configuration with precedence: ENV > File > Defaults.
// Order: defaults -> strict file parse -> env overlay -> normalize -> validate.
func (l *Loader) Load() (AppConfig, error) {
	cfg := Defaults()

	if l.configPath != "" {
		if err := l.loadFile(l.configPath, &cfg); err != nil {
			return cfg, fmt.Errorf("load config file: %w", err)
		}
	}

	env := newEnvReader(l.lookup)
	applyEnv(&cfg, env)
	l.ConsumedEnvKeys = env.consumed
	if len(env.errs) > 0 {
		return cfg, fmt.Errorf("environment: %w", errors.Join(env.errs...))
	}
	l.warnUnknownEnv()

	normalize(&cfg)
	cfg.Version = l.version

	if err := Validate(cfg); err != nil {
		return cfg, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// loadFile decodes a YAML file onto cfg with STRICT parsing.
// Unknown fields cause an error wrapping ErrUnknownConfigField.
func (l *Loader) loadFile(path string, cfg *AppConfig) error {
	path = filepath.Clean(path)

	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".yaml" && ext != ".yml" {
		return fmt.Errorf("unsupported config format: %s (only YAML supported)", ext)
	}

	// #nosec G304 -- configuration file paths are provided by the operator via CLI/ENV
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}
	return decodeStrict(data, cfg)
}

func decodeStrict(data []byte, cfg *AppConfig) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	if err := dec.Decode(cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		if strings.Contains(err.Error(), "field") && strings.Contains(err.Error(), "not found") {
			return fmt.Errorf("strict config parse error: %w: %w", ErrUnknownConfigField, err)
		}
		return fmt.Errorf("strict config parse error: %w", err)
	}

	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errors.New("config file contains multiple documents or trailing content")
	}
	return nil
}

// normalize fills derived values once all sources are merged.
func normalize(cfg *AppConfig) {
	if abs, err := filepath.Abs(cfg.DataDir); err == nil {
		cfg.DataDir = abs
	}
	cfg.Store.Backend = strings.ToLower(cfg.Store.Backend)
	cfg.Cache.Backend = strings.ToLower(cfg.Cache.Backend)
	cfg.Telemetry.Protocol = strings.ToLower(cfg.Telemetry.Protocol)
	if cfg.Store.Dir == "" && (cfg.Store.Backend == "sqlite" || cfg.Store.Backend == "badger") {
		cfg.Store.Dir = filepath.Join(cfg.DataDir, "store")
	}
	if cfg.Cache.Redis.Addr == "" && cfg.Cache.Backend == "redis" {
		cfg.Cache.Redis.Addr = cfg.Store.Redis.Addr
		cfg.Cache.Redis.Password = cfg.Store.Redis.Password
		cfg.Cache.Redis.DB = cfg.Store.Redis.DB
	}
}

// warnUnknownEnv logs VODPLAY_* variables no field consumes, which are
// usually typos.
func (l *Loader) warnUnknownEnv() {
	var unknown []string
	for _, kv := range l.environ() {
		key, _, _ := strings.Cut(kv, "=")
		if !strings.HasPrefix(key, envPrefix) || key == EnvConfigPath {
			continue
		}
		if _, ok := l.ConsumedEnvKeys[key]; !ok {
			unknown = append(unknown, key)
		}
	}
	if len(unknown) == 0 {
		return
	}
	sort.Strings(unknown)
	logger := xglog.WithComponent("config")
	logger.Warn().
		Str("event", "config.env_unknown").
		Strs("keys", unknown).
		Msg("ignoring unknown environment variables")
}
