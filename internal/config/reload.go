// SPDX-License-Identifier: MIT

package config

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	xglog "github.com/ManuGH/vodplay/internal/log"
)

const defaultDebounce = 500 * time.Millisecond

// Snapshot is one generation of the configuration. Epoch increases on
// every successful reload.
type Snapshot struct {
	Epoch  uint64
	Config AppConfig
}

// ConfigHolder holds configuration with atomic reloading capability.
// It provides thread-safe access to configuration and supports hot reloading
// from file or manual trigger (SIGHUP).
type ConfigHolder struct {
	mu       sync.RWMutex
	current  Snapshot
	loader   *Loader
	logger   zerolog.Logger
	debounce time.Duration

	// Reload notifications
	reloadMu        sync.RWMutex
	reloadListeners []chan<- AppConfig
}

// NewConfigHolder creates a new configuration holder with initial config.
func NewConfigHolder(initial AppConfig, loader *Loader) *ConfigHolder {
	return &ConfigHolder{
		current:  Snapshot{Epoch: 1, Config: initial},
		loader:   loader,
		logger:   xglog.WithComponent("config"),
		debounce: defaultDebounce,
	}
}

// Get returns the current configuration (thread-safe read).
func (h *ConfigHolder) Get() AppConfig {
	return h.Current().Config
}

// Current returns the current snapshot.
func (h *ConfigHolder) Current() Snapshot {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.current
}

// Reload reloads configuration from file and ENV and validates it.
// If loading fails, the old configuration is kept and an error is returned.
func (h *ConfigHolder) Reload(_ context.Context) error {
	h.logger.Info().Str("event", "config.reload_start").Msg("reloading configuration")

	newCfg, err := h.loader.Load()
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("event", "config.reload_failed").
			Msg("failed to load new configuration")
		return fmt.Errorf("load config: %w", err)
	}

	h.mu.Lock()
	oldCfg := h.current.Config
	h.current = Snapshot{Epoch: h.current.Epoch + 1, Config: newCfg}
	epoch := h.current.Epoch
	h.mu.Unlock()

	h.notifyListeners(newCfg)

	summary := Diff(oldCfg, newCfg)
	ev := h.logger.Info()
	if summary.RestartRequired {
		ev = h.logger.Warn()
	}
	ev.Str("event", "config.reload_success").
		Uint64("epoch", epoch).
		Strs("changed", summary.ChangedFields).
		Bool("restart_required", summary.RestartRequired).
		Msg("configuration reloaded")
	return nil
}

// Watch watches the config file until ctx is done. The directory is
// watched so editors that replace the file are still observed. Without a
// config file Watch blocks until ctx is done.
func (h *ConfigHolder) Watch(ctx context.Context) error {
	path := h.loader.Path()
	if path == "" {
		h.logger.Info().
			Str("event", "config.watcher_disabled").
			Msg("config file watcher disabled (using ENV-only configuration)")
		<-ctx.Done()
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	path = filepath.Clean(path)
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("watch config dir: %w", err)
	}

	h.logger.Info().
		Str("event", "config.watcher_started").
		Str("path", path).
		Msg("watching config file for changes")

	h.watchLoop(ctx, watcher, path)
	return nil
}

func (h *ConfigHolder) watchLoop(ctx context.Context, watcher *fsnotify.Watcher, path string) {
	// Debounce timer to avoid multiple reloads for rapid file changes
	debounce := time.NewTimer(h.debounce)
	if !debounce.Stop() {
		<-debounce.C
	}
	defer debounce.Stop()

	for {
		select {
		case <-ctx.Done():
			h.logger.Info().Str("event", "config.watcher_stopped").Msg("config watcher stopped")
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != path {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				h.logger.Debug().
					Str("event", "config.file_changed").
					Str("op", event.Op.String()).
					Msg("config file changed")
				debounce.Reset(h.debounce)
			}

		case <-debounce.C:
			if err := h.Reload(ctx); err != nil {
				h.logger.Error().
					Err(err).
					Str("event", "config.auto_reload_failed").
					Msg("automatic config reload failed")
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			h.logger.Error().
				Err(err).
				Str("event", "config.watcher_error").
				Msg("config watcher error")
		}
	}
}

// RegisterListener registers a channel to receive config reload notifications.
// The channel will receive the new config whenever a reload succeeds.
// The caller is responsible for closing the channel.
func (h *ConfigHolder) RegisterListener(ch chan<- AppConfig) {
	h.reloadMu.Lock()
	defer h.reloadMu.Unlock()
	h.reloadListeners = append(h.reloadListeners, ch)
}

// notifyListeners sends the new config to all registered listeners (non-blocking).
func (h *ConfigHolder) notifyListeners(newCfg AppConfig) {
	h.reloadMu.RLock()
	defer h.reloadMu.RUnlock()

	for _, ch := range h.reloadListeners {
		select {
		case ch <- newCfg:
		default:
			h.logger.Warn().
				Str("event", "config.listener_skip").
				Msg("skipped notifying listener (channel full)")
		}
	}
}
