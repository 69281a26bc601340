// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package daemon

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/ManuGH/vodplay/internal/config"
	"github.com/rs/zerolog"
)

// Runner is a background subsystem that works until ctx is done.
type Runner interface {
	Run(ctx context.Context) error
}

// ConfigListener applies a reloaded configuration to a running subsystem.
type ConfigListener func(cfg config.AppConfig)

// App owns the long-lived runtime lifecycle (config watcher, reload wiring,
// pollers) and delegates server management to Manager.
type App struct {
	logger       zerolog.Logger
	manager      Manager
	cfgHolder    *config.ConfigHolder
	runners      map[string]Runner
	listeners    []ConfigListener
	reloadSignal os.Signal
}

// NewApp creates a new App orchestrator.
func NewApp(logger zerolog.Logger, manager Manager, cfgHolder *config.ConfigHolder) *App {
	return &App{
		logger:       logger,
		manager:      manager,
		cfgHolder:    cfgHolder,
		runners:      make(map[string]Runner),
		reloadSignal: syscall.SIGHUP,
	}
}

// AddRunner registers a background subsystem. A runner error stops the app.
func (a *App) AddRunner(name string, r Runner) {
	a.runners[name] = r
}

// OnConfigReload registers a listener called after every successful reload.
func (a *App) OnConfigReload(l ConfigListener) {
	a.listeners = append(a.listeners, l)
}

// Run starts all owned background subsystems and blocks until ctx is cancelled or a fatal error occurs.
func (a *App) Run(ctx context.Context) error {
	if a.manager == nil {
		return ErrMissingManager
	}

	g, ctx := errgroup.WithContext(ctx)

	if a.cfgHolder != nil {
		// The watcher is best-effort: the daemon keeps serving without it.
		g.Go(func() error {
			if err := a.cfgHolder.Watch(ctx); err != nil {
				a.logger.Warn().Err(err).Str("event", "config.watcher_start_failed").Msg("failed to start config watcher")
			}
			return nil
		})
	}

	if a.cfgHolder != nil && len(a.listeners) > 0 {
		applyCh := make(chan config.AppConfig, 1)
		a.cfgHolder.RegisterListener(applyCh)

		g.Go(func() error {
			for {
				select {
				case <-ctx.Done():
					return nil
				case cfg := <-applyCh:
					for _, l := range a.listeners {
						l(cfg)
					}
				}
			}
		})
	}

	if a.cfgHolder != nil && a.reloadSignal != nil {
		g.Go(func() error {
			hupChan := make(chan os.Signal, 1)
			signal.Notify(hupChan, a.reloadSignal)
			defer signal.Stop(hupChan)

			for {
				select {
				case <-ctx.Done():
					return nil
				case <-hupChan:
					a.logger.Info().
						Str("event", "config.reload_signal").
						Str("signal", a.reloadSignal.String()).
						Msg("received reload signal, reloading config")

					if err := a.cfgHolder.Reload(ctx); err != nil {
						a.logger.Warn().
							Err(err).
							Str("event", "config.reload_failed").
							Msg("config reload failed")
					}
				}
			}
		})
	}

	for name, r := range a.runners {
		g.Go(func() error {
			a.logger.Debug().Str("runner", name).Msg("starting background runner")
			if err := r.Run(ctx); err != nil && ctx.Err() == nil {
				a.logger.Error().Err(err).Str("event", "runner.failed").Str("runner", name).Msg("background runner failed")
				return err
			}
			return nil
		})
	}

	g.Go(func() error {
		err := a.manager.Start(ctx)
		if err != nil {
			_ = a.manager.Shutdown(context.Background())
		}
		return err
	})

	return g.Wait()
}
