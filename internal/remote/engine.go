// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package remote

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/ManuGH/vodplay/internal/player/ports"
)

// ErrEngineDestroyed is returned by calls on a destroyed engine.
var ErrEngineDestroyed = errors.New("engine destroyed")

// EngineFactory creates browser-side engine instances.
type EngineFactory struct {
	link      *Link
	supported bool
}

func (f *EngineFactory) Supported() bool { return f.supported }

// New asks the view to construct an engine with cfg for sessionID.
func (f *EngineFactory) New(sessionID string, cfg ports.EngineConfig) (ports.Engine, error) {
	eng := &Engine{link: f.link, sessionID: sessionID}
	if err := eng.call("create", map[string]any{"config": cfg.Options()}); err != nil {
		return nil, err
	}
	return eng, nil
}

// Engine is the proxy for one browser-side engine instance.
type Engine struct {
	link      *Link
	sessionID string
	destroyed atomic.Bool
}

func (e *Engine) call(name string, args map[string]any) error {
	if e.destroyed.Load() {
		return ErrEngineDestroyed
	}
	return e.link.send(context.Background(), Command{
		Target:    TargetEngine,
		SessionID: e.sessionID,
		Name:      name,
		Args:      args,
	})
}

func (e *Engine) LoadSource(url string) error {
	return e.call("loadSource", map[string]any{"url": url})
}

func (e *Engine) AttachMedia() error       { return e.call("attachMedia", nil) }
func (e *Engine) StartLoad() error         { return e.call("startLoad", nil) }
func (e *Engine) RecoverMediaError() error { return e.call("recoverMediaError", nil) }

func (e *Engine) SetLevel(level int) error {
	return e.call("setLevel", map[string]any{"level": level})
}

// Destroy is idempotent; only the first call reaches the view.
func (e *Engine) Destroy() error {
	if e.destroyed.Load() {
		return nil
	}
	err := e.call("destroy", nil)
	e.destroyed.Store(true)
	return err
}

var (
	_ ports.EngineFactory = (*EngineFactory)(nil)
	_ ports.Engine        = (*Engine)(nil)
)
