// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package testkit

import (
	"sync"

	"github.com/ManuGH/vodplay/internal/player/ports"
)

// FakeEngine records every call made on it.
type FakeEngine struct {
	mu sync.Mutex

	SessionID string
	Config    ports.EngineConfig

	Sources       []string
	Attached      int
	StartLoads    int
	MediaRecovers int
	Levels        []int
	Destroyed     int

	StartLoadErr error
	RecoverErr   error
}

func (e *FakeEngine) LoadSource(url string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.Sources = append(e.Sources, url)
	return nil
}

func (e *FakeEngine) AttachMedia() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.Attached++
	return nil
}

func (e *FakeEngine) StartLoad() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.StartLoads++
	return e.StartLoadErr
}

func (e *FakeEngine) RecoverMediaError() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.MediaRecovers++
	return e.RecoverErr
}

func (e *FakeEngine) SetLevel(level int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.Levels = append(e.Levels, level)
	return nil
}

func (e *FakeEngine) Destroy() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.Destroyed++
	return nil
}

// StartLoadCount is a locked read of StartLoads.
func (e *FakeEngine) StartLoadCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.StartLoads
}

// FakeEngineFactory hands out FakeEngines.
type FakeEngineFactory struct {
	mu sync.Mutex

	Unsupported bool
	NewErr      error
	Engines     []*FakeEngine
}

func (f *FakeEngineFactory) Supported() bool { return !f.Unsupported }

func (f *FakeEngineFactory) New(sessionID string, cfg ports.EngineConfig) (ports.Engine, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.NewErr != nil {
		return nil, f.NewErr
	}
	e := &FakeEngine{SessionID: sessionID, Config: cfg}
	f.Engines = append(f.Engines, e)
	return e, nil
}

// Last returns the most recently created engine, or nil.
func (f *FakeEngineFactory) Last() *FakeEngine {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.Engines) == 0 {
		return nil
	}
	return f.Engines[len(f.Engines)-1]
}
