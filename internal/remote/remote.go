// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package remote implements the player ports for a view living in a browser.
// Element and engine calls become Command messages on the command topic;
// the browser executes them and reports the resulting native events back.
package remote

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/ManuGH/vodplay/internal/bus"
	xglog "github.com/ManuGH/vodplay/internal/log"
)

const publishTimeout = time.Second

// Target addresses the object a command is executed on.
type Target string

const (
	TargetElement Target = "element"
	TargetEngine  Target = "engine"
)

// Command is one instruction for the attached view.
type Command struct {
	Seq       uint64         `json:"seq"`
	Target    Target         `json:"target"`
	SessionID string         `json:"sessionId,omitempty"`
	Name      string         `json:"name"`
	Args      map[string]any `json:"args,omitempty"`
}

// Capabilities is what the view reports when it attaches.
type Capabilities struct {
	NativeHLS bool `json:"nativeHls"`
	Engine    bool `json:"engine"`
	PiP       bool `json:"pip"`
}

// Link publishes commands for one daemon. Sequence numbers are shared by
// every view so a reconnecting stream can detect gaps.
type Link struct {
	bus    bus.Bus
	seq    atomic.Uint64
	logger zerolog.Logger
}

func NewLink(b bus.Bus) *Link {
	return &Link{bus: b, logger: xglog.WithComponent("remote")}
}

// Attach builds the element and engine factory for a freshly attached view.
func (l *Link) Attach(caps Capabilities) (*Element, *EngineFactory) {
	el := newElement(l, caps)
	return el, &EngineFactory{link: l, supported: caps.Engine}
}

func (l *Link) send(ctx context.Context, cmd Command) error {
	cmd.Seq = l.seq.Add(1)
	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()
	if err := l.bus.Publish(ctx, bus.TopicCommands, cmd); err != nil {
		l.logger.Warn().
			Err(err).
			Str("event", "remote.command.dropped").
			Str("target", string(cmd.Target)).
			Str("command", cmd.Name).
			Msg("command not delivered to view")
		return fmt.Errorf("send %s.%s: %w", cmd.Target, cmd.Name, err)
	}
	return nil
}
