// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-contrib/sse"

	"github.com/ManuGH/vodplay/internal/bus"
	xglog "github.com/ManuGH/vodplay/internal/log"
	"github.com/ManuGH/vodplay/internal/metrics"
	"github.com/ManuGH/vodplay/internal/remote"
)

// Stream event names.
const (
	StreamEventState   = "state"
	StreamEventCommand = "command"
)

const stateBuffer = 4

// viewChanged tells open streams to resend the view after attach or detach,
// which change view-local flags without a store mutation.
func (s *Server) viewChanged(ctx context.Context) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), time.Second)
	defer cancel()
	if err := s.deps.Bus.Publish(ctx, bus.TopicState, struct{}{}); err != nil {
		s.logger.Debug().Err(err).Str("event", "stream.view_nudge_dropped").Msg("view change not delivered")
	}
}

// GET /api/v1/player/stream
//
// Server-sent events: "state" carries the player view after every change and
// "command" carries element and engine commands for the attached view. The
// current view is sent first.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeProblem(w, r, ErrInternal, "streaming unsupported")
		return
	}
	ctx := r.Context()
	logger := xglog.WithComponentFromContext(ctx, "stream")

	states, cancelStates := s.deps.Player.Store().Subscribe(stateBuffer)
	defer cancelStates()

	commands, err := s.deps.Bus.Subscribe(ctx, bus.TopicCommands)
	if err != nil {
		writeError(w, r, fmt.Errorf("subscribe commands: %w", err))
		return
	}
	defer func() { _ = commands.Close() }()

	nudges, err := s.deps.Bus.Subscribe(ctx, bus.TopicState)
	if err != nil {
		writeError(w, r, fmt.Errorf("subscribe state: %w", err))
		return
	}
	defer func() { _ = nudges.Close() }()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	metrics.StreamClients.Inc()
	defer metrics.StreamClients.Dec()
	logger.Info().Str("event", "stream.opened").Msg("event stream opened")
	defer logger.Info().Str("event", "stream.closed").Msg("event stream closed")

	if err := writeSSE(w, StreamEventState, "", s.deps.Player.View()); err != nil {
		return
	}
	flusher.Flush()

	keepAlive := time.NewTicker(s.cfg.KeepAlive)
	defer keepAlive.Stop()

	for {
		var err error
		select {
		case <-ctx.Done():
			return
		case _, ok := <-states:
			if !ok {
				return
			}
			err = writeSSE(w, StreamEventState, "", s.deps.Player.View())
		case _, ok := <-nudges.C():
			if !ok {
				return
			}
			err = writeSSE(w, StreamEventState, "", s.deps.Player.View())
		case msg, ok := <-commands.C():
			if !ok {
				return
			}
			cmd, isCmd := msg.(remote.Command)
			if !isCmd {
				continue
			}
			err = writeSSE(w, StreamEventCommand, strconv.FormatUint(cmd.Seq, 10), cmd)
		case <-keepAlive.C:
			_, err = io.WriteString(w, ": ping\n\n")
		}
		if err != nil {
			logger.Debug().Err(err).Str("event", "stream.write_failed").Msg("event stream write failed")
			return
		}
		flusher.Flush()
	}
}

func writeSSE(w io.Writer, event, id string, v any) error {
	return sse.Encode(w, sse.Event{Event: event, Id: id, Data: v})
}
