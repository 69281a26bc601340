// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"go.opentelemetry.io/otel/trace"

	"github.com/ManuGH/vodplay/internal/domain/playback"
	xglog "github.com/ManuGH/vodplay/internal/log"
	"github.com/ManuGH/vodplay/internal/player"
	"github.com/ManuGH/vodplay/internal/player/ports"
	"github.com/ManuGH/vodplay/internal/remote"
	"github.com/ManuGH/vodplay/internal/telemetry"
)

type SelectRequest struct {
	ID string `json:"id"`
}

type SeekRequest struct {
	Time *float64 `json:"time"`
}

type VolumeRequest struct {
	Volume *float64 `json:"volume"`
}

type QualityRequest struct {
	Level *int `json:"level"`
}

type AttachRequest struct {
	Capabilities remote.Capabilities `json:"capabilities"`
}

// Event sources accepted by POST /player/events.
const (
	SourceMedia  = "media"
	SourceEngine = "engine"
)

// HistoryResponse lists recently selected videos, newest first.
type HistoryResponse struct {
	Items []playback.Video `json:"items"`
}

// respond answers a player command with the resulting view.
func (s *Server) respond(w http.ResponseWriter, r *http.Request, err error) {
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, s.deps.Player.View())
}

// GET /api/v1/player
func (s *Server) handleGetView(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, s.deps.Player.View())
}

// GET /api/v1/player/history
func (s *Server) handleGetHistory(w http.ResponseWriter, r *http.Request) {
	items := s.deps.Player.View().History
	if items == nil {
		items = []playback.Video{}
	}
	writeJSON(w, r, http.StatusOK, HistoryResponse{Items: items})
}

// POST /api/v1/player/view
func (s *Server) handleAttach(w http.ResponseWriter, r *http.Request) {
	var req AttachRequest
	if !decodeBody(w, r, &req) {
		return
	}
	el, factory := s.deps.Link.Attach(req.Capabilities)
	view := s.deps.Player.Attach(el, factory)
	s.viewChanged(r.Context())

	xglog.WithComponentFromContext(r.Context(), "api").Info().
		Str("event", "player.view.attached").
		Str(xglog.FieldSessionID, view.SessionID).
		Bool("native_hls", req.Capabilities.NativeHLS).
		Bool("engine", req.Capabilities.Engine).
		Msg("browser view attached")
	trace.SpanFromContext(r.Context()).SetAttributes(
		telemetry.PlayerAttributes(videoID(view.State), view.SessionID, view.Mode)...)

	writeJSON(w, r, http.StatusOK, view)
}

// DELETE /api/v1/player/view
func (s *Server) handleDetach(w http.ResponseWriter, r *http.Request) {
	s.deps.Player.Detach()
	s.viewChanged(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

// POST /api/v1/player/events
//
// The body is one media or engine event. Events of a torn-down session are
// acknowledged with 202 and otherwise ignored.
func (s *Server) handleEvent(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeProblem(w, r, ErrInvalidInput, "invalid request body: "+err.Error())
		return
	}
	var head struct {
		Source string `json:"source"`
	}
	if err := json.Unmarshal(raw, &head); err != nil {
		writeProblem(w, r, ErrInvalidInput, "invalid request body: "+err.Error())
		return
	}

	switch head.Source {
	case SourceMedia:
		var ev ports.MediaEvent
		if err := json.Unmarshal(raw, &ev); err != nil {
			writeProblem(w, r, ErrInvalidInput, "invalid media event: "+err.Error())
			return
		}
		if !ev.Kind.Known() {
			writeProblem(w, r, ErrInvalidInput, "unknown media event type "+string(ev.Kind))
			return
		}
		err = s.deps.Player.HandleMediaEvent(ev)
	case SourceEngine:
		var ev ports.EngineEvent
		if err := json.Unmarshal(raw, &ev); err != nil {
			writeProblem(w, r, ErrInvalidInput, "invalid engine event: "+err.Error())
			return
		}
		if ev.Kind != ports.EngineManifestParsed && ev.Kind != ports.EngineError {
			writeProblem(w, r, ErrInvalidInput, "unknown engine event type "+string(ev.Kind))
			return
		}
		err = s.deps.Player.HandleEngineEvent(ev)
	default:
		writeProblem(w, r, ErrInvalidInput, `source must be "media" or "engine"`)
		return
	}

	switch {
	case err == nil:
		w.WriteHeader(http.StatusNoContent)
	case errors.Is(err, player.ErrStaleSession):
		w.WriteHeader(http.StatusAccepted)
	default:
		writeError(w, r, err)
	}
}

// POST /api/v1/player/select
func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	var req SelectRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.ID == "" {
		writeProblem(w, r, ErrInvalidInput, "id is required")
		return
	}
	_, err := s.deps.Player.Select(r.Context(), req.ID)
	s.respond(w, r, err)
}

// POST /api/v1/player/play
func (s *Server) handlePlay(w http.ResponseWriter, r *http.Request) {
	s.respond(w, r, s.deps.Player.Play(r.Context()))
}

// POST /api/v1/player/pause
func (s *Server) handlePause(w http.ResponseWriter, r *http.Request) {
	s.respond(w, r, s.deps.Player.Pause())
}

// POST /api/v1/player/toggle
func (s *Server) handleToggle(w http.ResponseWriter, r *http.Request) {
	s.respond(w, r, s.deps.Player.TogglePlayback(r.Context()))
}

// POST /api/v1/player/seek
func (s *Server) handleSeek(w http.ResponseWriter, r *http.Request) {
	var req SeekRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Time == nil {
		writeProblem(w, r, ErrInvalidInput, "time is required")
		return
	}
	s.respond(w, r, s.deps.Player.Seek(*req.Time))
}

// POST /api/v1/player/volume
func (s *Server) handleVolume(w http.ResponseWriter, r *http.Request) {
	var req VolumeRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Volume == nil {
		writeProblem(w, r, ErrInvalidInput, "volume is required")
		return
	}
	s.deps.Player.SetVolume(*req.Volume)
	s.respond(w, r, nil)
}

// POST /api/v1/player/mute
func (s *Server) handleMute(w http.ResponseWriter, r *http.Request) {
	s.deps.Player.ToggleMute()
	s.respond(w, r, nil)
}

// POST /api/v1/player/fullscreen
func (s *Server) handleFullscreen(w http.ResponseWriter, r *http.Request) {
	s.respond(w, r, s.deps.Player.ToggleFullscreen(r.Context()))
}

// POST /api/v1/player/pip
func (s *Server) handlePiP(w http.ResponseWriter, r *http.Request) {
	s.respond(w, r, s.deps.Player.TogglePiP(r.Context()))
}

// POST /api/v1/player/quality
func (s *Server) handleQuality(w http.ResponseWriter, r *http.Request) {
	var req QualityRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Level == nil {
		writeProblem(w, r, ErrInvalidInput, "level is required")
		return
	}
	s.respond(w, r, s.deps.Player.SetQuality(*req.Level))
}

// DELETE /api/v1/player/error
func (s *Server) handleClearError(w http.ResponseWriter, r *http.Request) {
	s.deps.Player.ClearError()
	s.respond(w, r, nil)
}

func videoID(st playback.State) string {
	if st.CurrentVideo == nil {
		return ""
	}
	return st.CurrentVideo.ID
}
