// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package problem writes RFC 7807 problem details responses.
package problem

import (
	"encoding/json"
	"net/http"

	"github.com/ManuGH/vodplay/internal/log"
)

const (
	HeaderRequestID  = "X-Request-ID"
	JSONKeyRequestID = "requestId"
	ContentType      = "application/problem+json"
)

// Problem is the decoded form of a problem response, used by clients and tests.
type Problem struct {
	Type      string `json:"type"`
	Title     string `json:"title"`
	Status    int    `json:"status"`
	Code      string `json:"code"`
	Detail    string `json:"detail,omitempty"`
	Instance  string `json:"instance,omitempty"`
	RequestID string `json:"requestId,omitempty"`
}

// Write writes an RFC 7807 problem details response.
//
//   - problemType: canonical machine identifier ("player/not_attached").
//   - title: short human label ("Conflict").
//   - code: stable machine-readable code ("NOT_ATTACHED").
//   - detail: explanation of this occurrence.
//
// Extras are merged at the top level; reserved keys are ignored.
func Write(w http.ResponseWriter, r *http.Request, status int, problemType, title, code, detail string, extra map[string]any) {
	instance := ""
	reqID := ""
	if r != nil {
		instance = r.URL.EscapedPath()
		reqID = log.RequestIDFromContext(r.Context())
	}
	if reqID == "" {
		reqID = w.Header().Get(HeaderRequestID)
	}

	res := map[string]any{
		"type":   problemType,
		"title":  title,
		"status": status,
		"code":   code,
	}
	if reqID != "" {
		res[JSONKeyRequestID] = reqID
		w.Header().Set(HeaderRequestID, reqID)
	}
	if detail != "" {
		res["detail"] = detail
	}
	if instance != "" {
		res["instance"] = instance
	}
	for k, v := range extra {
		switch k {
		case "type", "title", "status", "detail", "instance", "code", JSONKeyRequestID:
			log.L().Warn().Str("key", k).Str("problem_type", problemType).Msg("ignoring reserved key in problem extras")
			continue
		}
		res[k] = v
	}

	w.Header().Set("Content-Type", ContentType)
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(res); err != nil {
		log.L().Error().
			Err(err).
			Str("type", problemType).
			Int("status", status).
			Msg("failed to encode problem response")
	}
}
