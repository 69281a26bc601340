// SPDX-License-Identifier: MIT

// Package health serves the daemon's liveness and readiness probes.
// Liveness always answers 200; readiness fails while a required component
// (the player store) is unreachable.
package health

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/ManuGH/vodplay/internal/log"
)

// Status represents the overall health/readiness status
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusDegraded  Status = "degraded"
	StatusUnhealthy Status = "unhealthy"
)

// CheckResult represents the result of a component health check
type CheckResult struct {
	Status  Status `json:"status"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// HealthResponse is the liveness payload.
type HealthResponse struct {
	Status    Status                 `json:"status"`
	Version   string                 `json:"version,omitempty"`
	Uptime    int64                  `json:"uptimeSeconds"`
	Timestamp time.Time              `json:"timestamp"`
	Checks    map[string]CheckResult `json:"checks,omitempty"`
}

// ReadinessResponse is the readiness payload.
type ReadinessResponse struct {
	Ready     bool                   `json:"ready"`
	Status    Status                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Checks    map[string]CheckResult `json:"checks,omitempty"`
}

// Checker defines the interface for health checks
type Checker interface {
	Name() string
	Check(ctx context.Context) CheckResult
}

// Manager runs the registered checkers.
type Manager struct {
	version string
	started time.Time
	now     func() time.Time

	mu       sync.RWMutex
	checkers []Checker
}

// NewManager creates a new health check manager
func NewManager(version string) *Manager {
	return &Manager{
		version: version,
		started: time.Now(),
		now:     time.Now,
	}
}

// RegisterChecker adds a health checker to the manager
func (m *Manager) RegisterChecker(checker Checker) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.checkers = append(m.checkers, checker)
}

func (m *Manager) runChecks(ctx context.Context) (map[string]CheckResult, Status) {
	m.mu.RLock()
	checkers := append([]Checker(nil), m.checkers...)
	m.mu.RUnlock()

	if len(checkers) == 0 {
		return nil, StatusHealthy
	}

	results := make(map[string]CheckResult, len(checkers))
	overall := StatusHealthy
	for _, c := range checkers {
		res := c.Check(ctx)
		results[c.Name()] = res
		switch res.Status {
		case StatusUnhealthy:
			overall = StatusUnhealthy
		case StatusDegraded:
			if overall == StatusHealthy {
				overall = StatusDegraded
			}
		}
	}
	return results, overall
}

// Health reports liveness. Component checks only run when verbose is set.
func (m *Manager) Health(ctx context.Context, verbose bool) HealthResponse {
	now := m.now()
	resp := HealthResponse{
		Status:    StatusHealthy,
		Version:   m.version,
		Uptime:    int64(now.Sub(m.started).Seconds()),
		Timestamp: now,
	}
	if verbose {
		resp.Checks, resp.Status = m.runChecks(ctx)
	}
	return resp
}

// Ready reports readiness. Degraded components do not fail readiness.
func (m *Manager) Ready(ctx context.Context) ReadinessResponse {
	checks, status := m.runChecks(ctx)
	return ReadinessResponse{
		Ready:     status != StatusUnhealthy,
		Status:    status,
		Timestamp: m.now(),
		Checks:    checks,
	}
}

// ServeHealth handles GET /healthz.
func (m *Manager) ServeHealth(w http.ResponseWriter, r *http.Request) {
	logger := log.WithComponentFromContext(r.Context(), "health")
	verbose := r.URL.Query().Get("verbose") == "true"

	resp := m.Health(r.Context(), verbose)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logger.Error().Err(err).Str("event", "health.encode_error").Msg("failed to encode health response")
	}

	logger.Debug().
		Str("event", "health.checked").
		Str("status", string(resp.Status)).
		Bool("verbose", verbose).
		Msg("health check performed")
}

// ServeReady handles GET /readyz.
func (m *Manager) ServeReady(w http.ResponseWriter, r *http.Request) {
	logger := log.WithComponentFromContext(r.Context(), "readiness")

	resp := m.Ready(r.Context())

	w.Header().Set("Content-Type", "application/json")
	if resp.Ready {
		w.WriteHeader(http.StatusOK)
	} else {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logger.Error().Err(err).Str("event", "readiness.encode_error").Msg("failed to encode readiness response")
	}

	logger.Debug().
		Str("event", "readiness.checked").
		Str("status", string(resp.Status)).
		Bool("ready", resp.Ready).
		Msg("readiness check performed")
}

// FileChecker checks that a file exists and is non-empty. An empty path is
// reported healthy since the file is optional.
type FileChecker struct {
	name string
	path string
}

// NewFileChecker creates a checker for file existence
func NewFileChecker(name, path string) *FileChecker {
	return &FileChecker{name: name, path: path}
}

func (c *FileChecker) Name() string { return c.name }

func (c *FileChecker) Check(context.Context) CheckResult {
	if c.path == "" {
		return CheckResult{Status: StatusHealthy, Message: "not configured (optional)"}
	}

	info, err := os.Stat(c.path)
	if err != nil {
		if os.IsNotExist(err) {
			return CheckResult{Status: StatusUnhealthy, Error: "file not found", Message: c.path}
		}
		return CheckResult{Status: StatusUnhealthy, Error: err.Error()}
	}
	if info.IsDir() {
		return CheckResult{Status: StatusUnhealthy, Error: "expected file, got directory"}
	}
	if info.Size() == 0 {
		return CheckResult{Status: StatusDegraded, Message: "file is empty"}
	}
	return CheckResult{Status: StatusHealthy, Message: "file exists and readable"}
}

// PingChecker adapts a ping function. A failing ping maps to failStatus so
// optional components can report degraded instead of unhealthy.
type PingChecker struct {
	name       string
	ping       func(ctx context.Context) error
	failStatus Status
	timeout    time.Duration
}

// NewPingChecker builds a checker that fails readiness when ping errors.
func NewPingChecker(name string, ping func(ctx context.Context) error) *PingChecker {
	return &PingChecker{name: name, ping: ping, failStatus: StatusUnhealthy, timeout: 2 * time.Second}
}

// NewOptionalChecker builds a checker that only degrades when ping errors.
func NewOptionalChecker(name string, ping func(ctx context.Context) error) *PingChecker {
	c := NewPingChecker(name, ping)
	c.failStatus = StatusDegraded
	return c
}

func (c *PingChecker) Name() string { return c.name }

func (c *PingChecker) Check(ctx context.Context) CheckResult {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	if err := c.ping(ctx); err != nil {
		return CheckResult{Status: c.failStatus, Error: err.Error()}
	}
	return CheckResult{Status: StatusHealthy}
}
