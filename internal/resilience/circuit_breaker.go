// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package resilience guards calls to upstream services.
package resilience

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/ManuGH/vodplay/internal/metrics"
)

// State represents the circuit breaker state.
type State string

const (
	StateClosed   State = "closed"
	StateOpen     State = "open"
	StateHalfOpen State = "half-open"
)

var (
	ErrCircuitOpen = errors.New("circuit breaker is open")
)

// clock abstracts time operations for testability.
type clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// CircuitBreaker opens after threshold consecutive failures and lets a
// single probe through once resetTimeout has elapsed.
type CircuitBreaker struct {
	mu           sync.Mutex
	name         string // Component name for metrics
	state        State
	failures     int
	threshold    int
	resetTimeout time.Duration
	openedAt     time.Time
	probing      bool
	clock        clock
	isFailure    func(error) bool

	// If set, panics in the executed function are recorded as failure and re-panicked.
	recoverPanic bool
}

// Option configuration pattern
type Option func(*CircuitBreaker)

func WithClock(c clock) Option {
	return func(cb *CircuitBreaker) { cb.clock = c }
}

func WithPanicRecovery(enabled bool) Option {
	return func(cb *CircuitBreaker) { cb.recoverPanic = enabled }
}

// WithFailureFilter decides which errors count against the breaker. Errors
// rejected by the filter are returned to the caller without changing state.
func WithFailureFilter(fn func(error) bool) Option {
	return func(cb *CircuitBreaker) { cb.isFailure = fn }
}

// IgnoreCancellation counts every error except context cancellation and
// deadline expiry of the caller.
func IgnoreCancellation(err error) bool {
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}

// NewCircuitBreaker creates a new circuit breaker.
func NewCircuitBreaker(name string, threshold int, resetTimeout time.Duration, opts ...Option) *CircuitBreaker {
	if threshold <= 0 {
		threshold = 3
	}
	if resetTimeout <= 0 {
		resetTimeout = 30 * time.Second
	}

	cb := &CircuitBreaker{
		name:         name,
		state:        StateClosed,
		threshold:    threshold,
		resetTimeout: resetTimeout,
		clock:        realClock{},
		isFailure:    func(error) bool { return true },
	}

	for _, opt := range opts {
		opt(cb)
	}

	metrics.SetCircuitBreakerState(cb.name, string(cb.state))
	return cb
}

// Execute runs the given function respecting the breaker state.
func (cb *CircuitBreaker) Execute(fn func() error) (err error) {
	if !cb.allowRequest() {
		return ErrCircuitOpen
	}

	if cb.recoverPanic {
		defer func() {
			if r := recover(); r != nil {
				cb.recordFailure()
				panic(r)
			}
		}()
	}

	err = fn()
	switch {
	case err == nil:
		cb.recordSuccess()
	case cb.isFailure(err):
		cb.recordFailure()
	default:
		cb.releaseProbe()
	}
	return err
}

// ExecuteContext is Execute for context-aware calls. A context that is
// already done short-circuits without touching the breaker.
func (cb *CircuitBreaker) ExecuteContext(ctx context.Context, fn func(context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return cb.Execute(func() error { return fn(ctx) })
}

func (cb *CircuitBreaker) allowRequest() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case StateClosed:
		return true
	case StateOpen:
		if cb.clock.Now().Sub(cb.openedAt) < cb.resetTimeout {
			return false
		}
		cb.transitionTo(StateHalfOpen)
		cb.probing = true
		return true
	default:
		// Half-open admits one probe at a time.
		if cb.probing {
			return false
		}
		cb.probing = true
		return true
	}
}

func (cb *CircuitBreaker) recordFailure() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.failures++
	cb.probing = false

	if cb.state == StateHalfOpen {
		metrics.RecordCircuitBreakerTrip(cb.name, "half_open_failure")
		cb.transitionTo(StateOpen)
		return
	}

	if cb.state == StateClosed && cb.failures >= cb.threshold {
		metrics.RecordCircuitBreakerTrip(cb.name, "threshold_exceeded")
		cb.transitionTo(StateOpen)
	}
}

func (cb *CircuitBreaker) recordSuccess() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.failures = 0
	cb.probing = false
	if cb.state != StateClosed {
		cb.transitionTo(StateClosed)
	}
}

func (cb *CircuitBreaker) releaseProbe() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.probing = false
}

// Reset closes the breaker and clears the failure count.
func (cb *CircuitBreaker) Reset() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.failures = 0
	cb.probing = false
	cb.transitionTo(StateClosed)
}

// transitionTo handles state transitions and updates metrics.
// Caller must hold lock.
func (cb *CircuitBreaker) transitionTo(newState State) {
	if cb.state == newState {
		return
	}
	cb.state = newState
	if newState == StateOpen {
		cb.openedAt = cb.clock.Now()
	}
	metrics.SetCircuitBreakerState(cb.name, string(newState))
}

// State returns the current state.
func (cb *CircuitBreaker) State() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

// Name returns the component name used for metrics.
func (cb *CircuitBreaker) Name() string {
	return cb.name
}
