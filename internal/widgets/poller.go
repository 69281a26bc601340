// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package widgets

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/time/rate"

	"github.com/ManuGH/vodplay/internal/cache"
	xglog "github.com/ManuGH/vodplay/internal/log"
	"github.com/ManuGH/vodplay/internal/metrics"
	"github.com/ManuGH/vodplay/internal/resilience"
	"github.com/ManuGH/vodplay/internal/telemetry"
)

const tracerName = "github.com/ManuGH/vodplay/internal/widgets"

// Fetch outcomes reported to metrics.
const (
	outcomeSuccess     = "success"
	outcomeError       = "error"
	outcomeConfigError = "config_error"
	outcomeThrottled   = "throttled"
	outcomeCircuitOpen = "circuit_open"
)

// ErrThrottled is returned by Refetch when the manual refresh budget is spent.
var ErrThrottled = errors.New("widget refresh throttled")

// Status is the lifecycle state of a widget.
type Status string

const (
	StatusLoading Status = "loading"
	StatusReady   Status = "ready"
	StatusError   Status = "error"
)

// Snapshot is the externally visible state of a widget. Data survives
// failed fetches so the last good value stays on screen next to the error.
type Snapshot[T any] struct {
	Status    Status    `json:"status"`
	Data      *T        `json:"data"`
	Error     string    `json:"error,omitempty"`
	UpdatedAt time.Time `json:"updatedAt,omitzero"`
}

// FetchFunc performs one upstream request.
type FetchFunc[T any] func(ctx context.Context) (T, error)

// PollerConfig tunes a Poller.
type PollerConfig struct {
	Interval       time.Duration
	RefetchRate    rate.Limit
	RefetchBurst   int
	BreakerFails   int
	BreakerTimeout time.Duration
	CacheTTL       time.Duration
	// FallbackError is shown when the failure carries no usable message.
	FallbackError string
}

// Poller fetches a value on a fixed interval and on demand.
type Poller[T any] struct {
	name    string
	cfg     PollerConfig
	fetch   FetchFunc[T]
	breaker *resilience.CircuitBreaker
	limiter *rate.Limiter
	cache   cache.Cache
	logger  zerolog.Logger
	now     func() time.Time

	fetchMu sync.Mutex // serializes upstream requests

	mu      sync.Mutex
	snap    Snapshot[T]
	blocked bool // config error; scheduled ticks are skipped
	kick    chan struct{}
}

type cachedValue[T any] struct {
	Data      T         `json:"data"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewPoller builds a Poller. A nil cache disables warm starts.
func NewPoller[T any](name string, cfg PollerConfig, fetch FetchFunc[T], c cache.Cache) *Poller[T] {
	if c == nil {
		c = cache.NewNoOpCache()
	}
	if cfg.Interval <= 0 {
		cfg.Interval = time.Minute
	}
	if cfg.RefetchBurst <= 0 {
		cfg.RefetchBurst = 1
	}
	if cfg.RefetchRate == 0 {
		cfg.RefetchRate = rate.Every(time.Second)
	}
	return &Poller[T]{
		name:  name,
		cfg:   cfg,
		fetch: fetch,
		breaker: resilience.NewCircuitBreaker("widget_"+name, cfg.BreakerFails, cfg.BreakerTimeout,
			resilience.WithFailureFilter(countsAgainstBreaker)),
		limiter: rate.NewLimiter(cfg.RefetchRate, cfg.RefetchBurst),
		cache:   c,
		logger:  xglog.WithComponent("widgets").With().Str("widget", name).Logger(),
		now:     time.Now,
		snap:    Snapshot[T]{Status: StatusLoading},
		kick:    make(chan struct{}, 1),
	}
}

func countsAgainstBreaker(err error) bool {
	var cfgErr *ConfigError
	if errors.As(err, &cfgErr) {
		return false
	}
	return resilience.IgnoreCancellation(err)
}

// Name returns the widget name.
func (p *Poller[T]) Name() string { return p.name }

// Snapshot returns the current state.
func (p *Poller[T]) Snapshot() Snapshot[T] {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snap
}

// Run fetches immediately and then once per interval until ctx is done.
func (p *Poller[T]) Run(ctx context.Context) error {
	p.warmStart(ctx)
	p.fetchOnce(ctx)

	ticker := time.NewTicker(p.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if p.isBlocked() {
				continue
			}
			p.fetchOnce(ctx)
		case <-p.kick:
			p.fetchOnce(ctx)
		}
	}
}

// Refetch performs a manual fetch and returns the resulting snapshot. It
// clears a configuration block so a fixed key is picked up.
func (p *Poller[T]) Refetch(ctx context.Context) (Snapshot[T], error) {
	if !p.limiter.Allow() {
		metrics.RecordWidgetFetch(p.name, outcomeThrottled, 0)
		return p.Snapshot(), ErrThrottled
	}
	p.fetchOnce(ctx)
	return p.Snapshot(), nil
}

// Reconfigure lifts a configuration block and schedules a fetch on the Run
// loop. The breaker is reset since the upstream settings changed.
func (p *Poller[T]) Reconfigure() {
	p.mu.Lock()
	p.blocked = false
	p.mu.Unlock()
	p.breaker.Reset()

	select {
	case p.kick <- struct{}{}:
	default:
	}
}

func (p *Poller[T]) isBlocked() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.blocked
}

func (p *Poller[T]) warmStart(ctx context.Context) {
	raw, ok := p.cache.Get(ctx, p.name)
	if !ok {
		return
	}
	var cached cachedValue[T]
	if err := json.Unmarshal(raw, &cached); err != nil {
		p.logger.Warn().Err(err).Str("event", "widget.cache.decode_failed").Msg("ignoring cached widget value")
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.snap.Data == nil {
		p.snap = Snapshot[T]{Status: StatusReady, Data: &cached.Data, UpdatedAt: cached.UpdatedAt}
	}
}

func (p *Poller[T]) fetchOnce(ctx context.Context) {
	p.fetchMu.Lock()
	defer p.fetchMu.Unlock()

	ctx, span := telemetry.Tracer(tracerName).Start(ctx, "widget.fetch")
	span.SetAttributes(telemetry.WidgetAttributes(p.name, "")...)
	defer span.End()

	p.mu.Lock()
	prev := p.snap
	p.snap.Status = StatusLoading
	p.snap.Error = ""
	p.mu.Unlock()

	var value T
	start := p.now()
	err := p.breaker.ExecuteContext(ctx, func(ctx context.Context) error {
		v, err := p.fetch(ctx)
		if err != nil {
			return err
		}
		value = v
		return nil
	})
	elapsed := p.now().Sub(start)

	if err == nil {
		p.succeed(ctx, value, elapsed)
		return
	}

	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())

	if ctx.Err() != nil {
		// Shutdown or caller went away; keep what was there.
		p.mu.Lock()
		p.snap = prev
		p.mu.Unlock()
		return
	}

	p.fail(err, elapsed)
}

func (p *Poller[T]) succeed(ctx context.Context, value T, elapsed time.Duration) {
	updated := p.now()

	p.mu.Lock()
	p.snap = Snapshot[T]{Status: StatusReady, Data: &value, UpdatedAt: updated}
	p.blocked = false
	p.mu.Unlock()

	metrics.RecordWidgetFetch(p.name, outcomeSuccess, elapsed)

	raw, err := json.Marshal(cachedValue[T]{Data: value, UpdatedAt: updated})
	if err != nil {
		p.logger.Warn().Err(err).Str("event", "widget.cache.encode_failed").Msg("widget value not cached")
		return
	}
	p.cache.Set(ctx, p.name, raw, p.cfg.CacheTTL)
}

func (p *Poller[T]) fail(err error, elapsed time.Duration) {
	msg := err.Error()
	outcome := outcomeError
	blocked := false

	var cfgErr *ConfigError
	switch {
	case errors.As(err, &cfgErr):
		outcome = outcomeConfigError
		blocked = true
		elapsed = 0
	case errors.Is(err, resilience.ErrCircuitOpen):
		outcome = outcomeCircuitOpen
		msg = p.cfg.FallbackError
		elapsed = 0
	}
	if msg == "" {
		msg = p.cfg.FallbackError
	}

	p.mu.Lock()
	p.snap.Status = StatusError
	p.snap.Error = msg
	p.blocked = blocked
	p.mu.Unlock()

	metrics.RecordWidgetFetch(p.name, outcome, elapsed)
	p.logger.Warn().
		Err(err).
		Str("event", "widget.fetch.failed").
		Str("outcome", outcome).
		Msg("widget fetch failed")
}
