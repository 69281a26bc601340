// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package bus

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/ManuGH/vodplay/internal/log"
	"github.com/ManuGH/vodplay/internal/metrics"
)

// MemoryBus is an in-memory pub/sub. It is not durable; delivery is
// best-effort while publish contexts remain active.
type MemoryBus struct {
	mu     sync.RWMutex
	subs   map[string][]chan Message
	buffer int
}

const (
	dropLogEvery  = 100
	defaultBuffer = 64
)

var dropCount atomic.Uint64

func NewMemoryBus() *MemoryBus {
	return &MemoryBus{subs: make(map[string][]chan Message), buffer: defaultBuffer}
}

func publishDropReason(err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return metrics.DropTimeout
	case errors.Is(err, context.Canceled):
		return metrics.DropCanceled
	default:
		return "context_done"
	}
}

func (b *MemoryBus) Publish(ctx context.Context, topic string, msg Message) error {
	if ctx == nil {
		return fmt.Errorf("publish context is nil")
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, ch := range b.subs[topic] {
		select {
		case ch <- msg:
		case <-ctx.Done():
			reason := publishDropReason(ctx.Err())
			metrics.IncBusDrop(topic, reason)
			count := dropCount.Add(1)
			if count%dropLogEvery == 0 {
				log.L().Warn().
					Str("topic", topic).
					Str("reason", reason).
					Uint64("dropped", count).
					Msg("memory bus failed to publish due to context cancellation")
			}
			return fmt.Errorf("publish topic %q: %w", topic, ctx.Err())
		}
	}
	return nil
}

// TryPublish delivers without blocking; full subscribers miss the message.
func (b *MemoryBus) TryPublish(topic string, msg Message) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, ch := range b.subs[topic] {
		select {
		case ch <- msg:
		default:
			metrics.IncBusDrop(topic, metrics.DropFull)
		}
	}
}

func (b *MemoryBus) Subscribe(_ context.Context, topic string) (Subscriber, error) {
	ch := make(chan Message, b.buffer)

	b.mu.Lock()
	b.subs[topic] = append(b.subs[topic], ch)
	b.mu.Unlock()

	return &memSub{b: b, topic: topic, ch: ch}, nil
}

type memSub struct {
	b      *MemoryBus
	topic  string
	ch     chan Message
	closed atomic.Bool
}

func (s *memSub) C() <-chan Message {
	return s.ch
}

func (s *memSub) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	s.b.mu.Lock()
	defer s.b.mu.Unlock()

	lst := s.b.subs[s.topic]
	out := lst[:0]
	for _, c := range lst {
		if c != s.ch {
			out = append(out, c)
		}
	}
	if len(out) == 0 {
		delete(s.b.subs, s.topic)
	} else {
		s.b.subs[s.topic] = out
	}
	close(s.ch) // Signal subscriber to stop
	return nil
}

// Ensure compliance
var _ Bus = (*MemoryBus)(nil)
