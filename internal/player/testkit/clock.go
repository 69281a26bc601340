// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package testkit provides in-memory fakes of the player ports.
package testkit

import (
	"sort"
	"sync"
	"time"

	"github.com/ManuGH/vodplay/internal/player/ports"
)

// FakeClock fires timers only when Advance moves past their deadline.
type FakeClock struct {
	mu     sync.Mutex
	now    time.Duration
	seq    int
	timers []*fakeTimer
}

type fakeTimer struct {
	clock   *FakeClock
	at      time.Duration
	seq     int
	f       func()
	stopped bool
	fired   bool
}

func NewFakeClock() *FakeClock { return &FakeClock{} }

func (c *FakeClock) AfterFunc(d time.Duration, f func()) ports.Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	t := &fakeTimer{clock: c, at: c.now + d, seq: c.seq, f: f}
	c.timers = append(c.timers, t)
	return t
}

func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

// Advance moves the clock and runs due callbacks in deadline order.
// Callbacks run without the clock lock held.
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now += d
	var due []*fakeTimer
	var rest []*fakeTimer
	for _, t := range c.timers {
		switch {
		case t.stopped:
		case t.at <= c.now:
			t.fired = true
			due = append(due, t)
		default:
			rest = append(rest, t)
		}
	}
	c.timers = rest
	c.mu.Unlock()

	sort.Slice(due, func(i, j int) bool {
		if due[i].at == due[j].at {
			return due[i].seq < due[j].seq
		}
		return due[i].at < due[j].at
	})
	for _, t := range due {
		t.f()
	}
}

// FireAll runs every scheduled callback, including stopped ones. It models a
// timer that was already in flight when it got cancelled.
func (c *FakeClock) FireAll() {
	c.mu.Lock()
	all := c.timers
	c.timers = nil
	c.mu.Unlock()
	for _, t := range all {
		t.f()
	}
}

// Pending counts timers neither fired nor stopped.
func (c *FakeClock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, t := range c.timers {
		if !t.stopped {
			n++
		}
	}
	return n
}
