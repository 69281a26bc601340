// SPDX-License-Identifier: MIT

// Package cache provides byte-oriented caches with TTL support for widget
// payloads. Values are opaque; callers encode them (JSON in practice).
package cache

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Cache provides thread-safe caching with expiration support.
type Cache interface {
	// Get retrieves a value. The second result is false when absent or expired.
	Get(ctx context.Context, key string) ([]byte, bool)
	// Set stores a value with the given TTL. A non-positive TTL never expires.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
	Delete(ctx context.Context, key string)
	Stats() Stats
	Close() error
}

// Stats holds cache counters.
type Stats struct {
	Hits        int64 // Number of successful Get operations
	Misses      int64 // Number of failed Get operations (not found or expired)
	Sets        int64
	Evictions   int64 // Number of expired entries cleaned up
	CurrentSize int
}

// Backend names accepted by New.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendNone   = "none"
)

// Options selects and configures a cache backend.
type Options struct {
	Backend         string
	CleanupInterval time.Duration
	Redis           RedisConfig
}

// New builds the cache selected by opts.Backend. The empty backend is memory.
func New(opts Options) (Cache, error) {
	switch opts.Backend {
	case "", BackendMemory:
		return NewMemoryCache(opts.CleanupInterval), nil
	case BackendRedis:
		c, err := NewRedisCache(opts.Redis)
		if err != nil {
			return nil, err
		}
		return c, nil
	case BackendNone:
		return NewNoOpCache(), nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", opts.Backend)
	}
}

type entry struct {
	value      []byte
	expiration time.Time
}

func (e *entry) isExpired(now time.Time) bool {
	return !e.expiration.IsZero() && now.After(e.expiration)
}

// MemoryCache is an in-memory implementation of Cache.
type MemoryCache struct {
	mu      sync.Mutex
	entries map[string]*entry
	stats   Stats
	now     func() time.Time
	janitor *janitor
	once    sync.Once
}

// NewMemoryCache creates a new in-memory cache. A positive cleanupInterval
// starts a janitor goroutine that removes expired entries; Close stops it.
func NewMemoryCache(cleanupInterval time.Duration) *MemoryCache {
	c := &MemoryCache{
		entries: make(map[string]*entry),
		now:     time.Now,
	}
	if cleanupInterval > 0 {
		c.janitor = &janitor{
			interval: cleanupInterval,
			stop:     make(chan struct{}),
			done:     make(chan struct{}),
		}
		go c.janitor.run(c)
	}
	return c
}

// Get retrieves a copy of the cached value.
func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, found := c.entries[key]
	if !found || e.isExpired(c.now()) {
		c.stats.Misses++
		return nil, false
	}
	c.stats.Hits++
	return append([]byte(nil), e.value...), true
}

// Set stores a copy of value.
func (c *MemoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := &entry{value: append([]byte(nil), value...)}
	if ttl > 0 {
		e.expiration = c.now().Add(ttl)
	}
	c.entries[key] = e
	c.stats.Sets++
}

// Delete removes a value from the cache.
func (c *MemoryCache) Delete(_ context.Context, key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// Stats returns cache statistics.
func (c *MemoryCache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	stats := c.stats
	stats.CurrentSize = len(c.entries)
	return stats
}

// deleteExpired removes all expired entries and returns how many were removed.
func (c *MemoryCache) deleteExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	count := 0
	for key, e := range c.entries {
		if e.isExpired(now) {
			delete(c.entries, key)
			count++
		}
	}
	c.stats.Evictions += int64(count)
	return count
}

// Close stops the janitor. It is safe to call more than once.
func (c *MemoryCache) Close() error {
	c.once.Do(func() {
		if c.janitor != nil {
			close(c.janitor.stop)
			<-c.janitor.done
		}
	})
	return nil
}

type janitor struct {
	interval time.Duration
	stop     chan struct{}
	done     chan struct{}
}

func (j *janitor) run(c *MemoryCache) {
	defer close(j.done)
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.deleteExpired()
		case <-j.stop:
			return
		}
	}
}

type noOpCache struct{}

// NewNoOpCache creates a cache that doesn't cache anything.
func NewNoOpCache() Cache {
	return noOpCache{}
}

func (noOpCache) Get(context.Context, string) ([]byte, bool)         { return nil, false }
func (noOpCache) Set(context.Context, string, []byte, time.Duration) {}
func (noOpCache) Delete(context.Context, string)                     {}
func (noOpCache) Stats() Stats                                       { return Stats{} }
func (noOpCache) Close() error                                       { return nil }
