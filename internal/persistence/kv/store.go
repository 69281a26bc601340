// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package kv is the durable key/value mirror behind the player store
// (volume, history, last video). Values are opaque JSON documents.
package kv

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
)

// Backend names accepted by Open.
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
	BackendBadger = "badger"
	BackendRedis  = "redis"
)

// ErrClosed is returned by operations on a closed store.
var ErrClosed = errors.New("kv: store closed")

// Store is a string-keyed document store. Get reports found=false for missing keys.
type Store interface {
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
	Close() error
}

// Options selects and parameterises a backend.
type Options struct {
	Backend string
	// Dir holds the sqlite/badger files. An empty Dir degrades sqlite to memory.
	Dir   string
	Redis RedisOptions
}

// RedisOptions configures the redis backend.
type RedisOptions struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
}

// Open creates a store for the configured backend.
func Open(opts Options) (Store, error) {
	backend := opts.Backend
	if backend == "" {
		backend = BackendSQLite
	}

	switch backend {
	case BackendMemory:
		return NewMemoryStore(), nil
	case BackendSQLite:
		if opts.Dir == "" {
			return NewMemoryStore(), nil
		}
		return NewSqliteStore(filepath.Join(opts.Dir, "vodplay.sqlite"))
	case BackendBadger:
		if opts.Dir == "" {
			return nil, fmt.Errorf("badger backend requires a data directory")
		}
		return OpenBadgerStore(filepath.Join(opts.Dir, "badger"))
	case BackendRedis:
		return NewRedisStore(opts.Redis)
	default:
		return nil, fmt.Errorf("unknown kv backend: %s (supported: memory, sqlite, badger, redis)", backend)
	}
}
