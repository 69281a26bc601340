// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package kv

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func backends(t *testing.T) map[string]Store {
	t.Helper()

	sq, err := NewSqliteStore(filepath.Join(t.TempDir(), "kv.sqlite"))
	require.NoError(t, err)

	bg, err := openInMemoryBadger()
	require.NoError(t, err)

	mr := miniredis.RunT(t)
	rs := newRedisStoreWithClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}), "test:")

	stores := map[string]Store{
		"memory": NewMemoryStore(),
		"sqlite": sq,
		"badger": bg,
		"redis":  rs,
	}
	t.Cleanup(func() {
		for _, s := range stores {
			_ = s.Close()
		}
	})
	return stores
}

func TestStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, found, err := s.Get(ctx, "video-volume")
			require.NoError(t, err)
			assert.False(t, found)

			require.NoError(t, s.Put(ctx, "video-volume", []byte("0.5")))
			v, found, err := s.Get(ctx, "video-volume")
			require.NoError(t, err)
			assert.True(t, found)
			assert.Equal(t, "0.5", string(v))

			require.NoError(t, s.Put(ctx, "video-volume", []byte("0.25")))
			v, _, err = s.Get(ctx, "video-volume")
			require.NoError(t, err)
			assert.Equal(t, "0.25", string(v))

			require.NoError(t, s.Delete(ctx, "video-volume"))
			_, found, err = s.Get(ctx, "video-volume")
			require.NoError(t, err)
			assert.False(t, found)

			assert.NoError(t, s.Ping(ctx))
		})
	}
}

func TestRedisStore_UsesPrefix(t *testing.T) {
	mr := miniredis.RunT(t)
	s := newRedisStoreWithClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}), "")
	defer func() { _ = s.Close() }()

	require.NoError(t, s.Put(context.Background(), "last-video", []byte(`{"id":"1"}`)))
	got, err := mr.Get("vodplay:last-video")
	require.NoError(t, err)
	assert.Equal(t, `{"id":"1"}`, got)
}

func TestSqliteStore_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kv.sqlite")
	s, err := NewSqliteStore(path)
	require.NoError(t, err)
	require.NoError(t, s.Put(context.Background(), "video-history", []byte(`[]`)))
	require.NoError(t, s.Close())

	s, err = NewSqliteStore(path)
	require.NoError(t, err)
	defer func() { _ = s.Close() }()
	v, found, err := s.Get(context.Background(), "video-history")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "[]", string(v))
}

func TestMemoryStore_ClosedErrors(t *testing.T) {
	s := NewMemoryStore()
	require.NoError(t, s.Close())
	assert.ErrorIs(t, s.Put(context.Background(), "k", nil), ErrClosed)
	assert.ErrorIs(t, s.Ping(context.Background()), ErrClosed)
}

func TestOpen(t *testing.T) {
	s, err := Open(Options{Backend: BackendMemory})
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, s)

	s, err = Open(Options{Backend: BackendSQLite})
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, s, "sqlite without dir degrades to memory")

	s, err = Open(Options{Backend: BackendSQLite, Dir: t.TempDir()})
	require.NoError(t, err)
	assert.IsType(t, &SqliteStore{}, s)
	_ = s.Close()

	_, err = Open(Options{Backend: BackendBadger})
	assert.Error(t, err)

	_, err = Open(Options{Backend: "etcd"})
	assert.ErrorContains(t, err, "unknown kv backend")
}
