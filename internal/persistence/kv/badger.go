// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package kv

import (
	"context"
	"errors"

	"github.com/dgraph-io/badger/v4"
)

const badgerPrefix = "kv:"

// BadgerStore implements Store on an embedded badger database.
type BadgerStore struct {
	db *badger.DB
}

// OpenBadgerStore opens (or creates) a badger database in dir.
func OpenBadgerStore(dir string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &BadgerStore{db: db}, nil
}

// openInMemoryBadger is used by tests; nothing touches the filesystem.
func openInMemoryBadger() (*BadgerStore, error) {
	db, err := badger.Open(badger.DefaultOptions("").WithInMemory(true).WithLogger(nil))
	if err != nil {
		return nil, err
	}
	return &BadgerStore{db: db}, nil
}

func (s *BadgerStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	var out []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(badgerPrefix + key))
		if err != nil {
			return err
		}
		out, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return out, true, nil
}

func (s *BadgerStore) Put(_ context.Context, key string, value []byte) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(badgerPrefix+key), value)
	})
}

func (s *BadgerStore) Delete(_ context.Context, key string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(badgerPrefix + key))
	})
}

func (s *BadgerStore) Ping(context.Context) error {
	if s.db.IsClosed() {
		return ErrClosed
	}
	return nil
}

func (s *BadgerStore) Close() error { return s.db.Close() }
