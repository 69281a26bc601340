// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package kv

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ManuGH/vodplay/internal/persistence/sqlite"
)

const schemaVersion = 1

// SqliteStore implements Store on a single kv_entries table.
type SqliteStore struct {
	DB *sql.DB
}

// NewSqliteStore opens (and migrates) the sqlite store at dbPath.
func NewSqliteStore(dbPath string) (*SqliteStore, error) {
	db, err := sqlite.Open(dbPath, sqlite.DefaultConfig())
	if err != nil {
		return nil, err
	}

	s := &SqliteStore{DB: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("kv store: migration failed: %w", err)
	}
	return s, nil
}

func (s *SqliteStore) migrate() error {
	var currentVersion int
	if err := s.DB.QueryRow("PRAGMA user_version").Scan(&currentVersion); err != nil {
		return err
	}
	if currentVersion >= schemaVersion {
		return nil
	}

	tx, err := s.DB.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	schema := `
	CREATE TABLE IF NOT EXISTS kv_entries (
		key TEXT PRIMARY KEY,
		value BLOB NOT NULL,
		updated_at TEXT NOT NULL
	);
	`
	if _, err := tx.Exec(schema); err != nil {
		return err
	}
	if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", schemaVersion)); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *SqliteStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var value []byte
	err := s.DB.QueryRowContext(ctx, `SELECT value FROM kv_entries WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return value, true, nil
}

func (s *SqliteStore) Put(ctx context.Context, key string, value []byte) error {
	query := `
	INSERT INTO kv_entries (key, value, updated_at)
	VALUES (?, ?, ?)
	ON CONFLICT(key) DO UPDATE SET
		value = excluded.value,
		updated_at = excluded.updated_at
	`
	_, err := s.DB.ExecContext(ctx, query, key, value, time.Now().UTC().Format(time.RFC3339))
	return err
}

func (s *SqliteStore) Delete(ctx context.Context, key string) error {
	_, err := s.DB.ExecContext(ctx, "DELETE FROM kv_entries WHERE key = ?", key)
	return err
}

// Ping runs a quick integrity check so readiness reflects a usable database.
func (s *SqliteStore) Ping(ctx context.Context) error {
	issues, err := sqlite.VerifyIntegrity(ctx, s.DB, false)
	if err != nil {
		return err
	}
	if len(issues) > 0 {
		return fmt.Errorf("sqlite integrity: %v", issues)
	}
	return nil
}

func (s *SqliteStore) Close() error {
	return s.DB.Close()
}
