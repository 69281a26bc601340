// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOpenAppliesWAL(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "wal.sqlite"), DefaultConfig())
	require.NoError(t, err)
	defer db.Close()

	var mode string
	require.NoError(t, db.QueryRow("PRAGMA journal_mode").Scan(&mode))
	require.Equal(t, "wal", mode)
}

func TestVerifyIntegrityHealthy(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "healthy.sqlite"), DefaultConfig())
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec("CREATE TABLE test (id INTEGER PRIMARY KEY, data TEXT);")
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		_, err = db.Exec("INSERT INTO test (data) VALUES ('payload')")
		require.NoError(t, err)
	}

	issues, err := VerifyIntegrity(context.Background(), db, false)
	require.NoError(t, err)
	require.Nil(t, issues)

	issues, err = VerifyIntegrity(context.Background(), db, true)
	require.NoError(t, err)
	require.Nil(t, issues)
}
