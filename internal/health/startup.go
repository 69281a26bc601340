// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package health

import (
	"context"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/ManuGH/vodplay/internal/config"
	"github.com/ManuGH/vodplay/internal/log"
)

// PerformStartupChecks validates the environment before the daemon starts
// serving. Missing directories are created.
func PerformStartupChecks(_ context.Context, cfg config.AppConfig) error {
	logger := log.WithComponent("startup-check")
	logger.Info().Str("event", "startup.checks.begin").Msg("running pre-flight startup checks")

	if err := checkWritableDir(logger, cfg.DataDir); err != nil {
		return fmt.Errorf("data directory check failed: %w", err)
	}
	if cfg.Store.Dir != "" {
		if err := checkWritableDir(logger, cfg.Store.Dir); err != nil {
			return fmt.Errorf("store directory check failed: %w", err)
		}
	}
	if err := checkListenAddr(logger, "listen", cfg.Server.ListenAddr); err != nil {
		return err
	}
	if err := checkListenAddr(logger, "metrics", cfg.Server.MetricsAddr); err != nil {
		return err
	}
	if cfg.Catalog.Path != "" {
		if err := checkFileReadable(cfg.Catalog.Path); err != nil {
			return fmt.Errorf("catalog %s: %w", cfg.Catalog.Path, err)
		}
	}

	if strings.EqualFold(cfg.Store.Backend, "memory") {
		logger.Warn().
			Str("store_backend", cfg.Store.Backend).
			Msg("in-memory store; the last played video is lost on restart")
	}

	logger.Info().Str("event", "startup.checks.passed").Msg("all startup checks passed")
	return nil
}

func checkWritableDir(logger zerolog.Logger, path string) error {
	if path == "" {
		return fmt.Errorf("directory not configured")
	}
	if err := os.MkdirAll(path, 0o750); err != nil {
		return err
	}
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("path is not a directory: %s", path)
	}

	testFile := filepath.Join(path, ".write_test")
	if err := os.WriteFile(testFile, []byte("ok"), 0o600); err != nil {
		return fmt.Errorf("directory is not writable: %s (error: %v)", path, err)
	}
	_ = os.Remove(testFile)

	logger.Debug().Str("path", path).Msg("directory is writable")
	return nil
}

func checkListenAddr(logger zerolog.Logger, name, addr string) error {
	if addr == "" {
		return nil
	}
	_, port, err := net.SplitHostPort(addr)
	if err != nil {
		return fmt.Errorf("invalid %s address %q: %w", name, addr, err)
	}
	n, err := strconv.Atoi(port)
	if err != nil || n < 0 || n > 65535 {
		return fmt.Errorf("invalid %s port %q in %q", name, port, addr)
	}
	logger.Debug().Str("addr", addr).Str("listener", name).Msg("listen address is valid")
	return nil
}

func checkFileReadable(path string) error {
	f, err := os.Open(path) // #nosec G304 -- path comes from operator config
	if err != nil {
		return err
	}
	return f.Close()
}
