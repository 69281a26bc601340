// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Command vodplayd serves the video-on-demand player backend.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ManuGH/vodplay/internal/app/bootstrap"
	xglog "github.com/ManuGH/vodplay/internal/log"
	"github.com/ManuGH/vodplay/internal/version"
)

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "config":
			os.Exit(runConfigCLI(os.Args[2:]))
		case "healthcheck":
			os.Exit(runHealthcheckCLI(os.Args[2:]))
		}
	}

	showVersion := flag.Bool("version", false, "print version and exit")
	configPath := flag.String("config", "", "path to config file (YAML)")
	flag.Parse()

	if *showVersion {
		fmt.Printf("%s (commit: %s, built: %s)\n", version.Version, version.Commit, version.Date)
		os.Exit(0)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	container, err := bootstrap.WireServices(ctx, version.Version, version.Commit, version.Date, *configPath)
	if err != nil {
		logger := xglog.WithComponent("daemon")
		logger.Fatal().Err(err).Str("event", "startup.failed").Msg("failed to initialize vodplay")
	}

	if err := container.Run(ctx); err != nil {
		container.Logger.Fatal().Err(err).Str("event", "daemon.failed").Msg("vodplay stopped with error")
	}
	container.Logger.Info().Str("event", "shutdown.complete").Msg("vodplay stopped")
}
