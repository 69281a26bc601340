// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"
)

func runHealthcheckCLI(args []string) int {
	fs := flag.NewFlagSet("healthcheck", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	mode := fs.String("mode", "ready", "healthcheck mode: ready (default) or live")
	port := fs.Int("port", 8088, "API port to check")
	timeout := fs.Duration("timeout", 5*time.Second, "check timeout")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	return checkHealth(fmt.Sprintf("http://localhost:%d", *port), *mode, *timeout)
}

func checkHealth(baseURL, mode string, timeout time.Duration) int {
	path := "/healthz"
	if mode == "ready" {
		path = "/readyz"
	}

	client := http.Client{Timeout: timeout}
	resp, err := client.Get(baseURL + path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Healthcheck failed (network): %v\n", err)
		return 1
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		fmt.Fprintf(os.Stderr, "Healthcheck failed (status): %d %s\n", resp.StatusCode, resp.Status)
		return 1
	}

	fmt.Printf("Healthcheck successful (%s)\n", mode)
	return 0
}
