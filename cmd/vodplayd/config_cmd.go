// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ManuGH/vodplay/internal/config"
	"github.com/ManuGH/vodplay/internal/version"
)

func runConfigCLI(args []string) int {
	if len(args) == 0 || args[0] == "-h" || args[0] == "--help" || args[0] == "help" {
		printConfigUsage()
		return 0
	}

	switch args[0] {
	case "validate":
		return runConfigValidate(args[1:])
	case "dump":
		return runConfigDump(args[1:], os.Stdout)
	default:
		fmt.Fprintf(os.Stderr, "Unknown subcommand: %s\n\n", args[0])
		printConfigUsage()
		return 2
	}
}

func printConfigUsage() {
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  vodplayd config validate [--file|-f config.yaml]")
	fmt.Fprintln(os.Stderr, "  vodplayd config dump [--file|-f config.yaml] [--format=yaml|json]")
}

func resolveDefaultConfigPath() string {
	if p := strings.TrimSpace(os.Getenv(config.EnvConfigPath)); p != "" {
		return p
	}
	dataDir := strings.TrimSpace(os.Getenv(config.EnvDataDir))
	if dataDir == "" {
		dataDir = config.Defaults().DataDir
	}
	autoPath := filepath.Join(dataDir, "config.yaml")
	if _, err := os.Stat(autoPath); err == nil {
		return autoPath
	}
	return ""
}

func runConfigValidate(args []string) int {
	fs := flag.NewFlagSet("vodplayd config validate", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var file string
	fs.StringVar(&file, "file", "", "path to YAML configuration file")
	fs.StringVar(&file, "f", "", "path to YAML configuration file (shorthand)")

	if err := fs.Parse(args); err != nil {
		return 2
	}

	configPath := strings.TrimSpace(file)
	if configPath == "" {
		configPath = resolveDefaultConfigPath()
	}
	if configPath == "" {
		fmt.Fprintf(os.Stderr, "Error: --file is required (no config.yaml found in $%s)\n", config.EnvDataDir)
		return 2
	}

	loader := config.NewLoader(configPath, version.Version)
	if _, err := loader.Load(); err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error in %s:\n  %v\n", configPath, err)
		return 1
	}

	fmt.Printf("%s is valid\n", configPath)
	return 0
}

// runConfigDump prints the effective configuration (defaults, file, ENV)
// with secrets masked.
func runConfigDump(args []string, out io.Writer) int {
	fs := flag.NewFlagSet("vodplayd config dump", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var file, format string
	fs.StringVar(&file, "file", "", "path to YAML configuration file")
	fs.StringVar(&file, "f", "", "path to YAML configuration file (shorthand)")
	fs.StringVar(&format, "format", "yaml", "output format: yaml or json")

	if err := fs.Parse(args); err != nil {
		return 2
	}

	configPath := strings.TrimSpace(file)
	if configPath == "" {
		configPath = resolveDefaultConfigPath()
	}

	loader := config.NewLoader(configPath, version.Version)
	cfg, err := loader.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error:\n  %v\n", err)
		return 1
	}
	redacted := config.Redacted(cfg)

	switch strings.ToLower(strings.TrimSpace(format)) {
	case "yaml", "yml":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(redacted); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to encode YAML: %v\n", err)
			return 1
		}
		_ = enc.Close()
		return 0
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(redacted); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to encode JSON: %v\n", err)
			return 1
		}
		return 0
	default:
		fmt.Fprintf(os.Stderr, "Unsupported format: %s (use yaml or json)\n", format)
		return 2
	}
}
