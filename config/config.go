// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 Lantern Authors

// Package config loads shell configuration from config.yaml in the lantern
// data directory.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds interactive shell settings.
type Config struct {
	Prompt       string `yaml:"prompt" description:"Prompt label" default:"> "`
	RPrompt      string `yaml:"rprompt" description:"Right-aligned label shown above the input line"`
	HistoryFile  string `yaml:"history_file" description:"History file path (default: <data dir>/history)"`
	HistoryLimit int    `yaml:"history_limit" description:"Maximum history entries" default:"1000"`
	StartText    string `yaml:"start_text" description:"Text printed before the first prompt"`
	NoColor      bool   `yaml:"no_color" description:"Disable styled output"`
}

// Default returns the configuration used when no config file exists.
func Default() Config {
	return Config{
		Prompt:       "> ",
		HistoryLimit: 1000,
	}
}

// DefaultDataDir is the fallback data directory for lantern shells.
const DefaultDataDir = "~/.lantern"

// DataDir resolves the data directory. Resolution order:
// flag value > LANTERN_DATA env var > ~/.lantern.
// Returns "" if no home directory can be determined.
func DataDir(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if envDir := os.Getenv("LANTERN_DATA"); envDir != "" {
		return envDir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".lantern")
}

// Path returns the config file path inside dataDir, or "" if dataDir is
// empty.
func Path(dataDir string) string {
	if dataDir == "" {
		return ""
	}
	return filepath.Join(dataDir, "config.yaml")
}

// Load reads the config file at path, filling unset fields from Default.
// A missing file (or empty path) is not an error: defaults are returned.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("parsing %s: %w", path, err)
	}
	if cfg.Prompt == "" {
		cfg.Prompt = Default().Prompt
	}
	if cfg.HistoryLimit <= 0 {
		cfg.HistoryLimit = Default().HistoryLimit
	}
	return cfg, nil
}

// HistoryPath returns the configured history file, defaulting to
// <dataDir>/history when unset. Returns "" (history disabled) when neither
// is available.
func (c Config) HistoryPath(dataDir string) string {
	if c.HistoryFile != "" {
		return c.HistoryFile
	}
	if dataDir == "" {
		return ""
	}
	return filepath.Join(dataDir, "history")
}
