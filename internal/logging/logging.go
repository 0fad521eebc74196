// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 Lantern Authors

// Package logging provides the shared slog logger for the framework.
// Set LANTERN_DEBUG=1 to enable debug output.
package logging

import (
	"log/slog"
	"os"
)

var Logger *slog.Logger

func init() {
	Init()
}

// Init configures the global logger. Debug level is gated on the
// LANTERN_DEBUG environment variable; timestamps and level tags are
// stripped so log lines do not clutter interactive output.
func Init() {
	level := slog.LevelInfo
	if os.Getenv("LANTERN_DEBUG") != "" {
		level = slog.LevelDebug
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey || a.Key == slog.LevelKey {
				return slog.Attr{}
			}
			return a
		},
	})
	Logger = slog.New(handler)
}

// Debug logs a debug message (only shown when LANTERN_DEBUG is set).
func Debug(msg string, args ...any) {
	Logger.Debug(msg, args...)
}

// Warn logs a warning message.
func Warn(msg string, args ...any) {
	Logger.Warn(msg, args...)
}
