// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 Lantern Authors

// Package style holds the terminal styles used for user-facing shell output.
// Rendering degrades to plain text automatically on dumb terminals, and
// Disable forces plain text regardless (honoring config no_color).
package style

import "github.com/charmbracelet/lipgloss"

var (
	// Error renders dispatch and execution failures.
	Error = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	// Warn renders non-fatal notices.
	Warn = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	// Heading renders help section titles.
	Heading = lipgloss.NewStyle().Bold(true)
	// Muted renders secondary text such as descriptions and hints.
	Muted = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	// Prompt renders the prompt label and the right-aligned label.
	Prompt = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
)

// Disable strips all styling, leaving plain text. Called when the config
// sets no_color (the NO_COLOR environment variable is honored without it).
func Disable() {
	plain := lipgloss.NewStyle()
	Error = plain
	Warn = plain
	Heading = plain
	Muted = plain
	Prompt = plain
}

// RightAlign places s at the right edge of a line width columns wide.
func RightAlign(width int, s string) string {
	return lipgloss.PlaceHorizontal(width, lipgloss.Right, s)
}
