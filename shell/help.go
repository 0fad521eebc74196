// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 Lantern Authors

package shell

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/lantern-sh/lantern/command"
	"github.com/lantern-sh/lantern/style"
)

// registerBuiltins adds the help and exit commands to the shell's registry.
// A name already registered by the developer wins; the builtin is skipped.
func (s *Shell) registerBuiltins() {
	if _, taken := s.registry.Get("help"); !taken {
		s.registry.MustRegister(
			func(name *string) {
				if name == nil {
					printHelp(s.out, s.registry)
					return
				}
				cmd, ok := s.registry.Get(*name)
				if !ok {
					s.handlers.UnknownCommand(*name)
					return
				}
				printCommandHelp(s.out, cmd)
			},
			command.WithName("help"),
			command.WithAliases("h"),
			command.WithDescription("Show help for commands"),
			command.WithParams("command"),
		)
	}
	if _, taken := s.registry.Get("exit"); !taken {
		s.registry.MustRegister(
			func() { s.Stop() },
			command.WithName("exit"),
			command.WithAliases("quit", "q"),
			command.WithDescription("Exit the shell"),
		)
	}
}

// Usage renders a one-line usage string for a command:
// required positionals as <name>, optional ones as [name], then flags.
func Usage(cmd *command.Command) string {
	var b strings.Builder
	b.WriteString(cmd.Name)
	for _, p := range cmd.Positionals() {
		if p.Required {
			fmt.Fprintf(&b, " <%s>", p.Name)
		} else {
			fmt.Fprintf(&b, " [%s]", p.Name)
		}
	}
	for _, p := range cmd.Flags() {
		switch {
		case p.Kind == command.KindBool:
			fmt.Fprintf(&b, " [--%s]", p.Name)
		case p.Required:
			fmt.Fprintf(&b, " --%s <%s>", p.Name, p.Kind)
		default:
			fmt.Fprintf(&b, " [--%s <%s>]", p.Name, p.Kind)
		}
	}
	return b.String()
}

func printHelp(w io.Writer, reg *command.Registry) {
	fmt.Fprintln(w, style.Heading.Render("Available commands:"))

	categories := reg.ByCategory()
	names := make([]string, 0, len(categories))
	for cat := range categories {
		names = append(names, cat)
	}
	sort.Strings(names) // "" (uncategorized) sorts first

	for _, cat := range names {
		if cat != "" {
			fmt.Fprintf(w, "\n%s:\n", style.Heading.Render(cat))
		}
		for _, cmd := range categories[cat] {
			desc := cmd.Description
			if len(cmd.Aliases) > 0 {
				desc += fmt.Sprintf(" (aliases: %s)", strings.Join(cmd.Aliases, ", "))
			}
			fmt.Fprintf(w, "  %-40s - %s\n", Usage(cmd), desc)
		}
	}
	fmt.Fprintln(w, style.Muted.Render("\nFor detailed help on a command, type: help <command>"))
}

func printCommandHelp(w io.Writer, cmd *command.Command) {
	fmt.Fprintf(w, "%s\n", style.Heading.Render("Command: "+cmd.Name))
	if len(cmd.Aliases) > 0 {
		fmt.Fprintf(w, "Aliases: %s\n", strings.Join(cmd.Aliases, ", "))
	}
	fmt.Fprintf(w, "Usage: %s\n", Usage(cmd))
	if cmd.Category != "" {
		fmt.Fprintf(w, "Category: %s\n", cmd.Category)
	}
	if cmd.Description != "" {
		fmt.Fprintf(w, "\n%s\n", cmd.Description)
	}

	if children := cmd.Children(); len(children) > 0 {
		fmt.Fprintln(w, "\nSubcommands:")
		for _, child := range children {
			fmt.Fprintf(w, "  %-20s %s\n", child.Name, child.Description)
		}
	}

	if flags := cmd.Flags(); len(flags) > 0 {
		fmt.Fprintln(w, "\nFlags:")
		for _, p := range flags {
			line := fmt.Sprintf("  --%-20s %s", p.Name, p.Kind)
			switch {
			case p.Required:
				line += " (required)"
			case p.Kind != command.KindBool && p.Default != nil:
				line += fmt.Sprintf(" (default %v)", p.Default)
			}
			fmt.Fprintln(w, line)
		}
	}
}
