// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 Lantern Authors

// Package complete produces tab-completion candidates for a command registry
// and adapts them to the readline widget.
package complete

import (
	"sort"
	"strings"

	"github.com/chzyer/readline"

	"github.com/lantern-sh/lantern/command"
)

// Complete returns ordered completion candidates for the partial input text.
//
// Before any --flag token, candidates are registered command names matching
// the typed prefix, in lexicographic order; once a command is resolved, its
// subcommand names follow until a non-subcommand token starts the arguments.
// In the flag region, candidates are the resolved command's --flag names not
// already present on the line. Empty or whitespace-only input yields all
// root command names.
//
// Complete is a pure function of (text, registry state): it mutates nothing
// and is safe to call on every keystroke.
func Complete(text string, reg *command.Registry) []string {
	if reg == nil {
		return nil
	}

	fields := strings.Fields(text)
	startingNew := strings.HasSuffix(text, " ") || strings.HasSuffix(text, "\t")

	// Still typing (or yet to type) the command name.
	if len(fields) == 0 {
		return reg.Names()
	}
	if len(fields) == 1 && !startingNew {
		return filterPrefix(reg.Names(), fields[0])
	}

	cmd, ok := reg.Get(fields[0])
	if !ok {
		return nil
	}

	partial := ""
	prior := fields[1:]
	if !startingNew {
		partial = fields[len(fields)-1]
		prior = fields[1 : len(fields)-1]
	}

	// Walk completed tokens: descend the subcommand chain while possible,
	// then track flag usage. The flag region opens at the first --flag
	// token, including the one being typed right now.
	inFlagRegion := false
	argSeen := false
	used := make(map[string]bool)
	for _, tok := range prior {
		if strings.HasPrefix(tok, "--") {
			inFlagRegion = true
			used[strings.TrimPrefix(tok, "--")] = true
			continue
		}
		if !inFlagRegion && !argSeen {
			if child, ok := cmd.Child(tok); ok {
				cmd = child
				continue
			}
		}
		argSeen = true
	}
	if strings.HasPrefix(partial, "--") {
		inFlagRegion = true
	}

	if !inFlagRegion {
		if argSeen {
			// Positional values have no registry-derived candidates.
			return nil
		}
		var out []string
		for _, child := range cmd.Children() {
			if strings.HasPrefix(child.Name, partial) {
				out = append(out, child.Name)
			}
		}
		return out
	}

	var out []string
	for _, name := range cmd.FlagNames() {
		if used[name] {
			continue
		}
		if cand := "--" + name; strings.HasPrefix(cand, partial) {
			out = append(out, cand)
		}
	}
	sort.Strings(out)
	return out
}

func filterPrefix(names []string, prefix string) []string {
	var out []string
	for _, n := range names {
		if strings.HasPrefix(n, prefix) {
			out = append(out, n)
		}
	}
	return out
}

// Completer adapts Complete to readline's AutoCompleter interface. The
// registry is reached through a source function so that swapping a shell's
// registry immediately redirects completion, with no re-wiring.
type Completer struct {
	source func() *command.Registry
}

// New returns a Completer drawing candidates from source.
func New(source func() *command.Registry) *Completer {
	return &Completer{source: source}
}

// Bind redirects the completer at a different registry source.
func (c *Completer) Bind(source func() *command.Registry) {
	c.source = source
}

// Do implements readline.AutoCompleter. readline appends suggestions without
// deleting what was typed, so each candidate is returned minus the partial
// token already on the line, with a trailing space. Offsets are counted in
// runes, per readline's contract.
func (c *Completer) Do(line []rune, pos int) ([][]rune, int) {
	if c.source == nil {
		return nil, 0
	}
	lineStr := string(line[:pos])
	candidates := Complete(lineStr, c.source())

	partialLen := 0
	if !strings.HasSuffix(lineStr, " ") && !strings.HasSuffix(lineStr, "\t") {
		fields := strings.Fields(lineStr)
		if len(fields) > 0 {
			partialLen = len([]rune(fields[len(fields)-1]))
		}
	}

	suggestions := make([][]rune, 0, len(candidates))
	for _, cand := range candidates {
		runes := []rune(cand)
		if partialLen < len(runes) {
			suggestions = append(suggestions, append(runes[partialLen:], ' '))
		}
	}
	return suggestions, partialLen
}

var _ readline.AutoCompleter = (*Completer)(nil)
