// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 Lantern Authors

package shell

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/chzyer/readline"
	"golang.org/x/term"

	"github.com/lantern-sh/lantern/internal/logging"
	"github.com/lantern-sh/lantern/style"
)

// Prompt acquires one line of input at a time from the line-editing widget.
// On a terminal it is backed by readline (history, editing, tab completion);
// on a pipe it degrades to a plain scanner loop with no history or
// completion, matching how the input would behave under redirection.
type Prompt struct {
	label        string
	rlabel       string
	historyFile  string
	historyLimit int
	completer    readline.AutoCompleter
	in           *os.File
	out          io.Writer

	rl      *readline.Instance
	scanner *bufio.Scanner
	basic   bool
}

// PromptOption configures a Prompt.
type PromptOption func(*Prompt)

// WithRLabel sets an optional label rendered right-aligned above the input
// line.
func WithRLabel(label string) PromptOption {
	return func(p *Prompt) { p.rlabel = label }
}

// WithHistoryFile enables persistent history at the given path.
func WithHistoryFile(path string) PromptOption {
	return func(p *Prompt) { p.historyFile = path }
}

// WithHistoryLimit caps the number of retained history entries.
func WithHistoryLimit(n int) PromptOption {
	return func(p *Prompt) { p.historyLimit = n }
}

// WithCompleter installs a tab-completion callback. A Shell replaces a
// registry-backed completer with one bound to its own active registry when
// the prompt is attached.
func WithCompleter(c readline.AutoCompleter) PromptOption {
	return func(p *Prompt) { p.completer = c }
}

// WithPromptInput sets the input stream (default os.Stdin).
func WithPromptInput(f *os.File) PromptOption {
	return func(p *Prompt) { p.in = f }
}

// WithPromptOutput sets the output writer (default os.Stdout).
func WithPromptOutput(w io.Writer) PromptOption {
	return func(p *Prompt) { p.out = w }
}

// NewPrompt returns a prompt with the given label.
func NewPrompt(label string, opts ...PromptOption) *Prompt {
	p := &Prompt{
		label:        label,
		historyLimit: 1000,
		in:           os.Stdin,
		out:          os.Stdout,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Label returns the prompt label.
func (p *Prompt) Label() string { return p.label }

// SetLabel changes the prompt label; effective from the next read.
func (p *Prompt) SetLabel(label string) {
	p.label = label
	if p.rl != nil {
		p.rl.SetPrompt(style.Prompt.Render(label))
	}
}

// SetCompleter swaps the tab-completion callback; effective from the next
// read.
func (p *Prompt) SetCompleter(c readline.AutoCompleter) {
	p.completer = c
	if p.rl != nil {
		p.rl.Config.AutoComplete = c
	}
}

// Completer returns the installed completion callback, if any.
func (p *Prompt) Completer() readline.AutoCompleter { return p.completer }

// Open prepares the prompt for reading. Safe to call again after Close.
func (p *Prompt) Open() error {
	if p.rl != nil || p.scanner != nil {
		return nil
	}
	if !term.IsTerminal(int(p.in.Fd())) {
		logging.Debug("stdin is not a terminal, using basic prompt")
		p.basic = true
		p.scanner = bufio.NewScanner(p.in)
		return nil
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:            style.Prompt.Render(p.label),
		HistoryFile:       p.historyFile,
		HistoryLimit:      p.historyLimit,
		AutoComplete:      p.completer,
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
		HistorySearchFold: true,
		Stdin:             p.in,
		Stdout:            p.out,
	})
	if err != nil {
		logging.Warn("readline unavailable, using basic prompt", "err", err)
		p.basic = true
		p.scanner = bufio.NewScanner(p.in)
		return nil
	}
	p.rl = rl
	return nil
}

// Close releases the line-editing resources.
func (p *Prompt) Close() error {
	p.scanner = nil
	p.basic = false
	if p.rl == nil {
		return nil
	}
	err := p.rl.Close()
	p.rl = nil
	return err
}

// ReadLine displays the prompt and returns one line of input.
// It returns readline.ErrInterrupt on Ctrl-C and io.EOF on end of input.
func (p *Prompt) ReadLine() (string, error) {
	p.renderRLabel()
	if p.basic {
		fmt.Fprint(p.out, p.label)
		if !p.scanner.Scan() {
			if err := p.scanner.Err(); err != nil {
				return "", err
			}
			return "", io.EOF
		}
		return p.scanner.Text(), nil
	}
	if p.rl == nil {
		return "", fmt.Errorf("prompt not open")
	}
	return p.rl.Readline()
}

// renderRLabel prints the right-aligned label on its own line above the
// prompt. Skipped when unset or when the terminal width is unknown.
func (p *Prompt) renderRLabel() {
	if p.rlabel == "" || p.basic {
		return
	}
	width, _, err := term.GetSize(int(p.in.Fd()))
	if err != nil || width <= len(p.rlabel) {
		return
	}
	fmt.Fprintln(p.out, style.RightAlign(width, style.Muted.Render(p.rlabel)))
}
