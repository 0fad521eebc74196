// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 Lantern Authors

// Package shell drives the interactive read loop: it owns a command
// registry and a handler registry, reads lines through a Prompt, dispatches
// them, and routes every outcome to the active handlers so the loop
// survives anything short of the developer asking it to stop.
package shell

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"

	"github.com/lantern-sh/lantern/command"
	"github.com/lantern-sh/lantern/complete"
	"github.com/lantern-sh/lantern/dispatch"
	"github.com/lantern-sh/lantern/internal/logging"
)

// State tracks the read-loop lifecycle.
type State int

const (
	StateIdle State = iota
	StateRunning
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateStopped:
		return "stopped"
	}
	return "invalid state"
}

// ErrRunning is returned by Run when the loop is already active.
var ErrRunning = errors.New("shell is already running")

// Shell holds one active command registry and one active handler registry,
// both swappable at any time, and owns the read-loop lifecycle. A Shell is
// restartable but must not be shared across concurrent loops.
type Shell struct {
	registry   *command.Registry
	handlers   *Handlers
	state      State
	out        io.Writer
	noBuiltins bool
}

// Option configures a Shell.
type Option func(*Shell)

// WithRegistry sets the command registry (default: command.Default()).
func WithRegistry(reg *command.Registry) Option {
	return func(s *Shell) { s.registry = reg }
}

// WithHandlers sets the handler registry (default: DefaultHandlers()).
func WithHandlers(h *Handlers) Option {
	return func(s *Shell) { s.handlers = h }
}

// WithoutBuiltins skips registration of the help and exit builtins.
func WithoutBuiltins() Option {
	return func(s *Shell) { s.noBuiltins = true }
}

// WithOutput redirects command output and help text (default os.Stdout).
func WithOutput(w io.Writer) Option {
	return func(s *Shell) { s.out = w }
}

// New constructs a Shell. Unless WithoutBuiltins is given, the help and exit
// commands are registered into the shell's registry; a name already taken by
// the developer's own command wins and the builtin is skipped.
func New(opts ...Option) *Shell {
	s := &Shell{}
	for _, opt := range opts {
		opt(s)
	}
	if s.registry == nil {
		s.registry = command.Default()
	}
	if s.handlers == nil {
		s.handlers = DefaultHandlers()
	}
	if s.out == nil {
		s.out = os.Stdout
	}
	if !s.noBuiltins {
		s.registerBuiltins()
	}
	return s
}

// Registry returns the active command registry.
func (s *Shell) Registry() *command.Registry {
	return s.registry
}

// SetRegistry swaps the active registry. The prompt's completer reads the
// registry through this accessor, so completion follows the swap
// immediately.
func (s *Shell) SetRegistry(reg *command.Registry) {
	if reg == nil {
		panic("shell: nil registry")
	}
	s.registry = reg
}

// Handlers returns the active handler registry.
func (s *Shell) Handlers() *Handlers {
	return s.handlers
}

// SetHandlers swaps the active handler registry; the next event fires on the
// new instance. Already-dispatched results are unaffected.
func (s *Shell) SetHandlers(h *Handlers) {
	if h == nil {
		panic("shell: nil handlers")
	}
	s.handlers = h
}

// State reports the read-loop lifecycle state.
func (s *Shell) State() State {
	return s.state
}

// Stop asks the read loop to end after the current iteration. The exit
// builtin calls this.
func (s *Shell) Stop() {
	s.state = StateStopped
}

// Run drives the interactive loop with the given prompt until end of input,
// an interrupt, an unrecoverable read error, or Stop. A stopped shell can be
// run again.
//
// Attaching the prompt enforces the completer invariant: a prompt with no
// completer, or with a registry-backed one, is (re)bound to this shell's
// active registry. A custom AutoCompleter installed by the developer is
// left alone.
func (s *Shell) Run(p *Prompt) error {
	if s.state == StateRunning {
		return ErrRunning
	}
	s.bindCompleter(p)

	if err := p.Open(); err != nil {
		return fmt.Errorf("opening prompt: %w", err)
	}
	defer func() {
		if err := p.Close(); err != nil {
			logging.Debug("closing prompt", "err", err)
		}
	}()

	s.state = StateRunning
	for s.state == StateRunning {
		line, err := p.ReadLine()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) {
				s.handlers.Interrupt()
				break
			}
			if !errors.Is(err, io.EOF) {
				// Scanner errors are sticky: retrying the same read would
				// spin on the identical failure forever.
				logging.Warn("reading input", "err", err)
			}
			break
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		s.Eval(line)
	}
	s.state = StateStopped
	return nil
}

func (s *Shell) bindCompleter(p *Prompt) {
	source := func() *command.Registry { return s.registry }
	switch c := p.Completer().(type) {
	case nil:
		p.SetCompleter(complete.New(source))
	case *complete.Completer:
		c.Bind(source)
	}
}

// Eval dispatches a single line against the active registry and routes the
// result to the active handlers. Used by the read loop, the script runner,
// and the argv entry point.
func (s *Shell) Eval(line string) dispatch.Result {
	res := dispatch.Dispatch(s.registry, line)
	s.route(res)
	return res
}

func (s *Shell) route(res dispatch.Result) {
	logging.Debug("dispatch", "command", res.Command, "status", res.Status.String())
	switch res.Status {
	case dispatch.StatusUnknownCommand:
		s.handlers.UnknownCommand(res.Command)
	case dispatch.StatusDispatchError, dispatch.StatusExecutionError:
		s.handlers.DispatchError(res.Err)
	case dispatch.StatusSuccess:
		s.printOutput(res.Output)
	}
}

// printOutput prints a command's return value, if any. A nil value and an
// empty string stay silent.
func (s *Shell) printOutput(out any) {
	if out == nil {
		return
	}
	if str, ok := out.(string); ok {
		if str == "" {
			return
		}
		fmt.Fprintln(s.out, str)
		return
	}
	fmt.Fprintln(s.out, out)
}

// ExecArgs dispatches an already-split argv sequence (the process-argv
// fallback) and returns the process exit code: 0 on success, 1 otherwise.
// Dispatch-level failures are routed through the handlers, never panicking.
func (s *Shell) ExecArgs(argv []string) int {
	res := dispatch.DispatchArgs(s.registry, argv)
	s.route(res)
	if res.Status == dispatch.StatusSuccess {
		return 0
	}
	return 1
}
