// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 Lantern Authors

package shell

import (
	"fmt"
	"io"
	"os"

	"github.com/lantern-sh/lantern/style"
)

// Event identifies a shell lifecycle event routed through Handlers.
type Event int

const (
	// EventUnknownCommand fires when the input names no registered command.
	EventUnknownCommand Event = iota
	// EventDispatchError fires on argument or execution failures.
	EventDispatchError
	// EventInterrupt fires when line acquisition is interrupted (Ctrl-C).
	EventInterrupt
)

// Handlers maps lifecycle events to callbacks. Every event has a default, so
// firing an event is never a silent no-op; setting a callback replaces the
// default. Independent instances may be constructed and swapped onto a Shell
// at any time, including mid-run.
type Handlers struct {
	out            io.Writer
	unknownCommand func(name string)
	dispatchError  func(err error)
	interrupt      func()
}

// NewHandlers returns a Handlers instance with the default callbacks
// installed, writing to stdout:
//
//   - unknown command: prints "unknown command: NAME"
//   - dispatch error:  prints the error text
//   - interrupt:       prints "interrupted"
func NewHandlers() *Handlers {
	return &Handlers{out: os.Stdout}
}

var defaultHandlers = NewHandlers()

// DefaultHandlers returns the process-wide handler registry used by shells
// constructed without an explicit one.
func DefaultHandlers() *Handlers {
	return defaultHandlers
}

// SetOutput redirects the default callbacks' output. Useful in tests.
func (h *Handlers) SetOutput(w io.Writer) {
	h.out = w
}

// OnUnknownCommand installs the unknown-command callback.
func (h *Handlers) OnUnknownCommand(fn func(name string)) {
	h.unknownCommand = fn
}

// OnDispatchError installs the callback for dispatch and execution errors.
func (h *Handlers) OnDispatchError(fn func(err error)) {
	h.dispatchError = fn
}

// OnInterrupt installs the interrupt callback.
func (h *Handlers) OnInterrupt(fn func()) {
	h.interrupt = fn
}

// UnknownCommand fires EventUnknownCommand.
func (h *Handlers) UnknownCommand(name string) {
	if h.unknownCommand != nil {
		h.unknownCommand(name)
		return
	}
	fmt.Fprintln(h.out, style.Error.Render("unknown command: "+name))
}

// DispatchError fires EventDispatchError.
func (h *Handlers) DispatchError(err error) {
	if h.dispatchError != nil {
		h.dispatchError(err)
		return
	}
	fmt.Fprintln(h.out, style.Error.Render(fmt.Sprintf("error: %v", err)))
}

// Interrupt fires EventInterrupt.
func (h *Handlers) Interrupt() {
	if h.interrupt != nil {
		h.interrupt()
		return
	}
	fmt.Fprintln(h.out, style.Muted.Render("interrupted"))
}
