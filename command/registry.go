// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 Lantern Authors

package command

import (
	"fmt"
	"sort"
	"sync"
)

// Registry maps command names (and aliases) to descriptors and keeps the
// subcommand tree. Any number of independent registries may coexist; Default
// returns the process-wide one.
//
// Mutation and reads follow a single-writer discipline: the read loop, the
// completer, and registration must not race from multiple goroutines.
type Registry struct {
	commands map[string]*Command // root-level names and aliases
	byName   map[string]*Command // flat lookup including subcommands; roots win
	primary  []*Command
	mu       sync.RWMutex
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		commands: make(map[string]*Command),
		byName:   make(map[string]*Command),
		primary:  make([]*Command, 0),
	}
}

var defaultRegistry = NewRegistry()

// Default returns the process-wide registry used by the package-level
// registration helpers. Tests should construct isolated registries instead.
func Default() *Registry {
	return defaultRegistry
}

// Add registers an already-introspected descriptor under its name and
// aliases. It fails with *DuplicateCommandError if any of them collide with
// an existing entry in the same scope: root names must be unique across the
// registry, subcommand names unique within their parent. A descriptor with a
// Parent is attached to that parent's subtree; the parent must already be
// registered (*UnknownParentError otherwise) and may itself be a subcommand.
func (r *Registry) Add(cmd *Command) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if cmd.Parent != "" {
		return r.addChild(cmd)
	}

	if _, exists := r.commands[cmd.Name]; exists {
		return &DuplicateCommandError{Name: cmd.Name}
	}
	for _, alias := range cmd.Aliases {
		if existing, exists := r.commands[alias]; exists {
			return fmt.Errorf("alias %q conflicts with existing command %q: %w",
				alias, existing.Name, &DuplicateCommandError{Name: alias})
		}
	}

	r.commands[cmd.Name] = cmd
	r.byName[cmd.Name] = cmd // a root always wins the flat lookup
	r.primary = append(r.primary, cmd)
	for _, alias := range cmd.Aliases {
		r.commands[alias] = cmd
	}
	return nil
}

func (r *Registry) addChild(cmd *Command) error {
	parent, ok := r.byName[cmd.Parent]
	if !ok {
		return &UnknownParentError{Command: cmd.Name, Parent: cmd.Parent}
	}
	if _, exists := parent.children[cmd.Name]; exists {
		return fmt.Errorf("subcommand %q already registered under %q: %w",
			cmd.Name, parent.Name, &DuplicateCommandError{Name: cmd.Name})
	}
	for _, alias := range cmd.Aliases {
		if existing, exists := parent.children[alias]; exists {
			return fmt.Errorf("alias %q conflicts with subcommand %q under %q: %w",
				alias, existing.Name, parent.Name, &DuplicateCommandError{Name: alias})
		}
	}

	if parent.children == nil {
		parent.children = make(map[string]*Command)
	}
	parent.children[cmd.Name] = cmd
	for _, alias := range cmd.Aliases {
		parent.children[alias] = cmd
	}
	// Keep nested commands reachable as parents of deeper registrations, but
	// never shadow a root of the same name.
	if _, exists := r.byName[cmd.Name]; !exists {
		r.byName[cmd.Name] = cmd
	}
	return nil
}

// Register composes Introspect and Add: it builds a descriptor from fn and
// registers it into this registry. The descriptor is returned so callers can
// keep a handle on it; fn itself is untouched and remains callable directly.
func (r *Registry) Register(fn any, opts ...Option) (*Command, error) {
	cmd, err := Introspect(fn, opts...)
	if err != nil {
		return nil, err
	}
	if err := r.Add(cmd); err != nil {
		return nil, err
	}
	return cmd, nil
}

// MustRegister is Register that panics on error. Used during initialization
// where registration errors are programming bugs.
func (r *Registry) MustRegister(fn any, opts ...Option) *Command {
	cmd, err := r.Register(fn, opts...)
	if err != nil {
		panic(fmt.Sprintf("failed to register command: %v", err))
	}
	return cmd
}

// Register registers fn into the process-wide default registry.
func Register(fn any, opts ...Option) (*Command, error) {
	return defaultRegistry.Register(fn, opts...)
}

// MustRegister registers fn into the process-wide default registry, panicking
// on error.
func MustRegister(fn any, opts ...Option) *Command {
	return defaultRegistry.MustRegister(fn, opts...)
}

// Get looks up a root-level command by name or alias; subcommands are reached
// through Command.Child. It reports absence via the second return value
// instead of an error.
func (r *Registry) Get(name string) (*Command, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cmd, ok := r.commands[name]
	return cmd, ok
}

// Names returns the primary command names sorted lexicographically. Aliases
// are excluded. The ordering is the documented completion tie-break.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.primary))
	for _, cmd := range r.primary {
		names = append(names, cmd.Name)
	}
	sort.Strings(names)
	return names
}

// All returns the registered commands sorted by name.
func (r *Registry) All() []*Command {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*Command, len(r.primary))
	copy(result, r.primary)
	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})
	return result
}

// Len returns the number of registered commands, aliases excluded.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.primary)
}

// ByCategory groups commands by their Category, sorted by name within each
// group. Commands with no category land under the empty key.
func (r *Registry) ByCategory() map[string][]*Command {
	r.mu.RLock()
	defer r.mu.RUnlock()

	categories := make(map[string][]*Command)
	for _, cmd := range r.primary {
		categories[cmd.Category] = append(categories[cmd.Category], cmd)
	}
	for _, cmds := range categories {
		sort.Slice(cmds, func(i, j int) bool {
			return cmds[i].Name < cmds[j].Name
		})
	}
	return categories
}
