// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 Lantern Authors

// Package command turns ordinary Go functions into named, typed, invocable
// shell commands and keeps them in registries.
//
// A command is built once, at registration time, by introspecting a function
// value: leading parameters become positional arguments, and the exported
// fields of an optional trailing struct become --flag arguments. The result
// is an immutable descriptor that the dispatcher can invoke.
package command

import (
	"fmt"
	"reflect"
	"sort"
)

// Kind enumerates the parameter types a command may declare.
type Kind int

const (
	KindString Kind = iota
	KindInt
	KindFloat
	KindBool
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Param describes a single command parameter.
type Param struct {
	Name     string
	Kind     Kind
	Flag     bool // supplied as --name rather than by position
	Optional bool // pointer-typed in the source signature; absent means nil
	Required bool
	Default  any // valid only when !Required; nil for Optional params
}

// Command is the immutable result of introspecting a function.
// Params holds all positional parameters first, then all flags.
type Command struct {
	Name        string
	Description string
	Category    string
	Parent      string // name of the parent command; empty for root commands
	Aliases     []string
	Params      []Param

	fn        reflect.Value
	children  map[string]*Command // subcommands by name and alias
	flagsType reflect.Type        // trailing flags struct type, nil if none
	flagField map[string]int      // flag name -> struct field index
	hasOutput bool                // first return value is data, not error
	hasErr    bool                // last return value is error
}

// Child looks up a direct subcommand by name or alias.
func (c *Command) Child(name string) (*Command, bool) {
	cmd, ok := c.children[name]
	return cmd, ok
}

// Children returns the direct subcommands sorted by name, aliases excluded.
func (c *Command) Children() []*Command {
	seen := make(map[string]bool)
	var out []*Command
	for _, cmd := range c.children {
		if !seen[cmd.Name] {
			seen[cmd.Name] = true
			out = append(out, cmd)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Name < out[j].Name
	})
	return out
}

// Positionals returns the positional parameters in declaration order.
func (c *Command) Positionals() []Param {
	var out []Param
	for _, p := range c.Params {
		if !p.Flag {
			out = append(out, p)
		}
	}
	return out
}

// Flags returns the flag parameters in declaration order.
func (c *Command) Flags() []Param {
	var out []Param
	for _, p := range c.Params {
		if p.Flag {
			out = append(out, p)
		}
	}
	return out
}

// Flag looks up a flag parameter by name.
func (c *Command) Flag(name string) (Param, bool) {
	for _, p := range c.Params {
		if p.Flag && p.Name == name {
			return p, true
		}
	}
	return Param{}, false
}

// FlagNames returns the command's flag names, sorted.
func (c *Command) FlagNames() []string {
	var names []string
	for _, p := range c.Params {
		if p.Flag {
			names = append(names, p.Name)
		}
	}
	sort.Strings(names)
	return names
}

// Invoke calls the underlying function with already-coerced argument values.
//
// pos must hold one entry per positional parameter, in order; an entry for an
// Optional parameter may be nil. flags maps flag name to value and must have
// an entry for every flag parameter (optional flags carry their default, or
// nil when Optional). A panic inside the callable is recovered and returned
// as an error, so a misbehaving command never tears down the read loop.
func (c *Command) Invoke(pos []any, flags map[string]any) (out any, err error) {
	posParams := c.Positionals()
	if len(pos) != len(posParams) {
		return nil, fmt.Errorf("command %q: expected %d positional values, got %d",
			c.Name, len(posParams), len(pos))
	}

	in := make([]reflect.Value, 0, len(pos)+1)
	for i, p := range posParams {
		v, err := c.argValue(p, pos[i], i)
		if err != nil {
			return nil, err
		}
		in = append(in, v)
	}

	if c.flagsType != nil {
		fs := reflect.New(c.flagsType).Elem()
		for _, p := range c.Flags() {
			idx, ok := c.flagField[p.Name]
			if !ok {
				return nil, fmt.Errorf("command %q: no field for flag %q", c.Name, p.Name)
			}
			val, present := flags[p.Name]
			if !present {
				return nil, fmt.Errorf("command %q: missing value for flag %q", c.Name, p.Name)
			}
			fv, err := c.fieldValue(p, c.flagsType.Field(idx).Type, val)
			if err != nil {
				return nil, err
			}
			fs.Field(idx).Set(fv)
		}
		in = append(in, fs)
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("command %q panicked: %v", c.Name, r)
		}
	}()

	results := c.fn.Call(in)

	if c.hasErr {
		last := results[len(results)-1]
		if !last.IsNil() {
			err = last.Interface().(error)
		}
	}
	if c.hasOutput {
		out = results[0].Interface()
	}
	return out, err
}

// argValue converts a coerced scalar (or nil) into the reflect.Value the
// function expects at positional index i.
func (c *Command) argValue(p Param, val any, i int) (reflect.Value, error) {
	want := c.fn.Type().In(i)
	return scalarValue(c.Name, p, want, val)
}

func (c *Command) fieldValue(p Param, want reflect.Type, val any) (reflect.Value, error) {
	return scalarValue(c.Name, p, want, val)
}

func scalarValue(cmdName string, p Param, want reflect.Type, val any) (reflect.Value, error) {
	if want.Kind() == reflect.Ptr {
		if val == nil {
			return reflect.Zero(want), nil
		}
		inner := reflect.ValueOf(val)
		if inner.Type() != want.Elem() {
			return reflect.Value{}, fmt.Errorf("command %q: parameter %q: cannot use %T as %s",
				cmdName, p.Name, val, want.Elem())
		}
		ptr := reflect.New(want.Elem())
		ptr.Elem().Set(inner)
		return ptr, nil
	}
	if val == nil {
		return reflect.Value{}, fmt.Errorf("command %q: parameter %q: missing value", cmdName, p.Name)
	}
	v := reflect.ValueOf(val)
	if v.Type() != want {
		return reflect.Value{}, fmt.Errorf("command %q: parameter %q: cannot use %T as %s",
			cmdName, p.Name, val, want)
	}
	return v, nil
}
