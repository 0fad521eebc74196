// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 Lantern Authors

package command

import (
	"fmt"
	"reflect"
)

// UnsupportedTypeError reports a parameter whose declared type is outside the
// supported set (int, float64, string, bool, and pointers to these).
type UnsupportedTypeError struct {
	Command string
	Param   string
	Type    reflect.Type
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("command %q: parameter %q has unsupported type %s",
		e.Command, e.Param, e.Type)
}

// SignatureError reports a function signature the introspector cannot accept,
// such as a required positional parameter declared after an optional one.
type SignatureError struct {
	Command string
	Reason  string
}

func (e *SignatureError) Error() string {
	return fmt.Sprintf("command %q: %s", e.Command, e.Reason)
}

// UnknownParentError reports a WithParent reference to a command that is not
// registered.
type UnknownParentError struct {
	Command string
	Parent  string
}

func (e *UnknownParentError) Error() string {
	return fmt.Sprintf("command %q: parent command %q not found", e.Command, e.Parent)
}

// DuplicateCommandError reports a name collision within a single registry.
type DuplicateCommandError struct {
	Name string
}

func (e *DuplicateCommandError) Error() string {
	return fmt.Sprintf("command %q already registered", e.Name)
}
