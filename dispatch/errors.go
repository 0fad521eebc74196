// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 Lantern Authors

package dispatch

import (
	"errors"
	"fmt"

	"github.com/lantern-sh/lantern/command"
)

// ErrEmptyInput is returned (wrapped in a StatusDispatchError result) when
// the input line holds no tokens at all. The shell skips blank lines before
// dispatching, so this only surfaces on direct Dispatch calls.
var ErrEmptyInput = errors.New("empty input")

// MissingArgumentError reports a required parameter with no supplied value.
type MissingArgumentError struct {
	Command string
	Param   string
}

func (e *MissingArgumentError) Error() string {
	return fmt.Sprintf("command %q: missing required argument %q", e.Command, e.Param)
}

// TooManyArgumentsError reports positional tokens beyond the declared
// positional parameters.
type TooManyArgumentsError struct {
	Command  string
	Expected int
	Got      int
}

func (e *TooManyArgumentsError) Error() string {
	return fmt.Sprintf("command %q: too many arguments (expected at most %d, got %d)",
		e.Command, e.Expected, e.Got)
}

// UnknownFlagError reports a --flag token that matches no declared flag.
type UnknownFlagError struct {
	Command string
	Flag    string
}

func (e *UnknownFlagError) Error() string {
	return fmt.Sprintf("command %q: unknown flag --%s", e.Command, e.Flag)
}

// CoercionError reports a token that could not be converted to its
// parameter's declared type.
type CoercionError struct {
	Param string
	Token string
	Kind  command.Kind
}

func (e *CoercionError) Error() string {
	return fmt.Sprintf("argument %q: cannot parse %q as %s", e.Param, e.Token, e.Kind)
}

// ExecutionError wraps a failure raised by the command's own function, either
// a returned error or a recovered panic.
type ExecutionError struct {
	Command string
	Err     error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("command %q failed: %v", e.Command, e.Err)
}

func (e *ExecutionError) Unwrap() error {
	return e.Err
}
