// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 Lantern Authors

// Package dispatch resolves a raw input line (or an argv slice) against a
// command registry and invokes the matching command.
//
// Expected failure modes never surface as panics or errors from Dispatch
// itself: every call produces exactly one Result, and the caller routes it.
// Dispatch panics only on programmer-error misuse (a nil registry).
package dispatch

import (
	"strconv"
	"strings"

	"github.com/lantern-sh/lantern/command"
)

// Status classifies the outcome of a dispatch call.
type Status int

const (
	// StatusSuccess: the command ran; Output holds its return value.
	StatusSuccess Status = iota
	// StatusUnknownCommand: the first token matched no registered command.
	StatusUnknownCommand
	// StatusDispatchError: tokenizing, argument pairing, or type coercion
	// failed before the command could run. Err holds the typed error.
	StatusDispatchError
	// StatusExecutionError: the command itself failed; Err is an
	// *ExecutionError wrapping the original failure.
	StatusExecutionError
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusUnknownCommand:
		return "unknown command"
	case StatusDispatchError:
		return "dispatch error"
	case StatusExecutionError:
		return "execution error"
	}
	return "invalid status"
}

// Result is the single outcome of one dispatch call.
type Result struct {
	Status  Status
	Command string // the command name as typed
	Output  any    // command return value, valid on StatusSuccess
	Err     error  // valid on StatusDispatchError and StatusExecutionError
}

// Dispatch tokenizes line and resolves it against reg.
func Dispatch(reg *command.Registry, line string) Result {
	if reg == nil {
		panic("dispatch: nil registry")
	}
	tokens, err := Tokenize(line)
	if err != nil {
		return Result{Status: StatusDispatchError, Err: err}
	}
	return dispatchTokens(reg, tokens)
}

// DispatchArgs resolves an already-split argv sequence against reg,
// bypassing tokenization. Used for the process-argv entry point, where the
// operating system has already done the splitting.
func DispatchArgs(reg *command.Registry, argv []string) Result {
	if reg == nil {
		panic("dispatch: nil registry")
	}
	return dispatchTokens(reg, argv)
}

func dispatchTokens(reg *command.Registry, tokens []string) Result {
	if len(tokens) == 0 {
		return Result{Status: StatusDispatchError, Err: ErrEmptyInput}
	}

	name := tokens[0]
	cmd, ok := reg.Get(name)
	if !ok {
		return Result{Status: StatusUnknownCommand, Command: name}
	}

	// Walk the subcommand tree: each leading token naming a child descends
	// one level; the first non-matching token starts the arguments.
	args := tokens[1:]
	for len(args) > 0 {
		child, ok := cmd.Child(args[0])
		if !ok {
			break
		}
		cmd = child
		args = args[1:]
	}

	pos, flags, err := bindArgs(cmd, args)
	if err != nil {
		return Result{Status: StatusDispatchError, Command: name, Err: err}
	}

	out, err := cmd.Invoke(pos, flags)
	if err != nil {
		return Result{
			Status:  StatusExecutionError,
			Command: name,
			Err:     &ExecutionError{Command: cmd.Name, Err: err},
		}
	}
	return Result{Status: StatusSuccess, Command: name, Output: out}
}

// isFlagToken reports whether tok opens the flag region. A bare "--" is not
// a flag marker and stays positional.
func isFlagToken(tok string) bool {
	return len(tok) > 2 && strings.HasPrefix(tok, "--")
}

// bindArgs pairs raw tokens with cmd's parameters and coerces them.
// Tokens before the first --flag marker are positional; from the first
// marker on, the rest of the line is scanned as flags.
func bindArgs(cmd *command.Command, args []string) ([]any, map[string]any, error) {
	flagStart := len(args)
	for i, tok := range args {
		if isFlagToken(tok) {
			flagStart = i
			break
		}
	}

	posParams := cmd.Positionals()
	posTokens := args[:flagStart]
	if len(posTokens) > len(posParams) {
		return nil, nil, &TooManyArgumentsError{
			Command:  cmd.Name,
			Expected: len(posParams),
			Got:      len(posTokens),
		}
	}

	pos := make([]any, 0, len(posParams))
	for i, p := range posParams {
		if i < len(posTokens) {
			v, err := coerce(p, posTokens[i])
			if err != nil {
				return nil, nil, err
			}
			pos = append(pos, v)
			continue
		}
		if p.Required {
			return nil, nil, &MissingArgumentError{Command: cmd.Name, Param: p.Name}
		}
		pos = append(pos, p.Default)
	}

	seen := make(map[string]any)
	for i := flagStart; i < len(args); i++ {
		tok := args[i]
		if !isFlagToken(tok) {
			// A stray value token inside the flag region has no parameter
			// left to pair with.
			return nil, nil, &TooManyArgumentsError{
				Command:  cmd.Name,
				Expected: len(posParams),
				Got:      len(posTokens) + 1,
			}
		}
		fname := strings.TrimPrefix(tok, "--")
		p, ok := cmd.Flag(fname)
		if !ok {
			return nil, nil, &UnknownFlagError{Command: cmd.Name, Flag: fname}
		}
		if p.Kind == command.KindBool {
			// Presence alone sets the switch; the next token is never
			// consumed as its value.
			seen[p.Name] = true
			continue
		}
		if i+1 >= len(args) {
			return nil, nil, &MissingArgumentError{Command: cmd.Name, Param: p.Name}
		}
		v, err := coerce(p, args[i+1])
		if err != nil {
			return nil, nil, err
		}
		seen[p.Name] = v
		i++
	}

	flags := make(map[string]any)
	for _, p := range cmd.Flags() {
		if v, ok := seen[p.Name]; ok {
			flags[p.Name] = v
			continue
		}
		if p.Required {
			return nil, nil, &MissingArgumentError{Command: cmd.Name, Param: p.Name}
		}
		flags[p.Name] = p.Default // nil for optional-of parameters
	}
	return pos, flags, nil
}

// coerce converts a raw token to the parameter's declared type.
func coerce(p command.Param, tok string) (any, error) {
	switch p.Kind {
	case command.KindString:
		return tok, nil
	case command.KindInt:
		n, err := strconv.Atoi(tok)
		if err != nil {
			return nil, &CoercionError{Param: p.Name, Token: tok, Kind: p.Kind}
		}
		return n, nil
	case command.KindFloat:
		f, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return nil, &CoercionError{Param: p.Name, Token: tok, Kind: p.Kind}
		}
		return f, nil
	case command.KindBool:
		// Positional bools take literal text; bool flags never reach here.
		switch tok {
		case "true":
			return true, nil
		case "false":
			return false, nil
		}
		return nil, &CoercionError{Param: p.Name, Token: tok, Kind: p.Kind}
	}
	return nil, &CoercionError{Param: p.Name, Token: tok, Kind: p.Kind}
}
