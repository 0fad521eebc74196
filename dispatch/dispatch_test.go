// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 Lantern Authors

package dispatch

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lantern-sh/lantern/command"
)

type greetFlags struct {
	Formal bool
	Title  string `default:"Dr."`
}

func testRegistry(t *testing.T) *command.Registry {
	t.Helper()
	reg := command.NewRegistry()

	reg.MustRegister(
		func(name string, f greetFlags) string {
			if f.Formal {
				return "Good day, " + f.Title + " " + name
			}
			return "Hey, " + name
		},
		command.WithName("greet"),
		command.WithParams("name"),
	)

	reg.MustRegister(
		func(a, b int) int { return a + b },
		command.WithName("add"),
		command.WithParams("a", "b"),
	)

	reg.MustRegister(
		func(x float64) float64 { return x * 2 },
		command.WithName("double"),
		command.WithParams("x"),
	)

	reg.MustRegister(
		func(text string, times *int) string {
			n := 1
			if times != nil {
				n = *times
			}
			out := ""
			for i := 0; i < n; i++ {
				out += text
			}
			return out
		},
		command.WithName("echo"),
		command.WithParams("text", "times"),
	)

	reg.MustRegister(
		func(on bool) bool { return on },
		command.WithName("toggle"),
		command.WithParams("on"),
	)

	reg.MustRegister(
		func() (string, error) { return "", errors.New("always fails") },
		command.WithName("fail"),
	)

	return reg
}

func TestDispatch_Success(t *testing.T) {
	reg := testRegistry(t)

	tests := []struct {
		name string
		line string
		want any
	}{
		{"no flags", "greet Alice", "Hey, Alice"},
		{"bool switch and value flag", "greet Bob --formal --title Prof.", "Good day, Prof. Bob"},
		{"flag order irrelevant", "greet Bob --title Prof. --formal", "Good day, Prof. Bob"},
		{"flag default applies", "greet Eve --formal", "Good day, Dr. Eve"},
		{"int coercion", "add 2 40", 42},
		{"float coercion", "double 1.5", 3.0},
		{"optional positional absent", "echo hi", "hi"},
		{"optional positional present", "echo hi 3", "hihihi"},
		{"positional bool literal", "toggle true", true},
		{"quoted positional", `greet "John Doe"`, "Hey, John Doe"},
		{"quoted flag value", `greet Bob --formal --title "Prof. Dr."`, "Good day, Prof. Dr. Bob"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Dispatch(reg, tt.line)
			if res.Status != StatusSuccess {
				t.Fatalf("Dispatch(%q) status = %s, err = %v", tt.line, res.Status, res.Err)
			}
			if res.Output != tt.want {
				t.Errorf("Dispatch(%q) output = %v, want %v", tt.line, res.Output, tt.want)
			}
		})
	}
}

func TestDispatch_UnknownCommand(t *testing.T) {
	reg := testRegistry(t)

	res := Dispatch(reg, "frobnicate now")
	if res.Status != StatusUnknownCommand {
		t.Fatalf("status = %s, want %s", res.Status, StatusUnknownCommand)
	}
	if res.Command != "frobnicate" {
		t.Errorf("Command = %q, want %q", res.Command, "frobnicate")
	}
	if res.Err != nil {
		t.Errorf("Err = %v, want nil", res.Err)
	}
}

func TestDispatch_EmptyInput(t *testing.T) {
	reg := testRegistry(t)

	res := Dispatch(reg, "   ")
	if res.Status != StatusDispatchError {
		t.Fatalf("status = %s, want %s", res.Status, StatusDispatchError)
	}
	if !errors.Is(res.Err, ErrEmptyInput) {
		t.Errorf("Err = %v, want ErrEmptyInput", res.Err)
	}
}

func TestDispatch_Errors(t *testing.T) {
	reg := testRegistry(t)

	tests := []struct {
		name  string
		line  string
		check func(t *testing.T, err error)
	}{
		{
			"missing positional",
			"greet",
			func(t *testing.T, err error) {
				var e *MissingArgumentError
				if !errors.As(err, &e) {
					t.Fatalf("err = %v, want *MissingArgumentError", err)
				}
				if e.Param != "name" {
					t.Errorf("Param = %q, want %q", e.Param, "name")
				}
			},
		},
		{
			"too many positionals",
			"add 1 2 3",
			func(t *testing.T, err error) {
				var e *TooManyArgumentsError
				if !errors.As(err, &e) {
					t.Fatalf("err = %v, want *TooManyArgumentsError", err)
				}
				if e.Expected != 2 || e.Got != 3 {
					t.Errorf("Expected/Got = %d/%d, want 2/3", e.Expected, e.Got)
				}
			},
		},
		{
			"unknown flag",
			"greet Alice --loud",
			func(t *testing.T, err error) {
				var e *UnknownFlagError
				if !errors.As(err, &e) {
					t.Fatalf("err = %v, want *UnknownFlagError", err)
				}
				if e.Flag != "loud" {
					t.Errorf("Flag = %q, want %q", e.Flag, "loud")
				}
			},
		},
		{
			"flag missing its value",
			"greet Alice --title",
			func(t *testing.T, err error) {
				var e *MissingArgumentError
				if !errors.As(err, &e) {
					t.Fatalf("err = %v, want *MissingArgumentError", err)
				}
				if e.Param != "title" {
					t.Errorf("Param = %q, want %q", e.Param, "title")
				}
			},
		},
		{
			"int coercion failure",
			"add 1 abc",
			func(t *testing.T, err error) {
				var e *CoercionError
				if !errors.As(err, &e) {
					t.Fatalf("err = %v, want *CoercionError", err)
				}
				if e.Token != "abc" || e.Kind != command.KindInt {
					t.Errorf("Token/Kind = %q/%s, want abc/int", e.Token, e.Kind)
				}
			},
		},
		{
			"bool literal coercion failure",
			"toggle yes",
			func(t *testing.T, err error) {
				var e *CoercionError
				if !errors.As(err, &e) {
					t.Fatalf("err = %v, want *CoercionError", err)
				}
			},
		},
		{
			"stray value in flag region",
			"greet Alice --formal extra",
			func(t *testing.T, err error) {
				var e *TooManyArgumentsError
				if !errors.As(err, &e) {
					t.Fatalf("err = %v, want *TooManyArgumentsError", err)
				}
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Dispatch(reg, tt.line)
			if res.Status != StatusDispatchError {
				t.Fatalf("Dispatch(%q) status = %s, want %s", tt.line, res.Status, StatusDispatchError)
			}
			tt.check(t, res.Err)
		})
	}
}

func TestDispatch_BoolFlagNeverConsumesValue(t *testing.T) {
	reg := command.NewRegistry()
	type flags struct {
		Verbose bool
		Level   string `default:"info"`
	}
	reg.MustRegister(
		func(f flags) string {
			return fmt.Sprintf("verbose=%v level=%s", f.Verbose, f.Level)
		},
		command.WithName("log"),
	)

	// The token after --verbose is a flag, not a swallowed value.
	res := Dispatch(reg, "log --verbose --level debug")
	if res.Status != StatusSuccess {
		t.Fatalf("status = %s, err = %v", res.Status, res.Err)
	}
	if res.Output != "verbose=true level=debug" {
		t.Errorf("output = %v, want %q", res.Output, "verbose=true level=debug")
	}
}

func TestDispatch_DuplicateFlagLastWins(t *testing.T) {
	reg := testRegistry(t)

	res := Dispatch(reg, "greet Bob --formal --title Mr. --title Prof.")
	if res.Status != StatusSuccess {
		t.Fatalf("status = %s, err = %v", res.Status, res.Err)
	}
	if res.Output != "Good day, Prof. Bob" {
		t.Errorf("output = %v, want last --title occurrence to win", res.Output)
	}
}

func TestDispatch_BareDoubleDashIsPositional(t *testing.T) {
	reg := testRegistry(t)

	res := Dispatch(reg, "greet --")
	if res.Status != StatusSuccess {
		t.Fatalf("status = %s, err = %v", res.Status, res.Err)
	}
	if res.Output != "Hey, --" {
		t.Errorf("output = %v, want %q", res.Output, "Hey, --")
	}
}

func TestDispatch_ExecutionError(t *testing.T) {
	reg := testRegistry(t)

	res := Dispatch(reg, "fail")
	if res.Status != StatusExecutionError {
		t.Fatalf("status = %s, want %s", res.Status, StatusExecutionError)
	}
	var ee *ExecutionError
	if !errors.As(res.Err, &ee) {
		t.Fatalf("Err = %v, want *ExecutionError", res.Err)
	}
	if ee.Command != "fail" {
		t.Errorf("ExecutionError.Command = %q, want %q", ee.Command, "fail")
	}
	if ee.Unwrap() == nil || ee.Unwrap().Error() != "always fails" {
		t.Errorf("Unwrap() = %v, want the original error", ee.Unwrap())
	}
}

func TestDispatch_TokenizeError(t *testing.T) {
	reg := testRegistry(t)

	res := Dispatch(reg, `greet "John`)
	if res.Status != StatusDispatchError {
		t.Fatalf("status = %s, want %s", res.Status, StatusDispatchError)
	}
	var te *TokenizeError
	if !errors.As(res.Err, &te) {
		t.Errorf("Err = %v, want *TokenizeError", res.Err)
	}
}

func TestDispatchArgs(t *testing.T) {
	reg := testRegistry(t)

	// Argv is already split; spaces inside a token survive untouched.
	res := DispatchArgs(reg, []string{"greet", "John Doe"})
	if res.Status != StatusSuccess {
		t.Fatalf("status = %s, err = %v", res.Status, res.Err)
	}
	if res.Output != "Hey, John Doe" {
		t.Errorf("output = %v, want %q", res.Output, "Hey, John Doe")
	}
}

func TestDispatch_Subcommands(t *testing.T) {
	reg := command.NewRegistry()
	reg.MustRegister(
		func() string { return "usage: remote <subcommand>" },
		command.WithName("remote"),
	)
	reg.MustRegister(
		func(name, url string) string { return "added " + name + " " + url },
		command.WithName("add"),
		command.WithParent("remote"),
		command.WithParams("name", "url"),
	)
	reg.MustRegister(
		func(force bool) string { return fmt.Sprintf("pruned force=%v", force) },
		command.WithName("prune"),
		command.WithParent("add"),
		command.WithParams("force"),
	)

	tests := []struct {
		name string
		line string
		want any
	}{
		{"child with args", "remote add origin http://x", "added origin http://x"},
		{"parent runs when no child matches", "remote", "usage: remote <subcommand>"},
		{"nested child", "remote add prune true", "pruned force=true"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Dispatch(reg, tt.line)
			if res.Status != StatusSuccess {
				t.Fatalf("Dispatch(%q) status = %s, err = %v", tt.line, res.Status, res.Err)
			}
			if res.Output != tt.want {
				t.Errorf("Dispatch(%q) = %v, want %v", tt.line, res.Output, tt.want)
			}
		})
	}

	// A non-child token ends the traversal and binds as the parent's argument.
	res := Dispatch(reg, "remote status")
	if res.Status != StatusDispatchError {
		t.Fatalf("Dispatch(remote status) status = %s, want dispatch error", res.Status)
	}
	var e *TooManyArgumentsError
	if !errors.As(res.Err, &e) {
		t.Errorf("err = %v, want *TooManyArgumentsError from the parent", res.Err)
	}

	// Subcommands are not reachable as root commands.
	if res := Dispatch(reg, "add origin http://x"); res.Status != StatusUnknownCommand {
		t.Errorf("Dispatch(add ...) status = %s, want unknown command", res.Status)
	}
}

func TestDispatch_CoercionRoundTrip(t *testing.T) {
	reg := command.NewRegistry()
	reg.MustRegister(func(v int) int { return v }, command.WithName("int"), command.WithParams("v"))
	reg.MustRegister(func(v float64) float64 { return v }, command.WithName("float"), command.WithParams("v"))
	reg.MustRegister(func(v string) string { return v }, command.WithName("string"), command.WithParams("v"))

	values := []struct {
		cmd string
		val any
	}{
		{"int", -42},
		{"int", 0},
		{"float", 3.25},
		{"float", -0.5},
		{"string", "hello"},
	}
	for _, tt := range values {
		// A coerced value rendered back to text dispatches to an equal value.
		line := fmt.Sprintf("%s %v", tt.cmd, tt.val)
		res := Dispatch(reg, line)
		if res.Status != StatusSuccess {
			t.Fatalf("Dispatch(%q) status = %s, err = %v", line, res.Status, res.Err)
		}
		if res.Output != tt.val {
			t.Errorf("Dispatch(%q) = %v (%T), want %v (%T)", line, res.Output, res.Output, tt.val, tt.val)
		}
	}
}

func TestDispatch_NilRegistryPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Dispatch(nil, ...) should panic")
		}
	}()
	Dispatch(nil, "greet Alice")
}
