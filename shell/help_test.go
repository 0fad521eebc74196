// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 Lantern Authors

package shell

import (
	"bytes"
	"strings"
	"testing"

	"github.com/lantern-sh/lantern/command"
	"github.com/lantern-sh/lantern/dispatch"
)

func TestUsage(t *testing.T) {
	type flags struct {
		Formal bool
		Title  string `default:"Dr."`
		Max    int    `flag:"max"`
	}
	tests := []struct {
		name string
		cmd  *command.Command
		want string
	}{
		{
			"no parameters",
			command.MustIntrospect(func() {}, command.WithName("status")),
			"status",
		},
		{
			"required and optional positionals",
			command.MustIntrospect(
				func(text string, times *int) {},
				command.WithName("echo"),
				command.WithParams("text", "times"),
			),
			"echo <text> [times]",
		},
		{
			"flags",
			command.MustIntrospect(
				func(name string, f flags) {},
				command.WithName("greet"),
				command.WithParams("name"),
			),
			"greet <name> [--formal] [--title <string>] --max <int>",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Usage(tt.cmd); got != tt.want {
				t.Errorf("Usage() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestHelpBuiltin_Overview(t *testing.T) {
	reg := command.NewRegistry()
	reg.MustRegister(
		func(name string) {},
		command.WithName("greet"),
		command.WithDescription("Greet someone"),
		command.WithCategory("Demo"),
		command.WithParams("name"),
	)

	var buf bytes.Buffer
	s := New(WithRegistry(reg), WithOutput(&buf))

	res := s.Eval("help")
	if res.Status != dispatch.StatusSuccess {
		t.Fatalf("status = %s, err = %v", res.Status, res.Err)
	}

	out := buf.String()
	for _, want := range []string{
		"Available commands:",
		"Demo:",
		"greet <name>",
		"Greet someone",
		"exit",
		"(aliases: quit, q)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("help output missing %q:\n%s", want, out)
		}
	}
}

func TestHelpBuiltin_SingleCommand(t *testing.T) {
	type flags struct {
		Formal bool
		Title  string `default:"Dr."`
	}
	reg := command.NewRegistry()
	reg.MustRegister(
		func(name string, f flags) {},
		command.WithName("greet"),
		command.WithDescription("Greet someone"),
		command.WithAliases("hello"),
		command.WithParams("name"),
	)

	var buf bytes.Buffer
	s := New(WithRegistry(reg), WithOutput(&buf))

	res := s.Eval("help greet")
	if res.Status != dispatch.StatusSuccess {
		t.Fatalf("status = %s, err = %v", res.Status, res.Err)
	}

	out := buf.String()
	for _, want := range []string{
		"Command: greet",
		"Aliases: hello",
		"Usage: greet <name> [--formal] [--title <string>]",
		"Greet someone",
		"--formal",
		"(default Dr.)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("help output missing %q:\n%s", want, out)
		}
	}
}

func TestHelpBuiltin_Subcommands(t *testing.T) {
	reg := command.NewRegistry()
	reg.MustRegister(func() {}, command.WithName("remote"),
		command.WithDescription("Manage remotes"))
	reg.MustRegister(func() {}, command.WithName("add"),
		command.WithParent("remote"), command.WithDescription("Add a remote"))

	var buf bytes.Buffer
	s := New(WithRegistry(reg), WithOutput(&buf))

	res := s.Eval("help remote")
	if res.Status != dispatch.StatusSuccess {
		t.Fatalf("status = %s, err = %v", res.Status, res.Err)
	}

	out := buf.String()
	for _, want := range []string{"Subcommands:", "add", "Add a remote"} {
		if !strings.Contains(out, want) {
			t.Errorf("help output missing %q:\n%s", want, out)
		}
	}
}

func TestHelpBuiltin_UnknownCommand(t *testing.T) {
	var buf bytes.Buffer
	h := NewHandlers()
	h.SetOutput(&buf)
	s := New(WithRegistry(command.NewRegistry()), WithHandlers(h), WithOutput(&buf))

	s.Eval("help frobnicate")
	if !strings.Contains(buf.String(), "unknown command: frobnicate") {
		t.Errorf("output = %q, want unknown-command report", buf.String())
	}
}

func TestHelpBuiltin_Alias(t *testing.T) {
	var buf bytes.Buffer
	s := New(WithRegistry(command.NewRegistry()), WithOutput(&buf))

	res := s.Eval("h")
	if res.Status != dispatch.StatusSuccess {
		t.Fatalf("status = %s, err = %v", res.Status, res.Err)
	}
	if !strings.Contains(buf.String(), "Available commands:") {
		t.Errorf("output = %q, want help overview via alias", buf.String())
	}
}
