// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 Lantern Authors

// Command lanternsh is a small demonstration shell built on the lantern
// framework. Invoked without arguments it enters the interactive loop;
// invoked with arguments it dispatches them as a single command and exits.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/lantern-sh/lantern/command"
	"github.com/lantern-sh/lantern/config"
	"github.com/lantern-sh/lantern/internal/logging"
	"github.com/lantern-sh/lantern/internal/version"
	"github.com/lantern-sh/lantern/shell"
	"github.com/lantern-sh/lantern/style"
)

func main() {
	printVersion := flag.Bool("version", false, "Print version and exit")
	dataDir := flag.String("d", "", "Data directory (default: ~/.lantern or LANTERN_DATA)")
	scriptFile := flag.String("script", "", "Execute script file and exit")
	flag.Parse()

	if *printVersion {
		fmt.Printf("lanternsh %s\n", version.String())
		os.Exit(0)
	}

	logging.Init()

	resolvedDataDir := config.DataDir(*dataDir)
	cfg, err := config.Load(config.Path(resolvedDataDir))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid configuration: %v\n", err)
		os.Exit(1)
	}
	if cfg.NoColor {
		style.Disable()
	}

	reg := command.NewRegistry()
	registerDemoCommands(reg)

	sh := shell.New(shell.WithRegistry(reg))

	// Process-argv fallback: dispatch once instead of entering the loop.
	if args := flag.Args(); len(args) > 0 {
		os.Exit(sh.ExecArgs(args))
	}

	if *scriptFile != "" {
		if err := sh.RunScript(*scriptFile); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	if cfg.StartText != "" {
		fmt.Println(cfg.StartText)
	} else {
		fmt.Println("lanternsh - lantern demo shell")
		fmt.Println("Type 'help' for available commands or 'exit' to leave")
	}

	prompt := shell.NewPrompt(cfg.Prompt,
		shell.WithRLabel(cfg.RPrompt),
		shell.WithHistoryFile(cfg.HistoryPath(resolvedDataDir)),
		shell.WithHistoryLimit(cfg.HistoryLimit),
	)
	if err := sh.Run(prompt); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// greetFlags are the keyword-style arguments of the greet command.
type greetFlags struct {
	Formal bool   `flag:"formal"`
	Title  string `flag:"title" default:"Dr."`
}

func registerDemoCommands(reg *command.Registry) {
	reg.MustRegister(
		func(name string, f greetFlags) string {
			if f.Formal {
				return fmt.Sprintf("Good day to you, %s %s.", f.Title, name)
			}
			return fmt.Sprintf("Hey, %s!", name)
		},
		command.WithName("greet"),
		command.WithDescription("Greet someone by name"),
		command.WithCategory("Demo"),
		command.WithParams("name"),
	)

	reg.MustRegister(
		func(a, b int) string {
			return fmt.Sprintf("%d", a+b)
		},
		command.WithName("add"),
		command.WithDescription("Add two integers"),
		command.WithCategory("Demo"),
		command.WithParams("a", "b"),
	)

	reg.MustRegister(
		func(text string, times *int) string {
			n := 1
			if times != nil {
				n = *times
			}
			out := ""
			for i := 0; i < n; i++ {
				if i > 0 {
					out += "\n"
				}
				out += text
			}
			return out
		},
		command.WithName("echo"),
		command.WithDescription("Echo text, optionally repeated"),
		command.WithCategory("Demo"),
		command.WithParams("text", "times"),
	)

	reg.MustRegister(
		func(shouldFail bool) (string, error) {
			if shouldFail {
				return "", fmt.Errorf("failure requested")
			}
			return "Success!", nil
		},
		command.WithName("test"),
		command.WithDescription("Succeed or fail on demand"),
		command.WithCategory("Demo"),
		command.WithParams("should-fail"),
	)
}
