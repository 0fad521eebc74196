// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 Lantern Authors

package shell

import (
	"fmt"
	"os"
	"strings"

	"github.com/lantern-sh/lantern/dispatch"
)

// RunScript executes commands from a file, line by line. Blank lines and
// lines starting with # are skipped. Execution stops at the first failing
// line, which is reported by number; handlers have already presented the
// underlying error by then. An exit command inside the script stops it
// without error.
func (s *Shell) RunScript(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading script file: %w", err)
	}

	lines := strings.Split(string(data), "\n")
	executed := 0
	for i, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fmt.Fprintf(s.out, "[%d] %s\n", i+1, line)
		res := s.Eval(line)
		if res.Status != dispatch.StatusSuccess {
			return fmt.Errorf("script stopped at line %d", i+1)
		}
		executed++

		if s.state == StateStopped {
			break
		}
	}

	fmt.Fprintf(s.out, "script completed (%d commands executed)\n", executed)
	return nil
}
