// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 Lantern Authors

package dispatch

import (
	"fmt"
	"strings"
)

// TokenizeError reports an unterminated quote in the input line.
type TokenizeError struct {
	Quote byte // the quote character left open
	Pos   int  // byte offset where it was opened
}

func (e *TokenizeError) Error() string {
	return fmt.Sprintf("unterminated %c quote at offset %d", e.Quote, e.Pos)
}

// Tokenize splits a raw input line into tokens, shell-style. Double and
// single quotes group whitespace into a single token and are stripped; a
// quoted pair with nothing inside yields an empty token. An unterminated
// quote returns a *TokenizeError.
func Tokenize(input string) ([]string, error) {
	var tokens []string
	var current strings.Builder
	var quote byte
	quoteStart := -1
	quoted := false // current token contained a quote pair; keep it even if empty

	flush := func() {
		if current.Len() > 0 || quoted {
			tokens = append(tokens, current.String())
		}
		current.Reset()
		quoted = false
	}

	for i := 0; i < len(input); i++ {
		ch := input[i]
		switch {
		case quote != 0:
			if ch == quote {
				quote = 0
			} else {
				current.WriteByte(ch)
			}
		case ch == '"' || ch == '\'':
			quote = ch
			quoteStart = i
			quoted = true
		case ch == ' ' || ch == '\t':
			flush()
		default:
			current.WriteByte(ch)
		}
	}
	if quote != 0 {
		return nil, &TokenizeError{Quote: quote, Pos: quoteStart}
	}
	flush()
	return tokens, nil
}
