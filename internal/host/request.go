// Package host adapts between a shell's completion hook and the
// engine: it decodes the raw request (a pre-split token list plus
// cursor index, or a whole command line) and renders the resulting
// candidates back to the shell.
package host

import (
	"os"
	"strings"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/syntax"
)

// Request is one completion invocation: the command line split into
// tokens (program name excluded) and the index of the token being
// completed. Cursor may equal len(Tokens) when the user is starting a
// new word.
type Request struct {
	Tokens []string
	Cursor int
}

// FromTokens builds a request from an already-split token list, as a
// shell passes COMP_WORDS. The program name is expected to be stripped
// by the caller. The cursor is clamped into range.
func FromTokens(tokens []string, cursor int) Request {
	if cursor < 0 {
		cursor = 0
	}
	if cursor > len(tokens) {
		cursor = len(tokens)
	}
	return Request{Tokens: tokens, Cursor: cursor}
}

// FromLine builds a request from a whole command line, as a shell
// passes COMP_LINE. The line is split with shell word rules (quoting
// respected), the leading program word is dropped, and the cursor
// lands on the last word, or past it when the line ends in whitespace.
func FromLine(line string) Request {
	tokens := splitWords(line)

	cursor := len(tokens)
	if len(tokens) > 0 && !endsInWhitespace(line) {
		cursor = len(tokens) - 1
	}

	// Drop the program name.
	if len(tokens) > 0 {
		tokens = tokens[1:]
		cursor--
	}
	if cursor < 0 {
		cursor = 0
	}
	return Request{Tokens: tokens, Cursor: cursor}
}

// splitWords splits a command line into shell words. Words that fail
// literal expansion (command substitutions and the like) keep their raw
// source text; the engine will classify them as opaque anyway.
func splitWords(line string) []string {
	cfg := &expand.Config{Env: expand.FuncEnviron(os.Getenv)}

	var words []string
	parser := syntax.NewParser()
	err := parser.Words(strings.NewReader(line), func(w *syntax.Word) bool {
		lit, err := expand.Literal(cfg, w)
		if err != nil {
			lit = rawText(line, w)
		}
		words = append(words, lit)
		return true
	})
	if err != nil {
		// Unparseable input (an unclosed quote mid-typing is common).
		// Fall back to whitespace splitting so the shell still gets a
		// response.
		return strings.Fields(line)
	}
	return words
}

func rawText(line string, w *syntax.Word) string {
	start := w.Pos().Offset()
	end := w.End().Offset()
	if start >= uint(len(line)) || end > uint(len(line)) || start >= end {
		return ""
	}
	return line[start:end]
}

func endsInWhitespace(line string) bool {
	return line != "" && strings.TrimRight(line, " \t\n") != line
}
