package host

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/quietgrove/tabwalk/internal/grammar"
)

const (
	colorVerb  = lipgloss.Color("12")
	colorFlag  = lipgloss.Color("10")
	colorValue = lipgloss.Color("11")
	colorDim   = lipgloss.Color("8")
)

var (
	verbStyle  = lipgloss.NewStyle().Foreground(colorVerb)
	flagStyle  = lipgloss.NewStyle().Foreground(colorFlag)
	valueStyle = lipgloss.NewStyle().Foreground(colorValue)
	dimStyle   = lipgloss.NewStyle().Foreground(colorDim)
)

// Render writes candidates one per line as display<TAB>description,
// the form shell completion scripts consume (zsh's _describe, bash
// loops). Candidates without a description get a bare line.
func Render(w io.Writer, candidates []grammar.Candidate) error {
	for _, c := range candidates {
		var err error
		if c.Description != "" {
			_, err = fmt.Fprintf(w, "%s\t%s\n", c.Display, c.Description)
		} else {
			_, err = fmt.Fprintln(w, c.Display)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// RenderPretty writes an aligned, colored listing for humans invoking
// the binary directly in a terminal.
func RenderPretty(w io.Writer, candidates []grammar.Candidate) error {
	width := 0
	for _, c := range candidates {
		if len(c.Display) > width {
			width = len(c.Display)
		}
	}

	for _, c := range candidates {
		display := fmt.Sprintf("%-*s", width, c.Display)
		switch c.Kind {
		case grammar.VerbCandidate:
			display = verbStyle.Render(display)
		case grammar.FlagCandidate:
			display = flagStyle.Render(display)
		case grammar.ValueCandidate:
			display = valueStyle.Render(display)
		}

		line := display
		if c.Description != "" {
			line += "  " + dimStyle.Render(c.Description)
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
