// Package engine implements the completion state machine: it walks a
// partially typed argument list against a grammar.Registry and yields
// the candidate set for the cursor position.
package engine

import (
	"github.com/quietgrove/tabwalk/internal/grammar"
	"github.com/quietgrove/tabwalk/internal/providers"
)

type consumedFlag struct {
	flag   *grammar.Flag
	count  int
	values []string
}

// ParseContext is the per-request parse state threaded through token
// classification. It is owned by exactly one completion request and
// discarded when the request ends.
type ParseContext struct {
	// Verb is the deepest verb reached so far.
	Verb *grammar.Verb
	// Path is the chain of verb names consumed, root excluded.
	Path []string
	// Pending is the value-taking flag whose value has not been typed yet.
	Pending *grammar.Flag
	// Opaque marks that an unrecognized verb was seen: the remainder of
	// the input is treated as unstructured and yields no suggestions.
	Opaque bool
	// Positionals are the positional tokens consumed so far.
	Positionals []string

	registry *grammar.Registry
	consumed map[string]*consumedFlag
}

// NewParseContext creates parse state positioned at the grammar root.
func NewParseContext(registry *grammar.Registry) *ParseContext {
	return &ParseContext{
		Verb:     registry.Root(),
		registry: registry,
		consumed: make(map[string]*consumedFlag),
	}
}

func (pc *ParseContext) markFlag(f *grammar.Flag) {
	c, ok := pc.consumed[f.Name]
	if !ok {
		c = &consumedFlag{flag: f}
		pc.consumed[f.Name] = c
	}
	c.count++
}

func (pc *ParseContext) markValue(f *grammar.Flag, value string) {
	c, ok := pc.consumed[f.Name]
	if !ok {
		c = &consumedFlag{flag: f, count: 1}
		pc.consumed[f.Name] = c
	}
	c.values = append(c.values, value)
}

// FlagConsumed reports whether the flag with the given canonical name
// has been typed already.
func (pc *ParseContext) FlagConsumed(name string) bool {
	_, ok := pc.consumed[name]
	return ok
}

// Excluded reports whether f must not be suggested given the flags
// already consumed: repetition of a non-repeatable flag, hard
// exclusivity against a consumed group member, or soft suppression by a
// consumed peer. Suppression is symmetric, so checking the consumed
// side covers declarations made from either flag.
func (pc *ParseContext) Excluded(f *grammar.Flag) bool {
	if pc.FlagConsumed(f.Name) && !f.Repeatable {
		return true
	}
	for _, c := range pc.consumed {
		if c.flag.Name == f.Name {
			continue
		}
		if f.Group != "" && c.flag.Group == f.Group {
			return true
		}
		for _, peer := range c.flag.Suppresses {
			if peer == f.Name {
				return true
			}
		}
	}
	return false
}

// Request projects the parse state into the narrow view handed to
// dynamic value providers.
func (pc *ParseContext) Request(dir string) providers.Request {
	flagValues := make(map[string][]string, len(pc.consumed))
	for name, c := range pc.consumed {
		if len(c.values) > 0 {
			flagValues[name] = append([]string(nil), c.values...)
		}
	}
	return providers.Request{
		VerbPath:    append([]string(nil), pc.Path...),
		FlagValues:  flagValues,
		Positionals: append([]string(nil), pc.Positionals...),
		Dir:         dir,
	}
}
