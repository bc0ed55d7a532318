package engine

import (
	"strings"

	"github.com/quietgrove/tabwalk/internal/grammar"
)

// TokenKind is the classification of one already-typed token.
type TokenKind int

const (
	// KindVerb descends into a nested sub-grammar.
	KindVerb TokenKind = iota
	// KindFlag matched a known flag by canonical name or alias.
	KindFlag
	// KindUnknownFlag looks like a flag but matches nothing known. It
	// consumes exactly one token: the engine cannot know its arity, so
	// it must never swallow the token after it.
	KindUnknownFlag
	// KindFlagValue is the argument of the immediately preceding
	// value-taking flag.
	KindFlagValue
	// KindPositional is a plain positional argument of a leaf verb.
	KindPositional
	// KindOpaque marks tokens after an unrecognized verb; structured
	// completion is over for the rest of the input.
	KindOpaque
)

// Classifier assigns a kind to each raw token in order, mutating the
// ParseContext as it goes. Matching against typed tokens is exact;
// prefix matching applies only to the candidate being completed.
type Classifier struct {
	registry *grammar.Registry
}

// NewClassifier creates a classifier over the given grammar.
func NewClassifier(registry *grammar.Registry) *Classifier {
	return &Classifier{registry: registry}
}

// Classify consumes one token.
func (c *Classifier) Classify(pc *ParseContext, tok string) TokenKind {
	if pc.Opaque {
		pc.Positionals = append(pc.Positionals, tok)
		return KindOpaque
	}

	if pc.Pending != nil {
		pc.markValue(pc.Pending, tok)
		pc.Pending = nil
		return KindFlagValue
	}

	if isFlagLike(tok) {
		for _, f := range c.registry.FlagsOf(pc.Verb) {
			if f.Matches(tok) {
				pc.markFlag(f)
				if f.TakesValue {
					pc.Pending = f
				}
				return KindFlag
			}
		}
		return KindUnknownFlag
	}

	if child, ok := pc.Verb.Child(tok); ok {
		pc.Verb = child
		pc.Path = append(pc.Path, child.Name)
		return KindVerb
	}

	if len(pc.Verb.Verbs) > 0 {
		// A verb was expected but the token is not one we know. Degrade
		// to opaque rather than failing: the shell still needs a
		// response for input the grammar does not cover.
		pc.Opaque = true
		pc.Positionals = append(pc.Positionals, tok)
		return KindOpaque
	}

	pc.Positionals = append(pc.Positionals, tok)
	return KindPositional
}

func isFlagLike(tok string) bool {
	return strings.HasPrefix(tok, "-") && tok != "-" && tok != "--"
}
