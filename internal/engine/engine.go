package engine

import (
	"context"
	"strings"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/quietgrove/tabwalk/internal/grammar"
	"github.com/quietgrove/tabwalk/internal/providers"
)

// Engine orchestrates one completion request: it classifies the tokens
// before the cursor, resolves the expected slot at the cursor, and
// assembles the ordered candidate set. Complete never fails; anything
// unexpected degrades to fewer candidates.
type Engine struct {
	registry  *grammar.Registry
	providers *providers.Registry
	logger    *zap.Logger
	dir       string
}

// New creates an engine. dir is the directory completion requests run
// in; dynamic value providers receive it to enumerate external state.
func New(registry *grammar.Registry, provs *providers.Registry, logger *zap.Logger, dir string) *Engine {
	return &Engine{
		registry:  registry,
		providers: provs,
		logger:    logger,
		dir:       dir,
	}
}

// Complete returns the ordered candidate set for the token being
// completed. tokens is the full command line split by the host's own
// tokenizer, program name excluded; cursor identifies the token being
// completed and may equal len(tokens) for a new empty trailing token.
func (e *Engine) Complete(ctx context.Context, tokens []string, cursor int) []grammar.Candidate {
	if cursor < 0 {
		cursor = 0
	}
	if cursor > len(tokens) {
		cursor = len(tokens)
	}

	partial := ""
	if cursor < len(tokens) {
		partial = tokens[cursor]
	}

	pc := NewParseContext(e.registry)
	classifier := NewClassifier(e.registry)
	for _, tok := range tokens[:cursor] {
		classifier.Classify(pc, tok)
	}

	if pc.Opaque {
		e.logger.Debug("opaque input, no structured candidates",
			zap.Strings("tokens", tokens),
			zap.Int("cursor", cursor),
		)
		return []grammar.Candidate{}
	}

	var candidates []grammar.Candidate
	switch {
	case pc.Pending != nil:
		candidates = e.valueCandidates(ctx, pc, pc.Pending.Source)
	case len(pc.Verb.Verbs) > 0:
		candidates = e.verbCandidates(pc)
		candidates = append(candidates, e.flagCandidates(pc)...)
	default:
		candidates = e.flagCandidates(pc)
		candidates = append(candidates, e.valueCandidates(ctx, pc, pc.Verb.Positional)...)
	}

	candidates = lo.Filter(candidates, func(c grammar.Candidate, _ int) bool {
		return strings.HasPrefix(c.Display, partial)
	})
	return lo.UniqBy(candidates, func(c grammar.Candidate) string {
		return c.Display
	})
}

// verbCandidates lists the sub-verbs of the current verb in
// declaration order.
func (e *Engine) verbCandidates(pc *ParseContext) []grammar.Candidate {
	candidates := make([]grammar.Candidate, 0, len(pc.Verb.Verbs))
	for _, v := range pc.Verb.Verbs {
		candidates = append(candidates, grammar.Candidate{
			Display:     v.Name,
			Description: v.Description,
			Kind:        grammar.VerbCandidate,
		})
	}
	return candidates
}

// flagCandidates lists the flags applicable at the current verb, own
// flags before inherited globals, canonical name before aliases,
// skipping flags excluded by consumption, hard exclusivity, or soft
// suppression.
func (e *Engine) flagCandidates(pc *ParseContext) []grammar.Candidate {
	var candidates []grammar.Candidate
	for _, f := range e.registry.FlagsOf(pc.Verb) {
		if pc.Excluded(f) {
			continue
		}
		for _, name := range f.Names() {
			candidates = append(candidates, grammar.Candidate{
				Display:     name,
				Description: f.Description,
				Kind:        grammar.FlagCandidate,
			})
		}
	}
	return candidates
}

// valueCandidates resolves a value source: static options verbatim in
// declared order, then provider output. Path sources yield nothing
// because file completion belongs to the shell.
func (e *Engine) valueCandidates(ctx context.Context, pc *ParseContext, src grammar.ValueSource) []grammar.Candidate {
	if src.Empty() || src.Path {
		return nil
	}

	values := append([]string(nil), src.Options...)
	if src.Provider != "" {
		results := e.providers.Collect(
			ctx,
			e.registry.ProviderTimeout(),
			pc.Request(e.dir),
			[]string{src.Provider},
		)
		for _, r := range results {
			values = append(values, r...)
		}
	}

	candidates := make([]grammar.Candidate, 0, len(values))
	for _, v := range values {
		candidates = append(candidates, grammar.Candidate{
			Display: v,
			Kind:    grammar.ValueCandidate,
		})
	}
	return candidates
}
