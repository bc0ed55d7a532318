package grammar

import (
	"errors"
	"fmt"
	"time"

	"github.com/samber/lo"
)

// DefaultProviderTimeout bounds a dynamic value provider call when the
// grammar does not configure one.
const DefaultProviderTimeout = 150 * time.Millisecond

// Registry holds a validated, immutable completion grammar. It is built
// once at startup; malformed grammars never reach request-serving code.
type Registry struct {
	root     *Verb
	tool     string
	settings Settings

	// inherited flags (own + ancestor globals), precomputed per verb
	flags map[*Verb][]*Flag
}

// NewRegistry validates doc against the set of registered provider
// names and builds the registry. Any validation failure is a fatal
// construction error.
func NewRegistry(doc *Document, providerNames []string) (*Registry, error) {
	r := &Registry{
		root:     &doc.Root,
		tool:     doc.Tool,
		settings: doc.Settings,
		flags:    make(map[*Verb][]*Flag),
	}

	var errs []error
	r.validateVerb(r.root, nil, providerNames, &errs)
	if len(errs) > 0 {
		return nil, fmt.Errorf("invalid grammar for %q: %w", doc.Tool, errors.Join(errs...))
	}

	normalizeSuppression(r.root)
	r.collectFlags(r.root, nil)
	return r, nil
}

// Tool returns the name of the tool the grammar describes.
func (r *Registry) Tool() string { return r.tool }

// Root returns the root verb.
func (r *Registry) Root() *Verb { return r.root }

// ProviderTimeout returns the configured per-provider time budget.
func (r *Registry) ProviderTimeout() time.Duration {
	if r.settings.ProviderTimeoutMS > 0 {
		return time.Duration(r.settings.ProviderTimeoutMS) * time.Millisecond
	}
	return DefaultProviderTimeout
}

// ResolveVerb walks the verb tree along path. An empty path resolves to
// the root. The second return is false when any path element is not a
// known sub-verb at its depth.
func (r *Registry) ResolveVerb(path ...string) (*Verb, bool) {
	v := r.root
	for _, name := range path {
		child, ok := v.Child(name)
		if !ok {
			return nil, false
		}
		v = child
	}
	return v, true
}

// FlagsOf returns the flags applicable at v: its own flags in
// declaration order, followed by global flags inherited from ancestor
// verbs (nearest ancestor first).
func (r *Registry) FlagsOf(v *Verb) []*Flag {
	return r.flags[v]
}

func (r *Registry) validateVerb(v *Verb, path []string, providerNames []string, errs *[]error) {
	at := "root"
	if len(path) > 0 {
		at = fmt.Sprintf("verb %v", path)
	}

	seenVerbs := map[string]bool{}
	for _, c := range v.Verbs {
		if c.Name == "" {
			*errs = append(*errs, fmt.Errorf("%s: sub-verb with empty name", at))
			continue
		}
		if seenVerbs[c.Name] {
			*errs = append(*errs, fmt.Errorf("%s: duplicate verb %q", at, c.Name))
		}
		seenVerbs[c.Name] = true
	}

	seenNames := map[string]bool{}
	for _, f := range v.Flags {
		if f.Name == "" {
			*errs = append(*errs, fmt.Errorf("%s: flag with empty name", at))
			continue
		}
		for _, name := range f.Names() {
			if seenNames[name] {
				*errs = append(*errs, fmt.Errorf("%s: duplicate flag name %q", at, name))
			}
			seenNames[name] = true
		}
		validateSource(f.Source, fmt.Sprintf("%s: flag %s", at, f.Name), providerNames, errs)
		if !f.TakesValue && !f.Source.Empty() {
			*errs = append(*errs, fmt.Errorf("%s: flag %s declares a value source but takes no value", at, f.Name))
		}
		for _, peer := range f.Suppresses {
			if peer == f.Name {
				*errs = append(*errs, fmt.Errorf("%s: flag %s suppresses itself", at, f.Name))
				continue
			}
			if _, ok := v.FindFlag(peer); !ok {
				*errs = append(*errs, fmt.Errorf("%s: flag %s suppresses unknown flag %q", at, f.Name, peer))
			}
		}
	}

	validateSource(v.Positional, fmt.Sprintf("%s: positional", at), providerNames, errs)

	for _, c := range v.Verbs {
		childPath := append(append([]string(nil), path...), c.Name)
		r.validateVerb(c, childPath, providerNames, errs)
	}
}

func validateSource(s ValueSource, at string, providerNames []string, errs *[]error) {
	if s.Provider != "" && !lo.Contains(providerNames, s.Provider) {
		*errs = append(*errs, fmt.Errorf("%s: unknown value provider %q", at, s.Provider))
	}
	if s.Path && (len(s.Options) > 0 || s.Provider != "") {
		*errs = append(*errs, fmt.Errorf("%s: path source cannot also enumerate values", at))
	}
}

// normalizeSuppression closes the soft-preference relation under
// symmetry: a suppression declared from either side behaves identically
// in both directions.
func normalizeSuppression(v *Verb) {
	for _, f := range v.Flags {
		for _, peerName := range f.Suppresses {
			peer, ok := v.FindFlag(peerName)
			if !ok {
				continue
			}
			if !lo.Contains(peer.Suppresses, f.Name) {
				peer.Suppresses = append(peer.Suppresses, f.Name)
			}
		}
	}
	for _, c := range v.Verbs {
		normalizeSuppression(c)
	}
}

func (r *Registry) collectFlags(v *Verb, inherited []*Flag) {
	flags := make([]*Flag, 0, len(v.Flags)+len(inherited))
	flags = append(flags, v.Flags...)
	flags = append(flags, inherited...)
	r.flags[v] = flags

	next := make([]*Flag, 0, len(inherited))
	for _, f := range v.Flags {
		if f.Global {
			next = append(next, f)
		}
	}
	next = append(next, inherited...)

	for _, c := range v.Verbs {
		r.collectFlags(c, next)
	}
}
