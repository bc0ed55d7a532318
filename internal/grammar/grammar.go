// Package grammar defines the declarative completion grammar for a
// multi-verb command line tool: a rooted tree of verbs, each carrying
// flag definitions, exclusivity constraints, and value sources. A
// Registry is built once at startup, validated eagerly, and is
// immutable afterwards.
package grammar

// CandidateKind tags what a suggestion stands for.
type CandidateKind string

const (
	// VerbCandidate suggests a subcommand name.
	VerbCandidate CandidateKind = "verb"
	// FlagCandidate suggests a flag (canonical name or alias).
	FlagCandidate CandidateKind = "flag"
	// ValueCandidate suggests an argument value for a flag or positional.
	ValueCandidate CandidateKind = "value"
)

// Candidate is one completion suggestion. Candidates are produced fresh
// per request and never persisted.
type Candidate struct {
	Display     string
	Description string
	Kind        CandidateKind
}

// ValueSource describes where the values for a flag argument or a
// positional argument come from. Options and Provider may both be set;
// static options are suggested before provider output. A Path source
// yields no engine-generated candidates because file completion is the
// shell's job.
type ValueSource struct {
	Options  []string `yaml:"options"`
	Provider string   `yaml:"provider"`
	Path     bool     `yaml:"path"`
}

// Empty reports whether the source can contribute nothing at all.
func (s ValueSource) Empty() bool {
	return len(s.Options) == 0 && s.Provider == "" && !s.Path
}

// Flag is a named option attached to a verb.
//
// Group names a hard exclusivity group: once any flag of the group has
// been typed, no other member is suggested again for that verb.
// Suppresses names soft-preference peers: typing this flag hides the
// peers from future suggestions (and vice versa — the registry
// normalizes the relation into a symmetric one), but a peer already
// typed is never retroactively treated as an error.
type Flag struct {
	Name        string      `yaml:"name"`
	Aliases     []string    `yaml:"aliases"`
	Description string      `yaml:"description"`
	TakesValue  bool        `yaml:"takes-value"`
	Repeatable  bool        `yaml:"repeatable"`
	Global      bool        `yaml:"global"`
	Group       string      `yaml:"group"`
	Suppresses  []string    `yaml:"suppresses"`
	Source      ValueSource `yaml:"source"`
}

// Names returns the canonical name followed by the aliases, in
// declaration order.
func (f *Flag) Names() []string {
	return append([]string{f.Name}, f.Aliases...)
}

// Matches reports whether tok is exactly the canonical name or one of
// the aliases. Typed tokens are never prefix-matched.
func (f *Flag) Matches(tok string) bool {
	if tok == f.Name {
		return true
	}
	for _, a := range f.Aliases {
		if tok == a {
			return true
		}
	}
	return false
}

// Verb is a subcommand node. The root Verb represents the tool itself.
type Verb struct {
	Name        string      `yaml:"name"`
	Description string      `yaml:"description"`
	Flags       []*Flag     `yaml:"flags"`
	Verbs       []*Verb     `yaml:"verbs"`
	Positional  ValueSource `yaml:"positional"`
}

// Child returns the immediate sub-verb with the given name.
func (v *Verb) Child(name string) (*Verb, bool) {
	for _, c := range v.Verbs {
		if c.Name == name {
			return c, true
		}
	}
	return nil, false
}

// FindFlag returns the flag of v (own flags only) matching tok as
// canonical name or alias.
func (v *Verb) FindFlag(tok string) (*Flag, bool) {
	for _, f := range v.Flags {
		if f.Matches(tok) {
			return f, true
		}
	}
	return nil, false
}

// Settings carries engine tunables that ship inside the grammar
// document so a grammar can be distributed as a single file.
type Settings struct {
	// ProviderTimeoutMS bounds each dynamic value provider call.
	ProviderTimeoutMS int `yaml:"provider-timeout-ms"`
}

// Document is the top level shape of a grammar file.
type Document struct {
	Tool     string   `yaml:"tool"`
	Settings Settings `yaml:"settings"`
	Root     Verb     `yaml:"root"`
}
