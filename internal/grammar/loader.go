package grammar

import (
	"bytes"
	"fmt"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Loader reads grammar documents from YAML. Decoding is strict: unknown
// fields are schema violations, because a typo in a grammar file must
// surface at startup rather than silently drop a rule.
type Loader struct {
	logger *zap.Logger
}

// NewLoader creates a grammar loader.
func NewLoader(logger *zap.Logger) *Loader {
	return &Loader{logger: logger}
}

// LoadResult contains a decoded grammar document and any non-fatal
// shape warnings encountered while decoding.
type LoadResult struct {
	Doc      *Document
	Warnings []error
}

// LoadFromFile decodes the grammar document at path. A missing file is
// an error: callers decide whether to fall back to an embedded default.
func (l *Loader) LoadFromFile(path string) (*LoadResult, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read grammar file: %w", err)
	}
	return l.LoadFromBytes(content, path)
}

// LoadFromBytes decodes a grammar document from raw YAML. name is used
// in diagnostics only.
func (l *Loader) LoadFromBytes(content []byte, name string) (*LoadResult, error) {
	dec := yaml.NewDecoder(bytes.NewReader(content))
	dec.KnownFields(true)

	var doc Document
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode grammar %s: %w", name, err)
	}

	result := &LoadResult{Doc: &doc}
	if doc.Tool == "" {
		result.Warnings = append(result.Warnings, fmt.Errorf("grammar %s does not name its tool", name))
	}
	if len(doc.Root.Verbs) == 0 && len(doc.Root.Flags) == 0 {
		result.Warnings = append(result.Warnings, fmt.Errorf("grammar %s has an empty root verb", name))
	}

	for _, w := range result.Warnings {
		l.logger.Warn("grammar shape warning", zap.String("grammar", name), zap.Error(w))
	}
	return result, nil
}
