package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quietgrove/tabwalk/internal/grammar"
)

func newTestContext(t *testing.T) (*ParseContext, *Classifier) {
	t.Helper()
	registry, err := grammar.NewRegistry(testDocument(), []string{"packages", "profiles", "boom"})
	require.NoError(t, err)
	return NewParseContext(registry), NewClassifier(registry)
}

func TestClassifyVerbDescends(t *testing.T) {
	pc, c := newTestContext(t)

	kind := c.Classify(pc, "build")
	assert.Equal(t, KindVerb, kind)
	assert.Equal(t, "build", pc.Verb.Name)
	assert.Equal(t, []string{"build"}, pc.Path)
}

func TestClassifyNestedVerbPath(t *testing.T) {
	pc, c := newTestContext(t)

	assert.Equal(t, KindVerb, c.Classify(pc, "profile"))
	assert.Equal(t, KindVerb, c.Classify(pc, "set"))
	assert.Equal(t, []string{"profile", "set"}, pc.Path)
}

func TestClassifyKnownFlag(t *testing.T) {
	pc, c := newTestContext(t)
	c.Classify(pc, "build")

	kind := c.Classify(pc, "--this")
	assert.Equal(t, KindFlag, kind)
	assert.True(t, pc.FlagConsumed("--this"))
	assert.Nil(t, pc.Pending)
}

func TestClassifyFlagAliasConsumesCanonical(t *testing.T) {
	pc, c := newTestContext(t)
	c.Classify(pc, "config")

	kind := c.Classify(pc, "-e")
	assert.Equal(t, KindFlag, kind)
	assert.True(t, pc.FlagConsumed("--extend"))
	require.NotNil(t, pc.Pending)
	assert.Equal(t, "--extend", pc.Pending.Name)
}

func TestClassifyFlagValue(t *testing.T) {
	pc, c := newTestContext(t)
	c.Classify(pc, "build")
	c.Classify(pc, "--start-with")
	require.NotNil(t, pc.Pending)

	kind := c.Classify(pc, "aaa")
	assert.Equal(t, KindFlagValue, kind)
	assert.Nil(t, pc.Pending)

	req := pc.Request("/tmp/ws")
	assert.Equal(t, []string{"aaa"}, req.FlagValues["--start-with"])
}

func TestClassifyFlagValueEvenWhenFlagLike(t *testing.T) {
	// A value slot accepts anything, including tokens that look like
	// flags.
	pc, c := newTestContext(t)
	c.Classify(pc, "build")
	c.Classify(pc, "--start-with")

	kind := c.Classify(pc, "--weird-name")
	assert.Equal(t, KindFlagValue, kind)
}

func TestClassifyUnknownFlag(t *testing.T) {
	pc, c := newTestContext(t)
	c.Classify(pc, "build")

	kind := c.Classify(pc, "--mystery")
	assert.Equal(t, KindUnknownFlag, kind)
	assert.False(t, pc.FlagConsumed("--mystery"))
	assert.Nil(t, pc.Pending)
}

func TestClassifyUnknownVerbGoesOpaque(t *testing.T) {
	pc, c := newTestContext(t)

	assert.Equal(t, KindOpaque, c.Classify(pc, "frobnicate"))
	assert.True(t, pc.Opaque)

	// Everything after stays opaque, even known names.
	assert.Equal(t, KindOpaque, c.Classify(pc, "build"))
	assert.Equal(t, KindOpaque, c.Classify(pc, "--help"))
}

func TestClassifyPositionalOnLeafVerb(t *testing.T) {
	pc, c := newTestContext(t)
	c.Classify(pc, "build")

	kind := c.Classify(pc, "my_package")
	assert.Equal(t, KindPositional, kind)
	assert.False(t, pc.Opaque)
	assert.Equal(t, []string{"my_package"}, pc.Positionals)
}

func TestClassifyBareDashIsPositional(t *testing.T) {
	pc, c := newTestContext(t)
	c.Classify(pc, "build")

	assert.Equal(t, KindPositional, c.Classify(pc, "-"))
	assert.Equal(t, KindPositional, c.Classify(pc, "--"))
}

func TestClassifyGlobalFlagInsideVerb(t *testing.T) {
	pc, c := newTestContext(t)
	c.Classify(pc, "build")

	kind := c.Classify(pc, "--help")
	assert.Equal(t, KindFlag, kind)
	assert.True(t, pc.FlagConsumed("--help"))
}

func TestExcludedHardGroup(t *testing.T) {
	pc, c := newTestContext(t)
	c.Classify(pc, "config")
	c.Classify(pc, "--install")

	config := pc.Verb
	noInstall, ok := config.FindFlag("--no-install")
	require.True(t, ok)
	install, ok := config.FindFlag("--install")
	require.True(t, ok)

	assert.True(t, pc.Excluded(noInstall))
	assert.True(t, pc.Excluded(install))
}

func TestRequestSnapshotIsDetached(t *testing.T) {
	pc, c := newTestContext(t)
	c.Classify(pc, "build")
	c.Classify(pc, "pkg_a")

	req := pc.Request("/tmp/ws")
	req.Positionals[0] = "mutated"
	assert.Equal(t, []string{"pkg_a"}, pc.Positionals)
}
