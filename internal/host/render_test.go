package host

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quietgrove/tabwalk/internal/grammar"
)

func testCandidates() []grammar.Candidate {
	return []grammar.Candidate{
		{Display: "build", Description: "Build packages in the workspace", Kind: grammar.VerbCandidate},
		{Display: "--this", Description: "Build the current package", Kind: grammar.FlagCandidate},
		{Display: "my_pkg", Kind: grammar.ValueCandidate},
	}
}

func TestRender(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, testCandidates()))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "build\tBuild packages in the workspace", lines[0])
	assert.Equal(t, "--this\tBuild the current package", lines[1])
	assert.Equal(t, "my_pkg", lines[2], "no trailing tab without a description")
}

func TestRenderEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, nil))
	assert.Empty(t, buf.String())
}

func TestRenderPretty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderPretty(&buf, testCandidates()))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "build")
	assert.Contains(t, lines[0], "Build packages in the workspace")
	assert.Contains(t, lines[2], "my_pkg")
}
