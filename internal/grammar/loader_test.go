package grammar

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

const testGrammarYAML = `
tool: catkin
settings:
  provider-timeout-ms: 200
root:
  flags:
    - name: --help
      aliases: [-h]
      description: Show usage help
      global: true
  verbs:
    - name: build
      description: Build packages
      positional:
        provider: workspace-packages
      flags:
        - name: --this
          suppresses: [--unbuilt]
        - name: --unbuilt
        - name: --start-with
          takes-value: true
          source:
            provider: workspace-packages
`

func TestLoadFromBytes(t *testing.T) {
	l := NewLoader(zaptest.NewLogger(t))

	result, err := l.LoadFromBytes([]byte(testGrammarYAML), "test")
	require.NoError(t, err)
	require.NotNil(t, result.Doc)
	assert.Empty(t, result.Warnings)

	assert.Equal(t, "catkin", result.Doc.Tool)
	assert.Equal(t, 200, result.Doc.Settings.ProviderTimeoutMS)
	require.Len(t, result.Doc.Root.Verbs, 1)

	build := result.Doc.Root.Verbs[0]
	assert.Equal(t, "build", build.Name)
	assert.Equal(t, "workspace-packages", build.Positional.Provider)
	require.Len(t, build.Flags, 3)
	assert.Equal(t, []string{"--unbuilt"}, build.Flags[0].Suppresses)
	assert.True(t, build.Flags[2].TakesValue)
}

func TestLoadFromFile(t *testing.T) {
	l := NewLoader(zaptest.NewLogger(t))

	path := filepath.Join(t.TempDir(), "catkin.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testGrammarYAML), 0644))

	result, err := l.LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "catkin", result.Doc.Tool)
}

func TestLoadFromFileMissing(t *testing.T) {
	l := NewLoader(zaptest.NewLogger(t))

	_, err := l.LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read grammar file")
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	l := NewLoader(zaptest.NewLogger(t))

	_, err := l.LoadFromBytes([]byte(`
tool: catkin
root:
  verbs:
    - name: build
      flagz:
        - name: --this
`), "test")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode grammar")
}

func TestLoadInvalidYAML(t *testing.T) {
	l := NewLoader(zaptest.NewLogger(t))

	_, err := l.LoadFromBytes([]byte("tool: [unclosed"), "test")
	require.Error(t, err)
}

func TestLoadWarnsOnMissingTool(t *testing.T) {
	l := NewLoader(zaptest.NewLogger(t))

	result, err := l.LoadFromBytes([]byte(`
root:
  verbs:
    - name: build
`), "test")
	require.NoError(t, err)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0].Error(), "does not name its tool")
}

func TestLoadWarnsOnEmptyRoot(t *testing.T) {
	l := NewLoader(zaptest.NewLogger(t))

	result, err := l.LoadFromBytes([]byte(`tool: catkin`), "test")
	require.NoError(t, err)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0].Error(), "empty root verb")
}
