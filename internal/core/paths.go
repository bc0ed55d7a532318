package core

import (
	"os"
	"path/filepath"
)

type Paths struct {
	HomeDir    string
	DataDir    string
	LogFile    string
	GrammarDir string
}

var defaultPaths *Paths

func ensureDefaultPaths() {
	if defaultPaths == nil {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			panic(err)
		}

		defaultPaths = &Paths{
			HomeDir:    homeDir,
			DataDir:    filepath.Join(homeDir, ".tabwalk"),
			LogFile:    filepath.Join(homeDir, ".tabwalk", "tabwalk.log"),
			GrammarDir: filepath.Join(homeDir, ".tabwalk", "grammars"),
		}

		err = os.MkdirAll(defaultPaths.DataDir, 0755)
		if err != nil {
			panic(err)
		}
	}
}

func LogFile() string {
	ensureDefaultPaths()
	return defaultPaths.LogFile
}

// GrammarDir is where user-installed grammar files live. Each file is
// one tool's grammar, looked up as <tool>.yaml.
func GrammarDir() string {
	ensureDefaultPaths()
	return defaultPaths.GrammarDir
}

// ResetPaths clears the cached paths, forcing them to be reinitialized.
// This is primarily used for testing purposes.
func ResetPaths() {
	defaultPaths = nil
}
