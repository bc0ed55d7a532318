package main

import (
	"context"
	_ "embed"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/quietgrove/tabwalk/internal/core"
	"github.com/quietgrove/tabwalk/internal/engine"
	"github.com/quietgrove/tabwalk/internal/grammar"
	"github.com/quietgrove/tabwalk/internal/host"
	"github.com/quietgrove/tabwalk/internal/providers"
)

var BUILD_VERSION = "dev"

//go:embed catkin.default.yaml
var defaultGrammarContent []byte

var grammarPath = flag.String("grammar", "", "path to a grammar file (defaults to $TABWALK_GRAMMAR, then an installed grammar, then the built-in one)")
var tool = flag.String("tool", "catkin", "tool being completed; selects <tool>.yaml from the grammar dir")
var line = flag.String("line", "", "complete a whole command line instead of a token list")
var cursor = flag.Int("cursor", -1, "index of the token being completed (defaults to a new trailing token)")
var dir = flag.String("dir", "", "directory to resolve workspace state in (defaults to the working directory)")
var pretty = flag.Bool("pretty", false, "force human-readable output")

var helpFlag = flag.Bool("h", false, "display help information")
var versionFlag = flag.Bool("ver", false, "display build version")

const helpText = `tabwalk - completion engine for multi-verb command line tools

USAGE:
  tabwalk [options] -- [token...]
  tabwalk [options] -line 'tool verb --flag'

A shell completion hook passes the partially typed command line (either
pre-split tokens plus a cursor index, or the raw line) and renders the
candidates tabwalk prints, one per line as completion<TAB>description.

OPTIONS:
`

func main() {
	flag.Parse()

	if *versionFlag {
		fmt.Println(BUILD_VERSION)
		return
	}

	if *helpFlag {
		fmt.Print(helpText)
		flag.PrintDefaults()
		return
	}

	logger := initializeLogger()
	defer logger.Sync()

	workDir := *dir
	if workDir == "" {
		if wd, err := os.Getwd(); err == nil {
			workDir = wd
		}
	}

	providerRegistry := initializeProviders(logger)

	registry, err := initializeGrammar(logger, providerRegistry, *tool)
	if err != nil {
		// Malformed grammars must never reach request-serving code.
		fmt.Fprintf(os.Stderr, "tabwalk: %v\n", err)
		logger.Error("grammar construction failed", zap.Error(err))
		os.Exit(1)
	}

	req := buildRequest()
	eng := engine.New(registry, providerRegistry, logger, workDir)
	candidates := eng.Complete(context.Background(), req.Tokens, req.Cursor)

	if *pretty || term.IsTerminal(int(os.Stdout.Fd())) {
		err = host.RenderPretty(os.Stdout, candidates)
	} else {
		err = host.Render(os.Stdout, candidates)
	}
	if err != nil {
		logger.Error("failed to render candidates", zap.Error(err))
		os.Exit(1)
	}
}

func buildRequest() host.Request {
	if *line != "" {
		return host.FromLine(*line)
	}

	tokens := flag.Args()
	idx := *cursor
	if idx < 0 {
		idx = len(tokens)
	}
	return host.FromTokens(tokens, idx)
}

func initializeProviders(logger *zap.Logger) *providers.Registry {
	registry := providers.NewRegistry(logger)

	// Registration errors can only mean duplicate names, which is a
	// programming error here.
	if err := registry.Register("workspace-packages", providers.NewWorkspacePackages("")); err != nil {
		panic(err)
	}
	if err := registry.Register("profiles", providers.NewProfiles(filepath.Join(".catkin_tools", "profiles"))); err != nil {
		panic(err)
	}

	return registry
}

func initializeGrammar(logger *zap.Logger, providerRegistry *providers.Registry, toolName string) (*grammar.Registry, error) {
	loader := grammar.NewLoader(logger)

	var (
		result *grammar.LoadResult
		err    error
	)
	switch {
	case *grammarPath != "":
		result, err = loader.LoadFromFile(*grammarPath)
	case os.Getenv("TABWALK_GRAMMAR") != "":
		result, err = loader.LoadFromFile(os.Getenv("TABWALK_GRAMMAR"))
	case installedGrammarPath(toolName) != "":
		result, err = loader.LoadFromFile(installedGrammarPath(toolName))
	default:
		result, err = loader.LoadFromBytes(defaultGrammarContent, "built-in grammar")
	}
	if err != nil {
		return nil, err
	}

	return grammar.NewRegistry(result.Doc, providerRegistry.Names())
}

// installedGrammarPath returns the user-installed grammar for the tool
// (<tool>.yaml in the grammar dir), or "" when none is installed.
func installedGrammarPath(toolName string) string {
	if toolName == "" {
		return ""
	}
	path := filepath.Join(core.GrammarDir(), toolName+".yaml")
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}

func initializeLogger() *zap.Logger {
	loggerConfig := zap.NewProductionConfig()
	loggerConfig.OutputPaths = []string{
		core.LogFile(),
	}

	// Logs never go to stdout: stdout is the candidate stream the shell
	// consumes.
	logger, err := loggerConfig.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
