package main

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/sadopc/reqspy/internal/config"
	"github.com/sadopc/reqspy/internal/render"
	"github.com/sadopc/reqspy/internal/ui/theme"
	"github.com/sadopc/reqspy/pkg/version"
)

func main() {
	if len(os.Args) < 2 {
		printHelp()
		os.Exit(2)
	}
	switch os.Args[1] {
	case "serve":
		serveCmd()
	case "parse":
		parseCmd()
	case "routes":
		routesCmd()
	case "init":
		initCmd()
	case "journal":
		journalCmd()
	case "completion":
		completionCmd()
	case "version", "--version":
		fmt.Printf("reqspy %s (%s) built %s\n", version.Version, version.Commit, version.Date)
	case "help", "-h", "--help":
		printHelp()
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown command %q\n\n", os.Args[1])
		printHelp()
		os.Exit(2)
	}
}

func printHelp() {
	fmt.Fprintf(os.Stderr, `reqspy - observe requests made against a mock HTTP server

Usage:
  reqspy <command> [args] [flags]

Commands:
  serve       Serve a collection as a mock server and print every matched request
  parse       Show how a query string is coerced (bool, number, string)
  routes      List the routes a collection serves
  init        Create a starter .reqspy.yaml collection
  journal     Inspect requests recorded by 'serve --journal'
  completion  Generate shell completion scripts (bash, zsh, fish)
  version     Print version information
  help        Show this help message

Configuration is read from ~/.config/reqspy/config.yaml; flags override it.

Run 'reqspy <command> --help' for more information about a command.
`)
}

// newLogger builds the CLI logger. Logs go to stderr so stdout stays
// parseable with --output json.
func newLogger(level string, verbose bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.DisableStacktrace = true
	if level != "" {
		lvl, err := zap.ParseAtomicLevel(level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", level, err)
		}
		cfg.Level = lvl
	}
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}

func newPrinter(cfg config.Config, noColor bool) *render.Printer {
	return render.New(os.Stdout, theme.Resolve(cfg.Theme), cfg.Color && !noColor && os.Getenv("NO_COLOR") == "")
}

// defaultJournalPath is used when neither --db nor the config names one.
func defaultJournalPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "reqspy-journal.db"
	}
	return filepath.Join(home, ".config", "reqspy", "journal.db")
}

func validateOutput(output string) {
	switch output {
	case "text", "json":
	default:
		fmt.Fprintf(os.Stderr, "Error: invalid output format %q (must be text or json)\n", output)
		os.Exit(2)
	}
}

func loadConfig() config.Config {
	path, err := config.Path()
	if err != nil {
		return config.DefaultConfig()
	}
	cfg, err := config.LoadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
	}
	return cfg
}
