package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"codescope/internal/config"
	"codescope/internal/engine"
	"codescope/internal/logging"
	"codescope/internal/version"
)

var (
	projectFlag   string
	logLevelFlag  string
	logFormatFlag string
)

var rootCmd = &cobra.Command{
	Use:   "codescope",
	Short: "codescope - static source analysis for Python projects",
	Long: `codescope analyzes source trees without executing them: per-file structure
and complexity for Python, project layout statistics, and a module-level
import graph with cycle detection.`,
	Version: version.Version,
}

func init() {
	rootCmd.SetVersionTemplate("codescope version {{.Version}}\n")
	rootCmd.PersistentFlags().StringVar(&projectFlag, "project", ".",
		"Project root directory")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "",
		"Log level: debug, info, warn, error (default from config)")
	rootCmd.PersistentFlags().StringVar(&logFormatFlag, "log-format", "",
		"Log format: json or human (default from config)")
}

// mustProjectRoot resolves --project to an absolute path and requires it to
// be a directory.
func mustProjectRoot() string {
	abs, err := filepath.Abs(projectFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid project path: %v\n", err)
		os.Exit(1)
	}
	info, err := os.Stat(abs)
	if err != nil || !info.IsDir() {
		fmt.Fprintf(os.Stderr, "Error: project root is not a directory: %s\n", abs)
		os.Exit(1)
	}
	return abs
}

// loadProjectConfig loads .codescope/config.json and applies codescope.toml
// overrides when present.
func loadProjectConfig(projectRoot string) *config.Config {
	cfg, err := config.LoadConfig(projectRoot)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	overrides, err := config.LoadOverrides(projectRoot)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading overrides: %v\n", err)
		os.Exit(1)
	}
	overrides.Apply(cfg)

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

// newLoggerFromConfig builds the command logger, letting CLI flags win over
// the configured defaults.
func newLoggerFromConfig(cfg *config.Config) *logging.Logger {
	level := cfg.Logging.Level
	if logLevelFlag != "" {
		level = logLevelFlag
	}
	format := cfg.Logging.Format
	if logFormatFlag != "" {
		format = logFormatFlag
	}
	return logging.NewLogger(logging.Config{
		Format: logging.Format(format),
		Level:  logging.ParseLevel(level),
	})
}

// newEngine wires config, logger and engine for one command invocation.
func newEngine() (*engine.Engine, *config.Config, *logging.Logger) {
	root := mustProjectRoot()
	cfg := loadProjectConfig(root)
	logger := newLoggerFromConfig(cfg)
	return engine.New(root, cfg, logger), cfg, logger
}
