package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"codescope/internal/logging"
	"codescope/internal/store"
)

var (
	analyzeFormat string
	analyzeSave   bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [file]",
	Short: "Analyze a source file, or the whole project when no file is given",
	Long: `Analyze a single source file or the whole project.

With a file argument, runs the per-file analyzer: imports, functions,
classes, complexity and syntax errors. Without one, runs the full pipeline
over the project: structure, every supported file, dependency map and
cycle detection.

Examples:
  codescope analyze src/main.py
  codescope analyze --format=human src/main.py
  codescope analyze --save
  codescope analyze --project=../service --format=yaml`,
	Args: cobra.MaximumNArgs(1),
	Run:  runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeFormat, "format", "json", "Output format (json, yaml, human)")
	analyzeCmd.Flags().BoolVar(&analyzeSave, "save", false, "Record the result in the project history")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) {
	start := time.Now()
	eng, _, logger := newEngine()
	ctx := context.Background()

	var (
		resp   interface{}
		kind   store.RunKind
		target string
		err    error
	)
	if len(args) == 1 {
		kind, target = store.KindFile, args[0]
		resp, err = eng.AnalyzeFile(ctx, args[0])
	} else {
		kind, target = store.KindProject, "."
		resp, err = eng.AnalyzeProject(ctx)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if analyzeSave {
		saveRun(eng.ProjectRoot(), kind, target, resp, logger)
	}

	printResponse(resp, analyzeFormat)

	logger.Debug("Analysis completed", map[string]interface{}{
		"target":   target,
		"duration": time.Since(start).Milliseconds(),
	})
}

// printResponse renders and prints a response, exiting on format errors.
func printResponse(resp interface{}, format string) {
	output, err := FormatResponse(resp, OutputFormat(format))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error formatting output: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(output)
}

// saveRun records a completed analysis in the history database.
func saveRun(projectRoot string, kind store.RunKind, target string, resp interface{}, logger *logging.Logger) {
	s, err := store.Open(projectRoot, logger)
	if err != nil {
		logger.Warn("Cannot open history database", map[string]interface{}{"error": err.Error()})
		return
	}
	defer func() { _ = s.Close() }()

	run, err := s.CreateRun(kind, target)
	if err != nil {
		logger.Warn("Cannot record run", map[string]interface{}{"error": err.Error()})
		return
	}
	if err := s.CompleteRun(run.ID, resp); err != nil {
		logger.Warn("Cannot store run result", map[string]interface{}{"error": err.Error()})
		return
	}
	fmt.Fprintf(os.Stderr, "Saved run %s\n", run.ID)
}
