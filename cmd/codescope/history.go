package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"codescope/internal/store"
)

var (
	historyFormat string
	historyKind   string
	historyStatus string
	historyLimit  int
	historyOffset int
)

var historyCmd = &cobra.Command{
	Use:   "history [run-id]",
	Short: "List recorded analysis runs, or print one run's stored result",
	Long: `List past analysis runs recorded with --save, newest first.

With a run ID argument, prints that run's stored result document.

Examples:
  codescope history
  codescope history --kind=project --limit=5
  codescope history 6ba7b810-9dad-11d1-80b4-00c04fd430c8`,
	Args: cobra.MaximumNArgs(1),
	Run:  runHistory,
}

func init() {
	historyCmd.Flags().StringVar(&historyFormat, "format", "json", "Output format (json, yaml, human)")
	historyCmd.Flags().StringVar(&historyKind, "kind", "", "Filter by kind: file, structure, deps, project")
	historyCmd.Flags().StringVar(&historyStatus, "status", "", "Filter by status: running, completed, failed")
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "Maximum runs to list")
	historyCmd.Flags().IntVar(&historyOffset, "offset", 0, "Runs to skip")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) {
	root := mustProjectRoot()
	cfg := loadProjectConfig(root)
	logger := newLoggerFromConfig(cfg)

	s, err := store.Open(root, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = s.Close() }()

	if len(args) == 1 {
		run, err := s.GetRun(args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if run.Result == "" {
			fmt.Fprintf(os.Stderr, "Run %s has no stored result (status: %s)\n", run.ID, run.Status)
			os.Exit(1)
		}
		fmt.Println(run.Result)
		return
	}

	opts := store.ListOptions{Limit: historyLimit, Offset: historyOffset}
	if historyKind != "" {
		opts.Kind = []store.RunKind{store.RunKind(historyKind)}
	}
	if historyStatus != "" {
		opts.Status = []store.RunStatus{store.RunStatus(historyStatus)}
	}

	resp, err := s.ListRuns(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	printResponse(resp, historyFormat)
}
