package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"codescope/internal/store"
)

var (
	structureFormat string
	structureSave   bool
)

var structureCmd = &cobra.Command{
	Use:   "structure",
	Short: "Scan the project tree and report layout statistics",
	Long: `Scan the project directory into a tree of files and directories.

Reports per-extension and per-language counts, total size, the largest
files, and any directories the scan could not enter. Ignored directories
(caches, virtualenvs, VCS metadata) are pruned.

Examples:
  codescope structure
  codescope structure --format=human
  codescope structure --project=../service`,
	Args: cobra.NoArgs,
	Run:  runStructure,
}

func init() {
	structureCmd.Flags().StringVar(&structureFormat, "format", "json", "Output format (json, yaml, human)")
	structureCmd.Flags().BoolVar(&structureSave, "save", false, "Record the result in the project history")
	rootCmd.AddCommand(structureCmd)
}

func runStructure(cmd *cobra.Command, args []string) {
	eng, _, logger := newEngine()

	report, err := eng.AnalyzeStructure(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if structureSave {
		saveRun(eng.ProjectRoot(), store.KindStructure, ".", report, logger)
	}
	printResponse(report, structureFormat)
}
