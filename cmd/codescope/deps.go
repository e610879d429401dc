package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"codescope/internal/pydeps"
	"codescope/internal/store"
)

var (
	depsFormat     string
	depsCyclesOnly bool
	depsSave       bool
)

// CyclesResponse wraps cycle output for formatting.
type CyclesResponse struct {
	Cycles [][]string `json:"cycles"`
}

var depsCmd = &cobra.Command{
	Use:   "deps",
	Short: "Map import dependencies between the project's Python modules",
	Long: `Map the import graph of the project's Python modules.

Resolves absolute and relative imports against the project's own module
tree, separates external packages from the standard library, and can
report circular import chains.

Examples:
  codescope deps
  codescope deps --cycles
  codescope deps --format=human`,
	Args: cobra.NoArgs,
	Run:  runDeps,
}

func init() {
	depsCmd.Flags().StringVar(&depsFormat, "format", "json", "Output format (json, yaml, human)")
	depsCmd.Flags().BoolVar(&depsCyclesOnly, "cycles", false, "Report only circular dependencies")
	depsCmd.Flags().BoolVar(&depsSave, "save", false, "Record the result in the project history")
	rootCmd.AddCommand(depsCmd)
}

func runDeps(cmd *cobra.Command, args []string) {
	eng, _, logger := newEngine()
	ctx := context.Background()

	result, err := eng.MapDependencies(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	var resp interface{} = result
	if depsCyclesOnly {
		resp = &CyclesResponse{Cycles: pydeps.FromResult(result).FindCircularDependencies()}
	}

	if depsSave {
		saveRun(eng.ProjectRoot(), store.KindDeps, ".", resp, logger)
	}
	printResponse(resp, depsFormat)
}
