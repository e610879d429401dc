package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"codescope/internal/export"
)

var exportOutput string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Run a full project analysis and write the report to a file",
	Long: `Run the full project pipeline and write the aggregated report to disk
as JSON. An output name ending in .zst is compressed with zstd.

Examples:
  codescope export
  codescope export --output report.json.zst
  codescope export --project=../service --output /tmp/service-report.json`,
	Args: cobra.NoArgs,
	Run:  runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportOutput, "output", "codescope-report.json",
		"Output file (.zst suffix enables compression)")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) {
	eng, _, logger := newEngine()

	report, err := eng.AnalyzeProject(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := export.NewExporter(logger).Export(exportOutput, report); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Report written to %s\n", exportOutput)
}
