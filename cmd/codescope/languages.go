package main

import (
	"github.com/spf13/cobra"
)

var languagesFormat string

// LanguagesResponse lists analyzer capabilities.
type LanguagesResponse struct {
	Languages  []string `json:"languages"`
	Extensions []string `json:"extensions"`
}

var languagesCmd = &cobra.Command{
	Use:   "languages",
	Short: "List the languages and file extensions the analyzers support",
	Args:  cobra.NoArgs,
	Run:   runLanguages,
}

func init() {
	languagesCmd.Flags().StringVar(&languagesFormat, "format", "json", "Output format (json, yaml, human)")
	rootCmd.AddCommand(languagesCmd)
}

func runLanguages(cmd *cobra.Command, args []string) {
	eng, _, _ := newEngine()

	resp := &LanguagesResponse{
		Languages:  eng.Registry().SupportedLanguages(),
		Extensions: eng.Registry().SupportedExtensions(),
	}
	printResponse(resp, languagesFormat)
}
