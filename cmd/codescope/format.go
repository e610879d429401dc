package main

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"codescope/internal/analyzer"
	"codescope/internal/engine"
	"codescope/internal/pydeps"
	"codescope/internal/store"
	"codescope/internal/structure"
)

// OutputFormat represents the output format type
type OutputFormat string

const (
	FormatJSON  OutputFormat = "json"
	FormatYAML  OutputFormat = "yaml"
	FormatHuman OutputFormat = "human"
)

// FormatResponse formats a response according to the specified format
func FormatResponse(resp interface{}, format OutputFormat) (string, error) {
	switch format {
	case FormatJSON:
		return formatJSON(resp)
	case FormatYAML:
		return formatYAML(resp)
	case FormatHuman:
		return formatHuman(resp)
	default:
		return "", fmt.Errorf("unsupported format: %s", format)
	}
}

func formatJSON(resp interface{}) (string, error) {
	data, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return string(data), nil
}

func formatYAML(resp interface{}) (string, error) {
	data, err := yaml.Marshal(resp)
	if err != nil {
		return "", fmt.Errorf("failed to marshal YAML: %w", err)
	}
	return strings.TrimRight(string(data), "\n"), nil
}

func formatHuman(resp interface{}) (string, error) {
	switch v := resp.(type) {
	case *analyzer.AnalysisResult:
		return formatFileHuman(v)
	case *structure.Report:
		return formatStructureHuman(v)
	case *pydeps.Result:
		return formatDepsHuman(v)
	case *engine.ProjectReport:
		return formatProjectHuman(v)
	case *LanguagesResponse:
		return formatLanguagesHuman(v)
	case *CyclesResponse:
		return formatCyclesHuman(v)
	case *store.ListResponse:
		return formatHistoryHuman(v)
	default:
		// For unknown types, fall back to JSON
		return formatJSON(resp)
	}
}

func formatFileHuman(res *analyzer.AnalysisResult) (string, error) {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("File: %s\n", res.Info.RelativePath))
	b.WriteString(strings.Repeat("=", 60) + "\n")
	b.WriteString(fmt.Sprintf("Language: %s  Encoding: %s  Lines: %d  Size: %d bytes\n",
		res.Info.Language, res.Info.Encoding, res.Info.LineCount, res.Info.SizeBytes))

	if len(res.Errors) > 0 {
		b.WriteString("\nErrors:\n")
		for _, e := range res.Errors {
			b.WriteString(fmt.Sprintf("  %s at line %d, col %d: %s\n", e.Type, e.Line, e.Column, e.Message))
		}
		return b.String(), nil
	}

	if res.Complexity != nil {
		b.WriteString(fmt.Sprintf("Cyclomatic complexity: %d  Code lines: %d  Comment lines: %d\n",
			res.Complexity.CyclomaticComplexity, res.Complexity.LinesOfCode, res.Complexity.CommentLines))
	}

	if len(res.Imports) > 0 {
		b.WriteString(fmt.Sprintf("\nImports (%d):\n", len(res.Imports)))
		for _, imp := range res.Imports {
			label := imp.Module
			if imp.IsRelative {
				label = strings.Repeat(".", imp.Level) + label
			}
			b.WriteString(fmt.Sprintf("  line %-4d %-12s %s (%s)\n",
				imp.Line, imp.Kind, label, strings.Join(imp.Names, ", ")))
		}
	}

	if len(res.Functions) > 0 {
		b.WriteString(fmt.Sprintf("\nFunctions (%d):\n", len(res.Functions)))
		for _, fn := range res.Functions {
			name := fn.Name
			if fn.ParentClass != "" {
				name = fn.ParentClass + "." + name
			}
			async := ""
			if fn.IsAsync {
				async = " async"
			}
			b.WriteString(fmt.Sprintf("  %-30s lines %d-%d  complexity %d%s\n",
				name, fn.StartLine, fn.EndLine, fn.Complexity, async))
		}
	}

	if len(res.Classes) > 0 {
		b.WriteString(fmt.Sprintf("\nClasses (%d):\n", len(res.Classes)))
		for _, cls := range res.Classes {
			bases := ""
			if len(cls.Bases) > 0 {
				bases = "(" + strings.Join(cls.Bases, ", ") + ")"
			}
			b.WriteString(fmt.Sprintf("  %s%s  lines %d-%d  methods: %d\n",
				cls.Name, bases, cls.StartLine, cls.EndLine, len(cls.Methods)))
		}
	}

	if len(res.Dependencies) > 0 {
		b.WriteString(fmt.Sprintf("\nExternal dependencies: %s\n", strings.Join(res.Dependencies, ", ")))
	}
	return b.String(), nil
}

func formatStructureHuman(report *structure.Report) (string, error) {
	var b strings.Builder

	stats := report.Statistics
	b.WriteString(fmt.Sprintf("Project: %s\n", report.Root.Path))
	b.WriteString(strings.Repeat("=", 60) + "\n")
	b.WriteString(fmt.Sprintf("Files: %d  Total size: %d bytes\n", stats.TotalFiles, stats.TotalSizeBytes))

	if len(stats.LanguageStats) > 0 {
		b.WriteString("\nLanguages:\n")
		for _, lang := range sortedCountKeys(stats.LanguageStats) {
			b.WriteString(fmt.Sprintf("  %-14s %d\n", lang, stats.LanguageStats[lang]))
		}
	}

	if len(stats.LargestFiles) > 0 {
		b.WriteString("\nLargest files:\n")
		for _, f := range stats.LargestFiles {
			b.WriteString(fmt.Sprintf("  %8d bytes  %s\n", f.SizeBytes, f.Path))
		}
	}

	if len(report.SkippedPaths) > 0 {
		b.WriteString("\nSkipped paths:\n")
		for _, s := range report.SkippedPaths {
			b.WriteString(fmt.Sprintf("  %s (%s)\n", s.Path, s.Reason))
		}
	}

	b.WriteString("\nTree:\n")
	writeTreeHuman(&b, report.Root, "  ")
	return b.String(), nil
}

func writeTreeHuman(b *strings.Builder, node *structure.DirectoryNode, indent string) {
	for _, f := range node.Files {
		b.WriteString(fmt.Sprintf("%s%s\n", indent, f.Name))
	}
	var names []string
	for name := range node.Directories {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		b.WriteString(fmt.Sprintf("%s%s/\n", indent, name))
		writeTreeHuman(b, node.Directories[name], indent+"  ")
	}
}

func formatDepsHuman(result *pydeps.Result) (string, error) {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Modules: %d\n", len(result.ModulePaths)))
	b.WriteString(strings.Repeat("=", 60) + "\n")

	var modules []string
	for module := range result.Dependencies {
		modules = append(modules, module)
	}
	sort.Strings(modules)
	for _, module := range modules {
		deps := result.Dependencies[module]
		if len(deps) == 0 {
			b.WriteString(fmt.Sprintf("%s  (no internal dependencies)\n", module))
			continue
		}
		b.WriteString(fmt.Sprintf("%s\n", module))
		for _, dep := range deps {
			b.WriteString(fmt.Sprintf("  -> %s\n", dep))
		}
	}

	if len(result.ExternalDependencies) > 0 {
		b.WriteString(fmt.Sprintf("\nExternal dependencies: %s\n",
			strings.Join(result.ExternalDependencies, ", ")))
	}
	return b.String(), nil
}

func formatCyclesHuman(resp *CyclesResponse) (string, error) {
	if len(resp.Cycles) == 0 {
		return "No circular dependencies found.", nil
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("Circular dependencies (%d):\n", len(resp.Cycles)))
	for _, cycle := range resp.Cycles {
		b.WriteString(fmt.Sprintf("  %s\n", strings.Join(cycle, " -> ")))
	}
	return b.String(), nil
}

func formatProjectHuman(report *engine.ProjectReport) (string, error) {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Project report: %s\n", report.ProjectRoot))
	b.WriteString(strings.Repeat("=", 60) + "\n")
	b.WriteString(fmt.Sprintf("Analyzed files: %d  Skipped: %d\n",
		len(report.Files), len(report.SkippedFiles)))

	if report.Structure != nil {
		stats := report.Structure.Statistics
		b.WriteString(fmt.Sprintf("Tree files: %d  Total size: %d bytes\n",
			stats.TotalFiles, stats.TotalSizeBytes))
	}
	if report.Dependencies != nil {
		b.WriteString(fmt.Sprintf("Modules: %d  External deps: %d\n",
			len(report.Dependencies.ModulePaths), len(report.Dependencies.ExternalDependencies)))
	}
	b.WriteString(fmt.Sprintf("Circular dependencies: %d\n", len(report.CircularDependencies)))

	for _, skipped := range report.SkippedFiles {
		b.WriteString(fmt.Sprintf("  skipped %s: %s\n", skipped.Path, skipped.Reason))
	}
	return b.String(), nil
}

func formatLanguagesHuman(resp *LanguagesResponse) (string, error) {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Languages: %s\n", strings.Join(resp.Languages, ", ")))
	b.WriteString(fmt.Sprintf("Extensions: %s\n", strings.Join(resp.Extensions, ", ")))
	return b.String(), nil
}

func formatHistoryHuman(resp *store.ListResponse) (string, error) {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Runs: %d of %d\n", len(resp.Runs), resp.TotalCount))
	for _, run := range resp.Runs {
		b.WriteString(fmt.Sprintf("  %s  %-9s %-9s %s  %s\n",
			run.CreatedAt.Format("2006-01-02 15:04:05"),
			run.Kind, run.Status, run.ID, run.Target))
	}
	return b.String(), nil
}

func sortedCountKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
