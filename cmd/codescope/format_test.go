package main

import (
	"strings"
	"testing"

	"codescope/internal/analyzer"
	"codescope/internal/pydeps"
)

func sampleResult() *analyzer.AnalysisResult {
	res := analyzer.NewAnalysisResult(analyzer.FileInfo{
		Path:         "/proj/src/main.py",
		RelativePath: "src/main.py",
		SizeBytes:    120,
		LineCount:    14,
		Encoding:     "utf-8",
		Language:     "python",
	})
	res.Functions = append(res.Functions, analyzer.FunctionRecord{
		Name:       "handler",
		StartLine:  3,
		EndLine:    9,
		Complexity: 2,
		IsAsync:    true,
	})
	res.Dependencies = append(res.Dependencies, "requests")
	return res
}

func TestFormatResponse_JSON(t *testing.T) {
	out, err := FormatResponse(sampleResult(), FormatJSON)
	if err != nil {
		t.Fatalf("FormatResponse: %v", err)
	}
	if !strings.Contains(out, `"relativePath": "src/main.py"`) {
		t.Errorf("expected camelCase JSON fields, got:\n%s", out)
	}
	if !strings.Contains(out, `"lineStart": 3`) {
		t.Errorf("expected function line fields, got:\n%s", out)
	}
}

func TestFormatResponse_YAML(t *testing.T) {
	out, err := FormatResponse(sampleResult(), FormatYAML)
	if err != nil {
		t.Fatalf("FormatResponse: %v", err)
	}
	if !strings.Contains(out, "handler") || !strings.Contains(out, "requests") {
		t.Errorf("expected YAML payload, got:\n%s", out)
	}
}

func TestFormatResponse_Human(t *testing.T) {
	out, err := FormatResponse(sampleResult(), FormatHuman)
	if err != nil {
		t.Fatalf("FormatResponse: %v", err)
	}
	if !strings.Contains(out, "src/main.py") || !strings.Contains(out, "handler") {
		t.Errorf("expected human summary, got:\n%s", out)
	}
	if !strings.Contains(out, "async") {
		t.Errorf("expected async marker, got:\n%s", out)
	}
}

func TestFormatResponse_HumanSyntaxError(t *testing.T) {
	res := analyzer.NewAnalysisResult(analyzer.FileInfo{RelativePath: "bad.py"})
	res.Errors = append(res.Errors, analyzer.AnalysisErrorEntry{
		Type: "SyntaxError", Message: "invalid syntax", Line: 2, Column: 4,
	})

	out, err := FormatResponse(res, FormatHuman)
	if err != nil {
		t.Fatalf("FormatResponse: %v", err)
	}
	if !strings.Contains(out, "SyntaxError at line 2") {
		t.Errorf("expected error detail, got:\n%s", out)
	}
}

func TestFormatResponse_HumanCycles(t *testing.T) {
	out, err := FormatResponse(&CyclesResponse{Cycles: [][]string{
		{"pkg.a", "pkg.b", "pkg.a"},
	}}, FormatHuman)
	if err != nil {
		t.Fatalf("FormatResponse: %v", err)
	}
	if !strings.Contains(out, "pkg.a -> pkg.b -> pkg.a") {
		t.Errorf("expected cycle chain, got:\n%s", out)
	}

	out, err = FormatResponse(&CyclesResponse{}, FormatHuman)
	if err != nil {
		t.Fatalf("FormatResponse: %v", err)
	}
	if !strings.Contains(out, "No circular dependencies") {
		t.Errorf("expected empty-cycle message, got:\n%s", out)
	}
}

func TestFormatResponse_HumanDeps(t *testing.T) {
	result := &pydeps.Result{
		Dependencies: map[string][]string{
			"app":      {"pkg.util"},
			"pkg.util": {},
		},
		ModulePaths:          map[string]string{"app": "/p/app.py", "pkg.util": "/p/pkg/util.py"},
		ExternalDependencies: []string{"requests"},
	}

	out, err := FormatResponse(result, FormatHuman)
	if err != nil {
		t.Fatalf("FormatResponse: %v", err)
	}
	if !strings.Contains(out, "-> pkg.util") || !strings.Contains(out, "requests") {
		t.Errorf("expected dependency listing, got:\n%s", out)
	}
}

func TestFormatResponse_UnsupportedFormat(t *testing.T) {
	if _, err := FormatResponse(sampleResult(), OutputFormat("xml")); err == nil {
		t.Error("expected error for unsupported format")
	}
}
