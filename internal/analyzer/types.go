// Package analyzer defines the per-file analysis contract: the result model
// shared by all language analyzers and the registry that dispatches files to
// the first analyzer claiming them.
package analyzer

import (
	"codescope/internal/languages"
)

// FileInfo is the basic identity of an analyzed file. Created once per
// analysis and never mutated afterwards.
type FileInfo struct {
	// Path is the absolute path of the analyzed file
	Path string `json:"path"`

	// RelativePath is the project-root-relative path when known
	RelativePath string `json:"relativePath,omitempty"`

	// SizeBytes is the file size on disk
	SizeBytes int64 `json:"sizeBytes"`

	// LineCount is the number of lines in the decoded content
	LineCount int `json:"lineCount"`

	// Encoding is the detected text encoding
	Encoding string `json:"encoding"`

	// Language is the detected language identifier
	Language languages.Language `json:"language"`
}

// FunctionRecord describes one function or method definition.
type FunctionRecord struct {
	Name       string   `json:"name"`
	StartLine  int      `json:"lineStart"`
	EndLine    int      `json:"lineEnd"`
	Parameters []string `json:"parameters"`
	Decorators []string `json:"decorators"`

	// Returns is the declared return annotation text, empty when absent
	Returns string `json:"returns,omitempty"`

	// Docstring is the extracted documentation text, empty when absent
	Docstring string `json:"docstring,omitempty"`

	IsAsync bool `json:"isAsync"`

	// ParentClass is the innermost enclosing class name, empty for
	// module-level functions
	ParentClass string `json:"parentClass,omitempty"`

	// Complexity is the per-function cyclomatic complexity, always >= 1
	Complexity int `json:"complexity"`
}

// AttributeRecord is a type-annotated class-level attribute.
type AttributeRecord struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// ClassRecord describes one class definition.
type ClassRecord struct {
	Name      string `json:"name"`
	StartLine int    `json:"lineStart"`
	EndLine   int    `json:"lineEnd"`

	// Bases holds base-class names as best-effort dotted text,
	// "unknown" when not statically resolvable
	Bases []string `json:"bases"`

	Decorators []string          `json:"decorators"`
	Docstring  string            `json:"docstring,omitempty"`
	Methods    []string          `json:"methods"`
	Attributes []AttributeRecord `json:"attributes"`
}

// ImportKind distinguishes plain imports from from-imports.
type ImportKind string

const (
	PlainImport ImportKind = "import"
	FromImport  ImportKind = "from_import"
)

// ImportRecord describes one import statement.
type ImportRecord struct {
	// FromFile is the absolute path of the importing file
	FromFile string `json:"fromFile"`

	Kind   ImportKind `json:"kind"`
	Module string     `json:"module"`
	Names  []string   `json:"names"`
	Line   int        `json:"line"`

	IsRelative bool `json:"isRelative"`

	// Level is the relative-import level, 0 for absolute imports
	Level int `json:"level"`
}

// ComplexityMetrics aggregates whole-file complexity figures.
// CognitiveComplexity and MaintainabilityIndex are declared but not
// computed; they stay zero.
type ComplexityMetrics struct {
	CyclomaticComplexity int `json:"cyclomaticComplexity"`
	CognitiveComplexity  int `json:"cognitiveComplexity"`
	MaintainabilityIndex int `json:"maintainabilityIndex"`
	LinesOfCode          int `json:"linesOfCode"`
	CommentLines         int `json:"commentLines"`
}

// AnalysisErrorEntry is a structured error captured inside a result,
// for failures (parse errors) that must not abort a batch.
type AnalysisErrorEntry struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Line    int    `json:"line"`
	Column  int    `json:"column"`
}

// ASTSummary is a light summary of the parsed syntax tree.
type ASTSummary struct {
	RootType  string `json:"rootType"`
	NodeCount int    `json:"nodeCount"`
	HasError  bool   `json:"hasError"`
}

// AnalysisResult is the output of exactly one analyzer invocation,
// read-only afterwards. List-typed fields are always non-nil so callers
// never branch on presence.
type AnalysisResult struct {
	Info FileInfo    `json:"fileInfo"`
	AST  *ASTSummary `json:"ast,omitempty"`

	Functions []FunctionRecord `json:"functions"`
	Classes   []ClassRecord    `json:"classes"`
	Imports   []ImportRecord   `json:"imports"`

	// Dependencies are top-level imported package names outside the
	// standard library, deduplicated and sorted
	Dependencies []string `json:"dependencies"`

	// Complexity is nil when the file failed to parse
	Complexity *ComplexityMetrics   `json:"complexityMetrics,omitempty"`
	Errors     []AnalysisErrorEntry `json:"errors"`
}

// NewAnalysisResult returns a result with all collection fields initialized
// to empty, never nil.
func NewAnalysisResult(info FileInfo) *AnalysisResult {
	return &AnalysisResult{
		Info:         info,
		Functions:    []FunctionRecord{},
		Classes:      []ClassRecord{},
		Imports:      []ImportRecord{},
		Dependencies: []string{},
		Errors:       []AnalysisErrorEntry{},
	}
}
