// Package python analyzes Python source files with tree-sitter: structure
// (imports, functions, classes), cyclomatic complexity, and encoding-aware
// decoding. Syntax errors are reported as analysis results, not failures.
package python

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	tspython "github.com/smacker/go-tree-sitter/python"

	"codescope/internal/analyzer"
	"codescope/internal/errors"
	"codescope/internal/languages"
	"codescope/internal/logging"
)

// Analyzer is the Python file analyzer. It is stateless across calls; a fresh
// parser is created per analysis so concurrent calls never share C state.
type Analyzer struct {
	maxFileSize int64
	logger      *logging.Logger
}

// NewAnalyzer creates a Python analyzer enforcing the given file-size ceiling
// in bytes.
func NewAnalyzer(maxFileSizeBytes int64, logger *logging.Logger) *Analyzer {
	return &Analyzer{
		maxFileSize: maxFileSizeBytes,
		logger:      logger,
	}
}

// CanHandle claims .py and .pyw files, case-insensitively.
func (a *Analyzer) CanHandle(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".py", ".pyw":
		return true
	}
	return false
}

// Extensions returns the extensions this analyzer supports.
func (a *Analyzer) Extensions() []string {
	return []string{".py", ".pyw"}
}

// Analyze reads, decodes and parses one Python file. Files over the size
// ceiling are rejected before reading. A file that fails to parse still
// yields a result, with the syntax error recorded in it.
func (a *Analyzer) Analyze(ctx context.Context, path string) (*analyzer.AnalysisResult, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, errors.New(errors.InvalidPath, fmt.Sprintf("cannot stat %s", path), err)
	}
	if info.Size() > a.maxFileSize {
		return nil, errors.New(errors.FileTooLarge,
			fmt.Sprintf("file %s is %d bytes, limit is %d", path, info.Size(), a.maxFileSize), nil).
			WithDetails(map[string]interface{}{
				"path":      path,
				"sizeBytes": info.Size(),
				"limit":     a.maxFileSize,
			})
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New(errors.InternalError, fmt.Sprintf("cannot read %s", path), err)
	}

	charset := detectEncoding(raw)
	content := decode(raw, charset)
	source := []byte(content)

	tree, err := a.parse(ctx, source)
	if err != nil {
		return nil, err
	}
	defer tree.Close()
	root := tree.RootNode()

	fileInfo := analyzer.FileInfo{
		Path:         path,
		RelativePath: path,
		SizeBytes:    info.Size(),
		LineCount:    countLines(content),
		Encoding:     charset,
		Language:     languages.Python,
	}

	if root.HasError() {
		a.logger.Debug("Syntax error in file", map[string]interface{}{"path": path})
		return syntaxErrorResult(fileInfo, root), nil
	}

	w := newWalker(source, path)
	w.walk(root, nil)

	result := analyzer.NewAnalysisResult(fileInfo)
	result.Imports = w.imports
	if result.Imports == nil {
		result.Imports = []analyzer.ImportRecord{}
	}
	result.Functions = w.functions
	if result.Functions == nil {
		result.Functions = []analyzer.FunctionRecord{}
	}
	result.Classes = w.classes
	if result.Classes == nil {
		result.Classes = []analyzer.ClassRecord{}
	}
	result.Dependencies = externalDependencies(w.deps)

	code, comments := countSourceLines(content)
	result.Complexity = &analyzer.ComplexityMetrics{
		CyclomaticComplexity: fileComplexity(root),
		LinesOfCode:          code,
		CommentLines:         comments,
	}
	result.AST = &analyzer.ASTSummary{
		RootType:  root.Type(),
		NodeCount: countNamedNodes(root),
	}

	a.logger.Debug("Analyzed file", map[string]interface{}{
		"path":      path,
		"functions": len(result.Functions),
		"classes":   len(result.Classes),
		"imports":   len(result.Imports),
	})
	return result, nil
}

// ExtractImports parses a file and returns only its import records, for
// dependency mapping. Files that fail to parse contribute no imports.
func (a *Analyzer) ExtractImports(ctx context.Context, path string) ([]analyzer.ImportRecord, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New(errors.InternalError, fmt.Sprintf("cannot read %s", path), err)
	}

	source := []byte(decode(raw, detectEncoding(raw)))
	tree, err := a.parse(ctx, source)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		a.logger.Debug("Skipping unparseable file", map[string]interface{}{"path": path})
		return nil, nil
	}

	w := newWalker(source, path)
	w.importsOnly = true
	w.walk(root, nil)
	if w.imports == nil {
		// Non-nil so callers can tell "no imports" from "unparseable"
		return []analyzer.ImportRecord{}, nil
	}
	return w.imports, nil
}

func (a *Analyzer) parse(ctx context.Context, source []byte) (*sitter.Tree, error) {
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(tspython.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, errors.New(errors.InternalError, "parse failed", err)
	}
	return tree, nil
}

// syntaxErrorResult packages a parse failure as analysis data. Line count is
// zeroed since the file's structure is unknown.
func syntaxErrorResult(info analyzer.FileInfo, root *sitter.Node) *analyzer.AnalysisResult {
	info.LineCount = 0
	result := analyzer.NewAnalysisResult(info)

	line, column := 1, 0
	if errNode := firstErrorNode(root); errNode != nil {
		line = int(errNode.StartPoint().Row) + 1
		column = int(errNode.StartPoint().Column)
	}
	result.Errors = append(result.Errors, analyzer.AnalysisErrorEntry{
		Type:    "SyntaxError",
		Message: "invalid syntax",
		Line:    line,
		Column:  column,
	})
	result.AST = &analyzer.ASTSummary{
		RootType:  root.Type(),
		NodeCount: countNamedNodes(root),
		HasError:  true,
	}
	return result
}

// firstErrorNode finds the earliest ERROR or missing node in the tree.
func firstErrorNode(node *sitter.Node) *sitter.Node {
	if node.IsError() || node.IsMissing() {
		return node
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		if found := firstErrorNode(node.Child(i)); found != nil {
			return found
		}
	}
	return nil
}

// externalDependencies filters stdlib modules out of the imported top-level
// names and returns the remainder sorted.
func externalDependencies(deps map[string]bool) []string {
	external := []string{}
	for name := range deps {
		if name != "" && !IsStdlibModule(name) {
			external = append(external, name)
		}
	}
	sort.Strings(external)
	return external
}
