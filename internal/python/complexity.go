package python

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// fileComplexity computes whole-file cyclomatic complexity: a base of 1 plus
// one for every branch point. Boolean operators and with-items contribute at
// file scope.
func fileComplexity(root *sitter.Node) int {
	count := 1
	visitNamed(root, func(node *sitter.Node) {
		switch node.Type() {
		case "if_statement", "elif_clause", "while_statement",
			"for_statement", "except_clause",
			"boolean_operator", "with_item":
			count++
		}
	})
	return count
}

// functionComplexity computes per-function cyclomatic complexity over the
// function's full subtree, including nested definitions. Only statement-level
// branches count here; boolean operators and with-items do not.
func functionComplexity(fn *sitter.Node) int {
	count := 1
	visitNamed(fn, func(node *sitter.Node) {
		switch node.Type() {
		case "if_statement", "elif_clause", "while_statement",
			"for_statement", "except_clause":
			count++
		}
	})
	return count
}

// countNamedNodes sizes the syntax tree for the AST summary.
func countNamedNodes(root *sitter.Node) int {
	count := 0
	visitNamed(root, func(*sitter.Node) { count++ })
	return count
}

// visitNamed applies fn to node and every named descendant, pre-order.
func visitNamed(node *sitter.Node, fn func(*sitter.Node)) {
	fn(node)
	for i := 0; i < int(node.NamedChildCount()); i++ {
		visitNamed(node.NamedChild(i), fn)
	}
}

// countLines reports line count the way text editors do: a trailing newline
// does not open a new line, and empty content has zero lines.
func countLines(content string) int {
	if content == "" {
		return 0
	}
	n := strings.Count(content, "\n")
	if !strings.HasSuffix(content, "\n") {
		n++
	}
	return n
}

// countSourceLines splits content into code lines and comment lines. Blank
// lines count as neither; a line whose first non-space character is '#' is a
// comment line.
func countSourceLines(content string) (code, comments int) {
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "":
		case strings.HasPrefix(trimmed, "#"):
			comments++
		default:
			code++
		}
	}
	return code, comments
}
