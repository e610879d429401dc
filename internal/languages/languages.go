// Package languages maps file extensions to language identifiers and holds
// the default ignore set used by directory scans.
package languages

import "strings"

// Language is a language identifier string, e.g. "python" or "typescript".
type Language string

const (
	Python Language = "python"
)

// extensionMap maps lowercased extensions (with leading dot) to languages.
var extensionMap = map[string]Language{
	// Python
	".py":  "python",
	".pyw": "python",
	".pyx": "python",
	".pxd": "python",
	".pyi": "python",
	// JavaScript/TypeScript
	".js":  "javascript",
	".mjs": "javascript",
	".jsx": "javascript",
	".ts":  "typescript",
	".tsx": "typescript",
	// Java/JVM
	".java":   "java",
	".scala":  "scala",
	".kt":     "kotlin",
	".groovy": "groovy",
	// C/C++
	".c":   "c",
	".h":   "c",
	".cpp": "cpp",
	".cc":  "cpp",
	".cxx": "cpp",
	".hpp": "cpp",
	".hh":  "cpp",
	".hxx": "cpp",
	// Other languages
	".go":    "go",
	".rs":    "rust",
	".cs":    "csharp",
	".rb":    "ruby",
	".php":   "php",
	".swift": "swift",
	".r":     "r",
	".m":     "matlab",
	".jl":    "julia",
	".lua":   "lua",
	".dart":  "dart",
	// Shell
	".sh":   "shell",
	".bash": "shell",
	".zsh":  "shell",
	".fish": "shell",
	".ps1":  "powershell",
	".psm1": "powershell",
	// Data/Config
	".sql":  "sql",
	".json": "json",
	".xml":  "xml",
	".yaml": "yaml",
	".yml":  "yaml",
	".toml": "toml",
	".ini":  "ini",
	".cfg":  "ini",
	".conf": "conf",
	// Web
	".html": "html",
	".htm":  "html",
	".css":  "css",
	".scss": "scss",
	".sass": "sass",
	".less": "less",
	// Documentation
	".md":   "markdown",
	".rst":  "restructuredtext",
	".tex":  "latex",
	".adoc": "asciidoc",
}

// FromExtension returns the language for a file extension. The extension is
// case-normalized and must include the leading dot.
func FromExtension(ext string) (Language, bool) {
	lang, ok := extensionMap[strings.ToLower(ext)]
	return lang, ok
}

// defaultIgnorePatterns are skipped entirely during directory scans:
// build artifacts, VCS metadata, caches, virtualenvs.
var defaultIgnorePatterns = []string{
	"__pycache__", ".git", ".venv", "venv", "env",
	"node_modules", ".idea", ".vscode", "*.pyc",
	"*.pyo", ".DS_Store", "*.egg-info", "dist",
	"build", ".pytest_cache", ".mypy_cache",
	".coverage", "htmlcov", ".tox", ".ruff_cache",
	"*.log", "*.sqlite", "*.db", ".env*",
	".dockerignore", ".gitignore",
}

// DefaultIgnorePatterns returns a copy of the built-in ignore set.
func DefaultIgnorePatterns() []string {
	patterns := make([]string, len(defaultIgnorePatterns))
	copy(patterns, defaultIgnorePatterns)
	return patterns
}

// MatchesIgnore reports whether a file or directory name matches any of the
// given patterns. Patterns are exact names, "*suffix", or "prefix*".
func MatchesIgnore(name string, patterns []string) bool {
	for _, pattern := range patterns {
		if name == pattern {
			return true
		}
		if strings.HasPrefix(pattern, "*") && strings.HasSuffix(name, pattern[1:]) {
			return true
		}
		if strings.HasSuffix(pattern, "*") && strings.HasPrefix(name, pattern[:len(pattern)-1]) {
			return true
		}
	}
	return false
}
