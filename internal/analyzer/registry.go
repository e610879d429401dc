package analyzer

import (
	"context"
	"path/filepath"
	"sort"

	"codescope/internal/languages"
	"codescope/internal/logging"
)

// FileAnalyzer is the per-language analysis capability. CanHandle must be
// pure; Analyze may do file I/O and honors ctx.
type FileAnalyzer interface {
	// CanHandle reports whether this analyzer claims the file, based on
	// its lowercased extension only.
	CanHandle(path string) bool

	// Analyze reads and analyzes the file. Parse failures are captured
	// inside the result; validation and I/O failures are returned.
	Analyze(ctx context.Context, path string) (*AnalysisResult, error)

	// Extensions returns the lowercased extensions this analyzer supports.
	Extensions() []string
}

// Registry holds the ordered list of registered analyzers. Earlier
// registrations win when several analyzers could claim a file, so
// registration order is significant.
type Registry struct {
	analyzers []FileAnalyzer
	logger    *logging.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry(logger *logging.Logger) *Registry {
	return &Registry{logger: logger}
}

// Register appends an analyzer. Later registrations have lower priority for
// files multiple analyzers could claim.
func (r *Registry) Register(a FileAnalyzer) {
	r.analyzers = append(r.analyzers, a)
}

// Select returns the first registered analyzer that claims the path, or nil
// when none does. An unsupported file is an expected outcome, not an error.
func (r *Registry) Select(path string) FileAnalyzer {
	for _, a := range r.analyzers {
		if a.CanHandle(path) {
			return a
		}
	}

	r.logger.Warn("No analyzer found for file", map[string]interface{}{
		"path": path,
		"ext":  filepath.Ext(path),
	})
	return nil
}

// Supports reports whether any registered analyzer claims the path, without
// the diagnostics Select emits.
func (r *Registry) Supports(path string) bool {
	for _, a := range r.analyzers {
		if a.CanHandle(path) {
			return true
		}
	}
	return false
}

// SupportedExtensions returns the union of all registered analyzers'
// extensions, sorted. Recomputed on each call so re-registration never
// produces stale data.
func (r *Registry) SupportedExtensions() []string {
	seen := make(map[string]bool)
	var exts []string
	for _, a := range r.analyzers {
		for _, ext := range a.Extensions() {
			if !seen[ext] {
				seen[ext] = true
				exts = append(exts, ext)
			}
		}
	}
	sort.Strings(exts)
	return exts
}

// SupportedLanguages returns the languages covered by the supported
// extensions, sorted.
func (r *Registry) SupportedLanguages() []string {
	seen := make(map[string]bool)
	var langs []string
	for _, ext := range r.SupportedExtensions() {
		if lang, ok := languages.FromExtension(ext); ok && !seen[string(lang)] {
			seen[string(lang)] = true
			langs = append(langs, string(lang))
		}
	}
	sort.Strings(langs)
	return langs
}
