// Package pydeps maps import relationships between Python modules: which
// project files import which, which imports point outside the project, and
// where the import graph cycles.
package pydeps

import (
	"context"
	"path/filepath"
	"sort"
	"strings"

	"codescope/internal/analyzer"
	"codescope/internal/logging"
	"codescope/internal/python"
)

// ImportExtractor parses a Python file and returns its import records. A nil
// slice with a nil error means the file could not be parsed and contributes
// nothing to the map.
type ImportExtractor interface {
	ExtractImports(ctx context.Context, path string) ([]analyzer.ImportRecord, error)
}

// Result is the full dependency map for a project.
type Result struct {
	// Dependencies maps each module to the project modules it imports,
	// sorted. Only modules whose file parsed appear as keys.
	Dependencies map[string][]string `json:"dependencies"`

	// Imports holds every import statement per module.
	Imports map[string][]analyzer.ImportRecord `json:"imports"`

	// ModulePaths maps dotted module names to their source files.
	ModulePaths map[string]string `json:"modulePaths"`

	// ExternalDependencies lists top-level package names imported from
	// outside the project and the standard library, sorted.
	ExternalDependencies []string `json:"externalDependencies"`
}

// Mapper resolves imports against a project's own module tree.
type Mapper struct {
	projectRoot string
	extractor   ImportExtractor
	logger      *logging.Logger

	modulePaths map[string]string
}

// NewMapper creates a dependency mapper rooted at projectRoot.
func NewMapper(projectRoot string, extractor ImportExtractor, logger *logging.Logger) *Mapper {
	return &Mapper{
		projectRoot: projectRoot,
		extractor:   extractor,
		logger:      logger,
	}
}

// MapDependencies builds the dependency map for the given Python files. The
// module index is built over all files before any import is resolved, so
// resolution never depends on file order. Files that fail to parse are
// logged and skipped.
func (m *Mapper) MapDependencies(ctx context.Context, files []string) (*Result, error) {
	m.modulePaths = make(map[string]string)

	var pyFiles []string
	for _, path := range files {
		if strings.ToLower(filepath.Ext(path)) != ".py" {
			continue
		}
		pyFiles = append(pyFiles, path)
		m.modulePaths[m.pathToModule(path)] = path
	}

	result := &Result{
		Dependencies:         make(map[string][]string),
		Imports:              make(map[string][]analyzer.ImportRecord),
		ModulePaths:          m.modulePaths,
		ExternalDependencies: []string{},
	}

	external := make(map[string]bool)

	for _, path := range pyFiles {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		imports, err := m.extractor.ExtractImports(ctx, path)
		if err != nil {
			m.logger.Error("Error analyzing imports", map[string]interface{}{
				"path":  path,
				"error": err.Error(),
			})
			continue
		}
		if imports == nil {
			// Unparseable file: present in the module index, absent
			// from the dependency map.
			continue
		}

		moduleName := m.pathToModule(path)
		result.Imports[moduleName] = imports

		deps := make(map[string]bool)
		for _, imp := range imports {
			for _, candidate := range m.dependencyCandidates(imp, path) {
				if _, known := m.modulePaths[candidate]; known {
					deps[candidate] = true
				}
			}

			if !imp.IsRelative && imp.Module != "" &&
				m.resolveImport(imp.Module, path, false, 0) == "" {
				base := firstSegment(imp.Module)
				if !python.IsStdlibModule(base) {
					external[base] = true
				}
			}
		}
		result.Dependencies[moduleName] = sortedKeys(deps)
	}

	result.ExternalDependencies = sortedKeys(external)
	return result, nil
}

// dependencyCandidates lists the project-module names an import statement
// might refer to. For from-imports each imported name is also tried as a
// submodule of the resolved base, so "from . import b" in pkg/a.py reaches
// pkg.b even when pkg has no __init__ file.
func (m *Mapper) dependencyCandidates(imp analyzer.ImportRecord, fromFile string) []string {
	base := m.resolveImport(imp.Module, fromFile, imp.IsRelative, imp.Level)

	var candidates []string
	if base != "" {
		candidates = append(candidates, base)
	}

	if imp.Kind != analyzer.FromImport {
		return candidates
	}

	// A base of "" is valid only for relative imports that land at the
	// project root; for absolute imports it means external.
	prefixOK := base != ""
	if imp.IsRelative && imp.Module == "" {
		currentParts := strings.Split(m.pathToModule(fromFile), ".")
		prefixOK = imp.Level <= len(currentParts)
	}
	if !prefixOK {
		return candidates
	}

	for _, name := range imp.Names {
		if name == "*" {
			continue
		}
		candidate := name
		if base != "" {
			candidate = base + "." + name
		}
		candidates = append(candidates, candidate)
	}
	return candidates
}

// pathToModule converts a file path to its dotted module name relative to
// the project root. __init__ files name their package. Paths outside the
// root fall back to the bare file stem.
func (m *Mapper) pathToModule(path string) string {
	rel, err := filepath.Rel(m.projectRoot, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return stem(path)
	}

	parts := strings.Split(filepath.ToSlash(rel), "/")
	parts[len(parts)-1] = stem(parts[len(parts)-1])
	if parts[len(parts)-1] == "__init__" {
		parts = parts[:len(parts)-1]
	}
	return strings.Join(parts, ".")
}

// resolveImport maps an imported module name to a project module name, or ""
// when the import does not land inside the project.
func (m *Mapper) resolveImport(moduleName, fromFile string, isRelative bool, level int) string {
	if isRelative {
		currentParts := strings.Split(m.pathToModule(fromFile), ".")
		if level > len(currentParts) {
			return ""
		}

		var baseParts []string
		if level > 0 {
			baseParts = currentParts[:len(currentParts)-level]
		} else {
			baseParts = currentParts[:len(currentParts)-1]
		}

		if moduleName != "" {
			return strings.Join(append(append([]string{}, baseParts...), strings.Split(moduleName, ".")...), ".")
		}
		return strings.Join(baseParts, ".")
	}

	// Absolute import: internal when a known module matches it or lives
	// under it.
	for known := range m.modulePaths {
		if known == moduleName || strings.HasPrefix(known, moduleName+".") {
			return moduleName
		}
	}

	// Or when a dotted prefix of it is a known module.
	parts := strings.Split(moduleName, ".")
	for i := len(parts); i > 0; i-- {
		partial := strings.Join(parts[:i], ".")
		if _, ok := m.modulePaths[partial]; ok {
			return partial
		}
	}
	return ""
}

func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func firstSegment(module string) string {
	if idx := strings.IndexByte(module, '.'); idx >= 0 {
		return module[:idx]
	}
	return module
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
