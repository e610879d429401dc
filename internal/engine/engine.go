// Package engine wires the analyzers together behind one facade: per-file
// analysis, structure scans, dependency mapping and whole-project runs.
package engine

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"time"

	"codescope/internal/analyzer"
	"codescope/internal/config"
	"codescope/internal/errors"
	"codescope/internal/languages"
	"codescope/internal/logging"
	"codescope/internal/paths"
	"codescope/internal/pydeps"
	"codescope/internal/python"
	"codescope/internal/structure"
)

// Engine coordinates analysis of one project.
type Engine struct {
	projectRoot string
	cfg         *config.Config
	logger      *logging.Logger

	registry  *analyzer.Registry
	python    *python.Analyzer
	structure *structure.Analyzer
}

// ProjectReport is the aggregate of a full project run.
type ProjectReport struct {
	ProjectRoot          string                     `json:"projectRoot"`
	GeneratedAt          time.Time                  `json:"generatedAt"`
	Structure            *structure.Report          `json:"structure"`
	Files                []*analyzer.AnalysisResult `json:"files"`
	Dependencies         *pydeps.Result             `json:"dependencies"`
	CircularDependencies [][]string                 `json:"circularDependencies"`
	SkippedFiles         []SkippedFile              `json:"skippedFiles"`
}

// SkippedFile records a file a project run could not analyze, and why.
type SkippedFile struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
}

// New builds an engine for the project rooted at projectRoot. The Python
// analyzer registers first; analyzers registered later only see files it
// declines.
func New(projectRoot string, cfg *config.Config, logger *logging.Logger) *Engine {
	reg := analyzer.NewRegistry(logger)
	py := python.NewAnalyzer(cfg.Analysis.MaxFileSizeBytes, logger)
	reg.Register(py)

	return &Engine{
		projectRoot: projectRoot,
		cfg:         cfg,
		logger:      logger,
		registry:    reg,
		python:      py,
		structure: structure.NewAnalyzer(
			cfg.Analysis.IgnorePatterns,
			cfg.Analysis.MaxDepth,
			cfg.Analysis.LargestFiles,
			logger,
		),
	}
}

// ProjectRoot returns the project root the engine was built for.
func (e *Engine) ProjectRoot() string {
	return e.projectRoot
}

// Registry exposes the analyzer registry for capability queries.
func (e *Engine) Registry() *analyzer.Registry {
	return e.registry
}

// AnalyzeFile analyzes one file with the first analyzer that claims it.
// Relative paths resolve against the project root.
func (e *Engine) AnalyzeFile(ctx context.Context, path string) (*analyzer.AnalysisResult, error) {
	abs := path
	if !filepath.IsAbs(abs) {
		abs = filepath.Join(e.projectRoot, path)
	}

	a := e.registry.Select(abs)
	if a == nil {
		return nil, errors.New(errors.UnsupportedFile,
			fmt.Sprintf("no analyzer supports %s", path), nil).
			WithDetails(map[string]interface{}{
				"path":       path,
				"extensions": e.registry.SupportedExtensions(),
			})
	}

	result, err := a.Analyze(ctx, abs)
	if err != nil {
		return nil, err
	}
	result.Info.RelativePath = e.relativePath(abs)
	return result, nil
}

// relativePath canonicalizes a path against the project root, falling back
// to the input when it cannot be related to the root.
func (e *Engine) relativePath(abs string) string {
	rel, err := paths.Canonicalize(abs, e.projectRoot)
	if err != nil {
		return filepath.ToSlash(abs)
	}
	return rel
}

// AnalyzeStructure scans the project tree.
func (e *Engine) AnalyzeStructure(ctx context.Context) (*structure.Report, error) {
	return e.structure.Analyze(ctx, e.projectRoot)
}

// MapDependencies maps imports across every Python file in the project.
func (e *Engine) MapDependencies(ctx context.Context) (*pydeps.Result, error) {
	files, err := e.pythonFiles(ctx)
	if err != nil {
		return nil, err
	}
	mapper := pydeps.NewMapper(e.projectRoot, e.python, e.logger)
	return mapper.MapDependencies(ctx, files)
}

// FindCircularDependencies maps dependencies and reports the cycles in the
// resulting graph.
func (e *Engine) FindCircularDependencies(ctx context.Context) ([][]string, error) {
	result, err := e.MapDependencies(ctx)
	if err != nil {
		return nil, err
	}
	return pydeps.FromResult(result).FindCircularDependencies(), nil
}

// AnalyzeProject runs the full pipeline: structure scan, per-file analysis
// of every supported file, dependency map and cycle detection. Files that
// fail analysis are recorded and skipped, they never abort the run.
func (e *Engine) AnalyzeProject(ctx context.Context) (*ProjectReport, error) {
	started := time.Now().UTC()

	structReport, err := e.AnalyzeStructure(ctx)
	if err != nil {
		return nil, err
	}

	report := &ProjectReport{
		ProjectRoot:  e.projectRoot,
		GeneratedAt:  started,
		Structure:    structReport,
		Files:        []*analyzer.AnalysisResult{},
		SkippedFiles: []SkippedFile{},
	}

	supported, err := e.supportedFiles(ctx)
	if err != nil {
		return nil, err
	}
	for _, path := range supported {
		result, err := e.AnalyzeFile(ctx, path)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			e.logger.Warn("Skipping file", map[string]interface{}{
				"path":  path,
				"error": err.Error(),
			})
			report.SkippedFiles = append(report.SkippedFiles, SkippedFile{
				Path:   e.relativePath(path),
				Reason: err.Error(),
			})
			continue
		}
		report.Files = append(report.Files, result)
	}

	deps, err := e.MapDependencies(ctx)
	if err != nil {
		return nil, err
	}
	report.Dependencies = deps
	report.CircularDependencies = pydeps.FromResult(deps).FindCircularDependencies()

	e.logger.Info("Project analysis complete", map[string]interface{}{
		"root":     e.projectRoot,
		"files":    len(report.Files),
		"skipped":  len(report.SkippedFiles),
		"duration": time.Since(started).String(),
	})
	return report, nil
}

// pythonFiles lists every .py file under the root, pruning ignored
// directories, sorted for deterministic runs.
func (e *Engine) pythonFiles(ctx context.Context) ([]string, error) {
	return e.walkFiles(ctx, func(path string) bool {
		return filepath.Ext(path) == ".py"
	})
}

// supportedFiles lists every file some registered analyzer claims.
func (e *Engine) supportedFiles(ctx context.Context) ([]string, error) {
	return e.walkFiles(ctx, func(path string) bool {
		return e.registry.Supports(path)
	})
}

func (e *Engine) walkFiles(ctx context.Context, keep func(string) bool) ([]string, error) {
	ignore := e.cfg.Analysis.IgnorePatterns
	var files []string

	err := filepath.WalkDir(e.projectRoot, func(path string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			return nil
		}
		if path != e.projectRoot && languages.MatchesIgnore(d.Name(), ignore) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.IsDir() && keep(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}
