// Package structure scans a project directory into a tree of files and
// directories with aggregate statistics.
package structure

import (
	"context"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"codescope/internal/errors"
	"codescope/internal/languages"
	"codescope/internal/logging"
)

const (
	// DefaultMaxDepth bounds directory recursion.
	DefaultMaxDepth = 10

	// DefaultLargestFiles is how many entries the largest-files ranking
	// carries.
	DefaultLargestFiles = 10
)

// Analyzer scans directory trees. It holds configuration only; every scan
// keeps its own state, so one Analyzer may serve concurrent calls.
type Analyzer struct {
	ignorePatterns []string
	maxDepth       int
	largestFiles   int
	logger         *logging.Logger
}

// NewAnalyzer creates a structure analyzer. Zero maxDepth and largestFiles
// take their defaults; nil or empty ignorePatterns take the built-in set.
func NewAnalyzer(ignorePatterns []string, maxDepth, largestFiles int, logger *logging.Logger) *Analyzer {
	if len(ignorePatterns) == 0 {
		ignorePatterns = languages.DefaultIgnorePatterns()
	}
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	if largestFiles <= 0 {
		largestFiles = DefaultLargestFiles
	}
	return &Analyzer{
		ignorePatterns: ignorePatterns,
		maxDepth:       maxDepth,
		largestFiles:   largestFiles,
		logger:         logger,
	}
}

// scan carries the per-call mutable state of one Analyze invocation.
type scan struct {
	stats   Statistics
	skipped []SkippedPath
}

// Analyze walks the project directory and returns its tree and statistics.
// The path must exist and be a directory. Unreadable directories become
// empty nodes and are reported in SkippedPaths rather than failing the scan.
func (a *Analyzer) Analyze(ctx context.Context, projectPath string) (*Report, error) {
	info, err := os.Stat(projectPath)
	if err != nil {
		return nil, errors.New(errors.InvalidPath,
			fmt.Sprintf("project path does not exist: %s", projectPath), err)
	}
	if !info.IsDir() {
		return nil, errors.New(errors.InvalidPath,
			fmt.Sprintf("project path is not a directory: %s", projectPath), nil)
	}

	s := &scan{
		stats: Statistics{
			FileTypes:     make(map[string]int),
			LanguageStats: make(map[string]int),
		},
		skipped: []SkippedPath{},
	}

	root, err := a.walkDirectory(ctx, s, projectPath, 0)
	if err != nil {
		return nil, err
	}

	largest, err := a.findLargestFiles(ctx, projectPath)
	if err != nil {
		return nil, err
	}
	s.stats.LargestFiles = largest

	return &Report{
		Root:         root,
		Statistics:   s.stats,
		SkippedPaths: s.skipped,
	}, nil
}

func (a *Analyzer) walkDirectory(ctx context.Context, s *scan, dirPath string, depth int) (*DirectoryNode, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	node := newDirectoryNode(filepath.Base(dirPath), dirPath)

	if depth > a.maxDepth {
		a.logger.Warn("Max depth reached", map[string]interface{}{
			"path":  dirPath,
			"depth": depth,
		})
		return node, nil
	}

	entries, err := os.ReadDir(dirPath)
	if err != nil {
		a.logger.Warn("Cannot read directory", map[string]interface{}{
			"path":  dirPath,
			"error": err.Error(),
		})
		s.skipped = append(s.skipped, SkippedPath{Path: dirPath, Reason: err.Error()})
		return node, nil
	}

	for _, entry := range entries {
		if languages.MatchesIgnore(entry.Name(), a.ignorePatterns) {
			continue
		}
		entryPath := filepath.Join(dirPath, entry.Name())

		if entry.IsDir() {
			sub, err := a.walkDirectory(ctx, s, entryPath, depth+1)
			if err != nil {
				return nil, err
			}
			node.Directories[sub.Name] = sub
			continue
		}

		fileNode := a.describeFile(entryPath, entry)
		node.Files = append(node.Files, fileNode)

		s.stats.TotalFiles++
		s.stats.TotalSizeBytes += fileNode.SizeBytes
		s.stats.FileTypes[fileNode.Extension]++
		if fileNode.Language != "" {
			s.stats.LanguageStats[fileNode.Language]++
		}
	}
	return node, nil
}

func (a *Analyzer) describeFile(path string, entry fs.DirEntry) FileNode {
	ext := strings.ToLower(filepath.Ext(path))

	node := FileNode{
		Name:      entry.Name(),
		Path:      path,
		Extension: ext,
	}
	if lang, ok := languages.FromExtension(ext); ok {
		node.Language = string(lang)
	}

	info, err := entry.Info()
	if err != nil {
		a.logger.Error("Cannot stat file", map[string]interface{}{
			"path":  path,
			"error": err.Error(),
		})
		return node
	}
	node.SizeBytes = info.Size()
	return node
}

// findLargestFiles ranks every non-ignored file by size, largest first, and
// keeps the top entries. Ignored directories are pruned, not just their
// names filtered, so nothing under them counts.
func (a *Analyzer) findLargestFiles(ctx context.Context, rootPath string) ([]LargestFile, error) {
	files := []LargestFile{}

	err := filepath.WalkDir(rootPath, func(path string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			return nil
		}
		if path != rootPath && languages.MatchesIgnore(d.Name(), a.ignorePatterns) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return nil
		}
		rel, err := filepath.Rel(rootPath, path)
		if err != nil {
			rel = path
		}
		files = append(files, LargestFile{
			Path:      filepath.ToSlash(rel),
			SizeBytes: info.Size(),
			SizeMB:    math.Round(float64(info.Size())/(1024*1024)*100) / 100,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(files, func(i, j int) bool {
		return files[i].SizeBytes > files[j].SizeBytes
	})
	if len(files) > a.largestFiles {
		files = files[:a.largestFiles]
	}
	return files, nil
}
