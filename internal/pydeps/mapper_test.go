package pydeps

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codescope/internal/config"
	"codescope/internal/logging"
	"codescope/internal/python"
)

func testLogger() *logging.Logger {
	return logging.NewLogger(logging.Config{Level: logging.ErrorLevel, Output: io.Discard})
}

// writeTree lays out a project from relative path -> content.
func writeTree(t *testing.T, files map[string]string) (string, []string) {
	t.Helper()
	root := t.TempDir()
	var paths []string
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
		paths = append(paths, path)
	}
	return root, paths
}

func mapTree(t *testing.T, files map[string]string) *Result {
	t.Helper()
	root, paths := writeTree(t, files)
	mapper := NewMapper(root, python.NewAnalyzer(config.DefaultMaxFileSizeBytes, testLogger()), testLogger())
	result, err := mapper.MapDependencies(context.Background(), paths)
	require.NoError(t, err)
	return result
}

func TestPathToModule(t *testing.T) {
	m := NewMapper("/proj", nil, testLogger())

	tests := []struct {
		path string
		want string
	}{
		{"/proj/main.py", "main"},
		{"/proj/pkg/util.py", "pkg.util"},
		{"/proj/pkg/__init__.py", "pkg"},
		{"/proj/a/b/c.py", "a.b.c"},
		{"/elsewhere/loose.py", "loose"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, m.pathToModule(tt.path), "path %s", tt.path)
	}
}

func TestMapDependencies_AbsoluteImports(t *testing.T) {
	result := mapTree(t, map[string]string{
		"app.py":         "import pkg.util\nfrom pkg import helpers\n",
		"pkg/util.py":    "import os\n",
		"pkg/helpers.py": "x = 1\n",
	})

	assert.Equal(t, []string{"pkg.helpers", "pkg.util"}, result.Dependencies["app"])
	assert.Empty(t, result.Dependencies["pkg.util"])
	assert.Empty(t, result.ExternalDependencies)
}

func TestMapDependencies_RelativeImportResolvesSibling(t *testing.T) {
	result := mapTree(t, map[string]string{
		"pkg/a.py": "from . import b\n",
		"pkg/b.py": "x = 1\n",
	})

	assert.Contains(t, result.Dependencies["pkg.a"], "pkg.b")
}

func TestMapDependencies_RelativeLevels(t *testing.T) {
	result := mapTree(t, map[string]string{
		"pkg/sub/deep.py": "from ..util import thing\nfrom ...... import nothing\n",
		"pkg/util.py":     "x = 1\n",
	})

	// Too many dots to climb out of resolves to nothing; the valid one lands
	assert.Equal(t, []string{"pkg.util"}, result.Dependencies["pkg.sub.deep"])
}

func TestMapDependencies_ExternalDependencies(t *testing.T) {
	result := mapTree(t, map[string]string{
		"app.py":      "import os\nimport requests\nfrom fastapi import FastAPI\nimport pkg.util\nfrom . import local\n",
		"pkg/util.py": "x = 1\n",
	})

	// stdlib, internal and relative imports are all excluded
	assert.Equal(t, []string{"fastapi", "requests"}, result.ExternalDependencies)
}

func TestMapDependencies_ModuleIndexBeforeResolution(t *testing.T) {
	// zz_late.py sorts after the importer; resolution must still find it
	// because the index is complete before any import is resolved.
	result := mapTree(t, map[string]string{
		"aa_early.py": "import zz_late\n",
		"zz_late.py":  "x = 1\n",
	})

	assert.Equal(t, []string{"zz_late"}, result.Dependencies["aa_early"])
}

func TestMapDependencies_UnparseableFileSkipped(t *testing.T) {
	result := mapTree(t, map[string]string{
		"good.py":   "import broken\n",
		"broken.py": "def oops(:\n",
	})

	// The broken file stays in the module index (so imports of it resolve)
	// but contributes no dependency entry of its own.
	assert.Contains(t, result.ModulePaths, "broken")
	assert.NotContains(t, result.Dependencies, "broken")
	assert.Equal(t, []string{"broken"}, result.Dependencies["good"])
}

func TestMapDependencies_NonPythonFilesIgnored(t *testing.T) {
	result := mapTree(t, map[string]string{
		"app.py":    "x = 1\n",
		"README.md": "# readme\n",
		"data.json": "{}\n",
	})

	assert.Len(t, result.ModulePaths, 1)
	assert.Contains(t, result.ModulePaths, "app")
}

func TestGraph_ForwardAndReverse(t *testing.T) {
	g := NewGraph()
	g.AddDependency("a", "b")
	g.AddDependency("a", "c")
	g.AddDependency("b", "c")

	assert.Equal(t, []string{"b", "c"}, g.Dependencies("a"))
	assert.Equal(t, []string{"a", "b"}, g.Dependents("c"))
	assert.Empty(t, g.Dependencies("c"))
}

func TestGraph_MutualImportCycle(t *testing.T) {
	result := mapTree(t, map[string]string{
		"pkg/a.py": "from pkg import b\n",
		"pkg/b.py": "from pkg import a\n",
	})

	cycles := FromResult(result).FindCircularDependencies()
	require.NotEmpty(t, cycles)

	found := false
	for _, cycle := range cycles {
		hasA, hasB := false, false
		for _, node := range cycle {
			if node == "pkg.a" {
				hasA = true
			}
			if node == "pkg.b" {
				hasB = true
			}
		}
		if hasA && hasB {
			found = true
		}
	}
	assert.True(t, found, "expected a cycle containing both pkg.a and pkg.b, got %v", cycles)
}

func TestGraph_CycleEndpointsRepeat(t *testing.T) {
	g := NewGraph()
	g.AddDependency("a", "b")
	g.AddDependency("b", "c")
	g.AddDependency("c", "a")

	cycles := g.FindCircularDependencies()
	require.Len(t, cycles, 1)
	cycle := cycles[0]
	assert.Equal(t, cycle[0], cycle[len(cycle)-1], "cycle should start and end on the same module")
	assert.Len(t, cycle, 4)
}

func TestGraph_NoCycles(t *testing.T) {
	g := NewGraph()
	g.AddDependency("a", "b")
	g.AddDependency("b", "c")
	g.AddDependency("a", "c")

	assert.Empty(t, g.FindCircularDependencies())
}

func TestGraph_CrossEdgeIsNotACycle(t *testing.T) {
	// d is reachable twice but never closes a loop.
	g := NewGraph()
	g.AddDependency("a", "b")
	g.AddDependency("a", "c")
	g.AddDependency("b", "d")
	g.AddDependency("c", "d")

	assert.Empty(t, g.FindCircularDependencies())
}
