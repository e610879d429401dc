package structure

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codescope/internal/errors"
	"codescope/internal/logging"
)

func testLogger() *logging.Logger {
	return logging.NewLogger(logging.Config{Level: logging.ErrorLevel, Output: io.Discard})
}

func writeFile(t *testing.T, root, rel string, size int) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, bytes.Repeat([]byte("x"), size), 0o644))
}

func TestAnalyze_MissingPath(t *testing.T) {
	a := NewAnalyzer(nil, 0, 0, testLogger())
	_, err := a.Analyze(context.Background(), filepath.Join(t.TempDir(), "absent"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.InvalidPath))
}

func TestAnalyze_PathIsFile(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "plain.txt", 1)

	a := NewAnalyzer(nil, 0, 0, testLogger())
	_, err := a.Analyze(context.Background(), filepath.Join(root, "plain.txt"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.InvalidPath))
}

func TestAnalyze_TreeAndStatistics(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "README.md", 10)
	writeFile(t, root, "src/main.py", 20)
	writeFile(t, root, "__pycache__/main.cpython-312.pyc", 999)

	a := NewAnalyzer(nil, 0, 0, testLogger())
	report, err := a.Analyze(context.Background(), root)
	require.NoError(t, err)

	// The ignored directory contributes nothing
	assert.Equal(t, 2, report.Statistics.TotalFiles)
	assert.Equal(t, int64(30), report.Statistics.TotalSizeBytes)
	assert.Equal(t, 1, report.Statistics.FileTypes[".md"])
	assert.Equal(t, 1, report.Statistics.FileTypes[".py"])
	assert.Equal(t, 1, report.Statistics.LanguageStats["python"])
	assert.NotContains(t, report.Root.Directories, "__pycache__")

	src, ok := report.Root.Directories["src"]
	require.True(t, ok)
	require.Len(t, src.Files, 1)
	assert.Equal(t, "main.py", src.Files[0].Name)
	assert.Equal(t, "python", src.Files[0].Language)
	assert.Equal(t, int64(20), src.Files[0].SizeBytes)
}

func TestAnalyze_LargestFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "small.txt", 10)
	writeFile(t, root, "sub/big.bin", 1000)
	writeFile(t, root, "medium.dat", 500)
	writeFile(t, root, "node_modules/huge.js", 5000)

	a := NewAnalyzer(nil, 0, 2, testLogger())
	report, err := a.Analyze(context.Background(), root)
	require.NoError(t, err)

	largest := report.Statistics.LargestFiles
	require.Len(t, largest, 2)
	assert.Equal(t, "sub/big.bin", largest[0].Path)
	assert.Equal(t, int64(1000), largest[0].SizeBytes)
	assert.Equal(t, "medium.dat", largest[1].Path)
}

func TestAnalyze_DepthCeiling(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "top.txt", 1)
	writeFile(t, root, "a/mid.txt", 1)
	writeFile(t, root, "a/b/deep.txt", 1)

	a := NewAnalyzer(nil, 1, 0, testLogger())
	report, err := a.Analyze(context.Background(), root)
	require.NoError(t, err)

	// Files at depth 0 and 1 count; the directory past the ceiling is an
	// empty node.
	assert.Equal(t, 2, report.Statistics.TotalFiles)
	b := report.Root.Directories["a"].Directories["b"]
	require.NotNil(t, b)
	assert.Empty(t, b.Files)
	assert.Empty(t, b.Directories)
}

func TestAnalyze_UnreadableDirectorySkipped(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("directory permissions are not enforced for root")
	}

	root := t.TempDir()
	writeFile(t, root, "ok.txt", 1)
	locked := filepath.Join(root, "locked")
	require.NoError(t, os.MkdirAll(locked, 0o755))
	writeFile(t, root, "locked/secret.txt", 1)
	require.NoError(t, os.Chmod(locked, 0o000))
	t.Cleanup(func() { _ = os.Chmod(locked, 0o755) })

	a := NewAnalyzer(nil, 0, 0, testLogger())
	report, err := a.Analyze(context.Background(), root)
	require.NoError(t, err)

	require.Len(t, report.SkippedPaths, 1)
	assert.Equal(t, locked, report.SkippedPaths[0].Path)
	assert.NotEmpty(t, report.SkippedPaths[0].Reason)

	// The unreadable directory is present in the tree but empty
	node := report.Root.Directories["locked"]
	require.NotNil(t, node)
	assert.Empty(t, node.Files)
	assert.Equal(t, 1, report.Statistics.TotalFiles)
}

func TestAnalyze_CustomIgnorePatterns(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "keep.py", 1)
	writeFile(t, root, "skip.log", 1)
	writeFile(t, root, "tmp_cache/x.txt", 1)

	a := NewAnalyzer([]string{"*.log", "tmp_*"}, 0, 0, testLogger())
	report, err := a.Analyze(context.Background(), root)
	require.NoError(t, err)

	assert.Equal(t, 1, report.Statistics.TotalFiles)
	assert.NotContains(t, report.Root.Directories, "tmp_cache")
}

func TestAnalyze_Cancelled(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.txt", 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	a := NewAnalyzer(nil, 0, 0, testLogger())
	_, err := a.Analyze(ctx, root)
	assert.ErrorIs(t, err, context.Canceled)
}
