package paths

import (
	"os"
	"path/filepath"
	"strings"
)

// Canonicalize converts an absolute path to a root-relative canonical path:
// symlinks resolved, relative to the project root, forward slashes.
func Canonicalize(absolutePath string, projectRoot string) (string, error) {
	resolved, err := filepath.EvalSymlinks(absolutePath)
	if err != nil {
		// If the file doesn't exist yet, use the path as-is
		if os.IsNotExist(err) {
			resolved = absolutePath
		} else {
			return "", err
		}
	}

	rootResolved, err := filepath.EvalSymlinks(projectRoot)
	if err != nil {
		if os.IsNotExist(err) {
			rootResolved = projectRoot
		} else {
			return "", err
		}
	}

	relativePath, err := filepath.Rel(rootResolved, resolved)
	if err != nil {
		return "", err
	}

	return filepath.ToSlash(relativePath), nil
}

// IsWithinRoot checks if a path is inside the project root
func IsWithinRoot(path string, projectRoot string) bool {
	canonical, err := Canonicalize(path, projectRoot)
	if err != nil {
		return false
	}
	return canonical != ".." && !strings.HasPrefix(canonical, "../")
}

// Normalize converts backslashes to forward slashes for paths that are
// already relative but need normalization
func Normalize(path string) string {
	return filepath.ToSlash(path)
}
