// Package pathutil confines filesystem paths to a workspace root.
// Every tool call re-resolves its path through Resolve; nothing here is
// cached between calls.
package pathutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrOutsideWorkspace is returned when a path resolves outside the
// workspace root, including escapes through symlinks.
var ErrOutsideWorkspace = errors.New("path escapes workspace")

// CanonicaliseRoot makes a workspace root absolute and resolves symlinks.
// Returns an error if the path doesn't exist or isn't a directory.
func CanonicaliseRoot(root string) (string, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("failed to resolve workspace root: %w", err)
	}

	resolved, err := filepath.EvalSymlinks(absRoot)
	if err != nil {
		return "", fmt.Errorf("failed to resolve workspace root symlinks: %w", err)
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return "", fmt.Errorf("workspace root does not exist: %w", err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("workspace root is not a directory: %s", resolved)
	}
	return resolved, nil
}

// Resolve normalises path against a canonical workspace root and ensures
// the result stays inside it. Symlinks along the existing portion of the
// path are resolved before the boundary check, so a link pointing outside
// the root fails even when the lexical path looks safe. The trailing,
// not-yet-existing portion (a file about to be written, missing parent
// directories) is appended after resolution and re-checked lexically.
func Resolve(root, path string) (string, error) {
	if root == "" {
		return "", fmt.Errorf("workspace root not set")
	}

	var abs string
	if filepath.IsAbs(path) {
		abs = filepath.Clean(path)
	} else {
		abs = filepath.Join(root, path)
	}

	if !within(abs, root) {
		return "", fmt.Errorf("%w: %s", ErrOutsideWorkspace, path)
	}

	// Find the longest existing prefix and resolve its symlinks.
	existing := abs
	var pending []string
	for {
		if _, err := os.Lstat(existing); err == nil {
			break
		}
		parent := filepath.Dir(existing)
		if parent == existing {
			break
		}
		pending = append([]string{filepath.Base(existing)}, pending...)
		existing = parent
	}

	resolved, err := filepath.EvalSymlinks(existing)
	if err != nil {
		return "", fmt.Errorf("failed to resolve symlinks: %w", err)
	}
	if !within(resolved, root) {
		return "", fmt.Errorf("%w: %s", ErrOutsideWorkspace, path)
	}

	final := filepath.Join(append([]string{resolved}, pending...)...)
	if !within(final, root) {
		return "", fmt.Errorf("%w: %s", ErrOutsideWorkspace, path)
	}
	return final, nil
}

// within reports whether path is root itself or a descendant of it.
// Both paths must already be absolute and cleaned.
func within(path, root string) bool {
	if path == root {
		return true
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
