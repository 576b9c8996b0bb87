package toolbox

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"taskagent/internal/pathutil"
)

// noiseDirs are skipped by list_files regardless of gitignore: version
// control metadata, caches, dependency trees, and model caches.
var noiseDirs = map[string]struct{}{
	".git":         {},
	".hg":          {},
	".svn":         {},
	"__pycache__":  {},
	".venv":        {},
	".cache":       {},
	"node_modules": {},
	"vendor":       {},
	"models":       {},
}

// ListFiles recursively lists files under path, sorted lexicographically
// per directory, relative to the workspace root. Collection stops at limit
// with an explicit truncation marker.
func (e *Executor) ListFiles(path string, limit int) string {
	if path == "" {
		path = "."
	}
	if limit <= 0 {
		limit = e.defaultListLimit
	}

	base, err := pathutil.Resolve(e.root, path)
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}

	info, err := os.Stat(base)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Sprintf("error: path does not exist: %s", path)
		}
		return fmt.Sprintf("error: %v", err)
	}
	if !info.IsDir() {
		return fmt.Sprintf("error: path is not a directory: %s", path)
	}

	rows := make([]string, 0, limit)
	clipped := e.collect(base, limit, &rows)
	if clipped {
		return strings.Join(rows, "\n") + "\n[list_files clipped by limit]"
	}
	if len(rows) == 0 {
		return "(no files)"
	}
	return strings.Join(rows, "\n")
}

// collect walks dir depth-first: files of the current directory first,
// then subdirectories, both sorted. Returns true once the limit is hit.
func (e *Executor) collect(dir string, limit int, rows *[]string) bool {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false // unreadable subdirectory, skip
	}

	var files, dirs []string
	for _, entry := range entries {
		if entry.IsDir() {
			dirs = append(dirs, entry.Name())
		} else {
			files = append(files, entry.Name())
		}
	}
	sort.Strings(files)
	sort.Strings(dirs)

	for _, name := range files {
		rel := e.relative(filepath.Join(dir, name))
		if e.ignore != nil && e.ignore.ShouldIgnore(rel, false) {
			continue
		}
		*rows = append(*rows, rel)
		if len(*rows) >= limit {
			return true
		}
	}
	for _, name := range dirs {
		if _, noisy := noiseDirs[name]; noisy {
			continue
		}
		rel := e.relative(filepath.Join(dir, name))
		if e.ignore != nil && e.ignore.ShouldIgnore(rel, true) {
			continue
		}
		if e.collect(filepath.Join(dir, name), limit, rows) {
			return true
		}
	}
	return false
}

func (e *Executor) relative(abs string) string {
	rel, err := filepath.Rel(e.root, abs)
	if err != nil {
		return abs
	}
	return filepath.ToSlash(rel)
}

// ReadFile returns a 1-indexed, line-numbered slice of the file. endLine 0
// means "to end of file"; an endLine past the file is clamped.
func (e *Executor) ReadFile(path string, startLine, endLine int) string {
	target, err := pathutil.Resolve(e.root, path)
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}

	info, err := os.Stat(target)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Sprintf("error: file does not exist: %s", path)
		}
		return fmt.Sprintf("error: %v", err)
	}
	if info.IsDir() {
		return fmt.Sprintf("error: not a file: %s", path)
	}

	data, err := os.ReadFile(target)
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}

	lines := splitLines(string(data))
	start := startLine
	if start < 1 {
		start = 1
	}
	finish := endLine
	if finish <= 0 || finish > len(lines) {
		finish = len(lines)
	}
	if start > finish {
		return "error: invalid line range"
	}

	var b strings.Builder
	for i := start; i <= finish; i++ {
		if i > start {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%d: %s", i, lines[i-1])
	}
	return e.clip(b.String())
}

// WriteFile overwrites the file fully, creating parent directories.
func (e *Executor) WriteFile(path, content string) string {
	target, err := pathutil.Resolve(e.root, path)
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	if err := os.WriteFile(target, []byte(content), 0o644); err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	return fmt.Sprintf("wrote %d bytes to %s", len(content), path)
}

// AppendFile appends to the file, creating parent directories.
func (e *Executor) AppendFile(path, content string) string {
	target, err := pathutil.Resolve(e.root, path)
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	f, err := os.OpenFile(target, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	defer f.Close()
	if _, err := f.WriteString(content); err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	return fmt.Sprintf("appended %d bytes to %s", len(content), path)
}

// splitLines splits on newlines without inventing a trailing empty line
// for newline-terminated files. An empty file has zero lines.
func splitLines(content string) []string {
	if content == "" {
		return nil
	}
	content = strings.TrimSuffix(content, "\n")
	return strings.Split(content, "\n")
}
