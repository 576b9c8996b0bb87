// Package gitutil filters workspace listings through the repository's
// .gitignore, so file-tree snapshots sent to the model skip build output
// the same way git does.
package gitutil

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
)

// Service answers whether a workspace-relative path is ignored.
type Service struct {
	matcher gitignore.Matcher
}

// NewService reads the .gitignore at the workspace root, if any. A missing
// file yields a service that ignores nothing. Nested .gitignore files are
// not consulted.
func NewService(workspaceRoot string) (*Service, error) {
	var patterns []gitignore.Pattern

	f, err := os.Open(filepath.Join(workspaceRoot, ".gitignore"))
	if err != nil {
		if os.IsNotExist(err) {
			return &Service{matcher: gitignore.NewMatcher(nil)}, nil
		}
		return nil, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, gitignore.ParsePattern(line, nil))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return &Service{matcher: gitignore.NewMatcher(patterns)}, nil
}

// ShouldIgnore reports whether the given workspace-relative path matches an
// ignore pattern. Paths use forward slashes.
func (s *Service) ShouldIgnore(relativePath string, isDir bool) bool {
	if relativePath == "" || relativePath == "." {
		return false
	}
	return s.matcher.Match(strings.Split(relativePath, "/"), isDir)
}

// NoOpService never ignores anything. Used when gitignore loading fails.
type NoOpService struct{}

func (NoOpService) ShouldIgnore(string, bool) bool { return false }
