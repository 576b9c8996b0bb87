package gitutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewService_NoGitignore(t *testing.T) {
	svc, err := NewService(t.TempDir())
	require.NoError(t, err)
	assert.False(t, svc.ShouldIgnore("anything.txt", false))
}

func TestShouldIgnore(t *testing.T) {
	root := t.TempDir()
	gitignore := "*.log\nbuild/\n# comment\n\ndist\n"
	require.NoError(t, os.WriteFile(filepath.Join(root, ".gitignore"), []byte(gitignore), 0644))

	svc, err := NewService(root)
	require.NoError(t, err)

	tests := []struct {
		path    string
		isDir   bool
		ignored bool
	}{
		{"debug.log", false, true},
		{"sub/trace.log", false, true},
		{"build", true, true},
		{"build/out.bin", false, true},
		{"dist", true, true},
		{"main.go", false, false},
		{"src/app.go", false, false},
		{".", true, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.ignored, svc.ShouldIgnore(tt.path, tt.isDir), "path %q", tt.path)
	}
}

func TestNoOpService(t *testing.T) {
	assert.False(t, NoOpService{}.ShouldIgnore("build/out.bin", false))
}
