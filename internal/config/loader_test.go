package config

import (
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockFileSystem implements FileSystem for testing.
type MockFileSystem struct {
	HomeDir     string
	HomeDirErr  error
	Files       map[string][]byte
	ReadFileErr error
}

func (m *MockFileSystem) UserHomeDir() (string, error) {
	return m.HomeDir, m.HomeDirErr
}

func (m *MockFileSystem) ReadFile(path string) ([]byte, error) {
	if m.ReadFileErr != nil {
		return nil, m.ReadFileErr
	}
	data, ok := m.Files[path]
	if !ok {
		return nil, os.ErrNotExist
	}
	return data, nil
}

func TestLoad_NoConfigFile_ReturnsDefaults(t *testing.T) {
	fs := &MockFileSystem{
		HomeDir: "/home/user",
		Files:   map[string][]byte{},
	}
	loader := NewLoaderWithFS(fs)

	cfg, err := loader.Load()

	require.NoError(t, err)
	assert.Equal(t, 10, cfg.Agent.MaxSteps)
	assert.Equal(t, 24000, cfg.Agent.TrimBudgetChars)
	assert.True(t, cfg.Tools.AllowShell)
	assert.Equal(t, 4000, cfg.Tools.OutputCharLimit)
	assert.Equal(t, "gemini-2.0-flash-exp", cfg.Provider.Model)
}

func TestLoad_PartialOverride_MergesWithDefaults(t *testing.T) {
	configJSON := `{
		"agent": {"max_steps": 30},
		"tools": {"allow_shell": false}
	}`
	fs := &MockFileSystem{
		HomeDir: "/home/user",
		Files: map[string][]byte{
			"/home/user/.config/taskagent/config.json": []byte(configJSON),
		},
	}
	loader := NewLoaderWithFS(fs)

	cfg, err := loader.Load()

	require.NoError(t, err)
	assert.Equal(t, 30, cfg.Agent.MaxSteps)
	assert.False(t, cfg.Tools.AllowShell)
	// Untouched keys keep defaults.
	assert.Equal(t, 45, cfg.Tools.ShellTimeoutSec)
	assert.Equal(t, 200, cfg.Tools.DefaultListLimit)
}

func TestLoad_MalformedJSON_ReturnsError(t *testing.T) {
	fs := &MockFileSystem{
		HomeDir: "/home/user",
		Files: map[string][]byte{
			"/home/user/.config/taskagent/config.json": []byte(`{not json`),
		},
	}
	loader := NewLoaderWithFS(fs)

	_, err := loader.Load()
	assert.Error(t, err)
}

func TestLoad_PermissionError_ReturnsError(t *testing.T) {
	fs := &MockFileSystem{
		HomeDir:     "/home/user",
		ReadFileErr: errors.New("permission denied"),
	}
	loader := NewLoaderWithFS(fs)

	_, err := loader.Load()
	assert.Error(t, err)
}

func TestLoad_HomeDirError_ReturnsDefaults(t *testing.T) {
	fs := &MockFileSystem{HomeDirErr: errors.New("no home")}
	loader := NewLoaderWithFS(fs)

	cfg, err := loader.Load()
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.Agent.MaxSteps)
}

func TestLoad_InvalidMergedConfig_ReturnsValidationError(t *testing.T) {
	configJSON := `{"agent": {"max_steps": -1}}`
	fs := &MockFileSystem{
		HomeDir: "/home/user",
		Files: map[string][]byte{
			"/home/user/.config/taskagent/config.json": []byte(configJSON),
		},
	}
	loader := NewLoaderWithFS(fs)

	_, err := loader.Load()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "max_steps")
}
