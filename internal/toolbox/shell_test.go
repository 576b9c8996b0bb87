package toolbox

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskagent/internal/config"
)

func requireBash(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("bash required")
	}
}

func TestRunShell_Disabled(t *testing.T) {
	e := newTestExecutor(t, func(c *config.Config) {
		c.Tools.AllowShell = false
	})
	out := e.RunShell(context.Background(), "echo hi", 0)
	assert.Equal(t, "error: shell tool is disabled", out)
}

func TestRunShell_Blocklist(t *testing.T) {
	e := newTestExecutor(t, nil)
	ctx := context.Background()

	blocked := []string{
		"sudo rm file",
		"shutdown -h now",
		"reboot",
		"mkfs.ext4 /dev/sda1",
		"dd if=/dev/zero of=/dev/sda",
		"rm -rf /",
		":(){ :|: & };:",
	}
	for _, cmd := range blocked {
		out := e.RunShell(ctx, cmd, 0)
		assert.True(t, strings.HasPrefix(out, "error: blocked command pattern matched:"),
			"command %q got %q", cmd, out)
	}

	// The marker file proves the command never reached the shell.
	e.RunShell(ctx, "sudo touch proof.txt", 0)
	_, err := os.Stat(filepath.Join(e.Root(), "proof.txt"))
	assert.True(t, os.IsNotExist(err))
}

func TestRunShell_CapturesOutputAndExitCode(t *testing.T) {
	requireBash(t)
	e := newTestExecutor(t, nil)
	ctx := context.Background()

	t.Run("stdout with zero exit", func(t *testing.T) {
		out := e.RunShell(ctx, "echo hello", 0)
		assert.Contains(t, out, "[exit_code=0]")
		assert.Contains(t, out, "$ echo hello")
		assert.Contains(t, out, "hello")
	})

	t.Run("stderr section", func(t *testing.T) {
		out := e.RunShell(ctx, "echo oops >&2", 0)
		assert.Contains(t, out, "[stderr]\noops")
	})

	t.Run("non-zero exit code reported, not raised", func(t *testing.T) {
		out := e.RunShell(ctx, "exit 3", 0)
		assert.Contains(t, out, "[exit_code=3]")
	})

	t.Run("runs inside workspace root", func(t *testing.T) {
		out := e.RunShell(ctx, "pwd", 0)
		assert.Contains(t, out, e.Root())
	})
}

func TestRunShell_Timeout(t *testing.T) {
	requireBash(t)
	e := newTestExecutor(t, nil)

	out := e.RunShell(context.Background(), "sleep 5", 1)
	assert.Equal(t, "error: command timed out after 1s", out)
}

func TestExecute_RunShellThroughDispatch(t *testing.T) {
	requireBash(t)
	e := newTestExecutor(t, nil)
	require.NoError(t, os.WriteFile(filepath.Join(e.Root(), "f.txt"), []byte("x"), 0o644))

	out := e.Execute(context.Background(), "run_shell", map[string]any{"command": "ls"})
	assert.Contains(t, out, "f.txt")
}
