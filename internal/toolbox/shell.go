package toolbox

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"regexp"
	"time"
)

// blocklist rejects known-destructive command shapes before execution:
// privilege escalation, shutdown/reboot, filesystem formatting, raw disk
// writes, recursive root deletion, and the fork-bomb idiom. This is a
// best-effort denylist, not a sandbox guarantee: a determined command can
// evade substring matching.
var blocklist = []*regexp.Regexp{
	regexp.MustCompile(`\bsudo\b`),
	regexp.MustCompile(`\bshutdown\b`),
	regexp.MustCompile(`\breboot\b`),
	regexp.MustCompile(`\bmkfs\b`),
	regexp.MustCompile(`\bdd\s+if=`),
	regexp.MustCompile(`rm\s+-rf\s+/`),
	regexp.MustCompile(`:\(\)\s*\{\s*:\|:\s*&\s*\};:`),
}

// RunShell runs command through bash inside the workspace root, with a
// wall-clock timeout. Stdout, stderr, and the exit code are all folded
// into the returned text.
func (e *Executor) RunShell(ctx context.Context, command string, timeoutSec int) string {
	if !e.allowShell {
		return "error: shell tool is disabled"
	}

	for _, pattern := range blocklist {
		if pattern.MatchString(command) {
			return fmt.Sprintf("error: blocked command pattern matched: %s", pattern.String())
		}
	}

	timeout := e.shellTimeout
	if timeoutSec > 0 {
		timeout = time.Duration(timeoutSec) * time.Second
	}

	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, "bash", "-lc", command)
	cmd.Dir = e.root

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()
	if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		return fmt.Sprintf("error: command timed out after %ds", int(timeout.Seconds()))
	}

	exitCode := 0
	if runErr != nil {
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			exitCode = exitErr.ExitCode()
		} else {
			return fmt.Sprintf("error: tool execution failed: %v", runErr)
		}
	}

	combined := fmt.Sprintf("[exit_code=%d]\n$ %s\n\n%s", exitCode, command, stdout.String())
	if stderr.Len() > 0 {
		combined += fmt.Sprintf("\n[stderr]\n%s", stderr.String())
	}
	return e.clip(combined)
}
