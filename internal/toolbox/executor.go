// Package toolbox is the sandboxed tool executor: five fixed operations
// confined to a workspace root. Failures never cross the dispatch boundary
// as Go errors; every outcome, including sandbox violations and panics
// during execution, comes back as tool output text the model can read.
package toolbox

import (
	"context"
	"fmt"
	"time"

	"github.com/mitchellh/mapstructure"

	"taskagent/internal/config"
)

// IgnoreService filters workspace-relative paths out of listings.
type IgnoreService interface {
	ShouldIgnore(relativePath string, isDir bool) bool
}

// Executor runs tool calls against one workspace. It holds no cross-call
// state beyond immutable configuration, so one instance per run is safe
// under concurrent runs.
type Executor struct {
	root             string // canonical workspace root
	allowShell       bool
	shellTimeout     time.Duration
	outputCharLimit  int
	defaultListLimit int
	ignore           IgnoreService
}

// New creates an Executor confined to the given canonical workspace root.
// ignore may be nil.
func New(root string, cfg *config.Config, ignore IgnoreService) *Executor {
	return &Executor{
		root:             root,
		allowShell:       cfg.Tools.AllowShell,
		shellTimeout:     time.Duration(cfg.Tools.ShellTimeoutSec) * time.Second,
		outputCharLimit:  cfg.Tools.OutputCharLimit,
		defaultListLimit: cfg.Tools.DefaultListLimit,
		ignore:           ignore,
	}
}

// Root returns the canonical workspace root.
func (e *Executor) Root() string { return e.root }

type listFilesRequest struct {
	Path  string `mapstructure:"path"`
	Limit int    `mapstructure:"limit"`
}

type readFileRequest struct {
	Path      string `mapstructure:"path"`
	StartLine int    `mapstructure:"start_line"`
	EndLine   int    `mapstructure:"end_line"`
}

type writeFileRequest struct {
	Path    string `mapstructure:"path"`
	Content string `mapstructure:"content"`
}

type runShellRequest struct {
	Command    string `mapstructure:"command"`
	TimeoutSec int    `mapstructure:"timeout_sec"`
}

// requiredArgs lists the argument keys each tool cannot run without.
// Presence is checked on the raw map: an explicit empty string still counts
// as provided.
var requiredArgs = map[string][]string{
	"list_files":  {},
	"read_file":   {"path"},
	"write_file":  {"path", "content"},
	"append_file": {"path", "content"},
	"run_shell":   {"command"},
}

// Execute maps a tool name plus argument map to one of the five
// operations. The returned string is always model-facing text; errors are
// reported inline, never raised.
func (e *Executor) Execute(ctx context.Context, tool string, args map[string]any) (result string) {
	defer func() {
		if r := recover(); r != nil {
			result = fmt.Sprintf("error: tool execution failed: %v", r)
		}
	}()

	required, known := requiredArgs[tool]
	if !known {
		return fmt.Sprintf("error: unknown tool %s", tool)
	}
	for _, key := range required {
		if _, ok := args[key]; !ok {
			return fmt.Sprintf("error: %s requires %s", tool, joinArgNames(required))
		}
	}

	switch tool {
	case "list_files":
		var req listFilesRequest
		if msg, ok := e.decode(args, &req); !ok {
			return msg
		}
		return e.ListFiles(req.Path, req.Limit)
	case "read_file":
		var req readFileRequest
		if msg, ok := e.decode(args, &req); !ok {
			return msg
		}
		return e.ReadFile(req.Path, req.StartLine, req.EndLine)
	case "write_file":
		var req writeFileRequest
		if msg, ok := e.decode(args, &req); !ok {
			return msg
		}
		return e.WriteFile(req.Path, req.Content)
	case "append_file":
		var req writeFileRequest
		if msg, ok := e.decode(args, &req); !ok {
			return msg
		}
		return e.AppendFile(req.Path, req.Content)
	case "run_shell":
		var req runShellRequest
		if msg, ok := e.decode(args, &req); !ok {
			return msg
		}
		return e.RunShell(ctx, req.Command, req.TimeoutSec)
	}
	return fmt.Sprintf("error: unknown tool %s", tool)
}

// decode maps loose JSON arguments onto a typed request. JSON numbers
// arrive as float64; mapstructure converts them to the int fields.
func (e *Executor) decode(args map[string]any, req any) (string, bool) {
	if err := mapstructure.Decode(args, req); err != nil {
		return fmt.Sprintf("error: tool execution failed: invalid arguments: %v", err), false
	}
	return "", true
}

// clip truncates tool output to the configured character budget. This
// bounds prompt growth turn over turn.
func (e *Executor) clip(text string) string {
	if len(text) <= e.outputCharLimit {
		return text
	}
	return text[:e.outputCharLimit] + "\n\n[output truncated]"
}

func joinArgNames(names []string) string {
	switch len(names) {
	case 1:
		return names[0]
	case 2:
		return names[0] + " and " + names[1]
	}
	out := ""
	for i, n := range names {
		if i > 0 {
			out += ", "
		}
		out += n
	}
	return out
}
