// Package agent drives the decision loop: the model proposes JSON-encoded
// tool actions, the toolbox executes them inside the workspace, and the
// results are fed back until the model returns a final answer or the step
// budget runs out.
package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"

	"taskagent/internal/config"
	"taskagent/internal/decision"
	"taskagent/internal/provider"
	"taskagent/internal/toolbox"
)

// Agent runs tasks against one workspace with one model backend.
type Agent struct {
	cfg      *config.Config
	provider provider.Provider
	tools    *toolbox.Executor
	ocr      provider.OCR
	logger   *slog.Logger
	observer Observer
}

// Option configures optional Agent collaborators.
type Option func(*Agent)

// WithOCR attaches an OCR backend for image-grounded tasks.
func WithOCR(ocr provider.OCR) Option {
	return func(a *Agent) { a.ocr = ocr }
}

// WithObserver attaches a lifecycle event observer.
func WithObserver(observer Observer) Option {
	return func(a *Agent) { a.observer = observer }
}

// WithLogger overrides the default slog logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Agent) { a.logger = logger }
}

// New creates an Agent. tools must be confined to the workspace the run
// should operate on.
func New(cfg *config.Config, p provider.Provider, tools *toolbox.Executor, opts ...Option) *Agent {
	a := &Agent{
		cfg:      cfg,
		provider: p,
		tools:    tools,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// RunParams holds per-run inputs.
type RunParams struct {
	Task          string
	ImagePath     string // optional image to OCR into the first message
	SessionMemory string // optional carried-over notes
	MaxSteps      int    // overrides the configured step budget when > 0
}

// Run executes the decision loop for one task. The returned string is the
// model's final answer, a plain-prose fallback, or the fixed timeout
// message; an error is returned only for fatal conditions (missing image,
// model backend failure).
func (a *Agent) Run(ctx context.Context, params RunParams) (string, error) {
	stepLimit := params.MaxSteps
	if stepLimit <= 0 {
		stepLimit = a.cfg.Agent.MaxSteps
	}
	runID := uuid.NewString()

	ocrText, err := a.extractImageContext(ctx, params.ImagePath)
	if err != nil {
		a.emit(Event{Type: EventRunError, RunID: runID, Data: map[string]any{"error": err.Error()}})
		return "", err
	}

	messages := []provider.Message{
		{Role: provider.RoleSystem, Content: systemPrompt},
		{Role: provider.RoleUser, Content: buildFirstUserMessage(
			params.Task,
			a.tools.Root(),
			a.tools.ListFiles(".", a.cfg.Agent.SnapshotLimit),
			params.SessionMemory,
			ocrText,
		)},
	}

	a.logger.Info("run started",
		"run_id", runID,
		"step_limit", stepLimit,
		"workspace", a.tools.Root(),
		"model", a.provider.Model(),
	)
	a.emit(Event{Type: EventRunStarted, RunID: runID, Data: map[string]any{
		"task":               params.Task,
		"step_limit":         stepLimit,
		"workspace":          a.tools.Root(),
		"image_path":         params.ImagePath,
		"has_session_memory": params.SessionMemory != "",
		"model":              a.provider.Model(),
	}})

	toolsExecuted := 0
	for step := 1; step <= stepLimit; step++ {
		messages = Trim(messages, a.cfg.Agent.TrimBudgetChars)

		raw, err := a.provider.Generate(ctx, messages)
		if err != nil {
			a.logger.Error("model generation failed", "run_id", runID, "step", step, "error", err)
			a.emit(Event{Type: EventRunError, RunID: runID, Step: step, Data: map[string]any{"error": err.Error()}})
			return "", fmt.Errorf("model generation failed: %w", err)
		}

		d := decision.Parse(raw)
		a.logger.Debug("step decision",
			"run_id", runID,
			"step", step,
			"thought", d.Thought,
			"action_count", len(d.Actions),
			"has_final_answer", d.FinalAnswer != "",
		)
		a.emit(Event{Type: EventStepDecision, RunID: runID, Step: step, Data: map[string]any{
			"thought":      d.Thought,
			"actions":      actionSummaries(d.Actions),
			"final_answer": d.FinalAnswer,
		}})

		pattern := classifyPattern(d, step)
		a.emit(Event{Type: EventProgress, RunID: runID, Step: step, Data: map[string]any{
			"step_limit":     stepLimit,
			"progress_pct":   step * 100 / stepLimit,
			"pattern":        pattern,
			"tools_executed": toolsExecuted,
		}})

		if d.FinalAnswer != "" && len(d.Actions) == 0 {
			if cleaned := decision.StripReasoning(d.FinalAnswer); cleaned != "" {
				a.logger.Info("run completed", "run_id", runID, "step", step)
				a.emit(Event{Type: EventRunCompleted, RunID: runID, Step: step, Data: map[string]any{"final_answer": cleaned}})
				return cleaned, nil
			}
		}

		if d.IsMalformed() {
			if fallback, ok := a.prosefallback(d.RawText, toolsExecuted); ok {
				a.logger.Info("run completed via plain-prose fallback", "run_id", runID, "step", step)
				a.emit(Event{Type: EventRunCompleted, RunID: runID, Step: step, Data: map[string]any{"final_answer": fallback}})
				return fallback, nil
			}
			a.logger.Warn("format error: no actions or final answer, retrying", "run_id", runID, "step", step)
			a.emit(Event{Type: EventFormatRetry, RunID: runID, Step: step})
			messages = append(messages, provider.Message{Role: provider.RoleUser, Content: formatRetryPrompt})
			continue
		}

		messages = append(messages, provider.Message{Role: provider.RoleAssistant, Content: d.RawText})

		for _, action := range d.Actions {
			a.emit(Event{Type: EventToolStarted, RunID: runID, Step: step, Data: map[string]any{
				"tool": action.Tool,
				"args": action.Args,
			}})
			output := a.tools.Execute(ctx, action.Tool, action.Args)
			toolsExecuted++
			a.logger.Debug("tool executed", "run_id", runID, "step", step, "tool", action.Tool, "output_chars", len(output))
			a.emit(Event{Type: EventToolResult, RunID: runID, Step: step, Data: map[string]any{
				"tool":   action.Tool,
				"args":   action.Args,
				"output": output,
			}})
			messages = append(messages, provider.Message{
				Role:    provider.RoleUser,
				Content: toolFeedback(action, output),
			})
		}

		if d.FinalAnswer != "" {
			if cleaned := decision.StripReasoning(d.FinalAnswer); cleaned != "" {
				a.logger.Info("run completed", "run_id", runID, "step", step)
				a.emit(Event{Type: EventRunCompleted, RunID: runID, Step: step, Data: map[string]any{"final_answer": cleaned}})
				return cleaned, nil
			}
		}
	}

	a.logger.Warn("run hit step budget", "run_id", runID, "step_limit", stepLimit)
	a.emit(Event{Type: EventRunTimeout, RunID: runID, Data: map[string]any{"message": timeoutMessage}})
	return timeoutMessage, nil
}

// prosefallback decides whether malformed raw text should be accepted as
// the final answer. Only plausible after at least one tool ran, and only
// when the text neither mentions a tool nor resembles a broken structured
// payload; anything else goes to a format retry instead.
func (a *Agent) prosefallback(raw string, toolsExecuted int) (string, bool) {
	fallback := decision.StripReasoning(raw)
	if toolsExecuted == 0 || fallback == "" {
		return "", false
	}
	for _, name := range toolbox.Names() {
		if strings.Contains(fallback, name) {
			return "", false
		}
	}
	if decision.LooksLikePayload(fallback) {
		return "", false
	}
	return fallback, true
}

// extractImageContext runs OCR over the task image, if any. A missing
// image file is a fatal precondition.
func (a *Agent) extractImageContext(ctx context.Context, imagePath string) (string, error) {
	if imagePath == "" || a.ocr == nil {
		return "", nil
	}
	if _, err := os.Stat(imagePath); err != nil {
		return "", fmt.Errorf("image file not found: %s", imagePath)
	}
	text, err := a.ocr.Extract(ctx, imagePath, ocrPrompt)
	if err != nil {
		return "", fmt.Errorf("ocr failed: %w", err)
	}
	return text, nil
}

// toolFeedback renders one tool execution as the user message fed back to
// the model.
func toolFeedback(action decision.ToolAction, output string) string {
	args, err := json.Marshal(action.Args)
	if err != nil {
		args = []byte(fmt.Sprintf("%v", action.Args))
	}
	return fmt.Sprintf("TOOL_RESULT\ntool=%s\nargs=%s\noutput:\n%s", action.Tool, args, output)
}

func actionSummaries(actions []decision.ToolAction) []map[string]any {
	out := make([]map[string]any, len(actions))
	for i, action := range actions {
		out[i] = map[string]any{"tool": action.Tool, "args": action.Args}
	}
	return out
}
