package agent

import (
	"fmt"
	"strings"

	"taskagent/internal/toolbox"
)

const systemPrompt = `You are an autonomous agent.
You solve both coding and non-coding tasks by reasoning briefly, then using tools when needed.

Response format rules:
1) Always return valid JSON.
2) JSON schema:
{
  "thought": "short reasoning",
  "actions": [{"tool": "tool_name", "args": {...}}],
  "final_answer": null
}
3) Use either actions or final_answer each turn. Do not leave both empty.
4) If the user question can be answered directly, return a direct final_answer with no tool calls.
5) Use tools only when they improve accuracy or are required for workspace changes.
6) Do not refuse a request only because it is outside coding; give the best direct answer you can.
7) Respect workspace boundaries; do not reference files outside workspace.
8) Do not output chain-of-thought or <think> tags.
9) Do not wrap JSON in markdown fences.
`

const formatRetryPrompt = `Your previous response was invalid.
Return ONLY one valid JSON object with keys: thought, actions, final_answer.
- If work remains, set final_answer to null and include at least 1 action.
- If done, set actions to [] and provide final_answer.
- Never include <think> tags or markdown code fences.
- Do not repeat your prior response.
`

const ocrPrompt = "Convert this image to markdown."

const timeoutMessage = "Reached max steps without final answer. " +
	"Run again with a higher --max-steps or a narrower task."

// formatToolSpecs renders the tool catalog as one line per tool for the
// first user message.
func formatToolSpecs() string {
	var b strings.Builder
	for i, spec := range toolbox.Specs() {
		if i > 0 {
			b.WriteByte('\n')
		}
		args := make([]string, len(spec.Args))
		for j, arg := range spec.Args {
			args[j] = fmt.Sprintf("%s: %s", arg.Name, arg.Description)
		}
		fmt.Fprintf(&b, "- %s: %s args={%s}", spec.Name, spec.Description, strings.Join(args, ", "))
	}
	return b.String()
}

// buildFirstUserMessage frames the task for the model: the task text, the
// workspace root, the tool catalog, an initial file tree snapshot, and any
// carried-over session memory or OCR context.
func buildFirstUserMessage(task, workspace, snapshot, sessionMemory, ocrText string) string {
	memoryContext := ""
	if sessionMemory != "" {
		memoryContext = fmt.Sprintf("\n\nSESSION_MEMORY:\n%s\n", sessionMemory)
	}
	ocrContext := ""
	if ocrText != "" {
		ocrContext = fmt.Sprintf("\n\nOCR_CONTEXT:\n%s\n", ocrText)
	}

	return fmt.Sprintf(
		"TASK:\n%s\n\n"+
			"WORKSPACE_ROOT:\n%s\n\n"+
			"AVAILABLE_TOOLS:\n%s\n\n"+
			"INITIAL_FILE_TREE:\n%s"+
			"%s%s\n"+
			"The task may be coding or non-coding. "+
			"If tools are unnecessary, answer directly via final_answer.\n"+
			"Start now.",
		task, workspace, formatToolSpecs(), snapshot, memoryContext, ocrContext,
	)
}
