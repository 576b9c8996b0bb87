package agent

import "taskagent/internal/decision"

// classifyPattern labels the shape of a turn for observability. Purely
// descriptive; nothing in the loop branches on it.
func classifyPattern(d decision.Decision, step int) string {
	if d.FinalAnswer != "" {
		return "wrap_up"
	}
	if len(d.Actions) == 0 {
		return "reasoning"
	}

	tools := make(map[string]bool, len(d.Actions))
	for _, action := range d.Actions {
		tools[action.Tool] = true
	}

	switch {
	case tools["write_file"] || tools["append_file"]:
		return "editing"
	case tools["run_shell"]:
		return "verification"
	case tools["read_file"] || tools["list_files"]:
		if step <= 2 {
			return "discovery"
		}
		return "analysis"
	default:
		return "execution"
	}
}
