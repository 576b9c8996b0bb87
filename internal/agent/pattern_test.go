package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"taskagent/internal/decision"
)

func TestClassifyPattern(t *testing.T) {
	actions := func(tools ...string) []decision.ToolAction {
		out := make([]decision.ToolAction, len(tools))
		for i, tool := range tools {
			out[i] = decision.ToolAction{Tool: tool}
		}
		return out
	}

	tests := []struct {
		name string
		d    decision.Decision
		step int
		want string
	}{
		{"final answer wins", decision.Decision{FinalAnswer: "done", Actions: actions("run_shell")}, 5, "wrap_up"},
		{"no actions", decision.Decision{}, 3, "reasoning"},
		{"write is editing", decision.Decision{Actions: actions("read_file", "write_file")}, 4, "editing"},
		{"append is editing", decision.Decision{Actions: actions("append_file")}, 4, "editing"},
		{"shell is verification", decision.Decision{Actions: actions("run_shell", "read_file")}, 4, "verification"},
		{"early reads are discovery", decision.Decision{Actions: actions("list_files")}, 2, "discovery"},
		{"late reads are analysis", decision.Decision{Actions: actions("read_file")}, 3, "analysis"},
		{"unknown tool is execution", decision.Decision{Actions: actions("mystery")}, 4, "execution"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, classifyPattern(tt.d, tt.step))
		})
	}
}
