package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskagent/internal/agent"
)

func newTestModel(t *testing.T) Model {
	t.Helper()
	m, err := NewModel(make(chan agent.Event))
	require.NoError(t, err)
	return m
}

func apply(m Model, event agent.Event) Model {
	updated, _ := m.Update(eventMsg(event))
	return updated.(Model)
}

func TestApplyEvent_StepAndTools(t *testing.T) {
	m := newTestModel(t)

	m = apply(m, agent.Event{Type: agent.EventRunStarted, RunID: "abcdef123456", Data: map[string]any{"step_limit": 10}})
	m = apply(m, agent.Event{Type: agent.EventStepDecision, Step: 1, Data: map[string]any{"thought": "inspect the tree"}})
	m = apply(m, agent.Event{Type: agent.EventToolStarted, Step: 1, Data: map[string]any{"tool": "list_files"}})
	m = apply(m, agent.Event{Type: agent.EventToolResult, Step: 1, Data: map[string]any{"tool": "list_files", "output": "main.go\npkg/"}})

	view := m.View()
	assert.Contains(t, view, "run abcdef12 started")
	assert.Contains(t, view, "step 1: inspect the tree")
	assert.Contains(t, view, "list_files")
	assert.Contains(t, view, "main.go")
	assert.NotContains(t, view, "pkg/") // only the first output line is shown
}

func TestApplyEvent_ProgressUpdatesStatusLine(t *testing.T) {
	m := newTestModel(t)
	m = apply(m, agent.Event{Type: agent.EventProgress, Step: 3, Data: map[string]any{
		"progress_pct": 30,
		"pattern":      "analysis",
	}})

	view := m.View()
	assert.Contains(t, view, "analysis")
	assert.Contains(t, view, "30%")
}

func TestStreamClosedRendersAnswer(t *testing.T) {
	m := newTestModel(t)
	m = apply(m, agent.Event{Type: agent.EventRunCompleted, Step: 2, Data: map[string]any{
		"final_answer": "# Done\n\nAll files updated.",
	}})

	updated, cmd := m.Update(streamClosedMsg{})
	m = updated.(Model)
	require.NotNil(t, cmd) // tea.Quit

	view := m.View()
	assert.Contains(t, view, "Done")
	assert.Contains(t, view, "All files updated.")
}

func TestTimeoutShowsWarning(t *testing.T) {
	m := newTestModel(t)
	m = apply(m, agent.Event{Type: agent.EventRunTimeout, Data: map[string]any{
		"message": "Reached max steps without final answer.",
	}})

	assert.Contains(t, m.View(), "step budget")
}

func TestQuitKey(t *testing.T) {
	m := newTestModel(t)
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.Contains(t, updated.(Model).View(), "aborted")
}

func TestScrollbackIsBounded(t *testing.T) {
	m := newTestModel(t)
	for i := 0; i < maxVisibleLines+20; i++ {
		m = apply(m, agent.Event{Type: agent.EventStepDecision, Step: i, Data: map[string]any{"thought": "x"}})
	}
	assert.Len(t, m.lines, maxVisibleLines)
}
