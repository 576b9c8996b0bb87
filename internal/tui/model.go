// Package tui renders a live view of one agent run: a spinner while the
// model thinks, one line per lifecycle event, and the final answer rendered
// as markdown when the run ends.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"taskagent/internal/agent"
)

// maxVisibleLines bounds the scrollback kept on screen.
const maxVisibleLines = 30

type eventMsg agent.Event

// streamClosedMsg signals that the run finished and the event channel was
// closed by the producer.
type streamClosedMsg struct{}

// Model is the Bubble Tea model for one run.
type Model struct {
	spinner  spinner.Model
	events   <-chan agent.Event
	renderer *glamour.TermRenderer

	lines       []string
	progressPct int
	pattern     string
	answer      string
	finished    bool
	quitting    bool
}

// NewModel creates a Model reading from events. The channel must be closed
// once the run returns.
func NewModel(events <-chan agent.Event) (Model, error) {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return Model{}, fmt.Errorf("failed to create markdown renderer: %w", err)
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = stepStyle

	return Model{
		spinner:  sp,
		events:   events,
		renderer: renderer,
	}, nil
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, waitForEvent(m.events))
}

func waitForEvent(events <-chan agent.Event) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-events
		if !ok {
			return streamClosedMsg{}
		}
		return eventMsg(event)
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case eventMsg:
		m = m.applyEvent(agent.Event(msg))
		return m, waitForEvent(m.events)

	case streamClosedMsg:
		m.finished = true
		return m, tea.Quit
	}
	return m, nil
}

// applyEvent folds one lifecycle event into the view state.
func (m Model) applyEvent(event agent.Event) Model {
	switch event.Type {
	case agent.EventRunStarted:
		m.lines = append(m.lines, headerStyle.Render(fmt.Sprintf(
			"run %s started (step limit %v)", shortID(event.RunID), event.Data["step_limit"],
		)))
	case agent.EventStepDecision:
		thought, _ := event.Data["thought"].(string)
		line := fmt.Sprintf("step %d", event.Step)
		if thought != "" {
			line += ": " + truncate(thought, 80)
		}
		m.lines = append(m.lines, stepStyle.Render(line))
	case agent.EventProgress:
		if pct, ok := event.Data["progress_pct"].(int); ok {
			m.progressPct = pct
		}
		if pattern, ok := event.Data["pattern"].(string); ok {
			m.pattern = pattern
		}
	case agent.EventToolStarted:
		tool, _ := event.Data["tool"].(string)
		m.lines = append(m.lines, toolStyle.Render("  → "+tool))
	case agent.EventToolResult:
		tool, _ := event.Data["tool"].(string)
		output, _ := event.Data["output"].(string)
		line := fmt.Sprintf("  ✔ %s", tool)
		if first := firstLine(output); first != "" {
			line += dimStyle.Render("  " + truncate(first, 60))
		}
		m.lines = append(m.lines, okStyle.Render(line))
	case agent.EventFormatRetry:
		m.lines = append(m.lines, warnStyle.Render("  ! invalid response, retrying"))
	case agent.EventRunCompleted:
		m.answer, _ = event.Data["final_answer"].(string)
	case agent.EventRunTimeout:
		m.answer, _ = event.Data["message"].(string)
		m.lines = append(m.lines, warnStyle.Render("run hit its step budget"))
	case agent.EventRunError:
		errText, _ := event.Data["error"].(string)
		m.lines = append(m.lines, warnStyle.Render("error: "+errText))
	}

	if len(m.lines) > maxVisibleLines {
		m.lines = m.lines[len(m.lines)-maxVisibleLines:]
	}
	return m
}

func (m Model) View() string {
	var b strings.Builder
	for _, line := range m.lines {
		b.WriteString(line)
		b.WriteByte('\n')
	}

	switch {
	case m.quitting:
		b.WriteString(dimStyle.Render("aborted") + "\n")
	case m.finished:
		b.WriteString(m.renderAnswer())
	default:
		status := m.spinner.View() + " working"
		if m.pattern != "" {
			status += dimStyle.Render(fmt.Sprintf("  %s · %d%%", m.pattern, m.progressPct))
		}
		b.WriteString(status + "\n")
	}
	return b.String()
}

// renderAnswer renders the final answer as markdown, falling back to the
// raw text when rendering fails.
func (m Model) renderAnswer() string {
	if m.answer == "" {
		return ""
	}
	out, err := m.renderer.Render(m.answer)
	if err != nil {
		return m.answer + "\n"
	}
	return out
}

// Run displays the run view until the event channel closes or the user
// quits.
func Run(events <-chan agent.Event) error {
	model, err := NewModel(events)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(model).Run()
	return err
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func truncate(s string, max int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if len(s) <= max {
		return s
	}
	return s[:max] + "…"
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
