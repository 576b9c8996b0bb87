package agent

// EventType labels a lifecycle notification emitted during a run.
type EventType string

const (
	EventRunStarted   EventType = "run_started"
	EventStepDecision EventType = "step_decision"
	EventProgress     EventType = "progress_update"
	EventToolStarted  EventType = "tool_started"
	EventToolResult   EventType = "tool_result"
	EventFormatRetry  EventType = "format_retry"
	EventRunCompleted EventType = "run_completed"
	EventRunTimeout   EventType = "run_timeout"
	EventRunError     EventType = "run_error"
)

// Event is one structured lifecycle notification. Step is zero for events
// outside the turn loop.
type Event struct {
	Type  EventType
	RunID string
	Step  int
	Data  map[string]any
}

// Observer receives events fire-and-forget. It runs synchronously on the
// loop goroutine, so it should return quickly.
type Observer func(Event)

// emit dispatches an event to the observer, if any. Observer panics are
// swallowed: a failing observer must never affect loop control flow.
func (a *Agent) emit(event Event) {
	if a.observer == nil {
		return
	}
	defer func() { _ = recover() }()
	a.observer(event)
}
