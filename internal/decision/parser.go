package decision

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

var fencedJSON = regexp.MustCompile("(?s)```(?:json)?\\s*(\\{.*?\\})\\s*```")

// completionMarkers are phrases that promote a bare thought to a final
// answer: models sometimes narrate completion without obeying the output
// schema.
var completionMarkers = []string{
	"task is complete",
	"task was completed",
	"now i should stop",
	"no further actions",
	"all done",
	"done",
	"finished",
}

// Parse extracts a Decision from raw generated text. It never fails: when
// no JSON object payload can be located or decoded, it returns the
// malformed-turn result (empty thought and actions, no final answer,
// RawText set to the original input) and leaves recovery to the loop.
func Parse(raw string) Decision {
	blob := extractJSONBlob(raw)
	if blob == "" {
		return Decision{RawText: raw}
	}

	var payload map[string]any
	if err := json.Unmarshal([]byte(blob), &payload); err != nil {
		return Decision{RawText: raw}
	}

	thought := StripReasoning(strings.TrimSpace(stringify(payload["thought"])))

	finalAnswer := ""
	if v, ok := payload["final_answer"]; ok && v != nil {
		finalAnswer = StripReasoning(strings.TrimSpace(stringify(v)))
	}

	var actions []ToolAction
	if items, ok := payload["actions"].([]any); ok {
		for _, item := range items {
			entry, ok := item.(map[string]any)
			if !ok {
				continue // silently drop non-object entries
			}
			tool := strings.TrimSpace(stringify(entry["tool"]))
			if tool == "" {
				continue
			}
			args, ok := entry["args"].(map[string]any)
			if !ok {
				args = map[string]any{}
			}
			actions = append(actions, ToolAction{Tool: tool, Args: args})
		}
	}

	if len(actions) == 0 && finalAnswer == "" && thought != "" {
		lowered := strings.ToLower(thought)
		for _, marker := range completionMarkers {
			if strings.Contains(lowered, marker) {
				finalAnswer = thought
				break
			}
		}
	}

	return Decision{
		RawText:     StripReasoning(raw),
		Thought:     thought,
		Actions:     actions,
		FinalAnswer: finalAnswer,
	}
}

// extractJSONBlob locates a JSON object payload in raw text. A fenced code
// block wins; otherwise every '{' position is tried with an incremental
// decode and the first one yielding an object-typed value is taken.
func extractJSONBlob(raw string) string {
	if m := fencedJSON.FindStringSubmatch(raw); m != nil {
		return m[1]
	}

	for i := 0; i < len(raw); i++ {
		if raw[i] != '{' {
			continue
		}
		dec := json.NewDecoder(strings.NewReader(raw[i:]))
		var value any
		if err := dec.Decode(&value); err != nil {
			continue
		}
		if _, ok := value.(map[string]any); !ok {
			continue
		}
		return raw[i : i+int(dec.InputOffset())]
	}
	return ""
}

// LooksLikePayload reports whether text resembles a (partial or fenced)
// structured decision payload. The loop's plain-prose fallback refuses such
// text: a broken payload should trigger a format retry, not become the
// final answer.
func LooksLikePayload(text string) bool {
	candidate := strings.TrimSpace(text)
	if candidate == "" {
		return false
	}
	if strings.HasPrefix(candidate, "```") {
		return true
	}
	if strings.HasPrefix(candidate, "{") && strings.HasSuffix(candidate, "}") {
		return true
	}
	lowered := strings.ToLower(candidate)
	return strings.Contains(lowered, `"actions"`) ||
		strings.Contains(lowered, `"final_answer"`) ||
		strings.Contains(lowered, `"thought"`)
}

// stringify renders a decoded JSON value the way the payload contract
// expects strings: nil becomes empty, strings pass through, anything else
// is formatted.
func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	default:
		return fmt.Sprintf("%v", t)
	}
}
