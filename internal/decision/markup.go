package decision

import "strings"

const (
	thinkOpen  = "<think>"
	thinkClose = "</think>"
)

// StripReasoning removes <think>...</think> blocks, case-insensitively.
// An open tag with no matching close truncates the text from the open tag
// onward: models sometimes emit an open tag and never close it, so paired
// removal alone is not enough.
func StripReasoning(text string) string {
	for {
		lower := strings.ToLower(text)
		start := strings.Index(lower, thinkOpen)
		if start == -1 {
			break
		}
		end := strings.Index(lower[start+len(thinkOpen):], thinkClose)
		if end == -1 {
			text = strings.TrimSpace(text[:start])
			break
		}
		end += start + len(thinkOpen)
		text = strings.TrimSpace(text[:start] + text[end+len(thinkClose):])
	}
	return strings.TrimSpace(text)
}
