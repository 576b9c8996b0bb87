package agent

import "taskagent/internal/provider"

// Trim bounds the conversation fed back to the model to maxChars. The
// first two entries (system prompt, initial task framing) are always kept;
// the remainder is walked newest-first, keeping entries while the running
// total stays within budget. Older middle-of-conversation turns are
// dropped first, never the head and never the most recent turns.
func Trim(messages []provider.Message, maxChars int) []provider.Message {
	if len(messages) <= 2 {
		return messages
	}

	head := messages[:2]
	tail := messages[2:]

	total := 0
	for _, msg := range head {
		total += msg.Size()
	}

	kept := make([]provider.Message, 0, len(tail))
	for i := len(tail) - 1; i >= 0; i-- {
		size := tail[i].Size()
		if total+size > maxChars {
			break
		}
		kept = append(kept, tail[i])
		total += size
	}

	// kept was collected newest-first; restore chronological order.
	out := make([]provider.Message, 0, 2+len(kept))
	out = append(out, head...)
	for i := len(kept) - 1; i >= 0; i-- {
		out = append(out, kept[i])
	}
	return out
}
