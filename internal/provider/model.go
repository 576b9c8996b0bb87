// Package provider defines the external collaborator contracts the agent
// loop depends on: a generative model that continues a conversation, and
// an OCR model that extracts text from images.
package provider

import "context"

// Role identifies who authored a conversation entry.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one conversation entry.
type Message struct {
	Role    Role
	Content string
}

// Size returns the character length of the entry's content; the context
// trimmer budgets in characters.
func (m Message) Size() int { return len(m.Content) }

// Provider generates the next assistant turn for an ordered conversation.
// It may be slow; one call is in flight per run. Failures propagate to the
// caller of the loop as fatal.
type Provider interface {
	Generate(ctx context.Context, messages []Message) (string, error)
	Model() string
}

// OCR extracts text from an image file. A missing image file is a fatal
// precondition checked before the run starts, not an OCR failure.
type OCR interface {
	Extract(ctx context.Context, imagePath string, prompt string) (string, error)
}
