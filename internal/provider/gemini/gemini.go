// Package gemini implements the model and OCR collaborator contracts on
// top of the Gemini API.
package gemini

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"taskagent/internal/provider"
)

// TextProvider implements provider.Provider. The system message is carried
// as a system instruction; the remaining conversation maps onto Gemini's
// user/model turns.
type TextProvider struct {
	client    Client
	modelName string
}

// NewTextProvider creates a TextProvider for the given model.
func NewTextProvider(client Client, modelName string) *TextProvider {
	return &TextProvider{client: client, modelName: modelName}
}

// Model returns the active model name.
func (p *TextProvider) Model() string { return p.modelName }

// Generate sends the conversation to the Gemini API and returns the raw
// generated text for the next assistant turn.
func (p *TextProvider) Generate(ctx context.Context, messages []provider.Message) (string, error) {
	config := &genai.GenerateContentConfig{}
	contents := make([]*genai.Content, 0, len(messages))

	for _, msg := range messages {
		if msg.Content == "" {
			continue
		}
		switch msg.Role {
		case provider.RoleSystem:
			config.SystemInstruction = &genai.Content{
				Parts: []*genai.Part{genai.NewPartFromText(msg.Content)},
			}
		case provider.RoleAssistant:
			contents = append(contents, &genai.Content{
				Role:  "model",
				Parts: []*genai.Part{genai.NewPartFromText(msg.Content)},
			})
		default:
			contents = append(contents, &genai.Content{
				Role:  "user",
				Parts: []*genai.Part{genai.NewPartFromText(msg.Content)},
			})
		}
	}

	resp, err := p.client.GenerateContent(ctx, p.modelName, contents, config)
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	return responseText(resp)
}

// responseText flattens the first candidate's text parts.
func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("gemini returned no candidates")
	}
	candidate := resp.Candidates[0]
	if candidate.Content == nil {
		return "", fmt.Errorf("gemini returned an empty candidate")
	}

	var b strings.Builder
	for _, part := range candidate.Content.Parts {
		if part.Text != "" {
			b.WriteString(part.Text)
		}
	}
	return strings.TrimSpace(b.String()), nil
}
