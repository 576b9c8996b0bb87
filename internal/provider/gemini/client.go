package gemini

import (
	"context"

	"google.golang.org/genai"
)

// Client defines the slice of the Gemini SDK the provider uses. The
// abstraction keeps generation testable without network access.
type Client interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// SDKClient wraps the official SDK client to satisfy Client.
type SDKClient struct {
	client *genai.Client
}

// NewSDKClient creates an SDKClient from an SDK client.
func NewSDKClient(client *genai.Client) *SDKClient {
	return &SDKClient{client: client}
}

// GenerateContent calls the SDK's GenerateContent method.
func (c *SDKClient) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	return c.client.Models.GenerateContent(ctx, model, contents, config)
}
