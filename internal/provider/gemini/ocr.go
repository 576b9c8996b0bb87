package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"google.golang.org/genai"
)

// OCRProvider implements provider.OCR by sending the image inline to a
// vision-capable Gemini model.
type OCRProvider struct {
	client    Client
	modelName string
}

// NewOCRProvider creates an OCRProvider for the given model.
func NewOCRProvider(client Client, modelName string) *OCRProvider {
	return &OCRProvider{client: client, modelName: modelName}
}

// Extract runs OCR over the image at imagePath with the given prompt and
// returns the extracted text.
func (p *OCRProvider) Extract(ctx context.Context, imagePath string, prompt string) (string, error) {
	data, err := os.ReadFile(imagePath)
	if err != nil {
		return "", fmt.Errorf("failed to read image: %w", err)
	}

	mimeType := mime.TypeByExtension(filepath.Ext(imagePath))
	if mimeType == "" {
		mimeType = "image/png"
	}

	contents := []*genai.Content{
		{
			Role: "user",
			Parts: []*genai.Part{
				{InlineData: &genai.Blob{MIMEType: mimeType, Data: data}},
				genai.NewPartFromText(prompt),
			},
		},
	}

	resp, err := p.client.GenerateContent(ctx, p.modelName, contents, &genai.GenerateContentConfig{})
	if err != nil {
		return "", fmt.Errorf("gemini ocr: %w", err)
	}
	text, err := responseText(resp)
	if err != nil {
		return "", err
	}
	return text, nil
}

// NormalizeResult flattens a structured OCR result to plain text: strings
// pass through, maps are probed for well-known payload keys before falling
// back to full serialization, and lists are joined line by line.
func NormalizeResult(result any) string {
	switch v := result.(type) {
	case string:
		return strings.TrimSpace(v)
	case map[string]any:
		for _, key := range []string{"result", "text", "markdown", "output", "content", "prediction"} {
			if val, ok := v[key]; ok {
				return strings.TrimSpace(fmt.Sprintf("%v", val))
			}
		}
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(data)
	case []any:
		parts := make([]string, len(v))
		for i, item := range v {
			parts[i] = fmt.Sprintf("%v", item)
		}
		return strings.TrimSpace(strings.Join(parts, "\n"))
	default:
		return strings.TrimSpace(fmt.Sprintf("%v", v))
	}
}
