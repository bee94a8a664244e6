package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// modelsToTry is the fallback chain: fastest and cheapest first, older but
// reliable last. A quota error on one model should not kill the turn.
var modelsToTry = []string{
	"gemini-2.5-flash",
	"gemini-2.5-flash-lite",
	"gemini-1.5-flash",
}

// GeminiGenerator implements Generator using Google's Gemini models.
type GeminiGenerator struct {
	client *genai.Client
}

// NewGeminiGenerator initializes a new Gemini client.
// apiKey should come from environment variables.
func NewGeminiGenerator(ctx context.Context, apiKey string) (*GeminiGenerator, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &GeminiGenerator{client: client}, nil
}

// Close cleans up the Gemini client resources.
func (g *GeminiGenerator) Close() {
	g.client.Close()
}

// Generate walks the model chain until one answers with non-empty text.
func (g *GeminiGenerator) Generate(ctx context.Context, system string, history []Turn, userMessage string) (string, error) {
	var lastErr error

	for _, name := range modelsToTry {
		model := g.client.GenerativeModel(name)

		// Force JSON for structured parsing; low temperature keeps the
		// action field stable across rephrasings.
		model.ResponseMIMEType = "application/json"
		model.SetTemperature(0.3)
		model.SystemInstruction = &genai.Content{
			Parts: []genai.Part{genai.Text(system)},
		}

		cs := model.StartChat()
		cs.History = toGenaiHistory(history)

		resp, err := cs.SendMessage(ctx, genai.Text(userMessage))
		if err != nil {
			lastErr = fmt.Errorf("%s: %w", name, err)
			continue
		}
		if text := extractText(resp); text != "" {
			return text, nil
		}
		lastErr = fmt.Errorf("%s: empty response", name)
	}
	return "", fmt.Errorf("all models failed: %w", lastErr)
}

func toGenaiHistory(history []Turn) []*genai.Content {
	out := make([]*genai.Content, 0, len(history))
	for _, t := range history {
		role := t.Role
		if role != "model" {
			role = "user"
		}
		out = append(out, &genai.Content{
			Role:  role,
			Parts: []genai.Part{genai.Text(t.Text)},
		})
	}
	return out
}

func extractText(resp *genai.GenerateContentResponse) string {
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			b.WriteString(string(txt))
		}
	}
	return b.String()
}
