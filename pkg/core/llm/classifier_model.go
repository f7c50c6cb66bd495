package llm

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiTextGenerator is the non-streaming Gemini client used by the
// classifiers. It holds a long-lived client instead of dialing per call
// because classification sits on the critical path of every request.
type GeminiTextGenerator struct {
	client *genai.Client
}

var _ TextGenerator = (*GeminiTextGenerator)(nil)

func NewGeminiTextGenerator(ctx context.Context) (*GeminiTextGenerator, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY environment variable not set")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %v", err)
	}
	return &GeminiTextGenerator{client: client}, nil
}

func (g *GeminiTextGenerator) GenerateText(ctx context.Context, model ModelName, prompt string) (string, error) {
	m := g.client.GenerativeModel(GeminiModelID(model))
	m.SetTemperature(0.1)

	resp, err := m.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini generation failed: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("gemini returned no candidates")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	return sb.String(), nil
}

// Close releases the underlying client connection.
func (g *GeminiTextGenerator) Close() error {
	return g.client.Close()
}
