package llm

import (
	"context"
	"fmt"
	"os"

	"google.golang.org/genai"
)

// GeminiStreamProvider streams completions from the Gemini API using the
// official GenAI SDK, surfacing search-grounding chunks as citations.
type GeminiStreamProvider struct{}

var _ StreamProvider = (*GeminiStreamProvider)(nil)

func (p *GeminiStreamProvider) StreamGenerate(ctx context.Context, req StreamRequest) (<-chan Chunk, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY environment variable not set")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(0.3)),
	}
	if req.SystemPrompt != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: req.SystemPrompt}},
		}
	}
	if req.EnableSearch {
		config.Tools = []*genai.Tool{
			{GoogleSearch: &genai.GoogleSearch{}},
		}
	}

	out := make(chan Chunk)
	go func() {
		defer close(out)
		// Grounding metadata repeats across responses; emit each URI once.
		emitted := make(map[string]bool)

		for resp, err := range client.Models.GenerateContentStream(ctx, GeminiModelID(req.Model), genai.Text(req.Prompt), config) {
			if err != nil {
				p.send(ctx, out, Chunk{Err: fmt.Errorf("gemini stream failed: %w", err)})
				return
			}
			if text := resp.Text(); text != "" {
				if !p.send(ctx, out, Chunk{Text: text}) {
					return
				}
			}
			for _, cand := range resp.Candidates {
				if cand.GroundingMetadata == nil {
					continue
				}
				for _, gc := range cand.GroundingMetadata.GroundingChunks {
					if gc.Web == nil || emitted[gc.Web.URI] {
						continue
					}
					emitted[gc.Web.URI] = true
					cit := &Citation{URL: gc.Web.URI, Title: gc.Web.Title}
					if !p.send(ctx, out, Chunk{Citation: cit}) {
						return
					}
				}
			}
		}
	}()
	return out, nil
}

func (p *GeminiStreamProvider) send(ctx context.Context, out chan<- Chunk, c Chunk) bool {
	select {
	case out <- c:
		return true
	case <-ctx.Done():
		return false
	}
}
