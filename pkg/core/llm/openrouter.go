package llm

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
)

// OpenRouterProvider streams completions through the OpenRouter gateway.
// Web search is requested with the ":online" model variant plus the web
// plugin; search results come back as url_citation annotations interleaved
// with the text deltas.
type OpenRouterProvider struct{}

var _ StreamProvider = (*OpenRouterProvider)(nil)

type openRouterMessage struct {
	Content string `json:"content"`
	Role    string `json:"role"`
}

type openRouterPlugin struct {
	ID         string `json:"id"`
	MaxResults int    `json:"max_results,omitempty"`
}

type openRouterRequest struct {
	Messages    []openRouterMessage `json:"messages"`
	Model       string              `json:"model"`
	MaxTokens   int                 `json:"max_tokens"`
	Stream      bool                `json:"stream"`
	Temperature float64             `json:"temperature"`
	Plugins     []openRouterPlugin  `json:"plugins,omitempty"`
}

type openRouterStreamChunk struct {
	Choices []struct {
		Delta struct {
			Content     string `json:"content"`
			Annotations []struct {
				Type        string `json:"type"`
				URLCitation struct {
					URL   string `json:"url"`
					Title string `json:"title"`
				} `json:"url_citation"`
			} `json:"annotations"`
		} `json:"delta"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// searchVariant rewrites a model ID to its web-search form. The ":nitro"
// latency variant cannot be combined with ":online", so it is dropped first.
func searchVariant(modelID string) string {
	modelID = strings.TrimSuffix(modelID, ":nitro")
	return modelID + ":online"
}

func (p *OpenRouterProvider) StreamGenerate(ctx context.Context, req StreamRequest) (<-chan Chunk, error) {
	apiKey := os.Getenv("OPENROUTER_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("OPENROUTER_API_KEY_MISSING: Please set OPENROUTER_API_KEY env var")
	}

	modelID := OpenRouterModelID(req.Model)
	body := openRouterRequest{
		Messages: []openRouterMessage{
			{Content: req.SystemPrompt, Role: "system"},
			{Content: req.Prompt, Role: "user"},
		},
		Model:       modelID,
		MaxTokens:   4096,
		Stream:      true,
		Temperature: 0.3,
	}
	if req.EnableSearch {
		body.Model = searchVariant(modelID)
		body.Plugins = []openRouterPlugin{{ID: "web", MaxResults: 3}}
	}

	jsonBytes, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("OPENROUTER_MARSHAL_ERROR: %v", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", "https://openrouter.ai/api/v1/chat/completions", bytes.NewBuffer(jsonBytes))
	if err != nil {
		return nil, fmt.Errorf("OPENROUTER_REQ_CREATE_ERROR: %v", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "text/event-stream")
	httpReq.Header.Set("Authorization", "Bearer "+apiKey)

	res, err := http.DefaultClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("OPENROUTER_API_CALL_ERROR: %v", err)
	}
	if res.StatusCode != 200 {
		defer res.Body.Close()
		raw, _ := io.ReadAll(res.Body)
		return nil, fmt.Errorf("OPENROUTER_API_ERROR: status=%d body=%s", res.StatusCode, string(raw))
	}

	out := make(chan Chunk)
	go func() {
		defer close(out)
		defer res.Body.Close()
		p.readStream(ctx, res.Body, out)
	}()
	return out, nil
}

func (p *OpenRouterProvider) readStream(ctx context.Context, body io.Reader, out chan<- Chunk) {
	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, "data: ") {
			continue
		}
		payload := strings.TrimPrefix(line, "data: ")
		if payload == "[DONE]" {
			return
		}

		var chunk openRouterStreamChunk
		if err := json.Unmarshal([]byte(payload), &chunk); err != nil {
			// Keep-alive comments and partial frames are not fatal.
			continue
		}
		if chunk.Error != nil {
			p.send(ctx, out, Chunk{Err: fmt.Errorf("OPENROUTER_STREAM_ERROR: %s", chunk.Error.Message)})
			return
		}
		for _, choice := range chunk.Choices {
			if choice.Delta.Content != "" {
				if !p.send(ctx, out, Chunk{Text: choice.Delta.Content}) {
					return
				}
			}
			for _, ann := range choice.Delta.Annotations {
				if ann.Type != "url_citation" {
					continue
				}
				cit := &Citation{URL: ann.URLCitation.URL, Title: ann.URLCitation.Title}
				if !p.send(ctx, out, Chunk{Citation: cit}) {
					return
				}
			}
		}
	}
	if err := scanner.Err(); err != nil {
		p.send(ctx, out, Chunk{Err: fmt.Errorf("OPENROUTER_READ_BODY_ERROR: %v", err)})
	}
}

func (p *OpenRouterProvider) send(ctx context.Context, out chan<- Chunk, c Chunk) bool {
	select {
	case out <- c:
		return true
	case <-ctx.Done():
		return false
	}
}
