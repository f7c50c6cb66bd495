// Package llm holds the model providers: a streaming interface used by the
// answer path and a plain text-in/text-out interface used by the
// classifiers, plus the role-based router that picks between them.
package llm

import (
	"context"
)

// Citation is an out-of-band web citation attached to a stream, as produced
// by search grounding or OpenRouter url_citation annotations.
type Citation struct {
	URL   string
	Title string
}

// Chunk is one increment of a streamed generation. Exactly one of Text,
// Citation, or Err is set. A chunk with Err set is the last one; otherwise
// channel closure signals normal completion.
type Chunk struct {
	Text     string
	Citation *Citation
	Err      error
}

// StreamRequest describes one streaming generation.
type StreamRequest struct {
	Model        ModelName
	Prompt       string
	SystemPrompt string
	EnableSearch bool // web search grounding for the citation path
}

// StreamProvider produces a live token stream. Implementations must close
// the returned channel and must respect ctx cancellation.
type StreamProvider interface {
	StreamGenerate(ctx context.Context, req StreamRequest) (<-chan Chunk, error)
}

// TextGenerator is the non-streaming call used by the classifiers, where a
// single small completion is needed and latency matters more than tokens.
type TextGenerator interface {
	GenerateText(ctx context.Context, model ModelName, prompt string) (string, error)
}
