// Package stream defines the typed event envelope emitted by the analyzers
// and the post-processors that sit between the raw model stream and the
// client: source-tag extraction, paragraph grouping, and line scanning.
package stream

import (
	"context"
)

// EventType tags one entry of the analysis event stream.
type EventType string

const (
	EventThinkingStatus  EventType = "thinking_status"
	EventAnswer          EventType = "answer"
	EventSources         EventType = "sources"
	EventSourcesGrouped  EventType = "sources_grouped"
	EventRelatedQuestion EventType = "related_question"
	EventModelUsed       EventType = "model_used"
	EventAttachmentURL   EventType = "attachment_url"
	EventError           EventType = "error"
)

// Source is a single citation: a name plus an optional URL.
type Source struct {
	Name string `json:"name"`
	URL  string `json:"url,omitempty"`
}

// GroupedSource is a deduplicated citation annotated with the zero-based
// indices of the answer paragraphs it was cited in.
type GroupedSource struct {
	Name             string `json:"name"`
	URL              string `json:"url,omitempty"`
	ParagraphIndices []int  `json:"paragraph_indices"`
}

// GroupedSources is the body of a sources_grouped event.
type GroupedSources struct {
	Sources []GroupedSource `json:"sources"`
}

// Event is the uniform envelope consumed by the API layer. Body is a string
// for most types, []Source for sources, and GroupedSources for
// sources_grouped. Events must be processed in emission order; channel
// closure is the completion signal.
type Event struct {
	Type  EventType   `json:"type"`
	Body  interface{} `json:"body"`
	Title string      `json:"title,omitempty"` // attachment_url only
}

func ThinkingStatus(msg string) Event {
	return Event{Type: EventThinkingStatus, Body: msg}
}

func Answer(text string) Event {
	return Event{Type: EventAnswer, Body: text}
}

func Sources(srcs []Source) Event {
	return Event{Type: EventSources, Body: srcs}
}

func RelatedQuestion(q string) Event {
	return Event{Type: EventRelatedQuestion, Body: q}
}

func ModelUsed(model string) Event {
	return Event{Type: EventModelUsed, Body: model}
}

func AttachmentURL(url, title string) Event {
	return Event{Type: EventAttachmentURL, Body: url, Title: title}
}

func Error(msg string) Event {
	return Event{Type: EventError, Body: msg}
}

// Emit sends an event on ch unless the context is cancelled. It returns
// false when the consumer is gone, at which point producers should stop.
func Emit(ctx context.Context, ch chan<- Event, ev Event) bool {
	select {
	case ch <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}

// EmitAll sends a batch of events in order, stopping on cancellation.
func EmitAll(ctx context.Context, ch chan<- Event, evs []Event) bool {
	for _, ev := range evs {
		if !Emit(ctx, ch, ev) {
			return false
		}
	}
	return true
}
