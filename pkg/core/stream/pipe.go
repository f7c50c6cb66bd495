package stream

import (
	"context"
	"log"

	"finsight/pkg/core/llm"
)

// PipeModelStream drives one model chunk stream through the citation
// post-processor and paragraph collector, emitting cleaned answer, sources,
// and sources_grouped events followed by model_used. Returns false when the
// consumer went away or the stream ended in an error event.
func PipeModelStream(ctx context.Context, ch chan<- Event, chunks <-chan llm.Chunk, filingLookup map[string]string, model string) bool {
	proc := NewSourceTagProcessor(filingLookup)
	collector := NewParagraphCollector()

	forward := func(events []Event) bool {
		for _, ev := range events {
			switch ev.Type {
			case EventAnswer:
				collector.OnAnswer(ev.Body.(string))
			case EventSources:
				collector.OnSources(ev.Body.([]Source))
			}
			if !Emit(ctx, ch, ev) {
				return false
			}
		}
		return true
	}

	for chunk := range chunks {
		if chunk.Err != nil {
			log.Printf("[WARNING] Answer stream aborted: %v", chunk.Err)
			Emit(ctx, ch, Error("The answer stream was interrupted. Please try again."))
			return false
		}
		if chunk.Citation != nil {
			proc.FeedCitation(chunk.Citation.URL, chunk.Citation.Title)
			continue
		}
		if !forward(proc.FeedText(chunk.Text)) {
			return false
		}
	}
	if !forward(proc.Flush()) {
		return false
	}
	if grouped, ok := collector.Finish(); ok {
		if !Emit(ctx, ch, grouped) {
			return false
		}
	}
	return Emit(ctx, ch, ModelUsed(model))
}
