package stream

import (
	"reflect"
	"testing"
)

func TestParagraphCollector_GroupsByParagraph(t *testing.T) {
	c := NewParagraphCollector()

	c.OnAnswer("First paragraph about revenue.")
	c.OnSources([]Source{{Name: "10-K", URL: "https://sec.gov/a"}})
	c.OnAnswer("\n\nSecond paragraph about margins.")
	c.OnSources([]Source{{Name: "10-Q", URL: "https://sec.gov/b"}})

	ev, ok := c.Finish()
	if !ok {
		t.Fatal("Expected a sources_grouped event")
	}
	if ev.Type != EventSourcesGrouped {
		t.Fatalf("Expected sources_grouped, got %s", ev.Type)
	}
	want := GroupedSources{Sources: []GroupedSource{
		{Name: "10-K", URL: "https://sec.gov/a", ParagraphIndices: []int{0}},
		{Name: "10-Q", URL: "https://sec.gov/b", ParagraphIndices: []int{1}},
	}}
	if !reflect.DeepEqual(ev.Body, want) {
		t.Errorf("Expected %v, got %v", want, ev.Body)
	}
}

func TestParagraphCollector_SourceAfterBoundaryBelongsToPreviousParagraph(t *testing.T) {
	c := NewParagraphCollector()

	// The model emits the tag block right after closing the paragraph, so
	// the sources event arrives once the boundary has already passed.
	c.OnAnswer("Paragraph zero.\n\n")
	c.OnSources([]Source{{Name: "S", URL: "https://x.com"}})

	ev, _ := c.Finish()
	got := ev.Body.(GroupedSources).Sources[0].ParagraphIndices
	if !reflect.DeepEqual(got, []int{0}) {
		t.Errorf("Expected index [0], got %v", got)
	}
}

func TestParagraphCollector_RepeatSourceMergesIndices(t *testing.T) {
	c := NewParagraphCollector()

	c.OnAnswer("Para zero.")
	c.OnSources([]Source{{Name: "10-K", URL: "https://sec.gov/a"}})
	c.OnAnswer("\n\nPara one.")
	c.OnSources([]Source{{Name: "10-K", URL: "https://sec.gov/a"}})
	c.OnAnswer("\n\nPara two.")
	c.OnSources([]Source{{Name: "10-K", URL: "https://sec.gov/a"}})

	ev, _ := c.Finish()
	srcs := ev.Body.(GroupedSources).Sources
	if len(srcs) != 1 {
		t.Fatalf("Expected 1 merged source, got %d", len(srcs))
	}
	if !reflect.DeepEqual(srcs[0].ParagraphIndices, []int{0, 1, 2}) {
		t.Errorf("Expected merged indices [0 1 2], got %v", srcs[0].ParagraphIndices)
	}
}

func TestParagraphCollector_BoundarySplitAcrossChunks(t *testing.T) {
	c := NewParagraphCollector()

	c.OnAnswer("Para zero.\n")
	c.OnAnswer("\nPara one.")
	c.OnSources([]Source{{Name: "S", URL: "https://x.com"}})

	ev, _ := c.Finish()
	got := ev.Body.(GroupedSources).Sources[0].ParagraphIndices
	if !reflect.DeepEqual(got, []int{1}) {
		t.Errorf("Split boundary should still advance the index, got %v", got)
	}
}

func TestParagraphCollector_NoSourcesNoEvent(t *testing.T) {
	c := NewParagraphCollector()
	c.OnAnswer("Plain answer.\n\nWith two paragraphs.")

	if _, ok := c.Finish(); ok {
		t.Error("Expected no sources_grouped event for a sourceless stream")
	}
}

func TestParagraphCollector_SourceBeforeAnyText(t *testing.T) {
	c := NewParagraphCollector()
	c.OnSources([]Source{{Name: "S", URL: "https://x.com"}})

	ev, _ := c.Finish()
	got := ev.Body.(GroupedSources).Sources[0].ParagraphIndices
	if !reflect.DeepEqual(got, []int{0}) {
		t.Errorf("Leading source clamps to paragraph 0, got %v", got)
	}
}
