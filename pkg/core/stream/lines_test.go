package stream

import (
	"reflect"
	"testing"
)

func TestLineScanner_ShortLinesDoNotConsumeCapacity(t *testing.T) {
	s := NewLineScanner(LineOptions{MaxLines: 3, MinLineLength: 10})

	lines := s.Feed("ok\n\nWhat drove Apple's margin expansion?\nHow did services revenue trend?\n")
	lines = append(lines, s.Feed("What is the dividend outlook for 2025?\nA fourth question that should be cut off?\n")...)

	want := []string{
		"What drove Apple's margin expansion?",
		"How did services revenue trend?",
		"What is the dividend outlook for 2025?",
	}
	if !reflect.DeepEqual(lines, want) {
		t.Errorf("Expected %v, got %v", want, lines)
	}
}

func TestLineScanner_StripsNumberingAndMarkdown(t *testing.T) {
	s := NewLineScanner(LineOptions{MinLineLength: 5, StripNumbering: true, StripMarkdown: true})

	lines := s.Feed("1. **What is the P/E ratio?**\n2) How `big` is the moat?\n3: - Plain question here\n")

	want := []string{
		"What is the P/E ratio?",
		"How big is the moat?",
		"Plain question here",
	}
	if !reflect.DeepEqual(lines, want) {
		t.Errorf("Expected %v, got %v", want, lines)
	}
}

func TestLineScanner_FlushProcessesRemainder(t *testing.T) {
	s := NewLineScanner(LineOptions{MinLineLength: 5})

	if got := s.Feed("no trailing newline on this question"); got != nil {
		t.Fatalf("Expected no completed lines yet, got %v", got)
	}
	lines := s.Flush()
	if !reflect.DeepEqual(lines, []string{"no trailing newline on this question"}) {
		t.Errorf("Flush should yield the remainder, got %v", lines)
	}
}

func TestLineScanner_FeedSplitMidLine(t *testing.T) {
	s := NewLineScanner(LineOptions{MinLineLength: 5})

	var lines []string
	lines = append(lines, s.Feed("first half ")...)
	lines = append(lines, s.Feed("second half\n")...)

	if !reflect.DeepEqual(lines, []string{"first half second half"}) {
		t.Errorf("Expected joined line, got %v", lines)
	}
}

func TestLineScanner_MaxLinesDrainsSilently(t *testing.T) {
	s := NewLineScanner(LineOptions{MaxLines: 1, MinLineLength: 1})

	lines := s.Feed("kept line\ndropped line\n")
	lines = append(lines, s.Flush()...)

	if !reflect.DeepEqual(lines, []string{"kept line"}) {
		t.Errorf("Expected only the first line, got %v", lines)
	}
}
