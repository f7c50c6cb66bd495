package question

import (
	"context"
	"strings"
	"testing"

	"finsight/pkg/core/llm"
	"finsight/pkg/core/stream"
	"finsight/pkg/models"
)

// scriptedTexter answers each classifier prompt by keyword.
func scriptedTexter(category, requirement string) *mockTexter {
	return &mockTexter{GenerateFunc: func(prompt string) (string, error) {
		switch {
		case strings.Contains(prompt, "Classify this financial question"):
			return category, nil
		case strings.Contains(prompt, "How much structured financial data"):
			return requirement, nil
		case strings.Contains(prompt, "Suggest exactly 3 follow-up"):
			return "How did margins develop?\nWhat about guidance for next year?\nHow does debt compare to peers?\n", nil
		default:
			return "{}", nil
		}
	}}
}

func collectEvents(ch <-chan stream.Event) []stream.Event {
	var events []stream.Event
	for ev := range ch {
		events = append(events, ev)
	}
	return events
}

func newTestAnalyzer(texter *mockTexter, streamer *mockStreamer, fundamentals *mockFundamentals, statements *mockStatements) *Analyzer {
	router := newTestRouter(texter, streamer)
	classifier := NewClassifier(texter, llm.ModelGemini25FlashLite)
	optimizer := NewOptimizer(fundamentals, statements)
	return NewAnalyzer(classifier, optimizer, router)
}

func TestAnalyzeEventOrdering(t *testing.T) {
	texter := scriptedTexter("company_specific_finance", "basic")
	streamer := &mockStreamer{Chunks: []llm.Chunk{
		{Text: "Apple is performing well."},
		{Text: `[SOURCES_JSON]{"sources":[{"name":"10-K","url":"https://sec.gov/a"}]}[/SOURCES_JSON]`},
	}}
	a := newTestAnalyzer(texter, streamer, &mockFundamentals{}, &mockStatements{})

	events := collectEvents(a.AnalyzeQuestion(context.Background(), AnalyzeRequest{
		Ticker:   "AAPL",
		Question: "How is Apple performing?",
	}))

	if len(events) == 0 || events[0].Type != stream.EventThinkingStatus {
		t.Fatal("Stream must open with a thinking_status event")
	}

	var answerText strings.Builder
	var sawModelUsed bool
	var related int
	lastAnswerIdx, modelUsedIdx := -1, -1
	for i, ev := range events {
		switch ev.Type {
		case stream.EventAnswer:
			answerText.WriteString(ev.Body.(string))
			lastAnswerIdx = i
			if sawModelUsed {
				t.Error("answer event after model_used")
			}
		case stream.EventModelUsed:
			sawModelUsed = true
			modelUsedIdx = i
		case stream.EventRelatedQuestion:
			related++
			if !sawModelUsed {
				t.Error("related_question before model_used")
			}
		case stream.EventError:
			t.Errorf("Unexpected error event: %v", ev.Body)
		}
	}
	if answerText.String() != "Apple is performing well." {
		t.Errorf("Expected clean answer, got %q", answerText.String())
	}
	if !sawModelUsed || modelUsedIdx < lastAnswerIdx {
		t.Error("model_used must follow the answer stream")
	}
	if related != 3 {
		t.Errorf("Expected exactly 3 related questions, got %d", related)
	}
	if streamer.Calls != 1 {
		t.Errorf("Expected exactly 1 streaming call, got %d", streamer.Calls)
	}
}

func TestAnalyzeEmptyTickerWithoutHistoryEmitsError(t *testing.T) {
	texter := scriptedTexter("company_specific_finance", "basic")
	streamer := &mockStreamer{}
	fundamentals := &mockFundamentals{}
	a := newTestAnalyzer(texter, streamer, fundamentals, &mockStatements{})

	events := collectEvents(a.AnalyzeQuestion(context.Background(), AnalyzeRequest{
		Ticker:   "",
		Question: "What was the revenue last year?",
	}))

	var sawError bool
	for _, ev := range events {
		if ev.Type == stream.EventError {
			sawError = true
		}
	}
	if !sawError {
		t.Error("Expected an error event for empty ticker with no history")
	}
	if streamer.Calls != 0 {
		t.Error("Model must not be invoked when the request dead-ends")
	}
	if fundamentals.Calls != 0 {
		t.Error("No data fetch for an unresolvable ticker")
	}
}

func TestAnalyzePlaceholderTickerFallsBackToConversation(t *testing.T) {
	texter := scriptedTexter("company_specific_finance", "basic")
	streamer := &mockStreamer{Chunks: []llm.Chunk{{Text: "Based on our discussion, Apple's revenue grew."}}}
	fundamentals := &mockFundamentals{}
	a := newTestAnalyzer(texter, streamer, fundamentals, &mockStatements{})

	events := collectEvents(a.AnalyzeQuestion(context.Background(), AnalyzeRequest{
		Ticker:   "undefined",
		Question: "And how did that compare to the previous year?",
		Conversation: []models.ChatMessage{
			{Role: "user", Content: "What is Apple's revenue?"},
			{Role: "assistant", Content: "Apple reported $391B in FY2024."},
		},
	}))

	if streamer.Calls != 1 {
		t.Fatalf("Expected the conversation fallback to reach the model, got %d calls", streamer.Calls)
	}
	if !strings.Contains(streamer.LastPrompt, "conversation") {
		t.Error("Fallback prompt should reference the conversation context")
	}
	if !strings.Contains(streamer.LastPrompt, "$391B") {
		t.Error("Fallback prompt must embed the prior turns")
	}
	if fundamentals.Calls != 0 {
		t.Error("Fallback must skip data fetching entirely")
	}
	for _, ev := range events {
		if ev.Type == stream.EventError {
			t.Errorf("Fallback turn should not error: %v", ev.Body)
		}
	}
}

func TestAnalyzeQuarterlySummaryEmitsAttachment(t *testing.T) {
	texter := scriptedTexter("company_specific_finance", "unused")
	streamer := &mockStreamer{Chunks: []llm.Chunk{{Text: "The quarter looked strong."}}}
	statements := &mockStatements{
		RecentQuarterlyFunc: func(ticker string, n int) ([]models.FinancialStatement, error) {
			return []models.FinancialStatement{{
				Ticker:           ticker,
				PeriodEndYear:    2024,
				PeriodEndQuarter: "2024-Q3",
				Filing10QURL:     "https://sec.gov/aapl-10q",
			}}, nil
		},
	}
	a := newTestAnalyzer(texter, streamer, &mockFundamentals{}, statements)

	// "quarterly report" rides the keyword fast path straight to the
	// quarterly_summary tier.
	events := collectEvents(a.AnalyzeQuestion(context.Background(), AnalyzeRequest{
		Ticker:   "AAPL",
		Question: "Summarize the latest quarterly report",
	}))

	var attachment *stream.Event
	for i := range events {
		if events[i].Type == stream.EventAttachmentURL {
			attachment = &events[i]
		}
	}
	if attachment == nil {
		t.Fatal("Expected an attachment_url event for the single filing")
	}
	if attachment.Body.(string) != "https://sec.gov/aapl-10q" {
		t.Errorf("Expected filing URL body, got %v", attachment.Body)
	}
	if !strings.Contains(attachment.Title, "2024-Q3") {
		t.Errorf("Expected the quarter in the attachment title, got %q", attachment.Title)
	}
}

func TestAnalyzeGeneralQuestionSkipsDataEntirely(t *testing.T) {
	texter := scriptedTexter("general_finance", "unused")
	streamer := &mockStreamer{Chunks: []llm.Chunk{{Text: "A P/E ratio compares price to earnings."}}}
	fundamentals := &mockFundamentals{}
	statements := &mockStatements{}
	a := newTestAnalyzer(texter, streamer, fundamentals, statements)

	collectEvents(a.AnalyzeQuestion(context.Background(), AnalyzeRequest{
		Question: "What is a P/E ratio?",
	}))

	if fundamentals.Calls != 0 || statements.RecentAnnualCalls != 0 {
		t.Error("General questions must not touch storage")
	}
	if streamer.Calls != 1 {
		t.Errorf("Expected 1 model call, got %d", streamer.Calls)
	}
}
