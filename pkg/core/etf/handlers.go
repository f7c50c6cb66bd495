package etf

import (
	"context"
	"fmt"
	"log"
	"time"

	"finsight/pkg/core/llm"
	"finsight/pkg/core/stream"
	"finsight/pkg/models"
)

func (a *Analyzer) streamAnswer(ctx context.Context, ch chan<- stream.Event, prompt string, req AnalyzeRequest, useSearch bool) bool {
	provider, model := a.router.StreamerFor("answer")
	if req.PreferredModel != "" {
		model = req.PreferredModel
	}

	start := time.Now()
	chunks, err := provider.StreamGenerate(ctx, llm.StreamRequest{
		Model:        model,
		Prompt:       prompt,
		EnableSearch: useSearch,
	})
	if err != nil {
		log.Printf("[WARNING] ETF answer stream failed to start: %v", err)
		stream.Emit(ctx, ch, stream.Error("The analysis service is temporarily unavailable. Please try again."))
		return false
	}

	ok := stream.PipeModelStream(ctx, ch, chunks, nil, string(model))
	fmt.Printf("Profiling etf_answer_stream: %.4fs\n", time.Since(start).Seconds())
	return ok
}

func (a *Analyzer) emitRelatedQuestions(ctx context.Context, ch chan<- stream.Event, question string) {
	prompt := fmt.Sprintf(`Suggest exactly 3 follow-up questions an ETF investor might ask next.

Original question: %q

Rules: one question per line, no numbering, no markdown, each at most 15 words.`, question)

	resp, err := a.router.Texter().GenerateText(ctx, a.router.ModelFor("related"), prompt)
	if err != nil {
		log.Printf("[WARNING] ETF related question generation failed: %v", err)
		return
	}

	scanner := stream.NewLineScanner(stream.LineOptions{
		MaxLines:       3,
		MinLineLength:  10,
		StripNumbering: true,
		StripMarkdown:  true,
	})
	lines := scanner.Feed(resp)
	lines = append(lines, scanner.Flush()...)
	for _, line := range lines {
		if !stream.Emit(ctx, ch, stream.RelatedQuestion(line)) {
			return
		}
	}
}

// handleGeneral answers product-class questions without fund data.
func (a *Analyzer) handleGeneral(ctx context.Context, ch chan<- stream.Event, req AnalyzeRequest, conversationContext string) {
	if !stream.Emit(ctx, ch, stream.ThinkingStatus("Writing the answer...")) {
		return
	}
	prompt := BuildGeneralPrompt(req.Question, conversationContext)
	if !a.streamAnswer(ctx, ch, prompt, req, req.UseSearch) {
		return
	}
	a.emitRelatedQuestions(ctx, ch, req.Question)
}

// handleSingleFund serves etf_overview and etf_detailed_analysis.
func (a *Analyzer) handleSingleFund(ctx context.Context, ch chan<- stream.Event, req AnalyzeRequest, cls Classification, ticker, conversationContext string) {
	if !stream.Emit(ctx, ch, stream.ThinkingStatus("Fetching fund data...")) {
		return
	}

	var fund *models.ETFFundamental
	if ticker != "" && cls.Requirement != RequirementNone {
		var err error
		fund, err = a.store.GetByTicker(ctx, ticker)
		if err != nil {
			log.Printf("[WARNING] ETF fetch failed for %s: %v", ticker, err)
			stream.Emit(ctx, ch, stream.Error("Fund data could not be loaded right now. Please try again."))
			return
		}
	}

	if ticker == "" && fund == nil && conversationContext != "" {
		if !stream.Emit(ctx, ch, stream.ThinkingStatus("Answering from the conversation so far...")) {
			return
		}
		prompt := BuildGeneralPrompt(req.Question, conversationContext)
		if !a.streamAnswer(ctx, ch, prompt, req, req.UseSearch) {
			return
		}
		a.emitRelatedQuestions(ctx, ch, req.Question)
		return
	}

	if !stream.Emit(ctx, ch, stream.ThinkingStatus("Analyzing and writing the answer...")) {
		return
	}

	var prompt string
	if cls.Category == CategoryDetailed {
		prompt = BuildDetailedPrompt(req.Question, fund, conversationContext, req.DeepAnalysis)
	} else {
		prompt = BuildOverviewPrompt(req.Question, fund, conversationContext)
	}

	// Missing stored data leans on web search so the model can still give
	// a grounded overview.
	useSearch := req.UseSearch || fund == nil || !fund.HasCoreMetadata()

	if !a.streamAnswer(ctx, ch, prompt, req, useSearch) {
		return
	}
	a.emitRelatedQuestions(ctx, ch, req.Question)
}
