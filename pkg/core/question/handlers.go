package question

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"finsight/pkg/core/llm"
	"finsight/pkg/core/stream"
	"finsight/pkg/core/utils"
)

// streamAnswer drives one model call through the citation post-processor,
// forwarding cleaned answer/sources events and finishing with the grouped
// sources summary and the model_used event. Returns false when the
// consumer went away or the stream ended in an error event.
func (a *Analyzer) streamAnswer(ctx context.Context, ch chan<- stream.Event, prompt string, req AnalyzeRequest, useSearch bool, filingLookup map[string]string) bool {
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
		log.Printf("[WARNING] Answer stream failed to start: %v", err)
		stream.Emit(ctx, ch, stream.Error("The analysis service is temporarily unavailable. Please try again."))
		return false
	}

	ok := stream.PipeModelStream(ctx, ch, chunks, filingLookup, string(model))
	fmt.Printf("Profiling answer_stream: %.4fs\n", time.Since(start).Seconds())
	return ok
}

// emitRelatedQuestions generates and emits up to 3 follow-up questions.
// Failures here are logged, never surfaced: the answer already went out.
func (a *Analyzer) emitRelatedQuestions(ctx context.Context, ch chan<- stream.Event, question string) {
	prompt := fmt.Sprintf(`Suggest exactly 3 follow-up questions a user might ask next.

Original question: %q

Rules: one question per line, no numbering, no markdown, each at most 15 words.`, question)

	resp, err := a.router.Texter().GenerateText(ctx, a.router.ModelFor("related"), prompt)
	if err != nil {
		log.Printf("[WARNING] Related question generation failed: %v", err)
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

// handleGeneral serves general_finance and company_general questions:
// no structured data, straight to the model.
func (a *Analyzer) handleGeneral(ctx context.Context, ch chan<- stream.Event, req AnalyzeRequest, ticker, conversationContext string) {
	if !stream.Emit(ctx, ch, stream.ThinkingStatus("Writing the answer...")) {
		return
	}

	var prompt string
	if req.UseURLContext && req.DocumentURL != "" {
		prompt = BuildURLPrompt(req.Question, req.DocumentURL, conversationContext, req.DeepAnalysis)
	} else {
		prompt = BuildGeneralPrompt(req.Question, ticker, conversationContext)
	}

	if !a.streamAnswer(ctx, ch, prompt, req, req.UseSearch, nil) {
		return
	}
	a.emitRelatedQuestions(ctx, ch, req.Question)
}

// handleCompanySpecific is the full pipeline: tier classification, data
// fetch, tier-matched prompt, streamed answer.
func (a *Analyzer) handleCompanySpecific(ctx context.Context, ch chan<- stream.Event, req AnalyzeRequest, ticker, conversationContext string) {
	requirement := a.classifier.ClassifyRequirement(ctx, req.Question, ticker)

	cls := Classification{Category: CategoryCompanySpecific, Requirement: requirement}
	if requirement == RequirementDetailed {
		cls.Period = a.classifier.ClassifyPeriod(ctx, req.Question, ticker)
	}

	if !stream.Emit(ctx, ch, stream.ThinkingStatus("Fetching financial data...")) {
		return
	}

	if ticker == "" {
		if conversationContext != "" {
			a.answerFromConversation(ctx, ch, req, conversationContext)
			return
		}
		stream.Emit(ctx, ch, stream.Error("No company could be identified for this question, and no prior conversation is available. Please mention the company or its ticker."))
		return
	}

	data, err := a.optimizer.Optimize(ctx, ticker, cls)
	if err != nil {
		log.Printf("[WARNING] Data fetch failed for %s: %v", ticker, err)
		stream.Emit(ctx, ch, stream.Error("Financial data could not be loaded right now. Please try again."))
		return
	}

	// Fallback-to-conversation: only when the fetch produced nothing at
	// all and there is history to answer from.
	if data.IsEmpty() && conversationContext != "" && requirement != RequirementNone {
		a.answerFromConversation(ctx, ch, req, conversationContext)
		return
	}

	a.emitSummaryAttachment(ctx, ch, requirement, data)

	var sections []DimensionSection
	if req.DeepAnalysis && requirement == RequirementDetailed {
		sections = a.classifier.DimensionSections(ctx, req.Question, ticker)
		if sections == nil {
			sections = DefaultSections()
		}
	}

	if !stream.Emit(ctx, ch, stream.ThinkingStatus("Analyzing and writing the answer...")) {
		return
	}

	var prompt string
	switch {
	case req.UseURLContext && req.DocumentURL != "":
		prompt = BuildURLPrompt(req.Question, req.DocumentURL, conversationContext, req.DeepAnalysis)
	case requirement == RequirementNone:
		prompt = BuildGeneralPrompt(req.Question, ticker, conversationContext)
	case requirement == RequirementBasic:
		prompt = BuildBasicPrompt(req.Question, ticker, conversationContext, data)
	case requirement == RequirementQuarterlySummary, requirement == RequirementAnnualSummary:
		prompt = BuildSummaryPrompt(req.Question, ticker, conversationContext, data, req.DeepAnalysis)
	default:
		prompt = BuildDetailedPrompt(req.Question, ticker, conversationContext, data, req.DeepAnalysis, sections)
	}

	// Quarterly summaries lean on fresh filings; force search so the model
	// can fill gaps when the stored quarter is stale or missing.
	useSearch := req.UseSearch || requirement == RequirementQuarterlySummary

	if !a.streamAnswer(ctx, ch, prompt, req, useSearch, BuildFilingLookup(ticker, data)) {
		return
	}
	a.emitRelatedQuestions(ctx, ch, req.Question)
}

// emitSummaryAttachment surfaces the underlying filing document when a
// summary tier resolved exactly one filing-backed statement.
func (a *Analyzer) emitSummaryAttachment(ctx context.Context, ch chan<- stream.Event, requirement DataRequirement, data OptimizedData) {
	switch requirement {
	case RequirementQuarterlySummary:
		if len(data.Quarterly) == 1 {
			s := data.Quarterly[0]
			title := fmt.Sprintf("Quarterly 10Q report for the quarter ending on %s", s.PeriodEndQuarter)
			stream.Emit(ctx, ch, stream.AttachmentURL(s.Filing10QURL, title))
		}
	case RequirementAnnualSummary:
		if len(data.Annual) == 1 {
			s := data.Annual[0]
			title := fmt.Sprintf("Annual 10K report for fiscal year %d", s.PeriodEndYear)
			stream.Emit(ctx, ch, stream.AttachmentURL(s.Filing10KURL, title))
		}
	}
}

// answerFromConversation serves follow-up turns where no ticker or data is
// available but the history carries the context.
func (a *Analyzer) answerFromConversation(ctx context.Context, ch chan<- stream.Event, req AnalyzeRequest, conversationContext string) {
	if !stream.Emit(ctx, ch, stream.ThinkingStatus("Answering from the conversation so far...")) {
		return
	}
	prompt := BuildConversationPrompt(req.Question, conversationContext)
	if !a.streamAnswer(ctx, ch, prompt, req, req.UseSearch, nil) {
		return
	}
	a.emitRelatedQuestions(ctx, ch, req.Question)
}

// normalizeTicker maps the placeholder values API clients send for "no
// ticker" onto the empty string.
func normalizeTicker(ticker string) string {
	t := strings.TrimSpace(ticker)
	switch strings.ToLower(t) {
	case "undefined", "null", "none", "":
		return ""
	}
	return strings.ToUpper(t)
}

// conversationContextFor formats prior turns for prompt embedding.
func conversationContextFor(req AnalyzeRequest, ticker string) string {
	companyName := ""
	if ticker != "" && len(req.Conversation) > 0 {
		companyName = ticker
	}
	return utils.FormatConversationContext(companyName, ticker, req.Conversation)
}
