package question

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"finsight/pkg/core/llm"
	"finsight/pkg/core/stream"
)

// Analyzer is the company-finance entry point. All collaborators are
// injected; the analyzer itself holds no per-request state.
type Analyzer struct {
	classifier *Classifier
	optimizer  *Optimizer
	router     *llm.Router
}

func NewAnalyzer(classifier *Classifier, optimizer *Optimizer, router *llm.Router) *Analyzer {
	return &Analyzer{
		classifier: classifier,
		optimizer:  optimizer,
		router:     router,
	}
}

// AnalyzeQuestion runs the full pipeline for one question and returns the
// event stream. The channel is closed when the request is complete;
// closure is the completion signal, there is no explicit done event.
// Cancelling ctx stops all downstream work.
func (a *Analyzer) AnalyzeQuestion(ctx context.Context, req AnalyzeRequest) <-chan stream.Event {
	ch := make(chan stream.Event)
	go func() {
		defer close(ch)

		requestID := uuid.New()
		start := time.Now()
		fmt.Printf("[DEBUG] Analyze request %s: ticker=%q deep=%v search=%v\n",
			requestID, req.Ticker, req.DeepAnalysis, req.UseSearch)
		defer func() {
			fmt.Printf("Profiling analyze_question: %.4fs\n", time.Since(start).Seconds())
		}()

		if !stream.Emit(ctx, ch, stream.ThinkingStatus("Understanding your question...")) {
			return
		}

		ticker := normalizeTicker(req.Ticker)
		conversationContext := conversationContextFor(req, ticker)
		category := a.classifier.ClassifyCategory(ctx, req.Question, ticker)
		fmt.Printf("[DEBUG] Request %s classified as %s\n", requestID, category)

		switch category {
		case CategoryCompanySpecific:
			a.handleCompanySpecific(ctx, ch, req, ticker, conversationContext)
		default:
			a.handleGeneral(ctx, ch, req, ticker, conversationContext)
		}
	}()
	return ch
}
