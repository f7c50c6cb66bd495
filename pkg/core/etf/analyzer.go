package etf

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"finsight/pkg/core/llm"
	"finsight/pkg/core/stream"
	"finsight/pkg/core/utils"
)

// Analyzer is the ETF-domain entry point.
type Analyzer struct {
	classifier *Classifier
	store      Store
	router     *llm.Router
}

func NewAnalyzer(classifier *Classifier, store Store, router *llm.Router) *Analyzer {
	return &Analyzer{classifier: classifier, store: store, router: router}
}

// AnalyzeQuestion runs the ETF pipeline for one question. Channel closure
// is the completion signal; cancelling ctx stops all downstream work.
func (a *Analyzer) AnalyzeQuestion(ctx context.Context, req AnalyzeRequest) <-chan stream.Event {
	ch := make(chan stream.Event)
	go func() {
		defer close(ch)

		requestID := uuid.New()
		start := time.Now()
		fmt.Printf("[DEBUG] ETF analyze request %s: ticker=%q deep=%v\n", requestID, req.Ticker, req.DeepAnalysis)
		defer func() {
			fmt.Printf("Profiling etf_analyze_question: %.4fs\n", time.Since(start).Seconds())
		}()

		if !stream.Emit(ctx, ch, stream.ThinkingStatus("Understanding your question...")) {
			return
		}

		ticker := normalizeTicker(req.Ticker)
		conversationContext := utils.FormatConversationContext("", "", req.Conversation)
		cls := a.classifier.Classify(ctx, req.Question, ticker)
		fmt.Printf("[DEBUG] ETF request %s classified as %s\n", requestID, cls.Category)

		switch cls.Category {
		case CategoryComparison:
			a.handleComparison(ctx, ch, req, cls.Tickers, conversationContext)
		case CategoryGeneral:
			a.handleGeneral(ctx, ch, req, conversationContext)
		default:
			a.handleSingleFund(ctx, ch, req, cls, ticker, conversationContext)
		}
	}()
	return ch
}

func normalizeTicker(ticker string) string {
	t := strings.TrimSpace(ticker)
	switch strings.ToLower(t) {
	case "undefined", "null", "none", "":
		return ""
	}
	return strings.ToUpper(t)
}
