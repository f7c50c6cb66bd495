package etf

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"finsight/pkg/core/stream"
	"finsight/pkg/models"
)

// handleComparison fetches every requested fund in parallel and compares
// whatever subset resolves. Fewer than 2 resolved funds is fatal for the
// request; a partial subset is a warning, not an error.
func (a *Analyzer) handleComparison(ctx context.Context, ch chan<- stream.Event, req AnalyzeRequest, tickers []string, conversationContext string) {
	if !stream.Emit(ctx, ch, stream.ThinkingStatus(fmt.Sprintf("Fetching data for %d funds...", len(tickers)))) {
		return
	}

	start := time.Now()
	resolved := make([]*models.ETFFundamental, len(tickers))
	var wg sync.WaitGroup
	for i, ticker := range tickers {
		wg.Add(1)
		go func(i int, ticker string) {
			defer wg.Done()
			fund, err := a.store.GetByTicker(ctx, ticker)
			if err != nil {
				// Individual fetch failures degrade to a missing fund;
				// the subset decides the request's fate below.
				log.Printf("[WARNING] Comparison fetch failed for %s: %v", ticker, err)
				return
			}
			resolved[i] = fund
		}(i, ticker)
	}
	wg.Wait()
	fmt.Printf("Profiling comparison_fetch: %.4fs\n", time.Since(start).Seconds())

	var funds []*models.ETFFundamental
	var missing []string
	for i, fund := range resolved {
		if fund == nil {
			missing = append(missing, tickers[i])
			continue
		}
		funds = append(funds, fund)
	}

	if len(funds) < 2 {
		stream.Emit(ctx, ch, stream.Error(fmt.Sprintf(
			"Need at least 2 valid ETFs to compare. Missing: %s", strings.Join(missing, ", "))))
		return
	}
	if len(missing) > 0 {
		if !stream.Emit(ctx, ch, stream.ThinkingStatus(fmt.Sprintf(
			"No data found for %s; comparing the remaining %d funds.", strings.Join(missing, ", "), len(funds)))) {
			return
		}
	}

	if !stream.Emit(ctx, ch, stream.ThinkingStatus("Comparing the funds...")) {
		return
	}

	prompt := BuildComparisonPrompt(req.Question, funds, conversationContext, req.DeepAnalysis)
	if !a.streamAnswer(ctx, ch, prompt, req, req.UseSearch) {
		return
	}
	a.emitRelatedQuestions(ctx, ch, req.Question)
}
