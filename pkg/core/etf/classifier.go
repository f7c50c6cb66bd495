package etf

import (
	"context"
	"fmt"
	"log"
	"time"

	"finsight/pkg/core/llm"
	"finsight/pkg/core/utils"
)

// Classifier resolves ETF questions into a category and data tier.
// Comparison detection runs first: a question naming two to four known
// ETFs is a comparison regardless of what the model would call it.
type Classifier struct {
	extractor *TickerExtractor
	texter    llm.TextGenerator
	model     llm.ModelName
}

func NewClassifier(extractor *TickerExtractor, texter llm.TextGenerator, model llm.ModelName) *Classifier {
	return &Classifier{extractor: extractor, texter: texter, model: model}
}

// Classify resolves the question. The ticker argument is the caller's hint
// and may be empty.
func (c *Classifier) Classify(ctx context.Context, question, ticker string) Classification {
	start := time.Now()
	defer func() { fmt.Printf("Profiling etf_classify: %.4fs\n", time.Since(start).Seconds()) }()

	if tickers := c.extractor.Extract(ctx, question); len(tickers) >= 2 && len(tickers) <= 4 {
		return Classification{
			Category:    CategoryComparison,
			Requirement: RequirementDetailed,
			Tickers:     tickers,
		}
	}

	prompt := fmt.Sprintf(`Classify this ETF question.

Reply with strict JSON only:
{"category": "general_etf"|"etf_overview"|"etf_detailed_analysis", "data_requirement": "none"|"basic"|"detailed"}

- general_etf: general question about ETFs as a product class, no specific fund
- etf_overview: asks what a specific fund is, its costs, or its provider
- etf_detailed_analysis: asks about a specific fund's holdings, allocations, or suitability

Ticker context: %q
Question: %q`, ticker, question)

	resp, err := c.texter.GenerateText(ctx, c.model, prompt)
	if err != nil {
		log.Printf("[WARNING] ETF classification failed, using default: %v", err)
		return c.defaultClassification(ticker)
	}

	var parsed struct {
		Category    Category        `json:"category"`
		Requirement DataRequirement `json:"data_requirement"`
	}
	if err := utils.ParseModelJSON(resp, &parsed); err != nil {
		log.Printf("[WARNING] ETF classification unparseable, using default: %v", err)
		return c.defaultClassification(ticker)
	}

	switch parsed.Category {
	case CategoryGeneral, CategoryOverview, CategoryDetailed:
	default:
		log.Printf("[WARNING] Unknown ETF category %q, using default", parsed.Category)
		return c.defaultClassification(ticker)
	}
	switch parsed.Requirement {
	case RequirementNone, RequirementBasic, RequirementDetailed:
	default:
		parsed.Requirement = RequirementBasic
	}
	return Classification{Category: parsed.Category, Requirement: parsed.Requirement}
}

func (c *Classifier) defaultClassification(ticker string) Classification {
	if ticker == "" {
		return Classification{Category: CategoryGeneral, Requirement: RequirementNone}
	}
	return Classification{Category: CategoryOverview, Requirement: RequirementBasic}
}
