package question

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"

	"finsight/pkg/core/llm"
	"finsight/pkg/core/utils"
)

// summaryKeywords resolve the data requirement without a model call. The
// list is deliberately narrow: it only covers phrasings where the filing
// tier is unambiguous, everything else goes to the model.
var quarterlyKeywords = []string{"quarterly report", "earnings report", "10-q"}
var annualKeywords = []string{"annual report", "10-k"}

const dimensionTimeout = 3 * time.Second

var dimensionTitlePattern = regexp.MustCompile(`[^a-zA-Z0-9\s&-]`)

// Classifier turns free-text questions into a category, a data tier, and
// optionally the concrete periods and deep-analysis outline. Every model
// response is treated as untrusted text: anything unparseable collapses to
// a safe default instead of aborting the pipeline.
type Classifier struct {
	texter llm.TextGenerator
	model  llm.ModelName
}

func NewClassifier(texter llm.TextGenerator, model llm.ModelName) *Classifier {
	return &Classifier{texter: texter, model: model}
}

// ClassifyCategory resolves the question-type category. The model reply is
// matched by substring in fixed priority order; no match falls back to
// company_general when a ticker is present, general_finance otherwise.
func (c *Classifier) ClassifyCategory(ctx context.Context, question, ticker string) Category {
	start := time.Now()
	defer func() { fmt.Printf("Profiling classify_category: %.4fs\n", time.Since(start).Seconds()) }()

	prompt := fmt.Sprintf(`Classify this financial question into exactly one category.

Categories:
- company_specific_finance: asks about a specific company's financial figures, filings, or performance (e.g. "What was Apple's revenue in 2023?")
- company_general: asks about a specific company but not its financial statements (e.g. "Who is the CEO of Tesla?")
- general_finance: general finance/markets question with no specific company (e.g. "What is a P/E ratio?")

Ticker context: %q
Question: %q

Reply with only the category name.`, ticker, question)

	resp, err := c.texter.GenerateText(ctx, c.model, prompt)
	if err != nil {
		log.Printf("[WARNING] Category classification failed, using default: %v", err)
		return c.defaultCategory(ticker)
	}

	lowered := strings.ToLower(resp)
	switch {
	case strings.Contains(lowered, string(CategoryCompanySpecific)):
		return CategoryCompanySpecific
	case strings.Contains(lowered, string(CategoryCompanyGeneral)):
		return CategoryCompanyGeneral
	case strings.Contains(lowered, string(CategoryGeneralFinance)):
		return CategoryGeneralFinance
	}
	log.Printf("[WARNING] Unrecognized category response %q, using default", resp)
	return c.defaultCategory(ticker)
}

func (c *Classifier) defaultCategory(ticker string) Category {
	if ticker == "" {
		return CategoryGeneralFinance
	}
	return CategoryCompanyGeneral
}

// ClassifyRequirement resolves the data tier. The keyword fast path skips
// the model call entirely for unambiguous filing questions.
func (c *Classifier) ClassifyRequirement(ctx context.Context, question, ticker string) DataRequirement {
	lowered := strings.ToLower(question)
	for _, kw := range quarterlyKeywords {
		if strings.Contains(lowered, kw) {
			return RequirementQuarterlySummary
		}
	}
	for _, kw := range annualKeywords {
		if strings.Contains(lowered, kw) {
			return RequirementAnnualSummary
		}
	}

	start := time.Now()
	defer func() { fmt.Printf("Profiling classify_requirement: %.4fs\n", time.Since(start).Seconds()) }()

	prompt := fmt.Sprintf(`How much structured financial data does this question need?

- detailed: needs multiple periods of financial statements (trends, comparisons over time, deep analysis)
- basic: needs only current headline metrics (market cap, P/E, EPS)
- none: needs no company data at all

Ticker context: %q
Question: %q

Reply with only one word: detailed, basic, or none.`, ticker, question)

	resp, err := c.texter.GenerateText(ctx, c.model, prompt)
	if err != nil {
		log.Printf("[WARNING] Requirement classification failed, using basic: %v", err)
		return RequirementBasic
	}

	lowered = strings.ToLower(resp)
	switch {
	case strings.Contains(lowered, "detailed"):
		return RequirementDetailed
	case strings.Contains(lowered, "basic"):
		return RequirementBasic
	default:
		return RequirementNone
	}
}

// ClassifyPeriod resolves the detailed tier's concrete periods. Strict JSON
// only; a reply that repairs into something ambiguous is worse than the
// default window.
func (c *Classifier) ClassifyPeriod(ctx context.Context, question, ticker string) PeriodRequirement {
	start := time.Now()
	defer func() { fmt.Printf("Profiling classify_period: %.4fs\n", time.Since(start).Seconds()) }()

	currentYear := time.Now().Year()
	prompt := fmt.Sprintf(`Which reporting periods does this question need? The current year is %d.

Reply with strict JSON only, no prose:
{"period_type": "annual"|"quarterly"|"both", "specific_years": [int], "specific_quarters": ["YYYY-Q#"], "num_periods": int}

Populate at most one of specific_years, specific_quarters, num_periods.
Leave the others absent. Ticker: %q
Question: %q`, currentYear, ticker, question)

	resp, err := c.texter.GenerateText(ctx, c.model, prompt)
	if err != nil {
		log.Printf("[WARNING] Period classification failed, using default window: %v", err)
		return DefaultPeriodRequirement()
	}

	var period PeriodRequirement
	if err := utils.ParseStrictJSON(resp, &period); err != nil {
		log.Printf("[WARNING] Period response not strict JSON, using default window: %v", err)
		return DefaultPeriodRequirement()
	}
	if !validPeriod(period) {
		log.Printf("[WARNING] Period response failed validation, using default window: %+v", period)
		return DefaultPeriodRequirement()
	}
	return period
}

func validPeriod(p PeriodRequirement) bool {
	switch p.PeriodType {
	case PeriodAnnual, PeriodQuarterly, PeriodBoth:
	default:
		return false
	}
	populated := 0
	if len(p.SpecificYears) > 0 {
		populated++
	}
	if len(p.SpecificQuarters) > 0 {
		populated++
	}
	if p.NumPeriods > 0 {
		populated++
	}
	return populated <= 1
}

// DimensionSections proposes the two deep-analysis headings. Bounded by a
// hard timeout so a slow outline call can never stall the main answer; any
// failure yields nil and the builder falls back to the default pair.
func (c *Classifier) DimensionSections(ctx context.Context, question, ticker string) []DimensionSection {
	start := time.Now()
	defer func() { fmt.Printf("Profiling dimension_sections: %.4fs\n", time.Since(start).Seconds()) }()

	ctx, cancel := context.WithTimeout(ctx, dimensionTimeout)
	defer cancel()

	prompt := fmt.Sprintf(`Propose exactly 2 analysis sections for a deep answer to this question.

Reply with strict JSON only:
{"sections": [{"title": "...", "focus_points": ["...", "..."]}, {"title": "...", "focus_points": ["..."]}]}

Titles must be at most 6 words, letters/digits/spaces/&/- only.
Ticker: %q
Question: %q`, ticker, question)

	resp, err := c.texter.GenerateText(ctx, c.model, prompt)
	if err != nil {
		log.Printf("[WARNING] Dimension generation failed, using default sections: %v", err)
		return nil
	}

	var parsed struct {
		Sections []DimensionSection `json:"sections"`
	}
	if err := utils.ParseModelJSON(resp, &parsed); err != nil {
		log.Printf("[WARNING] Dimension response unparseable, using default sections: %v", err)
		return nil
	}
	if !validSections(parsed.Sections) {
		log.Printf("[WARNING] Dimension sections failed validation, using default sections")
		return nil
	}
	return parsed.Sections
}

func validSections(sections []DimensionSection) bool {
	if len(sections) != 2 {
		return false
	}
	for _, s := range sections {
		title := strings.TrimSpace(s.Title)
		if title == "" || len(strings.Fields(title)) > 6 {
			return false
		}
		if dimensionTitlePattern.MatchString(title) {
			return false
		}
		if len(s.FocusPoints) == 0 {
			return false
		}
		for _, fp := range s.FocusPoints {
			if strings.TrimSpace(fp) == "" {
				return false
			}
		}
	}
	return true
}

// DefaultSections is the fixed fallback outline.
func DefaultSections() []DimensionSection {
	return []DimensionSection{
		{Title: "Financial Performance", FocusPoints: []string{"Revenue and profitability trends", "Balance sheet strength"}},
		{Title: "Strategic Positioning", FocusPoints: []string{"Competitive position and market dynamics", "Key risks and opportunities"}},
	}
}
