// Package question implements the company-finance analysis pipeline:
// classify the question, fetch the minimal data tier, build a prompt, and
// stream the answer through the citation post-processor.
package question

import (
	"context"

	"finsight/pkg/core/llm"
	"finsight/pkg/models"
)

// Category is the question-type classification for company questions.
type Category string

const (
	CategoryGeneralFinance  Category = "general_finance"
	CategoryCompanyGeneral  Category = "company_general"
	CategoryCompanySpecific Category = "company_specific_finance"
)

// DataRequirement is the cost-ordered tier of structured data a question
// needs before prompting the model.
type DataRequirement string

const (
	RequirementNone             DataRequirement = "none"
	RequirementBasic            DataRequirement = "basic"
	RequirementQuarterlySummary DataRequirement = "quarterly_summary"
	RequirementAnnualSummary    DataRequirement = "annual_summary"
	RequirementDetailed         DataRequirement = "detailed"
)

// PeriodType selects which statement series the detailed tier fetches.
type PeriodType string

const (
	PeriodAnnual    PeriodType = "annual"
	PeriodQuarterly PeriodType = "quarterly"
	PeriodBoth      PeriodType = "both"
)

// PeriodRequirement narrows the detailed tier to concrete reporting
// periods. At most one of SpecificYears, SpecificQuarters, and NumPeriods
// is populated; all empty means the default window.
type PeriodRequirement struct {
	PeriodType       PeriodType `json:"period_type"`
	SpecificYears    []int      `json:"specific_years,omitempty"`
	SpecificQuarters []string   `json:"specific_quarters,omitempty"` // "2024-Q3"
	NumPeriods       int        `json:"num_periods,omitempty"`
}

// DefaultPeriodRequirement is the conservative window used when the model's
// period answer cannot be parsed.
func DefaultPeriodRequirement() PeriodRequirement {
	return PeriodRequirement{PeriodType: PeriodAnnual, NumPeriods: 3}
}

// DimensionSection is one AI-proposed heading for a deep-analysis answer.
type DimensionSection struct {
	Title       string   `json:"title"`
	FocusPoints []string `json:"focus_points"`
}

// Classification is the combined result driving the rest of the pipeline.
type Classification struct {
	Category    Category
	Requirement DataRequirement
	Period      PeriodRequirement
}

// AnalyzeRequest is the single inbound contract of the analyzer.
type AnalyzeRequest struct {
	Ticker         string
	Question       string
	UseSearch      bool
	UseURLContext  bool
	DeepAnalysis   bool
	DocumentURL    string
	PreferredModel llm.ModelName
	Conversation   []models.ChatMessage
}

// OptimizedData is what the optimizer hands the prompt builders: exactly
// the tier that was asked for, nothing more.
type OptimizedData struct {
	Fundamental *models.CompanyFundamental
	Annual      []models.FinancialStatement
	Quarterly   []models.FinancialStatement
}

// IsEmpty reports whether nothing at all was resolved: no fundamental name
// and no statements of either kind. All three must be empty.
func (d OptimizedData) IsEmpty() bool {
	return d.Fundamental.IsEmpty() && len(d.Annual) == 0 && len(d.Quarterly) == 0
}

// FundamentalFetcher is the narrow "fetch company fundamental by ticker"
// collaborator.
type FundamentalFetcher interface {
	FetchFundamental(ctx context.Context, ticker string) (*models.CompanyFundamental, error)
}

// StatementStore is the narrow statement-fetch collaborator.
type StatementStore interface {
	AnnualByYears(ctx context.Context, ticker string, years []int) ([]models.FinancialStatement, error)
	RecentAnnual(ctx context.Context, ticker string, n int) ([]models.FinancialStatement, error)
	QuarterlyByPeriods(ctx context.Context, ticker string, periods []string) ([]models.FinancialStatement, error)
	RecentQuarterly(ctx context.Context, ticker string, n int) ([]models.FinancialStatement, error)
}
