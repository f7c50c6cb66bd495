// Package etf implements the ETF analysis pipeline: ticker extraction,
// classification, tiered data fetch, and the comparison flow.
package etf

import (
	"context"

	"finsight/pkg/core/llm"
	"finsight/pkg/models"
)

// Category is the question-type classification for ETF questions.
type Category string

const (
	CategoryGeneral    Category = "general_etf"
	CategoryOverview   Category = "etf_overview"
	CategoryDetailed   Category = "etf_detailed_analysis"
	CategoryComparison Category = "etf_comparison"
)

// DataRequirement mirrors the company tiers; ETFs have no filing tier.
type DataRequirement string

const (
	RequirementNone     DataRequirement = "none"
	RequirementBasic    DataRequirement = "basic"
	RequirementDetailed DataRequirement = "detailed"
)

// Classification drives the ETF handler choice.
type Classification struct {
	Category    Category
	Requirement DataRequirement
	Tickers     []string // populated for comparison questions
}

// AnalyzeRequest is the inbound contract of the ETF analyzer.
type AnalyzeRequest struct {
	Ticker         string
	Question       string
	UseSearch      bool
	DeepAnalysis   bool
	PreferredModel llm.ModelName
	Conversation   []models.ChatMessage
}

// Store is the narrow ETF-data collaborator.
type Store interface {
	GetByTicker(ctx context.Context, ticker string) (*models.ETFFundamental, error)
	ListNames(ctx context.Context) (map[string]string, error)
}
