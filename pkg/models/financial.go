package models

import (
	"time"
)

// CompanyFundamental holds the lightweight per-ticker metrics used by the
// 'basic' data tier. Sourced from the external quote page, not the database.
type CompanyFundamental struct {
	Ticker        string  `json:"ticker"`
	Name          string  `json:"name"`
	MarketCap     string  `json:"market_cap"`
	PERatio       string  `json:"pe_ratio"`
	EPS           string  `json:"eps"`
	DividendYield string  `json:"dividend_yield"`
	Beta          float64 `json:"beta,omitempty"`
	Industry      string  `json:"industry,omitempty"`
}

// IsEmpty reports whether nothing useful was resolved for the ticker.
func (f *CompanyFundamental) IsEmpty() bool {
	return f == nil || f.Name == ""
}

// FinancialStatement is one reported period (annual or quarterly) with the
// figures embedded in prompts and the filing URL used for citations.
type FinancialStatement struct {
	Ticker           string    `json:"ticker"`
	PeriodEndYear    int       `json:"period_end_year,omitempty"`    // annual
	PeriodEndQuarter string    `json:"period_end_quarter,omitempty"` // quarterly, "2024-Q3"
	Revenue          float64   `json:"revenue"`
	NetIncome        float64   `json:"net_income"`
	OperatingIncome  float64   `json:"operating_income"`
	TotalAssets      float64   `json:"total_assets"`
	TotalDebt        float64   `json:"total_debt"`
	CashAndEquiv     float64   `json:"cash_and_equivalents"`
	Filing10KURL     string    `json:"filing_10k_url,omitempty"`
	Filing10QURL     string    `json:"filing_10q_url,omitempty"`
	ReportedAt       time.Time `json:"reported_at,omitempty"`
}

// FilingURL returns whichever filing link the statement carries.
func (s FinancialStatement) FilingURL() string {
	if s.Filing10QURL != "" {
		return s.Filing10QURL
	}
	return s.Filing10KURL
}

// ChatMessage is one turn of prior conversation, read-only to the pipeline.
type ChatMessage struct {
	Role    string `json:"role"` // "user" or "assistant"
	Content string `json:"content"`
}
