package question

import (
	"context"
	"fmt"
	"time"

	"finsight/pkg/models"
)

// Default windows for the detailed tier when the period requirement gives
// no explicit count.
const (
	defaultAnnualPeriods    = 3
	defaultQuarterlyPeriods = 4
)

// Optimizer fetches exactly the data tier a classification demands and
// nothing more. Storage errors propagate: they indicate a resource
// failure, not a classification ambiguity.
type Optimizer struct {
	fundamentals FundamentalFetcher
	statements   StatementStore
}

func NewOptimizer(fundamentals FundamentalFetcher, statements StatementStore) *Optimizer {
	return &Optimizer{fundamentals: fundamentals, statements: statements}
}

// Optimize resolves a classification into concrete fetches.
func (o *Optimizer) Optimize(ctx context.Context, ticker string, cls Classification) (OptimizedData, error) {
	start := time.Now()
	defer func() { fmt.Printf("Profiling optimize_data: %.4fs\n", time.Since(start).Seconds()) }()

	switch cls.Requirement {
	case RequirementNone:
		return OptimizedData{}, nil

	case RequirementBasic:
		fundamental, err := o.fundamentals.FetchFundamental(ctx, ticker)
		if err != nil {
			return OptimizedData{}, fmt.Errorf("basic tier fetch failed: %w", err)
		}
		return OptimizedData{Fundamental: fundamental}, nil

	case RequirementQuarterlySummary:
		stmts, err := o.statements.RecentQuarterly(ctx, ticker, 1)
		if err != nil {
			return OptimizedData{}, fmt.Errorf("quarterly summary fetch failed: %w", err)
		}
		return OptimizedData{Quarterly: filterWithFilingURL(stmts)}, nil

	case RequirementAnnualSummary:
		stmts, err := o.statements.RecentAnnual(ctx, ticker, 1)
		if err != nil {
			return OptimizedData{}, fmt.Errorf("annual summary fetch failed: %w", err)
		}
		return OptimizedData{Annual: filterWithFilingURL(stmts)}, nil

	case RequirementDetailed:
		return o.optimizeDetailed(ctx, ticker, cls.Period)

	default:
		return OptimizedData{}, fmt.Errorf("unknown data requirement %q", cls.Requirement)
	}
}

func (o *Optimizer) optimizeDetailed(ctx context.Context, ticker string, period PeriodRequirement) (OptimizedData, error) {
	var data OptimizedData

	fundamental, err := o.fundamentals.FetchFundamental(ctx, ticker)
	if err != nil {
		return OptimizedData{}, fmt.Errorf("detailed tier fundamental fetch failed: %w", err)
	}
	data.Fundamental = fundamental

	wantAnnual := period.PeriodType == PeriodAnnual || period.PeriodType == PeriodBoth
	wantQuarterly := period.PeriodType == PeriodQuarterly || period.PeriodType == PeriodBoth

	// Precedence: explicit periods beat num_periods beat the default window.
	if wantAnnual {
		var annual []models.FinancialStatement
		switch {
		case len(period.SpecificYears) > 0:
			annual, err = o.statements.AnnualByYears(ctx, ticker, period.SpecificYears)
		case period.NumPeriods > 0:
			annual, err = o.statements.RecentAnnual(ctx, ticker, period.NumPeriods)
		default:
			annual, err = o.statements.RecentAnnual(ctx, ticker, defaultAnnualPeriods)
		}
		if err != nil {
			return OptimizedData{}, fmt.Errorf("detailed annual fetch failed: %w", err)
		}
		data.Annual = annual
	}

	if wantQuarterly {
		var quarterly []models.FinancialStatement
		switch {
		case len(period.SpecificQuarters) > 0:
			quarterly, err = o.statements.QuarterlyByPeriods(ctx, ticker, period.SpecificQuarters)
		case period.NumPeriods > 0:
			quarterly, err = o.statements.RecentQuarterly(ctx, ticker, period.NumPeriods)
		default:
			quarterly, err = o.statements.RecentQuarterly(ctx, ticker, defaultQuarterlyPeriods)
		}
		if err != nil {
			return OptimizedData{}, fmt.Errorf("detailed quarterly fetch failed: %w", err)
		}
		data.Quarterly = quarterly
	}

	return data, nil
}

// filterWithFilingURL drops records that carry no filing link. A summary
// answer without a citable document is worse than telling the model the
// data is unavailable.
func filterWithFilingURL(stmts []models.FinancialStatement) []models.FinancialStatement {
	var kept []models.FinancialStatement
	for _, s := range stmts {
		if s.FilingURL() != "" {
			kept = append(kept, s)
		}
	}
	return kept
}
