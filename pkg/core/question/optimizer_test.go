package question

import (
	"context"
	"fmt"
	"reflect"
	"testing"

	"finsight/pkg/models"
)

func TestOptimizeNoneNeverTouchesStorage(t *testing.T) {
	fundamentals := &mockFundamentals{}
	statements := &mockStatements{}
	o := NewOptimizer(fundamentals, statements)

	data, err := o.Optimize(context.Background(), "AAPL", Classification{Requirement: RequirementNone})
	if err != nil {
		t.Fatalf("Optimize failed: %v", err)
	}
	if !data.IsEmpty() {
		t.Errorf("Expected empty data for none tier, got %+v", data)
	}
	totalCalls := fundamentals.Calls + statements.AnnualByYearsCalls + statements.RecentAnnualCalls +
		statements.QuarterlyByCalls + statements.RecentQuarterlyCalls
	if totalCalls != 0 {
		t.Errorf("None tier must not invoke any storage call, got %d", totalCalls)
	}
}

func TestOptimizeBasicFetchesFundamentalOnly(t *testing.T) {
	fundamentals := &mockFundamentals{}
	statements := &mockStatements{}
	o := NewOptimizer(fundamentals, statements)

	data, err := o.Optimize(context.Background(), "AAPL", Classification{Requirement: RequirementBasic})
	if err != nil {
		t.Fatalf("Optimize failed: %v", err)
	}
	if fundamentals.Calls != 1 {
		t.Errorf("Expected 1 fundamental fetch, got %d", fundamentals.Calls)
	}
	stmtCalls := statements.AnnualByYearsCalls + statements.RecentAnnualCalls +
		statements.QuarterlyByCalls + statements.RecentQuarterlyCalls
	if stmtCalls != 0 {
		t.Errorf("Basic tier must not fetch statements, got %d calls", stmtCalls)
	}
	if data.Fundamental == nil || data.Fundamental.Name == "" {
		t.Errorf("Expected a populated fundamental, got %+v", data.Fundamental)
	}
}

func TestOptimizeSummaryFiltersRecordsWithoutFilingURL(t *testing.T) {
	statements := &mockStatements{
		RecentQuarterlyFunc: func(ticker string, n int) ([]models.FinancialStatement, error) {
			if n != 1 {
				t.Errorf("Summary tier must fetch exactly 1 period, asked for %d", n)
			}
			return []models.FinancialStatement{
				{Ticker: ticker, PeriodEndYear: 2024, PeriodEndQuarter: "2024-Q3"}, // no URL
			}, nil
		},
	}
	o := NewOptimizer(&mockFundamentals{}, statements)

	data, err := o.Optimize(context.Background(), "AAPL", Classification{Requirement: RequirementQuarterlySummary})
	if err != nil {
		t.Fatalf("Optimize failed: %v", err)
	}
	if len(data.Quarterly) != 0 {
		t.Errorf("Record without filing URL must be filtered out, got %+v", data.Quarterly)
	}
}

func TestOptimizeDetailedSpecificYearsBeatNumPeriods(t *testing.T) {
	var gotYears []int
	statements := &mockStatements{
		AnnualByYearsFunc: func(ticker string, years []int) ([]models.FinancialStatement, error) {
			gotYears = years
			return []models.FinancialStatement{{Ticker: ticker, PeriodEndYear: 2023}}, nil
		},
	}
	o := NewOptimizer(&mockFundamentals{}, statements)

	cls := Classification{
		Requirement: RequirementDetailed,
		Period:      PeriodRequirement{PeriodType: PeriodAnnual, SpecificYears: []int{2023}, NumPeriods: 5},
	}
	if _, err := o.Optimize(context.Background(), "AAPL", cls); err != nil {
		t.Fatalf("Optimize failed: %v", err)
	}

	if !reflect.DeepEqual(gotYears, []int{2023}) {
		t.Errorf("Expected exact year fetch [2023], got %v", gotYears)
	}
	if statements.RecentAnnualCalls != 0 {
		t.Errorf("num_periods must be ignored when specific years are given")
	}
	if statements.RecentQuarterlyCalls+statements.QuarterlyByCalls != 0 {
		t.Errorf("Annual-only period must not fetch quarterly data")
	}
}

func TestOptimizeDetailedDefaultWindow(t *testing.T) {
	statements := &mockStatements{
		RecentAnnualFunc: func(ticker string, n int) ([]models.FinancialStatement, error) {
			if n != defaultAnnualPeriods {
				t.Errorf("Expected default annual window %d, got %d", defaultAnnualPeriods, n)
			}
			return nil, nil
		},
		RecentQuarterlyFunc: func(ticker string, n int) ([]models.FinancialStatement, error) {
			if n != defaultQuarterlyPeriods {
				t.Errorf("Expected default quarterly window %d, got %d", defaultQuarterlyPeriods, n)
			}
			return nil, nil
		},
	}
	o := NewOptimizer(&mockFundamentals{}, statements)

	cls := Classification{
		Requirement: RequirementDetailed,
		Period:      PeriodRequirement{PeriodType: PeriodBoth},
	}
	if _, err := o.Optimize(context.Background(), "AAPL", cls); err != nil {
		t.Fatalf("Optimize failed: %v", err)
	}
	if statements.RecentAnnualCalls != 1 || statements.RecentQuarterlyCalls != 1 {
		t.Errorf("Expected both series fetched once, got annual=%d quarterly=%d",
			statements.RecentAnnualCalls, statements.RecentQuarterlyCalls)
	}
}

func TestOptimizeStorageErrorsPropagate(t *testing.T) {
	statements := &mockStatements{
		RecentQuarterlyFunc: func(string, int) ([]models.FinancialStatement, error) {
			return nil, fmt.Errorf("connection refused")
		},
	}
	o := NewOptimizer(&mockFundamentals{}, statements)

	_, err := o.Optimize(context.Background(), "AAPL", Classification{Requirement: RequirementQuarterlySummary})
	if err == nil {
		t.Fatal("Expected storage error to propagate")
	}
}
