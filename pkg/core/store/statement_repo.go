package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"finsight/pkg/models"
)

// StatementRepo reads reported financial statements for the prompt
// builders. Schema is managed by migrations elsewhere:
//
// CREATE TABLE financial_statements (
//   ticker TEXT NOT NULL,
//   period_type TEXT NOT NULL,          -- 'annual' | 'quarterly'
//   fiscal_year INT NOT NULL,
//   fiscal_quarter INT,                 -- NULL for annual rows
//   revenue NUMERIC, net_income NUMERIC, operating_income NUMERIC,
//   total_assets NUMERIC, total_debt NUMERIC, cash_and_equivalents NUMERIC,
//   filing_10k_url TEXT, filing_10q_url TEXT,
//   reported_at TIMESTAMPTZ
// );
type StatementRepo struct{}

// NewStatementRepo creates a new repository instance.
func NewStatementRepo() *StatementRepo {
	return &StatementRepo{}
}

const statementColumns = `ticker, fiscal_year, COALESCE(fiscal_quarter, 0),
	COALESCE(revenue, 0), COALESCE(net_income, 0), COALESCE(operating_income, 0),
	COALESCE(total_assets, 0), COALESCE(total_debt, 0), COALESCE(cash_and_equivalents, 0),
	COALESCE(filing_10k_url, ''), COALESCE(filing_10q_url, '')`

// AnnualByYears returns annual statements for the given fiscal years,
// newest first. Years without a row are simply absent from the result.
func (r *StatementRepo) AnnualByYears(ctx context.Context, ticker string, years []int) ([]models.FinancialStatement, error) {
	pool := GetPool()
	if pool == nil {
		return nil, fmt.Errorf("database pool not initialized")
	}

	query := fmt.Sprintf(`
		SELECT %s FROM financial_statements
		WHERE ticker = $1 AND period_type = 'annual' AND fiscal_year = ANY($2)
		ORDER BY fiscal_year DESC`, statementColumns)

	rows, err := pool.Query(ctx, query, ticker, years)
	if err != nil {
		return nil, fmt.Errorf("failed to query annual statements: %w", err)
	}
	defer rows.Close()
	return scanStatements(rows)
}

// RecentAnnual returns the n most recent annual statements, newest first.
func (r *StatementRepo) RecentAnnual(ctx context.Context, ticker string, n int) ([]models.FinancialStatement, error) {
	pool := GetPool()
	if pool == nil {
		return nil, fmt.Errorf("database pool not initialized")
	}

	query := fmt.Sprintf(`
		SELECT %s FROM financial_statements
		WHERE ticker = $1 AND period_type = 'annual'
		ORDER BY fiscal_year DESC
		LIMIT $2`, statementColumns)

	rows, err := pool.Query(ctx, query, ticker, n)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent annual statements: %w", err)
	}
	defer rows.Close()
	return scanStatements(rows)
}

// QuarterlyByPeriods returns quarterly statements for the given "YYYY-Q#"
// periods, newest first.
func (r *StatementRepo) QuarterlyByPeriods(ctx context.Context, ticker string, periods []string) ([]models.FinancialStatement, error) {
	pool := GetPool()
	if pool == nil {
		return nil, fmt.Errorf("database pool not initialized")
	}

	var results []models.FinancialStatement
	for _, period := range periods {
		var year, quarter int
		if _, err := fmt.Sscanf(period, "%d-Q%d", &year, &quarter); err != nil {
			return nil, fmt.Errorf("invalid quarter period %q: %w", period, err)
		}

		query := fmt.Sprintf(`
			SELECT %s FROM financial_statements
			WHERE ticker = $1 AND period_type = 'quarterly'
			  AND fiscal_year = $2 AND fiscal_quarter = $3`, statementColumns)

		rows, err := pool.Query(ctx, query, ticker, year, quarter)
		if err != nil {
			return nil, fmt.Errorf("failed to query quarterly statements: %w", err)
		}
		stmts, err := scanStatements(rows)
		rows.Close()
		if err != nil {
			return nil, err
		}
		results = append(results, stmts...)
	}
	return results, nil
}

// RecentQuarterly returns the n most recent quarterly statements, newest
// first.
func (r *StatementRepo) RecentQuarterly(ctx context.Context, ticker string, n int) ([]models.FinancialStatement, error) {
	pool := GetPool()
	if pool == nil {
		return nil, fmt.Errorf("database pool not initialized")
	}

	query := fmt.Sprintf(`
		SELECT %s FROM financial_statements
		WHERE ticker = $1 AND period_type = 'quarterly'
		ORDER BY fiscal_year DESC, fiscal_quarter DESC
		LIMIT $2`, statementColumns)

	rows, err := pool.Query(ctx, query, ticker, n)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent quarterly statements: %w", err)
	}
	defer rows.Close()
	return scanStatements(rows)
}

func scanStatements(rows pgx.Rows) ([]models.FinancialStatement, error) {
	var results []models.FinancialStatement
	for rows.Next() {
		var s models.FinancialStatement
		var quarter int
		err := rows.Scan(&s.Ticker, &s.PeriodEndYear, &quarter,
			&s.Revenue, &s.NetIncome, &s.OperatingIncome,
			&s.TotalAssets, &s.TotalDebt, &s.CashAndEquiv,
			&s.Filing10KURL, &s.Filing10QURL)
		if err != nil {
			return nil, fmt.Errorf("failed to scan statement row: %w", err)
		}
		if quarter > 0 {
			s.PeriodEndQuarter = fmt.Sprintf("%d-Q%d", s.PeriodEndYear, quarter)
		}
		results = append(results, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("statement rows error: %w", err)
	}
	return results, nil
}
