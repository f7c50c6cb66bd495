package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"

	"finsight/pkg/models"
)

// ETFRepo reads ETF fundamentals. The allocation arrays live in JSONB
// columns, one blob per facet:
//
// CREATE TABLE etf_fundamentals (
//   ticker TEXT PRIMARY KEY,
//   isin TEXT, name TEXT NOT NULL, fund_provider TEXT, index_tracked TEXT,
//   ter_percent NUMERIC, fund_size_billions NUMERIC,
//   replication_method TEXT, distribution_type TEXT, launch_date TEXT,
//   holdings JSONB, sector_allocation JSONB, country_allocation JSONB
// );
type ETFRepo struct{}

// NewETFRepo creates a new repository instance.
func NewETFRepo() *ETFRepo {
	return &ETFRepo{}
}

// GetByTicker loads the full record, allocations included. Returns
// (nil, nil) when the ticker is unknown so callers can distinguish a miss
// from a database failure.
func (r *ETFRepo) GetByTicker(ctx context.Context, ticker string) (*models.ETFFundamental, error) {
	pool := GetPool()
	if pool == nil {
		return nil, fmt.Errorf("database pool not initialized")
	}

	query := `
		SELECT ticker, COALESCE(isin, ''), name, COALESCE(fund_provider, ''),
		       COALESCE(index_tracked, ''), ter_percent, fund_size_billions,
		       COALESCE(replication_method, ''), COALESCE(distribution_type, ''),
		       COALESCE(launch_date, ''),
		       COALESCE(holdings, '[]'), COALESCE(sector_allocation, '[]'),
		       COALESCE(country_allocation, '[]')
		FROM etf_fundamentals WHERE ticker = $1`

	var e models.ETFFundamental
	var holdings, sectors, countries []byte
	err := pool.QueryRow(ctx, query, ticker).Scan(
		&e.Ticker, &e.ISIN, &e.Name, &e.FundProvider,
		&e.IndexTracked, &e.TERPercent, &e.FundSizeBillions,
		&e.ReplicationMethod, &e.DistributionType, &e.LaunchDate,
		&holdings, &sectors, &countries)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load ETF %s: %w", ticker, err)
	}

	if err := json.Unmarshal(holdings, &e.Holdings); err != nil {
		return nil, fmt.Errorf("failed to unmarshal holdings for %s: %w", ticker, err)
	}
	if err := json.Unmarshal(sectors, &e.SectorAllocation); err != nil {
		return nil, fmt.Errorf("failed to unmarshal sector allocation for %s: %w", ticker, err)
	}
	if err := json.Unmarshal(countries, &e.CountryAllocation); err != nil {
		return nil, fmt.Errorf("failed to unmarshal country allocation for %s: %w", ticker, err)
	}
	return &e, nil
}

// ListNames returns ticker -> fund name for every known ETF. The ticker
// extractor uses it both to validate regex candidates and to resolve fund
// names mentioned without a ticker.
func (r *ETFRepo) ListNames(ctx context.Context) (map[string]string, error) {
	pool := GetPool()
	if pool == nil {
		return nil, fmt.Errorf("database pool not initialized")
	}

	rows, err := pool.Query(ctx, `SELECT ticker, name FROM etf_fundamentals`)
	if err != nil {
		return nil, fmt.Errorf("failed to list ETF names: %w", err)
	}
	defer rows.Close()

	names := make(map[string]string)
	for rows.Next() {
		var ticker, name string
		if err := rows.Scan(&ticker, &name); err != nil {
			return nil, fmt.Errorf("failed to scan ETF name row: %w", err)
		}
		names[ticker] = name
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ETF name rows error: %w", err)
	}
	return names, nil
}
