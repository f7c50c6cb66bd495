package models

// ETFHolding is a single position inside an ETF.
type ETFHolding struct {
	Name          string  `json:"name"`
	WeightPercent float64 `json:"weight_percent"`
}

// ETFSectorWeight is one sector allocation entry.
type ETFSectorWeight struct {
	Sector        string  `json:"sector"`
	WeightPercent float64 `json:"weight_percent"`
}

// ETFCountryWeight is one country allocation entry.
type ETFCountryWeight struct {
	Country       string  `json:"country"`
	WeightPercent float64 `json:"weight_percent"`
}

// ETFFundamental is the full ETF record. The 'basic' tier uses only the
// core metadata; the 'detailed' tier adds the allocation arrays.
type ETFFundamental struct {
	Ticker            string             `json:"ticker"`
	ISIN              string             `json:"isin,omitempty"`
	Name              string             `json:"name"`
	FundProvider      string             `json:"fund_provider,omitempty"`
	IndexTracked      string             `json:"index_tracked,omitempty"`
	TERPercent        *float64           `json:"ter_percent,omitempty"`
	FundSizeBillions  *float64           `json:"fund_size_billions,omitempty"`
	ReplicationMethod string             `json:"replication_method,omitempty"`
	DistributionType  string             `json:"distribution_type,omitempty"`
	LaunchDate        string             `json:"launch_date,omitempty"`
	Holdings          []ETFHolding       `json:"holdings,omitempty"`
	SectorAllocation  []ETFSectorWeight  `json:"sector_allocation,omitempty"`
	CountryAllocation []ETFCountryWeight `json:"country_allocation,omitempty"`
}

// HasCoreMetadata reports whether the record is complete enough to answer
// overview questions without falling back to web search.
func (e *ETFFundamental) HasCoreMetadata() bool {
	return e != nil && e.Name != "" && e.TERPercent != nil && e.FundProvider != ""
}
