package domain

import (
	"time"
)

// StartupRecord represents one row of the startup-investment dataset.
// Numeric fields that can be missing at the source are pointers: a nil
// value means "unknown" and must never be folded into sums or averages
// as zero.
type StartupRecord struct {
	Name            string   `json:"name"`
	Market          string   `json:"market,omitempty"`
	CountryCode     string   `json:"country_code,omitempty"`
	Region          string   `json:"region,omitempty"`
	City            string   `json:"city,omitempty"`
	Status          string   `json:"status,omitempty"`
	RegionClean     string   `json:"region_clean,omitempty"`
	FoundedYear     *int     `json:"founded_year,omitempty"`
	FundingTotalUSD *float64 `json:"funding_total_usd,omitempty"`
	FundingRounds   int64    `json:"funding_rounds"`
}

// HasFunding reports whether the record carries a parsed funding amount.
func (r StartupRecord) HasFunding() bool {
	return r.FundingTotalUSD != nil
}

// Funding returns the parsed funding amount, or 0 when absent.
// Callers must check HasFunding before treating the value as data.
func (r StartupRecord) Funding() float64 {
	if r.FundingTotalUSD == nil {
		return 0
	}
	return *r.FundingTotalUSD
}

// Table is the loaded dataset. It is immutable after load and shared
// process-wide; all aggregations take it (or a filtered view of it) as
// an explicit argument.
type Table struct {
	Records  []StartupRecord `json:"records"`
	Source   string          `json:"source"`
	LoadedAt time.Time       `json:"loaded_at"`
}

// FilterSelection holds the user-selected constraints for one
// interaction: a closed year interval and accepted country/market sets.
// An empty Countries or Markets slice means "all observed values", which
// matches the presentation layer's default of selecting everything.
type FilterSelection struct {
	MinYear   int      `json:"min_year"`
	MaxYear   int      `json:"max_year"`
	Countries []string `json:"countries,omitempty"`
	Markets   []string `json:"markets,omitempty"`
}

// FullRange returns a selection that matches every record carrying a
// founded year, regardless of country or market.
func FullRange() FilterSelection {
	return FilterSelection{MinYear: 0, MaxYear: 9999}
}
