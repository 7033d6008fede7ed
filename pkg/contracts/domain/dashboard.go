package domain

// SummaryMetrics is the key-metrics strip at the top of the dashboard.
// Formatted fields are display strings produced by the presentation
// formatter; raw fields carry the underlying numbers.
type SummaryMetrics struct {
	TotalStartups      int      `json:"total_startups"`
	TotalFundingUSD    float64  `json:"total_funding_usd"`
	TotalFunding       string   `json:"total_funding"`
	CountriesCovered   int      `json:"countries_covered"`
	AvgFundingUSD      *float64 `json:"avg_funding_usd,omitempty"`
	AvgFunding         string   `json:"avg_funding,omitempty"`
	TotalFundingRounds int64    `json:"total_funding_rounds"`
	FundingRoundsLabel string   `json:"funding_rounds_label"`
}

// CompanyFunding is one entry of the top-funded companies list. PctOfMax
// drives the progress indicator: the best-funded entry is always 100.
type CompanyFunding struct {
	Name        string  `json:"name"`
	Market      string  `json:"market,omitempty"`
	CountryCode string  `json:"country_code,omitempty"`
	FundingUSD  float64 `json:"funding_usd"`
	Funding     string  `json:"funding"`
	PctOfMax    int     `json:"pct_of_max"`
}

// CountryFunding is one entry of the top-countries contribution list.
// ShareOfTotal is the country's fraction of the whole filtered view's
// funding, 0-100.
type CountryFunding struct {
	CountryCode  string  `json:"country_code"`
	Symbol       string  `json:"symbol"`
	FundingUSD   float64 `json:"funding_usd"`
	Funding      string  `json:"funding"`
	ShareOfTotal int     `json:"share_of_total"`
}

// TrendPoint is one year of a funding time series, sorted ascending by
// year in every trend response.
type TrendPoint struct {
	Year       int     `json:"year"`
	FundingUSD float64 `json:"funding_usd"`
}

// MarketFunding is one entry of a markets-by-total-funding ranking.
type MarketFunding struct {
	Market     string  `json:"market"`
	FundingUSD float64 `json:"funding_usd"`
	Funding    string  `json:"funding"`
}

// MarketShare is one slice of the market-distribution chart. Percentage
// is the market's raw share of all rows in the view, so a truncated
// top-10 list may sum to less than 100.
type MarketShare struct {
	Market     string  `json:"market"`
	Percentage float64 `json:"percentage"`
}

// MarketWeight is the word-cloud input: how often a market label occurs
// in the view.
type MarketWeight struct {
	Market string `json:"market"`
	Count  int    `json:"count"`
}

// StatusSlice is one bucket of the startup survival overview.
type StatusSlice struct {
	Status     string  `json:"status"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// FilterOptions describes the observed value space of the loaded table,
// used by the presentation layer to seed its controls.
type FilterOptions struct {
	MinYear   int      `json:"min_year"`
	MaxYear   int      `json:"max_year"`
	Countries []string `json:"countries"`
	Markets   []string `json:"markets"`
}
