package analytics

import (
	"math"
	"sort"

	"vcpulse/pkg/contracts/domain"
)

// Dashboard aggregation parameters. The emerging-markets cutoff is
// exclusive: a company founded in the cutoff year itself does not count.
const (
	TopCompaniesN       = 10
	TopCountriesK       = 5
	TopMarketsN         = 10
	MarketDistributionN = 10
	EmergingCutoffYear  = 2015
	EmergingTopK        = 5
)

// GroupSum is one group of a grouped funding aggregation: the grouping
// key and the sum of present funding values in the group. A group whose
// rows all lack funding sums to 0 rather than erroring.
type GroupSum struct {
	Key string
	Sum float64
}

// CompanyRank is one row of the top-funded companies ranking. PctOfMax
// is the row's funding relative to the best-funded entry, floored to an
// integer and capped at 100.
type CompanyRank struct {
	Record   domain.StartupRecord
	PctOfMax int
}

// CountryShare is one country of the top-countries contribution list.
// Share is the country's fraction of the entire view's funding, 0-100.
type CountryShare struct {
	CountryCode string
	Sum         float64
	Share       int
}

// TotalStartups counts distinct company names in the view
func TotalStartups(view []domain.StartupRecord) int {
	names := make(map[string]struct{})
	for _, rec := range view {
		if rec.Name != "" {
			names[rec.Name] = struct{}{}
		}
	}
	return len(names)
}

// TotalFunding sums present funding values over the view. Absent values
// are excluded from the sum, not treated as zero.
func TotalFunding(view []domain.StartupRecord) float64 {
	var total float64
	for _, rec := range view {
		if rec.HasFunding() {
			total += rec.Funding()
		}
	}
	return total
}

// CountriesCovered counts distinct country codes in the view
func CountriesCovered(view []domain.StartupRecord) int {
	codes := make(map[string]struct{})
	for _, rec := range view {
		if rec.CountryCode != "" {
			codes[rec.CountryCode] = struct{}{}
		}
	}
	return len(codes)
}

// AvgFundingPerStartup consolidates funding per distinct company name
// first, then averages the per-company sums. This is not a flat row
// average: a company with several funding rounds contributes one
// consolidated figure. Returns nil for a view with no named companies.
func AvgFundingPerStartup(view []domain.StartupRecord) *float64 {
	perName := make(map[string]float64)
	for _, rec := range view {
		if rec.Name == "" {
			continue
		}
		if _, seen := perName[rec.Name]; !seen {
			perName[rec.Name] = 0
		}
		if rec.HasFunding() {
			perName[rec.Name] += rec.Funding()
		}
	}

	if len(perName) == 0 {
		return nil
	}

	var total float64
	for _, sum := range perName {
		total += sum
	}
	avg := total / float64(len(perName))
	return &avg
}

// TotalFundingRounds sums the funding-round counts over the view
func TotalFundingRounds(view []domain.StartupRecord) int64 {
	var total int64
	for _, rec := range view {
		total += rec.FundingRounds
	}
	return total
}

// TopCompanies ranks rows by funding descending, ties broken by original
// row order, truncated to n. Rows with an absent funding value or an
// absent name are excluded before ranking.
func TopCompanies(view []domain.StartupRecord, n int) []CompanyRank {
	eligible := make([]domain.StartupRecord, 0, len(view))
	for _, rec := range view {
		if rec.Name != "" && rec.HasFunding() {
			eligible = append(eligible, rec)
		}
	}

	sort.SliceStable(eligible, func(i, j int) bool {
		return eligible[i].Funding() > eligible[j].Funding()
	})

	if len(eligible) > n {
		eligible = eligible[:n]
	}
	if len(eligible) == 0 {
		return []CompanyRank{}
	}

	maxFund := eligible[0].Funding()
	ranks := make([]CompanyRank, 0, len(eligible))
	for _, rec := range eligible {
		ranks = append(ranks, CompanyRank{
			Record:   rec,
			PctOfMax: flooredShare(rec.Funding(), maxFund),
		})
	}
	return ranks
}

// TopCountries groups the view by country code, sums funding per group
// and keeps the k largest. Share is computed against the entire view's
// funding, so the reported shares never sum above 100.
func TopCountries(view []domain.StartupRecord, k int) []CountryShare {
	groups := topGroupSums(view, k, func(rec domain.StartupRecord) string {
		return rec.CountryCode
	})

	total := TotalFunding(view)
	shares := make([]CountryShare, 0, len(groups))
	for _, g := range groups {
		shares = append(shares, CountryShare{
			CountryCode: g.Key,
			Sum:         g.Sum,
			Share:       flooredShare(g.Sum, total),
		})
	}
	return shares
}

// MarketTrend is the per-year funding series for a single market,
// sorted ascending by year.
func MarketTrend(view []domain.StartupRecord, market string) []domain.TrendPoint {
	subset := make([]domain.StartupRecord, 0, len(view))
	for _, rec := range view {
		if rec.Market == market {
			subset = append(subset, rec)
		}
	}
	return yearlySums(subset)
}

// YearlyTrend is the per-year funding series across the whole view
func YearlyTrend(view []domain.StartupRecord) []domain.TrendPoint {
	return yearlySums(view)
}

// TopMarkets groups by market, sums funding and keeps the n largest
func TopMarkets(view []domain.StartupRecord, n int) []GroupSum {
	return topGroupSums(view, n, func(rec domain.StartupRecord) string {
		return rec.Market
	})
}

// EmergingMarkets restricts the view to companies founded strictly after
// the cutoff year, then ranks markets by total funding.
func EmergingMarkets(view []domain.StartupRecord, cutoffYear, k int) []GroupSum {
	recent := make([]domain.StartupRecord, 0, len(view))
	for _, rec := range view {
		if rec.FoundedYear != nil && *rec.FoundedYear > cutoffYear {
			recent = append(recent, rec)
		}
	}
	return topGroupSums(recent, k, func(rec domain.StartupRecord) string {
		return rec.Market
	})
}

// MarketDistribution reports each market's frequency as a percentage of
// all rows carrying a market label, truncated to the n most frequent.
// Shares are raw fractions of the full distribution; the truncated list
// may sum to less than 100.
func MarketDistribution(view []domain.StartupRecord, n int) []domain.MarketShare {
	weights := MarketWordWeights(view)

	var total int
	for _, w := range weights {
		total += w.Count
	}
	if total == 0 {
		return []domain.MarketShare{}
	}

	if len(weights) > n {
		weights = weights[:n]
	}

	shares := make([]domain.MarketShare, 0, len(weights))
	for _, w := range weights {
		shares = append(shares, domain.MarketShare{
			Market:     w.Market,
			Percentage: float64(w.Count) / float64(total) * 100,
		})
	}
	return shares
}

// MarketWordWeights counts market label occurrences over the view,
// sorted by frequency descending with ties in first-seen order.
func MarketWordWeights(view []domain.StartupRecord) []domain.MarketWeight {
	counts := make(map[string]int)
	order := make(map[string]int)

	for i, rec := range view {
		if rec.Market == "" {
			continue
		}
		if _, seen := counts[rec.Market]; !seen {
			order[rec.Market] = i
		}
		counts[rec.Market]++
	}

	weights := make([]domain.MarketWeight, 0, len(counts))
	for market, count := range counts {
		weights = append(weights, domain.MarketWeight{Market: market, Count: count})
	}

	sort.SliceStable(weights, func(i, j int) bool {
		if weights[i].Count != weights[j].Count {
			return weights[i].Count > weights[j].Count
		}
		return order[weights[i].Market] < order[weights[j].Market]
	})

	return weights
}

// StatusOverview buckets the view by company status, with blank status
// reported as "unknown", sorted by count descending.
func StatusOverview(view []domain.StartupRecord) []domain.StatusSlice {
	if len(view) == 0 {
		return []domain.StatusSlice{}
	}

	counts := make(map[string]int)
	order := make(map[string]int)
	for i, rec := range view {
		status := rec.Status
		if status == "" {
			status = "unknown"
		}
		if _, seen := counts[status]; !seen {
			order[status] = i
		}
		counts[status]++
	}

	slices := make([]domain.StatusSlice, 0, len(counts))
	for status, count := range counts {
		slices = append(slices, domain.StatusSlice{
			Status:     status,
			Count:      count,
			Percentage: float64(count) / float64(len(view)) * 100,
		})
	}

	sort.SliceStable(slices, func(i, j int) bool {
		if slices[i].Count != slices[j].Count {
			return slices[i].Count > slices[j].Count
		}
		return order[slices[i].Status] < order[slices[j].Status]
	})

	return slices
}

// topGroupSums is the shared "group by key, sum funding, sort
// descending, take top n" primitive behind every ranking on the
// dashboard. Groups are keyed by keyFn; rows with an empty key are
// skipped; absent funding values contribute nothing to their group's
// sum. Ordering is sum descending with ties broken by the order in
// which groups first appear in the view.
func topGroupSums(view []domain.StartupRecord, n int, keyFn func(domain.StartupRecord) string) []GroupSum {
	sums := make(map[string]float64)
	order := make(map[string]int)

	for i, rec := range view {
		key := keyFn(rec)
		if key == "" {
			continue
		}
		if _, seen := sums[key]; !seen {
			sums[key] = 0
			order[key] = i
		}
		if rec.HasFunding() {
			sums[key] += rec.Funding()
		}
	}

	groups := make([]GroupSum, 0, len(sums))
	for key, sum := range sums {
		groups = append(groups, GroupSum{Key: key, Sum: sum})
	}

	sort.SliceStable(groups, func(i, j int) bool {
		if groups[i].Sum != groups[j].Sum {
			return groups[i].Sum > groups[j].Sum
		}
		return order[groups[i].Key] < order[groups[j].Key]
	})

	if len(groups) > n {
		groups = groups[:n]
	}
	return groups
}

// yearlySums groups rows by founded year and sums funding per year.
// Years where no row carries a funding value are dropped entirely, so
// an empty sum is reported as absent rather than zero.
func yearlySums(view []domain.StartupRecord) []domain.TrendPoint {
	sums := make(map[int]float64)

	for _, rec := range view {
		if rec.FoundedYear == nil || !rec.HasFunding() {
			continue
		}
		sums[*rec.FoundedYear] += rec.Funding()
	}

	points := make([]domain.TrendPoint, 0, len(sums))
	for year, sum := range sums {
		points = append(points, domain.TrendPoint{Year: year, FundingUSD: sum})
	}

	sort.Slice(points, func(i, j int) bool {
		return points[i].Year < points[j].Year
	})

	return points
}

// flooredShare expresses value/total as an integer percentage, floored,
// capped at 100. A zero denominator yields 0 rather than a fault.
func flooredShare(value, total float64) int {
	if total <= 0 {
		return 0
	}
	pct := int(math.Floor(value / total * 100))
	if pct > 100 {
		return 100
	}
	if pct < 0 {
		return 0
	}
	return pct
}
