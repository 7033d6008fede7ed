// Package analytics implements the filter-and-aggregate pipeline that
// sits between the loaded dataset and the presentation layer. Every
// function is pure: it takes the table or a filtered view as an explicit
// argument and never touches shared state.
package analytics

import (
	"sort"

	"vcpulse/pkg/contracts/domain"
)

// Filter produces the subset of the table satisfying the selection:
// founded year inside the closed interval, country code and market in
// the selected sets. Records without a founded year never match
// (interval membership on an absent value is false). An empty country
// or market set selects all observed values, which still excludes rows
// where the attribute itself is missing.
func Filter(table *domain.Table, sel domain.FilterSelection) []domain.StartupRecord {
	countries := toSet(sel.Countries)
	markets := toSet(sel.Markets)

	view := make([]domain.StartupRecord, 0, len(table.Records))
	for _, rec := range table.Records {
		if rec.FoundedYear == nil {
			continue
		}
		year := *rec.FoundedYear
		if year < sel.MinYear || year > sel.MaxYear {
			continue
		}
		if !matchesSet(rec.CountryCode, countries) {
			continue
		}
		if !matchesSet(rec.Market, markets) {
			continue
		}
		view = append(view, rec)
	}
	return view
}

// Options reports the observed value space of the table: founded-year
// bounds plus sorted distinct countries and markets.
func Options(table *domain.Table) domain.FilterOptions {
	opts := domain.FilterOptions{
		Countries: []string{},
		Markets:   []string{},
	}

	countries := make(map[string]struct{})
	markets := make(map[string]struct{})
	first := true

	for _, rec := range table.Records {
		if rec.FoundedYear != nil {
			year := *rec.FoundedYear
			if first {
				opts.MinYear, opts.MaxYear = year, year
				first = false
			} else {
				if year < opts.MinYear {
					opts.MinYear = year
				}
				if year > opts.MaxYear {
					opts.MaxYear = year
				}
			}
		}
		if rec.CountryCode != "" {
			countries[rec.CountryCode] = struct{}{}
		}
		if rec.Market != "" {
			markets[rec.Market] = struct{}{}
		}
	}

	for c := range countries {
		opts.Countries = append(opts.Countries, c)
	}
	for m := range markets {
		opts.Markets = append(opts.Markets, m)
	}
	sort.Strings(opts.Countries)
	sort.Strings(opts.Markets)

	return opts
}

func toSet(values []string) map[string]struct{} {
	if len(values) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}

// matchesSet requires a non-empty value; a nil set means "all observed"
func matchesSet(value string, set map[string]struct{}) bool {
	if value == "" {
		return false
	}
	if set == nil {
		return true
	}
	_, ok := set[value]
	return ok
}
