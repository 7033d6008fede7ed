package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vcpulse/pkg/contracts/domain"
)

func fundingPtr(v float64) *float64 { return &v }
func yearPtr(y int) *int            { return &y }

func testTable(records ...domain.StartupRecord) *domain.Table {
	return &domain.Table{Records: records, Source: "test"}
}

func TestFilter_YearInterval(t *testing.T) {
	table := testTable(
		domain.StartupRecord{Name: "Early", CountryCode: "USA", Market: "Software", FoundedYear: yearPtr(1999)},
		domain.StartupRecord{Name: "Mid", CountryCode: "USA", Market: "Software", FoundedYear: yearPtr(2010)},
		domain.StartupRecord{Name: "Late", CountryCode: "USA", Market: "Software", FoundedYear: yearPtr(2020)},
	)

	view := Filter(table, domain.FilterSelection{MinYear: 2000, MaxYear: 2015})

	require.Len(t, view, 1)
	assert.Equal(t, "Mid", view[0].Name)
}

func TestFilter_IntervalIsClosed(t *testing.T) {
	table := testTable(
		domain.StartupRecord{Name: "Lower", CountryCode: "USA", Market: "Software", FoundedYear: yearPtr(2005)},
		domain.StartupRecord{Name: "Upper", CountryCode: "USA", Market: "Software", FoundedYear: yearPtr(2012)},
	)

	view := Filter(table, domain.FilterSelection{MinYear: 2005, MaxYear: 2012})

	assert.Len(t, view, 2)
}

func TestFilter_AbsentYearNeverMatches(t *testing.T) {
	table := testTable(
		domain.StartupRecord{Name: "NoYear", CountryCode: "USA", Market: "Software"},
		domain.StartupRecord{Name: "HasYear", CountryCode: "USA", Market: "Software", FoundedYear: yearPtr(2010)},
	)

	view := Filter(table, domain.FullRange())

	require.Len(t, view, 1)
	assert.Equal(t, "HasYear", view[0].Name)
}

func TestFilter_CountryAndMarketSets(t *testing.T) {
	table := testTable(
		domain.StartupRecord{Name: "A", CountryCode: "USA", Market: "Software", FoundedYear: yearPtr(2010)},
		domain.StartupRecord{Name: "B", CountryCode: "GBR", Market: "Software", FoundedYear: yearPtr(2010)},
		domain.StartupRecord{Name: "C", CountryCode: "USA", Market: "Biotech", FoundedYear: yearPtr(2010)},
	)

	tests := []struct {
		name      string
		countries []string
		markets   []string
		want      []string
	}{
		{
			name: "empty sets select all",
			want: []string{"A", "B", "C"},
		},
		{
			name:      "country restriction",
			countries: []string{"USA"},
			want:      []string{"A", "C"},
		},
		{
			name:    "market restriction",
			markets: []string{"Software"},
			want:    []string{"A", "B"},
		},
		{
			name:      "conjunction of both",
			countries: []string{"USA"},
			markets:   []string{"Software"},
			want:      []string{"A"},
		},
		{
			name:      "no match",
			countries: []string{"DEU"},
			want:      []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sel := domain.FullRange()
			sel.Countries = tt.countries
			sel.Markets = tt.markets

			view := Filter(table, sel)

			got := make([]string, 0, len(view))
			for _, rec := range view {
				got = append(got, rec.Name)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFilter_EmptySetStillExcludesMissingAttribute(t *testing.T) {
	table := testTable(
		domain.StartupRecord{Name: "NoCountry", Market: "Software", FoundedYear: yearPtr(2010)},
		domain.StartupRecord{Name: "NoMarket", CountryCode: "USA", FoundedYear: yearPtr(2010)},
		domain.StartupRecord{Name: "Complete", CountryCode: "USA", Market: "Software", FoundedYear: yearPtr(2010)},
	)

	view := Filter(table, domain.FullRange())

	require.Len(t, view, 1)
	assert.Equal(t, "Complete", view[0].Name)
}

func TestFilter_PreservesOrder(t *testing.T) {
	table := testTable(
		domain.StartupRecord{Name: "First", CountryCode: "USA", Market: "Software", FoundedYear: yearPtr(2012)},
		domain.StartupRecord{Name: "Second", CountryCode: "USA", Market: "Software", FoundedYear: yearPtr(2008)},
		domain.StartupRecord{Name: "Third", CountryCode: "USA", Market: "Software", FoundedYear: yearPtr(2010)},
	)

	view := Filter(table, domain.FullRange())

	require.Len(t, view, 3)
	assert.Equal(t, "First", view[0].Name)
	assert.Equal(t, "Second", view[1].Name)
	assert.Equal(t, "Third", view[2].Name)
}

func TestFilter_FullRangeIsIdentity(t *testing.T) {
	table := testTable(
		domain.StartupRecord{Name: "A", CountryCode: "USA", Market: "Software", FoundedYear: yearPtr(1995)},
		domain.StartupRecord{Name: "B", CountryCode: "IND", Market: "Biotech", FoundedYear: yearPtr(2020)},
	)

	view := Filter(table, domain.FullRange())

	assert.Equal(t, table.Records, view)
}

func TestFilter_ConjunctiveScenario(t *testing.T) {
	table := testTable(
		domain.StartupRecord{Name: "A", CountryCode: "USA", Market: "Software",
			FoundedYear: yearPtr(2010), FundingTotalUSD: fundingPtr(1_000_000)},
		domain.StartupRecord{Name: "B", CountryCode: "IND", Market: "Software",
			FoundedYear: yearPtr(2020), FundingTotalUSD: fundingPtr(2_000_000)},
	)

	view := Filter(table, domain.FilterSelection{
		MinYear:   2015,
		MaxYear:   2020,
		Countries: []string{"IND"},
		Markets:   []string{"Software"},
	})

	require.Len(t, view, 1)
	assert.Equal(t, "B", view[0].Name)
	assert.Equal(t, 2_000_000.0, TotalFunding(view))
	assert.Equal(t, 1, TotalStartups(view))
}

func TestOptions(t *testing.T) {
	table := testTable(
		domain.StartupRecord{Name: "A", CountryCode: "USA", Market: "Software", FoundedYear: yearPtr(2003)},
		domain.StartupRecord{Name: "B", CountryCode: "GBR", Market: "Biotech", FoundedYear: yearPtr(2014)},
		domain.StartupRecord{Name: "C", CountryCode: "USA", Market: "Software", FoundedYear: yearPtr(1998)},
		domain.StartupRecord{Name: "NoYear", CountryCode: "DEU", Market: "Gaming"},
	)

	opts := Options(table)

	assert.Equal(t, 1998, opts.MinYear)
	assert.Equal(t, 2014, opts.MaxYear)
	assert.Equal(t, []string{"DEU", "GBR", "USA"}, opts.Countries)
	assert.Equal(t, []string{"Biotech", "Gaming", "Software"}, opts.Markets)
}

func TestOptions_EmptyTable(t *testing.T) {
	opts := Options(testTable())

	assert.Zero(t, opts.MinYear)
	assert.Zero(t, opts.MaxYear)
	assert.Empty(t, opts.Countries)
	assert.Empty(t, opts.Markets)
	assert.NotNil(t, opts.Countries)
	assert.NotNil(t, opts.Markets)
}
