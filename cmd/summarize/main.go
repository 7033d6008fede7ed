package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"vcpulse/internal/analytics"
	"vcpulse/internal/dataset"
	"vcpulse/internal/format"
	"vcpulse/pkg/contracts/domain"
)

// summarize prints the headline dashboard metrics for a dataset file,
// optionally restricted to a filter selection. Useful for sanity-checking
// a dataset before pointing the web server at it.
func main() {
	var (
		dataPath  = flag.String("data", "data/investments_VC.csv", "path to the startup investments CSV")
		minYear   = flag.Int("min-year", 0, "minimum founding year (inclusive)")
		maxYear   = flag.Int("max-year", 9999, "maximum founding year (inclusive)")
		countries = flag.String("countries", "", "comma-separated country codes (empty means all)")
		markets   = flag.String("markets", "", "comma-separated markets (empty means all)")
		timeout   = flag.Duration("timeout", 2*time.Minute, "load timeout")
	)
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	loader := dataset.NewLoader(*dataPath, logger)
	table, err := loader.Load(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load dataset: %v\n", err)
		os.Exit(1)
	}

	sel := domain.FilterSelection{
		MinYear:   *minYear,
		MaxYear:   *maxYear,
		Countries: splitList(*countries),
		Markets:   splitList(*markets),
	}
	view := analytics.Filter(table, sel)

	fmt.Printf("Dataset: %s (%d records, %d in selection)\n\n", *dataPath, len(table.Records), len(view))

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "Total startups\t%d\n", analytics.TotalStartups(view))
	fmt.Fprintf(w, "Total funding\t%s\n", format.Magnitude(analytics.TotalFunding(view)))
	if avg := analytics.AvgFundingPerStartup(view); avg != nil {
		fmt.Fprintf(w, "Avg funding per startup\t%s\n", format.Magnitude(*avg))
	} else {
		fmt.Fprintf(w, "Avg funding per startup\tn/a\n")
	}
	fmt.Fprintf(w, "Countries covered\t%d\n", analytics.CountriesCovered(view))
	fmt.Fprintf(w, "Funding rounds\t%s\n", format.Magnitude(float64(analytics.TotalFundingRounds(view))))
	w.Flush()

	fmt.Printf("\nTop %d companies by funding:\n", analytics.TopCompaniesN)
	for i, c := range analytics.TopCompanies(view, analytics.TopCompaniesN) {
		fmt.Printf("  %2d. %s  %s (%d%% of leader)\n", i+1, c.Record.Name, format.Magnitude(c.Record.Funding()), c.PctOfMax)
	}

	fmt.Printf("\nTop %d countries by funding:\n", analytics.TopCountriesK)
	for i, c := range analytics.TopCountries(view, analytics.TopCountriesK) {
		fmt.Printf("  %2d. %s %s  %s (%d%% of total)\n", i+1, format.CountrySymbol(c.CountryCode), c.CountryCode, format.Magnitude(c.Sum), c.Share)
	}
}

func splitList(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
