package dataset

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/text/encoding/charmap"

	"vcpulse/internal/infrastructure"
	"vcpulse/pkg/contracts/domain"
)

// Columns the loader requires in the header row. Additional columns are
// ignored; missing required columns make the whole load fail.
var requiredColumns = []string{
	"name", "market", "country_code", "founded_at",
	"funding_total_usd", "funding_rounds",
}

// dateLayouts are tried in order when deriving the founded year.
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"1/2/2006",
	"2006-01-02 15:04:05",
	"2006-01",
	"2006",
}

// Loader reads the startup-investment CSV once and caches the resulting
// table for the lifetime of the process. The cached table is immutable
// and safe for concurrent readers.
type Loader struct {
	path   string
	logger *slog.Logger

	mu    sync.Mutex
	table *domain.Table
}

// NewLoader creates a loader for the given source file
func NewLoader(path string, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}
	return &Loader{
		path:   path,
		logger: infrastructure.WithComponent(logger, "dataset_loader"),
	}
}

// Load returns the loaded table, parsing the source file on first call
// and serving the cached table afterwards. A file that cannot be located
// or whose header cannot be understood is a fatal error: no partial
// table is ever produced.
func (l *Loader) Load(ctx context.Context) (*domain.Table, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.table != nil {
		return l.table, nil
	}

	table, err := l.parse(ctx)
	if err != nil {
		return nil, err
	}

	l.table = table
	return table, nil
}

// ClearCache drops the cached table so the next Load re-parses the
// source. There is no other invalidation path.
func (l *Loader) ClearCache() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.table = nil
}

func (l *Loader) parse(ctx context.Context) (*domain.Table, error) {
	start := time.Now()

	f, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer f.Close()

	// The source file uses a legacy single-byte encoding
	reader := csv.NewReader(charmap.ISO8859_1.NewDecoder().Reader(f))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.TrimSpace(name)] = i
	}

	for _, col := range requiredColumns {
		if _, ok := columns[col]; !ok {
			return nil, fmt.Errorf("dataset missing required column: %s", col)
		}
	}

	var records []domain.StartupRecord
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read dataset row: %w", err)
		}

		if isEmptyRow(row) {
			continue
		}

		field := func(col string) string {
			idx, ok := columns[col]
			if !ok || idx >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[idx])
		}

		region := field("region")
		city := field("city")

		records = append(records, domain.StartupRecord{
			Name:            field("name"),
			Market:          field("market"),
			CountryCode:     field("country_code"),
			Region:          region,
			City:            city,
			Status:          strings.ToLower(field("status")),
			RegionClean:     cleanRegion(region, city),
			FoundedYear:     parseFoundedYear(field("founded_at")),
			FundingTotalUSD: coerceFunding(field("funding_total_usd")),
			FundingRounds:   parseRounds(field("funding_rounds")),
		})
	}

	l.logger.InfoContext(ctx, "dataset loaded",
		slog.String("path", l.path),
		slog.Int("records", len(records)),
		slog.String("duration", time.Since(start).String()))

	return &domain.Table{
		Records:  records,
		Source:   l.path,
		LoadedAt: time.Now(),
	}, nil
}

// isEmptyRow reports whether every cell of the row is blank
func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// coerceFunding turns a currency-formatted amount into a number.
// Currency symbols, thousands separators and stray spaces are stripped
// first; anything that still fails to parse is absent, never zero.
func coerceFunding(s string) *float64 {
	cleaned := strings.NewReplacer("$", "", ",", "", " ", "").Replace(s)
	if cleaned == "" || cleaned == "-" {
		return nil
	}

	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || v < 0 {
		return nil
	}
	return &v
}

// parseFoundedYear extracts a 4-digit calendar year from the founding
// date, or absent when the date is missing or unparseable.
func parseFoundedYear(s string) *int {
	if s == "" {
		return nil
	}

	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		year := t.Year()
		if year < 1000 || year > 9999 {
			return nil
		}
		return &year
	}
	return nil
}

// parseRounds parses the funding-round count, treating bad values as 0
func parseRounds(s string) int64 {
	cleaned := strings.ReplaceAll(s, ",", "")
	v, err := strconv.ParseInt(cleaned, 10, 64)
	if err != nil {
		return 0
	}
	return v
}

// cleanRegion prefers region over city and collapses internal whitespace
func cleanRegion(region, city string) string {
	value := region
	if value == "" {
		value = city
	}
	return strings.Join(strings.Fields(value), " ")
}
