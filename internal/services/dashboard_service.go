package services

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"

	"vcpulse/internal/analytics"
	apierrors "vcpulse/internal/errors"
	"vcpulse/internal/format"
	"vcpulse/internal/infrastructure"
	"vcpulse/pkg/contracts/domain"
)

// TableProvider supplies the loaded dataset. Satisfied by
// dataset.Loader; tests substitute a small synthetic table.
type TableProvider interface {
	Load(ctx context.Context) (*domain.Table, error)
}

// DashboardService orchestrates the filter-and-aggregate pipeline:
// loaded table in, formatted dashboard data out. Every method is a full
// synchronous recomputation over the current selection.
type DashboardService struct {
	provider TableProvider
	logger   *slog.Logger
	metrics  *infrastructure.Metrics
}

// NewDashboardService creates a dashboard service with an injected logger
func NewDashboardService(provider TableProvider, logger *slog.Logger, metrics *infrastructure.Metrics) *DashboardService {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}
	return &DashboardService{
		provider: provider,
		logger:   infrastructure.WithComponent(logger, "dashboard_service"),
		metrics:  metrics,
	}
}

// loadError logs the underlying cause and maps it to the dataset error
// the transport layer can classify. The cause itself never reaches the
// response.
func (s *DashboardService) loadError(ctx context.Context, err error) error {
	s.logger.ErrorContext(ctx, "dataset load failed", slog.String("error", err.Error()))
	if errors.Is(err, fs.ErrNotExist) {
		return apierrors.ErrDatasetNotFound
	}
	return apierrors.ErrDatasetLoad
}

// view loads the table and applies the selection
func (s *DashboardService) view(ctx context.Context, sel domain.FilterSelection, resource string) ([]domain.StartupRecord, error) {
	table, err := s.provider.Load(ctx)
	if err != nil {
		return nil, s.loadError(ctx, err)
	}

	if s.metrics != nil {
		s.metrics.DashboardQueries.WithLabelValues(resource).Inc()
	}

	view := analytics.Filter(table, sel)
	s.logger.DebugContext(ctx, "filtered view computed",
		slog.String("resource", resource),
		slog.Int("rows", len(view)))

	return view, nil
}

// Summary computes the key-metrics strip for the selection
func (s *DashboardService) Summary(ctx context.Context, sel domain.FilterSelection) (*domain.SummaryMetrics, error) {
	view, err := s.view(ctx, sel, "summary")
	if err != nil {
		return nil, err
	}

	totalFunding := analytics.TotalFunding(view)
	totalRounds := analytics.TotalFundingRounds(view)

	summary := &domain.SummaryMetrics{
		TotalStartups:      analytics.TotalStartups(view),
		TotalFundingUSD:    totalFunding,
		TotalFunding:       format.Magnitude(totalFunding),
		CountriesCovered:   analytics.CountriesCovered(view),
		TotalFundingRounds: totalRounds,
		FundingRoundsLabel: format.Magnitude(float64(totalRounds)),
	}

	if avg := analytics.AvgFundingPerStartup(view); avg != nil {
		summary.AvgFundingUSD = avg
		summary.AvgFunding = format.Magnitude(*avg)
	}

	return summary, nil
}

// TopCompanies returns the top-funded companies with their progress
// percentage and display attributes.
func (s *DashboardService) TopCompanies(ctx context.Context, sel domain.FilterSelection) ([]domain.CompanyFunding, error) {
	view, err := s.view(ctx, sel, "top_companies")
	if err != nil {
		return nil, err
	}

	ranks := analytics.TopCompanies(view, analytics.TopCompaniesN)
	companies := make([]domain.CompanyFunding, 0, len(ranks))
	for _, rank := range ranks {
		companies = append(companies, domain.CompanyFunding{
			Name:        rank.Record.Name,
			Market:      rank.Record.Market,
			CountryCode: rank.Record.CountryCode,
			FundingUSD:  rank.Record.Funding(),
			Funding:     format.Magnitude(rank.Record.Funding()),
			PctOfMax:    rank.PctOfMax,
		})
	}
	return companies, nil
}

// TopCountries returns the top-5 countries by funding contribution
func (s *DashboardService) TopCountries(ctx context.Context, sel domain.FilterSelection) ([]domain.CountryFunding, error) {
	view, err := s.view(ctx, sel, "top_countries")
	if err != nil {
		return nil, err
	}

	shares := analytics.TopCountries(view, analytics.TopCountriesK)
	countries := make([]domain.CountryFunding, 0, len(shares))
	for _, share := range shares {
		countries = append(countries, domain.CountryFunding{
			CountryCode:  share.CountryCode,
			Symbol:       format.CountrySymbol(share.CountryCode),
			FundingUSD:   share.Sum,
			Funding:      format.Magnitude(share.Sum),
			ShareOfTotal: share.Share,
		})
	}
	return countries, nil
}

// MarketTrend returns the yearly funding series of one market
func (s *DashboardService) MarketTrend(ctx context.Context, sel domain.FilterSelection, market string) ([]domain.TrendPoint, error) {
	view, err := s.view(ctx, sel, "market_trend")
	if err != nil {
		return nil, err
	}
	return analytics.MarketTrend(view, market), nil
}

// YearlyTrend returns the yearly funding series across the whole view
func (s *DashboardService) YearlyTrend(ctx context.Context, sel domain.FilterSelection) ([]domain.TrendPoint, error) {
	view, err := s.view(ctx, sel, "yearly_trend")
	if err != nil {
		return nil, err
	}
	return analytics.YearlyTrend(view), nil
}

// TopMarkets returns the top-10 markets by total funding
func (s *DashboardService) TopMarkets(ctx context.Context, sel domain.FilterSelection) ([]domain.MarketFunding, error) {
	view, err := s.view(ctx, sel, "top_markets")
	if err != nil {
		return nil, err
	}

	groups := analytics.TopMarkets(view, analytics.TopMarketsN)
	markets := make([]domain.MarketFunding, 0, len(groups))
	for _, g := range groups {
		markets = append(markets, domain.MarketFunding{
			Market:     g.Key,
			FundingUSD: g.Sum,
			Funding:    format.Magnitude(g.Sum),
		})
	}
	return markets, nil
}

// MarketDistribution returns the top-10 market frequency shares
func (s *DashboardService) MarketDistribution(ctx context.Context, sel domain.FilterSelection) ([]domain.MarketShare, error) {
	view, err := s.view(ctx, sel, "market_distribution")
	if err != nil {
		return nil, err
	}
	return analytics.MarketDistribution(view, analytics.MarketDistributionN), nil
}

// MarketWordWeights returns market label frequencies for the word cloud
func (s *DashboardService) MarketWordWeights(ctx context.Context, sel domain.FilterSelection) ([]domain.MarketWeight, error) {
	view, err := s.view(ctx, sel, "market_words")
	if err != nil {
		return nil, err
	}
	return analytics.MarketWordWeights(view), nil
}

// EmergingMarkets ranks markets by funding among companies founded
// strictly after the cutoff year.
func (s *DashboardService) EmergingMarkets(ctx context.Context, sel domain.FilterSelection) ([]domain.MarketFunding, error) {
	view, err := s.view(ctx, sel, "emerging_markets")
	if err != nil {
		return nil, err
	}

	groups := analytics.EmergingMarkets(view, analytics.EmergingCutoffYear, analytics.EmergingTopK)
	markets := make([]domain.MarketFunding, 0, len(groups))
	for _, g := range groups {
		markets = append(markets, domain.MarketFunding{
			Market:     g.Key,
			FundingUSD: g.Sum,
			Funding:    format.Magnitude(g.Sum),
		})
	}
	return markets, nil
}

// StatusOverview returns the startup survival distribution
func (s *DashboardService) StatusOverview(ctx context.Context, sel domain.FilterSelection) ([]domain.StatusSlice, error) {
	view, err := s.view(ctx, sel, "status_overview")
	if err != nil {
		return nil, err
	}
	return analytics.StatusOverview(view), nil
}

// FilterOptions reports the observed value space of the full table
func (s *DashboardService) FilterOptions(ctx context.Context) (*domain.FilterOptions, error) {
	table, err := s.provider.Load(ctx)
	if err != nil {
		return nil, s.loadError(ctx, err)
	}

	opts := analytics.Options(table)
	return &opts, nil
}
