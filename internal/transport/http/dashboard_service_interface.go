package http

import (
	"context"

	"vcpulse/pkg/contracts/domain"
)

// DashboardServiceInterface defines the dashboard operations the
// transport layer depends on. Satisfied by services.DashboardService;
// tests substitute a stub.
type DashboardServiceInterface interface {
	Summary(ctx context.Context, sel domain.FilterSelection) (*domain.SummaryMetrics, error)
	TopCompanies(ctx context.Context, sel domain.FilterSelection) ([]domain.CompanyFunding, error)
	TopCountries(ctx context.Context, sel domain.FilterSelection) ([]domain.CountryFunding, error)
	MarketTrend(ctx context.Context, sel domain.FilterSelection, market string) ([]domain.TrendPoint, error)
	YearlyTrend(ctx context.Context, sel domain.FilterSelection) ([]domain.TrendPoint, error)
	TopMarkets(ctx context.Context, sel domain.FilterSelection) ([]domain.MarketFunding, error)
	MarketDistribution(ctx context.Context, sel domain.FilterSelection) ([]domain.MarketShare, error)
	MarketWordWeights(ctx context.Context, sel domain.FilterSelection) ([]domain.MarketWeight, error)
	EmergingMarkets(ctx context.Context, sel domain.FilterSelection) ([]domain.MarketFunding, error)
	StatusOverview(ctx context.Context, sel domain.FilterSelection) ([]domain.StatusSlice, error)
	FilterOptions(ctx context.Context) (*domain.FilterOptions, error)
}
