package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apierrors "vcpulse/internal/errors"
	"vcpulse/pkg/contracts/domain"
)

// stubDashboardService records the selection it was called with and
// returns canned responses.
type stubDashboardService struct {
	lastSel    domain.FilterSelection
	lastMarket string
	err        error

	summary *domain.SummaryMetrics
	trend   []domain.TrendPoint
	opts    *domain.FilterOptions
}

func (s *stubDashboardService) Summary(ctx context.Context, sel domain.FilterSelection) (*domain.SummaryMetrics, error) {
	s.lastSel = sel
	if s.err != nil {
		return nil, s.err
	}
	if s.summary != nil {
		return s.summary, nil
	}
	return &domain.SummaryMetrics{}, nil
}

func (s *stubDashboardService) TopCompanies(ctx context.Context, sel domain.FilterSelection) ([]domain.CompanyFunding, error) {
	s.lastSel = sel
	return []domain.CompanyFunding{}, s.err
}

func (s *stubDashboardService) TopCountries(ctx context.Context, sel domain.FilterSelection) ([]domain.CountryFunding, error) {
	s.lastSel = sel
	return []domain.CountryFunding{}, s.err
}

func (s *stubDashboardService) MarketTrend(ctx context.Context, sel domain.FilterSelection, market string) ([]domain.TrendPoint, error) {
	s.lastSel = sel
	s.lastMarket = market
	return s.trend, s.err
}

func (s *stubDashboardService) YearlyTrend(ctx context.Context, sel domain.FilterSelection) ([]domain.TrendPoint, error) {
	s.lastSel = sel
	return s.trend, s.err
}

func (s *stubDashboardService) TopMarkets(ctx context.Context, sel domain.FilterSelection) ([]domain.MarketFunding, error) {
	s.lastSel = sel
	return []domain.MarketFunding{}, s.err
}

func (s *stubDashboardService) MarketDistribution(ctx context.Context, sel domain.FilterSelection) ([]domain.MarketShare, error) {
	s.lastSel = sel
	return []domain.MarketShare{}, s.err
}

func (s *stubDashboardService) MarketWordWeights(ctx context.Context, sel domain.FilterSelection) ([]domain.MarketWeight, error) {
	s.lastSel = sel
	return []domain.MarketWeight{}, s.err
}

func (s *stubDashboardService) EmergingMarkets(ctx context.Context, sel domain.FilterSelection) ([]domain.MarketFunding, error) {
	s.lastSel = sel
	return []domain.MarketFunding{}, s.err
}

func (s *stubDashboardService) StatusOverview(ctx context.Context, sel domain.FilterSelection) ([]domain.StatusSlice, error) {
	s.lastSel = sel
	return []domain.StatusSlice{}, s.err
}

func (s *stubDashboardService) FilterOptions(ctx context.Context) (*domain.FilterOptions, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.opts != nil {
		return s.opts, nil
	}
	return &domain.FilterOptions{Countries: []string{}, Markets: []string{}}, nil
}

func newTestHandler(stub *stubDashboardService) *DashboardHandler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewDashboardHandler(stub, logger, apierrors.NewErrorHandler(logger))
}

func doRequest(t *testing.T, handler *DashboardHandler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	handler.Routes().ServeHTTP(rec, req)
	return rec
}

func TestGetSummary(t *testing.T) {
	stub := &stubDashboardService{summary: &domain.SummaryMetrics{
		TotalStartups: 42,
		TotalFunding:  "$1.50B",
	}}
	rec := doRequest(t, newTestHandler(stub), "/summary")

	require.Equal(t, http.StatusOK, rec.Code)

	var got domain.SummaryMetrics
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, 42, got.TotalStartups)
	assert.Equal(t, "$1.50B", got.TotalFunding)
}

func TestParseSelection_Defaults(t *testing.T) {
	stub := &stubDashboardService{}
	rec := doRequest(t, newTestHandler(stub), "/summary")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, stub.lastSel.MinYear)
	assert.Equal(t, 9999, stub.lastSel.MaxYear)
	assert.Nil(t, stub.lastSel.Countries)
	assert.Nil(t, stub.lastSel.Markets)
}

func TestParseSelection_QueryParams(t *testing.T) {
	stub := &stubDashboardService{}
	rec := doRequest(t, newTestHandler(stub),
		"/summary?min_year=2005&max_year=2014&countries=USA,GBR&markets=Software")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2005, stub.lastSel.MinYear)
	assert.Equal(t, 2014, stub.lastSel.MaxYear)
	assert.Equal(t, []string{"USA", "GBR"}, stub.lastSel.Countries)
	assert.Equal(t, []string{"Software"}, stub.lastSel.Markets)
}

func TestParseSelection_NonIntegerYear(t *testing.T) {
	rec := doRequest(t, newTestHandler(&stubDashboardService{}), "/summary?min_year=abc")

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var problem map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	assert.Equal(t, "/errors/validation", problem["type"])
}

func TestParseSelection_YearOutOfRange(t *testing.T) {
	rec := doRequest(t, newTestHandler(&stubDashboardService{}), "/summary?min_year=99")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestParseSelection_InvertedInterval(t *testing.T) {
	rec := doRequest(t, newTestHandler(&stubDashboardService{}),
		"/summary?min_year=2015&max_year=2010")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetMarketTrend(t *testing.T) {
	stub := &stubDashboardService{trend: []domain.TrendPoint{{Year: 2011, FundingUSD: 1000}}}
	rec := doRequest(t, newTestHandler(stub), "/trend/market?market=Software")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Software", stub.lastMarket)

	var got []domain.TrendPoint
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, 2011, got[0].Year)
}

func TestGetMarketTrend_MissingMarket(t *testing.T) {
	rec := doRequest(t, newTestHandler(&stubDashboardService{}), "/trend/market")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServiceErrorBecomesProblem(t *testing.T) {
	stub := &stubDashboardService{err: errors.New("load dataset: disk gone")}
	rec := doRequest(t, newTestHandler(stub), "/summary")

	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var problem map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	assert.Equal(t, "/errors/internal", problem["type"])
	// Internal details must not leak into the response
	assert.NotContains(t, rec.Body.String(), "disk gone")
}

func TestDatasetErrorBecomesProblem(t *testing.T) {
	stub := &stubDashboardService{err: apierrors.ErrDatasetLoad}
	rec := doRequest(t, newTestHandler(stub), "/summary")

	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var problem map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	assert.Equal(t, "/errors/dataset/corrupted", problem["type"])
}

func TestGetFilterOptions(t *testing.T) {
	stub := &stubDashboardService{opts: &domain.FilterOptions{
		MinYear:   1990,
		MaxYear:   2014,
		Countries: []string{"GBR", "USA"},
		Markets:   []string{"Biotech"},
	}}
	rec := doRequest(t, newTestHandler(stub), "/filters")

	require.Equal(t, http.StatusOK, rec.Code)

	var got domain.FilterOptions
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, 1990, got.MinYear)
	assert.Equal(t, []string{"GBR", "USA"}, got.Countries)
}

func TestAllRoutesRegistered(t *testing.T) {
	paths := []string{
		"/summary",
		"/top-companies",
		"/top-countries",
		"/trend/yearly",
		"/top-markets",
		"/market-distribution",
		"/market-words",
		"/emerging-markets",
		"/status-overview",
		"/filters",
	}

	handler := newTestHandler(&stubDashboardService{})
	for _, path := range paths {
		rec := doRequest(t, handler, path)
		assert.Equalf(t, http.StatusOK, rec.Code, "route %s", path)
	}
}
