package http

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "vcpulse/internal/errors"
	"vcpulse/internal/infrastructure"
	"vcpulse/internal/validation"
	"vcpulse/pkg/contracts/domain"
)

// DashboardHandler serves the dashboard aggregates as JSON. The filter
// selection comes in as query parameters on every request; each request
// triggers a full recomputation over the cached table.
type DashboardHandler struct {
	service      DashboardServiceInterface
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(service DashboardServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *DashboardHandler {
	return &DashboardHandler{
		service:      service,
		logger:       infrastructure.WithComponent(logger, "dashboard_handler"),
		errorHandler: errorHandler,
	}
}

// Routes returns the dashboard routes
func (h *DashboardHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/summary", h.GetSummary)
	r.Get("/top-companies", h.GetTopCompanies)
	r.Get("/top-countries", h.GetTopCountries)
	r.Get("/trend/market", h.GetMarketTrend)
	r.Get("/trend/yearly", h.GetYearlyTrend)
	r.Get("/top-markets", h.GetTopMarkets)
	r.Get("/market-distribution", h.GetMarketDistribution)
	r.Get("/market-words", h.GetMarketWordWeights)
	r.Get("/emerging-markets", h.GetEmergingMarkets)
	r.Get("/status-overview", h.GetStatusOverview)
	r.Get("/filters", h.GetFilterOptions)

	return r
}

// parseSelection builds the filter selection from query parameters.
// Missing year bounds leave the interval unbounded; list parameters are
// comma-separated and empty lists mean "all observed values".
func parseSelection(r *http.Request) (domain.FilterSelection, *apierrors.APIError) {
	q := r.URL.Query()
	sel := domain.FullRange()

	if v := q.Get("min_year"); v != "" {
		year, err := strconv.Atoi(v)
		if err != nil {
			return sel, apierrors.ErrValidation("min_year", "must be an integer year")
		}
		sel.MinYear = year
	}
	if v := q.Get("max_year"); v != "" {
		year, err := strconv.Atoi(v)
		if err != nil {
			return sel, apierrors.ErrValidation("max_year", "must be an integer year")
		}
		sel.MaxYear = year
	}

	sel.Countries = splitList(q.Get("countries"))
	sel.Markets = splitList(q.Get("markets"))

	params := validation.FilterParams{
		MinYear:   sel.MinYear,
		MaxYear:   sel.MaxYear,
		Countries: sel.Countries,
		Markets:   sel.Markets,
	}
	if apiErr := validation.ValidateFilterParams(params); apiErr != nil {
		return sel, apiErr
	}

	return sel, nil
}

// splitList parses a comma-separated query value into a trimmed slice
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
	if len(out) == 0 {
		return nil
	}
	return out
}

// GetSummary handles GET /api/dashboard/summary
func (h *DashboardHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	sel, apiErr := parseSelection(r)
	if apiErr != nil {
		h.errorHandler.HandleError(w, r, apiErr)
		return
	}

	summary, err := h.service.Summary(r.Context(), sel)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, summary)
}

// GetTopCompanies handles GET /api/dashboard/top-companies
func (h *DashboardHandler) GetTopCompanies(w http.ResponseWriter, r *http.Request) {
	sel, apiErr := parseSelection(r)
	if apiErr != nil {
		h.errorHandler.HandleError(w, r, apiErr)
		return
	}

	companies, err := h.service.TopCompanies(r.Context(), sel)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, companies)
}

// GetTopCountries handles GET /api/dashboard/top-countries
func (h *DashboardHandler) GetTopCountries(w http.ResponseWriter, r *http.Request) {
	sel, apiErr := parseSelection(r)
	if apiErr != nil {
		h.errorHandler.HandleError(w, r, apiErr)
		return
	}

	countries, err := h.service.TopCountries(r.Context(), sel)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, countries)
}

// GetMarketTrend handles GET /api/dashboard/trend/market
func (h *DashboardHandler) GetMarketTrend(w http.ResponseWriter, r *http.Request) {
	sel, apiErr := parseSelection(r)
	if apiErr != nil {
		h.errorHandler.HandleError(w, r, apiErr)
		return
	}

	market := strings.TrimSpace(r.URL.Query().Get("market"))
	if market == "" {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("market", "Market is required"))
		return
	}

	trend, err := h.service.MarketTrend(r.Context(), sel, market)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, trend)
}

// GetYearlyTrend handles GET /api/dashboard/trend/yearly
func (h *DashboardHandler) GetYearlyTrend(w http.ResponseWriter, r *http.Request) {
	sel, apiErr := parseSelection(r)
	if apiErr != nil {
		h.errorHandler.HandleError(w, r, apiErr)
		return
	}

	trend, err := h.service.YearlyTrend(r.Context(), sel)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, trend)
}

// GetTopMarkets handles GET /api/dashboard/top-markets
func (h *DashboardHandler) GetTopMarkets(w http.ResponseWriter, r *http.Request) {
	sel, apiErr := parseSelection(r)
	if apiErr != nil {
		h.errorHandler.HandleError(w, r, apiErr)
		return
	}

	markets, err := h.service.TopMarkets(r.Context(), sel)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, markets)
}

// GetMarketDistribution handles GET /api/dashboard/market-distribution
func (h *DashboardHandler) GetMarketDistribution(w http.ResponseWriter, r *http.Request) {
	sel, apiErr := parseSelection(r)
	if apiErr != nil {
		h.errorHandler.HandleError(w, r, apiErr)
		return
	}

	shares, err := h.service.MarketDistribution(r.Context(), sel)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, shares)
}

// GetMarketWordWeights handles GET /api/dashboard/market-words
func (h *DashboardHandler) GetMarketWordWeights(w http.ResponseWriter, r *http.Request) {
	sel, apiErr := parseSelection(r)
	if apiErr != nil {
		h.errorHandler.HandleError(w, r, apiErr)
		return
	}

	weights, err := h.service.MarketWordWeights(r.Context(), sel)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, weights)
}

// GetEmergingMarkets handles GET /api/dashboard/emerging-markets
func (h *DashboardHandler) GetEmergingMarkets(w http.ResponseWriter, r *http.Request) {
	sel, apiErr := parseSelection(r)
	if apiErr != nil {
		h.errorHandler.HandleError(w, r, apiErr)
		return
	}

	markets, err := h.service.EmergingMarkets(r.Context(), sel)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, markets)
}

// GetStatusOverview handles GET /api/dashboard/status-overview
func (h *DashboardHandler) GetStatusOverview(w http.ResponseWriter, r *http.Request) {
	sel, apiErr := parseSelection(r)
	if apiErr != nil {
		h.errorHandler.HandleError(w, r, apiErr)
		return
	}

	overview, err := h.service.StatusOverview(r.Context(), sel)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, overview)
}

// GetFilterOptions handles GET /api/dashboard/filters
func (h *DashboardHandler) GetFilterOptions(w http.ResponseWriter, r *http.Request) {
	opts, err := h.service.FilterOptions(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, opts)
}
