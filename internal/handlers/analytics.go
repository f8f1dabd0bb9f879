package handlers

import (
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/findosh/marketiq/internal/demodata"
	"github.com/findosh/marketiq/internal/models"
	"github.com/findosh/marketiq/internal/services/analytics"
)

// consistencyTolerance is the allowed gap, in percentage points, between a
// reported contribution and weight * performance / 100
var consistencyTolerance = decimal.NewFromFloat(0.5)

// PortfolioPerformance returns the projected value series against the
// benchmark
func (h *Handler) PortfolioPerformance(w http.ResponseWriter, r *http.Request) {
	period, ok := periodParam(r, models.Period1Year)
	if !ok {
		h.jsonError(w, "unknown period "+strconv.Quote(period), http.StatusBadRequest)
		return
	}

	holdings, err := h.store.Holdings(r.PathValue("id"))
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	points := analytics.PerformanceSeries(holdings, period, h.now())
	if points == nil {
		points = []models.PerformancePoint{}
	}
	h.writeJSON(w, http.StatusOK, points)
}

type analyticsResponse struct {
	analytics.Summary
	ExpectedReturn decimal.Decimal                              `json:"expectedReturn"`
	Allocation     map[models.AssetClass]models.AllocationSlice `json:"allocation"`
}

// PortfolioAnalytics returns the headline metrics for a view
func (h *Handler) PortfolioAnalytics(w http.ResponseWriter, r *http.Request) {
	holdings, err := h.store.Holdings(r.PathValue("id"))
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, analyticsResponse{
		Summary:        analytics.Summarize(holdings),
		ExpectedReturn: analytics.ExpectedReturn(holdings).Round(2),
		Allocation:     analytics.AllocationByClass(holdings),
	})
}

type contributionResponse struct {
	analytics.Attribution
	Inconsistencies []analytics.Inconsistency `json:"inconsistencies"`
}

// ContributionReport attributes portfolio return to individual assets
func (h *Handler) ContributionReport(w http.ResponseWriter, r *http.Request) {
	entries := demodata.Contributions()
	if h.contributions != nil {
		stored, err := h.contributions.List(r.Context())
		if err != nil {
			h.serviceError(w, r, err)
			return
		}
		entries = stored
	}

	inconsistencies := analytics.CheckConsistency(entries, consistencyTolerance)
	if inconsistencies == nil {
		inconsistencies = []analytics.Inconsistency{}
	}
	for _, inc := range inconsistencies {
		h.logger.Debug().
			Str("asset", inc.Entry.Asset).
			Str("variance", inc.Variance.String()).
			Msg("contribution differs from weight * performance")
	}

	h.writeJSON(w, http.StatusOK, contributionResponse{
		Attribution:     analytics.Attribute(entries),
		Inconsistencies: inconsistencies,
	})
}
