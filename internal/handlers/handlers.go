// Package handlers provides the JSON HTTP API
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/findosh/marketiq/internal/config"
	"github.com/findosh/marketiq/internal/demodata"
	"github.com/findosh/marketiq/internal/logging"
	"github.com/findosh/marketiq/internal/models"
	"github.com/findosh/marketiq/internal/services/marketdata"
	"github.com/findosh/marketiq/internal/services/picks"
	"github.com/findosh/marketiq/internal/services/portfolio"
)

// ContributionSource supplies per-asset attribution entries.
// *storage.ContributionRepository implements it.
type ContributionSource interface {
	List(ctx context.Context) ([]models.ContributionEntry, error)
}

// Handler contains all HTTP handlers and dependencies
type Handler struct {
	cfg           *config.Config
	market        *marketdata.Service
	store         *portfolio.Store
	contributions ContributionSource
	picks         *picks.Service
	logger        *logging.Logger
	now           func() time.Time
}

// New creates a new handler with all dependencies. A nil contributions
// source serves the bundled demo entries.
func New(
	cfg *config.Config,
	market *marketdata.Service,
	store *portfolio.Store,
	contributions ContributionSource,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.NewSilent()
	}
	return &Handler{
		cfg:           cfg,
		market:        market,
		store:         store,
		contributions: contributions,
		picks:         picks.NewService(demodata.StockPicks(), demodata.AnalystConsensus()),
		logger:        logger,
		now:           time.Now,
	}
}

// Routes registers every endpoint on a new mux
func (h *Handler) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", h.Health)

	// Market data
	mux.HandleFunc("GET /api/crypto", h.ListCrypto)
	mux.HandleFunc("GET /api/stocks", h.ListStocks)
	mux.HandleFunc("GET /api/assets", h.ListAssets)
	mux.HandleFunc("GET /api/assets/top-movers", h.TopMovers)
	mux.HandleFunc("GET /api/assets/{symbol}", h.AssetProfile)
	mux.HandleFunc("GET /api/assets/{symbol}/history", h.PriceHistory)
	mux.HandleFunc("GET /api/market/overview", h.MarketOverview)
	mux.HandleFunc("GET /api/market/status", h.MarketStatus)
	mux.HandleFunc("GET /api/narratives", h.Narratives)
	mux.HandleFunc("GET /api/leaderboard", h.Leaderboard)

	// Portfolios
	mux.HandleFunc("GET /api/portfolios", h.ListPortfolios)
	mux.HandleFunc("GET /api/portfolios/{id}", h.GetPortfolio)
	mux.HandleFunc("GET /api/portfolios/{id}/performance", h.PortfolioPerformance)
	mux.HandleFunc("GET /api/portfolios/{id}/analytics", h.PortfolioAnalytics)
	mux.HandleFunc("POST /api/portfolios/{id}/holdings", h.AddHolding)
	mux.HandleFunc("POST /api/portfolios/{id}/import", h.ImportHoldings)
	mux.HandleFunc("DELETE /api/holdings/{id}", h.RemoveHolding)
	mux.HandleFunc("PUT /api/holdings/{id}/sub-portfolio", h.AssignHolding)
	mux.HandleFunc("GET /api/sub-portfolios", h.ListSubPortfolios)
	mux.HandleFunc("POST /api/sub-portfolios", h.CreateSubPortfolio)
	mux.HandleFunc("DELETE /api/sub-portfolios/{id}", h.DeleteSubPortfolio)

	// Stock picker
	mux.HandleFunc("GET /api/picks", h.StockPicks)
	mux.HandleFunc("GET /api/picks/summary", h.PicksSummary)
	mux.HandleFunc("GET /api/picks/consensus", h.AnalystConsensus)

	// Reports
	mux.HandleFunc("GET /api/reports/contribution", h.ContributionReport)

	return mux
}

// Health reports liveness
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{
		"status":      "ok",
		"environment": h.cfg.Server.Environment,
	})
}

// writeJSON writes v as a JSON response
func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Warn().Err(err).Msg("failed to encode response")
	}
}

// jsonError writes a JSON error response
func (h *Handler) jsonError(w http.ResponseWriter, message string, status int) {
	h.writeJSON(w, status, map[string]string{"error": message})
}

// serviceError maps a service error to a status code. Unexpected errors
// are logged and hidden from the caller.
func (h *Handler) serviceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, marketdata.ErrNotFound):
		h.jsonError(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, portfolio.ErrHoldingNotFound),
		errors.Is(err, portfolio.ErrSubPortfolioNotFound):
		h.jsonError(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, portfolio.ErrInvalidSymbol),
		errors.Is(err, portfolio.ErrInvalidQuantity),
		errors.Is(err, portfolio.ErrInvalidSubPortfolio):
		h.jsonError(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, portfolio.ErrDuplicateSubPortfolio):
		h.jsonError(w, err.Error(), http.StatusConflict)
	default:
		h.logger.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		h.jsonError(w, "Internal server error", http.StatusInternalServerError)
	}
}

// decodeBody decodes a JSON request body, rejecting unknown fields
func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
