package handlers

import (
	"net/http"
	"strconv"

	"github.com/findosh/marketiq/internal/models"
	"github.com/findosh/marketiq/internal/services/marketdata"
)

// ListCrypto returns all crypto assets
func (h *Handler) ListCrypto(w http.ResponseWriter, r *http.Request) {
	h.listAssets(w, r, models.FilterCrypto)
}

// ListStocks returns all stock assets
func (h *Handler) ListStocks(w http.ResponseWriter, r *http.Request) {
	h.listAssets(w, r, models.FilterStock)
}

// ListAssets returns assets filtered by the type query parameter
func (h *Handler) ListAssets(w http.ResponseWriter, r *http.Request) {
	filter, ok := models.ParseAssetFilter(r.URL.Query().Get("type"))
	if !ok {
		h.jsonError(w, "type must be one of all, stock, crypto", http.StatusBadRequest)
		return
	}
	h.listAssets(w, r, filter)
}

func (h *Handler) listAssets(w http.ResponseWriter, r *http.Request, filter models.AssetFilter) {
	assets, err := h.market.GetAssets(r.Context(), filter)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, assets)
}

// TopMovers returns assets with the largest absolute moves today
func (h *Handler) TopMovers(w http.ResponseWriter, r *http.Request) {
	limit := marketdata.DefaultMoversLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			h.jsonError(w, "limit must be a positive integer", http.StatusBadRequest)
			return
		}
		limit = n
	}

	movers, err := h.market.TopMovers(r.Context(), limit)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, movers)
}

// AssetProfile returns a quote with fundamentals for one symbol
func (h *Handler) AssetProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.market.Profile(r.Context(), r.PathValue("symbol"))
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, profile)
}

// PriceHistory returns daily closes for one symbol
func (h *Handler) PriceHistory(w http.ResponseWriter, r *http.Request) {
	period, ok := periodParam(r, models.Period1Day)
	if !ok {
		h.jsonError(w, "unknown period "+strconv.Quote(period), http.StatusBadRequest)
		return
	}

	prices, err := h.market.PriceHistory(r.Context(), r.PathValue("symbol"), period, h.now())
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, prices)
}

// MarketOverview returns overall market conditions
func (h *Handler) MarketOverview(w http.ResponseWriter, r *http.Request) {
	overview, err := h.market.MarketOverview(r.Context())
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, overview)
}

// MarketStatus reports whether the US stock market is open
func (h *Handler) MarketStatus(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.market.MarketStatus(h.now()))
}

// Narratives returns narratives, optionally filtered by category
func (h *Handler) Narratives(w http.ResponseWriter, r *http.Request) {
	narratives, err := h.market.Narratives(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, narratives)
}

// Leaderboard ranks one asset class by IQ score
func (h *Handler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	class := models.AssetClassCrypto
	if raw := r.URL.Query().Get("type"); raw != "" {
		c, ok := models.ParseAssetClass(raw)
		if !ok {
			h.jsonError(w, "type must be stock or crypto", http.StatusBadRequest)
			return
		}
		class = c
	}

	board, err := h.market.Leaderboard(r.Context(), class)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, board)
}

// periodParam reads the period query parameter, applying def when absent
func periodParam(r *http.Request, def string) (string, bool) {
	raw := r.URL.Query().Get("period")
	if raw == "" {
		return def, true
	}
	return models.NormalizePeriod(raw)
}
