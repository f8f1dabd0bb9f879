package handlers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/findosh/marketiq/internal/models"
	"github.com/findosh/marketiq/internal/services/picks"
)

// StockPicks returns the ranked picks of one universe, optionally limited to
// a minimum technical rating.
func (h *Handler) StockPicks(w http.ResponseWriter, r *http.Request) {
	category, ok := h.pickCategory(w, r)
	if !ok {
		return
	}

	var minRating models.Rating
	if raw := r.URL.Query().Get("rating"); raw != "" {
		minRating, ok = models.ParseRating(raw)
		if !ok {
			h.jsonError(w, "rating must be one of Strong Buy, Buy, Hold, Sell, Strong Sell", http.StatusBadRequest)
			return
		}
	}

	list, err := h.picks.Picks(category, minRating)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, list)
}

// PicksSummary returns the overview cards for one universe
func (h *Handler) PicksSummary(w http.ResponseWriter, r *http.Request) {
	category, ok := h.pickCategory(w, r)
	if !ok {
		return
	}

	sum, err := h.picks.Summarize(category)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, sum)
}

type analystResponse struct {
	models.Analyst
	WinRate decimal.Decimal `json:"winRate"`
}

// AnalystConsensus returns the consensus leaderboard with win rates
func (h *Handler) AnalystConsensus(w http.ResponseWriter, r *http.Request) {
	board := h.picks.Consensus()
	resp := make([]analystResponse, 0, len(board))
	for _, a := range board {
		resp = append(resp, analystResponse{Analyst: a, WinRate: picks.WinRate(a)})
	}
	h.writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) pickCategory(w http.ResponseWriter, r *http.Request) (picks.Category, bool) {
	category, err := picks.ParseCategory(r.URL.Query().Get("category"))
	if err != nil {
		h.jsonError(w, err.Error(), http.StatusBadRequest)
		return "", false
	}
	return category, true
}
