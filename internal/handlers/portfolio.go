package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/findosh/marketiq/internal/models"
	"github.com/findosh/marketiq/internal/services/importer"
	"github.com/findosh/marketiq/internal/services/portfolio"
)

// ListPortfolios returns the total view followed by every sub-portfolio
func (h *Handler) ListPortfolios(w http.ResponseWriter, r *http.Request) {
	portfolios, err := h.store.Portfolios(r.Context())
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, portfolios)
}

// GetPortfolio returns one portfolio view
func (h *Handler) GetPortfolio(w http.ResponseWriter, r *http.Request) {
	p, err := h.store.Portfolio(r.Context(), r.PathValue("id"))
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, p)
}

const maxImportBytes = 5 << 20

type addHoldingRequest struct {
	Symbol   string          `json:"symbol"`
	Quantity decimal.Decimal `json:"quantity"`
}

// AddHolding adds a position to a view. Positions added to the total view
// are left unassigned.
func (h *Handler) AddHolding(w http.ResponseWriter, r *http.Request) {
	var req addHoldingRequest
	if err := decodeBody(w, r, &req); err != nil {
		h.jsonError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	sub, ok := viewSubPortfolio(r.PathValue("id"))
	if !ok {
		h.jsonError(w, portfolio.ErrSubPortfolioNotFound.Error(), http.StatusNotFound)
		return
	}

	holding, err := h.store.AddAsset(r.Context(), portfolio.AddAssetInput{
		Symbol:         req.Symbol,
		Quantity:       req.Quantity,
		SubPortfolioID: sub,
	})
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.logger.Info().
		Str("symbol", holding.Symbol).
		Str("quantity", holding.Quantity.String()).
		Bool("estimated", holding.Estimated).
		Msg("holding added")
	h.writeJSON(w, http.StatusCreated, holding)
}

// viewSubPortfolio maps a view path segment to the sub-portfolio new
// positions go into. The total view maps to uuid.Nil.
func viewSubPortfolio(view string) (uuid.UUID, bool) {
	if strings.EqualFold(view, models.TotalView) {
		return uuid.Nil, true
	}
	id, err := uuid.Parse(view)
	return id, err == nil
}

// ImportHoldings adds every position from a brokerage CSV export in the
// request body.
func (h *Handler) ImportHoldings(w http.ResponseWriter, r *http.Request) {
	sub, ok := viewSubPortfolio(r.PathValue("id"))
	if !ok {
		h.jsonError(w, portfolio.ErrSubPortfolioNotFound.Error(), http.StatusNotFound)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxImportBytes)
	summary, err := importer.Import(r.Context(), h.store, r.Body, sub)
	switch {
	case errors.Is(err, importer.ErrEmptyFile),
		errors.Is(err, importer.ErrUnknownFormat),
		errors.Is(err, importer.ErrNoData):
		h.jsonError(w, err.Error(), http.StatusBadRequest)
		return
	case err != nil && summary == nil:
		h.jsonError(w, "Invalid CSV file", http.StatusBadRequest)
		return
	case err != nil:
		h.serviceError(w, r, err)
		return
	}

	h.logger.Info().
		Str("source", summary.Source).
		Int("added", len(summary.Added)).
		Int("skipped", len(summary.Skipped)).
		Msg("holdings imported")
	h.writeJSON(w, http.StatusCreated, summary)
}

// RemoveHolding deletes a position
func (h *Handler) RemoveHolding(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		h.jsonError(w, portfolio.ErrHoldingNotFound.Error(), http.StatusNotFound)
		return
	}
	if err := h.store.RemoveHolding(id); err != nil {
		h.serviceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type assignRequest struct {
	SubPortfolioID string `json:"subPortfolioId"` // empty unassigns
}

// AssignHolding moves a position into a sub-portfolio, or out of every
// sub-portfolio when the ID is empty.
func (h *Handler) AssignHolding(w http.ResponseWriter, r *http.Request) {
	holdingID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		h.jsonError(w, portfolio.ErrHoldingNotFound.Error(), http.StatusNotFound)
		return
	}

	var req assignRequest
	if err := decodeBody(w, r, &req); err != nil {
		h.jsonError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	subID := uuid.Nil
	if req.SubPortfolioID != "" {
		subID, err = uuid.Parse(req.SubPortfolioID)
		if err != nil {
			h.jsonError(w, portfolio.ErrSubPortfolioNotFound.Error(), http.StatusNotFound)
			return
		}
	}

	holding, err := h.store.Assign(holdingID, subID)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, holding)
}

// ListSubPortfolios returns every sub-portfolio
func (h *Handler) ListSubPortfolios(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.store.SubPortfolios())
}

type createSubPortfolioRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Color       string `json:"color"`
}

// CreateSubPortfolio adds a sub-portfolio
func (h *Handler) CreateSubPortfolio(w http.ResponseWriter, r *http.Request) {
	var req createSubPortfolioRequest
	if err := decodeBody(w, r, &req); err != nil {
		h.jsonError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	sp, err := h.store.CreateSubPortfolio(req.Name, req.Description, req.Color)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, sp)
}

// DeleteSubPortfolio removes a sub-portfolio; its holdings become unassigned
func (h *Handler) DeleteSubPortfolio(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		h.jsonError(w, portfolio.ErrSubPortfolioNotFound.Error(), http.StatusNotFound)
		return
	}
	if err := h.store.DeleteSubPortfolio(id); err != nil {
		h.serviceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
