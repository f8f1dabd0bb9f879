package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TotalView is the portfolio view that spans every holding regardless of
// sub-portfolio assignment.
const TotalView = "total"

// SubPortfolio is a user-defined grouping of holdings used for filtered views
type SubPortfolio struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Color       string    `json:"color"` // e.g., "blue", "#22c55e"
	CreatedAt   time.Time `json:"createdAt"`
}

// NewSubPortfolio creates a new sub-portfolio with generated ID
func NewSubPortfolio(name, description, color string) *SubPortfolio {
	return &SubPortfolio{
		ID:          uuid.New(),
		Name:        name,
		Description: description,
		Color:       color,
		CreatedAt:   time.Now().UTC(),
	}
}

// PortfolioSummary is the wire shape returned by the portfolios listing
type PortfolioSummary struct {
	ID                 string           `json:"id"`
	Name               string           `json:"name"`
	TotalValue         decimal.Decimal  `json:"totalValue"`
	DailyChange        decimal.Decimal  `json:"dailyChange"`
	DailyChangePercent decimal.Decimal  `json:"dailyChangePercent"`
	Assets             []PortfolioAsset `json:"assets"`
}

// PortfolioAsset is one line of a PortfolioSummary
type PortfolioAsset struct {
	Symbol string          `json:"symbol"`
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
	Value  decimal.Decimal `json:"value"`
	Change decimal.Decimal `json:"change"` // percent change today
}

// AllocationSlice represents a portion of the portfolio
type AllocationSlice struct {
	Value      decimal.Decimal `json:"value"`
	Percentage decimal.Decimal `json:"percentage"`
	Count      int             `json:"count"`
}
