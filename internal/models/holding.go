// Package models defines core domain types
package models

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func init() {
	// The dashboard consumes plain JSON numbers, not quoted strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// AssetClass categorizes holdings by type
type AssetClass string

const (
	AssetClassStock  AssetClass = "stock"
	AssetClassCrypto AssetClass = "crypto"
)

// AllAssetClasses returns all valid asset classes for iteration
func AllAssetClasses() []AssetClass {
	return []AssetClass{
		AssetClassStock,
		AssetClassCrypto,
	}
}

// DisplayName returns human-readable name for the asset class
func (a AssetClass) DisplayName() string {
	switch a {
	case AssetClassStock:
		return "Stocks"
	case AssetClassCrypto:
		return "Cryptocurrency"
	default:
		return string(a)
	}
}

// Valid reports whether a is one of the known asset classes
func (a AssetClass) Valid() bool {
	for _, c := range AllAssetClasses() {
		if a == c {
			return true
		}
	}
	return false
}

// ParseAssetClass converts user input into an AssetClass
func ParseAssetClass(s string) (AssetClass, bool) {
	c := AssetClass(strings.ToLower(strings.TrimSpace(s)))
	return c, c.Valid()
}

// AssetFilter selects which asset classes a listing returns
type AssetFilter string

const (
	FilterAll    AssetFilter = "all"
	FilterStock  AssetFilter = AssetFilter(AssetClassStock)
	FilterCrypto AssetFilter = AssetFilter(AssetClassCrypto)
)

// ParseAssetFilter converts a query value into a filter, defaulting to all
func ParseAssetFilter(s string) (AssetFilter, bool) {
	switch f := AssetFilter(strings.ToLower(strings.TrimSpace(s))); f {
	case "", FilterAll:
		return FilterAll, true
	case FilterStock, FilterCrypto:
		return f, true
	default:
		return FilterAll, false
	}
}

// Matches reports whether an asset of the given class passes the filter
func (f AssetFilter) Matches(class AssetClass) bool {
	return f == FilterAll || f == "" || AssetClass(f) == class
}

// DefaultRiskScore is the risk score assigned to a holding whose rating is
// not known from an authoritative source.
func DefaultRiskScore(class AssetClass) int {
	switch class {
	case AssetClassCrypto:
		return 75
	case AssetClassStock:
		return 55
	default:
		return 50
	}
}

// Holding represents a single position in a portfolio
type Holding struct {
	ID             uuid.UUID       `json:"id"`
	SubPortfolioID uuid.UUID       `json:"subPortfolioId"` // uuid.Nil when unassigned
	Symbol         string          `json:"symbol"`         // e.g., "NVDA"
	Name           string          `json:"name"`
	Quantity       decimal.Decimal `json:"quantity"`
	AverageCost    decimal.Decimal `json:"averageCost"`
	CurrentPrice   decimal.Decimal `json:"currentPrice"`
	AssetClass     AssetClass      `json:"type"`
	RiskScore      int             `json:"riskScore"` // 0-100, higher is riskier

	// Optional metadata shown next to the position
	LastNews      string           `json:"lastNews,omitempty"`
	NextEarnings  string           `json:"nextEarnings,omitempty"`
	DividendYield *decimal.Decimal `json:"dividendYield,omitempty"`

	// Estimated is set when price and risk fields are placeholders for an
	// asset that is not in the reference catalog.
	Estimated bool `json:"estimated"`
}

// NewHolding creates a new holding with generated ID
func NewHolding(symbol, name string, class AssetClass) *Holding {
	return &Holding{
		ID:           uuid.New(),
		Symbol:       strings.ToUpper(symbol),
		Name:         name,
		Quantity:     decimal.Zero,
		AverageCost:  decimal.Zero,
		CurrentPrice: decimal.Zero,
		AssetClass:   class,
		RiskScore:    DefaultRiskScore(class),
	}
}

// MarketValue returns quantity times current price
func (h Holding) MarketValue() decimal.Decimal {
	return h.Quantity.Mul(h.CurrentPrice)
}

// CostBasis returns quantity times average cost
func (h Holding) CostBasis() decimal.Decimal {
	return h.Quantity.Mul(h.AverageCost)
}

// UnrealizedPnL returns the unrealized gain/loss
func (h Holding) UnrealizedPnL() decimal.Decimal {
	return h.Quantity.Mul(h.CurrentPrice.Sub(h.AverageCost))
}

// UnrealizedPnLPercent returns the unrealized gain/loss as a percentage
func (h Holding) UnrealizedPnLPercent() decimal.Decimal {
	basis := h.CostBasis()
	if basis.IsZero() {
		return decimal.Zero
	}
	return h.UnrealizedPnL().Div(basis).Mul(decimal.NewFromInt(100)).Round(2)
}

// IsAssigned reports whether the holding belongs to a sub-portfolio
func (h Holding) IsAssigned() bool {
	return h.SubPortfolioID != uuid.Nil
}
