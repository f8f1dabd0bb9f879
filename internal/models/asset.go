package models

import (
	"github.com/shopspring/decimal"
)

// AssetQuote is a market snapshot of one asset as served to the dashboard
type AssetQuote struct {
	Rank              int             `json:"rank"`
	Symbol            string          `json:"symbol"`
	Name              string          `json:"name"`
	Price             decimal.Decimal `json:"price"`
	Change            decimal.Decimal `json:"change"`
	ChangePercent     decimal.Decimal `json:"changePercent"`
	IQScore           int             `json:"iqScore"` // 0-100 composite signal score
	Volume            decimal.Decimal `json:"volume"`
	RSI               decimal.Decimal `json:"rsi"`
	NarrativeSignal   string          `json:"narrativeSignal"`
	NarrativeStrength int             `json:"narrativeStrength"`
	Type              AssetClass      `json:"type"`
}

// Fundamentals holds optional company or network figures for an asset.
// Nil fields are unknown. Estimated is set when any value is derived rather
// than sourced.
type Fundamentals struct {
	MarketCap     *decimal.Decimal `json:"marketCap,omitempty"`
	EBITDA        *decimal.Decimal `json:"ebitda,omitempty"`
	PERatio       *decimal.Decimal `json:"peRatio,omitempty"`
	DividendYield *decimal.Decimal `json:"dividendYield,omitempty"`
	EPS           *decimal.Decimal `json:"eps,omitempty"`
	Revenue       *decimal.Decimal `json:"revenue,omitempty"`
	Sentiment     *int             `json:"sentiment,omitempty"`
	Estimated     bool             `json:"estimated"`
}

// AssetProfile is the deep-dive view of a single asset
type AssetProfile struct {
	AssetQuote
	Fundamentals Fundamentals `json:"fundamentals"`
}

// Dominance splits total crypto market cap by major asset
type Dominance struct {
	BTC    decimal.Decimal `json:"btc"`
	ETH    decimal.Decimal `json:"eth"`
	Others decimal.Decimal `json:"others"`
}

// ActiveNarrative is a compact narrative entry shown on the overview
type ActiveNarrative struct {
	Name     string `json:"name"`
	Strength int    `json:"strength"`
	Assets   int    `json:"assets"`
}

// MarketOverview summarises overall market conditions
type MarketOverview struct {
	TotalMarketCap   decimal.Decimal   `json:"totalMarketCap"`
	TotalVolume      decimal.Decimal   `json:"totalVolume"`
	FearGreedIndex   int               `json:"fearGreedIndex"`
	Dominance        Dominance         `json:"dominance"`
	ActiveNarratives []ActiveNarrative `json:"activeNarratives"`
}

// Narrative is a market theme and the assets riding it
type Narrative struct {
	Name        string          `json:"name"`
	Strength    int             `json:"strength"`
	Assets      []string        `json:"assets"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Trend       string          `json:"trend"` // "up", "down", "stable"
	Momentum    int             `json:"momentum"`
	MarketCap   decimal.Decimal `json:"marketCap"`
}

// ContributionEntry is one asset's performance attribution record.
// Weight, Performance and Contribution are percentages.
type ContributionEntry struct {
	Asset        string          `json:"asset"`
	Category     string          `json:"category,omitempty"`
	Weight       decimal.Decimal `json:"weight"`
	Performance  decimal.Decimal `json:"performance"`
	Contribution decimal.Decimal `json:"contribution"`
}

// ImpliedContribution returns weight * performance / 100, the contribution
// a simple weighted-return model would predict.
func (e ContributionEntry) ImpliedContribution() decimal.Decimal {
	return e.Weight.Mul(e.Performance).Div(decimal.NewFromInt(100))
}
