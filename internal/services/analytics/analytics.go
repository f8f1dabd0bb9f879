// Package analytics derives valuation, risk, diversity and attribution
// metrics from portfolio holdings. Every function is pure and safe for
// concurrent use.
package analytics

import (
	"github.com/findosh/marketiq/internal/models"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Totals is the aggregate valuation of a set of holdings
type Totals struct {
	TotalValue decimal.Decimal `json:"totalValue"`
	TotalPnL   decimal.Decimal `json:"totalPnL"`
}

// Aggregate computes total market value and total unrealized P&L.
// Negative quantities or prices are not rejected; they flow through the sums.
func Aggregate(holdings []models.Holding) Totals {
	totals := Totals{TotalValue: decimal.Zero, TotalPnL: decimal.Zero}
	for _, h := range holdings {
		totals.TotalValue = totals.TotalValue.Add(h.MarketValue())
		totals.TotalPnL = totals.TotalPnL.Add(h.UnrealizedPnL())
	}
	return totals
}

// Diversity score weights
const (
	perHoldingScore = 15
	perClassScore   = 20
	maxScore        = 100
)

// DiversityScore rewards both position count and asset-class spread, capped
// at 100. An empty portfolio scores 0.
func DiversityScore(holdings []models.Holding) int {
	classes := make(map[models.AssetClass]struct{})
	for _, h := range holdings {
		classes[h.AssetClass] = struct{}{}
	}

	score := len(holdings)*perHoldingScore + len(classes)*perClassScore
	if score > maxScore {
		return maxScore
	}
	return score
}

// AverageRisk returns the mean risk score of the holdings, or zero when
// there are none.
func AverageRisk(holdings []models.Holding) decimal.Decimal {
	if len(holdings) == 0 {
		return decimal.Zero
	}

	var sum int64
	for _, h := range holdings {
		sum += int64(h.RiskScore)
	}
	return decimal.NewFromInt(sum).Div(decimal.NewFromInt(int64(len(holdings))))
}

// Risk labels
const (
	LabelHighRisk   = "High Risk"
	LabelMediumRisk = "Medium Risk"
	LabelLowRisk    = "Low Risk"
)

// Risk band lower bounds, inclusive
var (
	highRiskFloor   = decimal.NewFromInt(80)
	mediumRiskFloor = decimal.NewFromInt(60)
)

// RiskLabel maps a risk score to its qualitative band.
// Bands are checked from the top down.
func RiskLabel(score decimal.Decimal) string {
	switch {
	case score.GreaterThanOrEqual(highRiskFloor):
		return LabelHighRisk
	case score.GreaterThanOrEqual(mediumRiskFloor):
		return LabelMediumRisk
	default:
		return LabelLowRisk
	}
}

// Presentation tones for risk bands
const (
	ToneDestructive = "destructive"
	ToneWarning     = "warning"
	ToneSuccess     = "success"
)

// RiskTone returns the display tone for a risk score using the same bands
// as RiskLabel.
func RiskTone(score decimal.Decimal) string {
	switch RiskLabel(score) {
	case LabelHighRisk:
		return ToneDestructive
	case LabelMediumRisk:
		return ToneWarning
	default:
		return ToneSuccess
	}
}

// Summary is the set of headline metrics shown for a portfolio view
type Summary struct {
	Totals
	HoldingCount   int             `json:"holdingCount"`
	DiversityScore int             `json:"diversityScore"`
	AverageRisk    decimal.Decimal `json:"averageRisk"`
	RiskLabel      string          `json:"riskLabel"`
	RiskTone       string          `json:"riskTone"`
}

// Summarize runs the aggregator and scorers over one holdings list
func Summarize(holdings []models.Holding) Summary {
	avg := AverageRisk(holdings)
	return Summary{
		Totals:         Aggregate(holdings),
		HoldingCount:   len(holdings),
		DiversityScore: DiversityScore(holdings),
		AverageRisk:    avg,
		RiskLabel:      RiskLabel(avg),
		RiskTone:       RiskTone(avg),
	}
}

// AllocationByClass breaks the holdings' market value down by asset class
func AllocationByClass(holdings []models.Holding) map[models.AssetClass]models.AllocationSlice {
	allocation := make(map[models.AssetClass]models.AllocationSlice)
	total := decimal.Zero

	for _, h := range holdings {
		value := h.MarketValue()
		slice := allocation[h.AssetClass]
		slice.Value = slice.Value.Add(value)
		slice.Count++
		allocation[h.AssetClass] = slice
		total = total.Add(value)
	}

	if total.IsZero() {
		return allocation
	}
	for class, slice := range allocation {
		slice.Percentage = slice.Value.Div(total).Mul(hundred).Round(2)
		allocation[class] = slice
	}
	return allocation
}
