package analytics

import (
	"github.com/findosh/marketiq/internal/models"
	"github.com/shopspring/decimal"
)

// Attribution partitions per-asset contributions to portfolio return
type Attribution struct {
	PositiveTotal decimal.Decimal            `json:"positiveTotal"`
	NegativeTotal decimal.Decimal            `json:"negativeTotal"` // zero or negative
	NetTotal      decimal.Decimal            `json:"netTotal"`
	Entries       []models.ContributionEntry `json:"entries"`
}

// Attribute sums positive and negative contributions separately. Entries
// with a zero contribution count toward neither total but are kept in
// Entries, which preserves the input order.
func Attribute(entries []models.ContributionEntry) Attribution {
	result := Attribution{
		PositiveTotal: decimal.Zero,
		NegativeTotal: decimal.Zero,
		Entries:       make([]models.ContributionEntry, len(entries)),
	}
	copy(result.Entries, entries)

	for _, e := range entries {
		switch e.Contribution.Sign() {
		case 1:
			result.PositiveTotal = result.PositiveTotal.Add(e.Contribution)
		case -1:
			result.NegativeTotal = result.NegativeTotal.Add(e.Contribution)
		}
	}

	result.NetTotal = result.PositiveTotal.Add(result.NegativeTotal)
	return result
}

// DefaultBarScale converts a contribution in percentage points into a bar
// width in percent of the available space.
var DefaultBarScale = decimal.NewFromInt(4)

// BarWidth returns min(100, |contribution| * scale)
func BarWidth(contribution, scale decimal.Decimal) decimal.Decimal {
	width := contribution.Abs().Mul(scale)
	if width.GreaterThan(hundred) {
		return hundred
	}
	return width
}

// Inconsistency describes an entry whose reported contribution differs from
// the weight-implied one.
type Inconsistency struct {
	Entry    models.ContributionEntry `json:"entry"`
	Implied  decimal.Decimal          `json:"implied"`
	Variance decimal.Decimal          `json:"variance"` // reported - implied
}

// CheckConsistency reports entries whose contribution deviates from
// weight * performance / 100 by more than tolerance percentage points.
// Contributions are supplied upstream and may be period-weighted
// differently, so the result is informational.
func CheckConsistency(entries []models.ContributionEntry, tolerance decimal.Decimal) []Inconsistency {
	var out []Inconsistency
	for _, e := range entries {
		implied := e.ImpliedContribution()
		variance := e.Contribution.Sub(implied)
		if variance.Abs().GreaterThan(tolerance) {
			out = append(out, Inconsistency{
				Entry:    e,
				Implied:  implied.Round(4),
				Variance: variance.Round(4),
			})
		}
	}
	return out
}
