package analytics

import (
	"time"

	"github.com/findosh/marketiq/internal/models"
	"github.com/shopspring/decimal"
)

var daysPerYear = decimal.NewFromInt(365)

// ExpectedReturn is the value-weighted average of each holding's asset class
// long-run return, in percent per year.
func ExpectedReturn(holdings []models.Holding) decimal.Decimal {
	total := Aggregate(holdings).TotalValue
	if total.IsZero() {
		return decimal.Zero
	}

	weighted := decimal.Zero
	for _, h := range holdings {
		stats, ok := models.AssetClassReturns[h.AssetClass]
		if !ok {
			continue
		}
		weight := h.MarketValue().Div(total)
		weighted = weighted.Add(weight.Mul(stats.Average))
	}
	return weighted
}

// PerformanceSeries projects the portfolio value over period against the
// benchmark. The series ends at the current total value on now and is walked
// backward using the expected return; the benchmark starts from the same
// value and grows at BenchmarkReturn. Points are daily, or weekly for
// periods longer than a year. Returns nil when the portfolio has no value.
func PerformanceSeries(holdings []models.Holding, period string, now time.Time) []models.PerformancePoint {
	total := Aggregate(holdings).TotalValue
	if total.IsZero() {
		return nil
	}

	end := now.UTC()
	start := models.PeriodStart(period, end)

	step := 1
	if end.Sub(start).Hours()/24 > 365 {
		step = 7
	}

	dates := make([]time.Time, 0)
	for current := start; current.Before(end); current = current.AddDate(0, 0, step) {
		dates = append(dates, current)
	}
	dates = append(dates, end)

	portfolioDaily := ExpectedReturn(holdings).Div(daysPerYear).Div(hundred)
	benchmarkDaily := models.BenchmarkReturn.Div(daysPerYear).Div(hundred)

	growth := func(daily decimal.Decimal, from, to time.Time) decimal.Decimal {
		days := decimal.NewFromFloat(to.Sub(from).Hours() / 24)
		return decimal.NewFromInt(1).Add(daily.Mul(days))
	}

	// Walk the portfolio backward from today's value
	values := make([]decimal.Decimal, len(dates))
	values[len(values)-1] = total
	for i := len(dates) - 2; i >= 0; i-- {
		values[i] = values[i+1].Div(growth(portfolioDaily, dates[i], dates[i+1]))
	}

	points := make([]models.PerformancePoint, len(dates))
	benchmark := values[0]
	for i, d := range dates {
		if i > 0 {
			benchmark = benchmark.Mul(growth(benchmarkDaily, dates[i-1], d))
		}
		points[i] = models.PerformancePoint{
			Date:      d.Format(models.DateLayout),
			Portfolio: values[i].Round(2),
			Benchmark: benchmark.Round(2),
		}
	}

	return points
}
