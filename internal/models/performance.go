package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// PricePoint is one sample of an asset's price history
type PricePoint struct {
	Date  string          `json:"date"` // YYYY-MM-DD
	Price decimal.Decimal `json:"price"`
}

// PerformancePoint compares portfolio and benchmark value at a date
type PerformancePoint struct {
	Date      string          `json:"date"`
	Portfolio decimal.Decimal `json:"portfolio"`
	Benchmark decimal.Decimal `json:"benchmark"`
}

// DateLayout is the date format used on the wire
const DateLayout = "2006-01-02"

// Performance period constants
const (
	Period1Day   = "1D"
	Period1Week  = "1W"
	Period1Month = "1M"
	Period3Month = "3M"
	Period6Month = "6M"
	Period1Year  = "1Y"
	Period3Year  = "3Y"
	Period5Year  = "5Y"
	PeriodYTD    = "YTD"
	PeriodAll    = "ALL"
)

// NormalizePeriod upper-cases a period and reports whether it is known
func NormalizePeriod(period string) (string, bool) {
	p := strings.ToUpper(strings.TrimSpace(period))
	switch p {
	case Period1Day, Period1Week, Period1Month, Period3Month, Period6Month,
		Period1Year, Period3Year, Period5Year, PeriodYTD, PeriodAll:
		return p, true
	default:
		return p, false
	}
}

// PeriodDuration returns the duration for a period string
func PeriodDuration(period string) time.Duration {
	p, _ := NormalizePeriod(period)
	switch p {
	case Period1Day:
		return 24 * time.Hour
	case Period1Week:
		return 7 * 24 * time.Hour
	case Period1Month:
		return 30 * 24 * time.Hour
	case Period3Month:
		return 90 * 24 * time.Hour
	case Period6Month:
		return 180 * 24 * time.Hour
	case Period1Year:
		return 365 * 24 * time.Hour
	case Period3Year:
		return 3 * 365 * 24 * time.Hour
	case Period5Year, PeriodAll:
		return 5 * 365 * 24 * time.Hour
	default:
		return 365 * 24 * time.Hour
	}
}

// PeriodStart calculates the start date for a period ending at now
func PeriodStart(period string, now time.Time) time.Time {
	now = now.UTC()
	p, _ := NormalizePeriod(period)

	switch p {
	case Period1Day:
		return now.AddDate(0, 0, -1)
	case Period1Week:
		return now.AddDate(0, 0, -7)
	case Period1Month:
		return now.AddDate(0, -1, 0)
	case Period3Month:
		return now.AddDate(0, -3, 0)
	case Period6Month:
		return now.AddDate(0, -6, 0)
	case Period1Year:
		return now.AddDate(-1, 0, 0)
	case Period3Year:
		return now.AddDate(-3, 0, 0)
	case Period5Year, PeriodAll:
		return now.AddDate(-5, 0, 0)
	case PeriodYTD:
		return time.Date(now.Year(), 1, 1, 0, 0, 0, 0, time.UTC)
	default:
		return now.AddDate(-1, 0, 0)
	}
}

// AssetClassStats holds long-run return characteristics of an asset class,
// all in percent.
type AssetClassStats struct {
	Average    decimal.Decimal `json:"average"`
	Volatility decimal.Decimal `json:"volatility"`
	WorstYear  decimal.Decimal `json:"worstYear"`
}

// AssetClassReturns are the assumptions used to project performance series
var AssetClassReturns = map[AssetClass]AssetClassStats{
	AssetClassStock: {
		Average:    decimal.NewFromFloat(10.5),
		Volatility: decimal.NewFromFloat(15.0),
		WorstYear:  decimal.NewFromFloat(-37.0),
	},
	AssetClassCrypto: {
		Average:    decimal.NewFromFloat(45.0),
		Volatility: decimal.NewFromFloat(70.0),
		WorstYear:  decimal.NewFromFloat(-75.0),
	},
}

// BenchmarkReturn is the assumed annual return of the benchmark index (S&P 500)
var BenchmarkReturn = decimal.NewFromFloat(10.5)
