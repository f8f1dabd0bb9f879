package cli

import (
	"fmt"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"

	"github.com/findosh/marketiq/internal/models"
	"github.com/findosh/marketiq/internal/services/analytics"
	"github.com/findosh/marketiq/internal/services/picks"
)

// currency every amount is displayed in
const currency = money.USD

// formatMoney renders an amount with symbol and thousands separators,
// truncated to cents.
func formatMoney(amount decimal.Decimal) string {
	cur := money.GetCurrency(currency)
	factor, _ := decimal.NewFromInt(10).PowInt32(int32(cur.Fraction))
	return money.New(amount.Mul(factor).IntPart(), currency).Display()
}

// formatSignedMoney prefixes gains with "+"
func formatSignedMoney(amount decimal.Decimal) string {
	if amount.IsPositive() {
		return "+" + formatMoney(amount)
	}
	return formatMoney(amount)
}

func formatPercent(p decimal.Decimal) string {
	sign := ""
	if p.IsPositive() {
		sign = "+"
	}
	return sign + p.StringFixed(2) + "%"
}

// formatCompact abbreviates large amounts, e.g. $2.45T
func formatCompact(amount decimal.Decimal) string {
	units := []struct {
		suffix string
		size   decimal.Decimal
	}{
		{"T", decimal.New(1, 12)},
		{"B", decimal.New(1, 9)},
		{"M", decimal.New(1, 6)},
	}
	for _, u := range units {
		if amount.Abs().GreaterThanOrEqual(u.size) {
			return "$" + amount.Div(u.size).StringFixed(2) + u.suffix
		}
	}
	return formatMoney(amount)
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

// PortfolioMarkdown renders the summary cards and holdings of one view
func PortfolioMarkdown(title string, summary analytics.Summary, holdings []models.Holding) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", title)
	fmt.Fprintf(&b, "| Total Value | Total P&L | Diversity | Risk |\n")
	fmt.Fprintf(&b, "|---|---|---|---|\n")
	fmt.Fprintf(&b, "| %s | %s | %d/100 | %s (%s) |\n\n",
		formatMoney(summary.TotalValue),
		formatSignedMoney(summary.TotalPnL),
		summary.DiversityScore,
		summary.RiskLabel,
		summary.AverageRisk.StringFixed(0),
	)

	if len(holdings) == 0 {
		b.WriteString("_No holdings in this view._\n")
		return b.String()
	}

	b.WriteString("## Holdings\n\n")
	b.WriteString("| Symbol | Name | Quantity | Price | Value | P&L | Risk |\n")
	b.WriteString("|---|---|---:|---:|---:|---:|---:|\n")
	for _, h := range holdings {
		name := escapeCell(h.Name)
		if h.Estimated {
			name += " (estimated)"
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s (%s) | %d |\n",
			h.Symbol,
			name,
			h.Quantity.String(),
			formatMoney(h.CurrentPrice),
			formatMoney(h.MarketValue()),
			formatSignedMoney(h.UnrealizedPnL()),
			formatPercent(h.UnrealizedPnLPercent()),
			h.RiskScore,
		)
	}
	return b.String()
}

// ContributionMarkdown renders the attribution report with a text bar per
// asset scaled like the dashboard chart.
func ContributionMarkdown(attr analytics.Attribution, inconsistencies []analytics.Inconsistency) string {
	var b strings.Builder
	scale := analytics.DefaultBarScale

	b.WriteString("# Contribution Analysis\n\n")
	fmt.Fprintf(&b, "- **Positive contributors:** %s\n", formatPercent(attr.PositiveTotal))
	fmt.Fprintf(&b, "- **Negative contributors:** %s\n", formatPercent(attr.NegativeTotal))
	fmt.Fprintf(&b, "- **Net contribution:** %s\n\n", formatPercent(attr.NetTotal))

	b.WriteString("| Asset | Weight | Performance | Contribution | |\n")
	b.WriteString("|---|---:|---:|---:|---|\n")
	for _, e := range attr.Entries {
		width := analytics.BarWidth(e.Contribution, scale)
		bar := strings.Repeat("█", int(width.Div(decimal.NewFromInt(5)).Ceil().IntPart()))
		fmt.Fprintf(&b, "| %s | %s%% | %s | %s | %s |\n",
			escapeCell(e.Asset),
			e.Weight.StringFixed(1),
			formatPercent(e.Performance),
			formatPercent(e.Contribution),
			bar,
		)
	}

	if len(inconsistencies) > 0 {
		b.WriteString("\n## Data Notes\n\n")
		b.WriteString("These contributions differ from weight × performance:\n\n")
		for _, inc := range inconsistencies {
			fmt.Fprintf(&b, "- %s: reported %s, implied %s\n",
				escapeCell(inc.Entry.Asset),
				formatPercent(inc.Entry.Contribution),
				formatPercent(inc.Implied),
			)
		}
	}
	return b.String()
}

// ProfileMarkdown renders the deep-dive view of one asset
func ProfileMarkdown(p models.AssetProfile) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s (%s)\n\n", p.Name, p.Symbol)
	fmt.Fprintf(&b, "**%s** %s (%s) · IQ score %d · %s\n\n",
		formatMoney(p.Price),
		formatSignedMoney(p.Change),
		formatPercent(p.ChangePercent),
		p.IQScore,
		p.Type.DisplayName(),
	)

	b.WriteString("| Metric | Value |\n|---|---|\n")
	fmt.Fprintf(&b, "| Volume | %s |\n", formatCompact(p.Volume))
	fmt.Fprintf(&b, "| RSI | %s |\n", p.RSI.StringFixed(1))
	fmt.Fprintf(&b, "| Narrative | %s (%d) |\n", escapeCell(p.NarrativeSignal), p.NarrativeStrength)

	f := p.Fundamentals
	optional := []struct {
		label string
		value *decimal.Decimal
		money bool
	}{
		{"Market Cap", f.MarketCap, true},
		{"EBITDA", f.EBITDA, true},
		{"Revenue", f.Revenue, true},
		{"P/E Ratio", f.PERatio, false},
		{"EPS", f.EPS, false},
		{"Dividend Yield", f.DividendYield, false},
	}
	for _, o := range optional {
		if o.value == nil {
			continue
		}
		v := o.value.StringFixed(2)
		if o.money {
			v = formatCompact(*o.value)
		}
		fmt.Fprintf(&b, "| %s | %s |\n", o.label, v)
	}
	if f.Sentiment != nil {
		fmt.Fprintf(&b, "| Sentiment | %d/100 |\n", *f.Sentiment)
	}

	if f.Estimated {
		b.WriteString("\n_Fundamentals are estimated._\n")
	}
	return b.String()
}

// QuotesMarkdown renders a ranked asset table
func QuotesMarkdown(title string, quotes []models.AssetQuote) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", title)
	if len(quotes) == 0 {
		b.WriteString("_No assets._\n")
		return b.String()
	}

	b.WriteString("| # | Symbol | Name | Price | Change | IQ | Signal |\n")
	b.WriteString("|---:|---|---|---:|---:|---:|---|\n")
	for i, q := range quotes {
		fmt.Fprintf(&b, "| %d | %s | %s | %s | %s | %d | %s |\n",
			i+1,
			q.Symbol,
			escapeCell(q.Name),
			formatMoney(q.Price),
			formatPercent(q.ChangePercent),
			q.IQScore,
			escapeCell(q.NarrativeSignal),
		)
	}
	return b.String()
}

// OverviewMarkdown renders market conditions and portfolio totals
func OverviewMarkdown(o models.MarketOverview, portfolios []models.PortfolioSummary) string {
	var b strings.Builder

	b.WriteString("# Market Overview\n\n")
	fmt.Fprintf(&b, "- **Market cap:** %s\n", formatCompact(o.TotalMarketCap))
	fmt.Fprintf(&b, "- **24h volume:** %s\n", formatCompact(o.TotalVolume))
	fmt.Fprintf(&b, "- **Fear & Greed:** %d\n", o.FearGreedIndex)
	fmt.Fprintf(&b, "- **Dominance:** BTC %s%% · ETH %s%% · Others %s%%\n",
		o.Dominance.BTC.StringFixed(1), o.Dominance.ETH.StringFixed(1), o.Dominance.Others.StringFixed(1))

	if len(portfolios) > 0 {
		b.WriteString("\n## Portfolios\n\n| Portfolio | Value | Today |\n|---|---:|---:|\n")
		for _, p := range portfolios {
			fmt.Fprintf(&b, "| %s | %s | %s (%s) |\n",
				escapeCell(p.Name),
				formatMoney(p.TotalValue),
				formatSignedMoney(p.DailyChange),
				formatPercent(p.DailyChangePercent),
			)
		}
	}
	return b.String()
}

// HistoryMarkdown renders a price series
func HistoryMarkdown(symbol, period string, prices []models.PricePoint) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s price history (%s)\n\n", symbol, period)
	if len(prices) == 0 {
		b.WriteString("_No price history available._\n")
		return b.String()
	}

	first, last := prices[0].Price, prices[len(prices)-1].Price
	if !first.IsZero() {
		change := last.Sub(first).Div(first).Mul(decimal.NewFromInt(100))
		fmt.Fprintf(&b, "%s → %s (%s)\n\n", formatMoney(first), formatMoney(last), formatPercent(change))
	}

	b.WriteString("| Date | Price |\n|---|---:|\n")
	for _, p := range prices {
		fmt.Fprintf(&b, "| %s | %s |\n", p.Date, formatMoney(p.Price))
	}
	return b.String()
}

// PicksMarkdown renders the overview cards and ranked picks of one universe
func PicksMarkdown(sum picks.Summary, list []models.StockPick) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Stock Picks: %s\n\n", sum.Category.DisplayName())
	fmt.Fprintf(&b, "- **Picks:** %d (%d Strong Buy, %d upgraded)\n", sum.Count, sum.StrongBuys, sum.Upgrades)
	fmt.Fprintf(&b, "- **Average confidence:** %s%%\n", sum.AverageConfidence.StringFixed(1))
	fmt.Fprintf(&b, "- **Average IQ score:** %s\n\n", sum.AverageIQScore.StringFixed(1))

	if len(list) == 0 {
		b.WriteString("_No picks match._\n")
		return b.String()
	}

	b.WriteString("| # | Symbol | Name | IQ | Rating | Price | Change | Cap | Signal |\n")
	b.WriteString("|---:|---|---|---:|---|---:|---:|---:|---|\n")
	for _, p := range list {
		rating := string(p.TechnicalRating)
		if p.RatingChange != "" {
			rating += " (" + string(p.RatingChange) + ")"
		}
		fmt.Fprintf(&b, "| %d | %s | %s | %d | %s | %s | %s | %s | %s |\n",
			p.StockRank,
			p.Symbol,
			escapeCell(p.Name),
			p.IQScore,
			rating,
			formatMoney(p.Price),
			formatPercent(p.ChangePercent),
			p.MarketCap,
			escapeCell(p.Signal),
		)
	}
	return b.String()
}

// ConsensusMarkdown renders the analyst leaderboard
func ConsensusMarkdown(board []models.Analyst) string {
	var b strings.Builder

	b.WriteString("# Consensus Leaderboard\n\n")
	b.WriteString("| # | Analyst | Accuracy | Picks | Wins | Win rate | Streak |\n")
	b.WriteString("|---:|---|---:|---:|---:|---:|---:|\n")
	for _, a := range board {
		fmt.Fprintf(&b, "| %d | %s | %s%% | %d | %d | %s%% | %d |\n",
			a.Rank,
			escapeCell(a.Name),
			a.Accuracy.StringFixed(1),
			a.Picks,
			a.Wins,
			picks.WinRate(a).StringFixed(1),
			a.Streak,
		)
	}
	return b.String()
}
