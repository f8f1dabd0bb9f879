package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/findosh/marketiq/internal/demodata"
	"github.com/findosh/marketiq/internal/logging"
	"github.com/findosh/marketiq/internal/models"
	"github.com/findosh/marketiq/internal/services/analytics"
	"github.com/findosh/marketiq/internal/services/picks"
	"github.com/findosh/marketiq/internal/services/portfolio"
)

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "$20,178.00", formatMoney(decimal.RequireFromString("20178")))
	assert.Equal(t, "$789.45", formatMoney(decimal.RequireFromString("789.45")))
	assert.Equal(t, "$0.12", formatMoney(decimal.RequireFromString("0.129")))
	assert.Equal(t, "+$1,973.00", formatSignedMoney(decimal.RequireFromString("1973")))
}

func TestFormatPercent(t *testing.T) {
	assert.Equal(t, "+6.57%", formatPercent(decimal.RequireFromString("6.57")))
	assert.Equal(t, "-2.10%", formatPercent(decimal.RequireFromString("-2.1")))
	assert.Equal(t, "0.00%", formatPercent(decimal.Zero))
}

func TestFormatCompact(t *testing.T) {
	assert.Equal(t, "$2.45T", formatCompact(decimal.RequireFromString("2450000000000")))
	assert.Equal(t, "$98.70B", formatCompact(decimal.RequireFromString("98700000000")))
	assert.Equal(t, "$4.80M", formatCompact(decimal.RequireFromString("4800000")))
	assert.Equal(t, "$950.00", formatCompact(decimal.RequireFromString("950")))
}

func TestPortfolioMarkdown(t *testing.T) {
	holdings := demodata.Holdings()
	md := PortfolioMarkdown("Total Portfolio", analytics.Summarize(holdings), holdings)

	assert.Contains(t, md, "# Total Portfolio")
	assert.Contains(t, md, "$20,178.00")
	assert.Contains(t, md, "+$1,973.00")
	assert.Contains(t, md, "70/100")
	assert.Contains(t, md, "High Risk (80)")
	assert.Contains(t, md, "| NVDA | NVIDIA Corporation |")
	assert.Contains(t, md, "| SOL | Solana |")

	empty := PortfolioMarkdown("Empty", analytics.Summarize(nil), nil)
	assert.Contains(t, empty, "No holdings")
	assert.Contains(t, empty, "Low Risk")
}

func TestContributionMarkdown(t *testing.T) {
	entries := demodata.Contributions()
	md := ContributionMarkdown(analytics.Attribute(entries), analytics.CheckConsistency(entries, decimal.NewFromFloat(0.5)))

	assert.Contains(t, md, "**Positive contributors:** +62.90%")
	assert.Contains(t, md, "**Negative contributors:** -2.10%")
	assert.Contains(t, md, "**Net contribution:** +60.80%")
	assert.Contains(t, md, "| JPM |")
	assert.Contains(t, md, "## Data Notes")
	assert.Contains(t, md, "AAPL: reported +15.20%")
}

func TestProfileMarkdown(t *testing.T) {
	market, _ := localServices(logging.NewSilent())
	profile, err := market.Profile(context.Background(), "NVDA")
	require.NoError(t, err)

	md := ProfileMarkdown(profile)
	assert.Contains(t, md, "# NVIDIA Corporation (NVDA)")
	assert.Contains(t, md, "$789.45")
	assert.Contains(t, md, "| Market Cap | $789.45B |")
	assert.Contains(t, md, "| Sentiment | 68/100 |")
	assert.Contains(t, md, "estimated")
	assert.NotContains(t, md, "P/E Ratio")
}

func TestQuotesMarkdown(t *testing.T) {
	md := QuotesMarkdown("Top Movers", demodata.TopMovers(3))
	assert.Contains(t, md, "# Top Movers")
	assert.Contains(t, md, "| 1 | BTC | Bitcoin |")

	assert.Contains(t, QuotesMarkdown("Empty", nil), "No assets")
}

func TestOverviewMarkdown(t *testing.T) {
	md := OverviewMarkdown(demodata.MarketOverview(), []models.PortfolioSummary{{
		Name:               "Total Portfolio",
		TotalValue:         decimal.NewFromInt(20178),
		DailyChange:        decimal.RequireFromString("1244.3"),
		DailyChangePercent: decimal.RequireFromString("6.57"),
	}})
	assert.Contains(t, md, "$2.45T")
	assert.Contains(t, md, "**Fear & Greed:** 72")
	assert.Contains(t, md, "| Total Portfolio | $20,178.00 | +$1,244.30 (+6.57%) |")
}

func TestHistoryMarkdown(t *testing.T) {
	md := HistoryMarkdown("SOL", "1W", []models.PricePoint{
		{Date: "2024-06-13", Price: decimal.NewFromInt(200)},
		{Date: "2024-06-14", Price: decimal.NewFromInt(210)},
	})
	assert.Contains(t, md, "(+5.00%)")
	assert.Contains(t, md, "| 2024-06-14 | $210.00 |")

	assert.Contains(t, HistoryMarkdown("SOL", "1W", nil), "No price history")
}

func TestParsePositions(t *testing.T) {
	inputs, err := parsePositions("AAPL=5, btc=0.1,")
	require.NoError(t, err)
	require.Len(t, inputs, 2)
	assert.Equal(t, "AAPL", inputs[0].Symbol)
	assert.True(t, inputs[1].Quantity.Equal(decimal.RequireFromString("0.1")))

	_, err = parsePositions("AAPL")
	assert.Error(t, err)
	_, err = parsePositions("AAPL=lots")
	assert.Error(t, err)
}

func TestResolveView(t *testing.T) {
	_, store := localServices(logging.NewSilent())

	view, title, err := resolveView(store, "")
	require.NoError(t, err)
	assert.Equal(t, models.TotalView, view)
	assert.Equal(t, "Total Portfolio", title)

	view, title, err = resolveView(store, "crypto")
	require.NoError(t, err)
	assert.Equal(t, demodata.CryptoPortfolioID.String(), view)
	assert.Equal(t, "Crypto", title)

	_, _, err = resolveView(store, "Income")
	assert.ErrorIs(t, err, portfolio.ErrSubPortfolioNotFound)
}

func TestPicksMarkdown(t *testing.T) {
	svc := picks.NewService(demodata.StockPicks(), demodata.AnalystConsensus())
	list, err := svc.Picks(picks.CategoryLargeCap, "")
	require.NoError(t, err)
	sum, err := svc.Summarize(picks.CategoryLargeCap)
	require.NoError(t, err)

	md := PicksMarkdown(sum, list)
	assert.Contains(t, md, "# Stock Picks: Large Cap")
	assert.Contains(t, md, "**Average confidence:** 88.4%")
	assert.Contains(t, md, "| 1 | NVDA | NVIDIA Corporation | 98 | Strong Buy (Upgraded) | $789.45 | +1.98% | 1.9T |")

	board := ConsensusMarkdown(svc.Consensus())
	assert.Contains(t, board, "| 1 | Neural Alpha | 89.2% | 247 | 220 | 89.1% | 8 |")
}

func TestImportFile(t *testing.T) {
	_, store := localServices(logging.NewSilent())
	path := filepath.Join(t.TempDir(), "positions.csv")
	require.NoError(t, os.WriteFile(path, []byte("symbol,quantity\nAAPL,3\nMSFT,1\n"), 0o600))

	crypto := demodata.CryptoPortfolioID.String()
	require.NoError(t, importFile(context.Background(), store, path, crypto))

	held, err := store.Holdings(crypto)
	require.NoError(t, err)
	assert.Len(t, held, 3)

	assert.Error(t, importFile(context.Background(), store, filepath.Join(t.TempDir(), "missing.csv"), models.TotalView))
}

func TestWriteMarkdown_Raw(t *testing.T) {
	var buf bytes.Buffer
	writeMarkdown(&buf, "# Title\n", true)
	assert.Equal(t, "# Title\n", buf.String())
}

func TestRegister_AllCommandsNamed(t *testing.T) {
	seen := make(map[string]bool)
	for _, e := range Commands {
		name := e.Cmd.Name()
		assert.False(t, seen[name], "duplicate command %s", name)
		seen[name] = true
		assert.NotEmpty(t, e.Cmd.Synopsis())
		assert.NotEmpty(t, e.Cmd.Usage())
	}
	for _, want := range []string{"serve", "portfolio", "report", "lookup", "movers", "leaderboard", "picks"} {
		assert.True(t, seen[want], want)
	}
}
