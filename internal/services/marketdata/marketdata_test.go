package marketdata

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/findosh/marketiq/internal/demodata"
	"github.com/findosh/marketiq/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingCatalog struct {
	*demodata.Catalog
	lookups atomic.Int32
}

func (c *countingCatalog) Asset(ctx context.Context, symbol string) (models.AssetQuote, error) {
	c.lookups.Add(1)
	return c.Catalog.Asset(ctx, symbol)
}

type failingCatalog struct {
	*demodata.Catalog
}

func (failingCatalog) Asset(ctx context.Context, symbol string) (models.AssetQuote, error) {
	return models.AssetQuote{}, errors.New("database is locked")
}

func newTestService() (*Service, *countingCatalog) {
	catalog := &countingCatalog{Catalog: demodata.NewCatalog()}
	return NewService(Config{Provider: ProviderMock, CacheTTL: time.Hour}, catalog), catalog
}

func TestService_GetQuote(t *testing.T) {
	svc, _ := newTestService()

	quote, err := svc.GetQuote(context.Background(), "nvda")
	require.NoError(t, err)
	assert.Equal(t, "NVDA", quote.Symbol)
	assert.True(t, quote.Price.Equal(decimal.RequireFromString("789.45")))
}

func TestService_GetQuote_Cached(t *testing.T) {
	svc, catalog := newTestService()
	ctx := context.Background()

	_, err := svc.GetQuote(ctx, "AAPL")
	require.NoError(t, err)
	_, err = svc.GetQuote(ctx, "aapl")
	require.NoError(t, err)

	assert.Equal(t, int32(1), catalog.lookups.Load())
}

func TestService_GetQuote_NotFound(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Lookup(context.Background(), "zzz")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))

	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "ZZZ", nf.Symbol)
	assert.Contains(t, err.Error(), `"ZZZ" was not found`)
}

func TestService_GetQuote_CatalogFailure(t *testing.T) {
	svc := NewService(Config{}, failingCatalog{demodata.NewCatalog()})

	_, err := svc.GetQuote(context.Background(), "BTC")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrNotFound))
	assert.Contains(t, err.Error(), "database is locked")
}

func TestService_GetQuotes(t *testing.T) {
	svc, _ := newTestService()

	quotes, err := svc.GetQuotes(context.Background(), []string{"BTC", "eth", "MSFT", "NOPE"})
	require.NoError(t, err)
	assert.Len(t, quotes, 3)
	assert.Contains(t, quotes, "ETH")

	_, err = svc.GetQuotes(context.Background(), []string{"NOPE"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestService_TopMovers(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	movers, err := svc.TopMovers(ctx, 0)
	require.NoError(t, err)
	require.Len(t, movers, DefaultMoversLimit)
	for i := 1; i < len(movers); i++ {
		assert.True(t,
			movers[i-1].ChangePercent.Abs().GreaterThanOrEqual(movers[i].ChangePercent.Abs()),
			"%s before %s", movers[i-1].Symbol, movers[i].Symbol)
	}
	assert.Equal(t, "RNDR", movers[0].Symbol)

	movers, err = svc.TopMovers(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, movers, 3)
}

func TestService_Leaderboard(t *testing.T) {
	svc, _ := newTestService()

	board, err := svc.Leaderboard(context.Background(), models.AssetClassStock)
	require.NoError(t, err)
	require.NotEmpty(t, board)

	for i, a := range board {
		assert.Equal(t, models.AssetClassStock, a.Type)
		assert.Equal(t, i+1, a.Rank)
		if i > 0 {
			assert.LessOrEqual(t, a.IQScore, board[i-1].IQScore)
		}
	}
}

func TestService_Profile(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	stock, err := svc.Profile(ctx, "NVDA")
	require.NoError(t, err)
	require.NotNil(t, stock.Fundamentals.MarketCap)
	assert.True(t, stock.Fundamentals.MarketCap.Equal(decimal.RequireFromString("789450000000")))
	assert.True(t, stock.Fundamentals.Estimated)
	assert.Nil(t, stock.Fundamentals.PERatio)
	require.NotNil(t, stock.Fundamentals.Sentiment)
	assert.Equal(t, 68, *stock.Fundamentals.Sentiment)

	crypto, err := svc.Profile(ctx, "SOL")
	require.NoError(t, err)
	assert.True(t, crypto.Fundamentals.MarketCap.Equal(decimal.RequireFromString("240000000000")))

	_, err = svc.Profile(ctx, "NOPE")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestService_PriceHistory_Stock(t *testing.T) {
	svc, _ := newTestService()
	friday := time.Date(2024, 6, 14, 12, 0, 0, 0, time.UTC)

	prices, err := svc.PriceHistory(context.Background(), "NVDA", models.Period1Week, friday)
	require.NoError(t, err)
	require.Len(t, prices, 5)

	assert.Equal(t, "2024-06-10", prices[0].Date)
	assert.Equal(t, "2024-06-14", prices[4].Date)
	assert.True(t, prices[4].Price.Equal(decimal.RequireFromString("789.45")))

	for _, p := range prices {
		d, err := time.Parse(models.DateLayout, p.Date)
		require.NoError(t, err)
		assert.NotEqual(t, time.Saturday, d.Weekday())
		assert.NotEqual(t, time.Sunday, d.Weekday())
	}
}

func TestService_PriceHistory_CryptoIncludesWeekends(t *testing.T) {
	svc, _ := newTestService()
	friday := time.Date(2024, 6, 14, 12, 0, 0, 0, time.UTC)

	prices, err := svc.PriceHistory(context.Background(), "SOL", models.Period1Week, friday)
	require.NoError(t, err)
	assert.Len(t, prices, 7)
}

func TestService_PriceHistory_Deterministic(t *testing.T) {
	svc, _ := newTestService()
	now := time.Date(2024, 6, 14, 12, 0, 0, 0, time.UTC)

	a, err := svc.PriceHistory(context.Background(), "AAPL", models.Period1Month, now)
	require.NoError(t, err)
	b, err := svc.PriceHistory(context.Background(), "AAPL", models.Period1Month, now)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestService_Narratives(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	all, err := svc.Narratives(ctx, "all")
	require.NoError(t, err)
	assert.Len(t, all, 6)

	tech, err := svc.Narratives(ctx, "technology")
	require.NoError(t, err)
	assert.Len(t, tech, 2)

	categories, err := svc.NarrativeCategories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Technology", "Crypto", "Energy", "Entertainment", "Healthcare"}, categories)
}

func TestService_RefreshHoldings(t *testing.T) {
	svc, _ := newTestService()

	stale := models.NewHolding("BTC", "Bitcoin", models.AssetClassCrypto)
	stale.CurrentPrice = decimal.NewFromInt(1)
	unknown := models.NewHolding("XYZ", "XYZ Asset", models.AssetClassStock)
	unknown.CurrentPrice = decimal.NewFromInt(3)

	holdings := []models.Holding{*stale, *unknown}
	updated, err := svc.RefreshHoldings(context.Background(), holdings)
	require.NoError(t, err)

	assert.True(t, updated[0].CurrentPrice.Equal(decimal.RequireFromString("67234.50")))
	assert.True(t, updated[1].CurrentPrice.Equal(decimal.NewFromInt(3)))
	assert.True(t, holdings[0].CurrentPrice.Equal(decimal.NewFromInt(1)), "input must not be mutated")
}

func TestService_IsMarketOpen(t *testing.T) {
	svc, _ := newTestService()

	// Friday around midday Eastern
	assert.True(t, svc.IsMarketOpen(time.Date(2024, 6, 14, 16, 0, 0, 0, time.UTC)))
	// Saturday
	assert.False(t, svc.IsMarketOpen(time.Date(2024, 6, 15, 16, 0, 0, 0, time.UTC)))
	// Friday late evening Eastern
	assert.False(t, svc.IsMarketOpen(time.Date(2024, 6, 15, 2, 0, 0, 0, time.UTC)))
}

func TestService_MarketStatus(t *testing.T) {
	svc, _ := newTestService()

	open := svc.MarketStatus(time.Date(2024, 6, 14, 16, 0, 0, 0, time.UTC))
	assert.True(t, open.IsOpen)
	require.NotNil(t, open.NextClose)
	assert.Equal(t, 16, open.NextClose.Hour())

	closed := svc.MarketStatus(time.Date(2024, 6, 15, 16, 0, 0, 0, time.UTC))
	assert.False(t, closed.IsOpen)
	require.NotNil(t, closed.NextOpen)
	assert.Equal(t, time.Monday, closed.NextOpen.Weekday())
	assert.Equal(t, 9, closed.NextOpen.Hour())
	assert.Equal(t, 30, closed.NextOpen.Minute())
	assert.Equal(t, "Market is closed", closed.Message)
}

func TestMemoryCache_Expiry(t *testing.T) {
	cache := NewMemoryCache(time.Minute)
	now := time.Date(2024, 6, 14, 12, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "btc", models.AssetQuote{Symbol: "BTC"}))

	q, ok, err := cache.Get(ctx, "BTC")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "BTC", q.Symbol)

	now = now.Add(time.Minute)
	_, ok, err = cache.Get(ctx, "BTC")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 1, cache.Len())
}
