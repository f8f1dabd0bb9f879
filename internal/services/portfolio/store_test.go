package portfolio

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/findosh/marketiq/internal/demodata"
	"github.com/findosh/marketiq/internal/models"
	"github.com/findosh/marketiq/internal/services/analytics"
	"github.com/findosh/marketiq/internal/services/marketdata"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSeededStore(t *testing.T) *Store {
	t.Helper()
	svc := marketdata.NewService(marketdata.Config{}, demodata.NewCatalog())
	store := NewStore(svc, nil)
	store.Seed(demodata.Holdings(), demodata.SubPortfolios())
	return store
}

type brokenLookup struct{}

func (brokenLookup) GetQuote(ctx context.Context, symbol string) (models.AssetQuote, error) {
	return models.AssetQuote{}, errors.New("catalog offline")
}

func TestStore_Holdings_Views(t *testing.T) {
	store := newSeededStore(t)

	total, err := store.Holdings(models.TotalView)
	require.NoError(t, err)
	assert.Len(t, total, 2)

	empty, err := store.Holdings("")
	require.NoError(t, err)
	assert.Len(t, empty, 2)

	growth, err := store.Holdings(demodata.GrowthPortfolioID.String())
	require.NoError(t, err)
	require.Len(t, growth, 1)
	assert.Equal(t, "NVDA", growth[0].Symbol)

	_, err = store.Holdings(uuid.NewString())
	assert.ErrorIs(t, err, ErrSubPortfolioNotFound)
	_, err = store.Holdings("not-a-uuid")
	assert.ErrorIs(t, err, ErrSubPortfolioNotFound)
}

func TestStore_Summary_EndToEnd(t *testing.T) {
	store := newSeededStore(t)

	s, err := store.Summary(models.TotalView)
	require.NoError(t, err)
	assert.True(t, s.TotalValue.Equal(decimal.RequireFromString("20178")), "got %s", s.TotalValue)
	assert.True(t, s.TotalPnL.Equal(decimal.RequireFromString("1973")), "got %s", s.TotalPnL)
	assert.Equal(t, 70, s.DiversityScore)
	assert.Equal(t, analytics.LabelHighRisk, s.RiskLabel)

	crypto, err := store.Summary(demodata.CryptoPortfolioID.String())
	require.NoError(t, err)
	assert.Equal(t, 35, crypto.DiversityScore)
	assert.True(t, crypto.AverageRisk.Equal(decimal.NewFromInt(85)))
}

func TestStore_AddAsset_Known(t *testing.T) {
	store := newSeededStore(t)

	h, err := store.AddAsset(context.Background(), AddAssetInput{
		Symbol:   " btc ",
		Quantity: decimal.RequireFromString("0.5"),
	})
	require.NoError(t, err)

	assert.Equal(t, "BTC", h.Symbol)
	assert.Equal(t, "Bitcoin", h.Name)
	assert.Equal(t, models.AssetClassCrypto, h.AssetClass)
	assert.True(t, h.CurrentPrice.Equal(decimal.RequireFromString("67234.50")))
	assert.True(t, h.AverageCost.Equal(h.CurrentPrice))
	assert.Equal(t, models.DefaultRiskScore(models.AssetClassCrypto), h.RiskScore)
	assert.False(t, h.Estimated)
	assert.False(t, h.IsAssigned())

	all, _ := store.Holdings(models.TotalView)
	assert.Len(t, all, 3)
}

func TestStore_AddAsset_UnknownPlaceholder(t *testing.T) {
	store := newSeededStore(t)

	h, err := store.AddAsset(context.Background(), AddAssetInput{
		Symbol:         "xyz",
		Quantity:       decimal.NewFromInt(3),
		SubPortfolioID: demodata.GrowthPortfolioID,
	})
	require.NoError(t, err)

	assert.Equal(t, "XYZ", h.Symbol)
	assert.Equal(t, "XYZ Asset", h.Name)
	assert.True(t, h.Estimated)
	assert.True(t, h.CurrentPrice.IsZero())
	assert.Equal(t, models.DefaultRiskScore(h.AssetClass), h.RiskScore)
	assert.Equal(t, demodata.GrowthPortfolioID, h.SubPortfolioID)
}

func TestStore_AddAsset_Validation(t *testing.T) {
	store := newSeededStore(t)
	ctx := context.Background()

	_, err := store.AddAsset(ctx, AddAssetInput{Symbol: "  ", Quantity: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, ErrInvalidSymbol)

	_, err = store.AddAsset(ctx, AddAssetInput{Symbol: "AAPL"})
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = store.AddAsset(ctx, AddAssetInput{Symbol: "AAPL", Quantity: decimal.NewFromInt(1), SubPortfolioID: uuid.New()})
	assert.ErrorIs(t, err, ErrSubPortfolioNotFound)

	broken := NewStore(brokenLookup{}, nil)
	_, err = broken.AddAsset(ctx, AddAssetInput{Symbol: "AAPL", Quantity: decimal.NewFromInt(1)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "catalog offline")
}

func TestStore_AssignAtMostOne(t *testing.T) {
	store := newSeededStore(t)
	nvda := demodata.Holdings()[0]

	h, err := store.Assign(nvda.ID, demodata.CryptoPortfolioID)
	require.NoError(t, err)
	assert.Equal(t, demodata.CryptoPortfolioID, h.SubPortfolioID)

	growth, _ := store.Holdings(demodata.GrowthPortfolioID.String())
	assert.Empty(t, growth)
	crypto, _ := store.Holdings(demodata.CryptoPortfolioID.String())
	assert.Len(t, crypto, 2)

	h, err = store.Assign(nvda.ID, uuid.Nil)
	require.NoError(t, err)
	assert.False(t, h.IsAssigned())

	total, _ := store.Holdings(models.TotalView)
	assert.Len(t, total, 2, "total view includes unassigned holdings")

	_, err = store.Assign(uuid.New(), uuid.Nil)
	assert.ErrorIs(t, err, ErrHoldingNotFound)
	_, err = store.Assign(nvda.ID, uuid.New())
	assert.ErrorIs(t, err, ErrSubPortfolioNotFound)
}

func TestStore_RemoveHolding(t *testing.T) {
	store := newSeededStore(t)
	sol := demodata.Holdings()[1]

	require.NoError(t, store.RemoveHolding(sol.ID))
	assert.ErrorIs(t, store.RemoveHolding(sol.ID), ErrHoldingNotFound)

	_, err := store.Holding(sol.ID)
	assert.ErrorIs(t, err, ErrHoldingNotFound)
}

func TestStore_SubPortfolios(t *testing.T) {
	store := newSeededStore(t)

	sp, err := store.CreateSubPortfolio("Income", "Dividend payers", "green")
	require.NoError(t, err)
	assert.Len(t, store.SubPortfolios(), 3)

	_, err = store.CreateSubPortfolio("income", "", "")
	assert.ErrorIs(t, err, ErrDuplicateSubPortfolio)
	_, err = store.CreateSubPortfolio("Total", "", "")
	assert.ErrorIs(t, err, ErrInvalidSubPortfolio)

	require.NoError(t, store.DeleteSubPortfolio(demodata.GrowthPortfolioID))
	nvda, err := store.Holding(demodata.Holdings()[0].ID)
	require.NoError(t, err)
	assert.False(t, nvda.IsAssigned())

	assert.ErrorIs(t, store.DeleteSubPortfolio(demodata.GrowthPortfolioID), ErrSubPortfolioNotFound)
	assert.NoError(t, store.DeleteSubPortfolio(sp.ID))
}

func TestStore_Seed_DropsDanglingAssignment(t *testing.T) {
	store := NewStore(brokenLookup{}, nil)
	holdings := demodata.Holdings()
	store.Seed(holdings, nil)

	for _, h := range mustHoldings(t, store) {
		assert.False(t, h.IsAssigned(), h.Symbol)
	}
}

func mustHoldings(t *testing.T, s *Store) []models.Holding {
	t.Helper()
	h, err := s.Holdings(models.TotalView)
	require.NoError(t, err)
	return h
}

func TestStore_Portfolios(t *testing.T) {
	store := newSeededStore(t)
	_, err := store.AddAsset(context.Background(), AddAssetInput{Symbol: "XYZ", Quantity: decimal.NewFromInt(1)})
	require.NoError(t, err)

	portfolios, err := store.Portfolios(context.Background())
	require.NoError(t, err)
	require.Len(t, portfolios, 3)

	total := portfolios[0]
	assert.Equal(t, models.TotalView, total.ID)
	assert.True(t, total.TotalValue.Equal(decimal.RequireFromString("20178")))
	// 10 * 32.18 + 50 * 18.45
	assert.True(t, total.DailyChange.Equal(decimal.RequireFromString("1244.3")), "got %s", total.DailyChange)
	assert.True(t, total.DailyChangePercent.Equal(decimal.RequireFromString("6.57")), "got %s", total.DailyChangePercent)
	require.Len(t, total.Assets, 3)
	assert.Equal(t, "SOL", total.Assets[0].Symbol, "largest position first")

	assert.Equal(t, demodata.GrowthPortfolioID.String(), portfolios[1].ID)
	assert.Equal(t, "Growth", portfolios[1].Name)
	assert.True(t, portfolios[1].TotalValue.Equal(decimal.RequireFromString("7894.5")))

	one, err := store.Portfolio(context.Background(), demodata.CryptoPortfolioID.String())
	require.NoError(t, err)
	assert.Equal(t, "Crypto", one.Name)

	_, err = store.Portfolio(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, ErrSubPortfolioNotFound)
}

func TestStore_UpdatePrices(t *testing.T) {
	store := newSeededStore(t)
	store.UpdatePrices(map[string]decimal.Decimal{"SOL": decimal.NewFromInt(300)})

	s, err := store.Summary(demodata.CryptoPortfolioID.String())
	require.NoError(t, err)
	assert.True(t, s.TotalValue.Equal(decimal.NewFromInt(15000)))
}

func TestStore_ConcurrentAccess(t *testing.T) {
	store := newSeededStore(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _ = store.AddAsset(ctx, AddAssetInput{Symbol: "AAPL", Quantity: decimal.NewFromInt(1)})
		}()
		go func() {
			defer wg.Done()
			_, _ = store.Summary(models.TotalView)
		}()
	}
	wg.Wait()

	assert.Len(t, mustHoldings(t, store), 12)
}
