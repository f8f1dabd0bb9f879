package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/findosh/marketiq/internal/config"
	"github.com/findosh/marketiq/internal/demodata"
	"github.com/findosh/marketiq/internal/models"
	"github.com/findosh/marketiq/internal/services/importer"
	"github.com/findosh/marketiq/internal/services/marketdata"
	"github.com/findosh/marketiq/internal/services/portfolio"
	"github.com/findosh/marketiq/internal/storage"
)

var fixedNow = time.Date(2024, 6, 14, 16, 0, 0, 0, time.UTC)

func newTestHandler(t *testing.T, contributions ContributionSource) (*Handler, *portfolio.Store) {
	t.Helper()
	cfg := config.Defaults()
	market := marketdata.NewService(marketdata.Config{}, demodata.NewCatalog())
	store := portfolio.NewStore(market, nil)
	store.Seed(demodata.Holdings(), demodata.SubPortfolios())

	h := New(&cfg, market, store, contributions, nil)
	h.now = func() time.Time { return fixedNow }
	return h, store
}

func do(t *testing.T, h *Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestHealth(t *testing.T) {
	h, _ := newTestHandler(t, nil)
	rec := do(t, h, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","environment":"development"}`, rec.Body.String())
}

func TestAssetListings(t *testing.T) {
	h, _ := newTestHandler(t, nil)

	crypto := decode[[]models.AssetQuote](t, do(t, h, http.MethodGet, "/api/crypto", ""))
	assert.Len(t, crypto, len(demodata.CryptoAssets()))

	stocks := decode[[]models.AssetQuote](t, do(t, h, http.MethodGet, "/api/stocks", ""))
	assert.Len(t, stocks, len(demodata.StockAssets()))

	all := decode[[]models.AssetQuote](t, do(t, h, http.MethodGet, "/api/assets", ""))
	assert.Len(t, all, len(demodata.AllAssets()))

	filtered := decode[[]models.AssetQuote](t, do(t, h, http.MethodGet, "/api/assets?type=crypto", ""))
	assert.Len(t, filtered, len(demodata.CryptoAssets()))

	rec := do(t, h, http.MethodGet, "/api/assets?type=bonds", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTopMovers(t *testing.T) {
	h, _ := newTestHandler(t, nil)

	movers := decode[[]models.AssetQuote](t, do(t, h, http.MethodGet, "/api/assets/top-movers?limit=3", ""))
	require.Len(t, movers, 3)
	assert.Equal(t, "RNDR", movers[0].Symbol)

	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodGet, "/api/assets/top-movers?limit=x", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodGet, "/api/assets/top-movers?limit=0", "").Code)
}

func TestAssetProfile(t *testing.T) {
	h, _ := newTestHandler(t, nil)

	rec := do(t, h, http.MethodGet, "/api/assets/nvda", "")
	require.Equal(t, http.StatusOK, rec.Code)
	profile := decode[models.AssetProfile](t, rec)
	assert.Equal(t, "NVDA", profile.Symbol)
	assert.True(t, profile.Fundamentals.Estimated)

	rec = do(t, h, http.MethodGet, "/api/assets/ZZZ", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	body := decode[map[string]string](t, rec)
	assert.Contains(t, body["error"], `"ZZZ" was not found in our database`)
}

func TestPriceHistory(t *testing.T) {
	h, _ := newTestHandler(t, nil)

	prices := decode[[]models.PricePoint](t, do(t, h, http.MethodGet, "/api/assets/SOL/history?period=1w", ""))
	assert.Len(t, prices, 7)
	assert.Equal(t, "2024-06-14", prices[len(prices)-1].Date)

	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodGet, "/api/assets/SOL/history?period=2X", "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/api/assets/ZZZ/history", "").Code)
}

func TestMarketEndpoints(t *testing.T) {
	h, _ := newTestHandler(t, nil)

	overview := decode[models.MarketOverview](t, do(t, h, http.MethodGet, "/api/market/overview", ""))
	assert.Equal(t, 72, overview.FearGreedIndex)

	status := decode[map[string]any](t, do(t, h, http.MethodGet, "/api/market/status", ""))
	assert.Equal(t, true, status["isOpen"])

	narratives := decode[[]models.Narrative](t, do(t, h, http.MethodGet, "/api/narratives?category=Technology", ""))
	assert.Len(t, narratives, 2)

	board := decode[[]models.AssetQuote](t, do(t, h, http.MethodGet, "/api/leaderboard?type=stock", ""))
	require.NotEmpty(t, board)
	assert.Equal(t, "NVDA", board[0].Symbol)

	board = decode[[]models.AssetQuote](t, do(t, h, http.MethodGet, "/api/leaderboard", ""))
	assert.Equal(t, models.AssetClassCrypto, board[0].Type)

	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodGet, "/api/leaderboard?type=forex", "").Code)
}

func TestPortfolios(t *testing.T) {
	h, _ := newTestHandler(t, nil)

	list := decode[[]models.PortfolioSummary](t, do(t, h, http.MethodGet, "/api/portfolios", ""))
	require.Len(t, list, 3)
	assert.Equal(t, models.TotalView, list[0].ID)
	assert.True(t, list[0].TotalValue.Equal(decimal.RequireFromString("20178")))

	one := decode[models.PortfolioSummary](t, do(t, h, http.MethodGet, "/api/portfolios/"+demodata.GrowthPortfolioID.String(), ""))
	assert.Equal(t, "Growth", one.Name)

	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/api/portfolios/nope", "").Code)
}

func TestPortfolioPerformance(t *testing.T) {
	h, _ := newTestHandler(t, nil)

	points := decode[[]models.PerformancePoint](t, do(t, h, http.MethodGet, "/api/portfolios/total/performance?period=1M", ""))
	require.NotEmpty(t, points)
	last := points[len(points)-1]
	assert.Equal(t, "2024-06-14", last.Date)
	assert.True(t, last.Portfolio.Equal(decimal.RequireFromString("20178")), "got %s", last.Portfolio)
	assert.True(t, points[0].Portfolio.Equal(points[0].Benchmark))

	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodGet, "/api/portfolios/total/performance?period=9Q", "").Code)
}

func TestPortfolioPerformance_EmptyView(t *testing.T) {
	h, store := newTestHandler(t, nil)
	sp, err := store.CreateSubPortfolio("Empty", "", "")
	require.NoError(t, err)

	rec := do(t, h, http.MethodGet, "/api/portfolios/"+sp.ID.String()+"/performance", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestPortfolioAnalytics(t *testing.T) {
	h, _ := newTestHandler(t, nil)

	body := decode[map[string]any](t, do(t, h, http.MethodGet, "/api/portfolios/total/analytics", ""))
	assert.Equal(t, float64(20178), body["totalValue"])
	assert.Equal(t, float64(1973), body["totalPnL"])
	assert.Equal(t, float64(70), body["diversityScore"])
	assert.Equal(t, "High Risk", body["riskLabel"])
	assert.Contains(t, body, "allocation")
	assert.Contains(t, body, "expectedReturn")
}

func TestHoldingLifecycle(t *testing.T) {
	h, store := newTestHandler(t, nil)
	growth := demodata.GrowthPortfolioID.String()

	rec := do(t, h, http.MethodPost, "/api/portfolios/"+growth+"/holdings", `{"symbol":"aapl","quantity":2}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	added := decode[models.Holding](t, rec)
	assert.Equal(t, "AAPL", added.Symbol)
	assert.Equal(t, demodata.GrowthPortfolioID, added.SubPortfolioID)

	rec = do(t, h, http.MethodPut, "/api/holdings/"+added.ID.String()+"/sub-portfolio", `{"subPortfolioId":""}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, decode[models.Holding](t, rec).IsAssigned())

	rec = do(t, h, http.MethodPut, "/api/holdings/"+added.ID.String()+"/sub-portfolio",
		`{"subPortfolioId":"`+demodata.CryptoPortfolioID.String()+`"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, http.StatusNoContent, do(t, h, http.MethodDelete, "/api/holdings/"+added.ID.String(), "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodDelete, "/api/holdings/"+added.ID.String(), "").Code)

	_, err := store.Holding(added.ID)
	assert.ErrorIs(t, err, portfolio.ErrHoldingNotFound)
}

func TestAddHolding_Errors(t *testing.T) {
	h, _ := newTestHandler(t, nil)

	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodPost, "/api/portfolios/total/holdings", `{"symbol":"AAPL","quantity":0}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodPost, "/api/portfolios/total/holdings", `{"symbol":"","quantity":1}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodPost, "/api/portfolios/total/holdings", `{"bogus":true}`).Code)
	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodPost, "/api/portfolios/nope/holdings", `{"symbol":"AAPL","quantity":1}`).Code)

	rec := do(t, h, http.MethodPost, "/api/portfolios/total/holdings", `{"symbol":"xyz","quantity":"1.5"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	placeholder := decode[models.Holding](t, rec)
	assert.True(t, placeholder.Estimated)
	assert.False(t, placeholder.IsAssigned())
}

func TestImportHoldings(t *testing.T) {
	h, store := newTestHandler(t, nil)
	crypto := demodata.CryptoPortfolioID.String()
	body := "Symbol,Quantity,Cost Basis\nBTC,0.25,\"$15,000.00\"\nETH,2,\n"

	rec := do(t, h, http.MethodPost, "/api/portfolios/"+crypto+"/import", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	summary := decode[importer.Summary](t, rec)
	assert.Equal(t, "generic_csv", summary.Source)
	require.Len(t, summary.Added, 2)
	assert.True(t, summary.Added[0].AverageCost.Equal(decimal.NewFromInt(60000)))

	held, err := store.Holdings(crypto)
	require.NoError(t, err)
	assert.Len(t, held, 3)

	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodPost, "/api/portfolios/total/import", "a,b\n1,2\n").Code)
	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodPost, "/api/portfolios/nope/import", body).Code)
}

func TestStockPicks(t *testing.T) {
	h, _ := newTestHandler(t, nil)

	rec := do(t, h, http.MethodGet, "/api/picks", "")
	require.Equal(t, http.StatusOK, rec.Code)
	large := decode[[]models.StockPick](t, rec)
	require.Len(t, large, 5)
	assert.Equal(t, "NVDA", large[0].Symbol)
	assert.Equal(t, models.RatingUpgraded, large[0].RatingChange)

	strong := decode[[]models.StockPick](t, do(t, h, http.MethodGet, "/api/picks?category=mid&rating=strong-buy", ""))
	require.Len(t, strong, 2)
	assert.Equal(t, "PLTR", strong[0].Symbol)

	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodGet, "/api/picks?category=bonds", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodGet, "/api/picks?rating=maybe", "").Code)

	sum := decode[map[string]any](t, do(t, h, http.MethodGet, "/api/picks/summary?category=penny", ""))
	assert.Equal(t, "penny", sum["category"])
	assert.EqualValues(t, 2, sum["count"])

	board := decode[[]map[string]any](t, do(t, h, http.MethodGet, "/api/picks/consensus", ""))
	require.Len(t, board, 5)
	assert.Equal(t, "Neural Alpha", board[0]["analyst"])
	assert.EqualValues(t, 89.1, board[0]["winRate"])
}

func TestSubPortfolioEndpoints(t *testing.T) {
	h, _ := newTestHandler(t, nil)

	rec := do(t, h, http.MethodPost, "/api/sub-portfolios", `{"name":"Income","color":"green"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	sp := decode[models.SubPortfolio](t, rec)

	assert.Equal(t, http.StatusConflict, do(t, h, http.MethodPost, "/api/sub-portfolios", `{"name":"income"}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodPost, "/api/sub-portfolios", `{"name":" "}`).Code)

	list := decode[[]models.SubPortfolio](t, do(t, h, http.MethodGet, "/api/sub-portfolios", ""))
	assert.Len(t, list, 3)

	assert.Equal(t, http.StatusNoContent, do(t, h, http.MethodDelete, "/api/sub-portfolios/"+sp.ID.String(), "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodDelete, "/api/sub-portfolios/"+sp.ID.String(), "").Code)
}

func TestContributionReport_Demo(t *testing.T) {
	h, _ := newTestHandler(t, nil)

	body := decode[map[string]any](t, do(t, h, http.MethodGet, "/api/reports/contribution", ""))
	assert.Equal(t, 62.9, body["positiveTotal"])
	assert.Equal(t, -2.1, body["negativeTotal"])
	assert.Equal(t, 60.8, body["netTotal"])
	assert.Len(t, body["entries"], 6)
	assert.NotEmpty(t, body["inconsistencies"])
}

func TestContributionReport_Storage(t *testing.T) {
	ctx := context.Background()
	db, err := storage.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.Migrate(ctx))

	repo := storage.NewContributionRepository(db)
	require.NoError(t, repo.Upsert(ctx, 0, models.ContributionEntry{
		Asset:        "AAPL",
		Weight:       decimal.NewFromInt(10),
		Performance:  decimal.NewFromInt(20),
		Contribution: decimal.NewFromInt(2),
	}))

	h, _ := newTestHandler(t, repo)
	body := decode[map[string]any](t, do(t, h, http.MethodGet, "/api/reports/contribution", ""))
	assert.Equal(t, float64(2), body["netTotal"])
	assert.Equal(t, []any{}, body["inconsistencies"])
}

type failingContributions struct{}

func (failingContributions) List(ctx context.Context) ([]models.ContributionEntry, error) {
	return nil, errors.New("disk I/O error")
}

func TestContributionReport_SourceFailure(t *testing.T) {
	h, _ := newTestHandler(t, failingContributions{})

	rec := do(t, h, http.MethodGet, "/api/reports/contribution", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "disk")
}

func TestMethodNotAllowed(t *testing.T) {
	h, _ := newTestHandler(t, nil)
	assert.Equal(t, http.StatusMethodNotAllowed, do(t, h, http.MethodPost, "/api/crypto", "").Code)
}
