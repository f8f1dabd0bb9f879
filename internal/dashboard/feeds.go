// Package dashboard wires the REST client to fetch accessors, one per
// dashboard view, each falling back to the bundled demo data.
package dashboard

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/findosh/marketiq/internal/demodata"
	"github.com/findosh/marketiq/internal/fetch"
	"github.com/findosh/marketiq/internal/logging"
	"github.com/findosh/marketiq/internal/models"
)

// DefaultMoversLimit is the movers count loaded by LoadAll
const DefaultMoversLimit = 10

// Source is the remote API behind the feeds. *api.Client implements it.
type Source interface {
	GetCrypto(ctx context.Context) ([]models.AssetQuote, error)
	GetStocks(ctx context.Context) ([]models.AssetQuote, error)
	GetMarketOverview(ctx context.Context) (models.MarketOverview, error)
	GetTopMovers(ctx context.Context, limit int) ([]models.AssetQuote, error)
	GetLeaderboard(ctx context.Context, class models.AssetClass) ([]models.AssetQuote, error)
	GetPortfolios(ctx context.Context) ([]models.PortfolioSummary, error)
	GetPriceHistory(ctx context.Context, symbol, period string) ([]models.PricePoint, error)
}

type historyKey struct {
	symbol string
	period string
}

// Feeds holds the accessors for every dashboard view. Parameterised feeds
// are created on first use and reused afterwards.
type Feeds struct {
	src    Source
	logger *logging.Logger

	Crypto     *fetch.Accessor[[]models.AssetQuote]
	Stocks     *fetch.Accessor[[]models.AssetQuote]
	Overview   *fetch.Accessor[models.MarketOverview]
	Portfolios *fetch.Accessor[[]models.PortfolioSummary]

	mu          sync.Mutex
	movers      map[int]*fetch.Accessor[[]models.AssetQuote]
	leaderboard map[models.AssetClass]*fetch.Accessor[[]models.AssetQuote]
	history     map[historyKey]*fetch.Accessor[[]models.PricePoint]
}

// NewFeeds creates the feeds. A nil logger is silent.
func NewFeeds(src Source, logger *logging.Logger) *Feeds {
	if logger == nil {
		logger = logging.NewSilent()
	}
	logger = logger.Component("dashboard")

	f := &Feeds{
		src:         src,
		logger:      logger,
		movers:      make(map[int]*fetch.Accessor[[]models.AssetQuote]),
		leaderboard: make(map[models.AssetClass]*fetch.Accessor[[]models.AssetQuote]),
		history:     make(map[historyKey]*fetch.Accessor[[]models.PricePoint]),
	}

	f.Crypto = fetch.New(src.GetCrypto, demodata.CryptoAssets(), quoteOpts(logger, "crypto")...)
	f.Stocks = fetch.New(src.GetStocks, demodata.StockAssets(), quoteOpts(logger, "stocks")...)
	f.Overview = fetch.New(src.GetMarketOverview, demodata.MarketOverview(),
		fetch.WithLogger[models.MarketOverview](logger),
		fetch.WithName[models.MarketOverview]("market-overview"),
	)
	f.Portfolios = fetch.New(src.GetPortfolios, []models.PortfolioSummary{},
		fetch.WithLogger[[]models.PortfolioSummary](logger),
		fetch.WithName[[]models.PortfolioSummary]("portfolios"),
	)
	return f
}

func quoteOpts(logger *logging.Logger, name string) []fetch.Option[[]models.AssetQuote] {
	return []fetch.Option[[]models.AssetQuote]{
		fetch.WithLogger[[]models.AssetQuote](logger),
		fetch.WithName[[]models.AssetQuote](name),
	}
}

// TopMovers returns the movers feed for limit. The fallback is the first
// limit demo assets.
func (f *Feeds) TopMovers(limit int) *fetch.Accessor[[]models.AssetQuote] {
	f.mu.Lock()
	defer f.mu.Unlock()

	if a, ok := f.movers[limit]; ok {
		return a
	}
	a := fetch.New(func(ctx context.Context) ([]models.AssetQuote, error) {
		return f.src.GetTopMovers(ctx, limit)
	}, demodata.TopMovers(limit), quoteOpts(f.logger, fmt.Sprintf("top-movers-%d", limit))...)
	f.movers[limit] = a
	return a
}

// Leaderboard returns the leaderboard feed for one asset class
func (f *Feeds) Leaderboard(class models.AssetClass) *fetch.Accessor[[]models.AssetQuote] {
	f.mu.Lock()
	defer f.mu.Unlock()

	if a, ok := f.leaderboard[class]; ok {
		return a
	}
	a := fetch.New(func(ctx context.Context) ([]models.AssetQuote, error) {
		return f.src.GetLeaderboard(ctx, class)
	}, demodata.Leaderboard(class), quoteOpts(f.logger, "leaderboard-"+string(class))...)
	f.leaderboard[class] = a
	return a
}

// PriceHistory returns the history feed for symbol over period. There is no
// demo history, so the fallback is empty.
func (f *Feeds) PriceHistory(symbol, period string) *fetch.Accessor[[]models.PricePoint] {
	f.mu.Lock()
	defer f.mu.Unlock()

	key := historyKey{symbol: symbol, period: period}
	if a, ok := f.history[key]; ok {
		return a
	}
	a := fetch.New(func(ctx context.Context) ([]models.PricePoint, error) {
		return f.src.GetPriceHistory(ctx, symbol, period)
	}, []models.PricePoint{},
		fetch.WithLogger[[]models.PricePoint](f.logger),
		fetch.WithName[[]models.PricePoint]("history-"+symbol+"-"+period),
	)
	f.history[key] = a
	return a
}

// Snapshot is the state of the fixed feeds after LoadAll
type Snapshot struct {
	Crypto     fetch.State[[]models.AssetQuote]
	Stocks     fetch.State[[]models.AssetQuote]
	Overview   fetch.State[models.MarketOverview]
	Portfolios fetch.State[[]models.PortfolioSummary]
	TopMovers  fetch.State[[]models.AssetQuote]
}

// Errors lists the failure message of every feed that fell back
func (s Snapshot) Errors() []string {
	var msgs []string
	for _, m := range []string{
		s.Crypto.ErrorMessage(),
		s.Stocks.ErrorMessage(),
		s.Overview.ErrorMessage(),
		s.Portfolios.ErrorMessage(),
		s.TopMovers.ErrorMessage(),
	} {
		if m != "" {
			msgs = append(msgs, m)
		}
	}
	return msgs
}

// LoadAll syncs the fixed feeds concurrently. Feeds already loaded with the
// same parameters are not fetched again. Failures never abort the load;
// they surface in each feed's state.
func (f *Feeds) LoadAll(ctx context.Context) Snapshot {
	movers := f.TopMovers(DefaultMoversLimit)

	var g errgroup.Group
	g.Go(func() error { f.Crypto.Sync(ctx); return nil })
	g.Go(func() error { f.Stocks.Sync(ctx); return nil })
	g.Go(func() error { f.Overview.Sync(ctx); return nil })
	g.Go(func() error { f.Portfolios.Sync(ctx); return nil })
	g.Go(func() error { movers.Sync(ctx, DefaultMoversLimit); return nil })
	_ = g.Wait()

	return Snapshot{
		Crypto:     f.Crypto.State(),
		Stocks:     f.Stocks.State(),
		Overview:   f.Overview.State(),
		Portfolios: f.Portfolios.State(),
		TopMovers:  movers.State(),
	}
}
