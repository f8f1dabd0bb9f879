// Package marketdata serves quotes, movers, leaderboards, profiles and
// price history from a reference catalog.
package marketdata

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/findosh/marketiq/internal/logging"
	"github.com/findosh/marketiq/internal/models"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// ErrNotFound is returned for symbols missing from the catalog
var ErrNotFound = models.ErrAssetNotFound

// NotFoundError carries the symbol that could not be resolved
type NotFoundError struct {
	Symbol string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%q was not found in our database. Try searching for popular assets like NVDA, SOL, AAPL, or BTC.", e.Symbol)
}

// Is makes errors.Is(err, ErrNotFound) hold
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// Catalog is the reference dataset behind the service
type Catalog interface {
	Assets(ctx context.Context, filter models.AssetFilter) ([]models.AssetQuote, error)
	Asset(ctx context.Context, symbol string) (models.AssetQuote, error)
	Narratives(ctx context.Context) ([]models.Narrative, error)
	Overview(ctx context.Context) (models.MarketOverview, error)
}

// Provider represents a market data provider
type Provider string

const (
	// ProviderMock serves the catalog as-is
	ProviderMock Provider = "mock"
)

// DefaultMoversLimit applies when TopMovers is called without a limit
const DefaultMoversLimit = 10

// maxConcurrentQuotes bounds GetQuotes fan-out
const maxConcurrentQuotes = 8

// Config holds service configuration
type Config struct {
	Provider Provider
	CacheTTL time.Duration
}

// Option configures a Service
type Option func(*Service)

// WithCache replaces the default in-memory cache
func WithCache(c Cache) Option {
	return func(s *Service) {
		s.cache = c
	}
}

// WithLogger sets the service logger
func WithLogger(l *logging.Logger) Option {
	return func(s *Service) {
		s.logger = l
	}
}

// Service provides market data functionality
type Service struct {
	provider Provider
	catalog  Catalog
	cache    Cache
	logger   *logging.Logger
}

// NewService creates a new market data service
func NewService(cfg Config, catalog Catalog, opts ...Option) *Service {
	if cfg.Provider == "" {
		cfg.Provider = ProviderMock
	}

	s := &Service{
		provider: cfg.Provider,
		catalog:  catalog,
		cache:    NewMemoryCache(cfg.CacheTTL),
		logger:   logging.NewSilent(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func normalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

// GetAssets lists catalog assets matching filter
func (s *Service) GetAssets(ctx context.Context, filter models.AssetFilter) ([]models.AssetQuote, error) {
	assets, err := s.catalog.Assets(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list assets: %w", err)
	}
	return assets, nil
}

// GetQuote fetches a quote for a single symbol, case-insensitively
func (s *Service) GetQuote(ctx context.Context, symbol string) (models.AssetQuote, error) {
	symbol = normalizeSymbol(symbol)
	if symbol == "" {
		return models.AssetQuote{}, &NotFoundError{Symbol: symbol}
	}

	// Check cache first
	cached, ok, err := s.cache.Get(ctx, symbol)
	if err != nil {
		s.logger.Warn().Err(err).Str("symbol", symbol).Msg("quote cache read failed")
	} else if ok {
		return cached, nil
	}

	quote, err := s.catalog.Asset(ctx, symbol)
	if err != nil {
		if errors.Is(err, models.ErrAssetNotFound) {
			return models.AssetQuote{}, &NotFoundError{Symbol: symbol}
		}
		return models.AssetQuote{}, fmt.Errorf("failed to load %s: %w", symbol, err)
	}

	if err := s.cache.Set(ctx, symbol, quote); err != nil {
		s.logger.Warn().Err(err).Str("symbol", symbol).Msg("quote cache write failed")
	}

	return quote, nil
}

// Lookup resolves a symbol for the asset search. Unknown symbols yield a
// *NotFoundError whose message is meant for the user.
func (s *Service) Lookup(ctx context.Context, symbol string) (models.AssetQuote, error) {
	return s.GetQuote(ctx, symbol)
}

// GetQuotes fetches quotes for multiple symbols concurrently. It fails only
// when no symbol could be resolved.
func (s *Service) GetQuotes(ctx context.Context, symbols []string) (map[string]models.AssetQuote, error) {
	quotes := make(map[string]models.AssetQuote)
	var mu sync.Mutex
	var errs []error

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentQuotes)

	for _, symbol := range symbols {
		g.Go(func() error {
			quote, err := s.GetQuote(ctx, symbol)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", symbol, err))
				return nil
			}
			quotes[quote.Symbol] = quote
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	if len(errs) > 0 && len(quotes) == 0 {
		return nil, errs[0]
	}

	return quotes, nil
}

// TopMovers returns all assets sorted by absolute percent change, largest
// first. A non-positive limit means DefaultMoversLimit.
func (s *Service) TopMovers(ctx context.Context, limit int) ([]models.AssetQuote, error) {
	if limit <= 0 {
		limit = DefaultMoversLimit
	}

	assets, err := s.GetAssets(ctx, models.FilterAll)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(assets, func(i, j int) bool {
		return assets[i].ChangePercent.Abs().GreaterThan(assets[j].ChangePercent.Abs())
	})

	if len(assets) > limit {
		assets = assets[:limit]
	}
	return assets, nil
}

// Leaderboard ranks one asset class by IQ score, highest first
func (s *Service) Leaderboard(ctx context.Context, class models.AssetClass) ([]models.AssetQuote, error) {
	filter := models.FilterCrypto
	if class == models.AssetClassStock {
		filter = models.FilterStock
	}

	assets, err := s.GetAssets(ctx, filter)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(assets, func(i, j int) bool {
		return assets[i].IQScore > assets[j].IQScore
	})
	for i := range assets {
		assets[i].Rank = i + 1
	}
	return assets, nil
}

// Market cap estimation factors
var (
	stockShareEstimate   = decimal.NewFromInt(1_000_000_000)
	cryptoVolumeMultiple = decimal.NewFromInt(50)
)

// Profile returns a quote with fundamentals. Only market cap and sentiment
// are filled, both estimated: market cap from price (stocks) or volume
// (crypto), sentiment from RSI. Other fundamentals are left unknown.
func (s *Service) Profile(ctx context.Context, symbol string) (models.AssetProfile, error) {
	quote, err := s.GetQuote(ctx, symbol)
	if err != nil {
		return models.AssetProfile{}, err
	}

	var marketCap decimal.Decimal
	if quote.Type == models.AssetClassStock {
		marketCap = quote.Price.Mul(stockShareEstimate)
	} else {
		marketCap = quote.Volume.Mul(cryptoVolumeMultiple)
	}
	sentiment := int(quote.RSI.Round(0).IntPart())

	return models.AssetProfile{
		AssetQuote: quote,
		Fundamentals: models.Fundamentals{
			MarketCap: &marketCap,
			Sentiment: &sentiment,
			Estimated: true,
		},
	}, nil
}

// dailyVol is the simulated daily volatility of price history
var dailyVol = decimal.NewFromFloat(0.015)

// PriceHistory simulates daily closes over period ending at now, walking
// backward from the current price. Stocks skip weekends; crypto trades
// every day.
func (s *Service) PriceHistory(ctx context.Context, symbol, period string, now time.Time) ([]models.PricePoint, error) {
	quote, err := s.GetQuote(ctx, symbol)
	if err != nil {
		return nil, err
	}

	endDate := now.UTC()
	startDate := models.PeriodStart(period, endDate)
	skipWeekends := quote.Type == models.AssetClassStock

	prices := make([]models.PricePoint, 0)
	currentPrice := quote.Price
	current := endDate

	for current.After(startDate) {
		prices = append(prices, models.PricePoint{
			Date:  current.Format(models.DateLayout),
			Price: currentPrice.Round(2),
		})

		// Deterministic walk backward
		change := dailyVol.Mul(decimal.NewFromInt(int64(current.Day()%10 - 5))).Div(decimal.NewFromInt(5))
		currentPrice = currentPrice.Div(decimal.NewFromInt(1).Add(change))
		current = current.AddDate(0, 0, -1)

		if skipWeekends {
			if current.Weekday() == time.Sunday {
				current = current.AddDate(0, 0, -2)
			} else if current.Weekday() == time.Saturday {
				current = current.AddDate(0, 0, -1)
			}
		}
	}

	// Oldest first
	for i, j := 0, len(prices)-1; i < j; i, j = i+1, j-1 {
		prices[i], prices[j] = prices[j], prices[i]
	}
	return prices, nil
}

// MarketOverview returns overall market conditions
func (s *Service) MarketOverview(ctx context.Context) (models.MarketOverview, error) {
	overview, err := s.catalog.Overview(ctx)
	if err != nil {
		return models.MarketOverview{}, fmt.Errorf("failed to load market overview: %w", err)
	}
	return overview, nil
}

// Narratives returns narratives in category, or all of them when category
// is empty or "all". Matching ignores case.
func (s *Service) Narratives(ctx context.Context, category string) ([]models.Narrative, error) {
	narratives, err := s.catalog.Narratives(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load narratives: %w", err)
	}

	category = strings.TrimSpace(category)
	if category == "" || strings.EqualFold(category, "all") {
		return narratives, nil
	}

	filtered := make([]models.Narrative, 0, len(narratives))
	for _, n := range narratives {
		if strings.EqualFold(n.Category, category) {
			filtered = append(filtered, n)
		}
	}
	return filtered, nil
}

// NarrativeCategories lists distinct categories in first-seen order
func (s *Service) NarrativeCategories(ctx context.Context) ([]string, error) {
	narratives, err := s.catalog.Narratives(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load narratives: %w", err)
	}

	seen := make(map[string]bool)
	categories := make([]string, 0)
	for _, n := range narratives {
		if !seen[n.Category] {
			seen[n.Category] = true
			categories = append(categories, n.Category)
		}
	}
	return categories, nil
}

// RefreshHoldings returns copies of holdings with current prices from the
// catalog. Holdings whose symbol cannot be quoted keep their price.
func (s *Service) RefreshHoldings(ctx context.Context, holdings []models.Holding) ([]models.Holding, error) {
	updated := make([]models.Holding, len(holdings))
	copy(updated, holdings)
	if len(holdings) == 0 {
		return updated, nil
	}

	symbols := make([]string, 0, len(holdings))
	for _, h := range holdings {
		if h.Symbol != "" {
			symbols = append(symbols, h.Symbol)
		}
	}

	quotes, err := s.GetQuotes(ctx, symbols)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return updated, nil
		}
		return nil, err
	}

	for i := range updated {
		if quote, ok := quotes[updated[i].Symbol]; ok {
			updated[i].CurrentPrice = quote.Price
		}
	}
	return updated, nil
}
