// Package portfolio owns the in-memory holdings and sub-portfolios shared by
// every view. State is not persisted and resets on restart.
package portfolio

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/findosh/marketiq/internal/logging"
	"github.com/findosh/marketiq/internal/models"
	"github.com/findosh/marketiq/internal/services/analytics"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidSymbol         = errors.New("symbol is required")
	ErrInvalidQuantity       = errors.New("quantity must be positive")
	ErrHoldingNotFound       = errors.New("holding not found")
	ErrSubPortfolioNotFound  = errors.New("sub-portfolio not found")
	ErrInvalidSubPortfolio   = errors.New("sub-portfolio name is required")
	ErrDuplicateSubPortfolio = errors.New("sub-portfolio name already exists")
)

// Lookup resolves symbols against the reference catalog
type Lookup interface {
	GetQuote(ctx context.Context, symbol string) (models.AssetQuote, error)
}

// AddAssetInput describes a new position. AverageCost and Name are
// optional; imports carry them from the brokerage export.
type AddAssetInput struct {
	Symbol         string          `json:"symbol"`
	Quantity       decimal.Decimal `json:"quantity"`
	SubPortfolioID uuid.UUID       `json:"subPortfolioId,omitempty"`
	AverageCost    decimal.Decimal `json:"averageCost,omitempty"`
	Name           string          `json:"name,omitempty"`
}

// Store is the single owner of portfolio state. All methods are safe for
// concurrent use and return copies.
type Store struct {
	lookup Lookup
	logger *logging.Logger

	mu       sync.RWMutex
	holdings []models.Holding
	subs     []models.SubPortfolio
}

// NewStore creates an empty store
func NewStore(lookup Lookup, logger *logging.Logger) *Store {
	if logger == nil {
		logger = logging.NewSilent()
	}
	return &Store{lookup: lookup, logger: logger}
}

// Seed replaces the store contents. Holdings pointing at an unknown
// sub-portfolio are left unassigned.
func (s *Store) Seed(holdings []models.Holding, subs []models.SubPortfolio) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.subs = append([]models.SubPortfolio(nil), subs...)
	s.holdings = make([]models.Holding, 0, len(holdings))
	for _, h := range holdings {
		if h.IsAssigned() && s.findSub(h.SubPortfolioID) < 0 {
			h.SubPortfolioID = uuid.Nil
		}
		s.holdings = append(s.holdings, h)
	}
}

func (s *Store) findSub(id uuid.UUID) int {
	for i, sp := range s.subs {
		if sp.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) findHolding(id uuid.UUID) int {
	for i, h := range s.holdings {
		if h.ID == id {
			return i
		}
	}
	return -1
}

// parseView resolves a view name to a sub-portfolio ID; uuid.Nil means the
// total view.
func (s *Store) parseView(view string) (uuid.UUID, error) {
	view = strings.TrimSpace(view)
	if view == "" || strings.EqualFold(view, models.TotalView) {
		return uuid.Nil, nil
	}

	id, err := uuid.Parse(view)
	if err != nil || s.findSub(id) < 0 {
		return uuid.Nil, fmt.Errorf("%w: %s", ErrSubPortfolioNotFound, view)
	}
	return id, nil
}

// Holdings returns the holdings in view: "total" (or empty) for all of them,
// otherwise a sub-portfolio ID.
func (s *Store) Holdings(view string) ([]models.Holding, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, err := s.parseView(view)
	if err != nil {
		return nil, err
	}
	return s.holdingsIn(id), nil
}

func (s *Store) holdingsIn(sub uuid.UUID) []models.Holding {
	out := make([]models.Holding, 0, len(s.holdings))
	for _, h := range s.holdings {
		if sub == uuid.Nil || h.SubPortfolioID == sub {
			out = append(out, h)
		}
	}
	return out
}

// Holding returns one holding by ID
func (s *Store) Holding(id uuid.UUID) (models.Holding, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.findHolding(id)
	if i < 0 {
		return models.Holding{}, ErrHoldingNotFound
	}
	return s.holdings[i], nil
}

// AddAsset adds a position. Symbols known to the catalog take their name,
// class and price from it, with average cost set to the current price
// unless the input supplies one. Unknown symbols get a placeholder flagged
// Estimated.
func (s *Store) AddAsset(ctx context.Context, in AddAssetInput) (models.Holding, error) {
	symbol := strings.ToUpper(strings.TrimSpace(in.Symbol))
	if symbol == "" {
		return models.Holding{}, ErrInvalidSymbol
	}
	if !in.Quantity.IsPositive() {
		return models.Holding{}, ErrInvalidQuantity
	}

	var h *models.Holding
	quote, err := s.lookup.GetQuote(ctx, symbol)
	switch {
	case err == nil:
		h = models.NewHolding(quote.Symbol, quote.Name, quote.Type)
		h.CurrentPrice = quote.Price
		h.AverageCost = quote.Price
	case errors.Is(err, models.ErrAssetNotFound):
		name := strings.TrimSpace(in.Name)
		if name == "" {
			name = symbol + " Asset"
		}
		h = models.NewHolding(symbol, name, models.AssetClassStock)
		h.Estimated = true
		s.logger.Info().Str("symbol", symbol).Msg("adding placeholder holding for unknown asset")
	default:
		return models.Holding{}, fmt.Errorf("failed to look up %s: %w", symbol, err)
	}
	h.Quantity = in.Quantity
	if in.AverageCost.IsPositive() {
		h.AverageCost = in.AverageCost
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if in.SubPortfolioID != uuid.Nil {
		if s.findSub(in.SubPortfolioID) < 0 {
			return models.Holding{}, ErrSubPortfolioNotFound
		}
		h.SubPortfolioID = in.SubPortfolioID
	}

	s.holdings = append(s.holdings, *h)
	return *h, nil
}

// RemoveHolding deletes a holding
func (s *Store) RemoveHolding(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.findHolding(id)
	if i < 0 {
		return ErrHoldingNotFound
	}
	s.holdings = append(s.holdings[:i], s.holdings[i+1:]...)
	return nil
}

// Assign moves a holding into a sub-portfolio; uuid.Nil unassigns it.
// A holding belongs to at most one sub-portfolio.
func (s *Store) Assign(holdingID, subID uuid.UUID) (models.Holding, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.findHolding(holdingID)
	if i < 0 {
		return models.Holding{}, ErrHoldingNotFound
	}
	if subID != uuid.Nil && s.findSub(subID) < 0 {
		return models.Holding{}, ErrSubPortfolioNotFound
	}

	s.holdings[i].SubPortfolioID = subID
	return s.holdings[i], nil
}

// CreateSubPortfolio adds a named grouping. Names are unique ignoring case.
func (s *Store) CreateSubPortfolio(name, description, color string) (models.SubPortfolio, error) {
	name = strings.TrimSpace(name)
	if name == "" || strings.EqualFold(name, models.TotalView) {
		return models.SubPortfolio{}, ErrInvalidSubPortfolio
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, sp := range s.subs {
		if strings.EqualFold(sp.Name, name) {
			return models.SubPortfolio{}, ErrDuplicateSubPortfolio
		}
	}

	sp := models.NewSubPortfolio(name, description, color)
	s.subs = append(s.subs, *sp)
	return *sp, nil
}

// DeleteSubPortfolio removes a grouping; its holdings become unassigned
func (s *Store) DeleteSubPortfolio(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.findSub(id)
	if i < 0 {
		return ErrSubPortfolioNotFound
	}
	s.subs = append(s.subs[:i], s.subs[i+1:]...)
	for j := range s.holdings {
		if s.holdings[j].SubPortfolioID == id {
			s.holdings[j].SubPortfolioID = uuid.Nil
		}
	}
	return nil
}

// SubPortfolios lists the groupings in creation order
func (s *Store) SubPortfolios() []models.SubPortfolio {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.SubPortfolio(nil), s.subs...)
}

// Summary computes the headline metrics for a view
func (s *Store) Summary(view string) (analytics.Summary, error) {
	holdings, err := s.Holdings(view)
	if err != nil {
		return analytics.Summary{}, err
	}
	return analytics.Summarize(holdings), nil
}

// UpdatePrices sets current prices by symbol, e.g. after a market refresh
func (s *Store) UpdatePrices(prices map[string]decimal.Decimal) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.holdings {
		if p, ok := prices[s.holdings[i].Symbol]; ok {
			s.holdings[i].CurrentPrice = p
		}
	}
}

// Portfolios returns the total view followed by one summary per
// sub-portfolio. Daily change comes from the catalog quotes; holdings the
// catalog does not know contribute no change.
func (s *Store) Portfolios(ctx context.Context) ([]models.PortfolioSummary, error) {
	s.mu.RLock()
	subs := append([]models.SubPortfolio(nil), s.subs...)
	all := s.holdingsIn(uuid.Nil)
	s.mu.RUnlock()

	quotes := make(map[string]models.AssetQuote)
	for _, h := range all {
		if _, seen := quotes[h.Symbol]; seen {
			continue
		}
		q, err := s.lookup.GetQuote(ctx, h.Symbol)
		if err != nil {
			if errors.Is(err, models.ErrAssetNotFound) {
				continue
			}
			return nil, fmt.Errorf("failed to quote %s: %w", h.Symbol, err)
		}
		quotes[h.Symbol] = q
	}

	summaries := []models.PortfolioSummary{
		summarize(models.TotalView, "Total Portfolio", all, quotes),
	}
	for _, sp := range subs {
		var in []models.Holding
		for _, h := range all {
			if h.SubPortfolioID == sp.ID {
				in = append(in, h)
			}
		}
		summaries = append(summaries, summarize(sp.ID.String(), sp.Name, in, quotes))
	}
	return summaries, nil
}

// Portfolio returns the summary for one view
func (s *Store) Portfolio(ctx context.Context, view string) (models.PortfolioSummary, error) {
	s.mu.RLock()
	id, err := s.parseView(view)
	s.mu.RUnlock()
	if err != nil {
		return models.PortfolioSummary{}, err
	}

	summaries, err := s.Portfolios(ctx)
	if err != nil {
		return models.PortfolioSummary{}, err
	}

	want := models.TotalView
	if id != uuid.Nil {
		want = id.String()
	}
	for _, p := range summaries {
		if p.ID == want {
			return p, nil
		}
	}
	return models.PortfolioSummary{}, ErrSubPortfolioNotFound
}

var hundred = decimal.NewFromInt(100)

func summarize(id, name string, holdings []models.Holding, quotes map[string]models.AssetQuote) models.PortfolioSummary {
	summary := models.PortfolioSummary{
		ID:                 id,
		Name:               name,
		TotalValue:         analytics.Aggregate(holdings).TotalValue,
		DailyChange:        decimal.Zero,
		DailyChangePercent: decimal.Zero,
		Assets:             make([]models.PortfolioAsset, 0, len(holdings)),
	}

	for _, h := range holdings {
		changePct := decimal.Zero
		if q, ok := quotes[h.Symbol]; ok {
			changePct = q.ChangePercent
			summary.DailyChange = summary.DailyChange.Add(h.Quantity.Mul(q.Change))
		}
		summary.Assets = append(summary.Assets, models.PortfolioAsset{
			Symbol: h.Symbol,
			Name:   h.Name,
			Amount: h.Quantity,
			Value:  h.MarketValue(),
			Change: changePct,
		})
	}

	sort.SliceStable(summary.Assets, func(i, j int) bool {
		return summary.Assets[i].Value.GreaterThan(summary.Assets[j].Value)
	})

	previous := summary.TotalValue.Sub(summary.DailyChange)
	if !previous.IsZero() {
		summary.DailyChangePercent = summary.DailyChange.Div(previous).Mul(hundred).Round(2)
	}
	summary.DailyChange = summary.DailyChange.Round(2)

	return summary
}
