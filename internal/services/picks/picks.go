// Package picks serves the ranked stock picks and the analyst consensus
// leaderboard.
package picks

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/findosh/marketiq/internal/models"
)

// ErrUnknownCategory is returned for a universe that cannot be resolved
var ErrUnknownCategory = errors.New("unknown stock universe")

// Category is a stock universe the picks are ranked within
type Category string

const (
	CategoryLargeCap Category = "large-cap"
	CategoryMidCap   Category = "mid-cap"
	CategorySmallCap Category = "small-cap"
	CategoryPenny    Category = "penny"
	CategorySP500    Category = "sp500"
	CategoryRussell  Category = "russell"
)

// DefaultCategory applies when no universe is given
const DefaultCategory = CategoryLargeCap

// AllCategories returns the universes in display order
func AllCategories() []Category {
	return []Category{
		CategoryLargeCap,
		CategoryMidCap,
		CategorySmallCap,
		CategoryPenny,
		CategorySP500,
		CategoryRussell,
	}
}

// DisplayName returns a human-readable name
func (c Category) DisplayName() string {
	switch c {
	case CategoryLargeCap:
		return "Large Cap"
	case CategoryMidCap:
		return "Mid Cap"
	case CategorySmallCap:
		return "Small Cap"
	case CategoryPenny:
		return "Penny Stocks"
	case CategorySP500:
		return "S&P 500"
	case CategoryRussell:
		return "Russell 1000"
	default:
		return string(c)
	}
}

// ParseCategory resolves user input such as "large", "Mid Cap" or "s&p"
// to a universe. Empty input means DefaultCategory.
func ParseCategory(s string) (Category, error) {
	query := strings.ToLower(strings.TrimSpace(s))
	if query == "" {
		return DefaultCategory, nil
	}

	switch {
	case containsAny(query, []string{"large", "mega", "blue chip"}):
		return CategoryLargeCap, nil
	case containsAny(query, []string{"mid"}):
		return CategoryMidCap, nil
	case containsAny(query, []string{"small", "micro"}):
		return CategorySmallCap, nil
	case containsAny(query, []string{"penny", "otc"}):
		return CategoryPenny, nil
	case containsAny(query, []string{"sp500", "s&p", "sp 500", "spx"}):
		return CategorySP500, nil
	case containsAny(query, []string{"russell", "r1000", "rui"}):
		return CategoryRussell, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCategory, s)
}

// containsAny checks if text contains any of the patterns
func containsAny(text string, patterns []string) bool {
	for _, p := range patterns {
		if strings.Contains(text, p) {
			return true
		}
	}
	return false
}

// Summary condenses one universe into the picker's overview cards
type Summary struct {
	Category          Category          `json:"category"`
	Count             int               `json:"count"`
	StrongBuys        int               `json:"strongBuys"`
	Upgrades          int               `json:"upgrades"`
	AverageConfidence decimal.Decimal   `json:"averageConfidence"`
	AverageIQScore    decimal.Decimal   `json:"averageIqScore"`
	TopPick           *models.StockPick `json:"topPick,omitempty"`
}

// Service answers picks queries over a fixed dataset
type Service struct {
	picks     map[Category][]models.StockPick
	consensus []models.Analyst
}

// NewService creates a service over picks keyed by universe slug. Keys that
// are not a known universe are ignored.
func NewService(picks map[string][]models.StockPick, consensus []models.Analyst) *Service {
	s := &Service{
		picks:     make(map[Category][]models.StockPick, len(picks)),
		consensus: append([]models.Analyst(nil), consensus...),
	}
	for _, c := range AllCategories() {
		list := append([]models.StockPick(nil), picks[string(c)]...)
		sort.SliceStable(list, func(i, j int) bool {
			return list[i].StockRank < list[j].StockRank
		})
		s.picks[c] = list
	}
	sort.SliceStable(s.consensus, func(i, j int) bool {
		return s.consensus[i].Accuracy.GreaterThan(s.consensus[j].Accuracy)
	})
	for i := range s.consensus {
		s.consensus[i].Rank = i + 1
	}
	return s
}

// Picks returns the ranked picks of one universe whose rating is at least
// minRating. An empty minRating keeps every pick.
func (s *Service) Picks(category Category, minRating models.Rating) ([]models.StockPick, error) {
	list, ok := s.picks[category]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCategory, category)
	}

	out := make([]models.StockPick, 0, len(list))
	for _, p := range list {
		if minRating == "" || p.TechnicalRating.Score() >= minRating.Score() {
			out = append(out, p)
		}
	}
	return out, nil
}

// Summarize computes the overview cards for one universe
func (s *Service) Summarize(category Category) (Summary, error) {
	list, err := s.Picks(category, "")
	if err != nil {
		return Summary{}, err
	}

	sum := Summary{
		Category:          category,
		Count:             len(list),
		AverageConfidence: decimal.Zero,
		AverageIQScore:    decimal.Zero,
	}
	if len(list) == 0 {
		return sum, nil
	}

	var confidence, iq int64
	for _, p := range list {
		confidence += int64(p.Confidence)
		iq += int64(p.IQScore)
		if p.TechnicalRating == models.RatingStrongBuy {
			sum.StrongBuys++
		}
		if p.RatingChange == models.RatingUpgraded {
			sum.Upgrades++
		}
	}
	n := decimal.NewFromInt(int64(len(list)))
	sum.AverageConfidence = decimal.NewFromInt(confidence).Div(n).Round(1)
	sum.AverageIQScore = decimal.NewFromInt(iq).Div(n).Round(1)
	top := list[0]
	sum.TopPick = &top
	return sum, nil
}

// Consensus returns the analyst leaderboard, best accuracy first
func (s *Service) Consensus() []models.Analyst {
	return append([]models.Analyst(nil), s.consensus...)
}

// WinRate is wins over picks in percent, rounded to one decimal
func WinRate(a models.Analyst) decimal.Decimal {
	if a.Picks == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(a.Wins)).
		Div(decimal.NewFromInt(int64(a.Picks))).
		Mul(decimal.NewFromInt(100)).
		Round(1)
}
