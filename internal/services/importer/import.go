package importer

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/findosh/marketiq/internal/models"
	"github.com/findosh/marketiq/internal/services/portfolio"
)

// Adder is the part of the portfolio store an import writes to
type Adder interface {
	AddAsset(ctx context.Context, in portfolio.AddAssetInput) (models.Holding, error)
}

// Summary reports what an import added
type Summary struct {
	Source    string           `json:"source"`
	Added     []models.Holding `json:"added"`
	Estimated int              `json:"estimated"` // placeholders for symbols missing from the catalog
	Skipped   []string         `json:"skipped"`
}

// Import parses r and adds every position to store, assigned to sub when
// it is not uuid.Nil. It stops at the first position the store rejects.
func Import(ctx context.Context, store Adder, r io.Reader, sub uuid.UUID) (*Summary, error) {
	result, err := Parse(r)
	if err != nil {
		return nil, err
	}

	summary := &Summary{
		Source:  result.Source,
		Added:   make([]models.Holding, 0, len(result.Positions)),
		Skipped: append([]string{}, result.Skipped...),
	}
	for _, p := range result.Positions {
		h, err := store.AddAsset(ctx, portfolio.AddAssetInput{
			Symbol:         p.Symbol,
			Name:           p.Name,
			Quantity:       p.Quantity,
			AverageCost:    p.AverageCost(),
			SubPortfolioID: sub,
		})
		if err != nil {
			return summary, fmt.Errorf("failed to add %s: %w", p.Symbol, err)
		}
		if h.Estimated {
			summary.Estimated++
		}
		summary.Added = append(summary.Added, h)
	}
	return summary, nil
}
