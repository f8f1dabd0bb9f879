package demodata

import (
	"context"
	"strings"

	"github.com/findosh/marketiq/internal/models"
)

// Catalog serves the static datasets as a reference catalog. Used by the
// CLI and tests, and by the server when no database is configured.
type Catalog struct{}

// NewCatalog creates a static catalog
func NewCatalog() *Catalog {
	return &Catalog{}
}

// Assets returns the assets matching filter
func (c *Catalog) Assets(ctx context.Context, filter models.AssetFilter) ([]models.AssetQuote, error) {
	return AssetsFor(filter), nil
}

// Asset looks up a symbol case-insensitively
func (c *Catalog) Asset(ctx context.Context, symbol string) (models.AssetQuote, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	for _, a := range AllAssets() {
		if a.Symbol == symbol {
			return a, nil
		}
	}
	return models.AssetQuote{}, models.ErrAssetNotFound
}

// Narratives returns all narratives
func (c *Catalog) Narratives(ctx context.Context) ([]models.Narrative, error) {
	return Narratives(), nil
}

// Overview returns the market overview
func (c *Catalog) Overview(ctx context.Context) (models.MarketOverview, error) {
	return MarketOverview(), nil
}
