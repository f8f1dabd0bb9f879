package storage

import (
	"context"
	"fmt"

	"github.com/findosh/marketiq/internal/models"
)

// Seed is the initial content of the reference catalog
type Seed struct {
	Assets        []models.AssetQuote
	Narratives    []models.Narrative
	Overview      models.MarketOverview
	Contributions []models.ContributionEntry
}

// SeedIfEmpty writes seed in one transaction when the assets table is empty.
// It reports whether anything was written.
func (db *DB) SeedIfEmpty(ctx context.Context, seed Seed) (bool, error) {
	var count int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM assets").Scan(&count); err != nil {
		return false, fmt.Errorf("failed to count assets: %w", err)
	}
	if count > 0 {
		return false, nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to begin seed: %w", err)
	}
	defer tx.Rollback()

	for _, a := range seed.Assets {
		if err := upsertAsset(ctx, tx, a); err != nil {
			return false, err
		}
	}
	for i, n := range seed.Narratives {
		if err := upsertNarrative(ctx, tx, i, n); err != nil {
			return false, err
		}
	}
	for i, e := range seed.Contributions {
		if err := upsertContribution(ctx, tx, i, e); err != nil {
			return false, err
		}
	}
	if err := setSnapshot(ctx, tx, overviewSnapshot, seed.Overview); err != nil {
		return false, err
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit seed: %w", err)
	}
	return true, nil
}
