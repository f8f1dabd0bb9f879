package storage

import (
	"context"
	"fmt"

	"github.com/findosh/marketiq/internal/models"
	"github.com/shopspring/decimal"
)

// ContributionRepository provides the performance attribution dataset
type ContributionRepository struct {
	db *DB
}

// NewContributionRepository creates a new contribution repository
func NewContributionRepository(db *DB) *ContributionRepository {
	return &ContributionRepository{db: db}
}

// Upsert inserts or replaces an entry at position
func (r *ContributionRepository) Upsert(ctx context.Context, position int, e models.ContributionEntry) error {
	return upsertContribution(ctx, r.db, position, e)
}

func upsertContribution(ctx context.Context, ex execer, position int, e models.ContributionEntry) error {
	query := `
		INSERT OR REPLACE INTO contributions (asset, position, category, weight, performance, contribution)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	_, err := ex.ExecContext(ctx, query,
		e.Asset, position, e.Category,
		e.Weight.String(), e.Performance.String(), e.Contribution.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert contribution %s: %w", e.Asset, err)
	}
	return nil
}

// List returns entries in position order
func (r *ContributionRepository) List(ctx context.Context) ([]models.ContributionEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT asset, category, weight, performance, contribution
		FROM contributions ORDER BY position, asset
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query contributions: %w", err)
	}
	defer rows.Close()

	entries := make([]models.ContributionEntry, 0)
	for rows.Next() {
		var e models.ContributionEntry
		var weight, performance, contribution string
		if err := rows.Scan(&e.Asset, &e.Category, &weight, &performance, &contribution); err != nil {
			return nil, fmt.Errorf("failed to scan contribution: %w", err)
		}
		e.Weight, _ = decimal.NewFromString(weight)
		e.Performance, _ = decimal.NewFromString(performance)
		e.Contribution, _ = decimal.NewFromString(contribution)
		entries = append(entries, e)
	}

	return entries, rows.Err()
}
