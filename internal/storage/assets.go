package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/findosh/marketiq/internal/models"
	"github.com/shopspring/decimal"
)

// ErrNotSeeded is returned when a snapshot has never been written
var ErrNotSeeded = errors.New("catalog not seeded")

const overviewSnapshot = "market_overview"

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// AssetRepository serves the reference catalog: assets, narratives and the
// market overview.
type AssetRepository struct {
	db *DB
}

// NewAssetRepository creates a new asset repository
func NewAssetRepository(db *DB) *AssetRepository {
	return &AssetRepository{db: db}
}

// Upsert inserts or replaces an asset quote
func (r *AssetRepository) Upsert(ctx context.Context, q models.AssetQuote) error {
	return upsertAsset(ctx, r.db, q)
}

func upsertAsset(ctx context.Context, ex execer, q models.AssetQuote) error {
	query := `
		INSERT INTO assets (symbol, name, asset_class, rank, price, change, change_percent,
			iq_score, volume, rsi, narrative_signal, narrative_strength, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(symbol) DO UPDATE SET
			name = excluded.name,
			asset_class = excluded.asset_class,
			rank = excluded.rank,
			price = excluded.price,
			change = excluded.change,
			change_percent = excluded.change_percent,
			iq_score = excluded.iq_score,
			volume = excluded.volume,
			rsi = excluded.rsi,
			narrative_signal = excluded.narrative_signal,
			narrative_strength = excluded.narrative_strength,
			updated_at = CURRENT_TIMESTAMP
	`
	_, err := ex.ExecContext(ctx, query,
		strings.ToUpper(q.Symbol),
		q.Name,
		string(q.Type),
		q.Rank,
		q.Price.String(),
		q.Change.String(),
		q.ChangePercent.String(),
		q.IQScore,
		q.Volume.String(),
		q.RSI.String(),
		q.NarrativeSignal,
		q.NarrativeStrength,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert asset %s: %w", q.Symbol, err)
	}
	return nil
}

const selectAssets = `
	SELECT symbol, name, asset_class, rank, price, change, change_percent,
		iq_score, volume, rsi, narrative_signal, narrative_strength
	FROM assets
`

// Assets lists assets matching filter, crypto first, each class by rank
func (r *AssetRepository) Assets(ctx context.Context, filter models.AssetFilter) ([]models.AssetQuote, error) {
	query := selectAssets
	var args []any
	if filter != models.FilterAll {
		query += " WHERE asset_class = ?"
		args = append(args, string(filter))
	}
	query += " ORDER BY CASE asset_class WHEN 'crypto' THEN 0 ELSE 1 END, rank, symbol"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query assets: %w", err)
	}
	defer rows.Close()

	assets := make([]models.AssetQuote, 0)
	for rows.Next() {
		q, err := scanAsset(rows)
		if err != nil {
			return nil, err
		}
		assets = append(assets, q)
	}

	return assets, rows.Err()
}

// Asset returns one asset by symbol, ignoring case
func (r *AssetRepository) Asset(ctx context.Context, symbol string) (models.AssetQuote, error) {
	row := r.db.QueryRowContext(ctx, selectAssets+" WHERE symbol = ?", strings.ToUpper(strings.TrimSpace(symbol)))
	q, err := scanAsset(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.AssetQuote{}, models.ErrAssetNotFound
	}
	return q, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanAsset(s scanner) (models.AssetQuote, error) {
	var q models.AssetQuote
	var class, price, change, changePct, volume, rsi string

	err := s.Scan(&q.Symbol, &q.Name, &class, &q.Rank, &price, &change, &changePct,
		&q.IQScore, &volume, &rsi, &q.NarrativeSignal, &q.NarrativeStrength)
	if errors.Is(err, sql.ErrNoRows) {
		return q, err
	}
	if err != nil {
		return q, fmt.Errorf("failed to scan asset: %w", err)
	}

	q.Type = models.AssetClass(class)
	q.Price, _ = decimal.NewFromString(price)
	q.Change, _ = decimal.NewFromString(change)
	q.ChangePercent, _ = decimal.NewFromString(changePct)
	q.Volume, _ = decimal.NewFromString(volume)
	q.RSI, _ = decimal.NewFromString(rsi)

	return q, nil
}

// UpsertNarrative inserts or replaces a narrative at position
func (r *AssetRepository) UpsertNarrative(ctx context.Context, position int, n models.Narrative) error {
	return upsertNarrative(ctx, r.db, position, n)
}

func upsertNarrative(ctx context.Context, ex execer, position int, n models.Narrative) error {
	assets, err := json.Marshal(n.Assets)
	if err != nil {
		return fmt.Errorf("failed to encode narrative assets: %w", err)
	}

	query := `
		INSERT OR REPLACE INTO narratives
			(name, position, strength, assets, category, description, trend, momentum, market_cap)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = ex.ExecContext(ctx, query,
		n.Name, position, n.Strength, string(assets), n.Category,
		n.Description, n.Trend, n.Momentum, n.MarketCap.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert narrative %s: %w", n.Name, err)
	}
	return nil
}

// Narratives lists narratives in position order
func (r *AssetRepository) Narratives(ctx context.Context) ([]models.Narrative, error) {
	query := `
		SELECT name, strength, assets, category, description, trend, momentum, market_cap
		FROM narratives ORDER BY position, name
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query narratives: %w", err)
	}
	defer rows.Close()

	narratives := make([]models.Narrative, 0)
	for rows.Next() {
		var n models.Narrative
		var assets, marketCap string
		if err := rows.Scan(&n.Name, &n.Strength, &assets, &n.Category, &n.Description,
			&n.Trend, &n.Momentum, &marketCap); err != nil {
			return nil, fmt.Errorf("failed to scan narrative: %w", err)
		}
		if err := json.Unmarshal([]byte(assets), &n.Assets); err != nil {
			return nil, fmt.Errorf("failed to decode narrative assets: %w", err)
		}
		n.MarketCap, _ = decimal.NewFromString(marketCap)
		narratives = append(narratives, n)
	}

	return narratives, rows.Err()
}

// SetOverview stores the market overview snapshot
func (r *AssetRepository) SetOverview(ctx context.Context, o models.MarketOverview) error {
	return setSnapshot(ctx, r.db, overviewSnapshot, o)
}

func setSnapshot(ctx context.Context, ex execer, name string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot %s: %w", name, err)
	}
	query := `
		INSERT INTO snapshots (name, data, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(name) DO UPDATE SET data = excluded.data, updated_at = CURRENT_TIMESTAMP
	`
	if _, err := ex.ExecContext(ctx, query, name, string(data)); err != nil {
		return fmt.Errorf("failed to store snapshot %s: %w", name, err)
	}
	return nil
}

// Overview returns the stored market overview, or ErrNotSeeded
func (r *AssetRepository) Overview(ctx context.Context) (models.MarketOverview, error) {
	var data string
	err := r.db.QueryRowContext(ctx, "SELECT data FROM snapshots WHERE name = ?", overviewSnapshot).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return models.MarketOverview{}, ErrNotSeeded
	}
	if err != nil {
		return models.MarketOverview{}, fmt.Errorf("failed to load market overview: %w", err)
	}

	var o models.MarketOverview
	if err := json.Unmarshal([]byte(data), &o); err != nil {
		return models.MarketOverview{}, fmt.Errorf("failed to decode market overview: %w", err)
	}
	return o, nil
}
