// Package storage provides database access and repositories for the
// reference market catalog. User portfolio state is never stored here.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

// DB wraps the database connection
type DB struct {
	*sql.DB
}

// New creates a new database connection
func New(databaseURL string) (*DB, error) {
	db, err := sql.Open("sqlite3", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Each connection to :memory: is a separate database
	if strings.Contains(databaseURL, ":memory:") {
		db.SetMaxOpenConns(1)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	return &DB{db}, nil
}

// Migrate runs database migrations
func (db *DB) Migrate(ctx context.Context) error {
	migrations := []string{
		createAssetsTable,
		createNarrativesTable,
		createContributionsTable,
		createSnapshotsTable,
	}

	for _, migration := range migrations {
		if _, err := db.ExecContext(ctx, migration); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}

	return nil
}

const createAssetsTable = `
CREATE TABLE IF NOT EXISTS assets (
	symbol TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	asset_class TEXT NOT NULL,
	rank INTEGER NOT NULL DEFAULT 0,
	price TEXT NOT NULL DEFAULT '0',
	change TEXT NOT NULL DEFAULT '0',
	change_percent TEXT NOT NULL DEFAULT '0',
	iq_score INTEGER NOT NULL DEFAULT 0,
	volume TEXT NOT NULL DEFAULT '0',
	rsi TEXT NOT NULL DEFAULT '0',
	narrative_signal TEXT NOT NULL DEFAULT '',
	narrative_strength INTEGER NOT NULL DEFAULT 0,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_assets_class ON assets(asset_class);
`

const createNarrativesTable = `
CREATE TABLE IF NOT EXISTS narratives (
	name TEXT PRIMARY KEY,
	position INTEGER NOT NULL,
	strength INTEGER NOT NULL,
	assets TEXT NOT NULL DEFAULT '[]',
	category TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	trend TEXT NOT NULL DEFAULT 'stable',
	momentum INTEGER NOT NULL DEFAULT 0,
	market_cap TEXT NOT NULL DEFAULT '0'
);
`

const createContributionsTable = `
CREATE TABLE IF NOT EXISTS contributions (
	asset TEXT PRIMARY KEY,
	position INTEGER NOT NULL,
	category TEXT NOT NULL DEFAULT '',
	weight TEXT NOT NULL,
	performance TEXT NOT NULL,
	contribution TEXT NOT NULL
);
`

const createSnapshotsTable = `
CREATE TABLE IF NOT EXISTS snapshots (
	name TEXT PRIMARY KEY,
	data TEXT NOT NULL,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);
`
