package postgres

import (
	"context"
	"database/sql"
	"fmt"
)

// Schema statements applied in order. Each statement is idempotent so Apply
// can run on every start.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS collections (
		id TEXT PRIMARY KEY,
		authority TEXT NOT NULL,
		name VARCHAR(64) NOT NULL,
		symbol VARCHAR(12) NOT NULL,
		uri VARCHAR(200) NOT NULL DEFAULT '',
		royalty_basis_points SMALLINT NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS assets (
		id TEXT PRIMARY KEY,
		token_id TEXT NOT NULL,
		collection_id TEXT NOT NULL REFERENCES collections(id),
		owner TEXT NOT NULL,
		creator TEXT NOT NULL,
		title VARCHAR(100) NOT NULL,
		uri VARCHAR(200) NOT NULL DEFAULT '',
		royalty_basis_points SMALLINT NOT NULL DEFAULT 0,
		for_sale BOOLEAN NOT NULL DEFAULT FALSE,
		price BIGINT NOT NULL DEFAULT 0,
		minted_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS ledger_accounts (
		id TEXT NOT NULL,
		address TEXT PRIMARY KEY,
		balance BIGINT NOT NULL DEFAULT 0 CHECK (balance >= 0),
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS ledger_transfers (
		id TEXT PRIMARY KEY,
		from_address TEXT NOT NULL,
		to_address TEXT NOT NULL,
		amount BIGINT NOT NULL,
		reference TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_assets_owner ON assets (owner)`,
	`CREATE INDEX IF NOT EXISTS idx_assets_collection ON assets (collection_id)`,
	`CREATE INDEX IF NOT EXISTS idx_assets_for_sale ON assets (for_sale) WHERE for_sale`,
	`CREATE INDEX IF NOT EXISTS idx_transfers_reference ON ledger_transfers (reference)`,
}

// Apply executes the schema migrations against the database.
func Apply(ctx context.Context, db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i+1, err)
		}
	}
	return nil
}
