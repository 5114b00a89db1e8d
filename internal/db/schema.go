package db

import (
	"database/sql"
	"fmt"
)

// schema is the full database schema for the local sqlite driver. Hosted
// postgres deployments are provisioned out of band, the same way the
// original hosted store was.
const schema = `
CREATE TABLE IF NOT EXISTS offer_rails (
    id          TEXT PRIMARY KEY,
    title       TEXT NOT NULL,
    description TEXT NOT NULL,
    sort_order  INTEGER NOT NULL DEFAULT 0,
    created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS offer_items (
    id             TEXT PRIMARY KEY,
    rail_id        TEXT NOT NULL REFERENCES offer_rails(id) ON DELETE CASCADE,
    product        TEXT NOT NULL,
    description    TEXT NOT NULL,
    image_src      TEXT NOT NULL,
    image_alt      TEXT NOT NULL,
    price          TEXT NOT NULL,
    original_price TEXT NOT NULL,
    location       TEXT NOT NULL,
    badge          TEXT,
    starts_at      TEXT,
    ends_at        TEXT,
    sort_order     INTEGER NOT NULL DEFAULT 0,
    created_at     DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

// migrations is a list of SQL statements applied in order after schema
// creation. Each migration must be idempotent. Append new migrations at
// the end.
var migrations = []string{
	// Migration 1: indexes for the rail join and the expiry purge.
	`CREATE INDEX IF NOT EXISTS idx_offer_items_rail ON offer_items(rail_id)`,
	`CREATE INDEX IF NOT EXISTS idx_offer_items_ends_at ON offer_items(ends_at)`,
}

// Migrate creates the schema and runs the migrations.
func Migrate(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}

	for i, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return fmt.Errorf("running migration %d: %w", i+1, err)
		}
	}

	return nil
}
