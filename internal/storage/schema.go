package storage

import (
	"context"
	"database/sql"
	"fmt"
)

const schemaV1 = `
CREATE TABLE IF NOT EXISTS runs (
    id TEXT PRIMARY KEY,
    variant TEXT NOT NULL,
    integrator TEXT NOT NULL,
    created_at TEXT NOT NULL,
    seed INTEGER NOT NULL,
    dt REAL NOT NULL,
    duration REAL NOT NULL,
    batch INTEGER NOT NULL,
    steps INTEGER NOT NULL,
    warnings INTEGER DEFAULT 0,
    clipped INTEGER DEFAULT 0,
    metrics TEXT  -- JSON object
);
CREATE INDEX IF NOT EXISTS idx_runs_variant ON runs(variant, created_at);
`

func initSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schemaV1); err != nil {
		return fmt.Errorf("create runs table: %w", err)
	}
	return nil
}
