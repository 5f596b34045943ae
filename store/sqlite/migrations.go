package sqlite

import (
	"context"

	"github.com/xraph/grove/migrate"
)

// Migrations is the grove migration group for the calo store (SQLite).
var Migrations = migrate.NewGroup("calo")

func init() {
	Migrations.MustRegister(
		&migrate.Migration{
			Name:    "create_calo_reports",
			Version: "20260101000001",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS calo_reports (
    id              TEXT PRIMARY KEY,
    name            TEXT NOT NULL,
    variant         TEXT NOT NULL DEFAULT '',
    area_m2         REAL NOT NULL DEFAULT 0,
    total_length_cm REAL NOT NULL DEFAULT 0,
    total_cost      INTEGER NOT NULL DEFAULT 0,
    currency        TEXT NOT NULL DEFAULT 'chf',
    layers          TEXT NOT NULL DEFAULT '[]',
    specs           TEXT NOT NULL DEFAULT '{}',
    cost            TEXT NOT NULL DEFAULT '{}',
    metadata        TEXT NOT NULL DEFAULT '{}',
    created_at      TEXT NOT NULL DEFAULT (datetime('now')),
    updated_at      TEXT NOT NULL DEFAULT (datetime('now'))
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_calo_reports_name ON calo_reports (name);
CREATE INDEX IF NOT EXISTS idx_calo_reports_variant ON calo_reports (variant, created_at);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS calo_reports`)
				return err
			},
		},
	)
}
