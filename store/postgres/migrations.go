package postgres

import (
	"context"

	"github.com/xraph/grove/migrate"
)

// Migrations is the grove migration group for the calo store.
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
    area_m2         DOUBLE PRECISION NOT NULL DEFAULT 0,
    total_length_cm DOUBLE PRECISION NOT NULL DEFAULT 0,
    total_cost      BIGINT NOT NULL DEFAULT 0,
    currency        TEXT NOT NULL DEFAULT 'chf',
    layers          JSONB NOT NULL DEFAULT '[]',
    specs           JSONB NOT NULL DEFAULT '{}',
    cost            JSONB NOT NULL DEFAULT '{}',
    metadata        JSONB NOT NULL DEFAULT '{}',
    created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_calo_reports_name ON calo_reports (name);
CREATE INDEX IF NOT EXISTS idx_calo_reports_variant ON calo_reports (variant, created_at DESC);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS calo_reports`)
				return err
			},
		},
		&migrate.Migration{
			Name:    "add_calo_reports_cost_index",
			Version: "20260101000002",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE INDEX IF NOT EXISTS idx_calo_reports_total_cost ON calo_reports (currency, total_cost);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP INDEX IF EXISTS idx_calo_reports_total_cost`)
				return err
			},
		},
	)
}
