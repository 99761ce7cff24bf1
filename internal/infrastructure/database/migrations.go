package database

import (
	"context"
	"fmt"

	pkgdb "augustlab-backend/pkg/database"
	"augustlab-backend/pkg/logger"

	"github.com/jackc/pgx/v5"
)

type migration struct {
	Version int
	Name    string
	SQL     string
}

// Ordered migrations applied on top of the base schema. New entries append;
// existing entries never change.
var migrations = []migration{
	{
		Version: 1,
		Name:    "sessions_last_seen",
		SQL:     `ALTER TABLE sessions ADD COLUMN IF NOT EXISTS last_seen_at TIMESTAMPTZ`,
	},
	{
		Version: 2,
		Name:    "products_entry_file_default",
		SQL:     `ALTER TABLE products ALTER COLUMN entry_file SET DEFAULT 'index.html'`,
	},
	{
		Version: 3,
		Name:    "blog_cover_image_width",
		SQL:     `ALTER TABLE blog ALTER COLUMN cover_image TYPE VARCHAR(500)`,
	},
}

// Migrate applies pending migrations in order, recording each in
// schema_migrations.
func (db *PostgresDB) Migrate(ctx context.Context) (int, error) {
	const table = `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version    INTEGER PRIMARY KEY,
			name       VARCHAR(200) NOT NULL,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`
	if _, err := db.Pool.Exec(ctx, table); err != nil {
		return 0, fmt.Errorf("failed to create schema_migrations: %w", err)
	}

	applied := 0
	for _, m := range migrations {
		var exists bool
		err := db.Pool.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM schema_migrations WHERE version = $1)`, m.Version,
		).Scan(&exists)
		if err != nil {
			return applied, fmt.Errorf("migration lookup failed: %w", err)
		}
		if exists {
			continue
		}

		// The DDL and its record commit together or not at all.
		err = pkgdb.WithTransaction(ctx, db.Pool, func(tx pgx.Tx) error {
			if _, err := tx.Exec(ctx, m.SQL); err != nil {
				return fmt.Errorf("migration %d (%s) failed: %w", m.Version, m.Name, err)
			}
			if _, err := tx.Exec(ctx,
				`INSERT INTO schema_migrations (version, name) VALUES ($1, $2)`, m.Version, m.Name,
			); err != nil {
				return fmt.Errorf("failed to record migration %d: %w", m.Version, err)
			}
			return nil
		})
		if err != nil {
			return applied, err
		}

		logger.Info("Migration applied", map[string]interface{}{
			"version": m.Version,
			"name":    m.Name,
		})
		applied++
	}

	return applied, nil
}
