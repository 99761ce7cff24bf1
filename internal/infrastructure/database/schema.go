package database

import (
	"context"
	"fmt"
)

// Table DDL. List-valued columns are jsonb arrays; a stored NULL must read
// back as an empty list, which the repositories enforce on scan.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS portfolio (
		id            SERIAL PRIMARY KEY,
		title         VARCHAR(200) NOT NULL,
		description   TEXT,
		tech_stack    JSONB DEFAULT '[]'::jsonb,
		project_url   VARCHAR(500),
		github_url    VARCHAR(500),
		image_url     VARCHAR(500),
		display_order INTEGER NOT NULL DEFAULT 0,
		is_featured   BOOLEAN NOT NULL DEFAULT FALSE,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_portfolio_order_created ON portfolio (display_order, created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_portfolio_featured_created ON portfolio (is_featured, created_at)`,

	`CREATE TABLE IF NOT EXISTS blog (
		id           SERIAL PRIMARY KEY,
		title        VARCHAR(200) NOT NULL,
		content      TEXT NOT NULL,
		summary      TEXT,
		tags         JSONB DEFAULT '[]'::jsonb,
		is_published BOOLEAN NOT NULL DEFAULT FALSE,
		cover_image  VARCHAR(500),
		published_at TIMESTAMPTZ,
		created_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at   TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_blog_published_date ON blog (is_published, published_at)`,
	`CREATE INDEX IF NOT EXISTS idx_blog_published_created ON blog (is_published, created_at)`,

	`CREATE TABLE IF NOT EXISTS profile (
		id           INTEGER PRIMARY KEY DEFAULT 1,
		name         VARCHAR(100) NOT NULL,
		title        VARCHAR(200),
		bio          TEXT,
		avatar_url   VARCHAR(500),
		email        VARCHAR(100) UNIQUE,
		github_url   VARCHAR(500),
		linkedin_url VARCHAR(500),
		twitter_url  VARCHAR(500),
		skills       JSONB DEFAULT '[]'::jsonb,
		updated_at   TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,

	`CREATE TABLE IF NOT EXISTS sessions (
		id           VARCHAR(100) PRIMARY KEY,
		user_id      VARCHAR(50) NOT NULL DEFAULT 'admin',
		created_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
		last_seen_at TIMESTAMPTZ,
		expires_at   TIMESTAMPTZ NOT NULL,
		is_active    BOOLEAN NOT NULL DEFAULT TRUE
	)`,
	`CREATE INDEX IF NOT EXISTS idx_session_active_expires ON sessions (is_active, expires_at)`,
	`CREATE INDEX IF NOT EXISTS idx_session_user_active ON sessions (user_id, is_active)`,

	`CREATE TABLE IF NOT EXISTS products (
		id            SERIAL PRIMARY KEY,
		title         VARCHAR(200) NOT NULL,
		description   TEXT,
		tech_stack    JSONB DEFAULT '[]'::jsonb,
		product_type  VARCHAR(50) NOT NULL,
		entry_file    VARCHAR(200) NOT NULL DEFAULT 'index.html',
		file_path     VARCHAR(500),
		config_data   JSONB DEFAULT '{}'::jsonb,
		is_published  BOOLEAN NOT NULL DEFAULT FALSE,
		is_featured   BOOLEAN NOT NULL DEFAULT FALSE,
		display_order INTEGER NOT NULL DEFAULT 0,
		version       VARCHAR(50) NOT NULL DEFAULT '1.0.0',
		created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_product_published_order ON products (is_published, display_order)`,
	`CREATE INDEX IF NOT EXISTS idx_product_type_published ON products (product_type, is_published)`,
}

// tableNames in creation order; drop happens in reverse.
var tableNames = []string{"portfolio", "blog", "profile", "sessions", "products"}

// CreateTables applies the schema idempotently.
func (db *PostgresDB) CreateTables(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := db.Pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("schema statement failed: %w", err)
		}
	}
	return nil
}

// DropTables removes all application tables.
func (db *PostgresDB) DropTables(ctx context.Context) error {
	for i := len(tableNames) - 1; i >= 0; i-- {
		stmt := fmt.Sprintf(`DROP TABLE IF EXISTS %s CASCADE`, tableNames[i])
		if _, err := db.Pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("drop %s failed: %w", tableNames[i], err)
		}
	}
	return nil
}

// ListTables returns the application tables that currently exist.
func (db *PostgresDB) ListTables(ctx context.Context) ([]string, error) {
	const query = `
		SELECT table_name FROM information_schema.tables
		WHERE table_schema = 'public' AND table_type = 'BASE TABLE'
		ORDER BY table_name
	`
	rows, err := db.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// TableStats reports row counts per application table.
func (db *PostgresDB) TableStats(ctx context.Context) (map[string]int64, error) {
	stats := make(map[string]int64, len(tableNames))
	for _, name := range tableNames {
		var count int64
		// Table names come from the fixed list above, never from input.
		if err := db.Pool.QueryRow(ctx, fmt.Sprintf(`SELECT COUNT(*) FROM %s`, name)).Scan(&count); err != nil {
			return nil, fmt.Errorf("count %s failed: %w", name, err)
		}
		stats[name] = count
	}
	return stats, nil
}
