package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"augustlab-backend/internal/domains/auth"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) auth.Repository {
	return &postgresRepository{pool: pool}
}

func (r *postgresRepository) Create(ctx context.Context, session *auth.Session) error {
	const query = `
		INSERT INTO sessions (id, user_id, created_at, expires_at, is_active)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.pool.Exec(ctx, query,
		session.Token,
		session.UserID,
		session.CreatedAt,
		session.ExpiresAt,
		session.IsActive,
	)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

func (r *postgresRepository) Get(ctx context.Context, token string) (*auth.Session, error) {
	const query = `
		SELECT id, user_id, created_at, last_seen_at, expires_at, is_active
		FROM sessions
		WHERE id = $1
	`
	s := &auth.Session{}
	err := r.pool.QueryRow(ctx, query, token).Scan(
		&s.Token,
		&s.UserID,
		&s.CreatedAt,
		&s.LastSeenAt,
		&s.ExpiresAt,
		&s.IsActive,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, auth.ErrInvalidToken
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	return s, nil
}

func (r *postgresRepository) Deactivate(ctx context.Context, token string) error {
	const query = `UPDATE sessions SET is_active = FALSE WHERE id = $1`
	if _, err := r.pool.Exec(ctx, query, token); err != nil {
		return fmt.Errorf("failed to deactivate session: %w", err)
	}
	return nil
}

func (r *postgresRepository) Touch(ctx context.Context, token string, at time.Time) error {
	const query = `UPDATE sessions SET last_seen_at = $2 WHERE id = $1`
	if _, err := r.pool.Exec(ctx, query, token, at); err != nil {
		return fmt.Errorf("failed to touch session: %w", err)
	}
	return nil
}

func (r *postgresRepository) PurgeExpired(ctx context.Context, before time.Time) (int64, error) {
	const query = `DELETE FROM sessions WHERE expires_at < $1`
	tag, err := r.pool.Exec(ctx, query, before)
	if err != nil {
		return 0, fmt.Errorf("failed to purge sessions: %w", err)
	}
	return tag.RowsAffected(), nil
}
