package auth

import (
	"context"
	"time"
)

// Repository is the session store.
type Repository interface {
	Create(ctx context.Context, session *Session) error

	// Get returns the session for a token regardless of state, or
	// ErrInvalidToken when no row exists.
	Get(ctx context.Context, token string) (*Session, error)

	// Deactivate marks a session revoked. Deactivating a missing or already
	// revoked session is not an error.
	Deactivate(ctx context.Context, token string) error

	// Touch updates last_seen_at; best-effort.
	Touch(ctx context.Context, token string, at time.Time) error

	// PurgeExpired deletes sessions past their absolute expiry, returning
	// the number removed.
	PurgeExpired(ctx context.Context, before time.Time) (int64, error)
}
