package auth

import "context"

// Service issues, verifies and revokes opaque bearer tokens.
type Service interface {
	// Login validates credentials against the configured administrator
	// record and returns a new session token. Comparison is constant-time.
	Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error)

	// Verify returns the principal bound to a live token, or
	// ErrInvalidToken.
	Verify(ctx context.Context, token string) (string, error)

	// Logout revokes the session; idempotent.
	Logout(ctx context.Context, token string) error
}
