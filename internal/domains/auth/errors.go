package auth

import "errors"

var (
	// ErrInvalidCredentials is returned by Login for a bad username/password
	// pair.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrInvalidToken covers every Verify failure mode: absent, unknown,
	// expired or revoked. Callers must not be able to tell them apart.
	ErrInvalidToken = errors.New("invalid or expired token")
)
