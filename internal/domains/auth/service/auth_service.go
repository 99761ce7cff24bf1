package service

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"time"

	"augustlab-backend/internal/domains/auth"
	"augustlab-backend/pkg/cache"
	"augustlab-backend/pkg/logger"

	"golang.org/x/crypto/bcrypt"
)

// tokenBytes gives 256 bits of entropy, rendered as 64 hex characters.
const tokenBytes = 32

// verifyCacheTTL bounds staleness of the verified-token cache. Logout
// deletes the entry, so the TTL only matters for expiry drift.
const verifyCacheTTL = 5 * time.Minute

type cachedSession struct {
	UserID    string    `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

type authService struct {
	repo  auth.Repository
	cache cache.Cache

	adminUsername []byte
	passwordHash  []byte
	sessionTTL    time.Duration

	now func() time.Time
}

// NewAuthService hashes the configured admin password once at construction
// so Login never handles the plaintext comparison itself.
func NewAuthService(repo auth.Repository, c cache.Cache, adminUsername, adminPassword string, sessionTTL time.Duration) (auth.Service, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash admin password: %w", err)
	}
	return &authService{
		repo:          repo,
		cache:         c,
		adminUsername: []byte(adminUsername),
		passwordHash:  hash,
		sessionTTL:    sessionTTL,
		now:           time.Now,
	}, nil
}

func (s *authService) Login(ctx context.Context, req *auth.LoginRequest) (*auth.LoginResponse, error) {
	// Evaluate both comparisons unconditionally so the failure path does not
	// leak which field was wrong.
	userOK := subtle.ConstantTimeCompare(s.adminUsername, []byte(req.Username)) == 1
	passErr := bcrypt.CompareHashAndPassword(s.passwordHash, []byte(req.Password))
	if !userOK || passErr != nil {
		return nil, auth.ErrInvalidCredentials
	}

	token, err := newToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	now := s.now().UTC()
	session := &auth.Session{
		Token:     token,
		UserID:    "admin",
		CreatedAt: now,
		ExpiresAt: now.Add(s.sessionTTL),
		IsActive:  true,
	}

	if err := s.repo.Create(ctx, session); err != nil {
		return nil, err
	}

	logger.Info("Session created", map[string]interface{}{
		"user_id":    session.UserID,
		"expires_at": session.ExpiresAt,
	})

	return &auth.LoginResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresAt:   session.ExpiresAt,
	}, nil
}

func (s *authService) Verify(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", auth.ErrInvalidToken
	}

	now := s.now().UTC()

	if s.cache != nil {
		var cached cachedSession
		if found, err := s.cache.Get(ctx, cacheKey(token), &cached); err == nil && found {
			if now.Before(cached.ExpiresAt) {
				return cached.UserID, nil
			}
			// Expired since caching; fall through to the store.
			s.cache.Delete(ctx, cacheKey(token))
		}
	}

	session, err := s.repo.Get(ctx, token)
	if err != nil {
		return "", auth.ErrInvalidToken
	}
	if !session.Live(now) {
		return "", auth.ErrInvalidToken
	}

	if s.cache != nil {
		ttl := verifyCacheTTL
		if until := session.ExpiresAt.Sub(now); until < ttl {
			ttl = until
		}
		s.cache.Set(ctx, cacheKey(token), cachedSession{
			UserID:    session.UserID,
			ExpiresAt: session.ExpiresAt,
		}, ttl)
	}

	// Best-effort; a failed touch must not fail verification.
	if err := s.repo.Touch(ctx, token, now); err != nil {
		logger.Error("Failed to touch session", err)
	}

	return session.UserID, nil
}

func (s *authService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}

	// Invalidate the cache before the row so a concurrent Verify cannot
	// re-validate from a stale entry after the revocation commits.
	if s.cache != nil {
		if err := s.cache.Delete(ctx, cacheKey(token)); err != nil {
			logger.Error("Failed to invalidate session cache", err)
		}
	}

	return s.repo.Deactivate(ctx, token)
}

func newToken() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

func cacheKey(token string) string {
	return "session:" + token
}
