package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"augustlab-backend/internal/domains/auth"
	"augustlab-backend/pkg/cache"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	sessions map[string]*auth.Session

	createErr error
	touched   int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{sessions: make(map[string]*auth.Session)}
}

func (f *fakeRepo) Create(_ context.Context, s *auth.Session) error {
	if f.createErr != nil {
		return f.createErr
	}
	cp := *s
	f.sessions[s.Token] = &cp
	return nil
}

func (f *fakeRepo) Get(_ context.Context, token string) (*auth.Session, error) {
	s, ok := f.sessions[token]
	if !ok {
		return nil, auth.ErrInvalidToken
	}
	cp := *s
	return &cp, nil
}

func (f *fakeRepo) Deactivate(_ context.Context, token string) error {
	if s, ok := f.sessions[token]; ok {
		s.IsActive = false
	}
	return nil
}

func (f *fakeRepo) Touch(_ context.Context, token string, at time.Time) error {
	if s, ok := f.sessions[token]; ok {
		s.LastSeenAt = &at
	}
	f.touched++
	return nil
}

func (f *fakeRepo) PurgeExpired(_ context.Context, before time.Time) (int64, error) {
	var n int64
	for token, s := range f.sessions {
		if s.ExpiresAt.Before(before) {
			delete(f.sessions, token)
			n++
		}
	}
	return n, nil
}

type fakeCache struct {
	entries map[string][]byte
	gets    int
	sets    int
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string][]byte)}
}

func (f *fakeCache) Get(_ context.Context, key string, dest interface{}) (bool, error) {
	f.gets++
	data, ok := f.entries[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(data, dest)
}

func (f *fakeCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	f.sets++
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	f.entries[key] = data
	return nil
}

func (f *fakeCache) Delete(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(f.entries, k)
	}
	return nil
}

func (f *fakeCache) Ping(context.Context) error { return nil }

func newTestService(t *testing.T, repo auth.Repository, c cache.Cache) (*authService, *time.Time) {
	t.Helper()

	svc, err := NewAuthService(repo, c, "admin", "correct horse", time.Hour)
	require.NoError(t, err)

	s := svc.(*authService)
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }
	return s, &now
}

func TestLoginIssuesDistinctTokens(t *testing.T) {
	repo := newFakeRepo()
	svc, _ := newTestService(t, repo, nil)

	first, err := svc.Login(context.Background(), &auth.LoginRequest{Username: "admin", Password: "correct horse"})
	require.NoError(t, err)
	second, err := svc.Login(context.Background(), &auth.LoginRequest{Username: "admin", Password: "correct horse"})
	require.NoError(t, err)

	assert.Len(t, first.AccessToken, 64)
	assert.NotEqual(t, first.AccessToken, second.AccessToken)
	assert.Equal(t, "bearer", first.TokenType)
	assert.Len(t, repo.sessions, 2)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	repo := newFakeRepo()
	svc, _ := newTestService(t, repo, nil)

	cases := []struct {
		name string
		req  auth.LoginRequest
	}{
		{"wrong password", auth.LoginRequest{Username: "admin", Password: "wrong"}},
		{"wrong username", auth.LoginRequest{Username: "root", Password: "correct horse"}},
		{"both wrong", auth.LoginRequest{Username: "root", Password: "wrong"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Login(context.Background(), &tc.req)
			// Always the same error regardless of which field was wrong.
			assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
		})
	}
	assert.Empty(t, repo.sessions)
}

func TestVerifyLifecycle(t *testing.T) {
	repo := newFakeRepo()
	svc, _ := newTestService(t, repo, nil)

	resp, err := svc.Login(context.Background(), &auth.LoginRequest{Username: "admin", Password: "correct horse"})
	require.NoError(t, err)

	principal, err := svc.Verify(context.Background(), resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "admin", principal)
	assert.Equal(t, 1, repo.touched)

	require.NoError(t, svc.Logout(context.Background(), resp.AccessToken))

	_, err = svc.Verify(context.Background(), resp.AccessToken)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestVerifyRejectsUnknownAndEmptyTokens(t *testing.T) {
	svc, _ := newTestService(t, newFakeRepo(), nil)

	_, err := svc.Verify(context.Background(), "")
	assert.ErrorIs(t, err, auth.ErrInvalidToken)

	_, err = svc.Verify(context.Background(), "deadbeef")
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestVerifyRejectsExpiredSession(t *testing.T) {
	repo := newFakeRepo()
	svc, now := newTestService(t, repo, nil)

	resp, err := svc.Login(context.Background(), &auth.LoginRequest{Username: "admin", Password: "correct horse"})
	require.NoError(t, err)

	*now = now.Add(time.Hour + time.Second)

	_, err = svc.Verify(context.Background(), resp.AccessToken)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestVerifyUsesCacheOnSecondCall(t *testing.T) {
	repo := newFakeRepo()
	c := newFakeCache()
	svc, _ := newTestService(t, repo, c)

	resp, err := svc.Login(context.Background(), &auth.LoginRequest{Username: "admin", Password: "correct horse"})
	require.NoError(t, err)

	_, err = svc.Verify(context.Background(), resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, 1, c.sets)

	// Second verify is served from the cache and never touches the store.
	touchedBefore := repo.touched
	principal, err := svc.Verify(context.Background(), resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "admin", principal)
	assert.Equal(t, touchedBefore, repo.touched)
}

func TestLogoutInvalidatesCache(t *testing.T) {
	repo := newFakeRepo()
	c := newFakeCache()
	svc, _ := newTestService(t, repo, c)

	resp, err := svc.Login(context.Background(), &auth.LoginRequest{Username: "admin", Password: "correct horse"})
	require.NoError(t, err)

	_, err = svc.Verify(context.Background(), resp.AccessToken)
	require.NoError(t, err)
	require.NotEmpty(t, c.entries)

	require.NoError(t, svc.Logout(context.Background(), resp.AccessToken))
	assert.Empty(t, c.entries)

	_, err = svc.Verify(context.Background(), resp.AccessToken)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestLogoutIsIdempotent(t *testing.T) {
	repo := newFakeRepo()
	svc, _ := newTestService(t, repo, nil)

	resp, err := svc.Login(context.Background(), &auth.LoginRequest{Username: "admin", Password: "correct horse"})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), resp.AccessToken))
	require.NoError(t, svc.Logout(context.Background(), resp.AccessToken))
	require.NoError(t, svc.Logout(context.Background(), "never-issued"))
	require.NoError(t, svc.Logout(context.Background(), ""))
}

func TestSessionLive(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	s := &auth.Session{IsActive: true, ExpiresAt: now.Add(time.Minute)}

	assert.True(t, s.Live(now))
	assert.False(t, s.Live(now.Add(time.Minute)))

	s.IsActive = false
	assert.False(t, s.Live(now))
}
