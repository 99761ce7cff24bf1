package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"augustlab-backend/internal/ratelimit"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRequestIDHeaderPresentAndUnique(t *testing.T) {
	router := gin.New()
	router.Use(RequestID())
	router.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	seen := make(map[string]struct{})
	var mu sync.Mutex
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

			id := w.Header().Get("X-Request-ID")
			require.NotEmpty(t, id)

			mu.Lock()
			_, dup := seen[id]
			seen[id] = struct{}{}
			mu.Unlock()
			assert.False(t, dup, "request ids must be unique")
		}()
	}
	wg.Wait()
}

func TestClientIPExtraction(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		headers    map[string]string
		want       string
	}{
		{"forwarded-for leftmost", "10.0.0.1:1234",
			map[string]string{"X-Forwarded-For": "203.0.113.7, 10.0.0.2"}, "203.0.113.7"},
		{"real-ip fallback", "10.0.0.1:1234",
			map[string]string{"X-Real-IP": "198.51.100.9"}, "198.51.100.9"},
		{"forwarded-for wins over real-ip", "10.0.0.1:1234",
			map[string]string{"X-Forwarded-For": "203.0.113.7", "X-Real-IP": "198.51.100.9"}, "203.0.113.7"},
		{"peer address", "192.0.2.4:5678", nil, "192.0.2.4"},
		{"ipv6 peer", "[2001:db8::1]:443", nil, "2001:db8::1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, extractClientIP(r))
		})
	}
}

func newLimitedRouter(limit int) *gin.Engine {
	limiter := ratelimit.New(map[ratelimit.Class]ratelimit.Policy{
		ratelimit.ClassGeneral: {Limit: limit, Window: time.Hour},
		ratelimit.ClassLogin:   {Limit: limit, Window: time.Hour},
	})

	router := gin.New()
	router.Use(RequestID(), ClientIP(), RateLimit(limiter))
	router.GET("/api/portfolio", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	return router
}

func TestRateLimitHeadersOnLimitedRoutes(t *testing.T) {
	router := newLimitedRouter(3)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/portfolio", nil)
	r.RemoteAddr = "192.0.2.1:1000"
	router.ServeHTTP(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "3", w.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "2", w.Header().Get("X-RateLimit-Remaining"))
	assert.NotEmpty(t, w.Header().Get("X-RateLimit-Reset"))
}

func TestRateLimitRejectsWithEnvelopeAndRetryAfter(t *testing.T) {
	router := newLimitedRouter(2)

	var last *httptest.ResponseRecorder
	for i := 0; i < 3; i++ {
		last = httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/api/portfolio", nil)
		r.RemoteAddr = "192.0.2.1:1000"
		router.ServeHTTP(last, r)
	}

	require.Equal(t, http.StatusTooManyRequests, last.Code)

	retryAfter, err := strconv.Atoi(last.Header().Get("Retry-After"))
	require.NoError(t, err)
	assert.GreaterOrEqual(t, retryAfter, 1)
	assert.LessOrEqual(t, retryAfter, 3600)

	var body map[string]map[string]any
	require.NoError(t, json.Unmarshal(last.Body.Bytes(), &body))
	assert.Equal(t, "TOO_MANY_REQUESTS", body["error"]["code"])
}

func TestRateLimitSkipsUnrestrictedPaths(t *testing.T) {
	router := newLimitedRouter(1)

	for i := 0; i < 10; i++ {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/health", nil)
		r.RemoteAddr = "192.0.2.1:1000"
		router.ServeHTTP(w, r)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Header().Get("X-RateLimit-Limit"))
	}
}

type fakeVerifier struct {
	valid map[string]string
}

func (f *fakeVerifier) Verify(_ context.Context, token string) (string, error) {
	if principal, ok := f.valid[token]; ok {
		return principal, nil
	}
	return "", errors.New("unknown token")
}

func newAuthedRouter() *gin.Engine {
	verifier := &fakeVerifier{valid: map[string]string{"good-token": "admin"}}
	router := gin.New()
	router.GET("/protected", Auth(verifier), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"principal": c.GetString("principal")})
	})
	return router
}

func TestAuthUniform401(t *testing.T) {
	router := newAuthedRouter()

	cases := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not bearer", "Basic abc"},
		{"empty token", "Bearer "},
		{"unknown token", "Bearer bad-token"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tc.header != "" {
				r.Header.Set("Authorization", tc.header)
			}
			router.ServeHTTP(w, r)

			require.Equal(t, http.StatusUnauthorized, w.Code)

			var body map[string]map[string]any
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, "AUTHENTICATION_ERROR", body["error"]["code"])
			// The message never distinguishes missing from invalid tokens.
			assert.Equal(t, "invalid or missing access token", body["error"]["message"])
		})
	}
}

func TestAuthSetsPrincipal(t *testing.T) {
	router := newAuthedRouter()

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/protected", nil)
	r.Header.Set("Authorization", "Bearer good-token")
	router.ServeHTTP(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "admin")
}
