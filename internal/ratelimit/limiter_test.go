package ratelimit

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestLimiter(clock *fakeClock) *Limiter {
	return New(map[Class]Policy{
		ClassLogin:   {Limit: 10, Window: time.Hour},
		ClassGeneral: {Limit: 100, Window: time.Hour},
	}).WithClock(clock.Now)
}

func TestAllowWithinLimit(t *testing.T) {
	clock := newFakeClock()
	l := newTestLimiter(clock)

	for i := 0; i < 10; i++ {
		res := l.Allow("1.2.3.4", ClassLogin)
		require.True(t, res.Allowed, "request %d should be admitted", i+1)
		assert.Equal(t, 10, res.Limit)
		assert.Equal(t, 9-i, res.Remaining)
	}
}

func TestRejectBeyondLimit(t *testing.T) {
	clock := newFakeClock()
	l := newTestLimiter(clock)

	for i := 0; i < 10; i++ {
		require.True(t, l.Allow("1.2.3.4", ClassLogin).Allowed)
		clock.Advance(time.Second)
	}

	res := l.Allow("1.2.3.4", ClassLogin)
	require.False(t, res.Allowed)
	assert.Equal(t, 0, res.Remaining)
	assert.True(t, res.RetryAfter > 0)
	assert.True(t, res.RetryAfter <= time.Hour, "RetryAfter must not exceed the window")
}

// Ten wrong-password attempts occupy the login budget; the eleventh is
// rejected until the window slides past the oldest attempt.
func TestLoginBruteForceScenario(t *testing.T) {
	clock := newFakeClock()
	l := newTestLimiter(clock)

	for i := 0; i < 10; i++ {
		require.True(t, l.Allow("attacker", ClassLogin).Allowed)
	}
	require.False(t, l.Allow("attacker", ClassLogin).Allowed)

	clock.Advance(time.Hour + time.Second)
	assert.True(t, l.Allow("attacker", ClassLogin).Allowed)
}

func TestSlidingWindowMonotonicity(t *testing.T) {
	clock := newFakeClock()
	l := newTestLimiter(clock)

	// Spread requests over two hours; within any one-hour window no more
	// than the limit may be admitted.
	admittedInWindow := 0
	for i := 0; i < 300; i++ {
		res := l.Allow("9.9.9.9", ClassLogin)
		if res.Allowed {
			admittedInWindow++
		}
		assert.LessOrEqual(t, admittedInWindow, 10)
		clock.Advance(time.Minute)
		if i%60 == 59 {
			// A full window has passed; the counter resets.
			admittedInWindow = 0
		}
	}
}

func TestRejectionDoesNotConsumeBudget(t *testing.T) {
	clock := newFakeClock()
	l := newTestLimiter(clock)

	for i := 0; i < 10; i++ {
		l.Allow("1.2.3.4", ClassLogin)
	}
	// Hammer the limiter while rejected; the stored log must not grow, so
	// the original reset time holds.
	first := l.Allow("1.2.3.4", ClassLogin)
	for i := 0; i < 50; i++ {
		clock.Advance(time.Second)
		l.Allow("1.2.3.4", ClassLogin)
	}
	clock.Advance(time.Hour)
	res := l.Allow("1.2.3.4", ClassLogin)
	assert.True(t, res.Allowed, "budget must free up one window after the first rejection, got reset %v", first.Reset)
}

func TestIdentitiesAreIndependent(t *testing.T) {
	clock := newFakeClock()
	l := newTestLimiter(clock)

	for i := 0; i < 10; i++ {
		l.Allow("a", ClassLogin)
	}
	require.False(t, l.Allow("a", ClassLogin).Allowed)
	assert.True(t, l.Allow("b", ClassLogin).Allowed)
}

func TestClassesAreIndependent(t *testing.T) {
	clock := newFakeClock()
	l := newTestLimiter(clock)

	for i := 0; i < 10; i++ {
		l.Allow("a", ClassLogin)
	}
	require.False(t, l.Allow("a", ClassLogin).Allowed)
	assert.True(t, l.Allow("a", ClassGeneral).Allowed)
}

func TestUnrestrictedClassNeverLimited(t *testing.T) {
	clock := newFakeClock()
	l := newTestLimiter(clock)

	for i := 0; i < 1000; i++ {
		res := l.Allow("a", ClassUnrestricted)
		require.True(t, res.Allowed)
		assert.Equal(t, -1, res.Limit)
	}
	assert.Equal(t, 0, l.TrackedIdentities(ClassUnrestricted))
}

func TestIdentityCapAdmitsUntracked(t *testing.T) {
	clock := newFakeClock()
	l := newTestLimiter(clock).WithMaxIdentities(5)

	for i := 0; i < 5; i++ {
		l.Allow(fmt.Sprintf("id-%d", i), ClassGeneral)
	}
	require.Equal(t, 5, l.TrackedIdentities(ClassGeneral))

	res := l.Allow("overflow", ClassGeneral)
	assert.True(t, res.Allowed)
	assert.Equal(t, 5, l.TrackedIdentities(ClassGeneral), "overflow identity must not be tracked")
}

func TestSweepRemovesIdleBuckets(t *testing.T) {
	clock := newFakeClock()
	l := newTestLimiter(clock)

	l.Allow("idle", ClassGeneral)
	require.Equal(t, 1, l.TrackedIdentities(ClassGeneral))

	// Advance past both the window and the sweep interval, then trigger a
	// sweep via an unrelated admission.
	clock.Advance(2 * time.Hour)
	l.Allow("active", ClassGeneral)

	assert.Equal(t, 1, l.TrackedIdentities(ClassGeneral))
}

func TestConcurrentAdmissionRespectsLimit(t *testing.T) {
	clock := newFakeClock()
	l := newTestLimiter(clock)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		admitted int
	)
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if l.Allow("shared", ClassLogin).Allowed {
				mu.Lock()
				admitted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 10, admitted)
}

func TestClassifyPath(t *testing.T) {
	tests := []struct {
		method string
		path   string
		want   Class
	}{
		{"GET", "/", ClassUnrestricted},
		{"GET", "/health", ClassUnrestricted},
		{"GET", "/metrics", ClassUnrestricted},
		{"GET", "/docs", ClassUnrestricted},
		{"POST", "/api/auth/login", ClassLogin},
		{"GET", "/api/auth/login", ClassGeneral},
		{"GET", "/api/portfolio", ClassGeneral},
		{"POST", "/api/blog", ClassGeneral},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassifyPath(tt.method, tt.path), "%s %s", tt.method, tt.path)
	}
}
