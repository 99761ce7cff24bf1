// Package ratelimit bounds per-identity request rates with a sliding-window
// log, one bucket per (identity, endpoint class).
package ratelimit

import (
	"sync"
	"time"
)

// Class is the endpoint class a request was matched to.
type Class string

const (
	ClassUnrestricted Class = "unrestricted"
	ClassLogin        Class = "login"
	ClassGeneral      Class = "general"
)

// Policy is the admission budget for one class.
type Policy struct {
	Limit  int
	Window time.Duration
}

// Result is the outcome of an admission check. Rejection is an ordinary
// outcome, not an error.
type Result struct {
	Allowed    bool
	Limit      int
	Remaining  int
	Reset      time.Time
	RetryAfter time.Duration
}

type bucket struct {
	times     []time.Time // admitted request timestamps, oldest first
	createdAt time.Time
}

// Limiter holds the bucket maps, sharded by class so one class cannot starve
// another's identity budget. A single mutex covers all admission and sweep
// work; critical sections never touch I/O.
type Limiter struct {
	mu       sync.Mutex
	policies map[Class]Policy
	buckets  map[Class]map[string]*bucket

	maxIdentities int
	sweepInterval time.Duration
	lastSweep     time.Time

	now func() time.Time
}

const (
	defaultSweepInterval = 300 * time.Second
	defaultMaxIdentities = 10000
)

// New builds a limiter with the given per-class policies. Classes without a
// policy are admitted without tracking.
func New(policies map[Class]Policy) *Limiter {
	l := &Limiter{
		policies:      policies,
		buckets:       make(map[Class]map[string]*bucket, len(policies)),
		maxIdentities: defaultMaxIdentities,
		sweepInterval: defaultSweepInterval,
		now:           time.Now,
	}
	for class := range policies {
		l.buckets[class] = make(map[string]*bucket)
	}
	return l
}

// WithClock replaces the clock, for tests.
func (l *Limiter) WithClock(now func() time.Time) *Limiter {
	l.now = now
	return l
}

// WithMaxIdentities caps tracked identities per class. When the cap is hit,
// new identities are admitted untracked rather than evicting live buckets.
func (l *Limiter) WithMaxIdentities(n int) *Limiter {
	l.maxIdentities = n
	return l
}

// Allow decides admission for one request. Admission check and timestamp
// append are a single atomic step; a rejected request appends nothing.
func (l *Limiter) Allow(identity string, class Class) Result {
	policy, ok := l.policies[class]
	if !ok || class == ClassUnrestricted {
		return Result{Allowed: true, Limit: -1, Remaining: -1}
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.maybeSweep(now)

	shard := l.buckets[class]
	b, exists := shard[identity]
	if !exists {
		if len(shard) >= l.maxIdentities {
			// Over the identity cap: admit without tracking.
			return Result{
				Allowed:   true,
				Limit:     policy.Limit,
				Remaining: policy.Limit - 1,
				Reset:     now.Add(policy.Window),
			}
		}
		b = &bucket{createdAt: now}
		shard[identity] = b
	}

	cutoff := now.Add(-policy.Window)
	b.trim(cutoff)

	if len(b.times) >= policy.Limit {
		reset := b.times[0].Add(policy.Window)
		return Result{
			Allowed:    false,
			Limit:      policy.Limit,
			Remaining:  0,
			Reset:      reset,
			RetryAfter: reset.Sub(now),
		}
	}

	b.times = append(b.times, now)

	reset := b.times[0].Add(policy.Window)
	return Result{
		Allowed:   true,
		Limit:     policy.Limit,
		Remaining: policy.Limit - len(b.times),
		Reset:     reset,
	}
}

// trim discards timestamps older than cutoff, keeping the invariant that
// every stored timestamp is within the active window.
func (b *bucket) trim(cutoff time.Time) {
	idx := 0
	for idx < len(b.times) && !b.times[idx].After(cutoff) {
		idx++
	}
	if idx > 0 {
		b.times = append(b.times[:0], b.times[idx:]...)
	}
}

// maybeSweep removes empty buckets at most once per sweep interval. Caller
// holds the mutex.
func (l *Limiter) maybeSweep(now time.Time) {
	if now.Sub(l.lastSweep) < l.sweepInterval {
		return
	}
	l.lastSweep = now

	for class, shard := range l.buckets {
		policy := l.policies[class]
		cutoff := now.Add(-policy.Window)
		for identity, b := range shard {
			b.trim(cutoff)
			if len(b.times) == 0 {
				delete(shard, identity)
			}
		}
	}
}

// TrackedIdentities reports the number of live buckets for a class.
func (l *Limiter) TrackedIdentities(class Class) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets[class])
}
