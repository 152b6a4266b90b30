package ratelimit_test

import (
	"testing"
	"time"

	"github.com/holsteinlabs/authgate/ratelimit"
	"github.com/stretchr/testify/require"
)

// fakeClock lets tests drive the limiter's view of time.
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestLimiter(t *testing.T) (*ratelimit.Limiter, *fakeClock) {
	t.Helper()
	clock := &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	limiter := ratelimit.New(ratelimit.NewInMemoryStore(), ratelimit.Options{
		NowFunc: clock.Now,
	})
	return limiter, clock
}

func TestLimiter_LockoutAfterMaxAttempts(t *testing.T) {
	limiter, clock := newTestLimiter(t)

	for i := 0; i < ratelimit.DefaultMaxAttempts; i++ {
		require.False(t, limiter.IsRateLimited("bob"))
		limiter.RecordFailedAttempt("bob")
		clock.Advance(time.Second)
	}

	// Threshold reached: the next check starts the lockout.
	require.True(t, limiter.IsRateLimited("bob"))

	// Still locked one second later, without any provider contact.
	clock.Advance(time.Second)
	require.True(t, limiter.IsRateLimited("bob"))

	// Locked right up to the lockout boundary.
	clock.Advance(ratelimit.DefaultLockoutDuration - 2*time.Second)
	require.True(t, limiter.IsRateLimited("bob"))

	// Lockout elapsed; the old attempts have also aged out of the window.
	clock.Advance(2 * time.Second)
	require.False(t, limiter.IsRateLimited("bob"))
}

func TestLimiter_AttemptsOutsideWindowIgnored(t *testing.T) {
	limiter, clock := newTestLimiter(t)

	for i := 0; i < ratelimit.DefaultMaxAttempts-1; i++ {
		limiter.RecordFailedAttempt("alice")
	}

	// Window passes; stale attempts no longer count.
	clock.Advance(ratelimit.DefaultWindow + time.Second)
	limiter.RecordFailedAttempt("alice")
	require.False(t, limiter.IsRateLimited("alice"))
}

func TestLimiter_ClearAttemptsRemovesLockout(t *testing.T) {
	limiter, clock := newTestLimiter(t)

	for i := 0; i < ratelimit.DefaultMaxAttempts; i++ {
		limiter.RecordFailedAttempt("carol")
	}
	require.True(t, limiter.IsRateLimited("carol"))

	limiter.ClearAttempts("carol")
	require.False(t, limiter.IsRateLimited("carol"))

	// History is gone too: a single new failure does not re-lock.
	limiter.RecordFailedAttempt("carol")
	require.False(t, limiter.IsRateLimited("carol"))
	clock.Advance(time.Second)
	require.False(t, limiter.IsRateLimited("carol"))
}

func TestLimiter_CaseInsensitivePrincipals(t *testing.T) {
	limiter, _ := newTestLimiter(t)

	for i := 0; i < ratelimit.DefaultMaxAttempts; i++ {
		limiter.RecordFailedAttempt("Alice")
	}
	require.True(t, limiter.IsRateLimited("alice"))
	require.True(t, limiter.IsRateLimited("ALICE"))
}

func TestLimiter_SweepEvictsStalePrincipals(t *testing.T) {
	clock := &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	store := ratelimit.NewInMemoryStore()
	limiter := ratelimit.New(store, ratelimit.Options{NowFunc: clock.Now})

	limiter.RecordFailedAttempt("stale-user")
	limiter.RecordFailedAttempt("fresh-user")
	require.Equal(t, 2, store.Len())

	clock.Advance(ratelimit.DefaultWindow + time.Minute)
	limiter.RecordFailedAttempt("fresh-user")

	limiter.Sweep()
	require.Equal(t, 1, store.Len())
	require.False(t, limiter.IsRateLimited("stale-user"))
}

func TestLimiter_SweepKeepsActiveLockouts(t *testing.T) {
	clock := &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	store := ratelimit.NewInMemoryStore()
	limiter := ratelimit.New(store, ratelimit.Options{NowFunc: clock.Now})

	for i := 0; i < ratelimit.DefaultMaxAttempts; i++ {
		limiter.RecordFailedAttempt("locked-user")
	}
	require.True(t, limiter.IsRateLimited("locked-user"))

	// Past the attempt window but inside the lockout: must survive a sweep.
	clock.Advance(ratelimit.DefaultWindow + time.Minute)
	limiter.Sweep()
	require.Equal(t, 1, store.Len())
	require.True(t, limiter.IsRateLimited("locked-user"))
}
