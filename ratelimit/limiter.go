// Package ratelimit tracks failed authentication attempts per principal
// and enforces temporary lockouts on the direct-login path.
package ratelimit

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	DefaultMaxAttempts     = 5
	DefaultWindow          = 5 * time.Minute
	DefaultLockoutDuration = 15 * time.Minute
	DefaultSweepInterval   = 10 * time.Minute
)

// Options configures a Limiter. Zero fields fall back to the defaults
// above (5 attempts per 5 minutes, 15 minute lockout).
type Options struct {
	MaxAttempts     int
	Window          time.Duration
	LockoutDuration time.Duration
	SweepInterval   time.Duration

	// NowFunc overrides the clock, for tests.
	NowFunc func() time.Time
}

// Limiter decides whether a principal may attempt a direct login.
// Principals are matched case-insensitively.
type Limiter struct {
	store Store
	opts  Options
	now   func() time.Time
}

func New(store Store, opts Options) *Limiter {
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = DefaultMaxAttempts
	}
	if opts.Window <= 0 {
		opts.Window = DefaultWindow
	}
	if opts.LockoutDuration <= 0 {
		opts.LockoutDuration = DefaultLockoutDuration
	}
	if opts.SweepInterval <= 0 {
		opts.SweepInterval = DefaultSweepInterval
	}
	now := opts.NowFunc
	if now == nil {
		now = time.Now
	}
	return &Limiter{store: store, opts: opts, now: now}
}

// IsRateLimited reports whether the principal is currently locked out or
// has reached the attempt threshold inside the sliding window. Reaching
// the threshold starts a new lockout as a side effect.
func (l *Limiter) IsRateLimited(principal string) bool {
	principal = normalize(principal)
	now := l.now()
	limited := false

	l.store.Update(principal, func(state *State) *State {
		if state == nil {
			return nil
		}

		if !state.LockedSince.IsZero() {
			if now.Sub(state.LockedSince) < l.opts.LockoutDuration {
				limited = true
				return state
			}
			state.LockedSince = time.Time{}
		}

		state.Attempts = pruneBefore(state.Attempts, now.Add(-l.opts.Window))

		if len(state.Attempts) >= l.opts.MaxAttempts {
			state.LockedSince = now
			limited = true
			log.Warn().Str("principal", principal).Msg("principal locked out after repeated failed logins")
			return state
		}

		if len(state.Attempts) == 0 {
			return nil
		}
		return state
	})

	return limited
}

// RecordFailedAttempt logs a failed credential check against the
// principal, creating its record if needed.
func (l *Limiter) RecordFailedAttempt(principal string) {
	principal = normalize(principal)
	now := l.now()

	l.store.Update(principal, func(state *State) *State {
		if state == nil {
			state = &State{}
		}
		state.Attempts = append(state.Attempts, now)
		return state
	})
}

// ClearAttempts drops both the attempt history and any lockout. Called
// only after a fully successful authentication.
func (l *Limiter) ClearAttempts(principal string) {
	l.store.Update(normalize(principal), func(*State) *State {
		return nil
	})
}

// StartSweeper periodically evicts principals with no attempts inside the
// window and no active lockout. It returns when ctx is cancelled.
func (l *Limiter) StartSweeper(ctx context.Context) {
	ticker := time.NewTicker(l.opts.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.Sweep()
		}
	}
}

// Sweep runs a single eviction pass.
func (l *Limiter) Sweep() {
	now := l.now()
	l.store.Purge(now.Add(-l.opts.Window), now.Add(-l.opts.LockoutDuration))
}

func normalize(principal string) string {
	return strings.ToLower(strings.TrimSpace(principal))
}

func pruneBefore(attempts []time.Time, cutoff time.Time) []time.Time {
	kept := attempts[:0]
	for _, t := range attempts {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	return kept
}
