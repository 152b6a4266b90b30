package ratelimit

import "time"

// State is the tracked record for a single principal: the timestamps of
// failed attempts inside the sliding window, and the start of the current
// lockout (zero if not locked).
type State struct {
	Attempts    []time.Time
	LockedSince time.Time
}

// Store holds per-principal rate-limit state. Update must apply fn to the
// principal's state atomically with respect to other calls for the same
// principal, so that concurrent failed-login bursts cannot lose updates.
type Store interface {
	// Update reads the principal's state, applies fn, and writes the
	// result back. A nil result deletes the record.
	Update(principal string, fn func(*State) *State)

	// Purge removes every principal whose last attempt is older than
	// attemptCutoff and whose lockout (if any) started before
	// lockoutCutoff.
	Purge(attemptCutoff, lockoutCutoff time.Time)

	// Len reports the number of tracked principals.
	Len() int
}
