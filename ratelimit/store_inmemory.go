package ratelimit

import (
	"sync"
	"time"
)

// InMemoryStore keeps rate-limit state in a process-local map. A single
// lock serialises every read-modify-write, which satisfies the per-key
// atomicity Update requires.
type InMemoryStore struct {
	mu     sync.Mutex
	states map[string]*State
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{states: make(map[string]*State)}
}

func (s *InMemoryStore) Update(principal string, fn func(*State) *State) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := fn(s.states[principal])
	if next == nil {
		delete(s.states, principal)
		return
	}
	s.states[principal] = next
}

func (s *InMemoryStore) Purge(attemptCutoff, lockoutCutoff time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for principal, state := range s.states {
		if !state.LockedSince.IsZero() && state.LockedSince.After(lockoutCutoff) {
			continue
		}
		stale := true
		for _, t := range state.Attempts {
			if t.After(attemptCutoff) {
				stale = false
				break
			}
		}
		if stale {
			delete(s.states, principal)
		}
	}
}

func (s *InMemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.states)
}
