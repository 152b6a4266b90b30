package authflowrepo

import (
	"errors"
	"sync"
	"time"
)

// SSO flow states older than this are rejected; a callback should arrive
// within one browser round trip to the provider.
const stateTTL = 10 * time.Minute

// InMemoryRepo is a thread-safe in-memory implementation of the Repo
// interface.
type InMemoryRepo struct {
	mu     sync.RWMutex
	states map[string]*AuthFlowState
	now    func() time.Time
}

func NewInMemoryRepo() *InMemoryRepo {
	return &InMemoryRepo{
		states: make(map[string]*AuthFlowState),
		now:    time.Now,
	}
}

func (r *InMemoryRepo) Upsert(state string, authState *AuthFlowState) error {
	if state == "" {
		return errors.New("state cannot be empty")
	}
	if authState == nil {
		return errors.New("authState cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	copied := *authState
	r.states[state] = &copied

	// Expired states from abandoned flows piggyback on writes.
	cutoff := r.now().Add(-stateTTL)
	for s, st := range r.states {
		if st.CreatedAt.Before(cutoff) {
			delete(r.states, s)
		}
	}
	return nil
}

// Get rejects and evicts expired states, so abandoned flows don't linger
// until the next write.
func (r *InMemoryRepo) Get(state string) (*AuthFlowState, error) {
	if state == "" {
		return nil, errors.New("state cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	authState, exists := r.states[state]
	if !exists {
		return nil, errors.New("state not found")
	}
	if r.now().Sub(authState.CreatedAt) > stateTTL {
		delete(r.states, state)
		return nil, errors.New("state expired")
	}

	copied := *authState
	return &copied, nil
}

func (r *InMemoryRepo) Delete(state string) error {
	if state == "" {
		return errors.New("state cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.states, state)
	return nil
}
