package sessions

import (
	"fmt"
	"sync"
	"time"
)

// InMemoryRepo is a process-local session store.
type InMemoryRepo struct {
	mu       sync.RWMutex
	sessions map[string]Session
}

func NewInMemoryRepo() *InMemoryRepo {
	return &InMemoryRepo{sessions: make(map[string]Session)}
}

func (r *InMemoryRepo) Upsert(sessionID string, session Session) error {
	if sessionID == "" {
		return fmt.Errorf("sessionID is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[sessionID] = session
	return nil
}

func (r *InMemoryRepo) Get(sessionID string) (Session, error) {
	if sessionID == "" {
		return Session{}, fmt.Errorf("sessionID is required")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	session, ok := r.sessions[sessionID]
	if !ok {
		return Session{}, ErrNotFound
	}
	return session, nil
}

func (r *InMemoryRepo) Delete(sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, sessionID)
	return nil
}

func (r *InMemoryRepo) DeleteExpired(before time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, session := range r.sessions {
		if !session.ExpiresAt.IsZero() && session.ExpiresAt.Before(before) {
			delete(r.sessions, id)
		}
	}
	return nil
}
