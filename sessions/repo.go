package sessions

import (
	"errors"
	"time"
)

// ErrNotFound is returned by Get when no session exists for the ID.
var ErrNotFound = errors.New("session not found")

// Repo is the session store contract. The in-memory implementation is
// single-instance; the Redis implementation allows sessions to be shared
// across gateway replicas.
type Repo interface {
	// Upsert creates or replaces the session stored under sessionID.
	Upsert(sessionID string, session Session) error

	// Get retrieves a session, returning ErrNotFound if absent.
	Get(sessionID string) (Session, error)

	// Delete removes a session. Deleting an absent session is not an
	// error.
	Delete(sessionID string) error

	// DeleteExpired removes sessions whose lifetime ended before the
	// given time.
	DeleteExpired(before time.Time) error
}
