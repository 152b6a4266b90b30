// Package sessions holds per-browser authenticated state: the user's
// identity and group memberships plus the token material obtained from
// the identity provider.
package sessions

import "time"

// User is the identity established at login. Groups is the deduplicated
// union of the provider's group and role claims.
type User struct {
	ID       string   `json:"id"`
	Username string   `json:"username"`
	Email    string   `json:"email"`
	Name     string   `json:"name"`
	Groups   []string `json:"groups"`
}

// Session is created on successful login, mutated by token refresh, and
// destroyed on logout, on failed refresh, or when expiry is detected
// during verification.
type Session struct {
	User User `json:"user"`

	// AccessToken is opaque to the gateway beyond claim extraction and
	// proxy forwarding; it is never re-validated here.
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`

	// TokenExpiresAt is the absolute access-token expiry. The zero value
	// means no expiry is tracked.
	TokenExpiresAt time.Time `json:"token_expires_at"`

	// ExpiresAt bounds the browser session itself, independent of the
	// access token.
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// TokenExpired reports whether a tracked token expiry has passed.
func (s Session) TokenExpired(now time.Time) bool {
	return !s.TokenExpiresAt.IsZero() && now.After(s.TokenExpiresAt)
}

// Expired reports whether the session itself has outlived its lifetime.
func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}

// HasGroup reports membership of a single group.
func (s Session) HasGroup(group string) bool {
	for _, g := range s.User.Groups {
		if g == group {
			return true
		}
	}
	return false
}
