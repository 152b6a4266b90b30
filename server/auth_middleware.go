package server

import (
	"context"
	"net/http"
	"time"

	"github.com/holsteinlabs/authgate/auth"
	"github.com/holsteinlabs/authgate/sessions"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

// ContextKeySession stores the authenticated session for downstream
// handlers.
const ContextKeySession ContextKey = "session"

// sessionFromContext returns the session injected by the guard
// middleware.
func sessionFromContext(ctx context.Context) *sessions.Session {
	session, _ := ctx.Value(ContextKeySession).(*sessions.Session)
	return session
}

// RequireSession guards interactive routes: any live session passes,
// everything else is redirected to the login page. Expiry detected here
// destroys the session before redirecting.
func (s *Server) RequireSession() func(http.HandlerFunc) http.HandlerFunc {
	return s.requireRole("")
}

// RequireRole guards interactive routes that need a specific role.
// An authenticated caller without the role gets a rendered 403 page.
func (s *Server) RequireRole(role string) func(http.HandlerFunc) http.HandlerFunc {
	return s.requireRole(role)
}

func (s *Server) requireRole(role string) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			session, sessionID := s.currentSession(r)

			decision := auth.Decide(session, role, time.Now())
			if decision.ExpiredSession {
				s.dropSession(w, sessionID)
			}

			switch decision.Status {
			case http.StatusUnauthorized:
				http.Redirect(w, r, "/", http.StatusSeeOther)
				return
			case http.StatusForbidden:
				s.renderErrorPage(w, http.StatusForbidden, "Access Denied: Insufficient permissions")
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeySession, session)
			next(w, r.WithContext(ctx))
		}
	}
}
