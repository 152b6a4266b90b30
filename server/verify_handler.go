package server

import (
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/holsteinlabs/authgate/auth"
)

// AuthVerifyHandler backs the reverse proxy's auth_request subrequests.
// It answers with a bare status code (200 with forwarding headers, 401,
// or 403), never HTML. Detecting an expired token here destroys the
// session as part of reporting the failure.
func (s *Server) AuthVerifyHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requiredRole := r.URL.Query().Get("role")
		session, sessionID := s.currentSession(r)

		decision := auth.Decide(session, requiredRole, time.Now())
		if decision.ExpiredSession {
			log.Info().Str("username", session.User.Username).Msg("session expired during verification")
			s.dropSession(w, sessionID)
		}

		if !decision.Allowed() {
			if session != nil && decision.Status == http.StatusForbidden {
				log.Info().
					Str("username", session.User.Username).
					Str("required_role", requiredRole).
					Strs("groups", session.User.Groups).
					Msg("auth verification denied")
			}
			w.WriteHeader(decision.Status)
			return
		}

		for name, value := range decision.Headers {
			w.Header().Set(name, value)
		}
		w.WriteHeader(http.StatusOK)
	}
}
