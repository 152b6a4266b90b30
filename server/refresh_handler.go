package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/holsteinlabs/authgate/idp"
)

const contentTypeJSON = "application/json; charset=utf-8"

// RefreshTokenHandler exchanges the session's refresh token at the
// provider. A failed refresh invalidates the whole login: the session is
// cleared, not just the token.
func (s *Server) RefreshTokenHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, sessionID := s.currentSession(r)
		if session == nil || session.RefreshToken == "" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "No refresh token available"})
			return
		}

		refreshed, err := s.auth.RefreshSession(r.Context(), *session)
		if err != nil {
			s.dropSession(w, sessionID)
			status := http.StatusUnauthorized
			if errors.Is(err, idp.ErrTimeout) || errors.Is(err, idp.ErrUnreachable) {
				status = http.StatusInternalServerError
			}
			writeJSON(w, status, map[string]string{"error": "Token refresh failed"})
			return
		}

		if err := s.sessions.Upsert(sessionID, refreshed); err != nil {
			log.Err(err).Msg("Failed to store refreshed session")
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Token refresh failed"})
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
