package server

import "net/http"

const gatewayVersion = "1.0.0"

// HealthHandler reports liveness and the effective provider
// configuration. No auth required.
func (s *Server) HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		payload := map[string]any{
			"status":                "healthy",
			"service":               "authgate",
			"provider_url":          s.config.GetProviderURL(),
			"realm":                 s.config.GetRealm(),
			"documentation_enabled": s.config.GetDocumentationEnabled(),
			"version":               gatewayVersion,
		}
		if s.config.GetDocumentationEnabled() {
			payload["documentation_url"] = s.config.GetDocumentationURL()
		}
		writeJSON(w, http.StatusOK, payload)
	}
}

// NginxStatusHandler is the status probe the reverse proxy polls.
func (s *Server) NginxStatusHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionStatus := "not authenticated"
		if session, _ := s.currentSession(r); session != nil {
			sessionStatus = "authenticated as " + session.User.Username
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"webapp":                "running",
			"session":               sessionStatus,
			"provider_configured":   s.config.GetProviderURL() != "" && s.config.GetRealm() != "",
			"documentation_enabled": s.config.GetDocumentationEnabled(),
		})
	}
}
