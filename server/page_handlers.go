package server

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/holsteinlabs/authgate/sessions"
)

const contentTypeHTML = "text/html; charset=utf-8"

// PageData is the common payload for the authenticated page templates.
type PageData struct {
	User                 sessions.User
	DocumentationURL     string
	DocumentationEnabled bool
}

// ErrorPageData renders the styled error view.
type ErrorPageData struct {
	Code    int
	Message string
}

func (s *Server) pageData(r *http.Request) PageData {
	data := PageData{
		DocumentationURL:     s.config.GetDocumentationURL(),
		DocumentationEnabled: s.config.GetDocumentationEnabled(),
	}
	if session := sessionFromContext(r.Context()); session != nil {
		data.User = session.User
	}
	return data
}

// MonitoringPageHandler serves the main dashboard page.
func (s *Server) MonitoringPageHandler() http.HandlerFunc {
	return s.renderPageHandler("monitoring.html")
}

// AdminPageHandler serves the admin portal. Access is enforced by the
// RequireRole("admin") guard on the route.
func (s *Server) AdminPageHandler() http.HandlerFunc {
	return s.renderPageHandler("admin.html")
}

// ProfilePageHandler serves the user profile page.
func (s *Server) ProfilePageHandler() http.HandlerFunc {
	return s.renderPageHandler("profile.html")
}

// DocumentationHandler forwards to the external documentation service
// when it is enabled.
func (s *Server) DocumentationHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.config.GetDocumentationEnabled() {
			s.renderErrorPage(w, http.StatusServiceUnavailable, "Documentation service is not available")
			return
		}
		http.Redirect(w, r, s.config.GetDocumentationURL(), http.StatusFound)
	}
}

func (s *Server) NotFoundHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.renderErrorPage(w, http.StatusNotFound, "Page not found")
	}
}

func (s *Server) renderPageHandler(templateName string) http.HandlerFunc {
	tmpl, err := ParseTemplate(templateName)
	if err != nil {
		log.Err(err).Str("template", templateName).Msg("Failed to parse page template")
	}

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", contentTypeHTML)
		if err := tmpl.Execute(w, s.pageData(r)); err != nil {
			log.Err(err).Str("template", templateName).Msg("Failed to render page template")
			http.Error(w, "Failed to render page", http.StatusInternalServerError)
		}
	}
}

func (s *Server) renderErrorPage(w http.ResponseWriter, code int, message string) {
	tmpl, err := ParseTemplate("error.html")
	if err != nil {
		log.Err(err).Msg("Failed to parse error template")
		http.Error(w, message, code)
		return
	}

	w.Header().Set("Content-Type", contentTypeHTML)
	w.WriteHeader(code)
	if err := tmpl.Execute(w, ErrorPageData{Code: code, Message: message}); err != nil {
		log.Err(err).Msg("Failed to render error template")
	}
}
