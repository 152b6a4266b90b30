package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/holsteinlabs/authgate/auth"
	"github.com/holsteinlabs/authgate/idp"
	"github.com/holsteinlabs/authgate/server/authflowrepo"
)

// LoginPageData contains data for rendering the login page
type LoginPageData struct {
	Error    string
	Username string
}

// IndexHandler serves the login page, or sends an already-authenticated
// browser straight to the monitoring dashboard.
func (s *Server) IndexHandler() http.HandlerFunc {
	loginTmpl, err := ParseTemplate("login.html")
	if err != nil {
		log.Err(err).Msg("Failed to parse login template")
	}

	return func(w http.ResponseWriter, r *http.Request) {
		if session, sessionID := s.currentSession(r); session != nil {
			if !session.TokenExpired(time.Now()) && !session.Expired(time.Now()) {
				http.Redirect(w, r, RouteMonitoring, http.StatusSeeOther)
				return
			}
			s.dropSession(w, sessionID)
		}

		w.Header().Set("Content-Type", contentTypeHTML)
		if err := loginTmpl.Execute(w, LoginPageData{Error: r.URL.Query().Get("error")}); err != nil {
			log.Err(err).Msg("Failed to render login template")
			http.Error(w, "Failed to render login page", http.StatusInternalServerError)
		}
	}
}

// SSOLoginHandler starts the provider redirect flow, stashing the
// desired post-login destination against a fresh state value.
func (s *Server) SSOLoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		returnURL := sanitizeRedirect(r.URL.Query().Get("redirect"), "/")

		state := generateRandomString(32)
		if err := s.ssoState.Upsert(state, &authflowrepo.AuthFlowState{
			ReturnURL: returnURL,
			CreatedAt: time.Now(),
		}); err != nil {
			log.Err(err).Msg("Failed to stash sso state")
			s.renderErrorPage(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		http.Redirect(w, r, s.sso.AuthCodeURL(state), http.StatusFound)
	}
}

// SSOCallbackHandler is the provider's redirect target: it validates the
// state value, exchanges the authorization code, and populates a session.
// Any exchange failure re-renders the login view, never a raw fault.
func (s *Server) SSOCallbackHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if errParam := r.URL.Query().Get("error"); errParam != "" {
			log.Warn().Str("error", errParam).Msg("sso callback returned provider error")
			s.renderLoginError(w, "SSO login failed", "")
			return
		}

		state := r.URL.Query().Get("state")
		code := r.URL.Query().Get("code")
		if state == "" || code == "" {
			s.renderLoginError(w, "SSO login failed", "")
			return
		}

		authState, err := s.ssoState.Get(state)
		if err != nil {
			log.Warn().Err(err).Msg("sso callback with unknown state")
			s.renderLoginError(w, "SSO login failed", "")
			return
		}
		_ = s.ssoState.Delete(state)

		tokens, userInfo, err := s.sso.Exchange(r.Context(), code)
		if err != nil {
			log.Error().Err(err).Msg("sso code exchange failed")
			s.renderLoginError(w, "SSO login failed", "")
			return
		}

		session := s.auth.CompleteSSO(tokens, userInfo)
		sessionID := uuid.NewString()
		if err := s.sessions.Upsert(sessionID, session); err != nil {
			log.Err(err).Msg("Failed to create session")
			s.renderLoginError(w, "SSO login failed", "")
			return
		}
		s.SetSessionCookie(w, sessionID, s.sessionMaxAge())

		returnURL := authState.ReturnURL
		if returnURL == "" || returnURL == "/" {
			returnURL = RouteMonitoring
		}
		http.Redirect(w, r, returnURL, http.StatusSeeOther)
	}
}

// DirectLoginHandler processes the username/password form.
func (s *Server) DirectLoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			s.renderLoginError(w, "Invalid form data", "")
			return
		}

		username := r.FormValue("username")
		password := r.FormValue("password")

		session, err := s.auth.DirectLogin(r.Context(), username, password)
		if err != nil {
			s.renderLoginError(w, loginErrorMessage(err), username)
			return
		}

		sessionID := uuid.NewString()
		if err := s.sessions.Upsert(sessionID, session); err != nil {
			log.Err(err).Msg("Failed to create session")
			s.renderLoginError(w, "Login failed. Please try again.", username)
			return
		}
		s.SetSessionCookie(w, sessionID, s.sessionMaxAge())

		redirectURL := sanitizeRedirect(r.URL.Query().Get("redirect"), RouteMonitoring)
		http.Redirect(w, r, redirectURL, http.StatusSeeOther)
	}
}

// LogoutHandler clears the session locally; the provider is not
// contacted (no single logout).
func (s *Server) LogoutHandler() http.HandlerFunc {
	logoutTmpl, err := ParseTemplate("logout.html")
	if err != nil {
		log.Err(err).Msg("Failed to parse logout template")
	}

	return func(w http.ResponseWriter, r *http.Request) {
		username := "unknown"
		if session, sessionID := s.currentSession(r); session != nil {
			username = session.User.Username
			s.dropSession(w, sessionID)
		} else {
			s.clearSessionCookie(w)
		}
		log.Info().Str("username", username).Msg("user logged out")

		w.Header().Set("Content-Type", contentTypeHTML)
		if err := logoutTmpl.Execute(w, nil); err != nil {
			log.Err(err).Msg("Failed to render logout template")
			http.Error(w, "Failed to render logout page", http.StatusInternalServerError)
		}
	}
}

func (s *Server) renderLoginError(w http.ResponseWriter, message, username string) {
	loginTmpl, err := ParseTemplate("login.html")
	if err != nil {
		log.Err(err).Msg("Failed to parse login template")
		http.Error(w, "Failed to render login page", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", contentTypeHTML)
	if err := loginTmpl.Execute(w, LoginPageData{Error: message, Username: username}); err != nil {
		log.Err(err).Msg("Failed to render login template")
		http.Error(w, "Failed to render login page", http.StatusInternalServerError)
	}
}

// loginErrorMessage maps flow errors onto the generic user-facing
// strings. Provider error detail never reaches the browser.
func loginErrorMessage(err error) string {
	switch {
	case errors.Is(err, auth.ErrMissingCredentials):
		return "Username and password are required"
	case errors.Is(err, auth.ErrRateLimited):
		return "Too many failed attempts. Account temporarily locked. Please try again later."
	case errors.Is(err, idp.ErrInvalidCredentials):
		return "Invalid username or password"
	case errors.Is(err, idp.ErrTimeout):
		return "Authentication service timeout. Please try again."
	case errors.Is(err, idp.ErrUnreachable):
		return "Cannot connect to authentication service"
	case errors.Is(err, idp.ErrUserinfo):
		return "Failed to retrieve user information"
	default:
		return "Authentication failed. Please try again."
	}
}
