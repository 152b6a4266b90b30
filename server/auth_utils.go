package server

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/holsteinlabs/authgate/sessions"
)

const (
	// sessionCookieName carries the signed session identifier.
	sessionCookieName = "authgate_session"
)

var errInvalidSessionCookie = errors.New("invalid session cookie")

// generateRandomString creates a random base64url string.
func generateRandomString(length int) string {
	b := make([]byte, length)
	rand.Read(b)
	return base64.RawURLEncoding.EncodeToString(b)
}

// signSessionID appends an HMAC so a forged cookie can't address an
// arbitrary session slot.
func (s *Server) signSessionID(sessionID string) string {
	mac := hmac.New(sha256.New, []byte(s.config.GetSecretKey()))
	mac.Write([]byte(sessionID))
	return sessionID + "." + base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

func (s *Server) verifySessionCookie(value string) (string, error) {
	sessionID, _, found := strings.Cut(value, ".")
	if !found || sessionID == "" {
		return "", errInvalidSessionCookie
	}
	if !hmac.Equal([]byte(s.signSessionID(sessionID)), []byte(value)) {
		return "", errInvalidSessionCookie
	}
	return sessionID, nil
}

// SetSessionCookie writes the session cookie: HttpOnly, SameSite=Lax,
// Secure outside debug mode. Secure is tied to debug mode rather than the
// request scheme; outside debug the gateway is only ever reached through
// the TLS-terminating proxy.
func (s *Server) SetSessionCookie(w http.ResponseWriter, sessionID string, maxAge int) {
	value := ""
	if sessionID != "" {
		value = s.signSessionID(sessionID)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   !s.debug,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   maxAge,
	})
}

func (s *Server) clearSessionCookie(w http.ResponseWriter) {
	s.SetSessionCookie(w, "", -1)
}

// currentSession resolves the request's session, if any. A cookie that
// fails signature verification or addresses a missing session yields
// (nil, "").
func (s *Server) currentSession(r *http.Request) (*sessions.Session, string) {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil || cookie.Value == "" {
		return nil, ""
	}

	sessionID, err := s.verifySessionCookie(cookie.Value)
	if err != nil {
		return nil, ""
	}

	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, ""
	}
	return &session, sessionID
}

// dropSession destroys a session and its cookie in one step.
func (s *Server) dropSession(w http.ResponseWriter, sessionID string) {
	_ = s.sessions.Delete(sessionID)
	s.clearSessionCookie(w)
}

// sanitizeRedirect keeps post-login redirects on this host: only
// same-site absolute paths pass through.
func sanitizeRedirect(target, fallback string) string {
	if target == "" || !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") {
		return fallback
	}
	return target
}

func (s *Server) sessionMaxAge() int {
	return int(s.config.GetSessionTimeout() / time.Second)
}
