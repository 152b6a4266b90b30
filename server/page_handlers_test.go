package server_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func getPage(f *fixture, target string, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	f.srv.ServeHTTP(rec, req)
	return rec
}

func TestGuardedPages(t *testing.T) {
	t.Run("monitoring requires session", func(t *testing.T) {
		f := newFixture(t)
		rec := getPage(f, "/monitoring", nil)
		require.Equal(t, http.StatusSeeOther, rec.Code)
		require.Equal(t, "/", rec.Header().Get("Location"))
	})

	t.Run("monitoring renders for authenticated user", func(t *testing.T) {
		f := newFixture(t)
		cookie, _ := f.addSession(t, liveSession("view"))
		rec := getPage(f, "/monitoring", cookie)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), "Alice Doe")
	})

	t.Run("admin page forbidden without admin group", func(t *testing.T) {
		f := newFixture(t)
		cookie, _ := f.addSession(t, liveSession("view", "modify"))
		rec := getPage(f, "/admin", cookie)
		require.Equal(t, http.StatusForbidden, rec.Code)
		require.Contains(t, rec.Body.String(), "Access Denied: Insufficient permissions")
	})

	t.Run("admin page renders for admin", func(t *testing.T) {
		f := newFixture(t)
		cookie, _ := f.addSession(t, liveSession("admin"))
		rec := getPage(f, "/admin", cookie)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), "Administration")
	})

	t.Run("profile lists user details", func(t *testing.T) {
		f := newFixture(t)
		cookie, _ := f.addSession(t, liveSession("view"))
		rec := getPage(f, "/profile", cookie)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), "alice@example.com")
	})

	t.Run("frame security headers present", func(t *testing.T) {
		f := newFixture(t)
		cookie, _ := f.addSession(t, liveSession("view"))
		rec := getPage(f, "/monitoring", cookie)
		require.Equal(t, "SAMEORIGIN", rec.Header().Get("X-Frame-Options"))
		require.Equal(t, "frame-ancestors 'self'", rec.Header().Get("Content-Security-Policy"))
	})
}

func TestDocumentationHandler(t *testing.T) {
	t.Run("redirects when enabled", func(t *testing.T) {
		f := newFixture(t)
		t.Setenv("DOCUMENTATION_ENABLED", "true")
		t.Setenv("DOCUMENTATION_URL", "https://wiki.example/docs")

		cookie, _ := f.addSession(t, liveSession("view"))
		rec := getPage(f, "/documentation", cookie)
		require.Equal(t, http.StatusFound, rec.Code)
		require.Equal(t, "https://wiki.example/docs", rec.Header().Get("Location"))
	})

	t.Run("unavailable when disabled", func(t *testing.T) {
		f := newFixture(t)
		t.Setenv("DOCUMENTATION_ENABLED", "false")

		cookie, _ := f.addSession(t, liveSession("view"))
		rec := getPage(f, "/documentation", cookie)
		require.Equal(t, http.StatusServiceUnavailable, rec.Code)
		require.Contains(t, rec.Body.String(), "Documentation service is not available")
	})
}

func TestHealthHandler(t *testing.T) {
	f := newFixture(t)
	rec := getPage(f, "/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	require.Equal(t, "healthy", payload["status"])
	require.Equal(t, "authgate", payload["service"])
	require.NotEmpty(t, payload["provider_url"])
	require.NotEmpty(t, payload["realm"])
	require.NotEmpty(t, payload["version"])
}

func TestNginxStatusHandler(t *testing.T) {
	t.Run("unauthenticated", func(t *testing.T) {
		f := newFixture(t)
		rec := getPage(f, "/nginx-status", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var payload map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
		require.Equal(t, "running", payload["webapp"])
		require.Equal(t, "not authenticated", payload["session"])
	})

	t.Run("authenticated", func(t *testing.T) {
		f := newFixture(t)
		cookie, _ := f.addSession(t, liveSession("view"))
		rec := getPage(f, "/nginx-status", cookie)

		var payload map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
		require.Equal(t, "authenticated as alice", payload["session"])
	})
}

func TestNotFound(t *testing.T) {
	f := newFixture(t)
	rec := getPage(f, "/no-such-page", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Contains(t, rec.Body.String(), "Page not found")
}
