package server_test

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"net/http"
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/holsteinlabs/authgate/auth"
	"github.com/holsteinlabs/authgate/idp"
	"github.com/holsteinlabs/authgate/internal/config"
	"github.com/holsteinlabs/authgate/ratelimit"
	"github.com/holsteinlabs/authgate/server"
	"github.com/holsteinlabs/authgate/server/authflowrepo"
	"github.com/holsteinlabs/authgate/sessions"
)

const (
	testSecret     = "test-secret-key"
	testCookieName = "authgate_session"
)

// fakeProvider satisfies both auth.Provider and server.SSOClient.
type fakeProvider struct {
	grantErr    error
	userinfoErr error
	refreshErr  error
	exchangeErr error

	accessToken string
	grantCalls  int
}

func (f *fakeProvider) PasswordGrant(_ context.Context, _, _ string) (*idp.TokenSet, error) {
	f.grantCalls++
	if f.grantErr != nil {
		return nil, f.grantErr
	}
	return f.tokenSet(), nil
}

func (f *fakeProvider) Userinfo(_ context.Context, _ string) (*idp.UserInfo, error) {
	if f.userinfoErr != nil {
		return nil, f.userinfoErr
	}
	return f.userInfo(), nil
}

func (f *fakeProvider) Refresh(_ context.Context, _ string) (*idp.TokenSet, error) {
	if f.refreshErr != nil {
		return nil, f.refreshErr
	}
	return &idp.TokenSet{
		AccessToken:  "refreshed-access-token",
		RefreshToken: "refreshed-refresh-token",
		ExpiresAt:    time.Now().Add(5 * time.Minute),
	}, nil
}

func (f *fakeProvider) ClientID() string { return "webapp" }

func (f *fakeProvider) AuthCodeURL(state string) string {
	return "https://provider.example/auth?state=" + state
}

func (f *fakeProvider) Exchange(_ context.Context, _ string) (*idp.TokenSet, *idp.UserInfo, error) {
	if f.exchangeErr != nil {
		return nil, nil, f.exchangeErr
	}
	return f.tokenSet(), f.userInfo(), nil
}

func (f *fakeProvider) tokenSet() *idp.TokenSet {
	return &idp.TokenSet{
		AccessToken:  f.accessToken,
		RefreshToken: "refresh-token-1",
		ExpiresAt:    time.Now().Add(5 * time.Minute),
	}
}

func (f *fakeProvider) userInfo() *idp.UserInfo {
	return &idp.UserInfo{
		Subject:  "user-1",
		Username: "alice",
		Email:    "alice@example.com",
		Name:     "Alice Doe",
	}
}

type fixture struct {
	srv      *server.Server
	provider *fakeProvider
	sessions *sessions.InMemoryRepo
	states   *authflowrepo.InMemoryRepo
}

func newFixture(t *testing.T) *fixture {
	t.Setenv("SECRET_KEY", testSecret)
	t.Setenv("DEBUG", "false")

	provider := &fakeProvider{accessToken: accessTokenWithGroups(t, "view")}
	limiter := ratelimit.New(ratelimit.NewInMemoryStore(), ratelimit.Options{})
	service := auth.NewService(provider, limiter, time.Hour)
	sessionRepo := sessions.NewInMemoryRepo()
	stateRepo := authflowrepo.NewInMemoryRepo()

	return &fixture{
		srv:      server.New(config.New(), service, provider, sessionRepo, stateRepo),
		provider: provider,
		sessions: sessionRepo,
		states:   stateRepo,
	}
}

// accessTokenWithGroups builds an access token whose payload carries the
// given groups claim. The signature is irrelevant to group extraction.
func accessTokenWithGroups(t *testing.T, groups ...string) string {
	t.Helper()
	token := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, jwtlib.MapClaims{
		"sub":    "user-1",
		"groups": groups,
	})
	signed, err := token.SignedString([]byte("irrelevant-key"))
	require.NoError(t, err)
	return signed
}

// signCookie reproduces the gateway's HMAC cookie signing with the test
// secret.
func signCookie(sessionID string) string {
	mac := hmac.New(sha256.New, []byte(testSecret))
	mac.Write([]byte(sessionID))
	return sessionID + "." + base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

func liveSession(groups ...string) sessions.Session {
	now := time.Now()
	return sessions.Session{
		User: sessions.User{
			ID:       "user-1",
			Username: "alice",
			Email:    "alice@example.com",
			Name:     "Alice Doe",
			Groups:   groups,
		},
		AccessToken:    "access-token-1",
		RefreshToken:   "refresh-token-1",
		TokenExpiresAt: now.Add(5 * time.Minute),
		ExpiresAt:      now.Add(time.Hour),
		CreatedAt:      now,
	}
}

// addSession stores a session and returns the cookie addressing it.
func (f *fixture) addSession(t *testing.T, session sessions.Session) (*http.Cookie, string) {
	t.Helper()
	sessionID := uuid.NewString()
	require.NoError(t, f.sessions.Upsert(sessionID, session))
	return &http.Cookie{Name: testCookieName, Value: signCookie(sessionID)}, sessionID
}

func cookieFromResponse(t *testing.T, resp *http.Response) *http.Cookie {
	t.Helper()
	for _, c := range resp.Cookies() {
		if c.Name == testCookieName {
			return c
		}
	}
	t.Fatal("no session cookie in response")
	return nil
}
