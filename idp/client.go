// Package idp is the gateway's client for the external OpenID Connect
// provider: the resource-owner-password grant, the authorization-code
// exchange for SSO, token refresh, and the userinfo endpoint.
package idp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"
)

// TokenSet is the token material returned by a grant.
type TokenSet struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}

// UserInfo is the identity block from the provider's userinfo endpoint or
// a verified ID token.
type UserInfo struct {
	Subject  string `json:"sub"`
	Username string `json:"preferred_username"`
	Email    string `json:"email"`
	Name     string `json:"name"`
}

// Options configures a Client.
type Options struct {
	Issuer       string
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Scopes       []string

	// Timeout bounds every outbound provider call. Defaults to 10s.
	Timeout time.Duration
}

// Client wraps the provider's endpoints. All calls are synchronous with a
// bounded timeout; no retries are performed.
type Client struct {
	provider   *oidc.Provider
	verifier   *oidc.IDTokenVerifier
	oauthCfg   *oauth2.Config
	httpClient *http.Client
	clientID   string
}

// New discovers the provider's endpoints from its issuer URL.
func New(ctx context.Context, opts Options) (*Client, error) {
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	httpClient := &http.Client{Timeout: opts.Timeout}

	provider, err := oidc.NewProvider(oidc.ClientContext(ctx, httpClient), opts.Issuer)
	if err != nil {
		return nil, fmt.Errorf("discover provider %q: %w", opts.Issuer, err)
	}

	scopes := opts.Scopes
	if len(scopes) == 0 {
		scopes = []string{oidc.ScopeOpenID, "profile", "email", "roles"}
	}

	return &Client{
		provider: provider,
		verifier: provider.Verifier(&oidc.Config{ClientID: opts.ClientID}),
		oauthCfg: &oauth2.Config{
			ClientID:     opts.ClientID,
			ClientSecret: opts.ClientSecret,
			Endpoint:     provider.Endpoint(),
			RedirectURL:  opts.RedirectURL,
			Scopes:       scopes,
		},
		httpClient: httpClient,
		clientID:   opts.ClientID,
	}, nil
}

// ClientID returns the OAuth client ID, used for resource_access claim
// extraction.
func (c *Client) ClientID() string {
	return c.clientID
}

// AuthCodeURL builds the provider's authorization-endpoint URL for the
// SSO redirect flow.
func (c *Client) AuthCodeURL(state string) string {
	return c.oauthCfg.AuthCodeURL(state)
}

// PasswordGrant exchanges a username and password at the provider's token
// endpoint (resource-owner-password grant).
func (c *Client) PasswordGrant(ctx context.Context, username, password string) (*TokenSet, error) {
	token, err := c.oauthCfg.PasswordCredentialsToken(c.callContext(ctx), username, password)
	if err != nil {
		return nil, classify(err)
	}
	return tokenSet(token), nil
}

// Refresh exchanges a refresh token for a new token set.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*TokenSet, error) {
	source := c.oauthCfg.TokenSource(c.callContext(ctx), &oauth2.Token{RefreshToken: refreshToken})
	token, err := source.Token()
	if err != nil {
		return nil, classify(err)
	}
	return tokenSet(token), nil
}

// Userinfo fetches the provider's userinfo block for an access token.
// Transport failures surface as the timeout/unreachable sentinels, not as
// ErrUserinfo: only a provider that answered and refused is a userinfo
// failure.
func (c *Client) Userinfo(ctx context.Context, accessToken string) (*UserInfo, error) {
	source := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken, TokenType: "Bearer"})
	info, err := c.provider.UserInfo(c.callContext(ctx), source)
	if err != nil {
		if transportErr := transportFailure(err); transportErr != nil {
			return nil, transportErr
		}
		return nil, fmt.Errorf("%w: %v", ErrUserinfo, err)
	}

	var userInfo UserInfo
	if err := info.Claims(&userInfo); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUserinfo, err)
	}
	return &userInfo, nil
}

// Exchange completes the SSO flow: it swaps the authorization code for
// tokens and derives the user identity from the verified ID token,
// falling back to the userinfo endpoint when no ID token is present.
func (c *Client) Exchange(ctx context.Context, code string) (*TokenSet, *UserInfo, error) {
	token, err := c.oauthCfg.Exchange(c.callContext(ctx), code)
	if err != nil {
		return nil, nil, classify(err)
	}

	set := tokenSet(token)

	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok {
		userInfo, err := c.Userinfo(ctx, set.AccessToken)
		if err != nil {
			return nil, nil, err
		}
		return set, userInfo, nil
	}

	idToken, err := c.verifier.Verify(c.callContext(ctx), rawIDToken)
	if err != nil {
		return nil, nil, fmt.Errorf("verify id token: %w", err)
	}

	var userInfo UserInfo
	if err := idToken.Claims(&userInfo); err != nil {
		return nil, nil, fmt.Errorf("extract id token claims: %w", err)
	}
	return set, &userInfo, nil
}

// callContext routes oauth2 and go-oidc requests through the
// timeout-bounded HTTP client.
func (c *Client) callContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
}

func tokenSet(token *oauth2.Token) *TokenSet {
	set := &TokenSet{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
	}
	if !token.Expiry.IsZero() {
		set.ExpiresAt = token.Expiry
	}
	return set
}

// classify maps transport and provider errors onto the package sentinels.
func classify(err error) error {
	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) {
		if retrieveErr.Response != nil && retrieveErr.Response.StatusCode == http.StatusUnauthorized {
			return fmt.Errorf("%w: %v", ErrInvalidCredentials, err)
		}
		return fmt.Errorf("%w: %v", ErrRejected, err)
	}

	if transportErr := transportFailure(err); transportErr != nil {
		return transportErr
	}

	// A 2xx token response the oauth2 library could not use (no
	// access_token in the body) lands here.
	return fmt.Errorf("%w: %v", ErrNoAccessToken, err)
}

// transportFailure maps timeouts and connection errors onto their
// sentinels, returning nil for anything else.
func transportFailure(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		if urlErr.Timeout() {
			return fmt.Errorf("%w: %v", ErrTimeout, err)
		}
		return fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	return nil
}
