// Package auth holds the gateway's decision engine and the login-flow
// orchestration: direct credential login, SSO completion, and token
// refresh against the identity provider.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/holsteinlabs/authgate/idp"
	"github.com/holsteinlabs/authgate/ratelimit"
	"github.com/holsteinlabs/authgate/sessions"
	"github.com/holsteinlabs/authgate/token/claims"
)

// Provider is the slice of the identity-provider client the service
// needs. *idp.Client satisfies it.
type Provider interface {
	PasswordGrant(ctx context.Context, username, password string) (*idp.TokenSet, error)
	Userinfo(ctx context.Context, accessToken string) (*idp.UserInfo, error)
	Refresh(ctx context.Context, refreshToken string) (*idp.TokenSet, error)
	ClientID() string
}

// Service runs the login flows. Both flows terminate in a populated
// session or an error the transport layer maps to a user-facing message.
type Service struct {
	provider   Provider
	limiter    *ratelimit.Limiter
	sessionTTL time.Duration
	now        func() time.Time
}

func NewService(provider Provider, limiter *ratelimit.Limiter, sessionTTL time.Duration) *Service {
	return &Service{
		provider:   provider,
		limiter:    limiter,
		sessionTTL: sessionTTL,
		now:        time.Now,
	}
}

// DirectLogin exchanges a username and password for a populated session
// via the provider's resource-owner-password grant.
//
// Failed attempts are recorded only for credential failures (provider
// rejections, malformed token responses, userinfo refusal); a slow or
// unreachable provider never penalises the user.
func (s *Service) DirectLogin(ctx context.Context, username, password string) (sessions.Session, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return sessions.Session{}, ErrMissingCredentials
	}

	if s.limiter.IsRateLimited(username) {
		log.Warn().Str("username", username).Msg("direct login blocked by rate limiter")
		return sessions.Session{}, ErrRateLimited
	}

	tokens, err := s.provider.PasswordGrant(ctx, username, password)
	if err != nil {
		if isCredentialFailure(err) {
			s.limiter.RecordFailedAttempt(username)
		}
		log.Warn().Err(err).Str("username", username).Msg("direct login token exchange failed")
		return sessions.Session{}, err
	}

	userInfo, err := s.provider.Userinfo(ctx, tokens.AccessToken)
	if err != nil {
		if isCredentialFailure(err) {
			s.limiter.RecordFailedAttempt(username)
		}
		log.Error().Err(err).Str("username", username).Msg("userinfo fetch failed after token exchange")
		return sessions.Session{}, err
	}

	session := s.buildSession(tokens, userInfo)
	s.limiter.ClearAttempts(username)
	log.Info().Str("username", session.User.Username).Msg("direct login successful")
	return session, nil
}

// CompleteSSO builds a session from the output of an authorization-code
// exchange.
func (s *Service) CompleteSSO(tokens *idp.TokenSet, userInfo *idp.UserInfo) sessions.Session {
	session := s.buildSession(tokens, userInfo)
	log.Info().Str("username", session.User.Username).Msg("sso login successful")
	return session
}

// RefreshSession exchanges the session's refresh token for fresh token
// material. On any failure the caller must clear the whole session: a
// failed refresh invalidates the login, not just the token.
func (s *Service) RefreshSession(ctx context.Context, session sessions.Session) (sessions.Session, error) {
	if session.RefreshToken == "" {
		return sessions.Session{}, ErrNoRefreshToken
	}

	tokens, err := s.provider.Refresh(ctx, session.RefreshToken)
	if err != nil {
		log.Warn().Err(err).Str("username", session.User.Username).Msg("token refresh failed")
		return sessions.Session{}, fmt.Errorf("refresh token exchange: %w", err)
	}

	session.AccessToken = tokens.AccessToken
	if tokens.RefreshToken != "" {
		session.RefreshToken = tokens.RefreshToken
	}
	session.TokenExpiresAt = tokens.ExpiresAt
	return session, nil
}

func (s *Service) buildSession(tokens *idp.TokenSet, userInfo *idp.UserInfo) sessions.Session {
	now := s.now()
	return sessions.Session{
		User: sessions.User{
			ID:       userInfo.Subject,
			Username: userInfo.Username,
			Email:    userInfo.Email,
			Name:     userInfo.Name,
			Groups:   claims.ExtractGroups(tokens.AccessToken, s.provider.ClientID()),
		},
		AccessToken:    tokens.AccessToken,
		RefreshToken:   tokens.RefreshToken,
		TokenExpiresAt: tokens.ExpiresAt,
		ExpiresAt:      now.Add(s.sessionTTL),
		CreatedAt:      now,
	}
}

// isCredentialFailure distinguishes provider rejections from provider
// unavailability for rate-limit accounting. A timeout or connection
// failure is never counted against the user.
func isCredentialFailure(err error) bool {
	return errors.Is(err, idp.ErrInvalidCredentials) ||
		errors.Is(err, idp.ErrRejected) ||
		errors.Is(err, idp.ErrNoAccessToken) ||
		errors.Is(err, idp.ErrUserinfo)
}
