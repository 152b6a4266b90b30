package auth

import "errors"

var (
	ErrMissingCredentials = errors.New("username and password are required")
	ErrRateLimited        = errors.New("too many failed attempts")
	ErrNoRefreshToken     = errors.New("no refresh token available")
)
