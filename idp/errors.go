package idp

import "errors"

// Sentinel errors classifying provider call failures. The login flow maps
// these to user-facing messages and decides whether to count a failed
// attempt: a rejection is a credential failure, an unreachable or slow
// provider is not.
var (
	ErrInvalidCredentials = errors.New("provider rejected credentials")
	ErrRejected           = errors.New("provider rejected request")
	ErrTimeout            = errors.New("provider request timed out")
	ErrUnreachable        = errors.New("cannot connect to provider")
	ErrNoAccessToken      = errors.New("provider response missing access token")
	ErrUserinfo           = errors.New("failed to retrieve user information")
)
