package config

import "time"

type SecurityConfig interface {
	GetSessionTimeout() time.Duration
	GetProviderTimeout() time.Duration
	GetMaxLoginAttempts() int
	GetAttemptWindow() time.Duration
	GetLockoutDuration() time.Duration
}

type Security struct{}

var _ SecurityConfig = Security{}

func (Security) GetSessionTimeout() time.Duration {
	return time.Duration(GetEnvInt("SESSION_TIMEOUT", 3600)) * time.Second
}

func (Security) GetProviderTimeout() time.Duration {
	return 10 * time.Second
}

func (Security) GetMaxLoginAttempts() int {
	return GetEnvInt("MAX_LOGIN_ATTEMPTS", 5)
}

func (Security) GetAttemptWindow() time.Duration {
	return time.Duration(GetEnvInt("LOGIN_ATTEMPT_WINDOW", 300)) * time.Second
}

func (Security) GetLockoutDuration() time.Duration {
	return time.Duration(GetEnvInt("LOGIN_LOCKOUT_DURATION", 900)) * time.Second
}
