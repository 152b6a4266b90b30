package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

const (
	portEnvVar   = "WEBAPP_PORT"
	appNameVar   = "APP_NAME"
	debugEnvVar  = "DEBUG"
	baseURLVar   = "EXTERNAL_URL"
	secretKeyVar = "SECRET_KEY"
)

type EnvVars struct{}

var _ EnvConfig = EnvVars{}

func (EnvVars) GetPort() string {
	port := GetEnv(portEnvVar, "8000")
	if !strings.HasPrefix(port, ":") {
		port = fmt.Sprintf(":%s", port)
	}
	return port
}

func (EnvVars) GetAppName() string {
	return GetEnv(appNameVar, "Auth Gateway")
}

func (EnvVars) GetDebug() bool {
	return strings.EqualFold(GetEnv(debugEnvVar, "false"), "true")
}

// GetBaseURL returns the externally visible base URL of the gateway,
// used to build the OAuth callback redirect URI.
func (EnvVars) GetBaseURL() string {
	return GetEnv(baseURLVar, "http://localhost:8000")
}

// GetSecretKey returns the secret used to authenticate session cookies.
func (EnvVars) GetSecretKey() string {
	return GetEnv(secretKeyVar, "your-secret-key-change-this")
}

func GetEnv(envVar, defaultValue string) string {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	return value
}

func GetEnvInt(envVar string, defaultValue int) int {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}
