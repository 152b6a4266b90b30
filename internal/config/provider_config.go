package config

import "fmt"

// ProviderConfig describes the external OpenID Connect provider
// (Keycloak-shaped: realms live under the base URL).
type ProviderConfig interface {
	GetProviderURL() string
	GetRealm() string
	GetClientID() string
	GetClientSecret() string
	GetIssuer() string
}

type Provider struct{}

var _ ProviderConfig = Provider{}

func (Provider) GetProviderURL() string {
	return GetEnv("KEYCLOAK_URL", "http://keycloak:8080/auth")
}

func (Provider) GetRealm() string {
	return GetEnv("KEYCLOAK_REALM", "master")
}

func (Provider) GetClientID() string {
	return GetEnv("KEYCLOAK_CLIENT_ID", "webapp")
}

func (Provider) GetClientSecret() string {
	return GetEnv("KEYCLOAK_CLIENT_SECRET", "webapp-secret")
}

// GetIssuer returns the OIDC issuer URL for the configured realm.
func (p Provider) GetIssuer() string {
	return fmt.Sprintf("%s/realms/%s", p.GetProviderURL(), p.GetRealm())
}
