package config

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetDebug() bool
	GetBaseURL() string
	GetSecretKey() string
}

type Config interface {
	EnvConfig
	ProviderConfig
	SecurityConfig
	DocsConfig
	StoreConfig
}

type mainConfig struct {
	EnvVars
	Provider
	Security
	Docs
	Store
}

func New() Config {
	return mainConfig{}
}
