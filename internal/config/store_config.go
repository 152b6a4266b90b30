package config

// StoreConfig selects the session store backend. The default in-memory
// store is single-instance; "redis" allows sessions to be shared across
// gateway replicas.
type StoreConfig interface {
	GetSessionStore() string
	GetRedisAddr() string
	GetRedisPassword() string
}

type Store struct{}

var _ StoreConfig = Store{}

func (Store) GetSessionStore() string {
	return GetEnv("SESSION_STORE", "memory")
}

func (Store) GetRedisAddr() string {
	return GetEnv("REDIS_ADDR", "localhost:6379")
}

func (Store) GetRedisPassword() string {
	return GetEnv("REDIS_PASSWORD", "")
}
