package session

import (
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store backends selectable with SESSION_STORE.
const (
	StoreMemory = "memory"
	StoreRedis  = "redis"
)

// Config holds session settings.
type Config struct {
	Store     string        `env:"SESSION_STORE" envDefault:"memory"`
	TTL       time.Duration `env:"SESSION_TTL" envDefault:"0"`
	KeyPrefix string        `env:"SESSION_KEY_PREFIX" envDefault:"crowdpredictor:session:"`
}

// NewStoreFromConfig picks the store backend. Redis is used only when
// configured and a client is available; otherwise it falls back to memory
// and logs a warning.
func NewStoreFromConfig(cfg Config, client redis.UniversalClient, log *slog.Logger) Store {
	if cfg.Store == StoreRedis {
		if client != nil {
			return NewRedisStore(client, cfg.KeyPrefix)
		}
		if log != nil {
			log.Warn("redis session store requested without a redis client, using memory store")
		}
	}
	return NewMemoryStore()
}

// NewManagerFromConfig creates a Manager with the TTL from cfg.
func NewManagerFromConfig(cfg Config, store Store, opts ...ManagerOption) *Manager {
	return NewManager(store, append([]ManagerOption{WithTTL(cfg.TTL)}, opts...)...)
}
