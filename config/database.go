package config

import (
	"fmt"
	"strings"
	"time"
)

// SessionStoreKind selects where sessions live.
type SessionStoreKind string

const (
	// SessionStoreRedis shares sessions across replicas through Redis.
	SessionStoreRedis SessionStoreKind = "redis"
	// SessionStoreMemory keeps sessions in process memory.
	SessionStoreMemory SessionStoreKind = "memory"
)

// UnmarshalText implements encoding.TextUnmarshaler for SessionStoreKind.
func (k *SessionStoreKind) UnmarshalText(text []byte) error {
	v := strings.ToLower(strings.TrimSpace(string(text)))
	switch v {
	case "redis", "memory":
		*k = SessionStoreKind(v)
		return nil
	default:
		return fmt.Errorf("invalid SessionStore: %q (valid options: redis, memory)", v)
	}
}

// SessionConfig controls session persistence.
type SessionConfig struct {
	Store SessionStoreKind `env:"SESSION_STORE" envDefault:"redis"`

	// TTL is the local session lifetime.
	TTL time.Duration `env:"SESSION_TTL" envDefault:"12h"`

	// MemoryCapacity bounds the in-memory store.
	MemoryCapacity int `env:"SESSION_MEMORY_CAPACITY" envDefault:"10000"`

	// KeyPrefix namespaces session keys in Redis.
	KeyPrefix string `env:"SESSION_KEY_PREFIX" envDefault:"aquaflow:session:"`
}

// Sanitize applies guardrails to session configuration values.
func (s *SessionConfig) Sanitize() {
	if s.Store == "" {
		s.Store = SessionStoreRedis
	}
	if s.TTL <= 0 {
		s.TTL = 12 * time.Hour
	}
	if s.MemoryCapacity <= 0 {
		s.MemoryCapacity = 10_000
	}
}

// RedisConfig contains Redis configuration.
type RedisConfig struct {
	URI                string   `env:"URI"                  envDefault:"localhost:6379"`
	Password           string   `env:"PASSWORD"             envDefault:""`
	DB                 int      `env:"DB"                   envDefault:"0"`
	SentinelPort       string   `env:"SENTINEL_PORT"        envDefault:"26379"`
	SentinelNodes      []string `env:"SENTINEL_NODES"       envDefault:"localhost:26379"`
	SentinelMasterName string   `env:"SENTINEL_MASTER_NAME" envDefault:"mymaster"`
	SentinelPassword   string   `env:"SENTINEL_PASSWORD"    envDefault:""`
	UseSentinel        bool     `env:"USE_SENTINEL"         envDefault:"false"`
	ClusterNodes       []string `env:"CLUSTER_NODES"        envDefault:""`
	UseCluster         bool     `env:"USE_CLUSTER"          envDefault:"false"`
}
