package cache

import (
	"fmt"
	"os"
	"strconv"
)

// Environment variables consumed by NewFromEnv.
const (
	EnvBackend       = "STATELINE_CACHE"
	EnvRedisAddr     = "STATELINE_REDIS_ADDR"
	EnvRedisPassword = "STATELINE_REDIS_PASSWORD"
	EnvRedisDB       = "STATELINE_REDIS_DB"
)

// NewFromEnv builds a cache from environment configuration. An unset or
// "off" backend returns (nil, nil); callers treat a nil cache as caching
// disabled.
func NewFromEnv() (Cache, error) {
	switch backend := os.Getenv(EnvBackend); backend {
	case "", "off":
		return nil, nil
	case "memory":
		return NewMemory(), nil
	case "redis":
		addr := os.Getenv(EnvRedisAddr)
		if addr == "" {
			addr = "localhost:6379"
		}
		db := 0
		if raw := os.Getenv(EnvRedisDB); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil {
				return nil, fmt.Errorf("invalid %s %q: %w", EnvRedisDB, raw, err)
			}
			db = parsed
		}
		return NewRedis(addr, os.Getenv(EnvRedisPassword), db), nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q: supported backends are memory, redis, off", backend)
	}
}
