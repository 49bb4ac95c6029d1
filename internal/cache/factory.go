package cache

import (
	"fmt"
	"strings"

	"github.com/hydroeval/hydroeval/internal/config"
	"github.com/hydroeval/hydroeval/internal/utils"
)

// New creates a Cache based on configuration. Type "none" (or empty)
// returns a cache that never hits.
func New(cfg config.CacheConfig) (Cache, error) {
	switch utils.CacheType(strings.ToLower(cfg.Type)) {
	case "", utils.CacheTypeNone:
		return nopCache{}, nil

	case utils.CacheTypeMemory:
		return NewMemoryCache(cfg.TTL, cfg.MaxEntries), nil

	case utils.CacheTypeRedis:
		return NewRedisCache(RedisConfig{
			URL:       cfg.RedisURL,
			DB:        cfg.RedisDB,
			KeyPrefix: cfg.KeyPrefix,
			TTL:       cfg.TTL,
			Compress:  cfg.Compress,
		})

	default:
		return nil, fmt.Errorf("unsupported cache type: %s (supported: none, memory, redis)", cfg.Type)
	}
}
