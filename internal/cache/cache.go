// Package cache memoizes deterministic computation results by content
// address. Backends store opaque bytes; callers own the encoding.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"
)

// Cache stores values under content-derived keys
type Cache interface {
	// Get returns the value for key and whether it was present and unexpired
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Put stores value under key for ttl
	Put(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Invalidate removes every key starting with prefix and returns how many were removed.
	// An empty prefix clears the cache.
	Invalidate(ctx context.Context, prefix string) (int, error)

	// Stats reports backend statistics
	Stats(ctx context.Context) (Stats, error)

	// Close releases backend resources
	Close() error
}

// Stats represents cache statistics
type Stats struct {
	Backend    string  `json:"backend"`
	Entries    int     `json:"entries"`
	Hits       uint64  `json:"hits"`
	Misses     uint64  `json:"misses"`
	TTLSeconds float64 `json:"ttl_seconds"`
}

// HitRate returns hits / (hits + misses), 0 when nothing was looked up
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

// Key derives a cache key from an operation name and its arguments:
// "<operation>:<hex sha256 of the JSON encoding of args>". Equal arguments
// always produce the same key.
func Key(operation string, args interface{}) (string, error) {
	data, err := json.Marshal(args)
	if err != nil {
		return "", fmt.Errorf("failed to encode cache key arguments: %w", err)
	}
	sum := sha256.Sum256(data)
	return operation + ":" + hex.EncodeToString(sum[:]), nil
}

// nopCache is used when caching is disabled
type nopCache struct{}

func (nopCache) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }

func (nopCache) Put(context.Context, string, []byte, time.Duration) error { return nil }

func (nopCache) Invalidate(context.Context, string) (int, error) { return 0, nil }

func (nopCache) Stats(context.Context) (Stats, error) { return Stats{Backend: "none"}, nil }

func (nopCache) Close() error { return nil }
