package cache

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/golang/snappy"
	"github.com/hydroeval/hydroeval/internal/utils"
	"github.com/redis/go-redis/v9"
)

const scanCount = 500

// RedisConfig represents Redis cache configuration
type RedisConfig struct {
	URL       string        // Redis URL (e.g., redis://localhost:6379)
	DB        int           // Database number when URL is a bare address
	KeyPrefix string        // Namespace prepended to every key
	TTL       time.Duration // Default entry lifetime
	Compress  bool          // Snappy-compress stored values
}

// RedisCache stores entries in Redis with native key expiry
type RedisCache struct {
	client *redis.Client
	config RedisConfig
	hits   atomic.Uint64
	misses atomic.Uint64
}

// NewRedisCache connects to Redis and returns a cache
func NewRedisCache(cfg RedisConfig) (*RedisCache, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		opts = &redis.Options{
			Addr: cfg.URL,
			DB:   cfg.DB,
		}
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), utils.ConnectTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = "hydroeval"
	}

	return &RedisCache{client: client, config: cfg}, nil
}

func (c *RedisCache) redisKey(key string) string {
	return c.config.KeyPrefix + ":" + key
}

// Get retrieves a value from Redis
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	raw, err := c.client.Get(ctx, c.redisKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		c.misses.Add(1)
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read cache key %s: %w", key, err)
	}

	value, err := decodeValue(raw, c.config.Compress)
	if err != nil {
		c.misses.Add(1)
		return nil, false, fmt.Errorf("failed to decode cache key %s: %w", key, err)
	}

	c.hits.Add(1)
	return value, true, nil
}

// Put stores a value in Redis with expiry
func (c *RedisCache) Put(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = c.config.TTL
	}

	if err := c.client.Set(ctx, c.redisKey(key), encodeValue(value, c.config.Compress), ttl).Err(); err != nil {
		return fmt.Errorf("failed to write cache key %s: %w", key, err)
	}
	return nil
}

// Invalidate scans for keys under prefix and deletes them
func (c *RedisCache) Invalidate(ctx context.Context, prefix string) (int, error) {
	keys, err := c.scan(ctx, c.redisKey(prefix)+"*")
	if err != nil {
		return 0, err
	}
	if len(keys) == 0 {
		return 0, nil
	}

	removed, err := c.client.Del(ctx, keys...).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to delete cache keys: %w", err)
	}
	return int(removed), nil
}

// Stats returns cache statistics
func (c *RedisCache) Stats(ctx context.Context) (Stats, error) {
	keys, err := c.scan(ctx, c.redisKey("")+"*")
	if err != nil {
		return Stats{}, err
	}

	return Stats{
		Backend:    "redis",
		Entries:    len(keys),
		Hits:       c.hits.Load(),
		Misses:     c.misses.Load(),
		TTLSeconds: c.config.TTL.Seconds(),
	}, nil
}

func (c *RedisCache) scan(ctx context.Context, match string) ([]string, error) {
	var keys []string
	iter := c.client.Scan(ctx, 0, match, scanCount).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan cache keys: %w", err)
	}
	return keys, nil
}

// Close closes the Redis connection
func (c *RedisCache) Close() error {
	return c.client.Close()
}

func encodeValue(value []byte, compress bool) []byte {
	if !compress {
		return value
	}
	return snappy.Encode(nil, value)
}

func decodeValue(raw []byte, compress bool) ([]byte, error) {
	if !compress {
		return raw, nil
	}
	return snappy.Decode(nil, raw)
}
