package cache

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

const cleanupInterval = time.Minute

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// MemoryCache is an in-process cache with per-entry TTL and a capacity bound.
// When full, the entry closest to expiry is evicted.
type MemoryCache struct {
	mu         sync.RWMutex
	entries    map[string]*memoryEntry
	ttl        time.Duration
	maxEntries int
	hits       atomic.Uint64
	misses     atomic.Uint64
	stopCh     chan struct{}
	stopOnce   sync.Once
	now        func() time.Time
}

// NewMemoryCache creates a memory cache. ttl is the default entry lifetime
// used when Put is called with a non-positive ttl; maxEntries <= 0 means unbounded.
func NewMemoryCache(ttl time.Duration, maxEntries int) *MemoryCache {
	c := &MemoryCache{
		entries:    make(map[string]*memoryEntry),
		ttl:        ttl,
		maxEntries: maxEntries,
		stopCh:     make(chan struct{}),
		now:        time.Now,
	}

	go c.cleanup()

	return c
}

// Get retrieves a value from cache
func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.RLock()
	entry, exists := c.entries[key]
	c.mu.RUnlock()

	if !exists || c.now().After(entry.expiresAt) {
		c.misses.Add(1)
		return nil, false, nil
	}

	c.hits.Add(1)
	out := make([]byte, len(entry.value))
	copy(out, entry.value)
	return out, true, nil
}

// Put stores a value in cache
func (c *MemoryCache) Put(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = c.ttl
	}

	stored := make([]byte, len(value))
	copy(stored, value)

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; !exists && c.maxEntries > 0 && len(c.entries) >= c.maxEntries {
		c.evictLocked()
	}

	c.entries[key] = &memoryEntry{
		value:     stored,
		expiresAt: c.now().Add(ttl),
	}
	return nil
}

// evictLocked drops expired entries, then the soonest-expiring one if still full
func (c *MemoryCache) evictLocked() {
	now := c.now()
	for key, entry := range c.entries {
		if now.After(entry.expiresAt) {
			delete(c.entries, key)
		}
	}
	if len(c.entries) < c.maxEntries {
		return
	}

	var victim string
	var earliest time.Time
	for key, entry := range c.entries {
		if victim == "" || entry.expiresAt.Before(earliest) {
			victim, earliest = key, entry.expiresAt
		}
	}
	delete(c.entries, victim)
}

// Invalidate removes all keys with given prefix
func (c *MemoryCache) Invalidate(_ context.Context, prefix string) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for key := range c.entries {
		if strings.HasPrefix(key, prefix) {
			delete(c.entries, key)
			removed++
		}
	}
	return removed, nil
}

// Stats returns cache statistics. Entries counts only unexpired entries.
func (c *MemoryCache) Stats(_ context.Context) (Stats, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	now := c.now()
	active := 0
	for _, entry := range c.entries {
		if !now.After(entry.expiresAt) {
			active++
		}
	}

	return Stats{
		Backend:    "memory",
		Entries:    active,
		Hits:       c.hits.Load(),
		Misses:     c.misses.Load(),
		TTLSeconds: c.ttl.Seconds(),
	}, nil
}

// cleanup periodically removes expired entries
func (c *MemoryCache) cleanup() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.mu.Lock()
			now := c.now()
			for key, entry := range c.entries {
				if now.After(entry.expiresAt) {
					delete(c.entries, key)
				}
			}
			c.mu.Unlock()
		case <-c.stopCh:
			return
		}
	}
}

// Close stops the cleanup goroutine
func (c *MemoryCache) Close() error {
	c.stopOnce.Do(func() { close(c.stopCh) })
	return nil
}
