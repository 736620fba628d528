// Package imaging resolves image references (file paths, raw bytes,
// spreadsheet-embedded pictures) into validated, decoded payloads.
package imaging

import (
	"crypto/md5"
	"encoding/hex"
	"sync"
	"time"
)

// CacheEntry is one cached image payload.
type CacheEntry struct {
	Data      []byte
	Timestamp time.Time
	Width     int
	Height    int
	Format    string
}

// Cache is an in-memory image cache with TTL expiration and a bounded entry
// count (oldest-by-timestamp eviction). The mutex makes it safe if multiple
// generation runs ever execute concurrently; cached payloads are treated as
// immutable.
type Cache struct {
	mu         sync.Mutex
	entries    map[string]CacheEntry
	ttl        time.Duration
	maxEntries int
}

// NewCache returns a cache with the given TTL and capacity.
func NewCache(ttl time.Duration, maxEntries int) *Cache {
	if maxEntries <= 0 {
		maxEntries = 100
	}
	return &Cache{
		entries:    make(map[string]CacheEntry),
		ttl:        ttl,
		maxEntries: maxEntries,
	}
}

func hashKey(key string) string {
	sum := md5.Sum([]byte(key))
	return hex.EncodeToString(sum[:])
}

// Get returns the cached entry for key, or false if absent or expired.
// Expired entries are removed on access.
func (c *Cache) Get(key string) (CacheEntry, bool) {
	hashed := hashKey(key)
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[hashed]
	if !ok {
		return CacheEntry{}, false
	}
	if time.Since(entry.Timestamp) > c.ttl {
		delete(c.entries, hashed)
		return CacheEntry{}, false
	}
	return entry, true
}

// Put caches an image payload, evicting the oldest entry at capacity.
func (c *Cache) Put(key string, data []byte, width, height int, format string) {
	hashed := hashKey(key)
	entry := CacheEntry{
		Data:      data,
		Timestamp: time.Now(),
		Width:     width,
		Height:    height,
		Format:    format,
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.entries) >= c.maxEntries {
		var oldestKey string
		var oldest time.Time
		for k, v := range c.entries {
			if oldestKey == "" || v.Timestamp.Before(oldest) {
				oldestKey = k
				oldest = v.Timestamp
			}
		}
		delete(c.entries, oldestKey)
	}

	c.entries[hashed] = entry
}

// Clear removes all cached entries.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]CacheEntry)
}

// CleanupExpired removes expired entries and returns the count removed.
func (c *Cache) CleanupExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for k, v := range c.entries {
		if time.Since(v.Timestamp) > c.ttl {
			delete(c.entries, k)
			removed++
		}
	}
	return removed
}

// Len returns the current entry count.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
