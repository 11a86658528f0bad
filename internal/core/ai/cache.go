package ai

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"

	"github.com/panpapadopoulos/cooking/internal/core/language"
	"github.com/panpapadopoulos/cooking/internal/core/recipe"
	"github.com/panpapadopoulos/cooking/internal/pkg/common"

	"go.uber.org/zap"
)

// CacheOptions sizes the response cache.
type CacheOptions struct {
	MaxSize         int
	TTL             time.Duration
	CleanupInterval time.Duration
}

// Cache holds parsed recipes keyed by CacheKey. Entries expire after TTL;
// when full, the least used entry goes first. A nil *Cache is a valid,
// always-missing cache.
type Cache struct {
	opts  CacheOptions
	now   func() time.Time
	mu    sync.Mutex
	store map[string]cacheEntry
	stats CacheStats
	done  chan struct{}
	once  sync.Once
}

type cacheEntry struct {
	recipe      *recipe.Recipe
	expiresAt   time.Time
	lastAccess  time.Time
	accessCount int
}

// CacheStats is a snapshot of the cache counters.
type CacheStats struct {
	Size      int   `json:"size"`
	MaxSize   int   `json:"max_size"`
	Hits      int64 `json:"hits"`
	Misses    int64 `json:"misses"`
	Evictions int64 `json:"evictions"`
}

// NewCache starts a cache and, when CleanupInterval is positive, its
// expiry sweeper. Close stops the sweeper.
func NewCache(opts CacheOptions) *Cache {
	c := &Cache{
		opts:  opts,
		now:   time.Now,
		store: make(map[string]cacheEntry),
		done:  make(chan struct{}),
	}
	if opts.CleanupInterval > 0 {
		go c.startCleanup()
	}

	common.LogInfo("ai cache initialized",
		zap.Int("max_size", opts.MaxSize),
		zap.Duration("ttl", opts.TTL),
		zap.Duration("cleanup_interval", opts.CleanupInterval),
	)
	return c
}

// CacheKey hashes the hint and the NFC form of text.
func CacheKey(text string, hint language.Hint) string {
	sum := sha256.Sum256([]byte(string(hint) + "\x00" + language.NFC(text)))
	return "parse:" + hex.EncodeToString(sum[:])
}

// Get returns a copy of the cached recipe.
func (c *Cache) Get(key string) (*recipe.Recipe, bool) {
	if c == nil {
		return nil, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.store[key]
	if !ok {
		c.stats.Misses++
		common.LogCacheMiss("ai")
		return nil, false
	}
	now := c.now()
	if now.After(entry.expiresAt) {
		delete(c.store, key)
		c.stats.Evictions++
		c.stats.Misses++
		common.LogCacheMiss("ai")
		return nil, false
	}

	entry.lastAccess = now
	entry.accessCount++
	c.store[key] = entry
	c.stats.Hits++
	common.LogCacheHit("ai")
	return entry.recipe.Clone(), true
}

// Set stores a copy of r, evicting expired and then least used entries
// when the cache is full.
func (c *Cache) Set(key string, r *recipe.Recipe) {
	if c == nil || c.opts.MaxSize <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.store[key]; !exists && len(c.store) >= c.opts.MaxSize {
		c.cleanup()
		for len(c.store) >= c.opts.MaxSize {
			c.evictLRU()
		}
	}

	now := c.now()
	c.store[key] = cacheEntry{
		recipe:     r.Clone(),
		expiresAt:  now.Add(c.opts.TTL),
		lastAccess: now,
	}
}

// Stats returns the current counters.
func (c *Cache) Stats() CacheStats {
	if c == nil {
		return CacheStats{}
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	stats := c.stats
	stats.Size = len(c.store)
	stats.MaxSize = c.opts.MaxSize
	return stats
}

// Close stops the sweeper and drops every entry.
func (c *Cache) Close() error {
	if c == nil {
		return nil
	}
	c.once.Do(func() { close(c.done) })

	c.mu.Lock()
	defer c.mu.Unlock()
	c.store = make(map[string]cacheEntry)
	common.LogInfo("ai cache closed",
		zap.Int64("hits", c.stats.Hits),
		zap.Int64("misses", c.stats.Misses),
		zap.Int64("evictions", c.stats.Evictions),
	)
	return nil
}

func (c *Cache) startCleanup() {
	ticker := time.NewTicker(c.opts.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.mu.Lock()
			c.cleanup()
			c.mu.Unlock()
		case <-c.done:
			return
		}
	}
}

// cleanup drops expired entries. Callers hold mu.
func (c *Cache) cleanup() int {
	now := c.now()
	count := 0
	for key, entry := range c.store {
		if now.After(entry.expiresAt) {
			delete(c.store, key)
			count++
		}
	}
	c.stats.Evictions += int64(count)
	if count > 0 {
		common.LogDebug("expired ai cache entries removed",
			zap.Int("count", count),
			zap.Int("remaining", len(c.store)),
		)
	}
	return count
}

// evictLRU drops the entry with the fewest hits, oldest access first.
// Callers hold mu.
func (c *Cache) evictLRU() {
	var oldestKey string
	var oldest cacheEntry
	for key, entry := range c.store {
		if oldestKey == "" ||
			entry.accessCount < oldest.accessCount ||
			(entry.accessCount == oldest.accessCount && entry.lastAccess.Before(oldest.lastAccess)) {
			oldestKey, oldest = key, entry
		}
	}
	if oldestKey != "" {
		delete(c.store, oldestKey)
		c.stats.Evictions++
	}
}
