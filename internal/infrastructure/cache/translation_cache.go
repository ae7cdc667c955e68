// Package cache stores translated text keyed by (text, source, target).
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"

	"sheworks/pkg/logger"
	"sheworks/pkg/safego"
)

// Key identifies one translation.
type Key struct {
	Text   string
	Source string
	Target string
}

// Hash is a fixed-length digest of the key, used by stores that need short keys.
func (k Key) Hash() string {
	h := sha256.New()
	h.Write([]byte(k.Source))
	h.Write([]byte{0})
	h.Write([]byte(k.Target))
	h.Write([]byte{0})
	h.Write([]byte(k.Text))
	return hex.EncodeToString(h.Sum(nil))
}

type Entry struct {
	TranslatedText string    `json:"translatedText"`
	CachedAt       time.Time `json:"cachedAt"`
}

// Store is a translation cache. Entries older than the store's TTL are absent.
type Store interface {
	Get(ctx context.Context, key Key) (Entry, bool, error)
	Set(ctx context.Context, key Key, translatedText string) error
}

// MemoryCache is a bounded TTL cache. When full, the oldest entry is evicted.
type MemoryCache struct {
	entries map[Key]Entry
	mu      sync.RWMutex
	ttl     time.Duration
	maxSize int
	now     func() time.Time
}

func NewMemoryCache(ttl time.Duration, maxSize int) *MemoryCache {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	if maxSize <= 0 {
		maxSize = 10000
	}
	return &MemoryCache{
		entries: make(map[Key]Entry),
		ttl:     ttl,
		maxSize: maxSize,
		now:     time.Now,
	}
}

// WithClock replaces the time source, for tests.
func (c *MemoryCache) WithClock(now func() time.Time) *MemoryCache {
	c.now = now
	return c
}

func (c *MemoryCache) Get(ctx context.Context, key Key) (Entry, bool, error) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return Entry{}, false, nil
	}

	if c.now().Sub(entry.CachedAt) > c.ttl {
		// Only drop the entry we saw; a concurrent Set may have refreshed it.
		c.mu.Lock()
		if cur, ok := c.entries[key]; ok && cur.CachedAt.Equal(entry.CachedAt) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return Entry{}, false, nil
	}

	return entry, true, nil
}

func (c *MemoryCache) Set(ctx context.Context, key Key, translatedText string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; !exists && len(c.entries) >= c.maxSize {
		c.evictOldest()
	}

	c.entries[key] = Entry{
		TranslatedText: translatedText,
		CachedAt:       c.now(),
	}
	return nil
}

// Sweep drops every expired entry and reports how many were removed.
func (c *MemoryCache) Sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	removed := 0
	for k, v := range c.entries {
		if now.Sub(v.CachedAt) > c.ttl {
			delete(c.entries, k)
			removed++
		}
	}
	return removed
}

func (c *MemoryCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// StartSweeper runs Sweep every interval until ctx is done.
func (c *MemoryCache) StartSweeper(ctx context.Context, interval time.Duration) {
	safego.Go("translation-cache-sweep", func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := c.Sweep(); n > 0 {
					logger.Debug("Translation cache swept %d expired entries", n)
				}
			}
		}
	})
}

func (c *MemoryCache) evictOldest() {
	var oldestKey Key
	var oldestTime time.Time
	found := false

	for k, v := range c.entries {
		if !found || v.CachedAt.Before(oldestTime) {
			oldestKey = k
			oldestTime = v.CachedAt
			found = true
		}
	}

	if found {
		delete(c.entries, oldestKey)
	}
}
