// Package cache provides a small in-memory TTL cache used by the store layer.
package cache

import (
	"container/list"
	"sync"
	"time"
)

// Config holds the configuration for a Cache.
type Config struct {
	// DefaultTTL is applied to entries set without an explicit TTL.
	DefaultTTL time.Duration
	// CleanupInterval is how often the janitor sweeps expired entries.
	CleanupInterval time.Duration
	// MaxItems bounds the cache; the least recently used entry is evicted
	// when the bound is exceeded. Zero means unbounded.
	MaxItems int
	// OnEviction, if set, is called after an entry is evicted or expired.
	OnEviction func(key string, value any)
}

type item struct {
	key       string
	value     any
	expiresAt time.Time
	element   *list.Element
}

// Cache is a thread-safe TTL cache with LRU eviction.
type Cache struct {
	mu     sync.Mutex
	config Config
	items  map[string]*item
	order  *list.List // front = most recently used

	done chan struct{}
	once sync.Once
}

// New creates a new Cache and starts its cleanup janitor.
func New(config Config) *Cache {
	if config.DefaultTTL <= 0 {
		config.DefaultTTL = 10 * time.Minute
	}
	c := &Cache{
		config: config,
		items:  make(map[string]*item),
		order:  list.New(),
		done:   make(chan struct{}),
	}
	if config.CleanupInterval > 0 {
		go c.janitor(config.CleanupInterval)
	}
	return c
}

// Set stores a value under key with the default TTL.
func (c *Cache) Set(key string, value any) {
	c.SetWithTTL(key, value, c.config.DefaultTTL)
}

// SetWithTTL stores a value under key with an explicit TTL.
func (c *Cache) SetWithTTL(key string, value any, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if existing, ok := c.items[key]; ok {
		existing.value = value
		existing.expiresAt = time.Now().Add(ttl)
		c.order.MoveToFront(existing.element)
		return
	}

	it := &item{
		key:       key,
		value:     value,
		expiresAt: time.Now().Add(ttl),
	}
	it.element = c.order.PushFront(it)
	c.items[key] = it

	if c.config.MaxItems > 0 && len(c.items) > c.config.MaxItems {
		c.evictOldestLocked()
	}
}

// Get returns the value stored under key, if present and not expired.
func (c *Cache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	it, ok := c.items[key]
	if !ok {
		return nil, false
	}
	if time.Now().After(it.expiresAt) {
		c.removeLocked(it, true)
		return nil, false
	}
	c.order.MoveToFront(it.element)
	return it.value, true
}

// Delete removes the value stored under key.
func (c *Cache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if it, ok := c.items[key]; ok {
		c.removeLocked(it, false)
	}
}

// Len returns the number of entries currently cached, including any
// expired entries the janitor has not swept yet.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Close stops the cleanup janitor.
func (c *Cache) Close() {
	c.once.Do(func() {
		close(c.done)
	})
}

func (c *Cache) janitor(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			c.sweep()
		}
	}
}

func (c *Cache) sweep() {
	now := time.Now()
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, it := range c.items {
		if now.After(it.expiresAt) {
			c.removeLocked(it, true)
		}
	}
}

func (c *Cache) evictOldestLocked() {
	oldest := c.order.Back()
	if oldest == nil {
		return
	}
	c.removeLocked(oldest.Value.(*item), true)
}

func (c *Cache) removeLocked(it *item, evicted bool) {
	c.order.Remove(it.element)
	delete(c.items, it.key)
	if evicted && c.config.OnEviction != nil {
		c.config.OnEviction(it.key, it.value)
	}
}
