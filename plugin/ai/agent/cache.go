package agent

import (
	"container/list"
	"sync"
	"time"
)

// LRUCache is a thread-safe LRU cache with TTL support, used to short-cut
// repeated identical commands to the same agent.
type LRUCache struct {
	maxEntries int
	ttl        time.Duration
	entries    map[string]*list.Element
	lruList    *list.List // front = most recently used
	mutex      sync.Mutex
}

type cacheEntry struct {
	key        string
	value      string
	expiration time.Time
}

// NewLRUCache creates a new LRUCache. A ttl of 0 disables expiration.
func NewLRUCache(maxEntries int, ttl time.Duration) *LRUCache {
	if maxEntries <= 0 {
		maxEntries = 100
	}

	return &LRUCache{
		maxEntries: maxEntries,
		ttl:        ttl,
		entries:    make(map[string]*list.Element),
		lruList:    list.New(),
	}
}

// Get retrieves a value from the cache.
func (c *LRUCache) Get(key string) (string, bool) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	elem, exists := c.entries[key]
	if !exists {
		return "", false
	}

	entry := elem.Value.(*cacheEntry)
	if !entry.expiration.IsZero() && time.Now().After(entry.expiration) {
		c.removeElement(elem)
		return "", false
	}

	c.lruList.MoveToFront(elem)
	return entry.value, true
}

// Set stores a value in the cache, evicting the least recently used entry
// when full.
func (c *LRUCache) Set(key string, value string) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if elem, exists := c.entries[key]; exists {
		entry := elem.Value.(*cacheEntry)
		entry.value = value
		entry.expiration = c.calculateExpiration()
		c.lruList.MoveToFront(elem)
		return
	}

	elem := c.lruList.PushFront(&cacheEntry{
		key:        key,
		value:      value,
		expiration: c.calculateExpiration(),
	})
	c.entries[key] = elem

	if c.lruList.Len() > c.maxEntries {
		if back := c.lruList.Back(); back != nil {
			c.removeElement(back)
		}
	}
}

// Size returns the current number of entries in the cache.
func (c *LRUCache) Size() int {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.lruList.Len()
}

func (c *LRUCache) calculateExpiration() time.Time {
	if c.ttl <= 0 {
		return time.Time{}
	}
	return time.Now().Add(c.ttl)
}

func (c *LRUCache) removeElement(elem *list.Element) {
	entry := elem.Value.(*cacheEntry)
	delete(c.entries, entry.key)
	c.lruList.Remove(elem)
}
