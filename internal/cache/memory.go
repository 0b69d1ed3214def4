package cache

import (
	"container/list"
	"sync"
	"time"
)

// MemoryCache is the L1 document cache with LRU eviction and a size limit
// in bytes.
type MemoryCache struct {
	capacity int64
	size     int64

	items    map[string]*list.Element
	eviction *list.List

	mu    sync.Mutex
	stats Stats
	now   func() time.Time
}

type memoryEntry struct {
	key       string
	value     []byte
	timestamp time.Time
	hits      int64
}

func (e *memoryEntry) metadata() Metadata {
	return Metadata{
		Key:       e.key,
		Size:      int64(len(e.value)),
		Timestamp: e.timestamp,
		Hits:      e.hits,
		Level:     LevelMemory,
	}
}

// NewMemoryCache creates a memory cache holding at most capacity bytes.
func NewMemoryCache(capacity int64) *MemoryCache {
	return &MemoryCache{
		capacity: capacity,
		items:    make(map[string]*list.Element),
		eviction: list.New(),
		stats:    Stats{Capacity: capacity},
		now:      time.Now,
	}
}

// Get returns a document and marks it most recently used.
func (c *MemoryCache) Get(key string) ([]byte, Metadata, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.items[key]
	if !ok {
		c.stats.Misses++
		return nil, Metadata{}, false
	}

	c.eviction.MoveToFront(elem)
	entry := elem.Value.(*memoryEntry)
	entry.hits++

	c.stats.Hits++
	c.stats.LastAccess = c.now()
	return entry.value, entry.metadata(), true
}

// Put stores a document, evicting the least recently used ones to make room.
func (c *MemoryCache) Put(key string, value []byte) error {
	return c.put(key, value, c.now())
}

func (c *MemoryCache) put(key string, value []byte, stamp time.Time) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	valueSize := int64(len(value))
	if valueSize > c.capacity {
		return ErrItemTooLarge
	}

	if elem, ok := c.items[key]; ok {
		c.removeElement(elem)
	}

	for c.size+valueSize > c.capacity && c.eviction.Len() > 0 {
		c.evictOldest()
	}

	entry := &memoryEntry{key: key, value: value, timestamp: stamp}
	c.items[key] = c.eviction.PushFront(entry)
	c.size += valueSize
	return nil
}

// Delete removes a document. Missing keys are not an error.
func (c *MemoryCache) Delete(key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[key]; ok {
		c.removeElement(elem)
	}
	return nil
}

// Clear removes every document.
func (c *MemoryCache) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[string]*list.Element)
	c.eviction.Init()
	c.size = 0
	return nil
}

// Size returns the number of bytes cached.
func (c *MemoryCache) Size() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.size
}

// Contains checks for a key without touching the LRU order.
func (c *MemoryCache) Contains(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, ok := c.items[key]
	return ok
}

// Stats returns cache statistics.
func (c *MemoryCache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	stats := c.stats
	stats.Size = c.size
	stats.ItemCount = int64(len(c.items))
	if stats.Hits+stats.Misses > 0 {
		stats.HitRate = float64(stats.Hits) / float64(stats.Hits+stats.Misses)
	}
	return stats
}

// Prune removes documents stored more than maxAge ago and returns how many
// were dropped.
func (c *MemoryCache) Prune(maxAge time.Duration) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	pruned := 0
	for elem := c.eviction.Back(); elem != nil; {
		prev := elem.Prev()
		if elem.Value.(*memoryEntry).metadata().Expired(maxAge, now) {
			c.removeElement(elem)
			pruned++
		}
		elem = prev
	}
	return pruned
}

// must be called with c.mu held
func (c *MemoryCache) evictOldest() {
	if elem := c.eviction.Back(); elem != nil {
		c.removeElement(elem)
		c.stats.Evictions++
	}
}

// must be called with c.mu held
func (c *MemoryCache) removeElement(elem *list.Element) {
	c.eviction.Remove(elem)
	entry := elem.Value.(*memoryEntry)
	delete(c.items, entry.key)
	c.size -= int64(len(entry.value))
}
