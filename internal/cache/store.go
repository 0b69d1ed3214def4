package cache

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// Store coordinates both cache levels. Lookups check memory first, then
// disk, promoting disk hits into memory. Expired documents are treated as
// misses and removed.
type Store struct {
	memory *MemoryCache
	disk   *DiskCache // nil when disk caching is disabled
	ttl    time.Duration
	now    func() time.Time

	mu    sync.Mutex
	stats struct {
		MemoryHits int64
		DiskHits   int64
		Misses     int64
		Expired    int64
	}
}

// Open creates a Store from cfg. Stale disk entries are pruned on open.
func Open(cfg Config) (*Store, error) {
	s := &Store{
		memory: NewMemoryCache(cfg.MemoryCapacity),
		ttl:    cfg.TTL,
		now:    time.Now,
	}

	if cfg.DiskPath != "" {
		disk, err := NewDiskCache(cfg.DiskPath, cfg.DiskCapacity, cfg.CompressionLevel)
		if err != nil {
			return nil, fmt.Errorf("failed to create disk cache: %w", err)
		}
		s.disk = disk

		if cfg.TTL > 0 {
			if n := disk.RemoveOlderThan(s.now().Add(-cfg.TTL)); n > 0 {
				log.Debug("Pruned expired documents", "count", n, "path", cfg.DiskPath)
			}
		}
	}

	return s, nil
}

// Get returns a cached document, or ErrCacheMiss.
func (s *Store) Get(key string) ([]byte, error) {
	now := s.now()

	if data, meta, ok := s.memory.Get(key); ok {
		if !meta.Expired(s.ttl, now) {
			s.count(func() { s.stats.MemoryHits++ })
			return data, nil
		}
		s.expire(key)
		return nil, ErrCacheMiss
	}

	if s.disk != nil {
		if data, meta, ok := s.disk.Get(key); ok {
			if !meta.Expired(s.ttl, now) {
				s.count(func() { s.stats.DiskHits++ })
				if err := s.memory.put(key, data, meta.Timestamp); err != nil && !errors.Is(err, ErrItemTooLarge) {
					log.Debug("Could not promote document", "key", key, "error", err)
				}
				return data, nil
			}
			s.expire(key)
			return nil, ErrCacheMiss
		}
	}

	s.count(func() { s.stats.Misses++ })
	return nil, ErrCacheMiss
}

// Put stores a document in every level. Documents too large for one level
// are still stored in the other.
func (s *Store) Put(key string, value []byte) error {
	memErr := s.memory.Put(key, value)
	if memErr != nil && !errors.Is(memErr, ErrItemTooLarge) {
		return fmt.Errorf("L1 cache error: %w", memErr)
	}

	if s.disk == nil {
		return memErr
	}

	diskErr := s.disk.Put(key, value)
	switch {
	case diskErr == nil:
		return nil
	case errors.Is(diskErr, ErrItemTooLarge):
		if memErr != nil {
			return ErrItemTooLarge
		}
		return nil
	default:
		return fmt.Errorf("L2 cache error: %w", diskErr)
	}
}

// Delete removes a document from every level.
func (s *Store) Delete(key string) error {
	_ = s.memory.Delete(key)
	if s.disk != nil {
		return s.disk.Delete(key)
	}
	return nil
}

// Clear empties every level.
func (s *Store) Clear() error {
	_ = s.memory.Clear()
	if s.disk != nil {
		if err := s.disk.Clear(); err != nil {
			return fmt.Errorf("L2 clear: %w", err)
		}
	}
	return nil
}

// StoreStats aggregates the statistics of both levels.
type StoreStats struct {
	MemoryHits int64
	DiskHits   int64
	Misses     int64
	Expired    int64
	Memory     Stats
	Disk       Stats
}

// Stats returns aggregated statistics.
func (s *Store) Stats() StoreStats {
	s.mu.Lock()
	st := StoreStats{
		MemoryHits: s.stats.MemoryHits,
		DiskHits:   s.stats.DiskHits,
		Misses:     s.stats.Misses,
		Expired:    s.stats.Expired,
	}
	s.mu.Unlock()

	st.Memory = s.memory.Stats()
	if s.disk != nil {
		st.Disk = s.disk.Stats()
	}
	return st
}

// Close persists the disk index.
func (s *Store) Close() error {
	if s.disk == nil {
		return nil
	}
	return s.disk.Close()
}

func (s *Store) expire(key string) {
	_ = s.Delete(key)
	s.count(func() {
		s.stats.Expired++
		s.stats.Misses++
	})
	log.Debug("Cached document expired", "key", key)
}

func (s *Store) count(f func()) {
	s.mu.Lock()
	f()
	s.mu.Unlock()
}
