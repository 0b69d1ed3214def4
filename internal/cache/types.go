package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"time"
)

// Common errors for cache operations
var (
	// ErrItemTooLarge is returned when a document exceeds the cache capacity
	ErrItemTooLarge = errors.New("item too large for cache")

	// ErrCacheMiss is returned when a document is not cached or has expired
	ErrCacheMiss = errors.New("cache miss")
)

// Level represents the cache tier.
type Level int

const (
	// LevelMemory is the in-process LRU.
	LevelMemory Level = iota

	// LevelDisk is the persistent, compressed store.
	LevelDisk
)

// String returns the string representation of the cache level.
func (l Level) String() string {
	switch l {
	case LevelMemory:
		return "L1-Memory"
	case LevelDisk:
		return "L2-Disk"
	default:
		return "Unknown"
	}
}

// Stats holds cache performance counters.
type Stats struct {
	Capacity  int64 // Maximum capacity in bytes
	Size      int64 // Current size in bytes
	ItemCount int64

	Hits      int64
	Misses    int64
	Evictions int64
	HitRate   float64 // hits / (hits + misses)

	LastAccess time.Time
}

// Metadata describes a cached document.
type Metadata struct {
	Key       string
	Size      int64 // Uncompressed size in bytes
	Timestamp time.Time
	Hits      int64
	Level     Level
}

// Expired reports whether the entry is older than ttl. A zero ttl never
// expires.
func (m Metadata) Expired(ttl time.Duration, now time.Time) bool {
	return ttl > 0 && now.Sub(m.Timestamp) > ttl
}

// Config holds configuration for a Store.
type Config struct {
	// Memory cache (L1)
	MemoryCapacity int64 // Bytes

	// Disk cache (L2), disabled when DiskPath is empty
	DiskCapacity     int64
	DiskPath         string
	CompressionLevel int // Zstd level (1-22); 0 stores documents uncompressed

	// Documents older than this are refetched
	TTL time.Duration
}

// DefaultConfig returns the default cache configuration. DiskPath is left
// for the caller to fill in.
func DefaultConfig() Config {
	return Config{
		MemoryCapacity:   16 * 1024 * 1024,  // 16MB
		DiskCapacity:     128 * 1024 * 1024, // 128MB
		CompressionLevel: 3,
		TTL:              24 * time.Hour,
	}
}

// Cache is implemented by both cache levels.
type Cache interface {
	Get(key string) ([]byte, Metadata, bool)
	Put(key string, value []byte) error
	Delete(key string) error
	Clear() error

	Size() int64
	Contains(key string) bool
	Stats() Stats
}

// Key derives a cache key from a document location. Scheme and host are
// case-insensitive, and a trailing fragment never changes the document.
func Key(location string) string {
	location = strings.TrimSpace(location)
	if i := strings.IndexByte(location, '#'); i >= 0 {
		location = location[:i]
	}
	if i := strings.Index(location, "://"); i >= 0 {
		rest := location[i+3:]
		host, path, _ := strings.Cut(rest, "/")
		location = strings.ToLower(location[:i+3]+host) + "/" + path
	}

	hash := sha256.Sum256([]byte(location))
	return hex.EncodeToString(hash[:16])
}
