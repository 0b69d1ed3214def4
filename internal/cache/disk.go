package cache

import (
	"encoding/gob"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"
)

const (
	indexFile = "documents.index"

	// Documents smaller than this are stored as-is.
	compressThreshold = 1024
)

// DiskCache is the L2 document cache. Documents live one per file under a
// base directory, zstd-compressed when that saves space, and a gob index
// written on Close keeps them across runs.
type DiskCache struct {
	basePath string
	capacity int64
	size     int64

	encoder *zstd.Encoder
	decoder *zstd.Decoder

	index map[string]*diskEntry

	mu    sync.Mutex
	stats Stats
	now   func() time.Time
}

// diskEntry is persisted in the index file, so its fields are exported.
type diskEntry struct {
	Key          string
	File         string // Name relative to basePath
	Size         int64  // Size on disk
	OriginalSize int64
	Timestamp    time.Time
	LastAccess   time.Time
	Hits         int64
	Compressed   bool
}

// NewDiskCache opens (or creates) a disk cache in basePath. A
// compressionLevel of zero disables compression.
func NewDiskCache(basePath string, capacity int64, compressionLevel int) (*DiskCache, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	dc := &DiskCache{
		basePath: basePath,
		capacity: capacity,
		index:    make(map[string]*diskEntry),
		stats:    Stats{Capacity: capacity},
		now:      time.Now,
	}

	if compressionLevel > 0 {
		var err error
		dc.encoder, err = zstd.NewWriter(nil,
			zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(compressionLevel)))
		if err != nil {
			return nil, fmt.Errorf("failed to create zstd encoder: %w", err)
		}
	}

	// Compressed files may outlive a config change that turns compression
	// off, so the decoder is always available.
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd decoder: %w", err)
	}
	dc.decoder = dec

	if err := dc.loadIndex(); err != nil {
		// A damaged index only costs us the cached documents.
		dc.index = make(map[string]*diskEntry)
	}
	dc.dropMissing()

	return dc, nil
}

// Get reads a document from disk. Unreadable entries are dropped and
// reported as misses.
func (dc *DiskCache) Get(key string) ([]byte, Metadata, bool) {
	dc.mu.Lock()
	defer dc.mu.Unlock()

	entry, ok := dc.index[key]
	if !ok {
		dc.stats.Misses++
		return nil, Metadata{}, false
	}

	data, err := os.ReadFile(dc.path(entry))
	if err == nil && entry.Compressed {
		data, err = dc.decoder.DecodeAll(data, nil)
	}
	if err != nil {
		dc.remove(entry)
		dc.stats.Misses++
		return nil, Metadata{}, false
	}

	entry.LastAccess = dc.now()
	entry.Hits++
	dc.stats.Hits++
	dc.stats.LastAccess = entry.LastAccess

	return data, Metadata{
		Key:       entry.Key,
		Size:      entry.OriginalSize,
		Timestamp: entry.Timestamp,
		Hits:      entry.Hits,
		Level:     LevelDisk,
	}, true
}

// Put writes a document to disk, evicting the least recently accessed ones
// to make room.
func (dc *DiskCache) Put(key string, value []byte) error {
	dc.mu.Lock()
	defer dc.mu.Unlock()

	data, compressed := value, false
	if dc.encoder != nil && len(value) > compressThreshold {
		if c := dc.encoder.EncodeAll(value, nil); len(c) < len(value) {
			data, compressed = c, true
		}
	}

	diskSize := int64(len(data))
	if diskSize > dc.capacity {
		return ErrItemTooLarge
	}

	if existing, ok := dc.index[key]; ok {
		dc.remove(existing)
	}
	for dc.size+diskSize > dc.capacity && len(dc.index) > 0 {
		dc.evictOldest()
	}

	now := dc.now()
	entry := &diskEntry{
		Key:          key,
		File:         key + ".zst",
		Size:         diskSize,
		OriginalSize: int64(len(value)),
		Timestamp:    now,
		LastAccess:   now,
		Compressed:   compressed,
	}
	if !compressed {
		entry.File = key + ".txt"
	}

	if err := writeFileAtomic(dc.path(entry), data); err != nil {
		return fmt.Errorf("failed to write cache file: %w", err)
	}

	dc.index[key] = entry
	dc.size += diskSize
	return nil
}

// Delete removes a document. Missing keys are not an error.
func (dc *DiskCache) Delete(key string) error {
	dc.mu.Lock()
	defer dc.mu.Unlock()

	if entry, ok := dc.index[key]; ok {
		dc.remove(entry)
	}
	return nil
}

// Clear removes every document and writes an empty index.
func (dc *DiskCache) Clear() error {
	dc.mu.Lock()
	defer dc.mu.Unlock()

	for _, entry := range dc.index {
		_ = os.Remove(dc.path(entry))
	}
	dc.index = make(map[string]*diskEntry)
	dc.size = 0

	return dc.saveIndex()
}

// Size returns the number of bytes used on disk.
func (dc *DiskCache) Size() int64 {
	dc.mu.Lock()
	defer dc.mu.Unlock()
	return dc.size
}

// Contains checks for a key without touching its access time.
func (dc *DiskCache) Contains(key string) bool {
	dc.mu.Lock()
	defer dc.mu.Unlock()

	_, ok := dc.index[key]
	return ok
}

// Stats returns cache statistics.
func (dc *DiskCache) Stats() Stats {
	dc.mu.Lock()
	defer dc.mu.Unlock()

	stats := dc.stats
	stats.Size = dc.size
	stats.ItemCount = int64(len(dc.index))
	if stats.Hits+stats.Misses > 0 {
		stats.HitRate = float64(stats.Hits) / float64(stats.Hits+stats.Misses)
	}
	return stats
}

// RemoveOlderThan drops documents stored before cutoff.
func (dc *DiskCache) RemoveOlderThan(cutoff time.Time) int {
	dc.mu.Lock()
	defer dc.mu.Unlock()

	removed := 0
	for _, entry := range dc.index {
		if entry.Timestamp.Before(cutoff) {
			dc.remove(entry)
			removed++
		}
	}
	return removed
}

// Close writes the index so the documents survive until the next run.
func (dc *DiskCache) Close() error {
	dc.mu.Lock()
	defer dc.mu.Unlock()

	if dc.encoder != nil {
		_ = dc.encoder.Close()
	}
	dc.decoder.Close()
	return dc.saveIndex()
}

func (dc *DiskCache) path(e *diskEntry) string {
	return filepath.Join(dc.basePath, e.File)
}

// must be called with dc.mu held
func (dc *DiskCache) remove(e *diskEntry) {
	_ = os.Remove(dc.path(e))
	delete(dc.index, e.Key)
	dc.size -= e.Size
}

// must be called with dc.mu held
func (dc *DiskCache) evictOldest() {
	var oldest *diskEntry
	for _, entry := range dc.index {
		if oldest == nil || entry.LastAccess.Before(oldest.LastAccess) {
			oldest = entry
		}
	}
	if oldest != nil {
		dc.remove(oldest)
		dc.stats.Evictions++
	}
}

// dropMissing forgets index entries whose files are gone and recomputes the
// cache size.
func (dc *DiskCache) dropMissing() {
	dc.size = 0
	for key, entry := range dc.index {
		if _, err := os.Stat(dc.path(entry)); err != nil {
			delete(dc.index, key)
			continue
		}
		dc.size += entry.Size
	}
}

func (dc *DiskCache) loadIndex() error {
	f, err := os.Open(filepath.Join(dc.basePath, indexFile))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	defer f.Close() //nolint:errcheck

	return gob.NewDecoder(f).Decode(&dc.index)
}

func (dc *DiskCache) saveIndex() error {
	path := filepath.Join(dc.basePath, indexFile)
	tmp := path + ".tmp"

	f, err := os.Create(tmp)
	if err != nil {
		return err
	}

	err = gob.NewEncoder(f).Encode(dc.index)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(tmp)
		return err
	}

	return os.Rename(tmp, path)
}

// writeFileAtomic writes to a temp file first, then renames it into place.
func writeFileAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}
