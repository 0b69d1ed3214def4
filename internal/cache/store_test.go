package cache

import (
	"errors"
	"testing"
	"time"
)

func testStore(t *testing.T, cfg Config) (*Store, *time.Time) {
	t.Helper()

	s, err := Open(cfg)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })

	now := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	s.now = clock
	s.memory.now = clock
	if s.disk != nil {
		s.disk.now = clock
	}
	return s, &now
}

func TestStore_MemoryOnly(t *testing.T) {
	s, _ := testStore(t, Config{MemoryCapacity: 1024})

	if _, err := s.Get("doc"); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("expected ErrCacheMiss, got %v", err)
	}

	if err := s.Put("doc", []byte("hello")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, err := s.Get("doc")
	if err != nil || string(got) != "hello" {
		t.Errorf("Get = %q, %v", got, err)
	}

	if err := s.Put("big", make([]byte, 2048)); !errors.Is(err, ErrItemTooLarge) {
		t.Errorf("expected ErrItemTooLarge without a disk level, got %v", err)
	}

	stats := s.Stats()
	if stats.MemoryHits != 1 || stats.Misses != 1 {
		t.Errorf("unexpected stats: %+v", stats)
	}
}

func TestStore_PromotesDiskHits(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DiskPath = t.TempDir()
	s, _ := testStore(t, cfg)

	_ = s.Put("doc", []byte("cached text"))
	_ = s.memory.Delete("doc")

	got, err := s.Get("doc")
	if err != nil || string(got) != "cached text" {
		t.Fatalf("Get = %q, %v", got, err)
	}
	if !s.memory.Contains("doc") {
		t.Error("disk hit should be promoted to memory")
	}

	_, _ = s.Get("doc")
	stats := s.Stats()
	if stats.DiskHits != 1 || stats.MemoryHits != 1 {
		t.Errorf("unexpected stats: %+v", stats)
	}
}

func TestStore_LargeDocumentsGoToDisk(t *testing.T) {
	cfg := Config{MemoryCapacity: 8, DiskCapacity: 1 << 20, DiskPath: t.TempDir()}
	s, _ := testStore(t, cfg)

	if err := s.Put("doc", []byte("longer than eight bytes")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if s.memory.Contains("doc") || !s.disk.Contains("doc") {
		t.Error("document should only be on disk")
	}
}

func TestStore_TTL(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DiskPath = t.TempDir()
	cfg.TTL = time.Hour
	s, now := testStore(t, cfg)

	_ = s.Put("doc", []byte("fresh"))
	*now = now.Add(30 * time.Minute)
	if _, err := s.Get("doc"); err != nil {
		t.Fatalf("document should still be fresh: %v", err)
	}

	*now = now.Add(time.Hour)
	if _, err := s.Get("doc"); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("expected an expired miss, got %v", err)
	}
	if s.memory.Contains("doc") || s.disk.Contains("doc") {
		t.Error("expired document should be removed from both levels")
	}
	if s.Stats().Expired != 1 {
		t.Errorf("Expired = %d, want 1", s.Stats().Expired)
	}
}

func TestStore_PromotionKeepsTimestamp(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DiskPath = t.TempDir()
	cfg.TTL = time.Hour
	s, now := testStore(t, cfg)

	_ = s.Put("doc", []byte("text"))
	_ = s.memory.Delete("doc")

	*now = now.Add(50 * time.Minute)
	if _, err := s.Get("doc"); err != nil {
		t.Fatalf("Get: %v", err)
	}

	*now = now.Add(20 * time.Minute)
	if _, err := s.Get("doc"); !errors.Is(err, ErrCacheMiss) {
		t.Error("promotion must not reset the document's age")
	}
}

func TestStore_OpenPrunesExpired(t *testing.T) {
	dir := t.TempDir()

	dc, err := NewDiskCache(dir, 1<<20, 3)
	if err != nil {
		t.Fatal(err)
	}
	dc.now = func() time.Time { return time.Now().Add(-48 * time.Hour) }
	_ = dc.Put("stale", []byte("old"))
	if err := dc.Close(); err != nil {
		t.Fatal(err)
	}

	cfg := DefaultConfig()
	cfg.DiskPath = dir
	s, err := Open(cfg)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close() //nolint:errcheck

	if s.disk.Contains("stale") {
		t.Error("Open should prune documents older than the TTL")
	}
}

func TestStore_DeleteAndClear(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DiskPath = t.TempDir()
	s, _ := testStore(t, cfg)

	_ = s.Put("a", []byte("1"))
	_ = s.Put("b", []byte("2"))

	if err := s.Delete("a"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Get("a"); !errors.Is(err, ErrCacheMiss) {
		t.Error("deleted document still cached")
	}

	if err := s.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if _, err := s.Get("b"); !errors.Is(err, ErrCacheMiss) {
		t.Error("cleared document still cached")
	}
}
