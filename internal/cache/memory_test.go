package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestMemoryCache_BasicOperations(t *testing.T) {
	cache := NewMemoryCache(1024)

	key := Key("https://example.com/a.md")
	value := []byte("# heading\n\nsome text")

	if err := cache.Put(key, value); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	got, meta, ok := cache.Get(key)
	if !ok {
		t.Fatal("Get failed: key not found")
	}
	if string(got) != string(value) {
		t.Errorf("Retrieved value mismatch: got %s, want %s", got, value)
	}
	if meta.Level != LevelMemory || meta.Hits != 1 || meta.Size != int64(len(value)) {
		t.Errorf("unexpected metadata: %+v", meta)
	}

	if !cache.Contains(key) {
		t.Error("Contains returned false for existing key")
	}
	if cache.Size() != int64(len(value)) {
		t.Errorf("Size mismatch: got %d, want %d", cache.Size(), len(value))
	}

	if err := cache.Delete(key); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if cache.Contains(key) || cache.Size() != 0 {
		t.Error("entry still present after delete")
	}
	if err := cache.Delete(key); err != nil {
		t.Errorf("deleting a missing key should not fail: %v", err)
	}
}

func TestMemoryCache_LRUEviction(t *testing.T) {
	cache := NewMemoryCache(100)

	for i := 0; i < 5; i++ {
		if err := cache.Put(fmt.Sprintf("key-%d", i), make([]byte, 20)); err != nil {
			t.Fatalf("Put failed: %v", err)
		}
	}

	// Touch key-0 and key-1 so they survive.
	cache.Get("key-0")
	cache.Get("key-1")

	if err := cache.Put("key-new", make([]byte, 30)); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	for _, key := range []string{"key-0", "key-1", "key-new"} {
		if !cache.Contains(key) {
			t.Errorf("%s should have survived eviction", key)
		}
	}
	if cache.Contains("key-2") || cache.Contains("key-3") {
		t.Error("least recently used entries should have been evicted")
	}
	if cache.Size() > 100 {
		t.Errorf("cache exceeds capacity: %d", cache.Size())
	}
	if got := cache.Stats().Evictions; got != 2 {
		t.Errorf("Evictions = %d, want 2", got)
	}
}

func TestMemoryCache_ItemTooLarge(t *testing.T) {
	cache := NewMemoryCache(10)

	if err := cache.Put("big", make([]byte, 11)); err != ErrItemTooLarge {
		t.Errorf("expected ErrItemTooLarge, got %v", err)
	}
}

func TestMemoryCache_UpdateExisting(t *testing.T) {
	cache := NewMemoryCache(100)

	_ = cache.Put("doc", []byte("short"))
	_ = cache.Put("doc", []byte("a bit longer"))

	got, _, _ := cache.Get("doc")
	if string(got) != "a bit longer" {
		t.Errorf("got %q after update", got)
	}
	if cache.Size() != int64(len("a bit longer")) {
		t.Errorf("Size = %d after update", cache.Size())
	}
}

func TestMemoryCache_Stats(t *testing.T) {
	cache := NewMemoryCache(100)
	_ = cache.Put("a", []byte("x"))

	cache.Get("a")
	cache.Get("a")
	cache.Get("missing")

	stats := cache.Stats()
	if stats.Hits != 2 || stats.Misses != 1 || stats.ItemCount != 1 {
		t.Errorf("unexpected stats: %+v", stats)
	}
	if stats.HitRate < 0.66 || stats.HitRate > 0.67 {
		t.Errorf("HitRate = %v", stats.HitRate)
	}
}

func TestMemoryCache_Prune(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	cache := NewMemoryCache(100)
	cache.now = func() time.Time { return now }

	_ = cache.Put("old", []byte("x"))
	now = now.Add(2 * time.Hour)
	_ = cache.Put("new", []byte("y"))

	if n := cache.Prune(time.Hour); n != 1 {
		t.Errorf("Prune removed %d, want 1", n)
	}
	if cache.Contains("old") || !cache.Contains("new") {
		t.Error("Prune removed the wrong entry")
	}
}

func TestMemoryCache_ConcurrentAccess(t *testing.T) {
	cache := NewMemoryCache(1024)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				key := fmt.Sprintf("key-%d-%d", id, j%5)
				_ = cache.Put(key, []byte("value"))
				cache.Get(key)
				if j%7 == 0 {
					_ = cache.Delete(key)
				}
			}
		}(i)
	}
	wg.Wait()

	if cache.Size() > 1024 {
		t.Errorf("cache exceeds capacity: %d", cache.Size())
	}
}

func TestKey(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		same bool
	}{
		{"identical", "https://example.com/a", "https://example.com/a", true},
		{"host case", "https://Example.COM/a", "https://example.com/a", true},
		{"fragment", "https://example.com/a#intro", "https://example.com/a", true},
		{"trailing slash on host", "https://example.com", "https://example.com/", true},
		{"path case matters", "https://example.com/A", "https://example.com/a", false},
		{"different docs", "https://example.com/a", "https://example.com/b", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Key(tt.a) == Key(tt.b); got != tt.same {
				t.Errorf("Key(%q) == Key(%q) is %v, want %v", tt.a, tt.b, got, tt.same)
			}
		})
	}

	if len(Key("x")) != 32 {
		t.Errorf("key length = %d, want 32 hex chars", len(Key("x")))
	}
}

func TestLevelString(t *testing.T) {
	if LevelMemory.String() != "L1-Memory" || LevelDisk.String() != "L2-Disk" || Level(9).String() != "Unknown" {
		t.Error("unexpected level names")
	}
}
