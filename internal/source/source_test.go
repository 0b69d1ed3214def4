package source

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/dgnsrekt/skim/internal/cache"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestResolveStdin(t *testing.T) {
	r := &Resolver{Stdin: strings.NewReader("  Hello,\r\nworld!  ")}

	src, err := r.Resolve(context.Background(), "-")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if src.Kind != KindStdin || src.Name() != "stdin" || src.Watchable() {
		t.Errorf("unexpected source: %+v", src)
	}
	if src.Text != "Hello,\nworld!" {
		t.Errorf("Text = %q", src.Text)
	}
}

func TestResolveFile(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name     string
		file     string
		content  string
		want     string
		markdown bool
	}{
		{
			name:    "plain text",
			file:    "notes.txt",
			content: "Just *plain* text.",
			want:    "Just *plain* text.",
		},
		{
			name:     "markdown",
			file:     "post.md",
			content:  "---\ntitle: Post\n---\n# Hello\n\nSome **bold** words.\n",
			want:     "Hello\n\nSome bold words.",
			markdown: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.file)
			writeFile(t, path, tt.content)

			src, err := (&Resolver{}).Resolve(context.Background(), path)
			if err != nil {
				t.Fatalf("Resolve: %v", err)
			}
			if src.Kind != KindFile || !src.Watchable() || src.Name() != tt.file {
				t.Errorf("unexpected source: %+v", src)
			}
			if src.Markdown != tt.markdown {
				t.Errorf("Markdown = %v, want %v", src.Markdown, tt.markdown)
			}
			if src.Text != tt.want {
				t.Errorf("Text = %q, want %q", src.Text, tt.want)
			}
			if !filepath.IsAbs(src.Location) {
				t.Errorf("Location %q is not absolute", src.Location)
			}
		})
	}
}

func TestResolveMissingFile(t *testing.T) {
	_, err := (&Resolver{}).Resolve(context.Background(), filepath.Join(t.TempDir(), "nope.txt"))
	if err == nil || !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected a not-exist error, got %v", err)
	}
}

func TestResolveDirectory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.md"), "First file.")
	writeFile(t, filepath.Join(dir, "docs", "README.md"), "Read me first.")
	writeFile(t, filepath.Join(dir, "main.go"), "package main")

	src, err := (&Resolver{}).Resolve(context.Background(), dir)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if src.Text != "Read me first." {
		t.Errorf("Text = %q, want the README", src.Text)
	}
}

func TestFindInDir(t *testing.T) {
	t.Run("shallowest wins", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, "deep", "a.md"), "x")
		writeFile(t, filepath.Join(dir, "z.txt"), "x")

		got, err := FindInDir(dir)
		if err != nil {
			t.Fatalf("FindInDir: %v", err)
		}
		if filepath.Base(got) != "z.txt" {
			t.Errorf("FindInDir = %s, want z.txt", got)
		}
	})

	t.Run("nothing readable", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, "image.png"), "x")

		if _, err := FindInDir(dir); !errors.Is(err, ErrNoSource) {
			t.Errorf("expected ErrNoSource, got %v", err)
		}
	})
}

func TestResolveURL(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		switch r.URL.Path {
		case "/doc.md":
			w.Header().Set("Content-Type", "text/plain")
			_, _ = w.Write([]byte("# Title\n\nBody text."))
		case "/plain":
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
			_, _ = w.Write([]byte("Plain words here."))
		case "/page":
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte("<html></html>"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	store, err := cache.Open(cache.Config{MemoryCapacity: 1 << 20})
	if err != nil {
		t.Fatal(err)
	}
	r := &Resolver{Client: srv.Client(), Cache: store}
	ctx := context.Background()

	src, err := r.Resolve(ctx, srv.URL+"/doc.md")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if src.Kind != KindURL || !src.Markdown || src.Cached || src.Watchable() {
		t.Errorf("unexpected source: %+v", src)
	}
	if src.Text != "Title\n\nBody text." {
		t.Errorf("Text = %q", src.Text)
	}

	again, err := r.Resolve(ctx, srv.URL+"/doc.md#section")
	if err != nil {
		t.Fatalf("second Resolve: %v", err)
	}
	if !again.Cached || again.Text != src.Text {
		t.Errorf("second fetch should come from the cache: %+v", again)
	}
	if got := hits.Load(); got != 1 {
		t.Errorf("server hit %d times, want 1", got)
	}

	r.Refresh = true
	if _, err := r.Resolve(ctx, srv.URL+"/doc.md"); err != nil {
		t.Fatal(err)
	}
	if got := hits.Load(); got != 2 {
		t.Errorf("Refresh should bypass the cache, hits = %d", got)
	}

	plain, err := r.Resolve(ctx, srv.URL+"/plain")
	if err != nil || plain.Markdown || plain.Text != "Plain words here." {
		t.Errorf("plain = %+v, %v", plain, err)
	}

	if _, err := r.Resolve(ctx, srv.URL+"/page"); err == nil || !strings.Contains(err.Error(), "HTML") {
		t.Errorf("expected an HTML error, got %v", err)
	}
	if _, err := r.Resolve(ctx, srv.URL+"/missing"); err == nil || !strings.Contains(err.Error(), "404") {
		t.Errorf("expected an HTTP status error, got %v", err)
	}
}

func TestResolveUnsupportedScheme(t *testing.T) {
	_, err := (&Resolver{}).Resolve(context.Background(), "ftp://example.com/file.txt")
	if err == nil || !strings.Contains(err.Error(), "not a supported protocol") {
		t.Errorf("expected a protocol error, got %v", err)
	}
}

func TestResolveCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("late"))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := (&Resolver{Client: srv.Client()}).Resolve(ctx, srv.URL); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestKindString(t *testing.T) {
	for k, want := range map[Kind]string{KindStdin: "stdin", KindFile: "file", KindURL: "url", Kind(7): "unknown"} {
		if got := k.String(); got != want {
			t.Errorf("Kind(%d).String() = %q, want %q", int(k), got, want)
		}
	}
}
