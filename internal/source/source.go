package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/dgnsrekt/skim/internal/cache"
	"github.com/mitchellh/go-homedir"
)

// Kind tells where a Source came from.
type Kind int

const (
	KindStdin Kind = iota
	KindFile
	KindURL
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindStdin:
		return "stdin"
	case KindFile:
		return "file"
	case KindURL:
		return "url"
	default:
		return "unknown"
	}
}

// Source is resolved, normalised text ready to be loaded into a reader.
type Source struct {
	Kind Kind
	// Location is the absolute path or URL the text came from; empty for
	// stdin.
	Location string
	Markdown bool
	Text     string
	// Cached is set when a URL was served from the document cache.
	Cached bool
}

// Watchable reports whether the source is a local file that can be
// reloaded when it changes.
func (s *Source) Watchable() bool {
	return s.Kind == KindFile
}

// Name is a short label for status lines.
func (s *Source) Name() string {
	switch s.Kind {
	case KindStdin:
		return "stdin"
	case KindFile:
		return filepath.Base(s.Location)
	default:
		return s.Location
	}
}

// ErrNoSource is returned when a directory holds nothing readable.
var ErrNoSource = errors.New("missing text source")

// maxSize bounds how much text is read from any one source.
const maxSize = 32 << 20

// Resolver resolves arguments into sources. The zero value reads stdin from
// os.Stdin, fetches URLs with http.DefaultClient and caches nothing.
type Resolver struct {
	Stdin  io.Reader
	Client *http.Client
	Cache  *cache.Store
	// Refresh skips cached documents and refetches them.
	Refresh bool
	// UserAgent is sent with URL requests.
	UserAgent string
}

// Resolve reads the source named by arg: "-" for stdin, an http(s) URL, a
// directory (the first README or Markdown/text file inside it is used) or
// a file. An empty arg means the current directory.
func (r *Resolver) Resolve(ctx context.Context, arg string) (*Source, error) {
	if arg == "-" {
		return r.fromStdin()
	}

	if u, err := url.Parse(arg); err == nil && u.Scheme != "" && strings.Contains(arg, "://") {
		if u.Scheme != "http" && u.Scheme != "https" {
			return nil, fmt.Errorf("%s is not a supported protocol", u.Scheme)
		}
		u.Fragment = ""
		return r.fromURL(ctx, u.String())
	}

	if arg == "" {
		arg = "."
	}
	path, err := homedir.Expand(arg)
	if err != nil {
		return nil, fmt.Errorf("unable to expand path: %w", err)
	}

	st, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open file: %w", err)
	}
	if st.IsDir() {
		found, err := FindInDir(path)
		if err != nil {
			return nil, err
		}
		path = found
	}

	return ReadFile(path)
}

// ReadFile loads and normalises a local file.
func ReadFile(path string) (*Source, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("unable to get absolute path: %w", err)
	}

	f, err := os.Open(abs)
	if err != nil {
		return nil, fmt.Errorf("unable to open file: %w", err)
	}
	defer f.Close() //nolint:errcheck

	b, err := readAll(f)
	if err != nil {
		return nil, err
	}

	md := IsMarkdownFile(abs)
	log.Debug("Read file", "path", abs, "bytes", len(b), "markdown", md)
	return &Source{
		Kind:     KindFile,
		Location: abs,
		Markdown: md,
		Text:     Prepare(b, md),
	}, nil
}

func (r *Resolver) fromStdin() (*Source, error) {
	in := r.Stdin
	if in == nil {
		in = os.Stdin
	}

	b, err := readAll(in)
	if err != nil {
		return nil, err
	}

	md := LooksLikeMarkdown(b)
	return &Source{Kind: KindStdin, Markdown: md, Text: Prepare(b, md)}, nil
}

func (r *Resolver) fromURL(ctx context.Context, location string) (*Source, error) {
	key := cache.Key(location)

	if r.Cache != nil && !r.Refresh {
		if b, err := r.Cache.Get(key); err == nil {
			log.Debug("Serving document from cache", "url", location)
			md := IsMarkdownFile(location) || LooksLikeMarkdown(b)
			return &Source{
				Kind:     KindURL,
				Location: location,
				Markdown: md,
				Text:     Prepare(b, md),
				Cached:   true,
			}, nil
		}
	}

	b, contentType, err := r.fetch(ctx, location)
	if err != nil {
		return nil, err
	}

	if r.Cache != nil {
		if err := r.Cache.Put(key, b); err != nil {
			log.Warn("Could not cache document", "url", location, "error", err)
		}
	}

	md := strings.Contains(contentType, "markdown") || IsMarkdownFile(location) || LooksLikeMarkdown(b)
	return &Source{Kind: KindURL, Location: location, Markdown: md, Text: Prepare(b, md)}, nil
}

func (r *Resolver) fetch(ctx context.Context, location string) ([]byte, string, error) {
	client := r.Client
	if client == nil {
		client = http.DefaultClient
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return nil, "", fmt.Errorf("unable to create request: %w", err)
	}
	req.Header.Set("Accept", "text/markdown, text/plain;q=0.9, */*;q=0.1")
	if r.UserAgent != "" {
		req.Header.Set("User-Agent", r.UserAgent)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("unable to get url: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("HTTP status %d", resp.StatusCode)
	}

	contentType := strings.ToLower(resp.Header.Get("Content-Type"))
	if strings.HasPrefix(contentType, "text/html") || strings.HasPrefix(contentType, "application/xhtml") {
		return nil, "", fmt.Errorf("%s serves HTML; only plain text and Markdown URLs are supported", location)
	}

	b, err := readAll(resp.Body)
	if err != nil {
		return nil, "", err
	}
	log.Debug("Fetched document", "url", location, "bytes", len(b), "type", contentType)
	return b, contentType, nil
}

func readAll(r io.Reader) ([]byte, error) {
	b, err := io.ReadAll(io.LimitReader(r, maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("unable to read from reader: %w", err)
	}
	if len(b) > maxSize {
		return nil, fmt.Errorf("source is larger than %d MiB", maxSize>>20)
	}
	return b, nil
}
