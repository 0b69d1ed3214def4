package ui

import (
	"context"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
	"golang.org/x/time/rate"
)

// reloadInterval is the minimum time between two reloads triggered by file
// changes. Editors often write a file several times when saving.
const reloadInterval = 500 * time.Millisecond

type fileChangedMsg struct{}

// fileWatcher reports writes to a single file.
type fileWatcher struct {
	path    string
	watcher *fsnotify.Watcher
	limiter *rate.Limiter
	ctx     context.Context
	cancel  context.CancelFunc
}

func newFileWatcher(path string) (*fileWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	// Watch the directory so editors that replace the file on save are
	// still noticed.
	dir := filepath.Dir(path)
	if err := w.Add(dir); err != nil {
		_ = w.Close()
		return nil, err
	}
	log.Debug("fsnotify watching dir", "dir", dir)

	ctx, cancel := context.WithCancel(context.Background())
	return &fileWatcher{
		path:    path,
		watcher: w,
		limiter: rate.NewLimiter(rate.Every(reloadInterval), 1),
		ctx:     ctx,
		cancel:  cancel,
	}, nil
}

// wait blocks until the file changes. Bursts of events collapse into one
// message per reloadInterval.
func (fw *fileWatcher) wait() tea.Msg {
	for {
		select {
		case <-fw.ctx.Done():
			return nil

		case event, ok := <-fw.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != fw.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			log.Debug("fsnotify event", "file", event.Name, "event", event.Op)

			if err := fw.limiter.Wait(fw.ctx); err != nil {
				return nil
			}
			fw.discardPending()
			return fileChangedMsg{}

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return nil
			}
			log.Debug("fsnotify error", "file", fw.path, "error", err)
		}
	}
}

// discardPending drops events that piled up while waiting on the limiter.
func (fw *fileWatcher) discardPending() {
	for {
		select {
		case <-fw.watcher.Events:
		default:
			return
		}
	}
}

func (fw *fileWatcher) close() {
	fw.cancel()
	if err := fw.watcher.Close(); err != nil {
		log.Debug("fsnotify close failed", "error", err)
	}
}
