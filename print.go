package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/dgnsrekt/skim/rsvp"
)

var errNoText = errors.New("no text to read")

// runPrint plays text at the reader's pace, writing one word per line with
// its fixation character in brackets. It returns once the last word has
// been shown or ctx is cancelled.
func runPrint(ctx context.Context, cfg rsvp.Config, text string, w io.Writer, opts ...rsvp.Option) error {
	e := rsvp.New(append([]rsvp.Option{rsvp.WithConfig(cfg)}, opts...)...)
	defer e.Destroy()

	var (
		mu       sync.Mutex
		writeErr error
		done     = make(chan struct{})
		once     sync.Once
	)
	finish := func() { once.Do(func() { close(done) }) }

	e.Subscribe(func(ev rsvp.Event) {
		switch ev.Type {
		case rsvp.EventWord:
			if ev.Display == nil {
				return
			}
			if _, err := fmt.Fprintln(w, bracketed(*ev.Display)); err != nil {
				mu.Lock()
				writeErr = err
				mu.Unlock()
				finish()
			}
		case rsvp.EventFinish:
			finish()
		}
	})

	e.LoadText(text)
	sum := e.Summary()
	if sum.Words == 0 {
		return errNoText
	}
	log.Debug("Printing words", "words", sum.Words, "wpm", sum.WPM, "remaining", e.Remaining())

	e.Play()
	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}

	mu.Lock()
	defer mu.Unlock()
	if writeErr != nil {
		return fmt.Errorf("unable to write to writer: %w", writeErr)
	}
	return nil
}

// bracketed marks the fixation character of d, e.g. "rea[d]ing".
func bracketed(d rsvp.WordDisplay) string {
	return d.Left + "[" + d.Fixation + "]" + d.Right
}
