package rsvp

import (
	"math"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// Engine plays a word sequence at a fixed focal point.
//
// All operations are safe to call from any goroutine and never block on
// playback. At most one word advance is pending at a time: every operation
// that changes playback cancels it before deciding what to schedule next, and
// a timer that fires after losing that race is ignored.
//
// Events are delivered synchronously, in subscription order, before the
// triggering operation returns. Listeners may call back into the engine;
// events caused by such calls are delivered once the current listener
// returns.
type Engine struct {
	mu sync.Mutex

	words       []string
	index       int
	wpm         int
	smartPauses bool
	playing     bool
	destroyed   bool

	clock      Clock
	timer      Timer
	generation uint64

	listeners       registry
	pending         []Event
	notifying       bool
	onListenerError func(error)
}

// Option configures an Engine at construction.
type Option func(*Engine)

// WithWPM sets the initial speed. Out-of-range values are clamped.
func WithWPM(wpm int) Option {
	return func(e *Engine) {
		e.wpm = ClampWPM(wpm)
	}
}

// WithSmartPauses sets the initial pause-shaping flag.
func WithSmartPauses(enabled bool) Option {
	return func(e *Engine) {
		e.smartPauses = enabled
	}
}

// WithConfig applies the speed and pause-shaping settings of cfg.
func WithConfig(cfg Config) Option {
	return func(e *Engine) {
		e.wpm = ClampWPM(cfg.WPM)
		e.smartPauses = cfg.SmartPauses
	}
}

// WithClock replaces the clock used to schedule word advances.
func WithClock(c Clock) Option {
	return func(e *Engine) {
		if c != nil {
			e.clock = c
		}
	}
}

// WithListenerErrorHandler registers fn to receive a *ListenerError whenever
// a listener panics. The panic is always logged.
func WithListenerErrorHandler(fn func(error)) Option {
	return func(e *Engine) {
		e.onListenerError = fn
	}
}

// New returns an idle engine with no text loaded.
func New(opts ...Option) *Engine {
	e := &Engine{
		wpm:         DefaultWPM,
		smartPauses: true,
		clock:       SystemClock,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// LoadText halts playback, replaces the word sequence with the tokens of
// text and rewinds to the first word.
func (e *Engine) LoadText(text string) {
	words := Tokenize(text)

	e.mu.Lock()
	if e.usable("load text") {
		e.pause()
		e.words = words
		e.index = 0
		log.Debug("Loaded text", "words", len(words))
		e.emit(EventReset)
	}
	e.mu.Unlock()
	e.flush()
}

// SetWPM changes the reading speed, clamped to [MinWPM, MaxWPM]. A word
// already on screen keeps the delay it was scheduled with.
func (e *Engine) SetWPM(wpm int) {
	e.mu.Lock()
	if e.usable("set wpm") {
		e.setWPM(wpm)
	}
	e.mu.Unlock()
	e.flush()
}

// AdjustWPM changes the reading speed by delta words per minute.
func (e *Engine) AdjustWPM(delta int) {
	e.mu.Lock()
	if e.usable("adjust wpm") {
		e.setWPM(saturatingAdd(e.wpm, delta))
	}
	e.mu.Unlock()
	e.flush()
}

// WPM returns the current reading speed.
func (e *Engine) WPM() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.wpm
}

// SetSmartPauses toggles pause shaping. It takes effect from the next word
// and emits no event.
func (e *Engine) SetSmartPauses(enabled bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.usable("set smart pauses") {
		e.smartPauses = enabled
	}
}

// SmartPauses reports whether pause shaping is enabled.
func (e *Engine) SmartPauses() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.smartPauses
}

// Play starts playback from the current word, or from the first word when
// the previous run finished. It does nothing while playing or with no text.
func (e *Engine) Play() {
	e.mu.Lock()
	if e.usable("play") {
		e.play()
	}
	e.mu.Unlock()
	e.flush()
}

// Pause cancels the pending advance. It does nothing when not playing.
func (e *Engine) Pause() {
	e.mu.Lock()
	if e.usable("pause") {
		e.pause()
	}
	e.mu.Unlock()
	e.flush()
}

// Stop is an alias for Pause.
func (e *Engine) Stop() {
	e.Pause()
}

// TogglePlay pauses when playing and plays otherwise.
func (e *Engine) TogglePlay() {
	e.mu.Lock()
	if e.usable("toggle play") {
		if e.playing {
			e.pause()
		} else {
			e.play()
		}
	}
	e.mu.Unlock()
	e.flush()
}

// Navigate moves delta words forward (or backward when negative), stopping
// at the first and last word. Playback resumes if it was running.
func (e *Engine) Navigate(delta int) {
	e.mu.Lock()
	if e.usable("navigate") {
		e.moveTo(saturatingAdd(e.index, delta))
	}
	e.mu.Unlock()
	e.flush()
}

// JumpTo moves to the word at index, clamped to the valid range. Playback
// resumes if it was running.
func (e *Engine) JumpTo(index int) {
	e.mu.Lock()
	if e.usable("jump") {
		e.moveTo(index)
	}
	e.mu.Unlock()
	e.flush()
}

// JumpToPercentage moves to floor(pct/100 * words). pct is clamped to
// [0, 100].
func (e *Engine) JumpToPercentage(pct float64) {
	if math.IsNaN(pct) {
		pct = 0
	}
	pct = max(0, min(100, pct))

	e.mu.Lock()
	if e.usable("jump") {
		e.moveTo(int(math.Floor(pct / 100 * float64(len(e.words)))))
	}
	e.mu.Unlock()
	e.flush()
}

// State returns a snapshot of the engine.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.snapshot()
}

// Progress returns the reader's position in the text.
func (e *Engine) Progress() Progress {
	e.mu.Lock()
	defer e.mu.Unlock()
	return progressOf(e.index, len(e.words))
}

// CurrentWordDisplay returns the current word split at its fixation point.
// ok is false when there is no text or playback has finished.
func (e *Engine) CurrentWordDisplay() (d WordDisplay, ok bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if p := e.currentDisplay(); p != nil {
		return *p, true
	}
	return WordDisplay{}, false
}

// WordDelay returns how long word would stay on screen with the current
// speed and pause-shaping settings.
func (e *Engine) WordDelay(word string) time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()
	return WordDelay(word, e.wpm, e.smartPauses)
}

// Remaining estimates the reading time from the current word to the end at
// the current settings.
func (e *Engine) Remaining() time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()

	var d time.Duration
	for _, w := range e.words[min(e.index, len(e.words)):] {
		d += WordDelay(w, e.wpm, e.smartPauses)
	}
	return d
}

// Summary describes a reading run for the finished screen.
type Summary struct {
	Words int
	WPM   int
}

// Summary returns the word count and speed of the loaded text.
func (e *Engine) Summary() Summary {
	e.mu.Lock()
	defer e.mu.Unlock()
	return Summary{Words: len(e.words), WPM: e.wpm}
}

// Subscribe registers l for every subsequent event and returns a function
// that removes it again. Calling the returned function more than once is
// harmless.
func (e *Engine) Subscribe(l Listener) (unsubscribe func()) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if l == nil || !e.usable("subscribe") {
		return func() {}
	}
	id := e.listeners.add(l)
	return func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		e.listeners.remove(id)
	}
}

// Destroy stops playback, drops every listener and the loaded text. The
// engine cannot be used afterwards.
func (e *Engine) Destroy() {
	e.mu.Lock()
	if e.destroyed {
		e.mu.Unlock()
		return
	}
	e.pause()
	e.mu.Unlock()
	e.flush()

	e.mu.Lock()
	e.cancelTimer()
	e.listeners.clear()
	e.pending = nil
	e.words = nil
	e.index = 0
	e.destroyed = true
	e.mu.Unlock()
}

// The methods below expect e.mu to be held.

func (e *Engine) usable(op string) bool {
	if e.destroyed {
		log.Debug("Ignoring operation on destroyed engine", "op", op, "error", ErrEngineDestroyed)
		return false
	}
	return true
}

func (e *Engine) setWPM(wpm int) {
	e.wpm = ClampWPM(wpm)
	e.emit(EventSpeedChange)
}

func (e *Engine) play() {
	if e.playing || len(e.words) == 0 {
		return
	}
	if e.index >= len(e.words) {
		e.index = 0
	}
	e.playing = true
	e.emit(EventPlay)
	e.showCurrent()
}

func (e *Engine) pause() {
	if !e.playing {
		return
	}
	e.playing = false
	e.cancelTimer()
	e.emit(EventPause)
}

func (e *Engine) moveTo(index int) {
	wasPlaying := e.playing
	e.pause()

	e.index = max(0, min(len(e.words)-1, index))
	e.emit(EventNavigate)

	if wasPlaying {
		e.play()
	}
}

// showCurrent emits the current word and schedules the advance past it, or
// finishes playback when the index has run off the end.
func (e *Engine) showCurrent() {
	if !e.playing || e.index >= len(e.words) {
		if e.index >= len(e.words) {
			e.playing = false
			e.timer = nil
			log.Debug("Finished reading", "words", len(e.words), "wpm", e.wpm)
			e.emit(EventFinish)
		}
		return
	}

	delay := WordDelay(e.words[e.index], e.wpm, e.smartPauses)
	e.emit(EventWord)
	e.schedule(delay)
}

func (e *Engine) schedule(d time.Duration) {
	e.cancelTimer()
	gen := e.generation
	e.timer = e.clock.AfterFunc(d, func() {
		e.advance(gen)
	})
}

func (e *Engine) cancelTimer() {
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
	e.generation++
}

// advance runs on the clock's goroutine when a word's delay has elapsed.
func (e *Engine) advance(gen uint64) {
	e.mu.Lock()
	if gen != e.generation || !e.playing || e.destroyed {
		e.mu.Unlock()
		return
	}
	e.timer = nil
	e.index++
	e.showCurrent()
	e.mu.Unlock()
	e.flush()
}

func (e *Engine) snapshot() State {
	return State{
		Words:       slices.Clone(e.words),
		Index:       e.index,
		WPM:         e.wpm,
		SmartPauses: e.smartPauses,
		Playing:     e.playing,
		Finished:    len(e.words) > 0 && e.index >= len(e.words),
	}
}

func (e *Engine) currentDisplay() *WordDisplay {
	if e.index < 0 || e.index >= len(e.words) {
		return nil
	}
	d := Display(e.words[e.index])
	return &d
}

// emit queues an event describing the current state. It is delivered by
// flush once e.mu is released.
func (e *Engine) emit(t EventType) {
	e.pending = append(e.pending, Event{
		Type:     t,
		State:    e.snapshot(),
		Display:  e.currentDisplay(),
		Progress: progressOf(e.index, len(e.words)),
	})
}

// flush delivers queued events. Only one goroutine drains at a time; a call
// made while another drain is in progress (including from inside a
// listener) leaves its events to that drain.
func (e *Engine) flush() {
	e.mu.Lock()
	if e.notifying {
		e.mu.Unlock()
		return
	}
	e.notifying = true
	for len(e.pending) > 0 {
		ev := e.pending[0]
		e.pending = e.pending[1:]
		listeners := e.listeners.snapshot()

		e.mu.Unlock()
		for _, l := range listeners {
			e.notify(l, ev)
		}
		e.mu.Lock()
	}
	e.pending = nil
	e.notifying = false
	e.mu.Unlock()
}

func (e *Engine) notify(l Listener, ev Event) {
	defer func() {
		if r := recover(); r != nil {
			err := &ListenerError{Event: ev.Type, Value: r}
			log.Error("Error in RSVP event listener", "event", ev.Type, "error", err)
			if e.onListenerError != nil {
				e.onListenerError(err)
			}
		}
	}()
	l(ev)
}

func saturatingAdd(a, b int) int {
	switch {
	case b > 0 && a > math.MaxInt-b:
		return math.MaxInt
	case b < 0 && a < math.MinInt-b:
		return math.MinInt
	default:
		return a + b
	}
}
