package rsvp

import "slices"

// EventType identifies what changed in the engine.
type EventType int

const (
	// EventWord is emitted when a word is put on screen during playback.
	EventWord EventType = iota
	// EventPlay is emitted when playback starts.
	EventPlay
	// EventPause is emitted when playback is paused or stopped.
	EventPause
	// EventFinish is emitted when playback runs past the last word.
	EventFinish
	// EventNavigate is emitted after a manual move of the position.
	EventNavigate
	// EventSpeedChange is emitted when the words-per-minute changes.
	EventSpeedChange
	// EventReset is emitted when new text is loaded.
	EventReset
)

// String returns the string representation of the event type.
func (t EventType) String() string {
	switch t {
	case EventWord:
		return "word"
	case EventPlay:
		return "play"
	case EventPause:
		return "pause"
	case EventFinish:
		return "finish"
	case EventNavigate:
		return "navigate"
	case EventSpeedChange:
		return "speedChange"
	case EventReset:
		return "reset"
	default:
		return "unknown"
	}
}

// Event is delivered to every listener after a state change.
type Event struct {
	Type     EventType
	State    State
	Display  *WordDisplay // nil when the index is past the last word
	Progress Progress
}

// Listener observes engine events.
type Listener func(Event)

type subscription struct {
	id       uint64
	listener Listener
}

// registry keeps listeners in subscription order.
type registry struct {
	nextID uint64
	subs   []subscription
}

func (r *registry) add(l Listener) uint64 {
	r.nextID++
	r.subs = append(r.subs, subscription{id: r.nextID, listener: l})
	return r.nextID
}

func (r *registry) remove(id uint64) {
	for i, s := range r.subs {
		if s.id == id {
			r.subs = slices.Delete(r.subs, i, i+1)
			return
		}
	}
}

func (r *registry) clear() {
	r.subs = nil
}

// snapshot returns the listeners for one notification pass. Later add or
// remove calls do not affect the returned slice.
func (r *registry) snapshot() []Listener {
	ls := make([]Listener, len(r.subs))
	for i, s := range r.subs {
		ls[i] = s.listener
	}
	return ls
}

func (r *registry) len() int {
	return len(r.subs)
}
