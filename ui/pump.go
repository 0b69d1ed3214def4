package ui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dgnsrekt/skim/rsvp"
)

// engineEventsMsg carries engine events, oldest first.
type engineEventsMsg []rsvp.Event

// eventPump hands engine events to the Bubble Tea event loop. Engine
// listeners run synchronously, often from inside Update, so they must never
// block on the program; the pump queues events and a waiting command picks
// them up.
type eventPump struct {
	mu     sync.Mutex
	queue  []rsvp.Event
	closed bool
	wake   chan struct{}
}

func newEventPump() *eventPump {
	return &eventPump{wake: make(chan struct{}, 1)}
}

// push is an rsvp.Listener.
func (p *eventPump) push(ev rsvp.Event) {
	p.mu.Lock()
	if !p.closed {
		p.queue = append(p.queue, ev)
	}
	p.mu.Unlock()

	select {
	case p.wake <- struct{}{}:
	default:
	}
}

// close makes the waiting command return nil.
func (p *eventPump) close() {
	p.mu.Lock()
	p.closed = true
	p.queue = nil
	p.mu.Unlock()

	select {
	case p.wake <- struct{}{}:
	default:
	}
}

// drain returns queued events without waiting.
func (p *eventPump) drain() []rsvp.Event {
	p.mu.Lock()
	defer p.mu.Unlock()

	evs := p.queue
	p.queue = nil
	return evs
}

// wait blocks until events arrive and returns them as one message. Run it
// again after every engineEventsMsg.
func (p *eventPump) wait() tea.Msg {
	for {
		if evs := p.drain(); len(evs) > 0 {
			return engineEventsMsg(evs)
		}

		p.mu.Lock()
		closed := p.closed
		p.mu.Unlock()
		if closed {
			return nil
		}

		<-p.wake
	}
}
