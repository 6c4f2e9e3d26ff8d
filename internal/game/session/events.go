package session

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// EventKind names a notable change in a session.
type EventKind string

const (
	EventStaggered        EventKind = "staggered"
	EventDefeated         EventKind = "defeated"
	EventLevelUp          EventKind = "level_up"
	EventNodeUnlocked     EventKind = "node_unlocked"
	EventConditionExpired EventKind = "condition_expired"
)

// Event is one notification published on a Feed.
type Event struct {
	Kind        EventKind
	CharacterID uuid.UUID
	Detail      string
	Value       float64
}

// Feed routes session events to a buffered channel so a consumer (the CLI or
// a future network layer) can observe combat without polling.
type Feed struct {
	id     uuid.UUID
	events chan Event
	mu     sync.Mutex
	closed bool
}

// NewFeed creates a Feed for the character id.
//
// Postcondition: Returns a Feed with an open events channel of at least one slot.
func NewFeed(id uuid.UUID, bufferSize int) *Feed {
	if bufferSize <= 0 {
		bufferSize = 64
	}
	return &Feed{id: id, events: make(chan Event, bufferSize)}
}

// ID returns the character the feed belongs to.
func (f *Feed) ID() uuid.UUID { return f.id }

// Push enqueues e without blocking.
//
// Postcondition: e is enqueued, or an error is returned if the feed is closed or full.
func (f *Feed) Push(e Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return fmt.Errorf("feed %s is closed", f.id)
	}
	select {
	case f.events <- e:
		return nil
	default:
		return fmt.Errorf("feed %s event buffer full", f.id)
	}
}

// Events returns the read-only events channel.
func (f *Feed) Events() <-chan Event {
	return f.events
}

// Drain returns every queued event without blocking.
func (f *Feed) Drain() []Event {
	var out []Event
	for {
		select {
		case e, ok := <-f.events:
			if !ok {
				return out
			}
			out = append(out, e)
		default:
			return out
		}
	}
}

// Close marks the feed closed and closes the events channel.
//
// Postcondition: The events channel is closed. Further Push calls return an error.
func (f *Feed) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.closed {
		f.closed = true
		close(f.events)
	}
	return nil
}

// IsClosed reports whether the feed has been closed.
func (f *Feed) IsClosed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}
