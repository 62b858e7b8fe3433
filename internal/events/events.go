package events

import (
	"sync"
	"time"
)

// EventType identifies a category of in-process event
type EventType string

const (
	// Catalog lifecycle events
	EventCatalogRefreshStarted   EventType = "catalog.refresh.started"
	EventCatalogRefreshCompleted EventType = "catalog.refresh.completed"
	EventCatalogSnapshotLoaded   EventType = "catalog.snapshot.loaded"

	// Game lifecycle events
	EventSessionCreated EventType = "game.session.created"
	EventTurnAccepted   EventType = "game.turn.accepted"
	EventTurnRejected   EventType = "game.turn.rejected"
	EventSessionWon     EventType = "game.session.won"
)

// Event is a single published occurrence with optional payload data
type Event struct {
	Type      EventType              `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Data      map[string]interface{} `json:"data,omitempty"`
}

// Handler receives published events. Handlers run synchronously on the
// publisher's goroutine; keep them fast.
type Handler func(Event)

// EventBus fans events out to subscribed handlers
type EventBus interface {
	Publish(eventType EventType, data map[string]interface{})
	Subscribe(eventType EventType, handler Handler)
	SubscribeAll(handler Handler)
}

type bus struct {
	mu       sync.RWMutex
	handlers map[EventType][]Handler
	all      []Handler
}

// NewEventBus creates an empty in-process event bus
func NewEventBus() EventBus {
	return &bus{handlers: make(map[EventType][]Handler)}
}

func (b *bus) Publish(eventType EventType, data map[string]interface{}) {
	b.mu.RLock()
	handlers := b.handlers[eventType]
	all := b.all
	b.mu.RUnlock()

	ev := Event{Type: eventType, Timestamp: time.Now(), Data: data}
	for _, h := range handlers {
		h(ev)
	}
	for _, h := range all {
		h(ev)
	}
}

func (b *bus) Subscribe(eventType EventType, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[eventType] = append(b.handlers[eventType], handler)
}

func (b *bus) SubscribeAll(handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.all = append(b.all, handler)
}
