package event_bus

import (
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

// EventType is an identifier for events.
type EventType string

// Event is the envelope published on the bus. Data is kept as any so
// different payload types can share one bus.
type Event struct {
	ctx       context.Context
	Type      EventType
	Timestamp time.Time
	Data      any
}

// NewEvent creates an Event carrying the request context, so handlers
// can respect cancellation and read request-scoped values.
func NewEvent(ctx context.Context, eventType EventType, data any) Event {
	return Event{
		ctx:       ctx,
		Type:      eventType,
		Timestamp: time.Now(),
		Data:      data,
	}
}

// Context returns the context associated with this event.
func (e Event) Context() context.Context {
	if e.ctx == nil {
		return context.Background()
	}
	return e.ctx
}

type handler func(Event) error

// EventBus is a concurrency-safe synchronous dispatcher: Publish runs
// every subscribed handler in registration order before returning.
type EventBus struct {
	mu          sync.RWMutex
	subscribers map[EventType][]handler
}

func NewEventBus() *EventBus {
	return &EventBus{
		subscribers: make(map[EventType][]handler),
	}
}

// Subscribe registers a handler for the given eventType.
func (eb *EventBus) Subscribe(eventType EventType, h func(Event) error) {
	eb.mu.Lock()
	defer eb.mu.Unlock()
	eb.subscribers[eventType] = append(eb.subscribers[eventType], handler(h))
}

// Publish delivers the event to all handlers registered for its type.
// Handler errors are logged and do not stop delivery to the remaining
// handlers; the publisher is not expected to act on them.
func (eb *EventBus) Publish(e Event) {
	eb.mu.RLock()
	handlers := make([]handler, len(eb.subscribers[e.Type]))
	copy(handlers, eb.subscribers[e.Type])
	eb.mu.RUnlock()

	for _, h := range handlers {
		if err := e.Context().Err(); err != nil {
			log.Debugf("EventBus: context cancelled while delivering %s: %v", e.Type, err)
			return
		}
		if err := h(e); err != nil {
			log.Errorf("EventBus: handler error for event %s: %v", e.Type, err)
		}
	}
}
