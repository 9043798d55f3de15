package events

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/open-telco/telebill/pkg/logger"
)

// Event is a domain notification, e.g. "customer.created" or
// "bill.generated".
type Event struct {
	Type      string         `json:"type"`
	Timestamp time.Time      `json:"timestamp"`
	Data      map[string]any `json:"data"`
	Source    string         `json:"source"`
}

// EventHandler consumes a single event. Handler errors are logged, never
// propagated to the publisher.
type EventHandler func(event Event) error

// EventBus is an in-process, synchronous publish/subscribe bus.
type EventBus struct {
	mu       sync.RWMutex
	handlers map[string][]EventHandler
}

var (
	globalBus  *EventBus
	globalOnce sync.Once
)

// GetEventBus returns the process-wide bus instance.
func GetEventBus() *EventBus {
	globalOnce.Do(func() {
		globalBus = NewEventBus()
	})
	return globalBus
}

// NewEventBus creates an empty bus; most callers want GetEventBus.
func NewEventBus() *EventBus {
	return &EventBus{handlers: make(map[string][]EventHandler)}
}

// Subscribe registers a handler for an event type.
func (bus *EventBus) Subscribe(eventType string, handler EventHandler) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	bus.handlers[eventType] = append(bus.handlers[eventType], handler)
}

// Unsubscribe removes all handlers for an event type.
func (bus *EventBus) Unsubscribe(eventType string) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	delete(bus.handlers, eventType)
}

// Publish delivers the event to every subscribed handler in registration
// order, on the caller's goroutine.
func (bus *EventBus) Publish(event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	bus.mu.RLock()
	handlers := make([]EventHandler, len(bus.handlers[event.Type]))
	copy(handlers, bus.handlers[event.Type])
	bus.mu.RUnlock()

	for _, handler := range handlers {
		if err := handler(event); err != nil {
			logger.Error("event handler failed",
				zap.String("eventType", event.Type),
				zap.Error(err))
		}
	}
}

// Emit is a convenience wrapper building the Event envelope.
func (bus *EventBus) Emit(eventType, source string, data map[string]any) {
	bus.Publish(Event{Type: eventType, Source: source, Data: data})
}
