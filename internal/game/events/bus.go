package events

import (
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type funcHandler struct {
	id     string
	handle EventHandler
}

// EventBus delivers events synchronously on the publishing goroutine.
//
// Delivery runs against a copy of the registrations taken at publish time,
// so handlers may publish, subscribe or unsubscribe on the same bus.
type EventBus struct {
	mu          sync.RWMutex
	subscribers map[string]Subscriber
	handlers    map[string][]funcHandler
	logger      zerolog.Logger
}

// NewEventBus creates an event bus logging through the global logger
func NewEventBus() *EventBus {
	return NewEventBusWithLogger(log.Logger)
}

// NewEventBusWithLogger creates an event bus that logs through the given logger
func NewEventBusWithLogger(logger zerolog.Logger) *EventBus {
	return &EventBus{
		subscribers: make(map[string]Subscriber),
		handlers:    make(map[string][]funcHandler),
		logger:      logger.With().Str("component", "event_bus").Logger(),
	}
}

// Subscribe registers s, replacing any subscriber with the same ID
func (eb *EventBus) Subscribe(s Subscriber) {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	eb.subscribers[s.ID()] = s
	eb.logger.Debug().
		Str("subscriber_id", s.ID()).
		Msg("Subscriber added to event bus")
}

// Unsubscribe removes a subscriber from the event bus
func (eb *EventBus) Unsubscribe(subscriberID string) {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	delete(eb.subscribers, subscriberID)
	eb.logger.Debug().
		Str("subscriber_id", subscriberID).
		Msg("Subscriber removed from event bus")
}

// SubscribeFunc registers handler for one event type. The returned ID
// removes it again through UnsubscribeFunc.
func (eb *EventBus) SubscribeFunc(eventType string, handler EventHandler) string {
	id := eventType + "/" + uuid.NewString()

	eb.mu.Lock()
	defer eb.mu.Unlock()

	eb.handlers[eventType] = append(eb.handlers[eventType], funcHandler{id: id, handle: handler})
	eb.logger.Debug().
		Str("event_type", eventType).
		Str("handler_id", id).
		Msg("Function handler added to event bus")
	return id
}

// UnsubscribeFunc removes a handler added by SubscribeFunc
func (eb *EventBus) UnsubscribeFunc(handlerID string) bool {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	for eventType, hs := range eb.handlers {
		for i, h := range hs {
			if h.id != handlerID {
				continue
			}
			rest := make([]funcHandler, 0, len(hs)-1)
			rest = append(rest, hs[:i]...)
			rest = append(rest, hs[i+1:]...)
			if len(rest) == 0 {
				delete(eb.handlers, eventType)
			} else {
				eb.handlers[eventType] = rest
			}
			return true
		}
	}
	return false
}

// Publish delivers event to every interested subscriber and handler
func (eb *EventBus) Publish(event Event) {
	subs, handlers := eb.targets(event.Type())

	eb.logger.Debug().
		Str("event_type", event.Type()).
		Str("session_id", event.SessionID()).
		Int("receivers", len(subs)+len(handlers)).
		Msg("Publishing event")

	for _, s := range subs {
		eb.deliver(event, s.ID(), s.HandleEvent)
	}
	for _, h := range handlers {
		eb.deliver(event, h.id, h.handle)
	}
}

// PublishAll publishes a batch in order, as queued by an outbox
func (eb *EventBus) PublishAll(batch []Event) {
	for _, ev := range batch {
		eb.Publish(ev)
	}
}

func (eb *EventBus) targets(eventType string) ([]Subscriber, []funcHandler) {
	eb.mu.RLock()
	defer eb.mu.RUnlock()

	var subs []Subscriber
	for _, s := range eb.subscribers {
		if s.InterestedIn(eventType) {
			subs = append(subs, s)
		}
	}
	handlers := append([]funcHandler(nil), eb.handlers[eventType]...)
	return subs, handlers
}

// deliver isolates a panicking receiver from the rest
func (eb *EventBus) deliver(event Event, receiverID string, fn EventHandler) {
	defer func() {
		if r := recover(); r != nil {
			eb.logger.Error().
				Str("receiver_id", receiverID).
				Str("event_type", event.Type()).
				Interface("panic", r).
				Msg("Event receiver panicked")
		}
	}()
	fn(event)
}

// SubscriberCount returns the number of registered subscribers
func (eb *EventBus) SubscriberCount() int {
	eb.mu.RLock()
	defer eb.mu.RUnlock()
	return len(eb.subscribers)
}

// HandlerCount returns the number of function handlers for eventType
func (eb *EventBus) HandlerCount(eventType string) int {
	eb.mu.RLock()
	defer eb.mu.RUnlock()
	return len(eb.handlers[eventType])
}
