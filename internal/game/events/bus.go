package events

import (
	"strconv"
	"sync"

	"github.com/rs/zerolog"
)

type funcHandler struct {
	id      string
	handler EventHandler
}

// EventBus delivers events synchronously, in subscription order for
// function handlers. A panicking handler is logged and skipped.
type EventBus struct {
	subscribers  map[string]Subscriber
	funcHandlers map[string][]funcHandler
	nextFuncID   int
	mu           sync.RWMutex
	logger       zerolog.Logger
}

// NewEventBus creates an empty bus
func NewEventBus(logger zerolog.Logger) *EventBus {
	return &EventBus{
		subscribers:  make(map[string]Subscriber),
		funcHandlers: make(map[string][]funcHandler),
		logger:       logger.With().Str("component", "event_bus").Logger(),
	}
}

// Subscribe adds a subscriber, replacing any with the same id
func (eb *EventBus) Subscribe(subscriber Subscriber) {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	eb.subscribers[subscriber.ID()] = subscriber
	eb.logger.Debug().Str("subscriber_id", subscriber.ID()).Msg("Subscriber added to event bus")
}

// Unsubscribe removes a subscriber or a function handler by id
func (eb *EventBus) Unsubscribe(subscriberID string) {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	if _, ok := eb.subscribers[subscriberID]; ok {
		delete(eb.subscribers, subscriberID)
		eb.logger.Debug().Str("subscriber_id", subscriberID).Msg("Subscriber removed from event bus")
		return
	}
	for eventType, handlers := range eb.funcHandlers {
		for i, h := range handlers {
			if h.id == subscriberID {
				eb.funcHandlers[eventType] = append(handlers[:i:i], handlers[i+1:]...)
				eb.logger.Debug().Str("handler_id", subscriberID).Msg("Function handler removed from event bus")
				return
			}
		}
	}
}

// SubscribeFunc adds a function handler for one event type
func (eb *EventBus) SubscribeFunc(eventType string, handler EventHandler) string {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	eb.nextFuncID++
	handlerID := eventType + "_func_" + strconv.Itoa(eb.nextFuncID)
	eb.funcHandlers[eventType] = append(eb.funcHandlers[eventType], funcHandler{id: handlerID, handler: handler})
	eb.logger.Debug().
		Str("event_type", eventType).
		Str("handler_id", handlerID).
		Msg("Function handler added to event bus")

	return handlerID
}

// Publish sends an event to every interested subscriber and handler
func (eb *EventBus) Publish(event Event) {
	eb.mu.RLock()
	defer eb.mu.RUnlock()

	eventType := event.Type()
	eb.logger.Debug().
		Str("event_type", eventType).
		Str("match_id", event.MatchID()).
		Msg("Publishing event")

	for id, subscriber := range eb.subscribers {
		if subscriber.InterestedIn(eventType) {
			eb.deliver(id, eventType, func() { subscriber.HandleEvent(event) })
		}
	}
	for _, h := range eb.funcHandlers[eventType] {
		h := h
		eb.deliver(h.id, eventType, func() { h.handler(event) })
	}
}

func (eb *EventBus) deliver(id, eventType string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			eb.logger.Error().
				Str("subscriber_id", id).
				Str("event_type", eventType).
				Interface("panic", r).
				Msg("Subscriber panicked while handling event")
		}
	}()
	fn()
}

// SubscriberCount returns the number of object subscribers
func (eb *EventBus) SubscriberCount() int {
	eb.mu.RLock()
	defer eb.mu.RUnlock()
	return len(eb.subscribers)
}

// FuncHandlerCount returns the number of function handlers for an event type
func (eb *EventBus) FuncHandlerCount(eventType string) int {
	eb.mu.RLock()
	defer eb.mu.RUnlock()
	return len(eb.funcHandlers[eventType])
}
