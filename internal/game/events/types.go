package events

import (
	"time"
)

// Event is anything published on the match bus
type Event interface {
	// Type is the dotted event name used for filtering
	Type() string
	Timestamp() time.Time
	// MatchID names the match the event belongs to
	MatchID() string
}

// BaseEvent carries the fields every event shares
type BaseEvent struct {
	EventType string    `json:"type"`
	Time      time.Time `json:"timestamp"`
	Match     string    `json:"matchId"`
}

func (e BaseEvent) Type() string         { return e.EventType }
func (e BaseEvent) Timestamp() time.Time { return e.Time }
func (e BaseEvent) MatchID() string      { return e.Match }

func newBase(eventType, matchID string) BaseEvent {
	return BaseEvent{EventType: eventType, Time: time.Now(), Match: matchID}
}

// EventHandler is a function that processes events
type EventHandler func(Event)

// Subscriber receives events it declares interest in
type Subscriber interface {
	ID() string
	HandleEvent(Event)
	InterestedIn(eventType string) bool
}

// Publisher is the interface for publishing events
type Publisher interface {
	Publish(Event)
}

// Bus is the main event bus interface
type Bus interface {
	Publisher
	Subscribe(Subscriber)
	Unsubscribe(subscriberID string)
	// SubscribeFunc registers a handler for one event type and returns its id
	SubscribeFunc(eventType string, handler EventHandler) string
}
