// Package events carries the event bus contracts used for cross-module
// signalling, such as a logged message triggering an async rescore. Platform
// layer only; the event vocabulary itself lives with the domain modules.
package events

import (
	"context"
	"time"
)

// Event is implemented by every domain event placed on the bus.
type Event interface {
	// EventName identifies the event type and doubles as the subscription key.
	EventName() string
	// OccurredAt reports when the event happened.
	OccurredAt() time.Time
}

// BaseEvent supplies the timestamp shared by all events. Embed it and
// implement EventName on the concrete type.
type BaseEvent struct {
	Timestamp time.Time `json:"timestamp"`
}

func (e BaseEvent) OccurredAt() time.Time {
	return e.Timestamp
}

// NewBaseEvent stamps a base event with the current time.
func NewBaseEvent() BaseEvent {
	return BaseEvent{Timestamp: time.Now()}
}

// Handler consumes events for one subscription.
type Handler interface {
	Handle(ctx context.Context, event Event) error
}

// HandlerFunc adapts a plain function into a Handler.
type HandlerFunc func(ctx context.Context, event Event) error

func (f HandlerFunc) Handle(ctx context.Context, event Event) error {
	return f(ctx, event)
}

// Bus fans events out to their subscribers.
type Bus interface {
	// Publish dispatches the event to every handler registered under its
	// name. Handlers run asynchronously; publishers never block on them.
	Publish(ctx context.Context, event Event)

	// PublishSync dispatches the event and waits for every handler,
	// returning the first handler error.
	PublishSync(ctx context.Context, event Event) error

	// Subscribe registers a handler under an event name as returned by
	// Event.EventName.
	Subscribe(eventName string, handler Handler)
}
