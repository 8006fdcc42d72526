package propframe

import (
	"context"
	"time"

	cloudevents "github.com/cloudevents/sdk-go/v2"
)

// Observer receives notifications about frame and resolution events.
// Events use the CloudEvents specification. Observers should handle
// events quickly to avoid delaying other observers.
type Observer interface {
	// OnEvent is called for each event the observer is subscribed to.
	OnEvent(ctx context.Context, event cloudevents.Event) error

	// ObserverID returns a unique identifier for this observer, used
	// for registration tracking and debugging.
	ObserverID() string
}

// Subject is implemented by anything observers can register with.
// The library's Resolver, ScopeStack and FrameWatcher all emit
// through a Subject when one is attached.
type Subject interface {
	// RegisterObserver adds an observer, optionally filtered to the
	// given event types. An empty filter receives all events.
	RegisterObserver(observer Observer, eventTypes ...string) error

	// UnregisterObserver removes an observer. Idempotent.
	UnregisterObserver(observer Observer) error

	// NotifyObservers sends an event to all interested observers
	// without blocking the caller on observer work.
	NotifyObservers(ctx context.Context, event cloudevents.Event) error

	// GetObservers returns information about current registrations.
	GetObservers() []ObserverInfo
}

// ObserverInfo describes a registered observer for debugging and
// monitoring.
type ObserverInfo struct {
	// ID is the unique identifier of the observer
	ID string `json:"id"`

	// EventTypes the observer is subscribed to; empty means all
	EventTypes []string `json:"eventTypes"`

	// RegisteredAt indicates when the observer was registered
	RegisteredAt time.Time `json:"registeredAt"`
}

// FunctionalObserver wraps a handler function as an Observer, for
// quick observer creation without defining a struct.
type FunctionalObserver struct {
	id      string
	handler func(ctx context.Context, event cloudevents.Event) error
}

// NewFunctionalObserver creates an observer that delegates every
// event to the given handler.
func NewFunctionalObserver(id string, handler func(ctx context.Context, event cloudevents.Event) error) Observer {
	return &FunctionalObserver{
		id:      id,
		handler: handler,
	}
}

// OnEvent implements Observer by calling the handler function.
func (f *FunctionalObserver) OnEvent(ctx context.Context, event cloudevents.Event) error {
	return f.handler(ctx, event)
}

// ObserverID implements Observer.
func (f *FunctionalObserver) ObserverID() string {
	return f.id
}
