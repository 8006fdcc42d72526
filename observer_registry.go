package propframe

import (
	"context"
	"sync"
	"time"

	cloudevents "github.com/cloudevents/sdk-go/v2"
)

// observerRegistration holds information about a registered observer
type observerRegistration struct {
	observer     Observer
	eventTypes   map[string]bool // set of event types this observer is interested in
	registeredAt time.Time
}

// ObserverRegistry is the library's concrete Subject. Attach one to a
// Resolver, ScopeStack or FrameWatcher to receive their events.
// Registration and notification are safe for concurrent use.
type ObserverRegistry struct {
	observers map[string]*observerRegistration // key is observer ID
	mutex     sync.RWMutex
	logger    Logger
}

// NewObserverRegistry creates an empty registry. The logger is
// optional and receives observer errors and registration changes.
func NewObserverRegistry(logger Logger) *ObserverRegistry {
	return &ObserverRegistry{
		observers: make(map[string]*observerRegistration),
		logger:    logger,
	}
}

// RegisterObserver adds an observer, optionally filtered by event
// type. Registering an ID twice replaces the earlier registration.
func (reg *ObserverRegistry) RegisterObserver(observer Observer, eventTypes ...string) error {
	reg.mutex.Lock()
	defer reg.mutex.Unlock()

	eventTypeMap := make(map[string]bool)
	for _, eventType := range eventTypes {
		eventTypeMap[eventType] = true
	}

	reg.observers[observer.ObserverID()] = &observerRegistration{
		observer:     observer,
		eventTypes:   eventTypeMap,
		registeredAt: time.Now(),
	}

	if reg.logger != nil {
		reg.logger.Info("Observer registered", "observerID", observer.ObserverID(), "eventTypes", eventTypes)
	}
	return nil
}

// UnregisterObserver removes an observer. Idempotent.
func (reg *ObserverRegistry) UnregisterObserver(observer Observer) error {
	reg.mutex.Lock()
	defer reg.mutex.Unlock()

	if _, exists := reg.observers[observer.ObserverID()]; exists {
		delete(reg.observers, observer.ObserverID())
		if reg.logger != nil {
			reg.logger.Info("Observer unregistered", "observerID", observer.ObserverID())
		}
	}

	return nil
}

// NotifyObservers validates the event and delivers it to every
// interested observer in its own goroutine, so emitters are never
// blocked on observer work. Observer errors and panics are logged,
// not propagated.
func (reg *ObserverRegistry) NotifyObservers(ctx context.Context, event cloudevents.Event) error {
	reg.mutex.RLock()
	defer reg.mutex.RUnlock()

	if event.Time().IsZero() {
		event.SetTime(time.Now())
	}

	if err := ValidateCloudEvent(event); err != nil {
		if reg.logger != nil {
			reg.logger.Error("Invalid CloudEvent", "eventType", event.Type(), "error", err)
		}
		return err
	}

	for _, registration := range reg.observers {
		registration := registration // capture for goroutine

		if len(registration.eventTypes) > 0 && !registration.eventTypes[event.Type()] {
			continue // observer not interested in this event type
		}

		go func() {
			defer func() {
				if r := recover(); r != nil && reg.logger != nil {
					reg.logger.Error("Observer panicked", "observerID", registration.observer.ObserverID(), "event", event.Type(), "panic", r)
				}
			}()

			if err := registration.observer.OnEvent(ctx, event); err != nil && reg.logger != nil {
				reg.logger.Error("Observer error", "observerID", registration.observer.ObserverID(), "event", event.Type(), "error", err)
			}
		}()
	}

	return nil
}

// GetObservers returns information about current registrations.
func (reg *ObserverRegistry) GetObservers() []ObserverInfo {
	reg.mutex.RLock()
	defer reg.mutex.RUnlock()

	infos := make([]ObserverInfo, 0, len(reg.observers))
	for id, registration := range reg.observers {
		eventTypes := make([]string, 0, len(registration.eventTypes))
		for eventType := range registration.eventTypes {
			eventTypes = append(eventTypes, eventType)
		}

		infos = append(infos, ObserverInfo{
			ID:           id,
			EventTypes:   eventTypes,
			RegisteredAt: registration.registeredAt,
		})
	}

	return infos
}
