package propframe

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserverRegistryRegisterAndNotify(t *testing.T) {
	registry := NewObserverRegistry(&testLogger{})

	received := make(chan CloudEvent, 1)
	observer := NewFunctionalObserver("obs-1", func(ctx context.Context, event CloudEvent) error {
		received <- event
		return nil
	})
	require.NoError(t, registry.RegisterObserver(observer))

	event := NewCloudEvent(EventTypeFrameCreated, "test", map[string]any{"depth": 1}, nil)
	require.NoError(t, registry.NotifyObservers(context.Background(), event))

	select {
	case got := <-received:
		assert.Equal(t, EventTypeFrameCreated, got.Type())
		assert.Equal(t, "test", got.Source())
		assert.NotEmpty(t, got.ID())
	case <-time.After(2 * time.Second):
		t.Fatal("observer did not receive the event")
	}
}

func TestObserverRegistryEventTypeFilter(t *testing.T) {
	registry := NewObserverRegistry(&testLogger{})

	received := make(chan string, 4)
	observer := NewFunctionalObserver("filtered", func(ctx context.Context, event CloudEvent) error {
		received <- event.Type()
		return nil
	})
	require.NoError(t, registry.RegisterObserver(observer, EventTypeFrameDerived))

	ctx := context.Background()
	require.NoError(t, registry.NotifyObservers(ctx, NewCloudEvent(EventTypeFrameCreated, "test", nil, nil)))
	require.NoError(t, registry.NotifyObservers(ctx, NewCloudEvent(EventTypeFrameDerived, "test", nil, nil)))

	select {
	case eventType := <-received:
		assert.Equal(t, EventTypeFrameDerived, eventType)
	case <-time.After(2 * time.Second):
		t.Fatal("observer did not receive the subscribed event")
	}

	select {
	case eventType := <-received:
		t.Fatalf("observer received unsubscribed event %s", eventType)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestObserverRegistryUnregister(t *testing.T) {
	registry := NewObserverRegistry(&testLogger{})

	observer := NewFunctionalObserver("gone", func(ctx context.Context, event CloudEvent) error {
		t.Error("unregistered observer must not receive events")
		return nil
	})
	require.NoError(t, registry.RegisterObserver(observer))
	require.NoError(t, registry.UnregisterObserver(observer))

	// Unregistering twice is idempotent
	require.NoError(t, registry.UnregisterObserver(observer))

	require.NoError(t, registry.NotifyObservers(context.Background(),
		NewCloudEvent(EventTypeFrameCreated, "test", nil, nil)))
	time.Sleep(100 * time.Millisecond)

	assert.Empty(t, registry.GetObservers())
}

func TestObserverRegistryGetObservers(t *testing.T) {
	registry := NewObserverRegistry(&testLogger{})

	observer := NewFunctionalObserver("info", func(ctx context.Context, event CloudEvent) error {
		return nil
	})
	require.NoError(t, registry.RegisterObserver(observer, EventTypeFramesReloaded))

	infos := registry.GetObservers()
	require.Len(t, infos, 1)
	assert.Equal(t, "info", infos[0].ID)
	assert.Equal(t, []string{EventTypeFramesReloaded}, infos[0].EventTypes)
	assert.False(t, infos[0].RegisteredAt.IsZero())
}

func TestObserverRegistryObserverErrorsAreLogged(t *testing.T) {
	logger := &testLogger{}
	registry := NewObserverRegistry(logger)

	observer := NewFunctionalObserver("failing", func(ctx context.Context, event CloudEvent) error {
		return errors.New("observer failure")
	})
	require.NoError(t, registry.RegisterObserver(observer))

	require.NoError(t, registry.NotifyObservers(context.Background(),
		NewCloudEvent(EventTypeFrameCreated, "test", nil, nil)))

	require.Eventually(t, func() bool {
		for _, msg := range logger.messages("error") {
			if msg == "Observer error" {
				return true
			}
		}
		return false
	}, 2*time.Second, 10*time.Millisecond)
}

func TestResolverEmitsResolutionEvents(t *testing.T) {
	registry := NewObserverRegistry(&testLogger{})

	received := make(chan string, 4)
	observer := NewFunctionalObserver("resolution", func(ctx context.Context, event CloudEvent) error {
		received <- event.Type()
		return nil
	})
	require.NoError(t, registry.RegisterObserver(observer, EventTypePropertiesUnresolved))

	resolver := NewResolver(WithSubject(registry))
	resolver.Resolve([]string{"bar"}, ExplicitValues{}, nil)

	select {
	case eventType := <-received:
		assert.Equal(t, EventTypePropertiesUnresolved, eventType)
	case <-time.After(2 * time.Second):
		t.Fatal("unresolved event was not emitted")
	}
}

func TestValidateCloudEvent(t *testing.T) {
	event := NewCloudEvent(EventTypeFrameCreated, "test", map[string]any{"depth": 1}, map[string]any{"frameid": "abc"})
	assert.NoError(t, ValidateCloudEvent(event))
}
