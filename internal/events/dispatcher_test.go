package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcherPublishSubscribe(t *testing.T) {
	dispatcher := NewInMemoryDispatcher()

	var seen []Event
	dispatcher.Subscribe(EventUserCreated, func(_ context.Context, e Event) error {
		seen = append(seen, e)
		return nil
	})

	event := Event{ID: "e1", Type: EventUserCreated, UserID: "1", Timestamp: time.Now()}
	require.NoError(t, dispatcher.Publish(context.Background(), event))
	require.Len(t, seen, 1)
	assert.Equal(t, "e1", seen[0].ID)

	// unrelated event types do not reach the handler
	require.NoError(t, dispatcher.Publish(context.Background(), Event{Type: EventUserDeleted}))
	assert.Len(t, seen, 1)
}

func TestDispatcherHandlerErrorDoesNotStopOthers(t *testing.T) {
	dispatcher := NewInMemoryDispatcher()

	dispatcher.Subscribe(EventAuthzDenied, func(context.Context, Event) error {
		return errors.New("boom")
	})
	called := false
	dispatcher.Subscribe(EventAuthzDenied, func(context.Context, Event) error {
		called = true
		return nil
	})

	require.NoError(t, dispatcher.Publish(context.Background(), Event{Type: EventAuthzDenied}))
	assert.True(t, called)
}
