// file: internal/events/events_test.go
package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestPublishDispatchesToSubscribers(t *testing.T) {
	bus := NewInMemoryBus(zap.NewNop())
	defer bus.Close()

	var got []string
	bus.Subscribe(TypeTaskCompleted, func(_ context.Context, e Event) error {
		got = append(got, e.GetEventType())
		return nil
	})

	bus.Publish(context.Background(), NewEntityEvent(TypeTaskCompleted, 1, "task", "5", nil))
	bus.Publish(context.Background(), NewEntityEvent(TypeTaskUpdated, 1, "task", "5", nil))

	assert.Equal(t, []string{TypeTaskCompleted}, got)
}

func TestWildcardSubscriberSeesEverything(t *testing.T) {
	bus := NewInMemoryBus(zap.NewNop())
	defer bus.Close()

	var count int
	bus.Subscribe(WildcardType, func(context.Context, Event) error {
		count++
		return nil
	})

	bus.Publish(context.Background(), NewEntityEvent(TypeSprintJoined, 1, "sprint", "2", nil))
	bus.Publish(context.Background(), NewBadgeAwardedEvent(1, "FIRST_TASK"))

	assert.Equal(t, 2, count)
}

func TestHandlerErrorAndPanicAreContained(t *testing.T) {
	bus := NewInMemoryBus(zap.NewNop())
	defer bus.Close()

	var reached bool
	bus.Subscribe(TypeTaskCompleted, func(context.Context, Event) error {
		return errors.New("boom")
	})
	bus.Subscribe(TypeTaskCompleted, func(context.Context, Event) error {
		panic("handler panic")
	})
	bus.Subscribe(TypeTaskCompleted, func(context.Context, Event) error {
		reached = true
		return nil
	})

	require.NotPanics(t, func() {
		bus.Publish(context.Background(), NewEntityEvent(TypeTaskCompleted, 1, "task", "5", nil))
	})
	assert.True(t, reached, "later handlers still run after a failure")
}

func TestClosedBusDropsEvents(t *testing.T) {
	bus := NewInMemoryBus(zap.NewNop())

	var count int
	bus.Subscribe(WildcardType, func(context.Context, Event) error {
		count++
		return nil
	})
	require.NoError(t, bus.Close())

	bus.Publish(context.Background(), NewEntityEvent(TypeTaskCreated, 1, "task", "1", nil))
	assert.Zero(t, count)
}

func TestEventEnvelope(t *testing.T) {
	e := NewEntityEvent(TypeBacklogCreated, 7, "backlog", "3", map[string]interface{}{"project_id": int64(1)})

	assert.NotEmpty(t, e.GetEventID())
	assert.Equal(t, TypeBacklogCreated, e.GetEventType())
	require.NotNil(t, e.GetUserID())
	assert.Equal(t, int64(7), *e.GetUserID())
	assert.Equal(t, "backlog", e.EntityType)
	assert.False(t, e.GetTimestamp().IsZero())

	b := NewBadgeAwardedEvent(9, "ON_FIRE")
	assert.Equal(t, TypeBadgeAwarded, b.GetEventType())
	assert.Equal(t, "ON_FIRE", b.BadgeID)
	assert.Equal(t, "ON_FIRE", b.GetMetadata()["badge_id"])
}
