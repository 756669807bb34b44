package events

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitchelldurbincs/PlaneStrikeRL/internal/game/core"
)

func TestEventBus(t *testing.T) {
	bus := NewEventBus()

	// Test function handler
	received := false
	var receivedEvent Event

	bus.SubscribeFunc(TypeGameStarted, func(e Event) {
		received = true
		receivedEvent = e
	})

	bus.Publish(NewGameStartedEvent("test-session", 1))

	assert.True(t, received, "Event handler should have been called")
	require.NotNil(t, receivedEvent, "Event should have been received")
	assert.Equal(t, TypeGameStarted, receivedEvent.Type())
	assert.Equal(t, "test-session", receivedEvent.SessionID())

	started, ok := receivedEvent.(*GameStartedEvent)
	require.True(t, ok)
	assert.Equal(t, uint64(1), started.Generation)
	assert.Equal(t, core.BoardSize, started.BoardSize)
}

func TestEventBusMultipleSubscribers(t *testing.T) {
	bus := NewEventBus()

	handler1Called := false
	handler2Called := false

	id1 := bus.SubscribeFunc(TypeStrikeResolved, func(e Event) {
		handler1Called = true
	})
	id2 := bus.SubscribeFunc(TypeStrikeResolved, func(e Event) {
		handler2Called = true
	})
	assert.NotEqual(t, id1, id2)
	assert.Equal(t, 2, bus.HandlerCount(TypeStrikeResolved))

	result := core.StrikeResult{Side: core.SidePlayer, Target: core.NewCoordinate(1, 2), Outcome: core.OutcomeHit}
	bus.Publish(NewStrikeResolvedEvent("test-session", 1, result, 1))

	assert.True(t, handler1Called, "Handler 1 should have been called")
	assert.True(t, handler2Called, "Handler 2 should have been called")
}

// TestSubscriber is a test implementation of Subscriber
type TestSubscriber struct {
	id              string
	interestedTypes map[string]bool
	receivedEvents  []Event
}

func (ts *TestSubscriber) ID() string {
	return ts.id
}

func (ts *TestSubscriber) HandleEvent(e Event) {
	ts.receivedEvents = append(ts.receivedEvents, e)
}

func (ts *TestSubscriber) InterestedIn(eventType string) bool {
	if ts.interestedTypes == nil {
		return true
	}
	return ts.interestedTypes[eventType]
}

func TestEventBusSubscriber(t *testing.T) {
	bus := NewEventBus()

	subscriber := &TestSubscriber{
		id: "test-subscriber",
		interestedTypes: map[string]bool{
			TypeGameStarted: true,
			TypeGameEnded:   true,
		},
		receivedEvents: []Event{},
	}

	bus.Subscribe(subscriber)
	assert.Equal(t, 1, bus.SubscriberCount())

	bus.Publish(NewGameStartedEvent("test-session", 1))
	bus.Publish(NewAgentMoveFailedEvent("test-session", 1, errors.New("predictor down")))
	bus.Publish(NewGameEndedEvent("test-session", core.SidePlayer, 8, 3, 12, time.Minute))

	// Should only receive GameStarted and GameEnded
	require.Len(t, subscriber.receivedEvents, 2)
	assert.Equal(t, TypeGameStarted, subscriber.receivedEvents[0].Type())
	assert.Equal(t, TypeGameEnded, subscriber.receivedEvents[1].Type())

	bus.Unsubscribe(subscriber.ID())
	assert.Equal(t, 0, bus.SubscriberCount())
	bus.Publish(NewGameStartedEvent("test-session", 2))

	assert.Len(t, subscriber.receivedEvents, 2)
}

type panickingSubscriber struct{}

func (panickingSubscriber) ID() string                 { return "panicker" }
func (panickingSubscriber) HandleEvent(Event)          { panic("boom") }
func (panickingSubscriber) InterestedIn(_ string) bool { return true }

func TestEventBusRecoversFromPanics(t *testing.T) {
	var buf bytes.Buffer
	bus := NewEventBusWithLogger(zerolog.New(&buf))

	bus.Subscribe(panickingSubscriber{})
	calls := 0
	bus.SubscribeFunc(TypeAgentMoveDiscarded, func(Event) { panic("func boom") })
	bus.SubscribeFunc(TypeAgentMoveDiscarded, func(Event) { calls++ })

	assert.NotPanics(t, func() {
		bus.Publish(NewAgentMoveDiscardedEvent("test-session", 1, 2))
	})
	assert.Equal(t, 1, calls, "handlers after a panicking one still run")
	assert.Contains(t, buf.String(), "panicked")
}

func TestEventConstructors(t *testing.T) {
	ended := NewGameEndedEvent("s", core.SideAgent, 5, 8, 9, 3*time.Second)
	assert.Equal(t, core.SideAgent, ended.Winner)
	assert.Equal(t, 5, ended.PlayerHits)
	assert.Equal(t, 8, ended.AgentHits)
	assert.Equal(t, 9, ended.FinalTurn)
	assert.False(t, ended.Timestamp().IsZero())

	failed := NewAgentMoveFailedEvent("s", 4, errors.New("timeout"))
	assert.Equal(t, "timeout", failed.Reason)
	assert.Equal(t, 4, failed.Turn)

	transition := NewStateTransitionEvent("s", "InProgress", "Finished", "plane sunk")
	assert.Equal(t, TypeStateTransition, transition.Type())
	assert.Equal(t, "Finished", transition.ToPhase)
}

func TestEventBusUnsubscribeFunc(t *testing.T) {
	bus := NewEventBusWithLogger(zerolog.Nop())

	calls := 0
	id := bus.SubscribeFunc(TypeGameStarted, func(Event) { calls++ })
	other := bus.SubscribeFunc(TypeGameStarted, func(Event) {})

	bus.Publish(NewGameStartedEvent("s", 1))
	assert.True(t, bus.UnsubscribeFunc(id))
	assert.False(t, bus.UnsubscribeFunc(id))
	bus.Publish(NewGameStartedEvent("s", 2))

	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, bus.HandlerCount(TypeGameStarted))
	assert.True(t, bus.UnsubscribeFunc(other))
	assert.Zero(t, bus.HandlerCount(TypeGameStarted))
}

func TestEventBusHandlerMayPublish(t *testing.T) {
	bus := NewEventBusWithLogger(zerolog.Nop())

	var seen []string
	bus.SubscribeFunc(TypeGameStarted, func(e Event) {
		seen = append(seen, e.Type())
		bus.Publish(NewStateTransitionEvent(e.SessionID(), "Initializing", "InProgress", "started"))
	})
	bus.SubscribeFunc(TypeStateTransition, func(e Event) {
		seen = append(seen, e.Type())
	})

	done := make(chan struct{})
	go func() {
		defer close(done)
		bus.Publish(NewGameStartedEvent("s", 1))
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("nested publish deadlocked")
	}
	assert.Equal(t, []string{TypeGameStarted, TypeStateTransition}, seen)
}

func TestEventBusPublishAllKeepsOrder(t *testing.T) {
	bus := NewEventBusWithLogger(zerolog.Nop())

	var generations []uint64
	bus.SubscribeFunc(TypeGameStarted, func(e Event) {
		generations = append(generations, e.(*GameStartedEvent).Generation)
	})

	bus.PublishAll([]Event{
		NewGameStartedEvent("s", 1),
		NewGameStartedEvent("s", 2),
		NewGameStartedEvent("s", 3),
	})
	bus.PublishAll(nil)

	assert.Equal(t, []uint64{1, 2, 3}, generations)
}
