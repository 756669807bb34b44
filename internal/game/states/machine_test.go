package states

import (
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitchelldurbincs/PlaneStrikeRL/internal/game/events"
)

func TestGamePhase_String(t *testing.T) {
	tests := []struct {
		phase    GamePhase
		expected string
	}{
		{PhaseInitializing, "Initializing"},
		{PhaseInProgress, "InProgress"},
		{PhaseFinished, "Finished"},
		{GamePhase(999), "Unknown(999)"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.phase.String())
		})
	}
}

func TestGamePhase_Properties(t *testing.T) {
	assert.True(t, PhaseFinished.IsTerminal())
	assert.False(t, PhaseInProgress.IsTerminal())

	assert.True(t, PhaseInProgress.CanReceiveStrikes())
	assert.False(t, PhaseInitializing.CanReceiveStrikes())
	assert.False(t, PhaseFinished.CanReceiveStrikes())
}

func TestGamePhase_Transitions(t *testing.T) {
	tests := []struct {
		from    GamePhase
		allowed []GamePhase
	}{
		{PhaseInitializing, []GamePhase{PhaseInProgress}},
		{PhaseInProgress, []GamePhase{PhaseInProgress, PhaseFinished}},
		{PhaseFinished, []GamePhase{PhaseInProgress}},
	}

	allPhases := []GamePhase{PhaseInitializing, PhaseInProgress, PhaseFinished}
	for _, tt := range tests {
		t.Run(tt.from.String(), func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.AllowedTransitions())

			for _, target := range allPhases {
				assert.Equal(t, containsPhase(tt.allowed, target), tt.from.CanTransitionTo(target),
					"%s -> %s", tt.from, target)
			}
		})
	}
}

func containsPhase(phases []GamePhase, p GamePhase) bool {
	for _, candidate := range phases {
		if candidate == p {
			return true
		}
	}
	return false
}

func TestGameContext(t *testing.T) {
	ctx := NewGameContext("session-1", zerolog.Nop())
	assert.Equal(t, "session-1", ctx.SessionID)
	assert.Equal(t, time.Duration(0), ctx.GetElapsedTime())

	ctx.StartTime = time.Now().Add(-10 * time.Second)
	elapsed := ctx.GetElapsedTime()
	assert.Greater(t, elapsed, 9*time.Second)
	assert.Less(t, elapsed, 11*time.Second)

	ctx.EndTime = ctx.StartTime.Add(3 * time.Second)
	assert.Equal(t, 3*time.Second, ctx.GetElapsedTime())
}

func TestStateMachine(t *testing.T) {
	setup := func() (*StateMachine, *GameContext, *[]events.Event) {
		ctx := NewGameContext("session-1", zerolog.Nop())
		bus := events.NewEventBusWithLogger(zerolog.Nop())
		var received []events.Event
		bus.SubscribeFunc(events.TypeStateTransition, func(e events.Event) {
			received = append(received, e)
		})
		return NewStateMachine(ctx, bus), ctx, &received
	}

	t.Run("NewStateMachine", func(t *testing.T) {
		sm, _, _ := setup()
		assert.Equal(t, PhaseInitializing, sm.CurrentPhase())
		assert.Len(t, sm.states, 3)
		assert.Empty(t, sm.GetHistory())
	})

	t.Run("FullGame", func(t *testing.T) {
		sm, ctx, received := setup()

		require.NoError(t, sm.TransitionTo(PhaseInProgress, "boards dealt"))
		assert.Equal(t, PhaseInProgress, sm.CurrentPhase())
		assert.False(t, ctx.StartTime.IsZero())

		ctx.Winner = "player"
		require.NoError(t, sm.TransitionTo(PhaseFinished, "agent plane sunk"))
		assert.Equal(t, PhaseFinished, sm.CurrentPhase())
		assert.False(t, ctx.EndTime.IsZero())

		require.Len(t, *received, 2)
		last := (*received)[1].(*events.StateTransitionEvent)
		assert.Equal(t, "InProgress", last.FromPhase)
		assert.Equal(t, "Finished", last.ToPhase)
		assert.Equal(t, "session-1", last.SessionID())
	})

	t.Run("InvalidTransitions", func(t *testing.T) {
		sm, ctx, _ := setup()

		ctx.Winner = "agent"
		err := sm.TransitionTo(PhaseFinished, "skip the game")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid transition")
		assert.Equal(t, PhaseInitializing, sm.CurrentPhase())
	})

	t.Run("FinishedRequiresWinner", func(t *testing.T) {
		sm, _, _ := setup()
		require.NoError(t, sm.TransitionTo(PhaseInProgress, "boards dealt"))

		err := sm.TransitionTo(PhaseFinished, "no winner")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "requires a winner")
		assert.Equal(t, PhaseInProgress, sm.CurrentPhase())
	})

	t.Run("RestartSwapsSession", func(t *testing.T) {
		sm, ctx, received := setup()
		require.NoError(t, sm.TransitionTo(PhaseInProgress, "boards dealt"))
		ctx.Winner = "agent"
		require.NoError(t, sm.TransitionTo(PhaseFinished, "player plane sunk"))

		next := NewGameContext("session-2", zerolog.Nop())
		require.NoError(t, sm.Restart(next, "reset"))
		assert.Equal(t, PhaseInProgress, sm.CurrentPhase())
		assert.Same(t, next, sm.GetContext())

		history := sm.GetHistory()
		require.Len(t, history, 3)
		assert.Equal(t, PhaseFinished, history[2].From)
		assert.Equal(t, PhaseInProgress, history[2].To)
		assert.Equal(t, "session-2", history[2].SessionID)
		assert.Equal(t, "session-2", (*received)[2].SessionID())
	})

	t.Run("RestartRejectsEmptySession", func(t *testing.T) {
		sm, ctx, _ := setup()
		require.NoError(t, sm.TransitionTo(PhaseInProgress, "boards dealt"))

		err := sm.Restart(NewGameContext("", zerolog.Nop()), "reset")
		require.Error(t, err)
		assert.Same(t, ctx, sm.GetContext())
	})

	t.Run("CanTransitionTo", func(t *testing.T) {
		sm, _, _ := setup()
		assert.True(t, sm.CanTransitionTo(PhaseInProgress))
		assert.False(t, sm.CanTransitionTo(PhaseFinished))
	})
}

// MockState for testing custom state implementations
type MockState struct {
	phase       GamePhase
	enterCalled bool
	exitCalled  bool
	enterError  error
	exitError   error
}

func (m *MockState) Phase() GamePhase            { return m.phase }
func (m *MockState) Enter(*GameContext) error    { m.enterCalled = true; return m.enterError }
func (m *MockState) Exit(*GameContext) error     { m.exitCalled = true; return m.exitError }
func (m *MockState) Validate(*GameContext) error { return nil }

func TestStateMachine_CustomStates(t *testing.T) {
	ctx := NewGameContext("session-1", zerolog.Nop())
	sm := NewStateMachine(ctx, nil)

	initMock := &MockState{phase: PhaseInitializing, exitError: errors.New("exit failed")}
	progressMock := &MockState{phase: PhaseInProgress}
	sm.RegisterState(initMock)
	sm.RegisterState(progressMock)

	require.NoError(t, sm.TransitionTo(PhaseInProgress, "test"), "exit errors do not block a transition")
	assert.True(t, initMock.exitCalled)
	assert.True(t, progressMock.enterCalled)

	failing := &MockState{phase: PhaseFinished, enterError: errors.New("enter failed")}
	sm.RegisterState(failing)
	err := sm.TransitionTo(PhaseFinished, "test")
	require.Error(t, err)
	assert.Equal(t, PhaseInProgress, sm.CurrentPhase(), "enter failure rolls back")
	assert.Len(t, sm.GetHistory(), 1)
}
