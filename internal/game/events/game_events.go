package events

import (
	"time"

	"github.com/mitchelldurbincs/PlaneStrikeRL/internal/game/core"
)

// Event type constants
const (
	TypeGameStarted        = "game.started"
	TypeGameEnded          = "game.ended"
	TypeStrikeResolved     = "strike.resolved"
	TypeAgentMoveFailed    = "agent.move_failed"
	TypeAgentMoveDiscarded = "agent.move_discarded"
	TypeStateTransition    = "state.transition"
)

// GameStartedEvent is published after every reset
type GameStartedEvent struct {
	BaseEvent
	Generation uint64
	BoardSize  int
}

// NewGameStartedEvent creates a new GameStartedEvent
func NewGameStartedEvent(sessionID string, generation uint64) *GameStartedEvent {
	return &GameStartedEvent{
		BaseEvent:  newBaseEvent(TypeGameStarted, sessionID),
		Generation: generation,
		BoardSize:  core.BoardSize,
	}
}

// StrikeResolvedEvent is published for each applied half-turn
type StrikeResolvedEvent struct {
	BaseEvent
	Turn    int
	Side    core.Side
	Target  core.Coordinate
	Outcome core.Outcome
	// Hits is the attacker's hit count after this strike
	Hits int
}

// NewStrikeResolvedEvent creates a new StrikeResolvedEvent
func NewStrikeResolvedEvent(sessionID string, turn int, result core.StrikeResult, hits int) *StrikeResolvedEvent {
	return &StrikeResolvedEvent{
		BaseEvent: newBaseEvent(TypeStrikeResolved, sessionID),
		Turn:      turn,
		Side:      result.Side,
		Target:    result.Target,
		Outcome:   result.Outcome,
		Hits:      hits,
	}
}

// AgentMoveFailedEvent is published when the predictor could not supply a usable target
type AgentMoveFailedEvent struct {
	BaseEvent
	Turn   int
	Reason string
}

// NewAgentMoveFailedEvent creates a new AgentMoveFailedEvent
func NewAgentMoveFailedEvent(sessionID string, turn int, err error) *AgentMoveFailedEvent {
	return &AgentMoveFailedEvent{
		BaseEvent: newBaseEvent(TypeAgentMoveFailed, sessionID),
		Turn:      turn,
		Reason:    err.Error(),
	}
}

// AgentMoveDiscardedEvent is published when a predictor result arrives after a reset
type AgentMoveDiscardedEvent struct {
	BaseEvent
	StaleGeneration   uint64
	CurrentGeneration uint64
}

// NewAgentMoveDiscardedEvent creates a new AgentMoveDiscardedEvent
func NewAgentMoveDiscardedEvent(sessionID string, stale, current uint64) *AgentMoveDiscardedEvent {
	return &AgentMoveDiscardedEvent{
		BaseEvent:         newBaseEvent(TypeAgentMoveDiscarded, sessionID),
		StaleGeneration:   stale,
		CurrentGeneration: current,
	}
}

// GameEndedEvent is published when either side sinks the opposing plane
type GameEndedEvent struct {
	BaseEvent
	Winner     core.Side
	PlayerHits int
	AgentHits  int
	FinalTurn  int
	Duration   time.Duration
}

// NewGameEndedEvent creates a new GameEndedEvent
func NewGameEndedEvent(sessionID string, winner core.Side, playerHits, agentHits, finalTurn int, duration time.Duration) *GameEndedEvent {
	return &GameEndedEvent{
		BaseEvent:  newBaseEvent(TypeGameEnded, sessionID),
		Winner:     winner,
		PlayerHits: playerHits,
		AgentHits:  agentHits,
		FinalTurn:  finalTurn,
		Duration:   duration,
	}
}

// StateTransitionEvent is published when the game state machine transitions between phases
type StateTransitionEvent struct {
	BaseEvent
	FromPhase string
	ToPhase   string
	Reason    string
}

// NewStateTransitionEvent creates a new StateTransitionEvent
func NewStateTransitionEvent(sessionID, fromPhase, toPhase, reason string) *StateTransitionEvent {
	return &StateTransitionEvent{
		BaseEvent: newBaseEvent(TypeStateTransition, sessionID),
		FromPhase: fromPhase,
		ToPhase:   toPhase,
		Reason:    reason,
	}
}
