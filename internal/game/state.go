package game

import (
	"github.com/mitchelldurbincs/PlaneStrikeRL/internal/game/core"
	"github.com/mitchelldurbincs/PlaneStrikeRL/internal/game/states"
)

// GameState is an immutable snapshot of one session. The engine replaces it
// as a unit on every resolved half-turn; readers only ever hold copies.
type GameState struct {
	SessionID  string
	Generation uint64
	// Turn counts completed player strikes since the last reset
	Turn int

	// PlayerBoard hides the player's plane and is attacked by the agent
	PlayerBoard core.Board
	// AgentBoard hides the agent's plane and is attacked by the player
	AgentBoard core.Board

	PlayerHits int
	AgentHits  int

	// AgentTurnPending is set between the player's strike and the agent's reply
	AgentTurnPending bool

	LastPlayerStrike core.StrikeResult
	LastAgentStrike  core.StrikeResult
}

// Finished reports whether either plane has been sunk.
func (s GameState) Finished() bool {
	return s.PlayerHits >= core.ShipCells || s.AgentHits >= core.ShipCells
}

func (s GameState) Phase() states.GamePhase {
	switch {
	case s.SessionID == "":
		return states.PhaseInitializing
	case s.Finished():
		return states.PhaseFinished
	default:
		return states.PhaseInProgress
	}
}

// Winner returns the side that sank the opposing plane.
func (s GameState) Winner() (core.Side, bool) {
	switch {
	case s.PlayerHits >= core.ShipCells:
		return core.SidePlayer, true
	case s.AgentHits >= core.ShipCells:
		return core.SideAgent, true
	default:
		return 0, false
	}
}

// TargetBoard returns the board the given side attacks.
func (s GameState) TargetBoard(attacker core.Side) core.Board {
	if attacker == core.SidePlayer {
		return s.AgentBoard
	}
	return s.PlayerBoard
}

// Hits returns the hit counter of the given side.
func (s GameState) Hits(attacker core.Side) int {
	if attacker == core.SidePlayer {
		return s.PlayerHits
	}
	return s.AgentHits
}
