package states

import "fmt"

// GamePhase represents the current phase of a game
type GamePhase int

const (
	// PhaseInitializing - Engine constructed, no boards dealt yet
	PhaseInitializing GamePhase = iota

	// PhaseInProgress - Both boards dealt, strikes accepted
	PhaseInProgress

	// PhaseFinished - One side has sunk the other's plane
	PhaseFinished
)

// String returns the string representation of a GamePhase
func (p GamePhase) String() string {
	switch p {
	case PhaseInitializing:
		return "Initializing"
	case PhaseInProgress:
		return "InProgress"
	case PhaseFinished:
		return "Finished"
	default:
		return fmt.Sprintf("Unknown(%d)", p)
	}
}

// IsTerminal returns true if the phase represents a terminal state
func (p GamePhase) IsTerminal() bool {
	return p == PhaseFinished
}

// CanReceiveStrikes returns true if the game accepts strikes in this phase
func (p GamePhase) CanReceiveStrikes() bool {
	return p == PhaseInProgress
}

// AllowedTransitions returns the valid phases this phase can transition to.
// Re-entering InProgress is a reset.
func (p GamePhase) AllowedTransitions() []GamePhase {
	switch p {
	case PhaseInitializing:
		return []GamePhase{PhaseInProgress}
	case PhaseInProgress:
		return []GamePhase{PhaseInProgress, PhaseFinished}
	case PhaseFinished:
		return []GamePhase{PhaseInProgress}
	default:
		return []GamePhase{}
	}
}

// CanTransitionTo checks if a transition from this phase to the target phase is allowed
func (p GamePhase) CanTransitionTo(target GamePhase) bool {
	for _, phase := range p.AllowedTransitions() {
		if phase == target {
			return true
		}
	}
	return false
}
