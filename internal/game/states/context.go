package states

import (
	"time"

	"github.com/rs/zerolog"
)

// GameContext provides session information to states for making decisions
type GameContext struct {
	// SessionID identifies the game session the phase belongs to
	SessionID string

	// Logger for state-specific logging
	Logger zerolog.Logger

	// StartTime is when PhaseInProgress was entered
	StartTime time.Time

	// EndTime is when PhaseFinished was entered
	EndTime time.Time

	// Winner names the side that finished the game, empty while in progress
	Winner string
}

// NewGameContext creates a new game context
func NewGameContext(sessionID string, logger zerolog.Logger) *GameContext {
	return &GameContext{
		SessionID: sessionID,
		Logger:    logger.With().Str("session_id", sessionID).Logger(),
	}
}

// GetElapsedTime returns the time elapsed since the session started.
// A finished session reports its final duration.
func (gc *GameContext) GetElapsedTime() time.Duration {
	if gc.StartTime.IsZero() {
		return 0
	}
	if !gc.EndTime.IsZero() {
		return gc.EndTime.Sub(gc.StartTime)
	}
	return time.Since(gc.StartTime)
}
