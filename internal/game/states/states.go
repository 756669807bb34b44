package states

import (
	"errors"
	"time"
)

// InitializingState is the phase before the first deal
type InitializingState struct{}

func NewInitializingState() State {
	return &InitializingState{}
}

func (s *InitializingState) Phase() GamePhase {
	return PhaseInitializing
}

func (s *InitializingState) Enter(ctx *GameContext) error {
	ctx.Logger.Debug().Msg("Entering Initializing state")
	return nil
}

func (s *InitializingState) Exit(ctx *GameContext) error {
	ctx.Logger.Debug().Msg("Exiting Initializing state")
	return nil
}

func (s *InitializingState) Validate(ctx *GameContext) error {
	return nil
}

// InProgressState represents active play
type InProgressState struct{}

func NewInProgressState() State {
	return &InProgressState{}
}

func (s *InProgressState) Phase() GamePhase {
	return PhaseInProgress
}

func (s *InProgressState) Enter(ctx *GameContext) error {
	ctx.StartTime = time.Now()
	ctx.EndTime = time.Time{}
	ctx.Winner = ""
	ctx.Logger.Info().Msg("Boards dealt, game in progress")
	return nil
}

func (s *InProgressState) Exit(ctx *GameContext) error {
	ctx.Logger.Debug().
		Dur("elapsed", ctx.GetElapsedTime()).
		Msg("Leaving InProgress state")
	return nil
}

func (s *InProgressState) Validate(ctx *GameContext) error {
	if ctx.SessionID == "" {
		return errors.New("session id is required to start a game")
	}
	return nil
}

// FinishedState is entered once either plane is sunk
type FinishedState struct{}

func NewFinishedState() State {
	return &FinishedState{}
}

func (s *FinishedState) Phase() GamePhase {
	return PhaseFinished
}

func (s *FinishedState) Enter(ctx *GameContext) error {
	ctx.EndTime = time.Now()
	ctx.Logger.Info().
		Str("winner", ctx.Winner).
		Dur("duration", ctx.GetElapsedTime()).
		Msg("Game finished")
	return nil
}

func (s *FinishedState) Exit(ctx *GameContext) error {
	ctx.Logger.Debug().Msg("Leaving Finished state")
	return nil
}

func (s *FinishedState) Validate(ctx *GameContext) error {
	if ctx.Winner == "" {
		return errors.New("finished state requires a winner")
	}
	return nil
}
