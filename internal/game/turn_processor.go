package game

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/PlaneStrikeRL/internal/game/core"
	"github.com/mitchelldurbincs/PlaneStrikeRL/internal/game/events"
	"github.com/mitchelldurbincs/PlaneStrikeRL/internal/game/states"
)

// TurnProcessor handles the orchestration of a single player-then-agent turn.
// Callers must hold the engine's turn semaphore.
type TurnProcessor struct {
	engine *Engine
	logger zerolog.Logger
}

// NewTurnProcessor creates a new turn processor
func NewTurnProcessor(engine *Engine) *TurnProcessor {
	return &TurnProcessor{
		engine: engine,
		logger: engine.logger,
	}
}

// ProcessPlayerStrike applies the player's half-turn, then the agent's reply if the game goes on
func (tp *TurnProcessor) ProcessPlayerStrike(ctx context.Context, target core.Coordinate) (GameState, error) {
	e := tp.engine

	if err := tp.checkContext(ctx, "before player strike"); err != nil {
		return e.Snapshot(), err
	}

	e.mu.Lock()
	s := e.state
	if err := tp.validatePlayerStrike(s, target); err != nil {
		e.mu.Unlock()
		return s, err
	}

	board, outcome, err := core.ResolveStrike(s.AgentBoard, target)
	if err != nil {
		// validatePlayerStrike already ran CheckTarget
		e.mu.Unlock()
		return s, core.WrapGameStateError(s.Turn, s.Phase().String(), core.WrapStrikeError(core.SidePlayer, target, err))
	}

	s.AgentBoard = board
	s.Turn++
	if outcome == core.OutcomeHit {
		s.PlayerHits++
	}
	s.LastPlayerStrike = core.StrikeResult{Side: core.SidePlayer, Target: target, Outcome: outcome}
	s.AgentTurnPending = !s.Finished()

	tp.commitLocked(s, s.LastPlayerStrike)
	e.mu.Unlock()
	e.flushEvents()

	turnLogger := tp.turnLogger(s)
	turnLogger.Debug().
		Int("row", target.Row).
		Int("col", target.Col).
		Str("outcome", outcome.String()).
		Int("player_hits", s.PlayerHits).
		Msg("Player strike resolved")

	if !s.AgentTurnPending {
		return s, nil
	}
	return tp.processAgentStrike(ctx, s.Generation)
}

// ResumeAgentStrike retries the agent half-turn left pending by a failure
func (tp *TurnProcessor) ResumeAgentStrike(ctx context.Context) (GameState, error) {
	e := tp.engine

	if err := tp.checkContext(ctx, "before agent retry"); err != nil {
		return e.Snapshot(), err
	}

	s := e.Snapshot()
	if !s.AgentTurnPending {
		return s, core.WrapGameStateError(s.Turn, s.Phase().String(), ErrNoAgentTurnPending)
	}
	return tp.processAgentStrike(ctx, s.Generation)
}

// processAgentStrike asks the chooser for a target without holding the state
// lock, then applies it unless a reset intervened.
func (tp *TurnProcessor) processAgentStrike(ctx context.Context, generation uint64) (GameState, error) {
	e := tp.engine

	e.mu.Lock()
	s := e.state
	if s.Generation != generation {
		e.mu.Unlock()
		return s, ErrTurnSuperseded
	}
	if !s.AgentTurnPending {
		e.mu.Unlock()
		return s, core.WrapGameStateError(s.Turn, s.Phase().String(), ErrNoAgentTurnPending)
	}
	agentCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	e.cancelAgent = cancel
	obs := core.Observe(s.PlayerBoard)
	e.mu.Unlock()

	turnLogger := tp.turnLogger(s)
	turnLogger.Debug().Msg("Requesting agent move")

	target, chooseErr := e.chooser.ChooseTarget(agentCtx, obs)

	e.mu.Lock()
	current := e.state
	if current.Generation != generation {
		// The reset already cleared cancelAgent
		e.mu.Unlock()
		tp.discardStaleResult(current, generation, target, chooseErr)
		return current, ErrTurnSuperseded
	}
	e.cancelAgent = nil

	if chooseErr == nil {
		if err := core.CheckTarget(current.PlayerBoard, target); err != nil {
			chooseErr = fmt.Errorf("%w: predicted %s: %w", core.ErrPredictorUnavailable, target, err)
		}
	}
	if chooseErr != nil {
		if !errors.Is(chooseErr, core.ErrPredictorUnavailable) {
			chooseErr = fmt.Errorf("%w: %w", core.ErrPredictorUnavailable, chooseErr)
		}
		e.outbox.Publish(events.NewAgentMoveFailedEvent(current.SessionID, current.Turn, chooseErr))
		e.mu.Unlock()
		e.flushEvents()

		turnLogger.Warn().Err(chooseErr).Msg("Agent move failed, agent turn left pending")
		return current, core.WrapGameStateError(current.Turn, current.Phase().String(), chooseErr)
	}

	board, outcome, err := core.ResolveStrike(current.PlayerBoard, target)
	if err != nil {
		e.mu.Unlock()
		return current, core.WrapGameStateError(current.Turn, current.Phase().String(), core.WrapStrikeError(core.SideAgent, target, err))
	}

	current.PlayerBoard = board
	if outcome == core.OutcomeHit {
		current.AgentHits++
	}
	current.LastAgentStrike = core.StrikeResult{Side: core.SideAgent, Target: target, Outcome: outcome}
	current.AgentTurnPending = false

	tp.commitLocked(current, current.LastAgentStrike)
	e.mu.Unlock()
	e.flushEvents()

	turnLogger.Debug().
		Int("row", target.Row).
		Int("col", target.Col).
		Str("outcome", outcome.String()).
		Int("agent_hits", current.AgentHits).
		Msg("Agent strike resolved")

	return current, nil
}

// commitLocked installs s, queues its events and broadcasts the snapshot. mu must be held.
func (tp *TurnProcessor) commitLocked(s GameState, strike core.StrikeResult) {
	e := tp.engine
	e.state = s
	e.outbox.Publish(events.NewStrikeResolvedEvent(s.SessionID, s.Turn, strike, s.Hits(strike.Side)))

	if winner, ok := s.Winner(); ok {
		tp.finishLocked(s, winner)
	}
	e.stream.Broadcast(s)
}

// finishLocked moves the state machine to Finished and queues the game ended event
func (tp *TurnProcessor) finishLocked(s GameState, winner core.Side) {
	e := tp.engine
	gameCtx := e.stateMachine.GetContext()
	gameCtx.Winner = winner.String()

	reason := fmt.Sprintf("%s plane sunk", winner.Opponent())
	if err := e.stateMachine.TransitionTo(states.PhaseFinished, reason); err != nil {
		tp.logger.Error().Err(err).Str("session_id", s.SessionID).Msg("Failed to transition to Finished state")
	}

	e.outbox.Publish(events.NewGameEndedEvent(
		s.SessionID, winner, s.PlayerHits, s.AgentHits, s.Turn, gameCtx.GetElapsedTime(),
	))

	tp.logger.Info().
		Str("session_id", s.SessionID).
		Str("winner", winner.String()).
		Int("player_hits", s.PlayerHits).
		Int("agent_hits", s.AgentHits).
		Int("turn", s.Turn).
		Msg("Game over")
}

// discardStaleResult drops an agent result that arrived after a reset
func (tp *TurnProcessor) discardStaleResult(current GameState, generation uint64, target core.Coordinate, err error) {
	e := tp.engine
	e.eventBus.Publish(events.NewAgentMoveDiscardedEvent(current.SessionID, generation, current.Generation))

	logEvent := tp.logger.Info().
		Uint64("stale_generation", generation).
		Uint64("current_generation", current.Generation)
	if err != nil {
		logEvent = logEvent.AnErr("predictor_error", err)
	} else {
		logEvent = logEvent.Str("target", target.String())
	}
	logEvent.Msg("Discarded agent move from a previous game")
}

// validatePlayerStrike checks every precondition of the player's half-turn
func (tp *TurnProcessor) validatePlayerStrike(s GameState, target core.Coordinate) error {
	phase := s.Phase()
	if !phase.CanReceiveStrikes() {
		tp.logger.Warn().
			Str("current_phase", phase.String()).
			Int("turn", s.Turn).
			Msg("Attempted to strike in phase that cannot receive strikes")
		if phase == states.PhaseFinished {
			return core.WrapGameStateError(s.Turn, phase.String(), core.ErrGameAlreadyFinished)
		}
		return fmt.Errorf("game is in %s phase and cannot receive strikes", phase)
	}

	if s.AgentTurnPending {
		return core.WrapGameStateError(s.Turn, phase.String(), ErrAgentTurnPending)
	}

	if err := core.CheckTarget(s.AgentBoard, target); err != nil {
		return core.WrapGameStateError(s.Turn, phase.String(), core.WrapStrikeError(core.SidePlayer, target, err))
	}
	return nil
}

// checkContext checks if the context is cancelled
func (tp *TurnProcessor) checkContext(ctx context.Context, phase string) error {
	select {
	case <-ctx.Done():
		tp.logger.Warn().
			Err(ctx.Err()).
			Str("phase", phase).
			Msg("Turn cancelled or timed out")
		return ctx.Err()
	default:
		return nil
	}
}

func (tp *TurnProcessor) turnLogger(s GameState) zerolog.Logger {
	return tp.logger.With().
		Str("session_id", s.SessionID).
		Int("turn", s.Turn).
		Logger()
}
