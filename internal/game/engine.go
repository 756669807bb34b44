package game

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/PlaneStrikeRL/internal/game/core"
	"github.com/mitchelldurbincs/PlaneStrikeRL/internal/game/events"
	"github.com/mitchelldurbincs/PlaneStrikeRL/internal/game/states"
)

var (
	ErrAgentTurnPending   = errors.New("agent turn pending")
	ErrNoAgentTurnPending = errors.New("no agent turn pending")
	ErrTurnSuperseded     = errors.New("turn superseded by reset")
	ErrNoChooser          = errors.New("no target chooser configured")
)

// BoardGenerator deals a fresh board with one plane placed.
type BoardGenerator interface {
	GenerateBoard() core.Board
}

// TargetChooser picks the agent's next strike from the masked player board.
type TargetChooser interface {
	ChooseTarget(ctx context.Context, obs core.Observation) (core.Coordinate, error)
}

// GameConfig holds the collaborators of an Engine. Only Chooser is required.
type GameConfig struct {
	Generator    BoardGenerator
	Chooser      TargetChooser
	Logger       zerolog.Logger
	EventBus     *events.EventBus
	StreamBuffer int
}

// Engine runs one plane strike session between a player and a predictor-driven agent.
//
// turnSem serializes whole player-then-agent cycles; mu guards state and is
// never held while the chooser runs. Reset only takes mu, so it can interrupt
// an in-flight agent turn.
type Engine struct {
	turnSem chan struct{}

	mu          sync.RWMutex
	state       GameState
	cancelAgent context.CancelFunc

	generator     BoardGenerator
	chooser       TargetChooser
	logger        zerolog.Logger
	eventBus      *events.EventBus
	outbox        *eventOutbox
	stateMachine  *states.StateMachine
	stream        *StreamManager
	turnProcessor *TurnProcessor
}

// NewEngine creates a new engine and deals the first game
func NewEngine(ctx context.Context, cfg GameConfig) (*Engine, error) {
	return NewEngineInitializer(cfg).Initialize(ctx)
}

// Reset deals two fresh boards and starts a new session. An agent turn in
// flight is cancelled and its result discarded when it arrives.
func (e *Engine) Reset(ctx context.Context) (GameState, error) {
	if err := ctx.Err(); err != nil {
		return e.Snapshot(), err
	}

	e.mu.Lock()
	if e.cancelAgent != nil {
		e.cancelAgent()
		e.cancelAgent = nil
	}

	prev := e.state
	next := GameState{
		SessionID:   uuid.NewString(),
		Generation:  prev.Generation + 1,
		PlayerBoard: e.generator.GenerateBoard(),
		AgentBoard:  e.generator.GenerateBoard(),
	}

	reason := "reset"
	if prev.SessionID == "" {
		reason = "engine initialized"
	}
	if err := e.stateMachine.Restart(states.NewGameContext(next.SessionID, e.logger), reason); err != nil {
		e.mu.Unlock()
		e.flushEvents()
		return prev, fmt.Errorf("failed to restart state machine: %w", err)
	}

	e.state = next
	e.outbox.Publish(events.NewGameStartedEvent(next.SessionID, next.Generation))
	e.stream.Broadcast(next)
	e.mu.Unlock()

	e.flushEvents()

	e.logger.Info().
		Str("session_id", next.SessionID).
		Uint64("generation", next.Generation).
		Str("previous_session_id", prev.SessionID).
		Msg("Game reset")

	return next, nil
}

// PlayerStrike resolves the player's strike on the agent board and, unless the
// game ended, the agent's counter-strike on the player board.
func (e *Engine) PlayerStrike(ctx context.Context, target core.Coordinate) (GameState, error) {
	if err := e.acquireTurn(ctx); err != nil {
		return e.Snapshot(), err
	}
	defer e.releaseTurn()

	return e.turnProcessor.ProcessPlayerStrike(ctx, target)
}

// ResumeAgentTurn retries an agent half-turn left pending by a predictor failure.
func (e *Engine) ResumeAgentTurn(ctx context.Context) (GameState, error) {
	if err := e.acquireTurn(ctx); err != nil {
		return e.Snapshot(), err
	}
	defer e.releaseTurn()

	return e.turnProcessor.ResumeAgentStrike(ctx)
}

func (e *Engine) acquireTurn(ctx context.Context) error {
	select {
	case e.turnSem <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (e *Engine) releaseTurn() {
	<-e.turnSem
}

// Snapshot returns a copy of the current state.
func (e *Engine) Snapshot() GameState {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.state
}

// Subscribe registers a snapshot stream. The current state is delivered first.
func (e *Engine) Subscribe() *Subscription {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.stream.Register(e.state)
}

// Unsubscribe closes the subscription's channel.
func (e *Engine) Unsubscribe(id string) bool {
	return e.stream.Unregister(id)
}

// Phase returns the current game phase
func (e *Engine) Phase() states.GamePhase {
	return e.stateMachine.CurrentPhase()
}

// History returns the phase transitions recorded so far
func (e *Engine) History() []states.Transition {
	return e.stateMachine.GetHistory()
}

// EventBus returns the bus game events are published on
func (e *Engine) EventBus() *events.EventBus {
	return e.eventBus
}

// Close cancels any agent turn in flight and closes every subscription.
func (e *Engine) Close() {
	e.mu.Lock()
	if e.cancelAgent != nil {
		e.cancelAgent()
		e.cancelAgent = nil
	}
	e.mu.Unlock()

	e.logger.Debug().
		Int("subscribers", e.stream.SubscriberCount()).
		Msg("Closing engine")
	e.stream.CloseAll()
}

// flushEvents publishes queued events. It must be called without holding mu.
func (e *Engine) flushEvents() {
	e.eventBus.PublishAll(e.outbox.drain())
}

// eventOutbox queues events raised while the engine mutex is held.
type eventOutbox struct {
	mu      sync.Mutex
	pending []events.Event
}

func (o *eventOutbox) Publish(ev events.Event) {
	o.mu.Lock()
	o.pending = append(o.pending, ev)
	o.mu.Unlock()
}

func (o *eventOutbox) drain() []events.Event {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := o.pending
	o.pending = nil
	return out
}
