package game

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/PlaneStrikeRL/internal/game/events"
	"github.com/mitchelldurbincs/PlaneStrikeRL/internal/game/mapgen"
	"github.com/mitchelldurbincs/PlaneStrikeRL/internal/game/states"
)

// DefaultStreamBuffer is the per-subscriber snapshot buffer when none is configured
const DefaultStreamBuffer = 16

// EngineInitializer handles the construction of a game engine
type EngineInitializer struct {
	config GameConfig
	logger zerolog.Logger
}

// NewEngineInitializer creates a new engine initializer
func NewEngineInitializer(cfg GameConfig) *EngineInitializer {
	logger := cfg.Logger.With().Str("component", "GameEngine").Logger()
	return &EngineInitializer{
		config: cfg,
		logger: logger,
	}
}

// Initialize creates an engine and deals the first game
func (ei *EngineInitializer) Initialize(ctx context.Context) (*Engine, error) {
	select {
	case <-ctx.Done():
		ei.logger.Error().Err(ctx.Err()).Msg("Engine creation cancelled or timed out during initial phase")
		return nil, ctx.Err()
	default:
	}

	if ei.config.Chooser == nil {
		ei.logger.Error().Msg("Engine configured without a target chooser")
		return nil, ErrNoChooser
	}

	ei.setupDefaults()

	engine := ei.createEngine()

	if _, err := engine.Reset(ctx); err != nil {
		return nil, fmt.Errorf("initial deal failed: %w", err)
	}

	ei.logger.Info().
		Int("board_size", mapgen.DefaultMapConfig().BoardSize).
		Int("stream_buffer", ei.config.StreamBuffer).
		Msg("Engine created successfully")

	return engine, nil
}

// setupDefaults sets up default values for missing configuration
func (ei *EngineInitializer) setupDefaults() {
	if ei.config.Generator == nil {
		ei.logger.Debug().Msg("No board generator provided, using clock-seeded generator")
		ei.config.Generator = mapgen.NewGenerator(mapgen.DefaultMapConfig(), nil)
	}

	if ei.config.EventBus == nil {
		ei.config.EventBus = events.NewEventBusWithLogger(ei.logger)
	}

	if ei.config.StreamBuffer <= 0 {
		ei.config.StreamBuffer = DefaultStreamBuffer
	}
}

// createEngine creates the engine with all its components
func (ei *EngineInitializer) createEngine() *Engine {
	outbox := &eventOutbox{}
	stateMachine := states.NewStateMachine(states.NewGameContext("", ei.logger), outbox)

	engine := &Engine{
		turnSem:      make(chan struct{}, 1),
		generator:    ei.config.Generator,
		chooser:      ei.config.Chooser,
		logger:       ei.logger,
		eventBus:     ei.config.EventBus,
		outbox:       outbox,
		stateMachine: stateMachine,
		stream:       NewStreamManager(ei.config.StreamBuffer, ei.logger),
	}
	engine.turnProcessor = NewTurnProcessor(engine)

	return engine
}
