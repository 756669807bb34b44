package experience

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/PlaneStrikeRL/internal/game"
	"github.com/mitchelldurbincs/PlaneStrikeRL/internal/game/core"
)

// Collector turns consecutive engine snapshots into experiences.
//
// Each snapshot differs from its predecessor by one resolved cell. When a
// subscriber channel dropped snapshots the difference is larger; such gaps
// are counted and skipped.
type Collector struct {
	mu      sync.Mutex
	buffer  *Buffer
	rewards *RewardConfig
	sides   []core.Side
	prev    game.GameState
	hasPrev bool

	collected int64
	gaps      int64

	logger zerolog.Logger
}

// CollectorOption configures a Collector
type CollectorOption func(*Collector)

// WithRewardConfig overrides the default rewards
func WithRewardConfig(cfg *RewardConfig) CollectorOption {
	return func(c *Collector) { c.rewards = cfg }
}

// WithSides limits collection to the given sides. Both are collected by default.
func WithSides(sides ...core.Side) CollectorOption {
	return func(c *Collector) { c.sides = sides }
}

// NewCollector creates a collector writing into buffer
func NewCollector(buffer *Buffer, logger zerolog.Logger, opts ...CollectorOption) *Collector {
	c := &Collector{
		buffer:  buffer,
		rewards: DefaultRewardConfig(),
		sides:   []core.Side{core.SidePlayer, core.SideAgent},
		logger:  logger.With().Str("component", "experience_collector").Logger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// OnSnapshot records the transitions between the previous snapshot and s
func (c *Collector) OnSnapshot(s game.GameState) {
	c.mu.Lock()
	defer c.mu.Unlock()

	prev, hasPrev := c.prev, c.hasPrev
	c.prev, c.hasPrev = s, true

	if !hasPrev || prev.Generation != s.Generation {
		return
	}

	_, wasOver := prev.Winner()
	winner, over := s.Winner()

	for _, side := range c.sides {
		before, after := prev.TargetBoard(side), s.TargetBoard(side)
		if before == after {
			// The loser's board is untouched by the finishing strike but its
			// episode still ends here.
			if over && !wasOver && side != winner {
				c.collectTerminal(s, side)
			}
			continue
		}

		changed := changedCells(before, after)
		last := lastStrike(s, side)
		if len(changed) != 1 || last.IsZero() || changed[0] != last.Target {
			c.gaps++
			c.logger.Debug().
				Str("session_id", s.SessionID).
				Str("side", side.String()).
				Int("changed_cells", len(changed)).
				Msg("Skipping transition across dropped snapshots")
			continue
		}

		c.store(NewExperience(prev, s, side, last.Target, c.rewards))
	}
}

// collectTerminal closes the losing side's episode. Its state does not move,
// so the record repeats the side's last strike against the final board.
func (c *Collector) collectTerminal(s game.GameState, side core.Side) {
	last := lastStrike(s, side)
	if last.IsZero() {
		return
	}
	c.store(NewExperience(s, s, side, last.Target, c.rewards))
}

func (c *Collector) store(exp *Experience) {
	if err := c.buffer.Add(exp); err != nil {
		c.logger.Warn().Err(err).Msg("Failed to store experience")
		return
	}
	c.collected++

	c.logger.Debug().
		Str("experience_id", exp.ExperienceID).
		Str("side", exp.Side.String()).
		Int("turn", exp.Turn).
		Int("action", exp.Action).
		Float32("reward", exp.Reward).
		Bool("done", exp.Done).
		Msg("Collected experience")
}

// Run consumes snapshots until updates is closed or ctx ends
func (c *Collector) Run(ctx context.Context, updates <-chan game.GameState) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case s, ok := <-updates:
			if !ok {
				return nil
			}
			c.OnSnapshot(s)
		}
	}
}

// Stats reports how many experiences were stored and how many transitions were skipped
func (c *Collector) Stats() (collected, gaps int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.collected, c.gaps
}

func lastStrike(s game.GameState, side core.Side) core.StrikeResult {
	if side == core.SidePlayer {
		return s.LastPlayerStrike
	}
	return s.LastAgentStrike
}

func changedCells(before, after core.Board) []core.Coordinate {
	var out []core.Coordinate
	for row := 0; row < core.BoardSize; row++ {
		for col := 0; col < core.BoardSize; col++ {
			c := core.NewCoordinate(row, col)
			if before.At(c) != after.At(c) {
				out = append(out, c)
			}
		}
	}
	return out
}
