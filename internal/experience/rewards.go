package experience

import (
	"github.com/mitchelldurbincs/PlaneStrikeRL/internal/game"
	"github.com/mitchelldurbincs/PlaneStrikeRL/internal/game/core"
)

// RewardConfig holds configurable reward values
type RewardConfig struct {
	WinGame  float32
	LoseGame float32
	Hit      float32
	Miss     float32
}

// DefaultRewardConfig returns the default reward configuration
func DefaultRewardConfig() *RewardConfig {
	return &RewardConfig{
		WinGame:  1.0,
		LoseGame: -1.0,
		Hit:      0.1,
		Miss:     -0.01,
	}
}

// CalculateReward computes the reward for side given a state transition
func CalculateReward(prev, curr game.GameState, side core.Side) float32 {
	return CalculateRewardWithConfig(prev, curr, side, DefaultRewardConfig())
}

// CalculateRewardWithConfig computes reward using custom configuration.
// A finished game yields only the terminal reward.
func CalculateRewardWithConfig(prev, curr game.GameState, side core.Side, config *RewardConfig) float32 {
	if config == nil {
		config = DefaultRewardConfig()
	}

	if winner, ok := curr.Winner(); ok {
		if winner == side {
			return config.WinGame
		}
		return config.LoseGame
	}

	reward := float32(0.0)
	hits := curr.Hits(side) - prev.Hits(side)
	reward += float32(hits) * config.Hit

	resolved := countResolved(curr.TargetBoard(side)) - countResolved(prev.TargetBoard(side))
	reward += float32(resolved-hits) * config.Miss

	return reward
}

func countResolved(b core.Board) int {
	return b.Count(core.CellHit) + b.Count(core.CellMiss)
}
