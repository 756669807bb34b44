package experience

import (
	"time"

	"github.com/google/uuid"

	"github.com/mitchelldurbincs/PlaneStrikeRL/internal/game"
	"github.com/mitchelldurbincs/PlaneStrikeRL/internal/game/core"
	"github.com/mitchelldurbincs/PlaneStrikeRL/internal/predictor"
)

// Experience is one (state, action, reward, next state) transition of a single side.
// States use the predictor encoding of the board the side attacks.
type Experience struct {
	ExperienceID string
	SessionID    string
	Side         core.Side
	Turn         int
	State        []float32
	Action       int
	Reward       float32
	NextState    []float32
	Done         bool
	// ActionMask marks the cells that were legal targets in State
	ActionMask  []bool
	CollectedAt time.Time
}

// NewExperience builds the transition that took prev to curr for side.
func NewExperience(prev, curr game.GameState, side core.Side, target core.Coordinate, rewards *RewardConfig) *Experience {
	before := core.Observe(prev.TargetBoard(side))
	after := core.Observe(curr.TargetBoard(side))
	_, done := curr.Winner()

	return &Experience{
		ExperienceID: uuid.New().String(),
		SessionID:    curr.SessionID,
		Side:         side,
		Turn:         curr.Turn,
		State:        predictor.Encode(before),
		Action:       target.ToIndex(core.BoardSize),
		Reward:       CalculateRewardWithConfig(prev, curr, side, rewards),
		NextState:    predictor.Encode(after),
		Done:         done,
		ActionMask:   actionMask(before),
		CollectedAt:  time.Now(),
	}
}

func actionMask(obs core.Observation) []bool {
	cells := obs.Cells()
	mask := make([]bool, len(cells))
	for i, c := range cells {
		mask[i] = !c.IsResolved()
	}
	return mask
}
