package predictor

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/mitchelldurbincs/PlaneStrikeRL/internal/game/core"
)

// lockedRand serializes access to a *rand.Rand, which is not safe for concurrent use.
type lockedRand struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func newLockedRand(rng *rand.Rand) *lockedRand {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &lockedRand{rng: rng}
}

func (r *lockedRand) pick(candidates []core.Coordinate) core.Coordinate {
	r.mu.Lock()
	defer r.mu.Unlock()
	return candidates[r.rng.Intn(len(candidates))]
}

// RandomPredictor strikes a uniformly random unresolved cell.
type RandomPredictor struct {
	rng *lockedRand
}

// NewRandomPredictor creates a RandomPredictor. A nil rng seeds from the clock.
func NewRandomPredictor(rng *rand.Rand) *RandomPredictor {
	return &RandomPredictor{rng: newLockedRand(rng)}
}

func (p *RandomPredictor) Predict(ctx context.Context, input []float32) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	cells, err := decodeInput(input)
	if err != nil {
		return 0, err
	}
	candidates := unresolved(cells)
	if len(candidates) == 0 {
		return 0, ErrNoTargets
	}
	return p.rng.pick(candidates).ToIndex(core.BoardSize), nil
}

// HuntPredictor finishes off a wounded plane before searching elsewhere:
// it targets unresolved neighbours of known hits, otherwise a random unresolved cell.
type HuntPredictor struct {
	rng *lockedRand
}

// NewHuntPredictor creates a HuntPredictor. A nil rng seeds from the clock.
func NewHuntPredictor(rng *rand.Rand) *HuntPredictor {
	return &HuntPredictor{rng: newLockedRand(rng)}
}

func (p *HuntPredictor) Predict(ctx context.Context, input []float32) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	cells, err := decodeInput(input)
	if err != nil {
		return 0, err
	}

	var targets []core.Coordinate
	seen := make(map[core.Coordinate]bool)
	for i, c := range cells {
		if c != core.CellHit {
			continue
		}
		for _, n := range core.FromIndex(i, core.BoardSize).ValidNeighbors(core.BoardSize) {
			if seen[n] || cells[n.ToIndex(core.BoardSize)].IsResolved() {
				continue
			}
			seen[n] = true
			targets = append(targets, n)
		}
	}
	if len(targets) == 0 {
		targets = unresolved(cells)
	}
	if len(targets) == 0 {
		return 0, ErrNoTargets
	}
	return p.rng.pick(targets).ToIndex(core.BoardSize), nil
}

func unresolved(cells []core.Cell) []core.Coordinate {
	var out []core.Coordinate
	for i, c := range cells {
		if !c.IsResolved() {
			out = append(out, core.FromIndex(i, core.BoardSize))
		}
	}
	return out
}
