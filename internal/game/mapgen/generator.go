package mapgen

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/mitchelldurbincs/PlaneStrikeRL/internal/game/core"
)

// MapConfig holds configuration for board generation
type MapConfig struct {
	BoardSize int
}

// DefaultMapConfig returns the only supported configuration
func DefaultMapConfig() MapConfig {
	return MapConfig{BoardSize: core.BoardSize}
}

// Generator places planes using an injected RNG so boards are reproducible under a fixed seed.
// A Generator is not safe for concurrent use.
type Generator struct {
	config MapConfig
	rng    *rand.Rand
}

// NewGenerator creates a new board generator. A nil rng is seeded from the clock.
func NewGenerator(config MapConfig, rng *rand.Rand) *Generator {
	if config.BoardSize != core.BoardSize {
		panic(fmt.Sprintf("unsupported board size %d, only %d is supported", config.BoardSize, core.BoardSize))
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Generator{
		config: config,
		rng:    rng,
	}
}

// GenerateBoard creates an empty board with one randomly oriented plane on it
func (g *Generator) GenerateBoard() core.Board {
	board := core.NewBoard()

	orientation := Orientations[g.rng.Intn(len(Orientations))]
	anchor := g.randomAnchor(orientation)

	if err := PlacePlane(&board, orientation, anchor); err != nil {
		// randomAnchor only yields anchors inside AnchorRange
		panic(fmt.Sprintf("plane placement failed for %s at %s: %v", orientation, anchor, err))
	}

	return board
}

func (g *Generator) randomAnchor(o Orientation) core.Coordinate {
	rowMin, rowMax, colMin, colMax := AnchorRange(o, g.config.BoardSize)
	return core.Coordinate{
		Row: rowMin + g.rng.Intn(rowMax-rowMin+1),
		Col: colMin + g.rng.Intn(colMax-colMin+1),
	}
}
