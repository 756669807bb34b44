package mapgen

import (
	"math/rand"
	"testing"

	"github.com/mitchelldurbincs/PlaneStrikeRL/internal/game/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestRNG provides a random number generator with a fixed seed for deterministic tests.
func newTestRNG() *rand.Rand {
	return rand.New(rand.NewSource(12345))
}

func TestDefaultMapConfig(t *testing.T) {
	assert.Equal(t, core.BoardSize, DefaultMapConfig().BoardSize)
}

func TestNewGenerator(t *testing.T) {
	config := DefaultMapConfig()
	rng := newTestRNG()
	generator := NewGenerator(config, rng)

	require.NotNil(t, generator)
	assert.Equal(t, config, generator.config)
	assert.Same(t, rng, generator.rng, "Generator rng should match input rng")

	assert.NotNil(t, NewGenerator(config, nil).rng, "nil rng falls back to a clock seed")

	assert.Panics(t, func() {
		NewGenerator(MapConfig{BoardSize: 10}, rng)
	}, "only the fixed board size is supported")
}

func TestGenerateBoard_PlaneInvariants(t *testing.T) {
	generator := NewGenerator(DefaultMapConfig(), newTestRNG())
	seen := make(map[Orientation]int)

	for i := 0; i < 500; i++ {
		board := generator.GenerateBoard()

		assert.Equal(t, core.ShipCells, board.Count(core.CellShip), "board %d ship cell count", i)
		assert.Equal(t, core.BoardSize*core.BoardSize-core.ShipCells, board.Count(core.CellEmpty))
		assert.Zero(t, board.Count(core.CellHit))
		assert.Zero(t, board.Count(core.CellMiss))

		for _, c := range board.Find(core.CellShip) {
			assert.True(t, c.IsValid(core.BoardSize), "ship cell %s out of range", c)
		}

		o, _, ok := MatchPlane(board)
		require.True(t, ok, "board %d does not hold a valid plane", i)
		seen[o]++
	}

	assert.Len(t, seen, len(Orientations), "every orientation should appear over 500 boards")
}

func TestGenerateBoard_Deterministic(t *testing.T) {
	a := NewGenerator(DefaultMapConfig(), rand.New(rand.NewSource(42)))
	b := NewGenerator(DefaultMapConfig(), rand.New(rand.NewSource(42)))

	for i := 0; i < 10; i++ {
		assert.Equal(t, a.GenerateBoard(), b.GenerateBoard(), "same seed must yield the same boards")
	}
}

func TestPlaneCells_AllAnchorsInBounds(t *testing.T) {
	placements := 0
	for _, o := range Orientations {
		rowMin, rowMax, colMin, colMax := AnchorRange(o, core.BoardSize)
		require.LessOrEqual(t, rowMin, rowMax, o.String())
		require.LessOrEqual(t, colMin, colMax, o.String())

		for r := rowMin; r <= rowMax; r++ {
			for c := colMin; c <= colMax; c++ {
				cells := PlaneCells(o, core.NewCoordinate(r, c))
				require.Len(t, cells, core.ShipCells)

				distinct := make(map[core.Coordinate]bool)
				for _, cell := range cells {
					assert.True(t, cell.IsValid(core.BoardSize), "%s anchor (%d,%d) produced %s", o, r, c, cell)
					distinct[cell] = true
				}
				assert.Len(t, distinct, core.ShipCells, "%s anchor (%d,%d) overlaps itself", o, r, c)
				placements++
			}
		}
	}
	assert.Equal(t, 120, placements)
}

func TestPlacePlane(t *testing.T) {
	t.Run("HeadingUp shape", func(t *testing.T) {
		board := core.NewBoard()
		require.NoError(t, PlacePlane(&board, HeadingUp, core.NewCoordinate(2, 3)))

		expected := []core.Coordinate{
			{Row: 1, Col: 3},
			{Row: 2, Col: 2}, {Row: 2, Col: 3}, {Row: 2, Col: 4},
			{Row: 3, Col: 3},
			{Row: 4, Col: 2}, {Row: 4, Col: 3}, {Row: 4, Col: 4},
		}
		assert.Equal(t, expected, board.Find(core.CellShip))

		o, anchor, ok := MatchPlane(board)
		require.True(t, ok)
		assert.Equal(t, HeadingUp, o)
		assert.Equal(t, core.NewCoordinate(2, 3), anchor)
	})

	t.Run("anchor outside range", func(t *testing.T) {
		board := core.NewBoard()
		err := PlacePlane(&board, HeadingRight, core.NewCoordinate(3, 1))
		assert.ErrorIs(t, err, core.ErrInvalidCoordinate)
		assert.Zero(t, board.Count(core.CellShip), "board must be untouched")
	})
}

func TestMatchPlane_RejectsOtherShapes(t *testing.T) {
	board := core.NewBoard()
	for c := 0; c < core.ShipCells; c++ {
		require.NoError(t, board.Set(core.NewCoordinate(0, c), core.CellShip))
	}
	_, _, ok := MatchPlane(board)
	assert.False(t, ok, "a straight line is not a plane")

	_, _, ok = MatchPlane(core.NewBoard())
	assert.False(t, ok)
}
