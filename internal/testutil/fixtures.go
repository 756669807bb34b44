package testutil

import (
	"fmt"
	"math/rand"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mitchelldurbincs/PlaneStrikeRL/internal/game/core"
	"github.com/mitchelldurbincs/PlaneStrikeRL/internal/game/mapgen"
)

// BoardFromRows builds a board from text rows, one rune per cell:
// '.' empty, 'S' ship part, 'X' hit, 'o' miss.
func BoardFromRows(rows ...string) (core.Board, error) {
	b := core.NewBoard()
	if len(rows) != core.BoardSize {
		return b, fmt.Errorf("got %d rows, want %d", len(rows), core.BoardSize)
	}
	for r, row := range rows {
		runes := []rune(row)
		if len(runes) != core.BoardSize {
			return b, fmt.Errorf("row %d has %d cells, want %d", r, len(runes), core.BoardSize)
		}
		for c, ch := range runes {
			var cell core.Cell
			switch ch {
			case '.':
				cell = core.CellEmpty
			case 'S':
				cell = core.CellShip
			case 'X':
				cell = core.CellHit
			case 'o':
				cell = core.CellMiss
			default:
				return b, fmt.Errorf("unknown cell %q at (%d,%d)", ch, r, c)
			}
			if err := b.Set(core.NewCoordinate(r, c), cell); err != nil {
				return b, err
			}
		}
	}
	return b, nil
}

// MustBoard is BoardFromRows that fails the test on error.
func MustBoard(t *testing.T, rows ...string) core.Board {
	t.Helper()
	b, err := BoardFromRows(rows...)
	require.NoError(t, err)
	return b
}

// PlaneBoard returns an empty board with one plane placed at anchor.
func PlaneBoard(t *testing.T, o mapgen.Orientation, anchor core.Coordinate) core.Board {
	t.Helper()
	b := core.NewBoard()
	require.NoError(t, mapgen.PlacePlane(&b, o, anchor))
	return b
}

// FixedBoards hands out the given boards in order, cycling when exhausted.
type FixedBoards struct {
	mu     sync.Mutex
	boards []core.Board
	next   int
}

func NewFixedBoards(boards ...core.Board) *FixedBoards {
	return &FixedBoards{boards: boards}
}

func (f *FixedBoards) GenerateBoard() core.Board {
	f.mu.Lock()
	defer f.mu.Unlock()
	b := f.boards[f.next%len(f.boards)]
	f.next++
	return b
}

// NewTestRNG returns a deterministic source for generators and predictors.
func NewTestRNG(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}
