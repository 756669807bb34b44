package core

const (
	// BoardSize is the edge length of every board.
	BoardSize = 8
	// ShipCells is the number of cells a plane occupies, and so the number of hits needed to win.
	ShipCells = 8
)

// Board is a BoardSize x BoardSize grid stored row-major.
// It is a value type: assigning or passing a Board copies every cell.
type Board struct {
	cells [BoardSize * BoardSize]Cell
}

// NewBoard returns a board with every cell empty.
func NewBoard() Board { return Board{} }

func (b Board) Size() int { return BoardSize }

// InBounds checks if coordinates are within board boundaries
func (b Board) InBounds(row, col int) bool {
	return row >= 0 && row < BoardSize && col >= 0 && col < BoardSize
}

// At returns the cell at c. c must be in bounds.
func (b Board) At(c Coordinate) Cell {
	return b.cells[c.ToIndex(BoardSize)]
}

// Get safely returns the cell at c, false if c is out of bounds
func (b Board) Get(c Coordinate) (Cell, bool) {
	if !c.IsValid(BoardSize) {
		return CellEmpty, false
	}
	return b.cells[c.ToIndex(BoardSize)], true
}

// Set overwrites a single cell. Only board builders (generator, fixtures) use it;
// strikes go through ResolveStrike.
func (b *Board) Set(c Coordinate, cell Cell) error {
	if !c.IsValid(BoardSize) {
		return ErrInvalidCoordinate
	}
	b.cells[c.ToIndex(BoardSize)] = cell
	return nil
}

// Count returns how many cells hold the given value.
func (b Board) Count(cell Cell) int {
	n := 0
	for _, c := range b.cells {
		if c == cell {
			n++
		}
	}
	return n
}

// Find returns the coordinates of every cell holding the given value, row-major.
func (b Board) Find(cell Cell) []Coordinate {
	var out []Coordinate
	for i, c := range b.cells {
		if c == cell {
			out = append(out, FromIndex(i, BoardSize))
		}
	}
	return out
}
