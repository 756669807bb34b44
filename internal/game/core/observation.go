package core

// Observation is a board as the attacking side sees it: ship parts are masked
// to empty, hits and misses stay visible so resolved cells are not re-targeted.
type Observation struct {
	cells [BoardSize * BoardSize]Cell
}

// Observe builds the masked view of b.
func Observe(b Board) Observation {
	var o Observation
	for i, c := range b.cells {
		if c == CellShip {
			c = CellEmpty
		}
		o.cells[i] = c
	}
	return o
}

func (o Observation) Size() int { return BoardSize }

// At returns the cell at c. c must be in bounds.
func (o Observation) At(c Coordinate) Cell {
	return o.cells[c.ToIndex(BoardSize)]
}

// Cells returns the observed cells in row-major order.
func (o Observation) Cells() []Cell {
	out := make([]Cell, len(o.cells))
	copy(out, o.cells[:])
	return out
}

// Unresolved returns every cell that can still be struck, row-major.
func (o Observation) Unresolved() []Coordinate {
	var out []Coordinate
	for i, c := range o.cells {
		if !c.IsResolved() {
			out = append(out, FromIndex(i, BoardSize))
		}
	}
	return out
}
