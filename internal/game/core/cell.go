package core

import "fmt"

// Cell is the state of a single board square.
type Cell int

const (
	CellEmpty Cell = iota
	CellShip
	CellHit
	CellMiss
)

// Numeric codes shared with the move predictor. Ship parts should never reach
// the predictor since observations mask them.
const (
	CodeEmpty = 0
	CodeHit   = 1
	CodeShip  = 2
	CodeMiss  = -1
)

// IsResolved reports whether the cell has already been struck.
func (c Cell) IsResolved() bool { return c == CellHit || c == CellMiss }

// Code returns the predictor encoding of the cell.
func (c Cell) Code() int {
	switch c {
	case CellHit:
		return CodeHit
	case CellShip:
		return CodeShip
	case CellMiss:
		return CodeMiss
	default:
		return CodeEmpty
	}
}

// CellFromCode is the inverse of Code.
func CellFromCode(code int) (Cell, error) {
	switch code {
	case CodeEmpty:
		return CellEmpty, nil
	case CodeHit:
		return CellHit, nil
	case CodeShip:
		return CellShip, nil
	case CodeMiss:
		return CellMiss, nil
	default:
		return CellEmpty, fmt.Errorf("unknown cell code %d", code)
	}
}

func (c Cell) String() string {
	switch c {
	case CellEmpty:
		return "empty"
	case CellShip:
		return "ship"
	case CellHit:
		return "hit"
	case CellMiss:
		return "miss"
	default:
		return fmt.Sprintf("Cell(%d)", int(c))
	}
}
