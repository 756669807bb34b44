package mapgen

import (
	"fmt"

	"github.com/mitchelldurbincs/PlaneStrikeRL/internal/game/core"
)

// Orientation is the direction the plane's nose points.
type Orientation int

const (
	HeadingRight Orientation = iota
	HeadingUp
	HeadingLeft
	HeadingDown
)

// Orientations lists every orientation in a fixed order for uniform selection.
var Orientations = []Orientation{HeadingRight, HeadingUp, HeadingLeft, HeadingDown}

func (o Orientation) String() string {
	switch o {
	case HeadingRight:
		return "HeadingRight"
	case HeadingUp:
		return "HeadingUp"
	case HeadingLeft:
		return "HeadingLeft"
	case HeadingDown:
		return "HeadingDown"
	default:
		return fmt.Sprintf("Orientation(%d)", int(o))
	}
}

// crossOffsets is the fuselage/wing cross shared by every orientation.
var crossOffsets = []core.Coordinate{
	{Row: 0, Col: 0},
	{Row: -1, Col: 0},
	{Row: 1, Col: 0},
	{Row: 0, Col: -1},
	{Row: 0, Col: 1},
}

// tailOffsets sits two cells behind the anchor, opposite the heading.
var tailOffsets = map[Orientation][]core.Coordinate{
	HeadingRight: {{Row: -1, Col: -2}, {Row: 0, Col: -2}, {Row: 1, Col: -2}},
	HeadingUp:    {{Row: 2, Col: -1}, {Row: 2, Col: 0}, {Row: 2, Col: 1}},
	HeadingLeft:  {{Row: -1, Col: 2}, {Row: 0, Col: 2}, {Row: 1, Col: 2}},
	HeadingDown:  {{Row: -2, Col: -1}, {Row: -2, Col: 0}, {Row: -2, Col: 1}},
}

// AnchorRange returns the inclusive anchor bounds for which every plane cell
// stays on a size x size board.
func AnchorRange(o Orientation, size int) (rowMin, rowMax, colMin, colMax int) {
	switch o {
	case HeadingRight:
		return 1, size - 2, 2, size - 2
	case HeadingUp:
		return 1, size - 3, 1, size - 2
	case HeadingLeft:
		return 1, size - 2, 1, size - 3
	case HeadingDown:
		return 2, size - 2, 1, size - 2
	default:
		return 0, -1, 0, -1
	}
}

// PlaneCells returns the cells a plane with the given orientation and anchor occupies.
func PlaneCells(o Orientation, anchor core.Coordinate) []core.Coordinate {
	tail, ok := tailOffsets[o]
	if !ok {
		return nil
	}

	cells := make([]core.Coordinate, 0, core.ShipCells)
	for _, off := range crossOffsets {
		cells = append(cells, anchor.Add(off))
	}
	for _, off := range tail {
		cells = append(cells, anchor.Add(off))
	}
	return cells
}

// PlacePlane marks the plane's cells as ship parts on b.
// The board is left untouched if the anchor is outside the orientation's range.
func PlacePlane(b *core.Board, o Orientation, anchor core.Coordinate) error {
	rowMin, rowMax, colMin, colMax := AnchorRange(o, b.Size())
	if anchor.Row < rowMin || anchor.Row > rowMax || anchor.Col < colMin || anchor.Col > colMax {
		return fmt.Errorf("anchor %s for %s: %w", anchor, o, core.ErrInvalidCoordinate)
	}

	for _, c := range PlaneCells(o, anchor) {
		if err := b.Set(c, core.CellShip); err != nil {
			return err
		}
	}
	return nil
}

// MatchPlane reports the orientation and anchor whose cells are exactly the
// ship parts of b, if any.
func MatchPlane(b core.Board) (Orientation, core.Coordinate, bool) {
	ships := b.Find(core.CellShip)
	if len(ships) != core.ShipCells {
		return 0, core.Coordinate{}, false
	}

	occupied := make(map[core.Coordinate]bool, len(ships))
	for _, c := range ships {
		occupied[c] = true
	}

	for _, o := range Orientations {
		rowMin, rowMax, colMin, colMax := AnchorRange(o, b.Size())
		for r := rowMin; r <= rowMax; r++ {
			for c := colMin; c <= colMax; c++ {
				anchor := core.NewCoordinate(r, c)
				if !occupied[anchor] {
					continue
				}
				matched := true
				for _, cell := range PlaneCells(o, anchor) {
					if !occupied[cell] {
						matched = false
						break
					}
				}
				if matched {
					return o, anchor, true
				}
			}
		}
	}
	return 0, core.Coordinate{}, false
}
