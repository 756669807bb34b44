package core

import "fmt"

// Side identifies who is attacking.
type Side int

const (
	SidePlayer Side = iota
	SideAgent
)

func (s Side) String() string {
	switch s {
	case SidePlayer:
		return "player"
	case SideAgent:
		return "agent"
	default:
		return fmt.Sprintf("Side(%d)", int(s))
	}
}

// Opponent returns the other side.
func (s Side) Opponent() Side {
	if s == SidePlayer {
		return SideAgent
	}
	return SidePlayer
}

// Outcome is the result of a resolved strike.
type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomeHit
	OutcomeMiss
)

func (o Outcome) String() string {
	switch o {
	case OutcomeNone:
		return "none"
	case OutcomeHit:
		return "hit"
	case OutcomeMiss:
		return "miss"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// StrikeResult records one resolved strike. The zero value means no strike.
type StrikeResult struct {
	Side    Side
	Target  Coordinate
	Outcome Outcome
}

func (r StrikeResult) IsZero() bool { return r.Outcome == OutcomeNone }

// ResolveStrike applies a strike to a copy of b and returns the copy.
// A ship part becomes a hit, anything else unresolved becomes a miss.
// On error the original board is returned untouched.
func ResolveStrike(b Board, target Coordinate) (Board, Outcome, error) {
	if !target.IsValid(BoardSize) {
		return b, OutcomeNone, ErrInvalidCoordinate
	}

	idx := target.ToIndex(BoardSize)
	switch b.cells[idx] {
	case CellHit, CellMiss:
		return b, OutcomeNone, ErrCellAlreadyResolved
	case CellShip:
		b.cells[idx] = CellHit
		return b, OutcomeHit, nil
	default:
		b.cells[idx] = CellMiss
		return b, OutcomeMiss, nil
	}
}

// CheckTarget runs the ResolveStrike preconditions without producing a board.
func CheckTarget(b Board, target Coordinate) error {
	cell, ok := b.Get(target)
	if !ok {
		return ErrInvalidCoordinate
	}
	if cell.IsResolved() {
		return ErrCellAlreadyResolved
	}
	return nil
}
