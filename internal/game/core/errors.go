package core

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidCoordinate    = errors.New("invalid coordinate")
	ErrCellAlreadyResolved  = errors.New("cell already resolved")
	ErrGameAlreadyFinished  = errors.New("game already finished")
	ErrPredictorUnavailable = errors.New("move predictor unavailable")
)

// StrikeError attaches the attacker and target to a strike failure.
type StrikeError struct {
	Side   Side
	Target Coordinate
	Err    error
}

func (e *StrikeError) Error() string {
	return fmt.Sprintf("%s strike at %s: %v", e.Side, e.Target, e.Err)
}

func (e *StrikeError) Unwrap() error { return e.Err }

// WrapStrikeError wraps err with strike context. A nil err stays nil.
func WrapStrikeError(side Side, target Coordinate, err error) error {
	if err == nil {
		return nil
	}
	return &StrikeError{Side: side, Target: target, Err: err}
}

// WrapGameStateError adds turn and phase context to an error.
func WrapGameStateError(turn int, phase string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("game turn %d [%s]: %w", turn, phase, err)
}
