// Package predictor adapts an external move predictor to the game engine.
//
// A predictor receives the attacked board as BoardSize*BoardSize float codes in
// row-major order, with ship parts masked, and answers with one linear cell index.
package predictor

import (
	"context"
	"errors"
	"fmt"

	"github.com/mitchelldurbincs/PlaneStrikeRL/internal/game/core"
)

var (
	// ErrInvalidInput is returned by predictors for malformed requests.
	ErrInvalidInput = errors.New("invalid predictor input")
	// ErrNoTargets is returned when every cell of the board is already resolved.
	ErrNoTargets = errors.New("no unresolved cells to target")
)

// Predictor is the boundary to a move-predicting model.
type Predictor interface {
	Predict(ctx context.Context, input []float32) (int, error)
}

// PredictorFunc adapts a function to the Predictor interface.
type PredictorFunc func(ctx context.Context, input []float32) (int, error)

func (f PredictorFunc) Predict(ctx context.Context, input []float32) (int, error) {
	return f(ctx, input)
}

// InputSize is the number of values in a predictor request.
const InputSize = core.BoardSize * core.BoardSize

// Encode flattens an observation into predictor codes, row-major.
func Encode(obs core.Observation) []float32 {
	cells := obs.Cells()
	input := make([]float32, len(cells))
	for i, c := range cells {
		input[i] = float32(c.Code())
	}
	return input
}

// Decode converts a linear index into a coordinate on an n×n board.
func Decode(index, n int) (core.Coordinate, error) {
	if n <= 0 || index < 0 || index >= n*n {
		return core.Coordinate{}, fmt.Errorf("%w: index %d outside [0,%d)", core.ErrPredictorUnavailable, index, n*n)
	}
	return core.FromIndex(index, n), nil
}

// decodeInput validates a request and converts it back into cells.
func decodeInput(input []float32) ([]core.Cell, error) {
	if len(input) != InputSize {
		return nil, fmt.Errorf("%w: got %d values, want %d", ErrInvalidInput, len(input), InputSize)
	}
	cells := make([]core.Cell, len(input))
	for i, v := range input {
		code := int(v)
		if float32(code) != v {
			return nil, fmt.Errorf("%w: value %v at index %d is not a cell code", ErrInvalidInput, v, i)
		}
		c, err := core.CellFromCode(code)
		if err != nil {
			return nil, fmt.Errorf("%w: index %d: %v", ErrInvalidInput, i, err)
		}
		cells[i] = c
	}
	return cells, nil
}
