package predictor

import (
	"context"
	"fmt"
	"math"
)

// ScoreModel produces one score per board cell, row-major, like a policy network.
type ScoreModel interface {
	Scores(ctx context.Context, input []float32) ([]float32, error)
}

// ScoreModelFunc adapts a function to the ScoreModel interface.
type ScoreModelFunc func(ctx context.Context, input []float32) ([]float32, error)

func (f ScoreModelFunc) Scores(ctx context.Context, input []float32) ([]float32, error) {
	return f(ctx, input)
}

// ArgmaxPredictor picks the cell with the highest model score.
type ArgmaxPredictor struct {
	model ScoreModel
}

func NewArgmaxPredictor(model ScoreModel) *ArgmaxPredictor {
	return &ArgmaxPredictor{model: model}
}

func (p *ArgmaxPredictor) Predict(ctx context.Context, input []float32) (int, error) {
	scores, err := p.model.Scores(ctx, input)
	if err != nil {
		return 0, fmt.Errorf("score model: %w", err)
	}
	return Argmax(scores)
}

// Argmax returns the index of the first maximum in scores. NaN scores are
// skipped; a vector with no other score is invalid.
func Argmax(scores []float32) (int, error) {
	if len(scores) == 0 {
		return 0, fmt.Errorf("%w: empty score vector", ErrInvalidInput)
	}
	best := -1
	for i, s := range scores {
		if math.IsNaN(float64(s)) {
			continue
		}
		if best < 0 || s > scores[best] {
			best = i
		}
	}
	if best < 0 {
		return 0, fmt.Errorf("%w: every score is NaN", ErrInvalidInput)
	}
	return best, nil
}
