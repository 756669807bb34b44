package predictor

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/PlaneStrikeRL/internal/game/core"
)

// Recorder receives the latency and result of every predictor call.
type Recorder interface {
	Record(latency time.Duration, err error)
}

// Adapter turns observations into predictor requests and predictor answers into coordinates.
type Adapter struct {
	predictor Predictor
	timeout   time.Duration
	logger    zerolog.Logger
	recorder  Recorder
}

// Option configures an Adapter.
type Option func(*Adapter)

// WithTimeout bounds each predictor call. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(a *Adapter) { a.timeout = d }
}

func WithLogger(logger zerolog.Logger) Option {
	return func(a *Adapter) { a.logger = logger }
}

// WithRecorder reports every call to r, typically a monitoring.PredictorMonitor.
func WithRecorder(r Recorder) Option {
	return func(a *Adapter) { a.recorder = r }
}

// NewAdapter wraps p. A nil p yields an adapter whose every call fails.
func NewAdapter(p Predictor, opts ...Option) *Adapter {
	a := &Adapter{
		predictor: p,
		logger:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.logger = a.logger.With().Str("component", "predictor_adapter").Logger()
	return a
}

type prediction struct {
	index int
	err   error
}

// ChooseTarget asks the predictor where to strike next. Every failure is
// wrapped with core.ErrPredictorUnavailable. Predictors that ignore ctx are
// abandoned when it expires.
func (a *Adapter) ChooseTarget(ctx context.Context, obs core.Observation) (core.Coordinate, error) {
	if a.predictor == nil {
		return core.Coordinate{}, fmt.Errorf("%w: no predictor configured", core.ErrPredictorUnavailable)
	}

	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	input := Encode(obs)
	start := time.Now()

	done := make(chan prediction, 1)
	go func() {
		index, err := a.predictor.Predict(ctx, input)
		done <- prediction{index: index, err: err}
	}()

	var result prediction
	select {
	case result = <-done:
	case <-ctx.Done():
		result = prediction{err: ctx.Err()}
	}
	latency := time.Since(start)

	var (
		target core.Coordinate
		err    = result.err
	)
	if err == nil {
		target, err = Decode(result.index, obs.Size())
	} else {
		err = fmt.Errorf("%w: %w", core.ErrPredictorUnavailable, err)
	}

	if a.recorder != nil {
		a.recorder.Record(latency, err)
	}

	if err != nil {
		a.logger.Warn().
			Err(err).
			Dur("latency", latency).
			Msg("Move predictor failed")
		return core.Coordinate{}, err
	}

	a.logger.Debug().
		Int("index", result.index).
		Int("row", target.Row).
		Int("col", target.Col).
		Dur("latency", latency).
		Msg("Move predictor chose target")
	return target, nil
}
