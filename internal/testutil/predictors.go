package testutil

import (
	"context"
	"errors"
	"sync"
)

// ErrScriptExhausted is returned once a ScriptedPredictor runs out of answers.
var ErrScriptExhausted = errors.New("scripted predictor exhausted")

// ScriptedAnswer is one canned predictor response.
type ScriptedAnswer struct {
	Index int
	Err   error
}

func Answer(index int) ScriptedAnswer { return ScriptedAnswer{Index: index} }

func Fail(err error) ScriptedAnswer { return ScriptedAnswer{Err: err} }

// ScriptedPredictor replays canned answers and records every request.
type ScriptedPredictor struct {
	mu      sync.Mutex
	answers []ScriptedAnswer
	inputs  [][]float32
}

func NewScriptedPredictor(answers ...ScriptedAnswer) *ScriptedPredictor {
	return &ScriptedPredictor{answers: answers}
}

func (s *ScriptedPredictor) Predict(_ context.Context, input []float32) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	in := make([]float32, len(input))
	copy(in, input)
	call := len(s.inputs)
	s.inputs = append(s.inputs, in)

	if call >= len(s.answers) {
		return 0, ErrScriptExhausted
	}
	a := s.answers[call]
	return a.Index, a.Err
}

// Calls returns how many requests were made.
func (s *ScriptedPredictor) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.inputs)
}

// Inputs returns a copy of every request received.
func (s *ScriptedPredictor) Inputs() [][]float32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([][]float32, len(s.inputs))
	copy(out, s.inputs)
	return out
}

// BlockingPredictor signals Started on each call, then waits for Release or ctx.
type BlockingPredictor struct {
	Index   int
	Started chan struct{}
	Release chan struct{}
}

func NewBlockingPredictor(index int) *BlockingPredictor {
	return &BlockingPredictor{
		Index:   index,
		Started: make(chan struct{}, 1),
		Release: make(chan struct{}),
	}
}

func (b *BlockingPredictor) Predict(ctx context.Context, _ []float32) (int, error) {
	select {
	case b.Started <- struct{}{}:
	default:
	}
	select {
	case <-b.Release:
		return b.Index, nil
	case <-ctx.Done():
		return 0, ctx.Err()
	}
}
