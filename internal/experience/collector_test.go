package experience

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitchelldurbincs/PlaneStrikeRL/internal/game"
	"github.com/mitchelldurbincs/PlaneStrikeRL/internal/game/core"
	"github.com/mitchelldurbincs/PlaneStrikeRL/internal/game/mapgen"
	"github.com/mitchelldurbincs/PlaneStrikeRL/internal/predictor"
	"github.com/mitchelldurbincs/PlaneStrikeRL/internal/testutil"
)

func TestCollector_FromEngineSnapshots(t *testing.T) {
	board := testutil.PlaneBoard(t, mapgen.HeadingUp, anchor)
	engine, err := game.NewEngine(context.Background(), game.GameConfig{
		Generator: testutil.NewFixedBoards(board),
		Chooser:   predictor.NewAdapter(testutil.NewScriptedPredictor(testutil.Answer(0), testutil.Answer(1))),
		Logger:    zerolog.Nop(),
	})
	require.NoError(t, err)
	defer engine.Close()

	sub := engine.Subscribe()

	_, err = engine.PlayerStrike(context.Background(), anchor)
	require.NoError(t, err)
	_, err = engine.PlayerStrike(context.Background(), core.NewCoordinate(0, 0))
	require.NoError(t, err)
	require.True(t, engine.Unsubscribe(sub.ID))

	buffer := NewBuffer(16, zerolog.Nop())
	collector := NewCollector(buffer, zerolog.Nop())
	require.NoError(t, collector.Run(context.Background(), sub.Updates))

	collected, gaps := collector.Stats()
	assert.Equal(t, int64(4), collected)
	assert.Zero(t, gaps)

	exps := buffer.GetAll()
	require.Len(t, exps, 4)

	first := exps[0]
	anchorIdx := anchor.ToIndex(core.BoardSize)
	assert.Equal(t, core.SidePlayer, first.Side)
	assert.Equal(t, anchorIdx, first.Action)
	assert.Equal(t, DefaultRewardConfig().Hit, first.Reward)
	assert.Equal(t, float32(core.CodeEmpty), first.State[anchorIdx], "ship parts are masked")
	assert.Equal(t, float32(core.CodeHit), first.NextState[anchorIdx])
	assert.True(t, first.ActionMask[anchorIdx])
	assert.False(t, first.Done)
	assert.NotEmpty(t, first.ExperienceID)

	agent := exps[1]
	assert.Equal(t, core.SideAgent, agent.Side)
	assert.Equal(t, 0, agent.Action)
	assert.Equal(t, DefaultRewardConfig().Miss, agent.Reward)
	assert.Equal(t, float32(core.CodeMiss), agent.NextState[0])

	assert.Equal(t, []core.Side{core.SidePlayer, core.SideAgent}, []core.Side{exps[2].Side, exps[3].Side})
	assert.Equal(t, 1, exps[3].Action)
	assert.Len(t, exps[3].State, predictor.InputSize)
}

func TestCollector_SkipsGapsAndNewSessions(t *testing.T) {
	buffer := NewBuffer(16, zerolog.Nop())
	collector := NewCollector(buffer, zerolog.Nop())

	s0 := startState(t)
	s1 := strike(t, s0, core.SidePlayer, anchor)
	s2 := strike(t, s1, core.SideAgent, core.NewCoordinate(0, 0))
	s3 := strike(t, s2, core.SidePlayer, core.NewCoordinate(0, 0))
	s4 := strike(t, s3, core.SideAgent, core.NewCoordinate(0, 1))
	s5 := strike(t, s4, core.SidePlayer, core.NewCoordinate(0, 1))

	collector.OnSnapshot(s0)
	collector.OnSnapshot(s1)
	// s2 and s3 never arrive: the agent's target board moved by two cells
	collector.OnSnapshot(s4)
	collector.OnSnapshot(s5)

	collected, gaps := collector.Stats()
	assert.Equal(t, int64(3), collected, "player strikes s0->s1, s1->s4 and s4->s5")
	assert.Equal(t, int64(1), gaps, "two agent strikes between s1 and s4")

	exps := buffer.GetAll()
	require.Len(t, exps, 3)
	for _, e := range exps {
		assert.Equal(t, core.SidePlayer, e.Side)
	}

	next := startState(t)
	next.Generation = 2
	collector.OnSnapshot(next)
	collected2, gaps2 := collector.Stats()
	assert.Equal(t, collected, collected2)
	assert.Equal(t, gaps, gaps2)
}

func TestCollector_WithSides(t *testing.T) {
	buffer := NewBuffer(16, zerolog.Nop())
	collector := NewCollector(buffer, zerolog.Nop(), WithSides(core.SideAgent))

	s0 := startState(t)
	s1 := strike(t, s0, core.SidePlayer, anchor)
	s2 := strike(t, s1, core.SideAgent, anchor)

	collector.OnSnapshot(s0)
	collector.OnSnapshot(s1)
	collector.OnSnapshot(s2)

	exps := buffer.GetAll()
	require.Len(t, exps, 1)
	assert.Equal(t, core.SideAgent, exps[0].Side)
	assert.Equal(t, DefaultRewardConfig().Hit, exps[0].Reward)
}

func TestCollector_RunStopsOnContext(t *testing.T) {
	collector := NewCollector(NewBuffer(1, zerolog.Nop()), zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, collector.Run(ctx, make(chan game.GameState)), context.Canceled)
}

func TestCollector_LoserGetsTerminalExperience(t *testing.T) {
	board := testutil.PlaneBoard(t, mapgen.HeadingUp, anchor)
	cells := mapgen.PlaneCells(mapgen.HeadingUp, anchor)

	// The agent misses along row 0 while the player sinks the plane.
	answers := make([]testutil.ScriptedAnswer, 0, len(cells)-1)
	for i := 0; i < len(cells)-1; i++ {
		answers = append(answers, testutil.Answer(i))
	}

	engine, err := game.NewEngine(context.Background(), game.GameConfig{
		Generator:    testutil.NewFixedBoards(board),
		Chooser:      predictor.NewAdapter(testutil.NewScriptedPredictor(answers...)),
		Logger:       zerolog.Nop(),
		StreamBuffer: 32,
	})
	require.NoError(t, err)
	defer engine.Close()

	buffer := NewBuffer(64, zerolog.Nop())
	collector := NewCollector(buffer, zerolog.Nop())

	sub := engine.Subscribe()
	for _, c := range cells {
		_, err := engine.PlayerStrike(context.Background(), c)
		require.NoError(t, err)
	}
	require.True(t, engine.Unsubscribe(sub.ID))
	require.NoError(t, collector.Run(context.Background(), sub.Updates))

	_, gaps := collector.Stats()
	assert.Zero(t, gaps)

	cfg := DefaultRewardConfig()
	done := map[core.Side][]*Experience{}
	for _, e := range buffer.GetAll() {
		if e.Done {
			done[e.Side] = append(done[e.Side], e)
		}
	}

	require.Len(t, done[core.SidePlayer], 1)
	assert.Equal(t, cfg.WinGame, done[core.SidePlayer][0].Reward)

	require.Len(t, done[core.SideAgent], 1)
	loss := done[core.SideAgent][0]
	assert.Equal(t, cfg.LoseGame, loss.Reward)
	assert.Equal(t, len(cells)-2, loss.Action, "repeats the agent's last strike")
	assert.Equal(t, loss.State, loss.NextState)
}

func TestCollector_TerminalEmittedOnce(t *testing.T) {
	cells := mapgen.PlaneCells(mapgen.HeadingUp, anchor)
	buffer := NewBuffer(64, zerolog.Nop())
	collector := NewCollector(buffer, zerolog.Nop(), WithSides(core.SideAgent))

	s := startState(t)
	s = strike(t, s, core.SideAgent, core.NewCoordinate(0, 0))
	for _, c := range cells[:len(cells)-1] {
		s = strike(t, s, core.SidePlayer, c)
	}
	final := strike(t, s, core.SidePlayer, cells[len(cells)-1])

	collector.OnSnapshot(s)
	collector.OnSnapshot(final)
	collector.OnSnapshot(final)

	exps := buffer.GetAll()
	require.Len(t, exps, 1)
	assert.True(t, exps[0].Done)
	assert.Equal(t, 0, exps[0].Action)
	assert.Equal(t, DefaultRewardConfig().LoseGame, exps[0].Reward)
}
