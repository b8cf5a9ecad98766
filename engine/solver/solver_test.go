package solver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nathoo/cheesegates/engine/board"
	"github.com/nathoo/cheesegates/engine/session"
	"github.com/nathoo/cheesegates/types"
)

func thresholds(ts ...int) []types.SignalRule {
	rules := make([]types.SignalRule, len(ts))
	for i, t := range ts {
		rules[i] = types.SignalRule{Threshold: t}
	}
	return rules
}

func builtinLike() []*types.LevelSpec {
	return []*types.LevelSpec{
		{
			ID:      1,
			Signals: thresholds(6, 3),
			Root:    types.Or(types.Ref(0), types.Ref(1)),
			Stones:  []int{1, 4, 2, 1},
		},
		{
			ID:      2,
			Signals: thresholds(3, 4, 6, 8),
			Root: types.And(
				types.Or(types.Ref(0), types.Ref(1)),
				types.Or(types.Ref(2), types.Ref(3)),
			),
			Stones: []int{1, 2, 1, 2, 4, 1},
		},
		{
			ID: 3,
			Signals: []types.SignalRule{
				{Threshold: 5},
				{Threshold: 2, Invert: true},
				{Threshold: 3, Invert: true},
				{Threshold: 6},
			},
			Root: types.And(
				types.Or(types.Ref(0), types.Ref(1)),
				types.And(types.Ref(2), types.Ref(3)),
			),
			Stones: []int{1, 2, 1, 1, 2, 4},
		},
		{
			ID:      4,
			Signals: thresholds(10, 8, 12, 2, 3),
			Root: types.And(
				types.And(types.Not(types.Ref(0)), types.Ref(1)),
				types.And(types.Not(types.Ref(3)), types.Ref(2)),
				types.Or(types.Ref(4), types.Not(types.Ref(0))),
			),
			Stones: []int{1, 7, 1, 9, 2, 2, 12, 5, 7},
		},
	}
}

// checkPlacement verifies a placement against the board rules and the circuit.
func checkPlacement(t *testing.T, level *types.LevelSpec, p Placement) {
	t.Helper()
	b := board.New(level.Stones, len(level.Signals))
	for slot, ids := range p.Slots {
		for _, id := range ids {
			require.NoError(t, b.Place(id, slot), "placing stone %d in slot %d", id, slot)
		}
	}
	assert.Equal(t, b.Weights(), p.Weights)

	ok, bits, err := session.Run(level, b.Weights())
	require.NoError(t, err)
	assert.True(t, ok, "placement %v should solve level %d", p.Slots, level.ID)
	assert.Equal(t, bits, p.Bits)
}

func TestSolve_BuiltinLevels(t *testing.T) {
	for _, level := range builtinLike() {
		p, ok := Solve(level)
		require.True(t, ok, "level %d should be solvable", level.ID)
		checkPlacement(t, level, p)
	}
}

func TestSolve_NeedsPair(t *testing.T) {
	level := &types.LevelSpec{
		Signals: thresholds(6),
		Root:    types.Ref(0),
		Stones:  []int{1, 4, 2},
	}
	p, ok := Solve(level)
	require.True(t, ok)
	assert.Len(t, p.Slots[0], 2)
	checkPlacement(t, level, p)
}

func TestSolve_Unsolvable(t *testing.T) {
	tests := []struct {
		name  string
		level *types.LevelSpec
	}{
		{
			name: "threshold above catalog",
			level: &types.LevelSpec{
				Signals: thresholds(20),
				Root:    types.Ref(0),
				Stones:  []int{1, 2, 3},
			},
		},
		{
			name: "zero threshold can never read low",
			level: &types.LevelSpec{
				Signals: thresholds(0),
				Root:    types.Not(types.Ref(0)),
				Stones:  []int{5},
			},
		},
		{
			name: "stones shared between slots",
			level: &types.LevelSpec{
				Signals: thresholds(5, 5),
				Root:    types.And(types.Ref(0), types.Ref(1)),
				Stones:  []int{5},
			},
		},
		{
			name: "contradiction",
			level: &types.LevelSpec{
				Signals: thresholds(1),
				Root:    types.And(types.Ref(0), types.Not(types.Ref(0))),
				Stones:  []int{1},
			},
		},
		{
			name:  "no signals",
			level: &types.LevelSpec{Root: types.Or()},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := Solve(tt.level)
			assert.False(t, ok)
		})
	}
}

func TestSolve_InvertedNeedsAStone(t *testing.T) {
	level := &types.LevelSpec{
		Signals: []types.SignalRule{{Invert: true}},
		Root:    types.Not(types.Ref(0)),
		Stones:  []int{3},
	}
	p, ok := Solve(level)
	require.True(t, ok)
	assert.Equal(t, [][]int{{1}}, p.Slots)
	checkPlacement(t, level, p)
}

func TestSample(t *testing.T) {
	level := builtinLike()[0]

	stats := Sample(level, NewRNG(42), 500)
	assert.Equal(t, 500, stats.Trials)
	assert.Greater(t, stats.Solved, 0)
	assert.LessOrEqual(t, stats.Solved, 500)
	assert.Equal(t, int64(42), stats.Seed)
	assert.Equal(t, int64(500*len(level.Stones)), stats.Position)

	again := Sample(level, NewRNG(42), 500)
	assert.Equal(t, stats, again)
}

func TestSample_Impossible(t *testing.T) {
	level := &types.LevelSpec{
		Signals: thresholds(100),
		Root:    types.Ref(0),
		Stones:  []int{1, 2},
	}
	stats := Sample(level, NewRNG(1), 100)
	assert.Zero(t, stats.Solved)
	assert.Zero(t, stats.Rate())
}

func TestStats_Rate(t *testing.T) {
	assert.Equal(t, 0.25, Stats{Trials: 4, Solved: 1}.Rate())
	assert.Zero(t, Stats{}.Rate())
}
