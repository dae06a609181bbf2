package processor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitchelldurbincs/zugzwang/internal/game/core"
	tu "github.com/mitchelldurbincs/zugzwang/internal/testutil"
)

func up() core.Coordinate { return core.Coordinate{X: 0, Y: 1} }

func TestComputeChain_EmptyTarget(t *testing.T) {
	a := tu.TestPiece(0, 0, 1, 1, 1)
	gs := tu.NewTestState(tu.TestConfig(4, 4), a)

	chain := ComputeChain(gs, a, up())
	assert.Equal(t, []Displacement{{PieceID: 0, From: a.Position, To: core.Coordinate{X: 1, Y: 2}}}, chain)
}

func TestComputeChain_ThroughPieces(t *testing.T) {
	a := tu.TestPiece(0, 0, 0, 0, 1)
	b := tu.TestPiece(4, 1, 0, 1, 1)
	c := tu.TestPiece(1, 0, 0, 2, 2)
	gs := tu.NewTestState(tu.TestConfig(4, 4), a, b, c)

	chain := ComputeChain(gs, a, up())
	require.Len(t, chain, 3)
	assert.Equal(t, []int{0, 4, 1}, []int{chain[0].PieceID, chain[1].PieceID, chain[2].PieceID})
	assert.Equal(t, core.Coordinate{X: 0, Y: 3}, chain[2].To)
}

func TestComputeChain_PastTheEdge(t *testing.T) {
	a := tu.TestPiece(0, 0, 0, 2, 1)
	b := tu.TestPiece(4, 1, 0, 3, 1)
	gs := tu.NewTestState(tu.TestConfig(4, 4), a, b)

	chain := ComputeChain(gs, a, up())
	require.Len(t, chain, 2)
	assert.Equal(t, core.Coordinate{X: 0, Y: 4}, chain[1].To)
	assert.False(t, gs.InBounds(chain[1].To))
}

func TestComputeChain_ZeroVector(t *testing.T) {
	a := tu.TestPiece(0, 0, 0, 0, 1)
	gs := tu.NewTestState(tu.TestConfig(4, 4), a)
	assert.Empty(t, ComputeChain(gs, a, core.Coordinate{}))
}

func TestPushChain_DropsPusher(t *testing.T) {
	a := tu.TestPiece(0, 0, 1, 0, 1)
	b := tu.TestPiece(4, 1, 1, 1, 3)
	gs := tu.NewTestState(tu.TestConfig(4, 4), a, b)

	chain := PushChain(gs, a, up())
	assert.Equal(t, []Displacement{{PieceID: 4, From: b.Position, To: core.Coordinate{X: 1, Y: 2}}}, chain)

	assert.Empty(t, PushChain(gs, b, up()), "nothing in front, nothing to push")
}

func TestPushChain_Restriction(t *testing.T) {
	cfg := tu.TestConfig(4, 4)
	cfg.PushRestriction = core.PushRestriction{Enabled: true, Comparator: core.ComparatorGTE, Multiply: 1}

	light := tu.TestPiece(0, 0, 1, 0, 1)
	heavy := tu.TestPiece(4, 1, 1, 1, 3)
	gs := tu.NewTestState(cfg, light, heavy)

	assert.False(t, CanPush(gs, light, up()))
	assert.Empty(t, PushChain(gs, light, up()))

	gs.FindPiece(0).Priority = 3
	assert.True(t, CanPush(gs, *gs.FindPiece(0), up()))
	assert.Len(t, PushChain(gs, *gs.FindPiece(0), up()), 1)
}

func TestMoveChain(t *testing.T) {
	a := tu.TestPiece(0, 0, 1, 0, 1)
	b := tu.TestPiece(4, 1, 1, 1, 3)

	t.Run("blocked when moves cannot push", func(t *testing.T) {
		gs := tu.NewTestState(tu.TestConfig(4, 4), a, b)
		assert.Empty(t, MoveChain(gs, a, up()))
	})

	t.Run("pushes when allowed", func(t *testing.T) {
		cfg := tu.TestConfig(4, 4)
		cfg.MovesCanPush = true
		gs := tu.NewTestState(cfg, a, b)
		chain := MoveChain(gs, a, up())
		require.Len(t, chain, 2)
		assert.Equal(t, 0, chain[0].PieceID, "mover leads the chain")
	})

	t.Run("restriction applies to pushing moves", func(t *testing.T) {
		cfg := tu.TestConfig(4, 4)
		cfg.MovesCanPush = true
		cfg.PushRestriction = core.PushRestriction{Enabled: true, Comparator: core.ComparatorGT, Multiply: 1}
		gs := tu.NewTestState(cfg, a, b)
		assert.Empty(t, MoveChain(gs, a, up()))
	})

	t.Run("empty square", func(t *testing.T) {
		gs := tu.NewTestState(tu.TestConfig(4, 4), a)
		assert.Len(t, MoveChain(gs, a, up()), 1)
	})
}
