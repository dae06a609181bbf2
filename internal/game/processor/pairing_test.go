package processor

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitchelldurbincs/zugzwang/internal/game/core"
	tu "github.com/mitchelldurbincs/zugzwang/internal/testutil"
)

// Pieces 0 and 1 belong to owner 0 with priorities 3 and 1, pieces 4 and 5
// to owner 1 with priorities 1 and 2.
func pairingState() *core.GameState {
	return tu.NewTestState(tu.TestConfig(4, 4),
		tu.TestPiece(0, 0, 0, 0, 3),
		tu.TestPiece(1, 0, 1, 0, 1),
		tu.TestPiece(4, 1, 0, 3, 1),
		tu.TestPiece(5, 1, 1, 3, 2),
	)
}

func TestArrangeOrders_BySlot(t *testing.T) {
	gs := pairingState()
	m0 := tu.Move(0, 0, 0, 1)
	m1 := tu.Move(0, 1, 0, 1)

	arranged, dropped := ArrangeOrders(gs, []core.Order{m0, m1})
	assert.Equal(t, []core.Order{m1, m0}, arranged, "lower piece priority resolves first")
	assert.Empty(t, dropped)
}

func TestArrangeOrders_NoPriorityAndPlaceLast(t *testing.T) {
	gs := pairingState()
	gs.FindPiece(0).Priority = core.NoPriority

	m0 := tu.Move(0, 0, 0, 1)
	m1 := tu.Move(0, 1, 0, 1)
	place := tu.Place(0, 3, 0)

	arranged, dropped := ArrangeOrders(gs, []core.Order{place, m0, m1})
	assert.Equal(t, []core.Order{m1, m0, place}, arranged)
	assert.Empty(t, dropped)
}

func TestArrangeOrderPairs_PiecePriority(t *testing.T) {
	gs := pairingState()
	m0 := tu.Move(0, 0, 0, 1)
	m1 := tu.Move(0, 1, 0, 1)
	m4 := tu.Move(1, 4, 0, -1)
	a5 := tu.Attack(1, 5, -1, -1)

	pairs, err := ArrangeOrderPairs(gs, []core.Order{m0, m1}, []core.Order{a5, m4})
	require.NoError(t, err)
	assert.Equal(t, []OrderPair{
		{m1, m4},
		{nil, a5},
		{m0, nil},
	}, pairs)
}

func TestArrangeOrderPairs_WithPlaceOrders(t *testing.T) {
	gs := pairingState()
	m0 := tu.Move(0, 0, 0, 1)
	m1 := tu.Move(0, 1, 0, 1)
	m4 := tu.Move(1, 4, 0, -1)
	a5 := tu.Attack(1, 5, -1, -1)
	p0a := tu.Place(0, 2, 0)
	p0b := tu.Place(0, 3, 0)
	p1 := tu.Place(1, 2, 3)

	pairs, err := ArrangeOrderPairs(gs,
		[]core.Order{p0a, p0b, m0, m1},
		[]core.Order{p1, a5, m4},
	)
	require.NoError(t, err)
	assert.Equal(t, []OrderPair{
		{m1, m4},
		{nil, a5},
		{m0, nil},
		{p0a, p1},
		{p0b, nil},
	}, pairs)
}

func TestArrangeOrderPairs_SamePiecePriorityFallsBackToOrderKind(t *testing.T) {
	gs := pairingState()
	a1 := tu.Attack(0, 1, 1, 1)
	m4 := tu.Move(1, 4, 0, -1)

	pairs, err := ArrangeOrderPairs(gs, []core.Order{a1}, []core.Order{m4})
	require.NoError(t, err)
	assert.Equal(t, []OrderPair{{a1, nil}, {nil, m4}}, pairs, "attack outranks move at equal piece priority")
}

func TestArrangeOrderPairs_SlotCollision(t *testing.T) {
	cfg := tu.TestConfig(4, 4)
	cfg.AllowDuplicatePriorities = true
	gs := tu.NewTestState(cfg,
		tu.TestPiece(0, 0, 0, 0, 2),
		tu.TestPiece(1, 0, 1, 0, 2),
	)
	m0 := tu.Move(0, 0, 0, 1)
	m1 := tu.Move(0, 1, 0, 1)

	pairs, err := ArrangeOrderPairs(gs, []core.Order{m0, m1}, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrPrioritySlotCollision)

	var collision *SlotCollisionError
	require.True(t, errors.As(err, &collision))
	assert.Equal(t, []core.Order{m1}, collision.Dropped)
	assert.Equal(t, []OrderPair{{m0, nil}}, pairs, "the first order keeps its slot")
}

func TestArrangeOrderPairs_SubmissionMode(t *testing.T) {
	cfg := tu.TestConfig(4, 4)
	cfg.PriorityMode = core.PriorityModeSubmission
	gs := tu.NewTestState(cfg)

	a := tu.Place(0, 0, 0)
	b := tu.Place(0, 1, 0)
	c := tu.Place(0, 2, 0)
	d := tu.Place(1, 0, 3)

	pairs, err := ArrangeOrderPairs(gs, []core.Order{a, b, c}, []core.Order{d})
	require.NoError(t, err)
	assert.Equal(t, []OrderPair{{a, d}, {b, nil}, {c, nil}}, pairs)
}

func TestArrangeOrderPairs_Empty(t *testing.T) {
	pairs, err := ArrangeOrderPairs(pairingState(), nil, nil)
	require.NoError(t, err)
	assert.Empty(t, pairs)
}

func TestCompareOrders(t *testing.T) {
	gs := pairingState()

	assert.Negative(t, CompareOrders(gs, tu.Move(0, 1, 0, 1), tu.Move(0, 0, 0, 1)), "piece priority 1 before 3")
	assert.Positive(t, CompareOrders(gs, tu.Move(0, 1, 0, 1), tu.Attack(1, 4, -1, -1)), "equal piece priority, attack first")
	assert.Zero(t, CompareOrders(gs, tu.Move(0, 1, 0, 1), tu.Move(1, 4, 0, -1)))
	assert.Negative(t, CompareOrders(gs, tu.Move(0, 0, 0, 1), tu.Place(1, 0, 3)), "place compares by kind only")
	assert.Zero(t, CompareOrders(gs, tu.Place(0, 0, 0), tu.Place(1, 0, 3)))
}

func TestOrderPair_Concurrent(t *testing.T) {
	assert.True(t, OrderPair{tu.Attack(0, 0, 1, 1), tu.Attack(1, 4, 1, -1)}.Concurrent())
	assert.True(t, OrderPair{tu.Move(0, 0, 0, 1), tu.Move(1, 4, 1, -1)}.Concurrent(), "straight and diagonal moves share a rank")
	assert.False(t, OrderPair{tu.Attack(0, 0, 1, 1), tu.Move(1, 4, 0, -1)}.Concurrent())
	assert.False(t, OrderPair{tu.Attack(0, 0, 1, 1), nil}.Concurrent())
	assert.Len(t, OrderPair{nil, tu.Place(1, 0, 3)}.Present(), 1)
}
