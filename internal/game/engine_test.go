package game

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitchelldurbincs/zugzwang/internal/game/core"
	"github.com/mitchelldurbincs/zugzwang/internal/game/events"
	"github.com/mitchelldurbincs/zugzwang/internal/game/layout"
	"github.com/mitchelldurbincs/zugzwang/internal/game/rules"
	tu "github.com/mitchelldurbincs/zugzwang/internal/testutil"
)

// flatPriorityConfig gives every piece priority 2 so that orders of
// different owners tie on piece priority
func flatPriorityConfig() core.MatchConfig {
	cfg := core.DefaultMatchConfig()
	cfg.PriorityPool = []int{2}
	cfg.AllowDuplicatePriorities = true
	return cfg
}

func newTestEngine(t *testing.T, cfg core.MatchConfig, lay layout.Layout) *Engine {
	t.Helper()
	e, err := Setup(cfg, tu.NewTestRNG(12345), lay, WithMatchID("test-match"), WithLogger(tu.NopLogger()))
	require.NoError(t, err)
	return e
}

func at(owner, x, y int) layout.Placement {
	return layout.Placement{Owner: owner, Position: core.Coordinate{X: x, Y: y}}
}

func recordEvents(e *Engine, types ...string) *[]events.Event {
	var got []events.Event
	for _, typ := range types {
		e.EventBus().SubscribeFunc(typ, func(ev events.Event) { got = append(got, ev) })
	}
	return &got
}

func TestSetup(t *testing.T) {
	e := newTestEngine(t, core.DefaultMatchConfig(), nil)

	gs := e.GameState()
	assert.Equal(t, "test-match", e.MatchID())
	assert.Equal(t, 0, e.Turn())
	assert.False(t, e.IsGameOver())
	assert.Equal(t, rules.NoWinner, e.Winner())
	require.Len(t, gs.Pieces, 4)
	assert.Equal(t, []int{0, 1, 4, 5}, []int{gs.Pieces[0].ID, gs.Pieces[1].ID, gs.Pieces[2].ID, gs.Pieces[3].ID})
	assert.NoError(t, gs.CheckOccupancy())
	assert.Empty(t, gs.History)
}

func TestSetup_Reproducible(t *testing.T) {
	a := newTestEngine(t, core.DefaultMatchConfig(), layout.Random{})
	b := newTestEngine(t, core.DefaultMatchConfig(), layout.Random{})
	assert.Equal(t, a.GameState().Pieces, b.GameState().Pieces)
}

func TestSetup_Errors(t *testing.T) {
	cfg := core.DefaultMatchConfig()
	cfg.Board = core.Coordinate{X: 0, Y: 4}
	_, err := Setup(cfg, nil, nil)
	assert.ErrorIs(t, err, core.ErrInvalidBoard)

	_, err = Setup(core.DefaultMatchConfig(), nil, layout.Fixed{at(0, 1, 1), at(1, 1, 1)})
	assert.ErrorIs(t, err, core.ErrCellOccupied)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = SetupContext(ctx, core.DefaultMatchConfig(), nil, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSetup_GeneratesMatchID(t *testing.T) {
	e, err := Setup(core.DefaultMatchConfig(), tu.NewTestRNG(1), layout.Empty{})
	require.NoError(t, err)
	assert.Len(t, e.MatchID(), 36)
	assert.Empty(t, e.GameState().Pieces)
}

func TestEngine_SameSquareBounce(t *testing.T) {
	e := newTestEngine(t, flatPriorityConfig(), layout.Fixed{at(0, 0, 0), at(1, 0, 2)})

	require.NoError(t, e.SubmitOrder(0, tu.Move(0, 0, 0, 1)))
	require.NoError(t, e.SubmitOrder(1, tu.Move(1, 4, 0, -1)))

	summary, err := e.ResolveTurn(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Turn)

	gs := e.GameState()
	assert.Equal(t, core.EmptyCell, gs.Cells[gs.IndexOf(core.Coordinate{X: 0, Y: 1})])
	pos, ok := tu.PositionOf(gs, 0)
	require.True(t, ok)
	assert.Equal(t, core.Coordinate{X: 0, Y: 0}, pos)
	pos, ok = tu.PositionOf(gs, 4)
	require.True(t, ok)
	assert.Equal(t, core.Coordinate{X: 0, Y: 2}, pos)

	require.Len(t, gs.History, 1)
	entry := gs.History[0]
	require.Len(t, entry, 3, "one step, then bounds and score")
	assert.Equal(t, core.PhaseStep, entry[0].Phase)
	assert.Len(t, entry[0].Orders, 2)
	assert.Equal(t, core.PhaseBounds, entry[1].Phase)
	assert.Equal(t, core.PhaseScore, entry[2].Phase)
	assert.Empty(t, gs.Orders[0])
	assert.Empty(t, gs.Orders[1])
}

func TestEngine_SubmitOrderRejections(t *testing.T) {
	e := newTestEngine(t, flatPriorityConfig(), layout.Fixed{at(0, 1, 1), at(1, 2, 2)})
	rejected := recordEvents(e, events.TypeOrderRejected)

	require.NoError(t, e.SubmitOrder(0, tu.Defend(0, 0)))

	tests := []struct {
		name  string
		owner int
		order core.Order
		err   error
	}{
		{"other owner's piece", 0, tu.Move(0, 4, 0, 1), core.ErrNotOwner},
		{"order labelled for the other owner", 1, tu.Move(0, 0, 0, 1), core.ErrNotOwner},
		{"unknown piece", 0, tu.Move(0, 3, 0, 1), core.ErrUnknownPiece},
		{"second order for a piece", 0, tu.Move(0, 0, 0, 1), core.ErrDuplicateOrder},
		{"backward move", 1, tu.Move(1, 4, 0, 1), core.ErrIllegalOrder},
		{"place off the home rank", 0, tu.Place(0, 1, 2), core.ErrIllegalOrder},
		{"invalid player", 2, tu.Move(2, 0, 0, 1), core.ErrInvalidPlayer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, e.SubmitOrder(tt.owner, tt.order), tt.err)
		})
	}

	assert.Len(t, e.Orders(0), 1, "rejections leave the buffer alone")
	assert.Empty(t, e.Orders(1))
	assert.Len(t, *rejected, len(tests))
}

func TestEngine_Withdraw(t *testing.T) {
	e := newTestEngine(t, flatPriorityConfig(), layout.Fixed{at(0, 1, 1), at(0, 2, 1), at(1, 2, 2)})
	withdrawn := recordEvents(e, events.TypeOrderWithdrawn)

	_, err := e.WithdrawLastOrder(0)
	assert.ErrorIs(t, err, core.ErrNoOrders)
	_, err = e.WithdrawLastOrder(5)
	assert.ErrorIs(t, err, core.ErrInvalidPlayer)

	require.NoError(t, e.SubmitOrder(0, tu.Move(0, 0, 0, 1)))
	require.NoError(t, e.SubmitOrder(0, tu.Defend(0, 1)))
	require.NoError(t, e.SubmitOrder(0, tu.Place(0, 3, 0)))
	require.NoError(t, e.SubmitOrder(1, tu.Defend(1, 4)))

	last, err := e.WithdrawLastOrder(0)
	require.NoError(t, err)
	assert.Equal(t, core.KindPlace, last.Kind())

	o, err := e.WithdrawOrder(0)
	require.NoError(t, err)
	assert.Equal(t, core.KindMoveStraight, o.Kind())
	require.Len(t, e.Orders(0), 1)
	assert.Equal(t, 1, e.Orders(0)[0].PieceID())

	o, err = e.WithdrawOrder(4)
	require.NoError(t, err)
	assert.Equal(t, 1, o.Owner())
	assert.Empty(t, e.Orders(1))

	_, err = e.WithdrawOrder(4)
	assert.ErrorIs(t, err, core.ErrNoOrders)
	_, err = e.WithdrawOrder(core.NoPiece)
	assert.ErrorIs(t, err, core.ErrUnknownPiece)

	assert.Len(t, *withdrawn, 3)
}

func TestEngine_ScoringEndsMatch(t *testing.T) {
	cfg := flatPriorityConfig()
	cfg.ScoreToWin = 1
	e := newTestEngine(t, cfg, layout.Fixed{at(0, 1, 2), at(1, 3, 3)})
	won := recordEvents(e, events.TypePlayerWon, events.TypePieceScored)

	require.NoError(t, e.SubmitOrder(0, tu.Move(0, 0, 0, 1)))
	summary, err := e.ResolveTurn(context.Background())
	require.NoError(t, err)

	assert.Equal(t, [core.Players]int{1, 0}, summary.Score)
	assert.True(t, summary.GameOver)
	assert.Equal(t, 0, summary.Winner)
	assert.True(t, e.IsGameOver())
	assert.Equal(t, 0, e.Winner())

	scoreSnap := summary.Snapshots[len(summary.Snapshots)-1]
	require.Len(t, scoreSnap.Events, 1)
	assert.Equal(t, core.HistoryEvent{Kind: core.EventScore, PieceID: 0, Owner: 0}, scoreSnap.Events[0])
	_, exists := tu.PositionOf(e.GameState(), 0)
	assert.False(t, exists)

	require.Len(t, *won, 2)
	assert.Equal(t, events.TypePieceScored, (*won)[0].Type())
	scored := (*won)[0].(*events.PieceEvent)
	assert.Equal(t, core.Coordinate{X: 1, Y: 3}, scored.Piece.Position)
	assert.Equal(t, 0, (*won)[1].(*events.PlayerWonEvent).Winner)

	_, err = e.ResolveTurn(context.Background())
	assert.ErrorIs(t, err, core.ErrGameOver)
	assert.ErrorIs(t, e.SubmitOrder(1, tu.Defend(1, 4)), core.ErrGameOver)
}

func TestEngine_ResolveTurnCancelled(t *testing.T) {
	e := newTestEngine(t, core.DefaultMatchConfig(), nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := e.ResolveTurn(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, e.Turn())
	assert.Empty(t, e.GameState().History)
}

func TestEngine_SlotCollisionDropsOrder(t *testing.T) {
	e := newTestEngine(t, flatPriorityConfig(), layout.Fixed{at(0, 0, 1), at(0, 2, 1)})
	rejected := recordEvents(e, events.TypeOrderRejected)

	require.NoError(t, e.SubmitOrder(0, tu.Move(0, 0, 0, 1)))
	require.NoError(t, e.SubmitOrder(0, tu.Move(0, 1, 0, 1)))

	summary, err := e.ResolveTurn(context.Background())
	require.NoError(t, err)
	require.Len(t, summary.Dropped, 1)
	assert.Equal(t, 1, summary.Dropped[0].PieceID())

	gs := e.GameState()
	pos, _ := tu.PositionOf(gs, 0)
	assert.Equal(t, core.Coordinate{X: 0, Y: 2}, pos)
	pos, _ = tu.PositionOf(gs, 1)
	assert.Equal(t, core.Coordinate{X: 2, Y: 1}, pos, "the dropped order never ran")

	require.Len(t, *rejected, 1)
	assert.Contains(t, (*rejected)[0].(*events.OrderEvent).Reason, "priority slot")
}

func TestEngine_PieceLifecycleEvents(t *testing.T) {
	e := newTestEngine(t, flatPriorityConfig(), layout.Fixed{at(0, 1, 1), at(1, 2, 2)})
	got := recordEvents(e, events.TypePieceCreated, events.TypePieceDestroyed)

	require.NoError(t, e.SubmitOrder(0, tu.Attack(0, 0, 1, 1)))
	require.NoError(t, e.SubmitOrder(0, tu.Place(0, 3, 0)))
	_, err := e.ResolveTurn(context.Background())
	require.NoError(t, err)

	require.Len(t, *got, 2)
	destroyed := (*got)[0].(*events.PieceEvent)
	assert.Equal(t, events.TypePieceDestroyed, destroyed.Type())
	assert.Equal(t, 4, destroyed.Piece.ID)
	assert.Equal(t, core.CauseAttack, destroyed.Cause)

	created := (*got)[1].(*events.PieceEvent)
	assert.Equal(t, events.TypePieceCreated, created.Type())
	assert.Equal(t, core.Coordinate{X: 3, Y: 0}, created.Piece.Position)
	assert.Equal(t, 1, created.Turn)
}

func TestPlayerView(t *testing.T) {
	e := newTestEngine(t, flatPriorityConfig(), layout.Fixed{at(0, 1, 1), at(1, 2, 2)})
	require.NoError(t, e.SubmitOrder(0, tu.Defend(0, 0)))
	require.NoError(t, e.SubmitOrder(1, tu.Defend(1, 4)))

	own := e.PlayerView(0)
	require.Len(t, own.Orders, 1)
	assert.Len(t, own.Orders[0], 1)
	assert.NotContains(t, own.Orders, 1)

	other := e.PlayerView(1)
	assert.Len(t, other.Orders[1], 1)
	assert.NotContains(t, other.Orders, 0)

	spectator := e.PlayerView(Spectator)
	assert.Equal(t, map[int][]core.Order{0: {}, 1: {}}, spectator.Orders)
	assert.Len(t, spectator.Pieces, 2)

	own.Orders[0] = nil
	assert.Len(t, e.Orders(0), 1, "views are copies")
}

func TestEngine_Board(t *testing.T) {
	e := newTestEngine(t, flatPriorityConfig(), layout.Fixed{at(0, 1, 0), at(1, 2, 3)})
	board := e.Board(false)
	assert.Contains(t, board, "A0")
	assert.Contains(t, board, "B4")
	assert.Contains(t, board, "score A=0 B=0")
	assert.NotContains(t, board, ColorReset)
	assert.Contains(t, e.Board(true), ColorRed)
}

func TestEngine_RandomSelfPlay(t *testing.T) {
	submission := core.DefaultMatchConfig()
	submission.PriorityMode = core.PriorityModeSubmission

	tests := []struct {
		name string
		cfg  core.MatchConfig
	}{
		{name: "piece priority", cfg: core.DefaultMatchConfig()},
		{name: "submission order", cfg: submission},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for seed := int64(1); seed <= 10; seed++ {
				rng := tu.NewTestRNG(seed)
				e, err := Setup(tt.cfg, rng, layout.Random{}, WithLogger(tu.NopLogger()))
				require.NoError(t, err)
				created := recordEvents(e, events.TypePieceCreated)
				seen := make(map[int]bool)
				for _, p := range e.GameState().Pieces {
					seen[p.ID] = true
				}

				for turn := 0; turn < 30 && !e.IsGameOver(); turn++ {
					for owner := 0; owner < core.Players; owner++ {
						GenerateRandomOrders(e, owner, rng)
					}
					summary, err := e.ResolveTurn(context.Background())
					require.NoError(t, err)
					gs := e.GameState()
					require.NoError(t, gs.CheckOccupancy(), "seed %d turn %d", seed, summary.Turn)

					for _, ev := range *created {
						seen[ev.(*events.PieceEvent).Piece.ID] = true
					}
					*created = (*created)[:0]
					for _, p := range gs.Pieces {
						assert.False(t, p.IsDefending)
						assert.True(t, seen[p.ID], "seed %d turn %d: piece %d was never announced", seed, summary.Turn, p.ID)
					}
					for _, snap := range summary.Snapshots {
						for _, ev := range snap.Events {
							delete(seen, ev.PieceID)
						}
					}
				}
			}
		})
	}
}

func TestEngine_DestroyedPieceOrderSkippedAfterPlacement(t *testing.T) {
	cfg := core.DefaultMatchConfig()
	cfg.PriorityMode = core.PriorityModeSubmission
	e := newTestEngine(t, cfg, layout.Fixed{at(0, 1, 1), at(1, 0, 2)})
	got := recordEvents(e, events.TypePieceCreated, events.TypePieceDestroyed)

	require.NoError(t, e.SubmitOrder(0, tu.Place(0, 2, 0)))
	require.NoError(t, e.SubmitOrder(0, tu.Move(0, 0, 0, 1)))
	require.NoError(t, e.SubmitOrder(1, tu.Attack(1, 4, 1, -1)))
	_, err := e.ResolveTurn(context.Background())
	require.NoError(t, err)

	gs := e.GameState()
	require.Len(t, gs.Pieces, 2)
	placed := gs.OccupantAt(core.Coordinate{X: 2, Y: 0})
	require.NotNil(t, placed, "the placed piece stays where it was put")
	assert.Equal(t, 1, placed.ID)
	assert.Nil(t, gs.FindPiece(0))
	assert.NoError(t, gs.CheckOccupancy())

	require.Len(t, *got, 2)
	assert.Equal(t, events.TypePieceDestroyed, (*got)[0].Type())
	assert.Equal(t, 0, (*got)[0].(*events.PieceEvent).Piece.ID)
	assert.Equal(t, events.TypePieceCreated, (*got)[1].Type())
	assert.Equal(t, 1, (*got)[1].(*events.PieceEvent).Piece.ID)

	id, ok := core.FreeID(gs, 0)
	require.True(t, ok)
	assert.Equal(t, 0, id, "the destroyed id is free from the next turn")
}
