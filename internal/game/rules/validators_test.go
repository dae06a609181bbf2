package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitchelldurbincs/zugzwang/internal/game/core"
)

func pieceAt(id, owner, x, y int) core.Piece {
	return core.Piece{ID: id, Owner: owner, Position: core.Coordinate{X: x, Y: y}, Priority: 1}
}

func TestIsLegalOrder_ShapeTable(t *testing.T) {
	cfg := core.DefaultMatchConfig()
	p0 := pieceAt(0, 0, 1, 1)
	p1 := pieceAt(4, 1, 1, 2)

	tests := []struct {
		name  string
		piece core.Piece
		kind  core.OrderKind
		v     core.Coordinate
		legal bool
	}{
		{"owner 0 moves forward", p0, core.KindMoveStraight, core.Coordinate{X: 0, Y: 1}, true},
		{"owner 0 cannot move backward", p0, core.KindMoveStraight, core.Coordinate{X: 0, Y: -1}, false},
		{"owner 0 cannot move sideways", p0, core.KindMoveStraight, core.Coordinate{X: 1, Y: 0}, false},
		{"owner 1 forward is negative y", p1, core.KindMoveStraight, core.Coordinate{X: 0, Y: -1}, true},
		{"owner 1 cannot move toward positive y", p1, core.KindMoveStraight, core.Coordinate{X: 0, Y: 1}, false},
		{"diagonal move any direction", p0, core.KindMoveDiagonal, core.Coordinate{X: -1, Y: -1}, true},
		{"diagonal move needs both axes", p0, core.KindMoveDiagonal, core.Coordinate{X: 0, Y: 1}, false},
		{"diagonal move magnitude one", p0, core.KindMoveDiagonal, core.Coordinate{X: 2, Y: 2}, false},
		{"owner 0 attacks forward diagonal", p0, core.KindAttack, core.Coordinate{X: 1, Y: 1}, true},
		{"owner 0 cannot attack backward", p0, core.KindAttack, core.Coordinate{X: 1, Y: -1}, false},
		{"owner 1 attacks forward diagonal", p1, core.KindAttack, core.Coordinate{X: -1, Y: -1}, true},
		{"attack is never straight", p0, core.KindAttack, core.Coordinate{X: 0, Y: 1}, false},
		{"straight push sideways", p0, core.KindPushStraight, core.Coordinate{X: 1, Y: 0}, true},
		{"straight push backward", p0, core.KindPushStraight, core.Coordinate{X: 0, Y: -1}, true},
		{"straight push not zero", p0, core.KindPushStraight, core.Coordinate{X: 0, Y: 0}, false},
		{"straight push not diagonal", p0, core.KindPushStraight, core.Coordinate{X: 1, Y: 1}, false},
		{"diagonal push", p1, core.KindPushDiagonal, core.Coordinate{X: 1, Y: 1}, true},
		{"defend has no vector", p0, core.KindDefend, core.Coordinate{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			order, err := core.NewOrder(tt.kind, tt.piece.Owner, tt.piece.ID, tt.v)
			require.NoError(t, err)
			assert.Equal(t, tt.legal, IsLegalOrder(tt.piece, order, cfg))
		})
	}
}

func TestIsLegalOrder_PushBackwardDisabled(t *testing.T) {
	cfg := core.DefaultMatchConfig()
	cfg.PushBackward = false

	p0 := pieceAt(0, 0, 1, 1)
	p1 := pieceAt(4, 1, 1, 2)

	back0 := core.PushOrder{SourcePieceID: 0, OwnerID: 0, ToTarget: core.Coordinate{X: 0, Y: -1}}
	back1 := core.PushOrder{SourcePieceID: 4, OwnerID: 1, ToTarget: core.Coordinate{X: 0, Y: 1}}
	fwd1 := core.PushOrder{SourcePieceID: 4, OwnerID: 1, ToTarget: core.Coordinate{X: 0, Y: -1}}

	assert.False(t, IsLegalOrder(p0, back0, cfg))
	assert.False(t, IsLegalOrder(p1, back1, cfg), "backward is mirrored for owner 1")
	assert.True(t, IsLegalOrder(p1, fwd1, cfg))
}

func TestIsLegalOrder_WrongPiece(t *testing.T) {
	cfg := core.DefaultMatchConfig()
	piece := pieceAt(0, 0, 1, 1)
	other := core.MoveOrder{SourcePieceID: 1, OwnerID: 0, ToTarget: core.Coordinate{X: 0, Y: 1}}
	assert.False(t, IsLegalOrder(piece, other, cfg))
}

func TestIsLegalPlacement(t *testing.T) {
	board := core.Coordinate{X: 4, Y: 4}

	tests := []struct {
		name   string
		owner  int
		target core.Coordinate
		legal  bool
	}{
		{"owner 0 home rank", 0, core.Coordinate{X: 2, Y: 0}, true},
		{"owner 0 other rank", 0, core.Coordinate{X: 2, Y: 1}, false},
		{"owner 1 home rank", 1, core.Coordinate{X: 0, Y: 3}, true},
		{"owner 1 owner 0 rank", 1, core.Coordinate{X: 0, Y: 0}, false},
		{"off board", 0, core.Coordinate{X: 4, Y: 0}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			order := core.PlaceOrder{OwnerID: tt.owner, Target: tt.target}
			assert.Equal(t, tt.legal, IsLegalPlacement(tt.owner, order, board))
		})
	}

	mismatched := core.PlaceOrder{OwnerID: 1, Target: core.Coordinate{X: 0, Y: 0}}
	assert.False(t, IsLegalPlacement(0, mismatched, board), "order owner must match")
}

func TestValidateOrder(t *testing.T) {
	gs := core.NewGameState(core.DefaultMatchConfig())
	gs.Pieces = append(gs.Pieces, pieceAt(0, 0, 1, 1), pieceAt(4, 1, 2, 2))
	gs.ReindexCells()

	forward := core.MoveOrder{SourcePieceID: 0, OwnerID: 0, ToTarget: core.Coordinate{X: 0, Y: 1}}
	require.NoError(t, ValidateOrder(gs, 0, forward))

	assert.ErrorIs(t, ValidateOrder(gs, 1, forward), core.ErrNotOwner, "order owner differs from submitter")

	stolen := core.MoveOrder{SourcePieceID: 4, OwnerID: 0, ToTarget: core.Coordinate{X: 0, Y: 1}}
	assert.ErrorIs(t, ValidateOrder(gs, 0, stolen), core.ErrNotOwner)

	ghost := core.MoveOrder{SourcePieceID: 3, OwnerID: 0, ToTarget: core.Coordinate{X: 0, Y: 1}}
	assert.ErrorIs(t, ValidateOrder(gs, 0, ghost), core.ErrUnknownPiece)

	backward := core.MoveOrder{SourcePieceID: 0, OwnerID: 0, ToTarget: core.Coordinate{X: 0, Y: -1}}
	assert.ErrorIs(t, ValidateOrder(gs, 0, backward), core.ErrIllegalOrder)

	gs.Orders[0] = append(gs.Orders[0], forward)
	attack := core.AttackOrder{SourcePieceID: 0, OwnerID: 0, ToTarget: core.Coordinate{X: 1, Y: 1}}
	assert.ErrorIs(t, ValidateOrder(gs, 0, attack), core.ErrDuplicateOrder)

	place := core.PlaceOrder{OwnerID: 1, Target: core.Coordinate{X: 3, Y: 3}}
	assert.NoError(t, ValidateOrder(gs, 1, place))
	badPlace := core.PlaceOrder{OwnerID: 1, Target: core.Coordinate{X: 3, Y: 2}}
	assert.ErrorIs(t, ValidateOrder(gs, 1, badPlace), core.ErrIllegalOrder)

	assert.ErrorIs(t, ValidateOrder(gs, 2, place), core.ErrInvalidPlayer)
	assert.ErrorIs(t, ValidateOrder(gs, 0, nil), core.ErrIllegalOrder)
}
