package testutil

import (
	"github.com/mitchelldurbincs/zugzwang/internal/game/core"
)

// TestPiece builds a piece at (x, y)
func TestPiece(id, owner, x, y, priority int) core.Piece {
	return core.Piece{
		ID:       id,
		Owner:    owner,
		Position: core.Coordinate{X: x, Y: y},
		Priority: priority,
	}
}

// TestConfig returns the default rules on a width x height board
func TestConfig(width, height int) core.MatchConfig {
	cfg := core.DefaultMatchConfig()
	cfg.Board = core.Coordinate{X: width, Y: height}
	return cfg
}

// NewTestState creates a state holding exactly the given pieces, with the
// cell index built from them
func NewTestState(cfg core.MatchConfig, pieces ...core.Piece) *core.GameState {
	gs := core.NewGameState(cfg)
	gs.Pieces = append(gs.Pieces, pieces...)
	gs.ReindexCells()
	return gs
}

// PositionOf returns a piece's position and whether it still exists
func PositionOf(gs *core.GameState, id int) (core.Coordinate, bool) {
	if p := gs.FindPiece(id); p != nil {
		return p.Position, true
	}
	return core.Coordinate{}, false
}

// Move is shorthand for a straight or diagonal move order
func Move(owner, pieceID, dx, dy int) core.Order {
	v := core.Coordinate{X: dx, Y: dy}
	return core.MoveOrder{SourcePieceID: pieceID, OwnerID: owner, ToTarget: v, Diagonal: v.IsDiagonal()}
}

// Push is shorthand for a straight or diagonal push order
func Push(owner, pieceID, dx, dy int) core.Order {
	v := core.Coordinate{X: dx, Y: dy}
	return core.PushOrder{SourcePieceID: pieceID, OwnerID: owner, ToTarget: v, Diagonal: v.IsDiagonal()}
}

// Attack is shorthand for an attack order
func Attack(owner, pieceID, dx, dy int) core.Order {
	return core.AttackOrder{SourcePieceID: pieceID, OwnerID: owner, ToTarget: core.Coordinate{X: dx, Y: dy}}
}

// Place is shorthand for a place order
func Place(owner, x, y int) core.Order {
	return core.PlaceOrder{OwnerID: owner, Target: core.Coordinate{X: x, Y: y}}
}

// Defend is shorthand for a defend order
func Defend(owner, pieceID int) core.Order {
	return core.DefendOrder{SourcePieceID: pieceID, OwnerID: owner}
}
