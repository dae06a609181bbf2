package rules

import (
	"fmt"

	"github.com/mitchelldurbincs/zugzwang/internal/game/core"
)

// Axis constrains the direction of an order's displacement
type Axis int

const (
	AxisNone Axis = iota
	AxisStraight
	AxisDiagonal
	AxisArea
)

// OrderShape describes the displacements an order kind admits. AllowedX and
// AllowedY are forward-relative: owner 1's y is mirrored before the lookup.
// A nil set is unconstrained.
type OrderShape struct {
	Axis     Axis
	AllowedX []int
	AllowedY []int
}

// ShapeFor returns the shape table entry for kind
func ShapeFor(kind core.OrderKind, cfg core.MatchConfig) (OrderShape, bool) {
	switch kind {
	case core.KindAttack:
		return OrderShape{Axis: AxisDiagonal, AllowedX: []int{-1, 1}, AllowedY: []int{1}}, true
	case core.KindMoveStraight:
		return OrderShape{Axis: AxisStraight, AllowedX: []int{0}, AllowedY: []int{1}}, true
	case core.KindMoveDiagonal, core.KindPushDiagonal:
		return OrderShape{Axis: AxisDiagonal, AllowedX: []int{-1, 1}, AllowedY: []int{-1, 1}}, true
	case core.KindPushStraight:
		ys := []int{0, 1}
		if cfg.PushBackward {
			ys = []int{-1, 0, 1}
		}
		return OrderShape{Axis: AxisStraight, AllowedX: []int{-1, 0, 1}, AllowedY: ys}, true
	case core.KindPlace:
		return OrderShape{Axis: AxisArea}, true
	case core.KindDefend:
		return OrderShape{Axis: AxisNone, AllowedX: []int{0}, AllowedY: []int{0}}, true
	default:
		return OrderShape{}, false
	}
}

// Admits reports whether a forward-relative vector fits the shape
func (s OrderShape) Admits(v core.Coordinate) bool {
	switch s.Axis {
	case AxisStraight:
		if !v.IsStraight() {
			return false
		}
	case AxisDiagonal:
		if !v.IsDiagonal() {
			return false
		}
	case AxisNone:
		if !v.IsZero() {
			return false
		}
	}
	return contains(s.AllowedX, v.X) && contains(s.AllowedY, v.Y)
}

// IsLegalOrder checks the order's shape for a piece. Place orders have no
// piece and are checked with IsLegalPlacement instead.
func IsLegalOrder(piece core.Piece, order core.Order, cfg core.MatchConfig) bool {
	if order.Kind() == core.KindPlace {
		return IsLegalPlacement(piece.Owner, order, cfg.Board)
	}
	if order.Owner() != piece.Owner || order.PieceID() != piece.ID {
		return false
	}
	shape, ok := ShapeFor(order.Kind(), cfg)
	if !ok {
		return false
	}
	return shape.Admits(order.Vector().Mirror(piece.Owner))
}

// IsLegalPlacement checks that a place order targets the owner's home rank
func IsLegalPlacement(owner int, order core.Order, board core.Coordinate) bool {
	if order.Kind() != core.KindPlace || order.Owner() != owner || !core.ValidOwner(owner) {
		return false
	}
	target := order.Vector()
	return target.IsValid(board) && target.Y == homeRank(owner, board)
}

// ValidateOrder checks an order against the current state before it is
// buffered. The error wraps one of the core validation sentinels.
func ValidateOrder(gs *core.GameState, owner int, order core.Order) error {
	if order == nil {
		return core.WrapOrderError(nil, core.ErrIllegalOrder)
	}
	if !core.ValidOwner(owner) {
		return core.WrapOrderError(order, core.ErrInvalidPlayer)
	}
	if order.Owner() != owner {
		return core.WrapOrderError(order, core.ErrNotOwner)
	}

	if order.Kind() == core.KindPlace {
		if !IsLegalPlacement(owner, order, gs.Config.Board) {
			return core.WrapOrderError(order, core.ErrIllegalOrder)
		}
		return nil
	}

	piece := gs.FindPiece(order.PieceID())
	if piece == nil {
		return core.WrapOrderError(order, core.ErrUnknownPiece)
	}
	if piece.Owner != owner {
		return core.WrapOrderError(order, core.ErrNotOwner)
	}
	for _, queued := range gs.Orders[owner] {
		if queued.PieceID() == piece.ID {
			return core.WrapOrderError(order, core.ErrDuplicateOrder)
		}
	}
	if !IsLegalOrder(*piece, order, gs.Config) {
		return core.WrapOrderError(order, fmt.Errorf("vector %s for owner %d: %w", order.Vector(), owner, core.ErrIllegalOrder))
	}
	return nil
}

func homeRank(owner int, board core.Coordinate) int {
	if owner == 1 {
		return board.Y - 1
	}
	return 0
}

func contains(set []int, v int) bool {
	if set == nil {
		return true
	}
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
