package rules

import (
	"sort"

	"github.com/mitchelldurbincs/zugzwang/internal/game/core"
)

// LegalSquaresFor lists the on-board squares an order of the given kind may
// target from origin. For place orders origin is ignored and the whole home
// rank is returned. Squares are ordered by row, then column.
func LegalSquaresFor(kind core.OrderKind, origin core.Coordinate, owner int, cfg core.MatchConfig) []core.Coordinate {
	shape, ok := ShapeFor(kind, cfg)
	if !ok || !core.ValidOwner(owner) {
		return nil
	}

	if shape.Axis == AxisArea {
		rank := cfg.HomeRank(owner)
		squares := make([]core.Coordinate, 0, cfg.Board.X)
		for x := 0; x < cfg.Board.X; x++ {
			squares = append(squares, core.Coordinate{X: x, Y: rank})
		}
		return squares
	}

	var squares []core.Coordinate
	for _, y := range shape.AllowedY {
		for _, x := range shape.AllowedX {
			v := core.Coordinate{X: x, Y: y}
			if !shape.Admits(v) {
				continue
			}
			target := origin.Add(v.Mirror(owner))
			if target.IsValid(cfg.Board) {
				squares = append(squares, target)
			}
		}
	}
	sortSquares(squares)
	return squares
}

// LegalTargets maps each order kind to its legal squares for a piece
func LegalTargets(piece core.Piece, cfg core.MatchConfig) map[core.OrderKind][]core.Coordinate {
	kinds := []core.OrderKind{
		core.KindMoveStraight, core.KindMoveDiagonal,
		core.KindPushStraight, core.KindPushDiagonal,
		core.KindAttack, core.KindDefend,
	}
	targets := make(map[core.OrderKind][]core.Coordinate, len(kinds))
	for _, kind := range kinds {
		if squares := LegalSquaresFor(kind, piece.Position, piece.Owner, cfg); len(squares) > 0 {
			targets[kind] = squares
		}
	}
	return targets
}

func sortSquares(squares []core.Coordinate) {
	sort.Slice(squares, func(i, j int) bool {
		if squares[i].Y != squares[j].Y {
			return squares[i].Y < squares[j].Y
		}
		return squares[i].X < squares[j].X
	})
}
