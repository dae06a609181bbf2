package processor

import "github.com/mitchelldurbincs/zugzwang/internal/game/core"

// Displacement moves one piece to a new square
type Displacement struct {
	PieceID int
	From    core.Coordinate
	To      core.Coordinate
}

// ComputeChain follows vector from piece through every piece standing in the
// way. The first displacement is the acting piece itself, the last one
// lands on an empty square. Squares past the board edge are followed like
// any other; cleanup removes whatever ends up off the board.
func ComputeChain(gs *core.GameState, piece core.Piece, vector core.Coordinate) []Displacement {
	if vector.IsZero() {
		return nil
	}
	visited := make(map[int]bool, len(gs.Pieces))
	chain := make([]Displacement, 0, 2)
	current := piece
	for {
		target := current.Position.Add(vector)
		chain = append(chain, Displacement{PieceID: current.ID, From: current.Position, To: target})
		visited[current.ID] = true

		next := gs.OccupantAt(target)
		if next == nil || visited[next.ID] {
			return chain
		}
		current = *next
	}
}

// CanPush applies the match's push restriction to the piece adjacent to
// the pusher along vector. An empty square is always pushable.
func CanPush(gs *core.GameState, pusher core.Piece, vector core.Coordinate) bool {
	occupant := gs.OccupantAt(pusher.Position.Add(vector))
	if occupant == nil {
		return true
	}
	return gs.Config.PushRestriction.Allows(pusher, *occupant)
}

// PushChain returns the displacements a push applies. The pusher stays put,
// so the chain's head is dropped. A push rejected by the restriction
// displaces nothing.
func PushChain(gs *core.GameState, pusher core.Piece, vector core.Coordinate) []Displacement {
	if !CanPush(gs, pusher, vector) {
		return nil
	}
	chain := ComputeChain(gs, pusher, vector)
	if len(chain) <= 1 {
		return nil
	}
	return chain[1:]
}

// MoveChain returns the displacements a move applies. Unless moves can push,
// a move onto an occupied square does nothing.
func MoveChain(gs *core.GameState, mover core.Piece, vector core.Coordinate) []Displacement {
	target := mover.Position.Add(vector)
	if gs.OccupantAt(target) != nil {
		if !gs.Config.MovesCanPush || !CanPush(gs, mover, vector) {
			return nil
		}
	}
	return ComputeChain(gs, mover, vector)
}
