package game

import (
	"github.com/mitchelldurbincs/zugzwang/internal/game/core"
)

// Spectator is the viewer id for someone who does not own a side
const Spectator = -1

// PlayerView returns a copy of gs with the order buffers a viewer may not
// see removed. An owner keeps only their own buffer. A spectator sees both
// keys with empty buffers. Resolved history is public and kept.
func PlayerView(gs *core.GameState, viewer int) *core.GameState {
	view := gs.Clone()
	if core.ValidOwner(viewer) {
		view.Orders = map[int][]core.Order{viewer: view.Orders[viewer]}
		if view.Orders[viewer] == nil {
			view.Orders[viewer] = []core.Order{}
		}
		return view
	}
	view.Orders = make(map[int][]core.Order, core.Players)
	for owner := 0; owner < core.Players; owner++ {
		view.Orders[owner] = []core.Order{}
	}
	return view
}
