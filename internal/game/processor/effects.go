package processor

import (
	"github.com/mitchelldurbincs/zugzwang/internal/game/core"
)

// attack destroys the occupants of every targeted square. Victims are
// collected before anything is removed, so simultaneous attacks all land.
// Defending pieces are immune.
func (r *Resolver) attack(gs *core.GameState, orders []core.Order) []core.HistoryEvent {
	var victims []int
	seen := make(map[int]bool, len(orders))
	for _, o := range orders {
		attacker := r.source(gs, o)
		if attacker == nil {
			continue
		}
		target := attacker.Position.Add(o.Vector())
		victim := gs.OccupantAt(target)
		if victim == nil {
			continue
		}
		if victim.IsDefending {
			r.logger.Debug().
				Int("attacker_id", attacker.ID).
				Int("victim_id", victim.ID).
				Msg("Attack blocked by defending piece")
			continue
		}
		if !seen[victim.ID] {
			seen[victim.ID] = true
			victims = append(victims, victim.ID)
		}
	}
	return r.cleaner.destroy(gs, victims, core.CauseAttack)
}

func (r *Resolver) defend(gs *core.GameState, o core.Order) {
	if piece := r.source(gs, o); piece != nil {
		piece.IsDefending = true
	}
}

func (r *Resolver) place(gs *core.GameState, o core.Order) {
	spec := core.PieceSpec{Position: o.Vector(), Owner: o.Owner()}
	piece, err := r.registry.CreatePiece(gs, spec)
	if err != nil {
		r.logger.Debug().Err(err).
			Int("owner", o.Owner()).
			Str("target", o.Vector().String()).
			Msg("Place order had no effect")
		return
	}
	r.logger.Debug().
		Int("piece_id", piece.ID).
		Int("owner", piece.Owner).
		Int("priority", piece.Priority).
		Str("position", piece.Position.String()).
		Msg("Piece placed")
}

// concurrentMove resolves two moves of equal rank. Pieces swapping squares
// or entering the same square bounce and stay where they are. Otherwise
// both chains are computed on the board as it stands and applied together.
func (r *Resolver) concurrentMove(gs *core.GameState, pair OrderPair) {
	a, b, ok := r.bothSources(gs, pair)
	if !ok {
		return
	}
	va, vb := pair[0].Vector(), pair[1].Vector()
	ta, tb := a.Position.Add(va), b.Position.Add(vb)

	if ta.Equal(tb) || (ta.Equal(b.Position) && tb.Equal(a.Position)) {
		r.logger.Debug().
			Int("piece_a", a.ID).
			Int("piece_b", b.ID).
			Str("target_a", ta.String()).
			Str("target_b", tb.String()).
			Msg("Moves bounce")
		return
	}

	moves := mergeChains(MoveChain(gs, a, va), MoveChain(gs, b, vb))
	applyDisplacements(gs, moves)
}

// concurrentPush resolves two pushes of equal rank. Both chains are walked
// in lockstep; if they reach the same square at the same step, or the two
// pushers push each other, nothing moves. A piece displaced by both chains
// moves once, following the chain that reached it first.
func (r *Resolver) concurrentPush(gs *core.GameState, pair OrderPair) {
	a, b, ok := r.bothSources(gs, pair)
	if !ok {
		return
	}
	va, vb := pair[0].Vector(), pair[1].Vector()

	if a.Position.Add(va).Equal(b.Position) && b.Position.Add(vb).Equal(a.Position) {
		r.logger.Debug().Int("piece_a", a.ID).Int("piece_b", b.ID).Msg("Pushers push each other, both pushes cancelled")
		return
	}

	ca, cb := PushChain(gs, a, va), PushChain(gs, b, vb)
	steps := len(ca)
	if len(cb) > steps {
		steps = len(cb)
	}

	for i := 0; i < len(ca) && i < len(cb); i++ {
		if ca[i].To.Equal(cb[i].To) {
			r.logger.Debug().
				Int("step", i).
				Str("square", ca[i].To.String()).
				Msg("Push chains collide, both pushes cancelled")
			return
		}
	}

	committed := make(map[int]bool, steps*2)
	accepted := make([]Displacement, 0, steps*2)
	for i := 0; i < steps; i++ {
		for _, chain := range [][]Displacement{ca, cb} {
			if i >= len(chain) || committed[chain[i].PieceID] {
				continue
			}
			committed[chain[i].PieceID] = true
			accepted = append(accepted, chain[i])
		}
	}
	applyDisplacements(gs, accepted)
}

// bothSources fetches both acting pieces by value. When one is missing the
// other order is applied on its own and ok is false.
func (r *Resolver) bothSources(gs *core.GameState, pair OrderPair) (core.Piece, core.Piece, bool) {
	pa, pb := r.source(gs, pair[0]), r.source(gs, pair[1])
	if pa == nil || pb == nil {
		for i, p := range []*core.Piece{pa, pb} {
			if p != nil {
				r.applySingle(gs, pair[i])
			}
		}
		return core.Piece{}, core.Piece{}, false
	}
	return *pa, *pb, true
}

// mergeChains joins move chains in order. A piece already taken by an
// earlier chain ends the later one there: the pieces in front of it are
// no longer being pushed.
func mergeChains(chains ...[]Displacement) []Displacement {
	seen := make(map[int]bool)
	var merged []Displacement
	for _, chain := range chains {
		for _, d := range chain {
			if seen[d.PieceID] {
				break
			}
			seen[d.PieceID] = true
			merged = append(merged, d)
		}
	}
	return merged
}
