package processor

import (
	"sort"

	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/zugzwang/internal/game/core"
)

// Resolver applies paired orders to the game state one step at a time
type Resolver struct {
	logger   zerolog.Logger
	registry *core.Registry
	cleaner  *Cleaner
}

// NewResolver creates a resolver. Place orders create pieces through registry.
func NewResolver(logger zerolog.Logger, registry *core.Registry, cleaner *Cleaner) *Resolver {
	return &Resolver{
		logger:   logger.With().Str("component", "Resolver").Logger(),
		registry: registry,
		cleaner:  cleaner,
	}
}

// Resolve applies every pair in sequence and returns one step snapshot per
// pair. Pairs that tie on every comparison resolve concurrently; otherwise
// their orders are applied one after the other with cleanup in between.
func (r *Resolver) Resolve(gs *core.GameState, pairs []OrderPair) []core.Snapshot {
	snapshots := make([]core.Snapshot, 0, len(pairs))
	for step, pair := range pairs {
		var events []core.HistoryEvent
		if pair.Concurrent() {
			r.logger.Debug().
				Int("step", step).
				Str("kind0", pair[0].Kind().String()).
				Str("kind1", pair[1].Kind().String()).
				Msg("Resolving concurrent pair")
			events = r.resolveConcurrent(gs, pair)
		} else {
			events = r.resolveSequential(gs, pair)
		}

		if gs.Config.OutOfBoundsMode == core.OutOfBoundsImmediate {
			if err := gs.CheckOccupancy(); err != nil {
				r.logger.Debug().Err(err).Int("step", step).Msg("Occupancy check failed after step")
			}
		}
		snapshots = append(snapshots, core.TakeSnapshot(gs, core.PhaseStep, pair.Present(), events))
	}
	return snapshots
}

func (r *Resolver) resolveSequential(gs *core.GameState, pair OrderPair) []core.HistoryEvent {
	orders := pair.Present()
	sort.SliceStable(orders, func(i, j int) bool {
		if orders[i].Priority() != orders[j].Priority() {
			return orders[i].Priority() < orders[j].Priority()
		}
		return orders[i].Owner() < orders[j].Owner()
	})

	var events []core.HistoryEvent
	for _, o := range orders {
		events = append(events, r.applySingle(gs, o)...)
		events = append(events, r.cleaner.AfterStep(gs)...)
	}
	return events
}

func (r *Resolver) applySingle(gs *core.GameState, o core.Order) []core.HistoryEvent {
	switch o.Kind() {
	case core.KindPlace:
		r.place(gs, o)
		return nil
	case core.KindAttack:
		return r.attack(gs, []core.Order{o})
	case core.KindDefend:
		r.defend(gs, o)
		return nil
	}

	piece := r.source(gs, o)
	if piece == nil {
		return nil
	}
	var moves []Displacement
	if o.Kind().IsPush() {
		moves = PushChain(gs, *piece, o.Vector())
	} else {
		moves = MoveChain(gs, *piece, o.Vector())
	}
	applyDisplacements(gs, moves)
	return nil
}

func (r *Resolver) resolveConcurrent(gs *core.GameState, pair OrderPair) []core.HistoryEvent {
	switch kind := pair[0].Kind(); {
	case kind == core.KindAttack:
		events := r.attack(gs, pair[:])
		return append(events, r.cleaner.AfterStep(gs)...)
	case kind.IsMove():
		r.concurrentMove(gs, pair)
		return r.cleaner.AfterStep(gs)
	case kind.IsPush():
		r.concurrentPush(gs, pair)
		return r.cleaner.AfterStep(gs)
	default:
		// place/place and defend/defend touch disjoint state
		for _, o := range pair {
			r.applySingle(gs, o)
		}
		return r.cleaner.AfterStep(gs)
	}
}

// source returns the acting piece or nil when it no longer exists
func (r *Resolver) source(gs *core.GameState, o core.Order) *core.Piece {
	piece := gs.FindPiece(o.PieceID())
	if piece == nil {
		r.logger.Debug().
			Int("piece_id", o.PieceID()).
			Str("kind", o.Kind().String()).
			Msg("Source piece missing, order skipped")
		return nil
	}
	return piece
}

func applyDisplacements(gs *core.GameState, moves []Displacement) {
	if len(moves) == 0 {
		return
	}
	for _, m := range moves {
		if p := gs.FindPiece(m.PieceID); p != nil {
			p.Position = m.To
		}
	}
	gs.ReindexCells()
}
