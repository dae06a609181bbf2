package game

import (
	"math/rand"

	"github.com/rs/zerolog/log"

	"github.com/mitchelldurbincs/zugzwang/internal/game/core"
	"github.com/mitchelldurbincs/zugzwang/internal/game/rules"
)

// GenerateRandomOrders submits a random legal order for some of an owner's
// pieces, and sometimes a placement. It returns the orders that were
// accepted. Intended for demos and baseline self-play.
func GenerateRandomOrders(e *Engine, owner int, rng *rand.Rand) []core.Order {
	var accepted []core.Order
	submit := func(o core.Order) {
		if err := e.SubmitOrder(owner, o); err != nil {
			log.Debug().Err(err).Int("player_id", owner).Msg("Random order rejected")
			return
		}
		accepted = append(accepted, o)
	}

	for _, piece := range e.gs.Pieces {
		if piece.Owner != owner || rng.Float32() < 0.2 {
			continue
		}
		targets := rules.LegalTargets(piece, e.gs.Config)
		kinds := make([]core.OrderKind, 0, len(targets))
		for kind := core.KindMoveStraight; kind <= core.KindDefend; kind++ {
			if kind != core.KindPlace && len(targets[kind]) > 0 {
				kinds = append(kinds, kind)
			}
		}
		if len(kinds) == 0 {
			continue
		}
		kind := kinds[rng.Intn(len(kinds))]
		squares := targets[kind]
		vector := piece.Position.Delta(squares[rng.Intn(len(squares))])
		order, err := core.NewOrder(kind, owner, piece.ID, vector)
		if err != nil {
			continue
		}
		submit(order)
	}

	if rng.Float32() < 0.5 {
		if squares := rules.LegalSquaresFor(core.KindPlace, core.Coordinate{}, owner, e.gs.Config); len(squares) > 0 {
			target := squares[rng.Intn(len(squares))]
			submit(core.PlaceOrder{OwnerID: owner, Target: target})
		}
	}
	return accepted
}
