package game

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/zugzwang/internal/game/core"
	"github.com/mitchelldurbincs/zugzwang/internal/game/events"
	"github.com/mitchelldurbincs/zugzwang/internal/game/processor"
)

// TurnSummary describes one resolved turn
type TurnSummary struct {
	Turn int
	// Snapshots is the history entry appended for the turn: one per step,
	// then the bounds and score snapshots
	Snapshots []core.Snapshot
	// Dropped lists orders discarded by pairing because their pieces
	// shared a priority slot
	Dropped  []core.Order
	Score    [core.Players]int
	GameOver bool
	Winner   int
}

// ResolveTurn resolves both buffered order lists as one turn
func (e *Engine) ResolveTurn(ctx context.Context) (*TurnSummary, error) {
	return e.turnProcessor.ProcessTurn(ctx)
}

// TurnProcessor handles the orchestration of a single turn
type TurnProcessor struct {
	engine *Engine
	logger zerolog.Logger
}

func NewTurnProcessor(engine *Engine) *TurnProcessor {
	return &TurnProcessor{
		engine: engine,
		logger: engine.logger,
	}
}

// ProcessTurn pairs the buffers, resolves every step, runs end of turn
// cleanup, records history and checks the win condition. Cancellation is
// honoured only before the turn starts.
func (tp *TurnProcessor) ProcessTurn(ctx context.Context) (*TurnSummary, error) {
	if err := tp.checkContext(ctx, "before starting"); err != nil {
		return nil, err
	}
	if err := tp.validateGameState(); err != nil {
		return nil, err
	}

	gs := tp.engine.gs
	gs.Turn++
	turnLogger := tp.logger.With().Int("turn", gs.Turn).Logger()
	turnLogger.Debug().Msg("Starting turn resolution")
	turnStartTime := time.Now()

	orders0 := append([]core.Order{}, gs.Orders[0]...)
	orders1 := append([]core.Order{}, gs.Orders[1]...)
	tp.engine.eventBus.Publish(events.NewTurnStartedEvent(tp.engine.matchID, gs.Turn, len(orders0)+len(orders1)))

	dropped, pairs, err := tp.pair(orders0, orders1, turnLogger)
	if err != nil {
		gs.Turn--
		return nil, err
	}

	before := append([]core.Piece(nil), gs.Pieces...)
	entry := tp.engine.resolver.Resolve(gs, pairs)
	entry = append(entry, tp.engine.cleaner.EndTurn(gs)...)
	gs.History = append(gs.History, entry)
	tp.publishPieceEvents(before, entry)

	summary := &TurnSummary{
		Turn:      gs.Turn,
		Snapshots: entry,
		Dropped:   dropped,
		Score:     gs.Score,
		Winner:    tp.engine.winner,
	}
	tp.checkGameOver(summary, turnLogger)

	tp.engine.eventBus.Publish(events.NewTurnResolvedEvent(
		tp.engine.matchID,
		gs.Turn,
		len(pairs),
		len(dropped),
		gs.Score,
		entry,
		time.Since(turnStartTime),
	))

	turnLogger.Debug().
		Int("steps", len(pairs)).
		Int("pieces", len(gs.Pieces)).
		Ints("score", gs.Score[:]).
		Msg("Turn resolved")
	return summary, nil
}

func (tp *TurnProcessor) checkContext(ctx context.Context, phase string) error {
	select {
	case <-ctx.Done():
		tp.logger.Warn().
			Err(ctx.Err()).
			Int("turn", tp.engine.gs.Turn).
			Str("phase", phase).
			Msg("Turn resolution cancelled or timed out")
		return ctx.Err()
	default:
		return nil
	}
}

func (tp *TurnProcessor) validateGameState() error {
	if tp.engine.gameOver {
		tp.logger.Warn().
			Int("turn", tp.engine.gs.Turn).
			Msg("Attempted to resolve a turn in a match that is already over")
		return core.WrapGameStateError(tp.engine.gs.Turn, "resolve", core.ErrGameOver)
	}
	return nil
}

// pair arranges the buffers. Slot collisions are not fatal: the colliding
// orders are dropped, logged and published as rejected.
func (tp *TurnProcessor) pair(orders0, orders1 []core.Order, turnLogger zerolog.Logger) ([]core.Order, []processor.OrderPair, error) {
	gs := tp.engine.gs
	pairs, err := processor.ArrangeOrderPairs(gs, orders0, orders1)
	var collision *processor.SlotCollisionError
	switch {
	case err == nil:
		return nil, pairs, nil
	case errors.As(err, &collision):
		turnLogger.Warn().Err(err).Int("dropped", len(collision.Dropped)).Msg("Orders dropped during pairing")
		for _, o := range collision.Dropped {
			tp.engine.eventBus.Publish(events.NewOrderRejectedEvent(tp.engine.matchID, gs.Turn, o, core.ErrPrioritySlotCollision))
		}
		return collision.Dropped, pairs, nil
	default:
		turnLogger.Error().Err(err).Msg("Pairing failed")
		return nil, nil, core.WrapGameStateError(gs.Turn, "pairing", err)
	}
}

// publishPieceEvents walks the turn's snapshots and publishes created,
// destroyed and scored pieces. Creations are found by comparing rosters.
func (tp *TurnProcessor) publishPieceEvents(before []core.Piece, snapshots []core.Snapshot) {
	bus, matchID, turn := tp.engine.eventBus, tp.engine.matchID, tp.engine.gs.Turn
	prev := indexPieces(before)
	for _, snap := range snapshots {
		for _, ev := range snap.Events {
			piece, ok := prev[ev.PieceID]
			if !ok {
				piece = core.Piece{ID: ev.PieceID, Owner: ev.Owner}
			}
			switch ev.Kind {
			case core.EventDestroy:
				bus.Publish(events.NewPieceDestroyedEvent(matchID, turn, piece, ev.Cause))
			case core.EventScore:
				bus.Publish(events.NewPieceScoredEvent(matchID, turn, piece))
			}
		}
		for _, p := range snap.Pieces {
			if _, existed := prev[p.ID]; !existed {
				bus.Publish(events.NewPieceCreatedEvent(matchID, turn, p))
			}
		}
		prev = indexPieces(snap.Pieces)
	}
}

func (tp *TurnProcessor) checkGameOver(summary *TurnSummary, turnLogger zerolog.Logger) {
	over, winner := tp.engine.winCondition.CheckGameOver(tp.engine.gs.Score)
	if !over {
		return
	}
	tp.engine.gameOver = true
	tp.engine.winner = winner
	summary.GameOver = true
	summary.Winner = winner

	turnLogger.Info().
		Int("winner", winner).
		Ints("score", tp.engine.gs.Score[:]).
		Msg("Match over")
	tp.engine.eventBus.Publish(events.NewPlayerWonEvent(tp.engine.matchID, tp.engine.gs.Turn, winner, tp.engine.gs.Score))
}

func indexPieces(pieces []core.Piece) map[int]core.Piece {
	m := make(map[int]core.Piece, len(pieces))
	for _, p := range pieces {
		m[p.ID] = p
	}
	return m
}
