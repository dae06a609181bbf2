package game

import (
	"math/rand"

	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/zugzwang/internal/game/core"
	"github.com/mitchelldurbincs/zugzwang/internal/game/events"
	"github.com/mitchelldurbincs/zugzwang/internal/game/processor"
	"github.com/mitchelldurbincs/zugzwang/internal/game/rules"
)

// Engine owns one match's state and runs its turns. It is not safe for
// concurrent use; hosts serialise access per match.
type Engine struct {
	gs       *core.GameState
	rng      *rand.Rand
	gameOver bool
	winner   int
	logger   zerolog.Logger
	matchID  string

	registry      *core.Registry
	resolver      *processor.Resolver
	cleaner       *processor.Cleaner
	winCondition  *rules.WinConditionChecker
	eventBus      *events.EventBus
	turnProcessor *TurnProcessor
}

// MatchID returns the id events are published under
func (e *Engine) MatchID() string { return e.matchID }

// EventBus returns the bus the engine publishes to
func (e *Engine) EventBus() *events.EventBus { return e.eventBus }

// GameState returns a deep copy of the current state
func (e *Engine) GameState() *core.GameState { return e.gs.Clone() }

// PlayerView returns the state as viewer may see it
func (e *Engine) PlayerView(viewer int) *core.GameState { return PlayerView(e.gs, viewer) }

// Config returns the rules the match is played with
func (e *Engine) Config() core.MatchConfig { return e.gs.Config }

func (e *Engine) Turn() int { return e.gs.Turn }

func (e *Engine) Score() [core.Players]int { return e.gs.Score }

func (e *Engine) IsGameOver() bool { return e.gameOver }

// Winner is the winning owner once the match is over, or rules.NoWinner
func (e *Engine) Winner() int { return e.winner }

// Orders returns a copy of an owner's buffered orders
func (e *Engine) Orders(owner int) []core.Order {
	return append([]core.Order{}, e.gs.Orders[owner]...)
}

// LegalTargets lists the squares each order kind of a piece may target
func (e *Engine) LegalTargets(pieceID int) (map[core.OrderKind][]core.Coordinate, error) {
	piece := e.gs.FindPiece(pieceID)
	if piece == nil {
		return nil, core.ErrUnknownPiece
	}
	return rules.LegalTargets(*piece, e.gs.Config), nil
}

// SubmitOrder validates an order and appends it to the owner's buffer.
// Rejected orders leave the buffer untouched.
func (e *Engine) SubmitOrder(owner int, order core.Order) error {
	if e.gameOver {
		return core.WrapGameStateError(e.gs.Turn, "submit", core.ErrGameOver)
	}
	if err := rules.ValidateOrder(e.gs, owner, order); err != nil {
		e.logger.Debug().Err(err).Int("player_id", owner).Msg("Order rejected")
		e.eventBus.Publish(events.NewOrderRejectedEvent(e.matchID, e.gs.Turn, order, err))
		return err
	}
	e.gs.Orders[owner] = append(e.gs.Orders[owner], order)
	e.eventBus.Publish(events.NewOrderSubmittedEvent(e.matchID, e.gs.Turn, order))
	return nil
}

// WithdrawLastOrder removes and returns the most recently buffered order of
// an owner
func (e *Engine) WithdrawLastOrder(owner int) (core.Order, error) {
	if !core.ValidOwner(owner) {
		return nil, core.ErrInvalidPlayer
	}
	buf := e.gs.Orders[owner]
	if len(buf) == 0 {
		return nil, core.ErrNoOrders
	}
	last := buf[len(buf)-1]
	e.gs.Orders[owner] = buf[:len(buf)-1]
	e.eventBus.Publish(events.NewOrderWithdrawnEvent(e.matchID, e.gs.Turn, last))
	return last, nil
}

// WithdrawOrder removes the buffered order acting on a piece, whichever
// owner queued it
func (e *Engine) WithdrawOrder(pieceID int) (core.Order, error) {
	if pieceID == core.NoPiece {
		return nil, core.ErrUnknownPiece
	}
	order, owner, ok := e.gs.OrderForPiece(pieceID)
	if !ok {
		return nil, core.ErrNoOrders
	}
	buf := e.gs.Orders[owner]
	for i, o := range buf {
		if o.PieceID() == pieceID {
			e.gs.Orders[owner] = append(buf[:i:i], buf[i+1:]...)
			break
		}
	}
	e.eventBus.Publish(events.NewOrderWithdrawnEvent(e.matchID, e.gs.Turn, order))
	return order, nil
}
