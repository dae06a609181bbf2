package events

import (
	"time"

	"github.com/mitchelldurbincs/zugzwang/internal/game/core"
)

const (
	TypeMatchStarted    = "match.started"
	TypeTurnStarted     = "turn.started"
	TypeTurnResolved    = "turn.resolved"
	TypeOrderSubmitted  = "order.submitted"
	TypeOrderRejected   = "order.rejected"
	TypeOrderWithdrawn  = "order.withdrawn"
	TypePieceCreated    = "piece.created"
	TypePieceDestroyed  = "piece.destroyed"
	TypePieceScored     = "piece.scored"
	TypePlayerWon       = "player.won"
	TypeStateTransition = "state.transition"
)

// MatchStartedEvent is published once the starting layout is on the board
type MatchStartedEvent struct {
	BaseEvent
	Board  core.Coordinate `json:"board"`
	Pieces int             `json:"pieces"`
}

func NewMatchStartedEvent(matchID string, board core.Coordinate, pieces int) *MatchStartedEvent {
	return &MatchStartedEvent{BaseEvent: newBase(TypeMatchStarted, matchID), Board: board, Pieces: pieces}
}

// TurnStartedEvent is published before a turn's orders are paired
type TurnStartedEvent struct {
	BaseEvent
	Turn   int `json:"turn"`
	Orders int `json:"orders"`
}

func NewTurnStartedEvent(matchID string, turn, orders int) *TurnStartedEvent {
	return &TurnStartedEvent{BaseEvent: newBase(TypeTurnStarted, matchID), Turn: turn, Orders: orders}
}

// TurnResolvedEvent is published after cleanup with the turn's history entry
type TurnResolvedEvent struct {
	BaseEvent
	Turn          int               `json:"turn"`
	Steps         int               `json:"steps"`
	Dropped       int               `json:"dropped"`
	Score         [core.Players]int `json:"score"`
	Snapshots     []core.Snapshot   `json:"-"`
	ProcessedTime time.Duration     `json:"processedTime"`
}

func NewTurnResolvedEvent(matchID string, turn, steps, dropped int, score [core.Players]int, snapshots []core.Snapshot, took time.Duration) *TurnResolvedEvent {
	return &TurnResolvedEvent{
		BaseEvent:     newBase(TypeTurnResolved, matchID),
		Turn:          turn,
		Steps:         steps,
		Dropped:       dropped,
		Score:         score,
		Snapshots:     snapshots,
		ProcessedTime: took,
	}
}

// OrderEvent covers submitted, rejected and withdrawn orders
type OrderEvent struct {
	BaseEvent
	Turn   int            `json:"turn"`
	Order  core.OrderSpec `json:"order"`
	Reason string         `json:"reason,omitempty"`
}

func NewOrderSubmittedEvent(matchID string, turn int, order core.Order) *OrderEvent {
	return &OrderEvent{BaseEvent: newBase(TypeOrderSubmitted, matchID), Turn: turn, Order: core.SpecOf(order)}
}

func NewOrderRejectedEvent(matchID string, turn int, order core.Order, err error) *OrderEvent {
	e := &OrderEvent{BaseEvent: newBase(TypeOrderRejected, matchID), Turn: turn}
	if order != nil {
		e.Order = core.SpecOf(order)
	}
	if err != nil {
		e.Reason = err.Error()
	}
	return e
}

func NewOrderWithdrawnEvent(matchID string, turn int, order core.Order) *OrderEvent {
	return &OrderEvent{BaseEvent: newBase(TypeOrderWithdrawn, matchID), Turn: turn, Order: core.SpecOf(order)}
}

// PieceEvent covers pieces entering or leaving the board
type PieceEvent struct {
	BaseEvent
	Turn  int        `json:"turn"`
	Piece core.Piece `json:"piece"`
	Cause string     `json:"cause,omitempty"`
}

func NewPieceCreatedEvent(matchID string, turn int, piece core.Piece) *PieceEvent {
	return &PieceEvent{BaseEvent: newBase(TypePieceCreated, matchID), Turn: turn, Piece: piece}
}

func NewPieceDestroyedEvent(matchID string, turn int, piece core.Piece, cause string) *PieceEvent {
	return &PieceEvent{BaseEvent: newBase(TypePieceDestroyed, matchID), Turn: turn, Piece: piece, Cause: cause}
}

func NewPieceScoredEvent(matchID string, turn int, piece core.Piece) *PieceEvent {
	return &PieceEvent{BaseEvent: newBase(TypePieceScored, matchID), Turn: turn, Piece: piece}
}

// PlayerWonEvent ends the match. Winner is -1 on a draw.
type PlayerWonEvent struct {
	BaseEvent
	Turn   int               `json:"turn"`
	Winner int               `json:"winner"`
	Score  [core.Players]int `json:"score"`
}

func NewPlayerWonEvent(matchID string, turn, winner int, score [core.Players]int) *PlayerWonEvent {
	return &PlayerWonEvent{BaseEvent: newBase(TypePlayerWon, matchID), Turn: turn, Winner: winner, Score: score}
}

// StateTransitionEvent is published when the turn host changes phase
type StateTransitionEvent struct {
	BaseEvent
	FromPhase string `json:"fromPhase"`
	ToPhase   string `json:"toPhase"`
	Reason    string `json:"reason"`
}

func NewStateTransitionEvent(matchID, fromPhase, toPhase, reason string) *StateTransitionEvent {
	return &StateTransitionEvent{
		BaseEvent: newBase(TypeStateTransition, matchID),
		FromPhase: fromPhase,
		ToPhase:   toPhase,
		Reason:    reason,
	}
}
