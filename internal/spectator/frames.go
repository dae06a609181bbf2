package spectator

import (
	"github.com/mitchelldurbincs/zugzwang/internal/game/core"
	"github.com/mitchelldurbincs/zugzwang/internal/game/events"
)

// Frame types sent to watchers
const (
	FrameState = "state"
	FrameTurn  = "turn"
	FrameEnded = "ended"
)

// Frame is one message on the spectator feed. A state frame carries the
// board when a watcher connects, a turn frame the resolution steps of a
// finished turn and an ended frame the result.
type Frame struct {
	Type    string            `json:"type"`
	MatchID string            `json:"matchId"`
	Turn    int               `json:"turn"`
	Score   [core.Players]int `json:"score"`
	Board   *core.Coordinate  `json:"board,omitempty"`
	Cells   []int             `json:"cells,omitempty"`
	Pieces  []core.Piece      `json:"pieces,omitempty"`
	Steps   []StepFrame       `json:"steps,omitempty"`
	Winner  *int              `json:"winner,omitempty"`
}

// StepFrame is a snapshot as watchers see it. Orders are only revealed
// once their turn has resolved.
type StepFrame struct {
	Phase  string              `json:"phase"`
	Cells  []int               `json:"cells"`
	Orders []core.OrderSpec    `json:"orders"`
	Pieces []core.Piece        `json:"pieces"`
	Score  [core.Players]int   `json:"score"`
	Events []core.HistoryEvent `json:"events"`
}

func stateFrame(matchID string, view *core.GameState) Frame {
	board := view.Config.Board
	return Frame{
		Type:    FrameState,
		MatchID: matchID,
		Turn:    view.Turn,
		Score:   view.Score,
		Board:   &board,
		Cells:   append([]int(nil), view.Cells...),
		Pieces:  append([]core.Piece{}, view.Pieces...),
	}
}

func turnFrame(e *events.TurnResolvedEvent) Frame {
	steps := make([]StepFrame, len(e.Snapshots))
	for i, s := range e.Snapshots {
		orders := make([]core.OrderSpec, 0, len(s.Orders))
		for _, o := range s.Orders {
			orders = append(orders, core.SpecOf(o))
		}
		steps[i] = StepFrame{
			Phase:  s.Phase,
			Cells:  s.Cells,
			Orders: orders,
			Pieces: s.Pieces,
			Score:  s.Score,
			Events: s.Events,
		}
	}
	return Frame{
		Type:    FrameTurn,
		MatchID: e.MatchID(),
		Turn:    e.Turn,
		Score:   e.Score,
		Steps:   steps,
	}
}

func endedFrame(e *events.PlayerWonEvent) Frame {
	winner := e.Winner
	return Frame{
		Type:    FrameEnded,
		MatchID: e.MatchID(),
		Turn:    e.Turn,
		Score:   e.Score,
		Winner:  &winner,
	}
}
