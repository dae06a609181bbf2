package matchserver

import (
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/mitchelldurbincs/zugzwang/internal/game"
	"github.com/mitchelldurbincs/zugzwang/internal/game/core"
	"github.com/mitchelldurbincs/zugzwang/internal/game/states"
)

// RulesDTO is the wire form of core.MatchConfig
type RulesDTO struct {
	Width                    int                `json:"width"`
	Height                   int                `json:"height"`
	PriorityMode             string             `json:"priorityMode"`
	PriorityPool             []int              `json:"priorityPool"`
	AllowDuplicatePriorities bool               `json:"allowDuplicatePriorities"`
	MovesCanPush             bool               `json:"movesCanPush"`
	PushBackward             bool               `json:"pushBackward"`
	OutOfBoundsMode          string             `json:"outOfBoundsMode"`
	PushRestriction          PushRestrictionDTO `json:"pushRestriction"`
	ScoreToWin               int                `json:"scoreToWin"`
	StartingPieces           int                `json:"startingPieces"`
}

type PushRestrictionDTO struct {
	Enabled    bool   `json:"enabled"`
	Comparator string `json:"comparator"`
	Multiply   int    `json:"multiply"`
	Add        int    `json:"add"`
}

// SnapshotDTO is one recorded resolution step
type SnapshotDTO struct {
	Phase  string              `json:"phase"`
	Cells  []int               `json:"cells"`
	Orders []core.OrderSpec    `json:"orders"`
	Pieces []core.Piece        `json:"pieces"`
	Score  [core.Players]int   `json:"score"`
	Events []core.HistoryEvent `json:"events"`
}

// StateDTO is a player's or spectator's view of a match
type StateDTO struct {
	MatchID  string                   `json:"matchId"`
	Phase    string                   `json:"phase"`
	Turn     int                      `json:"turn"`
	Board    core.Coordinate          `json:"board"`
	Cells    []int                    `json:"cells"`
	Pieces   []core.Piece             `json:"pieces"`
	Score    [core.Players]int        `json:"score"`
	Orders   map[int][]core.OrderSpec `json:"orders"`
	Planning [core.Players]bool       `json:"planningDone"`
	GameOver bool                     `json:"gameOver"`
	Winner   int                      `json:"winner"`
	History  [][]SnapshotDTO          `json:"history"`
}

// SummaryDTO describes a resolved turn
type SummaryDTO struct {
	Turn      int               `json:"turn"`
	Snapshots []SnapshotDTO     `json:"snapshots"`
	Dropped   []core.OrderSpec  `json:"dropped"`
	Score     [core.Players]int `json:"score"`
	GameOver  bool              `json:"gameOver"`
	Winner    int               `json:"winner"`
}

func rulesToDTO(c core.MatchConfig) RulesDTO {
	return RulesDTO{
		Width:                    c.Board.X,
		Height:                   c.Board.Y,
		PriorityMode:             string(c.PriorityMode),
		PriorityPool:             append([]int{}, c.PriorityPool...),
		AllowDuplicatePriorities: c.AllowDuplicatePriorities,
		MovesCanPush:             c.MovesCanPush,
		PushBackward:             c.PushBackward,
		OutOfBoundsMode:          string(c.OutOfBoundsMode),
		PushRestriction: PushRestrictionDTO{
			Enabled:    c.PushRestriction.Enabled,
			Comparator: c.PushRestriction.Comparator,
			Multiply:   c.PushRestriction.Multiply,
			Add:        c.PushRestriction.Add,
		},
		ScoreToWin:     c.ScoreToWin,
		StartingPieces: c.StartingPieces,
	}
}

func rulesFromDTO(r RulesDTO) core.MatchConfig {
	return core.MatchConfig{
		Board:                    core.Coordinate{X: r.Width, Y: r.Height},
		PriorityMode:             core.PriorityMode(r.PriorityMode),
		PriorityPool:             append([]int(nil), r.PriorityPool...),
		AllowDuplicatePriorities: r.AllowDuplicatePriorities,
		MovesCanPush:             r.MovesCanPush,
		PushBackward:             r.PushBackward,
		OutOfBoundsMode:          core.OutOfBoundsMode(r.OutOfBoundsMode),
		PushRestriction: core.PushRestriction{
			Enabled:    r.PushRestriction.Enabled,
			Comparator: r.PushRestriction.Comparator,
			Multiply:   r.PushRestriction.Multiply,
			Add:        r.PushRestriction.Add,
		},
		ScoreToWin:     r.ScoreToWin,
		StartingPieces: r.StartingPieces,
	}
}

func specsOf(orders []core.Order) []core.OrderSpec {
	specs := make([]core.OrderSpec, 0, len(orders))
	for _, o := range orders {
		specs = append(specs, core.SpecOf(o))
	}
	return specs
}

func snapshotToDTO(s core.Snapshot) SnapshotDTO {
	return SnapshotDTO{
		Phase:  s.Phase,
		Cells:  s.Cells,
		Orders: specsOf(s.Orders),
		Pieces: s.Pieces,
		Score:  s.Score,
		Events: s.Events,
	}
}

func snapshotsToDTO(snaps []core.Snapshot) []SnapshotDTO {
	out := make([]SnapshotDTO, len(snaps))
	for i, s := range snaps {
		out[i] = snapshotToDTO(s)
	}
	return out
}

// stateToDTO converts an already redacted view
func stateToDTO(matchID string, phase states.MatchPhase, view *core.GameState, planning [core.Players]bool, over bool, winner int) *StateDTO {
	orders := make(map[int][]core.OrderSpec, len(view.Orders))
	for owner, buf := range view.Orders {
		orders[owner] = specsOf(buf)
	}
	history := make([][]SnapshotDTO, len(view.History))
	for i, entry := range view.History {
		history[i] = snapshotsToDTO(entry)
	}
	return &StateDTO{
		MatchID:  matchID,
		Phase:    phase.String(),
		Turn:     view.Turn,
		Board:    view.Config.Board,
		Cells:    view.Cells,
		Pieces:   view.Pieces,
		Score:    view.Score,
		Orders:   orders,
		Planning: planning,
		GameOver: over,
		Winner:   winner,
		History:  history,
	}
}

func summaryToDTO(s *game.TurnSummary) *SummaryDTO {
	return &SummaryDTO{
		Turn:      s.Turn,
		Snapshots: snapshotsToDTO(s.Snapshots),
		Dropped:   specsOf(s.Dropped),
		Score:     s.Score,
		GameOver:  s.GameOver,
		Winner:    s.Winner,
	}
}

// orderFromSpec rebuilds an order on behalf of an authenticated player.
// The owner on the wire is ignored.
func orderFromSpec(spec core.OrderSpec, playerID int) (core.Order, error) {
	spec.Owner = playerID
	return spec.Order()
}

// errorCodeFor maps a rejected order to its response code
func errorCodeFor(err error) string {
	switch {
	case errors.Is(err, core.ErrGameOver):
		return ErrorCodeGameOver
	case errors.Is(err, states.ErrWrongPhase):
		return ErrorCodeWrongPhase
	case errors.Is(err, core.ErrNotOwner), errors.Is(err, core.ErrInvalidPlayer):
		return ErrorCodeNotOwner
	case errors.Is(err, core.ErrUnknownPiece):
		return ErrorCodeUnknownPiece
	case errors.Is(err, core.ErrDuplicateOrder):
		return ErrorCodeDuplicateOrder
	case errors.Is(err, core.ErrIllegalOrder):
		return ErrorCodeIllegalOrder
	default:
		return ErrorCodeUnspecified
	}
}

// statusFor maps a domain error to a grpc status
func statusFor(err error) error {
	switch {
	case errors.Is(err, core.ErrNoOrders), errors.Is(err, core.ErrUnknownPiece):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, states.ErrWrongPhase), errors.Is(err, core.ErrGameOver),
		errors.Is(err, states.ErrPlanningIncomplete):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, core.ErrInvalidPlayer), errors.Is(err, core.ErrNotOwner):
		return status.Error(codes.PermissionDenied, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}
