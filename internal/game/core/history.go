package core

// Snapshot phases
const (
	PhaseStep   = "step"
	PhaseBounds = "bounds"
	PhaseScore  = "score"
)

// EventKind tags a destructive or scoring occurrence in the history
type EventKind string

const (
	EventDestroy EventKind = "destroy"
	EventScore   EventKind = "score"
)

// Destruction causes recorded alongside destroy events
const (
	CauseAttack      = "attack"
	CauseOutOfBounds = "out_of_bounds"
	CauseOverlap     = "overlap"
)

// HistoryEvent records what happened to a piece during one step
type HistoryEvent struct {
	Kind    EventKind `json:"kind"`
	PieceID int       `json:"pieceId"`
	Owner   int       `json:"owner"`
	Cause   string    `json:"cause,omitempty"`
}

// Snapshot is an immutable copy of the board after one resolution step or
// cleanup pass
type Snapshot struct {
	Phase  string
	Cells  []int
	Orders []Order
	Pieces []Piece
	Score  [Players]int
	Events []HistoryEvent
}

// TakeSnapshot copies the parts of the state a replay needs
func TakeSnapshot(gs *GameState, phase string, orders []Order, events []HistoryEvent) Snapshot {
	return Snapshot{
		Phase:  phase,
		Cells:  append([]int(nil), gs.Cells...),
		Orders: append([]Order{}, orders...),
		Pieces: append([]Piece{}, gs.Pieces...),
		Score:  gs.Score,
		Events: append([]HistoryEvent{}, events...),
	}
}

// Clone returns a copy sharing no slices with s
func (s Snapshot) Clone() Snapshot {
	return Snapshot{
		Phase:  s.Phase,
		Cells:  append([]int(nil), s.Cells...),
		Orders: append([]Order{}, s.Orders...),
		Pieces: append([]Piece{}, s.Pieces...),
		Score:  s.Score,
		Events: append([]HistoryEvent{}, s.Events...),
	}
}

// LastTurn returns the snapshots recorded for the most recent turn
func (gs *GameState) LastTurn() []Snapshot {
	if len(gs.History) == 0 {
		return nil
	}
	return gs.History[len(gs.History)-1]
}
