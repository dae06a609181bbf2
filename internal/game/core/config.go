package core

import "fmt"

// PriorityMode decides how the two order queues are interleaved
type PriorityMode string

const (
	// PriorityModePiece orders actions by the priority attached to the acting piece
	PriorityModePiece PriorityMode = "piece"
	// PriorityModeSubmission orders actions in the order each player chose them
	PriorityModeSubmission PriorityMode = "actionChoice"
)

// OutOfBoundsMode decides when pieces knocked off the board are removed
type OutOfBoundsMode string

const (
	OutOfBoundsImmediate OutOfBoundsMode = "immediate"
	OutOfBoundsTurnEnd   OutOfBoundsMode = "turnEnd"
)

// Push restriction comparators
const (
	ComparatorGT  = "gt"
	ComparatorGTE = "gte"
)

// PushRestriction limits which pieces a piece may push. A push is allowed
// when pusher.Priority*Multiply+Add compares (gt or gte) against the
// occupant's priority.
type PushRestriction struct {
	Enabled    bool
	Comparator string
	Multiply   int
	Add        int
}

// Allows reports whether pusher may displace occupant
func (r PushRestriction) Allows(pusher, occupant Piece) bool {
	if !r.Enabled {
		return true
	}
	lhs := pusher.Priority*r.Multiply + r.Add
	if r.Comparator == ComparatorGTE {
		return lhs >= occupant.Priority
	}
	return lhs > occupant.Priority
}

// Validate checks the restriction is well formed
func (r PushRestriction) Validate() error {
	if !r.Enabled {
		return nil
	}
	if r.Comparator != ComparatorGT && r.Comparator != ComparatorGTE {
		return fmt.Errorf("comparator %q: %w", r.Comparator, ErrInvalidPushRestriction)
	}
	if r.Multiply <= 0 {
		return fmt.Errorf("multiply %d must be positive: %w", r.Multiply, ErrInvalidPushRestriction)
	}
	return nil
}

// MatchConfig holds the rules a match is played with
type MatchConfig struct {
	Board                    Coordinate
	PriorityMode             PriorityMode
	PriorityPool             []int
	AllowDuplicatePriorities bool
	MovesCanPush             bool
	PushBackward             bool
	OutOfBoundsMode          OutOfBoundsMode
	PushRestriction          PushRestriction
	ScoreToWin               int
	StartingPieces           int
}

// DefaultMatchConfig returns the standard rule set
func DefaultMatchConfig() MatchConfig {
	return MatchConfig{
		Board:           Coordinate{X: 4, Y: 4},
		PriorityMode:    PriorityModePiece,
		PriorityPool:    []int{1, 2, 3, 4, 5, 6},
		MovesCanPush:    false,
		PushBackward:    true,
		OutOfBoundsMode: OutOfBoundsImmediate,
		PushRestriction: PushRestriction{Comparator: ComparatorGTE, Multiply: 1},
		ScoreToWin:      3,
		StartingPieces:  2,
	}
}

// Validate reports configuration errors that would otherwise surface as
// undefined behaviour during resolution
func (c MatchConfig) Validate() error {
	if c.Board.X <= 0 || c.Board.Y < 2 {
		return fmt.Errorf("board %dx%d: %w", c.Board.X, c.Board.Y, ErrInvalidBoard)
	}
	switch c.PriorityMode {
	case PriorityModePiece, PriorityModeSubmission:
	default:
		return fmt.Errorf("%q: %w", c.PriorityMode, ErrInvalidPriorityMode)
	}
	switch c.OutOfBoundsMode {
	case OutOfBoundsImmediate, OutOfBoundsTurnEnd:
	default:
		return fmt.Errorf("%q: %w", c.OutOfBoundsMode, ErrInvalidOutOfBoundsMode)
	}
	if err := c.PushRestriction.Validate(); err != nil {
		return err
	}
	if c.PriorityMode == PriorityModePiece {
		seen := make(map[int]bool, len(c.PriorityPool))
		for _, p := range c.PriorityPool {
			if seen[p] {
				return fmt.Errorf("priority %d listed twice: %w", p, ErrPrioritySlotCollision)
			}
			if p == NoPriority {
				return fmt.Errorf("priority %d is reserved: %w", p, ErrPrioritySlotCollision)
			}
			seen[p] = true
		}
		if len(c.PriorityPool) == 0 || (!c.AllowDuplicatePriorities && len(c.PriorityPool) < PiecesPerOwner) {
			return fmt.Errorf("%d priorities for %d pieces: %w", len(c.PriorityPool), PiecesPerOwner, ErrPriorityPoolTooSmall)
		}
	}
	if c.StartingPieces < 0 || c.StartingPieces > PiecesPerOwner || c.StartingPieces > c.Board.X {
		return fmt.Errorf("starting pieces %d: %w", c.StartingPieces, ErrNoIdsAvailable)
	}
	return nil
}

// HomeRank is the row an owner places pieces on
func (c MatchConfig) HomeRank(owner int) int {
	if owner == 1 {
		return c.Board.Y - 1
	}
	return 0
}

// GoalRank is the row an owner scores on, the opponent's home rank
func (c MatchConfig) GoalRank(owner int) int {
	return c.HomeRank(1 - owner)
}
