package states

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/zugzwang/internal/game/core"
)

// NoWinner is the winner recorded while a match runs or after a draw
const NoWinner = -1

// MatchContext is the data states read and write during transitions
type MatchContext struct {
	MatchID string
	Logger  zerolog.Logger

	// Seated marks which owners have joined
	Seated [core.Players]bool

	StartTime time.Time
	EndTime   time.Time
	Turn      int

	Winner int
	// Error holds what sent the match to PhaseError
	Error error
}

// NewMatchContext creates a context with no players seated
func NewMatchContext(matchID string, logger zerolog.Logger) *MatchContext {
	return &MatchContext{
		MatchID: matchID,
		Logger:  logger.With().Str("match_id", matchID).Logger(),
		Winner:  NoWinner,
	}
}

// IsReady reports whether both seats are taken
func (mc *MatchContext) IsReady() bool {
	for _, seated := range mc.Seated {
		if !seated {
			return false
		}
	}
	return true
}

// ElapsedTime is the time since planning first opened
func (mc *MatchContext) ElapsedTime() time.Duration {
	if mc.StartTime.IsZero() {
		return 0
	}
	if !mc.EndTime.IsZero() {
		return mc.EndTime.Sub(mc.StartTime)
	}
	return time.Since(mc.StartTime)
}
