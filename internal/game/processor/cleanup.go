package processor

import (
	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/zugzwang/internal/game/core"
)

// Cleaner restores the occupancy invariant after pieces move and does the
// end of turn bookkeeping
type Cleaner struct {
	logger zerolog.Logger
}

// NewCleaner creates a new cleaner
func NewCleaner(logger zerolog.Logger) *Cleaner {
	return &Cleaner{
		logger: logger.With().Str("component", "Cleaner").Logger(),
	}
}

// AfterStep runs the per-step passes: bounds removal when the match removes
// pieces immediately, then overlap removal
func (c *Cleaner) AfterStep(gs *core.GameState) []core.HistoryEvent {
	var events []core.HistoryEvent
	if gs.Config.OutOfBoundsMode == core.OutOfBoundsImmediate {
		events = append(events, c.RemoveOutOfBounds(gs)...)
	}
	return append(events, c.RemoveOverlaps(gs)...)
}

// RemoveOutOfBounds destroys every piece standing off the board
func (c *Cleaner) RemoveOutOfBounds(gs *core.GameState) []core.HistoryEvent {
	var doomed []int
	for _, p := range gs.Pieces {
		if !gs.InBounds(p.Position) {
			doomed = append(doomed, p.ID)
		}
	}
	return c.destroy(gs, doomed, core.CauseOutOfBounds)
}

// RemoveOverlaps destroys every piece sharing a square with another piece.
// Pieces off the board are left to the bounds pass.
func (c *Cleaner) RemoveOverlaps(gs *core.GameState) []core.HistoryEvent {
	byIndex := make(map[int][]int, len(gs.Pieces))
	order := make([]int, 0, len(gs.Pieces))
	for _, p := range gs.Pieces {
		if !gs.InBounds(p.Position) {
			continue
		}
		idx := gs.IndexOf(p.Position)
		if _, ok := byIndex[idx]; !ok {
			order = append(order, idx)
		}
		byIndex[idx] = append(byIndex[idx], p.ID)
	}

	var doomed []int
	for _, idx := range order {
		if ids := byIndex[idx]; len(ids) > 1 {
			doomed = append(doomed, ids...)
		}
	}
	events := c.destroy(gs, doomed, core.CauseOverlap)
	gs.ReindexCells()
	return events
}

// ApplyScoring removes pieces standing on their goal rank and credits
// their owners
func (c *Cleaner) ApplyScoring(gs *core.GameState) []core.HistoryEvent {
	var scorers []core.Piece
	for _, p := range gs.Pieces {
		if gs.InBounds(p.Position) && p.Position.Y == gs.Config.GoalRank(p.Owner) {
			scorers = append(scorers, p)
		}
	}

	events := make([]core.HistoryEvent, 0, len(scorers))
	for _, p := range scorers {
		if _, ok := gs.RemovePiece(p.ID); !ok {
			continue
		}
		gs.Score[p.Owner]++
		c.logger.Debug().
			Int("piece_id", p.ID).
			Int("owner", p.Owner).
			Int("score", gs.Score[p.Owner]).
			Msg("Piece scored")
		events = append(events, core.HistoryEvent{Kind: core.EventScore, PieceID: p.ID, Owner: p.Owner})
	}
	return events
}

// EndTurn clears the order buffers, resets defending flags, runs the final
// bounds pass and scores. It returns a bounds snapshot taken after the
// bounds pass and a score snapshot taken after scoring. Ids destroyed
// during the turn become free again.
func (c *Cleaner) EndTurn(gs *core.GameState) []core.Snapshot {
	gs.ClearOrders()
	for i := range gs.Pieces {
		gs.Pieces[i].IsDefending = false
	}
	bounds := c.RemoveOutOfBounds(gs)
	gs.ReindexCells()
	snapshots := []core.Snapshot{core.TakeSnapshot(gs, core.PhaseBounds, nil, bounds)}

	scoring := c.ApplyScoring(gs)
	gs.ReindexCells()
	gs.ReleaseRetired()
	return append(snapshots, core.TakeSnapshot(gs, core.PhaseScore, nil, scoring))
}

func (c *Cleaner) destroy(gs *core.GameState, ids []int, cause string) []core.HistoryEvent {
	if len(ids) == 0 {
		return nil
	}
	events := make([]core.HistoryEvent, 0, len(ids))
	for _, id := range ids {
		removed, ok := gs.RemovePiece(id)
		if !ok {
			continue
		}
		gs.RetireID(id)
		c.logger.Debug().
			Int("piece_id", id).
			Int("owner", removed.Owner).
			Str("cause", cause).
			Str("position", removed.Position.String()).
			Msg("Piece destroyed")
		events = append(events, core.HistoryEvent{Kind: core.EventDestroy, PieceID: id, Owner: removed.Owner, Cause: cause})
	}
	return events
}
