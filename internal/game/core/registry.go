package core

import (
	"fmt"
	"math/rand"

	"github.com/rs/zerolog"
)

// PieceSpec describes a piece to create
type PieceSpec struct {
	Position Coordinate
	Owner    int
}

type createOptions struct {
	pool     []int
	forced   int
	isForced bool
}

// CreateOption tunes priority assignment for CreatePiece
type CreateOption func(*createOptions)

// WithPriorityPool draws the priority from pool instead of the match pool
func WithPriorityPool(pool []int) CreateOption {
	return func(o *createOptions) { o.pool = pool }
}

// WithForcedPriority skips the draw and uses priority as is
func WithForcedPriority(priority int) CreateOption {
	return func(o *createOptions) {
		o.forced = priority
		o.isForced = true
	}
}

// Registry creates pieces. It owns the random source used for priority
// draws so that creation is reproducible from a seed.
type Registry struct {
	rng    *rand.Rand
	logger zerolog.Logger
}

// NewRegistry creates a registry drawing priorities from rng
func NewRegistry(rng *rand.Rand, logger zerolog.Logger) *Registry {
	return &Registry{
		rng:    rng,
		logger: logger.With().Str("component", "PieceRegistry").Logger(),
	}
}

// CreatePiece adds a piece to the roster and the cell index.
// ErrNoIdsAvailable is returned when the owner's pool is full; callers may
// treat it as a no-op.
func (r *Registry) CreatePiece(gs *GameState, spec PieceSpec, opts ...CreateOption) (Piece, error) {
	if !ValidOwner(spec.Owner) {
		return Piece{}, fmt.Errorf("owner %d: %w", spec.Owner, ErrInvalidPlayer)
	}
	if !gs.InBounds(spec.Position) {
		return Piece{}, fmt.Errorf("create at %s: %w", spec.Position, ErrOutOfBounds)
	}
	idx := gs.IndexOf(spec.Position)
	if gs.Cells[idx] != EmptyCell || gs.OccupantAt(spec.Position) != nil {
		return Piece{}, fmt.Errorf("create at %s: %w", spec.Position, ErrCellOccupied)
	}

	id, ok := FreeID(gs, spec.Owner)
	if !ok {
		r.logger.Debug().Int("owner", spec.Owner).Msg("No free piece id, skipping creation")
		return Piece{}, fmt.Errorf("owner %d: %w", spec.Owner, ErrNoIdsAvailable)
	}

	options := createOptions{pool: gs.Config.PriorityPool}
	for _, opt := range opts {
		opt(&options)
	}

	piece := Piece{ID: id, Position: spec.Position, Owner: spec.Owner}
	switch {
	case options.isForced:
		piece.Priority = options.forced
	case gs.Config.PriorityMode == PriorityModePiece:
		priority, ok := GeneratePiecePriority(gs, spec.Owner, options.pool, r.rng)
		if !ok {
			r.logger.Warn().
				Int("owner", spec.Owner).
				Int("piece_id", id).
				Ints("pool", options.pool).
				Msg("Priority pool exhausted, piece will resolve last")
		}
		piece.Priority = priority
	default:
		piece.Priority = piece.IDSlot() + 1
	}

	gs.Cells[idx] = id
	gs.Pieces = append(gs.Pieces, piece)
	return piece, nil
}

// FreeID returns the lowest id in the owner's pool that is neither in use
// nor retired this turn
func FreeID(gs *GameState, owner int) (int, bool) {
	for _, id := range IDPool(owner) {
		if gs.FindPiece(id) == nil && !gs.IsRetired(id) {
			return id, true
		}
	}
	return 0, false
}

// GeneratePiecePriority draws a priority from pool that no other piece of
// the same owner uses, unless the match allows duplicates. It returns
// NoPriority and false when nothing is left.
func GeneratePiecePriority(gs *GameState, owner int, pool []int, rng *rand.Rand) (int, bool) {
	available := make([]int, 0, len(pool))
	for _, candidate := range pool {
		if gs.Config.AllowDuplicatePriorities || !priorityInUse(gs, owner, candidate) {
			available = append(available, candidate)
		}
	}
	if len(available) == 0 {
		return NoPriority, false
	}
	return available[rng.Intn(len(available))], true
}

func priorityInUse(gs *GameState, owner, priority int) bool {
	for _, p := range gs.Pieces {
		if p.Owner == owner && p.Priority == priority {
			return true
		}
	}
	return false
}
