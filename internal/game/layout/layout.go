package layout

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/mitchelldurbincs/zugzwang/internal/game/core"
)

// Placement is a piece to create before the first turn
type Placement struct {
	Owner    int
	Position core.Coordinate
}

// Layout decides where each owner's starting pieces go
type Layout interface {
	Placements(cfg core.MatchConfig, rng *rand.Rand) ([]Placement, error)
}

// Centered puts StartingPieces adjacent pieces in the middle of each home
// rank. Owner 1's pieces face owner 0's across the board.
type Centered struct{}

func (Centered) Placements(cfg core.MatchConfig, _ *rand.Rand) ([]Placement, error) {
	n := cfg.StartingPieces
	if n > cfg.Board.X {
		return nil, fmt.Errorf("%d pieces on a rank of %d: %w", n, cfg.Board.X, core.ErrNoIdsAvailable)
	}
	start := (cfg.Board.X - n) / 2
	columns := make([]int, n)
	for i := range columns {
		columns[i] = start + i
	}
	return mirrored(cfg, columns), nil
}

// Random draws distinct home-rank columns from rng. Both owners use the
// same columns so neither side starts with a positional edge.
type Random struct{}

func (Random) Placements(cfg core.MatchConfig, rng *rand.Rand) ([]Placement, error) {
	n := cfg.StartingPieces
	if n > cfg.Board.X {
		return nil, fmt.Errorf("%d pieces on a rank of %d: %w", n, cfg.Board.X, core.ErrNoIdsAvailable)
	}
	if rng == nil {
		return nil, fmt.Errorf("random layout needs a source of randomness")
	}
	columns := rng.Perm(cfg.Board.X)[:n]
	sort.Ints(columns)
	return mirrored(cfg, columns), nil
}

// Fixed places exactly the listed pieces
type Fixed []Placement

func (f Fixed) Placements(cfg core.MatchConfig, _ *rand.Rand) ([]Placement, error) {
	out := make([]Placement, len(f))
	copy(out, f)
	return out, nil
}

// Empty starts the match with no pieces; both sides begin by placing
type Empty struct{}

func (Empty) Placements(core.MatchConfig, *rand.Rand) ([]Placement, error) { return nil, nil }

// ByName returns a built-in layout
func ByName(name string) (Layout, error) {
	switch name {
	case "", "centered":
		return Centered{}, nil
	case "random":
		return Random{}, nil
	case "empty":
		return Empty{}, nil
	default:
		return nil, fmt.Errorf("unknown layout %q", name)
	}
}

func mirrored(cfg core.MatchConfig, columns []int) []Placement {
	out := make([]Placement, 0, core.Players*len(columns))
	for owner := 0; owner < core.Players; owner++ {
		rank := cfg.HomeRank(owner)
		for _, x := range columns {
			out = append(out, Placement{Owner: owner, Position: core.Coordinate{X: x, Y: rank}})
		}
	}
	return out
}

// Apply creates every placement through the registry, owner 0 first, so
// priorities are drawn from rng in a reproducible sequence
func Apply(gs *core.GameState, registry *core.Registry, l Layout, rng *rand.Rand) ([]core.Piece, error) {
	placements, err := l.Placements(gs.Config, rng)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(placements, func(i, j int) bool { return placements[i].Owner < placements[j].Owner })

	created := make([]core.Piece, 0, len(placements))
	for _, p := range placements {
		piece, err := registry.CreatePiece(gs, core.PieceSpec{Position: p.Position, Owner: p.Owner})
		if err != nil {
			return created, fmt.Errorf("starting piece at %s: %w", p.Position, err)
		}
		created = append(created, piece)
	}
	return created, nil
}
