package core

const (
	// Players is the number of owners in a match
	Players = 2
	// PiecesPerOwner is the size of each owner's id pool
	PiecesPerOwner = 4
	// NoPriority marks a piece created after the priority pool ran out.
	// It sorts after every real priority.
	NoPriority = 99
	// EmptyCell marks an unoccupied entry in GameState.Cells
	EmptyCell = -1
)

// Piece is a unit on the board
type Piece struct {
	ID          int        `json:"id"`
	Position    Coordinate `json:"position"`
	Owner       int        `json:"owner"`
	IsDefending bool       `json:"isDefending"`
	Priority    int        `json:"priority"`
}

// IDSlot returns the piece's position within its owner's id pool
func (p Piece) IDSlot() int {
	return p.ID - p.Owner*PiecesPerOwner
}

// IDPool returns the ids reserved for an owner, lowest first
func IDPool(owner int) []int {
	ids := make([]int, PiecesPerOwner)
	for i := range ids {
		ids[i] = owner*PiecesPerOwner + i
	}
	return ids
}

// ValidOwner reports whether owner is 0 or 1
func ValidOwner(owner int) bool {
	return owner >= 0 && owner < Players
}
