package core

import "fmt"

// GameState is everything the engine needs to resolve a turn. The engine
// mutates it in place; Clone gives an independent copy.
type GameState struct {
	Config  MatchConfig
	Turn    int
	Cells   []int
	Pieces  []Piece
	Orders  map[int][]Order
	Score   [Players]int
	History [][]Snapshot

	// ids of pieces destroyed this turn. They are not handed out again
	// until the turn ends, so a pending order never finds a newcomer.
	retired map[int]bool
}

// NewGameState creates an empty board for the given configuration
func NewGameState(cfg MatchConfig) *GameState {
	gs := &GameState{
		Config: cfg,
		Cells:  make([]int, cfg.Board.X*cfg.Board.Y),
		Pieces: make([]Piece, 0, Players*PiecesPerOwner),
		Orders: map[int][]Order{0: {}, 1: {}},
	}
	for i := range gs.Cells {
		gs.Cells[i] = EmptyCell
	}
	return gs
}

// Clone returns a deep copy of the state
func (gs *GameState) Clone() *GameState {
	c := &GameState{
		Config: gs.Config,
		Turn:   gs.Turn,
		Cells:  append([]int(nil), gs.Cells...),
		Pieces: append([]Piece(nil), gs.Pieces...),
		Orders: make(map[int][]Order, len(gs.Orders)),
		Score:  gs.Score,
	}
	for id := range gs.retired {
		c.RetireID(id)
	}
	c.Config.PriorityPool = append([]int(nil), gs.Config.PriorityPool...)
	for owner, orders := range gs.Orders {
		c.Orders[owner] = append([]Order{}, orders...)
	}
	if gs.History != nil {
		c.History = make([][]Snapshot, len(gs.History))
		for i, turn := range gs.History {
			c.History[i] = make([]Snapshot, len(turn))
			for j, s := range turn {
				c.History[i][j] = s.Clone()
			}
		}
	}
	return c
}

// IndexOf returns the cell index for a coordinate on this board
func (gs *GameState) IndexOf(c Coordinate) int {
	return c.ToIndex(gs.Config.Board)
}

// InBounds checks a coordinate against the board extent
func (gs *GameState) InBounds(c Coordinate) bool {
	return c.IsValid(gs.Config.Board)
}

// FindPiece returns a pointer into the roster, or nil. The pointer is only
// valid until the roster is next modified.
func (gs *GameState) FindPiece(id int) *Piece {
	for i := range gs.Pieces {
		if gs.Pieces[i].ID == id {
			return &gs.Pieces[i]
		}
	}
	return nil
}

// OccupantAt returns the first piece standing on c, or nil. Off-board
// coordinates are matched too, so chains can run past the edge.
func (gs *GameState) OccupantAt(c Coordinate) *Piece {
	for i := range gs.Pieces {
		if gs.Pieces[i].Position.Equal(c) {
			return &gs.Pieces[i]
		}
	}
	return nil
}

// MovePiece relocates a piece and keeps Cells in step. Moving onto an
// occupied cell overwrites the index entry; overlap cleanup restores the
// invariant afterwards.
func (gs *GameState) MovePiece(id int, to Coordinate) bool {
	p := gs.FindPiece(id)
	if p == nil {
		return false
	}
	if from := gs.IndexOf(p.Position); gs.validIndex(from) && gs.Cells[from] == id {
		gs.Cells[from] = EmptyCell
	}
	p.Position = to
	if idx := gs.IndexOf(to); gs.validIndex(idx) {
		gs.Cells[idx] = id
	}
	return true
}

// RemovePiece deletes a piece from the roster and the cell index
func (gs *GameState) RemovePiece(id int) (Piece, bool) {
	for i := range gs.Pieces {
		if gs.Pieces[i].ID != id {
			continue
		}
		removed := gs.Pieces[i]
		if idx := gs.IndexOf(removed.Position); gs.validIndex(idx) && gs.Cells[idx] == id {
			gs.Cells[idx] = EmptyCell
		}
		gs.Pieces = append(gs.Pieces[:i], gs.Pieces[i+1:]...)
		return removed, true
	}
	return Piece{}, false
}

// RetireID keeps id out of the free pool until ReleaseRetired
func (gs *GameState) RetireID(id int) {
	if gs.retired == nil {
		gs.retired = make(map[int]bool)
	}
	gs.retired[id] = true
}

// IsRetired reports whether id was destroyed during the current turn
func (gs *GameState) IsRetired(id int) bool { return gs.retired[id] }

// ReleaseRetired returns every retired id to the free pool
func (gs *GameState) ReleaseRetired() { gs.retired = nil }

// ReindexCells rebuilds Cells from the roster
func (gs *GameState) ReindexCells() {
	for i := range gs.Cells {
		gs.Cells[i] = EmptyCell
	}
	for _, p := range gs.Pieces {
		if idx := gs.IndexOf(p.Position); gs.validIndex(idx) {
			gs.Cells[idx] = p.ID
		}
	}
}

// CheckOccupancy verifies that Cells and Pieces agree: every occupied cell
// names a piece standing on it and every on-board piece is indexed once.
func (gs *GameState) CheckOccupancy() error {
	seen := make(map[int]bool, len(gs.Pieces))
	for idx, id := range gs.Cells {
		if id == EmptyCell {
			continue
		}
		p := gs.FindPiece(id)
		if p == nil {
			return fmt.Errorf("cell %d holds missing piece %d", idx, id)
		}
		if gs.IndexOf(p.Position) != idx {
			return fmt.Errorf("cell %d holds piece %d which stands at %s", idx, id, p.Position)
		}
		if seen[id] {
			return fmt.Errorf("piece %d indexed twice", id)
		}
		seen[id] = true
	}
	for _, p := range gs.Pieces {
		if !gs.InBounds(p.Position) {
			return fmt.Errorf("piece %d off board at %s", p.ID, p.Position)
		}
		if !seen[p.ID] {
			return fmt.Errorf("piece %d at %s missing from cells", p.ID, p.Position)
		}
	}
	return nil
}

// OrderForPiece returns the buffered order for a piece, if any
func (gs *GameState) OrderForPiece(id int) (Order, int, bool) {
	for owner := 0; owner < Players; owner++ {
		for _, o := range gs.Orders[owner] {
			if o.PieceID() == id {
				return o, owner, true
			}
		}
	}
	return nil, 0, false
}

// ClearOrders empties both order buffers
func (gs *GameState) ClearOrders() {
	for owner := 0; owner < Players; owner++ {
		gs.Orders[owner] = []Order{}
	}
}

func (gs *GameState) validIndex(idx int) bool {
	return idx >= 0 && idx < len(gs.Cells)
}
