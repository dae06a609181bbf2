package archive

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/compress/zstd"

	"github.com/mitchelldurbincs/zugzwang/internal/game/core"
)

// PhaseSetup marks the row holding the starting layout
const PhaseSetup = "setup"

const schemaVersion = "replay_step_v1"

// ReplayRow is one snapshot of a match: the starting layout, a resolution
// step or a cleanup pass. Rows of one turn share Turn and are ordered by
// Step.
type ReplayRow struct {
	MatchID string `parquet:"match_id,dict"`
	Turn    int32  `parquet:"turn"`
	Step    int32  `parquet:"step"`
	Phase   string `parquet:"phase,dict"`
	Width   int32  `parquet:"width"`
	Height  int32  `parquet:"height"`

	Cells []int32 `parquet:"cells"`

	// Pieces, orders and events are stored as JSON to keep the schema flat
	PiecesJSON []byte `parquet:"pieces_json,zstd"`
	OrdersJSON []byte `parquet:"orders_json,optional,zstd"`
	EventsJSON []byte `parquet:"events_json,optional,zstd"`

	Score0 int32 `parquet:"score_0"`
	Score1 int32 `parquet:"score_1"`
}

// Step is a decoded ReplayRow
type Step struct {
	Turn   int
	Step   int
	Phase  string
	State  *core.GameState
	Orders []core.OrderSpec
	Events []core.HistoryEvent
}

func newRow(matchID string, board core.Coordinate, turn, step int, s core.Snapshot) (ReplayRow, error) {
	orders := make([]core.OrderSpec, 0, len(s.Orders))
	for _, o := range s.Orders {
		orders = append(orders, core.SpecOf(o))
	}
	pieces, err := json.Marshal(s.Pieces)
	if err != nil {
		return ReplayRow{}, fmt.Errorf("encode pieces: %w", err)
	}
	ordersJSON, err := json.Marshal(orders)
	if err != nil {
		return ReplayRow{}, fmt.Errorf("encode orders: %w", err)
	}
	eventsJSON, err := json.Marshal(s.Events)
	if err != nil {
		return ReplayRow{}, fmt.Errorf("encode events: %w", err)
	}

	cells := make([]int32, len(s.Cells))
	for i, c := range s.Cells {
		cells[i] = int32(c)
	}
	return ReplayRow{
		MatchID:    matchID,
		Turn:       int32(turn),
		Step:       int32(step),
		Phase:      s.Phase,
		Width:      int32(board.X),
		Height:     int32(board.Y),
		Cells:      cells,
		PiecesJSON: pieces,
		OrdersJSON: ordersJSON,
		EventsJSON: eventsJSON,
		Score0:     int32(s.Score[0]),
		Score1:     int32(s.Score[1]),
	}, nil
}

// Decode rebuilds the board the row describes
func (r ReplayRow) Decode() (Step, error) {
	cfg := core.DefaultMatchConfig()
	cfg.Board = core.Coordinate{X: int(r.Width), Y: int(r.Height)}
	gs := core.NewGameState(cfg)
	gs.Turn = int(r.Turn)
	gs.Score = [core.Players]int{int(r.Score0), int(r.Score1)}

	if len(r.Cells) != len(gs.Cells) {
		return Step{}, fmt.Errorf("turn %d step %d: %d cells for a %dx%d board", r.Turn, r.Step, len(r.Cells), r.Width, r.Height)
	}
	for i, c := range r.Cells {
		gs.Cells[i] = int(c)
	}
	if err := json.Unmarshal(r.PiecesJSON, &gs.Pieces); err != nil {
		return Step{}, fmt.Errorf("decode pieces: %w", err)
	}

	step := Step{Turn: int(r.Turn), Step: int(r.Step), Phase: r.Phase, State: gs}
	if len(r.OrdersJSON) > 0 {
		if err := json.Unmarshal(r.OrdersJSON, &step.Orders); err != nil {
			return Step{}, fmt.Errorf("decode orders: %w", err)
		}
	}
	if len(r.EventsJSON) > 0 {
		if err := json.Unmarshal(r.EventsJSON, &step.Events); err != nil {
			return Step{}, fmt.Errorf("decode events: %w", err)
		}
	}
	return step, nil
}

// ReplayPath is where a match's replay is written inside dir
func ReplayPath(dir, matchID string) string {
	return filepath.Join(dir, matchID+".parquet")
}

// WriteReplay writes rows to path through a temp file and an atomic rename
func WriteReplay(path string, rows []ReplayRow) error {
	if len(rows) == 0 {
		return errors.New("no rows to write")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	tmpPath := path + ".tmp"
	_ = os.Remove(tmpPath)

	if err := parquet.WriteFile(tmpPath, rows,
		parquet.Compression(&zstd.Codec{Level: zstd.SpeedBetterCompression}),
		parquet.KeyValueMetadata("schema", schemaVersion),
		parquet.KeyValueMetadata("match_id", rows[0].MatchID),
	); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("write parquet: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename parquet: %w", err)
	}
	return nil
}

// ReadReplay loads every row of a replay file in write order
func ReadReplay(path string) ([]ReplayRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, err
	}

	pf, err := parquet.OpenFile(f, stat.Size())
	if err != nil {
		return nil, fmt.Errorf("open parquet: %w", err)
	}
	if schema, ok := pf.Lookup("schema"); ok && schema != schemaVersion {
		return nil, fmt.Errorf("unsupported replay schema %q", schema)
	}

	reader := parquet.NewGenericReader[ReplayRow](pf)
	defer reader.Close()

	rows := make([]ReplayRow, reader.NumRows())
	n, err := reader.Read(rows)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("read rows: %w", err)
	}
	return rows[:n], nil
}
