package archive

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/zugzwang/internal/game/core"
	"github.com/mitchelldurbincs/zugzwang/internal/game/events"
)

const queueSize = 64

type matchRecord struct {
	id     string
	board  core.Coordinate
	setup  []core.Piece
	rows   []ReplayRow
	turned bool
}

// Recorder collects resolved turns from the event bus and writes one
// parquet replay per match once it ends. Matches still running when the
// recorder closes are written as they stand.
//
// Handlers run on the publishing match's goroutine, so files are written
// by a single background worker.
type Recorder struct {
	dir    string
	bus    *events.EventBus
	subIDs []string
	logger zerolog.Logger

	mu      sync.Mutex
	matches map[string]*matchRecord
	closed  bool

	queue chan *matchRecord
	done  chan struct{}

	// OnWritten is called by the worker after each replay file is written
	OnWritten func(matchID, path string)
}

// NewRecorder subscribes to bus and starts the writer
func NewRecorder(dir string, bus *events.EventBus, logger zerolog.Logger) *Recorder {
	r := &Recorder{
		dir:     dir,
		bus:     bus,
		logger:  logger.With().Str("component", "archive").Logger(),
		matches: make(map[string]*matchRecord),
		queue:   make(chan *matchRecord, queueSize),
		done:    make(chan struct{}),
	}
	r.subIDs = append(r.subIDs,
		bus.SubscribeFunc(events.TypeMatchStarted, r.onMatchStarted),
		bus.SubscribeFunc(events.TypePieceCreated, r.onPieceCreated),
		bus.SubscribeFunc(events.TypeTurnResolved, r.onTurnResolved),
		bus.SubscribeFunc(events.TypePlayerWon, r.onPlayerWon),
	)
	go r.run()
	return r
}

// Pending returns the number of matches being recorded
func (r *Recorder) Pending() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.matches)
}

// Close unsubscribes, queues every unfinished match and waits for the
// writer to drain
func (r *Recorder) Close() {
	for _, id := range r.subIDs {
		r.bus.Unsubscribe(id)
	}
	r.subIDs = nil

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		<-r.done
		return
	}
	r.closed = true
	remaining := make([]*matchRecord, 0, len(r.matches))
	for id, rec := range r.matches {
		remaining = append(remaining, rec)
		delete(r.matches, id)
	}
	r.mu.Unlock()

	for _, rec := range remaining {
		r.queue <- rec
	}
	close(r.queue)
	<-r.done
}

func (r *Recorder) run() {
	defer close(r.done)
	for rec := range r.queue {
		r.write(rec)
	}
}

func (r *Recorder) write(rec *matchRecord) {
	rows := rec.rows
	if len(rec.setup) > 0 {
		setup, err := newRow(rec.id, rec.board, 0, 0, setupSnapshot(rec.board, rec.setup))
		if err != nil {
			r.logger.Error().Err(err).Str("match_id", rec.id).Msg("Failed to encode starting layout")
			return
		}
		rows = append([]ReplayRow{setup}, rows...)
	}
	if len(rows) == 0 {
		return
	}

	path := ReplayPath(r.dir, rec.id)
	if err := WriteReplay(path, rows); err != nil {
		r.logger.Error().Err(err).Str("match_id", rec.id).Str("path", path).Msg("Failed to write replay")
		return
	}
	r.logger.Info().Str("match_id", rec.id).Str("path", path).Int("rows", len(rows)).Msg("Replay written")
	if r.OnWritten != nil {
		r.OnWritten(rec.id, path)
	}
}

// setupSnapshot rebuilds the board from the pieces created before turn 1
func setupSnapshot(board core.Coordinate, pieces []core.Piece) core.Snapshot {
	cfg := core.DefaultMatchConfig()
	cfg.Board = board
	gs := core.NewGameState(cfg)
	gs.Pieces = append(gs.Pieces, pieces...)
	gs.ReindexCells()
	return core.TakeSnapshot(gs, PhaseSetup, nil, nil)
}

func (r *Recorder) record(matchID string) *matchRecord {
	rec, ok := r.matches[matchID]
	if !ok {
		rec = &matchRecord{id: matchID}
		r.matches[matchID] = rec
	}
	return rec
}

func (r *Recorder) onMatchStarted(e events.Event) {
	started, ok := e.(*events.MatchStartedEvent)
	if !ok {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	r.record(started.MatchID()).board = started.Board
}

func (r *Recorder) onPieceCreated(e events.Event) {
	created, ok := e.(*events.PieceEvent)
	if !ok {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	rec := r.record(created.MatchID())
	if !rec.turned {
		rec.setup = append(rec.setup, created.Piece)
	}
}

func (r *Recorder) onTurnResolved(e events.Event) {
	resolved, ok := e.(*events.TurnResolvedEvent)
	if !ok {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	rec := r.record(resolved.MatchID())
	rec.turned = true
	for i, snap := range resolved.Snapshots {
		row, err := newRow(rec.id, rec.board, resolved.Turn, i, snap)
		if err != nil {
			r.logger.Error().Err(err).Str("match_id", rec.id).Int("turn", resolved.Turn).Msg("Failed to encode snapshot")
			continue
		}
		rec.rows = append(rec.rows, row)
	}
}

func (r *Recorder) onPlayerWon(e events.Event) {
	r.Flush(e.MatchID())
}

// Flush queues what has been recorded for a match and forgets it. Hosts
// call it for matches they drop before the end.
func (r *Recorder) Flush(matchID string) {
	// The send happens under mu so Close cannot close the queue first
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	rec, ok := r.matches[matchID]
	if !ok {
		return
	}
	delete(r.matches, matchID)
	r.queue <- rec
}
