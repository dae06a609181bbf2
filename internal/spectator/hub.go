package spectator

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/zugzwang/internal/game/core"
	"github.com/mitchelldurbincs/zugzwang/internal/game/events"
)

// ViewSource returns the spectator view of a hosted match
type ViewSource interface {
	SpectatorView(matchID string) (*core.GameState, error)
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Hub fans resolved turns out to websocket watchers, grouped by match.
//
// Bus handlers run while the publishing match is locked, so the hub only
// works from event payloads there and never calls back into views.
type Hub struct {
	mu     sync.RWMutex
	rooms  map[string]map[*watcher]struct{}
	views  ViewSource
	bus    *events.EventBus
	subIDs []string
	logger zerolog.Logger
}

// NewHub subscribes to bus and serves views of matches as they connect
func NewHub(bus *events.EventBus, views ViewSource, logger zerolog.Logger) *Hub {
	h := &Hub{
		rooms:  make(map[string]map[*watcher]struct{}),
		views:  views,
		bus:    bus,
		logger: logger.With().Str("component", "spectator").Logger(),
	}
	h.subIDs = append(h.subIDs,
		bus.SubscribeFunc(events.TypeTurnResolved, h.onTurnResolved),
		bus.SubscribeFunc(events.TypePlayerWon, h.onPlayerWon),
	)
	return h
}

// Handler serves GET /matches/{id}/watch
func (h *Hub) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /matches/{id}/watch", h.serveWatch)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return mux
}

// Watchers returns the number of connected watchers of a match
func (h *Hub) Watchers(matchID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[matchID])
}

// TotalWatchers counts watchers across all matches
func (h *Hub) TotalWatchers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n := 0
	for _, room := range h.rooms {
		n += len(room)
	}
	return n
}

// Close unsubscribes from the bus and disconnects every watcher
func (h *Hub) Close() {
	for _, id := range h.subIDs {
		h.bus.Unsubscribe(id)
	}
	h.subIDs = nil

	h.mu.Lock()
	defer h.mu.Unlock()
	for matchID := range h.rooms {
		h.closeRoomLocked(matchID)
	}
}

// CloseMatch disconnects every watcher of a match
func (h *Hub) CloseMatch(matchID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closeRoomLocked(matchID)
}

func (h *Hub) serveWatch(w http.ResponseWriter, r *http.Request) {
	matchID := r.PathValue("id")
	view, err := h.views.SpectatorView(matchID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn().Err(err).Str("match_id", matchID).Msg("Websocket upgrade failed")
		return
	}

	wt := newWatcher(h, matchID, conn)
	wt.send <- stateFrame(matchID, view)
	h.register(wt)

	go wt.writePump()
	go wt.readPump()
}

func (h *Hub) register(w *watcher) {
	h.mu.Lock()
	defer h.mu.Unlock()
	room, ok := h.rooms[w.matchID]
	if !ok {
		room = make(map[*watcher]struct{})
		h.rooms[w.matchID] = room
	}
	room[w] = struct{}{}
	h.logger.Info().Str("match_id", w.matchID).Int("watchers", len(room)).Msg("Watcher connected")
}

func (h *Hub) unregister(w *watcher) {
	h.mu.Lock()
	defer h.mu.Unlock()
	room := h.rooms[w.matchID]
	if _, ok := room[w]; !ok {
		return
	}
	delete(room, w)
	close(w.send)
	if len(room) == 0 {
		delete(h.rooms, w.matchID)
	}
	h.logger.Info().Str("match_id", w.matchID).Msg("Watcher disconnected")
}

// closeRoomLocked closes every watcher's queue so its writer sends a close
// message. Callers hold h.mu.
func (h *Hub) closeRoomLocked(matchID string) {
	for w := range h.rooms[matchID] {
		close(w.send)
	}
	delete(h.rooms, matchID)
}

// broadcast never blocks. A watcher whose queue is full misses the frame.
func (h *Hub) broadcast(matchID string, frame Frame) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for w := range h.rooms[matchID] {
		select {
		case w.send <- frame:
		default:
			h.logger.Warn().Str("match_id", matchID).Str("frame", frame.Type).Msg("Watcher queue full, dropping frame")
		}
	}
}

func (h *Hub) onTurnResolved(e events.Event) {
	resolved, ok := e.(*events.TurnResolvedEvent)
	if !ok {
		return
	}
	h.broadcast(resolved.MatchID(), turnFrame(resolved))
}

func (h *Hub) onPlayerWon(e events.Event) {
	won, ok := e.(*events.PlayerWonEvent)
	if !ok {
		return
	}
	h.broadcast(won.MatchID(), endedFrame(won))
	h.CloseMatch(won.MatchID())
}
