package spectator

import (
	"time"

	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Watchers only ever send control frames.
	maxMessageSize = 512

	sendBuffer = 32
)

// watcher is one websocket connection following a match
type watcher struct {
	hub     *Hub
	matchID string
	conn    *websocket.Conn
	send    chan Frame
}

func newWatcher(h *Hub, matchID string, conn *websocket.Conn) *watcher {
	return &watcher{
		hub:     h,
		matchID: matchID,
		conn:    conn,
		send:    make(chan Frame, sendBuffer),
	}
}

// readPump discards client messages and keeps the read deadline moving on
// pongs. It unregisters the watcher when the connection goes away.
func (w *watcher) readPump() {
	defer func() {
		w.hub.unregister(w)
		_ = w.conn.Close()
	}()

	w.conn.SetReadLimit(maxMessageSize)
	_ = w.conn.SetReadDeadline(time.Now().Add(pongWait))
	w.conn.SetPongHandler(func(string) error {
		return w.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := w.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				w.hub.logger.Debug().Err(err).Str("match_id", w.matchID).Msg("Watcher read error")
			}
			return
		}
	}
}

func (w *watcher) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = w.conn.Close()
	}()

	for {
		select {
		case frame, ok := <-w.send:
			_ = w.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = w.conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := w.conn.WriteJSON(frame); err != nil {
				return
			}
		case <-ticker.C:
			_ = w.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := w.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
