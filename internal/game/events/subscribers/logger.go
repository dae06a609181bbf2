package subscribers

import (
	"encoding/json"

	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/zugzwang/internal/game/events"
)

// LoggerSubscriber writes match events to a zerolog logger
type LoggerSubscriber struct {
	id              string
	logger          zerolog.Logger
	logLevel        zerolog.Level
	eventTypeFilter map[string]bool
	devMode         bool
}

// NewLoggerSubscriber creates a subscriber logging at logLevel
func NewLoggerSubscriber(id string, logger zerolog.Logger, logLevel zerolog.Level) *LoggerSubscriber {
	return &LoggerSubscriber{
		id:       id,
		logger:   logger.With().Str("subscriber", "event_logger").Logger(),
		logLevel: logLevel,
	}
}

func (ls *LoggerSubscriber) ID() string {
	return ls.id
}

// SetEventFilter restricts logging to the given types. Empty logs everything.
func (ls *LoggerSubscriber) SetEventFilter(eventTypes []string) {
	if len(eventTypes) == 0 {
		ls.eventTypeFilter = nil
		return
	}
	ls.eventTypeFilter = make(map[string]bool, len(eventTypes))
	for _, eventType := range eventTypes {
		ls.eventTypeFilter[eventType] = true
	}
}

// SetDevMode adds the full JSON body of each event to the log line
func (ls *LoggerSubscriber) SetDevMode(enabled bool) {
	ls.devMode = enabled
}

func (ls *LoggerSubscriber) InterestedIn(eventType string) bool {
	if ls.eventTypeFilter == nil {
		return true
	}
	return ls.eventTypeFilter[eventType]
}

func (ls *LoggerSubscriber) HandleEvent(event events.Event) {
	logEvent := ls.logger.WithLevel(ls.logLevel).
		Str("event_type", event.Type()).
		Str("match_id", event.MatchID()).
		Time("timestamp", event.Timestamp())

	switch e := event.(type) {
	case *events.MatchStartedEvent:
		logEvent.
			Int("board_width", e.Board.X).
			Int("board_height", e.Board.Y).
			Int("pieces", e.Pieces)

	case *events.TurnStartedEvent:
		logEvent.Int("turn", e.Turn).Int("orders", e.Orders)

	case *events.TurnResolvedEvent:
		logEvent.
			Int("turn", e.Turn).
			Int("steps", e.Steps).
			Int("dropped", e.Dropped).
			Ints("score", e.Score[:]).
			Dur("process_time", e.ProcessedTime)

	case *events.OrderEvent:
		logEvent.
			Int("turn", e.Turn).
			Int("player_id", e.Order.Owner).
			Str("order_type", e.Order.Type).
			Int("piece_id", e.Order.SourcePieceID)
		if e.Reason != "" {
			logEvent.Str("reason", e.Reason)
		}

	case *events.PieceEvent:
		logEvent.
			Int("turn", e.Turn).
			Int("piece_id", e.Piece.ID).
			Int("player_id", e.Piece.Owner).
			Int("x", e.Piece.Position.X).
			Int("y", e.Piece.Position.Y)
		if e.Cause != "" {
			logEvent.Str("cause", e.Cause)
		}

	case *events.PlayerWonEvent:
		logEvent.
			Int("turn", e.Turn).
			Int("winner", e.Winner).
			Ints("score", e.Score[:])

	case *events.StateTransitionEvent:
		logEvent.
			Str("from", e.FromPhase).
			Str("to", e.ToPhase).
			Str("reason", e.Reason)
	}

	if ls.devMode {
		if jsonData, err := json.Marshal(event); err == nil {
			logEvent.RawJSON("event_data", jsonData)
		}
	}

	logEvent.Msg("Match event")
}
