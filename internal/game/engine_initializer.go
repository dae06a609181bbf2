package game

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/zugzwang/internal/game/core"
	"github.com/mitchelldurbincs/zugzwang/internal/game/events"
	"github.com/mitchelldurbincs/zugzwang/internal/game/layout"
	"github.com/mitchelldurbincs/zugzwang/internal/game/processor"
	"github.com/mitchelldurbincs/zugzwang/internal/game/rules"
)

type setupOptions struct {
	matchID  string
	logger   zerolog.Logger
	eventBus *events.EventBus
}

// Option customises Setup
type Option func(*setupOptions)

// WithMatchID sets the id events are published under. A random uuid is
// used otherwise.
func WithMatchID(id string) Option {
	return func(o *setupOptions) { o.matchID = id }
}

func WithLogger(logger zerolog.Logger) Option {
	return func(o *setupOptions) { o.logger = logger }
}

// WithEventBus publishes to an existing bus instead of a private one
func WithEventBus(bus *events.EventBus) Option {
	return func(o *setupOptions) { o.eventBus = bus }
}

// Setup validates cfg, places the starting layout and returns an engine
// ready for the first planning phase. A nil rng is seeded from the clock and
// a nil layout means layout.Centered.
func Setup(cfg core.MatchConfig, rng *rand.Rand, lay layout.Layout, opts ...Option) (*Engine, error) {
	return SetupContext(context.Background(), cfg, rng, lay, opts...)
}

// SetupContext is Setup with an early cancellation check
func SetupContext(ctx context.Context, cfg core.MatchConfig, rng *rand.Rand, lay layout.Layout, opts ...Option) (*Engine, error) {
	options := setupOptions{logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(&options)
	}
	logger := options.logger.With().Str("component", "GameEngine").Logger()

	select {
	case <-ctx.Done():
		logger.Error().Err(ctx.Err()).Msg("Engine creation cancelled before setup")
		return nil, ctx.Err()
	default:
	}

	if err := cfg.Validate(); err != nil {
		logger.Error().Err(err).Msg("Invalid match configuration")
		return nil, fmt.Errorf("match config: %w", err)
	}
	cfg.PriorityPool = append([]int(nil), cfg.PriorityPool...)

	if rng == nil {
		logger.Debug().Msg("No RNG provided, creating new seeded RNG")
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if lay == nil {
		lay = layout.Centered{}
	}
	if options.matchID == "" {
		options.matchID = uuid.NewString()
	}
	logger = logger.With().Str("match_id", options.matchID).Logger()
	if options.eventBus == nil {
		options.eventBus = events.NewEventBus(logger)
	}

	registry := core.NewRegistry(rng, logger)
	cleaner := processor.NewCleaner(logger)
	e := &Engine{
		gs:           core.NewGameState(cfg),
		rng:          rng,
		winner:       rules.NoWinner,
		logger:       logger,
		matchID:      options.matchID,
		registry:     registry,
		resolver:     processor.NewResolver(logger, registry, cleaner),
		cleaner:      cleaner,
		winCondition: rules.NewWinConditionChecker(logger, cfg.ScoreToWin),
		eventBus:     options.eventBus,
	}
	e.turnProcessor = NewTurnProcessor(e)

	created, err := layout.Apply(e.gs, registry, lay, rng)
	if err != nil {
		return nil, fmt.Errorf("starting layout: %w", err)
	}

	e.eventBus.Publish(events.NewMatchStartedEvent(e.matchID, cfg.Board, len(created)))
	for _, p := range created {
		e.eventBus.Publish(events.NewPieceCreatedEvent(e.matchID, e.gs.Turn, p))
	}

	logger.Info().
		Int("width", cfg.Board.X).
		Int("height", cfg.Board.Y).
		Int("pieces", len(created)).
		Str("priority_mode", string(cfg.PriorityMode)).
		Msg("Engine created successfully")

	return e, nil
}
