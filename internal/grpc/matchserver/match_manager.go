package matchserver

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/zugzwang/internal/game"
	"github.com/mitchelldurbincs/zugzwang/internal/game/core"
	"github.com/mitchelldurbincs/zugzwang/internal/game/events"
	"github.com/mitchelldurbincs/zugzwang/internal/game/layout"
	"github.com/mitchelldurbincs/zugzwang/internal/game/states"
)

// Cleanup configuration
const (
	cleanupInterval  = 5 * time.Minute
	finishedMatchTTL = 10 * time.Minute
)

var (
	ErrAtCapacity    = errors.New("server at capacity")
	ErrMatchNotFound = errors.New("match not found")
	ErrMatchFull     = errors.New("match is full")
)

type playerInfo struct {
	name  string
	token string
}

// matchInstance is one hosted match. mu serialises every engine call.
type matchInstance struct {
	id     string
	mu     sync.Mutex
	engine *game.Engine
	host   *states.TurnHost
	seats  [core.Players]*playerInfo

	createdAt    time.Time
	lastActivity time.Time

	idempotency *IdempotencyManager
}

// ManagerOptions configures a MatchManager
type ManagerOptions struct {
	// MaxMatches caps concurrently hosted matches; zero means unlimited
	MaxMatches int
	// IdleTimeout removes matches without activity; zero disables it
	IdleTimeout time.Duration
	// DefaultRules are used when a create request carries none
	DefaultRules core.MatchConfig
	// DefaultLayout names the starting layout used when none is requested
	DefaultLayout string
	// EventBus receives every hosted match's events. A private bus is
	// created when nil.
	EventBus *events.EventBus
	Logger   zerolog.Logger
}

// MatchManager hosts matches and runs their turn cycles
type MatchManager struct {
	mu      sync.RWMutex
	matches map[string]*matchInstance
	opts    ManagerOptions
	bus     *events.EventBus
	logger  zerolog.Logger

	onRemoved []func(matchID string)

	stopOnce sync.Once
	stop     chan struct{}
}

// NewMatchManager creates a manager and starts its cleanup loop
func NewMatchManager(opts ManagerOptions) *MatchManager {
	logger := opts.Logger.With().Str("component", "MatchManager").Logger()
	bus := opts.EventBus
	if bus == nil {
		bus = events.NewEventBus(opts.Logger)
	}
	if opts.DefaultRules.Board.X == 0 {
		opts.DefaultRules = core.DefaultMatchConfig()
	}
	mm := &MatchManager{
		matches: make(map[string]*matchInstance),
		opts:    opts,
		bus:     bus,
		logger:  logger,
		stop:    make(chan struct{}),
	}
	go mm.runCleanup()
	return mm
}

// EventBus returns the bus all hosted matches publish to
func (mm *MatchManager) EventBus() *events.EventBus { return mm.bus }

// Close stops the cleanup loop
func (mm *MatchManager) Close() {
	mm.stopOnce.Do(func() { close(mm.stop) })
}

// CreateMatch sets up a new match. rules nil selects the defaults, an
// empty layout name the default layout and a zero seed a time based one.
func (mm *MatchManager) CreateMatch(ctx context.Context, rules *core.MatchConfig, layoutName string, seed int64) (*matchInstance, error) {
	mm.mu.RLock()
	current := len(mm.matches)
	defaultRules, defaultLayout := mm.opts.DefaultRules, mm.opts.DefaultLayout
	mm.mu.RUnlock()

	if mm.opts.MaxMatches > 0 && current >= mm.opts.MaxMatches {
		mm.logger.Warn().
			Int("current_matches", current).
			Int("max_matches", mm.opts.MaxMatches).
			Msg("Rejecting match creation - server at capacity")
		return nil, fmt.Errorf("%d/%d matches active: %w", current, mm.opts.MaxMatches, ErrAtCapacity)
	}

	cfg := defaultRules
	if rules != nil {
		cfg = *rules
	}
	if layoutName == "" {
		layoutName = defaultLayout
	}
	lay, err := layout.ByName(layoutName)
	if err != nil {
		return nil, err
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	id := uuid.NewString()
	engine, err := game.SetupContext(ctx, cfg, rand.New(rand.NewSource(seed)), lay,
		game.WithMatchID(id),
		game.WithLogger(mm.opts.Logger),
		game.WithEventBus(mm.bus),
	)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	m := &matchInstance{
		id:           id,
		engine:       engine,
		host:         states.NewTurnHost(id, mm.opts.Logger, mm.bus),
		createdAt:    now,
		lastActivity: now,
		idempotency:  NewIdempotencyManager(),
	}

	mm.mu.Lock()
	mm.matches[id] = m
	count := len(mm.matches)
	mm.mu.Unlock()

	mm.logger.Info().
		Str("match_id", id).
		Int("current_matches", count).
		Int("width", cfg.Board.X).
		Int("height", cfg.Board.Y).
		Int64("seed", seed).
		Msg("Created match")
	return m, nil
}

// SetDefaults changes the rules and layout used by matches created
// without their own. Running matches keep theirs.
func (mm *MatchManager) SetDefaults(rules core.MatchConfig, layoutName string) {
	mm.mu.Lock()
	defer mm.mu.Unlock()
	mm.opts.DefaultRules = rules
	mm.opts.DefaultLayout = layoutName
	mm.logger.Info().
		Int("width", rules.Board.X).
		Int("height", rules.Board.Y).
		Str("layout", layoutName).
		Msg("Default match rules updated")
}

// OnMatchRemoved registers fn to be called after cleanup drops a match
func (mm *MatchManager) OnMatchRemoved(fn func(matchID string)) {
	mm.mu.Lock()
	defer mm.mu.Unlock()
	mm.onRemoved = append(mm.onRemoved, fn)
}

// GetMatch looks a match up by id
func (mm *MatchManager) GetMatch(id string) (*matchInstance, bool) {
	mm.mu.RLock()
	defer mm.mu.RUnlock()
	m, ok := mm.matches[id]
	return m, ok
}

// ActiveMatches returns the number of hosted matches
func (mm *MatchManager) ActiveMatches() int {
	mm.mu.RLock()
	defer mm.mu.RUnlock()
	return len(mm.matches)
}

// SpectatorView returns the public state of a match
func (mm *MatchManager) SpectatorView(id string) (*core.GameState, error) {
	m, ok := mm.GetMatch(id)
	if !ok {
		return nil, fmt.Errorf("%s: %w", id, ErrMatchNotFound)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.engine.PlayerView(game.Spectator), nil
}

func (mm *MatchManager) runCleanup() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			mm.cleanupMatches(time.Now())
		case <-mm.stop:
			return
		}
	}
}

// cleanupMatches removes finished matches after a grace period and idle
// ones after the idle timeout
func (mm *MatchManager) cleanupMatches(now time.Time) int {
	mm.mu.RLock()
	refs := make([]*matchInstance, 0, len(mm.matches))
	for _, m := range mm.matches {
		refs = append(refs, m)
	}
	mm.mu.RUnlock()

	var toDelete []string
	for _, m := range refs {
		m.mu.Lock()
		idle := now.Sub(m.lastActivity)
		phase := m.host.Phase()
		m.mu.Unlock()

		reason := ""
		switch {
		case phase.IsTerminal() && idle > finishedMatchTTL:
			reason = "finished match TTL expired"
		case mm.opts.IdleTimeout > 0 && idle > mm.opts.IdleTimeout:
			reason = "match abandoned (no activity)"
		default:
			continue
		}
		toDelete = append(toDelete, m.id)
		mm.logger.Info().
			Str("match_id", m.id).
			Str("reason", reason).
			Dur("inactive", idle).
			Msg("Cleaning up match")
	}

	if len(toDelete) == 0 {
		return 0
	}
	mm.mu.Lock()
	for _, id := range toDelete {
		delete(mm.matches, id)
	}
	remaining := len(mm.matches)
	hooks := append([]func(string){}, mm.onRemoved...)
	mm.mu.Unlock()

	for _, id := range toDelete {
		for _, fn := range hooks {
			fn(id)
		}
	}

	mm.logger.Info().
		Int("cleaned", len(toDelete)).
		Int("remaining", remaining).
		Msg("Match cleanup completed")
	return len(toDelete)
}

// Match instance methods. Callers hold m.mu.

// seat adds a player, or returns the existing seat of a returning name
func (m *matchInstance) seat(name string) (int, string, error) {
	for owner, p := range m.seats {
		if p != nil && p.name == name {
			return owner, p.token, nil
		}
	}
	for owner, p := range m.seats {
		if p != nil {
			continue
		}
		if err := m.host.Seat(owner); err != nil {
			return 0, "", err
		}
		m.seats[owner] = &playerInfo{name: name, token: uuid.NewString()}
		m.lastActivity = time.Now()
		return owner, m.seats[owner].token, nil
	}
	return 0, "", ErrMatchFull
}

// authenticate checks a player's credentials
func (m *matchInstance) authenticate(playerID int, token string) bool {
	if !core.ValidOwner(playerID) {
		return false
	}
	p := m.seats[playerID]
	return p != nil && token != "" && p.token == token
}

// planningFlags returns both owners' done flags
func (m *matchInstance) planningFlags() [core.Players]bool {
	var flags [core.Players]bool
	for owner := range flags {
		flags[owner] = m.host.IsPlanningDone(owner)
	}
	return flags
}

// view renders the match as viewer sees it
func (m *matchInstance) view(viewer int) *StateDTO {
	return stateToDTO(m.id, m.host.Phase(), m.engine.PlayerView(viewer), m.planningFlags(), m.engine.IsGameOver(), m.engine.Winner())
}

// resolve runs the turn once both owners are done and advances the host
func (m *matchInstance) resolve(ctx context.Context) (*game.TurnSummary, error) {
	if err := m.host.BeginResolution(); err != nil {
		return nil, err
	}
	summary, err := m.engine.ResolveTurn(ctx)
	if err != nil {
		if failErr := m.host.Fail(err); failErr != nil {
			return nil, errors.Join(err, failErr)
		}
		return nil, err
	}
	if err := m.host.FinishResolution(summary.GameOver, summary.Winner); err != nil {
		return nil, err
	}
	return summary, nil
}
