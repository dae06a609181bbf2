package matchserver

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitchelldurbincs/zugzwang/internal/game/core"
	"github.com/mitchelldurbincs/zugzwang/internal/game/events"
	tu "github.com/mitchelldurbincs/zugzwang/internal/testutil"
)

func newTestManager(t *testing.T, opts ManagerOptions) *MatchManager {
	t.Helper()
	opts.Logger = tu.NopLogger()
	mm := NewMatchManager(opts)
	t.Cleanup(mm.Close)
	return mm
}

func TestMatchManager_Capacity(t *testing.T) {
	mm := newTestManager(t, ManagerOptions{MaxMatches: 3})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		m, err := mm.CreateMatch(ctx, nil, "", int64(i+1))
		require.NoError(t, err, "match %d", i+1)
		require.NotNil(t, m)
	}
	_, err := mm.CreateMatch(ctx, nil, "", 1)
	assert.ErrorIs(t, err, ErrAtCapacity)
	assert.Equal(t, 3, mm.ActiveMatches())
}

func TestMatchManager_ZeroMeansUnlimited(t *testing.T) {
	mm := newTestManager(t, ManagerOptions{})
	for i := 0; i < 20; i++ {
		_, err := mm.CreateMatch(context.Background(), nil, "empty", 1)
		require.NoError(t, err)
	}
	assert.Equal(t, 20, mm.ActiveMatches())
}

func TestMatchManager_SharedEventBus(t *testing.T) {
	bus := events.NewEventBus(tu.NopLogger())
	var started []string
	bus.SubscribeFunc(events.TypeMatchStarted, func(ev events.Event) {
		started = append(started, ev.MatchID())
	})

	mm := newTestManager(t, ManagerOptions{EventBus: bus})
	a, err := mm.CreateMatch(context.Background(), nil, "", 1)
	require.NoError(t, err)
	b, err := mm.CreateMatch(context.Background(), nil, "", 2)
	require.NoError(t, err)

	assert.Same(t, bus, mm.EventBus())
	assert.Equal(t, []string{a.id, b.id}, started)
}

func TestMatchManager_SpectatorView(t *testing.T) {
	mm := newTestManager(t, ManagerOptions{})
	m, err := mm.CreateMatch(context.Background(), nil, "", 1)
	require.NoError(t, err)

	m.mu.Lock()
	_, _, err = m.seat("alice")
	require.NoError(t, err)
	_, _, err = m.seat("bob")
	require.NoError(t, err)
	require.NoError(t, m.engine.SubmitOrder(0, tu.Defend(0, 0)))
	m.mu.Unlock()

	view, err := mm.SpectatorView(m.id)
	require.NoError(t, err)
	assert.Empty(t, view.Orders[0])
	assert.Len(t, view.Pieces, 4)

	_, err = mm.SpectatorView("missing")
	assert.ErrorIs(t, err, ErrMatchNotFound)
}

func TestMatchManager_Cleanup(t *testing.T) {
	mm := newTestManager(t, ManagerOptions{IdleTimeout: time.Hour})
	ctx := context.Background()

	active, err := mm.CreateMatch(ctx, nil, "", 1)
	require.NoError(t, err)
	idle, err := mm.CreateMatch(ctx, nil, "", 2)
	require.NoError(t, err)
	finished, err := mm.CreateMatch(ctx, nil, "", 3)
	require.NoError(t, err)

	var removed []string
	mm.OnMatchRemoved(func(id string) { removed = append(removed, id) })

	now := time.Now()
	idle.lastActivity = now.Add(-2 * time.Hour)
	finished.lastActivity = now.Add(-finishedMatchTTL - time.Minute)
	require.NoError(t, finished.host.Fail(assert.AnError))

	assert.Equal(t, 2, mm.cleanupMatches(now))
	_, ok := mm.GetMatch(active.id)
	assert.True(t, ok)
	_, ok = mm.GetMatch(idle.id)
	assert.False(t, ok)
	_, ok = mm.GetMatch(finished.id)
	assert.False(t, ok)
	assert.ElementsMatch(t, []string{idle.id, finished.id}, removed)
}

func TestMatchInstance_Seat(t *testing.T) {
	mm := newTestManager(t, ManagerOptions{})
	m, err := mm.CreateMatch(context.Background(), nil, "", 1)
	require.NoError(t, err)

	owner, token, err := m.seat("alice")
	require.NoError(t, err)
	assert.Equal(t, 0, owner)
	assert.True(t, m.authenticate(0, token))
	assert.False(t, m.authenticate(0, ""))
	assert.False(t, m.authenticate(1, token))
	assert.False(t, m.authenticate(core.Players, token))

	_, _, err = m.seat("bob")
	require.NoError(t, err)
	_, _, err = m.seat("carol")
	assert.ErrorIs(t, err, ErrMatchFull)
}

func TestMatchManager_SetDefaults(t *testing.T) {
	mm := newTestManager(t, ManagerOptions{DefaultLayout: "centered"})

	rules := core.DefaultMatchConfig()
	rules.Board = core.Coordinate{X: 6, Y: 5}
	mm.SetDefaults(rules, "empty")

	m, err := mm.CreateMatch(context.Background(), nil, "", 1)
	require.NoError(t, err)
	cfg := m.engine.Config()
	assert.Equal(t, core.Coordinate{X: 6, Y: 5}, cfg.Board)
	assert.Empty(t, m.engine.GameState().Pieces, "the empty layout places nothing")
}
