package game_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitchelldurbincs/HexTactics/internal/game"
	"github.com/mitchelldurbincs/HexTactics/internal/game/core"
	"github.com/mitchelldurbincs/HexTactics/internal/game/events"
	"github.com/mitchelldurbincs/HexTactics/internal/game/mapgen"
	"github.com/mitchelldurbincs/HexTactics/internal/game/registry"
	"github.com/mitchelldurbincs/HexTactics/internal/game/rules"
	"github.com/mitchelldurbincs/HexTactics/internal/testutil"
)

type eventLog struct {
	byType map[string]int
}

func recordEvents(bus *events.EventBus, types ...string) *eventLog {
	log := &eventLog{byType: make(map[string]int)}
	for _, eventType := range types {
		bus.SubscribeFunc(eventType, func(e events.Event) { log.byType[e.Type()]++ })
	}
	return log
}

func newTestEngine(t *testing.T, gs *game.GameState, ot *registry.ObjectTypes, players, maxTurns int, fog bool) (*game.Engine, *events.EventBus) {
	t.Helper()
	bus := events.NewEventBus(testutil.NopLogger())
	e, err := game.NewEngine(game.EngineOptions{
		MatchID:  "test-match",
		Players:  players,
		MaxTurns: maxTurns,
		FogOfWar: fog,
		Types:    ot,
		Rng:      testutil.NewTestRNG(42),
		Logger:   testutil.NopLogger(),
		EventBus: bus,
	}, gs)
	require.NoError(t, err)
	return e, bus
}

func TestNewEngine(t *testing.T) {
	gs, ot := testutil.CreateSimpleTestSetup()
	e, _ := newTestEngine(t, gs, ot, 2, 0, false)

	assert.Equal(t, 1, e.Turn())
	assert.Equal(t, core.PlayerID(0), e.CurrentPlayer())
	assert.False(t, e.IsMatchOver())
	assert.Equal(t, rules.NoWinner, e.Winner())
	assert.Equal(t, core.Size2{W: 10, H: 10}, e.MapSize())

	players := e.Players()
	require.Len(t, players, 2)
	for _, p := range players {
		assert.True(t, p.Alive)
		assert.Equal(t, 1, p.UnitCount)
	}
}

func TestNewEngine_Errors(t *testing.T) {
	ot := testutil.TestRegistry()

	t.Run("unit of unknown player", func(t *testing.T) {
		gs := testutil.CreateTestState(5, 5)
		testutil.PlaceUnit(gs, ot, 0, "soldier", 3, core.MapPos{X: 1, Y: 1})
		_, err := game.NewEngine(game.EngineOptions{Players: 2, Types: ot, Logger: testutil.NopLogger()}, gs)
		assert.ErrorIs(t, err, core.ErrInvalidPlayer)
	})

	t.Run("no players", func(t *testing.T) {
		_, err := game.NewEngine(game.EngineOptions{Players: 0, Types: ot}, testutil.CreateTestState(5, 5))
		assert.Error(t, err)
	})

	t.Run("no registry", func(t *testing.T) {
		_, err := game.NewEngine(game.EngineOptions{Players: 2}, testutil.CreateTestState(5, 5))
		assert.Error(t, err)
	})
}

func TestEngine_NotYourTurn(t *testing.T) {
	gs, ot := testutil.CreateSimpleTestSetup()
	e, bus := newTestEngine(t, gs, ot, 2, 0, false)
	log := recordEvents(bus, events.TypeCommandRejected)

	err := e.Apply(context.Background(), 1, core.EndTurn{})
	assert.ErrorIs(t, err, core.ErrNotYourTurn)
	assert.Equal(t, core.PlayerID(0), e.CurrentPlayer())
	assert.Equal(t, 1, log.byType[events.TypeCommandRejected])
}

func TestEngine_EndTurnOrder(t *testing.T) {
	gs, ot := testutil.CreateSimpleTestSetup()
	e, bus := newTestEngine(t, gs, ot, 2, 0, false)
	log := recordEvents(bus, events.TypeTurnStarted, events.TypeTurnEnded)
	ctx := context.Background()

	require.NoError(t, e.Apply(ctx, 0, core.EndTurn{}))
	assert.Equal(t, core.PlayerID(1), e.CurrentPlayer())
	assert.Equal(t, 1, e.Turn())

	require.NoError(t, e.Apply(ctx, 1, core.EndTurn{}))
	assert.Equal(t, core.PlayerID(0), e.CurrentPlayer())
	assert.Equal(t, 2, e.Turn(), "wrapping back to player 0 starts a new turn")

	assert.Equal(t, 2, log.byType[events.TypeTurnEnded])
	assert.Equal(t, 2, log.byType[events.TypeTurnStarted])
}

func TestEngine_MoveAndRefresh(t *testing.T) {
	gs, ot := testutil.CreateSimpleTestSetup()
	e, bus := newTestEngine(t, gs, ot, 2, 0, false)
	log := recordEvents(bus, events.TypeCommandApplied, events.TypeUnitMoved)
	ctx := context.Background()

	unit, _ := e.State().Unit(0)
	cmd := core.Move{UnitID: 0, Path: core.NewMapPath([]core.PathNode{
		{Cost: 0, Pos: core.MapPos{X: 0, Y: 0}},
		{Cost: 1, Pos: core.MapPos{X: 1, Y: 0}},
	})}
	require.NoError(t, e.Apply(ctx, 0, cmd))
	assert.Equal(t, core.MapPos{X: 1, Y: 0}, unit.Pos)
	assert.Equal(t, 2, unit.MovePoints)
	assert.Equal(t, 1, e.CommandsThisTurn())
	assert.Equal(t, 1, log.byType[events.TypeCommandApplied])
	assert.Equal(t, 1, log.byType[events.TypeUnitMoved])

	require.NoError(t, e.Apply(ctx, 0, core.EndTurn{}))
	assert.Equal(t, 0, e.CommandsThisTurn())
	assert.Equal(t, 2, unit.MovePoints, "points come back at the start of the owner's turn")

	require.NoError(t, e.Apply(ctx, 1, core.EndTurn{}))
	assert.Equal(t, 3, unit.MovePoints)
}

func TestEngine_RejectedMoveLeavesState(t *testing.T) {
	gs, ot := testutil.CreateSimpleTestSetup()
	e, _ := newTestEngine(t, gs, ot, 2, 0, false)

	unit, _ := e.State().Unit(0)
	cmd := core.Move{UnitID: 0, Path: core.NewMapPath([]core.PathNode{
		{Cost: 0, Pos: core.MapPos{X: 0, Y: 0}},
		{Cost: 1, Pos: core.MapPos{X: 2, Y: 0}},
	})}
	err := e.Apply(context.Background(), 0, cmd)
	assert.ErrorIs(t, err, core.ErrBadPath)
	assert.Equal(t, core.MapPos{X: 0, Y: 0}, unit.Pos)
	assert.Equal(t, 0, e.CommandsThisTurn())
}

func TestEngine_ContextCancelled(t *testing.T) {
	gs, ot := testutil.CreateSimpleTestSetup()
	e, _ := newTestEngine(t, gs, ot, 2, 0, false)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, e.Apply(ctx, 0, core.EndTurn{}), context.Canceled)
	assert.Equal(t, core.PlayerID(0), e.CurrentPlayer())
}

func TestEngine_TurnLimit(t *testing.T) {
	gs, ot := testutil.CreateSimpleTestSetup()
	e, _ := newTestEngine(t, gs, ot, 2, 2, false)
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		require.NoError(t, e.Apply(ctx, e.CurrentPlayer(), core.EndTurn{}))
	}

	require.True(t, e.IsMatchOver())
	result := e.Result()
	assert.Equal(t, rules.ReasonTurnLimit, result.Reason)
	assert.Equal(t, rules.NoWinner, result.Winner)

	err := e.Apply(ctx, e.CurrentPlayer(), core.EndTurn{})
	assert.ErrorIs(t, err, core.ErrMatchOver)
}

func TestEngine_NoUnitsFromTheStart(t *testing.T) {
	gs := testutil.CreateTestState(6, 6)
	ot := testutil.TestRegistry()
	testutil.PlaceUnit(gs, ot, 0, "soldier", 1, core.MapPos{X: 2, Y: 2})

	e, _ := newTestEngine(t, gs, ot, 2, 0, false)
	assert.True(t, e.IsMatchOver())
	assert.Equal(t, core.PlayerID(1), e.Winner())
}

func TestEngine_Elimination(t *testing.T) {
	gs := testutil.CreateTestState(6, 6)
	ot := testutil.TestRegistry()
	testutil.PlaceUnit(gs, ot, 0, "machine_gunner", 0, core.MapPos{X: 1, Y: 1})
	testutil.PlaceUnit(gs, ot, 1, "soldier", 1, core.MapPos{X: 2, Y: 1})

	e, bus := newTestEngine(t, gs, ot, 2, 0, false)
	log := recordEvents(bus, events.TypePlayerEliminated, events.TypeUnitDestroyed)
	ctx := context.Background()

	for i := 0; i < 500 && !e.IsMatchOver(); i++ {
		player := e.CurrentPlayer()
		if player == 0 {
			err := e.Apply(ctx, 0, core.AttackUnit{AttackerID: 0, DefenderID: 1})
			if err == nil {
				continue
			}
			require.ErrorIs(t, err, core.ErrNoAttackPoints)
		}
		require.NoError(t, e.Apply(ctx, player, core.EndTurn{}))
	}

	require.True(t, e.IsMatchOver())
	assert.Equal(t, core.PlayerID(0), e.Winner())
	assert.Equal(t, rules.ReasonLastStanding, e.Result().Reason)
	assert.Equal(t, 1, log.byType[events.TypePlayerEliminated])
	assert.Equal(t, 1, log.byType[events.TypeUnitDestroyed])

	players := e.Players()
	assert.False(t, players[1].Alive)
	assert.Zero(t, players[1].UnitCount)
}

func TestEngine_StateFor(t *testing.T) {
	terrain := map[core.MapPos]core.Terrain{{X: 5, Y: 4}: core.TerrainTrees}
	gs := testutil.CreateTestStateWithTerrain(20, 10, terrain)
	ot := testutil.TestRegistry()
	testutil.PlaceUnit(gs, ot, 0, "soldier", 0, core.MapPos{X: 0, Y: 4})
	testutil.PlaceUnit(gs, ot, 1, "soldier", 1, core.MapPos{X: 4, Y: 4})  // distance 4, open ground
	testutil.PlaceUnit(gs, ot, 2, "soldier", 1, core.MapPos{X: 5, Y: 4})  // distance 5, in trees
	testutil.PlaceUnit(gs, ot, 3, "soldier", 1, core.MapPos{X: 12, Y: 4}) // distance 12

	tests := []struct {
		name    string
		fog     bool
		wantIDs []core.UnitID
	}{
		{"fog of war", true, []core.UnitID{0, 1}},
		{"everything visible", false, []core.UnitID{0, 1, 2, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, _ := newTestEngine(t, gs.Clone(), ot, 2, 0, tt.fog)
			view := e.StateFor(0)

			var ids []core.UnitID
			for _, u := range view.UnitsSorted() {
				ids = append(ids, u.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
			require.NotNil(t, view.PlayerID)
			assert.Equal(t, core.PlayerID(0), *view.PlayerID)
		})
	}
}

func TestEngine_StateForIsACopy(t *testing.T) {
	gs, ot := testutil.CreateSimpleTestSetup()
	e, _ := newTestEngine(t, gs, ot, 2, 0, false)

	view := e.StateFor(0)
	mine, _ := view.Unit(0)
	mine.Pos = core.MapPos{X: 9, Y: 9}
	*mine.ReactiveAttackPoints = 0
	view.RemoveUnit(1)

	canonical, _ := e.State().Unit(0)
	assert.Equal(t, core.MapPos{X: 0, Y: 0}, canonical.Pos)
	assert.Equal(t, 1, *canonical.ReactiveAttackPoints)
	_, ok := e.State().Unit(1)
	assert.True(t, ok)
}

func TestEngineInitializer(t *testing.T) {
	mapCfg := mapgen.DefaultMapConfig(12, 10, 2)
	mapCfg.Seed = 7
	bus := events.NewEventBus(testutil.NopLogger())
	log := recordEvents(bus, events.TypeMatchStarted, events.TypeTurnStarted)

	e, err := game.NewEngineInitializer(game.GameConfig{
		MatchID:   "init-match",
		Map:       mapCfg,
		MaxTurns:  30,
		FogOfWar:  true,
		Rng:       testutil.NewTestRNG(1),
		Logger:    testutil.NopLogger(),
		EventBus:  bus,
		LogEvents: true,
	}).Initialize(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "init-match", e.MatchID())
	assert.Len(t, e.State().Units, 2*mapCfg.UnitsPerPlayer)
	assert.Equal(t, 1, log.byType[events.TypeMatchStarted])
	assert.Equal(t, 1, log.byType[events.TypeTurnStarted])
	assert.Same(t, bus, e.EventBus())
}

func TestEngineInitializer_Errors(t *testing.T) {
	t.Run("cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := game.NewEngineInitializer(game.GameConfig{Map: mapgen.DefaultMapConfig(8, 8, 2)}).Initialize(ctx)
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("bad map", func(t *testing.T) {
		_, err := game.NewEngineInitializer(game.GameConfig{Map: mapgen.DefaultMapConfig(8, 8, 0)}).Initialize(context.Background())
		assert.Error(t, err)
	})
}

func TestEngine_Board(t *testing.T) {
	gs := testutil.CreateTestStateWithTerrain(3, 2, map[core.MapPos]core.Terrain{{X: 2, Y: 1}: core.TerrainWater})
	ot := testutil.TestRegistry()
	testutil.PlaceUnit(gs, ot, 0, "soldier", 0, core.MapPos{X: 0, Y: 0})
	testutil.PlaceUnit(gs, ot, 1, "tank", 1, core.MapPos{X: 1, Y: 1})
	e, _ := newTestEngine(t, gs, ot, 2, 0, false)

	board := e.Board(-1, false)
	lines := strings.Split(board, "\n")
	require.GreaterOrEqual(t, len(lines), 3)
	assert.Equal(t, " 0    As4 .   .   ", lines[1])
	assert.Equal(t, " 1  .   Bt1 ~   ", lines[2])
	assert.NotContains(t, board, game.ColorReset)

	assert.Contains(t, e.Board(-1, true), game.ColorReset)
}
