package game

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/HexTactics/internal/game/core"
	"github.com/mitchelldurbincs/HexTactics/internal/game/events"
	"github.com/mitchelldurbincs/HexTactics/internal/game/events/subscribers"
	"github.com/mitchelldurbincs/HexTactics/internal/game/mapgen"
	"github.com/mitchelldurbincs/HexTactics/internal/game/registry"
)

// GameConfig describes a match to set up
type GameConfig struct {
	MatchID  string
	Map      mapgen.MapConfig
	MaxTurns int
	FogOfWar bool
	Types    *registry.ObjectTypes // nil uses the built-in registry
	// Rng drives combat rolls. nil seeds one from the clock.
	Rng      *rand.Rand
	Logger   zerolog.Logger
	EventBus *events.EventBus // nil creates one
	// LogEvents attaches a logging subscriber to the event bus
	LogEvents bool
	DevMode   bool
}

// EngineInitializer handles the complex initialization of a game engine
type EngineInitializer struct {
	config GameConfig
	logger zerolog.Logger
}

// NewEngineInitializer creates a new engine initializer
func NewEngineInitializer(cfg GameConfig) *EngineInitializer {
	logger := cfg.Logger.With().Str("component", "GameEngine").Logger()
	return &EngineInitializer{
		config: cfg,
		logger: logger,
	}
}

// Initialize generates the map, deploys every player's units and returns a
// ready engine
func (ei *EngineInitializer) Initialize(ctx context.Context) (*Engine, error) {
	select {
	case <-ctx.Done():
		ei.logger.Error().Err(ctx.Err()).Msg("Engine creation cancelled or timed out during initial phase")
		return nil, ctx.Err()
	default:
	}

	ei.setupDefaults()

	if err := ei.config.Map.Validate(); err != nil {
		return nil, fmt.Errorf("invalid map config: %w", err)
	}

	generator := mapgen.NewGenerator(ei.config.Map, ei.config.Types)
	board := generator.GenerateMap()
	units, err := generator.DeployUnits(board)
	if err != nil {
		return nil, fmt.Errorf("unit deployment failed: %w", err)
	}

	gs := NewGameStateWithMap(board, nil)
	for _, u := range units {
		if err := gs.AddUnit(u); err != nil {
			return nil, fmt.Errorf("unit deployment failed: %w", err)
		}
	}

	ei.setupEventHandling()

	engine, err := NewEngine(EngineOptions{
		MatchID:  ei.config.MatchID,
		Players:  ei.config.Map.PlayerCount,
		MaxTurns: ei.config.MaxTurns,
		FogOfWar: ei.config.FogOfWar,
		Types:    ei.config.Types,
		Rng:      ei.config.Rng,
		Logger:   ei.config.Logger,
		EventBus: ei.config.EventBus,
	}, gs)
	if err != nil {
		return nil, err
	}

	engine.eventBus.Publish(events.NewMatchStartedEvent(
		ei.config.MatchID,
		ei.config.Map.PlayerCount,
		len(units),
		board.W,
		board.H,
		generator.Seed(),
	))
	engine.eventBus.Publish(events.NewTurnStartedEvent(ei.config.MatchID, engine.Turn(), engine.CurrentPlayer()))

	ei.logger.Info().
		Int("width", board.W).
		Int("height", board.H).
		Int("players", ei.config.Map.PlayerCount).
		Int("units", len(units)).
		Int64("seed", generator.Seed()).
		Msg("Engine created successfully")

	return engine, nil
}

// setupDefaults sets up default values for missing configuration
func (ei *EngineInitializer) setupDefaults() {
	if ei.config.Rng == nil {
		ei.logger.Debug().Msg("No RNG provided, creating new seeded RNG")
		ei.config.Rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if ei.config.Types == nil {
		ei.config.Types = registry.Default()
	}
	if ei.config.MatchID == "" {
		ei.config.MatchID = fmt.Sprintf("match_%d", time.Now().UnixNano())
	}
	if ei.config.EventBus == nil {
		ei.config.EventBus = events.NewEventBus(ei.logger)
	}
}

// setupEventHandling attaches the logging subscriber when requested
func (ei *EngineInitializer) setupEventHandling() {
	if !ei.config.LogEvents {
		return
	}
	logSub := subscribers.NewLoggerSubscriber("match-logger", ei.config.Logger, zerolog.DebugLevel)
	logSub.SetDevMode(ei.config.DevMode)
	ei.config.EventBus.Subscribe(logSub)
}

// NewEngineWithUnits builds an engine on an existing map, for scenarios and
// tests that place units by hand
func NewEngineWithUnits(opts EngineOptions, board *core.Map, units []*core.Unit) (*Engine, error) {
	if board == nil {
		return nil, errors.New("engine needs a map")
	}
	gs := NewGameStateWithMap(board, nil)
	for _, u := range units {
		if err := gs.AddUnit(u); err != nil {
			return nil, err
		}
	}
	return NewEngine(opts, gs)
}
