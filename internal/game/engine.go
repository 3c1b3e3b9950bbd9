package game

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/metric"

	"github.com/mitchelldurbincs/HexTactics/internal/game/core"
	"github.com/mitchelldurbincs/HexTactics/internal/game/events"
	"github.com/mitchelldurbincs/HexTactics/internal/game/processor"
	"github.com/mitchelldurbincs/HexTactics/internal/game/registry"
	"github.com/mitchelldurbincs/HexTactics/internal/game/rules"
)

// Engine owns the canonical game state and applies player commands to it one
// at a time. It is not safe for concurrent use.
type Engine struct {
	gs       *GameState
	types    *registry.ObjectTypes
	players  []Player
	current  core.PlayerID
	turn     int
	matchID  string
	fogOfWar bool
	logger   zerolog.Logger

	commandProcessor *processor.CommandProcessor
	winCondition     *rules.WinConditionChecker
	eventBus         *events.EventBus
	result           rules.MatchResult
	commandsThisTurn int
	commands         metric.Int64Counter
}

// EngineOptions are the pieces NewEngine wires together
type EngineOptions struct {
	MatchID  string
	Players  int
	MaxTurns int
	FogOfWar bool
	Types    *registry.ObjectTypes
	Rng      *rand.Rand
	Logger   zerolog.Logger
	EventBus *events.EventBus // nil creates a private bus
}

// NewEngine takes ownership of gs and starts turn 1 with player 0, or the
// first player that owns a unit
func NewEngine(opts EngineOptions, gs *GameState) (*Engine, error) {
	if opts.Players < 1 {
		return nil, fmt.Errorf("need at least one player, got %d", opts.Players)
	}
	if opts.Types == nil {
		return nil, errors.New("engine needs a unit type registry")
	}
	for _, u := range gs.UnitsSorted() {
		if u.PlayerID < 0 || int(u.PlayerID) >= opts.Players {
			return nil, fmt.Errorf("%s belongs to %s: %w", u.ID, u.PlayerID, core.ErrInvalidPlayer)
		}
		if _, ok := opts.Types.UnitType(u.TypeID); !ok {
			return nil, fmt.Errorf("%s has unknown type id %d", u.ID, u.TypeID)
		}
	}

	logger := opts.Logger.With().Str("component", "GameEngine").Str("match_id", opts.MatchID).Logger()
	bus := opts.EventBus
	if bus == nil {
		bus = events.NewEventBus(logger)
	}
	rng := opts.Rng
	if rng == nil {
		logger.Debug().Msg("No RNG provided, creating new seeded RNG")
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	e := &Engine{
		gs:               gs,
		types:            opts.Types,
		players:          make([]Player, opts.Players),
		turn:             1,
		matchID:          opts.MatchID,
		fogOfWar:         opts.FogOfWar,
		logger:           logger,
		commandProcessor: processor.NewCommandProcessor(opts.Types, rng, logger),
		winCondition:     rules.NewWinConditionChecker(logger, opts.Players, opts.MaxTurns),
		eventBus:         bus,
		result:           rules.MatchResult{Winner: rules.NoWinner},
		commands:         newEngineCommandCounter(),
	}
	e.commandProcessor.SetEventPublisher(bus)

	for i := range e.players {
		e.players[i] = Player{ID: core.PlayerID(i), Alive: true}
	}
	e.updatePlayerStats(false)
	e.checkMatchOver()
	if !e.players[e.current].Alive {
		if next, ok := e.nextAlivePlayer(); ok {
			e.current = next
		}
	}
	return e, nil
}

// Apply validates and executes cmd on behalf of player. A rejected command
// leaves the state untouched and is reported as an error.
func (e *Engine) Apply(ctx context.Context, player core.PlayerID, cmd core.Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if e.result.Over {
		return core.WrapMatchStateError(e.turn, "apply", core.ErrMatchOver)
	}
	if player != e.current {
		err := fmt.Errorf("%s tried to act during %s's turn: %w", player, e.current, core.ErrNotYourTurn)
		e.reject(player, cmd, err)
		return err
	}

	switch cmd.(type) {
	case core.EndTurn:
		e.accept(player, cmd)
		e.endTurn()
		return nil
	default:
		turn := processor.TurnInfo{MatchID: e.matchID, Turn: e.turn, PlayerID: player}
		if err := e.commandProcessor.Process(ctx, e.gs, turn, cmd); err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			e.reject(player, cmd, err)
			return err
		}
	}

	e.accept(player, cmd)
	e.commandsThisTurn++
	e.updatePlayerStats(true)
	e.checkMatchOver()

	if !e.result.Over && !e.players[e.current].Alive {
		e.logger.Info().
			Int("player_id", int(e.current)).
			Msg("Current player lost their last unit, passing the turn")
		e.endTurn()
	}
	return nil
}

func (e *Engine) accept(player core.PlayerID, cmd core.Command) {
	e.countCommand(cmd, "applied")
	e.eventBus.Publish(events.NewCommandAppliedEvent(e.matchID, e.turn, player, cmd))
}

func (e *Engine) reject(player core.PlayerID, cmd core.Command, err error) {
	e.countCommand(cmd, "rejected")
	e.logger.Debug().
		Err(err).
		Int("player_id", int(player)).
		Str("command_type", core.GetCommandType(cmd)).
		Msg("Command rejected")
	e.eventBus.Publish(events.NewCommandRejectedEvent(e.matchID, e.turn, player, cmd, err))
}

// checkMatchOver records the match result once the win condition fires
func (e *Engine) checkMatchOver() {
	if e.result.Over {
		return
	}
	players := make([]rules.Player, len(e.players))
	for i, p := range e.players {
		players[i] = p
	}
	result := e.winCondition.Check(players, e.turn)
	if !result.Over {
		return
	}
	e.result = result
	e.logger.Info().
		Int("winner", int(result.Winner)).
		Int("turn", e.turn).
		Str("reason", result.Reason).
		Msg("Match over")
}

// Public accessors

// State returns the canonical state. Callers must not mutate it.
func (e *Engine) State() *GameState            { return e.gs }
func (e *Engine) Types() *registry.ObjectTypes { return e.types }
func (e *Engine) MatchID() string              { return e.matchID }
func (e *Engine) Turn() int                    { return e.turn }
func (e *Engine) CurrentPlayer() core.PlayerID { return e.current }
func (e *Engine) CommandsThisTurn() int        { return e.commandsThisTurn }
func (e *Engine) IsMatchOver() bool            { return e.result.Over }
func (e *Engine) Result() rules.MatchResult    { return e.result }
func (e *Engine) EventBus() *events.EventBus   { return e.eventBus }
func (e *Engine) MapSize() core.Size2          { return e.gs.Map.Size() }

// Players returns a copy of the player list
func (e *Engine) Players() []Player {
	players := make([]Player, len(e.players))
	copy(players, e.players)
	return players
}

// Winner returns the winning player, or rules.NoWinner while the match runs
// or when it ended in a draw
func (e *Engine) Winner() core.PlayerID {
	return e.result.Winner
}
