// Package match runs a complete match between AI players on top of the game
// engine: it keeps every AI's view in sync, feeds their commands to the
// engine and tracks the match phase.
package match

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/HexTactics/internal/game"
	"github.com/mitchelldurbincs/HexTactics/internal/game/ai"
	"github.com/mitchelldurbincs/HexTactics/internal/game/core"
	"github.com/mitchelldurbincs/HexTactics/internal/game/events"
)

// DefaultMaxCommandsPerTurn caps a player's commands in one turn when the
// config leaves it unset
const DefaultMaxCommandsPerTurn = 200

var ErrNotRunning = errors.New("match is not running")

// Config describes a match to run
type Config struct {
	Game game.GameConfig
	// MaxCommandsPerTurn forces EndTurn once a player issued this many
	// commands in one turn. Zero uses DefaultMaxCommandsPerTurn.
	MaxCommandsPerTurn int
}

// Result summarizes a finished or aborted match
type Result struct {
	MatchID  string
	Winner   core.PlayerID
	Reason   string
	Turns    int
	Duration time.Duration
	Commands int // commands chosen by the AIs
	Rejected int // commands the engine refused
	Forced   int // EndTurn commands issued on a player's behalf
	Players  []game.Player
}

// Match owns the engine and one AI per player
type Match struct {
	id                 string
	engine             *game.Engine
	ais                []*ai.AI
	phase              Phase
	history            []Transition
	bus                *events.EventBus
	logger             zerolog.Logger
	maxCommandsPerTurn int
	startTime          time.Time
	endTime            time.Time

	commands int
	rejected int
	forced   int
}

// New sets up a match: it generates the map, deploys units and creates the
// AIs. A missing match id is replaced by a random UUID.
func New(ctx context.Context, cfg Config) (*Match, error) {
	if cfg.Game.MatchID == "" {
		cfg.Game.MatchID = uuid.NewString()
	}
	if cfg.Game.EventBus == nil {
		cfg.Game.EventBus = events.NewEventBus(cfg.Game.Logger)
	}
	if cfg.MaxCommandsPerTurn <= 0 {
		cfg.MaxCommandsPerTurn = DefaultMaxCommandsPerTurn
	}

	m := &Match{
		id:                 cfg.Game.MatchID,
		phase:              PhaseSetup,
		bus:                cfg.Game.EventBus,
		logger:             cfg.Game.Logger.With().Str("component", "Match").Str("match_id", cfg.Game.MatchID).Logger(),
		maxCommandsPerTurn: cfg.MaxCommandsPerTurn,
	}

	engine, err := game.NewEngineInitializer(cfg.Game).Initialize(ctx)
	if err != nil {
		m.transition(PhaseError, err.Error())
		return nil, core.WrapMatchStateError(0, PhaseSetup.String(), err)
	}
	m.engine = engine

	for p := range engine.Players() {
		a := ai.New(core.PlayerID(p), engine.MapSize())
		a.SetLogger(cfg.Game.Logger)
		m.ais = append(m.ais, a)
	}

	m.logger.Info().
		Int("players", len(m.ais)).
		Int("units", len(engine.State().Units)).
		Msg("Match set up")
	return m, nil
}

func (m *Match) ID() string                     { return m.id }
func (m *Match) Phase() Phase                   { return m.phase }
func (m *Match) Engine() *game.Engine           { return m.engine }
func (m *Match) EventBus() *events.EventBus     { return m.bus }
func (m *Match) AI(player core.PlayerID) *ai.AI { return m.ais[player] }

// History returns a copy of the phase transitions so far
func (m *Match) History() []Transition {
	history := make([]Transition, len(m.history))
	copy(history, m.history)
	return history
}

// Start moves the match from setup to running
func (m *Match) Start() error {
	if err := m.transition(PhaseRunning, "All players deployed"); err != nil {
		return err
	}
	m.startTime = time.Now()
	return nil
}

// Run plays the match to the end. It starts the match if needed and stops
// early, in the Error phase, when ctx is cancelled.
func (m *Match) Run(ctx context.Context) (Result, error) {
	if m.phase == PhaseSetup {
		if err := m.Start(); err != nil {
			return m.Result(), err
		}
	}

	for !m.engine.IsMatchOver() {
		if err := m.Step(ctx); err != nil {
			m.transition(PhaseError, err.Error())
			return m.Result(), core.WrapMatchStateError(m.engine.Turn(), m.phase.String(), err)
		}
	}

	m.finish()
	return m.Result(), nil
}

// Step syncs the current player's AI with what that player can see, asks it
// for one command and applies it. A rejected command, or one past the
// per-turn cap, ends the player's turn instead.
func (m *Match) Step(ctx context.Context) error {
	if !m.phase.CanReceiveCommands() {
		return fmt.Errorf("%w: phase %s", ErrNotRunning, m.phase)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if m.engine.IsMatchOver() {
		m.finish()
		return nil
	}

	player := m.engine.CurrentPlayer()
	brain := m.ais[player]
	if err := brain.SetState(m.engine.StateFor(player)); err != nil {
		return err
	}

	var cmd core.Command
	if m.engine.CommandsThisTurn() >= m.maxCommandsPerTurn {
		m.logger.Warn().
			Int("player_id", int(player)).
			Int("turn", m.engine.Turn()).
			Int("limit", m.maxCommandsPerTurn).
			Msg("Command limit reached, ending turn")
		cmd = core.EndTurn{}
		m.forced++
	} else {
		cmd = brain.GetCommand(m.engine.Types())
		m.commands++
	}

	err := m.engine.Apply(ctx, player, cmd)
	if err == nil {
		return nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}

	m.rejected++
	m.logger.Warn().
		Err(err).
		Int("player_id", int(player)).
		Int("turn", m.engine.Turn()).
		Msg("Command rejected, ending turn")

	m.forced++
	if err := m.engine.Apply(ctx, player, core.EndTurn{}); err != nil {
		return fmt.Errorf("forced end turn for %s: %w", player, err)
	}
	return nil
}

// finish moves a running match whose win condition fired to Ended
func (m *Match) finish() {
	if m.phase != PhaseRunning || !m.engine.IsMatchOver() {
		return
	}
	m.endTime = time.Now()
	result := m.engine.Result()
	if err := m.transition(PhaseEnded, result.Reason); err != nil {
		return
	}
	m.bus.Publish(events.NewMatchEndedEvent(m.id, result.Winner, m.engine.Turn(), m.duration(), result.Reason))
}

func (m *Match) transition(target Phase, reason string) error {
	if !m.phase.CanTransitionTo(target) {
		return fmt.Errorf("invalid transition from %s to %s", m.phase, target)
	}

	previous := m.phase
	m.phase = target
	m.history = append(m.history, Transition{
		From:      previous,
		To:        target,
		Timestamp: time.Now(),
		Reason:    reason,
	})

	m.bus.Publish(events.NewPhaseChangedEvent(m.id, previous.String(), target.String(), reason))
	m.logger.Info().
		Str("from_phase", previous.String()).
		Str("to_phase", target.String()).
		Str("reason", reason).
		Msg("State transition completed")
	return nil
}

func (m *Match) duration() time.Duration {
	if m.startTime.IsZero() {
		return 0
	}
	if m.endTime.IsZero() {
		return time.Since(m.startTime)
	}
	return m.endTime.Sub(m.startTime)
}

// Result reports the match outcome so far
func (m *Match) Result() Result {
	outcome := m.engine.Result()
	return Result{
		MatchID:  m.id,
		Winner:   outcome.Winner,
		Reason:   outcome.Reason,
		Turns:    m.engine.Turn(),
		Duration: m.duration(),
		Commands: m.commands,
		Rejected: m.rejected,
		Forced:   m.forced,
		Players:  m.engine.Players(),
	}
}
