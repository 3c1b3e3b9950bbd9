// Package processor executes validated commands against a unit store:
// movement, attacks and reaction fire.
package processor

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/HexTactics/internal/game/core"
	"github.com/mitchelldurbincs/HexTactics/internal/game/events"
	"github.com/mitchelldurbincs/HexTactics/internal/game/registry"
	"github.com/mitchelldurbincs/HexTactics/internal/game/rules"
)

// UnitStore is the game state the processor mutates.
// Declared here to avoid circular imports with package game.
type UnitStore interface {
	rules.State
	RemoveUnit(id core.UnitID)
}

// TurnInfo identifies who issues a command and when
type TurnInfo struct {
	MatchID  string
	Turn     int
	PlayerID core.PlayerID
}

// CommandProcessor applies attack and move commands. EndTurn is handled by
// the engine because it changes turn order, not units.
type CommandProcessor struct {
	types     *registry.ObjectTypes
	validator *rules.CommandValidator
	rng       *rand.Rand
	logger    zerolog.Logger
	publisher events.Publisher
}

// NewCommandProcessor creates a processor. rng drives every combat roll, so
// a fixed seed replays a match exactly.
func NewCommandProcessor(types *registry.ObjectTypes, rng *rand.Rand, logger zerolog.Logger) *CommandProcessor {
	return &CommandProcessor{
		types:     types,
		validator: rules.NewCommandValidator(types),
		rng:       rng,
		logger:    logger.With().Str("component", "CommandProcessor").Logger(),
	}
}

// SetEventPublisher sets where unit events are published. nil disables events.
func (cp *CommandProcessor) SetEventPublisher(p events.Publisher) {
	cp.publisher = p
}

func (cp *CommandProcessor) publish(e events.Event) {
	if cp.publisher != nil {
		cp.publisher.Publish(e)
	}
}

// Process validates and applies one attack or move command
func (cp *CommandProcessor) Process(ctx context.Context, state UnitStore, turn TurnInfo, cmd core.Command) error {
	select {
	case <-ctx.Done():
		cp.logger.Warn().Err(ctx.Err()).Msg("Command processing interrupted by context cancellation")
		return ctx.Err()
	default:
	}

	cp.logger.Debug().
		Int("player_id", int(turn.PlayerID)).
		Str("command_type", core.GetCommandType(cmd)).
		Msg("Applying command")

	var err error
	switch c := cmd.(type) {
	case core.AttackUnit:
		err = cp.attack(state, turn, c)
	case core.Move:
		err = cp.move(state, turn, c)
	default:
		err = fmt.Errorf("%w: %s", core.ErrUnknownCommand, core.GetCommandType(cmd))
	}
	if err != nil {
		return core.WrapCommandError(cmd, err)
	}
	return nil
}

func (cp *CommandProcessor) attack(state UnitStore, turn TurnInfo, cmd core.AttackUnit) error {
	if err := cp.validator.ValidateAttack(state, turn.PlayerID, cmd); err != nil {
		return err
	}
	attacker, _ := state.Unit(cmd.AttackerID)
	defender, _ := state.Unit(cmd.DefenderID)

	attacker.AttackPoints--
	cp.fire(state, turn, attacker, defender, false)
	return nil
}

func (cp *CommandProcessor) move(state UnitStore, turn TurnInfo, cmd core.Move) error {
	cost, err := cp.validator.ValidateMove(state, turn.PlayerID, cmd)
	if err != nil {
		return err
	}
	unit, _ := state.Unit(cmd.UnitID)
	from := unit.Pos
	to := cmd.Path.Destination()

	unit.Pos = to
	unit.MovePoints -= cost
	if unit.PassengerID != nil {
		if passenger, ok := state.Unit(*unit.PassengerID); ok {
			passenger.Pos = to
		}
	}

	cp.logger.Debug().
		Int("unit_id", int(unit.ID)).
		Stringer("from", from).
		Stringer("to", to).
		Int("cost", cost).
		Msg("Unit moved")
	cp.publish(events.NewUnitMovedEvent(turn.MatchID, turn.Turn, unit, from, cost))

	cp.reactionFire(state, turn, unit)
	return nil
}

// reactionFire lets every enemy in Normal mode with reactive points left
// shoot once at a unit that just finished moving into its range
func (cp *CommandProcessor) reactionFire(state UnitStore, turn TurnInfo, target *core.Unit) {
	for _, enemy := range state.UnitsSorted() {
		if enemy.PlayerID == target.PlayerID || state.IsTransported(enemy.ID) {
			continue
		}
		if !enemy.HasReactiveAttack() || !rules.InAttackRange(cp.types, enemy, target.Pos) {
			continue
		}
		*enemy.ReactiveAttackPoints--
		if destroyed := cp.fire(state, turn, enemy, target, true); destroyed {
			return
		}
	}
}
