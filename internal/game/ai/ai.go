// Package ai implements the scripted opponent. An AI keeps a private copy of
// the game state as seen by its player and returns one command per call.
package ai

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/mitchelldurbincs/HexTactics/internal/game"
	"github.com/mitchelldurbincs/HexTactics/internal/game/core"
	"github.com/mitchelldurbincs/HexTactics/internal/game/pathfinder"
)

// TypeRegistry is the unit type data the AI consults. registry.ObjectTypes
// satisfies it.
type TypeRegistry interface {
	pathfinder.MoveCoster
	MaxAttackDist(unit *core.Unit) int
}

type AI struct {
	playerID   core.PlayerID
	state      *game.GameState
	pathfinder *pathfinder.Pathfinder
	logger     zerolog.Logger
	commands   metric.Int64Counter
}

// New creates an AI for playerID with an empty state and a pathfinder sized
// to mapSize
func New(playerID core.PlayerID, mapSize core.Size2) *AI {
	return &AI{
		playerID:   playerID,
		state:      game.NewGameState(mapSize, &playerID),
		pathfinder: pathfinder.New(mapSize),
		logger:     log.With().Str("component", "AI").Int("player_id", int(playerID)).Logger(),
		commands:   newCommandCounter(),
	}
}

// SetLogger replaces the AI's logger
func (ai *AI) SetLogger(logger zerolog.Logger) {
	ai.logger = logger.With().Str("component", "AI").Int("player_id", int(ai.playerID)).Logger()
}

func (ai *AI) PlayerID() core.PlayerID { return ai.playerID }

// State returns the AI's private state. Callers that mutate it must not do so
// while GetCommand runs.
func (ai *AI) State() *game.GameState { return ai.state }

// SetState replaces the private state. The AI takes ownership of gs.
func (ai *AI) SetState(gs *game.GameState) error {
	if gs.Map.Size() != ai.pathfinder.Size() {
		return fmt.Errorf("state map size %v does not match AI map size %v", gs.Map.Size(), ai.pathfinder.Size())
	}
	ai.state = gs
	return nil
}

// GetCommand decides the next command for the AI's player. An attack is
// preferred over a move, and EndTurn is returned when no unit can do either.
func (ai *AI) GetCommand(types TypeRegistry) core.Command {
	cmd := ai.decide(types)
	ai.commands.Add(context.Background(), 1,
		metric.WithAttributes(attribute.String("kind", cmd.Kind().String())))
	ai.logger.Debug().Str("command", fmt.Sprint(cmd)).Msg("Command chosen")
	return cmd
}

func (ai *AI) decide(types TypeRegistry) core.Command {
	if cmd, ok := ai.findAttack(types); ok {
		return cmd
	}
	if cmd, ok := ai.findApproach(types); ok {
		return cmd
	}
	return core.EndTurn{}
}

// ownUnits lists the units that can act on their own. Passengers act through
// their transporter.
func (ai *AI) ownUnits() []*core.Unit {
	var units []*core.Unit
	for _, u := range ai.state.PlayerUnits(ai.playerID) {
		if !ai.state.IsTransported(u.ID) {
			units = append(units, u)
		}
	}
	return units
}

func (ai *AI) enemies() []*core.Unit {
	var units []*core.Unit
	for _, u := range ai.state.EnemyUnits(ai.playerID) {
		if !ai.state.IsTransported(u.ID) {
			units = append(units, u)
		}
	}
	return units
}

// findAttack returns the first attacker/target pair in id order where the
// target is within the attacker's maximum weapon distance
func (ai *AI) findAttack(types TypeRegistry) (core.Command, bool) {
	enemies := ai.enemies()
	for _, unit := range ai.ownUnits() {
		if unit.AttackPoints <= 0 {
			continue
		}
		maxDist := types.MaxAttackDist(unit)
		for _, target := range enemies {
			if core.Distance(unit.Pos, target.Pos) > maxDist {
				continue
			}
			return core.AttackUnit{AttackerID: unit.ID, DefenderID: target.ID}, true
		}
	}
	return nil, false
}

func (ai *AI) findApproach(types TypeRegistry) (core.Command, bool) {
	for _, unit := range ai.ownUnits() {
		if ai.isCloseToEnemies(types, unit) {
			continue
		}
		if unit.MovePoints <= 0 {
			continue
		}
		ai.pathfinder.FillMap(types, ai.state, unit)
		destination, ok := ai.bestPos()
		if !ok {
			continue
		}
		path, ok := ai.pathfinder.GetPath(destination)
		if !ok {
			continue
		}
		return core.Move{UnitID: unit.ID, Path: path.Truncate(unit.MovePoints)}, true
	}
	return nil, false
}

func (ai *AI) isCloseToEnemies(types TypeRegistry, unit *core.Unit) bool {
	maxDist := types.MaxAttackDist(unit)
	for _, target := range ai.enemies() {
		if core.Distance(unit.Pos, target.Pos) <= maxDist {
			return true
		}
	}
	return false
}

// bestPos picks the cheapest free tile next to any enemy from the current
// cost field. On equal cost the first candidate found wins.
func (ai *AI) bestPos() (core.MapPos, bool) {
	var (
		best     core.MapPos
		bestCost int
		found    bool
	)
	for _, enemy := range ai.enemies() {
		for _, dir := range core.AllDirs {
			destination := core.GetNeighbourPos(enemy.Pos, dir)
			if !ai.state.Map.IsInboard(destination) {
				continue
			}
			if ai.state.IsTileOccupied(destination) {
				continue
			}
			cost, ok := ai.pathfinder.Cost(destination)
			if !ok {
				continue
			}
			if !found || bestCost > cost {
				best, bestCost, found = destination, cost, true
			}
		}
	}
	return best, found
}
