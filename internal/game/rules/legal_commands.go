package rules

import (
	"fmt"

	"github.com/mitchelldurbincs/HexTactics/internal/game/core"
)

// State is the read side of the game state the rules check against.
// Declared here to avoid circular imports with package game.
type State interface {
	Unit(id core.UnitID) (*core.Unit, bool)
	UnitsSorted() []*core.Unit
	IsTileOccupied(pos core.MapPos) bool
	IsTransported(id core.UnitID) bool
	IsInboard(pos core.MapPos) bool
	Terrain(pos core.MapPos) core.Terrain
}

// Types is the unit type data the rules need
type Types interface {
	MaxAttackDist(unit *core.Unit) int
	MinAttackDist(unit *core.Unit) int
	MoveCost(unit *core.Unit, terrain core.Terrain) (int, bool)
}

// CommandValidator checks commands against the current state
type CommandValidator struct {
	types Types
}

// NewCommandValidator creates a validator using the given type data
func NewCommandValidator(types Types) *CommandValidator {
	return &CommandValidator{types: types}
}

// Validate returns nil if player may issue cmd in state. EndTurn is always
// valid here; turn order is the engine's concern.
func (cv *CommandValidator) Validate(state State, player core.PlayerID, cmd core.Command) error {
	switch c := cmd.(type) {
	case core.AttackUnit:
		return cv.ValidateAttack(state, player, c)
	case core.Move:
		_, err := cv.ValidateMove(state, player, c)
		return err
	case core.EndTurn:
		return nil
	default:
		return fmt.Errorf("%w: %T", core.ErrUnknownCommand, cmd)
	}
}

// ownUnit looks up a unit that player may give orders to
func ownUnit(state State, player core.PlayerID, id core.UnitID) (*core.Unit, error) {
	u, ok := state.Unit(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", core.ErrUnknownUnit, id)
	}
	if u.PlayerID != player {
		return nil, core.ErrNotYourUnit
	}
	if state.IsTransported(id) {
		return nil, core.ErrTransported
	}
	return u, nil
}

// ValidateAttack checks ownership, attack points and weapon range
func (cv *CommandValidator) ValidateAttack(state State, player core.PlayerID, cmd core.AttackUnit) error {
	attacker, err := ownUnit(state, player, cmd.AttackerID)
	if err != nil {
		return err
	}
	defender, ok := state.Unit(cmd.DefenderID)
	if !ok {
		return fmt.Errorf("%w: %s", core.ErrUnknownUnit, cmd.DefenderID)
	}
	if defender.PlayerID == player {
		return core.ErrFriendlyFire
	}
	if state.IsTransported(defender.ID) {
		return core.ErrTransported
	}
	if attacker.AttackPoints <= 0 {
		return core.ErrNoAttackPoints
	}
	if !InAttackRange(cv.types, attacker, defender.Pos) {
		return core.ErrOutOfRange
	}
	return nil
}

// ValidateMove walks the path and returns the cost the move will consume.
// Node costs in the path must match the unit's actual costs.
func (cv *CommandValidator) ValidateMove(state State, player core.PlayerID, cmd core.Move) (int, error) {
	unit, err := ownUnit(state, player, cmd.UnitID)
	if err != nil {
		return 0, err
	}
	if cmd.Path.Len() < 2 {
		return 0, fmt.Errorf("%w: path has no steps", core.ErrBadPath)
	}
	if cmd.Path.Origin() != unit.Pos {
		return 0, fmt.Errorf("%w: path starts at %s, unit is at %s", core.ErrBadPath, cmd.Path.Origin(), unit.Pos)
	}

	total := 0
	for i := 1; i < cmd.Path.Len(); i++ {
		prev, node := cmd.Path.Nodes[i-1], cmd.Path.Nodes[i]
		if !state.IsInboard(node.Pos) {
			return 0, fmt.Errorf("%w: %s", core.ErrInvalidPosition, node.Pos)
		}
		if !core.IsAdjacent(prev.Pos, node.Pos) {
			return 0, fmt.Errorf("%w: %s is not next to %s", core.ErrBadPath, node.Pos, prev.Pos)
		}
		if state.IsTileOccupied(node.Pos) {
			return 0, fmt.Errorf("%w: %s", core.ErrTileOccupied, node.Pos)
		}
		step, ok := cv.types.MoveCost(unit, state.Terrain(node.Pos))
		if !ok {
			return 0, fmt.Errorf("%w: %s", core.ErrImpassable, node.Pos)
		}
		total += step
		if node.Cost != total {
			return 0, fmt.Errorf("%w: cost at %s is %d, expected %d", core.ErrBadPath, node.Pos, node.Cost, total)
		}
	}
	if total > unit.MovePoints {
		return 0, fmt.Errorf("%w: need %d, have %d", core.ErrInsufficientMovePoints, total, unit.MovePoints)
	}
	return total, nil
}

// InAttackRange reports whether target is within attacker's weapon distance band
func InAttackRange(types Types, attacker *core.Unit, target core.MapPos) bool {
	dist := core.Distance(attacker.Pos, target)
	return dist <= types.MaxAttackDist(attacker) && dist >= types.MinAttackDist(attacker)
}

// LegalAttacks lists every attack player could issue right now, ordered by
// attacker id then defender id
func (cv *CommandValidator) LegalAttacks(state State, player core.PlayerID) []core.AttackUnit {
	var attacks []core.AttackUnit
	units := state.UnitsSorted()
	for _, attacker := range units {
		if attacker.PlayerID != player {
			continue
		}
		for _, defender := range units {
			cmd := core.AttackUnit{AttackerID: attacker.ID, DefenderID: defender.ID}
			if cv.ValidateAttack(state, player, cmd) == nil {
				attacks = append(attacks, cmd)
			}
		}
	}
	return attacks
}
