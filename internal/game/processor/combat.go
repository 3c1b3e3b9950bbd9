package processor

import (
	"github.com/mitchelldurbincs/HexTactics/internal/game/core"
	"github.com/mitchelldurbincs/HexTactics/internal/game/events"
	"github.com/mitchelldurbincs/HexTactics/internal/game/registry"
)

// Rolls are made on a d10: a result below the chance succeeds
const (
	rollSides      = 10
	baseChance     = 5
	maxChance      = 9
	killMoraleLoss = 10
	suppressLoss   = 5
)

// coverPenalty lowers the chance to hit a target standing on terrain
func coverPenalty(t core.Terrain) int {
	switch t {
	case core.TerrainTrees:
		return 2
	case core.TerrainHills:
		return 1
	default:
		return 0
	}
}

func clampChance(c int) int {
	return max(0, min(c, maxChance))
}

// hitChance is the chance out of rollSides for one shot to hit
func (cp *CommandProcessor) hitChance(state UnitStore, attacker, defender *core.Unit) int {
	ut, _ := cp.types.UnitType(attacker.TypeID)
	weapon := cp.types.UnitWeapon(attacker)

	chance := weapon.Accuracy + ut.WeaponSkill - baseChance
	chance -= core.Distance(attacker.Pos, defender.Pos) / 2
	chance -= coverPenalty(state.Terrain(defender.Pos))
	if attacker.Morale < registry.MaxMorale/2 {
		chance -= 2
	}
	return clampChance(chance)
}

// killChance is the chance out of rollSides for one hit to take out one
// member of the defending unit. Armor the weapon cannot pierce lowers it.
func (cp *CommandProcessor) killChance(attacker, defender *core.Unit) int {
	dt, _ := cp.types.UnitType(defender.TypeID)
	weapon := cp.types.UnitWeapon(attacker)

	chance := baseChance + weapon.Damage - dt.Toughness
	if weapon.AP < dt.Armor {
		chance += weapon.AP - dt.Armor
	}
	return clampChance(chance)
}

func (cp *CommandProcessor) roll(chance int) bool {
	return cp.rng.Intn(rollSides) < chance
}

// fire resolves one volley: every member of the attacking unit shoots once.
// Returns true if the defender was destroyed.
func (cp *CommandProcessor) fire(state UnitStore, turn TurnInfo, attacker, defender *core.Unit, reaction bool) bool {
	shots := attacker.Count
	hitChance := cp.hitChance(state, attacker, defender)
	killChance := cp.killChance(attacker, defender)

	hits, killed := 0, 0
	for i := 0; i < shots; i++ {
		if !cp.roll(hitChance) {
			continue
		}
		hits++
		if killed < defender.Count && cp.roll(killChance) {
			killed++
		}
	}

	defender.Count -= killed
	switch {
	case killed > 0:
		defender.Morale -= killed * killMoraleLoss
	case hits > 0:
		defender.Morale -= suppressLoss
	}
	defender.Morale = max(defender.Morale, 0)

	cp.logger.Debug().
		Int("attacker_id", int(attacker.ID)).
		Int("defender_id", int(defender.ID)).
		Int("hit_chance", hitChance).
		Int("kill_chance", killChance).
		Int("shots", shots).
		Int("hits", hits).
		Int("killed", killed).
		Bool("reaction", reaction).
		Msg("Attack resolved")
	cp.publish(events.NewUnitAttackedEvent(turn.MatchID, turn.Turn, attacker, defender, shots, hits, killed, reaction))

	if defender.Count > 0 {
		return false
	}
	cp.destroy(state, turn, defender)
	return true
}

// destroy removes a unit and whatever it carries
func (cp *CommandProcessor) destroy(state UnitStore, turn TurnInfo, unit *core.Unit) {
	if unit.PassengerID != nil && *unit.PassengerID != unit.ID {
		if passenger, ok := state.Unit(*unit.PassengerID); ok {
			cp.destroy(state, turn, passenger)
		}
	}
	state.RemoveUnit(unit.ID)
	cp.logger.Debug().Int("unit_id", int(unit.ID)).Stringer("pos", unit.Pos).Msg("Unit destroyed")
	cp.publish(events.NewUnitDestroyedEvent(turn.MatchID, turn.Turn, unit))
}
