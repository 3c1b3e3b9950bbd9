// Package registry holds the static unit and weapon templates that the
// simulation reads but never mutates.
package registry

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/mitchelldurbincs/HexTactics/internal/game/core"
)

// WeaponSpec describes a weapon type in a registry file
type WeaponSpec struct {
	Name        string `mapstructure:"name"`
	Damage      int    `mapstructure:"damage"`
	AP          int    `mapstructure:"ap"`
	Accuracy    int    `mapstructure:"accuracy"`
	MaxDistance int    `mapstructure:"max_distance"`
	MinDistance int    `mapstructure:"min_distance"`
}

// UnitSpec describes a unit type in a registry file.
// MoveCost is an expr expression evaluated once per terrain; it sees
// Terrain, Class and Size and must return an int, negative for impassable.
type UnitSpec struct {
	Name                 string `mapstructure:"name"`
	Class                string `mapstructure:"class"`
	Count                int    `mapstructure:"count"`
	Size                 int    `mapstructure:"size"`
	Armor                int    `mapstructure:"armor"`
	Toughness            int    `mapstructure:"toughness"`
	WeaponSkill          int    `mapstructure:"weapon_skill"`
	Weapon               string `mapstructure:"weapon"`
	MovePoints           int    `mapstructure:"move_points"`
	AttackPoints         int    `mapstructure:"attack_points"`
	ReactiveAttackPoints int    `mapstructure:"reactive_attack_points"`
	LosRange             int    `mapstructure:"los_range"`
	CoverLosRange        int    `mapstructure:"cover_los_range"`
	IsTransporter        bool   `mapstructure:"is_transporter"`
	MoveCost             string `mapstructure:"move_cost"`
}

// CostEnv is the environment move cost expressions are evaluated against
type CostEnv struct {
	Terrain string
	Class   string
	Size    int
}

// ObjectTypes is the read-only registry of unit and weapon types
type ObjectTypes struct {
	unitTypes   []core.UnitType
	weaponTypes []core.WeaponType
	moveCosts   [][]int // [unit type][terrain], negative means impassable
	unitNames   map[string]core.UnitTypeID
	weaponNames map[string]core.WeaponTypeID
}

// New builds a registry, compiling every unit type's move cost expression
func New(weapons []WeaponSpec, units []UnitSpec) (*ObjectTypes, error) {
	ot := &ObjectTypes{
		unitNames:   make(map[string]core.UnitTypeID),
		weaponNames: make(map[string]core.WeaponTypeID),
	}

	for _, w := range weapons {
		if _, dup := ot.weaponNames[w.Name]; dup {
			return nil, fmt.Errorf("weapon type %q defined twice", w.Name)
		}
		if w.MinDistance < 0 || w.MaxDistance < w.MinDistance {
			return nil, fmt.Errorf("weapon type %q: bad distance range [%d, %d]", w.Name, w.MinDistance, w.MaxDistance)
		}
		ot.weaponNames[w.Name] = core.WeaponTypeID(len(ot.weaponTypes))
		ot.weaponTypes = append(ot.weaponTypes, core.WeaponType{
			Name:        w.Name,
			Damage:      w.Damage,
			AP:          w.AP,
			Accuracy:    w.Accuracy,
			MaxDistance: w.MaxDistance,
			MinDistance: w.MinDistance,
		})
	}

	for _, u := range units {
		if _, dup := ot.unitNames[u.Name]; dup {
			return nil, fmt.Errorf("unit type %q defined twice", u.Name)
		}
		class, err := core.ParseUnitClass(u.Class)
		if err != nil {
			return nil, fmt.Errorf("unit type %q: %w", u.Name, err)
		}
		weaponID, ok := ot.weaponNames[u.Weapon]
		if !ok {
			return nil, fmt.Errorf("unit type %q: unknown weapon %q", u.Name, u.Weapon)
		}
		if u.MovePoints < 0 || u.AttackPoints < 0 || u.ReactiveAttackPoints < 0 {
			return nil, fmt.Errorf("unit type %q: points must be non-negative", u.Name)
		}
		costs, err := compileMoveCosts(u, class)
		if err != nil {
			return nil, fmt.Errorf("unit type %q: %w", u.Name, err)
		}

		ot.unitNames[u.Name] = core.UnitTypeID(len(ot.unitTypes))
		ot.unitTypes = append(ot.unitTypes, core.UnitType{
			Name:                 u.Name,
			Class:                class,
			Count:                u.Count,
			Size:                 u.Size,
			Armor:                u.Armor,
			Toughness:            u.Toughness,
			WeaponSkill:          u.WeaponSkill,
			WeaponTypeID:         weaponID,
			MovePoints:           u.MovePoints,
			AttackPoints:         u.AttackPoints,
			ReactiveAttackPoints: u.ReactiveAttackPoints,
			LosRange:             u.LosRange,
			CoverLosRange:        u.CoverLosRange,
			IsTransporter:        u.IsTransporter,
		})
		ot.moveCosts = append(ot.moveCosts, costs)
	}

	return ot, nil
}

// compileMoveCosts evaluates the move cost expression for every terrain up front
// so the pathfinder only does table lookups
func compileMoveCosts(u UnitSpec, class core.UnitClass) ([]int, error) {
	src := u.MoveCost
	if src == "" {
		src = DefaultMoveCost
	}
	program, err := expr.Compile(src, expr.Env(CostEnv{}), expr.AsInt())
	if err != nil {
		return nil, fmt.Errorf("compile move cost: %w", err)
	}

	costs := make([]int, len(core.AllTerrains))
	for _, terrain := range core.AllTerrains {
		env := CostEnv{Terrain: terrain.String(), Class: class.String(), Size: u.Size}
		out, err := vm.Run(program, env)
		if err != nil {
			return nil, fmt.Errorf("move cost on %s: %w", terrain, err)
		}
		cost, ok := out.(int)
		if !ok {
			return nil, fmt.Errorf("move cost on %s: expected int, got %T", terrain, out)
		}
		if cost < 0 {
			cost = Impassable
		}
		costs[terrain] = cost
	}
	return costs, nil
}

// Impassable marks terrain a unit type cannot enter
const Impassable = -1

// UnitTypeCount returns the number of unit types
func (ot *ObjectTypes) UnitTypeCount() int { return len(ot.unitTypes) }

// UnitType returns the template for id
func (ot *ObjectTypes) UnitType(id core.UnitTypeID) (core.UnitType, bool) {
	if id < 0 || int(id) >= len(ot.unitTypes) {
		return core.UnitType{}, false
	}
	return ot.unitTypes[id], true
}

// WeaponType returns the template for id
func (ot *ObjectTypes) WeaponType(id core.WeaponTypeID) (core.WeaponType, bool) {
	if id < 0 || int(id) >= len(ot.weaponTypes) {
		return core.WeaponType{}, false
	}
	return ot.weaponTypes[id], true
}

// UnitTypeByName looks up a unit type id by name
func (ot *ObjectTypes) UnitTypeByName(name string) (core.UnitTypeID, bool) {
	id, ok := ot.unitNames[name]
	return id, ok
}

func (ot *ObjectTypes) mustUnitType(id core.UnitTypeID) core.UnitType {
	ut, ok := ot.UnitType(id)
	if !ok {
		panic(fmt.Sprintf("unknown unit type id %d", id))
	}
	return ut
}

// UnitWeapon returns the weapon carried by u's type
func (ot *ObjectTypes) UnitWeapon(u *core.Unit) core.WeaponType {
	ut := ot.mustUnitType(u.TypeID)
	return ot.weaponTypes[ut.WeaponTypeID]
}

// MaxAttackDist returns the maximum distance u's weapon can fire at
func (ot *ObjectTypes) MaxAttackDist(u *core.Unit) int {
	return ot.UnitWeapon(u).MaxDistance
}

// MinAttackDist returns the minimum distance u's weapon can fire at
func (ot *ObjectTypes) MinAttackDist(u *core.Unit) int {
	return ot.UnitWeapon(u).MinDistance
}

// MoveCost returns the cost for u to enter a tile of the given terrain.
// The second result is false when the terrain is impassable for u.
func (ot *ObjectTypes) MoveCost(u *core.Unit, terrain core.Terrain) (int, bool) {
	ot.mustUnitType(u.TypeID)
	if terrain < 0 || int(terrain) >= len(core.AllTerrains) {
		return 0, false
	}
	cost := ot.moveCosts[u.TypeID][terrain]
	if cost == Impassable {
		return 0, false
	}
	return cost, true
}

// NewUnit creates a unit of the given type with full points
func (ot *ObjectTypes) NewUnit(id core.UnitID, typeID core.UnitTypeID, playerID core.PlayerID, pos core.MapPos) *core.Unit {
	ut := ot.mustUnitType(typeID)
	u := &core.Unit{
		ID:               id,
		Pos:              pos,
		PlayerID:         playerID,
		TypeID:           typeID,
		ReactionFireMode: core.ReactionFireNormal,
		Count:            ut.Count,
		Morale:           MaxMorale,
	}
	ot.RefreshPoints(u)
	return u
}

// RefreshPoints restores u's move, attack and reactive attack points from its type
func (ot *ObjectTypes) RefreshPoints(u *core.Unit) {
	ut := ot.mustUnitType(u.TypeID)
	u.MovePoints = ut.MovePoints
	u.AttackPoints = ut.AttackPoints
	rap := ut.ReactiveAttackPoints
	u.ReactiveAttackPoints = &rap
}

// MaxMorale is the morale of a fresh unit
const MaxMorale = 100
