package core

import "fmt"

// UnitID identifies a unit for its whole lifetime
type UnitID int

// PlayerID identifies a player
type PlayerID int

// UnitTypeID keys a UnitType in the type registry
type UnitTypeID int

// WeaponTypeID keys a WeaponType in the type registry
type WeaponTypeID int

func (id UnitID) String() string { return fmt.Sprintf("unit#%d", int(id)) }
func (id PlayerID) String() string { return fmt.Sprintf("player#%d", int(id)) }

// ReactionFireMode controls whether a unit fires at enemies moving in its range
// during the opponent's turn
type ReactionFireMode int

const (
	ReactionFireNormal ReactionFireMode = iota
	ReactionFireHold
)

func (m ReactionFireMode) String() string {
	switch m {
	case ReactionFireNormal:
		return "normal"
	case ReactionFireHold:
		return "hold_fire"
	default:
		return fmt.Sprintf("ReactionFireMode(%d)", int(m))
	}
}

// UnitClass is the broad movement class of a unit type
type UnitClass int

const (
	UnitClassInfantry UnitClass = iota
	UnitClassVehicle
)

func (c UnitClass) String() string {
	switch c {
	case UnitClassInfantry:
		return "infantry"
	case UnitClassVehicle:
		return "vehicle"
	default:
		return fmt.Sprintf("UnitClass(%d)", int(c))
	}
}

// ParseUnitClass converts a class name back to its value
func ParseUnitClass(s string) (UnitClass, error) {
	switch s {
	case "infantry":
		return UnitClassInfantry, nil
	case "vehicle":
		return UnitClassVehicle, nil
	default:
		return 0, fmt.Errorf("unknown unit class %q", s)
	}
}

// Unit is a single unit on the map.
// PassengerID refers to another unit that is being carried. The passenger stays
// in the unit registry and shares the transporter's tile.
type Unit struct {
	ID                   UnitID
	Pos                  MapPos
	PlayerID             PlayerID
	TypeID               UnitTypeID
	MovePoints           int
	AttackPoints         int
	ReactiveAttackPoints *int
	ReactionFireMode     ReactionFireMode
	Count                int
	Morale               int
	PassengerID          *UnitID
}

// Clone returns a copy that shares no pointers with u
func (u *Unit) Clone() *Unit {
	c := *u
	if u.ReactiveAttackPoints != nil {
		rap := *u.ReactiveAttackPoints
		c.ReactiveAttackPoints = &rap
	}
	if u.PassengerID != nil {
		pid := *u.PassengerID
		c.PassengerID = &pid
	}
	return &c
}

// HasReactiveAttack reports whether the unit can still fire during the enemy turn
func (u *Unit) HasReactiveAttack() bool {
	return u.ReactionFireMode == ReactionFireNormal &&
		u.ReactiveAttackPoints != nil && *u.ReactiveAttackPoints > 0
}

// WeaponType is an immutable weapon template
type WeaponType struct {
	Name        string
	Damage      int
	AP          int
	Accuracy    int
	MaxDistance int
	MinDistance int
}

// UnitType is an immutable unit template
type UnitType struct {
	Name                 string
	Class                UnitClass
	Count                int
	Size                 int
	Armor                int
	Toughness            int
	WeaponSkill          int
	WeaponTypeID         WeaponTypeID
	MovePoints           int
	AttackPoints         int
	ReactiveAttackPoints int
	LosRange             int
	CoverLosRange        int
	IsTransporter        bool
}
