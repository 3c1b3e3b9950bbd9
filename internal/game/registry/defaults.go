package registry

// DefaultMoveCost is used for unit types that do not set their own expression
const DefaultMoveCost = `Terrain == "water" ? -1 : (Terrain == "trees" || Terrain == "hills") ? 2 : 1`

const vehicleMoveCost = `Terrain == "water" ? -1 : Terrain == "hills" ? 3 : Terrain == "trees" ? 4 : 1`

var defaultWeapons = []WeaponSpec{
	{Name: "rifle", Damage: 2, AP: 1, Accuracy: 5, MaxDistance: 3, MinDistance: 0},
	{Name: "heavy_machine_gun", Damage: 3, AP: 2, Accuracy: 4, MaxDistance: 4, MinDistance: 0},
	{Name: "cannon", Damage: 9, AP: 9, Accuracy: 5, MaxDistance: 5, MinDistance: 1},
	{Name: "none", Damage: 0, AP: 0, Accuracy: 0, MaxDistance: 0, MinDistance: 0},
}

var defaultUnits = []UnitSpec{
	{
		Name: "soldier", Class: "infantry", Count: 4, Size: 4, Armor: 1, Toughness: 2,
		WeaponSkill: 5, Weapon: "rifle", MovePoints: 3, AttackPoints: 2, ReactiveAttackPoints: 1,
		LosRange: 6, CoverLosRange: 3,
	},
	{
		Name: "machine_gunner", Class: "infantry", Count: 2, Size: 4, Armor: 1, Toughness: 2,
		WeaponSkill: 5, Weapon: "heavy_machine_gun", MovePoints: 2, AttackPoints: 1, ReactiveAttackPoints: 2,
		LosRange: 6, CoverLosRange: 3,
	},
	{
		Name: "jeep", Class: "vehicle", Count: 1, Size: 5, Armor: 2, Toughness: 3,
		WeaponSkill: 5, Weapon: "heavy_machine_gun", MovePoints: 6, AttackPoints: 2, ReactiveAttackPoints: 1,
		LosRange: 7, CoverLosRange: 3, MoveCost: vehicleMoveCost,
	},
	{
		Name: "tank", Class: "vehicle", Count: 1, Size: 6, Armor: 11, Toughness: 9,
		WeaponSkill: 5, Weapon: "cannon", MovePoints: 4, AttackPoints: 1, ReactiveAttackPoints: 1,
		LosRange: 7, CoverLosRange: 3, MoveCost: vehicleMoveCost,
	},
	{
		Name: "truck", Class: "vehicle", Count: 1, Size: 6, Armor: 2, Toughness: 3,
		WeaponSkill: 0, Weapon: "none", MovePoints: 7, AttackPoints: 0, ReactiveAttackPoints: 0,
		LosRange: 6, CoverLosRange: 3, IsTransporter: true, MoveCost: vehicleMoveCost,
	},
}

// Default returns the built-in registry
func Default() *ObjectTypes {
	ot, err := New(defaultWeapons, defaultUnits)
	if err != nil {
		panic("built-in unit types are invalid: " + err.Error())
	}
	return ot
}
