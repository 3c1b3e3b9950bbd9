package testutil

import (
	"github.com/mitchelldurbincs/HexTactics/internal/game"
	"github.com/mitchelldurbincs/HexTactics/internal/game/core"
	"github.com/mitchelldurbincs/HexTactics/internal/game/registry"
)

// CreateTestState creates an empty canonical state on a plain map
func CreateTestState(width, height int) *game.GameState {
	return game.NewGameState(core.Size2{W: width, H: height}, nil)
}

// CreateTestStateWithTerrain creates an empty state and paints the given terrain
func CreateTestStateWithTerrain(width, height int, terrain map[core.MapPos]core.Terrain) *game.GameState {
	gs := CreateTestState(width, height)
	for pos, t := range terrain {
		gs.Map.SetTerrain(pos, t)
	}
	return gs
}

// TestRegistry returns the built-in unit type registry
func TestRegistry() *registry.ObjectTypes {
	return registry.Default()
}

// MustTypeID looks up a unit type by name and panics if it does not exist
func MustTypeID(ot *registry.ObjectTypes, name string) core.UnitTypeID {
	id, ok := ot.UnitTypeByName(name)
	if !ok {
		panic("unknown unit type " + name)
	}
	return id
}

// PlaceUnit spawns a unit of the named type with full points and adds it to gs
func PlaceUnit(gs *game.GameState, ot *registry.ObjectTypes, id core.UnitID, typeName string, player core.PlayerID, pos core.MapPos) *core.Unit {
	u := ot.NewUnit(id, MustTypeID(ot, typeName), player, pos)
	if err := gs.AddUnit(u); err != nil {
		panic(err)
	}
	return u
}

// CreateSimpleTestSetup creates a 10x10 plain map with one soldier per player:
// player 0 at (0,0) and player 1 at (5,5)
func CreateSimpleTestSetup() (*game.GameState, *registry.ObjectTypes) {
	gs := CreateTestState(10, 10)
	ot := TestRegistry()
	PlaceUnit(gs, ot, 0, "soldier", 0, core.MapPos{X: 0, Y: 0})
	PlaceUnit(gs, ot, 1, "soldier", 1, core.MapPos{X: 5, Y: 5})
	return gs, ot
}
