package game

import "github.com/mitchelldurbincs/HexTactics/internal/game/core"

// This file contains fog of war handling for the game engine.

// StateFor builds the copy of the state that player is allowed to see. With
// fog of war enabled it holds the player's own units and every enemy unit
// spotted by at least one of them. The copy shares nothing mutable with the
// canonical state.
func (e *Engine) StateFor(player core.PlayerID) *GameState {
	view := NewGameStateWithMap(e.gs.Map, &player)
	own := e.gs.PlayerUnits(player)

	for _, u := range e.gs.UnitsSorted() {
		if u.PlayerID == player || !e.fogOfWar || e.spotted(own, u) {
			view.Units[u.ID] = u.Clone()
		}
	}
	return view
}

// spotted reports whether any observer sees target. Units standing in trees
// are only seen from within the observer's cover line of sight.
func (e *Engine) spotted(observers []*core.Unit, target *core.Unit) bool {
	inCover := e.gs.Map.Terrain(target.Pos) == core.TerrainTrees
	for _, o := range observers {
		ut, ok := e.types.UnitType(o.TypeID)
		if !ok {
			continue
		}
		sight := ut.LosRange
		if inCover {
			sight = ut.CoverLosRange
		}
		if core.Distance(o.Pos, target.Pos) <= sight {
			return true
		}
	}
	return false
}

// VisibleEnemies counts the enemy units player can currently see
func (e *Engine) VisibleEnemies(player core.PlayerID) int {
	return len(e.StateFor(player).EnemyUnits(player))
}
