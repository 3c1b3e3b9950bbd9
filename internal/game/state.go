package game

import (
	"fmt"
	"sort"

	"github.com/mitchelldurbincs/HexTactics/internal/game/core"
)

// Player tracks one side of the match. UnitCount is recomputed after every command.
type Player struct {
	ID        core.PlayerID
	Alive     bool
	UnitCount int
}

func (p Player) GetID() core.PlayerID { return p.ID }
func (p Player) IsAlive() bool        { return p.Alive }

// GameState is the registry of units on a map. The canonical copy belongs to
// the Engine; every AI keeps its own private copy that the match loop refreshes.
type GameState struct {
	Units map[core.UnitID]*core.Unit
	Map   *core.Map
	// PlayerID is the perspective this copy was built for, nil for the canonical state
	PlayerID *core.PlayerID
}

// NewGameState creates an empty state on a plain map of the given size
func NewGameState(size core.Size2, playerID *core.PlayerID) *GameState {
	return NewGameStateWithMap(core.NewMap(size), playerID)
}

// NewGameStateWithMap creates an empty state on an existing map
func NewGameStateWithMap(m *core.Map, playerID *core.PlayerID) *GameState {
	var owner *core.PlayerID
	if playerID != nil {
		id := *playerID
		owner = &id
	}
	return &GameState{
		Units:    make(map[core.UnitID]*core.Unit),
		Map:      m,
		PlayerID: owner,
	}
}

// AddUnit registers a unit. The unit's tile must be on the map and free,
// unless a transporter and its passenger are the ones sharing it.
func (gs *GameState) AddUnit(u *core.Unit) error {
	if _, exists := gs.Units[u.ID]; exists {
		return fmt.Errorf("add %s: duplicate unit id", u.ID)
	}
	if !gs.Map.IsInboard(u.Pos) {
		return fmt.Errorf("add %s at %s: %w", u.ID, u.Pos, core.ErrInvalidPosition)
	}
	if other := gs.UnitAt(u.Pos); other != nil && !gs.carries(other, u.ID) && !gs.carries(u, other.ID) {
		return fmt.Errorf("add %s at %s: %w", u.ID, u.Pos, core.ErrTileOccupied)
	}
	gs.Units[u.ID] = u
	return nil
}

// RemoveUnit deletes a unit from the registry. Missing ids are ignored.
func (gs *GameState) RemoveUnit(id core.UnitID) {
	delete(gs.Units, id)
}

// Unit looks up a unit by id
func (gs *GameState) Unit(id core.UnitID) (*core.Unit, bool) {
	u, ok := gs.Units[id]
	return u, ok
}

// IsInboard reports whether pos lies on the map
func (gs *GameState) IsInboard(pos core.MapPos) bool { return gs.Map.IsInboard(pos) }

// Terrain returns the terrain at pos
func (gs *GameState) Terrain(pos core.MapPos) core.Terrain { return gs.Map.Terrain(pos) }

// IsTileOccupied reports whether any unit stands on pos
func (gs *GameState) IsTileOccupied(pos core.MapPos) bool {
	for _, u := range gs.Units {
		if u.Pos == pos {
			return true
		}
	}
	return false
}

// UnitAt returns the unit holding pos, preferring a transporter over its passenger
func (gs *GameState) UnitAt(pos core.MapPos) *core.Unit {
	var found *core.Unit
	for _, u := range gs.UnitsSorted() {
		if u.Pos != pos {
			continue
		}
		if gs.IsTransported(u.ID) {
			if found == nil {
				found = u
			}
			continue
		}
		return u
	}
	return found
}

// IsTransported reports whether some other unit carries id
func (gs *GameState) IsTransported(id core.UnitID) bool {
	for _, u := range gs.Units {
		if gs.carries(u, id) {
			return true
		}
	}
	return false
}

func (gs *GameState) carries(transporter *core.Unit, id core.UnitID) bool {
	return transporter.PassengerID != nil && *transporter.PassengerID == id && transporter.ID != id
}

// UnitsSorted returns every unit in ascending id order. Decision code iterates
// through this so that results never depend on map iteration order.
func (gs *GameState) UnitsSorted() []*core.Unit {
	ids := make([]core.UnitID, 0, len(gs.Units))
	for id := range gs.Units {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	units := make([]*core.Unit, len(ids))
	for i, id := range ids {
		units[i] = gs.Units[id]
	}
	return units
}

// PlayerUnits returns the units owned by playerID in ascending id order
func (gs *GameState) PlayerUnits(playerID core.PlayerID) []*core.Unit {
	var units []*core.Unit
	for _, u := range gs.UnitsSorted() {
		if u.PlayerID == playerID {
			units = append(units, u)
		}
	}
	return units
}

// EnemyUnits returns the units not owned by playerID in ascending id order
func (gs *GameState) EnemyUnits(playerID core.PlayerID) []*core.Unit {
	var units []*core.Unit
	for _, u := range gs.UnitsSorted() {
		if u.PlayerID != playerID {
			units = append(units, u)
		}
	}
	return units
}

// NextUnitID returns an id not used by any unit
func (gs *GameState) NextUnitID() core.UnitID {
	next := core.UnitID(0)
	for id := range gs.Units {
		if id >= next {
			next = id + 1
		}
	}
	return next
}

// Clone returns a deep copy of the state. The map is shared because terrain
// does not change after generation.
func (gs *GameState) Clone() *GameState {
	clone := NewGameStateWithMap(gs.Map, gs.PlayerID)
	for id, u := range gs.Units {
		clone.Units[id] = u.Clone()
	}
	return clone
}
