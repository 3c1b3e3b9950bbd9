// Package pathfinder computes move-point cost fields around a unit and
// rebuilds the cheapest path to any tile the field reached.
package pathfinder

import (
	"container/heap"

	"github.com/mitchelldurbincs/HexTactics/internal/game"
	"github.com/mitchelldurbincs/HexTactics/internal/game/core"
)

// MoveCoster prices entering a tile of the given terrain for a unit.
// The second result is false when the unit cannot enter the terrain at all.
type MoveCoster interface {
	MoveCost(unit *core.Unit, terrain core.Terrain) (int, bool)
}

type tile struct {
	cost      int
	reached   bool
	parentDir core.Dir // direction from this tile back towards the source
}

// Pathfinder holds the cost field of the last FillMap call. It is scratch
// state: the field is only valid for the unit and state it was filled with.
type Pathfinder struct {
	size   core.Size2
	tiles  []tile
	source core.MapPos
	queue  frontier
}

// New creates a pathfinder for maps of the given size
func New(size core.Size2) *Pathfinder {
	return &Pathfinder{
		size:  size,
		tiles: make([]tile, size.W*size.H),
	}
}

// Size returns the map size the pathfinder was built for
func (pf *Pathfinder) Size() core.Size2 { return pf.size }

func (pf *Pathfinder) inboard(pos core.MapPos) bool {
	return pos.IsValid(pf.size.W, pf.size.H)
}

func (pf *Pathfinder) tile(pos core.MapPos) *tile {
	return &pf.tiles[pos.ToIndex(pf.size.W)]
}

func (pf *Pathfinder) clear() {
	for i := range pf.tiles {
		pf.tiles[i] = tile{}
	}
	pf.queue.reset()
}

// FillMap rebuilds the cost field rooted at unit's position. Tiles that are
// off the map, occupied by any unit, or impassable for the unit are never
// entered. The frontier is a priority queue, so a tile's cost is final and
// minimal when it is popped.
func (pf *Pathfinder) FillMap(costs MoveCoster, state *game.GameState, unit *core.Unit) {
	pf.clear()
	pf.source = unit.Pos
	if !pf.inboard(unit.Pos) {
		return
	}

	start := pf.tile(unit.Pos)
	start.reached = true
	heap.Push(&pf.queue, frontierItem{pos: unit.Pos, cost: 0})

	for pf.queue.Len() > 0 {
		item := heap.Pop(&pf.queue).(frontierItem)
		if item.cost > pf.tile(item.pos).cost {
			// stale entry, a cheaper one was already expanded
			continue
		}
		for _, dir := range core.AllDirs {
			next := core.GetNeighbourPos(item.pos, dir)
			pf.tryExpand(costs, state, unit, item, next, dir)
		}
	}
}

func (pf *Pathfinder) tryExpand(costs MoveCoster, state *game.GameState, unit *core.Unit, from frontierItem, next core.MapPos, dir core.Dir) {
	if !pf.inboard(next) || next == pf.source {
		return
	}
	if state.IsTileOccupied(next) {
		return
	}
	stepCost, ok := costs.MoveCost(unit, state.Map.Terrain(next))
	if !ok {
		return
	}
	newCost := from.cost + stepCost
	t := pf.tile(next)
	if t.reached && t.cost <= newCost {
		return
	}
	t.reached = true
	t.cost = newCost
	t.parentDir = dir.Opposite()
	heap.Push(&pf.queue, frontierItem{pos: next, cost: newCost})
}

// IsReached reports whether the last FillMap reached pos
func (pf *Pathfinder) IsReached(pos core.MapPos) bool {
	return pf.inboard(pos) && pf.tile(pos).reached
}

// Cost returns the field cost of pos and whether pos was reached
func (pf *Pathfinder) Cost(pos core.MapPos) (int, bool) {
	if !pf.IsReached(pos) {
		return 0, false
	}
	return pf.tile(pos).cost, true
}

// GetPath rebuilds the cheapest path from the last source to destination.
// Returns false when destination was not reached by the last FillMap.
func (pf *Pathfinder) GetPath(destination core.MapPos) (core.MapPath, bool) {
	if !pf.IsReached(destination) {
		return core.MapPath{}, false
	}

	var nodes []core.PathNode
	pos := destination
	for pos != pf.source {
		t := pf.tile(pos)
		nodes = append(nodes, core.PathNode{Cost: t.cost, Pos: pos})
		pos = core.GetNeighbourPos(pos, t.parentDir)
	}
	nodes = append(nodes, core.PathNode{Cost: 0, Pos: pf.source})

	for i, j := 0, len(nodes)-1; i < j; i, j = i+1, j-1 {
		nodes[i], nodes[j] = nodes[j], nodes[i]
	}
	return core.NewMapPath(nodes), true
}
