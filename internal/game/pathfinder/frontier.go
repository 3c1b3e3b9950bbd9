package pathfinder

import "github.com/mitchelldurbincs/HexTactics/internal/game/core"

type frontierItem struct {
	pos  core.MapPos
	cost int
	seq  int
}

// frontier is a min-heap on cost. Equal costs pop in push order so that the
// expansion, and with it every reconstructed path, is deterministic.
type frontier struct {
	items   []frontierItem
	nextSeq int
}

func (f *frontier) Len() int { return len(f.items) }

func (f *frontier) Less(i, j int) bool {
	if f.items[i].cost != f.items[j].cost {
		return f.items[i].cost < f.items[j].cost
	}
	return f.items[i].seq < f.items[j].seq
}

func (f *frontier) Swap(i, j int) { f.items[i], f.items[j] = f.items[j], f.items[i] }

func (f *frontier) Push(x any) {
	item := x.(frontierItem)
	item.seq = f.nextSeq
	f.nextSeq++
	f.items = append(f.items, item)
}

func (f *frontier) Pop() any {
	n := len(f.items)
	item := f.items[n-1]
	f.items = f.items[:n-1]
	return item
}

func (f *frontier) reset() {
	f.items = f.items[:0]
	f.nextSeq = 0
}
