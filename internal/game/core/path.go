package core

import (
	"fmt"
	"strings"
)

// PathNode is one step of a path with the cumulative cost of reaching it
type PathNode struct {
	Cost int
	Pos  MapPos
}

// MapPath is an ordered route from a source tile to a destination tile.
// Node 0 is the source at cost 0 and costs never decrease along the path.
type MapPath struct {
	Nodes []PathNode
}

// NewMapPath wraps the given nodes
func NewMapPath(nodes []PathNode) MapPath {
	return MapPath{Nodes: nodes}
}

// Len returns the number of nodes
func (p MapPath) Len() int { return len(p.Nodes) }

// TotalCost returns the cumulative cost of the last node, or 0 for an empty path
func (p MapPath) TotalCost() int {
	if len(p.Nodes) == 0 {
		return 0
	}
	return p.Nodes[len(p.Nodes)-1].Cost
}

// Origin returns the first node's position
func (p MapPath) Origin() MapPos {
	return p.Nodes[0].Pos
}

// Destination returns the last node's position
func (p MapPath) Destination() MapPos {
	return p.Nodes[len(p.Nodes)-1].Pos
}

// Truncate returns the longest prefix of the path affordable with movePoints.
// The origin is always affordable, so the result has at least one node.
// Panics if the path total exceeds the budget but no node does, which can only
// happen when the non-decreasing cost invariant is broken.
func (p MapPath) Truncate(movePoints int) MapPath {
	if p.TotalCost() <= movePoints {
		return p
	}
	for i := 1; i < len(p.Nodes); i++ {
		if p.Nodes[i].Cost > movePoints {
			nodes := make([]PathNode, i)
			copy(nodes, p.Nodes[:i])
			return MapPath{Nodes: nodes}
		}
	}
	panic(fmt.Sprintf("path %s costs %d but no node exceeds %d move points", p, p.TotalCost(), movePoints))
}

// Clone returns a copy that shares no backing array with p
func (p MapPath) Clone() MapPath {
	nodes := make([]PathNode, len(p.Nodes))
	copy(nodes, p.Nodes)
	return MapPath{Nodes: nodes}
}

func (p MapPath) String() string {
	var sb strings.Builder
	for i, n := range p.Nodes {
		if i > 0 {
			sb.WriteString("->")
		}
		fmt.Fprintf(&sb, "%s:%d", n.Pos, n.Cost)
	}
	return sb.String()
}
