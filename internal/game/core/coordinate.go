package core

import "fmt"

// MapPos is an offset hex coordinate. Rows are laid out "even-r": every even
// row is shifted half a tile to the right of the odd rows around it.
type MapPos struct {
	X, Y int
}

// NewMapPos creates a new position with the given column and row
func NewMapPos(x, y int) MapPos {
	return MapPos{X: x, Y: y}
}

// FromIndex creates a position from a tile array index using row-major ordering
func FromIndex(idx, width int) MapPos {
	return MapPos{
		X: idx % width,
		Y: idx / width,
	}
}

// ToIndex converts the position to a tile array index using row-major ordering
func (p MapPos) ToIndex(width int) int {
	return p.Y*width + p.X
}

// IsValid checks if the position is within the given bounds
func (p MapPos) IsValid(width, height int) bool {
	return p.X >= 0 && p.X < width && p.Y >= 0 && p.Y < height
}

// Equal checks if two positions are equal
func (p MapPos) Equal(other MapPos) bool {
	return p.X == other.X && p.Y == other.Y
}

// String returns a string representation of the position
func (p MapPos) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// cube is the cube-coordinate form of a hex position, q + r + s == 0.
type cube struct {
	q, r, s int
}

// row+(row&1) is always even, so the division is exact for negative rows too.
func (p MapPos) toCube() cube {
	q := p.X - (p.Y+(p.Y&1))/2
	r := p.Y
	return cube{q: q, r: r, s: -q - r}
}

// Distance returns the hex distance between two positions: the minimum
// number of single steps between them under six-neighbour adjacency.
func Distance(a, b MapPos) int {
	ac := a.toCube()
	bc := b.toCube()
	return max(abs(ac.q-bc.q), abs(ac.r-bc.r), abs(ac.s-bc.s))
}

// IsAdjacent checks if two positions are neighbours
func IsAdjacent(a, b MapPos) bool {
	return Distance(a, b) == 1
}

// Dir is one of the six hex directions
type Dir int

const (
	East Dir = iota
	NorthEast
	NorthWest
	West
	SouthWest
	SouthEast
)

// DirCount is the number of hex directions
const DirCount = 6

// AllDirs lists every direction in enumeration order
var AllDirs = [DirCount]Dir{East, NorthEast, NorthWest, West, SouthWest, SouthEast}

// dirOffsets[0] is used on even rows, dirOffsets[1] on odd rows
var dirOffsets = [2][DirCount]MapPos{
	{
		{X: 1, Y: 0},
		{X: 1, Y: -1},
		{X: 0, Y: -1},
		{X: -1, Y: 0},
		{X: 0, Y: 1},
		{X: 1, Y: 1},
	},
	{
		{X: 1, Y: 0},
		{X: 0, Y: -1},
		{X: -1, Y: -1},
		{X: -1, Y: 0},
		{X: -1, Y: 1},
		{X: 0, Y: 1},
	},
}

// DirFromInt converts an index in [0, 6) to a direction
func DirFromInt(i int) Dir {
	if i < 0 || i >= DirCount {
		panic(fmt.Sprintf("bad direction index: %d", i))
	}
	return Dir(i)
}

// Opposite returns the direction pointing the other way
func (d Dir) Opposite() Dir {
	return Dir((int(d) + 3) % DirCount)
}

// String returns the name of the direction
func (d Dir) String() string {
	switch d {
	case East:
		return "E"
	case NorthEast:
		return "NE"
	case NorthWest:
		return "NW"
	case West:
		return "W"
	case SouthWest:
		return "SW"
	case SouthEast:
		return "SE"
	default:
		return fmt.Sprintf("Dir(%d)", int(d))
	}
}

// GetNeighbourPos returns the position one step from pos in the given direction
func GetNeighbourPos(pos MapPos, dir Dir) MapPos {
	offset := dirOffsets[pos.Y&1][dir]
	return MapPos{X: pos.X + offset.X, Y: pos.Y + offset.Y}
}

// Neighbours returns the six adjacent positions in direction order
func (p MapPos) Neighbours() [DirCount]MapPos {
	var result [DirCount]MapPos
	for i, dir := range AllDirs {
		result[i] = GetNeighbourPos(p, dir)
	}
	return result
}

// DirTo returns the direction from p to an adjacent position.
// Returns false if the positions are not adjacent
func (p MapPos) DirTo(other MapPos) (Dir, bool) {
	for _, dir := range AllDirs {
		if GetNeighbourPos(p, dir) == other {
			return dir, true
		}
	}
	return 0, false
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
