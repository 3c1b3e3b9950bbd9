package core

import "fmt"

// Terrain is the static ground type of a tile
type Terrain int

const (
	TerrainPlain Terrain = iota
	TerrainTrees
	TerrainHills
	TerrainRoad
	TerrainWater
)

// AllTerrains lists every terrain type in enumeration order
var AllTerrains = []Terrain{TerrainPlain, TerrainTrees, TerrainHills, TerrainRoad, TerrainWater}

// String returns the lowercase terrain name used by cost expressions and config files
func (t Terrain) String() string {
	switch t {
	case TerrainPlain:
		return "plain"
	case TerrainTrees:
		return "trees"
	case TerrainHills:
		return "hills"
	case TerrainRoad:
		return "road"
	case TerrainWater:
		return "water"
	default:
		return fmt.Sprintf("terrain(%d)", int(t))
	}
}

// ParseTerrain converts a terrain name back to its value
func ParseTerrain(s string) (Terrain, error) {
	for _, t := range AllTerrains {
		if t.String() == s {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown terrain %q", s)
}

// Tile is a single cell of the map
type Tile struct {
	Terrain Terrain
}

// Size2 is a map size in tiles
type Size2 struct {
	W, H int
}

// Map is the hex grid. Its size is fixed for its lifetime and its terrain
// only changes during map generation.
type Map struct {
	W, H int
	T    []Tile // length = W*H (row-major)
}

// NewMap creates a map of plain tiles
func NewMap(size Size2) *Map {
	if size.W <= 0 || size.H <= 0 {
		panic(fmt.Sprintf("bad map size: %dx%d", size.W, size.H))
	}
	return &Map{W: size.W, H: size.H, T: make([]Tile, size.W*size.H)}
}

func (m *Map) Size() Size2 { return Size2{W: m.W, H: m.H} }
func (m *Map) Idx(pos MapPos) int { return pos.ToIndex(m.W) }
func (m *Map) Pos(idx int) MapPos { return FromIndex(idx, m.W) }
func (m *Map) TileCount() int { return len(m.T) }
func (m *Map) IsInboard(pos MapPos) bool { return pos.IsValid(m.W, m.H) }

// Distance returns the hex distance between two positions
func (m *Map) Distance(a, b MapPos) int {
	return Distance(a, b)
}

// GetTile safely returns a tile pointer if the position is valid, nil otherwise
func (m *Map) GetTile(pos MapPos) *Tile {
	if !m.IsInboard(pos) {
		return nil
	}
	return &m.T[m.Idx(pos)]
}

// Terrain returns the terrain at pos. Out-of-board positions read as water.
func (m *Map) Terrain(pos MapPos) Terrain {
	t := m.GetTile(pos)
	if t == nil {
		return TerrainWater
	}
	return t.Terrain
}

// SetTerrain sets the terrain at pos
func (m *Map) SetTerrain(pos MapPos, terrain Terrain) {
	if t := m.GetTile(pos); t != nil {
		t.Terrain = terrain
	}
}

// Clone returns a deep copy of the map
func (m *Map) Clone() *Map {
	tiles := make([]Tile, len(m.T))
	copy(tiles, m.T)
	return &Map{W: m.W, H: m.H, T: tiles}
}
