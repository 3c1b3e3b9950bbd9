// Package mapgen builds battle maps: noise based terrain and the starting
// deployment of every player's units.
package mapgen

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/mitchelldurbincs/HexTactics/internal/game/core"
	"github.com/mitchelldurbincs/HexTactics/internal/game/registry"
)

// MaxPlayers is the number of deployment corners
const MaxPlayers = 4

// MapConfig holds configuration for map generation
type MapConfig struct {
	Width  int
	Height int
	// Seed drives both noise layers. Zero picks a random seed.
	Seed        int64
	Octaves     int
	Frequency   float64
	Persistence float64
	WaterLevel  float64 // elevation below this is water
	HillLevel   float64 // elevation above this is hills
	TreeLevel   float64 // vegetation above this is trees
	Roads       bool    // lay a road across the middle of the map

	PlayerCount    int
	UnitsPerPlayer int
	Roster         []string // unit type names, cycled per player
}

// DefaultMapConfig returns a sensible default configuration
func DefaultMapConfig(w, h, players int) MapConfig {
	return MapConfig{
		Width:          w,
		Height:         h,
		Octaves:        4,
		Frequency:      0.12,
		Persistence:    0.5,
		WaterLevel:     0.3,
		HillLevel:      0.68,
		TreeLevel:      0.6,
		Roads:          true,
		PlayerCount:    players,
		UnitsPerPlayer: 5,
		Roster:         []string{"soldier", "soldier", "machine_gunner", "jeep", "tank"},
	}
}

// Validate checks the configuration before generation
func (c MapConfig) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("map size must be positive, got %dx%d", c.Width, c.Height)
	}
	if c.PlayerCount < 1 || c.PlayerCount > MaxPlayers {
		return fmt.Errorf("player count must be between 1 and %d, got %d", MaxPlayers, c.PlayerCount)
	}
	if c.UnitsPerPlayer < 1 {
		return fmt.Errorf("units per player must be at least 1, got %d", c.UnitsPerPlayer)
	}
	if len(c.Roster) == 0 {
		return fmt.Errorf("roster is empty")
	}
	if c.Octaves < 1 {
		return fmt.Errorf("octaves must be at least 1, got %d", c.Octaves)
	}
	return nil
}

// Generator handles map generation. The same config and seed always produce
// the same map and deployment.
type Generator struct {
	config MapConfig
	types  *registry.ObjectTypes
}

// NewGenerator creates a new map generator
func NewGenerator(config MapConfig, types *registry.ObjectTypes) *Generator {
	if config.Seed == 0 {
		config.Seed = rand.Int63()
	}
	return &Generator{config: config, types: types}
}

// Seed returns the noise seed actually used
func (g *Generator) Seed() int64 { return g.config.Seed }

// GenerateMap paints terrain from two noise layers. The map is point
// symmetric: the tile at (x,y) matches the tile at (W-1-x, H-1-y).
func (g *Generator) GenerateMap() *core.Map {
	m := core.NewMap(core.Size2{W: g.config.Width, H: g.config.Height})

	elevNoise := opensimplex.NewNormalized(g.config.Seed)
	vegNoise := opensimplex.NewNormalized(g.config.Seed + 1)

	for idx := range m.T {
		src := m.Pos(min(idx, m.TileCount()-1-idx))
		x, y := hexToPlane(src)
		elev := octaveNoise(elevNoise, x, y, g.config.Octaves, g.config.Frequency, g.config.Persistence)
		veg := octaveNoise(vegNoise, x, y, g.config.Octaves, g.config.Frequency, g.config.Persistence)
		m.T[idx].Terrain = g.deriveTerrain(elev, veg)
	}

	if g.config.Roads {
		g.layRoad(m, g.config.Height/2)
		g.layRoad(m, g.config.Height-1-g.config.Height/2)
	}
	return m
}

func (g *Generator) deriveTerrain(elev, veg float64) core.Terrain {
	switch {
	case elev < g.config.WaterLevel:
		return core.TerrainWater
	case elev > g.config.HillLevel:
		return core.TerrainHills
	case veg > g.config.TreeLevel:
		return core.TerrainTrees
	default:
		return core.TerrainPlain
	}
}

// layRoad turns every land tile of a row into road
func (g *Generator) layRoad(m *core.Map, row int) {
	for x := 0; x < m.W; x++ {
		pos := core.MapPos{X: x, Y: row}
		if m.Terrain(pos) != core.TerrainWater {
			m.SetTerrain(pos, core.TerrainRoad)
		}
	}
}

// hexToPlane converts an even-r offset position to cartesian coordinates so
// that noise is sampled at evenly spaced points
func hexToPlane(pos core.MapPos) (float64, float64) {
	x := float64(pos.X)
	if pos.Y%2 == 0 {
		x += 0.5
	}
	return x, float64(pos.Y) * math.Sqrt(3.0) / 2.0
}

// octaveNoise generates fractal noise by layering multiple frequencies
func octaveNoise(noise opensimplex.Noise, x, y float64, octaves int, frequency, persistence float64) float64 {
	total := 0.0
	amplitude := 1.0
	maxVal := 0.0

	for i := 0; i < octaves; i++ {
		total += noise.Eval2(x*frequency, y*frequency) * amplitude
		maxVal += amplitude
		amplitude *= persistence
		frequency *= 2
	}

	return total / maxVal
}

// Anchor returns the corner player deploys around. Players 0 and 1 get
// opposite corners.
func (g *Generator) Anchor(player core.PlayerID) core.MapPos {
	w, h := g.config.Width-1, g.config.Height-1
	switch player % MaxPlayers {
	case 0:
		return core.MapPos{X: 0, Y: 0}
	case 1:
		return core.MapPos{X: w, Y: h}
	case 2:
		return core.MapPos{X: w, Y: 0}
	default:
		return core.MapPos{X: 0, Y: h}
	}
}

// DeployUnits creates every player's units with full points. Ids are
// assigned player by player in roster order. Each unit takes the free tile
// it can stand on that is closest to its player's anchor.
func (g *Generator) DeployUnits(m *core.Map) ([]*core.Unit, error) {
	if err := g.config.Validate(); err != nil {
		return nil, err
	}

	occupied := make(map[core.MapPos]bool)
	units := make([]*core.Unit, 0, g.config.PlayerCount*g.config.UnitsPerPlayer)
	nextID := core.UnitID(0)

	for p := 0; p < g.config.PlayerCount; p++ {
		player := core.PlayerID(p)
		tiles := tilesByDistance(m, g.Anchor(player))

		for i := 0; i < g.config.UnitsPerPlayer; i++ {
			name := g.config.Roster[i%len(g.config.Roster)]
			typeID, ok := g.types.UnitTypeByName(name)
			if !ok {
				return nil, fmt.Errorf("roster: unknown unit type %q", name)
			}

			unit := g.types.NewUnit(nextID, typeID, player, core.MapPos{})
			pos, found := firstFreeTile(m, tiles, occupied, func(pos core.MapPos) bool {
				_, passable := g.types.MoveCost(unit, m.Terrain(pos))
				return passable
			})
			if !found {
				return nil, fmt.Errorf("no room to deploy %s %q for %s", unit.ID, name, player)
			}

			unit.Pos = pos
			occupied[pos] = true
			units = append(units, unit)
			nextID++
		}
	}
	return units, nil
}

// tilesByDistance lists every tile ordered by distance from anchor, ties
// broken by tile index
func tilesByDistance(m *core.Map, anchor core.MapPos) []core.MapPos {
	tiles := make([]core.MapPos, m.TileCount())
	for idx := range tiles {
		tiles[idx] = m.Pos(idx)
	}
	sort.SliceStable(tiles, func(i, j int) bool {
		return core.Distance(anchor, tiles[i]) < core.Distance(anchor, tiles[j])
	})
	return tiles
}

func firstFreeTile(m *core.Map, tiles []core.MapPos, occupied map[core.MapPos]bool, canStand func(core.MapPos) bool) (core.MapPos, bool) {
	for _, pos := range tiles {
		if !occupied[pos] && m.IsInboard(pos) && canStand(pos) {
			return pos, true
		}
	}
	return core.MapPos{}, false
}
