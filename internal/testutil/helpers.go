package testutil

import (
	"math/rand"
	"testing"

	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/HexTactics/internal/game/core"
)

// NewTestRNG creates a deterministic random number generator for tests
func NewTestRNG(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// NopLogger returns a no-op logger for tests
func NopLogger() zerolog.Logger {
	return zerolog.Nop()
}

// AssertPanic asserts that the given function panics
func AssertPanic(t *testing.T, f func(), msgAndArgs ...interface{}) {
	t.Helper()
	defer func() {
		if r := recover(); r == nil {
			t.Errorf("Expected panic but none occurred: %v", msgAndArgs)
		}
	}()
	f()
}

// UniformCost prices every terrain at the same cost
type UniformCost int

func (c UniformCost) MoveCost(_ *core.Unit, _ core.Terrain) (int, bool) {
	return int(c), true
}

// TerrainCost prices terrain from a table; missing terrain is impassable
type TerrainCost map[core.Terrain]int

func (c TerrainCost) MoveCost(_ *core.Unit, terrain core.Terrain) (int, bool) {
	cost, ok := c[terrain]
	return cost, ok
}

// FixedRange reports the same maximum attack distance for every unit
type FixedRange int

func (r FixedRange) MaxAttackDist(_ *core.Unit) int { return int(r) }
