package game

import (
	"fmt"
	"strings"

	"github.com/mitchelldurbincs/HexTactics/internal/game/core"
	"github.com/mitchelldurbincs/HexTactics/internal/game/registry"
)

// This file contains all board rendering functionality for the game engine.

// ANSI color codes
const (
	ColorReset  = "\033[0m"
	ColorRed    = "\033[31m"
	ColorGreen  = "\033[32m"
	ColorYellow = "\033[33m"
	ColorBlue   = "\033[34m"
	ColorPurple = "\033[35m"
	ColorCyan   = "\033[36m"
	ColorWhite  = "\033[37m"
	ColorGray   = "\033[90m"
)

var playerColors = []string{ColorRed, ColorBlue, ColorGreen, ColorYellow, ColorPurple, ColorCyan}

const (
	playerSymbols = "ABCDEFGH"
	cellWidth     = 4
)

var terrainSymbols = map[core.Terrain]string{
	core.TerrainPlain: ".",
	core.TerrainTrees: "T",
	core.TerrainHills: "^",
	core.TerrainRoad:  "=",
	core.TerrainWater: "~",
}

// Board renders the map as seen by viewer. A negative viewer shows the
// canonical state with every unit.
func (e *Engine) Board(viewer core.PlayerID, colored bool) string {
	gs := e.gs
	if viewer >= 0 {
		gs = e.StateFor(viewer)
	}
	return RenderBoard(gs, e.types, colored)
}

// RenderBoard draws the hex grid as text. Even rows are indented by half a
// cell. A unit is drawn as its player's letter followed by the first letter of
// its type name and its remaining count.
func RenderBoard(gs *GameState, types *registry.ObjectTypes, colored bool) string {
	m := gs.Map

	var sb strings.Builder
	sb.Grow((m.W*cellWidth + 8) * (m.H + 3))

	// Header row
	sb.WriteString("    ")
	for x := 0; x < m.W; x++ {
		fmt.Fprintf(&sb, "%-*d", cellWidth, x)
	}
	sb.WriteString("\n")

	for y := 0; y < m.H; y++ {
		fmt.Fprintf(&sb, "%2d  ", y)
		if y%2 == 0 {
			sb.WriteString(strings.Repeat(" ", cellWidth/2))
		}
		for x := 0; x < m.W; x++ {
			pos := core.MapPos{X: x, Y: y}
			color, symbol := tileDisplay(gs, types, pos)
			if colored && color != "" {
				sb.WriteString(color)
				sb.WriteString(symbol)
				sb.WriteString(ColorReset)
			} else {
				sb.WriteString(symbol)
			}
			sb.WriteString(strings.Repeat(" ", cellWidth-len(symbol)))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("\n.=plain T=trees ^=hills ==road ~=water  A-H=players\n")
	return sb.String()
}

// tileDisplay returns the color and symbol for one tile. Symbols are ASCII
// so that len gives the printed width.
func tileDisplay(gs *GameState, types *registry.ObjectTypes, pos core.MapPos) (string, string) {
	if u := gs.UnitAt(pos); u != nil {
		typeInitial := "?"
		if ut, ok := types.UnitType(u.TypeID); ok && ut.Name != "" {
			typeInitial = ut.Name[:1]
		}
		count := u.Count
		if count > 9 {
			count = 9
		}
		symbol := fmt.Sprintf("%c%s%d", playerSymbols[int(u.PlayerID)%len(playerSymbols)], typeInitial, count)
		return getPlayerColor(u.PlayerID), symbol
	}

	terrain := gs.Map.Terrain(pos)
	symbol, ok := terrainSymbols[terrain]
	if !ok {
		symbol = "?"
	}
	switch terrain {
	case core.TerrainWater:
		return ColorCyan, symbol
	case core.TerrainTrees:
		return ColorGreen, symbol
	default:
		return ColorGray, symbol
	}
}

// getPlayerColor returns the color for the given player ID
func getPlayerColor(playerID core.PlayerID) string {
	if playerID < 0 || int(playerID) >= len(playerColors) {
		return ColorWhite
	}
	return playerColors[playerID]
}
