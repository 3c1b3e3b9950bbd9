package game

import (
	"github.com/mitchelldurbincs/HexTactics/internal/game/core"
	"github.com/mitchelldurbincs/HexTactics/internal/game/events"
)

// This file contains turn order handling for the game engine.

// endTurn passes control to the next alive player. The turn counter advances
// when play wraps around to a lower player id. The incoming player's units get
// their move, attack and reactive attack points back.
func (e *Engine) endTurn() {
	e.eventBus.Publish(events.NewTurnEndedEvent(e.matchID, e.turn, e.current, e.commandsThisTurn))
	e.commandsThisTurn = 0

	next, ok := e.nextAlivePlayer()
	if !ok {
		e.checkMatchOver()
		return
	}
	if next <= e.current {
		e.turn++
		e.logger.Debug().Int("turn", e.turn).Msg("New turn")
	}
	e.current = next

	e.checkMatchOver()
	if e.result.Over {
		return
	}

	e.refreshPoints(next)
	e.eventBus.Publish(events.NewTurnStartedEvent(e.matchID, e.turn, next))
}

// nextAlivePlayer returns the first alive player after the current one,
// wrapping around. The current player is returned only if nobody else is alive.
func (e *Engine) nextAlivePlayer() (core.PlayerID, bool) {
	n := len(e.players)
	for step := 1; step <= n; step++ {
		candidate := (int(e.current) + step) % n
		if e.players[candidate].Alive {
			return core.PlayerID(candidate), true
		}
	}
	return 0, false
}

func (e *Engine) refreshPoints(player core.PlayerID) {
	for _, u := range e.gs.PlayerUnits(player) {
		e.types.RefreshPoints(u)
	}
}
