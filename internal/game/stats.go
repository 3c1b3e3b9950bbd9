package game

import "github.com/mitchelldurbincs/HexTactics/internal/game/events"

// updatePlayerStats recounts every player's units and updates alive status.
// A player is alive while they own at least one unit. With publish set, a
// PlayerEliminated event is published for every player that just died.
func (e *Engine) updatePlayerStats(publish bool) {
	for pid := range e.players {
		e.players[pid].UnitCount = 0
	}

	for _, u := range e.gs.Units {
		if int(u.PlayerID) < len(e.players) {
			e.players[u.PlayerID].UnitCount++
		}
	}

	for pid := range e.players {
		p := &e.players[pid]
		wasAlive := p.Alive
		p.Alive = p.UnitCount > 0
		if wasAlive && !p.Alive {
			e.logger.Info().Int("player_id", pid).Int("turn", e.turn).Msg("Player lost their last unit and is eliminated")
			if publish {
				e.eventBus.Publish(events.NewPlayerEliminatedEvent(e.matchID, e.turn, p.ID))
			}
		} else if !wasAlive && p.Alive {
			e.logger.Warn().Int("player_id", pid).Msg("Eliminated player owns units again")
		}
	}
}
