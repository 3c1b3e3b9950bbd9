package rules

import (
	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/HexTactics/internal/game/core"
)

// NoWinner is reported for a draw or a match that is still running
const NoWinner core.PlayerID = -1

// Match end reasons
const (
	ReasonLastStanding = "last player standing"
	ReasonAnnihilation = "all players eliminated"
	ReasonTurnLimit    = "turn limit reached"
)

// Player interface to avoid circular imports
type Player interface {
	GetID() core.PlayerID
	IsAlive() bool
}

// MatchResult is the outcome of a win condition check
type MatchResult struct {
	Over   bool
	Winner core.PlayerID
	Reason string
}

// WinConditionChecker handles match over detection and winner determination
type WinConditionChecker struct {
	logger          zerolog.Logger
	originalPlayers int
	maxTurns        int
}

// NewWinConditionChecker creates a checker. maxTurns <= 0 disables the turn limit.
func NewWinConditionChecker(logger zerolog.Logger, originalPlayers, maxTurns int) *WinConditionChecker {
	return &WinConditionChecker{
		logger:          logger.With().Str("component", "WinConditionChecker").Logger(),
		originalPlayers: originalPlayers,
		maxTurns:        maxTurns,
	}
}

// Check decides whether the match is over. A player is alive while they own
// at least one unit. The match ends when at most one player is alive, or when
// turn passes the turn limit; the limit ends in a draw.
func (wc *WinConditionChecker) Check(players []Player, turn int) MatchResult {
	aliveCount := 0
	lastAlive := NoWinner
	for _, p := range players {
		if p.IsAlive() {
			aliveCount++
			lastAlive = p.GetID()
		}
	}

	result := MatchResult{Winner: NoWinner}
	switch {
	case wc.originalPlayers > 1 && aliveCount == 1:
		result = MatchResult{Over: true, Winner: lastAlive, Reason: ReasonLastStanding}
	case aliveCount == 0:
		result = MatchResult{Over: true, Winner: NoWinner, Reason: ReasonAnnihilation}
	case wc.maxTurns > 0 && turn > wc.maxTurns:
		result = MatchResult{Over: true, Winner: NoWinner, Reason: ReasonTurnLimit}
	}

	if result.Over {
		wc.logger.Info().
			Int("winner_player_id", int(result.Winner)).
			Int("alive_player_count", aliveCount).
			Str("reason", result.Reason).
			Msg("Match over")
	} else {
		wc.logger.Debug().Int("alive_player_count", aliveCount).Int("turn", turn).Msg("Match continues")
	}
	return result
}
