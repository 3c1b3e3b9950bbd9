package subscribers

import (
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/HexTactics/internal/game/events"
)

// LoggerSubscriber logs events to structured logs
type LoggerSubscriber struct {
	id              string
	logger          zerolog.Logger
	logLevel        zerolog.Level
	eventTypeFilter map[string]bool // nil logs every type
	devMode         bool            // also log the full event as JSON
}

// NewLoggerSubscriber creates a new logger subscriber
func NewLoggerSubscriber(id string, logger zerolog.Logger, logLevel zerolog.Level) *LoggerSubscriber {
	return &LoggerSubscriber{
		id:       id,
		logger:   logger.With().Str("subscriber", "event_logger").Logger(),
		logLevel: logLevel,
	}
}

func (ls *LoggerSubscriber) ID() string { return ls.id }

// SetEventFilter sets which event types to log (empty means log all)
func (ls *LoggerSubscriber) SetEventFilter(eventTypes []string) {
	if len(eventTypes) == 0 {
		ls.eventTypeFilter = nil
		return
	}

	ls.eventTypeFilter = make(map[string]bool, len(eventTypes))
	for _, eventType := range eventTypes {
		ls.eventTypeFilter[eventType] = true
	}
}

func (ls *LoggerSubscriber) SetDevMode(enabled bool) {
	ls.devMode = enabled
}

func (ls *LoggerSubscriber) InterestedIn(eventType string) bool {
	if ls.eventTypeFilter == nil {
		return true
	}
	return ls.eventTypeFilter[eventType]
}

// HandleEvent logs the event with its type-specific fields
func (ls *LoggerSubscriber) HandleEvent(event events.Event) {
	logEvent := ls.logger.WithLevel(ls.logLevel).
		Str("event_type", event.Type()).
		Str("match_id", event.MatchID())

	switch e := event.(type) {
	case *events.MatchStartedEvent:
		logEvent.
			Int("num_players", e.NumPlayers).
			Int("num_units", e.NumUnits).
			Int("map_width", e.MapWidth).
			Int("map_height", e.MapHeight).
			Int64("seed", e.Seed)

	case *events.MatchEndedEvent:
		logEvent.
			Int("winner", int(e.Winner)).
			Int("final_turn", e.FinalTurn).
			Dur("duration", e.Duration).
			Str("reason", e.Reason)

	case *events.PhaseChangedEvent:
		logEvent.
			Str("from", e.From).
			Str("to", e.To).
			Str("reason", e.Reason)

	case *events.TurnStartedEvent:
		logEvent.
			Int("turn", e.Metadata.Turn).
			Int("player_id", int(e.Metadata.PlayerID))

	case *events.TurnEndedEvent:
		logEvent.
			Int("turn", e.Metadata.Turn).
			Int("player_id", int(e.Metadata.PlayerID)).
			Int("commands", e.Commands)

	case *events.CommandAppliedEvent:
		logEvent.
			Int("turn", e.Metadata.Turn).
			Int("player_id", int(e.Metadata.PlayerID)).
			Str("command", fmt.Sprint(e.Command))

	case *events.CommandRejectedEvent:
		logEvent.
			Int("turn", e.Metadata.Turn).
			Int("player_id", int(e.Metadata.PlayerID)).
			Str("command", fmt.Sprint(e.Command)).
			Str("reason", e.Reason)

	case *events.UnitMovedEvent:
		logEvent.
			Int("unit_id", int(e.UnitID)).
			Stringer("from", e.From).
			Stringer("to", e.To).
			Int("cost", e.Cost)

	case *events.UnitAttackedEvent:
		logEvent.
			Int("attacker_id", int(e.AttackerID)).
			Int("defender_id", int(e.DefenderID)).
			Int("shots", e.Shots).
			Int("hits", e.Hits).
			Int("killed", e.Killed).
			Bool("reaction", e.Reaction)

	case *events.UnitDestroyedEvent:
		logEvent.
			Int("unit_id", int(e.UnitID)).
			Int("player_id", int(e.Metadata.PlayerID)).
			Stringer("pos", e.Pos)

	case *events.PlayerEliminatedEvent:
		logEvent.
			Int("turn", e.Metadata.Turn).
			Int("player_id", int(e.Metadata.PlayerID))
	}

	if ls.devMode {
		if jsonData, err := json.Marshal(event); err == nil {
			logEvent.RawJSON("event_data", jsonData)
		}
	}

	logEvent.Msg("Match event")
}
