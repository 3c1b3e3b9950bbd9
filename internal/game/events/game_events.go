package events

import (
	"time"

	"github.com/mitchelldurbincs/HexTactics/internal/game/core"
)

// Event type constants
const (
	TypeMatchStarted     = "match.started"
	TypeMatchEnded       = "match.ended"
	TypePhaseChanged     = "match.phase_changed"
	TypeTurnStarted      = "turn.started"
	TypeTurnEnded        = "turn.ended"
	TypeCommandApplied   = "command.applied"
	TypeCommandRejected  = "command.rejected"
	TypeUnitMoved        = "unit.moved"
	TypeUnitAttacked     = "unit.attacked"
	TypeUnitDestroyed    = "unit.destroyed"
	TypePlayerEliminated = "player.eliminated"
)

// MatchStartedEvent is published once the map is generated and units deployed
type MatchStartedEvent struct {
	BaseEvent
	NumPlayers int
	NumUnits   int
	MapWidth   int
	MapHeight  int
	Seed       int64
}

func NewMatchStartedEvent(matchID string, numPlayers, numUnits, width, height int, seed int64) *MatchStartedEvent {
	return &MatchStartedEvent{
		BaseEvent:  newBase(TypeMatchStarted, matchID),
		NumPlayers: numPlayers,
		NumUnits:   numUnits,
		MapWidth:   width,
		MapHeight:  height,
		Seed:       seed,
	}
}

// MatchEndedEvent is published when the match stops for any reason
type MatchEndedEvent struct {
	BaseEvent
	Winner    core.PlayerID
	FinalTurn int
	Duration  time.Duration
	Reason    string
}

func NewMatchEndedEvent(matchID string, winner core.PlayerID, finalTurn int, duration time.Duration, reason string) *MatchEndedEvent {
	return &MatchEndedEvent{
		BaseEvent: newBase(TypeMatchEnded, matchID),
		Winner:    winner,
		FinalTurn: finalTurn,
		Duration:  duration,
		Reason:    reason,
	}
}

// PhaseChangedEvent records a match phase transition
type PhaseChangedEvent struct {
	BaseEvent
	From   string
	To     string
	Reason string
}

func NewPhaseChangedEvent(matchID, from, to, reason string) *PhaseChangedEvent {
	return &PhaseChangedEvent{
		BaseEvent: newBase(TypePhaseChanged, matchID),
		From:      from,
		To:        to,
		Reason:    reason,
	}
}

// TurnStartedEvent is published when a player's turn begins
type TurnStartedEvent struct {
	BaseEvent
	Metadata EventMetadata
}

func NewTurnStartedEvent(matchID string, turn int, playerID core.PlayerID) *TurnStartedEvent {
	return &TurnStartedEvent{
		BaseEvent: newBase(TypeTurnStarted, matchID),
		Metadata:  EventMetadata{PlayerID: playerID, Turn: turn},
	}
}

// TurnEndedEvent is published when a player's turn ends
type TurnEndedEvent struct {
	BaseEvent
	Metadata EventMetadata
	Commands int
}

func NewTurnEndedEvent(matchID string, turn int, playerID core.PlayerID, commands int) *TurnEndedEvent {
	return &TurnEndedEvent{
		BaseEvent: newBase(TypeTurnEnded, matchID),
		Metadata:  EventMetadata{PlayerID: playerID, Turn: turn},
		Commands:  commands,
	}
}

// CommandAppliedEvent is published after the engine executed a command
type CommandAppliedEvent struct {
	BaseEvent
	Metadata EventMetadata
	Command  core.Command
}

func NewCommandAppliedEvent(matchID string, turn int, playerID core.PlayerID, cmd core.Command) *CommandAppliedEvent {
	return &CommandAppliedEvent{
		BaseEvent: newBase(TypeCommandApplied, matchID),
		Metadata:  EventMetadata{PlayerID: playerID, Turn: turn},
		Command:   cmd,
	}
}

// CommandRejectedEvent is published when the engine refuses a command
type CommandRejectedEvent struct {
	BaseEvent
	Metadata EventMetadata
	Command  core.Command
	Reason   string
}

func NewCommandRejectedEvent(matchID string, turn int, playerID core.PlayerID, cmd core.Command, reason error) *CommandRejectedEvent {
	return &CommandRejectedEvent{
		BaseEvent: newBase(TypeCommandRejected, matchID),
		Metadata:  EventMetadata{PlayerID: playerID, Turn: turn},
		Command:   cmd,
		Reason:    reason.Error(),
	}
}

// UnitMovedEvent is published once per completed move
type UnitMovedEvent struct {
	BaseEvent
	Metadata EventMetadata
	UnitID   core.UnitID
	From     core.MapPos
	To       core.MapPos
	Cost     int
}

func NewUnitMovedEvent(matchID string, turn int, unit *core.Unit, from core.MapPos, cost int) *UnitMovedEvent {
	return &UnitMovedEvent{
		BaseEvent: newBase(TypeUnitMoved, matchID),
		Metadata:  EventMetadata{PlayerID: unit.PlayerID, Turn: turn},
		UnitID:    unit.ID,
		From:      from,
		To:        unit.Pos,
		Cost:      cost,
	}
}

// UnitAttackedEvent describes one resolved attack, including reaction fire
type UnitAttackedEvent struct {
	BaseEvent
	Metadata   EventMetadata
	AttackerID core.UnitID
	DefenderID core.UnitID
	Shots      int
	Hits       int
	Killed     int
	Reaction   bool
}

func NewUnitAttackedEvent(matchID string, turn int, attacker, defender *core.Unit, shots, hits, killed int, reaction bool) *UnitAttackedEvent {
	return &UnitAttackedEvent{
		BaseEvent:  newBase(TypeUnitAttacked, matchID),
		Metadata:   EventMetadata{PlayerID: attacker.PlayerID, Turn: turn},
		AttackerID: attacker.ID,
		DefenderID: defender.ID,
		Shots:      shots,
		Hits:       hits,
		Killed:     killed,
		Reaction:   reaction,
	}
}

// UnitDestroyedEvent is published when a unit leaves the board for good
type UnitDestroyedEvent struct {
	BaseEvent
	Metadata EventMetadata
	UnitID   core.UnitID
	Pos      core.MapPos
}

func NewUnitDestroyedEvent(matchID string, turn int, unit *core.Unit) *UnitDestroyedEvent {
	return &UnitDestroyedEvent{
		BaseEvent: newBase(TypeUnitDestroyed, matchID),
		Metadata:  EventMetadata{PlayerID: unit.PlayerID, Turn: turn},
		UnitID:    unit.ID,
		Pos:       unit.Pos,
	}
}

// PlayerEliminatedEvent is published when a player loses their last unit
type PlayerEliminatedEvent struct {
	BaseEvent
	Metadata EventMetadata
}

func NewPlayerEliminatedEvent(matchID string, turn int, playerID core.PlayerID) *PlayerEliminatedEvent {
	return &PlayerEliminatedEvent{
		BaseEvent: newBase(TypePlayerEliminated, matchID),
		Metadata:  EventMetadata{PlayerID: playerID, Turn: turn},
	}
}
