package core

import "fmt"

// CommandKind represents the type of command
type CommandKind int

const (
	CommandAttackUnit CommandKind = iota
	CommandMove
	CommandEndTurn
)

func (k CommandKind) String() string {
	switch k {
	case CommandAttackUnit:
		return "attack_unit"
	case CommandMove:
		return "move"
	case CommandEndTurn:
		return "end_turn"
	default:
		return fmt.Sprintf("CommandKind(%d)", int(k))
	}
}

// Command is a state transition requested by a player. The set of commands is
// closed: AttackUnit, Move and EndTurn are the only implementations, and
// executors switch over them exhaustively.
type Command interface {
	Kind() CommandKind
	isCommand()
}

// AttackUnit orders one unit to fire at another
type AttackUnit struct {
	AttackerID UnitID
	DefenderID UnitID
}

// Move orders a unit along a path whose origin is the unit's current position
type Move struct {
	UnitID UnitID
	Path   MapPath
}

// EndTurn passes control to the next player
type EndTurn struct{}

func (AttackUnit) Kind() CommandKind { return CommandAttackUnit }
func (Move) Kind() CommandKind { return CommandMove }
func (EndTurn) Kind() CommandKind { return CommandEndTurn }

func (AttackUnit) isCommand() {}
func (Move) isCommand() {}
func (EndTurn) isCommand() {}

func (c AttackUnit) String() string {
	return fmt.Sprintf("AttackUnit{%s -> %s}", c.AttackerID, c.DefenderID)
}

func (c Move) String() string {
	return fmt.Sprintf("Move{%s via %s}", c.UnitID, c.Path)
}

func (EndTurn) String() string { return "EndTurn" }
