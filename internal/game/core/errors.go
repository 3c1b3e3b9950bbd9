package core

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidPosition        = errors.New("invalid position")
	ErrUnknownUnit            = errors.New("unknown unit")
	ErrNotYourUnit            = errors.New("unit not owned by player")
	ErrNotYourTurn            = errors.New("not the player's turn")
	ErrNoAttackPoints         = errors.New("no attack points left")
	ErrOutOfRange             = errors.New("target out of range")
	ErrFriendlyFire           = errors.New("target is a friendly unit")
	ErrBadPath                = errors.New("malformed path")
	ErrTileOccupied           = errors.New("tile is occupied")
	ErrImpassable             = errors.New("tile is impassable")
	ErrInsufficientMovePoints = errors.New("insufficient move points")
	ErrTransported            = errors.New("unit is being transported")
	ErrMatchOver              = errors.New("match is over")
	ErrInvalidPlayer          = errors.New("invalid player ID")
	ErrUnknownCommand         = errors.New("unknown command")
)

// WrapCommandError adds the command's details to err
func WrapCommandError(cmd Command, err error) error {
	if err == nil {
		return nil
	}
	switch c := cmd.(type) {
	case AttackUnit:
		return fmt.Errorf("attack %s -> %s: %w", c.AttackerID, c.DefenderID, err)
	case Move:
		if c.Path.Len() == 0 {
			return fmt.Errorf("move %s: %w", c.UnitID, err)
		}
		return fmt.Errorf("move %s from %s to %s: %w", c.UnitID, c.Path.Origin(), c.Path.Destination(), err)
	case EndTurn:
		return fmt.Errorf("end turn: %w", err)
	default:
		return fmt.Errorf("command: %w", err)
	}
}

// WrapMatchStateError adds the turn and phase to err
func WrapMatchStateError(turn int, phase string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("turn %d, phase %s: %w", turn, phase, err)
}
