// Package command turns one line of operator input into a Command.
package command

import (
	"errors"
	"fmt"
)

// Kind identifies what the operator asked for.
type Kind int

const (
	Invalid Kind = iota
	Help
	Status
	Launch
	Refuel
	Bomb
	Quit
)

var (
	// ErrUnknownCommand is set on Invalid commands whose words are not recognised.
	ErrUnknownCommand = errors.New("unknown command")
	// ErrInvalidID is set on Invalid commands whose plane id is not an integer.
	ErrInvalidID = errors.New("invalid plane id")
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case Help:
		return "help"
	case Status:
		return "status"
	case Launch:
		return "launch"
	case Refuel:
		return "refuel"
	case Bomb:
		return "bomb"
	case Quit:
		return "quit"
	default:
		return "invalid"
	}
}

// Command is a parsed input line. ID is only meaningful for Refuel and Bomb;
// Err explains an Invalid command.
type Command struct {
	Kind  Kind
	ID    int
	Err   error
	Input string
}

// Targeted reports whether the command is addressed to a single plane.
func (c Command) Targeted() bool {
	return c.Kind == Refuel || c.Kind == Bomb
}

// String returns a compact description used in logs and trace attributes.
func (c Command) String() string {
	if c.Targeted() {
		return fmt.Sprintf("%v %d", c.Kind, c.ID)
	}
	return c.Kind.String()
}

func invalid(input string, err error) Command {
	return Command{Kind: Invalid, Err: err, Input: input}
}
