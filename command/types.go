// Package command parses REPL control input such as "/reset" or "/photo 2".
// Anything that is not a command is chat text for the sticker session.
package command

import (
	"context"
	"errors"
)

type Name string

const (
	Reset   Name = "reset"
	Photo   Name = "photo"
	Preview Name = "preview"
	Action  Name = "action"
	State   Name = "state"
	Help    Name = "help"
	Quit    Name = "quit"
	None    Name = "none"
)

// Command is a parsed control command. Arg holds the raw argument, e.g. the
// photo count or the action token.
type Command struct {
	Name Name
	Arg  string
}

// ErrNotCommand is returned by parsers that do not recognise the input.
var ErrNotCommand = errors.New("not a command")

type Parser interface {
	ParseCommand(ctx context.Context, input string) (Command, error)
}
