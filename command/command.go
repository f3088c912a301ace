package command

import (
	"context"
	"slices"

	"github.com/bwmarrin/discordgo"
	"github.com/oklahomer/go-sarah/v4"
)

// Request is what a Handler receives once a message resolved to an executable command.
type Request struct {
	// Input is the sarah.Input built from the Discord message.
	Input sarah.Input

	// Event is the original Discord event.
	Event *discordgo.MessageCreate

	// Args are the tokens following the command name.
	Args []string
}

// Handler executes a command.
type Handler func(ctx context.Context, req *Request) (*sarah.CommandResponse, error)

// Command is a static command definition.
// A Command must not be modified once it is registered.
type Command struct {
	// Name is the primary token that invokes the command.
	Name string

	// Aliases are alternative tokens. They must not clash with any name or alias in the same Registry.
	Aliases []string

	// Description is shown in help output.
	Description string

	// Developer restricts the command to privileged callers.
	Developer bool

	// ServerOnly restricts the command to invocations from a guild.
	ServerOnly bool

	// Handler runs the command.
	Handler Handler
}

// HasAlias reports whether token is one of the command's aliases.
func (c *Command) HasAlias(token string) bool {
	return slices.Contains(c.Aliases, token)
}

// Check tells whether cmd may run for a caller with the given privilege in the given context.
// The developer restriction is evaluated first, so at most one error is ever returned.
func Check(cmd *Command, privileged bool, inGroup bool) error {
	if cmd.Developer && !privileged {
		return ErrDeveloperOnly
	}

	if cmd.ServerOnly && !inGroup {
		return ErrServerOnly
	}

	return nil
}
