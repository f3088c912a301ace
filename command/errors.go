package command

import "errors"

// ErrEmptyName indicates that a command or one of its aliases has an empty name.
var ErrEmptyName = errors.New("command name must not be empty")

// ErrDuplicateName indicates that a name or alias is already registered.
var ErrDuplicateName = errors.New("duplicate command name or alias")

// ErrDeveloperOnly indicates that a developer command was invoked by a non-privileged caller.
var ErrDeveloperOnly = errors.New("command is restricted to developers")

// ErrServerOnly indicates that a server-only command was invoked outside a guild.
var ErrServerOnly = errors.New("command is restricted to servers")
