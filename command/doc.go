// Package command defines bot commands, the registry that looks them up by name or alias,
// and the Context produced when a message is resolved to a command.
//
// The package is transport agnostic apart from the Request handed to a Handler,
// which carries the Discord event the command was invoked from.
package command
