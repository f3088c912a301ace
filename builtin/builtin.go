package builtin

import (
	"context"
	"errors"

	"github.com/oklahomer/go-sarah-discordbot/command"
	"github.com/oklahomer/go-sarah-discordbot/locale"
	"github.com/oklahomer/go-sarah-discordbot/settings"
)

// Store is the part of settings.Store the built-in commands use.
type Store interface {
	Read(id string) settings.Document
	Set(id string, key string, value any) error
	Create(id string, doc settings.Document) error
	Raw(id string) ([]byte, error)
}

var _ Store = (*settings.Store)(nil)

// Uploader hosts a file and returns the attachment ID.
// *discord.Uploader satisfies this interface.
type Uploader interface {
	Upload(ctx context.Context, data []byte, filename string) (string, error)
}

// Deps holds what the built-in commands work with.
type Deps struct {
	Store    Store
	Selector *locale.Selector

	// Uploader is optional. Without it the export command is not provided.
	Uploader Uploader

	// Prefix is quoted in usage messages.
	Prefix string
}

// Commands returns the built-in commands in the order they are listed in help.
func Commands(deps *Deps) []*command.Command {
	cmds := []*command.Command{
		Ping(deps.Selector),
		Language(deps.Store, deps.Selector),
		ServerLanguage(deps.Store, deps.Selector, deps.Prefix),
	}

	if deps.Uploader != nil {
		cmds = append(cmds, Export(deps.Store, deps.Selector, deps.Uploader))
	}

	return cmds
}

// setLanguage stores lang for the identity, creating its document on first use.
func setLanguage(store Store, id string, doc settings.Document, lang locale.Language) error {
	err := store.Set(id, "language", string(lang))
	if !errors.Is(err, settings.ErrNotFound) {
		return err
	}

	err = store.Create(id, doc)
	if errors.Is(err, settings.ErrExists) {
		// Created by a concurrent request in the meantime.
		return store.Set(id, "language", string(lang))
	}
	return err
}

// firstArg returns the first non-empty argument.
func firstArg(args []string) string {
	for _, arg := range args {
		if arg != "" {
			return arg
		}
	}
	return ""
}
