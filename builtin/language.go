package builtin

import (
	"context"
	"fmt"
	"strings"

	"github.com/oklahomer/go-sarah/v4"

	"github.com/oklahomer/go-sarah-discordbot"
	"github.com/oklahomer/go-sarah-discordbot/command"
	"github.com/oklahomer/go-sarah-discordbot/locale"
	"github.com/oklahomer/go-sarah-discordbot/settings"
)

// Language shows the caller's language, or sets it when a language is given.
func Language(store Store, selector *locale.Selector) *command.Command {
	return &command.Command{
		Name:        "language",
		Aliases:     []string{"lang"},
		Description: "Shows or sets your language.",
		Handler: func(_ context.Context, req *command.Request) (*sarah.CommandResponse, error) {
			userID := req.Event.Author.ID
			table := selector.Pick(userID, req.Event.GuildID)

			arg := firstArg(req.Args)
			if arg != "" {
				return chooseLanguage(store, table, req.Input, userID, arg)
			}

			current := selector.StringsFor(userID)
			if current != nil {
				return discord.NewResponse(req.Input, current.Sprintf("language.current", current.Get("language.name")))
			}

			// The caller's next message is taken as the choice.
			next := func(_ context.Context, input sarah.Input) (*sarah.CommandResponse, error) {
				return chooseLanguage(store, table, input, userID, strings.TrimSpace(input.Message()))
			}
			return discord.NewResponse(req.Input, table.Sprintf("language.unset", locale.SupportedNames()), discord.RespWithNext(next))
		},
	}
}

// chooseLanguage stores the language named by arg for userID and replies in it.
// An unknown name is answered in table.
func chooseLanguage(store Store, table *locale.Table, input sarah.Input, userID string, arg string) (*sarah.CommandResponse, error) {
	lang, ok := locale.ParseLanguage(arg)
	if !ok {
		return discord.NewResponse(input, table.Sprintf("language.unknown", arg, locale.SupportedNames()))
	}

	if err := setLanguage(store, userID, settings.NewUserConfig(string(lang)), lang); err != nil {
		return nil, fmt.Errorf("failed to set language of %s: %w", userID, err)
	}

	updated, _ := locale.Lookup(lang)
	return discord.NewResponse(input, updated.Sprintf("language.updated", updated.Get("language.name")))
}

// ServerLanguage sets the language of the guild the command is sent in.
func ServerLanguage(store Store, selector *locale.Selector, prefix string) *command.Command {
	return &command.Command{
		Name:        "serverlanguage",
		Aliases:     []string{"serverlang"},
		Description: "Sets the language of this server.",
		ServerOnly:  true,
		Handler: func(_ context.Context, req *command.Request) (*sarah.CommandResponse, error) {
			guildID := req.Event.GuildID
			table := selector.Pick(req.Event.Author.ID, guildID)

			arg := firstArg(req.Args)
			if arg == "" {
				return discord.NewResponse(req.Input, table.Sprintf("serverlanguage.usage", prefix, locale.SupportedNames()))
			}

			lang, ok := locale.ParseLanguage(arg)
			if !ok {
				return discord.NewResponse(req.Input, table.Sprintf("language.unknown", arg, locale.SupportedNames()))
			}

			if err := setLanguage(store, guildID, settings.NewServerConfig(string(lang)), lang); err != nil {
				return nil, fmt.Errorf("failed to set language of guild %s: %w", guildID, err)
			}

			updated, _ := locale.Lookup(lang)
			return discord.NewResponse(req.Input, updated.Sprintf("serverlanguage.updated", updated.Get("language.name")))
		},
	}
}
