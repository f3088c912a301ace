package builtin

import (
	"context"

	"github.com/oklahomer/go-sarah/v4"

	"github.com/oklahomer/go-sarah-discordbot"
	"github.com/oklahomer/go-sarah-discordbot/command"
	"github.com/oklahomer/go-sarah-discordbot/locale"
)

// Ping replies with a localized pong.
func Ping(selector *locale.Selector) *command.Command {
	return &command.Command{
		Name:        "ping",
		Description: "Checks that the bot is alive.",
		Handler: func(_ context.Context, req *command.Request) (*sarah.CommandResponse, error) {
			table := selector.Pick(req.Event.Author.ID, req.Event.GuildID)
			return discord.NewResponse(req.Input, table.Get("ping.pong"))
		},
	}
}
