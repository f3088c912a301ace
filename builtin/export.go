package builtin

import (
	"context"
	"errors"
	"fmt"

	"github.com/oklahomer/go-kasumi/logger"
	"github.com/oklahomer/go-sarah/v4"

	"github.com/oklahomer/go-sarah-discordbot"
	"github.com/oklahomer/go-sarah-discordbot/command"
	"github.com/oklahomer/go-sarah-discordbot/locale"
	"github.com/oklahomer/go-sarah-discordbot/settings"
)

// Export uploads the stored settings of the caller, or of the given ID, and replies with the attachment ID.
func Export(store Store, selector *locale.Selector, uploader Uploader) *command.Command {
	return &command.Command{
		Name:        "export",
		Description: "Uploads a stored settings document.",
		Developer:   true,
		Handler: func(ctx context.Context, req *command.Request) (*sarah.CommandResponse, error) {
			table := selector.Pick(req.Event.Author.ID, req.Event.GuildID)

			id := firstArg(req.Args)
			if id == "" {
				id = req.Event.Author.ID
			}

			data, err := store.Raw(id)
			if errors.Is(err, settings.ErrNotFound) || errors.Is(err, settings.ErrInvalidID) {
				return discord.NewResponse(req.Input, table.Sprintf("export.missing", id))
			}
			if err != nil {
				return nil, fmt.Errorf("failed to read settings of %s: %w", id, err)
			}

			attachmentID, err := uploader.Upload(ctx, data, id+".json")
			if err != nil {
				logger.Errorf("Failed to upload settings of %s: %+v", id, err)
				return discord.NewResponse(req.Input, table.Sprintf("export.failed", err.Error()))
			}

			return discord.NewResponse(req.Input, table.Sprintf("export.done", id, attachmentID))
		},
	}
}
