package discord

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/dustin/go-humanize"
	"github.com/oklahomer/go-kasumi/logger"
)

// webhookExecutor is the part of the session used to post files through a webhook.
// *discordgo.Session satisfies this interface.
type webhookExecutor interface {
	WebhookExecute(webhookID, token string, wait bool, data *discordgo.WebhookParams, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// Uploader hosts files as attachments of webhook messages.
type Uploader struct {
	executor  webhookExecutor
	webhookID string
	token     string
}

// NewUploader creates an Uploader posting through the webhook at webhookURL,
// e.g. https://discord.com/api/webhooks/<id>/<token>.
func NewUploader(executor webhookExecutor, webhookURL string) (*Uploader, error) {
	id, token, err := parseWebhookURL(webhookURL)
	if err != nil {
		return nil, err
	}

	return &Uploader{
		executor:  executor,
		webhookID: id,
		token:     token,
	}, nil
}

// Upload posts data as a file named filename and returns the hosted attachment's ID.
// Errors returned by Discord are passed through untouched and the upload is not retried.
func (u *Uploader) Upload(ctx context.Context, data []byte, filename string) (string, error) {
	params := &discordgo.WebhookParams{
		Files: []*discordgo.File{
			{
				Name:        filename,
				ContentType: "application/octet-stream",
				Reader:      bytes.NewReader(data),
			},
		},
	}

	msg, err := u.executor.WebhookExecute(u.webhookID, u.token, true, params, discordgo.WithContext(ctx))
	if err != nil {
		return "", err
	}

	if msg == nil || len(msg.Attachments) == 0 {
		return "", ErrNoAttachment
	}

	id := msg.Attachments[0].ID
	logger.Infof("Uploaded %s (%s) as attachment %s.", filename, humanize.Bytes(uint64(len(data))), id)
	return id, nil
}

func parseWebhookURL(webhookURL string) (string, string, error) {
	u, err := url.Parse(webhookURL)
	if err != nil {
		return "", "", fmt.Errorf("%w: %w", ErrInvalidWebhookURL, err)
	}

	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	for i, segment := range segments {
		if segment != "webhooks" {
			continue
		}
		if i+2 < len(segments) && segments[i+1] != "" && segments[i+2] != "" {
			return segments[i+1], segments[i+2], nil
		}
		break
	}

	return "", "", fmt.Errorf("%w: %q", ErrInvalidWebhookURL, webhookURL)
}
