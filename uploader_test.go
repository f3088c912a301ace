package discord

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/bwmarrin/discordgo"
)

// mockExecutor implements webhookExecutor for testing.
type mockExecutor struct {
	executeFunc func(webhookID, token string, wait bool, data *discordgo.WebhookParams, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

func (m *mockExecutor) WebhookExecute(webhookID, token string, wait bool, data *discordgo.WebhookParams, options ...discordgo.RequestOption) (*discordgo.Message, error) {
	return m.executeFunc(webhookID, token, wait, data, options...)
}

func TestNewUploader(t *testing.T) {
	valid := map[string][2]string{
		"https://discord.com/api/webhooks/123/abc":        {"123", "abc"},
		"https://discord.com/api/v10/webhooks/123/abc/":   {"123", "abc"},
		"https://discordapp.com/api/webhooks/456/d-e_f?x": {"456", "d-e_f"},
	}
	for webhookURL, expected := range valid {
		uploader, err := NewUploader(&mockExecutor{}, webhookURL)
		if err != nil {
			t.Errorf("Unexpected error for %q: %+v", webhookURL, err)
			continue
		}

		if uploader.webhookID != expected[0] || uploader.token != expected[1] {
			t.Errorf("Expected %v for %q, got %q and %q", expected, webhookURL, uploader.webhookID, uploader.token)
		}
	}

	invalid := []string{
		"",
		"https://discord.com/api/webhooks/123",
		"https://discord.com/api/channels/123/abc",
		"://broken",
	}
	for _, webhookURL := range invalid {
		_, err := NewUploader(&mockExecutor{}, webhookURL)
		if !errors.Is(err, ErrInvalidWebhookURL) {
			t.Errorf("Expected ErrInvalidWebhookURL for %q, got %+v", webhookURL, err)
		}
	}
}

func TestUploader_Upload(t *testing.T) {
	t.Run("returns the attachment ID", func(t *testing.T) {
		var gotWait bool
		var gotName, gotBody string
		executor := &mockExecutor{
			executeFunc: func(webhookID, token string, wait bool, data *discordgo.WebhookParams, options ...discordgo.RequestOption) (*discordgo.Message, error) {
				if webhookID != "123" || token != "abc" {
					t.Errorf("Unexpected webhook: %q %q", webhookID, token)
				}

				if len(options) != 1 {
					t.Errorf("Expected the context option, got %d options", len(options))
				}

				gotWait = wait
				gotName = data.Files[0].Name
				body, _ := io.ReadAll(data.Files[0].Reader)
				gotBody = string(body)

				return &discordgo.Message{
					Attachments: []*discordgo.MessageAttachment{{ID: "att-1"}},
				}, nil
			},
		}
		uploader, err := NewUploader(executor, "https://discord.com/api/webhooks/123/abc")
		if err != nil {
			t.Fatalf("Unexpected error: %+v", err)
		}

		id, err := uploader.Upload(context.Background(), []byte(`{"type": "user"}`), "user-1.json")
		if err != nil {
			t.Fatalf("Unexpected error: %+v", err)
		}

		if id != "att-1" {
			t.Errorf("Expected %q, got %q", "att-1", id)
		}

		if !gotWait {
			t.Error("Expected to wait for the created message")
		}

		if gotName != "user-1.json" {
			t.Errorf("Unexpected file name: %q", gotName)
		}

		if gotBody != `{"type": "user"}` {
			t.Errorf("Unexpected body: %q", gotBody)
		}
	})

	t.Run("transport error is returned as-is", func(t *testing.T) {
		transportErr := errors.New("HTTP 429 Too Many Requests")
		calls := 0
		executor := &mockExecutor{
			executeFunc: func(_, _ string, _ bool, _ *discordgo.WebhookParams, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
				calls++
				return nil, transportErr
			},
		}
		uploader, _ := NewUploader(executor, "https://discord.com/api/webhooks/123/abc")

		_, err := uploader.Upload(context.Background(), []byte("data"), "file.json")
		if err != transportErr {
			t.Errorf("Expected the transport error, got %+v", err)
		}

		if calls != 1 {
			t.Errorf("Expected a single attempt, got %d", calls)
		}
	})

	t.Run("response without attachment", func(t *testing.T) {
		executor := &mockExecutor{
			executeFunc: func(_, _ string, _ bool, _ *discordgo.WebhookParams, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
				return &discordgo.Message{}, nil
			},
		}
		uploader, _ := NewUploader(executor, "https://discord.com/api/webhooks/123/abc")

		_, err := uploader.Upload(context.Background(), []byte("data"), "file.json")
		if !errors.Is(err, ErrNoAttachment) {
			t.Errorf("Expected ErrNoAttachment, got %+v", err)
		}
	})
}
