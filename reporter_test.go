package discord

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// mockComplexSender implements complexMessageSender for testing.
type mockComplexSender struct {
	sendFunc func(channelID string, data *discordgo.MessageSend) (*discordgo.Message, error)
}

func (m *mockComplexSender) ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	return m.sendFunc(channelID, data)
}

func newIncident(err error) *Incident {
	return &Incident{
		Severity:  SeverityError,
		Command:   "export",
		GuildID:   "guild-1",
		ChannelID: "ch-1",
		UserID:    "user-1",
		Err:       err,
	}
}

func TestSeverity_String(t *testing.T) {
	if SeverityWarning.String() != "Warning" {
		t.Errorf("Unexpected warning label: %q", SeverityWarning.String())
	}

	if SeverityError.String() != "Error" {
		t.Errorf("Unexpected error label: %q", SeverityError.String())
	}
}

func TestReporter_Report(t *testing.T) {
	t.Run("without logging channel", func(t *testing.T) {
		sender := &mockComplexSender{
			sendFunc: func(_ string, _ *discordgo.MessageSend) (*discordgo.Message, error) {
				t.Error("Nothing should be posted without a logging channel")
				return nil, nil
			},
		}
		reporter := NewReporter(sender, "")

		id := reporter.Report(newIncident(errors.New("boom")))

		if _, err := uuid.Parse(id); err != nil {
			t.Errorf("Expected a UUID reference, got %q", id)
		}
	})

	t.Run("with logging channel", func(t *testing.T) {
		var gotChannelID string
		var gotData *discordgo.MessageSend
		sender := &mockComplexSender{
			sendFunc: func(channelID string, data *discordgo.MessageSend) (*discordgo.Message, error) {
				gotChannelID = channelID
				gotData = data
				return &discordgo.Message{}, nil
			},
		}
		reporter := NewReporter(sender, "log-1")
		reporter.now = func() time.Time {
			return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
		}

		id := reporter.Report(newIncident(errors.New("boom")))

		if gotChannelID != "log-1" {
			t.Errorf("Expected channel %q, got %q", "log-1", gotChannelID)
		}

		if gotData == nil || len(gotData.Embeds) != 1 {
			t.Fatalf("Expected one embed, got %#v", gotData)
		}

		embed := gotData.Embeds[0]
		if embed.Title != "Error in export" {
			t.Errorf("Unexpected title: %q", embed.Title)
		}

		if embed.Color != errorColor {
			t.Errorf("Expected error color, got %x", embed.Color)
		}

		if !strings.Contains(embed.Description, "boom") {
			t.Errorf("Expected the error in the description, got %q", embed.Description)
		}

		if embed.Footer == nil || embed.Footer.Text != id {
			t.Errorf("Expected the reference %q in the footer, got %#v", id, embed.Footer)
		}

		if embed.Timestamp != "2024-05-01T12:00:00Z" {
			t.Errorf("Unexpected timestamp: %q", embed.Timestamp)
		}

		if len(embed.Fields) != 3 || embed.Fields[2].Value != "<@user-1>" {
			t.Errorf("Unexpected fields: %#v", embed.Fields)
		}
	})

	t.Run("send failure still returns a reference", func(t *testing.T) {
		sender := &mockComplexSender{
			sendFunc: func(_ string, _ *discordgo.MessageSend) (*discordgo.Message, error) {
				return nil, errors.New("missing access")
			},
		}
		reporter := NewReporter(sender, "log-1")

		if id := reporter.Report(newIncident(errors.New("boom"))); id == "" {
			t.Error("Expected a reference")
		}
	})

	t.Run("throttled reports stay local", func(t *testing.T) {
		posted := 0
		sender := &mockComplexSender{
			sendFunc: func(_ string, _ *discordgo.MessageSend) (*discordgo.Message, error) {
				posted++
				return &discordgo.Message{}, nil
			},
		}
		reporter := NewReporter(sender, "log-1", WithReportRate(rate.Limit(0), 2))

		ids := map[string]struct{}{}
		for range 5 {
			ids[reporter.Report(newIncident(errors.New("boom")))] = struct{}{}
		}

		if posted != 2 {
			t.Errorf("Expected 2 posts, got %d", posted)
		}

		if len(ids) != 5 {
			t.Errorf("Expected 5 distinct references, got %d", len(ids))
		}
	})
}

func TestReporter_embed(t *testing.T) {
	reporter := NewReporter(nil, "log-1")

	t.Run("warning in a direct message", func(t *testing.T) {
		incident := newIncident(errors.New("canceled"))
		incident.Severity = SeverityWarning
		incident.GuildID = ""

		embed := reporter.embed("ref", incident)

		if embed.Color != warningColor {
			t.Errorf("Expected warning color, got %x", embed.Color)
		}

		if embed.Fields[0].Value != "direct message" {
			t.Errorf("Unexpected guild field: %q", embed.Fields[0].Value)
		}
	})

	t.Run("long error is truncated", func(t *testing.T) {
		embed := reporter.embed("ref", newIncident(errors.New(strings.Repeat("x", maxErrorLength+100))))

		if strings.Count(embed.Description, "x") != maxErrorLength {
			t.Errorf("Expected %d characters, got %d", maxErrorLength, strings.Count(embed.Description, "x"))
		}
	})

	t.Run("nil error", func(t *testing.T) {
		embed := reporter.embed("ref", newIncident(nil))

		if !strings.Contains(embed.Description, "unknown error") {
			t.Errorf("Unexpected description: %q", embed.Description)
		}
	})
}
