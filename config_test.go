package discord

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/bwmarrin/discordgo"
	"gopkg.in/yaml.v3"
)

func TestNewConfig(t *testing.T) {
	config := NewConfig()

	if config.Token != "" {
		t.Errorf("Expected empty token, got %q", config.Token)
	}

	if config.Prefix != "!" {
		t.Errorf("Expected Prefix to be %q, got %q", "!", config.Prefix)
	}

	if config.HelpCommand != "help" {
		t.Errorf("Expected HelpCommand to be %q, got %q", "help", config.HelpCommand)
	}

	if config.AbortCommand != "abort" {
		t.Errorf("Expected AbortCommand to be %q, got %q", "abort", config.AbortCommand)
	}

	if config.DeveloperIDs == nil || len(config.DeveloperIDs) != 0 {
		t.Errorf("Expected empty DeveloperIDs, got %#v", config.DeveloperIDs)
	}

	if config.LoggingChannelID != "" {
		t.Errorf("Expected empty LoggingChannelID, got %q", config.LoggingChannelID)
	}

	if config.SettingsDir != "data/settings" {
		t.Errorf("Expected SettingsDir to be %q, got %q", "data/settings", config.SettingsDir)
	}

	expectedIntents := discordgo.IntentsGuildMessages | discordgo.IntentsDirectMessages | discordgo.IntentsMessageContent
	if config.Intents != expectedIntents {
		t.Errorf("Expected Intents to be %d, got %d", expectedIntents, config.Intents)
	}
}

func TestConfig_Validate(t *testing.T) {
	t.Run("default config", func(t *testing.T) {
		if err := NewConfig().Validate(); err != nil {
			t.Errorf("Unexpected error: %+v", err)
		}
	})

	t.Run("empty prefix", func(t *testing.T) {
		config := NewConfig()
		config.Prefix = ""

		err := config.Validate()
		if !errors.Is(err, ErrEmptyPrefix) {
			t.Errorf("Expected ErrEmptyPrefix, got %+v", err)
		}
	})
}

func TestConfig_IsDeveloper(t *testing.T) {
	config := NewConfig()
	config.DeveloperIDs = []string{"dev-1", "dev-2"}

	if !config.IsDeveloper("dev-2") {
		t.Error("Expected dev-2 to be a developer")
	}

	if config.IsDeveloper("user-1") {
		t.Error("Expected user-1 not to be a developer")
	}

	if config.IsDeveloper("") {
		t.Error("Expected empty ID not to be a developer")
	}
}

func TestConfig_Unmarshal(t *testing.T) {
	t.Run("yaml keeps defaults of absent fields", func(t *testing.T) {
		config := NewConfig()
		input := "prefix: \"?\"\ndeveloper_ids:\n  - dev-1\nlogging_channel_id: log-1\n"

		if err := yaml.Unmarshal([]byte(input), config); err != nil {
			t.Fatalf("Unexpected error: %+v", err)
		}

		if config.Prefix != "?" {
			t.Errorf("Expected Prefix %q, got %q", "?", config.Prefix)
		}

		if !config.IsDeveloper("dev-1") {
			t.Error("Expected dev-1 to be a developer")
		}

		if config.LoggingChannelID != "log-1" {
			t.Errorf("Expected LoggingChannelID %q, got %q", "log-1", config.LoggingChannelID)
		}

		if config.HelpCommand != "help" {
			t.Errorf("Expected default HelpCommand to survive, got %q", config.HelpCommand)
		}
	})

	t.Run("json", func(t *testing.T) {
		config := NewConfig()
		input := `{"token": "secret", "settings_dir": "/var/lib/bot"}`

		if err := json.Unmarshal([]byte(input), config); err != nil {
			t.Fatalf("Unexpected error: %+v", err)
		}

		if config.Token != "secret" {
			t.Errorf("Expected Token %q, got %q", "secret", config.Token)
		}

		if config.SettingsDir != "/var/lib/bot" {
			t.Errorf("Expected SettingsDir %q, got %q", "/var/lib/bot", config.SettingsDir)
		}
	})
}
