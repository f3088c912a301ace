package discord

import (
	"slices"

	"github.com/bwmarrin/discordgo"
)

// Config contains configuration variables for the Discord Adapter.
type Config struct {
	// Token is the Discord bot token used for authentication.
	Token string `json:"token" yaml:"token" env:"DISCORD_TOKEN"`

	// Prefix is the leading string that marks a message as a command.
	Prefix string `json:"prefix" yaml:"prefix" env:"BOT_PREFIX"`

	// HelpCommand is the command name that triggers help.
	// When a user sends the prefix followed by this name, the input is converted to sarah.HelpInput.
	HelpCommand string `json:"help_command" yaml:"help_command" env:"BOT_HELP_COMMAND"`

	// AbortCommand is the command name that triggers context cancellation.
	// When a user sends the prefix followed by this name, the input is converted to sarah.AbortInput.
	AbortCommand string `json:"abort_command" yaml:"abort_command" env:"BOT_ABORT_COMMAND"`

	// DeveloperIDs lists the user IDs allowed to run developer commands.
	DeveloperIDs []string `json:"developer_ids" yaml:"developer_ids" env:"BOT_DEVELOPER_IDS" envSeparator:","`

	// LoggingChannelID is the channel command errors are reported to.
	// When empty, errors are only written to the local log.
	LoggingChannelID string `json:"logging_channel_id" yaml:"logging_channel_id" env:"BOT_LOGGING_CHANNEL_ID"`

	// SettingsDir is the directory holding one settings document per user or guild.
	SettingsDir string `json:"settings_dir" yaml:"settings_dir" env:"BOT_SETTINGS_DIR"`

	// UploadWebhookURL is the webhook files are uploaded through.
	UploadWebhookURL string `json:"upload_webhook_url" yaml:"upload_webhook_url" env:"BOT_UPLOAD_WEBHOOK_URL"`

	// Intents declares the Gateway Intents the bot requires.
	Intents discordgo.Intent `json:"intents" yaml:"intents" env:"BOT_INTENTS"`
}

// NewConfig creates and returns a new Config instance with default settings.
// Token is empty and must be set before use.
func NewConfig() *Config {
	return &Config{
		Token:        "",
		Prefix:       "!",
		HelpCommand:  "help",
		AbortCommand: "abort",
		DeveloperIDs: []string{},
		SettingsDir:  "data/settings",
		Intents:      discordgo.IntentsGuildMessages | discordgo.IntentsDirectMessages | discordgo.IntentsMessageContent,
	}
}

// Validate checks the values NewAdapter cannot work without.
func (c *Config) Validate() error {
	if c.Prefix == "" {
		return ErrEmptyPrefix
	}
	return nil
}

// IsDeveloper reports whether the given user may run developer commands.
func (c *Config) IsDeveloper(userID string) bool {
	return userID != "" && slices.Contains(c.DeveloperIDs, userID)
}
