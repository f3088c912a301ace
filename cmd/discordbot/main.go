// Command discordbot runs the prefix-command Discord bot.
//
// Usage:
//
//	export DISCORD_TOKEN="your-bot-token"
//	go run ./cmd/discordbot -config config.yaml
//
// Then, in a Discord channel where the bot is present, type:
//
//	!ping
//	!language fr
//	!help
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bwmarrin/discordgo"
	"github.com/oklahomer/go-kasumi/logger"
	"github.com/oklahomer/go-sarah/v4"

	"github.com/oklahomer/go-sarah-discordbot"
	"github.com/oklahomer/go-sarah-discordbot/builtin"
	"github.com/oklahomer/go-sarah-discordbot/command"
	"github.com/oklahomer/go-sarah-discordbot/locale"
	"github.com/oklahomer/go-sarah-discordbot/settings"
)

func main() {
	path := flag.String("config", "", "path to a YAML configuration file")
	lockWrites := flag.Bool("lock-writes", false, "serialise settings writes per user or guild")
	flag.Parse()

	config, err := loadConfig(*path, ".env")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %s\n", err)
		os.Exit(1)
	}

	w, closeLog := logWriter(config.Log, os.Stderr)
	defer func() {
		_ = closeLog()
	}()
	logger.SetLogger(logger.NewWithStandardLogger(newStandardLogger(w)))

	if err := run(config.Discord, *lockWrites); err != nil {
		logger.Errorf("Bot stopped: %+v", err)
		_ = closeLog()
		os.Exit(1)
	}
}

func run(config *discord.Config, lockWrites bool) error {
	if config.Token == "" {
		return discord.ErrEmptyToken
	}

	session, err := discordgo.New("Bot " + config.Token)
	if err != nil {
		return fmt.Errorf("failed to create Discord session: %w", err)
	}
	session.Identify.Intents = config.Intents

	var storeOptions []settings.StoreOption
	if lockWrites {
		storeOptions = append(storeOptions, settings.WithIdentityLock())
	}
	store := settings.NewStore(config.SettingsDir, storeOptions...)
	selector := locale.NewSelector(store)

	deps := &builtin.Deps{
		Store:    store,
		Selector: selector,
		Prefix:   config.Prefix,
	}
	if config.UploadWebhookURL != "" {
		uploader, err := discord.NewUploader(session, config.UploadWebhookURL)
		if err != nil {
			return err
		}
		deps.Uploader = uploader
	}

	registry := command.NewRegistry()
	if err := registry.Register(builtin.Commands(deps)...); err != nil {
		return err
	}

	adapter, err := discord.NewAdapter(config, registry, discord.WithSession(session), discord.WithSelector(selector))
	if err != nil {
		return fmt.Errorf("failed to create adapter: %w", err)
	}

	props, err := adapter.CommandProps()
	if err != nil {
		return err
	}

	// Create a Bot with the adapter and an in-memory user context storage
	// for conversational state management.
	storage := sarah.NewUserContextStorage(sarah.NewCacheConfig())
	bot := sarah.NewBot(adapter, sarah.BotWithStorage(storage))
	sarah.RegisterBot(bot)
	for _, p := range props {
		sarah.RegisterCommandProps(p)
	}

	// Set up a context that cancels on SIGINT or SIGTERM.
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	err = sarah.Run(ctx, sarah.NewConfig())
	if err != nil {
		return fmt.Errorf("failed to run: %w", err)
	}

	logger.Infof("Bot is running with prefix %q and %d command(s). Press Ctrl+C to stop.", config.Prefix, len(props))

	// Block until shutdown signal.
	<-ctx.Done()

	logger.Infof("Shutting down...")
	return nil
}
