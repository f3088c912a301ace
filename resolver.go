package discord

import (
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/oklahomer/go-kasumi/logger"

	"github.com/oklahomer/go-sarah-discordbot/command"
	"github.com/oklahomer/go-sarah-discordbot/locale"
)

// messageSender is the part of the session used to reply in a channel.
type messageSender interface {
	ChannelMessageSend(channelID string, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// Resolver interprets incoming messages as command invocations.
// Resolve may send messages: the prefix announcement on a bot mention and permission denials.
type Resolver struct {
	prefix   string
	help     string
	registry *command.Registry
	sender   messageSender
	selector *locale.Selector
	gate     *Gate
}

// NewResolver creates a Resolver for the given prefix and registry.
// helpCommand is named in the mention reply unless it is empty.
// selector may be nil, in which case replies use the default language.
func NewResolver(prefix string, helpCommand string, registry *command.Registry, sender messageSender, selector *locale.Selector) *Resolver {
	return &Resolver{
		prefix:   prefix,
		help:     helpCommand,
		registry: registry,
		sender:   sender,
		selector: selector,
		gate:     NewGate(sender, selector),
	}
}

// Resolve turns m into a command.Context.
// botID is the bot's own user ID, used to detect a leading mention; privileged tells whether the author may run developer commands.
func (r *Resolver) Resolve(m *discordgo.Message, botID string, privileged bool) *command.Context {
	if m.Content == "" {
		return command.EmptyContext()
	}

	if mentionsAtStart(m.Content, botID) {
		r.announcePrefix(m)
	}

	if !strings.HasPrefix(m.Content, r.prefix) {
		return command.EmptyContext()
	}

	// Split on every single space: "a  b" yields an empty token between a and b.
	tokens := strings.Split(strings.TrimPrefix(m.Content, r.prefix), " ")
	resolved := &command.Context{
		Name: tokens[0],
		Args: tokens[1:],
	}

	cmd, ok := r.registry.Lookup(resolved.Name)
	if !ok {
		return resolved
	}

	resolved.Command = cmd
	resolved.CanExecute = r.gate.Allow(cmd, m, privileged)
	return resolved
}

func (r *Resolver) announcePrefix(m *discordgo.Message) {
	table := r.selector.Pick(authorID(m), m.GuildID)
	text := table.Sprintf("mention.prefix_only", r.prefix)
	if r.help != "" {
		text = table.Sprintf("mention.prefix", r.prefix, r.prefix, r.help)
	}
	if _, err := r.sender.ChannelMessageSend(m.ChannelID, text); err != nil {
		logger.Errorf("Failed to announce prefix in %s: %+v", m.ChannelID, err)
	}
}

// mentionsAtStart reports whether content starts with a user mention of botID, in either the <@id> or the <@!id> form.
func mentionsAtStart(content string, botID string) bool {
	if botID == "" {
		return false
	}
	return strings.HasPrefix(content, "<@"+botID+">") || strings.HasPrefix(content, "<@!"+botID+">")
}

func authorID(m *discordgo.Message) string {
	if m.Author == nil {
		return ""
	}
	return m.Author.ID
}
