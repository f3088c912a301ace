package discord

import (
	"errors"

	"github.com/bwmarrin/discordgo"
	"github.com/oklahomer/go-kasumi/logger"

	"github.com/oklahomer/go-sarah-discordbot/command"
	"github.com/oklahomer/go-sarah-discordbot/locale"
)

// Gate decides whether a matched command may run and tells the caller when it may not.
type Gate struct {
	sender   messageSender
	selector *locale.Selector
}

// NewGate creates a Gate that sends denials through sender.
func NewGate(sender messageSender, selector *locale.Selector) *Gate {
	return &Gate{
		sender:   sender,
		selector: selector,
	}
}

// Allow reports whether cmd may run for the author of m.
// On refusal exactly one denial message is sent to m's channel.
func (g *Gate) Allow(cmd *command.Command, m *discordgo.Message, privileged bool) bool {
	err := command.Check(cmd, privileged, m.GuildID != "")
	if err == nil {
		return true
	}

	key := "denied.server"
	if errors.Is(err, command.ErrDeveloperOnly) {
		key = "denied.developer"
	}

	table := g.selector.Pick(authorID(m), m.GuildID)
	if _, sendErr := g.sender.ChannelMessageSend(m.ChannelID, table.Get(key)); sendErr != nil {
		logger.Errorf("Failed to send denial of %s to %s: %+v", cmd.Name, m.ChannelID, sendErr)
	}
	logger.Debugf("Denied %s for %s: %s", cmd.Name, authorID(m), err.Error())

	return false
}
