package discord

import (
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/google/uuid"
	"github.com/oklahomer/go-kasumi/logger"
	"golang.org/x/time/rate"
)

const (
	warningColor = 0xf1c40f
	errorColor   = 0xe74c3c

	// maxErrorLength keeps the embed description under Discord's limit.
	maxErrorLength = 3800
)

// complexMessageSender is the part of the session used to post embeds.
type complexMessageSender interface {
	ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// Severity tells how an Incident is presented.
type Severity int

const (
	// SeverityWarning is used for failures the user can fix, such as bad arguments.
	SeverityWarning Severity = iota

	// SeverityError is used for everything else.
	SeverityError
)

func (s Severity) String() string {
	if s == SeverityWarning {
		return "Warning"
	}
	return "Error"
}

// Incident describes a command failure.
type Incident struct {
	Severity  Severity
	Command   string
	GuildID   string
	ChannelID string
	UserID    string
	Err       error
}

// ReporterOption defines a function signature for Reporter's functional options.
type ReporterOption func(*Reporter)

// WithReportRate limits how often incidents are posted to the logging channel.
// Incidents above the limit are written to the local log instead.
func WithReportRate(limit rate.Limit, burst int) ReporterOption {
	return func(reporter *Reporter) {
		reporter.limiter = rate.NewLimiter(limit, burst)
	}
}

// Reporter is the diagnostic sink for command failures.
// Incidents go to the logging channel when one is configured and to the local log otherwise.
type Reporter struct {
	sender    complexMessageSender
	channelID string
	limiter   *rate.Limiter
	now       func() time.Time
}

// NewReporter creates a Reporter posting to channelID through sender.
// An empty channelID keeps every report local.
func NewReporter(sender complexMessageSender, channelID string, options ...ReporterOption) *Reporter {
	reporter := &Reporter{
		sender:    sender,
		channelID: channelID,
		limiter:   rate.NewLimiter(rate.Every(2*time.Second), 5),
		now:       time.Now,
	}

	for _, opt := range options {
		opt(reporter)
	}

	return reporter
}

// Report records the incident and returns the reference users can quote.
func (r *Reporter) Report(incident *Incident) string {
	id := uuid.NewString()

	if r.channelID == "" || r.sender == nil {
		r.logLocally(id, incident)
		return id
	}

	if !r.limiter.Allow() {
		logger.Warnf("Logging channel report %s throttled.", id)
		r.logLocally(id, incident)
		return id
	}

	_, err := r.sender.ChannelMessageSendComplex(r.channelID, &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{r.embed(id, incident)},
	})
	if err != nil {
		logger.Errorf("Failed to post report %s to %s: %+v", id, r.channelID, err)
		r.logLocally(id, incident)
	}

	return id
}

func (r *Reporter) logLocally(id string, incident *Incident) {
	format := "[%s] %s running %s (guild=%s channel=%s user=%s): %+v"
	args := []any{id, incident.Severity, incident.Command, incident.GuildID, incident.ChannelID, incident.UserID, incident.Err}
	if incident.Severity == SeverityWarning {
		logger.Warnf(format, args...)
		return
	}
	logger.Errorf(format, args...)
}

func (r *Reporter) embed(id string, incident *Incident) *discordgo.MessageEmbed {
	color := errorColor
	if incident.Severity == SeverityWarning {
		color = warningColor
	}

	description := "unknown error"
	if incident.Err != nil {
		description = incident.Err.Error()
	}
	if len(description) > maxErrorLength {
		description = description[:maxErrorLength] + "…"
	}

	guild := incident.GuildID
	if guild == "" {
		guild = "direct message"
	}

	return &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("%s in %s", incident.Severity, incident.Command),
		Description: "```\n" + description + "\n```",
		Color:       color,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Guild", Value: guild, Inline: true},
			{Name: "Channel", Value: "<#" + incident.ChannelID + ">", Inline: true},
			{Name: "User", Value: "<@" + incident.UserID + ">", Inline: true},
		},
		Footer:    &discordgo.MessageEmbedFooter{Text: id},
		Timestamp: r.now().UTC().Format(time.RFC3339),
	}
}
