package discord

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/oklahomer/go-kasumi/logger"
	"github.com/oklahomer/go-sarah/v4"

	"github.com/oklahomer/go-sarah-discordbot/command"
	"github.com/oklahomer/go-sarah-discordbot/locale"
)

const (
	// DISCORD is a designated sarah.BotType for Discord integration.
	DISCORD sarah.BotType = "discord"
)

// session is an internal interface that abstracts the discordgo.Session methods
// used by the Adapter. This allows mocking the session in tests.
// *discordgo.Session satisfies this interface.
type session interface {
	AddHandler(handler interface{}) func()
	Open() error
	Close() error
	ChannelMessageSend(channelID string, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// ChannelID represents a Discord channel as sarah.OutputDestination.
type ChannelID string

var _ sarah.OutputDestination = ChannelID("")

// AdapterOption defines a function signature for Adapter's functional options.
type AdapterOption func(adapter *Adapter)

// WithSession creates an AdapterOption with the given *discordgo.Session.
// Use this to inject a pre-configured session.
// If this option is not given, NewAdapter creates a new session from Config.Token.
func WithSession(session *discordgo.Session) AdapterOption {
	return func(adapter *Adapter) {
		adapter.session = session
	}
}

// WithSelector sets the Selector replies are localized with.
// Without it every reply uses the default language.
func WithSelector(selector *locale.Selector) AdapterOption {
	return func(adapter *Adapter) {
		adapter.selector = selector
	}
}

// WithReporter replaces the Reporter command errors are sent to.
// By default, a Reporter posting to Config.LoggingChannelID through the session is used.
func WithReporter(reporter *Reporter) AdapterOption {
	return func(adapter *Adapter) {
		adapter.reporter = reporter
	}
}

// Adapter is a sarah.Adapter implementation for Discord.
type Adapter struct {
	config   *Config
	session  session
	registry *command.Registry
	resolver *Resolver
	selector *locale.Selector
	reporter *Reporter
}

var _ sarah.Adapter = (*Adapter)(nil)

// NewAdapter creates a new Adapter with the given Config, command registry and options.
func NewAdapter(config *Config, registry *command.Registry, options ...AdapterOption) (*Adapter, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	adapter := &Adapter{
		config:   config,
		registry: registry,
	}

	for _, opt := range options {
		opt(adapter)
	}

	if adapter.session == nil {
		if config.Token == "" {
			return nil, ErrEmptyToken
		}

		s, err := discordgo.New("Bot " + config.Token)
		if err != nil {
			return nil, fmt.Errorf("failed to create Discord session: %w", err)
		}
		s.Identify.Intents = config.Intents
		adapter.session = s
	}

	if adapter.reporter == nil {
		adapter.reporter = NewReporter(adapter.session, config.LoggingChannelID)
	}

	adapter.resolver = NewResolver(config.Prefix, config.HelpCommand, registry, adapter.session, adapter.selector)

	return adapter, nil
}

// BotType returns a designated BotType for Discord integration.
func (a *Adapter) BotType() sarah.BotType {
	return DISCORD
}

// Run establishes a connection with Discord and blocks until the context is canceled.
func (a *Adapter) Run(ctx context.Context, enqueueInput func(sarah.Input) error, notifyErr func(error)) {
	a.session.AddHandler(func(_ *discordgo.Session, r *discordgo.Ready) {
		if r.User != nil {
			logger.Infof("Connected as %s with %d guild(s).", r.User.String(), len(r.Guilds))
		}
	})
	a.session.AddHandler(func(s *discordgo.Session, m *discordgo.MessageCreate) {
		a.handleMessage(s, m, enqueueInput)
	})

	err := a.session.Open()
	if err != nil {
		notifyErr(sarah.NewBotNonContinuableError(fmt.Sprintf("failed to open Discord session: %s", err.Error())))
		return
	}

	// Block until the context is canceled.
	<-ctx.Done()

	if closeErr := a.session.Close(); closeErr != nil {
		logger.Errorf("Failed to close Discord session: %+v", closeErr)
	}
}

// handleMessage resolves an incoming Discord message and routes it to enqueueInput.
// Every authored message is enqueued so that conversational contexts keep receiving input;
// only a resolved, executable Context matches a registered command.
func (a *Adapter) handleMessage(s *discordgo.Session, m *discordgo.MessageCreate, enqueueInput func(sarah.Input) error) {
	input, err := MessageToInput(m)
	if err != nil {
		// MessageToInput returns ErrNoAuthor for system messages with no author.
		logger.Debugf("Skipping message: %+v", err)
		return
	}

	var botID string
	if s != nil && s.State != nil && s.State.User != nil {
		botID = s.State.User.ID
	}

	// Ignore messages from the bot itself.
	if botID != "" && m.Author.ID == botID {
		return
	}

	input.Context = a.resolver.Resolve(m.Message, botID, a.config.IsDeveloper(m.Author.ID))

	var enqueueErr error
	switch {
	case a.isBuiltinRequest(input.Context, a.config.HelpCommand):
		enqueueErr = enqueueInput(sarah.NewHelpInput(input))

	case a.isBuiltinRequest(input.Context, a.config.AbortCommand):
		enqueueErr = enqueueInput(sarah.NewAbortInput(input))

	default:
		enqueueErr = enqueueInput(input)
	}
	if enqueueErr != nil {
		logger.Errorf("Failed to enqueue input: %+v", enqueueErr)
	}
}

// isBuiltinRequest reports whether the resolved name is the given help or abort name.
// A registered command with the same name takes precedence.
func (a *Adapter) isBuiltinRequest(resolved *command.Context, name string) bool {
	return name != "" && resolved.Command == nil && resolved.Name == name
}

// CommandProps builds one sarah.CommandProps per registered command.
// Each one matches only inputs that resolved to its command with CanExecute set.
func (a *Adapter) CommandProps() ([]*sarah.CommandProps, error) {
	cmds := a.registry.All()
	props := make([]*sarah.CommandProps, 0, len(cmds))
	for _, cmd := range cmds {
		if cmd.Handler == nil {
			return nil, fmt.Errorf("%w: %s", ErrNoHandler, cmd.Name)
		}

		p, err := sarah.NewCommandPropsBuilder().
			BotType(DISCORD).
			Identifier(cmd.Name).
			MatchFunc(matchCommand(cmd)).
			Func(a.execute(cmd)).
			InstructionFunc(a.instruction(cmd)).
			Build()
		if err != nil {
			return nil, fmt.Errorf("failed to build command %s: %w", cmd.Name, err)
		}
		props = append(props, p)
	}

	return props, nil
}

func matchCommand(cmd *command.Command) func(sarah.Input) bool {
	return func(input sarah.Input) bool {
		in, ok := input.(*Input)
		if !ok || in.Context == nil {
			return false
		}
		return in.Context.CanExecute && in.Context.Command == cmd
	}
}

// instruction returns cmd's help line. Developer commands are listed only to developers.
func (a *Adapter) instruction(cmd *command.Command) func(*sarah.HelpInput) string {
	var b strings.Builder
	b.WriteString("`" + a.config.Prefix + cmd.Name + "`")
	if len(cmd.Aliases) > 0 {
		b.WriteString(" (" + strings.Join(cmd.Aliases, ", ") + ")")
	}
	if cmd.Description != "" {
		b.WriteString(" " + cmd.Description)
	}
	text := b.String()

	return func(input *sarah.HelpInput) string {
		if cmd.Developer && !a.requestedByDeveloper(input) {
			return ""
		}
		return text
	}
}

func (a *Adapter) requestedByDeveloper(input *sarah.HelpInput) bool {
	if input == nil {
		return false
	}
	in, ok := input.OriginalInput.(*Input)
	if !ok || in.Event == nil || in.Event.Author == nil {
		return false
	}
	return a.config.IsDeveloper(in.Event.Author.ID)
}

// execute runs cmd's Handler. A failing handler is reported and answered with a localized reference.
func (a *Adapter) execute(cmd *command.Command) func(context.Context, sarah.Input) (*sarah.CommandResponse, error) {
	return func(ctx context.Context, input sarah.Input) (*sarah.CommandResponse, error) {
		in, ok := input.(*Input)
		if !ok {
			return nil, fmt.Errorf("%T is not a *discord.Input", input)
		}

		req := &command.Request{
			Input: in,
			Event: in.Event,
			Args:  in.Context.Args,
		}
		resp, err := cmd.Handler(ctx, req)
		if err == nil {
			return resp, nil
		}

		id := a.reporter.Report(&Incident{
			Severity:  severityOf(err),
			Command:   cmd.Name,
			GuildID:   in.Event.GuildID,
			ChannelID: in.Event.ChannelID,
			UserID:    in.Event.Author.ID,
			Err:       err,
		})

		table := a.selector.Pick(in.Event.Author.ID, in.Event.GuildID)
		return NewResponse(in, table.Sprintf("error.generic", id))
	}
}

func severityOf(err error) Severity {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return SeverityWarning
	}
	return SeverityError
}

// SendMessage sends the given message to Discord.
func (a *Adapter) SendMessage(_ context.Context, output sarah.Output) {
	destination, ok := output.Destination().(ChannelID)
	if !ok {
		logger.Errorf("Destination is not instance of ChannelID. %#v.", output.Destination())
		return
	}

	channelID := string(destination)

	switch content := output.Content().(type) {
	case string:
		_, err := a.session.ChannelMessageSend(channelID, content)
		if err != nil {
			logger.Errorf("Failed to send message to %s: %+v", channelID, err)
		}

	case *discordgo.MessageSend:
		_, err := a.session.ChannelMessageSendComplex(channelID, content)
		if err != nil {
			logger.Errorf("Failed to send complex message to %s: %+v", channelID, err)
		}

	case *sarah.CommandHelps:
		lines := make([]string, 0, len(*content))
		for _, h := range *content {
			lines = append(lines, fmt.Sprintf("**%s**: %s", h.Identifier, h.Instruction))
		}
		text := strings.Join(lines, "\n")
		_, err := a.session.ChannelMessageSend(channelID, text)
		if err != nil {
			logger.Errorf("Failed to send help message to %s: %+v", channelID, err)
		}

	default:
		logger.Warnf("Unexpected output %#v", output)
	}
}

// Input is a sarah.Input implementation that represents a received Discord message.
type Input struct {
	Event *discordgo.MessageCreate

	// Context is the command resolution of the message. It is never nil once the adapter enqueues the Input.
	Context *command.Context

	senderKey string
	text      string
	sentAt    time.Time
	channelID ChannelID
}

var _ sarah.Input = (*Input)(nil)

// SenderKey returns a unique key representing the sender in the channel.
func (i *Input) SenderKey() string {
	return i.senderKey
}

// Message returns the received text.
func (i *Input) Message() string {
	return i.text
}

// SentAt returns when the message was sent.
func (i *Input) SentAt() time.Time {
	return i.sentAt
}

// ReplyTo returns the Discord channel where the message was received.
func (i *Input) ReplyTo() sarah.OutputDestination {
	return i.channelID
}

// MessageToInput converts a *discordgo.MessageCreate event to *Input.
// The returned Input carries an empty Context until the message is resolved.
func MessageToInput(m *discordgo.MessageCreate) (*Input, error) {
	if m.Author == nil {
		return nil, ErrNoAuthor
	}

	return &Input{
		Event:     m,
		Context:   command.EmptyContext(),
		senderKey: fmt.Sprintf("%s_%s", m.ChannelID, m.Author.ID),
		text:      m.Content,
		sentAt:    m.Timestamp,
		channelID: ChannelID(m.ChannelID),
	}, nil
}

// NewResponse creates a *sarah.CommandResponse with the given message.
// Pass RespOption values to customize the response.
func NewResponse(input sarah.Input, message any, options ...RespOption) (*sarah.CommandResponse, error) {
	if _, ok := input.(*Input); !ok {
		return nil, fmt.Errorf("%T is not a *discord.Input", input)
	}

	stash := &respOptions{}
	for _, opt := range options {
		opt(stash)
	}

	return &sarah.CommandResponse{
		Content:     message,
		UserContext: stash.userContext,
	}, nil
}

// RespOption defines a function signature that NewResponse's functional options must satisfy.
type RespOption func(*respOptions)

type respOptions struct {
	userContext *sarah.UserContext
}

// RespWithNext sets a given function as part of the response's *sarah.UserContext.
// The next input from the same user is passed to this function.
func RespWithNext(fnc sarah.ContextualFunc) RespOption {
	return func(options *respOptions) {
		options.userContext = &sarah.UserContext{
			Next: fnc,
		}
	}
}

// RespWithNextSerializable sets the given argument as part of the response's *sarah.UserContext.
func RespWithNextSerializable(arg *sarah.SerializableArgument) RespOption {
	return func(options *respOptions) {
		options.userContext = &sarah.UserContext{
			Serializable: arg,
		}
	}
}
