package discord

import "errors"

// ErrEmptyToken indicates that no token was provided and no session was injected via WithSession.
var ErrEmptyToken = errors.New("token must be set or a session must be provided via WithSession")

// ErrEmptyPrefix indicates that Config.Prefix is empty.
var ErrEmptyPrefix = errors.New("command prefix must be set")

// ErrNoAuthor indicates that the given message has no author.
var ErrNoAuthor = errors.New("message has no author")

// ErrInvalidWebhookURL indicates that the upload webhook URL does not carry a webhook ID and token.
var ErrInvalidWebhookURL = errors.New("invalid webhook URL")

// ErrNoAttachment indicates that the upload response did not include the hosted attachment.
var ErrNoAttachment = errors.New("upload response has no attachment")

// ErrNoHandler indicates that a registered command has no Handler to run.
var ErrNoHandler = errors.New("command has no handler")
