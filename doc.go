// Package discord provides a prefix-command Discord bot built on go-sarah.
//
// The Adapter is a sarah.Adapter implementation backed by discordgo. For every
// incoming message it asks the Resolver whether the message invokes one of the
// commands held in a command.Registry; the Resolver answers bot mentions with
// the configured prefix and lets the Gate refuse developer-only and
// server-only commands. The resolution travels with the enqueued Input, and
// the sarah.CommandProps built by Adapter.CommandProps only match Inputs whose
// resolution is executable.
//
// Failing commands are handed to a Reporter, which posts them to the logging
// channel when one is configured. The Uploader hosts files through a webhook
// and hands back the attachment ID.
//
// See cmd/discordbot for a complete wiring example.
package discord
