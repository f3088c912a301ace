// Package settings stores per-identity configuration as one JSON document per user or guild.
//
// A document is a tagged variant selected by its "type" key: "user" documents decode into
// UserConfig and "server" documents into ServerConfig. Reads collapse every failure into an
// absent document; Lookup and Set expose the underlying error for callers that need it.
//
// Writes are whole-document read-modify-write cycles. Unless the Store is built with
// WithIdentityLock, two writers updating the same identity at once race and the last
// write wins.
package settings
