// Package locale holds the bot's string tables and selects one from an identity's language setting.
//
// Tables are embedded at build time, one per supported Language. A language preference read
// from a settings document is only ever used as a key into that fixed set.
package locale
