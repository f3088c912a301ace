package locale

import (
	"github.com/oklahomer/go-sarah-discordbot/settings"
)

// ConfigReader is the part of settings.Store the Selector reads from.
type ConfigReader interface {
	Read(id string) settings.Document
}

// Selector picks the string table matching an identity's configured language.
type Selector struct {
	store ConfigReader
}

// NewSelector creates a Selector reading language preferences from store.
func NewSelector(store ConfigReader) *Selector {
	return &Selector{
		store: store,
	}
}

// LanguageOf returns the configured language of the given identity.
func (s *Selector) LanguageOf(id string) (Language, bool) {
	var tag string
	switch doc := s.store.Read(id).(type) {
	case *settings.UserConfig:
		tag = doc.Language

	case *settings.ServerConfig:
		tag = doc.Language

	default:
		return "", false
	}

	if tag == "" {
		return "", false
	}
	return ParseLanguage(tag)
}

// StringsFor returns the string table of the given identity's language.
// It returns nil when the identity has no document, no language, or an unsupported one.
func (s *Selector) StringsFor(id string) *Table {
	lang, ok := s.LanguageOf(id)
	if !ok {
		return nil
	}

	table, _ := Lookup(lang)
	return table
}

// Pick returns the table of the first identity with a usable language, or the default table.
// Empty IDs are skipped, so a guild ID can be passed for direct messages as well.
func (s *Selector) Pick(ids ...string) *Table {
	if s == nil {
		return Default()
	}

	for _, id := range ids {
		if id == "" {
			continue
		}
		if table := s.StringsFor(id); table != nil {
			return table
		}
	}
	return Default()
}
