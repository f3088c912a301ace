package locale

import (
	"embed"
	"fmt"
	"maps"
	"path"
	"slices"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
	"gopkg.in/yaml.v3"
)

// Language is a supported language. The set is closed; every value has a string table.
type Language string

// Supported languages.
const (
	English  Language = "en"
	French   Language = "fr"
	German   Language = "de"
	Japanese Language = "ja"
)

// DefaultLanguage is used when an identity has no usable language preference.
const DefaultLanguage = English

var languages = []Language{English, French, German, Japanese}

//go:embed tables/*.yaml
var tableFS embed.FS

var tables = mustLoadTables()

// Table is the string table of one language.
type Table struct {
	lang    Language
	strings map[string]string
	printer *message.Printer
}

// Language returns the table's language.
func (t *Table) Language() Language {
	return t.lang
}

// Get returns the raw string registered for key, or key itself when the table lacks it.
func (t *Table) Get(key string) string {
	if s, ok := t.strings[key]; ok {
		return s
	}
	return key
}

// Sprintf formats the string registered for key with the table's language rules.
func (t *Table) Sprintf(key string, args ...any) string {
	return t.printer.Sprintf(key, args...)
}

// Strings returns a copy of the whole table.
func (t *Table) Strings() map[string]string {
	return maps.Clone(t.strings)
}

// Supported returns supported languages in a stable order.
func Supported() []Language {
	return slices.Clone(languages)
}

// SupportedNames returns "tag (name)" pairs of all supported languages joined with commas.
func SupportedNames() string {
	names := make([]string, 0, len(languages))
	for _, lang := range languages {
		names = append(names, fmt.Sprintf("`%s` (%s)", lang, tables[lang].Get("language.name")))
	}
	return strings.Join(names, ", ")
}

// Lookup returns the table of a supported language.
func Lookup(lang Language) (*Table, bool) {
	table, ok := tables[lang]
	return table, ok
}

// Default returns the table of DefaultLanguage.
func Default() *Table {
	return tables[DefaultLanguage]
}

// ParseLanguage maps a BCP 47 tag to a supported Language by its base language.
// "FR" and "fr-CA" both map to French. Malformed or unsupported tags yield false.
func ParseLanguage(s string) (Language, bool) {
	tag, err := language.Parse(strings.TrimSpace(s))
	if err != nil {
		return "", false
	}

	base, confidence := tag.Base()
	if confidence != language.Exact {
		return "", false
	}

	lang := Language(base.String())
	if _, ok := tables[lang]; !ok {
		return "", false
	}
	return lang, true
}

func mustLoadTables() map[Language]*Table {
	loaded, err := loadTables()
	if err != nil {
		panic(err)
	}
	return loaded
}

func loadTables() (map[Language]*Table, error) {
	raw := make(map[Language]map[string]string, len(languages))
	for _, lang := range languages {
		data, err := tableFS.ReadFile(path.Join("tables", string(lang)+".yaml"))
		if err != nil {
			return nil, fmt.Errorf("failed to read %s table: %w", lang, err)
		}

		strs := map[string]string{}
		if err := yaml.Unmarshal(data, &strs); err != nil {
			return nil, fmt.Errorf("failed to parse %s table: %w", lang, err)
		}
		raw[lang] = strs
	}

	// Keys missing in a translation fall back to the default language.
	for _, lang := range languages {
		for key, value := range raw[DefaultLanguage] {
			if _, ok := raw[lang][key]; !ok {
				raw[lang][key] = value
			}
		}
	}

	loaded := make(map[Language]*Table, len(languages))
	for _, lang := range languages {
		tag := language.Make(string(lang))

		builder := catalog.NewBuilder()
		for key, value := range raw[lang] {
			if err := builder.SetString(tag, key, value); err != nil {
				return nil, fmt.Errorf("failed to register %q for %s: %w", key, lang, err)
			}
		}

		loaded[lang] = &Table{
			lang:    lang,
			strings: raw[lang],
			printer: message.NewPrinter(tag, message.Catalog(builder)),
		}
	}

	return loaded, nil
}
