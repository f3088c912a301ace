package settings

import (
	"fmt"
	"slices"

	"github.com/oklahomer/go-kasumi/logger"
	"github.com/tidwall/gjson"
)

// Kind is the value of a document's "type" discriminator.
type Kind string

const (
	// KindUser marks a document that belongs to a Discord user.
	KindUser Kind = "user"

	// KindServer marks a document that belongs to a Discord guild.
	KindServer Kind = "server"
)

// typeKey is the discriminator key every stored document carries.
const typeKey = "type"

// Document is a stored configuration.
// The set of implementations is closed: *UserConfig and *ServerConfig.
type Document interface {
	Kind() Kind
	stamp()
}

// UserConfig is the configuration of a single user.
type UserConfig struct {
	Type     Kind   `json:"type"`
	Language string `json:"language,omitempty"`
}

var _ Document = (*UserConfig)(nil)

// NewUserConfig creates a UserConfig with the given language tag.
func NewUserConfig(language string) *UserConfig {
	return &UserConfig{
		Type:     KindUser,
		Language: language,
	}
}

// Kind returns KindUser.
func (*UserConfig) Kind() Kind {
	return KindUser
}

func (c *UserConfig) stamp() {
	c.Type = KindUser
}

// ServerConfig is the configuration of a guild.
type ServerConfig struct {
	Type     Kind   `json:"type"`
	Language string `json:"language,omitempty"`
}

var _ Document = (*ServerConfig)(nil)

// NewServerConfig creates a ServerConfig with the given language tag.
func NewServerConfig(language string) *ServerConfig {
	return &ServerConfig{
		Type:     KindServer,
		Language: language,
	}
}

// Kind returns KindServer.
func (*ServerConfig) Kind() Kind {
	return KindServer
}

func (c *ServerConfig) stamp() {
	c.Type = KindServer
}

// fieldTypes lists the keys each kind understands together with the JSON type their value must have.
// Anything else found in a file is ignored on read.
var fieldTypes = map[Kind]map[string]gjson.Type{
	KindUser:   {typeKey: gjson.String, "language": gjson.String},
	KindServer: {typeKey: gjson.String, "language": gjson.String},
}

// writableKeys lists the keys Store.Set accepts for each kind.
var writableKeys = map[Kind][]string{
	KindUser:   {"language"},
	KindServer: {"language"},
}

// Writable reports whether key may be written on a document of the given kind.
func Writable(kind Kind, key string) bool {
	return slices.Contains(writableKeys[kind], key)
}

// validValue reports whether the value of key in root has the type the kind expects.
func validValue(kind Kind, root gjson.Result, key string) bool {
	expected, ok := fieldTypes[kind][key]
	return ok && root.Get(key).Type == expected
}

// decode selects the variant from the "type" discriminator and reads the known fields into it.
// Unknown keys and known keys holding a value of the wrong type are ignored.
func decode(data []byte) (Document, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: malformed JSON", ErrCorrupt)
	}

	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, fmt.Errorf("%w: document is not an object", ErrCorrupt)
	}

	discriminator := root.Get(typeKey)
	if discriminator.Type != gjson.String {
		return nil, fmt.Errorf("%w: missing %q discriminator", ErrCorrupt, typeKey)
	}

	kind := Kind(discriminator.Str)
	var doc Document
	var language *string
	switch kind {
	case KindUser:
		user := &UserConfig{Type: kind}
		doc, language = user, &user.Language

	case KindServer:
		server := &ServerConfig{Type: kind}
		doc, language = server, &server.Language

	default:
		return nil, fmt.Errorf("%w: unknown document type %q", ErrCorrupt, kind)
	}

	root.ForEach(func(key, value gjson.Result) bool {
		name := key.String()
		expected, known := fieldTypes[kind][name]
		switch {
		case !known:
			logger.Debugf("Ignoring unknown key %q in %s document.", name, kind)

		case value.Type != expected:
			logger.Debugf("Ignoring %q in %s document: unexpected %s value.", name, kind, value.Type)

		case name == "language":
			*language = value.Str
		}
		return true
	})

	return doc, nil
}
