package command

import (
	"fmt"
	"slices"
)

// Registry holds command definitions in registration order.
// It is meant to be filled at start-up and only read afterwards.
type Registry struct {
	commands []*Command
	tokens   map[string]string
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		tokens: map[string]string{},
	}
}

// Register adds the given commands in order.
// Registration stops at the first command whose name or aliases clash with an already known token.
func (r *Registry) Register(cmds ...*Command) error {
	for _, cmd := range cmds {
		if cmd.Name == "" {
			return ErrEmptyName
		}

		tokens := append([]string{cmd.Name}, cmd.Aliases...)
		for i, token := range tokens {
			if token == "" {
				return fmt.Errorf("%w: alias of %q", ErrEmptyName, cmd.Name)
			}
			if owner, ok := r.tokens[token]; ok {
				return fmt.Errorf("%w: %q is already used by %q", ErrDuplicateName, token, owner)
			}
			if slices.Contains(tokens[:i], token) {
				return fmt.Errorf("%w: %q is listed twice by %q", ErrDuplicateName, token, cmd.Name)
			}
		}

		for _, token := range tokens {
			r.tokens[token] = cmd.Name
		}
		r.commands = append(r.commands, cmd)
	}

	return nil
}

// Lookup returns the command whose name equals token.
// When no name matches, the first command in registration order having token as an alias is returned.
func (r *Registry) Lookup(token string) (*Command, bool) {
	for _, cmd := range r.commands {
		if cmd.Name == token {
			return cmd, true
		}
	}

	for _, cmd := range r.commands {
		if cmd.HasAlias(token) {
			return cmd, true
		}
	}

	return nil, false
}

// All returns registered commands in registration order.
func (r *Registry) All() []*Command {
	list := make([]*Command, len(r.commands))
	copy(list, r.commands)
	return list
}
