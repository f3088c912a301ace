package command

import (
	"errors"
	"testing"
)

func TestRegistry_Register(t *testing.T) {
	t.Run("valid commands", func(t *testing.T) {
		registry := NewRegistry()

		err := registry.Register(
			&Command{Name: "ping", Aliases: []string{"p"}},
			&Command{Name: "language", Aliases: []string{"lang", "l"}},
		)
		if err != nil {
			t.Fatalf("Unexpected error: %+v", err)
		}

		all := registry.All()
		if len(all) != 2 {
			t.Fatalf("Expected 2 commands, got %d", len(all))
		}
		if all[0].Name != "ping" || all[1].Name != "language" {
			t.Errorf("Expected registration order to be preserved, got %q and %q", all[0].Name, all[1].Name)
		}
	})

	t.Run("empty name", func(t *testing.T) {
		registry := NewRegistry()

		err := registry.Register(&Command{Name: ""})
		if !errors.Is(err, ErrEmptyName) {
			t.Errorf("Expected ErrEmptyName, got %+v", err)
		}
	})

	t.Run("empty alias", func(t *testing.T) {
		registry := NewRegistry()

		err := registry.Register(&Command{Name: "ping", Aliases: []string{""}})
		if !errors.Is(err, ErrEmptyName) {
			t.Errorf("Expected ErrEmptyName, got %+v", err)
		}
	})

	t.Run("duplicate name", func(t *testing.T) {
		registry := NewRegistry()

		err := registry.Register(&Command{Name: "ping"}, &Command{Name: "ping"})
		if !errors.Is(err, ErrDuplicateName) {
			t.Errorf("Expected ErrDuplicateName, got %+v", err)
		}
	})

	t.Run("alias clashes with another name", func(t *testing.T) {
		registry := NewRegistry()

		err := registry.Register(&Command{Name: "ping"}, &Command{Name: "pong", Aliases: []string{"ping"}})
		if !errors.Is(err, ErrDuplicateName) {
			t.Errorf("Expected ErrDuplicateName, got %+v", err)
		}
	})

	t.Run("name clashes with an earlier alias", func(t *testing.T) {
		registry := NewRegistry()

		err := registry.Register(&Command{Name: "ping", Aliases: []string{"p"}}, &Command{Name: "p"})
		if !errors.Is(err, ErrDuplicateName) {
			t.Errorf("Expected ErrDuplicateName, got %+v", err)
		}
	})

	t.Run("alias listed twice", func(t *testing.T) {
		registry := NewRegistry()

		err := registry.Register(&Command{Name: "ping", Aliases: []string{"p", "p"}})
		if !errors.Is(err, ErrDuplicateName) {
			t.Errorf("Expected ErrDuplicateName, got %+v", err)
		}

		if len(registry.All()) != 0 {
			t.Error("Rejected command should not be registered")
		}
	})
}

func TestRegistry_Lookup(t *testing.T) {
	ping := &Command{Name: "ping", Aliases: []string{"p"}}
	language := &Command{Name: "language", Aliases: []string{"lang"}}

	registry := NewRegistry()
	if err := registry.Register(ping, language); err != nil {
		t.Fatalf("Unexpected error: %+v", err)
	}

	t.Run("by name", func(t *testing.T) {
		cmd, ok := registry.Lookup("ping")
		if !ok {
			t.Fatal("Expected ping to be found")
		}
		if cmd != ping {
			t.Errorf("Expected ping command, got %q", cmd.Name)
		}
	})

	t.Run("by alias", func(t *testing.T) {
		cmd, ok := registry.Lookup("p")
		if !ok {
			t.Fatal("Expected alias p to be found")
		}
		if cmd != ping {
			t.Errorf("Expected ping command, got %q", cmd.Name)
		}

		cmd, ok = registry.Lookup("lang")
		if !ok || cmd != language {
			t.Error("Expected alias lang to resolve to language")
		}
	})

	t.Run("unknown token", func(t *testing.T) {
		cmd, ok := registry.Lookup("unknown")
		if ok || cmd != nil {
			t.Errorf("Expected absence, got %+v", cmd)
		}
	})

	t.Run("case sensitive", func(t *testing.T) {
		if _, ok := registry.Lookup("PING"); ok {
			t.Error("Lookup should be case sensitive")
		}
	})

	t.Run("empty token", func(t *testing.T) {
		if _, ok := registry.Lookup(""); ok {
			t.Error("Empty token should never match")
		}
	})
}

func TestRegistry_All(t *testing.T) {
	registry := NewRegistry()
	_ = registry.Register(&Command{Name: "a"}, &Command{Name: "b"})

	all := registry.All()
	all[0] = nil

	if registry.All()[0] == nil {
		t.Error("All should return a copy")
	}
}
