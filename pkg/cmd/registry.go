package cmd

import (
	"errors"
	"fmt"
	"slices"
	"sort"
)

// ErrDuplicateCommand is returned when a name or alias is already taken.
var ErrDuplicateCommand = errors.New("duplicate command")

// Registry stores commands by name and keeps registration order for alias lookup.
// It does not dispatch; adapters resolve a token and invoke the command with their
// own context. Build it once at startup and treat it as read-only afterwards.
type Registry struct {
	commands map[string]Command
	order    []Command
	taken    map[string]string // name or alias -> owning command name
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		commands: make(map[string]Command),
		taken:    make(map[string]string),
	}
}

// Register adds a command. It fails with ErrDuplicateCommand when the command name or
// one of its aliases equals a name or alias already registered.
func (r *Registry) Register(c Command) error {
	name := c.Name()
	if name == "" {
		return errors.New("command name cannot be empty")
	}

	tokens := append([]string{name}, AliasesOf(c)...)
	seen := make(map[string]struct{}, len(tokens))
	for _, tok := range tokens {
		if owner, ok := r.taken[tok]; ok {
			return fmt.Errorf("%w: %q already used by %q", ErrDuplicateCommand, tok, owner)
		}
		if _, ok := seen[tok]; ok {
			return fmt.Errorf("%w: %q repeated in %q", ErrDuplicateCommand, tok, name)
		}
		seen[tok] = struct{}{}
	}

	for tok := range seen {
		r.taken[tok] = name
	}
	r.commands[name] = c
	r.order = append(r.order, c)
	return nil
}

// MustRegister is Register for startup wiring, where a collision is a programming error.
func (r *Registry) MustRegister(cmds ...Command) {
	for _, c := range cmds {
		if err := r.Register(c); err != nil {
			panic(err)
		}
	}
}

// Get returns the command registered under exactly name, or nil.
func (r *Registry) Get(name string) Command {
	return r.commands[name]
}

// Resolve looks token up by name first, then scans commands in registration order for
// one whose aliases contain token. Returns nil when nothing matches.
func (r *Registry) Resolve(token string) Command {
	if c, ok := r.commands[token]; ok {
		return c
	}
	for _, c := range r.order {
		if slices.Contains(AliasesOf(c), token) {
			return c
		}
	}
	return nil
}

// All returns all registered commands, sorted by name.
func (r *Registry) All() []Command {
	list := make([]Command, len(r.order))
	copy(list, r.order)
	sort.Slice(list, func(i, j int) bool {
		return list[i].Name() < list[j].Name()
	})
	return list
}
