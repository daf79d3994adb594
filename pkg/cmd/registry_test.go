package cmd

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCommand struct {
	name    string
	aliases []string
	ran     int
}

func (s *stubCommand) Name() string        { return s.name }
func (s *stubCommand) Description() string { return s.name + " description" }
func (s *stubCommand) Aliases() []string   { return s.aliases }
func (s *stubCommand) Run(context.Context, *Invocation) error {
	s.ran++
	return nil
}

func TestRegisterRejectsCollisions(t *testing.T) {
	tests := []struct {
		name     string
		existing *stubCommand
		next     *stubCommand
	}{
		{"same name", &stubCommand{name: "help"}, &stubCommand{name: "help"}},
		{"alias equals existing name", &stubCommand{name: "help"}, &stubCommand{name: "aide", aliases: []string{"help"}}},
		{"alias equals existing alias", &stubCommand{name: "help", aliases: []string{"h"}}, &stubCommand{name: "hate", aliases: []string{"h"}}},
		{"name equals existing alias", &stubCommand{name: "help", aliases: []string{"h"}}, &stubCommand{name: "h"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRegistry()
			require.NoError(t, r.Register(tt.existing))
			err := r.Register(tt.next)
			assert.ErrorIs(t, err, ErrDuplicateCommand)
			assert.Len(t, r.All(), 1)
		})
	}
}

func TestRegisterRejectsSelfCollision(t *testing.T) {
	r := NewRegistry()
	err := r.Register(&stubCommand{name: "todo", aliases: []string{"td", "todo"}})
	assert.ErrorIs(t, err, ErrDuplicateCommand)
	assert.Nil(t, r.Resolve("td"), "a rejected command must not leave aliases behind")
}

func TestResolveNameThenAlias(t *testing.T) {
	r := NewRegistry()
	help := &stubCommand{name: "help", aliases: []string{"h", "aide"}}
	hate := &stubCommand{name: "hate", aliases: []string{"haine"}}
	r.MustRegister(help, hate)

	assert.Same(t, help, r.Resolve("help"))
	assert.Same(t, help, r.Resolve("aide"))
	assert.Same(t, hate, r.Resolve("haine"))
	assert.Nil(t, r.Resolve("Help"), "lookup is case-sensitive")
	assert.Nil(t, r.Resolve("hai"), "aliases are matched by membership, not prefix")
}

func TestResolveSeesThroughMiddleware(t *testing.T) {
	r := NewRegistry()
	inner := &stubCommand{name: "fake", aliases: []string{"impersonate"}}
	calls := 0
	logged := func(c Command) Command {
		return Wrap(c, func(ctx context.Context, inv *Invocation) error {
			calls++
			return c.Run(ctx, inv)
		})
	}
	require.NoError(t, r.Register(Apply(inner, logged)))

	got := r.Resolve("impersonate")
	require.NotNil(t, got)
	require.NoError(t, got.Run(context.Background(), &Invocation{}))
	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, inner.ran)
	assert.Same(t, inner, Root(got))
}

func TestAllSortedByName(t *testing.T) {
	r := NewRegistry()
	r.MustRegister(&stubCommand{name: "todo"}, &stubCommand{name: "fake"}, &stubCommand{name: "help"})

	var names []string
	for _, c := range r.All() {
		names = append(names, c.Name())
	}
	assert.Equal(t, []string{"fake", "help", "todo"}, names)
}
