// Package cmd provides a transport-agnostic command core: a command is something
// with a name, description, and Run(ctx, invocation). How it is triggered (Discord
// message, CLI) is defined by adapters that wrap this.
package cmd

import (
	"context"
	"errors"
)

// ErrUnsupportedInvocation is returned by adapters handed a payload they do not understand.
var ErrUnsupportedInvocation = errors.New("unsupported invocation payload")

// Invocation carries the minimal input any command runner can pass: the argument
// tokens and an opaque payload. Adapters set Data to their own context type.
type Invocation struct {
	Args []string
	Data any
}

// Command is the universal contract: identity plus execution.
type Command interface {
	Name() string
	Description() string
	Run(ctx context.Context, inv *Invocation) error
}

// Aliased is implemented by commands that also answer to other tokens.
type Aliased interface {
	Aliases() []string
}

// AliasesOf returns the aliases of the innermost command, or nil.
func AliasesOf(c Command) []string {
	if a, ok := Root(c).(Aliased); ok {
		return a.Aliases()
	}
	return nil
}
