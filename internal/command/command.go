// Package command is the Discord text-command layer: the handler contract, the per-message
// context, the error taxonomy and the dispatcher that turns a message into a command run.
package command

import (
	"context"

	"github.com/kyofu-bot/kyofu/pkg/cmd"
)

// Access restricts who may run a command.
type Access int

const (
	Everyone Access = iota
	// Admin is the guild owner or a role with Administrator / Manage Server.
	Admin
	// Developer is the configured developer account only.
	Developer
)

// Descriptor is the static description of a text command, shown by help.
type Descriptor struct {
	Name        string
	Aliases     []string
	Usage       string // "fake [membre] [message]": [] required, <> optional
	Description string
	Category    string
	Image       string
	Footer      string
	FooterImage string

	// RequiresArgs runs the help flow instead of the handler when no argument is given.
	RequiresArgs bool
	Access       Access
}

// TextCommand is implemented by every message command.
type TextCommand interface {
	Descriptor() Descriptor
	Run(ctx context.Context, mc *MessageContext) error
}

// Adapter exposes a TextCommand as a cmd.Command so it can live in the registry.
type Adapter struct {
	Cmd  TextCommand
	desc Descriptor
}

func NewAdapter(c TextCommand) *Adapter {
	return &Adapter{Cmd: c, desc: c.Descriptor()}
}

func (a *Adapter) Name() string           { return a.desc.Name }
func (a *Adapter) Description() string    { return a.desc.Description }
func (a *Adapter) Aliases() []string      { return a.desc.Aliases }
func (a *Adapter) Descriptor() Descriptor { return a.desc }

// Run expects inv.Data to be the *MessageContext built by the dispatcher.
func (a *Adapter) Run(ctx context.Context, inv *cmd.Invocation) error {
	mc, ok := inv.Data.(*MessageContext)
	if !ok {
		return cmd.ErrUnsupportedInvocation
	}
	mc.Args = inv.Args
	return a.Cmd.Run(ctx, mc)
}

// DescriptorOf returns the descriptor of the text command behind c, through middlewares.
func DescriptorOf(c cmd.Command) (Descriptor, bool) {
	if d, ok := cmd.Root(c).(interface{ Descriptor() Descriptor }); ok {
		return d.Descriptor(), true
	}
	return Descriptor{}, false
}

// Register adds every command to reg behind the given middlewares.
func Register(reg *cmd.Registry, mws []cmd.Middleware, cmds ...TextCommand) error {
	for _, c := range cmds {
		if err := reg.Register(cmd.Apply(NewAdapter(c), mws...)); err != nil {
			return err
		}
	}
	return nil
}
