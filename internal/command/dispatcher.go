package command

import (
	"context"
	"errors"
	"runtime/debug"
	"strings"

	"go.uber.org/zap"

	"github.com/kyofu-bot/kyofu/internal/msgcat"
	"github.com/kyofu-bot/kyofu/internal/storage"
	"github.com/kyofu-bot/kyofu/pkg/cmd"
)

// Outcome is the state a message ended in.
type Outcome int

const (
	OutcomeIgnored Outcome = iota // never tokenized
	OutcomeHandled                // a handler ran, successfully or not
	OutcomeHelp                   // the help flow ran instead of the handler
	OutcomeUnknown                // no command matched the first token
)

func (o Outcome) String() string {
	switch o {
	case OutcomeHandled:
		return "handled"
	case OutcomeHelp:
		return "help"
	case OutcomeUnknown:
		return "unknown"
	default:
		return "ignored"
	}
}

// GuildSettings supplies the guild configuration, falling back to defaults.
type GuildSettings interface {
	GuildSettings(ctx context.Context, guildID string) storage.GuildProfile
}

// Reporter forwards unexpected faults to the operator.
type Reporter interface {
	Report(ctx context.Context, err error)
}

type Deps struct {
	Registry  *cmd.Registry
	Settings  GuildSettings
	Messenger Messenger
	Catalog   *msgcat.Catalog
	Log       *zap.Logger

	// Optional: operator reports, and the handler for direct messages.
	Reporter Reporter
	OnDirect func(ctx context.Context, in *Incoming)
}

// Dispatcher routes guild messages to commands. It is safe for concurrent use: every
// message gets its own MessageContext and the registry is read-only.
type Dispatcher struct {
	reg       *cmd.Registry
	help      *Help
	settings  GuildSettings
	messenger Messenger
	catalog   *msgcat.Catalog
	reporter  Reporter
	onDirect  func(ctx context.Context, in *Incoming)
	log       *zap.Logger
}

func NewDispatcher(deps Deps) *Dispatcher {
	if deps.Log == nil {
		deps.Log = zap.NewNop()
	}
	return &Dispatcher{
		reg:       deps.Registry,
		help:      NewHelp(deps.Registry, deps.Catalog),
		settings:  deps.Settings,
		messenger: deps.Messenger,
		catalog:   deps.Catalog,
		reporter:  deps.Reporter,
		onDirect:  deps.OnDirect,
		log:       deps.Log,
	}
}

func (d *Dispatcher) Help() *Help { return d.help }

// Dispatch handles one incoming message. Handler errors and panics never escape.
func (d *Dispatcher) Dispatch(ctx context.Context, in *Incoming) Outcome {
	if in.Author.Bot {
		return OutcomeIgnored
	}
	switch in.Kind {
	case ChannelGuildText:
	case ChannelDirect:
		if d.onDirect != nil {
			d.onDirect(ctx, in)
		}
		return OutcomeIgnored
	default:
		return OutcomeIgnored
	}

	if in.Content != "" && !strings.Contains(in.ChannelName, "logs") {
		name := in.Author.DisplayName()
		if in.Member != nil {
			name = in.Member.DisplayName()
		}
		d.log.Debug("[#" + in.ChannelName + "] => [" + name + "] : " + in.Content)
	}

	guild := d.settings.GuildSettings(ctx, in.GuildID)
	if guild.Prefix == "" || !strings.HasPrefix(in.Content, guild.Prefix) {
		return OutcomeIgnored
	}

	tokens := strings.Fields(in.Content[len(guild.Prefix):])
	if len(tokens) == 0 {
		return OutcomeUnknown
	}
	c := d.reg.Resolve(tokens[0])
	if c == nil {
		return OutcomeUnknown
	}
	desc, _ := DescriptorOf(c)

	mc := &MessageContext{
		Incoming:  in,
		Guild:     guild,
		Command:   tokens[0],
		Args:      tokens[1:],
		Messenger: d.messenger,
		Catalog:   d.catalog,
		Log:       d.log.With(zap.String("command", desc.Name), zap.String("guild", in.GuildID)),
		help:      d.help,
	}

	if desc.RequiresArgs && len(mc.Args) == 0 {
		d.sendHelp(ctx, mc, desc.Name)
		return OutcomeHelp
	}

	err := d.invoke(ctx, c, mc)
	if err == nil {
		return OutcomeHandled
	}
	return d.fail(ctx, mc, desc.Name, err)
}

func (d *Dispatcher) invoke(ctx context.Context, c cmd.Command, mc *MessageContext) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Value: r, Stack: debug.Stack()}
		}
	}()
	return c.Run(ctx, &cmd.Invocation{Args: mc.Args, Data: mc})
}

// fail converts a handler error into the user-facing reaction for its kind.
func (d *Dispatcher) fail(ctx context.Context, mc *MessageContext, name string, err error) Outcome {
	var ce *Error
	notice, data := "", any(nil)
	if errors.As(err, &ce) {
		notice, data = ce.Notice, ce.Data
	}

	switch KindOf(err) {
	case MissingRequiredArgument:
		d.sendHelp(ctx, mc, name)
		return OutcomeHelp
	case UnknownCommand:
		return OutcomeUnknown
	case InvalidReference, Refused:
		d.reply(ctx, mc, notice, data)
	case PersistenceFault:
		mc.Log.Error("store unavailable", zap.Error(err))
		d.reply(ctx, mc, "notice.persistence", nil)
	default:
		mc.Log.Error("command failed", zap.Error(err))
		d.reply(ctx, mc, "notice.unexpected", nil)
		if d.reporter != nil {
			d.reporter.Report(ctx, err)
		}
	}
	return OutcomeHandled
}

func (d *Dispatcher) sendHelp(ctx context.Context, mc *MessageContext, name string) {
	if err := d.help.Send(ctx, mc, name); err != nil {
		mc.Log.Warn("help page not delivered", zap.Error(err))
	}
}

func (d *Dispatcher) reply(ctx context.Context, mc *MessageContext, key string, data any) {
	if key == "" {
		return
	}
	if err := mc.ReplyText(ctx, key, data); err != nil {
		mc.Log.Warn("notice not delivered", zap.String("notice", key), zap.Error(err))
	}
}
