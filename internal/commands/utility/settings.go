package utility

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/kyofu-bot/kyofu/internal/command"
	"github.com/kyofu-bot/kyofu/internal/config"
	"github.com/kyofu-bot/kyofu/internal/resolve"
	"github.com/kyofu-bot/kyofu/internal/storage"
)

// MaxPrefixLength bounds custom prefixes.
const MaxPrefixLength = 5

// updateGuild patches the profile of the current guild, creating it first if the bot
// never recorded it.
func updateGuild(ctx context.Context, store Store, mc *command.MessageContext, patch storage.GuildPatch) (*storage.GuildProfile, error) {
	guildID := mc.Incoming.GuildID
	if _, err := store.EnsureGuild(ctx, guildID, mc.Snapshot().GuildName); err != nil {
		return nil, command.Persistence("ensure guild", err)
	}
	g, err := store.UpdateGuild(ctx, guildID, patch)
	if err != nil {
		return nil, command.Persistence("update guild", err)
	}
	return g, nil
}

// Prefix shows the guild prefix, or changes it when given one.
type Prefix struct {
	store Store
}

func NewPrefix(store Store) *Prefix { return &Prefix{store: store} }

func (p *Prefix) Descriptor() command.Descriptor {
	return command.Descriptor{
		Name:        "prefix",
		Aliases:     []string{"setprefix"},
		Usage:       "prefix [préfixe]",
		Description: "Change le préfixe des commandes sur ce serveur.",
		Category:    config.CategorySettings,
		Access:      command.Admin,
	}
}

func (p *Prefix) Run(ctx context.Context, mc *command.MessageContext) error {
	if len(mc.Args) == 0 {
		return mc.ReplyText(ctx, "prefix.current", map[string]any{"Prefix": mc.Prefix()})
	}

	prefix := mc.Args[0]
	if utf8.RuneCountInString(prefix) > MaxPrefixLength {
		return command.Refuse("prefix.too_long", map[string]any{"Max": MaxPrefixLength})
	}
	g, err := updateGuild(ctx, p.store, mc, storage.GuildPatch{Prefix: &prefix})
	if err != nil {
		return err
	}
	return mc.ReplyText(ctx, "prefix.updated", map[string]any{"Prefix": g.Prefix})
}

// Welcome configures the join and leave announcements. {user} and {guild} in the
// message are replaced when it is sent.
type Welcome struct {
	store Store
}

func NewWelcome(store Store) *Welcome { return &Welcome{store: store} }

func (w *Welcome) Descriptor() command.Descriptor {
	return command.Descriptor{
		Name:         "welcome",
		Aliases:      []string{"greet"},
		Usage:        "welcome [join/leave] [salon] <message>",
		Description:  "Configure le message d'arrivée ou de départ. `off` à la place du salon le désactive.",
		Category:     config.CategorySettings,
		RequiresArgs: true,
		Access:       command.Admin,
	}
}

func (w *Welcome) Run(ctx context.Context, mc *command.MessageContext) error {
	kind := strings.ToLower(mc.Args[0])
	if kind != "join" && kind != "leave" {
		return command.Refuse("welcome.invalid_kind", nil)
	}
	if len(mc.Args) < 2 {
		return command.MissingArgument()
	}

	var greeting storage.Greeting
	if !strings.EqualFold(mc.Args[1], "off") {
		channelID, ok := resolve.Channel(mc.Args[1])
		if !ok {
			return command.Invalid("notice.invalid_channel")
		}
		msg := strings.Join(mc.Args[2:], " ")
		if msg == "" {
			return command.Refuse("welcome.missing_message", nil)
		}
		greeting = storage.Greeting{ChannelID: channelID, Message: msg}
	}

	patch := storage.GuildPatch{Join: &greeting}
	if kind == "leave" {
		patch = storage.GuildPatch{Leave: &greeting}
	}
	if _, err := updateGuild(ctx, w.store, mc, patch); err != nil {
		return err
	}

	if !greeting.Enabled() {
		return mc.ReplyText(ctx, "welcome.disabled", map[string]any{"Kind": kind})
	}
	return mc.ReplyText(ctx, "welcome.updated", map[string]any{"Kind": kind, "Channel": "<#" + greeting.ChannelID + ">"})
}
