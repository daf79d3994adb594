// Package moderation holds the warning commands.
package moderation

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/google/uuid"

	"github.com/kyofu-bot/kyofu/internal/command"
	"github.com/kyofu-bot/kyofu/internal/config"
	"github.com/kyofu-bot/kyofu/internal/resolve"
	"github.com/kyofu-bot/kyofu/internal/storage"
	"github.com/kyofu-bot/kyofu/pkg/util"
)

// DateFormat is how warn dates are shown.
const DateFormat = "DD/MM/YYYY à hh:mm"

type Store interface {
	Member(ctx context.Context, guildID, userID string) (*storage.MemberProfile, error)
	AddWarn(ctx context.Context, m storage.MemberProfile, w storage.Warn) (*storage.MemberProfile, error)
	RemoveWarn(ctx context.Context, guildID, userID, warnID string) (bool, error)
}

func Commands(store Store) []command.TextCommand {
	return []command.TextCommand{
		NewWarn(store),
		NewWarns(store),
		NewUnwarn(store),
	}
}

// newWarnID returns a short identifier moderators can type back to unwarn.
func newWarnID() string {
	return uuid.NewString()[:8]
}

type Warn struct {
	store Store
	now   func() time.Time
	newID func() string
}

func NewWarn(store Store) *Warn {
	return &Warn{store: store, now: time.Now, newID: newWarnID}
}

func (w *Warn) Descriptor() command.Descriptor {
	return command.Descriptor{
		Name:         "warn",
		Usage:        "warn [membre] [raison]",
		Description:  "Donne un avertissement à un membre.",
		Category:     config.CategoryModeration,
		RequiresArgs: true,
		Access:       command.Admin,
	}
}

func (w *Warn) Run(ctx context.Context, mc *command.MessageContext) error {
	target, ok := resolve.Member(mc.Snapshot(), mc.Args[0])
	if !ok {
		return command.Invalid("notice.invalid_member")
	}
	moderator := mc.Author()
	if target.ID() == moderator.ID {
		return command.Refuse("warn.self", nil)
	}

	profile, err := w.store.AddWarn(ctx, storage.MemberProfile{
		UserID:    target.ID(),
		UserName:  target.User.Tag(),
		GuildID:   mc.Incoming.GuildID,
		GuildName: mc.Snapshot().GuildName,
	}, storage.Warn{
		ID:          w.newID(),
		ModeratorID: moderator.ID,
		Reason:      strings.Join(mc.Args[1:], " "),
		At:          w.now().UTC(),
	})
	if err != nil {
		return command.Persistence("add warn", err)
	}

	return mc.Send(ctx, mc.Text("warn.added", map[string]any{
		"Target": target.DisplayName(),
		"Count":  len(profile.Warns),
	}))
}

// Warns lists the warnings of a member, the author by default.
type Warns struct {
	store Store
}

func NewWarns(store Store) *Warns { return &Warns{store: store} }

func (w *Warns) Descriptor() command.Descriptor {
	return command.Descriptor{
		Name:        "warns",
		Aliases:     []string{"infractions"},
		Usage:       "warns <membre>",
		Description: "Affiche les avertissements d'un membre.",
		Category:    config.CategoryModeration,
	}
}

func (w *Warns) Run(ctx context.Context, mc *command.MessageContext) error {
	target := mc.AuthorMember()
	if len(mc.Args) > 0 {
		m, ok := resolve.Member(mc.Snapshot(), mc.Query())
		if !ok {
			return command.Invalid("notice.invalid_member")
		}
		target = m
	}

	profile, err := w.store.Member(ctx, mc.Incoming.GuildID, target.ID())
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return command.Persistence("load member", err)
	}
	if profile == nil || len(profile.Warns) == 0 {
		return mc.Send(ctx, mc.Text("warn.none", map[string]any{"Target": target.DisplayName()}))
	}

	return mc.SendEmbed(ctx, &discordgo.MessageEmbed{
		Title:       mc.Text("warn.title", map[string]any{"Target": target.DisplayName()}),
		Description: warnLines(mc, profile.Warns),
		Color:       mc.Snapshot().HighestRoleColor(target),
		Footer:      &discordgo.MessageEmbedFooter{Text: strconv.Itoa(len(profile.Warns)) + " ⚠️"},
	})
}

func warnLines(mc *command.MessageContext, warns []storage.Warn) string {
	lines := make([]string, 0, len(warns))
	for _, w := range warns {
		reason := w.Reason
		if reason == "" {
			reason = mc.Text("warn.no_reason", nil)
		}
		lines = append(lines, mc.Text("warn.entry", map[string]any{
			"ID":        w.ID,
			"Date":      util.FormatDate(w.At, DateFormat),
			"Moderator": w.ModeratorID,
			"Reason":    reason,
		}))
	}
	return strings.Join(lines, "\n")
}

type Unwarn struct {
	store Store
}

func NewUnwarn(store Store) *Unwarn { return &Unwarn{store: store} }

func (u *Unwarn) Descriptor() command.Descriptor {
	return command.Descriptor{
		Name:         "unwarn",
		Usage:        "unwarn [membre] [identifiant]",
		Description:  "Retire un avertissement à un membre.",
		Category:     config.CategoryModeration,
		RequiresArgs: true,
		Access:       command.Admin,
	}
}

func (u *Unwarn) Run(ctx context.Context, mc *command.MessageContext) error {
	if len(mc.Args) < 2 {
		return command.MissingArgument()
	}
	target, ok := resolve.Member(mc.Snapshot(), mc.Args[0])
	if !ok {
		return command.Invalid("notice.invalid_member")
	}
	id := mc.Args[1]

	removed, err := u.store.RemoveWarn(ctx, mc.Incoming.GuildID, target.ID(), id)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return command.Persistence("remove warn", err)
	}
	if !removed {
		return command.Refuse("warn.not_found", map[string]any{"ID": id})
	}
	return mc.ReplyText(ctx, "warn.removed", map[string]any{"ID": id})
}
