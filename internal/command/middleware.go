package command

import (
	"context"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kyofu-bot/kyofu/pkg/cmd"
)

func messageContext(inv *cmd.Invocation) (*MessageContext, bool) {
	mc, ok := inv.Data.(*MessageContext)
	return mc, ok
}

// WithCommandLogger logs every run with its duration and outcome.
func WithCommandLogger(log *zap.Logger) cmd.Middleware {
	return func(c cmd.Command) cmd.Command {
		return cmd.Wrap(c, func(ctx context.Context, inv *cmd.Invocation) error {
			mc, ok := messageContext(inv)
			if !ok {
				return c.Run(ctx, inv)
			}

			start := time.Now()
			err := c.Run(ctx, inv)

			fields := []zap.Field{
				zap.String("invocation", uuid.NewString()),
				zap.String("command", c.Name()),
				zap.String("guild", mc.Incoming.GuildID),
				zap.String("channel", mc.Incoming.ChannelID),
				zap.String("user", mc.Incoming.Author.ID),
				zap.Int("args", len(inv.Args)),
				zap.Duration("took", time.Since(start)),
			}
			if err != nil {
				log.Info("command finished with error", append(fields, zap.Stringer("kind", KindOf(err)), zap.Error(err))...)
			} else {
				log.Info("command executed", fields...)
			}
			return err
		})
	}
}

// WithGuildOnly refuses invocations outside a guild.
func WithGuildOnly() cmd.Middleware {
	return func(c cmd.Command) cmd.Command {
		return cmd.Wrap(c, func(ctx context.Context, inv *cmd.Invocation) error {
			if mc, ok := messageContext(inv); ok && mc.Incoming.GuildID == "" {
				return Refuse("notice.guild_only", nil)
			}
			return c.Run(ctx, inv)
		})
	}
}

// AdminPermissions grants access to Admin commands.
const AdminPermissions = discordgo.PermissionAdministrator | discordgo.PermissionManageServer

// WithAccessCheck enforces the Access level of the command's descriptor.
func WithAccessCheck(developerID string) cmd.Middleware {
	return func(c cmd.Command) cmd.Command {
		desc, _ := DescriptorOf(c)
		if desc.Access == Everyone {
			return c
		}
		return cmd.Wrap(c, func(ctx context.Context, inv *cmd.Invocation) error {
			mc, ok := messageContext(inv)
			if !ok {
				return c.Run(ctx, inv)
			}
			switch desc.Access {
			case Developer:
				if developerID == "" || mc.Author().ID != developerID {
					return Refuse("notice.developer_only", nil)
				}
			case Admin:
				if !mc.Snapshot().HasPermission(mc.AuthorMember(), AdminPermissions) {
					return Refuse("notice.admin_only", nil)
				}
			}
			return c.Run(ctx, inv)
		})
	}
}
