package utility

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/kyofu-bot/kyofu/internal/command"
	"github.com/kyofu-bot/kyofu/internal/config"
	"github.com/kyofu-bot/kyofu/internal/entity"
	"github.com/kyofu-bot/kyofu/internal/resolve"
)

func field(mc *command.MessageContext, key, value string, inline bool) *discordgo.MessageEmbedField {
	if value == "" {
		value = mc.Text("info.none", nil)
	}
	return &discordgo.MessageEmbedField{Name: mc.Text(key, nil), Value: value, Inline: inline}
}

func name(n string) map[string]any { return map[string]any{"Name": n} }

// UserInfo shows a member card; without argument it describes the author.
type UserInfo struct{}

func (UserInfo) Descriptor() command.Descriptor {
	return command.Descriptor{
		Name:        "userinfo",
		Aliases:     []string{"ui", "member"},
		Usage:       "userinfo <membre>",
		Description: "Affiche les informations d'un membre.",
		Category:    config.CategoryInformation,
	}
}

func (UserInfo) Run(ctx context.Context, mc *command.MessageContext) error {
	snap := mc.Snapshot()
	target := mc.AuthorMember()
	if len(mc.Args) > 0 {
		m, ok := resolve.Member(snap, mc.Query())
		if !ok {
			return command.Invalid("notice.invalid_member")
		}
		target = m
	}

	roles := make([]string, 0, len(target.RoleIDs))
	for _, id := range target.RoleIDs {
		roles = append(roles, "<@&"+id+">")
	}

	embed := &discordgo.MessageEmbed{
		Title: mc.Text("info.user_title", name(target.DisplayName())),
		Color: snap.HighestRoleColor(target),
		Fields: []*discordgo.MessageEmbedField{
			field(mc, "info.field_tag", target.User.Tag(), true),
			field(mc, "info.field_id", target.ID(), true),
			field(mc, "info.field_nick", target.Nick, true),
			field(mc, "info.field_roles", strings.Join(roles, " "), false),
		},
	}
	if target.User.AvatarURL != "" {
		embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: target.User.AvatarURL}
	}
	return mc.SendEmbed(ctx, embed)
}

type RoleInfo struct{}

func (RoleInfo) Descriptor() command.Descriptor {
	return command.Descriptor{
		Name:         "roleinfo",
		Aliases:      []string{"ri"},
		Usage:        "roleinfo [rôle]",
		Description:  "Affiche les informations d'un rôle.",
		Category:     config.CategoryInformation,
		RequiresArgs: true,
	}
}

func (RoleInfo) Run(ctx context.Context, mc *command.MessageContext) error {
	snap := mc.Snapshot()
	role, ok := resolve.Role(snap, mc.Query())
	if !ok {
		return command.Invalid("notice.invalid_role")
	}

	members := 0
	for _, m := range snap.Members {
		if slices.Contains(m.RoleIDs, role.ID) {
			members++
		}
	}

	mentionable := "info.no"
	if role.Mentionable {
		mentionable = "info.yes"
	}

	return mc.SendEmbed(ctx, &discordgo.MessageEmbed{
		Title: mc.Text("info.role_title", name(role.Name)),
		Color: role.Color,
		Fields: []*discordgo.MessageEmbedField{
			field(mc, "info.field_id", role.ID, true),
			field(mc, "info.field_color", fmt.Sprintf("#%06x", role.Color), true),
			field(mc, "info.field_position", strconv.Itoa(role.Position), true),
			field(mc, "info.field_members", strconv.Itoa(members), true),
			field(mc, "info.field_mentionable", mc.Text(mentionable, nil), true),
		},
	})
}

// Avatar shows the avatar of any user the bot knows.
type Avatar struct{}

func (Avatar) Descriptor() command.Descriptor {
	return command.Descriptor{
		Name:        "avatar",
		Aliases:     []string{"pp"},
		Usage:       "avatar <utilisateur>",
		Description: "Affiche l'avatar d'un utilisateur.",
		Category:    config.CategoryInformation,
	}
}

func (Avatar) Run(ctx context.Context, mc *command.MessageContext) error {
	user := mc.Author()
	if len(mc.Args) > 0 {
		u, ok := resolve.User(mc.Snapshot(), mc.Query())
		if !ok {
			return command.Invalid("notice.invalid_user")
		}
		user = u
	}
	return mc.SendEmbed(ctx, avatarEmbed(mc, user))
}

func avatarEmbed(mc *command.MessageContext, u entity.User) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title: mc.Text("info.avatar_title", name(u.DisplayName())),
		Color: mc.Color(),
		Image: &discordgo.MessageEmbedImage{URL: u.AvatarURL},
	}
}
