package rpg

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/kyofu-bot/kyofu/internal/command"
	"github.com/kyofu-bot/kyofu/internal/config"
	"github.com/kyofu-bot/kyofu/internal/entity"
	"github.com/kyofu-bot/kyofu/internal/resolve"
	"github.com/kyofu-bot/kyofu/internal/rpg"
	"github.com/kyofu-bot/kyofu/internal/storage"
)

type Start struct {
	svc *rpg.Service
}

func NewStart(svc *rpg.Service) *Start { return &Start{svc: svc} }

func (s *Start) Descriptor() command.Descriptor {
	return command.Descriptor{
		Name:        "start",
		Aliases:     []string{"begin"},
		Usage:       "start",
		Description: "Commence l'aventure à Isonvale.",
		Category:    config.CategoryRPG,
	}
}

func (s *Start) Run(ctx context.Context, mc *command.MessageContext) error {
	author := mc.Author()
	u, err := s.svc.Start(ctx, author.ID, author.Tag())
	if err != nil {
		return failure(mc, "start", err)
	}
	return mc.Send(ctx, mc.Text("rpg.started", map[string]any{
		"Position": u.Position,
		"Name":     mc.AuthorMember().DisplayName(),
	}))
}

// player loads the player the command targets: the member named by the arguments, or the
// author. A target that never started gets its own notice.
func player(ctx context.Context, svc *rpg.Service, mc *command.MessageContext) (entity.Member, *storage.RpgUser, error) {
	target := mc.AuthorMember()
	if len(mc.Args) > 0 {
		m, ok := resolve.Member(mc.Snapshot(), mc.Query())
		if !ok {
			return entity.Member{}, nil, command.Invalid("notice.invalid_member")
		}
		target = m
	}

	u, err := svc.Player(ctx, target.ID())
	if errors.Is(err, rpg.ErrNotPlaying) && target.ID() != mc.Author().ID {
		return target, nil, command.Refuse("rpg.target_not_playing", map[string]any{"Target": target.DisplayName()})
	}
	if err != nil {
		return target, nil, failure(mc, "load player", err)
	}
	return target, u, nil
}

type Profile struct {
	svc *rpg.Service
}

func NewProfile(svc *rpg.Service) *Profile { return &Profile{svc: svc} }

func (p *Profile) Descriptor() command.Descriptor {
	return command.Descriptor{
		Name:        "profile",
		Aliases:     []string{"rpg", "stats"},
		Usage:       "profile <membre>",
		Description: "Affiche le niveau, les points de vie et les pièces d'un joueur.",
		Category:    config.CategoryRPG,
	}
}

func (p *Profile) Run(ctx context.Context, mc *command.MessageContext) error {
	target, u, err := player(ctx, p.svc, mc)
	if err != nil {
		return err
	}

	lvl := rpg.CalculateLevel(u.XP)
	embed := &discordgo.MessageEmbed{
		Title: mc.Text("rpg.profile_title", map[string]any{"Name": target.DisplayName()}),
		Color: parseColor(u.Profile.Color),
		Fields: []*discordgo.MessageEmbedField{
			{Name: mc.Text("rpg.field_level", nil), Value: strconv.Itoa(lvl.Level), Inline: true},
			{Name: mc.Text("rpg.field_xp", nil), Value: mc.Text("rpg.xp_value", map[string]any{"XP": u.XP, "Required": lvl.Required}), Inline: true},
			{Name: mc.Text("rpg.field_hp", nil), Value: mc.Text("rpg.hp_value", map[string]any{"HP": u.HP.Level, "Max": u.HP.Max}), Inline: true},
			{Name: mc.Text("rpg.field_coins", nil), Value: strconv.Itoa(u.Coins), Inline: true},
			{Name: mc.Text("rpg.field_position", nil), Value: u.Position},
		},
	}
	if target.User.AvatarURL != "" {
		embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: target.User.AvatarURL}
	}
	return mc.SendEmbed(ctx, embed)
}

type Inventory struct {
	svc *rpg.Service
}

func NewInventory(svc *rpg.Service) *Inventory { return &Inventory{svc: svc} }

func (i *Inventory) Descriptor() command.Descriptor {
	return command.Descriptor{
		Name:        "inventory",
		Aliases:     []string{"inv"},
		Usage:       "inventory <membre>",
		Description: "Affiche les objets d'un joueur.",
		Category:    config.CategoryRPG,
	}
}

func (i *Inventory) Run(ctx context.Context, mc *command.MessageContext) error {
	target, u, err := player(ctx, i.svc, mc)
	if err != nil {
		return err
	}

	lines := make([]string, 0, len(u.Items))
	for _, it := range u.Items {
		if it.Quantity <= 0 {
			continue
		}
		lines = append(lines, mc.Text("rpg.inventory_entry", map[string]any{"Name": it.Name, "Quantity": it.Quantity}))
	}
	desc := strings.Join(lines, "\n")
	if desc == "" {
		desc = mc.Text("rpg.inventory_empty", nil)
	}

	return mc.SendEmbed(ctx, &discordgo.MessageEmbed{
		Title:       mc.Text("rpg.inventory_title", map[string]any{"Name": target.DisplayName()}),
		Description: desc,
		Color:       parseColor(u.Profile.Color),
	})
}

type Heal struct {
	svc *rpg.Service
}

func NewHeal(svc *rpg.Service) *Heal { return &Heal{svc: svc} }

func (h *Heal) Descriptor() command.Descriptor {
	return command.Descriptor{
		Name:        "heal",
		Aliases:     []string{"rest"},
		Usage:       "heal",
		Description: "Restaure tous tes points de vie contre quelques pièces.",
		Category:    config.CategoryRPG,
	}
}

func (h *Heal) Run(ctx context.Context, mc *command.MessageContext) error {
	u, err := h.svc.Heal(ctx, mc.Author().ID)
	if err != nil {
		return failure(mc, "heal", err)
	}
	return mc.ReplyText(ctx, "rpg.healed", map[string]any{"HP": u.HP.Level, "Max": u.HP.Max, "Cost": rpg.HealCost})
}

// ResetXP sets the xp of any player back to zero.
type ResetXP struct {
	svc *rpg.Service
}

func NewResetXP(svc *rpg.Service) *ResetXP { return &ResetXP{svc: svc} }

func (r *ResetXP) Descriptor() command.Descriptor {
	return command.Descriptor{
		Name:         "resetxp",
		Usage:        "resetxp [utilisateur]",
		Description:  "Remet l'expérience d'un joueur à zéro.",
		Category:     config.CategoryRPG,
		RequiresArgs: true,
		Access:       command.Developer,
	}
}

func (r *ResetXP) Run(ctx context.Context, mc *command.MessageContext) error {
	u, ok := resolve.User(mc.Snapshot(), mc.Query())
	if !ok {
		return command.Invalid("notice.invalid_user")
	}
	if _, err := r.svc.ResetXP(ctx, u.ID); err != nil {
		if errors.Is(err, rpg.ErrNotPlaying) {
			return command.Refuse("rpg.target_not_playing", map[string]any{"Target": u.DisplayName()})
		}
		return failure(mc, "reset xp", err)
	}
	return mc.ReplyText(ctx, "rpg.xp_reset", map[string]any{"Target": u.DisplayName()})
}
