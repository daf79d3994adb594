package rpg

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/kyofu-bot/kyofu/internal/command"
	"github.com/kyofu-bot/kyofu/internal/config"
	"github.com/kyofu-bot/kyofu/internal/rpg"
)

type Move struct {
	svc *rpg.Service
}

func NewMove(svc *rpg.Service) *Move { return &Move{svc: svc} }

func (m *Move) Descriptor() command.Descriptor {
	return command.Descriptor{
		Name:         "move",
		Aliases:      []string{"go"},
		Usage:        "move [zone]",
		Description:  "Se déplace vers une zone voisine.",
		Category:     config.CategoryRPG,
		RequiresArgs: true,
	}
}

func (m *Move) Run(ctx context.Context, mc *command.MessageContext) error {
	author := mc.Author()
	u, err := m.svc.Player(ctx, author.ID)
	if err != nil {
		return failure(mc, "load player", err)
	}
	dest, err := m.svc.Zone(ctx, mc.Query())
	if err != nil {
		return failure(mc, "load zone", err)
	}

	if _, err := m.svc.Move(ctx, author.ID, dest.Name); err != nil {
		if errors.Is(err, rpg.ErrUnreachableZone) {
			return command.Refuse("rpg.unreachable", map[string]any{"Zone": dest.Name, "Position": u.Position})
		}
		return failure(mc, "move", err)
	}
	return mc.Send(ctx, mc.Text("rpg.moved", map[string]any{"Zone": dest.Name}))
}

// Zone describes the zone the author stands in.
type Zone struct {
	svc *rpg.Service
}

func NewZone(svc *rpg.Service) *Zone { return &Zone{svc: svc} }

func (z *Zone) Descriptor() command.Descriptor {
	return command.Descriptor{
		Name:        "zone",
		Aliases:     []string{"map"},
		Usage:       "zone",
		Description: "Décrit la zone où tu te trouves.",
		Category:    config.CategoryRPG,
	}
}

func (z *Zone) Run(ctx context.Context, mc *command.MessageContext) error {
	zone, err := z.svc.Position(ctx, mc.Author().ID)
	if err != nil {
		return failure(mc, "load position", err)
	}

	embed := &discordgo.MessageEmbed{
		Title:       zone.Name,
		Description: zone.Description,
		Color:       parseColor(zone.Color),
	}
	if len(zone.Neighbours) > 0 {
		embed.Fields = []*discordgo.MessageEmbedField{{
			Name:  mc.Text("rpg.neighbours", nil),
			Value: strings.Join(zone.Neighbours, "\n"),
		}}
	}
	if zone.Image != "" {
		embed.Image = &discordgo.MessageEmbedImage{URL: zone.Image}
	}
	return mc.SendEmbed(ctx, embed)
}

// Talk shows one dialog box of a pnj, the first one by default.
type Talk struct {
	svc *rpg.Service
}

func NewTalk(svc *rpg.Service) *Talk { return &Talk{svc: svc} }

func (t *Talk) Descriptor() command.Descriptor {
	return command.Descriptor{
		Name:         "talk",
		Aliases:      []string{"pnj"},
		Usage:        "talk [pnj] <n>",
		Description:  "Affiche une boîte de dialogue d'un personnage.",
		Category:     config.CategoryRPG,
		RequiresArgs: true,
	}
}

func (t *Talk) Run(ctx context.Context, mc *command.MessageContext) error {
	args, n := mc.Args, 1
	if len(args) > 1 {
		if v, err := strconv.Atoi(args[len(args)-1]); err == nil {
			args, n = args[:len(args)-1], v
		}
	}

	pnj, line, err := t.svc.Dialog(ctx, strings.Join(args, " "), n)
	if errors.Is(err, rpg.ErrNoDialog) {
		return command.Refuse("rpg.no_dialog", map[string]any{"Pnj": pnj.Name})
	}
	if err != nil {
		return failure(mc, "load pnj", err)
	}

	embed := &discordgo.MessageEmbed{
		Author:      &discordgo.MessageEmbedAuthor{Name: pnj.Name, IconURL: pnj.Image},
		Description: line,
		Color:       parseColor(pnj.Color),
		Footer:      &discordgo.MessageEmbedFooter{Text: mc.Text("rpg.dialog_footer", map[string]any{"N": n, "Total": len(pnj.Dialogs)})},
	}
	if pnj.Image != "" {
		embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: pnj.Image}
	}
	return mc.SendEmbed(ctx, embed)
}

type Item struct {
	svc *rpg.Service
}

func NewItem(svc *rpg.Service) *Item { return &Item{svc: svc} }

func (i *Item) Descriptor() command.Descriptor {
	return command.Descriptor{
		Name:         "item",
		Aliases:      []string{"objet"},
		Usage:        "item [nom]",
		Description:  "Décrit un objet. Une partie du nom suffit.",
		Category:     config.CategoryRPG,
		RequiresArgs: true,
	}
}

func (i *Item) Run(ctx context.Context, mc *command.MessageContext) error {
	it, err := i.svc.Item(ctx, mc.Query())
	if err != nil {
		return failure(mc, "load item", err)
	}
	return mc.SendEmbed(ctx, &discordgo.MessageEmbed{
		Title:       strings.TrimSpace(it.Emoji + " " + it.Name),
		Description: it.Description,
		Color:       mc.Color(),
		Footer:      &discordgo.MessageEmbedFooter{Text: mc.Text("rpg.item_price", map[string]any{"Price": it.Price})},
	})
}

type Buy struct {
	svc *rpg.Service
}

func NewBuy(svc *rpg.Service) *Buy { return &Buy{svc: svc} }

func (b *Buy) Descriptor() command.Descriptor {
	return command.Descriptor{
		Name:         "buy",
		Aliases:      []string{"acheter"},
		Usage:        "buy [objet]",
		Description:  "Achète un objet avec tes pièces.",
		Category:     config.CategoryRPG,
		RequiresArgs: true,
	}
}

func (b *Buy) Run(ctx context.Context, mc *command.MessageContext) error {
	it, u, err := b.svc.Buy(ctx, mc.Author().ID, mc.Query())
	if err != nil {
		return failure(mc, "buy", err)
	}
	return mc.ReplyText(ctx, "rpg.bought", map[string]any{"Item": it.Name, "Price": it.Price, "Coins": u.Coins})
}
