package command

import (
	"cmp"
	"context"
	"slices"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/kyofu-bot/kyofu/internal/config"
	"github.com/kyofu-bot/kyofu/internal/msgcat"
	"github.com/kyofu-bot/kyofu/pkg/cmd"
)

// Help renders help pages from the registry.
type Help struct {
	reg     *cmd.Registry
	catalog *msgcat.Catalog
}

func NewHelp(reg *cmd.Registry, catalog *msgcat.Catalog) *Help {
	return &Help{reg: reg, catalog: catalog}
}

// Page returns the help embed of the command known by name or alias.
func (h *Help) Page(name, prefix string, color int) (*discordgo.MessageEmbed, bool) {
	c := h.reg.Resolve(name)
	if c == nil {
		return nil, false
	}
	d, ok := DescriptorOf(c)
	if !ok {
		return nil, false
	}

	lines := []string{
		h.catalog.Text("help.legend", nil),
		"",
		h.catalog.Text("help.category", map[string]any{"Category": d.Category}),
		"",
		h.catalog.Text("help.usage", map[string]any{"Prefix": prefix, "Usage": d.Usage}),
		h.catalog.Text("help.description", map[string]any{"Description": d.Description}),
	}
	if len(d.Aliases) > 0 {
		lines = append(lines, "", h.catalog.Text("help.aliases", map[string]any{"Aliases": d.Aliases}))
	}

	embed := &discordgo.MessageEmbed{
		Title:       h.catalog.Text("help.title", map[string]any{"Name": d.Name}),
		Description: strings.Join(lines, "\n"),
		Color:       color,
	}
	if d.Image != "" {
		embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: d.Image}
	}
	if d.Footer != "" {
		embed.Footer = &discordgo.MessageEmbedFooter{Text: d.Footer}
	}
	if d.FooterImage != "" {
		embed.Image = &discordgo.MessageEmbedImage{URL: d.FooterImage}
	}
	return embed, true
}

// List returns every public command grouped by category, categories ordered by weight.
func (h *Help) List(prefix string, color int) *discordgo.MessageEmbed {
	groups := make(map[string][]string)
	for _, c := range h.reg.All() {
		d, ok := DescriptorOf(c)
		if !ok || d.Access == Developer {
			continue
		}
		groups[d.Category] = append(groups[d.Category], "`"+d.Name+"`")
	}

	categories := make([]string, 0, len(groups))
	for cat := range groups {
		categories = append(categories, cat)
	}
	slices.SortFunc(categories, func(a, b string) int {
		return cmp.Or(cmp.Compare(config.CategoryWeight(a), config.CategoryWeight(b)), cmp.Compare(a, b))
	})

	embed := &discordgo.MessageEmbed{
		Title:       h.catalog.Text("help.list_title", nil),
		Description: h.catalog.Text("help.list_description", map[string]any{"Prefix": prefix}),
		Color:       color,
	}
	for _, cat := range categories {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  cat,
			Value: strings.Join(groups[cat], ", "),
		})
	}
	return embed
}

// Send answers mc with the help page of name, or with the unknown-command notice.
func (h *Help) Send(ctx context.Context, mc *MessageContext, name string) error {
	embed, ok := h.Page(name, mc.Prefix(), mc.Color())
	if !ok {
		return mc.ReplyText(ctx, "notice.unknown_command", nil)
	}
	return mc.SendEmbed(ctx, embed)
}
