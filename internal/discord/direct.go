package discord

import (
	"context"
	"strings"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"github.com/kyofu-bot/kyofu/internal/command"
	"github.com/kyofu-bot/kyofu/internal/msgcat"
)

// DirectMirror forwards direct messages sent to the bot into an operator channel.
type DirectMirror struct {
	channelID string
	messenger command.Messenger
	catalog   *msgcat.Catalog
	log       *zap.Logger
}

func NewDirectMirror(channelID string, messenger command.Messenger, catalog *msgcat.Catalog, log *zap.Logger) *DirectMirror {
	if log == nil {
		log = zap.NewNop()
	}
	return &DirectMirror{channelID: channelID, messenger: messenger, catalog: catalog, log: log}
}

// Forward is installed as the dispatcher's direct message handler.
func (d *DirectMirror) Forward(ctx context.Context, in *command.Incoming) {
	if d.channelID == "" {
		return
	}
	d.log.Debug("direct message", zap.String("author", in.Author.Tag()), zap.String("content", in.Content))
	if err := d.messenger.SendEmbed(ctx, d.channelID, mirrorEmbed(d.catalog, in)); err != nil {
		d.log.Warn("direct message not mirrored", zap.Error(err))
	}
}

func mirrorEmbed(catalog *msgcat.Catalog, in *command.Incoming) *discordgo.MessageEmbed {
	body := in.Content
	if len(in.Attachments) > 0 {
		body = strings.TrimSpace(body + "\n" + strings.Join(in.Attachments, "\n"))
	}
	e := &discordgo.MessageEmbed{
		Author: &discordgo.MessageEmbedAuthor{
			Name:    catalog.Text("dm.received", map[string]any{"Name": in.Author.Tag()}),
			IconURL: in.Author.AvatarURL,
		},
		Description: body,
		Footer:      &discordgo.MessageEmbedFooter{Text: catalog.Text("dm.footer", map[string]any{"ID": in.Author.ID})},
	}
	if len(in.Attachments) > 0 {
		e.Image = &discordgo.MessageEmbedImage{URL: in.Attachments[0]}
	}
	return e
}
