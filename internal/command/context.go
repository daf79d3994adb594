package command

import (
	"context"
	"sync"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"github.com/kyofu-bot/kyofu/internal/entity"
	"github.com/kyofu-bot/kyofu/internal/msgcat"
	"github.com/kyofu-bot/kyofu/internal/resolve"
	"github.com/kyofu-bot/kyofu/internal/storage"
)

// Messenger is the outbound side of the chat service.
type Messenger interface {
	Send(ctx context.Context, channelID, content string) error
	SendEmbed(ctx context.Context, channelID string, embed *discordgo.MessageEmbed) error
	Reply(ctx context.Context, channelID, messageID, content string) error
	Delete(ctx context.Context, channelID, messageID string) error
	ChannelWebhooks(ctx context.Context, channelID string) ([]*discordgo.Webhook, error)
	CreateWebhook(ctx context.Context, channelID, name, avatarURL string) (*discordgo.Webhook, error)
	ExecuteWebhook(ctx context.Context, webhook *discordgo.Webhook, content string) error
}

type ChannelKind int

const (
	ChannelOther ChannelKind = iota
	ChannelGuildText
	ChannelDirect
)

// Incoming is a received message, stripped of transport types.
type Incoming struct {
	GuildID     string
	ChannelID   string
	ChannelName string
	MessageID   string
	Kind        ChannelKind
	Author      entity.User
	Member      *entity.Member // nil outside guilds
	Content     string
	Attachments []string // URLs

	// Snapshot builds the entity index of the guild on demand.
	Snapshot func() *entity.Snapshot
}

// MessageContext is what a command receives for one invocation.
type MessageContext struct {
	Incoming  *Incoming
	Guild     storage.GuildProfile
	Command   string // the token the command was invoked with
	Args      []string
	Messenger Messenger
	Catalog   *msgcat.Catalog
	Log       *zap.Logger

	help     *Help
	snapOnce sync.Once
	snap     *entity.Snapshot
}

func (mc *MessageContext) Prefix() string { return mc.Guild.Prefix }

// Query joins the arguments back into free text for the resolvers.
func (mc *MessageContext) Query() string { return resolve.Query(mc.Args...) }

// Snapshot returns the guild entity index, built once per message.
func (mc *MessageContext) Snapshot() *entity.Snapshot {
	mc.snapOnce.Do(func() {
		if mc.Incoming.Snapshot != nil {
			mc.snap = mc.Incoming.Snapshot()
		}
		if mc.snap == nil {
			mc.snap = &entity.Snapshot{GuildID: mc.Incoming.GuildID}
		}
	})
	return mc.snap
}

func (mc *MessageContext) Author() entity.User { return mc.Incoming.Author }

// AuthorMember returns the author as a guild member.
func (mc *MessageContext) AuthorMember() entity.Member {
	if mc.Incoming.Member != nil {
		return *mc.Incoming.Member
	}
	if m, ok := mc.Snapshot().Member(mc.Incoming.Author.ID); ok {
		return m
	}
	return entity.Member{User: mc.Incoming.Author, GuildID: mc.Incoming.GuildID}
}

// Color is the colour of the author's highest coloured role, used for embeds.
func (mc *MessageContext) Color() int {
	return mc.Snapshot().HighestRoleColor(mc.AuthorMember())
}

func (mc *MessageContext) Text(key string, data any) string {
	return mc.Catalog.Text(key, data)
}

func (mc *MessageContext) Send(ctx context.Context, content string) error {
	return mc.Messenger.Send(ctx, mc.Incoming.ChannelID, content)
}

func (mc *MessageContext) SendEmbed(ctx context.Context, embed *discordgo.MessageEmbed) error {
	return mc.Messenger.SendEmbed(ctx, mc.Incoming.ChannelID, embed)
}

func (mc *MessageContext) Reply(ctx context.Context, content string) error {
	return mc.Messenger.Reply(ctx, mc.Incoming.ChannelID, mc.Incoming.MessageID, content)
}

// ReplyText replies with the catalog message key rendered with data.
func (mc *MessageContext) ReplyText(ctx context.Context, key string, data any) error {
	return mc.Reply(ctx, mc.Text(key, data))
}

// Help sends the help page of the named command.
func (mc *MessageContext) Help(ctx context.Context, name string) error {
	if mc.help == nil {
		return nil
	}
	return mc.help.Send(ctx, mc, name)
}

// HelpList sends the list of every public command.
func (mc *MessageContext) HelpList(ctx context.Context) error {
	if mc.help == nil {
		return nil
	}
	return mc.SendEmbed(ctx, mc.help.List(mc.Prefix(), mc.Color()))
}
