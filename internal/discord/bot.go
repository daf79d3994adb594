// Package discord connects the command dispatcher to a Discord gateway session.
package discord

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"github.com/kyofu-bot/kyofu/internal/command"
	"github.com/kyofu-bot/kyofu/internal/config"
	"github.com/kyofu-bot/kyofu/internal/entity"
	"github.com/kyofu-bot/kyofu/internal/msgcat"
	"github.com/kyofu-bot/kyofu/internal/storage"
	"github.com/kyofu-bot/kyofu/pkg/cmd"
	"github.com/kyofu-bot/kyofu/pkg/jobmgr"
	"github.com/kyofu-bot/kyofu/pkg/retrylimit"
)

const intents = discordgo.IntentsGuilds |
	discordgo.IntentsGuildMembers |
	discordgo.IntentsGuildMessages |
	discordgo.IntentsDirectMessages |
	discordgo.IntentsMessageContent

// GuildStore is the part of the profile store the gateway events touch.
type GuildStore interface {
	command.GuildSettings
	EnsureGuild(ctx context.Context, guildID, guildName string) (*storage.GuildProfile, error)
	DeleteGuild(ctx context.Context, guildID string) error
}

// Bot is a Discord bot
type Bot struct {
	cfg        *config.Config
	dg         *discordgo.Session
	store      GuildStore
	catalog    *msgcat.Catalog
	messenger  *Messenger
	dispatcher *command.Dispatcher
	jobs       *jobmgr.Manager
	log        *zap.Logger
}

// New prepares the session and the dispatcher. Nothing connects before Run.
func New(cfg *config.Config, store GuildStore, reg *cmd.Registry, catalog *msgcat.Catalog, log *zap.Logger) (*Bot, error) {
	dg, err := discordgo.New("Bot " + cfg.DiscordToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	dg.Identify.Intents = intents

	retrier := retrylimit.New(retrylimit.NewAdaptiveLimiter(40, 5, 50, 1, 0.5), retrylimit.DefaultConfig(), log.Named("rest"))
	messenger := NewMessenger(dg, retrier, log)

	b := &Bot{
		cfg:       cfg,
		dg:        dg,
		store:     store,
		catalog:   catalog,
		messenger: messenger,
		jobs:      jobmgr.NewManager(log.Named("jobs")),
		log:       log,
	}
	b.dispatcher = command.NewDispatcher(command.Deps{
		Registry:  reg,
		Settings:  store,
		Messenger: messenger,
		Catalog:   catalog,
		Log:       log.Named("dispatch"),
		Reporter:  NewReporter(cfg.ErrorLogChannelID, messenger, log),
		OnDirect:  NewDirectMirror(cfg.DMLogChannelID, messenger, catalog, log).Forward,
	})
	return b, nil
}

// Run opens the gateway and serves events until ctx is cancelled.
func (b *Bot) Run(ctx context.Context) error {
	b.dg.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) { b.onReady(ctx, s, r) })
	b.dg.AddHandler(func(s *discordgo.Session, m *discordgo.MessageCreate) { b.onMessageCreate(ctx, s, m) })
	b.dg.AddHandler(func(s *discordgo.Session, g *discordgo.GuildCreate) { b.onGuildCreate(ctx, s, g) })
	b.dg.AddHandler(func(s *discordgo.Session, g *discordgo.GuildDelete) { b.onGuildDelete(ctx, g) })
	b.dg.AddHandler(func(s *discordgo.Session, m *discordgo.GuildMemberAdd) {
		b.greet(ctx, s, m.GuildID, m.User, true)
	})
	b.dg.AddHandler(func(s *discordgo.Session, m *discordgo.GuildMemberRemove) {
		b.greet(ctx, s, m.GuildID, m.User, false)
	})

	if err := b.dg.Open(); err != nil {
		return fmt.Errorf("failed to open Discord session: %w", err)
	}
	defer b.dg.Close()

	<-ctx.Done()
	b.log.Info("shutdown signal received, cleaning up")
	b.jobs.StopAll()
	return nil
}

func (b *Bot) onReady(ctx context.Context, s *discordgo.Session, r *discordgo.Ready) {
	b.log.Info("connected", zap.String("user", r.User.Username), zap.Int("guilds", len(r.Guilds)))

	run := presenceRunner(s, b.catalog, b.cfg.DefaultPrefix, b.cfg.StatusInterval, b.log)
	// Ready fires again after a reconnect; the rotation keeps running.
	if err := b.jobs.Start(ctx, presenceJob, run); err != nil {
		b.log.Debug("presence rotation already running")
	}
}

func (b *Bot) onMessageCreate(ctx context.Context, s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil {
		return
	}
	ch, err := s.State.Channel(m.ChannelID)
	if err != nil {
		if ch, err = s.Channel(m.ChannelID, discordgo.WithContext(ctx)); err != nil {
			b.log.Warn("channel lookup failed", zap.String("channel", m.ChannelID), zap.Error(err))
		}
	}

	guildID := m.GuildID
	snapshot := func() *entity.Snapshot {
		snap, err := entity.FromState(s.State, guildID)
		if err != nil {
			b.log.Warn("guild snapshot unavailable", zap.String("guild", guildID), zap.Error(err))
			return nil
		}
		return snap
	}

	b.dispatcher.Dispatch(ctx, newIncoming(m.Message, ch, snapshot))
}

func (b *Bot) onGuildCreate(ctx context.Context, s *discordgo.Session, g *discordgo.GuildCreate) {
	if _, err := b.store.EnsureGuild(ctx, g.ID, g.Name); err != nil {
		b.log.Error("guild profile not created", zap.String("guild", g.ID), zap.Error(err))
	}
	if err := s.RequestGuildMembers(g.ID, "", 0, "", false); err != nil {
		b.log.Warn("member list not requested", zap.String("guild", g.ID), zap.Error(err))
	}
}

// onGuildDelete forgets the guild when the bot is removed from it. An outage also
// produces this event, flagged Unavailable, and keeps the profile.
func (b *Bot) onGuildDelete(ctx context.Context, g *discordgo.GuildDelete) {
	if g.Unavailable {
		return
	}
	if err := b.store.DeleteGuild(ctx, g.ID); err != nil {
		b.log.Error("guild profile not deleted", zap.String("guild", g.ID), zap.Error(err))
		return
	}
	b.log.Info("left guild", zap.String("guild", g.ID))
}

func (b *Bot) greet(ctx context.Context, s *discordgo.Session, guildID string, u *discordgo.User, joined bool) {
	if u == nil || u.Bot {
		return
	}
	profile := b.store.GuildSettings(ctx, guildID)
	guildName := profile.GuildName
	if g, err := s.State.Guild(guildID); err == nil {
		guildName = g.Name
	}

	channelID, text, ok := greeting(profile, joined, entity.NewUser(u), guildName)
	if !ok {
		return
	}
	if err := b.messenger.Send(ctx, channelID, text); err != nil {
		b.log.Warn("greeting not sent", zap.String("guild", guildID), zap.Error(err))
	}
}

func greeting(profile storage.GuildProfile, joined bool, u entity.User, guildName string) (channelID, text string, ok bool) {
	g := profile.Leave
	if joined {
		g = profile.Join
	}
	if !g.Enabled() {
		return "", "", false
	}
	return g.ChannelID, g.Render(u.Mention(), guildName), true
}

// newIncoming strips the discordgo types from a received message. ch may be nil when
// the channel could not be looked up.
func newIncoming(m *discordgo.Message, ch *discordgo.Channel, snapshot func() *entity.Snapshot) *command.Incoming {
	in := &command.Incoming{
		GuildID:   m.GuildID,
		ChannelID: m.ChannelID,
		MessageID: m.ID,
		Kind:      channelKind(m, ch),
		Author:    entity.NewUser(m.Author),
		Content:   m.Content,
		Snapshot:  snapshot,
	}
	if ch != nil {
		in.ChannelName = ch.Name
	}
	if m.Member != nil {
		member := *m.Member
		member.User = m.Author
		em := entity.NewMember(m.GuildID, &member)
		in.Member = &em
	}
	for _, a := range m.Attachments {
		in.Attachments = append(in.Attachments, a.URL)
	}
	return in
}

func channelKind(m *discordgo.Message, ch *discordgo.Channel) command.ChannelKind {
	if ch == nil {
		if m.GuildID == "" {
			return command.ChannelDirect
		}
		return command.ChannelGuildText
	}
	switch ch.Type {
	case discordgo.ChannelTypeGuildText:
		return command.ChannelGuildText
	case discordgo.ChannelTypeDM:
		return command.ChannelDirect
	default:
		return command.ChannelOther
	}
}
