package discord

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"github.com/kyofu-bot/kyofu/pkg/retrylimit"
)

// maxAvatarBytes caps the avatar downloaded for a new webhook.
const maxAvatarBytes = 8 << 20

// Messenger sends through the Discord REST API. Every call waits on the shared adaptive
// limiter and is retried on 429 and 5xx answers.
type Messenger struct {
	s     *discordgo.Session
	retry *retrylimit.Retrier
	http  *http.Client
	log   *zap.Logger
}

func NewMessenger(s *discordgo.Session, retry *retrylimit.Retrier, log *zap.Logger) *Messenger {
	if log == nil {
		log = zap.NewNop()
	}
	return &Messenger{s: s, retry: retry, http: s.Client, log: log}
}

func (m *Messenger) Send(ctx context.Context, channelID, content string) error {
	return m.retry.Do(ctx, func() error {
		_, err := m.s.ChannelMessageSend(channelID, content, discordgo.WithContext(ctx))
		return err
	})
}

func (m *Messenger) SendEmbed(ctx context.Context, channelID string, embed *discordgo.MessageEmbed) error {
	return m.retry.Do(ctx, func() error {
		_, err := m.s.ChannelMessageSendEmbed(channelID, embed, discordgo.WithContext(ctx))
		return err
	})
}

func (m *Messenger) Reply(ctx context.Context, channelID, messageID, content string) error {
	ref := &discordgo.MessageReference{MessageID: messageID, ChannelID: channelID}
	return m.retry.Do(ctx, func() error {
		_, err := m.s.ChannelMessageSendReply(channelID, content, ref, discordgo.WithContext(ctx))
		return err
	})
}

func (m *Messenger) Delete(ctx context.Context, channelID, messageID string) error {
	return m.retry.Do(ctx, func() error {
		return m.s.ChannelMessageDelete(channelID, messageID, discordgo.WithContext(ctx))
	})
}

func (m *Messenger) ChannelWebhooks(ctx context.Context, channelID string) ([]*discordgo.Webhook, error) {
	var hooks []*discordgo.Webhook
	err := m.retry.Do(ctx, func() error {
		var err error
		hooks, err = m.s.ChannelWebhooks(channelID, discordgo.WithContext(ctx))
		return err
	})
	return hooks, err
}

// CreateWebhook creates a webhook whose avatar is downloaded from avatarURL. A failed
// download leaves the default avatar.
func (m *Messenger) CreateWebhook(ctx context.Context, channelID, name, avatarURL string) (*discordgo.Webhook, error) {
	avatar := ""
	if avatarURL != "" {
		uri, err := avatarDataURI(ctx, m.http, avatarURL)
		if err != nil {
			m.log.Warn("webhook avatar not downloaded", zap.String("url", avatarURL), zap.Error(err))
		}
		avatar = uri
	}

	var wh *discordgo.Webhook
	err := m.retry.Do(ctx, func() error {
		var err error
		wh, err = m.s.WebhookCreate(channelID, name, avatar, discordgo.WithContext(ctx))
		return err
	})
	return wh, err
}

func (m *Messenger) ExecuteWebhook(ctx context.Context, webhook *discordgo.Webhook, content string) error {
	params := &discordgo.WebhookParams{
		Content:         content,
		AllowedMentions: &discordgo.MessageAllowedMentions{Parse: []discordgo.AllowedMentionType{discordgo.AllowedMentionTypeUsers}},
	}
	return m.retry.Do(ctx, func() error {
		_, err := m.s.WebhookExecute(webhook.ID, webhook.Token, false, params, discordgo.WithContext(ctx))
		return err
	})
}

// avatarDataURI downloads an image and encodes it the way the webhook API expects.
func avatarDataURI(ctx context.Context, client *http.Client, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("avatar download: status %d", resp.StatusCode)
	}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxAvatarBytes))
	if err != nil {
		return "", err
	}

	mime := resp.Header.Get("Content-Type")
	if mime == "" {
		mime = http.DetectContentType(raw)
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(raw), nil
}
